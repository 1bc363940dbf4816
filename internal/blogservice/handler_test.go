package blogservice

import (
	"context"
	"crypto/rand"
	"database/sql"
	"strings"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"

	"github.com/marisolvega/inkpost/internal/common"
)

// setupTestUser creates a user row to own blogs during the tests.
func setupTestUser(db *sql.DB, email string) (int, error) {
	randomBytes := make([]byte, 16)
	_, err := rand.Read(randomBytes)
	if err != nil {
		return 0, err
	}

	query := `
		INSERT INTO users (email, first_name, last_name, password)
		VALUES ($1, $2, $3, $4)
		RETURNING id`

	var id int
	err = db.QueryRow(query, email, "Test", "User", randomBytes).Scan(&id)
	if err != nil {
		return 0, err
	}

	return id, nil
}

func setupTestEnvironment(t *testing.T) (*BlogService, *sql.DB, func() error, int) {
	db := common.TestDB("file://../../migrations", t)

	id, err := setupTestUser(db, "testuser@example.com")
	assert.NoError(t, err)

	cleanup := func() error {
		_, err := db.Exec("DELETE FROM comments")
		if err != nil {
			return err
		}

		_, err = db.Exec("DELETE FROM blogs")
		return err
	}

	return NewBlogService(db), db, cleanup, id
}

func createTestBlog(db *sql.DB, title string, state State, tags []string, authorID int) (int, error) {
	query := `
		INSERT INTO blogs (title, description, body, author_id, tags, state, reading_time)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`

	var id int
	err := db.QueryRow(query, title, "a description", "some body text", authorID, pq.Array(tags), string(state), 1).Scan(&id)
	return id, err
}

func TestCreateBlog(t *testing.T) {
	s, _, cleanup, userID := setupTestEnvironment(t)

	testCases := []struct {
		name        string
		req         *CreateBlogRequest
		wantErr     error
		wantState   State
		wantMinutes int
	}{
		{
			name: "valid blog defaults to draft",
			req: &CreateBlogRequest{
				Title:    "Test Blog",
				Body:     strings.Repeat("word ", 200),
				Tags:     []string{"go", "testing"},
				AuthorID: userID,
			},
			wantState:   StateDraft,
			wantMinutes: 1,
		},
		{
			name: "explicitly published",
			req: &CreateBlogRequest{
				Title:    "Published Blog",
				Body:     strings.Repeat("word ", 201),
				State:    StatePublished,
				AuthorID: userID,
			},
			wantState:   StatePublished,
			wantMinutes: 2,
		},
		{
			name: "missing title",
			req: &CreateBlogRequest{
				Body:     "some body",
				AuthorID: userID,
			},
			wantErr: common.ValidationError{Errors: map[string]string{"title": "must be provided"}},
		},
		{
			name: "missing body",
			req: &CreateBlogRequest{
				Title:    "No Body",
				AuthorID: userID,
			},
			wantErr: common.ValidationError{Errors: map[string]string{"body": "must be provided"}},
		},
		{
			name: "invalid state",
			req: &CreateBlogRequest{
				Title:    "Bad State",
				Body:     "some body",
				State:    "archived",
				AuthorID: userID,
			},
			wantErr: common.ValidationError{Errors: map[string]string{"state": "must be either draft or published"}},
		},
		{
			name: "unknown author",
			req: &CreateBlogRequest{
				Title:    "Orphan Blog",
				Body:     "some body",
				AuthorID: 99999,
			},
			wantErr: ErrUserForeignKey,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctx := context.Background()

			blog, err := s.CreateBlog(ctx, tc.req)
			assert.Equal(t, tc.wantErr, err)

			if err == nil {
				assert.NotZero(t, blog.ID)
				assert.Equal(t, tc.wantState, blog.State)
				assert.Equal(t, tc.wantMinutes, blog.ReadingTime)
				assert.Equal(t, 0, blog.ReadCount)
			}
		})
	}

	t.Run("duplicate title", func(t *testing.T) {
		_, err := s.CreateBlog(context.Background(), &CreateBlogRequest{
			Title:    "Test Blog",
			Body:     "another body",
			AuthorID: userID,
		})
		assert.ErrorIs(t, err, ErrDuplicateTitle)
	})

	t.Cleanup(func() {
		assert.NoError(t, cleanup())
	})
}

func TestGetPublishedBlog(t *testing.T) {
	s, db, cleanup, userID := setupTestEnvironment(t)
	ctx := context.Background()

	draftID, err := createTestBlog(db, "Draft Blog", StateDraft, []string{"go"}, userID)
	assert.NoError(t, err)

	publishedID, err := createTestBlog(db, "Published Blog", StatePublished, []string{"go"}, userID)
	assert.NoError(t, err)

	t.Run("draft is invisible, even to the author", func(t *testing.T) {
		_, err := s.GetPublishedBlog(ctx, draftID)
		assert.ErrorIs(t, err, ErrRecordNotFound)
	})

	t.Run("unknown id", func(t *testing.T) {
		_, err := s.GetPublishedBlog(ctx, 99999)
		assert.ErrorIs(t, err, ErrRecordNotFound)
	})

	t.Run("each read increments the count by one", func(t *testing.T) {
		blog, err := s.GetPublishedBlog(ctx, publishedID)
		assert.NoError(t, err)
		assert.Equal(t, 1, blog.ReadCount)
		assert.Equal(t, "Test", blog.Author.FirstName)
		assert.Equal(t, "User", blog.Author.LastName)

		blog, err = s.GetPublishedBlog(ctx, publishedID)
		assert.NoError(t, err)
		assert.Equal(t, 2, blog.ReadCount)
	})

	t.Run("draft read count untouched", func(t *testing.T) {
		var count int
		err := db.QueryRow("SELECT read_count FROM blogs WHERE id = $1", draftID).Scan(&count)
		assert.NoError(t, err)
		assert.Equal(t, 0, count)
	})

	t.Cleanup(func() {
		assert.NoError(t, cleanup())
	})
}

func TestGetBlogs(t *testing.T) {
	s, db, cleanup, userID := setupTestEnvironment(t)
	ctx := context.Background()

	otherID, err := setupTestUser(db, "other@example.com")
	assert.NoError(t, err)

	_, err = createTestBlog(db, "Alpha Adventures", StatePublished, []string{"go", "web"}, userID)
	assert.NoError(t, err)
	_, err = createTestBlog(db, "Baking Bread", StatePublished, []string{"cooking"}, otherID)
	assert.NoError(t, err)
	_, err = createTestBlog(db, "Hidden Draft", StateDraft, []string{"go"}, userID)
	assert.NoError(t, err)

	t.Run("lists published posts only", func(t *testing.T) {
		blogs, err := s.GetBlogs(ctx, Filter{})
		assert.NoError(t, err)
		assert.Len(t, blogs, 2)
		for _, b := range blogs {
			assert.Equal(t, StatePublished, b.State)
		}
	})

	t.Run("title filter is a case-insensitive substring match", func(t *testing.T) {
		title := "alpha"
		blogs, err := s.GetBlogs(ctx, Filter{Title: &title})
		assert.NoError(t, err)
		assert.Len(t, blogs, 1)
		assert.Equal(t, "Alpha Adventures", blogs[0].Title)
	})

	t.Run("tags filter matches any of the given tags", func(t *testing.T) {
		blogs, err := s.GetBlogs(ctx, Filter{Tags: []string{"web", "news"}})
		assert.NoError(t, err)
		assert.Len(t, blogs, 1)
		assert.Equal(t, "Alpha Adventures", blogs[0].Title)
	})

	t.Run("author filter", func(t *testing.T) {
		blogs, err := s.GetBlogs(ctx, Filter{Author: &otherID})
		assert.NoError(t, err)
		assert.Len(t, blogs, 1)
		assert.Equal(t, "Baking Bread", blogs[0].Title)
	})

	t.Run("no matches yields an empty list, not an error", func(t *testing.T) {
		title := "no such title"
		blogs, err := s.GetBlogs(ctx, Filter{Title: &title})
		assert.NoError(t, err)
		assert.Empty(t, blogs)
	})

	t.Run("pagination", func(t *testing.T) {
		page1, err := s.GetBlogs(ctx, Filter{Page: 1, Limit: 1})
		assert.NoError(t, err)
		assert.Len(t, page1, 1)

		page2, err := s.GetBlogs(ctx, Filter{Page: 2, Limit: 1})
		assert.NoError(t, err)
		assert.Len(t, page2, 1)
		assert.NotEqual(t, page1[0].ID, page2[0].ID)

		page3, err := s.GetBlogs(ctx, Filter{Page: 3, Limit: 1})
		assert.NoError(t, err)
		assert.Empty(t, page3)
	})

	t.Run("sort by title ascending", func(t *testing.T) {
		blogs, err := s.GetBlogs(ctx, Filter{SortBy: "title", Order: "asc"})
		assert.NoError(t, err)
		assert.Len(t, blogs, 2)
		assert.Equal(t, "Alpha Adventures", blogs[0].Title)
		assert.Equal(t, "Baking Bread", blogs[1].Title)
	})

	t.Run("invalid sort field", func(t *testing.T) {
		_, err := s.GetBlogs(ctx, Filter{SortBy: "password"})
		assert.Error(t, err)
		assert.ErrorAs(t, err, &common.ValidationError{})
	})

	t.Cleanup(func() {
		assert.NoError(t, cleanup())
	})
}

func TestUpdateBlog(t *testing.T) {
	s, db, cleanup, userID := setupTestEnvironment(t)
	ctx := context.Background()

	otherID, err := setupTestUser(db, "other@example.com")
	assert.NoError(t, err)

	blogID, err := createTestBlog(db, "Original Title", StateDraft, []string{"go"}, userID)
	assert.NoError(t, err)

	t.Run("author replaces every mutable field", func(t *testing.T) {
		blog, err := s.UpdateBlog(ctx, &UpdateBlogRequest{
			ID:       blogID,
			Title:    "New Title",
			Body:     strings.Repeat("word ", 401),
			Tags:     []string{"updated"},
			State:    StatePublished,
			AuthorID: userID,
		})
		assert.NoError(t, err)
		assert.Equal(t, "New Title", blog.Title)
		assert.Equal(t, "", blog.Description)
		assert.Equal(t, StatePublished, blog.State)
		assert.Equal(t, []string{"updated"}, blog.Tags)
		assert.Equal(t, 3, blog.ReadingTime)
	})

	t.Run("non-author cannot update", func(t *testing.T) {
		_, err := s.UpdateBlog(ctx, &UpdateBlogRequest{
			ID:       blogID,
			Title:    "Hijacked",
			Body:     "some body",
			State:    StateDraft,
			AuthorID: otherID,
		})
		assert.ErrorIs(t, err, ErrRecordNotFound)
	})

	t.Run("unknown blog", func(t *testing.T) {
		_, err := s.UpdateBlog(ctx, &UpdateBlogRequest{
			ID:       99999,
			Title:    "Nothing Here",
			Body:     "some body",
			State:    StateDraft,
			AuthorID: userID,
		})
		assert.ErrorIs(t, err, ErrRecordNotFound)
	})

	t.Cleanup(func() {
		assert.NoError(t, cleanup())
	})
}

func TestDeleteBlog(t *testing.T) {
	s, db, cleanup, userID := setupTestEnvironment(t)
	ctx := context.Background()

	otherID, err := setupTestUser(db, "other@example.com")
	assert.NoError(t, err)

	blogID, err := createTestBlog(db, "Doomed Blog", StatePublished, nil, userID)
	assert.NoError(t, err)

	t.Run("non-author cannot delete", func(t *testing.T) {
		err := s.DeleteBlog(ctx, blogID, otherID)
		assert.ErrorIs(t, err, ErrRecordNotFound)
	})

	t.Run("author deletes permanently", func(t *testing.T) {
		err := s.DeleteBlog(ctx, blogID, userID)
		assert.NoError(t, err)

		err = s.DeleteBlog(ctx, blogID, userID)
		assert.ErrorIs(t, err, ErrRecordNotFound)
	})

	t.Cleanup(func() {
		assert.NoError(t, cleanup())
	})
}

func TestAddComment(t *testing.T) {
	s, db, cleanup, userID := setupTestEnvironment(t)
	ctx := context.Background()

	blogID, err := createTestBlog(db, "Commented Blog", StatePublished, nil, userID)
	assert.NoError(t, err)

	t.Run("valid comment", func(t *testing.T) {
		comment, err := s.AddComment(ctx, userID, blogID, "nice post")
		assert.NoError(t, err)
		assert.NotZero(t, comment.ID)
		assert.Equal(t, userID, comment.PostedBy)
		assert.Equal(t, blogID, comment.BlogID)
		assert.False(t, comment.CreatedAt.IsZero())
	})

	t.Run("empty text", func(t *testing.T) {
		_, err := s.AddComment(ctx, userID, blogID, "")
		assert.Equal(t, common.ValidationError{Errors: map[string]string{"text": "must be provided"}}, err)
	})

	// the referenced blog is not verified to exist
	t.Run("comment on unknown blog is accepted", func(t *testing.T) {
		comment, err := s.AddComment(ctx, userID, 99999, "shouting into the void")
		assert.NoError(t, err)
		assert.Equal(t, 99999, comment.BlogID)
	})

	t.Cleanup(func() {
		assert.NoError(t, cleanup())
	})
}
