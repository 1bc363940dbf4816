package blogservice

import (
	"context"
	"database/sql"

	"github.com/marisolvega/inkpost/internal/common"
)

func NewBlogService(db *sql.DB) *BlogService {
	return &BlogService{m: newBlogModel(db)}
}

type CreateBlogRequest struct {
	Title       string
	Description string
	Body        string
	Tags        []string
	State       State
	AuthorID    int
}

// CreateBlog persists a new blog post owned by the authenticated user. The
// state defaults to draft unless the caller explicitly supplies one, and the
// reading time is derived from the body.
func (s *BlogService) CreateBlog(ctx context.Context, req *CreateBlogRequest) (*Blog, error) {
	if req.State == "" {
		req.State = StateDraft
	}

	v := common.NewValidator()
	validateTitle(v, req.Title)
	validateBody(v, req.Body)
	validateState(v, req.State)
	validateInt(v, req.AuthorID, "author")
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	blog := Blog{
		Title:       req.Title,
		Description: req.Description,
		Body:        req.Body,
		Tags:        req.Tags,
		State:       req.State,
		Author:      Author{ID: req.AuthorID},
		ReadingTime: ReadingTime(req.Body),
	}
	if blog.Tags == nil {
		blog.Tags = []string{}
	}

	err := s.m.insert(ctx, &blog)
	if err != nil {
		return nil, err
	}

	return &blog, nil
}

// GetPublishedBlog returns a published blog by ID and counts the read.
// Unpublished posts are invisible here, to their author included.
func (s *BlogService) GetPublishedBlog(ctx context.Context, id int) (*Blog, error) {
	v := common.NewValidator()
	validateInt(v, id, "id")
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	return s.m.getPublished(ctx, id)
}

// GetBlogByID returns a blog in any state. Callers use it for ownership
// checks before a mutation; it never increments the read count.
func (s *BlogService) GetBlogByID(ctx context.Context, id int) (*Blog, error) {
	v := common.NewValidator()
	validateInt(v, id, "id")
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	return s.m.getByID(ctx, id)
}

// GetBlogs lists published blogs matching the filter. Page defaults to 1,
// limit to 20 (capped at 100), and ordering to newest first.
func (s *BlogService) GetBlogs(ctx context.Context, f Filter) ([]Blog, error) {
	if f.Page < 1 {
		f.Page = 1
	}

	if f.Limit < 1 {
		f.Limit = 20
	}

	if f.Limit > 100 {
		f.Limit = 100
	}

	if f.SortBy == "" {
		f.SortBy = "timestamp"
	}

	if f.Order == "" {
		f.Order = "desc"
	}

	v := common.NewValidator()
	_, ok := sortColumns[f.SortBy]
	v.Check(ok, "sortBy", "must be one of timestamp, read_count, reading_time, title")
	v.Check(common.PermittedValue(f.Order, "asc", "desc"), "order", "must be either asc or desc")
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	return s.m.list(ctx, f)
}

type UpdateBlogRequest struct {
	ID          int
	Title       string
	Description string
	Body        string
	Tags        []string
	State       State
	AuthorID    int
}

// UpdateBlog overwrites every mutable field of a blog post and recomputes
// the reading time. Only the author may call this; the author reference
// itself is immutable.
func (s *BlogService) UpdateBlog(ctx context.Context, req *UpdateBlogRequest) (*Blog, error) {
	v := common.NewValidator()
	validateTitle(v, req.Title)
	validateBody(v, req.Body)
	validateState(v, req.State)
	validateInt(v, req.ID, "id")
	validateInt(v, req.AuthorID, "author")
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	blog := Blog{
		ID:          req.ID,
		Title:       req.Title,
		Description: req.Description,
		Body:        req.Body,
		Tags:        req.Tags,
		State:       req.State,
		Author:      Author{ID: req.AuthorID},
		ReadingTime: ReadingTime(req.Body),
	}
	if blog.Tags == nil {
		blog.Tags = []string{}
	}

	err := s.m.update(ctx, &blog)
	if err != nil {
		return nil, err
	}

	return &blog, nil
}

// DeleteBlog removes a blog post permanently. Comments referencing it are
// left in place.
func (s *BlogService) DeleteBlog(ctx context.Context, blogID, authorID int) error {
	v := common.NewValidator()
	validateInt(v, blogID, "id")
	validateInt(v, authorID, "author")
	if !v.Valid() {
		return v.ValidationError()
	}

	return s.m.delete(ctx, blogID, authorID)
}

// AddComment attaches a comment to a blog on behalf of the authenticated
// user. The referenced blog is not verified to exist.
func (s *BlogService) AddComment(ctx context.Context, userID, blogID int, text string) (*Comment, error) {
	v := common.NewValidator()
	validateText(v, text)
	validateInt(v, blogID, "blog")
	validateInt(v, userID, "user")
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	comment := Comment{
		Text:     text,
		PostedBy: userID,
		BlogID:   blogID,
	}

	err := s.m.insertComment(ctx, &comment)
	if err != nil {
		return nil, err
	}

	return &comment, nil
}
