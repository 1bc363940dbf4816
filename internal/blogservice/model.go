package blogservice

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"github.com/marisolvega/inkpost/internal/common"
)

var (
	ErrRecordNotFound = errors.New("record not found")
	ErrDuplicateTitle = errors.New("duplicate title")
	ErrUserForeignKey = errors.New("author does not exist")
)

// sortColumns whitelists the sortable fields; keys are the values accepted
// on the wire.
var sortColumns = map[string]string{
	"timestamp":    "created_at",
	"read_count":   "read_count",
	"reading_time": "reading_time",
	"title":        "title",
}

func newBlogModel(db *sql.DB) *BlogModel {
	return &BlogModel{db: db}
}

func (m *BlogModel) insert(ctx context.Context, b *Blog) error {
	query := `
		INSERT INTO blogs (title, description, body, author_id, tags, state, reading_time)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, read_count, created_at`

	args := []any{
		b.Title,
		b.Description,
		b.Body,
		b.Author.ID,
		pq.Array(b.Tags),
		string(b.State),
		b.ReadingTime,
	}

	err := m.db.QueryRowContext(ctx, query, args...).Scan(&b.ID, &b.ReadCount, &b.CreatedAt)
	if err != nil {
		switch {
		case common.UniqueViolation(err, "blogs_title_key"):
			return ErrDuplicateTitle
		case common.ForeignKeyViolation(err, "blogs_author_id_fkey"):
			return ErrUserForeignKey
		default:
			return err
		}
	}

	return nil
}

// getPublished fetches a published blog and bumps its read count in the same
// statement, so concurrent readers never lose increments.
func (m *BlogModel) getPublished(ctx context.Context, id int) (*Blog, error) {
	query := `
		UPDATE blogs b
		SET read_count = read_count + 1
		FROM users u
		WHERE b.id = $1 AND b.state = 'published' AND u.id = b.author_id
		RETURNING b.id, b.title, b.description, b.body, b.author_id, u.first_name, u.last_name, b.tags, b.state, b.read_count, b.reading_time, b.created_at`

	var blog Blog
	err := m.db.QueryRowContext(ctx, query, id).Scan(
		&blog.ID, &blog.Title, &blog.Description, &blog.Body,
		&blog.Author.ID, &blog.Author.FirstName, &blog.Author.LastName,
		pq.Array(&blog.Tags), &blog.State, &blog.ReadCount, &blog.ReadingTime, &blog.CreatedAt)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}

	return &blog, nil
}

// getByID fetches a blog regardless of state. Used for ownership checks
// before a mutation; it does not touch the read count.
func (m *BlogModel) getByID(ctx context.Context, id int) (*Blog, error) {
	query := `
		SELECT b.id, b.title, b.description, b.body, b.author_id, u.first_name, u.last_name, b.tags, b.state, b.read_count, b.reading_time, b.created_at
		FROM blogs b
		JOIN users u ON u.id = b.author_id
		WHERE b.id = $1`

	var blog Blog
	err := m.db.QueryRowContext(ctx, query, id).Scan(
		&blog.ID, &blog.Title, &blog.Description, &blog.Body,
		&blog.Author.ID, &blog.Author.FirstName, &blog.Author.LastName,
		pq.Array(&blog.Tags), &blog.State, &blog.ReadCount, &blog.ReadingTime, &blog.CreatedAt)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}

	return &blog, nil
}

// update overwrites every mutable field of the blog. The author predicate is
// a second line of defence; the handler has already checked ownership.
func (m *BlogModel) update(ctx context.Context, b *Blog) error {
	query := `
		UPDATE blogs
		SET title = $1, description = $2, body = $3, tags = $4, state = $5, reading_time = $6
		WHERE id = $7 AND author_id = $8
		RETURNING read_count, created_at`

	args := []any{
		b.Title,
		b.Description,
		b.Body,
		pq.Array(b.Tags),
		string(b.State),
		b.ReadingTime,
		b.ID,
		b.Author.ID,
	}

	err := m.db.QueryRowContext(ctx, query, args...).Scan(&b.ReadCount, &b.CreatedAt)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return ErrRecordNotFound
		case common.UniqueViolation(err, "blogs_title_key"):
			return ErrDuplicateTitle
		default:
			return err
		}
	}

	return nil
}

func (m *BlogModel) delete(ctx context.Context, blogID, authorID int) error {
	query := `
		DELETE FROM blogs
		WHERE id = $1 AND author_id = $2`

	res, err := m.db.ExecContext(ctx, query, blogID, authorID)
	if err != nil {
		return err
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}

	if rows != 1 {
		switch {
		case rows == 0:
			return ErrRecordNotFound
		default:
			return fmt.Errorf("expected 1 row to be affected, got %d", rows)
		}
	}

	return nil
}

// list returns published blogs matching the filter. Predicates are composed
// only from the filter fields that are present; no match yields an empty
// slice, never an error.
func (m *BlogModel) list(ctx context.Context, f Filter) ([]Blog, error) {
	conds := []string{"b.state = 'published'"}
	args := []any{}

	if f.Author != nil {
		args = append(args, *f.Author)
		conds = append(conds, fmt.Sprintf("b.author_id = $%d", len(args)))
	}

	if f.Title != nil {
		args = append(args, *f.Title)
		conds = append(conds, fmt.Sprintf("b.title ILIKE '%%' || $%d || '%%'", len(args)))
	}

	if len(f.Tags) > 0 {
		args = append(args, pq.Array(f.Tags))
		conds = append(conds, fmt.Sprintf("b.tags && $%d", len(args)))
	}

	args = append(args, f.Limit, (f.Page-1)*f.Limit)

	query := fmt.Sprintf(`
		SELECT b.id, b.title, b.description, b.body, b.author_id, u.first_name, u.last_name, b.tags, b.state, b.read_count, b.reading_time, b.created_at
		FROM blogs b
		JOIN users u ON u.id = b.author_id
		WHERE %s
		ORDER BY b.%s %s, b.id ASC
		LIMIT $%d OFFSET $%d`,
		strings.Join(conds, " AND "), sortColumns[f.SortBy], strings.ToUpper(f.Order), len(args)-1, len(args))

	rows, err := m.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	blogs := []Blog{}
	for rows.Next() {
		var blog Blog
		err := rows.Scan(
			&blog.ID, &blog.Title, &blog.Description, &blog.Body,
			&blog.Author.ID, &blog.Author.FirstName, &blog.Author.LastName,
			pq.Array(&blog.Tags), &blog.State, &blog.ReadCount, &blog.ReadingTime, &blog.CreatedAt)
		if err != nil {
			return nil, err
		}
		blogs = append(blogs, blog)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return blogs, nil
}
