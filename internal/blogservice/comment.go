package blogservice

import "context"

// insertComment attaches a comment to a blog ID. The blog is deliberately
// not checked for existence; comments to unknown blogs are accepted and
// comments survive the deletion of their blog.
func (m *BlogModel) insertComment(ctx context.Context, c *Comment) error {
	query := `
		INSERT INTO comments (text, posted_by, blog_id)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`

	err := m.db.QueryRowContext(ctx, query, c.Text, c.PostedBy, c.BlogID).Scan(&c.ID, &c.CreatedAt)
	if err != nil {
		return err
	}

	return nil
}
