package blogservice

import (
	"database/sql"
	"time"
)

// State is the lifecycle flag of a blog post. Drafts are invisible to the
// public listing and fetch endpoints.
type State string

const (
	StateDraft     State = "draft"
	StatePublished State = "published"
)

type Author struct {
	ID        int    `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type Blog struct {
	ID          int       `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Body        string    `json:"body"`
	Author      Author    `json:"author"`
	Tags        []string  `json:"tags"`
	State       State     `json:"state"`
	ReadCount   int       `json:"read_count"`
	ReadingTime int       `json:"reading_time"`
	CreatedAt   time.Time `json:"timestamp"`
}

type Comment struct {
	ID        int       `json:"id"`
	Text      string    `json:"text"`
	PostedBy  int       `json:"postedBy"`
	BlogID    int       `json:"blog"`
	CreatedAt time.Time `json:"createdAt"`
}

// Filter narrows and orders a listing of published blogs. Absent fields add
// no predicate; the query is composed only from the fields that are set.
type Filter struct {
	Author *int
	Title  *string
	Tags   []string
	SortBy string
	Order  string
	Page   int
	Limit  int
}

type BlogModel struct {
	db *sql.DB
}

type BlogService struct {
	m *BlogModel
}
