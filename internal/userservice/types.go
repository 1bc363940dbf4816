package userservice

import (
	"database/sql"
	"time"

	"github.com/marisolvega/inkpost/internal/common"
)

const (
	// AccessTokenTime is the lifetime of an issued bearer token.
	AccessTokenTime time.Duration = time.Hour
)

type UserService struct {
	m  *DBModel
	mb common.MessageProducer
	tm *TokenManager
}

type DBModel struct {
	db *sql.DB
}

type User struct {
	ID        int       `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Password  Password  `json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

type Password struct {
	Plain string `json:"-"`
	hash  []byte `json:"-"`
}

// RegisteredEvent is the payload published to the user exchange when a new
// account is created. The mail service consumes it.
type RegisteredEvent struct {
	Email     string
	FirstName string
}
