package userservice

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/marisolvega/inkpost/internal/common"
)

var (
	ErrAuthenticationFailure = errors.New("invalid email or password")
)

func NewUserService(db *sql.DB, mb common.MessageProducer, tm *TokenManager) *UserService {
	return &UserService{
		m:  newUserModel(db),
		mb: mb,
		tm: tm,
	}
}

// Register creates a new user account with a hashed password and publishes a
// user.registered event for the welcome email. The returned profile never
// contains the password hash.
func (s *UserService) Register(ctx context.Context, email, firstName, lastName, password string) (*User, error) {
	v := common.NewValidator()
	validateEmail(v, email)
	validateName(v, firstName, "first_name")
	validateName(v, lastName, "last_name")
	validatePassword(v, password)
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	u := User{
		Email:     email,
		FirstName: firstName,
		LastName:  lastName,
		Password:  Password{Plain: password},
	}

	err := u.Password.set(u.Password.Plain)
	if err != nil {
		return nil, err
	}

	err = s.m.insertUser(ctx, &u)
	if err != nil {
		return nil, err
	}

	event, err := json.Marshal(RegisteredEvent{Email: u.Email, FirstName: u.FirstName})
	if err != nil {
		return nil, err
	}

	err = s.mb.Publish(ctx, event, common.UserRegisteredKey, common.UserExchange)
	if err != nil {
		return nil, err
	}

	return &u, nil
}

// Login verifies the credentials against the stored hash and issues a signed
// bearer token bound to the user. An unknown email returns ErrNotFound and a
// wrong password returns ErrAuthenticationFailure.
func (s *UserService) Login(ctx context.Context, email, password string) (string, *User, error) {
	v := common.NewValidator()
	validateEmail(v, email)
	v.Check(password != "", "password", "must be provided")
	if !v.Valid() {
		return "", nil, v.ValidationError()
	}

	user, err := s.m.getUserByEmail(ctx, email)
	if err != nil {
		return "", nil, err
	}

	ok, err := user.Password.compare(password)
	if err != nil {
		return "", nil, err
	}

	if !ok {
		return "", nil, ErrAuthenticationFailure
	}

	token, err := s.tm.Issue(user.ID)
	if err != nil {
		return "", nil, err
	}

	return token, user, nil
}

// VerifyAccessToken validates a bearer token and returns the user ID it was
// issued for. Verification is stateless; no database access happens here.
func (s *UserService) VerifyAccessToken(token string) (int, error) {
	return s.tm.Verify(token)
}
