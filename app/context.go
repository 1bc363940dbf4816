package main

import (
	"context"
	"net/http"
)

type contextKey string

const userIDContextKey = contextKey("userID")

// anonymousUserID marks a request carrying no credential.
const anonymousUserID = 0

func (app *application) setUserIDContext(r *http.Request, userID int) *http.Request {
	ctx := context.WithValue(r.Context(), userIDContextKey, userID)
	return r.WithContext(ctx)
}

func (app *application) getUserIDContext(r *http.Request) int {
	userID, ok := r.Context().Value(userIDContextKey).(int)
	if !ok {
		return anonymousUserID
	}
	return userID
}
