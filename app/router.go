package main

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
)

func (app *application) routes() http.Handler {
	router := httprouter.New()

	router.NotFound = http.HandlerFunc(app.notFoundErrorResponse)
	router.MethodNotAllowed = http.HandlerFunc(app.methodNotAllowedErrorResponse)

	router.HandlerFunc(http.MethodGet, "/healthcheck", app.healthCheckHandler)

	// user resource
	router.HandlerFunc(http.MethodPost, "/users/register", app.registerUserHandler)
	router.HandlerFunc(http.MethodPost, "/users/login", app.loginUserHandler)

	// blog resource; the public routes see published posts only
	router.HandlerFunc(http.MethodGet, "/blogs", app.listBlogsHandler)
	router.HandlerFunc(http.MethodGet, "/blogs/:id", app.getBlogHandler)
	router.HandlerFunc(http.MethodPost, "/blogs", app.requireAuthUser(app.createBlogHandler))
	router.HandlerFunc(http.MethodPut, "/blogs/:id", app.requireAuthUser(app.updateBlogHandler))
	router.HandlerFunc(http.MethodDelete, "/blogs/:id", app.requireAuthUser(app.deleteBlogHandler))

	// comment sub-resource
	router.HandlerFunc(http.MethodPost, "/blogs/:id/comments", app.requireAuthUser(app.addCommentHandler))

	return app.recoverPanic(app.logRequest(app.authenticate(router)))
}
