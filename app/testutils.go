package main

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/marisolvega/inkpost/internal/blogservice"
	"github.com/marisolvega/inkpost/internal/common"
	"github.com/marisolvega/inkpost/internal/userservice"
)

// newTestApplication wires the application against throwaway containers. The
// mail consumer is not started; registration events just sit in the queue.
func newTestApplication(t *testing.T) *application {
	db := common.TestDB("file://../migrations", t)

	broker, err := common.NewMessageBroker(common.TestRabbitMQ(t))
	if err != nil {
		t.Fatalf("could not connect to the message broker: %v", err)
	}

	err = common.SetupUserExchange(broker)
	if err != nil {
		t.Fatalf("could not setup the user exchange: %v", err)
	}

	t.Cleanup(func() {
		broker.Close()
		common.CloseDB(db)
	})

	cfg := &Config{
		Port:        "4000",
		Environment: "test",
		Version:     "test",
		JWTSecret:   "test-secret",
	}

	return &application{
		config:      cfg,
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		userService: userservice.NewUserService(db, broker, userservice.NewTokenManager(cfg.JWTSecret)),
		blogService: blogservice.NewBlogService(db),
		broker:      broker,
	}
}

type testServer struct {
	*httptest.Server
}

func newTestServer(h http.Handler) *testServer {
	return &testServer{httptest.NewServer(h)}
}

func (ts *testServer) do(t *testing.T, method, urlPath, token string, body []byte) (int, string) {
	req, err := http.NewRequest(method, ts.URL+urlPath, bytes.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	res, err := ts.Client().Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer res.Body.Close()

	resBody, err := io.ReadAll(res.Body)
	if err != nil {
		t.Fatal(err)
	}

	return res.StatusCode, string(bytes.TrimSpace(resBody))
}

func (ts *testServer) get(t *testing.T, urlPath string) (int, string) {
	return ts.do(t, http.MethodGet, urlPath, "", nil)
}

func (ts *testServer) post(t *testing.T, urlPath, token string, body []byte) (int, string) {
	return ts.do(t, http.MethodPost, urlPath, token, body)
}

func (ts *testServer) put(t *testing.T, urlPath, token string, body []byte) (int, string) {
	return ts.do(t, http.MethodPut, urlPath, token, body)
}

func (ts *testServer) delete(t *testing.T, urlPath, token string) (int, string) {
	return ts.do(t, http.MethodDelete, urlPath, token, nil)
}
