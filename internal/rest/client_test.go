package rest_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironhall/kiosk/internal/rest"
)

func TestGetDecodesJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/user/abc123", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"bsID":"abc123","name":"Jamie"}`))
	}))
	defer srv.Close()

	client := rest.NewClient(srv.URL)

	var result struct {
		BSID string `json:"bsID"`
		Name string `json:"name"`
	}
	err := client.Get(context.Background(), "/api/user/abc123", &result)
	require.NoError(t, err)
	assert.Equal(t, "abc123", result.BSID)
	assert.Equal(t, "Jamie", result.Name)
}

func TestPostSendsJSONBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		body, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"email":"staff@example.com","password":"pw"}`, string(body))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := rest.NewClient(srv.URL)

	err := client.Post(context.Background(), "/login", map[string]string{
		"email":    "staff@example.com",
		"password": "pw",
	}, nil)
	require.NoError(t, err)
}

func TestErrorUsesServerMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"user \"ghost\" was not found"}`))
	}))
	defer srv.Close()

	client := rest.NewClient(srv.URL)

	err := client.Get(context.Background(), "/api/user/ghost", nil)
	require.Error(t, err)
	assert.Equal(t, `user "ghost" was not found`, err.Error())
}

func TestErrorFallsBackToStatusText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("<html>boom</html>"))
	}))
	defer srv.Close()

	client := rest.NewClient(srv.URL)

	err := client.Get(context.Background(), "/api/user/x", nil)
	require.Error(t, err)
	assert.Equal(t, "Internal Server Error", err.Error())
}

func TestCookiesPersistAcrossRequests(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/login":
			http.SetCookie(w, &http.Cookie{Name: "session", Value: "sess_abc", Path: "/"})
			w.WriteHeader(http.StatusOK)
		default:
			cookie, err := r.Cookie("session")
			if err != nil || cookie.Value != "sess_abc" {
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"error":"invalid or expired session"}`))
				return
			}
			w.WriteHeader(http.StatusOK)
		}
	}))
	defer srv.Close()

	client := rest.NewClient(srv.URL)

	require.NoError(t, client.Post(context.Background(), "/login", map[string]string{"email": "a"}, nil))
	require.NoError(t, client.Get(context.Background(), "/api/sheets", nil))
}

func TestUploadSendsMultipart(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "abc123", r.FormValue("bsID"))

		file, header, err := r.FormFile("data")
		require.NoError(t, err)
		defer func() { _ = file.Close() }()
		assert.Equal(t, "abc123.jpg", header.Filename)

		content, err := io.ReadAll(file)
		require.NoError(t, err)
		assert.Equal(t, []byte("not-really-a-jpeg"), content)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"fileID":"file-1"}`))
	}))
	defer srv.Close()

	client := rest.NewClient(srv.URL)

	var result struct {
		FileID string `json:"fileID"`
	}
	err := client.Upload(context.Background(), "/api/upload",
		map[string]string{"bsID": "abc123"}, "data", "abc123.jpg",
		[]byte("not-really-a-jpeg"), &result)
	require.NoError(t, err)
	assert.Equal(t, "file-1", result.FileID)
}
