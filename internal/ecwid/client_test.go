package ecwid

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRelayPassesStatusAndBody(t *testing.T) {
	var gotPath, gotAuth string
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte(`{"upstream":"says no"}`))
	}))
	defer upstream.Close()

	c := New("store-1", "secret-token").WithBaseURL(upstream.URL)

	resp, err := c.Products(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, http.StatusTeapot, resp.Status)
	assert.JSONEq(t, `{"upstream":"says no"}`, string(resp.Body))
	assert.Equal(t, "/products", gotPath)
	assert.Equal(t, "Bearer secret-token", gotAuth)
}

func TestCategoriesQuery(t *testing.T) {
	var gotQuery string
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		_, _ = w.Write([]byte(`{"items":[]}`))
	}))
	defer upstream.Close()

	c := New("store-1", "tok").WithBaseURL(upstream.URL)

	resp, err := c.Categories(context.Background())
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.Status)
	assert.Equal(t, "limit=1000", gotQuery)
}

func TestProductEscapesID(t *testing.T) {
	var gotPath string
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		_, _ = w.Write([]byte(`{}`))
	}))
	defer upstream.Close()

	c := New("store-1", "tok").WithBaseURL(upstream.URL)
	_, err := c.Product(context.Background(), "a/b")
	require.NoError(t, err)
	assert.Equal(t, "/products/a%2Fb", gotPath)
}
