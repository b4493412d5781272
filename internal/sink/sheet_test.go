package sink

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"internscout/internal/domain"
)

func posting() domain.Posting {
	return domain.Posting{
		Title:        "MPH Internship",
		Organization: "CDC",
		Location:     "Atlanta, GA",
		Hash:         "0123456789abcdef",
		DateFound:    "2026-03-01",
		Score:        55,
	}
}

func TestForwardSendsPostingJSON(t *testing.T) {
	t.Parallel()

	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	require.NoError(t, NewSheet(srv.URL, 5*time.Second).Forward(context.Background(), posting()))
	assert.Equal(t, "MPH Internship", got["title"])
	assert.Equal(t, "0123456789abcdef", got["hash"])
	assert.Equal(t, "2026-03-01", got["date_found"])
	assert.EqualValues(t, 55, got["score"])
}

func TestForwardNon2xx(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(strings.Repeat("x", 400)))
	}))
	defer srv.Close()

	err := NewSheet(srv.URL, 5*time.Second).Forward(context.Background(), posting())
	require.ErrorIs(t, err, ErrStatus)
	assert.Contains(t, err.Error(), "status 500")
	assert.Less(t, len(err.Error()), 300)
}

func TestForwardTimeout(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	err := NewSheet(srv.URL, 50*time.Millisecond).Forward(context.Background(), posting())
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrStatus)
}
