package httpclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestGetJSONDecodesBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "b", r.URL.Query().Get("a"))
		_, _ = w.Write([]byte(`{"value":42}`))
	}))
	defer srv.Close()

	c := New(time.Second, "test", zap.NewNop())
	var out struct {
		Value int `json:"value"`
	}
	require.NoError(t, c.GetJSON(context.Background(), srv.URL, map[string]string{"a": "b"}, &out))
	assert.Equal(t, 42, out.Value)
}

func TestGetJSONNonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := New(time.Second, "test", zap.NewNop())
	err := c.GetJSON(context.Background(), srv.URL, nil, &struct{}{})
	assert.True(t, IsStatus(err, http.StatusServiceUnavailable))
	assert.False(t, IsStatus(err, http.StatusOK))
}

func TestGetJSONTimesOut(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer srv.Close()
	defer close(release)

	c := New(50*time.Millisecond, "test", zap.NewNop())
	start := time.Now()
	err := c.GetJSON(context.Background(), srv.URL, nil, &struct{}{})
	assert.Error(t, err)
	assert.Less(t, time.Since(start), time.Second)
}

func TestGetJSONCancelledContext(t *testing.T) {
	c := New(time.Second, "test", zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := c.GetJSON(ctx, "http://127.0.0.1:1", nil, &struct{}{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestGetJSONMalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"value":`))
	}))
	defer srv.Close()

	c := New(time.Second, "test", zap.NewNop())
	var out map[string]any
	assert.Error(t, c.GetJSON(context.Background(), srv.URL, nil, &out))
}
