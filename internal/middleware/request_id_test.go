package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tagRequests(capture *string) http.Handler {
	return RequestIDMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if capture != nil {
			*capture = GetRequestID(r.Context())
		}
	}))
}

func TestRequestIDMiddleware_GeneratesUUID(t *testing.T) {
	var ctxID string
	handler := tagRequests(&ctxID)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/state", nil))

	respID := rec.Header().Get(RequestIDHeader)
	require.NotEmpty(t, respID)
	_, err := uuid.Parse(respID)
	assert.NoError(t, err)
	assert.Equal(t, respID, ctxID)
}

func TestRequestIDMiddleware_HonorsValidClientID(t *testing.T) {
	clientID := uuid.New().String()

	var ctxID string
	handler := tagRequests(&ctxID)

	req := httptest.NewRequest("GET", "/cart", nil)
	req.Header.Set(RequestIDHeader, clientID)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, clientID, rec.Header().Get(RequestIDHeader))
	assert.Equal(t, clientID, ctxID)
}

func TestRequestIDMiddleware_ReplacesMalformedClientID(t *testing.T) {
	handler := tagRequests(nil)

	req := httptest.NewRequest("GET", "/cart", nil)
	req.Header.Set(RequestIDHeader, "not-a-uuid; drop table")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	respID := rec.Header().Get(RequestIDHeader)
	assert.NotEqual(t, "not-a-uuid; drop table", respID)
	_, err := uuid.Parse(respID)
	assert.NoError(t, err)
}

func TestRequestIDMiddleware_UniquePerRequest(t *testing.T) {
	handler := tagRequests(nil)

	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest("GET", "/state", nil))

		id := rec.Header().Get(RequestIDHeader)
		assert.False(t, seen[id])
		seen[id] = true
	}
}

func TestGetRequestID_RoundTrip(t *testing.T) {
	ctx := WithRequestID(context.Background(), "trace-me")
	assert.Equal(t, "trace-me", GetRequestID(ctx))
}

func TestGetRequestID_MissingReturnsEmpty(t *testing.T) {
	assert.Empty(t, GetRequestID(context.Background()))
}
