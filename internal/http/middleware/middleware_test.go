package middleware

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/procurement-backend/internal/observability"
	"github.com/yungbote/procurement-backend/internal/platform/ctxutil"
	"github.com/yungbote/procurement-backend/internal/platform/logger"
)

type stubAuth struct {
	actor *ctxutil.ActorData
	err   error
}

func (s stubAuth) SetContextFromToken(ctx context.Context, token string) (context.Context, error) {
	if s.err != nil {
		return ctx, s.err
	}
	return ctxutil.WithActorData(ctx, s.actor), nil
}

func (s stubAuth) IssueToken(actor ctxutil.ActorData) (string, error) { return "t", nil }

func authEngine(auth stubAuth) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(NewAuthMiddleware(logger.Nop(), auth).RequireAuth())
	r.GET("/who", func(c *gin.Context) {
		c.String(http.StatusOK, ctxutil.GetActorData(c.Request.Context()).ID)
	})
	return r
}

func TestRequireAuth(t *testing.T) {
	cases := []struct {
		name   string
		auth   stubAuth
		header string
		status int
	}{
		{"missing header", stubAuth{actor: &ctxutil.ActorData{ID: "u1"}}, "", http.StatusUnauthorized},
		{"bad scheme", stubAuth{actor: &ctxutil.ActorData{ID: "u1"}}, "Basic abc", http.StatusUnauthorized},
		{"rejected token", stubAuth{err: errors.New("expired")}, "Bearer abc", http.StatusUnauthorized},
		{"no actor", stubAuth{actor: &ctxutil.ActorData{}}, "Bearer abc", http.StatusForbidden},
		{"ok", stubAuth{actor: &ctxutil.ActorData{ID: "u1"}}, "bearer abc", http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/who", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			authEngine(tc.auth).ServeHTTP(rec, req)
			require.Equal(t, tc.status, rec.Code)
			if tc.status == http.StatusOK {
				assert.Equal(t, "u1", rec.Body.String())
			} else {
				assert.Contains(t, rec.Body.String(), `"error"`)
			}
		})
	}
}

func TestTraceContextAndMetrics(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := observability.NewMetrics()
	r := gin.New()
	r.Use(TraceContext(), Metrics(m))
	r.GET("/ping", func(c *gin.Context) {
		td := ctxutil.GetTraceData(c.Request.Context())
		c.String(http.StatusOK, td.RequestID)
	})

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(HeaderRequestID, "req-123")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, "req-123", rec.Body.String())
	assert.Equal(t, "req-123", rec.Header().Get(HeaderRequestID))
	assert.NotEmpty(t, rec.Header().Get(HeaderTraceID))

	var buf bytes.Buffer
	require.NoError(t, m.WritePrometheus(&buf))
	assert.True(t, strings.Contains(buf.String(), `route="/ping",status="200"`))
}
