package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/startup-toolkit/internal/adapters/http/dto"
	"github.com/jsamuelsen/startup-toolkit/internal/platform/config"
	"github.com/jsamuelsen/startup-toolkit/internal/platform/logging"
	"github.com/jsamuelsen/startup-toolkit/internal/ports"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// jsonLogger returns a logger writing JSON lines to the returned buffer.
func jsonLogger() (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})), &buf
}

func lastLogLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.NotEmpty(t, lines)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[len(lines)-1]), &entry))

	return entry
}

func TestIDMiddleware(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		middleware gin.HandlerFunc
		header     string
		fromGin    func(*gin.Context) string
		fromCtx    func(context.Context) string
	}{
		{"request id", RequestID(), HeaderRequestID, GetRequestID, RequestIDFromContext},
		{"correlation id", CorrelationID(), HeaderCorrelationID, GetCorrelationID, CorrelationIDFromContext},
	}

	for _, tt := range tests {
		t.Run(tt.name+" generated", func(t *testing.T) {
			t.Parallel()

			var ginID, ctxID string

			router := gin.New()
			router.Use(tt.middleware)
			router.GET("/test", func(c *gin.Context) {
				ginID = tt.fromGin(c)
				ctxID = tt.fromCtx(c.Request.Context())
				c.Status(http.StatusOK)
			})

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))

			require.Equal(t, http.StatusOK, w.Code)
			assert.Len(t, ginID, 36)
			assert.Equal(t, ginID, ctxID)
			assert.Equal(t, ginID, w.Header().Get(tt.header))
		})

		t.Run(tt.name+" propagated", func(t *testing.T) {
			t.Parallel()

			var ginID string

			router := gin.New()
			router.Use(tt.middleware)
			router.GET("/test", func(c *gin.Context) {
				ginID = tt.fromGin(c)
				c.Status(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			req.Header.Set(tt.header, "upstream-123")

			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, "upstream-123", ginID)
			assert.Equal(t, "upstream-123", w.Header().Get(tt.header))
		})
	}
}

func TestIDMiddleware_EnrichesLogger(t *testing.T) {
	t.Parallel()

	logger, buf := jsonLogger()

	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Request = c.Request.WithContext(logging.WithContext(c.Request.Context(), logger))
		c.Next()
	})
	router.Use(RequestID(), CorrelationID())
	router.GET("/test", func(c *gin.Context) {
		logging.FromContext(c.Request.Context()).Info("inside")
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set(HeaderRequestID, "req-1")
	req.Header.Set(HeaderCorrelationID, "corr-1")
	router.ServeHTTP(httptest.NewRecorder(), req)

	entry := lastLogLine(t, buf)
	assert.Equal(t, "req-1", entry["request_id"])
	assert.Equal(t, "corr-1", entry["correlation_id"])
}

func TestIDFromContext_NotSet(t *testing.T) {
	assert.Empty(t, RequestIDFromContext(context.Background()))
	assert.Empty(t, CorrelationIDFromContext(context.Background()))
	assert.Empty(t, RequestIDFromContext(nil)) //nolint:staticcheck // nil guard
}

func TestExtractClaims(t *testing.T) {
	tests := []struct {
		name      string
		cfg       *config.AuthConfig
		headers   map[string]string
		wantSub   string
		wantRoles []string
	}{
		{
			name:      "default headers",
			headers:   map[string]string{"X-User-ID": " acme ", "X-User-Roles": "admin, editor,,"},
			wantSub:   "acme",
			wantRoles: []string{"admin", "editor"},
		},
		{
			name:      "custom headers",
			cfg:       &config.AuthConfig{SubjectHeader: "X-Sub", RolesHeader: "X-Groups"},
			headers:   map[string]string{"X-Sub": "globex", "X-Groups": "viewer", "X-User-ID": "ignored"},
			wantSub:   "globex",
			wantRoles: []string{"viewer"},
		},
		{
			name:    "no headers",
			cfg:     &config.AuthConfig{},
			headers: map[string]string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
			for k, v := range tt.headers {
				c.Request.Header.Set(k, v)
			}

			claims := ExtractClaims(c, tt.cfg)

			assert.Equal(t, tt.wantSub, claims.Subject)
			assert.Equal(t, tt.wantRoles, claims.Roles)
			for _, r := range tt.wantRoles {
				assert.True(t, claims.HasRole(r))
			}
			assert.False(t, claims.HasRole("owner"))
		})
	}
}

func TestWorkspace(t *testing.T) {
	t.Parallel()

	cfg := &config.AuthConfig{SubjectHeader: "X-User-ID"}

	type seen struct {
		workspace string
		flagUser  *ports.FeatureFlagUser
		claims    *Claims
	}

	serve := func(subject string) (*httptest.ResponseRecorder, seen) {
		var s seen

		router := gin.New()
		router.Use(Workspace(cfg, "shared"))
		router.GET("/test", func(c *gin.Context) {
			s.workspace = WorkspaceFrom(c)
			s.flagUser = ports.GetFeatureFlagUser(c.Request.Context())
			s.claims = GetClaims(c)
			c.Status(http.StatusOK)
		})

		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		if subject != "" {
			req.Header.Set("X-User-ID", subject)
		}

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		return w, s
	}

	t.Run("subject names the workspace", func(t *testing.T) {
		t.Parallel()

		w, s := serve("founder@acme.io")

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "founder@acme.io", s.workspace)
		require.NotNil(t, s.flagUser)
		assert.Equal(t, "founder@acme.io", s.flagUser.ID)
		assert.False(t, s.flagUser.Anonymous)
		require.NotNil(t, s.claims)
		assert.Equal(t, "founder@acme.io", s.claims.Subject)
	})

	t.Run("missing subject uses default", func(t *testing.T) {
		t.Parallel()

		w, s := serve("")

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "shared", s.workspace)
		require.NotNil(t, s.flagUser)
		assert.True(t, s.flagUser.Anonymous)
	})

	t.Run("rejects unusable subject", func(t *testing.T) {
		t.Parallel()

		for _, bad := range []string{"../etc", "a/b", "-leading", strings.Repeat("x", 129)} {
			w, s := serve(bad)

			assert.Equal(t, http.StatusBadRequest, w.Code, bad)
			assert.Empty(t, s.workspace, bad)

			var resp dto.ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, dto.ErrorCodeValidation, resp.Error.Code)
			assert.Contains(t, resp.Error.Details, "workspace")
		}
	})
}

func TestWorkspace_AddsWorkspaceToLogger(t *testing.T) {
	logger, buf := jsonLogger()

	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Request = c.Request.WithContext(logging.WithContext(c.Request.Context(), logger))
		c.Next()
	})
	router.Use(Workspace(nil, ""))
	router.GET("/test", func(c *gin.Context) {
		logging.FromContext(c.Request.Context()).Info("inside")
		c.Status(http.StatusOK)
	})

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/test", nil))

	assert.Equal(t, config.DefaultWorkspace, lastLogLine(t, buf)["workspace"])
}

func TestWorkspaceFrom_WithoutMiddleware(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.Equal(t, config.DefaultWorkspace, WorkspaceFrom(c))
}

func TestLogging(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		path      string
		status    int
		skip      []string
		wantLevel string
		wantLog   bool
	}{
		{"success at info", "/api/v1/swot?x=1", http.StatusOK, nil, "INFO", true},
		{"client error at warn", "/api/v1/swot", http.StatusBadRequest, nil, "WARN", true},
		{"server error at error", "/api/v1/swot", http.StatusInternalServerError, nil, "ERROR", true},
		{"probe paths skipped", "/-/live", http.StatusOK, nil, "", false},
		{"configured path skipped", "/api/v1/swot", http.StatusOK, []string{"/api/v1/swot"}, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			logger, buf := jsonLogger()

			router := gin.New()
			router.Use(Logging(logger, tt.skip...))
			router.GET(strings.SplitN(tt.path, "?", 2)[0], func(c *gin.Context) {
				c.Status(tt.status)
			})

			router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, tt.path, nil))

			if !tt.wantLog {
				assert.Empty(t, buf.String())
				return
			}

			entry := lastLogLine(t, buf)
			assert.Equal(t, tt.wantLevel, entry["level"])
			assert.Equal(t, "request completed", entry["msg"])
			assert.Equal(t, tt.path, entry["path"])
			assert.InDelta(t, float64(tt.status), entry["status"], 0)
		})
	}
}

func TestRecovery(t *testing.T) {
	t.Parallel()

	logger, buf := jsonLogger()

	router := gin.New()
	router.Use(Recovery(logger))
	router.GET("/panic", func(c *gin.Context) {
		panic("boom")
	})

	req := httptest.NewRequest(http.MethodGet, "/panic", nil)
	req.Header.Set(HeaderRequestID, "req-9")

	w := httptest.NewRecorder()
	require.NotPanics(t, func() { router.ServeHTTP(w, req) })

	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var resp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, dto.ErrorCodeInternal, resp.Error.Code)
	assert.Equal(t, "req-9", resp.TraceID)

	entry := lastLogLine(t, buf)
	assert.Equal(t, "panic recovered", entry["msg"])
	assert.Equal(t, "boom", entry["error"])
	assert.Contains(t, entry["stack"], "goroutine")
}

func TestRecovery_AfterWrite(t *testing.T) {
	logger, _ := jsonLogger()

	router := gin.New()
	router.Use(Recovery(logger))
	router.GET("/partial", func(c *gin.Context) {
		c.String(http.StatusAccepted, "partial")
		panic("late")
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/partial", nil))

	assert.Equal(t, http.StatusAccepted, w.Code)
	assert.Equal(t, "partial", w.Body.String())
}

func TestTimeout(t *testing.T) {
	t.Parallel()

	t.Run("sets deadline", func(t *testing.T) {
		t.Parallel()

		var hasDeadline bool

		router := gin.New()
		router.Use(Timeout(time.Second))
		router.GET("/test", func(c *gin.Context) {
			_, hasDeadline = c.Request.Context().Deadline()
			c.Status(http.StatusOK)
		})

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.True(t, hasDeadline)
	})

	t.Run("writes 504 when handler gives up", func(t *testing.T) {
		t.Parallel()

		router := gin.New()
		router.Use(Timeout(10 * time.Millisecond))
		router.GET("/slow", func(c *gin.Context) {
			<-c.Request.Context().Done()
		})

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/slow", nil))

		assert.Equal(t, http.StatusGatewayTimeout, w.Code)

		var resp dto.ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, dto.ErrorCodeTimeout, resp.Error.Code)
	})

	t.Run("skipped routes get no deadline", func(t *testing.T) {
		t.Parallel()

		var hasDeadline bool

		router := gin.New()
		router.Use(Timeout(time.Second, "/export/:file"))
		router.GET("/export/:file", func(c *gin.Context) {
			_, hasDeadline = c.Request.Context().Deadline()
			c.Status(http.StatusOK)
		})

		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/export/a.pdf", nil))

		assert.False(t, hasDeadline)
	})

	t.Run("zero disables", func(t *testing.T) {
		t.Parallel()

		var hasDeadline bool

		router := gin.New()
		router.Use(Timeout(0))
		router.GET("/test", func(c *gin.Context) {
			_, hasDeadline = c.Request.Context().Deadline()
		})

		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/test", nil))

		assert.False(t, hasDeadline)
	})
}

func TestParseCommaSeparated(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, parseCommaSeparated(" a ,b,, "))
	assert.Empty(t, parseCommaSeparated(""))
}
