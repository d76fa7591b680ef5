package logger

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		env     string
		level   string
		enabled zapcore.Level
		muted   zapcore.Level
	}{
		{name: "production defaults to info", env: "production", enabled: zapcore.InfoLevel, muted: zapcore.DebugLevel},
		{name: "development defaults to debug", env: "development", enabled: zapcore.DebugLevel, muted: zapcore.DebugLevel - 1},
		{name: "level override", env: "production", level: "warn", enabled: zapcore.WarnLevel, muted: zapcore.InfoLevel},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := New(tt.env, tt.level)
			require.NoError(t, err)
			assert.True(t, l.Core().Enabled(tt.enabled))
			assert.False(t, l.Core().Enabled(tt.muted))
		})
	}

	t.Run("unknown level", func(t *testing.T) {
		_, err := New("production", "loud")
		assert.Error(t, err)
	})
}

func TestSetup(t *testing.T) {
	restore := Replace(nil)
	defer restore()

	err := Setup("production", "loud")
	assert.Error(t, err)
	require.NotNil(t, L())
	assert.False(t, L().Core().Enabled(zapcore.DebugLevel))

	require.NoError(t, Setup("development", "error"))
	assert.False(t, L().Core().Enabled(zapcore.WarnLevel))
}

func TestL_SetsUpFromEnv(t *testing.T) {
	restore := Replace(nil)
	defer restore()
	t.Setenv("APP_ENV", "production")
	t.Setenv("LOG_LEVEL", "error")

	l := L()
	require.NotNil(t, l)
	assert.Same(t, l, L())
	assert.False(t, l.Core().Enabled(zapcore.WarnLevel))
}

func TestReplace(t *testing.T) {
	original := L()
	replacement := zap.NewNop()

	restore := Replace(replacement)
	assert.Same(t, replacement, L())

	restore()
	assert.Same(t, original, L())
}

func TestContextFunctions(t *testing.T) {
	ctx := context.Background()

	t.Run("RequestID", func(t *testing.T) {
		ctxWithID := WithRequestID(ctx, "req-1")
		assert.Equal(t, "req-1", RequestIDFrom(ctxWithID))
		assert.Equal(t, "", RequestIDFrom(ctx))
	})

	t.Run("SessionID", func(t *testing.T) {
		ctxWithID := WithSessionID(ctx, "sess-1")
		assert.Equal(t, "sess-1", SessionIDFrom(ctxWithID))
		assert.Equal(t, "", SessionIDFrom(ctx))
	})
}

func TestFromCtx(t *testing.T) {
	core, observed := observer.New(zapcore.InfoLevel)
	restore := Replace(zap.New(core))
	defer restore()

	t.Run("WithIDs", func(t *testing.T) {
		ctx := WithRequestID(context.Background(), "req-abc-123")
		ctx = WithSessionID(ctx, "sess-xyz")

		FromCtx(ctx).Info("test message with ids")

		logs := observed.TakeAll()
		assert.Len(t, logs, 1)
		fields := logs[0].ContextMap()
		assert.Equal(t, "req-abc-123", fields["request_id"])
		assert.Equal(t, "sess-xyz", fields["session_id"])
	})

	t.Run("WithoutIDs", func(t *testing.T) {
		FromCtx(context.Background()).Info("test message without id")

		logs := observed.TakeAll()
		assert.Len(t, logs, 1)
		fields := logs[0].ContextMap()
		_, hasReq := fields["request_id"]
		_, hasSession := fields["session_id"]
		assert.False(t, hasReq)
		assert.False(t, hasSession)
	})
}

func TestSync(t *testing.T) {
	assert.NotPanics(t, func() {
		Sync()
	})
}

func TestRequestIDMiddleware(t *testing.T) {
	nextHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NotEmpty(t, RequestIDFrom(r.Context()))
	})

	handler := RequestIDMiddleware(nextHandler)

	t.Run("Generates ID when missing", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/test", nil)
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
	})

	t.Run("Preserves existing ID", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/test", nil)
		req.Header.Set("X-Request-ID", "test-id-123")
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		assert.Equal(t, "test-id-123", w.Header().Get("X-Request-ID"))
	})
}

func TestLoggingMiddleware(t *testing.T) {
	core, observed := observer.New(zapcore.InfoLevel)
	restore := Replace(zap.New(core))
	defer restore()

	nextHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	handler := LoggingMiddleware(nextHandler)
	req := httptest.NewRequest("GET", "/test", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	logs := observed.TakeAll()
	assert.Len(t, logs, 1)
	assert.Equal(t, "incoming request", logs[0].Message)
	assert.Equal(t, "/test", logs[0].ContextMap()["path"])
	assert.EqualValues(t, http.StatusTeapot, logs[0].ContextMap()["status"])
}
