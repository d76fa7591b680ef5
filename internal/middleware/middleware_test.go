package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"lezat-lumer/internal/auth"
	"lezat-lumer/internal/logger"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCors(t *testing.T) {
	nextHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	handler := CORS("http://localhost:3000")(nextHandler)

	t.Run("OPTIONS request", func(t *testing.T) {
		req := httptest.NewRequest("OPTIONS", "/api/commands", nil)
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), "POST")
		assert.Contains(t, w.Header().Get("Access-Control-Allow-Headers"), auth.HeaderName)
		assert.Equal(t, http.StatusNoContent, w.Code)
	})

	t.Run("Normal request", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/menu", nil)
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestSession(t *testing.T) {
	sessions, err := auth.NewSessions("test-secret", time.Hour)
	require.NoError(t, err)

	var seen string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = logger.SessionIDFrom(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	handler := SessionMiddleware(sessions, false)(next)

	t.Run("Issues a session when missing", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/session", nil)
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		_, err := uuid.Parse(seen)
		assert.NoError(t, err)

		cookies := w.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.Equal(t, auth.CookieName, cookies[0].Name)
		assert.True(t, cookies[0].HttpOnly)
		assert.Equal(t, w.Header().Get(auth.HeaderName), cookies[0].Value)
	})

	t.Run("Accepts the session header", func(t *testing.T) {
		id := uuid.NewString()
		token, err := sessions.Issue(id)
		require.NoError(t, err)

		req := httptest.NewRequest("GET", "/api/session", nil)
		req.Header.Set(auth.HeaderName, token)
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		assert.Equal(t, id, seen)
		assert.Empty(t, w.Result().Cookies())
	})

	t.Run("Keeps a valid session", func(t *testing.T) {
		id := uuid.NewString()
		token, err := sessions.Issue(id)
		require.NoError(t, err)

		req := httptest.NewRequest("GET", "/api/session", nil)
		req.AddCookie(&http.Cookie{Name: auth.CookieName, Value: token})
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		assert.Equal(t, id, seen)
		assert.Empty(t, w.Result().Cookies())
	})

	t.Run("Replaces a forged token", func(t *testing.T) {
		other, _ := auth.NewSessions("other-secret", time.Hour)
		id := uuid.NewString()
		token, _ := other.Issue(id)

		req := httptest.NewRequest("GET", "/api/session", nil)
		req.Header.Set(auth.HeaderName, token)
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		assert.NotEqual(t, id, seen)
		assert.Len(t, w.Result().Cookies(), 1)
	})
}

func TestRateLimit(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	limiter := NewRateLimiter()
	handler := limiter.Middleware(next)

	request := func(sessionID string) *http.Request {
		req := httptest.NewRequest("POST", "/api/commands", nil)
		if sessionID != "" {
			req = req.WithContext(logger.WithSessionID(req.Context(), sessionID))
		}
		return req
	}
	send := func(sessionID string) int {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, request(sessionID))
		return w.Code
	}

	t.Run("General tier per session", func(t *testing.T) {
		id := uuid.NewString()
		for i := 0; i < burstGeneral; i++ {
			assert.Equal(t, http.StatusOK, send(id))
		}
		assert.Equal(t, http.StatusTooManyRequests, send(id))
		assert.Equal(t, http.StatusOK, send(uuid.NewString()))
	})

	t.Run("Strict tier is separate from general", func(t *testing.T) {
		id := uuid.NewString()
		for i := 0; i < burstStrict; i++ {
			assert.True(t, limiter.AllowStrict(request(id)))
		}
		assert.False(t, limiter.AllowStrict(request(id)))
		assert.True(t, limiter.AllowStrict(request(uuid.NewString())))
		assert.Equal(t, http.StatusOK, send(id))
	})

	t.Run("Falls back to the client ip", func(t *testing.T) {
		for i := 0; i < burstGeneral; i++ {
			send("")
		}
		assert.Equal(t, http.StatusTooManyRequests, send(""))
	})
}

func TestRateLimit_CookielessRequestsShareTheIPBucket(t *testing.T) {
	sessions, err := auth.NewSessions("test-secret", time.Hour)
	require.NoError(t, err)

	limiter := NewRateLimiter()
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("kind") == "payment_confirm" && !limiter.AllowStrict(r) {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.WriteHeader(http.StatusOK)
	})
	handler := SessionMiddleware(sessions, false)(limiter.Middleware(next))

	sendKind := func(remote, kind string) *httptest.ResponseRecorder {
		req := httptest.NewRequest("POST", "/api/commands?kind="+kind, nil)
		req.RemoteAddr = remote
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		return w
	}
	send := func(remote string) *httptest.ResponseRecorder {
		return sendKind(remote, "payment_confirm")
	}

	t.Run("Strict tier", func(t *testing.T) {
		for i := 0; i < burstStrict; i++ {
			w := send("203.0.113.7:4000")
			require.Equal(t, http.StatusOK, w.Code)
			require.Len(t, w.Result().Cookies(), 1, "every cookie-less request gets a fresh session")
		}
		assert.Equal(t, http.StatusTooManyRequests, send("203.0.113.7:4001").Code)
		assert.Equal(t, http.StatusOK, send("198.51.100.2:4000").Code)
	})

	t.Run("General tier", func(t *testing.T) {
		code := http.StatusOK
		for i := 0; i <= burstGeneral && code == http.StatusOK; i++ {
			code = sendKind("192.0.2.44:5000", "select_item").Code
		}
		assert.Equal(t, http.StatusTooManyRequests, code)
	})

	t.Run("Returning session gets its own bucket", func(t *testing.T) {
		token, err := sessions.Issue(uuid.NewString())
		require.NoError(t, err)

		req := httptest.NewRequest("POST", "/api/commands?kind=payment_confirm", nil)
		req.RemoteAddr = "203.0.113.7:4002"
		req.Header.Set(auth.HeaderName, token)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestRateLimiter_Cleanup(t *testing.T) {
	l := NewRateLimiter()
	now := time.Now()
	l.now = func() time.Time { return now }

	l.bucket("session:a:general", tierGeneral)
	now = now.Add(time.Minute)
	l.bucket("session:b:general", tierGeneral)

	now = now.Add(visitorIdle)
	assert.Equal(t, 1, l.Cleanup())
	assert.Len(t, l.visitors, 1)
	assert.Contains(t, l.visitors, "session:b:general")
}
