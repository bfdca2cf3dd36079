package http

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/media-album/internal/domain/auth"
	"github.com/yanqian/media-album/internal/domain/captcha"
	"github.com/yanqian/media-album/internal/domain/media"
	"github.com/yanqian/media-album/internal/domain/tag"
	"github.com/yanqian/media-album/internal/infra/config"
	"github.com/yanqian/media-album/internal/infra/mediarepo"
	"github.com/yanqian/media-album/internal/infra/sessionstore"
	"github.com/yanqian/media-album/internal/infra/tagrepo"
	"github.com/yanqian/media-album/internal/infra/userrepo"
	"github.com/yanqian/media-album/pkg/logger"
)

type testEnv struct {
	server   *http.Server
	codec    *auth.TokenCodec
	users    *userrepo.MemoryRepository
	sessions *sessionstore.MemoryStore
	cfg      *config.Config
}

type discardStorage struct{}

func (discardStorage) Put(context.Context, string, io.Reader, int64, string) error { return nil }

func (discardStorage) Get(context.Context, string) (io.ReadCloser, error) {
	return io.NopCloser(strings.NewReader("")), nil
}

func (discardStorage) Delete(context.Context, string) error { return nil }

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	cfg := &config.Config{
		HTTP: config.HTTPConfig{Address: ":0", ReadTimeout: time.Second, WriteTimeout: time.Second},
		Auth: config.AuthConfig{Secret: "router-test-secret", TokenTTL: time.Hour, PasswordScheme: auth.SchemeMD5},
		Captcha: config.CaptchaConfig{
			TTL:        5 * time.Minute,
			CookieName: "album_session",
		},
	}
	log := logger.New()

	authCfg := auth.Config{Secret: cfg.Auth.Secret, TokenTTL: cfg.Auth.TokenTTL, PasswordScheme: cfg.Auth.PasswordScheme}
	codec, err := auth.NewTokenCodec(authCfg)
	require.NoError(t, err)

	users := userrepo.NewMemoryRepository()
	sessions := sessionstore.NewMemoryStore()
	captchaSvc := captcha.NewService(captcha.Config{TTL: cfg.Captcha.TTL}, sessions, log)
	authSvc := auth.NewService(authCfg, users, codec, captchaSvc, log)

	tags := tag.NewService(tagrepo.NewMemoryRepository(), log)
	mediaRepo := mediarepo.NewMemoryRepository(nil)
	mediaSvc := media.NewService(mediaRepo, tags, discardStorage{}, log)

	server := NewRouter(cfg, codec,
		NewAuthHandler(cfg, authSvc, log),
		NewCaptchaHandler(cfg, captchaSvc, log),
		NewMediaHandler(mediaSvc, log),
		NewAdminHandler(authSvc, mediaSvc, tags, log),
	)
	return &testEnv{server: server, codec: codec, users: users, sessions: sessions, cfg: cfg}
}

func (e *testEnv) do(t *testing.T, method, path, body string, mutate func(*http.Request)) *httptest.ResponseRecorder {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if mutate != nil {
		mutate(req)
	}
	recorder := httptest.NewRecorder()
	e.server.Handler.ServeHTTP(recorder, req)
	return recorder
}

func decodeEnvelope(t *testing.T, body []byte) (int, string, map[string]any) {
	t.Helper()
	var parsed struct {
		Code    int            `json:"code"`
		Message string         `json:"message"`
		Data    map[string]any `json:"data"`
	}
	require.NoError(t, json.Unmarshal(body, &parsed))
	return parsed.Code, parsed.Message, parsed.Data
}

func (e *testEnv) seedUser(t *testing.T, username, password string, role auth.Role) auth.User {
	t.Helper()
	hash, err := auth.HashPassword(auth.SchemeMD5, password)
	require.NoError(t, err)
	user, err := e.users.Create(context.Background(), auth.User{
		UserName:     username,
		PasswordHash: hash,
		Role:         role,
		Status:       1,
	})
	require.NoError(t, err)
	return user
}

func (e *testEnv) tokenFor(t *testing.T, user auth.User) string {
	t.Helper()
	token, err := e.codec.Issue(user.UserName, user.ID, user.Role, time.Now())
	require.NoError(t, err)
	return token
}

func TestRouter_LoginSuccessEnvelope(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "alice", "secret", auth.RoleUser)
	require.NoError(t, env.sessions.Set(context.Background(), "sess-1", "ab3x", time.Minute))

	recorder := env.do(t, http.MethodPost, "/api/login",
		`{"username":"alice","password":"secret","captcha":"AB3X"}`,
		func(req *http.Request) {
			req.AddCookie(&http.Cookie{Name: "album_session", Value: "sess-1"})
		})

	require.Equal(t, http.StatusOK, recorder.Code)
	code, _, data := decodeEnvelope(t, recorder.Body.Bytes())
	require.Equal(t, codeOK, code)
	require.Equal(t, "alice", data["userName"])
	require.NotEmpty(t, data["token"])

	subject, ok := env.codec.Subject(data["token"].(string))
	require.True(t, ok)
	require.Equal(t, "alice", subject)
}

func TestRouter_LoginWrongCaptchaConsumesChallenge(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "alice", "secret", auth.RoleUser)
	require.NoError(t, env.sessions.Set(context.Background(), "sess-1", "ab3x", time.Minute))

	withCookie := func(req *http.Request) {
		req.AddCookie(&http.Cookie{Name: "album_session", Value: "sess-1"})
	}

	recorder := env.do(t, http.MethodPost, "/api/login",
		`{"username":"alice","password":"secret","captcha":"wrong"}`, withCookie)
	code, message, _ := decodeEnvelope(t, recorder.Body.Bytes())
	require.Equal(t, codeFail, code)
	require.Contains(t, message, "incorrect")

	// A second attempt with the right answer finds no live challenge.
	recorder = env.do(t, http.MethodPost, "/api/login",
		`{"username":"alice","password":"secret","captcha":"ab3x"}`, withCookie)
	code, message, _ = decodeEnvelope(t, recorder.Body.Bytes())
	require.Equal(t, codeFail, code)
	require.Contains(t, message, "expired")
}

func TestRouter_LoginBadCredentialsKeepHTTP200(t *testing.T) {
	env := newTestEnv(t)
	require.NoError(t, env.sessions.Set(context.Background(), "sess-1", "ab3x", time.Minute))

	recorder := env.do(t, http.MethodPost, "/api/login",
		`{"username":"nobody","password":"secret","captcha":"ab3x"}`,
		func(req *http.Request) {
			req.AddCookie(&http.Cookie{Name: "album_session", Value: "sess-1"})
		})

	require.Equal(t, http.StatusOK, recorder.Code)
	code, _, _ := decodeEnvelope(t, recorder.Body.Bytes())
	require.Equal(t, codeFail, code)
}

func TestRouter_CaptchaImage(t *testing.T) {
	env := newTestEnv(t)

	recorder := env.do(t, http.MethodGet, "/api/captcha", "", nil)
	require.Equal(t, http.StatusOK, recorder.Code)
	require.Equal(t, "image/jpeg", recorder.Header().Get("Content-Type"))
	require.Contains(t, recorder.Header().Get("Cache-Control"), "no-store")

	cookies := recorder.Result().Cookies()
	require.NotEmpty(t, cookies)
	require.Equal(t, "album_session", cookies[0].Name)
	require.NotEmpty(t, cookies[0].Value)
}

func TestRouter_AnonymousRequestNotRejectedByMiddleware(t *testing.T) {
	env := newTestEnv(t)

	// No token: the middleware passes the request through and the handler
	// answers in the envelope instead of an HTTP error.
	recorder := env.do(t, http.MethodGet, "/api/user/info", "", nil)
	require.Equal(t, http.StatusOK, recorder.Code)
	code, message, _ := decodeEnvelope(t, recorder.Body.Bytes())
	require.Equal(t, codeFail, code)
	require.Contains(t, message, "log in")
}

func TestRouter_InvalidTokenTreatedAsAnonymous(t *testing.T) {
	env := newTestEnv(t)

	recorder := env.do(t, http.MethodGet, "/api/user/info", "", func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer garbage")
	})
	require.Equal(t, http.StatusOK, recorder.Code)
	code, _, _ := decodeEnvelope(t, recorder.Body.Bytes())
	require.Equal(t, codeFail, code)
}

func TestRouter_CurrentUserWithToken(t *testing.T) {
	env := newTestEnv(t)
	user := env.seedUser(t, "alice", "secret", auth.RoleUser)
	token := env.tokenFor(t, user)

	recorder := env.do(t, http.MethodGet, "/api/user/info", "", func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer "+token)
	})
	code, _, data := decodeEnvelope(t, recorder.Body.Bytes())
	require.Equal(t, codeOK, code)
	require.Equal(t, "alice", data["userName"])
	require.Equal(t, "alice", data["nickname"])
	require.Equal(t, auth.DefaultAvatar, data["avatar"])
}

func TestRouter_AdminGate(t *testing.T) {
	env := newTestEnv(t)
	user := env.seedUser(t, "bob", "pw", auth.RoleUser)
	admin := env.seedUser(t, "root", "pw", auth.RoleAdmin)

	recorder := env.do(t, http.MethodGet, "/api/admin/users", "", func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer "+env.tokenFor(t, user))
	})
	code, message, _ := decodeEnvelope(t, recorder.Body.Bytes())
	require.Equal(t, codeFail, code)
	require.Contains(t, message, "permission")

	recorder = env.do(t, http.MethodGet, "/api/admin/users", "", func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer "+env.tokenFor(t, admin))
	})
	code, _, data := decodeEnvelope(t, recorder.Body.Bytes())
	require.Equal(t, codeOK, code)
	require.EqualValues(t, 2, data["total"])
}

func TestRouter_RegisterThenLogin(t *testing.T) {
	env := newTestEnv(t)

	recorder := env.do(t, http.MethodPost, "/api/register",
		`{"username":"carol","password":"pw"}`, nil)
	code, _, _ := decodeEnvelope(t, recorder.Body.Bytes())
	require.Equal(t, codeOK, code)

	require.NoError(t, env.sessions.Set(context.Background(), "sess-2", "zz99", time.Minute))
	recorder = env.do(t, http.MethodPost, "/api/login",
		`{"username":"carol","password":"pw","captcha":"ZZ99"}`,
		func(req *http.Request) {
			req.AddCookie(&http.Cookie{Name: "album_session", Value: "sess-2"})
		})
	code, _, data := decodeEnvelope(t, recorder.Body.Bytes())
	require.Equal(t, codeOK, code)
	require.EqualValues(t, auth.RoleGuest, data["role"])
}

func TestRouter_CORSPreflight(t *testing.T) {
	env := newTestEnv(t)

	recorder := env.do(t, http.MethodOptions, "/api/login", "", func(req *http.Request) {
		req.Header.Set("Origin", "http://localhost:5173")
	})
	require.Equal(t, http.StatusNoContent, recorder.Code)
	require.NotEmpty(t, recorder.Header().Get("Access-Control-Allow-Origin"))
}
