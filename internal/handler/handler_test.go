package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"edlink/config"
	"edlink/internal/auth"
	"edlink/internal/broker"
	"edlink/internal/domain"
	"edlink/internal/models"
	"edlink/internal/router"
	"edlink/internal/testutil"
	"edlink/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type env struct {
	cfg     *config.Config
	db      *gorm.DB
	hub     *ws.Hub
	engine  *gin.Engine
	srv     *httptest.Server
	teacher models.User
	alice   models.User
	bob     models.User
	math    models.Subject
	physics models.Subject
}

// newEnv: teacher owns math and physics, alice is enrolled in math and bob
// in physics only.
func newEnv(t *testing.T) *env {
	t.Helper()
	gin.SetMode(gin.TestMode)

	e := &env{
		cfg: &config.Config{
			Server: config.ServerConfig{Env: "test"},
			JWT:    config.JWTConfig{AccessSecret: "handler-test", AccessExpiry: time.Hour, Issuer: "edlink-test"},
			WebSocket: config.WebSocketConfig{
				PingInterval:   54 * time.Second,
				PongWait:       60 * time.Second,
				WriteWait:      10 * time.Second,
				MaxMessageSize: 4096,
				SendBuffer:     16,
			},
		},
		db:  testutil.OpenDB(t),
		hub: ws.NewHub(),
	}
	e.teacher = testutil.CreateUser(t, e.db, "teacher", domain.RoleTeacher)
	e.alice = testutil.CreateUser(t, e.db, "alice", domain.RoleStudent)
	e.bob = testutil.CreateUser(t, e.db, "bob", domain.RoleStudent)
	e.math = testutil.CreateSubject(t, e.db, "Mathematics", e.teacher.ID)
	e.physics = testutil.CreateSubject(t, e.db, "Physics", e.teacher.ID)
	testutil.Enroll(t, e.db, e.alice.ID, e.math.ID)
	testutil.Enroll(t, e.db, e.bob.ID, e.physics.ID)

	e.engine = router.Setup(e.cfg, router.Deps{
		DB:     e.db,
		Hub:    e.hub,
		Events: broker.NewLocalBroker(e.hub),
		Log:    zerolog.Nop(),
	})
	e.srv = httptest.NewServer(e.engine)
	t.Cleanup(e.srv.Close)
	return e
}

func (e *env) token(t *testing.T, u models.User) string {
	t.Helper()
	role, err := u.ParsedRole()
	require.NoError(t, err)
	tok, err := auth.GenerateAccessToken(&e.cfg.JWT, u.ID, u.Email, role)
	require.NoError(t, err)
	return tok
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func (e *env) do(t *testing.T, method, path, token string, body interface{}) (int, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.engine.ServeHTTP(rec, req)

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return rec.Code, env
}

func countMessages(t *testing.T, db *gorm.DB) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(&models.ChatMessage{}).Count(&n).Error)
	return n
}
