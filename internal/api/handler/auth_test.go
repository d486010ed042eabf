package handler_test

import (
	"complaintdesk/backend/internal/config"
	"complaintdesk/backend/internal/models"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	jwt "github.com/golang-jwt/jwt/v5"
)

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return tok
}

func TestRequireContext_RejectsBadTokens(t *testing.T) {
	s := newTestServer(t)
	sid := uuid.NewString()

	tests := []struct {
		name  string
		token string
	}{
		{name: "missing", token: ""},
		{name: "garbage", token: "not-a-jwt"},
		{name: "wrong secret", token: signToken(t, "other", jwt.MapClaims{"sid": sid, "iss": config.TokenIssuer, "exp": time.Now().Add(time.Hour).Unix()})},
		{name: "expired", token: signToken(t, testSecret, jwt.MapClaims{"sid": sid, "iss": config.TokenIssuer, "exp": time.Now().Add(-time.Hour).Unix()})},
		{name: "wrong issuer", token: signToken(t, testSecret, jwt.MapClaims{"sid": sid, "iss": "someone-else", "exp": time.Now().Add(time.Hour).Unix()})},
		{name: "no expiry", token: signToken(t, testSecret, jwt.MapClaims{"sid": sid, "iss": config.TokenIssuer})},
		{name: "sid not a uuid", token: signToken(t, testSecret, jwt.MapClaims{"sid": "abc", "iss": config.TokenIssuer, "exp": time.Now().Add(time.Hour).Unix()})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := s.do(t, http.MethodGet, "/auth/me", tt.token, nil)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}

	valid := signToken(t, testSecret, jwt.MapClaims{"sid": sid, "iss": config.TokenIssuer, "exp": time.Now().Add(time.Hour).Unix()})
	w := s.do(t, http.MethodGet, "/auth/me", valid, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestLoginLogout(t *testing.T) {
	s := newTestServer(t)
	token := s.newToken(t)

	var me userResp
	w := s.do(t, http.MethodGet, "/auth/me", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &me)
	assert.Nil(t, me.User, "fresh context is signed out")

	w = s.do(t, http.MethodPost, "/auth/login", token, gin.H{"email": "student@example.com", "password": "whatever"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var login userResp
	decode(t, w, &login)
	require.NotNil(t, login.User)
	assert.Equal(t, "John Doe", login.User.Name)
	assert.Equal(t, models.RoleStudent, login.User.Role)

	w = s.do(t, http.MethodGet, "/auth/me", token, nil)
	decode(t, w, &me)
	require.NotNil(t, me.User)
	assert.Equal(t, "u1", me.User.ID)

	w = s.do(t, http.MethodPost, "/auth/logout", token, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = s.do(t, http.MethodGet, "/auth/me", token, nil)
	me = userResp{}
	decode(t, w, &me)
	assert.Nil(t, me.User)
}

func TestLogout_DropsCachedSession(t *testing.T) {
	s := newTestServer(t)

	for i := 0; i < 20; i++ {
		token := s.signIn(t, "student@example.com")
		w := s.do(t, http.MethodPost, "/auth/logout", token, nil)
		require.Equal(t, http.StatusNoContent, w.Code)
	}
	assert.Equal(t, 0, s.registry.Len())
}

func TestLogin_Failures(t *testing.T) {
	s := newTestServer(t)
	token := s.newToken(t)

	w := s.do(t, http.MethodPost, "/auth/login", token, gin.H{"email": "nobody@example.com", "password": "secret1"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(t, http.MethodPost, "/auth/login", token, gin.H{"email": "student@example.com", "password": "123"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	var e errorResp
	decode(t, w, &e)
	assert.Equal(t, "must be at least 6 characters", e.Fields["password"])

	w = s.do(t, http.MethodPost, "/auth/login", token, gin.H{"email": "not-an-email", "password": "secret1"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	e = errorResp{}
	decode(t, w, &e)
	assert.Equal(t, "is invalid", e.Fields["email"])
}

func TestRegister(t *testing.T) {
	s := newTestServer(t)

	valid := func() gin.H {
		return gin.H{
			"name":            "Ada Lovelace",
			"email":           "ada@example.com",
			"password":        "secret1",
			"confirmPassword": "secret1",
			"role":            "student",
			"department":      "computer-science",
			"studentId":       "STU042",
		}
	}

	t.Run("validation", func(t *testing.T) {
		tests := []struct {
			name  string
			edit  func(gin.H)
			field string
		}{
			{name: "blank name", edit: func(b gin.H) { b["name"] = "   " }, field: "name"},
			{name: "password mismatch", edit: func(b gin.H) { b["confirmPassword"] = "secret2" }, field: "confirmPassword"},
			{name: "student without id", edit: func(b gin.H) { b["studentId"] = "" }, field: "studentId"},
			{name: "student with blank id", edit: func(b gin.H) { b["studentId"] = "  " }, field: "studentId"},
			{name: "unknown role", edit: func(b gin.H) { b["role"] = "professor" }, field: "role"},
			{name: "unknown department", edit: func(b gin.H) { b["department"] = "law" }, field: "department"},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				body := valid()
				tt.edit(body)
				w := s.do(t, http.MethodPost, "/auth/register", s.newToken(t), body)
				require.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
				var e errorResp
				decode(t, w, &e)
				assert.Contains(t, e.Fields, tt.field)
			})
		}
	})

	t.Run("success signs in", func(t *testing.T) {
		token := s.newToken(t)
		w := s.do(t, http.MethodPost, "/auth/register", token, valid())
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		var me userResp
		decode(t, s.do(t, http.MethodGet, "/auth/me", token, nil), &me)
		require.NotNil(t, me.User)
		assert.Equal(t, "ada@example.com", me.User.Email)
		assert.Equal(t, "u3", me.User.ID)
		require.NotNil(t, me.User.StudentID)
		assert.Equal(t, "STU042", *me.User.StudentID)

		other := s.newToken(t)
		w = s.do(t, http.MethodPost, "/auth/login", other, gin.H{"email": "ada@example.com", "password": "anything"})
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("duplicate email", func(t *testing.T) {
		body := valid()
		body["email"] = "student@example.com"
		w := s.do(t, http.MethodPost, "/auth/register", s.newToken(t), body)
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("admin drops student id", func(t *testing.T) {
		body := valid()
		body["email"] = "grace@example.com"
		body["role"] = "admin"
		token := s.newToken(t)
		w := s.do(t, http.MethodPost, "/auth/register", token, body)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		var reg userResp
		decode(t, w, &reg)
		assert.Equal(t, models.RoleAdmin, reg.User.Role)
		assert.Nil(t, reg.User.StudentID)
	})
}

// TestSessionSurvivesRestart checks the persisted record restores the identity
// for the same token on a fresh server sharing the session store.
func TestSessionSurvivesRestart(t *testing.T) {
	s := newTestServer(t)
	token := s.signIn(t, "admin@example.com")

	restarted := buildServer(t, s.store, s.sessions)
	var me userResp
	decode(t, restarted.do(t, http.MethodGet, "/auth/me", token, nil), &me)
	require.NotNil(t, me.User)
	assert.Equal(t, "Jane Smith", me.User.Name)
	assert.Equal(t, models.RoleAdmin, me.User.Role)
}
