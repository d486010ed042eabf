package handler_test

import (
	"bytes"
	"complaintdesk/backend/internal/api/handler"
	"complaintdesk/backend/internal/complaint"
	"complaintdesk/backend/internal/events"
	"complaintdesk/backend/internal/localization"
	"complaintdesk/backend/internal/models"
	"complaintdesk/backend/internal/session"
	"complaintdesk/backend/internal/storage"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

type testServer struct {
	router   *gin.Engine
	store    *storage.MemoryStore
	sessions *storage.MemorySessionStore
	hub      *events.Hub
	registry *session.Registry
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	ctx := context.Background()

	store := storage.NewMemoryStore()
	require.NoError(t, storage.Seed(ctx, store, time.Now()))
	sessions := storage.NewMemorySessionStore()
	return buildServer(t, store, sessions)
}

func buildServer(t *testing.T, store *storage.MemoryStore, sessions *storage.MemorySessionStore) *testServer {
	t.Helper()
	log := zerolog.Nop()

	hub := events.NewHub(log)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go hub.Run(ctx)

	labels, err := localization.Default()
	require.NoError(t, err)

	registry := session.NewRegistry(session.NewDirectory(store), sessions, 0, log)
	complaints := complaint.NewService(store, hub, log)
	h := handler.NewHandler(registry, complaints, hub, labels, testSecret, log)

	return &testServer{router: h.NewRouter("*"), store: store, sessions: sessions, hub: hub, registry: registry}
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
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
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *testServer) newToken(t *testing.T) string {
	t.Helper()
	w := s.do(t, http.MethodGet, "/session", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Token     string `json:"token"`
		SessionID string `json:"sessionId"`
	}
	decode(t, w, &resp)
	require.NotEmpty(t, resp.Token)
	require.NotEmpty(t, resp.SessionID)
	return resp.Token
}

func (s *testServer) signIn(t *testing.T, email string) string {
	t.Helper()
	token := s.newToken(t)
	w := s.do(t, http.MethodPost, "/auth/login", token, gin.H{"email": email, "password": "secret1"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	return token
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

type userResp struct {
	User *models.User `json:"user"`
}

type complaintResp struct {
	Complaint models.Complaint `json:"complaint"`
}

type listResp struct {
	Complaints []models.Complaint `json:"complaints"`
}

type errorResp struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields"`
}

var newComplaint = gin.H{
	"title":       "Slow Wi-Fi",
	"description": "The dormitory network keeps dropping every evening.",
	"category":    "technical",
	"department":  "it-services",
	"isAnonymous": false,
}
