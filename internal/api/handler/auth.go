package handler

import (
	"complaintdesk/backend/internal/config"
	"complaintdesk/backend/internal/models"
	"complaintdesk/backend/internal/session"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	jwt "github.com/golang-jwt/jwt/v5"
)

const (
	ctxSessionID = "session_id"
	ctxSession   = "session"
)

var errBadToken = errors.New("invalid token")

// generateJWT signs a token carrying the browsing-context id.
func generateJWT(secret []byte, sessionID string) (string, error) {
	claims := jwt.MapClaims{
		"sid": sessionID,
		"exp": time.Now().Add(config.TokenTTL).Unix(),
		"iss": config.TokenIssuer,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// parseJWT validates tokenString and returns its browsing-context id.
func parseJWT(secret []byte, tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		return secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(config.TokenIssuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %v", errBadToken, err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", errBadToken
	}
	sid, _ := claims["sid"].(string)
	if _, err := uuid.Parse(sid); err != nil {
		return "", errBadToken
	}
	return sid, nil
}

func bearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	return c.Query("token")
}

// RequireContext resolves the browsing context from the bearer token and
// attaches its session to the request.
func (h *Handler) RequireContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := bearerToken(c)
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization token missing"})
			return
		}

		sid, err := parseJWT(h.secret, tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token or expired"})
			return
		}

		c.Set(ctxSessionID, sid)
		c.Set(ctxSession, h.Sessions.Get(c.Request.Context(), sid))
		c.Next()
	}
}

func currentSession(c *gin.Context) *session.Service {
	return c.MustGet(ctxSession).(*session.Service)
}

// actor returns the active identity of the request's browsing context, or nil.
func actor(c *gin.Context) *models.User {
	return currentSession(c).Active()
}

// NewSession opens a browsing context and returns its token.
func (h *Handler) NewSession(c *gin.Context) {
	sid, err := uuid.NewRandom()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create session"})
		return
	}

	token, err := generateJWT(h.secret, sid.String())
	if err != nil {
		h.log.Error().Err(err).Msg("failed to sign token")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token, "sessionId": sid.String()})
}

type loginRequest struct {
	Email    string `json:"email" binding:"notblank,email"`
	Password string `json:"password" binding:"required,passwordlen"`
}

// Login signs the browsing context in.
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	u, err := currentSession(c).SignIn(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": u})
}

type registerRequest struct {
	Name            string  `json:"name" binding:"notblank"`
	Email           string  `json:"email" binding:"notblank,email"`
	Password        string  `json:"password" binding:"required,passwordlen"`
	ConfirmPassword string  `json:"confirmPassword" binding:"eqfield=Password"`
	Role            string  `json:"role" binding:"required,oneof=student admin"`
	Department      *string `json:"department"`
	StudentID       string  `json:"studentId" binding:"required_if=Role student"`
}

// Register creates an identity and signs it in.
func (h *Handler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	role, err := models.ParseRole(req.Role)
	if err != nil {
		respondFieldErrors(c, map[string]string{"role": "must be one of: student admin"})
		return
	}

	signUp := session.SignUpRequest{
		Name:     strings.TrimSpace(req.Name),
		Email:    strings.TrimSpace(req.Email),
		Password: req.Password,
		Role:     role,
	}
	if req.Department != nil {
		dept := models.Department(*req.Department)
		if !dept.Valid() {
			respondFieldErrors(c, map[string]string{"department": "is not a known department"})
			return
		}
		signUp.Department = &dept
	}
	if role == models.RoleStudent {
		sid := strings.TrimSpace(req.StudentID)
		if sid == "" {
			respondFieldErrors(c, map[string]string{"studentId": "is required"})
			return
		}
		signUp.StudentID = &sid
	}

	u, err := currentSession(c).SignUp(c.Request.Context(), signUp)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"user": u})
}

// Logout clears the active identity and drops the cached session.
func (h *Handler) Logout(c *gin.Context) {
	currentSession(c).SignOut(c.Request.Context())
	h.Sessions.Forget(c.GetString(ctxSessionID))
	c.Status(http.StatusNoContent)
}

// Me returns the active identity, or null when signed out.
func (h *Handler) Me(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"user": actor(c)})
}
