package handler

import (
	"github.com/gin-gonic/gin"
)

// NewRouter builds the gin engine with every route of the API.
func (h *Handler) NewRouter(corsOrigin string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), h.RequestLogger(), CORSMiddleware(corsOrigin))
	if h.Metrics != nil {
		r.Use(h.Metrics.Middleware())
		r.GET("/metrics", gin.WrapH(h.Metrics.Handler()))
	}

	r.GET("/session", h.NewSession)
	r.GET("/meta", h.Meta)
	// Browsers cannot set headers on websocket upgrades, so /ws also takes ?token=.
	r.GET("/ws", h.RequireContext(), h.ServeWebSocket)

	auth := r.Group("/auth", h.RequireContext())
	{
		auth.POST("/login", h.Login)
		auth.POST("/register", h.Register)
		auth.POST("/logout", h.Logout)
		auth.GET("/me", h.Me)
	}

	complaints := r.Group("/complaints", h.RequireContext())
	{
		complaints.GET("", h.ListComplaints)
		complaints.POST("", h.CreateComplaint)
		complaints.GET("/:id", h.GetComplaint)
		complaints.PATCH("/:id/status", h.SetStatus)
		complaints.POST("/:id/responses", h.AddResponse)
		complaints.POST("/:id/feedback", h.AddFeedback)
	}

	r.GET("/analytics", h.RequireContext(), h.Analytics)

	return r
}
