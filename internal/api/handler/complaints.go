package handler

import (
	"complaintdesk/backend/internal/analysis"
	"complaintdesk/backend/internal/complaint"
	"complaintdesk/backend/internal/models"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

type createComplaintRequest struct {
	Title       string `json:"title" binding:"notblank,titlelen"`
	Description string `json:"description" binding:"notblank,desclen"`
	Category    string `json:"category" binding:"required"`
	Department  string `json:"department" binding:"required"`
	IsAnonymous bool   `json:"isAnonymous"`
}

type statusRequest struct {
	Status string `json:"status" binding:"required"`
}

type responseRequest struct {
	Content string `json:"content" binding:"notblank"`
}

type feedbackRequest struct {
	Rating  int    `json:"rating" binding:"rating"`
	Comment string `json:"comment" binding:"notblank"`
}

// ListComplaints returns the filtered dashboard view.
func (h *Handler) ListComplaints(c *gin.Context) {
	f := complaint.Filter{
		Category:   models.Category(c.Query("category")),
		Status:     models.Status(c.Query("status")),
		Department: models.Department(c.Query("department")),
		Query:      c.Query("q"),
		Sort:       complaint.SortNewest,
	}
	// "all" is what the dashboard selects send for no filter.
	if f.Category == "all" {
		f.Category = ""
	}
	if f.Status == "all" {
		f.Status = ""
	}
	if f.Department == "all" {
		f.Department = ""
	}
	switch c.Query("sort") {
	case "", string(complaint.SortNewest):
	case string(complaint.SortOldest):
		f.Sort = complaint.SortOldest
	default:
		respondFieldErrors(c, map[string]string{"sort": "must be one of: newest oldest"})
		return
	}

	list, err := h.Complaints.List(c.Request.Context(), actor(c), f)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"complaints": list})
}

// CreateComplaint files a complaint for the signed-in student.
func (h *Handler) CreateComplaint(c *gin.Context) {
	var req createComplaintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	d := complaint.Draft{
		Title:       strings.TrimSpace(req.Title),
		Description: strings.TrimSpace(req.Description),
		Category:    models.Category(req.Category),
		Department:  models.Department(req.Department),
		IsAnonymous: req.IsAnonymous,
	}
	fields := map[string]string{}
	if !d.Category.Valid() {
		fields["category"] = "is not a known category"
	}
	if !d.Department.Valid() {
		fields["department"] = "is not a known department"
	}
	if len(fields) > 0 {
		respondFieldErrors(c, fields)
		return
	}

	created, err := h.Complaints.Create(c.Request.Context(), actor(c), d)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"complaint": created})
}

// GetComplaint returns one complaint.
func (h *Handler) GetComplaint(c *gin.Context) {
	got, err := h.Complaints.Get(c.Request.Context(), actor(c), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"complaint": got})
}

// SetStatus changes a complaint's status.
func (h *Handler) SetStatus(c *gin.Context) {
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	got, err := h.Complaints.SetStatus(c.Request.Context(), actor(c), c.Param("id"), models.Status(req.Status))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"complaint": got})
}

// AddResponse appends an administrator reply.
func (h *Handler) AddResponse(c *gin.Context) {
	var req responseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	got, err := h.Complaints.AddResponse(c.Request.Context(), actor(c), c.Param("id"), strings.TrimSpace(req.Content))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"complaint": got})
}

// AddFeedback rates a resolved complaint.
func (h *Handler) AddFeedback(c *gin.Context) {
	var req feedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	got, err := h.Complaints.AddFeedback(c.Request.Context(), actor(c), c.Param("id"), req.Rating, strings.TrimSpace(req.Comment))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"complaint": got})
}

// Analytics returns the administrator overview.
func (h *Handler) Analytics(c *gin.Context) {
	all, err := h.Complaints.All(c.Request.Context(), actor(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	s := analysis.Summarize(all)
	c.JSON(http.StatusOK, gin.H{"summary": s, "resolutionRate": s.ResolutionRate()})
}
