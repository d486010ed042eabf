package handler

import (
	"complaintdesk/backend/internal/config"
	"complaintdesk/backend/internal/localization"
	"complaintdesk/backend/internal/models"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

type option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

func options[T ~string](l *localization.Localizer, lang, kind string, values []T) []option {
	out := make([]option, 0, len(values))
	for _, v := range values {
		out = append(out, option{Value: string(v), Label: l.Label(lang, kind, string(v))})
	}
	return out
}

// requestLang picks ?lang= first, then the primary Accept-Language tag.
func (h *Handler) requestLang(c *gin.Context) string {
	candidates := []string{c.Query("lang")}
	if al := c.GetHeader("Accept-Language"); al != "" {
		first := strings.SplitN(al, ",", 2)[0]
		candidates = append(candidates, strings.ToLower(strings.SplitN(strings.TrimSpace(first), "-", 2)[0]))
	}
	for _, lang := range candidates {
		if lang != "" && h.Labels.HasLanguage(lang) {
			return lang
		}
	}
	return localization.DefaultLang
}

// Meta lists every enum value with its display label and the form rules.
func (h *Handler) Meta(c *gin.Context) {
	lang := h.requestLang(c)
	c.JSON(http.StatusOK, gin.H{
		"lang":        lang,
		"categories":  options(h.Labels, lang, "category", models.AllCategories),
		"departments": options(h.Labels, lang, "department", models.AllDepartments),
		"statuses":    options(h.Labels, lang, "status", models.AllStatuses),
		"roles":       options(h.Labels, lang, "role", []models.Role{models.RoleStudent, models.RoleAdmin}),
		"rules": gin.H{
			"minTitleLength":       config.MinTitleLength,
			"minDescriptionLength": config.MinDescriptionLength,
			"minPasswordLength":    config.MinPasswordLength,
			"minRating":            config.MinRating,
			"maxRating":            config.MaxRating,
		},
	})
}
