package handler

import (
	"complaintdesk/backend/internal/complaint"
	"complaintdesk/backend/internal/config"
	"complaintdesk/backend/internal/session"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var validatorsOnce sync.Once

type lengthRule struct {
	min  int
	trim bool
}

// lengthRules are the form minimums /meta advertises. Trimmed rules measure
// the value the way it is stored.
var lengthRules = map[string]lengthRule{
	"titlelen":    {min: config.MinTitleLength, trim: true},
	"desclen":     {min: config.MinDescriptionLength, trim: true},
	"passwordlen": {min: config.MinPasswordLength},
}

// registerValidators reports json field names in validation errors and adds
// the notblank rule, the length rules and the rating range.
func registerValidators() {
	validatorsOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
			return strings.TrimSpace(fl.Field().String()) != ""
		})
		for tag, rule := range lengthRules {
			_ = v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
				s := fl.Field().String()
				if rule.trim {
					s = strings.TrimSpace(s)
				}
				return utf8.RuneCountInString(s) >= rule.min
			})
		}
		_ = v.RegisterValidation("rating", func(fl validator.FieldLevel) bool {
			n := fl.Field().Int()
			return n >= config.MinRating && n <= config.MaxRating
		})
	})
}

// respondError maps store errors to HTTP statuses.
func (h *Handler) respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, session.ErrInvalidCredentials):
		status = http.StatusUnauthorized
	case errors.Is(err, session.ErrDuplicateIdentity):
		status = http.StatusConflict
	case errors.Is(err, session.ErrInvalidRole):
		status = http.StatusBadRequest
	case errors.Is(err, complaint.ErrUnauthenticated):
		status = http.StatusUnauthorized
	case errors.Is(err, complaint.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, complaint.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, complaint.ErrNotResolved), errors.Is(err, complaint.ErrFeedbackExists):
		status = http.StatusConflict
	case errors.Is(err, complaint.ErrInvalidStatus), errors.Is(err, complaint.ErrInvalidRating):
		status = http.StatusBadRequest
	}

	if status == http.StatusInternalServerError {
		h.log.Error().Err(err).Str("path", c.FullPath()).Msg("request failed")
		c.AbortWithStatusJSON(status, gin.H{"error": "Internal server error"})
		return
	}
	c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
}

// respondBindError turns a binding failure into a 400 with one message per field.
func respondBindError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "bad json: " + err.Error()})
		return
	}

	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fe.Field()] = fieldMessage(fe)
	}
	respondFieldErrors(c, fields)
}

func respondFieldErrors(c *gin.Context, fields map[string]string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "validation failed", "fields": fields})
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "notblank", "required_if":
		return "is required"
	case "email":
		return "is invalid"
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "titlelen", "desclen", "passwordlen":
		return fmt.Sprintf("must be at least %d characters", lengthRules[fe.Tag()].min)
	case "rating":
		return fmt.Sprintf("must be between %d and %d", config.MinRating, config.MaxRating)
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "gte":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "lte":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "eqfield":
		return "does not match"
	case "oneof":
		return "must be one of: " + fe.Param()
	}
	return "is invalid"
}
