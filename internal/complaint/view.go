package complaint

import (
	"complaintdesk/backend/internal/models"
	"sort"
	"strings"
)

// SortOrder orders the derived view by creation time.
type SortOrder string

const (
	SortNewest SortOrder = "newest"
	SortOldest SortOrder = "oldest"
)

// Filter is the dashboard selection. Zero fields match everything.
type Filter struct {
	Category   models.Category
	Status     models.Status
	Department models.Department
	// Query matches title or description, case-insensitively.
	Query string
	Sort  SortOrder
}

// View applies ownership scoping, the filter and the sort order to list.
// It is a pure function: list itself is never reordered or modified.
func View(list []models.Complaint, actor *models.User, f Filter) []models.Complaint {
	query := strings.ToLower(f.Query)

	out := make([]models.Complaint, 0, len(list))
	for i := range list {
		c := &list[i]
		if actor == nil || !canSee(actor, c) {
			continue
		}
		if f.Category != "" && c.Category != f.Category {
			continue
		}
		if f.Status != "" && c.Status != f.Status {
			continue
		}
		if f.Department != "" && c.Department != f.Department {
			continue
		}
		if query != "" &&
			!strings.Contains(strings.ToLower(c.Title), query) &&
			!strings.Contains(strings.ToLower(c.Description), query) {
			continue
		}
		out = append(out, *c.Clone())
	}

	sort.SliceStable(out, func(i, j int) bool {
		if f.Sort == SortOldest {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}
