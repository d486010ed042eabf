// Package analysis computes dashboard figures from the complaint list.
package analysis

import (
	"complaintdesk/backend/internal/models"
)

// Summary is the administrator's overview of all complaints.
type Summary struct {
	Total        int                       `json:"total"`
	Resolved     int                       `json:"resolved"`
	Pending      int                       `json:"pending"`
	ByStatus     map[models.Status]int     `json:"byStatus"`
	ByCategory   map[models.Category]int   `json:"byCategory"`
	ByDepartment map[models.Department]int `json:"byDepartment"`
	// AverageRating is the mean feedback rating, 0 when nobody rated yet.
	AverageRating float64 `json:"averageRating"`
	RatedCount    int     `json:"ratedCount"`
}

// ResolutionRate returns the share of resolved complaints in [0, 1].
func (s Summary) ResolutionRate() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Resolved) / float64(s.Total)
}

// Summarize counts list by status, category and department.
// Every known enum value is present in the maps, with zero when unused.
func Summarize(list []models.Complaint) Summary {
	s := Summary{
		Total:        len(list),
		ByStatus:     make(map[models.Status]int, len(models.AllStatuses)),
		ByCategory:   make(map[models.Category]int, len(models.AllCategories)),
		ByDepartment: make(map[models.Department]int, len(models.AllDepartments)),
	}
	for _, st := range models.AllStatuses {
		s.ByStatus[st] = 0
	}
	for _, cat := range models.AllCategories {
		s.ByCategory[cat] = 0
	}
	for _, d := range models.AllDepartments {
		s.ByDepartment[d] = 0
	}

	ratingSum := 0
	for i := range list {
		c := &list[i]
		s.ByStatus[c.Status]++
		s.ByCategory[c.Category]++
		s.ByDepartment[c.Department]++

		switch c.Status {
		case models.StatusResolved:
			s.Resolved++
		case models.StatusPending:
			s.Pending++
		}

		if c.Feedback != nil {
			ratingSum += c.Feedback.Rating
			s.RatedCount++
		}
	}

	if s.RatedCount > 0 {
		s.AverageRating = float64(ratingSum) / float64(s.RatedCount)
	}
	return s
}
