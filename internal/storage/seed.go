package storage

import (
	"complaintdesk/backend/internal/models"
	"context"
	"fmt"
	"time"
)

const day = 24 * time.Hour

// SeedUsers returns the sample directory: one student and one administrator.
func SeedUsers() []models.User {
	cs := models.DepartmentComputerScience
	stu := "STU001"
	return []models.User{
		{ID: "u1", Name: "John Doe", Email: "student@example.com", Role: models.RoleStudent, StudentID: &stu, Department: &cs},
		{ID: "u2", Name: "Jane Smith", Email: "admin@example.com", Role: models.RoleAdmin, Department: &cs},
	}
}

// SeedComplaints returns the five sample complaints, newest-first as they are
// listed, with timestamps relative to now.
func SeedComplaints(now time.Time) []models.Complaint {
	john := func() *string { s := "John Doe"; return &s }
	ago := func(d time.Duration) time.Time { return now.Add(-d) }

	return []models.Complaint{
		{
			ID:          "c1",
			Title:       "Slow Wi-Fi in Library",
			Description: "The Wi-Fi connection in the main library is extremely slow during peak hours. This is affecting my ability to research and complete assignments.",
			Category:    models.CategoryTechnical,
			Department:  models.DepartmentITServices,
			Status:      models.StatusPending,
			CreatedAt:   ago(12 * day),
			UpdatedAt:   ago(2 * day),
			StudentID:   "u1",
			StudentName: john(),
			Responses:   []models.Response{},
		},
		{
			ID:          "c2",
			Title:       "Broken AC in Room 302",
			Description: "The air conditioning in Room 302 of the Engineering building has been broken for two weeks now. The room is too hot for classes.",
			Category:    models.CategoryFacilities,
			Department:  models.DepartmentFacilitiesManagement,
			Status:      models.StatusInProgress,
			CreatedAt:   ago(18 * day),
			UpdatedAt:   ago(9 * day),
			StudentID:   "u1",
			StudentName: john(),
			Responses: []models.Response{
				{ID: "r1", Content: "We have dispatched a technician to inspect the issue.", CreatedAt: ago(15 * day), AdminName: "Jane Smith", AdminID: "u2"},
			},
		},
		{
			ID:          "c3",
			Title:       "Issue with Course Registration",
			Description: "I'm unable to register for CS401 even though I've completed all prerequisites.",
			Category:    models.CategoryAcademic,
			Department:  models.DepartmentComputerScience,
			Status:      models.StatusResolved,
			CreatedAt:   ago(24 * day),
			UpdatedAt:   ago(4 * day),
			StudentID:   "u1",
			StudentName: john(),
			Responses: []models.Response{
				{ID: "r1", Content: "We've checked your record and fixed the issue. You should be able to register now.", CreatedAt: ago(7 * day), AdminName: "Jane Smith", AdminID: "u2"},
			},
			Feedback: &models.Feedback{Rating: 4, Comment: "Issue was resolved, but it took longer than expected."},
		},
		{
			ID:          "c4",
			Title:       "Concerns about Exam Schedule",
			Description: "The final exams for CS301 and MATH201 are scheduled at the same time. I need help resolving this conflict.",
			Category:    models.CategoryAcademic,
			Department:  models.DepartmentComputerScience,
			Status:      models.StatusUnderReview,
			CreatedAt:   ago(8 * day),
			UpdatedAt:   ago(6 * day),
			StudentID:   "u1",
			IsAnonymous: true,
			Responses:   []models.Response{},
		},
		{
			ID:          "c5",
			Title:       "Poor Cafeteria Food Quality",
			Description: "The quality of food in the main cafeteria has deteriorated significantly in the last month.",
			Category:    models.CategoryFacilities,
			Department:  models.DepartmentStudentAffairs,
			Status:      models.StatusRejected,
			CreatedAt:   ago(14 * day),
			UpdatedAt:   ago(7 * day),
			StudentID:   "u1",
			StudentName: john(),
			Responses: []models.Response{
				{ID: "r1", Content: "After investigation, we found that the food meets university standards. However, we'll continue monitoring the situation.", CreatedAt: ago(10 * day), AdminName: "Jane Smith", AdminID: "u2"},
			},
		},
	}
}

// Seed fills an empty store with the sample directory and complaints.
// Stores that already hold users or complaints are left alone.
func Seed(ctx context.Context, s Storage, now time.Time) error {
	users, err := s.CountUsers(ctx)
	if err != nil {
		return fmt.Errorf("count users: %w", err)
	}
	if users == 0 {
		for _, u := range SeedUsers() {
			u := u
			if err := s.CreateUser(ctx, &u); err != nil {
				return fmt.Errorf("seed user %s: %w", u.ID, err)
			}
		}
	}

	complaints, err := s.CountComplaints(ctx)
	if err != nil {
		return fmt.Errorf("count complaints: %w", err)
	}
	if complaints == 0 {
		list := SeedComplaints(now)
		// SaveComplaint prepends, so insert oldest-listed first.
		for i := len(list) - 1; i >= 0; i-- {
			if err := s.SaveComplaint(ctx, &list[i]); err != nil {
				return fmt.Errorf("seed complaint %s: %w", list[i].ID, err)
			}
		}
	}
	return nil
}
