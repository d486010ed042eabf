package storage

import (
	"complaintdesk/backend/internal/models"
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var _ Storage = (*Service)(nil)

// FindUserByEmail looks an identity up by its exact email.
func (s *Service) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := s.DB.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUserByID returns the identity with the given ID.
func (s *Service) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	err := s.DB.WithContext(ctx).Where("id = ?", id).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *Service) CountUsers(ctx context.Context) (int, error) {
	var n int64
	if err := s.DB.WithContext(ctx).Model(&models.User{}).Count(&n).Error; err != nil {
		return 0, err
	}
	return int(n), nil
}

// CreateUser inserts a new identity. A taken email or ID yields ErrDuplicateEmail.
func (s *Service) CreateUser(ctx context.Context, user *models.User) error {
	err := s.DB.WithContext(ctx).Create(user).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicateEmail
	}
	return err
}

func preloadComplaint(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Responses", func(db *gorm.DB) *gorm.DB {
			return db.Order("position asc")
		}).
		Preload("Feedback")
}

// ListComplaints returns every complaint with responses and feedback, newest first.
func (s *Service) ListComplaints(ctx context.Context) ([]models.Complaint, error) {
	var list []models.Complaint
	if err := preloadComplaint(s.DB.WithContext(ctx)).Order("position desc").Find(&list).Error; err != nil {
		return nil, err
	}
	for i := range list {
		if list[i].Responses == nil {
			list[i].Responses = []models.Response{}
		}
	}
	return list, nil
}

// GetComplaintByID returns one complaint with responses and feedback.
func (s *Service) GetComplaintByID(ctx context.Context, id string) (*models.Complaint, error) {
	var c models.Complaint
	err := preloadComplaint(s.DB.WithContext(ctx)).Where("id = ?", id).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if c.Responses == nil {
		c.Responses = []models.Response{}
	}
	return &c, nil
}

func (s *Service) CountComplaints(ctx context.Context) (int, error) {
	var n int64
	if err := s.DB.WithContext(ctx).Model(&models.Complaint{}).Count(&n).Error; err != nil {
		return 0, err
	}
	return int(n), nil
}

// SaveComplaint writes the complaint row, appends responses that are not yet
// stored and upserts feedback, all in one transaction. New complaints get the
// highest position so they list first.
func (s *Service) SaveComplaint(ctx context.Context, complaint *models.Complaint) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row := *complaint
		row.Responses = nil
		row.Feedback = nil

		var existing models.Complaint
		err := tx.Select("id", "position").Where("id = ?", complaint.ID).First(&existing).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			var maxPos int64
			if err := tx.Model(&models.Complaint{}).Select("COALESCE(MAX(position), 0)").Scan(&maxPos).Error; err != nil {
				return err
			}
			row.Position = maxPos + 1
			if err := tx.Omit(clause.Associations).Create(&row).Error; err != nil {
				return err
			}
		case err != nil:
			return err
		default:
			row.Position = existing.Position
			if err := tx.Omit(clause.Associations).Save(&row).Error; err != nil {
				return err
			}
		}

		for i := range complaint.Responses {
			r := complaint.Responses[i]
			r.ComplaintID = complaint.ID
			r.Position = i
			// Responses are append-only, so rows already stored stay untouched.
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&r).Error; err != nil {
				return err
			}
		}

		if complaint.Feedback != nil {
			fb := *complaint.Feedback
			fb.ComplaintID = complaint.ID
			if err := tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(&fb).Error; err != nil {
				return err
			}
		}

		complaint.Position = row.Position
		return nil
	})
}
