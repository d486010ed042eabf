package storage

import (
	"complaintdesk/backend/internal/models"
	"context"
	"errors"
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var (
	// ErrNotFound is returned when a user or complaint does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicateEmail is returned when a user with the same email already exists.
	ErrDuplicateEmail = errors.New("email already registered")
)

// Storage is the directory of identities plus the complaint list.
type Storage interface {
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	CountUsers(ctx context.Context) (int, error)
	CreateUser(ctx context.Context, user *models.User) error

	// ListComplaints returns every complaint, newest insertion first.
	ListComplaints(ctx context.Context) ([]models.Complaint, error)
	GetComplaintByID(ctx context.Context, id string) (*models.Complaint, error)
	CountComplaints(ctx context.Context) (int, error)
	// SaveComplaint replaces an existing complaint or prepends a new one.
	SaveComplaint(ctx context.Context, complaint *models.Complaint) error
}

// SessionStore keeps the persisted active identity of a browsing context.
// A missing record is reported as (nil, nil).
type SessionStore interface {
	LoadSession(ctx context.Context, key string) ([]byte, error)
	SaveSession(ctx context.Context, key string, record []byte) error
	DeleteSession(ctx context.Context, key string) error
}

// Service is the gorm-backed Storage.
type Service struct {
	DB *gorm.DB
}

// NewStorageService Constructor
func NewStorageService(db *gorm.DB) *Service {
	return &Service{DB: db}
}

// OpenDB connects to postgres or sqlite and migrates the schema.
func OpenDB(driver, dsn string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case "postgres":
		dialector = postgres.Open(dsn)
	case "sqlite":
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}

	if err := AutoMigrate(db); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}

// AutoMigrate creates or updates every table the service uses.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Complaint{},
		&models.Response{},
		&models.Feedback{},
	)
}
