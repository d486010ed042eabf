package models

import "fmt"

// Role is the closed set of identity kinds known to the directory.
type Role string

const (
	RoleStudent Role = "student"
	RoleAdmin   Role = "admin"
)

// ParseRole converts a raw string into a Role, rejecting anything outside the set.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleStudent, RoleAdmin:
		return Role(s), nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}

// CanManageComplaints reports whether the role may change status and post responses.
func (r Role) CanManageComplaints() bool {
	switch r {
	case RoleAdmin:
		return true
	case RoleStudent:
		return false
	}
	return false
}

// CanSubmitComplaints reports whether the role may file complaints and leave feedback.
func (r Role) CanSubmitComplaints() bool {
	switch r {
	case RoleStudent:
		return true
	case RoleAdmin:
		return false
	}
	return false
}

// User is a registered identity in the directory.
// Email is the lookup key and is unique; Role never changes after creation.
type User struct {
	ID         string      `gorm:"primaryKey" json:"id"`
	Name       string      `gorm:"not null" json:"name"`
	Email      string      `gorm:"uniqueIndex;not null" json:"email"`
	Role       Role        `gorm:"type:text;not null" json:"role"`
	Department *Department `gorm:"type:text" json:"department,omitempty"`
	StudentID  *string     `json:"studentId,omitempty"` // Student number, e.g. STU001
}

// Clone returns a copy that shares no pointers with u.
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	c := *u
	if u.Department != nil {
		d := *u.Department
		c.Department = &d
	}
	if u.StudentID != nil {
		s := *u.StudentID
		c.StudentID = &s
	}
	return &c
}
