package models

import "time"

// Complaint is a single issue submitted by a student and tracked through its status lifecycle.
type Complaint struct {
	ID          string     `gorm:"primaryKey" json:"id"`
	Title       string     `gorm:"not null" json:"title"`
	Description string     `gorm:"type:text;not null" json:"description"`
	Category    Category   `gorm:"type:text;index" json:"category"`
	Department  Department `gorm:"type:text;index" json:"department"`
	Status      Status     `gorm:"type:text;index" json:"status"`
	CreatedAt   time.Time  `gorm:"autoCreateTime:false" json:"createdAt"`
	UpdatedAt   time.Time  `gorm:"autoUpdateTime:false" json:"updatedAt"`
	// StudentID is the owning identity's ID and never changes.
	StudentID string `gorm:"index;not null" json:"studentId"`
	// StudentName is nil exactly when IsAnonymous is set.
	StudentName *string    `json:"studentName"`
	IsAnonymous bool       `json:"isAnonymous"`
	Responses   []Response `gorm:"foreignKey:ComplaintID;constraint:OnDelete:CASCADE" json:"responses"`
	Feedback    *Feedback  `gorm:"foreignKey:ComplaintID;constraint:OnDelete:CASCADE" json:"feedback,omitempty"`

	// Position keeps the newest-first storage order in SQL backends.
	Position int64 `gorm:"index" json:"-"`
}

// Response is an administrator reply. Responses are append-only and
// their slice order is the display order.
type Response struct {
	ComplaintID string    `gorm:"primaryKey" json:"-"`
	ID          string    `gorm:"primaryKey" json:"id"`
	Content     string    `gorm:"type:text;not null" json:"content"`
	CreatedAt   time.Time `gorm:"autoCreateTime:false" json:"createdAt"`
	AdminName   string    `json:"adminName"`
	AdminID     string    `json:"adminId"`
	Position    int       `json:"-"`
}

// TableName keeps the response table name explicit.
func (Response) TableName() string { return "complaint_responses" }

// Feedback is the owning student's rating of a resolved complaint.
type Feedback struct {
	ComplaintID string `gorm:"primaryKey" json:"-"`
	Rating      int    `gorm:"not null" json:"rating"`
	Comment     string `gorm:"type:text" json:"comment"`
}

// TableName keeps the feedback table name explicit.
func (Feedback) TableName() string { return "complaint_feedback" }

// Clone returns a deep copy so callers can never mutate stored state.
func (c *Complaint) Clone() *Complaint {
	if c == nil {
		return nil
	}
	out := *c
	if c.StudentName != nil {
		name := *c.StudentName
		out.StudentName = &name
	}
	out.Responses = make([]Response, len(c.Responses))
	copy(out.Responses, c.Responses)
	if c.Feedback != nil {
		fb := *c.Feedback
		out.Feedback = &fb
	}
	return &out
}
