package model

import (
	"time"

	"gorm.io/gorm"
)

type NoticePriority string

const (
	NoticePriorityLow    NoticePriority = "low"
	NoticePriorityMedium NoticePriority = "medium"
	NoticePriorityHigh   NoticePriority = "high"
	NoticePriorityUrgent NoticePriority = "urgent"
)

// Rank orders priorities for display; higher ranks sort first.
func (p NoticePriority) Rank() int {
	switch p {
	case NoticePriorityUrgent:
		return 4
	case NoticePriorityHigh:
		return 3
	case NoticePriorityMedium:
		return 2
	case NoticePriorityLow:
		return 1
	}
	return 0
}

func (p NoticePriority) Valid() bool { return p.Rank() > 0 }

// NoticePriorityOrder is the SQL ORDER BY fragment matching Rank.
const NoticePriorityOrder = "CASE priority WHEN 'urgent' THEN 4 WHEN 'high' THEN 3 WHEN 'medium' THEN 2 WHEN 'low' THEN 1 ELSE 0 END DESC"

type Notice struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Title       string         `gorm:"type:varchar(200);not null" json:"title"`
	Message     string         `gorm:"type:text;not null" json:"message"`
	Priority    NoticePriority `gorm:"type:varchar(10);not null;default:medium" json:"priority"`
	IsActive    bool           `gorm:"not null;index" json:"is_active"`
	StartDate   time.Time      `gorm:"not null;index" json:"start_date"`
	EndDate     *time.Time     `json:"end_date"`
	CreatedByID *uint          `json:"created_by_id"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`

	CreatedBy *User `gorm:"foreignKey:CreatedByID;constraint:OnDelete:SET NULL" json:"-"`
}

func (Notice) TableName() string { return "notices" }

func (n *Notice) BeforeSave(_ *gorm.DB) error {
	n.StartDate = n.StartDate.UTC()
	if n.EndDate != nil {
		end := n.EndDate.UTC()
		n.EndDate = &end
	}
	return nil
}

// IsCurrentlyValid is true while the notice is active and now lies in
// [start_date, end_date).
func (n *Notice) IsCurrentlyValid(now time.Time) bool {
	if !n.IsActive || n.StartDate.After(now) {
		return false
	}
	return n.EndDate == nil || n.EndDate.After(now)
}
