package model

import (
	"time"

	"gorm.io/gorm"
)

type EventStatus string

const (
	EventStatusUpcoming  EventStatus = "upcoming"
	EventStatusOngoing   EventStatus = "ongoing"
	EventStatusCompleted EventStatus = "completed"
	EventStatusCancelled EventStatus = "cancelled"
)

func (s EventStatus) Valid() bool {
	switch s {
	case EventStatusUpcoming, EventStatusOngoing, EventStatusCompleted, EventStatusCancelled:
		return true
	}
	return false
}

var Difficulties = []string{"beginner", "intermediate", "advanced"}

const DefaultMaxParticipants = 20

type RideEvent struct {
	ID              uint        `gorm:"primaryKey" json:"id"`
	Title           string      `gorm:"type:varchar(200);not null" json:"title"`
	Description     string      `gorm:"type:text" json:"description"`
	Location        string      `gorm:"type:varchar(200)" json:"location"`
	Date            time.Time   `gorm:"type:date;not null;index" json:"date"`
	Time            string      `gorm:"type:varchar(5)" json:"time"`
	EndDate         *time.Time  `json:"end_date"`
	Price           float64     `gorm:"type:decimal(10,2);not null;default:0" json:"price"`
	Duration        string      `gorm:"type:varchar(100)" json:"duration"`
	Difficulty      string      `gorm:"type:varchar(20);not null;default:beginner" json:"difficulty"`
	Requirements    string      `gorm:"type:text" json:"requirements"`
	OrganizerName   string      `gorm:"type:varchar(200)" json:"organizer_name"`
	MaxParticipants int         `gorm:"not null;default:20" json:"max_participants"`
	Status          EventStatus `gorm:"type:varchar(20);not null;default:upcoming;index" json:"status"`
	Photos          StringSlice `gorm:"type:text" json:"photos"`
	OrganizerID     uint        `gorm:"not null;index" json:"organizer_id"`
	ZoneID          *uint       `gorm:"index" json:"zone"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`

	Organizer      Rider        `gorm:"foreignKey:OrganizerID;constraint:OnDelete:CASCADE" json:"-"`
	Zone           *Zone        `gorm:"foreignKey:ZoneID;constraint:OnDelete:SET NULL" json:"-"`
	Participants   []Rider      `gorm:"many2many:ride_event_participants;constraint:OnDelete:CASCADE" json:"-"`
	UploadedPhotos []EventPhoto `gorm:"foreignKey:EventID;constraint:OnDelete:CASCADE" json:"-"`
}

func (RideEvent) TableName() string { return "ride_events" }

func (e *RideEvent) BeforeSave(_ *gorm.DB) error {
	e.Date = StartOfDay(e.Date)
	if e.EndDate != nil {
		end := e.EndDate.UTC()
		e.EndDate = &end
	}
	return nil
}

// IsUpcoming is true for events dated today or later that are still open.
func (e *RideEvent) IsUpcoming(now time.Time) bool {
	return !e.Date.Before(StartOfDay(now)) && e.Status == EventStatusUpcoming
}

// IsPast is true for events dated before today or explicitly completed.
func (e *RideEvent) IsPast(now time.Time) bool {
	return e.Date.Before(StartOfDay(now)) || e.Status == EventStatusCompleted
}

func (e *RideEvent) HasParticipant(riderID uint) bool {
	for _, p := range e.Participants {
		if p.ID == riderID {
			return true
		}
	}
	return false
}

// EventPhoto is a photo uploaded by a member after (or during) an event.
type EventPhoto struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	EventID      uint      `gorm:"not null;index" json:"event_id"`
	Photo        string    `gorm:"type:varchar(255);not null" json:"photo"`
	Caption      string    `gorm:"type:varchar(200)" json:"caption"`
	UploadedByID *uint     `gorm:"index" json:"uploaded_by_id"`
	UploadedAt   time.Time `gorm:"autoCreateTime" json:"uploaded_at"`

	UploadedBy *Rider `gorm:"foreignKey:UploadedByID;constraint:OnDelete:SET NULL" json:"-"`
}

func (EventPhoto) TableName() string { return "event_photos" }

// EventParticipant is the join row behind RideEvent.Participants.
type EventParticipant struct {
	RideEventID uint      `gorm:"primaryKey" json:"event_id"`
	RiderID     uint      `gorm:"primaryKey;index" json:"rider_id"`
	JoinedAt    time.Time `gorm:"autoCreateTime" json:"joined_at"`
}

func (EventParticipant) TableName() string { return "ride_event_participants" }
