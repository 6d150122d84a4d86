package dto

import (
	"time"

	"ridersclub/backend/internal/model"
)

type EventPhoto struct {
	ID         uint      `json:"id"`
	Event      uint      `json:"event"`
	Photo      string    `json:"photo"`
	Caption    string    `json:"caption"`
	UploadedBy *uint     `json:"uploaded_by"`
	Uploader   string    `json:"uploaded_by_name"`
	UploadedAt time.Time `json:"uploaded_at"`
}

func NewEventPhoto(p *model.EventPhoto, m Media) EventPhoto {
	out := EventPhoto{
		ID:         p.ID,
		Event:      p.EventID,
		Photo:      m.URL(p.Photo),
		Caption:    p.Caption,
		UploadedBy: p.UploadedByID,
		UploadedAt: p.UploadedAt,
	}
	if p.UploadedBy != nil {
		out.Uploader = p.UploadedBy.User.FullName()
	}
	return out
}

func NewEventPhotos(list []model.EventPhoto, m Media) []EventPhoto {
	out := make([]EventPhoto, 0, len(list))
	for i := range list {
		out = append(out, NewEventPhoto(&list[i], m))
	}
	return out
}

type Event struct {
	ID               uint         `json:"id"`
	Title            string       `json:"title"`
	Description      string       `json:"description"`
	Location         string       `json:"location"`
	Date             string       `json:"date"`
	Time             string       `json:"time"`
	EndDate          *time.Time   `json:"end_date"`
	Price            float64      `json:"price"`
	Duration         string       `json:"duration"`
	Difficulty       string       `json:"difficulty"`
	Requirements     string       `json:"requirements"`
	OrganizerName    string       `json:"organizer_name"`
	MaxParticipants  int          `json:"max_participants"`
	Status           string       `json:"status"`
	Photos           []string     `json:"photos"`
	Zone             *uint        `json:"zone"`
	ZoneName         string       `json:"zone_name"`
	Organizer        Rider        `json:"organizer"`
	Participants     []Rider      `json:"participants"`
	ParticipantCount int          `json:"participant_count"`
	UploadedPhotos   []EventPhoto `json:"uploaded_photos"`
	IsUpcoming       bool         `json:"is_upcoming"`
	IsPast           bool         `json:"is_past"`
	IsJoined         bool         `json:"is_joined"`
	CreatedAt        time.Time    `json:"created_at"`
	UpdatedAt        time.Time    `json:"updated_at"`
}

// NewEvent builds the event body. viewerRiderID marks is_joined; pass 0
// for anonymous callers.
func NewEvent(e *model.RideEvent, now time.Time, viewerRiderID uint, m Media) Event {
	out := Event{
		ID:               e.ID,
		Title:            e.Title,
		Description:      e.Description,
		Location:         e.Location,
		Date:             e.Date.UTC().Format(dateLayout),
		Time:             e.Time,
		EndDate:          e.EndDate,
		Price:            e.Price,
		Duration:         e.Duration,
		Difficulty:       e.Difficulty,
		Requirements:     e.Requirements,
		OrganizerName:    e.OrganizerName,
		MaxParticipants:  e.MaxParticipants,
		Status:           string(e.Status),
		Photos:           m.URLs(e.Photos),
		Zone:             e.ZoneID,
		Organizer:        NewRider(&e.Organizer, m),
		Participants:     NewRiders(e.Participants, m),
		ParticipantCount: len(e.Participants),
		UploadedPhotos:   NewEventPhotos(e.UploadedPhotos, m),
		IsUpcoming:       e.IsUpcoming(now),
		IsPast:           e.IsPast(now),
		IsJoined:         viewerRiderID != 0 && e.HasParticipant(viewerRiderID),
		CreatedAt:        e.CreatedAt,
		UpdatedAt:        e.UpdatedAt,
	}
	if out.OrganizerName == "" {
		out.OrganizerName = e.Organizer.User.FullName()
	}
	if e.Zone != nil {
		out.ZoneName = e.Zone.Name
	}
	return out
}

func NewEvents(list []model.RideEvent, now time.Time, viewerRiderID uint, m Media) []Event {
	out := make([]Event, 0, len(list))
	for i := range list {
		out = append(out, NewEvent(&list[i], now, viewerRiderID, m))
	}
	return out
}
