package repository

import (
	"context"
	"time"

	"ridersclub/backend/internal/model"
)

type EventFilter struct {
	Status model.EventStatus
	ZoneID *uint
	// UpcomingOn and PastOn select by the read-time classification for the
	// given day. At most one should be set.
	UpcomingOn *time.Time
	PastOn     *time.Time
	Page
}

type EventRepository interface {
	Create(ctx context.Context, event *model.RideEvent) error
	GetByID(ctx context.Context, id uint) (*model.RideEvent, error)
	// LockByID loads the bare event row with a FOR UPDATE lock where supported.
	LockByID(ctx context.Context, id uint) (*model.RideEvent, error)
	List(ctx context.Context, filter EventFilter) ([]model.RideEvent, error)
	Update(ctx context.Context, event *model.RideEvent) error
	Delete(ctx context.Context, id uint) error

	CountParticipants(ctx context.Context, eventID uint) (int64, error)
	IsParticipant(ctx context.Context, eventID, riderID uint) (bool, error)
	AddParticipant(ctx context.Context, eventID, riderID uint) error
	RemoveParticipant(ctx context.Context, eventID, riderID uint) error

	CreatePhoto(ctx context.Context, photo *model.EventPhoto) error
	GetPhoto(ctx context.Context, eventID, photoID uint) (*model.EventPhoto, error)
	ListPhotos(ctx context.Context, eventID uint) ([]model.EventPhoto, error)
	DeletePhoto(ctx context.Context, photoID uint) error

	// CompleteStale marks events dated before day that are still upcoming or
	// ongoing as completed, returning the number of rows changed.
	CompleteStale(ctx context.Context, day time.Time) (int64, error)
}
