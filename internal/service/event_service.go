package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"ridersclub/backend/internal/events"
	"ridersclub/backend/internal/metrics"
	"ridersclub/backend/internal/model"
	"ridersclub/backend/internal/repository"
)

var clockTime = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)

// EventInput serves create and update; absent fields are left unchanged.
type EventInput struct {
	Title           *string             `json:"title"`
	Description     *string             `json:"description"`
	Location        *string             `json:"location"`
	Date            *string             `json:"date"`
	Time            *string             `json:"time"`
	EndDate         Nullable[time.Time] `json:"end_date"`
	Price           *float64            `json:"price"`
	Duration        *string             `json:"duration"`
	Difficulty      *string             `json:"difficulty"`
	Requirements    *string             `json:"requirements"`
	OrganizerName   *string             `json:"organizer_name"`
	MaxParticipants *int                `json:"max_participants"`
	Status          *model.EventStatus  `json:"status"`
	Photos          []string            `json:"photos"`
	ZoneID          Nullable[uint]      `json:"zone"`
}

type PhotoInput struct {
	Photo   string `json:"photo"`
	Caption string `json:"caption"`
}

type EventService interface {
	List(ctx context.Context, filter repository.EventFilter) ([]model.RideEvent, error)
	Upcoming(ctx context.Context) ([]model.RideEvent, error)
	Past(ctx context.Context) ([]model.RideEvent, error)
	Get(ctx context.Context, id uint) (*model.RideEvent, error)
	Create(ctx context.Context, caller *model.User, in EventInput) (*model.RideEvent, error)
	Update(ctx context.Context, caller *model.User, id uint, in EventInput) (*model.RideEvent, error)
	Delete(ctx context.Context, caller *model.User, id uint) error

	// Join and Leave return the participant count after the change.
	Join(ctx context.Context, caller *model.User, id uint) (int64, error)
	Leave(ctx context.Context, caller *model.User, id uint) (int64, error)

	ListPhotos(ctx context.Context, id uint) ([]model.EventPhoto, error)
	AddPhoto(ctx context.Context, caller *model.User, id uint, in PhotoInput) (*model.EventPhoto, error)
	DeletePhoto(ctx context.Context, caller *model.User, id, photoID uint) error

	// CompleteStale marks events dated before today that are still upcoming
	// or ongoing as completed.
	CompleteStale(ctx context.Context) (int64, error)
}

type eventService struct {
	repos     *repository.Repositories
	publisher events.Publisher
	logger    *zap.Logger
	now       func() time.Time
}

func NewEventService(repos *repository.Repositories, publisher events.Publisher, logger *zap.Logger) EventService {
	return &eventService{
		repos:     repos,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

func (s *eventService) List(ctx context.Context, filter repository.EventFilter) ([]model.RideEvent, error) {
	list, err := s.repos.Events.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return list, nil
}

func (s *eventService) Upcoming(ctx context.Context) ([]model.RideEvent, error) {
	today := s.now()
	return s.List(ctx, repository.EventFilter{UpcomingOn: &today})
}

func (s *eventService) Past(ctx context.Context) ([]model.RideEvent, error) {
	today := s.now()
	return s.List(ctx, repository.EventFilter{PastOn: &today})
}

func (s *eventService) Get(ctx context.Context, id uint) (*model.RideEvent, error) {
	event, err := s.repos.Events.GetByID(ctx, id)
	if err != nil {
		return nil, lookupErr(err, "load event")
	}
	return event, nil
}

func (s *eventService) apply(ctx context.Context, event *model.RideEvent, in EventInput) error {
	errs := fieldErrors{}
	if in.Title != nil {
		event.Title = strings.TrimSpace(*in.Title)
	}
	if in.Description != nil {
		event.Description = *in.Description
	}
	if in.Location != nil {
		event.Location = *in.Location
	}
	if in.Date != nil {
		date, err := time.Parse(dateLayout, *in.Date)
		if err != nil {
			errs.add("date", "Date has wrong format. Use YYYY-MM-DD.")
		} else {
			event.Date = date
		}
	}
	if in.Time != nil {
		if *in.Time != "" && !clockTime.MatchString(*in.Time) {
			errs.add("time", "Time has wrong format. Use HH:MM.")
		} else {
			event.Time = *in.Time
		}
	}
	in.EndDate.assign(&event.EndDate)
	if in.Price != nil {
		if *in.Price < 0 {
			errs.add("price", "Ensure this value is greater than or equal to 0.")
		}
		event.Price = *in.Price
	}
	if in.Duration != nil {
		event.Duration = *in.Duration
	}
	if in.Difficulty != nil {
		if !contains(model.Difficulties, *in.Difficulty) {
			errs.add("difficulty", strconv.Quote(*in.Difficulty)+" is not a valid choice.")
		}
		event.Difficulty = *in.Difficulty
	}
	if in.Requirements != nil {
		event.Requirements = *in.Requirements
	}
	if in.OrganizerName != nil {
		event.OrganizerName = *in.OrganizerName
	}
	if in.MaxParticipants != nil {
		if *in.MaxParticipants < 1 {
			errs.add("max_participants", "Ensure this value is greater than or equal to 1.")
		}
		event.MaxParticipants = *in.MaxParticipants
	}
	if in.Status != nil {
		if !in.Status.Valid() {
			errs.add("status", strconv.Quote(string(*in.Status))+" is not a valid choice.")
		}
		event.Status = *in.Status
	}
	if in.Photos != nil {
		event.Photos = model.StringSlice(in.Photos)
	}
	if in.ZoneID.Value != nil {
		if _, err := s.repos.Zones.GetByID(ctx, *in.ZoneID.Value); err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("load zone: %w", err)
			}
			errs.add("zone", "Invalid zone selected.")
		} else {
			event.ZoneID = in.ZoneID.Value
		}
	} else {
		in.ZoneID.assign(&event.ZoneID)
	}
	if event.Title == "" {
		errs.add("title", "This field is required.")
	}
	if event.Date.IsZero() {
		errs.add("date", "This field is required.")
	}
	return errs.err()
}

func (s *eventService) Create(ctx context.Context, caller *model.User, in EventInput) (*model.RideEvent, error) {
	rider, err := riderFor(ctx, s.repos, caller)
	if err != nil {
		return nil, err
	}
	event := &model.RideEvent{
		OrganizerID:     rider.ID,
		MaxParticipants: model.DefaultMaxParticipants,
		Status:          model.EventStatusUpcoming,
		Difficulty:      model.Difficulties[0],
		Photos:          model.StringSlice{},
	}
	if err := s.apply(ctx, event, in); err != nil {
		return nil, err
	}
	if err := s.repos.Events.Create(ctx, event); err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}
	return s.Get(ctx, event.ID)
}

// canManage reports whether caller may edit or delete event.
func (s *eventService) canManage(ctx context.Context, caller *model.User, event *model.RideEvent) (bool, error) {
	if caller.IsStaff {
		return true, nil
	}
	rider, err := riderFor(ctx, s.repos, caller)
	if errors.Is(err, ErrRiderNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return rider.ID == event.OrganizerID, nil
}

func (s *eventService) Update(ctx context.Context, caller *model.User, id uint, in EventInput) (*model.RideEvent, error) {
	event, err := s.repos.Events.GetByID(ctx, id)
	if err != nil {
		return nil, lookupErr(err, "load event")
	}
	ok, err := s.canManage(ctx, caller, event)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrForbidden
	}
	if err := s.apply(ctx, event, in); err != nil {
		return nil, err
	}
	if err := s.repos.Events.Update(ctx, event); err != nil {
		return nil, fmt.Errorf("update event: %w", err)
	}
	return s.Get(ctx, id)
}

func (s *eventService) Delete(ctx context.Context, caller *model.User, id uint) error {
	event, err := s.repos.Events.GetByID(ctx, id)
	if err != nil {
		return lookupErr(err, "load event")
	}
	ok, err := s.canManage(ctx, caller, event)
	if err != nil {
		return err
	}
	if !ok {
		return ErrForbidden
	}
	if err := s.repos.Events.Delete(ctx, id); err != nil {
		return lookupErr(err, "delete event")
	}
	return nil
}

func (s *eventService) Join(ctx context.Context, caller *model.User, id uint) (int64, error) {
	rider, err := riderFor(ctx, s.repos, caller)
	if err != nil {
		return 0, err
	}

	var count int64
	err = s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		event, err := tx.Events.LockByID(ctx, id)
		if err != nil {
			return lookupErr(err, "lock event")
		}
		if !event.IsUpcoming(s.now()) {
			return ErrEventNotOpen
		}
		count, err = tx.Events.CountParticipants(ctx, id)
		if err != nil {
			return fmt.Errorf("count participants: %w", err)
		}
		if count >= int64(event.MaxParticipants) {
			return ErrEventFull
		}
		joined, err := tx.Events.IsParticipant(ctx, id, rider.ID)
		if err != nil {
			return fmt.Errorf("check participant: %w", err)
		}
		if joined {
			return ErrAlreadyJoined
		}
		if err := tx.Events.AddParticipant(ctx, id, rider.ID); err != nil {
			return fmt.Errorf("add participant: %w", err)
		}
		count++
		return nil
	})
	if err != nil {
		metrics.RecordParticipation("join", participationResult(err))
		return 0, err
	}

	metrics.RecordParticipation("join", "ok")
	publish(ctx, s.publisher, s.logger, events.New(events.TypeEventJoined, strconv.FormatUint(uint64(id), 10), map[string]interface{}{
		"event_id":          id,
		"rider_id":          rider.ID,
		"participant_count": count,
	}))
	return count, nil
}

func (s *eventService) Leave(ctx context.Context, caller *model.User, id uint) (int64, error) {
	rider, err := riderFor(ctx, s.repos, caller)
	if err != nil {
		return 0, err
	}

	var count int64
	err = s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		if _, err := tx.Events.LockByID(ctx, id); err != nil {
			return lookupErr(err, "lock event")
		}
		joined, err := tx.Events.IsParticipant(ctx, id, rider.ID)
		if err != nil {
			return fmt.Errorf("check participant: %w", err)
		}
		if !joined {
			return ErrNotJoined
		}
		if err := tx.Events.RemoveParticipant(ctx, id, rider.ID); err != nil {
			return fmt.Errorf("remove participant: %w", err)
		}
		count, err = tx.Events.CountParticipants(ctx, id)
		return err
	})
	if err != nil {
		metrics.RecordParticipation("leave", participationResult(err))
		return 0, err
	}
	metrics.RecordParticipation("leave", "ok")
	return count, nil
}

func participationResult(err error) string {
	switch {
	case errors.Is(err, ErrEventFull):
		return "full"
	case errors.Is(err, ErrAlreadyJoined):
		return "already_joined"
	case errors.Is(err, ErrNotJoined):
		return "not_joined"
	case errors.Is(err, ErrEventNotOpen):
		return "closed"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	}
	return "error"
}

func (s *eventService) ListPhotos(ctx context.Context, id uint) ([]model.EventPhoto, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	photos, err := s.repos.Events.ListPhotos(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("list photos: %w", err)
	}
	return photos, nil
}

func (s *eventService) AddPhoto(ctx context.Context, caller *model.User, id uint, in PhotoInput) (*model.EventPhoto, error) {
	event, err := s.repos.Events.GetByID(ctx, id)
	if err != nil {
		return nil, lookupErr(err, "load event")
	}
	if strings.TrimSpace(in.Photo) == "" {
		return nil, &ValidationError{Fields: map[string]string{"photo": "This field is required."}}
	}

	photo := &model.EventPhoto{EventID: id, Photo: in.Photo, Caption: in.Caption}
	rider, err := riderFor(ctx, s.repos, caller)
	switch {
	case err == nil:
		if !caller.IsStaff && rider.ID != event.OrganizerID && !event.HasParticipant(rider.ID) {
			return nil, ErrForbidden
		}
		photo.UploadedByID = &rider.ID
	case errors.Is(err, ErrRiderNotFound):
		if !caller.IsStaff {
			return nil, err
		}
	default:
		return nil, err
	}

	if err := s.repos.Events.CreatePhoto(ctx, photo); err != nil {
		return nil, fmt.Errorf("create photo: %w", err)
	}
	return s.repos.Events.GetPhoto(ctx, id, photo.ID)
}

func (s *eventService) DeletePhoto(ctx context.Context, caller *model.User, id, photoID uint) error {
	photo, err := s.repos.Events.GetPhoto(ctx, id, photoID)
	if err != nil {
		return lookupErr(err, "load photo")
	}
	if !caller.IsStaff {
		rider, err := riderFor(ctx, s.repos, caller)
		if err != nil && !errors.Is(err, ErrRiderNotFound) {
			return err
		}
		if rider == nil || photo.UploadedByID == nil || *photo.UploadedByID != rider.ID {
			return ErrForbidden
		}
	}
	if err := s.repos.Events.DeletePhoto(ctx, photoID); err != nil {
		return lookupErr(err, "delete photo")
	}
	return nil
}

func (s *eventService) CompleteStale(ctx context.Context) (int64, error) {
	n, err := s.repos.Events.CompleteStale(ctx, s.now())
	if err != nil {
		return 0, fmt.Errorf("complete stale events: %w", err)
	}
	metrics.RecordSweptEvents(n)
	return n, nil
}

var _ EventService = (*eventService)(nil)
