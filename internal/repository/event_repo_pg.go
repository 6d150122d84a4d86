package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"ridersclub/backend/internal/model"
)

type pgEventRepository struct {
	db *gorm.DB
}

func NewPGEventRepository(db *gorm.DB) EventRepository {
	return &pgEventRepository{db: db}
}

func (r *pgEventRepository) Create(ctx context.Context, event *model.RideEvent) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(event).Error
}

func (r *pgEventRepository) withRelations(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Organizer.User").
		Preload("Participants.User").
		Preload("UploadedPhotos", func(db *gorm.DB) *gorm.DB {
			return db.Order("uploaded_at DESC")
		}).
		Preload("Zone")
}

func (r *pgEventRepository) GetByID(ctx context.Context, id uint) (*model.RideEvent, error) {
	var event model.RideEvent
	if err := r.withRelations(ctx).First(&event, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &event, nil
}

func (r *pgEventRepository) LockByID(ctx context.Context, id uint) (*model.RideEvent, error) {
	var event model.RideEvent
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&event, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &event, nil
}

func (r *pgEventRepository) List(ctx context.Context, filter EventFilter) ([]model.RideEvent, error) {
	var events []model.RideEvent
	q := r.withRelations(ctx)
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.ZoneID != nil {
		q = q.Where("zone_id = ?", *filter.ZoneID)
	}
	switch {
	case filter.UpcomingOn != nil:
		q = q.Where("date >= ? AND status = ?", model.StartOfDay(*filter.UpcomingOn), model.EventStatusUpcoming).
			Order("date ASC")
	case filter.PastOn != nil:
		q = q.Where("date < ? OR status = ?", model.StartOfDay(*filter.PastOn), model.EventStatusCompleted).
			Order("date DESC")
	default:
		q = q.Order("date ASC")
	}
	err := filter.Page.apply(q.Order("id ASC")).Find(&events).Error
	return events, err
}

func (r *pgEventRepository) Update(ctx context.Context, event *model.RideEvent) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(event).Error
}

func (r *pgEventRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("ride_event_id = ?", id).Delete(&model.EventParticipant{}).Error; err != nil {
			return err
		}
		if err := tx.Where("event_id = ?", id).Delete(&model.EventPhoto{}).Error; err != nil {
			return err
		}
		return deleteByID(ctx, tx, &model.RideEvent{}, id)
	})
}

func (r *pgEventRepository) CountParticipants(ctx context.Context, eventID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.EventParticipant{}).
		Where("ride_event_id = ?", eventID).
		Count(&count).Error
	return count, err
}

func (r *pgEventRepository) IsParticipant(ctx context.Context, eventID, riderID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.EventParticipant{}).
		Where("ride_event_id = ? AND rider_id = ?", eventID, riderID).
		Count(&count).Error
	return count > 0, err
}

func (r *pgEventRepository) AddParticipant(ctx context.Context, eventID, riderID uint) error {
	return r.db.WithContext(ctx).Create(&model.EventParticipant{
		RideEventID: eventID,
		RiderID:     riderID,
	}).Error
}

func (r *pgEventRepository) RemoveParticipant(ctx context.Context, eventID, riderID uint) error {
	return r.db.WithContext(ctx).
		Where("ride_event_id = ? AND rider_id = ?", eventID, riderID).
		Delete(&model.EventParticipant{}).Error
}

func (r *pgEventRepository) CreatePhoto(ctx context.Context, photo *model.EventPhoto) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(photo).Error
}

func (r *pgEventRepository) GetPhoto(ctx context.Context, eventID, photoID uint) (*model.EventPhoto, error) {
	var photo model.EventPhoto
	err := r.db.WithContext(ctx).
		Preload("UploadedBy.User").
		Where("event_id = ? AND id = ?", eventID, photoID).
		First(&photo).Error
	if err != nil {
		return nil, err
	}
	return &photo, nil
}

func (r *pgEventRepository) ListPhotos(ctx context.Context, eventID uint) ([]model.EventPhoto, error) {
	var photos []model.EventPhoto
	err := r.db.WithContext(ctx).
		Preload("UploadedBy.User").
		Where("event_id = ?", eventID).
		Order("uploaded_at DESC").
		Find(&photos).Error
	return photos, err
}

func (r *pgEventRepository) DeletePhoto(ctx context.Context, photoID uint) error {
	return deleteByID(ctx, r.db, &model.EventPhoto{}, photoID)
}

func (r *pgEventRepository) CompleteStale(ctx context.Context, day time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&model.RideEvent{}).
		Where("date < ? AND status IN ?", model.StartOfDay(day),
			[]model.EventStatus{model.EventStatusUpcoming, model.EventStatusOngoing}).
		UpdateColumns(map[string]interface{}{
			"status":     model.EventStatusCompleted,
			"updated_at": time.Now().UTC(),
		})
	return res.RowsAffected, res.Error
}
