package repository

import (
	"context"

	"gorm.io/gorm"
)

// Repositories bundles every repository bound to the same *gorm.DB handle,
// so a service can run several writes in one transaction.
type Repositories struct {
	db *gorm.DB

	Users        UserRepository
	Zones        ZoneRepository
	Riders       RiderRepository
	Applications ApplicationRepository
	Events       EventRepository
	Posts        PostRepository
	Benefits     BenefitRepository
	Notices      NoticeRepository
}

func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		db:           db,
		Users:        NewPGUserRepository(db),
		Zones:        NewPGZoneRepository(db),
		Riders:       NewPGRiderRepository(db),
		Applications: NewPGApplicationRepository(db),
		Events:       NewPGEventRepository(db),
		Posts:        NewPGPostRepository(db),
		Benefits:     NewPGBenefitRepository(db),
		Notices:      NewPGNoticeRepository(db),
	}
}

// Transaction runs fn with repositories bound to a single transaction.
// Returning an error from fn rolls everything back.
func (r *Repositories) Transaction(ctx context.Context, fn func(tx *Repositories) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepositories(tx))
	})
}

// Ping checks database connectivity for the health endpoint.
func (r *Repositories) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Page bounds list queries. Zero Limit means no limit.
type Page struct {
	Limit  int
	Offset int
}

func (p Page) apply(q *gorm.DB) *gorm.DB {
	if p.Limit > 0 {
		q = q.Limit(p.Limit)
	}
	if p.Offset > 0 {
		q = q.Offset(p.Offset)
	}
	return q
}
