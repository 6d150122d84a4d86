package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"ridersclub/backend/internal/model"
	"ridersclub/backend/internal/repository"
)

// NoticeInput serves create and update. A null end_date makes the notice
// open-ended.
type NoticeInput struct {
	Title     *string               `json:"title"`
	Message   *string               `json:"message"`
	Priority  *model.NoticePriority `json:"priority"`
	IsActive  *bool                 `json:"is_active"`
	StartDate *time.Time            `json:"start_date"`
	EndDate   Nullable[time.Time]   `json:"end_date"`
}

type NoticeService interface {
	// List returns every notice for staff and only currently valid ones
	// for everybody else.
	List(ctx context.Context, caller *model.User, priority model.NoticePriority, page repository.Page) ([]model.Notice, error)
	Active(ctx context.Context) ([]model.Notice, error)
	Get(ctx context.Context, caller *model.User, id uint) (*model.Notice, error)
	Create(ctx context.Context, caller *model.User, in NoticeInput) (*model.Notice, error)
	Update(ctx context.Context, id uint, in NoticeInput) (*model.Notice, error)
	Delete(ctx context.Context, id uint) error
}

type noticeService struct {
	notices repository.NoticeRepository
	now     func() time.Time
}

func NewNoticeService(notices repository.NoticeRepository) NoticeService {
	return &noticeService{notices: notices, now: time.Now}
}

func (s *noticeService) List(ctx context.Context, caller *model.User, priority model.NoticePriority, page repository.Page) ([]model.Notice, error) {
	if priority != "" && !priority.Valid() {
		return nil, &ValidationError{Fields: map[string]string{"priority": strconv.Quote(string(priority)) + " is not a valid choice."}}
	}
	filter := repository.NoticeFilter{Priority: priority, Page: page}
	if caller == nil || !caller.IsStaff {
		now := s.now()
		filter.ActiveAt = &now
	}
	notices, err := s.notices.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list notices: %w", err)
	}
	return notices, nil
}

func (s *noticeService) Active(ctx context.Context) ([]model.Notice, error) {
	return s.List(ctx, nil, "", repository.Page{})
}

func (s *noticeService) Get(ctx context.Context, caller *model.User, id uint) (*model.Notice, error) {
	notice, err := s.notices.GetByID(ctx, id)
	if err != nil {
		return nil, lookupErr(err, "load notice")
	}
	if (caller == nil || !caller.IsStaff) && !notice.IsCurrentlyValid(s.now()) {
		return nil, ErrNotFound
	}
	return notice, nil
}

func (s *noticeService) apply(notice *model.Notice, in NoticeInput) error {
	if in.Title != nil {
		notice.Title = strings.TrimSpace(*in.Title)
	}
	if in.Message != nil {
		notice.Message = *in.Message
	}
	if in.IsActive != nil {
		notice.IsActive = *in.IsActive
	}
	if in.StartDate != nil {
		notice.StartDate = *in.StartDate
	}
	in.EndDate.assign(&notice.EndDate)

	errs := fieldErrors{}
	if in.Priority != nil {
		if !in.Priority.Valid() {
			errs.add("priority", strconv.Quote(string(*in.Priority))+" is not a valid choice.")
		}
		notice.Priority = *in.Priority
	}
	if notice.Title == "" {
		errs.add("title", "This field is required.")
	}
	if strings.TrimSpace(notice.Message) == "" {
		errs.add("message", "This field is required.")
	}
	if notice.EndDate != nil && !notice.EndDate.After(notice.StartDate) {
		errs.add("end_date", "End date must be after start date.")
	}
	return errs.err()
}

func (s *noticeService) Create(ctx context.Context, caller *model.User, in NoticeInput) (*model.Notice, error) {
	notice := &model.Notice{
		Priority:  model.NoticePriorityMedium,
		IsActive:  true,
		StartDate: s.now(),
	}
	if caller != nil {
		notice.CreatedByID = &caller.ID
	}
	if err := s.apply(notice, in); err != nil {
		return nil, err
	}
	if err := s.notices.Create(ctx, notice); err != nil {
		return nil, fmt.Errorf("create notice: %w", err)
	}
	return s.notices.GetByID(ctx, notice.ID)
}

func (s *noticeService) Update(ctx context.Context, id uint, in NoticeInput) (*model.Notice, error) {
	notice, err := s.notices.GetByID(ctx, id)
	if err != nil {
		return nil, lookupErr(err, "load notice")
	}
	if err := s.apply(notice, in); err != nil {
		return nil, err
	}
	if err := s.notices.Update(ctx, notice); err != nil {
		return nil, fmt.Errorf("update notice: %w", err)
	}
	return s.notices.GetByID(ctx, id)
}

func (s *noticeService) Delete(ctx context.Context, id uint) error {
	if err := s.notices.Delete(ctx, id); err != nil {
		return lookupErr(err, "delete notice")
	}
	return nil
}

var _ NoticeService = (*noticeService)(nil)
