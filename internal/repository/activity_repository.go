package repository

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/avrentops/rentalctl/internal/domain"
)

type ActivityListQuery struct {
	PageRequest
	UserID     string
	Action     string
	EntityType string
}

type ActivityRepository interface {
	Append(entry *domain.ActivityLog) error
	ListPaged(query ActivityListQuery) (PageResult[domain.ActivityLog], error)
}

type GormActivityRepository struct{ db *gorm.DB }

func NewActivityRepository(db *gorm.DB) ActivityRepository { return &GormActivityRepository{db: db} }

func (r *GormActivityRepository) Append(entry *domain.ActivityLog) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	return record("activity_log", "create", r.db.Create(entry).Error, nil)
}

func (r *GormActivityRepository) ListPaged(query ActivityListQuery) (PageResult[domain.ActivityLog], error) {
	req := normalizePageRequest(query.PageRequest)
	result := PageResult[domain.ActivityLog]{Page: req.Page, PageSize: req.PageSize}

	base := r.db.Model(&domain.ActivityLog{})
	if query.UserID != "" {
		base = base.Where("user_id = ?", query.UserID)
	}
	if query.Action != "" {
		base = base.Where("action = ?", query.Action)
	}
	if query.EntityType != "" {
		base = base.Where("entity_type = ?", query.EntityType)
	}

	if err := base.Session(&gorm.Session{}).Count(&result.Total).Error; err != nil {
		return PageResult[domain.ActivityLog]{}, record("activity_log", "list_paged", err, nil)
	}
	offset := (req.Page - 1) * req.PageSize
	err := base.Preload("User").Order("created_at DESC").Offset(offset).Limit(req.PageSize).Find(&result.Items).Error
	if err := record("activity_log", "list_paged", err, nil); err != nil {
		return PageResult[domain.ActivityLog]{}, err
	}
	result.TotalPages = calcTotalPages(result.Total, req.PageSize)
	return result, nil
}
