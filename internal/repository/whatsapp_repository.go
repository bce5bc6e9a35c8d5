package repository

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/avrentops/rentalctl/internal/domain"
)

type WhatsAppListQuery struct {
	PageRequest
	EventID string
	Status  string
}

type WhatsAppRepository interface {
	Append(msg *domain.WhatsAppMessage) error
	ListPaged(query WhatsAppListQuery) (PageResult[domain.WhatsAppMessage], error)
}

type GormWhatsAppRepository struct{ db *gorm.DB }

func NewWhatsAppRepository(db *gorm.DB) WhatsAppRepository { return &GormWhatsAppRepository{db: db} }

func (r *GormWhatsAppRepository) Append(msg *domain.WhatsAppMessage) error {
	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	if msg.SentAt.IsZero() {
		msg.SentAt = time.Now().UTC()
	}
	return record("whatsapp_message", "create", r.db.Create(msg).Error, nil)
}

func (r *GormWhatsAppRepository) ListPaged(query WhatsAppListQuery) (PageResult[domain.WhatsAppMessage], error) {
	req := normalizePageRequest(query.PageRequest)
	result := PageResult[domain.WhatsAppMessage]{Page: req.Page, PageSize: req.PageSize}

	base := r.db.Model(&domain.WhatsAppMessage{})
	if query.EventID != "" {
		base = base.Where("event_id = ?", query.EventID)
	}
	if query.Status != "" {
		base = base.Where("status = ?", query.Status)
	}

	if err := base.Session(&gorm.Session{}).Count(&result.Total).Error; err != nil {
		return PageResult[domain.WhatsAppMessage]{}, record("whatsapp_message", "list_paged", err, nil)
	}
	offset := (req.Page - 1) * req.PageSize
	err := base.Order("sent_at DESC").Offset(offset).Limit(req.PageSize).Find(&result.Items).Error
	if err := record("whatsapp_message", "list_paged", err, nil); err != nil {
		return PageResult[domain.WhatsAppMessage]{}, err
	}
	result.TotalPages = calcTotalPages(result.Total, req.PageSize)
	return result, nil
}
