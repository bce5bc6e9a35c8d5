package repository

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/avrentops/rentalctl/internal/domain"
)

var (
	ErrEventNotFound       = errors.New("event not found")
	ErrReservationNotFound = errors.New("reservation not found")
	ErrAssignmentNotFound  = errors.New("assignment not found")
)

type EventListQuery struct {
	PageRequest
	Status    string
	Category  string
	StartDate *time.Time
	EndDate   *time.Time
}

type EventRepository interface {
	FindByID(id string) (*domain.Event, error)
	Create(event *domain.Event) error
	Update(event *domain.Event) error
	Delete(id string) error
	ListPaged(query EventListQuery) (PageResult[domain.Event], error)

	ListEquipment(eventID string) ([]domain.EventEquipment, error)
	FindReservation(eventID, reservationID string) (*domain.EventEquipment, error)
	AddEquipment(item *domain.EventEquipment) error
	UpdateReservation(item *domain.EventEquipment) error
	RemoveEquipment(eventID, reservationID string) error

	ListTechnicians(eventID string) ([]domain.EventTechnician, error)
	AssignTechnician(item *domain.EventTechnician) error
	RemoveTechnician(eventID, assignmentID string) error
}

type GormEventRepository struct{ db *gorm.DB }

func NewEventRepository(db *gorm.DB) EventRepository { return &GormEventRepository{db: db} }

func (r *GormEventRepository) FindByID(id string) (*domain.Event, error) {
	var e domain.Event
	err := r.db.Where("id = ?", id).First(&e).Error
	if err := record("event", "find_by_id", err, ErrEventNotFound); err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *GormEventRepository) Create(event *domain.Event) error {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Status == "" {
		event.Status = domain.EventPlanned
	}
	return record("event", "create", r.db.Create(event).Error, nil)
}

func (r *GormEventRepository) Update(event *domain.Event) error {
	return record("event", "update", r.db.Save(event).Error, nil)
}

func (r *GormEventRepository) Delete(id string) error {
	// Child rows go with the event; reservations without a parent are
	// unreachable through the API.
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("event_id = ?", id).Delete(&domain.EventEquipment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("event_id = ?", id).Delete(&domain.EventTechnician{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&domain.Event{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrEventNotFound
		}
		return nil
	})
	if errors.Is(err, ErrEventNotFound) {
		return record("event", "delete", gorm.ErrRecordNotFound, ErrEventNotFound)
	}
	return record("event", "delete", err, nil)
}

func (r *GormEventRepository) ListPaged(query EventListQuery) (PageResult[domain.Event], error) {
	req := normalizePageRequest(query.PageRequest)
	result := PageResult[domain.Event]{Page: req.Page, PageSize: req.PageSize}

	base := r.db.Model(&domain.Event{})
	if query.Status != "" {
		base = base.Where("status = ?", query.Status)
	}
	if query.Category != "" {
		base = base.Where("category = ?", query.Category)
	}
	if query.StartDate != nil {
		base = base.Where("event_date >= ?", *query.StartDate)
	}
	if query.EndDate != nil {
		base = base.Where("event_date <= ?", *query.EndDate)
	}

	if err := base.Session(&gorm.Session{}).Count(&result.Total).Error; err != nil {
		return PageResult[domain.Event]{}, record("event", "list_paged", err, nil)
	}
	offset := (req.Page - 1) * req.PageSize
	err := base.Order("event_date ASC").Offset(offset).Limit(req.PageSize).Find(&result.Items).Error
	if err := record("event", "list_paged", err, nil); err != nil {
		return PageResult[domain.Event]{}, err
	}
	result.TotalPages = calcTotalPages(result.Total, req.PageSize)
	return result, nil
}

func (r *GormEventRepository) ListEquipment(eventID string) ([]domain.EventEquipment, error) {
	var items []domain.EventEquipment
	err := r.db.Preload("Equipment").Where("event_id = ?", eventID).Order("created_at ASC").Find(&items).Error
	return items, record("event_equipment", "list", err, nil)
}

func (r *GormEventRepository) FindReservation(eventID, reservationID string) (*domain.EventEquipment, error) {
	var item domain.EventEquipment
	err := r.db.Where("event_id = ? AND id = ?", eventID, reservationID).First(&item).Error
	if err := record("event_equipment", "find", err, ErrReservationNotFound); err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *GormEventRepository) AddEquipment(item *domain.EventEquipment) error {
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	if item.Status == "" {
		item.Status = domain.ReservationReserved
	}
	return record("event_equipment", "create", r.db.Create(item).Error, nil)
}

func (r *GormEventRepository) UpdateReservation(item *domain.EventEquipment) error {
	return record("event_equipment", "update", r.db.Save(item).Error, nil)
}

func (r *GormEventRepository) RemoveEquipment(eventID, reservationID string) error {
	res := r.db.Where("event_id = ? AND id = ?", eventID, reservationID).Delete(&domain.EventEquipment{})
	if err := record("event_equipment", "delete", res.Error, nil); err != nil {
		return err
	}
	if res.RowsAffected == 0 {
		return ErrReservationNotFound
	}
	return nil
}

func (r *GormEventRepository) ListTechnicians(eventID string) ([]domain.EventTechnician, error) {
	var items []domain.EventTechnician
	err := r.db.Preload("Technician").Where("event_id = ?", eventID).Order("created_at ASC").Find(&items).Error
	return items, record("event_technician", "list", err, nil)
}

func (r *GormEventRepository) AssignTechnician(item *domain.EventTechnician) error {
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	return record("event_technician", "create", r.db.Create(item).Error, nil)
}

func (r *GormEventRepository) RemoveTechnician(eventID, assignmentID string) error {
	res := r.db.Where("event_id = ? AND id = ?", eventID, assignmentID).Delete(&domain.EventTechnician{})
	if err := record("event_technician", "delete", res.Error, nil); err != nil {
		return err
	}
	if res.RowsAffected == 0 {
		return ErrAssignmentNotFound
	}
	return nil
}
