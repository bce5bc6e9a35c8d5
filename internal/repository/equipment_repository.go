package repository

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/avrentops/rentalctl/internal/domain"
)

var ErrEquipmentNotFound = errors.New("equipment not found")

type EquipmentListQuery struct {
	PageRequest
	Search        string
	CategoryID    string
	SubcategoryID string
	Status        string
}

type EquipmentRepository interface {
	FindByID(id string) (*domain.Equipment, error)
	FindByReference(reference string) (*domain.Equipment, error)
	Create(item *domain.Equipment) error
	Update(item *domain.Equipment) error
	Delete(id string) error
	ListPaged(query EquipmentListQuery) (PageResult[domain.Equipment], error)

	History(equipmentID string) ([]domain.EquipmentStatusHistory, error)
	AppendHistory(entry *domain.EquipmentStatusHistory) error

	// ReservedBetween sums reservation quantities for the item across
	// events whose rental window overlaps [start, end]. Cancelled events
	// do not count.
	ReservedBetween(equipmentID string, start, end time.Time) (int, error)
}

type GormEquipmentRepository struct{ db *gorm.DB }

func NewEquipmentRepository(db *gorm.DB) EquipmentRepository { return &GormEquipmentRepository{db: db} }

func (r *GormEquipmentRepository) FindByID(id string) (*domain.Equipment, error) {
	var e domain.Equipment
	err := r.db.Preload("Category").Preload("Subcategory").Where("id = ?", id).First(&e).Error
	if err := record("equipment", "find_by_id", err, ErrEquipmentNotFound); err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *GormEquipmentRepository) FindByReference(reference string) (*domain.Equipment, error) {
	var e domain.Equipment
	err := r.db.Preload("Category").Where("reference = ?", reference).First(&e).Error
	if err := record("equipment", "find_by_reference", err, ErrEquipmentNotFound); err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *GormEquipmentRepository) Create(item *domain.Equipment) error {
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	if item.Status == "" {
		item.Status = domain.EquipmentAvailable
	}
	if item.QuantityAvailable == 0 {
		item.QuantityAvailable = item.QuantityTotal
	}
	return record("equipment", "create", r.db.Create(item).Error, nil)
}

func (r *GormEquipmentRepository) Update(item *domain.Equipment) error {
	return record("equipment", "update", r.db.Save(item).Error, nil)
}

func (r *GormEquipmentRepository) Delete(id string) error {
	res := r.db.Where("id = ?", id).Delete(&domain.Equipment{})
	if err := record("equipment", "delete", res.Error, nil); err != nil {
		return err
	}
	if res.RowsAffected == 0 {
		return ErrEquipmentNotFound
	}
	return nil
}

func (r *GormEquipmentRepository) ListPaged(query EquipmentListQuery) (PageResult[domain.Equipment], error) {
	req := normalizePageRequest(query.PageRequest)
	result := PageResult[domain.Equipment]{Page: req.Page, PageSize: req.PageSize}

	base := r.db.Model(&domain.Equipment{})
	if query.Search != "" {
		pattern := "%" + query.Search + "%"
		base = base.Where("name LIKE ? OR reference LIKE ? OR brand LIKE ?", pattern, pattern, pattern)
	}
	if query.CategoryID != "" {
		base = base.Where("category_id = ?", query.CategoryID)
	}
	if query.SubcategoryID != "" {
		base = base.Where("subcategory_id = ?", query.SubcategoryID)
	}
	if query.Status != "" {
		base = base.Where("status = ?", query.Status)
	}

	if err := base.Session(&gorm.Session{}).Count(&result.Total).Error; err != nil {
		return PageResult[domain.Equipment]{}, record("equipment", "list_paged", err, nil)
	}
	offset := (req.Page - 1) * req.PageSize
	err := base.Preload("Category").Order("name ASC").Offset(offset).Limit(req.PageSize).Find(&result.Items).Error
	if err := record("equipment", "list_paged", err, nil); err != nil {
		return PageResult[domain.Equipment]{}, err
	}
	result.TotalPages = calcTotalPages(result.Total, req.PageSize)
	return result, nil
}

func (r *GormEquipmentRepository) History(equipmentID string) ([]domain.EquipmentStatusHistory, error) {
	var entries []domain.EquipmentStatusHistory
	err := r.db.Where("equipment_id = ?", equipmentID).Order("changed_at DESC").Find(&entries).Error
	return entries, record("equipment_history", "list", err, nil)
}

func (r *GormEquipmentRepository) AppendHistory(entry *domain.EquipmentStatusHistory) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.ChangedAt.IsZero() {
		entry.ChangedAt = time.Now().UTC()
	}
	return record("equipment_history", "create", r.db.Create(entry).Error, nil)
}

func (r *GormEquipmentRepository) ReservedBetween(equipmentID string, start, end time.Time) (int, error) {
	var reserved int64
	err := r.db.Model(&domain.EventEquipment{}).
		Select("COALESCE(SUM(event_equipments.quantity_reserved), 0)").
		Joins("JOIN events ON events.id = event_equipments.event_id").
		Where("event_equipments.equipment_id = ?", equipmentID).
		Where("events.status <> ?", domain.EventCancelled).
		Where("events.installation_date <= ? AND events.dismantling_date >= ?", end, start).
		Scan(&reserved).Error
	if err := record("equipment", "reserved_between", err, nil); err != nil {
		return 0, err
	}
	return int(reserved), nil
}
