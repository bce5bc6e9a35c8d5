package repository

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/avrentops/rentalctl/internal/domain"
)

var ErrMaintenanceNotFound = errors.New("maintenance not found")

type MaintenanceListQuery struct {
	PageRequest
	Status       string
	Priority     string
	EquipmentID  string
	TechnicianID string
}

type MaintenanceRepository interface {
	FindByID(id string) (*domain.Maintenance, error)
	Create(m *domain.Maintenance) error
	Update(m *domain.Maintenance) error
	ListPaged(query MaintenanceListQuery) (PageResult[domain.Maintenance], error)
	AppendLog(entry *domain.MaintenanceLog) error
}

type GormMaintenanceRepository struct{ db *gorm.DB }

func NewMaintenanceRepository(db *gorm.DB) MaintenanceRepository {
	return &GormMaintenanceRepository{db: db}
}

func (r *GormMaintenanceRepository) FindByID(id string) (*domain.Maintenance, error) {
	var m domain.Maintenance
	err := r.db.Preload("Equipment").Preload("Technician").Preload("Logs").
		Where("id = ?", id).First(&m).Error
	if err := record("maintenance", "find_by_id", err, ErrMaintenanceNotFound); err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *GormMaintenanceRepository) Create(m *domain.Maintenance) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	if m.Status == "" {
		m.Status = domain.MaintenancePending
	}
	return record("maintenance", "create", r.db.Create(m).Error, nil)
}

func (r *GormMaintenanceRepository) Update(m *domain.Maintenance) error {
	return record("maintenance", "update", r.db.Save(m).Error, nil)
}

func (r *GormMaintenanceRepository) ListPaged(query MaintenanceListQuery) (PageResult[domain.Maintenance], error) {
	req := normalizePageRequest(query.PageRequest)
	result := PageResult[domain.Maintenance]{Page: req.Page, PageSize: req.PageSize}

	base := r.db.Model(&domain.Maintenance{})
	if query.Status != "" {
		base = base.Where("status = ?", query.Status)
	}
	if query.Priority != "" {
		base = base.Where("priority = ?", query.Priority)
	}
	if query.EquipmentID != "" {
		base = base.Where("equipment_id = ?", query.EquipmentID)
	}
	if query.TechnicianID != "" {
		base = base.Where("technician_id = ?", query.TechnicianID)
	}

	if err := base.Session(&gorm.Session{}).Count(&result.Total).Error; err != nil {
		return PageResult[domain.Maintenance]{}, record("maintenance", "list_paged", err, nil)
	}
	offset := (req.Page - 1) * req.PageSize
	err := base.Preload("Equipment").Order("start_date DESC").Offset(offset).Limit(req.PageSize).Find(&result.Items).Error
	if err := record("maintenance", "list_paged", err, nil); err != nil {
		return PageResult[domain.Maintenance]{}, err
	}
	result.TotalPages = calcTotalPages(result.Total, req.PageSize)
	return result, nil
}

func (r *GormMaintenanceRepository) AppendLog(entry *domain.MaintenanceLog) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.Type == "" {
		entry.Type = domain.LogComment
	}
	return record("maintenance_log", "create", r.db.Create(entry).Error, nil)
}
