package repository

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/avrentops/rentalctl/internal/domain"
)

var (
	ErrVehicleNotFound   = errors.New("vehicle not found")
	ErrTransportNotFound = errors.New("transport not found")
)

type TransportListQuery struct {
	PageRequest
	Status    string
	EventID   string
	VehicleID string
}

type TransportRepository interface {
	ListVehicles() ([]domain.Vehicle, error)
	FindVehicle(id string) (*domain.Vehicle, error)
	CreateVehicle(v *domain.Vehicle) error
	UpdateVehicle(v *domain.Vehicle) error
	DeleteVehicle(id string) error

	FindTransport(id string) (*domain.Transport, error)
	CreateTransport(t *domain.Transport) error
	UpdateTransport(t *domain.Transport) error
	ListTransportsPaged(query TransportListQuery) (PageResult[domain.Transport], error)
}

type GormTransportRepository struct{ db *gorm.DB }

func NewTransportRepository(db *gorm.DB) TransportRepository {
	return &GormTransportRepository{db: db}
}

func (r *GormTransportRepository) ListVehicles() ([]domain.Vehicle, error) {
	var vehicles []domain.Vehicle
	err := r.db.Order("registration_number ASC").Find(&vehicles).Error
	return vehicles, record("vehicle", "list", err, nil)
}

func (r *GormTransportRepository) FindVehicle(id string) (*domain.Vehicle, error) {
	var v domain.Vehicle
	err := r.db.Where("id = ?", id).First(&v).Error
	if err := record("vehicle", "find", err, ErrVehicleNotFound); err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *GormTransportRepository) CreateVehicle(v *domain.Vehicle) error {
	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	if v.Status == "" {
		v.Status = domain.VehicleAvailable
	}
	return record("vehicle", "create", r.db.Create(v).Error, nil)
}

func (r *GormTransportRepository) UpdateVehicle(v *domain.Vehicle) error {
	return record("vehicle", "update", r.db.Save(v).Error, nil)
}

func (r *GormTransportRepository) DeleteVehicle(id string) error {
	res := r.db.Where("id = ?", id).Delete(&domain.Vehicle{})
	if err := record("vehicle", "delete", res.Error, nil); err != nil {
		return err
	}
	if res.RowsAffected == 0 {
		return ErrVehicleNotFound
	}
	return nil
}

func (r *GormTransportRepository) FindTransport(id string) (*domain.Transport, error) {
	var t domain.Transport
	err := r.db.Preload("Vehicle").Preload("Driver").Preload("Event").Where("id = ?", id).First(&t).Error
	if err := record("transport", "find", err, ErrTransportNotFound); err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *GormTransportRepository) CreateTransport(t *domain.Transport) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if t.Status == "" {
		t.Status = domain.TransportPlanned
	}
	return record("transport", "create", r.db.Create(t).Error, nil)
}

func (r *GormTransportRepository) UpdateTransport(t *domain.Transport) error {
	return record("transport", "update", r.db.Save(t).Error, nil)
}

func (r *GormTransportRepository) ListTransportsPaged(query TransportListQuery) (PageResult[domain.Transport], error) {
	req := normalizePageRequest(query.PageRequest)
	result := PageResult[domain.Transport]{Page: req.Page, PageSize: req.PageSize}

	base := r.db.Model(&domain.Transport{})
	if query.Status != "" {
		base = base.Where("status = ?", query.Status)
	}
	if query.EventID != "" {
		base = base.Where("event_id = ?", query.EventID)
	}
	if query.VehicleID != "" {
		base = base.Where("vehicle_id = ?", query.VehicleID)
	}

	if err := base.Session(&gorm.Session{}).Count(&result.Total).Error; err != nil {
		return PageResult[domain.Transport]{}, record("transport", "list_paged", err, nil)
	}
	offset := (req.Page - 1) * req.PageSize
	err := base.Preload("Vehicle").Order("departure_date DESC").Offset(offset).Limit(req.PageSize).Find(&result.Items).Error
	if err := record("transport", "list_paged", err, nil); err != nil {
		return PageResult[domain.Transport]{}, err
	}
	result.TotalPages = calcTotalPages(result.Total, req.PageSize)
	return result, nil
}
