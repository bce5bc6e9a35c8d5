package domain

import "time"

type VehicleType string

const (
	VehicleTruck VehicleType = "Camion"
	VehicleVan   VehicleType = "Utilitaire"
	VehicleCar   VehicleType = "Voiture"
)

type VehicleStatus string

const (
	VehicleAvailable     VehicleStatus = "DISPONIBLE"
	VehicleInService     VehicleStatus = "EN_SERVICE"
	VehicleInMaintenance VehicleStatus = "EN_MAINTENANCE"
)

type Vehicle struct {
	ID                        string        `gorm:"primaryKey;size:36" json:"id"`
	RegistrationNumber        string        `gorm:"size:32;uniqueIndex;not null" json:"registration_number"`
	Type                      VehicleType   `gorm:"size:32;not null" json:"type"`
	Brand                     string        `gorm:"size:128" json:"brand,omitempty"`
	Model                     string        `gorm:"size:128" json:"model,omitempty"`
	LoadCapacityKg            float64       `json:"load_capacity_kg,omitempty"`
	CargoDimensions           string        `gorm:"size:128" json:"cargo_dimensions,omitempty"`
	InsuranceExpiry           *time.Time    `json:"insurance_expiry,omitempty"`
	TechnicalInspectionExpiry *time.Time    `json:"technical_inspection_expiry,omitempty"`
	FuelType                  string        `gorm:"size:32" json:"fuel_type,omitempty"`
	CurrentMileage            int           `json:"current_mileage,omitempty"`
	Status                    VehicleStatus `gorm:"size:32;index;not null" json:"status"`
	CreatedAt                 time.Time     `json:"created_at"`
	UpdatedAt                 time.Time     `json:"updated_at"`
}

type TransportStatus string

const (
	TransportPlanned   TransportStatus = "PLANIFIE"
	TransportEnRoute   TransportStatus = "EN_ROUTE"
	TransportDelivered TransportStatus = "LIVRE"
	TransportReturning TransportStatus = "RETOUR"
	TransportFinished  TransportStatus = "TERMINE"
)

type Transport struct {
	ID               string          `gorm:"primaryKey;size:36" json:"id"`
	EventID          string          `gorm:"size:36;index;not null" json:"event_id"`
	VehicleID        string          `gorm:"size:36;index;not null" json:"vehicle_id"`
	DriverID         string          `gorm:"size:36;index" json:"driver_id,omitempty"`
	Event            *Event          `gorm:"foreignKey:EventID" json:"event,omitempty"`
	Vehicle          *Vehicle        `gorm:"foreignKey:VehicleID" json:"vehicle,omitempty"`
	Driver           *User           `gorm:"foreignKey:DriverID" json:"driver,omitempty"`
	DepartureAddress string          `gorm:"size:1024;not null" json:"departure_address"`
	ArrivalAddress   string          `gorm:"size:1024;not null" json:"arrival_address"`
	DepartureDate    time.Time       `gorm:"not null" json:"departure_date"`
	ReturnDate       *time.Time      `json:"return_date,omitempty"`
	DepartureMileage int             `json:"departure_mileage,omitempty"`
	ArrivalMileage   int             `json:"arrival_mileage,omitempty"`
	FuelCost         float64         `json:"fuel_cost,omitempty"`
	TotalWeightKg    float64         `json:"total_weight_kg,omitempty"`
	Status           TransportStatus `gorm:"size:16;index;not null" json:"status"`
	Incidents        string          `gorm:"size:4096" json:"incidents,omitempty"`
	Notes            string          `gorm:"size:4096" json:"notes,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}
