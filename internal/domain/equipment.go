package domain

import "time"

type EquipmentStatus string

const (
	EquipmentAvailable   EquipmentStatus = "DISPONIBLE"
	EquipmentRented      EquipmentStatus = "EN_LOCATION"
	EquipmentMaintenance EquipmentStatus = "EN_MAINTENANCE"
	EquipmentMissing     EquipmentStatus = "MANQUANT"
)

type Category struct {
	ID            string        `gorm:"primaryKey;size:36" json:"id"`
	Name          string        `gorm:"size:255;uniqueIndex;not null" json:"name"`
	Description   string        `gorm:"size:1024" json:"description,omitempty"`
	Icon          string        `gorm:"size:64" json:"icon,omitempty"`
	Subcategories []Subcategory `gorm:"foreignKey:CategoryID" json:"subcategories,omitempty"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

type Subcategory struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"`
	CategoryID  string    `gorm:"size:36;index;not null" json:"category_id"`
	Name        string    `gorm:"size:255;not null" json:"name"`
	Description string    `gorm:"size:1024" json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Equipment struct {
	ID                string          `gorm:"primaryKey;size:36" json:"id"`
	Name              string          `gorm:"size:255;not null" json:"name"`
	Reference         string          `gorm:"size:64;uniqueIndex" json:"reference"`
	CategoryID        string          `gorm:"size:36;index;not null" json:"category_id"`
	SubcategoryID     string          `gorm:"size:36;index" json:"subcategory_id,omitempty"`
	Category          *Category       `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Subcategory       *Subcategory    `gorm:"foreignKey:SubcategoryID" json:"subcategory,omitempty"`
	Brand             string          `gorm:"size:128" json:"brand,omitempty"`
	Model             string          `gorm:"size:128" json:"model,omitempty"`
	Description       string          `gorm:"size:2048" json:"description,omitempty"`
	TechnicalSpecs    string          `gorm:"size:4096" json:"technical_specs,omitempty"`
	QuantityTotal     int             `gorm:"not null" json:"quantity_total"`
	QuantityAvailable int             `gorm:"not null" json:"quantity_available"`
	PurchasePrice     float64         `json:"purchase_price,omitempty"`
	DailyRentalPrice  float64         `json:"daily_rental_price,omitempty"`
	PurchaseDate      *time.Time      `json:"purchase_date,omitempty"`
	WarrantyEndDate   *time.Time      `json:"warranty_end_date,omitempty"`
	Supplier          string          `gorm:"size:255" json:"supplier,omitempty"`
	QRCodeURL         string          `gorm:"size:512" json:"qr_code_url,omitempty"`
	WeightKg          float64         `json:"weight_kg,omitempty"`
	Status            EquipmentStatus `gorm:"size:32" json:"status,omitempty"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

type EquipmentStatusHistory struct {
	ID             string          `gorm:"primaryKey;size:36" json:"id"`
	EquipmentID    string          `gorm:"size:36;index;not null" json:"equipment_id"`
	Status         EquipmentStatus `gorm:"size:32;not null" json:"status"`
	Quantity       int             `gorm:"not null" json:"quantity"`
	RelatedEventID string          `gorm:"size:36;index" json:"related_event_id,omitempty"`
	MaintenanceID  string          `gorm:"size:36;index" json:"maintenance_id,omitempty"`
	Notes          string          `gorm:"size:1024" json:"notes,omitempty"`
	ChangedBy      string          `gorm:"size:36" json:"changed_by,omitempty"`
	ChangedAt      time.Time       `json:"changed_at"`
}

// AvailabilityWindow reports how many units of an equipment item are free
// between two dates, net of overlapping reservations.
type AvailabilityWindow struct {
	EquipmentID       string    `json:"equipment_id"`
	StartDate         time.Time `json:"start_date"`
	EndDate           time.Time `json:"end_date"`
	QuantityAvailable int       `json:"quantity_available"`
	QuantityReserved  int       `json:"quantity_reserved"`
}
