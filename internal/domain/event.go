package domain

import "time"

type EventCategory string

const (
	EventSound EventCategory = "SON"
	EventVideo EventCategory = "VIDEO"
	EventLight EventCategory = "LUMIERE"
	EventMixed EventCategory = "MIXTE"
)

type EventStatus string

const (
	EventPlanned   EventStatus = "PLANIFIE"
	EventOngoing   EventStatus = "EN_COURS"
	EventFinished  EventStatus = "TERMINE"
	EventCancelled EventStatus = "ANNULE"
)

type Event struct {
	ID               string        `gorm:"primaryKey;size:36" json:"id"`
	EventName        string        `gorm:"size:255;not null" json:"event_name"`
	ClientName       string        `gorm:"size:255;not null" json:"client_name"`
	ContactPerson    string        `gorm:"size:255;not null" json:"contact_person"`
	Phone            string        `gorm:"size:32;not null" json:"phone"`
	Email            string        `gorm:"size:255" json:"email,omitempty"`
	Address          string        `gorm:"size:1024;not null" json:"address"`
	InstallationDate time.Time     `gorm:"not null" json:"installation_date"`
	EventDate        time.Time     `gorm:"index;not null" json:"event_date"`
	DismantlingDate  time.Time     `gorm:"not null" json:"dismantling_date"`
	Category         EventCategory `gorm:"size:16;not null" json:"category"`
	Status           EventStatus   `gorm:"size:16;index;not null" json:"status"`
	Notes            string        `gorm:"size:4096" json:"notes,omitempty"`
	Budget           float64       `json:"budget,omitempty"`
	ParticipantCount int           `json:"participant_count,omitempty"`
	EventType        string        `gorm:"size:128" json:"event_type,omitempty"`
	CreatedBy        string        `gorm:"size:36" json:"created_by"`
	CreatedAt        time.Time     `json:"created_at"`
	UpdatedAt        time.Time     `json:"updated_at"`
}

type ReservationStatus string

const (
	ReservationReserved  ReservationStatus = "RESERVE"
	ReservationDelivered ReservationStatus = "LIVRE"
	ReservationReturned  ReservationStatus = "RETOURNE"
)

// EventEquipment is a reservation line item: a quantity of one equipment
// item attached to an event. A zero ID means the line does not exist
// server-side yet.
type EventEquipment struct {
	ID               string            `gorm:"primaryKey;size:36" json:"id,omitempty"`
	EventID          string            `gorm:"size:36;index;not null" json:"event_id"`
	EquipmentID      string            `gorm:"size:36;index;not null" json:"equipment_id"`
	Equipment        *Equipment        `gorm:"foreignKey:EquipmentID" json:"equipment,omitempty"`
	QuantityReserved int               `gorm:"not null" json:"quantity_reserved"`
	QuantityReturned int               `json:"quantity_returned"`
	Status           ReservationStatus `gorm:"size:16" json:"status,omitempty"`
	Notes            string            `gorm:"size:1024" json:"notes,omitempty"`
	CreatedAt        time.Time         `json:"created_at"`
}

// EventTechnician assigns a staff member to an event with an optional role
// label (e.g. "régie son").
type EventTechnician struct {
	ID           string    `gorm:"primaryKey;size:36" json:"id,omitempty"`
	EventID      string    `gorm:"size:36;index;not null" json:"event_id"`
	TechnicianID string    `gorm:"size:36;index;not null" json:"technician_id"`
	Technician   *User     `gorm:"foreignKey:TechnicianID" json:"technician,omitempty"`
	Role         string    `gorm:"size:128" json:"role,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}
