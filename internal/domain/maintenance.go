package domain

import "time"

type MaintenancePriority string

const (
	PriorityLow    MaintenancePriority = "BASSE"
	PriorityMedium MaintenancePriority = "MOYENNE"
	PriorityHigh   MaintenancePriority = "HAUTE"
)

type MaintenanceStatus string

const (
	MaintenancePending  MaintenanceStatus = "EN_ATTENTE"
	MaintenanceOngoing  MaintenanceStatus = "EN_COURS"
	MaintenanceFinished MaintenanceStatus = "TERMINE"
)

type Maintenance struct {
	ID                  string              `gorm:"primaryKey;size:36" json:"id"`
	EquipmentID         string              `gorm:"size:36;index;not null" json:"equipment_id"`
	Equipment           *Equipment          `gorm:"foreignKey:EquipmentID" json:"equipment,omitempty"`
	ProblemDescription  string              `gorm:"size:4096;not null" json:"problem_description"`
	TechnicianID        string              `gorm:"size:36;index" json:"technician_id,omitempty"`
	Technician          *User               `gorm:"foreignKey:TechnicianID" json:"technician,omitempty"`
	Priority            MaintenancePriority `gorm:"size:16;not null" json:"priority"`
	StartDate           time.Time           `gorm:"not null" json:"start_date"`
	ExpectedEndDate     *time.Time          `json:"expected_end_date,omitempty"`
	ActualEndDate       *time.Time          `json:"actual_end_date,omitempty"`
	Cost                float64             `json:"cost,omitempty"`
	Status              MaintenanceStatus   `gorm:"size:16;index;not null" json:"status"`
	SolutionDescription string              `gorm:"size:4096" json:"solution_description,omitempty"`
	Logs                []MaintenanceLog    `gorm:"foreignKey:MaintenanceID" json:"logs,omitempty"`
	CreatedAt           time.Time           `json:"created_at"`
	UpdatedAt           time.Time           `json:"updated_at"`
}

type MaintenanceLogType string

const (
	LogComment      MaintenanceLogType = "COMMENT"
	LogStatusChange MaintenanceLogType = "STATUS_CHANGE"
)

type MaintenanceLog struct {
	ID            string             `gorm:"primaryKey;size:36" json:"id"`
	MaintenanceID string             `gorm:"size:36;index;not null" json:"maintenance_id"`
	UserID        string             `gorm:"size:36;not null" json:"user_id"`
	User          *User              `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Content       string             `gorm:"size:4096;not null" json:"content"`
	Type          MaintenanceLogType `gorm:"size:16;not null" json:"type"`
	CreatedAt     time.Time          `json:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at"`
}
