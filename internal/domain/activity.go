package domain

import "time"

type ActivityLog struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"`
	UserID      string    `gorm:"size:36;index;not null" json:"user_id"`
	User        *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Action      string    `gorm:"size:64;index;not null" json:"action"`
	EntityType  string    `gorm:"size:64;index" json:"entity_type"`
	EntityID    string    `gorm:"size:36" json:"entity_id,omitempty"`
	Description string    `gorm:"size:1024" json:"description,omitempty"`
	IPAddress   string    `gorm:"size:64" json:"ip_address,omitempty"`
	UserAgent   string    `gorm:"size:512" json:"user_agent,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}
