package domain

import "time"

type UserRole string

const (
	RoleAdmin       UserRole = "ADMIN"
	RoleMaintenance UserRole = "MAINTENANCE"
	RoleTechnician  UserRole = "TECHNICIEN"
)

type User struct {
	ID              string    `gorm:"primaryKey;size:36" json:"id"`
	Email           string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	FullName        string    `gorm:"size:255;not null" json:"full_name"`
	Phone           string    `gorm:"size:32" json:"phone"`
	Role            UserRole  `gorm:"size:32;not null" json:"role"`
	ProfilePicture  string    `gorm:"size:512" json:"profile_picture,omitempty"`
	IsActive        bool      `gorm:"not null;default:true" json:"is_active"`
	IsEmailVerified bool      `gorm:"not null;default:false" json:"is_email_verified"`
	PasswordHash    string    `gorm:"size:128" json:"-"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}
