package models

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/tradelink-backend/pkg/enums"
)

// User represents the canonical identity entity. Role is fixed at registration.
type User struct {
	ID           uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Email        string     `gorm:"column:email;type:text;not null;uniqueIndex"`
	PasswordHash string     `gorm:"column:password_hash;not null"`
	FirstName    string     `gorm:"column:first_name;not null"`
	LastName     string     `gorm:"column:last_name;not null"`
	Role         enums.Role `gorm:"column:role;type:user_role;not null"`
	BusinessName *string    `gorm:"column:business_name"`
	Address      *string    `gorm:"column:address"`
	Phone        *string    `gorm:"column:phone"`
	WhatsApp     *string    `gorm:"column:whatsapp"`
	IsActive     bool       `gorm:"column:is_active;not null;default:true"`
	LastLoginAt  *time.Time `gorm:"column:last_login_at"`
	CreatedAt    time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

// DisplayName prefers the personal name, then the business name, then the email.
func (u User) DisplayName() string {
	if name := strings.TrimSpace(u.FirstName + " " + u.LastName); name != "" {
		return name
	}
	if u.BusinessName != nil && strings.TrimSpace(*u.BusinessName) != "" {
		return strings.TrimSpace(*u.BusinessName)
	}
	return u.Email
}
