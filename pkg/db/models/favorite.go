package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/tradelink-backend/pkg/enums"
)

// Favorite bookmarks another user. FavoriteType is the bookmarked user's role.
type Favorite struct {
	ID             uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID         uuid.UUID  `gorm:"column:user_id;type:uuid;not null"`
	FavoriteUserID uuid.UUID  `gorm:"column:favorite_user_id;type:uuid;not null"`
	FavoriteType   enums.Role `gorm:"column:favorite_type;type:user_role;not null"`
	FavoriteUser   *User      `gorm:"foreignKey:FavoriteUserID"`
	CreatedAt      time.Time  `gorm:"column:created_at;autoCreateTime"`
}

// SearchHistory records one search a user ran and how many results it produced.
type SearchHistory struct {
	ID          uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID      uuid.UUID        `gorm:"column:user_id;type:uuid;not null"`
	SearchTerm  string           `gorm:"column:search_term;not null"`
	SearchType  enums.SearchType `gorm:"column:search_type;type:search_type;not null"`
	ResultCount int              `gorm:"column:result_count;not null"`
	CreatedAt   time.Time        `gorm:"column:created_at;autoCreateTime"`
}

func (SearchHistory) TableName() string {
	return "search_history"
}
