package favorites

import (
	"time"

	"github.com/angelmondragon/tradelink-backend/internal/users"
	"github.com/angelmondragon/tradelink-backend/pkg/db/models"
	"github.com/angelmondragon/tradelink-backend/pkg/enums"
	"github.com/google/uuid"
)

// AddInput is the body of an add-to-favorites request. FavoriteType defaults
// to the bookmarked user's role when empty.
type AddInput struct {
	FavoriteUserID uuid.UUID `json:"favoriteUserId" validate:"required"`
	FavoriteType   string    `json:"favoriteType" validate:"omitempty,role"`
}

// FavoriteDTO is a bookmarked user as returned to clients.
type FavoriteDTO struct {
	ID             uuid.UUID      `json:"id"`
	UserID         uuid.UUID      `json:"userId"`
	FavoriteUserID uuid.UUID      `json:"favoriteUserId"`
	FavoriteType   enums.Role     `json:"favoriteType"`
	CreatedAt      time.Time      `json:"createdAt"`
	FavoriteUser   *users.UserDTO `json:"favoriteUser,omitempty"`
}

// CheckDTO answers whether a user is already bookmarked.
type CheckDTO struct {
	IsFavorite bool `json:"isFavorite"`
}

func newFavoriteDTO(f *models.Favorite) FavoriteDTO {
	return FavoriteDTO{
		ID:             f.ID,
		UserID:         f.UserID,
		FavoriteUserID: f.FavoriteUserID,
		FavoriteType:   f.FavoriteType,
		CreatedAt:      f.CreatedAt,
		FavoriteUser:   users.FromModel(f.FavoriteUser),
	}
}
