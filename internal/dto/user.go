package dto

import (
	"time"

	"github.com/Aghostraa/abcr-platform/internal/models"
)

// UserProfileDTO represents a user profile in API responses
type UserProfileDTO struct {
	ID        string      `json:"id"`
	Email     string      `json:"email"`
	Role      models.Role `json:"role"`
	LastLogin time.Time   `json:"last_login"`
}

// ToUserProfileDTO converts a UserProfile model to UserProfileDTO
func ToUserProfileDTO(profile models.UserProfile) UserProfileDTO {
	return UserProfileDTO{
		ID:        profile.ID,
		Email:     profile.Email,
		Role:      profile.Role,
		LastLogin: profile.LastLogin,
	}
}

// ToUserProfileDTOs converts a slice of profiles
func ToUserProfileDTOs(profiles []models.UserProfile) []UserProfileDTO {
	items := make([]UserProfileDTO, len(profiles))
	for i, p := range profiles {
		items[i] = ToUserProfileDTO(p)
	}
	return items
}
