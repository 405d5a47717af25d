package dto

import "github.com/avvvet/arcade-services/internal/matchsvc/models"

type UserDto struct {
	ID       int64  `json:"id"`
	IntraID  string `json:"intraId"`
	ImageURI string `json:"imageUri,omitempty"`
}

func UserDtoFrom(user *models.User) UserDto {
	return UserDto{
		ID:       user.ID,
		IntraID:  user.IntraID,
		ImageURI: user.ImageURI,
	}
}
