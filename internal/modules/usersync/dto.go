package usersync

import "foodgram/internal/domain"

// SyncUserRequest: профиль пользователя от провайдера идентификации.
// ID совпадает с user_id в выдаваемых им токенах.
type SyncUserRequest struct {
	ID        int64  `json:"id" validate:"required,gt=0"`
	Email     string `json:"email" validate:"required,email,max=254"`
	Username  string `json:"username" validate:"required,max=150"`
	FirstName string `json:"first_name" validate:"max=150"`
	LastName  string `json:"last_name" validate:"max=150"`
	Role      string `json:"role" validate:"required"`
}

type SyncUserResponse struct {
	ID       int64  `json:"id"`
	Email    string `json:"email"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

func toResponse(u *domain.User) SyncUserResponse {
	return SyncUserResponse{
		ID:       u.ID,
		Email:    u.Email,
		Username: u.Username,
		Role:     string(u.Role),
	}
}
