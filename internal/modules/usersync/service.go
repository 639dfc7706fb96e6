package usersync

import (
	"context"
	"regexp"
	"strings"

	"foodgram/internal/domain"
	"foodgram/internal/pkg/apperr"
	"foodgram/internal/pkg/validator"
)

type Result string

const (
	ResultCreated Result = "created"
	ResultUpdated Result = "updated"
)

var usernameRe = regexp.MustCompile(`^[\w.@+-]+$`)

type UserStore interface {
	Upsert(ctx context.Context, u *domain.User) (bool, error)
}

type Service struct {
	users UserStore
}

func NewService(users UserStore) *Service {
	return &Service{users: users}
}

// SyncUser создаёт или обновляет пользователя по id провайдера.
// Занятый другим id email или username даёт ErrConflict.
func (s *Service) SyncUser(ctx context.Context, req SyncUserRequest) (*domain.User, Result, error) {
	if err := validator.Check(req); err != nil {
		return nil, "", err
	}
	role, err := parseRole(req.Role)
	if err != nil {
		return nil, "", err
	}
	username := strings.TrimSpace(req.Username)
	if !usernameRe.MatchString(username) {
		return nil, "", apperr.Invalid("username", "may contain only letters, digits and @/./+/-/_")
	}

	u := &domain.User{
		ID:        req.ID,
		Email:     strings.ToLower(strings.TrimSpace(req.Email)),
		Username:  username,
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
		Role:      role,
	}
	created, err := s.users.Upsert(ctx, u)
	if err != nil {
		return nil, "", err
	}
	if created {
		return u, ResultCreated, nil
	}
	return u, ResultUpdated, nil
}

func parseRole(role string) (domain.UserRole, error) {
	switch domain.UserRole(strings.ToLower(strings.TrimSpace(role))) {
	case domain.RoleUser:
		return domain.RoleUser, nil
	case domain.RoleAdmin:
		return domain.RoleAdmin, nil
	default:
		return "", apperr.Invalid("role", "must be one of user, admin")
	}
}
