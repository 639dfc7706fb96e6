package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"foodgram/internal/domain"
	"foodgram/internal/pkg/apperr"
)

type FollowRepository struct {
	db *gorm.DB
}

func NewFollowRepository(db *gorm.DB) *FollowRepository {
	return &FollowRepository{db: db}
}

func (r *FollowRepository) Exists(ctx context.Context, userID, followingID int64) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.Follow{}).
		Where("user_id = ? AND following_id = ?", userID, followingID).
		Count(&n).Error
	return n > 0, err
}

func (r *FollowRepository) Add(ctx context.Context, userID, followingID int64) error {
	exists, err := r.Exists(ctx, userID, followingID)
	if err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("already subscribed to user %d: %w", followingID, apperr.ErrConflict)
	}

	err = r.db.WithContext(ctx).Create(&domain.Follow{UserID: userID, FollowingID: followingID}).Error
	if IsDuplicate(err) {
		return fmt.Errorf("already subscribed to user %d: %w", followingID, apperr.ErrConflict)
	}
	return err
}

func (r *FollowRepository) Remove(ctx context.Context, userID, followingID int64) error {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND following_id = ?", userID, followingID).
		Delete(&domain.Follow{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("not subscribed to user %d: %w", followingID, apperr.ErrStateMismatch)
	}
	return nil
}

// ListFollowing: страница авторов, на которых подписан userID, новые подписки первыми.
func (r *FollowRepository) ListFollowing(ctx context.Context, userID int64, limit, offset int) ([]domain.User, int64, error) {
	base := r.db.WithContext(ctx).Model(&domain.User{}).
		Joins("JOIN follows ON follows.following_id = users.id").
		Where("follows.user_id = ?", userID)

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var users []domain.User
	err := base.Session(&gorm.Session{}).
		Select("users.*").
		Order("follows.id DESC").
		Limit(limit).Offset(offset).
		Find(&users).Error
	return users, total, err
}

// Followed отвечает, на кого из targetIDs подписан userID.
func (r *FollowRepository) Followed(ctx context.Context, userID int64, targetIDs []int64) (map[int64]bool, error) {
	out := make(map[int64]bool, len(targetIDs))
	if userID == 0 || len(targetIDs) == 0 {
		return out, nil
	}
	var ids []int64
	err := r.db.WithContext(ctx).Model(&domain.Follow{}).
		Where("user_id = ? AND following_id IN ?", userID, targetIDs).
		Pluck("following_id", &ids).Error
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		out[id] = true
	}
	return out, nil
}
