package repository

import (
	"context"
	"errors"

	"github.com/glucolog/glucolog/internal/database"
	"github.com/glucolog/glucolog/internal/domain"
	apperrors "github.com/glucolog/glucolog/internal/errors"
	"gorm.io/gorm"
)

// UserRepository handles account persistence.
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func userToDomain(row database.User) domain.User {
	return domain.User{
		ID:             row.ID,
		CreatedAt:      row.CreatedAt,
		UpdatedAt:      row.UpdatedAt,
		Email:          row.Email,
		Name:           row.Name,
		APIToken:       row.APIToken,
		TelegramChatID: row.TelegramChatID,
	}
}

func (r *UserRepository) GetUserByToken(ctx context.Context, token string) (*domain.User, error) {
	var row database.User
	err := r.db.WithContext(ctx).Where("api_token = ?", token).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.ErrUserNotFound
	}
	if err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}
	user := userToDomain(row)
	return &user, nil
}

func (r *UserRepository) GetUserByID(ctx context.Context, id uint) (*domain.User, error) {
	var row database.User
	err := r.db.WithContext(ctx).First(&row, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.ErrUserNotFound
	}
	if err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}
	user := userToDomain(row)
	return &user, nil
}
