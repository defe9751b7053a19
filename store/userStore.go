package store

import (
	"context"
	"errors"

	"github.com/Mokereri/hotel-kitchen-api/apperrors"
	"github.com/Mokereri/hotel-kitchen-api/models"
	"gorm.io/gorm"
)

type UserStore struct {
	db *gorm.DB
}

func NewUserStore(db *gorm.DB) *UserStore {
	return &UserStore{db: db}
}

// CreateUser stores a user whose password is already hashed.
func (s *UserStore) CreateUser(ctx context.Context, user *models.User) error {
	db := s.db.WithContext(ctx)

	var existing int64
	if err := db.Model(&models.User{}).Where("email = ?", user.Email).Count(&existing).Error; err != nil {
		return apperrors.Persistence("check user", err)
	}
	if existing > 0 {
		return apperrors.Invalid("email", "user already exists")
	}

	if err := db.Create(user).Error; err != nil {
		return apperrors.Persistence("create user", err)
	}
	return nil
}

func (s *UserStore) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, apperrors.Persistence("find user", err)
	}
	return &user, nil
}
