package store

import (
	"context"
	"errors"

	"github.com/Mokereri/hotel-kitchen-api/apperrors"
	"github.com/Mokereri/hotel-kitchen-api/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type MealStore struct {
	db *gorm.DB
}

func NewMealStore(db *gorm.DB) *MealStore {
	return &MealStore{db: db}
}

// SeedMeals inserts the default menu, leaving existing rows untouched.
func (s *MealStore) SeedMeals(ctx context.Context) error {
	meals := make([]models.Meal, len(models.DefaultMeals))
	copy(meals, models.DefaultMeals)
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&meals).Error
	if err != nil {
		return apperrors.Persistence("seed meals", err)
	}
	return nil
}

func (s *MealStore) ListMeals(ctx context.Context) ([]models.Meal, error) {
	var meals []models.Meal
	if err := s.db.WithContext(ctx).Order("id ASC").Find(&meals).Error; err != nil {
		return nil, apperrors.Persistence("list meals", err)
	}
	return meals, nil
}

func (s *MealStore) GetMeal(ctx context.Context, id int) (*models.Meal, error) {
	var meal models.Meal
	err := s.db.WithContext(ctx).First(&meal, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, apperrors.Persistence("get meal", err)
	}
	return &meal, nil
}

func (s *MealStore) SetMealImage(ctx context.Context, id int, url string) error {
	result := s.db.WithContext(ctx).Model(&models.Meal{}).Where("id = ?", id).Update("image_url", url)
	if result.Error != nil {
		return apperrors.Persistence("set meal image", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
