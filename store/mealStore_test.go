package store

import (
	"context"
	"testing"

	"github.com/Mokereri/hotel-kitchen-api/apperrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeedMealsIsRepeatable(t *testing.T) {
	s := NewMealStore(newTestDB(t))
	ctx := context.Background()

	require.NoError(t, s.SeedMeals(ctx))
	require.NoError(t, s.SetMealImage(ctx, 4, "https://cdn.example.com/rice.jpg"))
	require.NoError(t, s.SeedMeals(ctx))

	meals, err := s.ListMeals(ctx)
	require.NoError(t, err)
	assert.Len(t, meals, 9)

	meal, err := s.GetMeal(ctx, 4)
	require.NoError(t, err)
	assert.Equal(t, "Rice Beans", meal.Name)
	assert.Equal(t, "https://cdn.example.com/rice.jpg", meal.ImageURL)
	assert.Equal(t, "100", meal.Price.String())

	_, err = s.GetMeal(ctx, 42)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}
