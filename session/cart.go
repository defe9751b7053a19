package session

import (
	"fmt"

	"github.com/Mokereri/hotel-kitchen-api/apperrors"
	"github.com/Mokereri/hotel-kitchen-api/models"
	"github.com/shopspring/decimal"
)

const (
	MinQuantity = 1
	MaxQuantity = 10
)

// CartItem snapshots the meal's price when it is added.
type CartItem struct {
	MealID    int             `json:"mealId"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
}

type Cart struct {
	Items []CartItem `json:"items"`
}

func checkQuantity(qty int) error {
	if qty < MinQuantity || qty > MaxQuantity {
		return apperrors.Invalid("quantity", fmt.Sprintf("quantity must be between %d and %d", MinQuantity, MaxQuantity))
	}
	return nil
}

func (c *Cart) find(mealID int) int {
	for i, item := range c.Items {
		if item.MealID == mealID {
			return i
		}
	}
	return -1
}

// Add merges item into an existing line for the same meal.
func (c *Cart) Add(item CartItem) error {
	if err := checkQuantity(item.Quantity); err != nil {
		return err
	}
	if i := c.find(item.MealID); i >= 0 {
		merged := c.Items[i].Quantity + item.Quantity
		if err := checkQuantity(merged); err != nil {
			return err
		}
		c.Items[i].Quantity = merged
		return nil
	}
	c.Items = append(c.Items, item)
	return nil
}

// Update sets a line's quantity; zero removes the line.
func (c *Cart) Update(mealID, qty int) error {
	i := c.find(mealID)
	if i < 0 {
		return apperrors.ErrNotFound
	}
	if qty == 0 {
		c.Items = append(c.Items[:i], c.Items[i+1:]...)
		return nil
	}
	if err := checkQuantity(qty); err != nil {
		return err
	}
	c.Items[i].Quantity = qty
	return nil
}

func (c *Cart) Remove(mealID int) bool {
	i := c.find(mealID)
	if i < 0 {
		return false
	}
	c.Items = append(c.Items[:i], c.Items[i+1:]...)
	return true
}

func (c *Cart) Clear() {
	c.Items = nil
}

func (c Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

func (c Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range c.Items {
		total = total.Add(item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total
}

func (c Cart) OrderItems() []models.OrderItem {
	items := make([]models.OrderItem, 0, len(c.Items))
	for _, item := range c.Items {
		items = append(items, models.OrderItem{
			MealID:       item.MealID,
			MealName:     item.Name,
			Quantity:     item.Quantity,
			PricePerItem: item.UnitPrice,
		})
	}
	return items
}
