package models

import "github.com/shopspring/decimal"

type Meal struct {
	ID          int             `json:"id" gorm:"primaryKey;autoIncrement:false"`
	Name        string          `json:"name" gorm:"size:120;not null"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price" gorm:"type:decimal(10,2);not null"`
	ImageURL    string          `json:"imageUrl"`
}

// DefaultMeals is the kitchen's starting menu.
var DefaultMeals = []Meal{
	{ID: 1, Name: "Chapati Beans", Description: "Served with steamed vegetables", Price: decimal.NewFromInt(90)},
	{ID: 2, Name: "Cup of Tea", Description: "Milk tea with sugar", Price: decimal.NewFromInt(20)},
	{ID: 3, Name: "Ugali Omena", Description: "Served with fresh vegetables", Price: decimal.NewFromInt(100)},
	{ID: 4, Name: "Rice Beans", Description: "Steamed rice with seasoned beans", Price: decimal.NewFromInt(100)},
	{ID: 5, Name: "Rice Beef", Description: "Spiced rice served with beef stew", Price: decimal.NewFromInt(170)},
	{ID: 6, Name: "Ugali Matumbo", Description: "Tender beef tripe served with ugali", Price: decimal.NewFromInt(140)},
	{ID: 7, Name: "Chicken Masala", Description: "Deliciously spiced chicken in a creamy masala sauce", Price: decimal.NewFromInt(320)},
	{ID: 8, Name: "Beef Stew", Description: "Tender beef chunks in a rich stew sauce", Price: decimal.NewFromInt(280)},
	{ID: 9, Name: "Chicken Pasta", Description: "Creamy pasta tossed with grilled chicken", Price: decimal.NewFromInt(350)},
}
