package models

import "time"

type Product struct {
	ID          string
	UserID      string
	Name        string
	Description string
	Price       float64
	Category    string
	Condition   string
	ImageURL    string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// CategoryCount is a chart aggregation row: products per category.
type CategoryCount struct {
	Category string
	Count    int64
}

// ConditionCount is a chart aggregation row: products per condition.
type ConditionCount struct {
	Condition string
	Count     int64
}
