package domain

import "time"

// Budget tracks a per-user monthly spending limit for one category.
// PK: user_id, SK: category.
type Budget struct {
	UserID    string    `json:"user_id" dynamodbav:"user_id"`
	Category  string    `json:"category" dynamodbav:"category"`
	Limit     int64     `json:"limit" dynamodbav:"limit_amount"` // minor units
	Spent     int64     `json:"spent" dynamodbav:"spent"`        // minor units, incremented by transfers
	CreatedAt time.Time `json:"created" dynamodbav:"created_at"`
	UpdatedAt time.Time `json:"updated" dynamodbav:"updated_at"`
}

type UpsertBudgetRequest struct {
	Category string `json:"category" validate:"required,max=40"`
	Limit    int64  `json:"limit" validate:"required,gt=0"`
}
