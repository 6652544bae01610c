package domain

import "time"

const (
	CardStatusActive = "active"
	CardStatusFrozen = "frozen"
)

// Card stores only the masked PAN; the full number never leaves the issuing
// collaborator.
type Card struct {
	CardID        string    `json:"id" dynamodbav:"card_id"`
	UserID        string    `json:"user_id" dynamodbav:"user_id"`
	AccountID     string    `json:"account_id" dynamodbav:"account_id"`
	MaskedPAN     string    `json:"masked_pan" dynamodbav:"masked_pan"`
	Holder        string    `json:"holder" dynamodbav:"holder"`
	ExpiryMonth   int       `json:"expiry_month" dynamodbav:"expiry_month"`
	ExpiryYear    int       `json:"expiry_year" dynamodbav:"expiry_year"`
	Status        string    `json:"status" dynamodbav:"status"` // "active" | "frozen"
	MonthlyLimit  int64     `json:"monthly_limit" dynamodbav:"monthly_limit"` // minor units, 0 = unlimited
	CreatedAt     time.Time `json:"created" dynamodbav:"created_at"`
	UpdatedAt     time.Time `json:"updated" dynamodbav:"updated_at"`
}

type IssueCardRequest struct {
	AccountID string `json:"account_id" validate:"required"`
}

type UpdateCardRequest struct {
	Status       *string `json:"status" validate:"omitempty,oneof=active frozen"`
	MonthlyLimit *int64  `json:"monthly_limit" validate:"omitempty,gte=0"`
}
