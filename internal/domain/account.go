package domain

import "time"

const (
	AccountTypeChecking = "checking"
	AccountTypeSavings  = "savings"
)

// Account balances are stored in minor units (cents) to avoid float drift.
type Account struct {
	AccountID string     `json:"id" dynamodbav:"account_id"`
	UserID    string     `json:"user_id" dynamodbav:"user_id"`
	IBAN      string     `json:"iban" dynamodbav:"iban"`
	Type      string     `json:"type" dynamodbav:"type"` // "checking" | "savings"
	Currency  string     `json:"currency" dynamodbav:"currency"`
	Balance   int64      `json:"balance" dynamodbav:"balance"` // minor units
	Enable    bool       `json:"enable" dynamodbav:"enable"`
	DeletedAt *time.Time `json:"deleted_at,omitempty" dynamodbav:"deleted_at"`
	CreatedAt time.Time  `json:"created" dynamodbav:"created_at"`
	UpdatedAt time.Time  `json:"updated" dynamodbav:"updated_at"`
}

type CreateAccountRequest struct {
	Type     string `json:"type" validate:"required,oneof=checking savings"`
	Currency string `json:"currency" validate:"omitempty,len=3"`
}
