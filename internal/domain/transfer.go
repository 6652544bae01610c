package domain

import "time"

const (
	TransferStatusCompleted = "completed"
	TransferStatusFailed    = "failed"
)

type Transfer struct {
	TransferID    string    `json:"id" dynamodbav:"transfer_id"`
	UserID        string    `json:"user_id" dynamodbav:"user_id"`
	FromAccountID string    `json:"from_account_id" dynamodbav:"from_account_id"`
	ToIBAN        string    `json:"to_iban" dynamodbav:"to_iban"`
	Amount        int64     `json:"amount" dynamodbav:"amount"` // minor units
	Currency      string    `json:"currency" dynamodbav:"currency"`
	Category      string    `json:"category" dynamodbav:"category"`
	Reference     string    `json:"reference" dynamodbav:"reference"`
	Status        string    `json:"status" dynamodbav:"status"`
	CreatedAt     time.Time `json:"created" dynamodbav:"created_at"`
}

type CreateTransferRequest struct {
	FromAccountID string `json:"from_account_id" validate:"required"`
	ToIBAN        string `json:"to_iban" validate:"required"`
	Amount        int64  `json:"amount" validate:"required,gt=0"`
	Category      string `json:"category"`
	Reference     string `json:"reference" validate:"max=140"`
}
