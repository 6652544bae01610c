package domain

import "time"

const (
	NotificationTransfer = "transfer"
	NotificationKYC      = "kyc"
	NotificationSystem   = "system"
)

type Notification struct {
	NotificationID string    `json:"id" dynamodbav:"notification_id"`
	UserID         string    `json:"user_id" dynamodbav:"user_id"`
	Type           string    `json:"type" dynamodbav:"type"`
	Title          string    `json:"title" dynamodbav:"title"`
	Body           string    `json:"body" dynamodbav:"body"`
	Readed         bool      `json:"readed" dynamodbav:"readed"`
	CreatedAt      time.Time `json:"created" dynamodbav:"created_at"`
}
