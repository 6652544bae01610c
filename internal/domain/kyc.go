package domain

import "time"

const (
	KYCStatusNone     = "none"
	KYCStatusPending  = "pending"
	KYCStatusApproved = "approved"
	KYCStatusRejected = "rejected"
)

// KYCDocument is the metadata row for an identity document stored in S3.
type KYCDocument struct {
	DocumentID string     `json:"id" dynamodbav:"document_id"`
	UserID     string     `json:"user_id" dynamodbav:"user_id"`
	Type       string     `json:"type" dynamodbav:"type"` // "passport" | "id_card" | "driving_license"
	ObjectKey  string     `json:"-" dynamodbav:"object_key"`
	Status     string     `json:"status" dynamodbav:"status"`
	Note       string     `json:"note,omitempty" dynamodbav:"note"` // reviewer note on rejection
	ReviewedBy string     `json:"reviewed_by,omitempty" dynamodbav:"reviewed_by"`
	ReviewedAt *time.Time `json:"reviewed_at,omitempty" dynamodbav:"reviewed_at"`
	CreatedAt  time.Time  `json:"created" dynamodbav:"created_at"`
}

type SubmitKYCRequest struct {
	Type     string `json:"type" validate:"required,oneof=passport id_card driving_license"`
	Filename string `json:"filename" validate:"required"`
	Data     string `json:"data" validate:"required"` // base64 document image
}

type ReviewKYCRequest struct {
	Note string `json:"note" validate:"max=280"`
}
