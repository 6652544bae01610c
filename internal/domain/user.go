package domain

import "time"

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// User is the single aggregate holding profile, credential, and email
// verification state. The verification code, its expiry, and the verified
// flag live on the same item so the consume step can be one conditional
// update.
type User struct {
	UserID       string     `json:"id" dynamodbav:"user_id"`
	Username     string     `json:"username" dynamodbav:"username"`
	Email        string     `json:"email" dynamodbav:"email"`
	Phone        *string    `json:"phone" dynamodbav:"phone"`
	PasswordHash string     `json:"-" dynamodbav:"password_hash"`
	Role         string     `json:"role" dynamodbav:"role"`
	FirstName    string     `json:"first_name" dynamodbav:"first_name"`
	LastName     string     `json:"last_name" dynamodbav:"last_name"`
	Locale       string     `json:"locale" dynamodbav:"locale"`
	Verified     bool       `json:"verified" dynamodbav:"verified"`
	KYCStatus    string     `json:"kyc_status" dynamodbav:"kyc_status"` // "none" | "pending" | "approved" | "rejected"
	Enable       int        `json:"enable" dynamodbav:"enable"`
	DeletedAt    *time.Time `json:"deleted_at,omitempty" dynamodbav:"deleted_at"`
	CreatedAt    time.Time  `json:"created" dynamodbav:"created_at"`
	UpdatedAt    time.Time  `json:"updated" dynamodbav:"updated_at"`

	// Email verification state. Absent (nil) when no code is live.
	VerificationCode      *string `json:"-" dynamodbav:"verification_code"`
	VerificationExpiresAt *int64  `json:"-" dynamodbav:"verification_expires_at"` // Unix seconds
}

// HasLiveCode reports whether a verification code and expiry are both stored.
func (u *User) HasLiveCode() bool {
	return u.VerificationCode != nil && *u.VerificationCode != "" &&
		u.VerificationExpiresAt != nil && *u.VerificationExpiresAt != 0
}

type CreateUserRequest struct {
	Username  string  `json:"username" validate:"required"`
	Password  string  `json:"password" validate:"required,min=8,max=72"`
	Email     string  `json:"email" validate:"required,email"`
	Phone     *string `json:"phone"`
	FirstName string  `json:"first_name" validate:"required"`
	LastName  string  `json:"last_name" validate:"required"`
	Locale    string  `json:"locale"`
}

type UpdateUserRequest struct {
	Username  *string `json:"username"`
	Email     *string `json:"email" validate:"omitempty,email"`
	Phone     *string `json:"phone"`
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Locale    *string `json:"locale"`
	Role      *string `json:"role"`
	Enable    *int    `json:"enable"` // 1 = enabled, 0 = disabled
}
