package http

import (
	"github.com/lumabank/api/internal/infrastructure/dynamo"
	jwtinfra "github.com/lumabank/api/internal/infrastructure/jwt"
	s3infra "github.com/lumabank/api/internal/infrastructure/s3"
	"github.com/lumabank/api/internal/infrastructure/smtp"
	"github.com/lumabank/api/internal/infrastructure/sns"
)

// Deps holds all infrastructure dependencies for the router.
type Deps struct {
	UserRepo         *dynamo.UserRepo
	SessionRepo      *dynamo.SessionRepo
	AccountRepo      *dynamo.AccountRepo
	TransferRepo     *dynamo.TransferRepo
	CardRepo         *dynamo.CardRepo
	BudgetRepo       *dynamo.BudgetRepo
	KYCDocumentRepo  *dynamo.KYCDocumentRepo
	NotificationRepo *dynamo.NotificationRepo
	S3Store          *s3infra.Store
	Mailer           smtp.Mailer
	SMSSender        sns.SMSSender // nil disables SMS alerts
	JWTProvider      *jwtinfra.Provider
}
