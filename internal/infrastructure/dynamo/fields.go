package dynamo

// DynamoDB attribute names used in update expressions across all repos.
// Using constants prevents silent runtime bugs caused by key typos.
const (
	fieldEnable           = "enable"
	fieldReaded           = "readed"
	fieldRefreshToken     = "refresh_token"
	fieldRefreshExpiresAt = "refresh_expires_at"
	fieldVerified         = "verified"
	fieldVerificationCode = "verification_code"
	fieldVerificationExp  = "verification_expires_at"
	fieldBalance          = "balance"
	fieldSpent            = "spent"
)
