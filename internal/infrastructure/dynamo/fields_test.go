package dynamo

import (
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/lumabank/api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The expression constants must name the same attributes the marshaled
// items carry, otherwise conditional updates silently target nothing.

func TestFieldConstants_MatchUserAttributes(t *testing.T) {
	code := "123456"
	exp := time.Now().Unix()
	item, err := attributevalue.MarshalMap(&domain.User{
		UserID:                "u1",
		Verified:              true,
		Enable:                1,
		VerificationCode:      &code,
		VerificationExpiresAt: &exp,
	})
	require.NoError(t, err)

	for _, field := range []string{fieldVerified, fieldVerificationCode, fieldVerificationExp, fieldEnable} {
		assert.Contains(t, item, field)
	}
}

func TestFieldConstants_MatchAccountAndBudgetAttributes(t *testing.T) {
	account, err := attributevalue.MarshalMap(&domain.Account{AccountID: "a1", Balance: 100})
	require.NoError(t, err)
	assert.Contains(t, account, fieldBalance)

	budget, err := attributevalue.MarshalMap(&domain.Budget{UserID: "u1", Category: "groceries", Spent: 50})
	require.NoError(t, err)
	assert.Contains(t, budget, fieldSpent)

	notification, err := attributevalue.MarshalMap(&domain.Notification{NotificationID: "n1"})
	require.NoError(t, err)
	assert.Contains(t, notification, fieldReaded)
}
