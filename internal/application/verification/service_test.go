package verification

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/lumabank/api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- mocks ---

type mockUserStore struct{ mock.Mock }

func (m *mockUserStore) Get(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if u, _ := args.Get(0).(*domain.User); u != nil {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockUserStore) SetVerificationCode(ctx context.Context, userID, code string, expiresAt int64) error {
	return m.Called(ctx, userID, code, expiresAt).Error(0)
}
func (m *mockUserStore) ConsumeVerificationCode(ctx context.Context, userID, code string) error {
	return m.Called(ctx, userID, code).Error(0)
}
func (m *mockUserStore) ClearVerificationCode(ctx context.Context, userID, code string) error {
	return m.Called(ctx, userID, code).Error(0)
}

type mockMailer struct {
	mock.Mock
	configured bool
}

func (m *mockMailer) SendEmail(to, subject, body string) error {
	return m.Called(to, subject, body).Error(0)
}
func (m *mockMailer) Configured() bool { return m.configured }

func newTestService(us *mockUserStore, ml *mockMailer) Service {
	return NewService(ServiceDeps{
		UserRepo: us,
		Mailer:   ml,
		CodeTTL:  15 * time.Minute,
	})
}

func strPtr(s string) *string { return &s }
func i64Ptr(n int64) *int64   { return &n }

func liveCodeUser(code string, expiresAt int64) *domain.User {
	return &domain.User{
		UserID:                "u1",
		Email:                 "a@b.com",
		VerificationCode:      strPtr(code),
		VerificationExpiresAt: i64Ptr(expiresAt),
	}
}

// --- Issue ---

func TestIssue_MailerNotConfigured(t *testing.T) {
	us := &mockUserStore{}
	ml := &mockMailer{configured: false}

	svc := newTestService(us, ml)
	err := svc.Issue(context.Background(), "u1")

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNotConfigured))
	us.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
}

func TestIssue_UserNotFound(t *testing.T) {
	us := &mockUserStore{}
	ml := &mockMailer{configured: true}
	us.On("Get", mock.Anything, "ghost").Return(nil, domain.ErrNotFound)

	svc := newTestService(us, ml)
	err := svc.Issue(context.Background(), "ghost")

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrUserNotFound))
}

func TestIssue_HappyPath_StoresCodeThenMails(t *testing.T) {
	us := &mockUserStore{}
	ml := &mockMailer{configured: true}
	us.On("Get", mock.Anything, "u1").Return(&domain.User{UserID: "u1", Email: "a@b.com"}, nil)

	var storedCode string
	us.On("SetVerificationCode", mock.Anything, "u1", mock.MatchedBy(func(code string) bool {
		storedCode = code
		return len(code) == CodeLength
	}), mock.AnythingOfType("int64")).Return(nil)
	ml.On("SendEmail", "a@b.com", mock.Anything, mock.MatchedBy(func(body string) bool {
		return storedCode != "" && strings.Contains(body, storedCode)
	})).Return(nil)

	svc := newTestService(us, ml)
	require.NoError(t, svc.Issue(context.Background(), "u1"))
	us.AssertExpectations(t)
	ml.AssertExpectations(t)
}

func TestIssue_MailFailure_AfterCodeStored(t *testing.T) {
	us := &mockUserStore{}
	ml := &mockMailer{configured: true}
	us.On("Get", mock.Anything, "u1").Return(&domain.User{UserID: "u1", Email: "a@b.com"}, nil)
	us.On("SetVerificationCode", mock.Anything, "u1", mock.Anything, mock.Anything).Return(nil)
	ml.On("SendEmail", "a@b.com", mock.Anything, mock.Anything).Return(errors.New("smtp down"))

	svc := newTestService(us, ml)
	err := svc.Issue(context.Background(), "u1")

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrDependencyUnavailable))
	// The write happened before the send, so the retry path is a resend.
	us.AssertCalled(t, "SetVerificationCode", mock.Anything, "u1", mock.Anything, mock.Anything)
}

// --- Verify ---

func TestVerify_WrongLength_NoStoreAccess(t *testing.T) {
	us := &mockUserStore{}

	svc := newTestService(us, &mockMailer{configured: true})
	err := svc.Verify(context.Background(), "u1", "12")

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrBadRequest))
	us.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
}

func TestVerify_UserNotFound(t *testing.T) {
	us := &mockUserStore{}
	us.On("Get", mock.Anything, "ghost").Return(nil, domain.ErrNotFound)

	svc := newTestService(us, &mockMailer{configured: true})
	err := svc.Verify(context.Background(), "ghost", "123456")

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrUserNotFound))
}

func TestVerify_NoCodeRequested(t *testing.T) {
	us := &mockUserStore{}
	us.On("Get", mock.Anything, "u1").Return(&domain.User{UserID: "u1", Email: "a@b.com"}, nil)

	svc := newTestService(us, &mockMailer{configured: true})
	err := svc.Verify(context.Background(), "u1", "123456")

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNoCodeRequested))
}

func TestVerify_Expired_ClearsCode(t *testing.T) {
	us := &mockUserStore{}
	past := time.Now().Add(-time.Minute).Unix()
	us.On("Get", mock.Anything, "u1").Return(liveCodeUser("123456", past), nil)
	us.On("ClearVerificationCode", mock.Anything, "u1", "123456").Return(nil)

	svc := newTestService(us, &mockMailer{configured: true})
	err := svc.Verify(context.Background(), "u1", "123456")

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrCodeExpired))
	us.AssertExpectations(t)
	us.AssertNotCalled(t, "ConsumeVerificationCode", mock.Anything, mock.Anything, mock.Anything)
}

func TestVerify_Mismatch_KeepsCode(t *testing.T) {
	us := &mockUserStore{}
	future := time.Now().Add(10 * time.Minute).Unix()
	us.On("Get", mock.Anything, "u1").Return(liveCodeUser("123456", future), nil)

	svc := newTestService(us, &mockMailer{configured: true})
	err := svc.Verify(context.Background(), "u1", "654321")

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrCodeMismatch))
	us.AssertNotCalled(t, "ClearVerificationCode", mock.Anything, mock.Anything, mock.Anything)
	us.AssertNotCalled(t, "ConsumeVerificationCode", mock.Anything, mock.Anything, mock.Anything)
}

func TestVerify_Match_ConsumesCode(t *testing.T) {
	us := &mockUserStore{}
	future := time.Now().Add(10 * time.Minute).Unix()
	us.On("Get", mock.Anything, "u1").Return(liveCodeUser("123456", future), nil)
	us.On("ConsumeVerificationCode", mock.Anything, "u1", "123456").Return(nil)

	svc := newTestService(us, &mockMailer{configured: true})
	require.NoError(t, svc.Verify(context.Background(), "u1", "123456"))
	us.AssertExpectations(t)
}

func TestVerify_LostConsumeRace(t *testing.T) {
	us := &mockUserStore{}
	future := time.Now().Add(10 * time.Minute).Unix()
	us.On("Get", mock.Anything, "u1").Return(liveCodeUser("123456", future), nil)
	us.On("ConsumeVerificationCode", mock.Anything, "u1", "123456").Return(domain.ErrNoCodeRequested)

	svc := newTestService(us, &mockMailer{configured: true})
	err := svc.Verify(context.Background(), "u1", "123456")

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNoCodeRequested))
}

// --- concurrency: exactly one of two racing Verify calls may succeed ---

// fakeStore implements the conditional-update semantics the real store
// provides, so the race can be exercised end to end.
type fakeStore struct {
	mu   sync.Mutex
	user domain.User
}

func (f *fakeStore) Get(_ context.Context, userID string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if userID != f.user.UserID {
		return nil, domain.ErrNotFound
	}
	u := f.user
	return &u, nil
}

func (f *fakeStore) SetVerificationCode(_ context.Context, _, code string, expiresAt int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.user.VerificationCode = &code
	f.user.VerificationExpiresAt = &expiresAt
	return nil
}

func (f *fakeStore) ConsumeVerificationCode(_ context.Context, _, code string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.user.VerificationCode == nil || *f.user.VerificationCode != code {
		return domain.ErrNoCodeRequested
	}
	f.user.Verified = true
	f.user.VerificationCode = nil
	f.user.VerificationExpiresAt = nil
	return nil
}

func (f *fakeStore) ClearVerificationCode(_ context.Context, _, code string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.user.VerificationCode != nil && *f.user.VerificationCode == code {
		f.user.VerificationCode = nil
		f.user.VerificationExpiresAt = nil
	}
	return nil
}

func TestVerify_ConcurrentCalls_SingleSuccess(t *testing.T) {
	store := &fakeStore{user: domain.User{
		UserID:                "u1",
		Email:                 "a@b.com",
		VerificationCode:      strPtr("123456"),
		VerificationExpiresAt: i64Ptr(time.Now().Add(10 * time.Minute).Unix()),
	}}
	svc := NewService(ServiceDeps{UserRepo: store, Mailer: &mockMailer{configured: true}, CodeTTL: 15 * time.Minute})

	const callers = 8
	errs := make([]error, callers)
	var wg sync.WaitGroup
	var start sync.WaitGroup
	start.Add(1)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			start.Wait()
			errs[i] = svc.Verify(context.Background(), "u1", "123456")
		}(i)
	}
	start.Done()
	wg.Wait()

	successes := 0
	for _, err := range errs {
		if err == nil {
			successes++
		} else {
			assert.True(t, errors.Is(err, domain.ErrNoCodeRequested), err.Error())
		}
	}
	assert.Equal(t, 1, successes)
	assert.True(t, store.user.Verified)
	assert.Nil(t, store.user.VerificationCode)
}

// Issue, let the code expire, verify twice: the first attempt reports the
// expiry and clears the stored state, so the second sees no live code.
func TestVerify_ExpiredCodeIsClearedAndNotRetryable(t *testing.T) {
	store := &fakeStore{user: domain.User{UserID: "u1", Email: "a@b.com"}}
	ml := &mockMailer{configured: true}
	var code string
	ml.On("SendEmail", "a@b.com", mock.Anything, mock.MatchedBy(func(body string) bool {
		code = body[len(body)-CodeLength:]
		return true
	})).Return(nil)
	// Negative TTL stores a code that is already past its expiry.
	svc := NewService(ServiceDeps{UserRepo: store, Mailer: ml, CodeTTL: -time.Minute})

	require.NoError(t, svc.Issue(context.Background(), "u1"))
	require.NotNil(t, store.user.VerificationCode)

	err := svc.Verify(context.Background(), "u1", code)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrCodeExpired))
	assert.False(t, store.user.Verified)
	assert.Nil(t, store.user.VerificationCode)
	assert.Nil(t, store.user.VerificationExpiresAt)

	err = svc.Verify(context.Background(), "u1", code)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNoCodeRequested))
	assert.False(t, store.user.Verified)
}
