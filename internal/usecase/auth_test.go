package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Bankydog/auth-service/internal/model"
	"github.com/Bankydog/auth-service/internal/repository"
	"github.com/Bankydog/auth-service/shared/security"
)

type stubUserRepo struct {
	users     map[string]*model.User
	saveCalls int
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*model.User)}
}

func (r *stubUserRepo) GetUserByEmail(_ context.Context, email string) (*model.User, error) {
	user, ok := r.users[email]
	if !ok {
		return nil, repository.ErrUserNotFound
	}

	clone := *user
	return &clone, nil
}

func (r *stubUserRepo) SaveUser(_ context.Context, user *model.User) (*model.User, error) {
	r.saveCalls++

	stored := *user
	r.users[user.Email] = &stored

	clone := stored
	return &clone, nil
}

func (r *stubUserRepo) ListUsers(_ context.Context) ([]*model.User, error) {
	users := make([]*model.User, 0, len(r.users))
	for _, user := range r.users {
		clone := *user
		users = append(users, &clone)
	}

	return users, nil
}

type sentMessage struct {
	to       string
	subject  string
	htmlBody string
}

type stubNotifier struct {
	fail bool
	sent []sentMessage
}

func (n *stubNotifier) SendVerificationMessage(to, subject, htmlBody string) error {
	if n.fail {
		return errors.New("smtp unavailable")
	}

	n.sent = append(n.sent, sentMessage{to: to, subject: subject, htmlBody: htmlBody})
	return nil
}

type stubCodeGenerator struct {
	codes []string
	next  int
}

func (g *stubCodeGenerator) Generate() (string, error) {
	code := g.codes[g.next%len(g.codes)]
	g.next++
	return code, nil
}

type fakeClock struct {
	now time.Time
}

func (f *fakeClock) Now() time.Time { return f.now }

func (f *fakeClock) Advance(d time.Duration) { f.now = f.now.Add(d) }

type authFixture struct {
	repo     *stubUserRepo
	notifier *stubNotifier
	codes    *stubCodeGenerator
	clock    *fakeClock
	auth     AuthUsecase
}

func newAuthFixture() *authFixture {
	f := &authFixture{
		repo:     newStubUserRepo(),
		notifier: &stubNotifier{},
		codes:    &stubCodeGenerator{codes: []string{"123456", "654321", "000042"}},
		clock:    &fakeClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)},
	}
	f.auth = NewAuthUsecase(f.repo, f.notifier, f.codes, f.clock)

	return f
}

func (f *authFixture) signUpBob(t *testing.T) *model.User {
	t.Helper()

	user, err := f.auth.SignUp(context.Background(), SignUpParams{
		Username: "bob",
		Email:    "b@x.com",
		Password: "pw123",
	})
	require.NoError(t, err)

	return user
}

func TestSignUp_Success(t *testing.T) {
	f := newAuthFixture()

	user := f.signUpBob(t)

	assert.Equal(t, "bob", user.Username)
	assert.Equal(t, "b@x.com", user.Email)
	assert.False(t, user.Enabled)

	require.NotNil(t, user.VerificationCode)
	assert.Equal(t, "123456", *user.VerificationCode)

	require.NotNil(t, user.VerificationCodeExpiresAt)
	assert.Equal(t, f.clock.Now().Add(15*time.Minute), *user.VerificationCodeExpiresAt)

	assert.NotEqual(t, "pw123", user.PasswordHash)
	ok, err := security.VerifyPassword("pw123", user.PasswordHash)
	require.NoError(t, err)
	assert.True(t, ok)

	require.Len(t, f.notifier.sent, 1)
	assert.Equal(t, "b@x.com", f.notifier.sent[0].to)
	assert.Equal(t, "Account Verification", f.notifier.sent[0].subject)
	assert.Contains(t, f.notifier.sent[0].htmlBody, "123456")
	assert.Contains(t, f.notifier.sent[0].htmlBody, "15 minutes")

	_, err = f.repo.GetUserByEmail(context.Background(), "b@x.com")
	assert.NoError(t, err)
}

func TestSignUp_MissingFields(t *testing.T) {
	f := newAuthFixture()

	cases := []SignUpParams{
		{Username: "", Email: "b@x.com", Password: "pw123"},
		{Username: "bob", Email: "", Password: "pw123"},
		{Username: "bob", Email: "b@x.com", Password: ""},
	}
	for _, params := range cases {
		_, err := f.auth.SignUp(context.Background(), params)
		assert.ErrorIs(t, err, ErrMissingRequiredFields)
	}

	assert.Empty(t, f.notifier.sent)
	assert.Zero(t, f.repo.saveCalls)
}

func TestSignUp_DuplicateEmail(t *testing.T) {
	f := newAuthFixture()
	f.signUpBob(t)

	_, err := f.auth.SignUp(context.Background(), SignUpParams{
		Username: "robert",
		Email:    "b@x.com",
		Password: "other-pw",
	})
	assert.ErrorIs(t, err, ErrEmailAlreadyRegistered)
	assert.Len(t, f.notifier.sent, 1, "no second notification for a duplicate")
}

func TestSignUp_NotificationFailure(t *testing.T) {
	f := newAuthFixture()
	f.notifier.fail = true

	_, err := f.auth.SignUp(context.Background(), SignUpParams{
		Username: "bob",
		Email:    "b@x.com",
		Password: "pw123",
	})
	assert.ErrorIs(t, err, ErrNotificationFailed)

	_, err = f.repo.GetUserByEmail(context.Background(), "b@x.com")
	assert.ErrorIs(t, err, repository.ErrUserNotFound, "failed dispatch must not persist the account")
}

func TestVerifyAccount_Success(t *testing.T) {
	f := newAuthFixture()
	f.signUpBob(t)

	f.clock.Advance(14 * time.Minute)
	err := f.auth.VerifyAccount(context.Background(), VerifyAccountParams{Email: "b@x.com", Code: "123456"})
	require.NoError(t, err)

	user, err := f.repo.GetUserByEmail(context.Background(), "b@x.com")
	require.NoError(t, err)
	assert.True(t, user.Enabled)
	assert.Nil(t, user.VerificationCode)
	assert.Nil(t, user.VerificationCodeExpiresAt)
}

func TestVerifyAccount_CodeIsSingleUse(t *testing.T) {
	f := newAuthFixture()
	f.signUpBob(t)

	require.NoError(t, f.auth.VerifyAccount(context.Background(), VerifyAccountParams{Email: "b@x.com", Code: "123456"}))

	err := f.auth.VerifyAccount(context.Background(), VerifyAccountParams{Email: "b@x.com", Code: "123456"})
	assert.ErrorIs(t, err, ErrInvalidVerificationCode)
}

func TestVerifyAccount_Expired(t *testing.T) {
	f := newAuthFixture()
	f.signUpBob(t)

	// Expiry is exclusive: at exactly +15m the code is already dead, even
	// with the correct value.
	f.clock.Advance(15 * time.Minute)
	err := f.auth.VerifyAccount(context.Background(), VerifyAccountParams{Email: "b@x.com", Code: "123456"})
	assert.ErrorIs(t, err, ErrVerificationCodeExpired)

	user, err := f.repo.GetUserByEmail(context.Background(), "b@x.com")
	require.NoError(t, err)
	assert.False(t, user.Enabled)
}

func TestVerifyAccount_WrongCode(t *testing.T) {
	f := newAuthFixture()
	f.signUpBob(t)

	err := f.auth.VerifyAccount(context.Background(), VerifyAccountParams{Email: "b@x.com", Code: "999999"})
	assert.ErrorIs(t, err, ErrInvalidVerificationCode)

	user, err := f.repo.GetUserByEmail(context.Background(), "b@x.com")
	require.NoError(t, err)
	assert.False(t, user.Enabled)
	assert.NotNil(t, user.VerificationCode)
}

func TestVerifyAccount_UnknownEmailAndMissingInput(t *testing.T) {
	f := newAuthFixture()

	err := f.auth.VerifyAccount(context.Background(), VerifyAccountParams{Email: "ghost@x.com", Code: "123456"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	err = f.auth.VerifyAccount(context.Background(), VerifyAccountParams{Email: "", Code: "123456"})
	assert.ErrorIs(t, err, ErrMissingRequiredFields)

	err = f.auth.VerifyAccount(context.Background(), VerifyAccountParams{Email: "b@x.com", Code: ""})
	assert.ErrorIs(t, err, ErrMissingRequiredFields)
}

func TestResendVerificationCode_ReplacesCode(t *testing.T) {
	f := newAuthFixture()
	f.signUpBob(t)

	f.clock.Advance(10 * time.Minute)
	require.NoError(t, f.auth.ResendVerificationCode(context.Background(), "b@x.com"))

	user, err := f.repo.GetUserByEmail(context.Background(), "b@x.com")
	require.NoError(t, err)
	require.NotNil(t, user.VerificationCode)
	assert.Equal(t, "654321", *user.VerificationCode)
	require.NotNil(t, user.VerificationCodeExpiresAt)
	assert.Equal(t, f.clock.Now().Add(15*time.Minute), *user.VerificationCodeExpiresAt)

	// The replaced code no longer verifies.
	err = f.auth.VerifyAccount(context.Background(), VerifyAccountParams{Email: "b@x.com", Code: "123456"})
	assert.ErrorIs(t, err, ErrInvalidVerificationCode)

	require.NoError(t, f.auth.VerifyAccount(context.Background(), VerifyAccountParams{Email: "b@x.com", Code: "654321"}))
}

func TestResendVerificationCode_AlreadyVerified(t *testing.T) {
	f := newAuthFixture()
	f.signUpBob(t)
	require.NoError(t, f.auth.VerifyAccount(context.Background(), VerifyAccountParams{Email: "b@x.com", Code: "123456"}))

	before, err := f.repo.GetUserByEmail(context.Background(), "b@x.com")
	require.NoError(t, err)

	err = f.auth.ResendVerificationCode(context.Background(), "b@x.com")
	assert.ErrorIs(t, err, ErrAccountAlreadyVerified)

	after, err := f.repo.GetUserByEmail(context.Background(), "b@x.com")
	require.NoError(t, err)
	assert.Equal(t, before, after, "account state must be unchanged")
}

func TestResendVerificationCode_UnknownEmail(t *testing.T) {
	f := newAuthFixture()

	err := f.auth.ResendVerificationCode(context.Background(), "ghost@x.com")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestResendVerificationCode_NotificationFailure(t *testing.T) {
	f := newAuthFixture()
	f.signUpBob(t)

	f.notifier.fail = true
	err := f.auth.ResendVerificationCode(context.Background(), "b@x.com")
	assert.ErrorIs(t, err, ErrNotificationFailed)

	// The old code must survive untouched.
	user, err := f.repo.GetUserByEmail(context.Background(), "b@x.com")
	require.NoError(t, err)
	require.NotNil(t, user.VerificationCode)
	assert.Equal(t, "123456", *user.VerificationCode)
}

func TestAuthenticate_Success(t *testing.T) {
	f := newAuthFixture()
	f.signUpBob(t)
	require.NoError(t, f.auth.VerifyAccount(context.Background(), VerifyAccountParams{Email: "b@x.com", Code: "123456"}))

	user, err := f.auth.Authenticate(context.Background(), LoginParams{Email: "b@x.com", Password: "pw123"})
	require.NoError(t, err)
	assert.True(t, user.Enabled)
	assert.Equal(t, "bob", user.Username)
}

func TestAuthenticate_UnverifiedAccount(t *testing.T) {
	f := newAuthFixture()
	f.signUpBob(t)

	// Correct password, but the account is still disabled.
	_, err := f.auth.Authenticate(context.Background(), LoginParams{Email: "b@x.com", Password: "pw123"})
	assert.ErrorIs(t, err, ErrAccountNotVerified)
}

func TestAuthenticate_InvalidCredentials(t *testing.T) {
	f := newAuthFixture()
	f.signUpBob(t)
	require.NoError(t, f.auth.VerifyAccount(context.Background(), VerifyAccountParams{Email: "b@x.com", Code: "123456"}))

	_, wrongPassword := f.auth.Authenticate(context.Background(), LoginParams{Email: "b@x.com", Password: "nope"})
	_, unknownEmail := f.auth.Authenticate(context.Background(), LoginParams{Email: "ghost@x.com", Password: "pw123"})

	// Unknown email and wrong password must be indistinguishable.
	assert.ErrorIs(t, wrongPassword, ErrInvalidCredentials)
	assert.ErrorIs(t, unknownEmail, ErrInvalidCredentials)
}

func TestAuthenticate_MissingFields(t *testing.T) {
	f := newAuthFixture()

	_, err := f.auth.Authenticate(context.Background(), LoginParams{Email: "", Password: "pw123"})
	assert.ErrorIs(t, err, ErrMissingRequiredFields)

	_, err = f.auth.Authenticate(context.Background(), LoginParams{Email: "b@x.com", Password: ""})
	assert.ErrorIs(t, err, ErrMissingRequiredFields)
}

func TestLifecycle_EndToEnd(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()

	_, err := f.auth.SignUp(ctx, SignUpParams{Username: "bob", Email: "b@x.com", Password: "pw123"})
	require.NoError(t, err)

	require.Len(t, f.notifier.sent, 1)
	code := "123456"
	assert.Contains(t, f.notifier.sent[0].htmlBody, code)

	err = f.auth.VerifyAccount(ctx, VerifyAccountParams{Email: "b@x.com", Code: "111111"})
	assert.ErrorIs(t, err, ErrInvalidVerificationCode)

	require.NoError(t, f.auth.VerifyAccount(ctx, VerifyAccountParams{Email: "b@x.com", Code: code}))

	user, err := f.auth.Authenticate(ctx, LoginParams{Email: "b@x.com", Password: "pw123"})
	require.NoError(t, err)
	assert.True(t, user.Enabled)
	assert.True(t, strings.EqualFold(user.Email, "b@x.com"))
}
