package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Bankydog/auth-service/internal/model"
	"github.com/Bankydog/auth-service/internal/repository"
	"github.com/Bankydog/auth-service/shared/clock"
	"github.com/Bankydog/auth-service/shared/security"
)

// verificationCodeTTL is how long a newly issued verification code stays
// valid. Expiry is checked lazily when the code is presented, never by a
// background timer.
const verificationCodeTTL = 15 * time.Minute

const verificationEmailSubject = "Account Verification"

var (
	ErrMissingRequiredFields   = errors.New("missing required fields")
	ErrEmailAlreadyRegistered  = errors.New("email is already registered")
	ErrInvalidCredentials      = errors.New("invalid credentials")
	ErrAccountNotVerified      = errors.New("account is not verified")
	ErrAccountAlreadyVerified  = errors.New("account is already verified")
	ErrVerificationCodeExpired = errors.New("verification code has expired")
	ErrInvalidVerificationCode = errors.New("invalid verification code")
	ErrNotificationFailed      = errors.New("failed to send verification email")
)

// VerificationNotifier delivers a verification message to a user out of
// band. A nil return means the message was handed off for delivery.
type VerificationNotifier interface {
	SendVerificationMessage(to, subject, htmlBody string) error
}

// AuthUsecase owns the account state transitions: signup, verification,
// code resend and login. It holds no state of its own; every operation
// reads and writes through the repository.
type AuthUsecase interface {
	SignUp(ctx context.Context, params SignUpParams) (*model.User, error)
	Authenticate(ctx context.Context, params LoginParams) (*model.User, error)
	VerifyAccount(ctx context.Context, params VerifyAccountParams) error
	ResendVerificationCode(ctx context.Context, email string) error
}

// SignUpParams defines the parameters for account registration.
type SignUpParams struct {
	Username string
	Email    string
	Password string
}

// LoginParams defines the parameters for password login.
type LoginParams struct {
	Email    string
	Password string
}

// VerifyAccountParams defines the parameters for confirming a
// verification code.
type VerifyAccountParams struct {
	Email string
	Code  string
}

type authUsecase struct {
	userRepo repository.UserRepository
	notifier VerificationNotifier
	codes    CodeGenerator
	clock    clock.Clock
}

// NewAuthUsecase creates a new instance of AuthUsecase.
func NewAuthUsecase(
	userRepo repository.UserRepository,
	notifier VerificationNotifier,
	codes CodeGenerator,
	clk clock.Clock,
) AuthUsecase {
	return &authUsecase{
		userRepo: userRepo,
		notifier: notifier,
		codes:    codes,
		clock:    clk,
	}
}

func (u *authUsecase) SignUp(ctx context.Context, params SignUpParams) (*model.User, error) {
	if params.Username == "" || params.Email == "" || params.Password == "" {
		return nil, ErrMissingRequiredFields
	}

	if _, err := u.userRepo.GetUserByEmail(ctx, params.Email); err == nil {
		return nil, ErrEmailAlreadyRegistered
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, err
	}

	passwordHash, err := security.HashPassword(params.Password)
	if err != nil {
		return nil, err
	}

	code, err := u.codes.Generate()
	if err != nil {
		return nil, err
	}
	expiresAt := u.clock.Now().Add(verificationCodeTTL)

	user := &model.User{
		Username:                  params.Username,
		Email:                     params.Email,
		PasswordHash:              passwordHash,
		Enabled:                   false,
		VerificationCode:          &code,
		VerificationCodeExpiresAt: &expiresAt,
	}

	// Notify before persisting: a failed dispatch must not leave behind an
	// account whose code was never delivered.
	if err := u.sendVerificationMessage(user.Email, code); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotificationFailed, err)
	}

	return u.userRepo.SaveUser(ctx, user)
}

func (u *authUsecase) Authenticate(ctx context.Context, params LoginParams) (*model.User, error) {
	if params.Email == "" || params.Password == "" {
		return nil, ErrMissingRequiredFields
	}

	user, err := u.userRepo.GetUserByEmail(ctx, params.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			// Unknown email and wrong password are indistinguishable on
			// purpose.
			return nil, ErrInvalidCredentials
		}

		return nil, err
	}

	if !user.Enabled {
		return nil, ErrAccountNotVerified
	}

	if ok, err := security.VerifyPassword(params.Password, user.PasswordHash); err != nil {
		return nil, err
	} else if !ok {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

func (u *authUsecase) VerifyAccount(ctx context.Context, params VerifyAccountParams) error {
	if params.Email == "" || params.Code == "" {
		return ErrMissingRequiredFields
	}

	user, err := u.userRepo.GetUserByEmail(ctx, params.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return ErrInvalidCredentials
		}

		return err
	}

	if user.VerificationCodeExpiresAt != nil && !u.clock.Now().Before(*user.VerificationCodeExpiresAt) {
		return ErrVerificationCodeExpired
	}

	// Exact string match, no normalization. A cleared code never matches,
	// so a code resubmitted after a successful verification lands here.
	if user.VerificationCode == nil || *user.VerificationCode != params.Code {
		return ErrInvalidVerificationCode
	}

	user.Enabled = true
	user.VerificationCode = nil
	user.VerificationCodeExpiresAt = nil

	_, err = u.userRepo.SaveUser(ctx, user)
	return err
}

func (u *authUsecase) ResendVerificationCode(ctx context.Context, email string) error {
	user, err := u.userRepo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return ErrInvalidCredentials
		}

		return err
	}

	if user.Enabled {
		return ErrAccountAlreadyVerified
	}

	code, err := u.codes.Generate()
	if err != nil {
		return err
	}
	expiresAt := u.clock.Now().Add(verificationCodeTTL)

	user.VerificationCode = &code
	user.VerificationCodeExpiresAt = &expiresAt

	if err := u.sendVerificationMessage(user.Email, code); err != nil {
		return fmt.Errorf("%w: %v", ErrNotificationFailed, err)
	}

	_, err = u.userRepo.SaveUser(ctx, user)
	return err
}

func (u *authUsecase) sendVerificationMessage(to, code string) error {
	htmlBody := fmt.Sprintf(`
		<html>
		<body style="font-family: Arial, sans-serif;">
		<h2>Welcome to our app!</h2>
		<p>Your verification code is: <strong>%s</strong></p>
		<p>This code will expire in %d minutes.</p>
		</body>
		</html>
	`, code, int(verificationCodeTTL.Minutes()))

	return u.notifier.SendVerificationMessage(to, verificationEmailSubject, htmlBody)
}
