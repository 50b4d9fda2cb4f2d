package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/cinematic-app/cinematic-api/internal/config"
	"github.com/cinematic-app/cinematic-api/internal/mailer"
	"github.com/cinematic-app/cinematic-api/internal/model"
	"github.com/cinematic-app/cinematic-api/internal/repository"
	"github.com/cinematic-app/cinematic-api/internal/security"
)

// AccountUsecase defines the business logic for registration, account
// activation, login and the password reset flow.
type AccountUsecase interface {
	// Register creates an unverified, inactive account and sends the
	// verification email.
	Register(ctx context.Context, email, password string) (*model.User, error)

	// Login checks credentials and account state, then issues a token pair.
	Login(ctx context.Context, email, password string) (*TokenPair, error)

	// ActivateAccount verifies the proof token from a verification link and
	// marks the account active and verified.
	ActivateAccount(ctx context.Context, email, proofToken string) (*model.User, error)

	// RequestPasswordReset sends a password reset link to a verified, active
	// account. Unknown emails are ignored to avoid enumeration.
	RequestPasswordReset(ctx context.Context, email string) error

	// CompletePasswordReset verifies the proof token from a reset link and
	// stores the new password.
	CompletePasswordReset(ctx context.Context, email, proofToken, newPassword string) error

	// Logout expires all live sessions of the user and stamps the logout time.
	Logout(ctx context.Context, user *model.User) error

	GetUser(ctx context.Context, id string) (*model.User, error)
	UpdateUser(ctx context.Context, id string, params repository.UpdateUserParams) (*model.User, error)
	DeleteUser(ctx context.Context, id string) (*model.User, error)
}

type accountUsecase struct {
	userRepo    repository.UserRepository
	sessionRepo repository.SessionRepository
	tokens      TokenUsecase
	mailer      *mailer.Mailer
	cfg         *config.Config
	logger      *zerolog.Logger
}

// NewAccountUsecase creates a new instance of AccountUsecase.
func NewAccountUsecase(
	userRepo repository.UserRepository,
	sessionRepo repository.SessionRepository,
	tokens TokenUsecase,
	mailer *mailer.Mailer,
	cfg *config.Config,
	logger *zerolog.Logger,
) AccountUsecase {
	return &accountUsecase{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		tokens:      tokens,
		mailer:      mailer,
		cfg:         cfg,
		logger:      logger,
	}
}

func (u *accountUsecase) Register(ctx context.Context, email, password string) (*model.User, error) {
	passwordHash, err := security.HashPassword(password)
	if err != nil {
		return nil, err
	}

	user, err := u.userRepo.CreateUser(ctx, &model.User{
		Email:        email,
		PasswordHash: passwordHash,
		IsActive:     false,
	})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrDuplicateEmail
		}

		return nil, err
	}

	u.sendVerificationEmail(user)

	return user, nil
}

func (u *accountUsecase) Login(ctx context.Context, email, password string) (*TokenPair, error) {
	user, err := u.userRepo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrInvalidCredentials
		}

		return nil, err
	}

	if ok, err := security.VerifyPassword(password, user.PasswordHash); err != nil || !ok {
		return nil, ErrInvalidCredentials
	}

	if !user.Verified() {
		return nil, ErrAccountNotVerified
	}

	if !user.IsActive {
		return nil, ErrAccountInactive
	}

	return u.tokens.IssueTokens(ctx, user)
}

func (u *accountUsecase) ActivateAccount(ctx context.Context, email, proofToken string) (*model.User, error) {
	user, err := u.userRepo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrProofMismatch
		}

		return nil, err
	}

	if !verifyProof(user.ContextString(model.ContextVerifyAccount), proofToken) {
		return nil, ErrProofMismatch
	}

	// The update bumps updated_at, which retires the link that was just used.
	now := time.Now()
	isActive := true
	user, err = u.userRepo.UpdateUser(ctx, user.ID.Hex(), repository.UpdateUserParams{
		IsActive:   &isActive,
		VerifiedAt: &now,
	})
	if err != nil {
		return nil, err
	}

	u.sendActivationConfirmationEmail(user)

	return user, nil
}

func (u *accountUsecase) RequestPasswordReset(ctx context.Context, email string) error {
	user, err := u.userRepo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			// Do not reveal whether the email is registered.
			return nil
		}

		return err
	}

	if !user.Verified() {
		return ErrAccountNotVerified
	}

	if !user.IsActive {
		return ErrAccountInactive
	}

	return u.sendPasswordResetEmail(user)
}

func (u *accountUsecase) CompletePasswordReset(ctx context.Context, email, proofToken, newPassword string) error {
	user, err := u.userRepo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrProofMismatch
		}

		return err
	}

	if !user.Verified() {
		return ErrAccountNotVerified
	}

	if !user.IsActive {
		return ErrAccountInactive
	}

	if !verifyProof(user.ContextString(model.ContextPasswordReset), proofToken) {
		return ErrProofMismatch
	}

	passwordHash, err := security.HashPassword(newPassword)
	if err != nil {
		return err
	}

	// Storing the new hash also bumps updated_at, so the reset link cannot be
	// replayed.
	if _, err := u.userRepo.UpdateUser(ctx, user.ID.Hex(), repository.UpdateUserParams{
		PasswordHash: &passwordHash,
	}); err != nil {
		return err
	}

	return nil
}

func (u *accountUsecase) Logout(ctx context.Context, user *model.User) error {
	return u.sessionRepo.MarkLoggedOut(ctx, user.ID)
}

func (u *accountUsecase) GetUser(ctx context.Context, id string) (*model.User, error) {
	user, err := u.userRepo.GetUser(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrUserNotFound
		}

		return nil, err
	}

	return user, nil
}

func (u *accountUsecase) UpdateUser(
	ctx context.Context,
	id string,
	params repository.UpdateUserParams,
) (*model.User, error) {
	if params.PasswordHash != nil {
		passwordHash, err := security.HashPassword(*params.PasswordHash)
		if err != nil {
			return nil, err
		}
		params.PasswordHash = &passwordHash
	}

	user, err := u.userRepo.UpdateUser(ctx, id, params)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrUserNotFound
		}

		return nil, err
	}

	return user, nil
}

func (u *accountUsecase) DeleteUser(ctx context.Context, id string) (*model.User, error) {
	user, err := u.userRepo.DeleteUser(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrUserNotFound
		}

		return nil, err
	}

	return user, nil
}

// verifyProof recomputes the derivation for a link and checks the presented
// hash against it. Any verifier failure counts as a mismatch.
func verifyProof(contextString, proofToken string) bool {
	ok, err := security.VerifyPassword(contextString, proofToken)
	return err == nil && ok
}

// proofToken one-way-hashes the derived context string so the derivation never
// travels in the link itself.
func proofToken(contextString string) (string, error) {
	return security.HashPassword(contextString)
}

func (u *accountUsecase) sendVerificationEmail(user *model.User) {
	token, err := proofToken(user.ContextString(model.ContextVerifyAccount))
	if err != nil {
		u.logger.Error().Err(err).Msg("failed to derive verification token")
		return
	}

	activateURL := fmt.Sprintf(
		"%s/auth/account-verify?token=%s&email=%s",
		u.cfg.FrontendHost,
		url.QueryEscape(token),
		url.QueryEscape(user.Email),
	)

	htmlBody := fmt.Sprintf(`
		<p>Hi %s,</p>
		<p>Thanks for signing up for %s.</p>
		<p>Please click the link below to verify your account:</p>

		<p><a href="%s">%s</a></p>

		<p>If you did not create this account, you can safely ignore this email.</p>

		<p>Thank you,</p>
		<p>%s Team</p>
	`, user.Email, u.cfg.AppName, activateURL, activateURL, u.cfg.AppName)

	subject := fmt.Sprintf("Account Verification - %s", u.cfg.AppName)
	u.sendAsync(user.Email, subject, htmlBody)
}

func (u *accountUsecase) sendActivationConfirmationEmail(user *model.User) {
	htmlBody := fmt.Sprintf(`
		<p>Hi %s,</p>
		<p>Your account has been activated.</p>

		<p><a href="%s">%s</a></p>

		<p>Thank you,</p>
		<p>%s Team</p>
	`, user.Email, u.cfg.FrontendHost, u.cfg.FrontendHost, u.cfg.AppName)

	subject := fmt.Sprintf("Welcome - %s", u.cfg.AppName)
	u.sendAsync(user.Email, subject, htmlBody)
}

func (u *accountUsecase) sendPasswordResetEmail(user *model.User) error {
	token, err := proofToken(user.ContextString(model.ContextPasswordReset))
	if err != nil {
		return err
	}

	resetURL := fmt.Sprintf(
		"%s/reset-password?token=%s&email=%s",
		u.cfg.FrontendHost,
		url.QueryEscape(token),
		url.QueryEscape(user.Email),
	)

	htmlBody := fmt.Sprintf(`
		<p>Hi %s,</p>
		<p>We received a request to reset the password for your account.</p>
		<p>If you made this request, please click the link below to create a new password:</p>

		<p><a href="%s">%s</a></p>

		<p>If you did not request a password reset, you can safely ignore this email.</p>

		<p>Thank you,</p>
		<p>%s Team</p>
	`, user.Email, resetURL, resetURL, u.cfg.AppName)

	subject := fmt.Sprintf("Reset Password - %s", u.cfg.AppName)
	u.sendAsync(user.Email, subject, htmlBody)

	return nil
}

// sendAsync delivers an email in the background. Delivery failures are logged
// and never surfaced to the request that triggered them.
func (u *accountUsecase) sendAsync(to, subject, htmlBody string) {
	go func() {
		if err := u.mailer.SendHTML([]string{to}, subject, htmlBody); err != nil {
			u.logger.Error().Err(err).Str("to", to).Str("subject", subject).Msg("failed to send email")
		}
	}()
}
