package usecase

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cinematic-app/cinematic-api/internal/auth"
	"github.com/cinematic-app/cinematic-api/internal/config"
	"github.com/cinematic-app/cinematic-api/internal/model"
	"github.com/cinematic-app/cinematic-api/internal/security"
)

const testSecret = "test-secret-key"

func testTokenConfig() config.TokenConfig {
	return config.TokenConfig{
		SecretKey:             testSecret,
		AccessTokenExpiresIn:  30 * time.Minute,
		RefreshTokenExpiresIn: 24 * time.Hour,
	}
}

func newTestTokenUsecase(t *testing.T, cfg config.TokenConfig) (TokenUsecase, *fakeUserRepo, *fakeSessionRepo) {
	t.Helper()

	userRepo := newFakeUserRepo()
	sessionRepo := newFakeSessionRepo()
	jwtAuth := auth.NewJWTAuthenticator(cfg.SecretKey)

	return NewTokenUsecase(sessionRepo, userRepo, jwtAuth, cfg), userRepo, sessionRepo
}

func createTestUser(t *testing.T, userRepo *fakeUserRepo) *model.User {
	t.Helper()

	passwordHash, err := security.HashPassword("correct-horse-battery")
	require.NoError(t, err)

	now := time.Now()
	user, err := userRepo.CreateUser(context.Background(), &model.User{
		Email:        "alice@example.com",
		PasswordHash: passwordHash,
		IsActive:     true,
		VerifiedAt:   &now,
	})
	require.NoError(t, err)

	return user
}

func TestIssueTokensCreatesOneLiveSession(t *testing.T) {
	tokens, userRepo, sessionRepo := newTestTokenUsecase(t, testTokenConfig())
	user := createTestUser(t, userRepo)

	pair, err := tokens.IssueTokens(context.Background(), user)
	require.NoError(t, err)

	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
	assert.Equal(t, int64(1800), pair.ExpiresIn)
	assert.Equal(t, "Bearer", pair.TokenType)

	require.Equal(t, 1, sessionRepo.count())
	session := sessionRepo.onlySession()
	assert.True(t, session.ExpiresAt.After(time.Now()))
	assert.Equal(t, user.ID, session.UserID)
	assert.NotEqual(t, session.AccessKey, session.RefreshKey)
}

func TestVerifyAccessTokenResolvesUser(t *testing.T) {
	tokens, userRepo, _ := newTestTokenUsecase(t, testTokenConfig())
	user := createTestUser(t, userRepo)

	pair, err := tokens.IssueTokens(context.Background(), user)
	require.NoError(t, err)

	got, err := tokens.VerifyAccessToken(context.Background(), pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
	assert.Equal(t, user.Email, got.Email)
}

func TestVerifyAccessTokenMalformed(t *testing.T) {
	tokens, _, _ := newTestTokenUsecase(t, testTokenConfig())

	_, err := tokens.VerifyAccessToken(context.Background(), "not-a-jwt")
	assert.ErrorIs(t, err, ErrMalformedToken)
}

func TestVerifyAccessTokenWrongSecret(t *testing.T) {
	tokens, userRepo, _ := newTestTokenUsecase(t, testTokenConfig())
	user := createTestUser(t, userRepo)

	pair, err := tokens.IssueTokens(context.Background(), user)
	require.NoError(t, err)

	otherCfg := testTokenConfig()
	otherCfg.SecretKey = "a-different-secret"
	other, _, _ := newTestTokenUsecase(t, otherCfg)

	_, err = other.VerifyAccessToken(context.Background(), pair.AccessToken)
	assert.ErrorIs(t, err, ErrMalformedToken)
}

func TestVerifyAccessTokenExpiredJWT(t *testing.T) {
	cfg := testTokenConfig()
	cfg.AccessTokenExpiresIn = -time.Minute
	tokens, userRepo, _ := newTestTokenUsecase(t, cfg)
	user := createTestUser(t, userRepo)

	pair, err := tokens.IssueTokens(context.Background(), user)
	require.NoError(t, err)

	_, err = tokens.VerifyAccessToken(context.Background(), pair.AccessToken)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestVerifyAccessTokenSessionExpiryWinsOverJWTExp(t *testing.T) {
	tokens, userRepo, sessionRepo := newTestTokenUsecase(t, testTokenConfig())
	user := createTestUser(t, userRepo)

	pair, err := tokens.IssueTokens(context.Background(), user)
	require.NoError(t, err)

	// The JWT's own exp claim is still far in the future; only the backing
	// session has lapsed.
	sessionRepo.expireDirectly(sessionRepo.onlySession().ID)

	_, err = tokens.VerifyAccessToken(context.Background(), pair.AccessToken)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestRefreshTokensRotatesSession(t *testing.T) {
	tokens, userRepo, sessionRepo := newTestTokenUsecase(t, testTokenConfig())
	user := createTestUser(t, userRepo)

	pair, err := tokens.IssueTokens(context.Background(), user)
	require.NoError(t, err)
	firstSession := sessionRepo.onlySession()

	newPair, err := tokens.RefreshTokens(context.Background(), pair.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, pair.AccessToken, newPair.AccessToken)
	assert.NotEqual(t, pair.RefreshToken, newPair.RefreshToken)

	// Rotation expires the consumed row and adds a fresh one.
	assert.Equal(t, 2, sessionRepo.count())

	got, err := tokens.VerifyAccessToken(context.Background(), newPair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	// The old access token's session row is consumed.
	_, err = sessionRepo.GetActiveSessionByAccessKey(
		context.Background(), firstSession.AccessKey, firstSession.ID, user.ID)
	assert.Error(t, err)
}

func TestRefreshTokenIsSingleUse(t *testing.T) {
	tokens, userRepo, _ := newTestTokenUsecase(t, testTokenConfig())
	user := createTestUser(t, userRepo)

	pair, err := tokens.IssueTokens(context.Background(), user)
	require.NoError(t, err)

	_, err = tokens.RefreshTokens(context.Background(), pair.RefreshToken)
	require.NoError(t, err)

	_, err = tokens.RefreshTokens(context.Background(), pair.RefreshToken)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestRefreshTokensMalformed(t *testing.T) {
	tokens, _, _ := newTestTokenUsecase(t, testTokenConfig())

	_, err := tokens.RefreshTokens(context.Background(), "garbage")
	assert.ErrorIs(t, err, ErrMalformedToken)
}

func TestAccessTokenCannotRefresh(t *testing.T) {
	tokens, userRepo, _ := newTestTokenUsecase(t, testTokenConfig())
	user := createTestUser(t, userRepo)

	pair, err := tokens.IssueTokens(context.Background(), user)
	require.NoError(t, err)

	// An access token carries no refresh key claim.
	_, err = tokens.RefreshTokens(context.Background(), pair.AccessToken)
	assert.ErrorIs(t, err, ErrMalformedToken)
}

func TestConcurrentRefreshHasOneWinner(t *testing.T) {
	tokens, userRepo, _ := newTestTokenUsecase(t, testTokenConfig())
	user := createTestUser(t, userRepo)

	pair, err := tokens.IssueTokens(context.Background(), user)
	require.NoError(t, err)

	const n = 16
	var wg sync.WaitGroup
	wg.Add(n)

	results := make(chan error, n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			_, err := tokens.RefreshTokens(context.Background(), pair.RefreshToken)
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	success := 0
	for err := range results {
		if err == nil {
			success++
			continue
		}
		assert.ErrorIs(t, err, ErrSessionNotFound)
	}

	assert.Equal(t, 1, success)
}
