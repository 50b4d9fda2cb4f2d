package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/cinematic-app/cinematic-api/internal/auth"
	"github.com/cinematic-app/cinematic-api/internal/config"
	"github.com/cinematic-app/cinematic-api/internal/model"
	"github.com/cinematic-app/cinematic-api/internal/repository"
	"github.com/cinematic-app/cinematic-api/internal/security"
)

// Claim keys shared between the access and refresh token shapes. Identifiers
// are base-85 encoded before they enter a claim.
const (
	claimAccessKey  = "a"  // session access key, plain
	claimSessionID  = "r"  // encoded session document id
	claimRefreshKey = "t"  // session refresh key, plain
	claimEmail      = "n"  // encoded email, informational only
)

// Entropy sizes for session keys, in bytes before URL-safe encoding.
const (
	accessKeyBytes  = 50
	refreshKeyBytes = 100
)

// TokenPair is the wire shape returned by login and refresh.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
	TokenType    string `json:"token_type"`
}

// TokenUsecase mints and validates the paired access/refresh bearer tokens.
// Every issued pair is backed by exactly one session document; the session
// layer, not the JWT exp claim, is the authority for revocation.
type TokenUsecase interface {
	// IssueTokens creates a session for the user and signs a fresh token pair
	// referencing it.
	IssueTokens(ctx context.Context, user *model.User) (*TokenPair, error)

	// VerifyAccessToken resolves an access token to its user. It fails with
	// ErrExpiredToken, ErrMalformedToken or ErrSessionNotFound so callers can
	// tell "refresh" apart from "re-login".
	VerifyAccessToken(ctx context.Context, tokenStr string) (*model.User, error)

	// RefreshTokens consumes a refresh token and mints a replacement pair.
	// The consumed session is expired atomically, so a given refresh token
	// succeeds at most once.
	RefreshTokens(ctx context.Context, tokenStr string) (*TokenPair, error)
}

type tokenUsecase struct {
	sessionRepo repository.SessionRepository
	userRepo    repository.UserRepository
	jwtAuth     auth.JWTAuthenticator
	tokenCfg    config.TokenConfig
}

// NewTokenUsecase creates a new instance of TokenUsecase.
func NewTokenUsecase(
	sessionRepo repository.SessionRepository,
	userRepo repository.UserRepository,
	jwtAuth auth.JWTAuthenticator,
	tokenCfg config.TokenConfig,
) TokenUsecase {
	return &tokenUsecase{
		sessionRepo: sessionRepo,
		userRepo:    userRepo,
		jwtAuth:     jwtAuth,
		tokenCfg:    tokenCfg,
	}
}

func (u *tokenUsecase) IssueTokens(ctx context.Context, user *model.User) (*TokenPair, error) {
	accessKey, err := security.UniqueString(accessKeyBytes)
	if err != nil {
		return nil, err
	}

	refreshKey, err := security.UniqueString(refreshKeyBytes)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	session, err := u.sessionRepo.CreateSession(ctx, &model.Session{
		UserID:     user.ID,
		AccessKey:  accessKey,
		RefreshKey: refreshKey,
		ExpiresAt:  now.Add(u.tokenCfg.RefreshTokenExpiresIn),
	})
	if err != nil {
		return nil, err
	}

	accessToken, err := u.jwtAuth.GenerateToken(jwt.MapClaims{
		"sub":           security.StrEncode(user.ID.Hex()),
		claimAccessKey:  session.AccessKey,
		claimSessionID:  security.StrEncode(session.ID.Hex()),
		claimEmail:      security.StrEncode(user.Email),
		"exp":           jwt.NewNumericDate(now.Add(u.tokenCfg.AccessTokenExpiresIn)),
	})
	if err != nil {
		return nil, err
	}

	refreshToken, err := u.jwtAuth.GenerateToken(jwt.MapClaims{
		"sub":            security.StrEncode(user.ID.Hex()),
		claimRefreshKey:  session.RefreshKey,
		claimAccessKey:   session.AccessKey,
		"exp":            jwt.NewNumericDate(now.Add(u.tokenCfg.RefreshTokenExpiresIn)),
	})
	if err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(u.tokenCfg.AccessTokenExpiresIn.Seconds()),
		TokenType:    "Bearer",
	}, nil
}

func (u *tokenUsecase) VerifyAccessToken(ctx context.Context, tokenStr string) (*model.User, error) {
	claims, err := u.parseToken(tokenStr)
	if err != nil {
		return nil, err
	}

	userID, err := decodeIDClaim(claims, "sub")
	if err != nil {
		return nil, ErrMalformedToken
	}

	sessionID, err := decodeIDClaim(claims, claimSessionID)
	if err != nil {
		return nil, ErrMalformedToken
	}

	accessKey, ok := claims[claimAccessKey].(string)
	if !ok {
		return nil, ErrMalformedToken
	}

	session, err := u.sessionRepo.GetActiveSessionByAccessKey(ctx, accessKey, sessionID, userID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrSessionNotFound
		}

		return nil, err
	}

	user, err := u.userRepo.GetUser(ctx, session.UserID.Hex())
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrSessionNotFound
		}

		return nil, err
	}

	return user, nil
}

func (u *tokenUsecase) RefreshTokens(ctx context.Context, tokenStr string) (*TokenPair, error) {
	claims, err := u.parseToken(tokenStr)
	if err != nil {
		return nil, err
	}

	userID, err := decodeIDClaim(claims, "sub")
	if err != nil {
		return nil, ErrMalformedToken
	}

	refreshKey, ok := claims[claimRefreshKey].(string)
	if !ok {
		return nil, ErrMalformedToken
	}

	accessKey, ok := claims[claimAccessKey].(string)
	if !ok {
		return nil, ErrMalformedToken
	}

	session, err := u.sessionRepo.GetActiveSessionByRefreshKey(ctx, refreshKey, accessKey, userID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrSessionNotFound
		}

		return nil, err
	}

	// Consume the session before minting a replacement. The expiry is a
	// conditional write, so a concurrent refresh of the same token loses here.
	if err := u.sessionRepo.ExpireSession(ctx, session.ID); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrSessionNotFound
		}

		return nil, err
	}

	user, err := u.userRepo.GetUser(ctx, session.UserID.Hex())
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrSessionNotFound
		}

		return nil, err
	}

	return u.IssueTokens(ctx, user)
}

func (u *tokenUsecase) parseToken(tokenStr string) (jwt.MapClaims, error) {
	claims, err := u.jwtAuth.ParseToken(tokenStr)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}

		return nil, ErrMalformedToken
	}

	if _, ok := claims["sub"].(string); !ok {
		return nil, ErrMalformedToken
	}

	return claims, nil
}

// decodeIDClaim reverses the claim obfuscation and parses the result as a
// document id.
func decodeIDClaim(claims jwt.MapClaims, key string) (bson.ObjectID, error) {
	encoded, ok := claims[key].(string)
	if !ok {
		return bson.ObjectID{}, ErrMalformedToken
	}

	decoded, err := security.StrDecode(encoded)
	if err != nil {
		return bson.ObjectID{}, err
	}

	return bson.ObjectIDFromHex(decoded)
}
