package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/yungbote/contactbook-backend/internal/data/repos"
	types "github.com/yungbote/contactbook-backend/internal/domain"
	"github.com/yungbote/contactbook-backend/internal/normalization"
	"github.com/yungbote/contactbook-backend/internal/observability"
	"github.com/yungbote/contactbook-backend/internal/platform/ctxutil"
	"github.com/yungbote/contactbook-backend/internal/platform/logger"
)

const (
	ReasonCredentialsRequired = "Username and password required."
	ReasonUsernameTaken       = "Username already exists."
	ReasonInvalidCredentials  = "Invalid credentials."
)

type AuthService interface {
	Signup(ctx context.Context, username, password string) (*types.User, error)
	// Login returns a signed access token and its expiry.
	Login(ctx context.Context, username, password string) (string, time.Time, error)
	// Logout revokes the token attached to ctx by SetContextFromToken.
	Logout(ctx context.Context) error
	SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error)
	GetAccessTTL() time.Duration
}

type JWTClaims struct {
	jwt.RegisteredClaims
}

type authService struct {
	log          *logger.Logger
	userRepo     repos.UserRepo
	sessionRepo  repos.SessionRepo
	metrics      *observability.Metrics
	jwtSecretKey []byte
	accessTTL    time.Duration
	bcryptCost   int
	now          func() time.Time
}

func NewAuthService(
	log *logger.Logger,
	userRepo repos.UserRepo,
	sessionRepo repos.SessionRepo,
	metrics *observability.Metrics,
	jwtSecretKey string,
	accessTTL time.Duration,
) AuthService {
	return &authService{
		log:          log.With("service", "AuthService"),
		userRepo:     userRepo,
		sessionRepo:  sessionRepo,
		metrics:      metrics,
		jwtSecretKey: []byte(jwtSecretKey),
		accessTTL:    accessTTL,
		bcryptCost:   bcrypt.DefaultCost,
		now:          time.Now,
	}
}

func (as *authService) Signup(ctx context.Context, username, password string) (*types.User, error) {
	username = normalization.ParseInputString(username)
	if username == "" || password == "" {
		return nil, types.NewValidationError(ReasonCredentialsRequired)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), as.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	user := &types.User{
		Username:     username,
		PasswordHash: string(hash),
		CreatedAt:    types.Now(),
	}
	if err := as.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, types.ErrConflict) {
			as.metrics.IncAuthEvent("signup", "conflict")
			return nil, types.Reason(types.ErrConflict, ReasonUsernameTaken)
		}
		as.metrics.IncAuthEvent("signup", "error")
		return nil, err
	}
	as.metrics.IncAuthEvent("signup", "ok")
	as.log.Info("User signed up", "username", username)
	return user, nil
}

func (as *authService) Login(ctx context.Context, username, password string) (string, time.Time, error) {
	username = normalization.ParseInputString(username)
	if username == "" || password == "" {
		return "", time.Time{}, types.NewValidationError(ReasonCredentialsRequired)
	}
	user, err := as.userRepo.GetByUsername(ctx, username)
	if errors.Is(err, types.ErrNotFound) {
		as.metrics.IncAuthEvent("login", "rejected")
		return "", time.Time{}, types.Reason(types.ErrUnauthorized, ReasonInvalidCredentials)
	}
	if err != nil {
		as.metrics.IncAuthEvent("login", "error")
		return "", time.Time{}, err
	}
	if !verifyPassword(user.PasswordHash, password) {
		as.metrics.IncAuthEvent("login", "rejected")
		return "", time.Time{}, types.Reason(types.ErrUnauthorized, ReasonInvalidCredentials)
	}
	tok, exp, err := as.generateAccessToken(user)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("generate access token: %w", err)
	}
	as.metrics.IncAuthEvent("login", "ok")
	return tok, exp, nil
}

func (as *authService) Logout(ctx context.Context) error {
	rd := ctxutil.GetRequestData(ctx)
	if rd == nil || rd.TokenID == "" {
		return types.ErrUnauthorized
	}
	ttl := rd.TokenExp.Sub(as.now())
	if err := as.sessionRepo.RevokeToken(ctx, rd.TokenID, ttl); err != nil {
		return err
	}
	as.metrics.IncAuthEvent("logout", "ok")
	return nil
}

func (as *authService) generateAccessToken(user *types.User) (string, time.Time, error) {
	now := as.now()
	exp := now.Add(as.accessTTL)
	claims := JWTClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.Username,
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(as.jwtSecretKey)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

func (as *authService) SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error) {
	if tokenString == "" {
		return ctx, types.ErrUnauthorized
	}
	parsed, err := jwt.ParseWithClaims(
		tokenString,
		&JWTClaims{},
		func(token *jwt.Token) (interface{}, error) { return as.jwtSecretKey, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(as.now),
	)
	if err != nil {
		return ctx, fmt.Errorf("%w: %v", types.ErrUnauthorized, err)
	}
	claims, ok := parsed.Claims.(*JWTClaims)
	if !ok || !parsed.Valid || claims.Subject == "" || claims.ID == "" {
		return ctx, fmt.Errorf("%w: invalid token claims", types.ErrUnauthorized)
	}
	revoked, err := as.sessionRepo.IsRevoked(ctx, claims.ID)
	if err != nil {
		return ctx, err
	}
	if revoked {
		return ctx, fmt.Errorf("%w: token revoked", types.ErrUnauthorized)
	}
	var exp time.Time
	if claims.ExpiresAt != nil {
		exp = claims.ExpiresAt.Time
	}
	return ctxutil.WithRequestData(ctx, &ctxutil.RequestData{
		Username: claims.Subject,
		TokenID:  claims.ID,
		TokenExp: exp,
		RawToken: tokenString,
	}), nil
}

func (as *authService) GetAccessTTL() time.Duration {
	return as.accessTTL
}
