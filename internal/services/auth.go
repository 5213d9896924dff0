package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/yungbote/procurement-backend/internal/platform/ctxutil"
	"github.com/yungbote/procurement-backend/internal/platform/errs"
	"github.com/yungbote/procurement-backend/internal/platform/logger"
)

// AuthService validates bearer tokens minted by the identity provider and
// turns their claims into the actor carried on the request context.
type AuthService interface {
	SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error)
	IssueToken(actor ctxutil.ActorData) (string, error)
}

type JWTClaims struct {
	Name       string   `json:"name,omitempty"`
	Department string   `json:"department,omitempty"`
	Roles      []string `json:"roles,omitempty"`
	jwt.RegisteredClaims
}

type authService struct {
	log          *logger.Logger
	jwtSecretKey string
	issuer       string
	accessTTL    time.Duration
}

func NewAuthService(log *logger.Logger, jwtSecretKey, issuer string, accessTTL time.Duration) AuthService {
	if accessTTL <= 0 {
		accessTTL = time.Hour
	}
	return &authService{
		log:          log.With("service", "AuthService"),
		jwtSecretKey: jwtSecretKey,
		issuer:       issuer,
		accessTTL:    accessTTL,
	}
}

// IssueToken signs an HS256 token for actor. Used by procurectl and tests.
func (as *authService) IssueToken(actor ctxutil.ActorData) (string, error) {
	if strings.TrimSpace(actor.ID) == "" {
		return "", fmt.Errorf("actor id required: %w", errs.ErrInvalidArgument)
	}
	now := time.Now()
	claims := JWTClaims{
		Name:       actor.Name,
		Department: actor.Department,
		Roles:      actor.Roles,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   actor.ID,
			Issuer:    as.issuer,
			ExpiresAt: jwt.NewNumericDate(now.Add(as.accessTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(as.jwtSecretKey))
}

func (as *authService) SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error) {
	if tokenString == "" {
		return ctx, errs.ErrUnauthorized
	}
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if as.issuer != "" {
		opts = append(opts, jwt.WithIssuer(as.issuer))
	}
	parsedToken, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(as.jwtSecretKey), nil
	}, opts...)
	if err != nil {
		return ctx, fmt.Errorf("failed to parse token: %w: %w", errs.ErrUnauthorized, err)
	}
	claims, ok := parsedToken.Claims.(*JWTClaims)
	if !ok || !parsedToken.Valid {
		return ctx, fmt.Errorf("invalid or expired token: %w", errs.ErrUnauthorized)
	}
	if strings.TrimSpace(claims.Subject) == "" {
		return ctx, errors.Join(errs.ErrUnauthorized, errors.New("token has no subject"))
	}
	ctx = ctxutil.WithActorData(ctx, &ctxutil.ActorData{
		ID:         claims.Subject,
		Name:       claims.Name,
		Department: claims.Department,
		Roles:      claims.Roles,
	})
	return ctx, nil
}
