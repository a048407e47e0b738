package jwt

//go:generate go run go.uber.org/mock/mockgen -source=./jwt.go -destination=./mocks/jwt_mock.go -package=mocks

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"cowork/config"
	"cowork/infras/otel"
	"cowork/shared/constant"
	"cowork/shared/timezone"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
	ErrInvalidClaim = errors.New("invalid token claim")
	ErrNoBearer     = errors.New("authorization header must carry a bearer token")
)

// Kind separates access tokens from refresh tokens. Each kind is signed with its own secret.
type Kind string

const (
	KindAccess  Kind = "access"
	KindRefresh Kind = "refresh"
)

const scheme = "Bearer"

// Identity is what a token asserts about its holder.
type Identity struct {
	UserID string
	Email  string
	Role   string
}

// Claims is the signed payload. The user id travels as the registered subject.
type Claims struct {
	Email string `json:"email"`
	Role  string `json:"role,omitempty"`
	Kind  Kind   `json:"kind"`
	jwt.RegisteredClaims
}

func (c *Claims) Identity() Identity {
	return Identity{UserID: c.Subject, Email: c.Email, Role: c.Role}
}

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
}

type JWT interface {
	Issue(ctx context.Context, identity Identity) (*TokenPair, error)
	Verify(ctx context.Context, token string, kind Kind) (*Claims, error)
	// Refresh trades a valid refresh token for a new pair carrying the same identity.
	Refresh(ctx context.Context, refreshToken string) (*TokenPair, error)
}

type signer struct {
	secret []byte
	ttl    time.Duration
}

type Service struct {
	issuer  string
	signers map[Kind]signer
	otel    otel.Otel
}

func New(cfg *config.Config, otl otel.Otel) JWT {
	return &Service{
		issuer: cfg.App.Name,
		signers: map[Kind]signer{
			KindAccess:  {secret: []byte(cfg.JWT.AccessSecret), ttl: time.Duration(cfg.JWT.AccessExpireMin) * time.Minute},
			KindRefresh: {secret: []byte(cfg.JWT.RefreshSecret), ttl: time.Duration(cfg.JWT.RefreshExpireMin) * time.Minute},
		},
		otel: otl,
	}
}

func (s *Service) Issue(ctx context.Context, identity Identity) (pair *TokenPair, err error) {
	_, scope := s.otel.NewScope(ctx, constant.OtelExternalScopeName, "jwt.Issue")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if identity.UserID == constant.Empty {
		return nil, ErrInvalidClaim
	}

	now := timezone.Now()

	access, err := s.sign(identity, KindAccess, now)
	if err != nil {
		return nil, err
	}

	refresh, err := s.sign(identity, KindRefresh, now)
	if err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    scheme,
		ExpiresIn:    int64(s.signers[KindAccess].ttl.Seconds()),
	}, nil
}

func (s *Service) sign(identity Identity, kind Kind, now time.Time) (string, error) {
	key, ok := s.signers[kind]
	if !ok {
		return "", fmt.Errorf("unknown token kind %q", kind)
	}

	claims := Claims{
		Email: identity.Email,
		Role:  identity.Role,
		Kind:  kind,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   identity.UserID,
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(key.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(key.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign %s token: %w", kind, err)
	}

	return signed, nil
}

func (s *Service) Verify(ctx context.Context, token string, kind Kind) (claims *Claims, err error) {
	_, scope := s.otel.NewScope(ctx, constant.OtelExternalScopeName, "jwt.Verify")
	defer scope.End()

	key, ok := s.signers[kind]
	if !ok {
		return nil, fmt.Errorf("unknown token kind %q", kind)
	}

	claims = &Claims{}

	_, err = jwt.ParseWithClaims(token, claims,
		func(*jwt.Token) (any, error) { return key.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(timezone.Now),
	)

	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, ErrExpiredToken
	case err != nil:
		return nil, ErrInvalidToken
	case claims.Kind != kind || claims.Subject == constant.Empty:
		return nil, ErrInvalidClaim
	}

	return claims, nil
}

func (s *Service) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := s.Verify(ctx, refreshToken, KindRefresh)
	if err != nil {
		return nil, fmt.Errorf("refresh rejected: %w", err)
	}

	return s.Issue(ctx, claims.Identity())
}

// Bearer pulls the token out of an Authorization header value.
func Bearer(header string) (string, error) {
	kind, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(kind, scheme) {
		return "", ErrNoBearer
	}

	token = strings.TrimSpace(token)
	if token == constant.Empty {
		return "", ErrNoBearer
	}

	return token, nil
}
