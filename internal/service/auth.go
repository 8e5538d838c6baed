package service

import (
	"context"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
	"go.opentelemetry.io/otel"

	"github.com/hubfolio/hubfolio/internal/domain"
)

var tracer = otel.Tracer("auth")

type AuthService struct {
	config *domain.Config
}

func NewAuthService(
	config *domain.Config,
) *AuthService {
	return &AuthService{
		config: config,
	}
}

type AuthResult struct {
	OwnerKey string
	IsAdmin  bool
}

type sessionClaims struct {
	Admin bool `json:"admin,omitempty"`
	jwt.RegisteredClaims
}

func (s *AuthService) AuthJwt(ctx context.Context, token string) (*AuthResult, error) {
	ctx, span := tracer.Start(ctx, "Auth.Service.AuthJwt")
	defer span.End()

	var claims sessionClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.config.AuthSecret), nil
	})
	if err != nil {
		span.RecordError(errors.Wrap(err, "jwt validation failed"))
		return nil, err
	}
	if !parsed.Valid {
		err := fmt.Errorf("invalid token")
		span.RecordError(err)
		return nil, err
	}

	audienceOK := false
	for _, aud := range claims.Audience {
		if aud == s.config.FQDN {
			audienceOK = true
			break
		}
	}
	if !audienceOK {
		err := fmt.Errorf("jwt audience mismatch: expected %s, got %v", s.config.FQDN, claims.Audience)
		span.RecordError(err)
		return nil, err
	}

	if claims.Subject == "" {
		err := fmt.Errorf("missing subject")
		span.RecordError(err)
		return nil, err
	}

	return &AuthResult{OwnerKey: claims.Subject, IsAdmin: claims.Admin}, nil
}
