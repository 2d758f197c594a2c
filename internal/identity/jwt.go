package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/mateusmacedo/go-railway/pkg/domain"
)

const minSecretLength = 16

// JWTAuthority emite e verifica tokens HS256. Em produção apenas Resolve é
// usado; Issue serve ao CLI de desenvolvimento e aos testes.
type JWTAuthority struct {
	secret []byte
	issuer string
	now    func() time.Time
}

type tokenClaims struct {
	jwt.RegisteredClaims
	Name  string `json:"name,omitempty"`
	Admin bool   `json:"admin"`
}

func NewJWTAuthority(secret, issuer string, now func() time.Time) (*JWTAuthority, error) {
	if len(secret) < minSecretLength {
		return nil, fmt.Errorf("jwt secret must have at least %d bytes", minSecretLength)
	}
	if strings.TrimSpace(issuer) == "" {
		return nil, errors.New("jwt issuer is required")
	}
	if now == nil {
		now = time.Now
	}
	return &JWTAuthority{secret: []byte(secret), issuer: issuer, now: now}, nil
}

func (a *JWTAuthority) Issue(id Identity, ttl time.Duration) (string, error) {
	if id.UserID == "" {
		return "", fmt.Errorf("%w: user id is required", domain.ErrValidation)
	}
	issuedAt := a.now()
	claims := tokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    a.issuer,
			Subject:   id.UserID,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			NotBefore: jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(ttl)),
		},
		Name:  id.Name,
		Admin: id.IsAdmin,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
}

func (a *JWTAuthority) Resolve(_ context.Context, credential string) (Identity, error) {
	if credential == "" {
		return Identity{}, fmt.Errorf("%w: missing credential", domain.ErrUnauthenticated)
	}

	var claims tokenClaims
	_, err := jwt.ParseWithClaims(credential, &claims, func(*jwt.Token) (interface{}, error) {
		return a.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(a.issuer),
		jwt.WithTimeFunc(a.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return Identity{}, fmt.Errorf("%w: %v", domain.ErrUnauthenticated, err)
	}
	if claims.Subject == "" {
		return Identity{}, fmt.Errorf("%w: token has no subject", domain.ErrUnauthenticated)
	}

	return Identity{UserID: claims.Subject, Name: claims.Name, IsAdmin: claims.Admin}, nil
}
