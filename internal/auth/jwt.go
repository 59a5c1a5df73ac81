package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/golang-jwt/jwt/v5"
)

const issuer = "royaltymarket"

// RoleCustodian may deposit funds into any account
const RoleCustodian = "custodian"

// Claims identify the caller; Subject is the caller's hex address
type Claims struct {
	Role string `json:"role,omitempty"`

	jwt.RegisteredClaims
}

// Caller returns the address the token was issued to
func (c Claims) Caller() (common.Address, error) {
	if !common.IsHexAddress(c.Subject) {
		return common.Address{}, fmt.Errorf("subject %q is not an address", c.Subject)
	}
	addr := common.HexToAddress(c.Subject)
	if addr == (common.Address{}) {
		return common.Address{}, errors.New("subject is the zero address")
	}
	return addr, nil
}

type JWT struct {
	Secret   []byte
	TokenTTL time.Duration
}

// Issue signs a token for address with the given role
func (j JWT) Issue(address common.Address, role string) (string, time.Time, error) {
	return j.Sign(Claims{
		Role:             role,
		RegisteredClaims: jwt.RegisteredClaims{Subject: address.Hex()},
	})
}

func (j JWT) Sign(claims Claims) (token string, expiresAt time.Time, err error) {
	if len(j.Secret) == 0 {
		return "", time.Time{}, errors.New("jwt secret is empty")
	}
	now := time.Now().UTC()
	if claims.IssuedAt == nil {
		claims.IssuedAt = jwt.NewNumericDate(now)
	}
	if claims.NotBefore == nil {
		claims.NotBefore = jwt.NewNumericDate(now.Add(-5 * time.Second))
	}
	if claims.ExpiresAt == nil {
		expiresAt = now.Add(j.TokenTTL)
		claims.ExpiresAt = jwt.NewNumericDate(expiresAt)
	} else {
		expiresAt = claims.ExpiresAt.Time
	}
	if claims.Issuer == "" {
		claims.Issuer = issuer
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := t.SignedString(j.Secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return s, expiresAt, nil
}

func (j JWT) Verify(token string) (Claims, error) {
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(t *jwt.Token) (any, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return j.Secret, nil
	}, jwt.WithIssuer(issuer))
	if err != nil {
		return Claims{}, err
	}
	c, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return Claims{}, errors.New("invalid token")
	}
	return *c, nil
}
