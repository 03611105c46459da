// Package receipt signs the claim checks residents use to look up their requests.
package receipt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const issuer = "barangay-connect"

var ErrInvalidReceipt = errors.New("invalid receipt")

// Issuer signs and verifies HS256 receipts whose subject is a control number.
type Issuer struct {
	secret []byte
	ttl    time.Duration
}

func NewIssuer(secret string, ttl time.Duration) *Issuer {
	return &Issuer{secret: []byte(secret), ttl: ttl}
}

func (i *Issuer) Issue(controlNumber string, issuedAt time.Time) (string, error) {
	claims := jwt.RegisteredClaims{
		Issuer:   issuer,
		Subject:  controlNumber,
		IssuedAt: jwt.NewNumericDate(issuedAt),
	}
	if i.ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(issuedAt.Add(i.ttl))
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("sign receipt: %w", err)
	}
	return signed, nil
}

// Verify returns the control number carried by a valid receipt.
func (i *Issuer) Verify(receipt string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(receipt, claims, func(t *jwt.Token) (any, error) {
		return i.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
	)
	if err != nil || !token.Valid || claims.Subject == "" {
		return "", ErrInvalidReceipt
	}
	return claims.Subject, nil
}
