package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"gp-immo/internal/domain"
)

func TestIssueParse(t *testing.T) {
	j := &JWTer{Secret: []byte("k"), Issuer: "gp-immo", TTL: time.Hour}
	tok, err := j.Issue("u1", domain.RoleProvider)
	if err != nil {
		t.Fatal(err)
	}
	if time.Until(tok.ExpiresAt) <= 59*time.Minute {
		t.Fatalf("expiresAt = %s", tok.ExpiresAt)
	}
	c, err := j.Parse(tok.Value)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if c.UserID() != "u1" || c.Role != domain.RoleProvider || c.ID == "" {
		t.Fatalf("claims = %+v", c)
	}
}

func TestParseRejects(t *testing.T) {
	j := &JWTer{Secret: []byte("k"), Issuer: "gp-immo", TTL: time.Hour}
	tok, _ := j.Issue("u1", domain.RoleStaff)

	other := &JWTer{Secret: []byte("other"), Issuer: "gp-immo", TTL: time.Hour}
	if _, err := other.Parse(tok.Value); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("wrong secret: %v", err)
	}
	foreign := &JWTer{Secret: []byte("k"), Issuer: "someone-else", TTL: time.Hour}
	if _, err := foreign.Parse(tok.Value); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("wrong issuer: %v", err)
	}
	expired := &JWTer{Secret: []byte("k"), Issuer: "gp-immo", TTL: -5 * time.Minute}
	old, _ := expired.Issue("u1", domain.RoleStaff)
	if _, err := j.Parse(old.Value); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expired: %v", err)
	}
	if _, err := j.Parse("not-a-jwt"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("garbage: %v", err)
	}
}

func TestParseRejectsOtherAlg(t *testing.T) {
	j := &JWTer{Secret: []byte("k"), Issuer: "gp-immo", TTL: time.Hour}
	claims := Claims{Role: domain.RoleStaff, RegisteredClaims: jwt.RegisteredClaims{
		Subject:   "u1",
		Issuer:    "gp-immo",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}}
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte("k"))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := j.Parse(s); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("HS512 accepted: %v", err)
	}
}
