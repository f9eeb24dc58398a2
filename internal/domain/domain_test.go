package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestDisplayName(t *testing.T) {
	cases := []struct {
		name string
		u    User
		want string
	}{
		{"handle only", User{Username: "jdoe", Role: RoleOwner}, "jdoe"},
		{"full name", User{Username: "jdoe", FirstName: "Jean", LastName: "Dupont", Role: RoleOwner}, "Jean Dupont"},
		{"provider with specialization", User{Username: "plomb", FirstName: "Luc", Role: RoleProvider, Specialization: "Plomberie"}, "Luc - Plomberie"},
		{"provider without specialization", User{Username: "plomb", Role: RoleProvider}, "plomb"},
		{"owner specialization ignored", User{Username: "o", Role: RoleOwner, Specialization: "Plomberie"}, "o"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.u.DisplayName(); got != tc.want {
				t.Fatalf("DisplayName() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestListedInMarketplace(t *testing.T) {
	if (&User{Role: RoleOwner, MarketplaceVisible: true}).ListedInMarketplace() {
		t.Fatal("owner must never be listed")
	}
	if (&User{Role: RoleProvider}).ListedInMarketplace() {
		t.Fatal("hidden provider listed")
	}
	if !(&User{Role: RoleProvider, MarketplaceVisible: true}).ListedInMarketplace() {
		t.Fatal("visible provider not listed")
	}
}

func TestParseRole(t *testing.T) {
	for _, r := range Roles {
		got, err := ParseRole(string(r))
		if err != nil || got != r {
			t.Fatalf("ParseRole(%q) = %q, %v", r, got, err)
		}
	}
	if _, err := ParseRole("ADMIN"); err == nil {
		t.Fatal("expected error for unknown role")
	}
}

func TestKindOf(t *testing.T) {
	cases := map[string]MediaKind{
		"image/png":       MediaImage,
		"video/mp4":       MediaVideo,
		"application/pdf": MediaOther,
		"":                MediaOther,
	}
	for ct, want := range cases {
		if got := KindOf(ct); got != want {
			t.Errorf("KindOf(%q) = %s, want %s", ct, got, want)
		}
	}
}

func TestValidationErrorMatching(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", Invalid(ReasonQuotaExceeded))
	if !errors.Is(err, ErrValidation) {
		t.Fatal("wrapped validation error should match ErrValidation")
	}
	var ve *ValidationError
	if !errors.As(err, &ve) || ve.Reason != ReasonQuotaExceeded {
		t.Fatalf("errors.As reason = %v", ve)
	}
	if errors.Is(ErrNotFound, ErrValidation) {
		t.Fatal("not found must not match validation")
	}
	if got := Required("title").Error(); got != "title is required" {
		t.Fatalf("Required() = %q", got)
	}
}
