package property_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"gp-immo/internal/domain"
	"gp-immo/internal/feature/media"
	"gp-immo/internal/feature/property"
	"gp-immo/internal/repo"
	"gp-immo/internal/testutil"
)

func input(title string) property.Input {
	return property.Input{Title: title, PropertyType: domain.PropertyStudioRent}
}

func TestScopedToOwner(t *testing.T) {
	r := repo.New(testutil.NewDB(t))
	s := property.NewService(r.Properties, nil, nil)
	ctx := context.Background()
	alice := testutil.NewUser(t, r.Users, "alice", domain.RoleOwner)
	bob := testutil.NewUser(t, r.Users, "bob", domain.RoleOwner)

	p, err := s.Create(ctx, alice, input("Studio"))
	if err != nil {
		t.Fatal(err)
	}
	if p.ListingStatus != domain.ListingForRent {
		t.Fatalf("default listing status = %s", p.ListingStatus)
	}
	if list, _ := s.Scoped(ctx, bob); len(list) != 0 {
		t.Fatalf("bob sees %d properties", len(list))
	}
	if _, err := s.Get(ctx, bob, p.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("foreign Get = %v", err)
	}
	if _, err := s.Update(ctx, bob, p.ID, input("Vol")); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("foreign Update = %v", err)
	}
	if err := s.Delete(ctx, bob, p.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("foreign Delete = %v", err)
	}

	up, err := s.Update(ctx, alice, p.ID, property.Input{Title: "Grand studio", PropertyType: domain.PropertyStudioFurnished, Furnished: true})
	if err != nil || up.Title != "Grand studio" || up.OwnerID != alice.ID {
		t.Fatalf("Update = %+v, %v", up, err)
	}
}

func TestCreateRules(t *testing.T) {
	r := repo.New(testutil.NewDB(t))
	s := property.NewService(r.Properties, nil, nil)
	ctx := context.Background()
	prov := testutil.NewUser(t, r.Users, "prov", domain.RoleProvider)
	owner := testutil.NewUser(t, r.Users, "owner", domain.RoleOwner)

	if _, err := s.Create(ctx, prov, input("Maison")); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("provider Create = %v", err)
	}
	if _, err := s.Create(ctx, owner, input(" ")); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("blank title = %v", err)
	}
	if _, err := s.Create(ctx, owner, property.Input{Title: "X", PropertyType: "CHATEAU"}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("bad type = %v", err)
	}
	neg := -1.0
	if _, err := s.Create(ctx, owner, property.Input{Title: "X", PropertyType: domain.PropertyShop, Price: &neg}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("negative price = %v", err)
	}
}

func TestDeleteRemovesStoredMedia(t *testing.T) {
	r := repo.New(testutil.NewDB(t))
	store := testutil.LocalStore(t)
	props := property.NewService(r.Properties, store, nil)
	ms := media.NewService(r.Properties, r.Media, store, media.Validator{}, nil)
	ctx := context.Background()
	owner := testutil.NewUser(t, r.Users, "owner", domain.RoleOwner)

	p, err := props.Create(ctx, owner, input("Maison"))
	if err != nil {
		t.Fatal(err)
	}
	items, err := ms.Upload(ctx, owner, p.ID, testutil.Images(2))
	if err != nil {
		t.Fatal(err)
	}
	if err := props.Delete(ctx, owner, p.ID); err != nil {
		t.Fatal(err)
	}
	for _, m := range items {
		if _, err := os.Stat(filepath.Join(store.BasePath(), filepath.FromSlash(m.Path))); !os.IsNotExist(err) {
			t.Fatalf("%s still on disk: %v", m.Path, err)
		}
	}
	if _, err := props.Get(ctx, owner, p.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("Get after delete = %v", err)
	}
}
