package dashboard_test

import (
	"context"
	"testing"
	"time"

	"gp-immo/internal/domain"
	"gp-immo/internal/feature/assignment"
	"gp-immo/internal/feature/contract"
	"gp-immo/internal/feature/dashboard"
	"gp-immo/internal/feature/messaging"
	"gp-immo/internal/feature/property"
	"gp-immo/internal/repo"
	"gp-immo/internal/testutil"
)

func TestBuildPerRole(t *testing.T) {
	r := repo.New(testutil.NewDB(t))
	props := property.NewService(r.Properties, nil, nil)
	contracts := contract.NewService(r.Properties, r.Contracts, r.Payments, r.Users, nil)
	assigns := assignment.NewService(r.Properties, r.Assignments, r.Users, r.Reports, nil, nil)
	msgs := messaging.NewService(r.Users, r.Messages, r.Assignments, nil, nil)
	s := dashboard.NewService(props, contracts, assigns, msgs)
	ctx := context.Background()

	owner := testutil.NewUser(t, r.Users, "owner", domain.RoleOwner)
	prov := testutil.NewUser(t, r.Users, "prov", domain.RoleProvider)
	p := testutil.NewProperty(t, r.Properties, owner, "Maison")
	for i := 0; i < 7; i++ {
		if _, err := contracts.CreateContract(ctx, owner, contract.ContractInput{PropertyID: p.ID, TenantName: "T", StartDate: time.Now(), Rent: 100}); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := assigns.Assign(ctx, owner, p.ID, prov.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := msgs.Send(ctx, prov, owner.ID, messaging.SendInput{Content: "Bonjour"}); err != nil {
		t.Fatal(err)
	}

	v, err := s.Build(ctx, owner)
	if err != nil {
		t.Fatal(err)
	}
	if len(v.Properties) != 1 || len(v.Contracts) != 5 || len(v.Assignments) != 1 || len(v.LastMessages) != 1 {
		t.Fatalf("owner view = props %d contracts %d assignments %d messages %d",
			len(v.Properties), len(v.Contracts), len(v.Assignments), len(v.LastMessages))
	}
	if v.Missions != nil {
		t.Fatal("owner view has missions")
	}

	v, err = s.Build(ctx, prov)
	if err != nil {
		t.Fatal(err)
	}
	if len(v.Missions) != 1 || v.Properties != nil || v.DisplayName != "prov - Plomberie" {
		t.Fatalf("provider view = %+v", v)
	}

	if _, err := s.Build(ctx, &domain.User{Role: "GUEST"}); err == nil {
		t.Fatal("unknown role accepted")
	}
}
