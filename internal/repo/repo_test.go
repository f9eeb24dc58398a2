package repo_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"gorm.io/datatypes"

	"gp-immo/internal/domain"
	"gp-immo/internal/repo"
	"gp-immo/internal/testutil"
	"gp-immo/pkg/utils"
)

func ptr[T any](v T) *T { return &v }

func TestUserDuplicateUsername(t *testing.T) {
	r := repo.New(testutil.NewDB(t))
	testutil.NewUser(t, r.Users, "alice", domain.RoleOwner)
	err := r.Users.Create(context.Background(), &domain.User{
		ID: utils.NewID(), Username: "alice", PasswordHash: "x", Role: domain.RoleOwner,
	})
	if !errors.Is(err, domain.ErrDuplicate) {
		t.Fatalf("Create duplicate = %v, want ErrDuplicate", err)
	}
}

func TestSoftDeletedUsernameStillTaken(t *testing.T) {
	r := repo.New(testutil.NewDB(t))
	ctx := context.Background()
	u := testutil.NewUser(t, r.Users, "bob", domain.RoleOwner)
	if ok, err := r.Users.SoftDelete(ctx, u.ID); err != nil || !ok {
		t.Fatalf("SoftDelete = %v, %v", ok, err)
	}
	if got, _ := r.Users.FindByID(ctx, u.ID); got != nil {
		t.Fatal("soft-deleted user still found")
	}
	exists, err := r.Users.ExistsUsername(ctx, "bob")
	if err != nil || !exists {
		t.Fatalf("ExistsUsername = %v, %v", exists, err)
	}
	_, total, err := r.Users.List(ctx, domain.UserListFilter{WithDeleted: true})
	if err != nil || total != 1 {
		t.Fatalf("List with deleted = %d, %v", total, err)
	}
}

func TestListProvidersVisibleOnly(t *testing.T) {
	r := repo.New(testutil.NewDB(t))
	testutil.NewUser(t, r.Users, "plombier", domain.RoleProvider)
	testutil.NewUser(t, r.Users, "cache", domain.RoleProvider, testutil.Hidden)
	testutil.NewUser(t, r.Users, "owner", domain.RoleOwner)

	all, err := r.Users.ListProviders(context.Background(), domain.ProviderFilter{})
	if err != nil || len(all) != 2 {
		t.Fatalf("all providers = %d, %v", len(all), err)
	}
	visible, _ := r.Users.ListProviders(context.Background(), domain.ProviderFilter{VisibleOnly: true, Search: "PLOMB"})
	if len(visible) != 1 || visible[0].Username != "plombier" {
		t.Fatalf("visible providers = %+v", visible)
	}
}

func TestAssignmentPairUnique(t *testing.T) {
	r := repo.New(testutil.NewDB(t))
	ctx := context.Background()
	owner := testutil.NewUser(t, r.Users, "owner", domain.RoleOwner)
	prov := testutil.NewUser(t, r.Users, "prov", domain.RoleProvider)
	p := testutil.NewProperty(t, r.Properties, owner, "Maison")

	a := &domain.Assignment{ID: utils.NewID(), PropertyID: p.ID, ProviderID: prov.ID, Active: true}
	if err := r.Assignments.Create(ctx, a); err != nil {
		t.Fatal(err)
	}
	err := r.Assignments.Create(ctx, &domain.Assignment{ID: utils.NewID(), PropertyID: p.ID, ProviderID: prov.ID, Active: true})
	if !errors.Is(err, domain.ErrDuplicate) {
		t.Fatalf("second Create = %v, want ErrDuplicate", err)
	}

	if err := r.Assignments.SetActive(ctx, a.ID, false); err != nil {
		t.Fatal(err)
	}
	if ok, _ := r.Assignments.ExistsActive(ctx, p.ID, prov.ID); ok {
		t.Fatal("deactivated assignment reported active")
	}
	active, _ := r.Properties.ListAssignedTo(ctx, prov.ID, true)
	every, _ := r.Properties.ListAssignedTo(ctx, prov.ID, false)
	if len(active) != 0 || len(every) != 1 {
		t.Fatalf("assigned active=%d all=%d", len(active), len(every))
	}
}

func TestPaymentsForOwnerCountedOnce(t *testing.T) {
	r := repo.New(testutil.NewDB(t))
	ctx := context.Background()
	owner := testutil.NewUser(t, r.Users, "owner", domain.RoleOwner)
	other := testutil.NewUser(t, r.Users, "other", domain.RoleOwner)
	p := testutil.NewProperty(t, r.Properties, owner, "Maison")
	q := testutil.NewProperty(t, r.Properties, other, "Studio")

	c := &domain.Contract{
		ID: utils.NewID(), PropertyID: p.ID, OwnerID: owner.ID, TenantName: "T",
		StartDate: datatypes.Date(time.Now()), Rent: 500, Status: domain.ContractActive,
	}
	if err := r.Contracts.Create(ctx, c); err != nil {
		t.Fatal(err)
	}
	due := datatypes.Date(time.Now())
	payments := []*domain.Payment{
		// 通过 contract 和 property 同时命中
		{ID: utils.NewID(), ContractID: &c.ID, PropertyID: &p.ID, Amount: 500, DueDate: due, Status: domain.PaymentPending, PaymentType: domain.PaymentRent},
		{ID: utils.NewID(), PropertyID: &p.ID, Amount: 50, DueDate: due, Status: domain.PaymentPaid, PaymentType: domain.PaymentReservation},
		{ID: utils.NewID(), PropertyID: &q.ID, Amount: 70, DueDate: due, Status: domain.PaymentPaid, PaymentType: domain.PaymentRent},
		{ID: utils.NewID(), Amount: 10, DueDate: due, Status: domain.PaymentPaid, PaymentType: domain.PaymentProviderFee},
	}
	for _, pm := range payments {
		if err := r.Payments.Create(ctx, pm); err != nil {
			t.Fatal(err)
		}
	}
	got, err := r.Payments.ListForOwner(ctx, owner.ID, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("owner payments = %d, want 2", len(got))
	}
	limited, _ := r.Payments.ListForOwner(ctx, owner.ID, 1)
	if len(limited) != 1 {
		t.Fatalf("limited payments = %d", len(limited))
	}
}

func TestMarkOverdue(t *testing.T) {
	r := repo.New(testutil.NewDB(t))
	ctx := context.Background()
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	mk := func(due time.Time, st domain.PaymentStatus) *domain.Payment {
		p := &domain.Payment{ID: utils.NewID(), Amount: 1, DueDate: datatypes.Date(due), Status: st, PaymentType: domain.PaymentRent}
		if err := r.Payments.Create(ctx, p); err != nil {
			t.Fatal(err)
		}
		return p
	}
	mk(now.AddDate(0, 0, -3), domain.PaymentPending)
	mk(now.AddDate(0, 0, -3), domain.PaymentPaid)
	mk(now.AddDate(0, 0, 3), domain.PaymentPending)

	n, err := r.Payments.MarkOverdue(ctx, now)
	if err != nil || n != 1 {
		t.Fatalf("MarkOverdue = %d, %v", n, err)
	}
	if n, _ := r.Payments.MarkOverdue(ctx, now); n != 0 {
		t.Fatalf("second MarkOverdue = %d, want 0", n)
	}
}

func TestDeleteCascade(t *testing.T) {
	r := repo.New(testutil.NewDB(t))
	ctx := context.Background()
	owner := testutil.NewUser(t, r.Users, "owner", domain.RoleOwner)
	prov := testutil.NewUser(t, r.Users, "prov", domain.RoleProvider)
	p := testutil.NewProperty(t, r.Properties, owner, "Maison")

	err := r.Media.CreateWithinQuota(ctx, p.ID, []domain.Media{
		{ID: utils.NewID(), PropertyID: p.ID, Path: "biens/x/1_a.jpg", Kind: domain.MediaImage},
		{ID: utils.NewID(), PropertyID: p.ID, Path: "biens/x/1_b.jpg", Kind: domain.MediaImage},
	}, 10)
	if err != nil {
		t.Fatal(err)
	}
	if err := r.Assignments.Create(ctx, &domain.Assignment{ID: utils.NewID(), PropertyID: p.ID, ProviderID: prov.ID, Active: true}); err != nil {
		t.Fatal(err)
	}
	if err := r.Reports.Create(ctx, &domain.InterventionReport{ID: utils.NewID(), PropertyID: p.ID, ProviderID: prov.ID, Summary: "ok"}); err != nil {
		t.Fatal(err)
	}
	if err := r.Payments.Create(ctx, &domain.Payment{ID: utils.NewID(), PropertyID: ptr(p.ID), Amount: 1, DueDate: datatypes.Date(time.Now()), Status: domain.PaymentPending, PaymentType: domain.PaymentRent}); err != nil {
		t.Fatal(err)
	}

	paths, err := r.Properties.DeleteCascade(ctx, p.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(paths) != 2 {
		t.Fatalf("media paths = %v", paths)
	}
	if got, _ := r.Properties.FindByID(ctx, p.ID); got != nil {
		t.Fatal("property still exists")
	}
	if n, _ := r.Media.CountByProperty(ctx, p.ID); n != 0 {
		t.Fatalf("media left = %d", n)
	}
	if reps, _ := r.Reports.ListByProvider(ctx, prov.ID, 0); len(reps) != 0 {
		t.Fatalf("reports left = %d", len(reps))
	}
	if pays, _ := r.Payments.ListForOwner(ctx, owner.ID, 0); len(pays) != 0 {
		t.Fatalf("payments left = %d", len(pays))
	}
	if _, err := r.Properties.DeleteCascade(ctx, p.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("second delete = %v, want ErrNotFound", err)
	}
}

func TestCreateWithinQuota(t *testing.T) {
	r := repo.New(testutil.NewDB(t))
	ctx := context.Background()
	owner := testutil.NewUser(t, r.Users, "owner", domain.RoleOwner)
	p := testutil.NewProperty(t, r.Properties, owner, "Maison")

	batch := func(n int) []domain.Media {
		out := make([]domain.Media, n)
		for i := range out {
			out[i] = domain.Media{ID: utils.NewID(), PropertyID: p.ID, Path: utils.NewID(), Kind: domain.MediaImage}
		}
		return out
	}
	if err := r.Media.CreateWithinQuota(ctx, p.ID, batch(8), 10); err != nil {
		t.Fatal(err)
	}
	err := r.Media.CreateWithinQuota(ctx, p.ID, batch(3), 10)
	var ve *domain.ValidationError
	if !errors.As(err, &ve) || ve.Reason != domain.ReasonQuotaExceeded {
		t.Fatalf("over quota = %v", err)
	}
	if n, _ := r.Media.CountByProperty(ctx, p.ID); n != 8 {
		t.Fatalf("count after rejected batch = %d", n)
	}
	if err := r.Media.CreateWithinQuota(ctx, p.ID, batch(2), 10); err != nil {
		t.Fatalf("fill to quota: %v", err)
	}
	if err := r.Media.CreateWithinQuota(ctx, "missing", batch(1), 10); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("unknown property = %v", err)
	}
}

func TestMessagesOrdering(t *testing.T) {
	r := repo.New(testutil.NewDB(t))
	ctx := context.Background()
	a := testutil.NewUser(t, r.Users, "a", domain.RoleOwner)
	b := testutil.NewUser(t, r.Users, "b", domain.RoleProvider)
	base := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	for i, from := range []*domain.User{a, b, a} {
		to := b
		if from == b {
			to = a
		}
		m := &domain.Message{ID: utils.NewID(), SenderID: from.ID, ReceiverID: to.ID, Content: string(rune('x' + i)), Kind: domain.MessageText, CreatedAt: base.Add(time.Duration(i) * time.Minute)}
		if err := r.Messages.Create(ctx, m); err != nil {
			t.Fatal(err)
		}
	}
	between, _ := r.Messages.Between(ctx, b.ID, a.ID)
	if len(between) != 3 || between[0].Content != "x" || between[2].Content != "z" {
		t.Fatalf("Between order = %+v", between)
	}
	latest, _ := r.Messages.ListInvolving(ctx, a.ID, 2)
	if len(latest) != 2 || latest[0].Content != "z" {
		t.Fatalf("ListInvolving = %+v", latest)
	}
	pairs, _ := r.Messages.Correspondences(ctx, b.ID)
	if len(pairs) != 3 {
		t.Fatalf("Correspondences = %d", len(pairs))
	}
}

func TestMessagesSameTimestampStableOrder(t *testing.T) {
	r := repo.New(testutil.NewDB(t))
	ctx := context.Background()
	a := testutil.NewUser(t, r.Users, "a", domain.RoleOwner)
	b := testutil.NewUser(t, r.Users, "b", domain.RoleProvider)
	at := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	for _, id := range []string{"m3", "m1", "m2"} {
		m := &domain.Message{ID: id, SenderID: a.ID, ReceiverID: b.ID, Content: id, Kind: domain.MessageText, CreatedAt: at}
		if err := r.Messages.Create(ctx, m); err != nil {
			t.Fatal(err)
		}
	}
	ids := func(ms []domain.Message) string {
		out := ""
		for _, m := range ms {
			out += m.ID + " "
		}
		return out
	}
	between, err := r.Messages.Between(ctx, a.ID, b.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got := ids(between); got != "m1 m2 m3 " {
		t.Fatalf("Between = %q", got)
	}
	inbox, err := r.Messages.ListInvolving(ctx, b.ID, 0)
	if err != nil {
		t.Fatal(err)
	}
	if got := ids(inbox); got != "m3 m2 m1 " {
		t.Fatalf("ListInvolving = %q", got)
	}
}

func TestSpecializationEnsure(t *testing.T) {
	r := repo.New(testutil.NewDB(t))
	ctx := context.Background()
	s, created, err := r.Specializations.Ensure(ctx, "Plomberie")
	if err != nil || !created || s.ID == 0 {
		t.Fatalf("first Ensure = %+v, %v, %v", s, created, err)
	}
	again, created, err := r.Specializations.Ensure(ctx, "Plomberie")
	if err != nil || created || again.ID != s.ID {
		t.Fatalf("second Ensure = %+v, %v, %v", again, created, err)
	}
}
