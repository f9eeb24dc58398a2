package bootstrap

import (
	"context"
	"errors"
	"testing"

	"gp-immo/internal/domain"
	"gp-immo/internal/feature/specialization"
	"gp-immo/internal/repo"
	"gp-immo/internal/testutil"
	"gp-immo/pkg/utils"
)

func TestRunIsIdempotent(t *testing.T) {
	r := repo.New(testutil.NewDB(t))
	specs := specialization.NewService(r.Specializations, nil, 0, nil)
	seed := Seed{
		AdminUsername:   "admin0000",
		AdminEmail:      "admin@x.test",
		AdminPassword:   "admin0000",
		Specializations: []string{"Plomberie", "Menuiserie"},
	}
	ctx := context.Background()

	res, err := Run(ctx, r.Users, specs, seed, nil)
	if err != nil {
		t.Fatal(err)
	}
	if !res.AdminCreated || res.SpecializationsCreated != 2 {
		t.Fatalf("first run = %+v", res)
	}
	res, err = Run(ctx, r.Users, specs, seed, nil)
	if err != nil {
		t.Fatal(err)
	}
	if res.AdminCreated || res.SpecializationsCreated != 0 {
		t.Fatalf("second run = %+v", res)
	}

	admin, _ := r.Users.FindByUsername(ctx, "admin0000")
	if admin == nil || admin.Role != domain.RoleStaff || !admin.IsAdmin {
		t.Fatalf("admin = %+v", admin)
	}
	if !utils.CheckPassword("admin0000", admin.PasswordHash) {
		t.Fatal("admin password not hashed correctly")
	}
}

func TestRunWithoutAdmin(t *testing.T) {
	r := repo.New(testutil.NewDB(t))
	specs := specialization.NewService(r.Specializations, nil, 0, nil)
	res, err := Run(context.Background(), r.Users, specs, Seed{Specializations: []string{"Carrelage"}}, nil)
	if err != nil || res.AdminCreated || res.SpecializationsCreated != 1 {
		t.Fatalf("Run = %+v, %v", res, err)
	}
}

// lostRace 存在性检查时还没有，插入时已被另一个进程抢先
type lostRace struct {
	domain.UserRepository
	creates int
}

func (u *lostRace) ExistsUsername(context.Context, string) (bool, error) { return false, nil }

func (u *lostRace) Create(context.Context, *domain.User) error {
	u.creates++
	return domain.ErrDuplicate
}

func TestRunAdminCreatedConcurrently(t *testing.T) {
	r := repo.New(testutil.NewDB(t))
	specs := specialization.NewService(r.Specializations, nil, 0, nil)
	users := &lostRace{}
	res, err := Run(context.Background(), users, specs, Seed{
		AdminUsername:   "admin0000",
		AdminPassword:   "admin0000",
		Specializations: []string{"Plomberie"},
	}, nil)
	if err != nil {
		t.Fatalf("duplicate admin should not fail startup: %v", err)
	}
	if res.AdminCreated || users.creates != 1 || res.SpecializationsCreated != 1 {
		t.Fatalf("Run = %+v, creates = %d", res, users.creates)
	}
}

func TestRunPropagatesCreateFailure(t *testing.T) {
	r := repo.New(testutil.NewDB(t))
	specs := specialization.NewService(r.Specializations, nil, 0, nil)
	boom := errors.New("db down")
	_, err := Run(context.Background(), &brokenUsers{err: boom}, specs, Seed{AdminUsername: "a", AdminPassword: "p"}, nil)
	if !errors.Is(err, boom) {
		t.Fatalf("Run = %v", err)
	}
}

type brokenUsers struct {
	domain.UserRepository
	err error
}

func (u *brokenUsers) ExistsUsername(context.Context, string) (bool, error) { return false, nil }
func (u *brokenUsers) Create(context.Context, *domain.User) error         { return u.err }
