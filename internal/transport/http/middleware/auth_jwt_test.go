package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"gp-immo/internal/core/auth"
	"gp-immo/internal/domain"
	resp "gp-immo/internal/transport/http/response"
)

type users map[string]*domain.User

func (u users) FindByID(_ context.Context, id string) (*domain.User, error) { return u[id], nil }

func TestAuthChain(t *testing.T) {
	gin.SetMode(gin.TestMode)
	j := &auth.JWTer{Secret: []byte("k"), Issuer: "test", TTL: time.Hour}
	known := users{"u1": {ID: "u1", Role: domain.RoleStaff}}

	r := gin.New()
	r.GET("/staff", AuthJWT(j, domain.RoleStaff), LoadUser(known), func(c *gin.Context) {
		c.JSON(http.StatusOK, resp.OK(gin.H{"id": CurrentUser(c).ID, "role": c.GetString(KeyRole)}))
	})

	do := func(token string) resp.Resp {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/staff", nil)
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		r.ServeHTTP(w, req)
		var out resp.Resp
		_ = json.Unmarshal(w.Body.Bytes(), &out)
		return out
	}

	if got := do(""); got.Code != resp.CodeUnauthorized {
		t.Fatalf("no token = %+v", got)
	}
	if got := do("garbage"); got.Code != resp.CodeUnauthorized {
		t.Fatalf("bad token = %+v", got)
	}
	stale := &auth.JWTer{Secret: j.Secret, Issuer: j.Issuer, TTL: -5 * time.Minute}
	old, _ := stale.Issue("u1", domain.RoleStaff)
	if got := do(old.Value); got.Code != resp.CodeUnauthorized || got.Msg != "token expired" {
		t.Fatalf("expired token = %+v", got)
	}
	owner, _ := j.Issue("u1", domain.RoleOwner)
	if got := do(owner.Value); got.Code != resp.CodeForbidden {
		t.Fatalf("owner token on staff route = %+v", got)
	}
	ghost, _ := j.Issue("gone", domain.RoleStaff)
	if got := do(ghost.Value); got.Code != resp.CodeUnauthorized {
		t.Fatalf("deleted user = %+v", got)
	}
	staff, _ := j.Issue("u1", domain.RoleStaff)
	got := do(staff.Value)
	if data, _ := got.Data.(map[string]any); got.Code != resp.CodeOK || data["id"] != "u1" {
		t.Fatalf("staff = %+v", got)
	}
}
