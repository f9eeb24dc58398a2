package app

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"gp-immo/internal/bootstrap"
	"gp-immo/internal/core/auth"
	resp "gp-immo/internal/transport/http/response"
	"gp-immo/internal/testutil"
)

type client struct {
	t     *testing.T
	h     http.Handler
	token string
}

type envelope struct {
	Code int             `json:"code"`
	Msg  string          `json:"msg"`
	Data json.RawMessage `json:"data"`
}

func (c client) do(req *http.Request, out any) envelope {
	c.t.Helper()
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	w := httptest.NewRecorder()
	c.h.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		c.t.Fatalf("%s %s: http %d %s", req.Method, req.URL, w.Code, w.Body.String())
	}
	var env envelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		c.t.Fatalf("%s %s: decode %v: %s", req.Method, req.URL, err, w.Body.String())
	}
	if out != nil && env.Code == resp.CodeOK {
		if err := json.Unmarshal(env.Data, out); err != nil {
			c.t.Fatalf("%s %s: decode data: %v", req.Method, req.URL, err)
		}
	}
	return env
}

func (c client) json(method, path string, body any, out any) envelope {
	c.t.Helper()
	var r io.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

type part struct {
	field, name, contentType, body string
}

func (c client) multipart(path string, fields map[string]string, files []part, out any) envelope {
	c.t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		_ = mw.WriteField(k, v)
	}
	for _, f := range files {
		h := textproto.MIMEHeader{}
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, f.field, f.name))
		h.Set("Content-Type", f.contentType)
		w, _ := mw.CreatePart(h)
		_, _ = io.WriteString(w, f.body)
	}
	_ = mw.Close()
	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return c.do(req, out)
}

func (c client) as(token string) client { c.token = token; return c }

type session struct {
	Token string `json:"token"`
	User  struct {
		ID string `json:"id"`
	} `json:"user"`
}

func newTestApp(t *testing.T) *App {
	t.Helper()
	gin.SetMode(gin.TestMode)
	a := New(Options{
		DB:    testutil.NewDB(t),
		Store: testutil.LocalStore(t),
		JWT:   &auth.JWTer{Secret: []byte("test"), Issuer: "gp-immo", TTL: time.Hour},
	})
	_, err := a.Bootstrap(context.Background(), bootstrap.Seed{
		AdminUsername:   "admin0000",
		AdminPassword:   "admin0000",
		Specializations: []string{"Plomberie", "Menuiserie"},
	})
	if err != nil {
		t.Fatal(err)
	}
	return a
}

func TestOwnerProviderFlow(t *testing.T) {
	a := newTestApp(t)
	api := client{t: t, h: a.APIEngine()}

	var owner, prov session
	if env := api.json(http.MethodPost, "/api/v1/auth/signup/owner",
		map[string]string{"username": "marie", "password": "long-enough", "email": "marie@x.test"}, &owner); env.Code != 0 {
		t.Fatalf("owner signup = %+v", env)
	}
	if env := api.json(http.MethodPost, "/api/v1/auth/signup/provider",
		map[string]string{"username": "paul", "password": "long-enough", "specialization": "Plomberie"}, &prov); env.Code != 0 {
		t.Fatalf("provider signup = %+v", env)
	}
	if env := api.json(http.MethodPost, "/api/v1/auth/login",
		map[string]string{"username": "marie", "password": "nope-nope"}, nil); env.Code != resp.CodeUnauthorized {
		t.Fatalf("bad login = %+v", env)
	}
	if env := api.json(http.MethodGet, "/api/v1/properties", nil, nil); env.Code != resp.CodeUnauthorized {
		t.Fatalf("anonymous properties = %+v", env)
	}

	o := api.as(owner.Token)
	p := api.as(prov.Token)

	var prop struct {
		ID string `json:"id"`
	}
	if env := o.json(http.MethodPost, "/api/v1/properties",
		map[string]any{"title": "Maison bleue", "propertyType": "MAISON"}, &prop); env.Code != 0 {
		t.Fatalf("create property = %+v", env)
	}
	if env := p.json(http.MethodPost, "/api/v1/properties",
		map[string]any{"title": "X", "propertyType": "MAISON"}, nil); env.Code != resp.CodeForbidden {
		t.Fatalf("provider create property = %+v", env)
	}
	if env := p.json(http.MethodGet, "/api/v1/properties/"+prop.ID, nil, nil); env.Code != resp.CodeNotFound {
		t.Fatalf("provider get property = %+v", env)
	}

	// 媒体上传
	files := []part{
		{"files", "a.jpg", "image/jpeg", "jpeg"},
		{"files", "a.jpg", "image/jpeg", "jpeg"},
	}
	var uploaded []struct {
		Path string `json:"path"`
	}
	if env := o.multipart("/api/v1/properties/"+prop.ID+"/media", nil, files, &uploaded); env.Code != 0 || len(uploaded) != 2 {
		t.Fatalf("upload = %+v", env)
	}
	if uploaded[0].Path == uploaded[1].Path {
		t.Fatalf("colliding keys: %s", uploaded[0].Path)
	}
	if env := o.multipart("/api/v1/properties/"+prop.ID+"/media", nil,
		[]part{{"files", "doc.pdf", "application/pdf", "%PDF"}}, nil); env.Code != resp.CodeBadRequest || env.Msg != "unsupported type" {
		t.Fatalf("pdf upload = %+v", env)
	}

	// 报告：未指派前禁止
	report := map[string]string{"propertyId": prop.ID, "summary": "Fuite réparée"}
	if env := p.multipart("/api/v1/reports", report, nil, nil); env.Code != resp.CodeForbidden {
		t.Fatalf("unassigned report = %+v", env)
	}
	if env := o.json(http.MethodPost, "/api/v1/properties/"+prop.ID+"/assignments",
		map[string]string{"providerId": prov.User.ID}, nil); env.Code != 0 {
		t.Fatalf("assign = %+v", env)
	}
	if env := p.multipart("/api/v1/reports", report,
		[]part{{"attachment", "facture.pdf", "application/pdf", "%PDF"}}, nil); env.Code != 0 {
		t.Fatalf("report = %+v", env)
	}

	if env := p.json(http.MethodPost, "/api/v1/conversations/"+owner.User.ID,
		map[string]string{"content": "Travaux terminés"}, nil); env.Code != 0 {
		t.Fatalf("send message = %+v", env)
	}

	var dash struct {
		Properties   []json.RawMessage `json:"properties"`
		Assignments  []json.RawMessage `json:"assignments"`
		LastMessages []json.RawMessage `json:"lastMessages"`
	}
	if env := o.json(http.MethodGet, "/api/v1/dashboard", nil, &dash); env.Code != 0 {
		t.Fatalf("dashboard = %+v", env)
	}
	if len(dash.Properties) != 1 || len(dash.Assignments) != 1 || len(dash.LastMessages) != 1 {
		t.Fatalf("dashboard = %+v", dash)
	}

	var inbox struct {
		Contacts []struct {
			ID        string `json:"id"`
			Suggested bool   `json:"suggested"`
		} `json:"contacts"`
	}
	if env := o.json(http.MethodGet, "/api/v1/inbox", nil, &inbox); env.Code != 0 {
		t.Fatalf("inbox = %+v", env)
	}
	if len(inbox.Contacts) != 1 || inbox.Contacts[0].ID != prov.User.ID || !inbox.Contacts[0].Suggested {
		t.Fatalf("inbox contacts = %+v", inbox.Contacts)
	}

	if env := o.json(http.MethodDelete, "/api/v1/properties/"+prop.ID, nil, nil); env.Code != 0 {
		t.Fatalf("delete property = %+v", env)
	}
}

func TestAdminBan(t *testing.T) {
	a := newTestApp(t)
	api := client{t: t, h: a.APIEngine()}
	admin := client{t: t, h: a.AdminEngine()}

	var staff, owner session
	if env := api.json(http.MethodPost, "/api/v1/auth/login",
		map[string]string{"username": "admin0000", "password": "admin0000"}, &staff); env.Code != 0 {
		t.Fatalf("admin login = %+v", env)
	}
	if env := api.json(http.MethodPost, "/api/v1/auth/signup/owner",
		map[string]string{"username": "marie", "password": "long-enough"}, &owner); env.Code != 0 {
		t.Fatalf("signup = %+v", env)
	}

	if env := admin.as(owner.Token).json(http.MethodGet, "/admin/v1/users", nil, nil); env.Code != resp.CodeForbidden {
		t.Fatalf("owner on admin = %+v", env)
	}
	st := admin.as(staff.Token)
	var list struct {
		Total int64 `json:"total"`
	}
	if env := st.json(http.MethodGet, "/admin/v1/users", nil, &list); env.Code != 0 || list.Total != 2 {
		t.Fatalf("list users = %+v total %d", env, list.Total)
	}
	if env := st.json(http.MethodPost, "/admin/v1/users/"+owner.User.ID+"/ban", nil, nil); env.Code != 0 {
		t.Fatalf("ban = %+v", env)
	}
	// 已签发的 token 随账号封禁失效
	if env := api.as(owner.Token).json(http.MethodGet, "/api/v1/me", nil, nil); env.Code != resp.CodeUnauthorized {
		t.Fatalf("banned token = %+v", env)
	}
	if env := api.json(http.MethodPost, "/api/v1/auth/login",
		map[string]string{"username": "marie", "password": "long-enough"}, nil); env.Code != resp.CodeUnauthorized {
		t.Fatalf("banned login = %+v", env)
	}

	var created struct {
		Created bool `json:"created"`
	}
	if env := st.json(http.MethodPost, "/admin/v1/specializations", map[string]string{"name": "Peinture"}, &created); env.Code != 0 || !created.Created {
		t.Fatalf("add specialization = %+v", env)
	}
	var choices struct {
		Items []json.RawMessage `json:"items"`
	}
	if env := api.json(http.MethodGet, "/api/v1/specializations", nil, &choices); env.Code != 0 || len(choices.Items) != 3 {
		t.Fatalf("choices = %+v", choices)
	}
}
