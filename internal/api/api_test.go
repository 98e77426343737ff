package api

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/friendsincode/onradio/internal/auth"
	"github.com/friendsincode/onradio/internal/events"
	"github.com/friendsincode/onradio/internal/logbuffer"
	"github.com/friendsincode/onradio/internal/media"
	"github.com/friendsincode/onradio/internal/models"
	"github.com/friendsincode/onradio/internal/render"
	"github.com/friendsincode/onradio/internal/station"
	"github.com/friendsincode/onradio/internal/storage"
)

type harness struct {
	api    *API
	router http.Handler
	authn  *auth.Authenticator
	bus    *events.Bus
	token  string
}

func newHarness(t *testing.T, maxUpload int64, loginsPerMinute int) *harness {
	t.Helper()

	store, err := storage.NewFilesystemStore(t.TempDir(), zerolog.Nop())
	if err != nil {
		t.Fatalf("NewFilesystemStore: %v", err)
	}
	bus := events.NewBus()
	stations := station.NewService(store, nil, bus, zerolog.Nop())
	if err := stations.SeedDefault(context.Background()); err != nil {
		t.Fatalf("SeedDefault: %v", err)
	}

	uploads, err := media.NewFilesystemStorage(t.TempDir(), "/uploads/", zerolog.Nop())
	if err != nil {
		t.Fatalf("NewFilesystemStorage: %v", err)
	}
	mediaSvc := media.NewServiceWithStorage(uploads, maxUpload, zerolog.Nop())

	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	authn := auth.NewAuthenticator(auth.Options{
		Username:      "admin",
		PasswordHash:  string(hash),
		SigningKey:    []byte("test-secret"),
		SessionTTL:    time.Hour,
		RatePerMinute: loginsPerMinute,
	}, zerolog.Nop())

	token, err := auth.Issue([]byte("test-secret"), "admin", time.Hour)
	if err != nil {
		t.Fatal(err)
	}

	r := chi.NewRouter()
	r.Use(auth.Middleware(authn))
	a := New(stations, mediaSvc, authn, render.MustNew(), bus, maxUpload, zerolog.Nop())
	a.Routes(r)

	return &harness{api: a, router: r, authn: authn, bus: bus, token: token}
}

func (h *harness) do(t *testing.T, method, target, body string, authed bool) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if authed {
		req.Header.Set("Authorization", "Bearer "+h.token)
	}
	rec := httptest.NewRecorder()
	h.router.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, dst any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), dst); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
}

func TestConfigGet(t *testing.T) {
	h := newHarness(t, 1<<20, 10)

	rec := h.do(t, http.MethodGet, "/api/config", "", false)
	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", rec.Code, rec.Body.String())
	}
	var cfg models.StationConfig
	decode(t, rec, &cfg)
	if cfg.StationName == "" || cfg.Theme.BackgroundEffect == nil {
		t.Fatalf("default config not normalized: %+v", cfg)
	}

	rec = h.do(t, http.MethodGet, "/api/config?subdomain=ghost", "", false)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status=%d", rec.Code)
	}
	var e map[string]string
	decode(t, rec, &e)
	if e["error"] != "Radio not found" {
		t.Fatalf("error=%q", e["error"])
	}
}

func TestConfigSave(t *testing.T) {
	h := newHarness(t, 1<<20, 10)
	saved := h.bus.Subscribe(events.EventConfigSaved)

	body := `{"stationName":"Radio Uno","slogan":"24h","streamUrl":"https://s.example/live","theme":{"primaryColor":"#111","secondaryColor":"#222","backgroundColor":"#000","textColor":"#fff"}}`

	if rec := h.do(t, http.MethodPost, "/api/config", body, false); rec.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous save status=%d", rec.Code)
	}

	rec := h.do(t, http.MethodPost, "/api/config", body, true)
	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Success bool                 `json:"success"`
		Config  models.StationConfig `json:"config"`
	}
	decode(t, rec, &resp)
	if !resp.Success || resp.Config.StationName != "Radio Uno" {
		t.Fatalf("resp=%+v", resp)
	}
	select {
	case p := <-saved:
		if p.Tenant() != "default" {
			t.Fatalf("tenant=%q", p.Tenant())
		}
	default:
		t.Fatal("config.saved not published")
	}

	rec = h.do(t, http.MethodGet, "/api/config", "", false)
	var cfg models.StationConfig
	decode(t, rec, &cfg)
	if cfg.StationName != "Radio Uno" {
		t.Fatalf("stationName=%q after save", cfg.StationName)
	}

	tests := []struct {
		name string
		body string
	}{
		{name: "malformed json", body: `{"stationName":`},
		{name: "unknown template", body: `{"stationName":"x","template":"neon"}`},
		{name: "negative rotation", body: `{"stationName":"x","bannerRotationSeconds":-1}`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if rec := h.do(t, http.MethodPut, "/api/config", tc.body, true); rec.Code != http.StatusBadRequest {
				t.Fatalf("status=%d body=%s", rec.Code, rec.Body.String())
			}
		})
	}
}

func TestRadios(t *testing.T) {
	h := newHarness(t, 1<<20, 10)

	rec := h.do(t, http.MethodPost, "/api/radios", `{"name":"Radio Dos!"}`, true)
	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", rec.Code, rec.Body.String())
	}
	var created struct {
		Success bool   `json:"success"`
		Name    string `json:"name"`
	}
	decode(t, rec, &created)
	if created.Name != "RadioDos" {
		t.Fatalf("name=%q", created.Name)
	}

	if rec := h.do(t, http.MethodPost, "/api/radios", `{"name":"RadioDos"}`, true); rec.Code != http.StatusConflict {
		t.Fatalf("duplicate status=%d", rec.Code)
	}
	rec = h.do(t, http.MethodPost, "/api/radios", `{"name":"  "}`, true)
	var e map[string]string
	decode(t, rec, &e)
	if rec.Code != http.StatusBadRequest || e["error"] != "Name is required" {
		t.Fatalf("blank name status=%d error=%q", rec.Code, e["error"])
	}

	rec = h.do(t, http.MethodGet, "/api/radios", "", true)
	var list struct {
		Radios []string `json:"radios"`
	}
	decode(t, rec, &list)
	if strings.Join(list.Radios, ",") != "RadioDos,default" {
		t.Fatalf("radios=%v", list.Radios)
	}

	if rec := h.do(t, http.MethodGet, "/api/radios", "", false); rec.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous list status=%d", rec.Code)
	}
}

func multipartBody(t *testing.T, field, filename string, data []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if field != "" {
		fw, err := mw.CreateFormFile(field, filename)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := fw.Write(data); err != nil {
			t.Fatal(err)
		}
	} else if err := mw.WriteField("note", "nothing"); err != nil {
		t.Fatal(err)
	}
	if err := mw.Close(); err != nil {
		t.Fatal(err)
	}
	return &buf, mw.FormDataContentType()
}

func TestUpload(t *testing.T) {
	h := newHarness(t, 128, 10)
	uploaded := h.bus.Subscribe(events.EventAssetUploaded)

	tests := []struct {
		name   string
		field  string
		data   []byte
		status int
	}{
		{name: "stores file", field: "file", data: []byte("png-bytes"), status: http.StatusOK},
		{name: "missing file", field: "", status: http.StatusBadRequest},
		{name: "too large", field: "file", data: bytes.Repeat([]byte("x"), 256), status: http.StatusRequestEntityTooLarge},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			body, ctype := multipartBody(t, tc.field, "my logo.png", tc.data)
			req := httptest.NewRequest(http.MethodPost, "/api/upload?subdomain=default", body)
			req.Header.Set("Content-Type", ctype)
			req.Header.Set("Authorization", "Bearer "+h.token)
			rec := httptest.NewRecorder()
			h.router.ServeHTTP(rec, req)
			if rec.Code != tc.status {
				t.Fatalf("status=%d want %d body=%s", rec.Code, tc.status, rec.Body.String())
			}
			if tc.status != http.StatusOK {
				return
			}
			var resp struct {
				URL string `json:"url"`
			}
			decode(t, rec, &resp)
			if !strings.HasPrefix(resp.URL, "/uploads/") || !strings.HasSuffix(resp.URL, "_my_logo.png") {
				t.Fatalf("url=%q", resp.URL)
			}
			select {
			case p := <-uploaded:
				if p[events.KeyURL] != resp.URL || p.Tenant() != "default" {
					t.Fatalf("payload=%v", p)
				}
			default:
				t.Fatal("asset.uploaded not published")
			}
		})
	}
}

func TestLayoutEdits(t *testing.T) {
	h := newHarness(t, 1<<20, 10)

	rec := h.do(t, http.MethodPost, "/api/layout/toggle", `{"id":"2"}`, true)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("toggle title status=%d", rec.Code)
	}

	rec = h.do(t, http.MethodPost, "/api/layout/toggle", `{"id":"3"}`, true)
	if rec.Code != http.StatusOK {
		t.Fatalf("toggle slogan status=%d body=%s", rec.Code, rec.Body.String())
	}
	var l models.PlayerLayout
	decode(t, rec, &l)
	if l.Modules[2].Enabled {
		t.Fatal("slogan still enabled")
	}

	rec = h.do(t, http.MethodPost, "/api/layout/move", `{"from":0,"to":6}`, true)
	decode(t, rec, &l)
	if rec.Code != http.StatusOK || l.Modules[6].Type != models.ModuleLogo {
		t.Fatalf("move status=%d modules=%+v", rec.Code, l.Modules)
	}

	if rec := h.do(t, http.MethodPost, "/api/layout/move", `{"from":0,"to":99}`, true); rec.Code != http.StatusBadRequest {
		t.Fatalf("out of range status=%d", rec.Code)
	}
	if rec := h.do(t, http.MethodPatch, "/api/layout/modules/404", `{"size":"lg"}`, true); rec.Code != http.StatusNotFound {
		t.Fatalf("unknown module status=%d", rec.Code)
	}

	rec = h.do(t, http.MethodPost, "/api/layout/reset", "", true)
	decode(t, rec, &l)
	if rec.Code != http.StatusOK || len(l.Modules) != 7 || l.Modules[0].Type != models.ModuleLogo {
		t.Fatalf("reset status=%d modules=%+v", rec.Code, l.Modules)
	}

	rec = h.do(t, http.MethodGet, "/api/config", "", false)
	var cfg models.StationConfig
	decode(t, rec, &cfg)
	if cfg.Layout == nil || len(cfg.Layout.Modules) != 7 {
		t.Fatal("layout not persisted")
	}
}

func TestLogin(t *testing.T) {
	h := newHarness(t, 1<<20, 2)

	rec := h.do(t, http.MethodPost, "/api/auth/login", `{"username":"admin","password":"nope"}`, false)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("bad password status=%d", rec.Code)
	}

	rec = h.do(t, http.MethodPost, "/api/auth/login", `{"username":"admin","password":"s3cret"}`, false)
	if rec.Code != http.StatusOK {
		t.Fatalf("login status=%d", rec.Code)
	}
	var session *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == auth.CookieName {
			session = c
		}
	}
	if session == nil || !session.HttpOnly {
		t.Fatalf("session cookie missing or not HttpOnly: %+v", session)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/auth/session", nil)
	req.AddCookie(session)
	rec = httptest.NewRecorder()
	h.router.ServeHTTP(rec, req)
	var state map[string]any
	decode(t, rec, &state)
	if state["authenticated"] != true || state["username"] != "admin" {
		t.Fatalf("session=%v", state)
	}

	rec = h.do(t, http.MethodPost, "/api/auth/login", `{"username":"admin","password":"s3cret"}`, false)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("third attempt status=%d", rec.Code)
	}
}

func TestLogout(t *testing.T) {
	h := newHarness(t, 1<<20, 10)

	tests := []struct {
		name        string
		contentType string
		wantCode    int
		wantLoc     string
	}{
		{"admin form", "application/x-www-form-urlencoded", http.StatusSeeOther, "/login"},
		{"json client", "application/json", http.StatusOK, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", strings.NewReader(""))
			req.Header.Set("Content-Type", tt.contentType)
			req.AddCookie(&http.Cookie{Name: auth.CookieName, Value: h.token})
			rec := httptest.NewRecorder()
			h.router.ServeHTTP(rec, req)

			if rec.Code != tt.wantCode || rec.Header().Get("Location") != tt.wantLoc {
				t.Fatalf("status=%d location=%q", rec.Code, rec.Header().Get("Location"))
			}
			cleared := false
			for _, c := range rec.Result().Cookies() {
				if c.Name == auth.CookieName && c.MaxAge < 0 {
					cleared = true
				}
			}
			if !cleared {
				t.Fatal("session cookie not cleared")
			}
		})
	}
}

func TestProgramDays(t *testing.T) {
	h := newHarness(t, 1<<20, 10)
	rec := h.do(t, http.MethodPost, "/api/programs/days", `{"days":"Viernes","day":"Lunes"}`, false)
	var resp map[string]string
	decode(t, rec, &resp)
	if resp["days"] != "Lunes,Viernes" {
		t.Fatalf("days=%q", resp["days"])
	}
}

func TestPreview(t *testing.T) {
	h := newHarness(t, 1<<20, 10)
	rec := h.do(t, http.MethodPost, "/api/preview", `{"stationName":"Preview FM","template":"card"}`, true)
	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", rec.Code, rec.Body.String())
	}
	if !strings.HasPrefix(rec.Header().Get("Content-Type"), "text/html") || !strings.Contains(rec.Body.String(), "Preview FM") {
		t.Fatal("preview did not render the posted config")
	}
}

func TestLogs(t *testing.T) {
	h := newHarness(t, 1<<20, 10)

	if rec := h.do(t, http.MethodGet, "/api/logs", "", true); rec.Code != http.StatusNotFound {
		t.Fatalf("disabled status=%d", rec.Code)
	}

	buf := logbuffer.New(10)
	buf.Add(logbuffer.Entry{Level: "info", Message: "config saved", Component: "station", Tenant: "radiouno"})
	buf.Add(logbuffer.Entry{Level: "warn", Message: "login rate limited", Component: "auth"})
	h.api.SetLogBuffer(buf)

	rec := h.do(t, http.MethodGet, "/api/logs?tenant=radiouno", "", true)
	var resp struct {
		Entries    []logbuffer.Entry `json:"entries"`
		Components []string          `json:"components"`
	}
	decode(t, rec, &resp)
	if len(resp.Entries) != 1 || resp.Entries[0].Message != "config saved" || len(resp.Components) != 2 {
		t.Fatalf("resp=%+v", resp)
	}

	if rec := h.do(t, http.MethodGet, "/api/logs", "", false); rec.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous status=%d", rec.Code)
	}
}
