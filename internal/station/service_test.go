package station

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"

	"github.com/friendsincode/onradio/internal/events"
	"github.com/friendsincode/onradio/internal/layout"
	"github.com/friendsincode/onradio/internal/models"
	"github.com/friendsincode/onradio/internal/storage"
)

func newTestService(t *testing.T) (*Service, *storage.FilesystemStore, *events.Bus) {
	t.Helper()
	store, err := storage.NewFilesystemStore(t.TempDir(), zerolog.Nop())
	if err != nil {
		t.Fatalf("NewFilesystemStore: %v", err)
	}
	bus := events.NewBus()
	return NewService(store, nil, bus, zerolog.Nop()), store, bus
}

func TestGetUnknownTenant(t *testing.T) {
	svc, _, _ := newTestService(t)
	if _, err := svc.Get(context.Background(), "ghost"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCreateSanitizesAndConflicts(t *testing.T) {
	ctx := context.Background()
	svc, _, bus := newTestService(t)
	created := bus.Subscribe(events.EventTenantCreated)

	if err := svc.SeedDefault(ctx); err != nil {
		t.Fatalf("SeedDefault: %v", err)
	}
	if err := svc.SeedDefault(ctx); err != nil {
		t.Fatalf("SeedDefault twice: %v", err)
	}

	id, err := svc.Create(ctx, "My Radio!")
	if err != nil || id != "MyRadio" {
		t.Fatalf("Create = %q, %v", id, err)
	}
	select {
	case p := <-created:
		if p.Tenant() != "MyRadio" {
			t.Fatalf("event tenant=%q", p.Tenant())
		}
	default:
		t.Fatal("tenant.created not published")
	}

	cfg, err := svc.Get(ctx, "MyRadio")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if cfg.StationName != "My Radio!" {
		t.Fatalf("stationName=%q", cfg.StationName)
	}
	def, _ := svc.Get(ctx, "default")
	if cfg.Slogan != def.Slogan || cfg.Theme.PrimaryColor != def.Theme.PrimaryColor {
		t.Fatal("new radio was not copied from default")
	}

	if _, err := svc.Create(ctx, "MyRadio"); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
	if _, err := svc.Create(ctx, "   "); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestCreateWithoutDefaultUsesBuiltin(t *testing.T) {
	svc, _, _ := newTestService(t)
	id, err := svc.Create(context.Background(), "nueva")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	cfg, _ := svc.Get(context.Background(), id)
	if cfg.Theme.LogoURL != models.DefaultStation().Theme.LogoURL {
		t.Fatalf("logo=%q", cfg.Theme.LogoURL)
	}
}

func TestList(t *testing.T) {
	ctx := context.Background()
	svc, store, _ := newTestService(t)
	_ = svc.SeedDefault(ctx)
	_, _ = svc.Create(ctx, "zeta")
	_, _ = svc.Create(ctx, "alfa")
	_ = store.Put(ctx, "notes.txt", []byte("x"))

	ids, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	want := []string{"alfa", "default", "zeta"}
	if !reflect.DeepEqual(ids, want) {
		t.Fatalf("List = %v, want %v", ids, want)
	}
}

func TestSaveReplacesAndNormalizes(t *testing.T) {
	ctx := context.Background()
	svc, _, bus := newTestService(t)
	saved := bus.Subscribe(events.EventConfigSaved)

	in := models.StationConfig{StationName: "Radio Uno", StreamURL: "https://stream.example/live"}
	out, err := svc.Save(ctx, "radio uno", in)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if out.Social == nil || out.BannerRotationSeconds != models.DefaultBannerRotationSeconds {
		t.Fatalf("save result not normalized: %+v", out)
	}
	if p := <-saved; p.Tenant() != "radiouno" {
		t.Fatalf("event tenant=%q", p.Tenant())
	}

	got, err := svc.Get(ctx, "radiouno")
	if err != nil || got.StationName != "Radio Uno" {
		t.Fatalf("Get = %+v, %v", got, err)
	}

	raw, _ := svc.Raw(ctx, "radiouno")
	if strings.Contains(string(raw), "backgroundEffect") {
		t.Fatalf("normalized defaults were persisted: %s", raw)
	}
}

func TestSavePreservesUnknownFields(t *testing.T) {
	ctx := context.Background()
	svc, store, _ := newTestService(t)
	_ = store.Put(ctx, "radiouno.json", []byte(`{"stationName":"Uno","slogan":"","streamUrl":"","theme":{},"futureField":{"a":1}}`))

	cfg, err := svc.Get(ctx, "radiouno")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	cfg.Slogan = "nuevo"
	if _, err := svc.Save(ctx, "radiouno", cfg); err != nil {
		t.Fatalf("Save: %v", err)
	}
	raw, _ := svc.Raw(ctx, "radiouno")
	if !strings.Contains(string(raw), `"futureField"`) || !strings.Contains(string(raw), `"nuevo"`) {
		t.Fatalf("raw=%s", raw)
	}
}

func TestCorruptConfig(t *testing.T) {
	ctx := context.Background()
	svc, store, _ := newTestService(t)
	path := filepath.Join(store.Root(), "broken.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := svc.Get(ctx, "broken"); !errors.Is(err, ErrCorrupt) {
		t.Fatalf("expected ErrCorrupt, got %v", err)
	}
	data, _ := os.ReadFile(path)
	if string(data) != "{not json" {
		t.Fatalf("corrupt file modified: %q", data)
	}
}

func TestValidate(t *testing.T) {
	svc, _, _ := newTestService(t)

	dup := layout.Default()
	dup.Modules[1].ID = dup.Modules[0].ID

	tests := []struct {
		name string
		cfg  models.StationConfig
		ok   bool
	}{
		{name: "empty is fine", cfg: models.StationConfig{}, ok: true},
		{name: "default", cfg: models.DefaultStation(), ok: true},
		{name: "bad template", cfg: models.StationConfig{Template: "neon"}},
		{name: "negative rotation", cfg: models.StationConfig{BannerRotationSeconds: -1}},
		{name: "blur too high", cfg: models.StationConfig{Theme: models.Theme{BackgroundEffect: &models.BackgroundEffect{Blur: 40, Opacity: 1}}}},
		{name: "bad banner type", cfg: models.StationConfig{Banners: []models.Banner{{Type: "popup"}}}},
		{name: "duplicate module ids", cfg: models.StationConfig{Layout: &dup}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := svc.Validate(tc.cfg)
			if tc.ok && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !tc.ok && !errors.Is(err, ErrValidation) {
				t.Fatalf("expected ErrValidation, got %v", err)
			}
		})
	}
}

func TestUpdateLayout(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t)
	_, _ = svc.Save(ctx, "radiouno", models.DefaultStation())

	toggle := func(id string) func(models.PlayerLayout) (models.PlayerLayout, error) {
		return func(l models.PlayerLayout) (models.PlayerLayout, error) {
			mods, err := layout.Toggle(l.Modules, id)
			l.Modules = mods
			return l, err
		}
	}

	if _, err := svc.UpdateLayout(ctx, "radiouno", toggle("2")); !errors.Is(err, layout.ErrRequiredModule) {
		t.Fatalf("expected ErrRequiredModule, got %v", err)
	}

	l, err := svc.UpdateLayout(ctx, "radiouno", toggle("3"))
	if err != nil {
		t.Fatalf("UpdateLayout: %v", err)
	}
	cfg, _ := svc.Get(ctx, "radiouno")
	if cfg.Layout == nil || !reflect.DeepEqual(*cfg.Layout, l) {
		t.Fatal("layout not persisted")
	}
	for _, m := range layout.Resolve(cfg) {
		if m.ID == "3" {
			t.Fatal("disabled module still resolved")
		}
	}
}

func TestConcurrentGets(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t)
	_, _ = svc.Save(ctx, "radiouno", models.DefaultStation())

	var wg sync.WaitGroup
	errs := make(chan error, 16)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			cfg, err := svc.Get(ctx, "radiouno")
			if err == nil {
				cfg.Social = append(cfg.Social, models.SocialLink{Platform: "website"})
			}
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
	}
	cfg, _ := svc.Get(ctx, "radiouno")
	if len(cfg.Social) != 0 {
		t.Fatal("callers share the cached config")
	}
}

type memCache struct {
	mu      sync.Mutex
	configs map[string]models.StationConfig
}

func newMemCache() *memCache {
	return &memCache{configs: make(map[string]models.StationConfig)}
}

func (c *memCache) GetStationConfig(_ context.Context, id string) (models.StationConfig, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	cfg, ok := c.configs[id]
	return cfg, ok
}

func (c *memCache) SetStationConfig(_ context.Context, id string, cfg models.StationConfig) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.configs[id] = cfg
	return nil
}

func (c *memCache) GetStationList(context.Context) ([]string, bool) { return nil, false }

func (c *memCache) SetStationList(context.Context, []string) error { return nil }

func (c *memCache) InvalidateStation(_ context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.configs, id)
	return nil
}

// gatedStore pauses the next Get after it has read the object, until
// release is closed.
type gatedStore struct {
	storage.ObjectStore
	armed   atomic.Bool
	read    chan struct{}
	release chan struct{}
}

func (g *gatedStore) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := g.ObjectStore.Get(ctx, key)
	if g.armed.CompareAndSwap(true, false) {
		close(g.read)
		<-g.release
	}
	return data, err
}

func TestSaveDuringLoadDoesNotCacheStaleConfig(t *testing.T) {
	ctx := context.Background()
	fs, err := storage.NewFilesystemStore(t.TempDir(), zerolog.Nop())
	if err != nil {
		t.Fatalf("NewFilesystemStore: %v", err)
	}
	store := &gatedStore{ObjectStore: fs, read: make(chan struct{}), release: make(chan struct{})}
	mc := newMemCache()
	svc := NewService(store, mc, nil, zerolog.Nop())

	old := models.DefaultStation()
	old.StationName = "Old Name"
	if _, err := svc.Save(ctx, "radiouno", old); err != nil {
		t.Fatalf("Save: %v", err)
	}

	store.armed.Store(true)
	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = svc.Get(ctx, "radiouno")
	}()
	<-store.read

	updated := models.DefaultStation()
	updated.StationName = "New Name"
	if _, err := svc.Save(ctx, "radiouno", updated); err != nil {
		t.Fatalf("Save: %v", err)
	}
	close(store.release)
	<-done

	if cached, ok := mc.GetStationConfig(ctx, "radiouno"); ok && cached.StationName != "New Name" {
		t.Fatalf("cache holds %q after save", cached.StationName)
	}
	cfg, err := svc.Get(ctx, "radiouno")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if cfg.StationName != "New Name" {
		t.Fatalf("stationName=%q, want the saved one", cfg.StationName)
	}
}
