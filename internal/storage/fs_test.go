package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"github.com/friendsincode/onradio/internal/config"
)

func newTestStore(t *testing.T) *FilesystemStore {
	t.Helper()
	s, err := NewFilesystemStore(t.TempDir(), zerolog.Nop())
	if err != nil {
		t.Fatalf("NewFilesystemStore: %v", err)
	}
	return s
}

func TestFilesystemStorePutGet(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	if _, err := s.Get(ctx, "radios/a.json"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := s.Put(ctx, "radios/a.json", []byte(`{"v":1}`)); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := s.Put(ctx, "radios/a.json", []byte(`{"v":2}`)); err != nil {
		t.Fatalf("Put overwrite: %v", err)
	}
	got, err := s.Get(ctx, "radios/a.json")
	if err != nil || string(got) != `{"v":2}` {
		t.Fatalf("Get = %q, %v", got, err)
	}
	ok, err := s.Exists(ctx, "radios/a.json")
	if err != nil || !ok {
		t.Fatalf("Exists = %v, %v", ok, err)
	}
}

func TestFilesystemStorePutIfAbsent(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	if err := s.PutIfAbsent(ctx, "x.json", []byte("first")); err != nil {
		t.Fatalf("first create: %v", err)
	}
	if err := s.PutIfAbsent(ctx, "x.json", []byte("second")); !errors.Is(err, ErrExists) {
		t.Fatalf("expected ErrExists, got %v", err)
	}
	got, _ := s.Get(ctx, "x.json")
	if string(got) != "first" {
		t.Fatalf("content replaced: %q", got)
	}
}

func TestFilesystemStoreConcurrentCreate(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	var wg sync.WaitGroup
	var mu sync.Mutex
	wins := 0
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := s.PutIfAbsent(ctx, "race.json", []byte("x")); err == nil {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	if wins != 1 {
		t.Fatalf("expected exactly one winner, got %d", wins)
	}
}

func TestFilesystemStoreListSkipsTemp(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	for _, k := range []string{"radios/b.json", "radios/a.json", "uploads/1.png"} {
		if err := s.Put(ctx, k, []byte("x")); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.WriteFile(filepath.Join(s.Root(), "radios", tempPrefix+"junk"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	keys, err := s.List(ctx, "radios/")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	want := []string{"radios/a.json", "radios/b.json"}
	if !reflect.DeepEqual(keys, want) {
		t.Fatalf("List = %v, want %v", keys, want)
	}
}

func TestFilesystemStoreDelete(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	_ = s.Put(ctx, "a.json", []byte("x"))
	if err := s.Delete(ctx, "a.json"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := s.Delete(ctx, "a.json"); err != nil {
		t.Fatalf("Delete missing: %v", err)
	}
	if ok, _ := s.Exists(ctx, "a.json"); ok {
		t.Fatal("object still exists")
	}
}

func TestValidateKey(t *testing.T) {
	bad := []string{"", "/etc/passwd", "../x", "a/../../b", "a//b", "./a", `a\b`}
	for _, k := range bad {
		if err := ValidateKey(k); !errors.Is(err, ErrInvalidKey) {
			t.Errorf("ValidateKey(%q) = %v, want ErrInvalidKey", k, err)
		}
	}
	for _, k := range []string{"a.json", "radios/a.json", "uploads/1_x.png"} {
		if err := ValidateKey(k); err != nil {
			t.Errorf("ValidateKey(%q) = %v", k, err)
		}
	}
}

func TestOpenFilesystem(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "radios")
	store, err := Open(context.Background(), &config.Config{StoreBackend: config.StoreFilesystem, DataDir: dir}, zerolog.Nop())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	checker, ok := store.(AccessChecker)
	if !ok {
		t.Fatal("filesystem store does not report access")
	}
	if err := checker.CheckAccess(context.Background()); err != nil {
		t.Fatalf("CheckAccess: %v", err)
	}

	if _, err := Open(context.Background(), &config.Config{StoreBackend: "tape"}, zerolog.Nop()); err == nil {
		t.Fatal("expected error for unknown backend")
	}
}
