package state

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/xcursocr/shopkit/internal/domain/cart"
	"github.com/xcursocr/shopkit/internal/domain/catalog"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

// ---------------------------------------------------------------------------
// DefaultState tests
// ---------------------------------------------------------------------------

func TestDefaultState_LoggedOutEmptyCart(t *testing.T) {
	s := NewFileStateStore(filepath.Join(t.TempDir(), "state.json"), testLogger())
	state := s.DefaultState()

	if state.Version != "1" {
		t.Errorf("expected Version '1', got %q", state.Version)
	}
	if state.AccessToken != "" || state.RefreshToken != "" {
		t.Error("expected empty tokens in default state")
	}
	if state.User != nil {
		t.Errorf("expected nil user, got %v", state.User)
	}
	if len(state.Cart) != 0 {
		t.Errorf("expected empty cart, got %d items", len(state.Cart))
	}
	if state.CreatedAt.IsZero() {
		t.Error("expected CreatedAt to be set")
	}
}

// ---------------------------------------------------------------------------
// Load tests
// ---------------------------------------------------------------------------

func TestLoad_NoFile_ReturnsDefaultState(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	s := NewFileStateStore(path, testLogger())

	state, err := s.Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}
	if state.Version != "1" {
		t.Errorf("expected Version '1', got %q", state.Version)
	}
	if state.AccessToken != "" {
		t.Errorf("expected logged-out default, got access token %q", state.AccessToken)
	}
}

func TestLoad_ValidFile_ReturnsParsedState(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")

	now := time.Now().UTC().Truncate(time.Second)
	original := &AppState{
		Version:      "1",
		AccessToken:  "acc-1",
		RefreshToken: "ref-1",
		User:         &catalog.User{ID: 7, Email: "a@b.c", Role: catalog.RoleAdmin},
		Cart: []cart.Item{
			{Product: catalog.Product{ID: 3, Name: "shoe", Price: 10}, Quantity: 2},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}

	data, err := json.MarshalIndent(original, "", "  ")
	if err != nil {
		t.Fatalf("failed to marshal test state: %v", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		t.Fatalf("failed to write test state: %v", err)
	}

	s := NewFileStateStore(path, testLogger())
	state, err := s.Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}

	if state.AccessToken != "acc-1" || state.RefreshToken != "ref-1" {
		t.Errorf("unexpected tokens %q / %q", state.AccessToken, state.RefreshToken)
	}
	if state.User == nil || state.User.ID != 7 || state.User.Role != catalog.RoleAdmin {
		t.Errorf("unexpected user %+v", state.User)
	}
	if len(state.Cart) != 1 || state.Cart[0].ID != 3 || state.Cart[0].Quantity != 2 {
		t.Errorf("unexpected cart %+v", state.Cart)
	}
}

func TestLoad_CorruptFile_ReturnsError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	if err := os.WriteFile(path, []byte("{invalid json"), 0600); err != nil {
		t.Fatalf("failed to write corrupt file: %v", err)
	}

	s := NewFileStateStore(path, testLogger())
	if _, err := s.Load(); err == nil {
		t.Fatal("expected error for corrupt JSON, got nil")
	}
}

func TestLoad_StableJSONKeys(t *testing.T) {
	// Existing sessions would be orphaned if these key names drift.
	raw := `{
  "version": "1",
  "access_token": "acc-1",
  "refresh_token": "ref-1",
  "user": {"id": 1, "email": "a@b.c", "role": "user"},
  "cart": [{"id": 3, "name": "shoe", "price": 10, "quantity": 2}]
}`
	path := filepath.Join(t.TempDir(), "state.json")
	if err := os.WriteFile(path, []byte(raw), 0600); err != nil {
		t.Fatalf("failed to write test state: %v", err)
	}

	s := NewFileStateStore(path, testLogger())
	state, err := s.Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}
	if state.AccessToken != "acc-1" || state.RefreshToken != "ref-1" {
		t.Errorf("snake_case token keys must decode, got %q / %q", state.AccessToken, state.RefreshToken)
	}
	if len(state.Cart) != 1 || state.Cart[0].Quantity != 2 {
		t.Errorf("cart key must decode, got %+v", state.Cart)
	}
}

// ---------------------------------------------------------------------------
// Save tests
// ---------------------------------------------------------------------------

func TestSave_CreatesFileWithCorrectContent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	s := NewFileStateStore(path, testLogger())

	state := s.DefaultState()
	state.AccessToken = "acc-1"

	if err := s.Save(state); err != nil {
		t.Fatalf("Save() returned unexpected error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read saved file: %v", err)
	}
	var loaded AppState
	if err := json.Unmarshal(data, &loaded); err != nil {
		t.Fatalf("failed to unmarshal saved file: %v", err)
	}
	if loaded.AccessToken != "acc-1" {
		t.Errorf("expected access token 'acc-1', got %q", loaded.AccessToken)
	}
	if loaded.UpdatedAt.IsZero() {
		t.Error("expected UpdatedAt to be set after Save")
	}
}

func TestSave_SetsFilePermissions0600(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	s := NewFileStateStore(path, testLogger())

	if err := s.Save(s.DefaultState()); err != nil {
		t.Fatalf("Save() returned unexpected error: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("failed to stat file: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("expected permissions 0600, got %04o", perm)
	}
}

func TestSave_CreatesBackup(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	s := NewFileStateStore(path, testLogger())

	state1 := s.DefaultState()
	state1.AccessToken = "original"
	if err := s.Save(state1); err != nil {
		t.Fatalf("first Save() failed: %v", err)
	}

	state2 := s.DefaultState()
	state2.AccessToken = "updated"
	if err := s.Save(state2); err != nil {
		t.Fatalf("second Save() failed: %v", err)
	}

	data, err := os.ReadFile(path + ".bak")
	if err != nil {
		t.Fatalf("failed to read backup file: %v", err)
	}
	var backup AppState
	if err := json.Unmarshal(data, &backup); err != nil {
		t.Fatalf("failed to unmarshal backup: %v", err)
	}
	if backup.AccessToken != "original" {
		t.Errorf("expected backup to contain 'original', got %q", backup.AccessToken)
	}

	currentData, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read current file: %v", err)
	}
	var current AppState
	if err := json.Unmarshal(currentData, &current); err != nil {
		t.Fatalf("failed to unmarshal current: %v", err)
	}
	if current.AccessToken != "updated" {
		t.Errorf("expected current to contain 'updated', got %q", current.AccessToken)
	}
}

func TestSave_AtomicWrite_NoTmpFileLeftBehind(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "state.json")
	s := NewFileStateStore(path, testLogger())

	if err := s.Save(s.DefaultState()); err != nil {
		t.Fatalf("Save() returned unexpected error: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("failed to read dir: %v", err)
	}
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".tmp") {
			t.Errorf("temp file left behind: %s", e.Name())
		}
	}
}

func TestSave_CreatesMissingDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "state.json")
	s := NewFileStateStore(path, testLogger())

	if err := s.Save(s.DefaultState()); err != nil {
		t.Fatalf("Save() returned unexpected error: %v", err)
	}
	if !s.Exists() {
		t.Error("expected state file to exist after Save")
	}
}

// ---------------------------------------------------------------------------
// Per-field save tests
// ---------------------------------------------------------------------------

func TestSaveSession_LeavesCartUntouched(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	s := NewFileStateStore(path, testLogger())
	if _, err := s.Load(); err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	items := []cart.Item{{Product: catalog.Product{ID: 3, Name: "shoe", Price: 10}, Quantity: 1}}
	if err := s.SaveCart(items); err != nil {
		t.Fatalf("SaveCart() failed: %v", err)
	}
	user := &catalog.User{ID: 1, Email: "a@b.c"}
	if err := s.SaveSession("acc", "ref", user); err != nil {
		t.Fatalf("SaveSession() failed: %v", err)
	}

	fresh := NewFileStateStore(path, testLogger())
	state, err := fresh.Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if state.AccessToken != "acc" || state.User == nil {
		t.Errorf("session fields not persisted: %+v", state)
	}
	if len(state.Cart) != 1 || state.Cart[0].ID != 3 {
		t.Errorf("cart must survive a session save, got %+v", state.Cart)
	}
}

func TestSaveSession_EmptyClearsStoredSession(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	s := NewFileStateStore(path, testLogger())
	if _, err := s.Load(); err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if err := s.SaveSession("acc", "ref", &catalog.User{ID: 1}); err != nil {
		t.Fatalf("SaveSession() failed: %v", err)
	}
	if err := s.SaveSession("", "", nil); err != nil {
		t.Fatalf("SaveSession() failed: %v", err)
	}

	fresh := NewFileStateStore(path, testLogger())
	state, err := fresh.Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if state.AccessToken != "" || state.RefreshToken != "" || state.User != nil {
		t.Errorf("expected logged-out state on disk, got %+v", state)
	}
}

func TestSaveCart_LeavesSessionUntouched(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	s := NewFileStateStore(path, testLogger())
	if _, err := s.Load(); err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if err := s.SaveSession("acc", "ref", &catalog.User{ID: 1}); err != nil {
		t.Fatalf("SaveSession() failed: %v", err)
	}
	if err := s.SaveCart([]cart.Item{{Product: catalog.Product{ID: 5}, Quantity: 3}}); err != nil {
		t.Fatalf("SaveCart() failed: %v", err)
	}

	fresh := NewFileStateStore(path, testLogger())
	state, err := fresh.Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if state.AccessToken != "acc" || state.RefreshToken != "ref" {
		t.Errorf("session must survive a cart save, got %+v", state)
	}
	if len(state.Cart) != 1 || state.Cart[0].Quantity != 3 {
		t.Errorf("unexpected cart %+v", state.Cart)
	}
}

// ---------------------------------------------------------------------------
// Concurrency
// ---------------------------------------------------------------------------

func TestSave_ConcurrentWritersLeaveValidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	s := NewFileStateStore(path, testLogger())
	if _, err := s.Load(); err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_ = s.SaveCart([]cart.Item{{Product: catalog.Product{ID: int64(n)}, Quantity: 1}})
		}(i)
	}
	wg.Wait()

	fresh := NewFileStateStore(path, testLogger())
	if _, err := fresh.Load(); err != nil {
		t.Fatalf("file must parse after concurrent writes: %v", err)
	}
}
