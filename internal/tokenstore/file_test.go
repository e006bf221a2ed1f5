package tokenstore

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/rs/zerolog"
)

func testFileStore(t *testing.T) *FileStore {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cache", "credentials.json")
	return NewFileStore(path, zerolog.Nop())
}

func TestFileStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := testFileStore(t)

	want := &Credentials{
		AccessToken:  "access-abc",
		RefreshToken: "refresh-xyz",
		ExpiresAt:    1700000000000,
	}

	if err := store.Save(ctx, want); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Load() mismatch (-want +got):\n%s", diff)
	}
}

func TestFileStoreLoadMissing(t *testing.T) {
	store := testFileStore(t)

	got, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got != nil {
		t.Errorf("Load() = %+v, want nil for missing file", got)
	}
}

func TestFileStoreLoadCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
		t.Fatal(err)
	}
	store := NewFileStore(path, zerolog.Nop())

	got, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v, corrupt state must be treated as absence", err)
	}
	if got != nil {
		t.Errorf("Load() = %+v, want nil for corrupt file", got)
	}
}

func TestFileStoreClearMissing(t *testing.T) {
	store := testFileStore(t)

	if err := store.Clear(context.Background()); err != nil {
		t.Errorf("Clear() on absent store error = %v", err)
	}
	if err := store.Clear(context.Background()); err != nil {
		t.Errorf("second Clear() error = %v", err)
	}
}

func TestFileStoreClearRemovesRecord(t *testing.T) {
	ctx := context.Background()
	store := testFileStore(t)

	if err := store.Save(ctx, &Credentials{AccessToken: "a"}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if err := store.Clear(ctx); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}

	got, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got != nil {
		t.Errorf("Load() after Clear() = %+v, want nil", got)
	}
}

func TestFileStoreSaveReplaces(t *testing.T) {
	ctx := context.Background()
	store := testFileStore(t)

	if err := store.Save(ctx, &Credentials{AccessToken: "old", RefreshToken: "r1", ExpiresAt: 1}); err != nil {
		t.Fatal(err)
	}
	if err := store.Save(ctx, &Credentials{AccessToken: "new", RefreshToken: "r2", ExpiresAt: 2}); err != nil {
		t.Fatal(err)
	}

	got, err := store.Load(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if got.AccessToken != "new" || got.RefreshToken != "r2" || got.ExpiresAt != 2 {
		t.Errorf("Load() = %+v, want fully replaced record", got)
	}
}
