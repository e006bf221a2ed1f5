package tokenstore

import (
	"context"
	"testing"
)

func TestMemStoreIsolation(t *testing.T) {
	ctx := context.Background()
	store := NewMemStore()

	creds := &Credentials{AccessToken: "a", RefreshToken: "r", ExpiresAt: 42}
	if err := store.Save(ctx, creds); err != nil {
		t.Fatal(err)
	}

	// Mutating the caller's copy must not leak into the store.
	creds.AccessToken = "tampered"

	got, err := store.Load(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if got.AccessToken != "a" {
		t.Errorf("Load().AccessToken = %q, want %q", got.AccessToken, "a")
	}

	if err := store.Clear(ctx); err != nil {
		t.Fatal(err)
	}
	got, err = store.Load(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if got != nil {
		t.Errorf("Load() after Clear() = %+v, want nil", got)
	}
}
