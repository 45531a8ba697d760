package cache

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func openTemp(t *testing.T) *Cache {
	t.Helper()
	c, err := Open(filepath.Join(t.TempDir(), "nested", "cache.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { c.Close() })
	return c
}

func TestKey(t *testing.T) {
	if Key("ab", "c") == Key("a", "bc") {
		t.Errorf("keys of differently split parts must differ")
	}
	if Key("x", "y") != Key("x", "y") {
		t.Errorf("Key must be deterministic")
	}
	if len(Key("x")) != 64 {
		t.Errorf("Key should be a hex sha256, got %q", Key("x"))
	}
}

func TestCache_PutGet(t *testing.T) {
	ctx := context.Background()
	c := openTemp(t)

	if _, ok, err := c.Get(ctx, "missing"); err != nil || ok {
		t.Fatalf("Get(missing) = %v, %v", ok, err)
	}

	if err := c.Put(ctx, "k", "main.ot", "var x;"); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	out, ok, err := c.Get(ctx, "k")
	if err != nil || !ok || out != "var x;" {
		t.Fatalf("Get(k) = %q, %v, %v", out, ok, err)
	}

	if err := c.Put(ctx, "k", "main.ot", "var y;"); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	out, _, _ = c.Get(ctx, "k")
	if out != "var y;" {
		t.Errorf("Put should replace, got %q", out)
	}

	n, err := c.Len(ctx)
	if err != nil || n != 1 {
		t.Errorf("Len = %d, %v; want 1", n, err)
	}
}

func TestCache_Prune(t *testing.T) {
	ctx := context.Background()
	c := openTemp(t)

	if err := c.Put(ctx, "a", "a.ot", "a"); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if err := c.Put(ctx, "b", "b.ot", "b"); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	removed, err := c.Prune(ctx, time.Hour)
	if err != nil || removed != 0 {
		t.Fatalf("Prune(1h) = %d, %v; want 0", removed, err)
	}

	time.Sleep(5 * time.Millisecond)
	removed, err = c.Prune(ctx, time.Millisecond)
	if err != nil || removed != 2 {
		t.Fatalf("Prune(1ms) = %d, %v; want 2", removed, err)
	}
	if n, _ := c.Len(ctx); n != 0 {
		t.Errorf("Len after prune = %d, want 0", n)
	}
}

func TestCache_Reopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "cache.db")

	c, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if err := c.Put(ctx, "k", "x.ot", "out"); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	c.Close()

	c, err = Open(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer c.Close()
	if out, ok, _ := c.Get(ctx, "k"); !ok || out != "out" {
		t.Errorf("entry should survive reopen, got %q, %v", out, ok)
	}
}
