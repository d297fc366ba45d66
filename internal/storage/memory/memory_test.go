package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/filmcounts/filmcounts-gateway/internal/storage"
)

func TestSaveLoadDelete(t *testing.T) {
	b := New()
	ctx := context.Background()

	if err := b.Save(ctx, "sess1/supplier-store", []byte("v1")); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := b.Load(ctx, "sess1/supplier-store")
	if err != nil || string(got) != "v1" {
		t.Fatalf("Load = (%q, %v), want ('v1', nil)", got, err)
	}

	if err := b.Delete(ctx, "sess1/supplier-store"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := b.Load(ctx, "sess1/supplier-store"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Load after Delete error = %v, want ErrNotFound", err)
	}
}

func TestLoad_ReturnsCopy(t *testing.T) {
	b := New()
	ctx := context.Background()

	_ = b.Save(ctx, "k", []byte("abc"))
	got, _ := b.Load(ctx, "k")
	got[0] = 'X'

	again, _ := b.Load(ctx, "k")
	if string(again) != "abc" {
		t.Errorf("stored value mutated through Load result: %q", again)
	}
}

func TestKeys_SortedAndFiltered(t *testing.T) {
	b := New()
	ctx := context.Background()

	_ = b.Save(ctx, "s2/auth-store", nil)
	_ = b.Save(ctx, "s1/budget-store", nil)
	_ = b.Save(ctx, "s1/auth-store", nil)

	keys, err := b.Keys(ctx, "s1/")
	if err != nil {
		t.Fatalf("Keys: %v", err)
	}
	want := []string{"s1/auth-store", "s1/budget-store"}
	if len(keys) != len(want) {
		t.Fatalf("Keys = %v, want %v", keys, want)
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Errorf("Keys[%d] = %q, want %q", i, keys[i], want[i])
		}
	}
}
