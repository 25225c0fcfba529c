package auth

import (
	"errors"
	"sync"
	"testing"

	"github.com/raterhub/payoutbot/internal/domain"
)

const ownerID int64 = 588014415

func TestRegistry_OwnerIsAlwaysAuthorized(t *testing.T) {
	r := NewRegistry(ownerID)

	if !r.IsOwner(ownerID) {
		t.Error("expected owner to be recognized")
	}
	if !r.IsAuthorized(ownerID) {
		t.Error("expected owner to be authorized")
	}
	if r.IsOwner(42) {
		t.Error("unexpected owner match for non-owner id")
	}
	if r.IsAuthorized(42) {
		t.Error("unexpected authorization for unknown id")
	}
}

func TestRegistry_AddDelegate(t *testing.T) {
	r := NewRegistry(ownerID)

	if !r.AddDelegate(42) {
		t.Error("first add should report a change")
	}
	if r.AddDelegate(42) {
		t.Error("second add should be a no-op")
	}
	if !r.IsAuthorized(42) {
		t.Error("delegate should be authorized after add")
	}
	if r.IsOwner(42) {
		t.Error("delegate must not become owner")
	}

	// The owner is implicitly authorized and never enters the set.
	if r.AddDelegate(ownerID) {
		t.Error("adding the owner should be a no-op")
	}
}

func TestRegistry_RemoveDelegate(t *testing.T) {
	r := NewRegistry(ownerID)
	r.AddDelegate(42)

	removed, err := r.RemoveDelegate(42)
	if err != nil {
		t.Fatalf("remove delegate: %v", err)
	}
	if !removed {
		t.Error("expected removal to report a change")
	}
	if r.IsAuthorized(42) {
		t.Error("removed delegate should no longer be authorized")
	}

	removed, err = r.RemoveDelegate(42)
	if err != nil {
		t.Fatalf("remove absent delegate: %v", err)
	}
	if removed {
		t.Error("removing an absent delegate should report no change")
	}
}

func TestRegistry_OwnerCannotBeRemoved(t *testing.T) {
	r := NewRegistry(ownerID)

	_, err := r.RemoveDelegate(ownerID)
	if !errors.Is(err, domain.ErrOwnerImmutable) {
		t.Fatalf("expected ErrOwnerImmutable, got %v", err)
	}
	if !r.IsAuthorized(ownerID) {
		t.Error("owner must remain authorized after a removal attempt")
	}
}

func TestRegistry_ListAll(t *testing.T) {
	r := NewRegistry(ownerID)
	r.AddDelegate(42)

	entries := r.ListAll()
	want := []Entry{
		{TelegramID: ownerID, Role: RoleOwner},
		{TelegramID: 42, Role: RoleDelegate},
	}
	if len(entries) != len(want) {
		t.Fatalf("expected %d entries, got %d", len(want), len(entries))
	}
	for i := range want {
		if entries[i] != want[i] {
			t.Errorf("entry %d: expected %+v, got %+v", i, want[i], entries[i])
		}
	}
}

func TestRegistry_ListAllOrdersDelegates(t *testing.T) {
	r := NewRegistry(ownerID)
	r.AddDelegate(300)
	r.AddDelegate(100)
	r.AddDelegate(200)

	entries := r.ListAll()
	if entries[0].Role != RoleOwner {
		t.Fatal("owner must be listed first")
	}
	for i := 2; i < len(entries); i++ {
		if entries[i-1].TelegramID > entries[i].TelegramID {
			t.Fatalf("delegates not in ascending order: %+v", entries)
		}
	}
}

func TestRegistry_ConcurrentAccess(t *testing.T) {
	r := NewRegistry(ownerID)

	var wg sync.WaitGroup
	for i := int64(0); i < 50; i++ {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			r.AddDelegate(id)
			r.IsAuthorized(id)
			r.ListAll()
			r.RemoveDelegate(id)
		}(i + 1000)
	}
	wg.Wait()

	if got := len(r.ListAll()); got != 1 {
		t.Errorf("expected only the owner to remain, got %d entries", got)
	}
}
