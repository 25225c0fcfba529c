package auth

import (
	"sort"
	"sync"

	"github.com/raterhub/payoutbot/internal/domain"
)

type Role string

const (
	RoleOwner    Role = "owner"
	RoleDelegate Role = "delegate"
)

// Entry is one row of the admin listing.
type Entry struct {
	TelegramID int64
	Role       Role
}

// Registry answers permission queries for the payout commands. It holds the
// single fixed owner and a runtime set of delegated admins. The delegate set
// is process memory only: it is empty after every restart and is never
// shared between bot instances.
type Registry struct {
	ownerID int64

	mu        sync.RWMutex
	delegates map[int64]struct{}
}

func NewRegistry(ownerID int64) *Registry {
	return &Registry{
		ownerID:   ownerID,
		delegates: make(map[int64]struct{}),
	}
}

// IsOwner reports whether id is the configured owner.
func (r *Registry) IsOwner(id int64) bool {
	return id == r.ownerID
}

// IsAuthorized reports whether id may run payout commands: the owner always
// may, delegates may while present in the set.
func (r *Registry) IsAuthorized(id int64) bool {
	if id == r.ownerID {
		return true
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.delegates[id]
	return ok
}

// AddDelegate grants payout access to id. It reports whether the set
// changed; adding the owner is a no-op since the owner is implicitly
// authorized and never listed as a delegate.
func (r *Registry) AddDelegate(id int64) bool {
	if id == r.ownerID {
		return false
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.delegates[id]; ok {
		return false
	}
	r.delegates[id] = struct{}{}
	return true
}

// RemoveDelegate revokes payout access from id. Removing the owner is
// rejected with domain.ErrOwnerImmutable. Removing an id that was never
// delegated reports false without error.
func (r *Registry) RemoveDelegate(id int64) (bool, error) {
	if id == r.ownerID {
		return false, domain.ErrOwnerImmutable
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.delegates[id]; !ok {
		return false, nil
	}
	delete(r.delegates, id)
	return true, nil
}

// ListAll returns the owner followed by delegates in ascending id order.
func (r *Registry) ListAll() []Entry {
	r.mu.RLock()
	ids := make([]int64, 0, len(r.delegates))
	for id := range r.delegates {
		ids = append(ids, id)
	}
	r.mu.RUnlock()

	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	entries := make([]Entry, 0, len(ids)+1)
	entries = append(entries, Entry{TelegramID: r.ownerID, Role: RoleOwner})
	for _, id := range ids {
		entries = append(entries, Entry{TelegramID: id, Role: RoleDelegate})
	}
	return entries
}
