package memory

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/petasbytes/dungeon-tools/internal/game"
)

// Item is one entry in the item ledger.
type Item struct {
	ID          string        `yaml:"id"`
	Kind        game.ItemKind `yaml:"kind"`
	Description string        `yaml:"description"`
	CreatedAt   time.Time     `yaml:"created_at"`
}

// Ledger records created items. It implements game.ItemCreator and is safe
// for concurrent use.
type Ledger struct {
	mu    sync.Mutex
	items []Item
	now   func() time.Time
}

// NewLedger returns a ledger seeded with existing items.
func NewLedger(items []Item) *Ledger {
	return &Ledger{items: append([]Item(nil), items...), now: time.Now}
}

func (l *Ledger) CreateItem(kind game.ItemKind, description string) (string, error) {
	id := "item_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
	l.mu.Lock()
	defer l.mu.Unlock()
	l.items = append(l.items, Item{
		ID:          id,
		Kind:        kind,
		Description: description,
		CreatedAt:   l.now().UTC(),
	})
	return id, nil
}

// Items returns a copy of the ledger contents in creation order.
func (l *Ledger) Items() []Item {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]Item(nil), l.items...)
}

var _ game.ItemCreator = (*Ledger)(nil)
