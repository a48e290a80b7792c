package memory_test

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petasbytes/dungeon-tools/internal/game"
	"github.com/petasbytes/dungeon-tools/memory"
)

func TestSession_RoundTrip(t *testing.T) {
	p := filepath.Join(t.TempDir(), "nested", "session.yaml")

	ledger := memory.NewLedger(nil)
	id, err := ledger.CreateItem(game.KeyItem, "Rusty key")
	require.NoError(t, err)

	in := &memory.Session{
		Messages: []memory.Message{{Role: "user", Text: "hi"}, {Role: "assistant", Text: "hello"}},
		Items:    ledger.Items(),
	}
	require.NoError(t, memory.SaveSession(p, in))

	out, err := memory.LoadSession(p)
	require.NoError(t, err)
	assert.Equal(t, in.Messages, out.Messages)
	require.Len(t, out.Items, 1)
	assert.Equal(t, id, out.Items[0].ID)
	assert.Equal(t, game.KeyItem, out.Items[0].Kind)
	assert.True(t, in.Items[0].CreatedAt.Equal(out.Items[0].CreatedAt))

	entries, err := os.ReadDir(filepath.Dir(p))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file left behind")
}

func TestSession_LoadMissing_ReturnsEmpty(t *testing.T) {
	s, err := memory.LoadSession(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	require.NoError(t, err)
	assert.Empty(t, s.Messages)
	assert.Empty(t, s.Items)
}

func TestSession_LoadInvalid_ReturnsError(t *testing.T) {
	p := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(p, []byte("messages: {oops"), 0o644))
	_, err := memory.LoadSession(p)
	assert.Error(t, err)
}

func TestLedger_UniqueIDs(t *testing.T) {
	l := memory.NewLedger([]memory.Item{{ID: "item_seed"}})
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = l.CreateItem(game.Consumable, "Potion")
		}()
	}
	wg.Wait()

	items := l.Items()
	require.Len(t, items, 21)
	seen := map[string]bool{}
	for _, it := range items {
		assert.False(t, seen[it.ID], "duplicate id %s", it.ID)
		seen[it.ID] = true
	}
	assert.Equal(t, "item_seed", items[0].ID)
}
