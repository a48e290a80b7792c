package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/petasbytes/dungeon-tools/internal/game"
)

// ErrToolNotFound is returned by Execute for names that were never registered.
var ErrToolNotFound = errors.New("tool not registered")

// Registry holds tool definitions and the context injected into their calls.
// It is safe for concurrent use.
type Registry struct {
	mu    sync.RWMutex
	defs  map[string]ToolDefinition
	order []string
	gc    *game.Context
}

func NewRegistry() *Registry {
	return &Registry{defs: make(map[string]ToolDefinition)}
}

// Default returns a registry with every built-in tool registered.
func Default() *Registry {
	r := NewRegistry()
	for _, d := range Builtins() {
		r.MustRegister(d)
	}
	return r
}

// Builtins returns all tool definitions wired for the agent.
func Builtins() []ToolDefinition {
	return []ToolDefinition{
		ListFilesDefinition,
		MovePartyDefinition,
		ResolveCombatDefinition,
		DescribeDungeonDefinition,
		CreateItemDefinition,
	}
}

// Register adds def. Names must be non-empty and unique.
func (r *Registry) Register(def ToolDefinition) error {
	if def.Name == "" {
		return errors.New("tool name is required")
	}
	if def.Function == nil {
		return fmt.Errorf("tool %q has no function", def.Name)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, dup := r.defs[def.Name]; dup {
		return fmt.Errorf("tool %q already registered", def.Name)
	}
	r.defs[def.Name] = def
	r.order = append(r.order, def.Name)
	return nil
}

func (r *Registry) MustRegister(def ToolDefinition) {
	if err := r.Register(def); err != nil {
		panic(err)
	}
}

// SetContext sets the context passed to subsequent tool calls.
func (r *Registry) SetContext(gc *game.Context) {
	r.mu.Lock()
	r.gc = gc
	r.mu.Unlock()
}

func (r *Registry) Context() *game.Context {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.gc
}

// Definitions returns the registered tools in registration order.
func (r *Registry) Definitions() []ToolDefinition {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]ToolDefinition, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.defs[name])
	}
	return out
}

// Lookup returns the definition registered under name.
func (r *Registry) Lookup(name string) (ToolDefinition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.defs[name]
	return d, ok
}

// FunctionSpecs renders every registered tool in registration order.
func (r *Registry) FunctionSpecs() []FunctionSpec {
	defs := r.Definitions()
	out := make([]FunctionSpec, 0, len(defs))
	for _, d := range defs {
		out = append(out, d.Spec())
	}
	return out
}

// Execute runs the named tool with the registry's context. Empty input is
// treated as an empty object.
func (r *Registry) Execute(ctx context.Context, name string, input json.RawMessage) (string, error) {
	def, ok := r.Lookup(name)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrToolNotFound, name)
	}
	if len(input) == 0 {
		input = json.RawMessage("{}")
	}
	return def.Function(ctx, r.Context(), input)
}
