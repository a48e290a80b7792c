// Package game defines the context that dungeon tools act on.
//
// The dungeon engine itself lives elsewhere; tools only see the narrow
// capabilities below, any of which may be absent.
package game

import (
	"fmt"
	"strings"
)

// PartyMover moves the adventuring party one step.
type PartyMover interface {
	MoveParty(dir Direction) (ok bool, message string)
}

// ItemCreator creates items and returns their ids.
type ItemCreator interface {
	CreateItem(kind ItemKind, description string) (id string, err error)
}

// Describer renders a description of the current dungeon state.
type Describer interface {
	Describe(level DetailLevel) (string, error)
}

// Context is injected into every tool call by the registry.
type Context struct {
	Party   PartyMover
	Items   ItemCreator
	Dungeon Describer
}

// Direction is a compass direction the party can move in.
type Direction string

const (
	North Direction = "north"
	South Direction = "south"
	East  Direction = "east"
	West  Direction = "west"
)

// Directions lists every Direction in the order tools advertise them.
var Directions = []Direction{North, South, East, West}

// Tactic is the approach taken in a combat encounter.
type Tactic string

const (
	Aggressive Tactic = "aggressive"
	Defensive  Tactic = "defensive"
	Strategic  Tactic = "strategic"
)

// Tactics lists every Tactic.
var Tactics = []Tactic{Aggressive, Defensive, Strategic}

// DetailLevel controls how verbose a dungeon description is.
type DetailLevel string

const (
	Brief    DetailLevel = "brief"
	Normal   DetailLevel = "normal"
	Detailed DetailLevel = "detailed"
)

// DetailLevels lists every DetailLevel.
var DetailLevels = []DetailLevel{Brief, Normal, Detailed}

// ItemKind is the category of a created item.
type ItemKind string

const (
	Consumable ItemKind = "consumable"
	Equipment  ItemKind = "equipment"
	KeyItem    ItemKind = "key_item"
)

// ItemKinds lists every ItemKind.
var ItemKinds = []ItemKind{Consumable, Equipment, KeyItem}

// ParseEnum returns v as T if it is one of allowed.
func ParseEnum[T ~string](field, v string, allowed []T) (T, error) {
	for _, a := range allowed {
		if string(a) == v {
			return a, nil
		}
	}
	names := make([]string, len(allowed))
	for i, a := range allowed {
		names[i] = string(a)
	}
	return "", fmt.Errorf("%s must be one of %s, got %q", field, strings.Join(names, ", "), v)
}
