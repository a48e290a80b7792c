package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/petasbytes/dungeon-tools/internal/game"
	"github.com/petasbytes/dungeon-tools/internal/safety"
)

func invalidInput(err error) error {
	return safety.Errorf(safety.CodeInvalidArgument, "%v", err)
}

func noContext(what string) error {
	return safety.Errorf(safety.CodeNoContext, "no context available: %s", what)
}

func decode(input json.RawMessage, v any) error {
	if err := json.Unmarshal(input, v); err != nil {
		return invalidInput(err)
	}
	return nil
}

func parseEnum[T ~string](field, v string, allowed []T) (T, error) {
	out, err := game.ParseEnum(field, v, allowed)
	if err != nil {
		return "", invalidInput(err)
	}
	return out, nil
}

// move_party

type MovePartyInput struct {
	Direction string `json:"direction" jsonschema:"enum=north,enum=south,enum=east,enum=west" jsonschema_description:"Direction to move"`
}

var MovePartyDefinition = ToolDefinition{
	Name:        "move_party",
	Description: "Move adventuring party through dungeon",
	InputSchema: GenerateSchema[MovePartyInput](),
	Function:    MoveParty,
}

func MoveParty(_ context.Context, gc *game.Context, input json.RawMessage) (string, error) {
	var in MovePartyInput
	if err := decode(input, &in); err != nil {
		return "", err
	}
	dir, err := parseEnum("direction", in.Direction, game.Directions)
	if err != nil {
		return "", err
	}
	if gc == nil || gc.Party == nil {
		return "", noContext("party movement")
	}
	_, msg := gc.Party.MoveParty(dir)
	return msg, nil
}

// resolve_combat

type ResolveCombatInput struct {
	NPCID  string `json:"npc_id" jsonschema_description:"ID of NPC involved in combat"`
	Tactic string `json:"tactic" jsonschema:"enum=aggressive,enum=defensive,enum=strategic" jsonschema_description:"Combat approach for NPC"`
}

var ResolveCombatDefinition = ToolDefinition{
	Name:        "resolve_combat",
	Description: "Resolve combat encounter between party and NPC",
	InputSchema: GenerateSchema[ResolveCombatInput](),
	Function:    ResolveCombat,
}

func ResolveCombat(_ context.Context, _ *game.Context, input json.RawMessage) (string, error) {
	var in ResolveCombatInput
	if err := decode(input, &in); err != nil {
		return "", err
	}
	if in.NPCID == "" {
		return "", safety.Errorf(safety.CodeInvalidArgument, "npc_id is required")
	}
	tactic, err := parseEnum("tactic", in.Tactic, game.Tactics)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Combat with %s resolved using %s tactic", in.NPCID, tactic), nil
}

// describe_dungeon

type DescribeDungeonInput struct {
	DetailLevel string `json:"detail_level" jsonschema:"enum=brief,enum=normal,enum=detailed" jsonschema_description:"Level of detail for description"`
}

var DescribeDungeonDefinition = ToolDefinition{
	Name:        "describe_dungeon",
	Description: "Generate rich description of the current dungeon state",
	InputSchema: GenerateSchema[DescribeDungeonInput](),
	Function:    DescribeDungeon,
}

func DescribeDungeon(_ context.Context, gc *game.Context, input json.RawMessage) (string, error) {
	var in DescribeDungeonInput
	if err := decode(input, &in); err != nil {
		return "", err
	}
	if in.DetailLevel == "" {
		in.DetailLevel = string(game.Normal)
	}
	level, err := parseEnum("detail_level", in.DetailLevel, game.DetailLevels)
	if err != nil {
		return "", err
	}
	if gc == nil || gc.Dungeon == nil {
		return "", noContext("dungeon description")
	}
	return gc.Dungeon.Describe(level)
}

// create_item

type CreateItemInput struct {
	ItemType    string `json:"item_type" jsonschema:"enum=consumable,enum=equipment,enum=key_item" jsonschema_description:"Category of item"`
	Description string `json:"description" jsonschema_description:"Flavor text for the item"`
}

var CreateItemDefinition = ToolDefinition{
	Name:        "create_item",
	Description: "Create a new game item",
	InputSchema: GenerateSchema[CreateItemInput](),
	Function:    CreateItem,
}

func CreateItem(_ context.Context, gc *game.Context, input json.RawMessage) (string, error) {
	var in CreateItemInput
	if err := decode(input, &in); err != nil {
		return "", err
	}
	kind, err := parseEnum("item_type", in.ItemType, game.ItemKinds)
	if err != nil {
		return "", err
	}
	if gc == nil || gc.Items == nil {
		return "", noContext("item creation")
	}
	id, err := gc.Items.CreateItem(kind, in.Description)
	if err != nil {
		return "", fmt.Errorf("create item: %w", err)
	}
	return fmt.Sprintf("Created item %s: %s", id, in.Description), nil
}
