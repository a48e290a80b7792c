// Package tools defines tool contracts, the registry and the built-in tools.
//
// Includes:
//   - ToolDefinition: name, description, JSON input schema, function.
//   - GenerateSchema[T](): derive JSON Schema from Go structs.
//   - Registry: registration order, context injection, execution by name.
//   - list_files: recursive suffix listing inside the workspace sandbox.
//   - Game tools: move_party, resolve_combat, describe_dungeon, create_item.
//
// Tool failures meant for the model are safety.ToolError values.
package tools
