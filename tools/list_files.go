package tools

import (
	"context"
	"encoding/json"

	"github.com/petasbytes/dungeon-tools/internal/fsops"
	"github.com/petasbytes/dungeon-tools/internal/game"
	"github.com/petasbytes/dungeon-tools/internal/lister"
)

type ListFilesInput struct {
	Path     string   `json:"path,omitempty" jsonschema_description:"Optional relative directory to walk (defaults to the workspace root)."`
	Suffix   string   `json:"suffix,omitempty" jsonschema_description:"File name suffix to match (default .py)."`
	Exclude  []string `json:"exclude,omitempty" jsonschema_description:"Directory names to skip at any depth."`
	Page     int      `json:"page,omitempty" jsonschema_description:"1-based page number (default 1)."`
	PageSize int      `json:"page_size,omitempty" jsonschema_description:"Page size (default 200)."`
}

// defaultListFilesPageSize is the fallback page size when page_size <= 0.
const defaultListFilesPageSize = 200

var ListFilesDefinition = ToolDefinition{
	Name:        "list_files",
	Description: "Recursively list files in the workspace whose name ends in a suffix, skipping excluded directory names at every level. Returns workspace-relative paths.",
	InputSchema: ListFilesInputSchema,
	Function:    ListFiles,
}

var ListFilesInputSchema = GenerateSchema[ListFilesInput]()

// ListFiles walks the sandbox via fsops and pages the result in walk order.
// Defaults:
//   - page: 1 when <= 0
//   - page_size: 200 when <= 0
//
// Contract: returns a JSON-encoded []string.
func ListFiles(ctx context.Context, _ *game.Context, input json.RawMessage) (string, error) {
	var in ListFilesInput
	if err := json.Unmarshal(input, &in); err != nil {
		return "", invalidInput(err)
	}
	page := in.Page
	if page <= 0 {
		page = 1
	}
	pageSize := in.PageSize
	if pageSize <= 0 {
		pageSize = defaultListFilesPageSize
	}

	names, err := fsops.ListFiles(ctx, in.Path, lister.Options{Suffix: in.Suffix, Exclude: in.Exclude})
	if err != nil {
		return "", err
	}

	// Out-of-range page returns an empty JSON array; keep the output contract.
	// Compare page indexes before multiplying so large values cannot overflow.
	if len(names) == 0 || page-1 > (len(names)-1)/pageSize {
		return "[]", nil
	}
	start := (page - 1) * pageSize
	end := start + min(pageSize, len(names)-start)

	b, err := json.Marshal(names[start:end])
	if err != nil {
		return "", err
	}
	return string(b), nil
}
