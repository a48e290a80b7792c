package runner

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"go.uber.org/zap"

	"github.com/petasbytes/dungeon-tools/internal/provider"
	"github.com/petasbytes/dungeon-tools/internal/telemetry"
	"github.com/petasbytes/dungeon-tools/tools"
)

// ErrToolLoop is returned by RunTurn when the model keeps calling tools past MaxToolSteps.
var ErrToolLoop = errors.New("tool step limit reached")

type Runner struct {
	Client       *anthropic.Client
	Tools        *tools.Registry
	Model        anthropic.Model
	MaxTokens    int64
	MaxToolSteps int

	Events *telemetry.Sink
	Log    *zap.Logger
	// Out receives assistant text as it arrives.
	Out io.Writer
}

func New(client *anthropic.Client, reg *tools.Registry) *Runner {
	return &Runner{
		Client:       client,
		Tools:        reg,
		Model:        provider.DefaultModel,
		MaxTokens:    1024,
		MaxToolSteps: 8,
		Log:          zap.NewNop(),
		Out:          os.Stdout,
	}
}

func (r *Runner) anthropicTools() []anthropic.ToolUnionParam {
	defs := r.Tools.Definitions()
	out := make([]anthropic.ToolUnionParam, 0, len(defs))
	for _, d := range defs {
		out = append(out, d.AnthropicParam())
	}
	return out
}

// RunOneStep sends the conversation, prints any text and returns the tool
// results to be appended as the next user message.
func (r *Runner) RunOneStep(ctx context.Context, conv []anthropic.MessageParam) (*anthropic.Message, []anthropic.ContentBlockParamUnion, error) {
	ctx, turnID := telemetry.EnsureTurnID(ctx)

	r.Events.Emit("request_sent", map[string]any{
		"turn_id":  turnID,
		"model":    string(r.Model),
		"messages": len(conv),
		"tools":    len(r.Tools.Definitions()),
	})

	params := anthropic.MessageNewParams{
		Model:     r.Model,
		MaxTokens: r.MaxTokens,
		Messages:  conv,
		Tools:     r.anthropicTools(),
	}
	msg, err := r.Client.Messages.New(ctx, params)
	if err != nil {
		return nil, nil, err
	}
	r.Log.Debug("model response",
		zap.String("turn_id", turnID),
		zap.String("stop_reason", string(msg.StopReason)),
		zap.Int("blocks", len(msg.Content)),
	)

	toolResults := []anthropic.ContentBlockParamUnion{}
	for _, block := range msg.Content {
		switch v := block.AsAny().(type) {
		case anthropic.TextBlock:
			fmt.Fprintf(r.Out, "\u001b[93mClaude\u001b[0m: %s\n", v.Text)
		case anthropic.ToolUseBlock:
			// Pass raw JSON input through to the tool implementation
			input := json.RawMessage(v.JSON.Input.Raw())
			toolResults = append(toolResults, r.execTool(ctx, v.ID, v.Name, input))
		}
	}
	return msg, toolResults, nil
}

// RunTurn appends user to conv and steps until the model stops asking for
// tools. It returns the extended conversation and the assistant's text.
func (r *Runner) RunTurn(ctx context.Context, conv []anthropic.MessageParam, user string) ([]anthropic.MessageParam, string, error) {
	ctx, _ = telemetry.EnsureTurnID(ctx)
	conv = append(conv, anthropic.NewUserMessage(anthropic.NewTextBlock(user)))

	var text []string
	for step := 0; step < r.MaxToolSteps; step++ {
		msg, toolResults, err := r.RunOneStep(ctx, conv)
		if err != nil {
			return conv, strings.Join(text, "\n"), err
		}
		conv = append(conv, msg.ToParam())
		for _, b := range msg.Content {
			if tb, ok := b.AsAny().(anthropic.TextBlock); ok && tb.Text != "" {
				text = append(text, tb.Text)
			}
		}
		if len(toolResults) == 0 {
			return conv, strings.Join(text, "\n"), nil
		}
		// Provide tool results as a user message back to the model
		conv = append(conv, anthropic.NewUserMessage(toolResults...))
	}
	return conv, strings.Join(text, "\n"), fmt.Errorf("%w (%d)", ErrToolLoop, r.MaxToolSteps)
}

func (r *Runner) execTool(ctx context.Context, id, name string, input json.RawMessage) anthropic.ContentBlockParamUnion {
	turnID, _ := telemetry.TurnIDFromContext(ctx)

	// Helper to emit a tool_exec event
	emit := func(durationMs int64, inputSize int, outputSize int, errStr string) {
		fields := map[string]any{
			"tool_name":   name,
			"duration_ms": durationMs,
			"input_size":  inputSize,
			"output_size": outputSize,
			"turn_id":     turnID,
		}
		if errStr != "" {
			fields["error"] = errStr
		} else {
			fields["error"] = nil
		}
		r.Events.Emit("tool_exec", fields)
	}

	start := time.Now()
	inSize := len(input)

	resp, err := r.Tools.Execute(ctx, name, input)
	if errors.Is(err, tools.ErrToolNotFound) {
		r.Log.Warn("unknown tool requested", zap.String("tool", name))
		emit(time.Since(start).Milliseconds(), inSize, 0, "tool not found")
		return anthropic.NewToolResultBlock(id, "tool not found", true)
	}
	if err != nil {
		r.Log.Debug("tool failed", zap.String("tool", name), zap.Error(err))
		// Emit a generic error string to avoid leaking raw payloads in telemetry
		emit(time.Since(start).Milliseconds(), inSize, 0, "tool error")
		// Preserve detailed error message in the tool result content returned to the model
		return anthropic.NewToolResultBlock(id, err.Error(), true)
	}
	emit(time.Since(start).Milliseconds(), inSize, len(resp), "")
	return anthropic.NewToolResultBlock(id, resp, false)
}
