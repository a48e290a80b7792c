package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/petasbytes/dungeon-tools/internal/provider"
	"github.com/petasbytes/dungeon-tools/internal/runner"
	"github.com/petasbytes/dungeon-tools/internal/telemetry"
	"github.com/petasbytes/dungeon-tools/memory"
)

func newChatCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Chat with Claude; tools run locally",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			// Basic env check (SDK also reads API key)
			if os.Getenv("ANTHROPIC_API_KEY") == "" {
				return errors.New("missing ANTHROPIC_API_KEY; export it before running")
			}
			return a.chat(cmd)
		},
	}
}

func (a *app) chat(cmd *cobra.Command) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	events, err := telemetry.Open(a.cfg.ArtifactsDir, a.cfg.ObserveJSON)
	if err != nil {
		return err
	}
	defer events.Close()

	r := runner.New(provider.NewAnthropicClient(""), a.reg)
	r.Model = provider.Model(a.cfg.Model)
	r.MaxTokens = a.cfg.MaxTokens
	r.MaxToolSteps = a.cfg.MaxToolSteps
	r.Events = events
	r.Log = a.log
	r.Out = out

	// Build SDK conversation from persisted messages text
	conv := make([]anthropic.MessageParam, 0, len(a.session.Messages))
	for _, m := range a.session.Messages {
		if m.Role == "user" {
			conv = append(conv, anthropic.NewUserMessage(anthropic.NewTextBlock(m.Text)))
		} else {
			conv = append(conv, anthropic.NewAssistantMessage(anthropic.NewTextBlock(m.Text)))
		}
	}

	// stdin reader goroutine -> lines into channel
	scanner := bufio.NewScanner(cmd.InOrStdin())
	inputCh := make(chan string)
	go func() {
		defer close(inputCh)
		for scanner.Scan() {
			select {
			case inputCh <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	fmt.Fprintln(out, "Chat with Claude (Ctrl-C to quit)")
outer:
	for {
		fmt.Fprint(out, "\u001b[94mYou\u001b[0m: ")
		var (
			user string
			ok   bool
		)
		select {
		case <-ctx.Done():
			fmt.Fprintln(out, "\nExiting...")
			break outer
		case user, ok = <-inputCh:
			if !ok {
				break outer
			}
		}
		if strings.TrimSpace(user) == "" {
			continue
		}

		turnCtx := telemetry.WithTurnID(ctx, telemetry.NewTurnID())
		next, text, err := r.RunTurn(turnCtx, conv, user)
		if err != nil {
			a.log.Error("turn failed", zap.Error(err))
			if ctx.Err() != nil {
				break
			}
		}
		conv = next

		// Persist minimal text-only transcript (user + assistant)
		a.session.Messages = append(a.session.Messages, memory.Message{Role: "user", Text: user})
		if strings.TrimSpace(text) != "" {
			a.session.Messages = append(a.session.Messages, memory.Message{Role: "assistant", Text: text})
		}
		a.saveSession()
	}
	if err := scanner.Err(); err != nil {
		a.log.Warn("stdin read error", zap.Error(err))
	}
	a.saveSession()
	return nil
}
