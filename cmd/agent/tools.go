package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func newToolsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "tools",
		Short: "Print the registered tools as function-calling descriptors",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			b, err := json.MarshalIndent(a.reg.FunctionSpecs(), "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(b))
			return nil
		},
	}
}

func newCallCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "call NAME [JSON]",
		Short: "Execute one tool locally and print its result",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var input json.RawMessage
			if len(args) == 2 {
				if !json.Valid([]byte(args[1])) {
					return fmt.Errorf("input is not valid JSON: %s", args[1])
				}
				input = json.RawMessage(args[1])
			}
			out, err := a.reg.Execute(cmd.Context(), args[0], input)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			a.saveSession()
			return nil
		},
	}
}
