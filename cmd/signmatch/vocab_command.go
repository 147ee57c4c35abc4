package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newVocabCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "vocab",
		Short: "List the recognizable vocabulary",
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := ctx.recognizer(cmd.Context())
			if err != nil {
				return err
			}
			for _, label := range r.Vocabulary() {
				fmt.Fprintln(cmd.OutOrStdout(), label)
			}
			return nil
		},
	}
}
