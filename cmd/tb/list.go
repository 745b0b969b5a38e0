package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/conn-castle/toolbelt/internal/lifecycle"
	"github.com/conn-castle/toolbelt/internal/messages"
)

func newListCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   messages.ListUse,
		Short: messages.ListShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(flags, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			cat := a.controller.Catalog()
			for _, name := range cat.Names() {
				tool, _ := cat.Lookup(name)
				state := a.controller.State(tool)
				label := fmt.Sprintf("%-10s", state)
				if state == lifecycle.StateInstalled {
					label = color.GreenString(label)
				}
				_, _ = fmt.Fprintf(out, messages.CLIListRowFmt, tool.Name, label, tool.Description)
			}
			return nil
		},
	}
}
