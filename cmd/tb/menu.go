package main

import (
	"github.com/spf13/cobra"

	"github.com/conn-castle/toolbelt/internal/lifecycle"
	"github.com/conn-castle/toolbelt/internal/messages"
	"github.com/conn-castle/toolbelt/internal/prompt"
)

func newMenuCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   messages.MenuUse,
		Short: messages.MenuShort,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(flags, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			tool, err := a.controller.Lookup(args[0])
			if err != nil {
				return err
			}
			ui := prompt.New(cmd.InOrStdin(), cmd.OutOrStdout())
			choice, err := prompt.ChooseOperation(ui, tool)
			if err != nil {
				return err
			}
			op, err := lifecycle.ParseOperation(choice)
			if err != nil {
				return err
			}
			return runOperation(cmd, a, op, tool.Name, lifecycle.Options{ValueSource: prompt.Values{UI: ui}})
		},
	}
}
