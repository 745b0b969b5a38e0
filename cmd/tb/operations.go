package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/conn-castle/toolbelt/internal/errs"
	"github.com/conn-castle/toolbelt/internal/lifecycle"
	"github.com/conn-castle/toolbelt/internal/messages"
	"github.com/conn-castle/toolbelt/internal/prompt"
)

// operationFlags are the per-run options shared by the lifecycle commands.
type operationFlags struct {
	reinstall bool
	version   string
	dryRun    bool
	noLiveEnv bool
	reset     bool
	set       []string
}

var operationText = map[lifecycle.Operation][2]string{
	lifecycle.OpInstall:   {messages.InstallUse, messages.InstallShort},
	lifecycle.OpUninstall: {messages.UninstallUse, messages.UninstallShort},
	lifecycle.OpRepair:    {messages.RepairUse, messages.RepairShort},
	lifecycle.OpConfigure: {messages.ConfigureUse, messages.ConfigureShort},
}

func newOperationCmd(flags *globalFlags, op lifecycle.Operation) *cobra.Command {
	opFlags := &operationFlags{}
	cmd := &cobra.Command{
		Use:   operationText[op][0],
		Short: operationText[op][1],
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(flags, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			opts, err := opFlags.options(cmd)
			if err != nil {
				return err
			}
			return runOperation(cmd, a, op, args[0], opts)
		},
	}
	f := cmd.Flags()
	f.BoolVar(&opFlags.dryRun, "dry-run", false, messages.FlagDryRun)
	f.BoolVar(&opFlags.noLiveEnv, "no-live-env", false, messages.FlagNoLiveEnv)
	switch op {
	case lifecycle.OpInstall, lifecycle.OpRepair:
		f.StringVar(&opFlags.version, "version", "", messages.FlagVersion)
		if op == lifecycle.OpInstall {
			f.BoolVar(&opFlags.reinstall, "reinstall", false, messages.FlagReinstall)
		}
	case lifecycle.OpConfigure:
		f.BoolVar(&opFlags.reset, "reset", false, messages.FlagReset)
		f.StringArrayVar(&opFlags.set, "set", nil, messages.FlagSet)
	}
	return cmd
}

// options converts flags into lifecycle options. Configure asks for missing
// values through a prompt UI over the command's streams.
func (f *operationFlags) options(cmd *cobra.Command) (lifecycle.Options, error) {
	values, err := parseSet(f.set)
	if err != nil {
		return lifecycle.Options{}, err
	}
	return lifecycle.Options{
		Reinstall:     f.reinstall,
		Version:       f.version,
		DryRun:        f.dryRun,
		IgnoreLiveEnv: f.noLiveEnv,
		Reset:         f.reset,
		Values:        values,
		ValueSource:   prompt.Values{UI: prompt.New(cmd.InOrStdin(), cmd.OutOrStdout())},
	}, nil
}

func parseSet(pairs []string) (map[string]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	values := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		name, value, ok := strings.Cut(pair, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf(messages.CLIInvalidSetFmt, errs.ErrInvalidInput, pair)
		}
		values[name] = value
	}
	return values, nil
}

func runOperation(cmd *cobra.Command, a *app, op lifecycle.Operation, name string, opts lifecycle.Options) error {
	out := cmd.OutOrStdout()
	result, err := a.controller.Run(cmd.Context(), op, name, opts)
	printDiffs(out, result)
	if err != nil {
		var repairErr *lifecycle.RepairError
		if errors.As(err, &repairErr) {
			_, _ = fmt.Fprintf(out, messages.CLIRepairStateFmt, result.Tool, repairErr.State)
		}
		return err
	}
	printResult(out, result)
	return nil
}

func printResult(out io.Writer, result lifecycle.Result) {
	state := color.YellowString(string(result.State))
	if result.State == lifecycle.StateInstalled {
		state = color.GreenString(string(result.State))
	}
	_, _ = fmt.Fprintf(out, messages.CLIResultFmt, result.Operation, result.Tool, state)
	if result.Root != "" && result.State == lifecycle.StateInstalled {
		_, _ = fmt.Fprintf(out, messages.CLIResultRootFmt, result.Root)
	}
	if result.Reference != nil && result.Reference.Version != "" {
		_, _ = fmt.Fprintf(out, messages.CLIResultVersionFmt, result.Reference.Version)
	}
}

// printDiffs renders dry-run previews with added lines in green and removed lines in red.
func printDiffs(out io.Writer, result lifecycle.Result) {
	for _, d := range result.Diffs {
		_, _ = fmt.Fprintf(out, messages.CLIDiffHeaderFmt, d.Path)
		for _, line := range strings.Split(strings.TrimRight(d.UnifiedDiff, "\n"), "\n") {
			switch {
			case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"):
				_, _ = fmt.Fprintln(out, line)
			case strings.HasPrefix(line, "+"):
				_, _ = fmt.Fprintln(out, color.GreenString(line))
			case strings.HasPrefix(line, "-"):
				_, _ = fmt.Fprintln(out, color.RedString(line))
			case strings.HasPrefix(line, "@@"):
				_, _ = fmt.Fprintln(out, color.CyanString(line))
			default:
				_, _ = fmt.Fprintln(out, line)
			}
		}
	}
}
