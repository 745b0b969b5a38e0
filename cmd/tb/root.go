package main

import (
	"io"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/conn-castle/toolbelt/internal/catalog"
	"github.com/conn-castle/toolbelt/internal/config"
	"github.com/conn-castle/toolbelt/internal/fetch"
	"github.com/conn-castle/toolbelt/internal/installer"
	"github.com/conn-castle/toolbelt/internal/lifecycle"
	"github.com/conn-castle/toolbelt/internal/locate"
	"github.com/conn-castle/toolbelt/internal/messages"
)

// globalFlags are shared by every subcommand.
type globalFlags struct {
	configPath string
	catalogs   []string
}

var configSystem config.System = config.RealSystem{}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}
	cmd := &cobra.Command{
		Use:           messages.RootUse,
		Short:         messages.RootShort,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&flags.configPath, "config", "", messages.RootFlagConfig)
	cmd.PersistentFlags().StringArrayVar(&flags.catalogs, "catalog", nil, messages.RootFlagCatalog)

	cmd.AddCommand(
		newOperationCmd(flags, lifecycle.OpInstall),
		newOperationCmd(flags, lifecycle.OpUninstall),
		newOperationCmd(flags, lifecycle.OpRepair),
		newOperationCmd(flags, lifecycle.OpConfigure),
		newMenuCmd(flags),
		newListCmd(flags),
		newStatusCmd(flags),
	)
	return cmd
}

// app is the wired engine for one invocation.
type app struct {
	settings   *config.Settings
	controller *lifecycle.Controller
}

// newApp loads settings and the catalog and wires the lifecycle controller.
// Progress output goes to progress.
func newApp(flags *globalFlags, progress io.Writer) (*app, error) {
	settings, err := config.Load(configSystem, flags.configPath)
	if err != nil {
		return nil, err
	}
	paths := append(append([]string{}, settings.Catalogs...), flags.catalogs...)
	cat, err := catalog.LoadAll(paths)
	if err != nil {
		return nil, err
	}
	client := &http.Client{Timeout: settings.HTTPTimeout}
	ctrl := lifecycle.New(lifecycle.Config{
		Catalog:        cat,
		Home:           settings.Home,
		BaseDir:        settings.BaseDir,
		StateDir:       settings.StateDir,
		Profiles:       settings.Profiles,
		RespectLiveEnv: settings.RespectLiveEnv,
		Locator: locate.New(locate.Options{
			HTTPClient: client,
			GitHubAPI:  settings.GitHubAPI,
			Offline:    settings.Offline,
		}),
		Fetcher: fetch.New(fetch.Options{
			MaxDownloadBytes: settings.MaxDownloadBytes,
			Offline:          settings.Offline,
			Progress:         progress,
		}),
		Installer: installer.New(installer.Options{Progress: progress}),
		Out:       progress,
	})
	return &app{settings: settings, controller: ctrl}, nil
}
