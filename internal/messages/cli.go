package messages

// CLI messages for user-facing commands and flags.
const (
	// RootUse is the CLI command name.
	RootUse          = "tb"
	RootShort        = "Install, remove, repair and configure developer tools in your home directory"
	RootFlagConfig   = "Path to the toolbelt config file"
	RootFlagCatalog  = "Extra catalog file merged over the builtin catalog (repeatable)"
	VersionCommitFmt = "commit %s"
	VersionBuildFmt  = "built %s"
	VersionFullFmt   = "%s (%s)"
	VersionTemplate  = "{{.Version}}\n"

	InstallUse     = "install <tool>"
	InstallShort   = "Install a tool and add its shell profile block"
	UninstallUse   = "uninstall <tool>"
	UninstallShort = "Remove a tool and its shell profile block"
	RepairUse      = "repair <tool>"
	RepairShort    = "Uninstall then install a tool"
	ConfigureUse   = "configure <tool>"
	ConfigureShort = "Set a tool's prompted variables in shell profiles"
	MenuUse        = "menu <tool>"
	MenuShort      = "Choose an operation for a tool interactively"
	ListUse        = "list"
	ListShort      = "List catalog tools and their install state"
	StatusUse      = "status"
	StatusShort    = "Check the toolbelt setup and installed tools"

	FlagReinstall = "Replace an existing install under the skip-if-installed policy"
	FlagVersion   = "Install this version instead of the latest"
	FlagDryRun    = "Show what would change without touching anything"
	FlagNoLiveEnv = "Write profile blocks even when the variables are already set in this shell"
	FlagReset     = "Remove the existing block before applying new values"
	FlagSet       = "Set a prompted variable as NAME=VALUE (repeatable)"

	CLIInvalidSetFmt      = "%w: --set %q must be NAME=VALUE"
	CLIResultFmt          = "%s %s: %s\n"
	CLIResultRootFmt      = "  root: %s\n"
	CLIResultVersionFmt   = "  version: %s\n"
	CLIDiffHeaderFmt      = "--- planned change to %s\n"
	CLIRepairStateFmt     = "%s is now %s\n"
	CLIListRowFmt         = "%-14s %-10s %s\n"
	CLIStatusHeaderFmt    = "toolbelt status (%s)\n"
	DoctorStatusOKLabel   = "[OK]  "
	DoctorStatusWarnLabel = "[WARN]"
	DoctorStatusFailLabel = "[FAIL]"
	DoctorResultLineFmt   = "%s %-13s %s\n"
	DoctorRecommendPrefix = "       > "
	DoctorRecommendIndent = "         "
	DoctorSuccessSummary  = "All checks passed."
	DoctorFailureSummary  = "Some checks failed."
	DoctorFailureError    = "status found failing checks"
)
