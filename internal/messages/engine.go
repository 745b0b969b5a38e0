package messages

// Artifact lookup messages.
const (
	LocateCreateRequestFmt     = "%w: create request %s: %w"
	LocateRequestFailedFmt     = "%w: request %s: %w"
	LocateUnexpectedStatusFmt  = "%w: request %s: unexpected status %s"
	LocateReadBodyFmt          = "%w: read %s: %w"
	LocateResponseTooLargeFmt  = "%w: response from %s exceeds %d bytes"
	LocateRetryBudgetExhausted = "retry budget exhausted"
	LocateRateLimitFmt         = "%v: github api rate limit exceeded (%s, remaining=%s)"
	LocateDecodeFmt            = "%w: decode %s: %w"
	LocateReleaseMissingTagFmt = "%w: release from %s has no tag"
	LocateIndexMissingFmt      = "%w: catalog %s not found (HTTP 404)"
	LocateOfflineFmt           = "%w: cannot look up %s; network access disabled via TOOLBELT_NO_NETWORK"
	LocateUnknownSourceFmt     = "%w: unknown source type %q"
	LocateInvalidPatternFmt    = "%w: tool %s pattern: %w"
	LocateNotFoundFmt          = "%w: no %s artifact for %s (tried %s)"
	LocateVersionUnpinnableFmt = "%w: %s cannot install version %s: its %s pattern has no {version} token"
)

// Fetch and unpack messages.
const (
	FetchCreateWorkspaceFmt  = "create workspace in %s: %w"
	FetchRemoveWorkspaceFmt  = "remove workspace %s: %w"
	FetchOfflineFmt          = "%w: cannot download %s; network access disabled via TOOLBELT_NO_NETWORK"
	FetchInvalidFilenameFmt  = "%w: invalid artifact filename %q"
	FetchDownloadingFmt      = "Downloading %s\n"
	FetchDownloadFmt         = "%w: download %s: %w"
	FetchDownloadTimeoutFmt  = "%w: download %s timed out"
	FetchDownload404Fmt      = "%w: download %s: not found (HTTP 404)"
	FetchDownloadStatusFmt   = "%w: download %s: unexpected status %s"
	FetchDownloadTooLargeFmt = "%w: download %s exceeds %d bytes"
	FetchHashFileFmt         = "%w: hash %s: %w"
	FetchChecksumMismatchFmt = "%w: checksum mismatch for %s (expected %s, got %s)"
	FetchUnpackFmt           = "%w: unpack %s: %w"
	FetchUnsafePathFmt       = "unsafe archive path %q"
	FetchUnsafeLinkFmt       = "unsafe symlink %s -> %s"
	FetchMissingToolFmt      = "%w: %s is required to unpack %s"
	FetchExternalUnpackFmt   = "%w: unpack %s: %v: %s"
	FetchEmptyArchiveFmt     = "%w: archive unpacked to an empty directory %s"
	FetchPayloadMissingFmt   = "%w: expected %s in payload %s"
)

// Installer messages.
const (
	InstallerNoPayloadFmt     = "%w: no payload to install for %s"
	InstallerInvalidRootFmt   = "%w: install root %q must be an absolute path"
	InstallerUnknownKindFmt   = "%w: unknown artifact kind %q"
	InstallerMissingToolFmt   = "%w: %s is required to install %s"
	InstallerCopyFmt          = "copy payload into %s: %w"
	InstallerRemoveRootFmt    = "remove install root %s: %w"
	InstallerCreateRootFmt    = "create parent of install root %s: %w"
	InstallerChmodFmt         = "make %s executable: %w"
	InstallerScriptNoRootFmt  = "%w: vendor script for %s did not create %s"
	InstallerCopyingFmt       = "Installing %s into %s\n"
	InstallerConfiguringFmt   = "Configuring %s\n"
	InstallerCompilingFmt     = "Compiling %s with make -j%d\n"
	InstallerRunningScriptFmt = "Running vendor installer for %s\n"
)

// Lifecycle messages.
const (
	LifecycleOpenLockFmt           = "open lock %s: %w"
	LifecycleLockFmt               = "lock %s: %w"
	LifecycleLockTimeoutFmt        = "timed out after %s waiting for another toolbelt run on this tool"
	LifecycleUnknownOperationFmt   = "%w: unknown operation %q"
	LifecycleUnknownToolFmt        = "%w: unknown tool %q (available: %s)"
	LifecycleNotConfiguredFmt      = "lifecycle controller has no %s configured"
	LifecycleUnresolvedRootFmt     = "%w: cannot resolve install root for %s from %q without a version"
	LifecycleInvalidPathFmt        = "%w: invalid path pattern %q: %w"
	LifecycleRemovePathFmt         = "remove %s: %w"
	LifecycleNothingToConfigureFmt = "%w: %s has no variables to configure"
	LifecycleEmptyValueFmt         = "%w: a value for %s is required"
	LifecycleRepairFailedFmt       = "repair failed during %s (tool is now %s): %v"
	LifecycleLatestLabel           = "latest"
	LifecycleAlreadyInstalledFmt   = "%s is already installed at %s; pass --reinstall to replace it\n"
	LifecycleInstallingFmt         = "Installing %s %s (%s) for %s\n"
	LifecycleDryRunFetchFmt        = "Would download %s into %s\n"
	LifecycleDryRunRemoveFmt       = "Would remove %s\n"
	LifecycleRemovedFmt            = "Removed %s\n"
	LifecycleNothingInstalledFmt   = "%s is not installed; nothing to remove\n"
	LifecycleProfileStatusFmt      = "  %s: %s\n"
	LifecycleProfileNoteFmt        = "    note: %s\n"
)
