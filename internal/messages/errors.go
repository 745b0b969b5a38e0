package messages

// Engine error taxonomy.
const (
	ErrUnsupportedPlatform   = "unsupported platform"
	ErrNetwork               = "network error"
	ErrArtifactNotFound      = "artifact not found"
	ErrDownloadFailed        = "download failed"
	ErrUnpackFailed          = "unpack failed"
	ErrPayloadLayoutMismatch = "payload layout mismatch"
	ErrBuildFailed           = "build failed"
	ErrMissingDependency     = "missing dependency"
	ErrInvalidInput          = "invalid input"

	BuildPhaseFailedFmt = "%s phase failed: %v"

	PlatformUnsupportedOSFmt   = "%w: operating system %q"
	PlatformUnsupportedArchFmt = "%w: architecture %q"
)

// Filesystem helper messages.
const (
	FsutilCreateTempFmt = "create temp file for %s: %w"
	FsutilChmodFmt      = "chmod %s: %w"
	FsutilWriteFmt      = "write %s: %w"
	FsutilSyncFmt       = "sync %s: %w"
	FsutilCloseFmt      = "close %s: %w"
	FsutilRenameFmt     = "rename into %s: %w"
	FsutilReadFmt       = "read %s: %w"
)
