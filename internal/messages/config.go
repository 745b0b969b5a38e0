package messages

// Engine config messages.
const (
	ConfigValidationFailed   = "invalid config"
	ConfigReadFailedFmt      = "read config %s: %w"
	ConfigInvalidFmt         = "config %s: %w"
	ConfigHomeNotAbsoluteFmt = "%w: %s must be an absolute path, got %q"
	ConfigHomeFailedFmt      = "resolve home directory: %w"
	ConfigInvalidTimeoutFmt  = "%w: http_timeout %q is not a positive duration"
	ConfigInvalidMaxBytesFmt = "%w: max_download_bytes must not be negative, got %d"
	ConfigInvalidURLFmt      = "%w: %s %q is not an http(s) URL"
	ConfigPathNotAbsoluteFmt = "%w: %s must resolve to an absolute path, got %q"
)
