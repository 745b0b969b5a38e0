package messages

// Shell profile parsing and mutation messages.
const (
	EnvfileExpectedKeyValue        = "expected NAME=value"
	EnvfileInvalidNameFmt          = "invalid variable name %q"
	EnvfileUnterminatedQuotedValue = "unterminated quoted value"
	EnvfileInvalidQuotedSuffix     = "unexpected characters after quoted value"

	ProfileFileFailedFmt        = "%s: %w"
	ProfileReadFailedFmt        = "read profile %s: %w"
	ProfileNotRegularFileFmt    = "profile %s is not a regular file"
	ProfileWriteFailedFmt       = "write profile %s: %w"
	ProfileBackupFailedFmt      = "write backup %s: %w"
	ProfileBackupOverwrittenFmt = "existing backup %s was overwritten"
)
