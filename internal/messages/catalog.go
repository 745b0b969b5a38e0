package messages

// Catalog loading and validation messages.
const (
	CatalogValidationFailed = "invalid tool definition"
	CatalogReadFailedFmt    = "read catalog %s: %w"
	CatalogUnknownFormatFmt = "catalog %s: unknown format (expected .toml, .yaml or .yml)"
	CatalogInvalidFmt       = "catalog %s: %w"

	CatalogDuplicateToolFmt   = "%w: duplicate tool name %q"
	CatalogInvalidToolNameFmt = "%w: invalid tool name %q"
	CatalogToolInvalidFmt     = "%w: tool %s: %s"

	CatalogRootRequired             = "root is required"
	CatalogUnknownKindFmt           = "unknown kind %q"
	CatalogDuplicateKindFmt         = "kind %q listed twice"
	CatalogNothingToDo              = "a tool without kinds must define variables"
	CatalogUnknownPolicyFmt         = "unknown policy %q"
	CatalogUnknownRemovalFmt        = "unknown removal %q"
	CatalogLineFilterMatchRequired  = "line-filter removal requires removal_match"
	CatalogInvalidVariableNameFmt   = "invalid variable name %q"
	CatalogPathEntryNameFmt         = "path_entry variable must be named PATH, got %q"
	CatalogPathEntryPromptFmt       = "variable %s cannot be both path_entry and prompt"
	CatalogVariableValueRequiredFmt = "variable %s requires a value"
	CatalogRepoRequired             = "github-release source requires repo in owner/name form"
	CatalogSourceURLRequiredFmt     = "%s source requires url"
	CatalogMissingKindEntryFmt      = "source %s has no entry for kind %s"
	CatalogInvalidPatternFmt        = "pattern for kind %s: %v"
	CatalogUnknownSourceFmt         = "unknown source type %q"
	CatalogScriptKindOnly           = "vendor-script source supports only the vendor-script kind"
	CatalogScriptSourceRequired     = "vendor-script kind requires a vendor-script source"
)
