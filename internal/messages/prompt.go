package messages

// Interactive prompt messages.
const (
	PromptCancelled           = "cancelled"
	PromptNoOptionsFmt        = "%w: %s has no options"
	PromptDefaultSuffix       = " (default)"
	PromptOptionFmt           = "%d) %s%s\n"
	PromptSelectFmt           = "Select [%d]: "
	PromptInvalidSelectionFmt = "%w: invalid selection %q (choose 1-%d)"
	PromptInputFmt            = "%s: "
	PromptInputDefaultFmt     = "%s [%s]: "
	PromptMenuTitleFmt        = "What should toolbelt do with %s?"
	PromptVariableFmt         = "%s for %s"
)
