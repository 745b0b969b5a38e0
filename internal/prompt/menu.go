package prompt

import (
	"context"
	"fmt"
	"strings"

	"github.com/conn-castle/toolbelt/internal/catalog"
	"github.com/conn-castle/toolbelt/internal/messages"
)

// Menu entries in display order; install is the default.
const (
	MenuInstall   = "install"
	MenuUninstall = "uninstall"
	MenuRepair    = "repair"
	MenuConfigure = "configure"
)

// MenuOptions returns the operations offered for tool.
func MenuOptions(tool catalog.Tool) []string {
	options := []string{MenuInstall, MenuUninstall, MenuRepair}
	if tool.HasPromptVariables() {
		options = append(options, MenuConfigure)
	}
	return options
}

// ChooseOperation asks ui which operation to run on tool.
func ChooseOperation(ui UI, tool catalog.Tool) (string, error) {
	choice := MenuInstall
	if err := ui.Select(fmt.Sprintf(messages.PromptMenuTitleFmt, tool.Name), MenuOptions(tool), &choice); err != nil {
		return "", err
	}
	return choice, nil
}

// Values collects prompt variables through a UI.
type Values struct {
	UI UI
}

// Values asks for each variable in order; secrets use masked input.
func (v Values) Values(ctx context.Context, tool catalog.Tool, vars []catalog.Variable) (map[string]string, error) {
	out := make(map[string]string, len(vars))
	for _, variable := range vars {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		title := fmt.Sprintf(messages.PromptVariableFmt, variable.Name, tool.Name)
		if desc := strings.TrimSpace(variable.Description); desc != "" {
			title += " (" + desc + ")"
		}
		var value string
		var err error
		if variable.Secret {
			err = v.UI.SecretInput(title, &value)
		} else {
			err = v.UI.Input(title, &value)
		}
		if err != nil {
			return nil, err
		}
		out[variable.Name] = strings.TrimSpace(value)
	}
	return out, nil
}
