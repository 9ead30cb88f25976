package naslcli

import (
	"fmt"
	"os"

	"github.com/AlecAivazis/survey/v2"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/nasl-runtime/naslrun/internal/naslrewrite"
)

// NewTranspileCommand loads a ReplaceCommand document and rewrites
// every matching call site across a feed tree.
func NewTranspileCommand() *cobra.Command {
	var commandsPath string

	cmd := &cobra.Command{
		Use:   "transpile <feed-root>",
		Short: "Rewrite call sites across a plugin feed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := args[0]
			if commandsPath == "" {
				return fmt.Errorf("--commands is required")
			}

			doc, err := os.ReadFile(commandsPath)
			if err != nil {
				return fmt.Errorf("read commands file: %w", err)
			}
			commands, err := naslrewrite.DecodeCommands(doc)
			if err != nil {
				return fmt.Errorf("decode commands: %w", err)
			}

			replacer := naslrewrite.NewFeedReplacer(root, commands)
			changed, err := replacer.Run()
			if err != nil {
				return fmt.Errorf("run rewriter: %w", err)
			}

			for _, f := range changed {
				if err := os.WriteFile(f.Path, []byte(f.Source), 0o644); err != nil {
					return fmt.Errorf("write %s: %w", f.Path, err)
				}
				color.Green("rewrote %s", f.Path)
			}
			if len(changed) == 0 {
				color.Yellow("no files changed")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&commandsPath, "commands", "", "path to a YAML replace-commands document")
	cmd.AddCommand(newTranspileWizardCommand())
	return cmd
}

// newTranspileWizardCommand interactively builds one replace command
// and appends it to a commands file, grounded on the teacher's
// survey-based project scaffolding wizard (internal/cli/commands/new.go).
func newTranspileWizardCommand() *cobra.Command {
	var commandsPath string

	cmd := &cobra.Command{
		Use:   "wizard",
		Short: "Interactively build a single replace command",
		RunE: func(cmd *cobra.Command, args []string) error {
			if commandsPath == "" {
				return fmt.Errorf("--commands is required")
			}

			var functionName string
			if err := survey.AskOne(&survey.Input{
				Message: "Function name to match:",
			}, &functionName, survey.WithValidator(survey.Required)); err != nil {
				return err
			}

			var action string
			if err := survey.AskOne(&survey.Select{
				Message: "Replacement action:",
				Options: []string{"rename function", "remove call", "push parameter"},
			}, &action); err != nil {
				return err
			}

			wire := map[string]interface{}{
				"find": map[string]interface{}{"function_name": functionName},
			}

			switch action {
			case "rename function":
				var newName string
				if err := survey.AskOne(&survey.Input{Message: "New function name:"}, &newName, survey.WithValidator(survey.Required)); err != nil {
					return err
				}
				wire["with"] = map[string]interface{}{"name": newName}
			case "remove call":
				wire["with"] = map[string]interface{}{"remove": true}
			case "push parameter":
				var paramName, paramValue string
				if err := survey.AskOne(&survey.Input{Message: "Parameter name (blank for positional):"}, &paramName); err != nil {
					return err
				}
				if err := survey.AskOne(&survey.Input{Message: "Parameter value:"}, &paramValue, survey.WithValidator(survey.Required)); err != nil {
					return err
				}
				param := map[string]interface{}{"value": paramValue}
				if paramName != "" {
					param["name"] = paramName
				}
				wire["with"] = map[string]interface{}{
					"parameter": map[string]interface{}{"push": param},
				}
			}

			existing := []map[string]interface{}{}
			if raw, err := os.ReadFile(commandsPath); err == nil {
				_ = yaml.Unmarshal(raw, &existing)
			}
			existing = append(existing, wire)

			out, err := yaml.Marshal(existing)
			if err != nil {
				return fmt.Errorf("marshal commands: %w", err)
			}
			if err := os.WriteFile(commandsPath, out, 0o644); err != nil {
				return fmt.Errorf("write commands file: %w", err)
			}

			color.Green("appended command for %s to %s", functionName, commandsPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&commandsPath, "commands", "replace-commands.yaml", "path to the replace-commands file to append to")
	return cmd
}
