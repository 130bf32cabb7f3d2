package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ludo-technologies/codopsy/internal/config"
	"github.com/ludo-technologies/codopsy/internal/constants"
	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
)

func initCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init [dir]",
		Short: "Generate a .codopsyrc.json configuration file",
		Long: `Generate a .codopsyrc.json rule configuration in the given directory
(default: the current directory).

Examples:
  # Create .codopsyrc.json with the recommended rules
  codopsy init

  # Overwrite an existing file
  codopsy init --force

  # Start from a stricter preset
  codopsy init --preset strict

  # Pick a preset interactively
  codopsy init -i`,
		Args: cobra.MaximumNArgs(1),
		RunE: runInit,
	}

	cmd.Flags().BoolP("force", "f", false,
		"Overwrite an existing config file")
	cmd.Flags().StringP("preset", "p", string(config.PresetRecommended),
		"Preset to start from: recommended, strict, minimal")
	cmd.Flags().BoolP("interactive", "i", false,
		"Choose a preset interactively")

	return cmd
}

func runInit(cmd *cobra.Command, args []string) error {
	force, _ := cmd.Flags().GetBool("force")
	presetName, _ := cmd.Flags().GetString("preset")
	interactive, _ := cmd.Flags().GetBool("interactive")
	out := cmd.OutOrStdout()

	dir := "."
	if len(args) > 0 {
		dir = args[0]
	}
	targetDir, err := filepath.Abs(dir)
	if err != nil {
		return fmt.Errorf("invalid directory %s: %w", dir, err)
	}
	configPath := filepath.Join(targetDir, constants.ConfigFileName)

	if _, err := os.Stat(configPath); err == nil && !force {
		fmt.Fprintf(out, "%s already exists at %s\n", constants.ConfigFileName, configPath)
		fmt.Fprintln(out, "Use --force to overwrite.")
		return nil
	}

	preset, err := config.ParsePreset(presetName)
	if err != nil {
		return err
	}
	if interactive {
		preset, err = selectPreset()
		if err != nil {
			return err
		}
	}

	content, err := config.GetPresetTemplate(preset)
	if err != nil {
		return fmt.Errorf("failed to render %s preset: %w", preset, err)
	}
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	fmt.Fprintf(out, "Created %s\n", configPath)
	return nil
}

func selectPreset() (config.Preset, error) {
	presets := config.GetPresets()
	items := make([]struct {
		Label       string
		Description string
	}, len(presets))
	for i, p := range presets {
		items[i].Label = string(p.Name)
		items[i].Description = p.Description
	}

	prompt := promptui.Select{
		Label: "Which preset should the configuration start from?",
		Items: items,
		Templates: &promptui.SelectTemplates{
			Label:    "{{ . }}",
			Active:   "\U0001F449 {{ .Label | cyan }} - {{ .Description | faint }}",
			Inactive: "   {{ .Label | white }} - {{ .Description | faint }}",
			Selected: "\U00002705 {{ .Label | green }}",
		},
	}

	idx, _, err := prompt.Run()
	if err != nil {
		return "", fmt.Errorf("preset selection cancelled: %w", err)
	}
	return presets[idx].Name, nil
}
