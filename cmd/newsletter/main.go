package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/joho/godotenv/autoload"
	"github.com/spf13/cobra"

	"theforum/internal/app"
	"theforum/internal/config"
	"theforum/internal/export"
	"theforum/internal/logger"
	"theforum/internal/model"
)

const exportExample = `  newsletter export June-2025
  newsletter export June-2025 --format md --out ./dist`

var (
	settingsPath string
	exportFormat string
	outDir       string
)

var rootCmd = &cobra.Command{
	Use:          "newsletter",
	Short:        "Operator tool for The Forum newsletter",
	Long:         `Inspect the prompt set, run database migrations and export monthly newsletters without the HTTP server.`,
	SilenceUsage: true,
}

var promptsCmd = &cobra.Command{
	Use:   "prompts",
	Short: "Print the prompt set and the form field for each answer",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, err := config.LoadSettings(resolveSettingsPath())
		if err != nil {
			return err
		}
		for i, p := range settings.PromptSet() {
			fmt.Fprintf(cmd.OutOrStdout(), "answer_%d\t%s\n", i, p)
		}
		return nil
	},
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the submissions schema if it does not exist",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()
		db, err := app.OpenDatabase(cmd.Context(), cfg, logger.New(cfg.Log))
		if err != nil {
			return err
		}
		return db.Close()
	},
}

var exportCmd = &cobra.Command{
	Use:     "export <month>",
	Short:   "Compile a month's submissions and write the newsletter to a file",
	Example: exportExample,
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		monthKey := args[0]
		if _, err := model.ParseMonthKey(monthKey); err != nil {
			return fmt.Errorf("month must look like June-2025: %w", err)
		}
		format, err := export.ParseFormat(exportFormat)
		if err != nil {
			return err
		}

		cfg := config.Load()
		cfg.SettingsPath = resolveSettingsPath()
		log := logger.New(cfg.Log)

		svc, err := app.Build(cmd.Context(), cfg, log, nil)
		if err != nil {
			return err
		}
		defer svc.Close()

		art, err := svc.Newsletter.Export(cmd.Context(), monthKey, format)
		if err != nil {
			return err
		}

		if err := os.MkdirAll(outDir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
		path := filepath.Join(outDir, art.Filename)
		if err := os.WriteFile(path, art.Data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), path)
		return nil
	},
}

// resolveSettingsPath prefers --settings over NEWSLETTER_SETTINGS.
func resolveSettingsPath() string {
	if settingsPath != "" {
		return settingsPath
	}
	return os.Getenv("NEWSLETTER_SETTINGS")
}

func init() {
	rootCmd.PersistentFlags().StringVar(&settingsPath, "settings", "", "Path to newsletter settings YAML")
	exportCmd.Flags().StringVar(&exportFormat, "format", "pdf", "Export format: pdf, html or md")
	exportCmd.Flags().StringVar(&outDir, "out", ".", "Directory to write the export into")

	rootCmd.AddCommand(promptsCmd, migrateCmd, exportCmd)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
