package cli

import (
	"fmt"

	"github.com/harrisonrobin/taskmate/pkg/config"
	"github.com/harrisonrobin/taskmate/pkg/google"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or change configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

var configSetSheetCmd = &cobra.Command{
	Use:   "set-sheet <url>",
	Short: "Set the spreadsheet holding the task list",
	Long: `Store the spreadsheet URL (or ID) in the config file and switch the
backend to sheets. Use --worksheet to pick a sheet other than the first.`,
	Args: cobra.ExactArgs(1),
	RunE: runConfigSetSheet,
}

func init() {
	configSetSheetCmd.Flags().String("worksheet", "", "Worksheet title (default first sheet)")

	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetSheetCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, _, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "backend:            %s\n", cfg.Backend)
	fmt.Fprintf(out, "sheets.url:         %s\n", cfg.Sheets.URL)
	fmt.Fprintf(out, "sheets.worksheet:   %s\n", cfg.Sheets.Worksheet)
	fmt.Fprintf(out, "sheets.credentials: %s\n", cfg.Sheets.Credentials)
	fmt.Fprintf(out, "sqlite.path:        %s\n", cfg.SQLite.Path)
	fmt.Fprintf(out, "cache.ttl:          %s\n", cfg.Cache.TTL)
	fmt.Fprintf(out, "server.addr:        %s\n", cfg.Server.Addr)
	fmt.Fprintf(out, "log.level:          %s\n", cfg.Log.Level)
	return nil
}

func runConfigSetSheet(cmd *cobra.Command, args []string) error {
	path, _ := cmd.Flags().GetString("config")
	if _, err := google.SpreadsheetID(args[0]); err != nil {
		return err
	}
	if err := config.Set(path, "sheets.url", args[0]); err != nil {
		return fmt.Errorf("error saving config: %w", err)
	}
	if err := config.Set(path, "backend", config.BackendSheets); err != nil {
		return fmt.Errorf("error saving config: %w", err)
	}
	if worksheet, _ := cmd.Flags().GetString("worksheet"); worksheet != "" {
		if err := config.Set(path, "sheets.worksheet", worksheet); err != nil {
			return fmt.Errorf("error saving config: %w", err)
		}
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Task sheet set to: %s\n", args[0])
	return nil
}
