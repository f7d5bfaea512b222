package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/kalambet/ptm/internal/config"
)

var version = "dev"

var (
	noColor bool
	cfg     config.Config
)

var rootCmd = &cobra.Command{
	Use:   "ptm",
	Short: "Personal time manager: calendar, jobs and schoolwork",
	Long: `ptm keeps a calendar of events, a list of job applications and
schoolwork to-dos with a weekly study plan, all stored locally.

Examples:
  ptm calendar add --title "Dentist" --date 2024-03-20
  ptm jobs add --title "Summer internship" --company Acme --status pending
  ptm todos add Read chapter 4 --due 2024-03-18
  ptm plan add --day Thu --subject Physics --time 4-5pm`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if !term.IsTerminal(int(os.Stderr.Fd())) {
			noColor = true
		}

		loaded, err := config.Load()
		if err != nil {
			// Let `ptm config` repair a broken value.
			if cmd.Parent() != configCmd {
				return err
			}
			printWarning("%v", err)
		}
		cfg = loaded

		logLevel := slog.LevelInfo
		if strings.EqualFold(cfg.Log.Level, "debug") {
			logLevel = slog.LevelDebug
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})))
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the ptm version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "ptm version %s\n", version)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable coloured output")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(homeCmd)
	rootCmd.AddCommand(calendarCmd)
	rootCmd.AddCommand(jobsCmd)
	rootCmd.AddCommand(todosCmd)
	rootCmd.AddCommand(planCmd)
	rootCmd.AddCommand(dataCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(stopCmd)
	rootCmd.AddCommand(statusCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
