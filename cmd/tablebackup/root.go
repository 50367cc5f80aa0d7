package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("213"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9")).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("10")).
			Bold(true)

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))
)

var rootCmd = &cobra.Command{
	Use:   "tablebackup",
	Short: "scheduled DynamoDB backups with cross-account export and retention",
	Long: "tablebackup creates an on-demand backup of a table, exports it to one or more\n" +
		"destination buckets and deletes generated backups older than the retention period.",

	SilenceErrors: true,
	SilenceUsage:  true,
}

// SetVersionInfo sets the version reported by --version
func SetVersionInfo(v, bt, gc string) {
	rootCmd.Version = fmt.Sprintf("%s (built: %s, commit: %s)", v, bt, gc)
}

// Execute runs the root command and exits non-zero on failure
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render(fmt.Sprintf("[error] %v", err)))
		os.Exit(exitCodeOf(err))
	}
}

// exitError carries the process exit code of a failed command
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	return e.err.Error()
}

func (e *exitError) Unwrap() error {
	return e.err
}

// exitCodeOf returns the exit code for an error returned by a command
func exitCodeOf(err error) int {
	var exitErr *exitError
	if errors.As(err, &exitErr) {
		return exitErr.code
	}
	return exitFailure
}

func init() {
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().Bool("log-json", false, "log in JSON instead of text")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(exportsCmd)
}

func newLogger(cmd *cobra.Command) *slog.Logger {
	levelName, _ := cmd.Flags().GetString("log-level")
	asJSON, _ := cmd.Flags().GetBool("log-json")

	var level slog.Level
	switch strings.ToLower(levelName) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	if asJSON {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}
