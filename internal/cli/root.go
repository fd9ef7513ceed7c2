package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/charliek/slotview/internal/constants"
	"github.com/charliek/slotview/internal/tui"
	"github.com/charliek/slotview/internal/viewer"
)

// Version is set during build
var Version = "dev"

// runFunc starts the interactive viewer
type runFunc func(ctx context.Context, state *viewer.State, follower tui.Follower, opts tui.Options) error

// App is the slotview command line application
type App struct {
	stdout io.Writer
	stderr io.Writer
	run    runFunc
}

// NewApp creates the application wired to the real terminal
func NewApp() *App {
	return &App{
		stdout: os.Stdout,
		stderr: os.Stderr,
		run:    tui.Run,
	}
}

// flags holds the values of the command line flags
type flags struct {
	configPath string
	follow     bool
	patterns   []string
	envFile    string
	debugLog   string
	logLevel   string
	keepBlank  bool
}

// Run executes the command line and returns the process exit code
func (a *App) Run(args []string) int {
	cmd := a.newRootCmd()
	if len(args) > 0 {
		args = args[1:]
	}
	cmd.SetArgs(args)

	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(a.stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// newRootCmd builds the command tree. A fresh tree per run keeps flag
// state out of package globals.
func (a *App) newRootCmd() *cobra.Command {
	f := &flags{}

	rootCmd := &cobra.Command{
		Use:   constants.AppName + " [flags] <file>",
		Short: "An interactive log viewer with numbered filter slots",
		Long: `slotview shows a log file in the terminal and filters it with up to
nine saved regular expressions:
  - Press / to type a pattern; it is saved to a numbered slot
  - Press 1-9 to show only lines matching that slot, 0 to show everything
  - Alt+1-9 edits the pattern in a slot
  - Optionally follows the file as it grows`,
		Version:       Version,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runViewer(cmd, args[0], f)
		},
	}

	rootCmd.SetOut(a.stdout)
	rootCmd.SetErr(a.stderr)

	rootCmd.Flags().StringVarP(&f.configPath, "config", "c", "", "Config file (default: search slotview.yaml, .slotview.toml, ...)")
	rootCmd.Flags().BoolVarP(&f.follow, "follow", "f", false, "Keep reading lines appended to the file")
	rootCmd.Flags().StringArrayVarP(&f.patterns, "pattern", "p", nil, "Preset a slot as N=EXPR (repeatable)")
	rootCmd.Flags().StringVar(&f.envFile, "env-file", "", "Load environment variables from this file (default: .env if present)")
	rootCmd.Flags().StringVar(&f.debugLog, "debug-log", "", "Write JSON debug logs to this file")
	rootCmd.Flags().StringVar(&f.logLevel, "log-level", "", "Debug log level (DEBUG, INFO, WARN, ERROR)")
	rootCmd.Flags().BoolVar(&f.keepBlank, "keep-blank", false, "Keep blank and whitespace-only lines")

	// Set version template
	rootCmd.SetVersionTemplate(constants.AppName + " version {{.Version}}\n")

	// Add subcommands
	rootCmd.AddCommand(a.newVersionCmd())

	return rootCmd
}

// newVersionCmd creates the version command
func (a *App) newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s version %s\n", constants.AppName, Version)
		},
	}
}
