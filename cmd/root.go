package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command for the meetlink application
var rootCmd = &cobra.Command{
	Use:   "meetlink",
	Short: "Creates a Google Calendar event with a Google Meet link",
	Long: `meetlink authenticates against Google Calendar, keeps the OAuth credential
in a local file and creates a calendar event with an auto-generated Google
Meet link.

The first run opens the Google consent page in your browser. Later runs reuse
the stored credential and refresh it silently when it has expired.`,
	SilenceUsage: true,
}

// version will be set by main
var version = "dev"

// SetVersion sets the version for the root command
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

// Execute is the main entry point for the CLI application
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "meetlink version %s\n" .Version}}`)

	// If no subcommand is provided, run the create command by default
	if len(os.Args) == 1 {
		os.Args = append(os.Args, "create")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(newCreateCmd())
	rootCmd.AddCommand(newAuthCmd())
	rootCmd.AddCommand(newVersionCmd())
}
