package main

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/ironsheep/lab-hue-mcp/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "lab-hue-mcp",
	Short: "Rotate image hue in CIE L*a*b* space",
	Long: `lab-hue-mcp rotates the hue of RGB images in CIE L*a*b* space, keeping
lightness untouched.

Run without a subcommand it serves the MCP protocol over stdin/stdout.

Environment variables:
  LAB_HUE_LOG_LEVEL=debug    Enable debug logging
  LAB_HUE_DIVISOR=<n>        Fixed-point divisor for the server (power of two, 256-16384)`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// Configure logging to stderr (stdout is for MCP protocol)
		log.SetOutput(os.Stderr)
		log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	},
	RunE: runServe,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func serverConfig() server.Config {
	cfg := server.ConfigFromEnv()
	if Version != "dev" {
		cfg.Version = Version
	}
	return cfg
}
