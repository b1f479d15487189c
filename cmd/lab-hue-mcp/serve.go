package main

import (
	"log"

	"github.com/spf13/cobra"

	"github.com/ironsheep/lab-hue-mcp/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve MCP tools over stdin/stdout",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := serverConfig()
	if cfg.Debug {
		log.Printf("Lab Hue MCP Server v%s (built %s, commit %s), divisor %d", Version, BuildTime, GitCommit, cfg.Divisor)
	}

	srv := server.New(cfg)
	if err := srv.Run(); err != nil {
		log.Printf("Server error: %v", err)
		return err
	}
	return nil
}
