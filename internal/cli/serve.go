package cli

import (
	"github.com/spf13/cobra"

	"github.com/ppiankov/veridict/internal/server"
)

var serveAddr string

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the verification HTTP API",
	Long: `Serve exposes the pipeline over HTTP:

  POST /api/verify        - verify a claim
  GET  /api/results       - list stored results
  GET  /api/results/:key  - fetch one result
  GET  /health            - health and configuration status

Example:
  veridict serve
  veridict serve --addr :9000`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default :8000)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	if serveAddr != "" {
		cfg.Server.Addr = serveAddr
	}

	logger, err := newLogger()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	p, sessions, err := buildPipeline(cfg, logger)
	if err != nil {
		return err
	}

	return server.New(cfg, p, sessions, logger).Run(cfg.Server.Addr)
}
