package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/normaq/internal/adapters/driving/api"
)

var (
	serveAddr    string
	serveOrigins []string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long: `Starts the JSON HTTP API over the stored documents.

Endpoints:
  POST   /documents        add a document
  GET    /documents        list previews (?page=&size=)
  GET    /documents/{id}   fetch a document
  PATCH  /documents/{id}   update a document
  DELETE /documents/{id}   delete a document
  POST   /queries          ask a question
  GET    /status           store and provider status
  GET    /healthz, /readyz probes
  GET    /metrics          Prometheus metrics

The listen address and CORS origins come from the server settings unless
overridden with --addr and --origin.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVarP(&serveAddr, "addr", "a", "", "listen address (default from settings)")
	serveCmd.Flags().StringSliceVar(&serveOrigins, "origin", nil, "allowed CORS origin (repeatable)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg := api.Config{
		Addr:           serverSettings.Addr,
		AllowedOrigins: serverSettings.AllowedOrigins,
	}
	if serveAddr != "" {
		cfg.Addr = serveAddr
	}
	if len(serveOrigins) > 0 {
		cfg.AllowedOrigins = serveOrigins
	}

	server, err := api.NewServer(cfg, api.Services{
		Pipeline: retrievalPipeline,
		Catalog:  documentCatalog,
		Status:   statusService,
	})
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(commandContext(cmd))
	defer cancel()

	watchPrompts(ctx)

	cmd.Printf("normaq API listening on %s\n", server.Addr())
	if err := server.ListenAndServe(ctx); err != nil {
		return fmt.Errorf("serve: %w", err)
	}
	return nil
}
