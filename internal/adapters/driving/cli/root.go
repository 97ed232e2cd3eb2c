// Package cli provides the cobra command tree for normaq.
package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/normaq/internal/core/domain"
	"github.com/custodia-labs/normaq/internal/core/ports/driving"
	"github.com/custodia-labs/normaq/internal/logger"
)

// version is set at build time via SetVersion.
var version = "dev"

var verbose bool

// Services injected by main.
var (
	retrievalPipeline driving.RetrievalPipeline
	documentCatalog   driving.DocumentCatalog
	documentIngestor  driving.DocumentIngestor
	settingsService   driving.SettingsService
	statusService     driving.StatusService
	promptWatcher     PromptWatcher
	serverSettings    domain.ServerSettings
)

// PromptWatcher reloads prompt templates while a long-running command is active.
type PromptWatcher interface {
	Watch(ctx context.Context) error
}

// Services aggregates the driving ports the commands call.
type Services struct {
	Pipeline driving.RetrievalPipeline
	Catalog  driving.DocumentCatalog
	Ingestor driving.DocumentIngestor
	Settings driving.SettingsService
	Status   driving.StatusService
	Prompts  PromptWatcher
	Server   domain.ServerSettings
}

var rootCmd = &cobra.Command{
	Use:   "normaq",
	Short: "Ask questions about your normative documents",
	Long: `normaq stores normative documents, procedures and policies, indexes them by
semantic embedding and answers natural-language questions using the most
relevant documents as context for a language model.

Run 'normaq settings wizard' to configure the embedding and generation
providers, then add documents with 'normaq document add'.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose || logger.IsVerbose())
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// SetVersion sets the version reported by 'normaq version'.
func SetVersion(v string) {
	version = v
}

// SetServices wires the driving ports into the command tree.
func SetServices(s Services) {
	retrievalPipeline = s.Pipeline
	documentCatalog = s.Catalog
	documentIngestor = s.Ingestor
	settingsService = s.Settings
	statusService = s.Status
	promptWatcher = s.Prompts
	serverSettings = s.Server
}

// SetSettingsService wires only the settings port. It lets the settings
// commands run when the providers or the store cannot be constructed.
func SetSettingsService(s driving.SettingsService) {
	settingsService = s
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// ExecuteContext runs the root command with ctx.
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// commandContext returns the command's context, or Background when unset.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
