package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var statusJSON bool

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show store and provider status",
	Long: `Shows the configured store, the number of stored documents and the
embedding and generation models, probing whether the generation model is
reachable.`,
	Args: cobra.NoArgs,
	RunE: runStatus,
}

func init() {
	statusCmd.Flags().BoolVar(&statusJSON, "json", false, "output as JSON")
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, _ []string) error {
	if statusService == nil {
		return errors.New("status service not configured")
	}

	status, err := statusService.Status(commandContext(cmd))
	if err != nil {
		return fmt.Errorf("failed to get status: %w", err)
	}

	if statusJSON {
		return printJSON(cmd, status)
	}

	cmd.Println("normaq status")
	cmd.Println()
	cmd.Printf("  Store:       %s (%s)\n", status.StoreBackend, status.DistanceMetric)
	cmd.Printf("  Documents:   %d\n", status.DocumentCount)
	cmd.Printf("  Embedding:   %s (%d dimensions)\n", status.EmbeddingModel, status.EmbeddingDimensions)

	generation := status.GenerationModel
	if generation == "" {
		generation = "not configured"
	}
	availability := "unavailable"
	if status.GenerationAvailable {
		availability = "available"
	}
	cmd.Printf("  Generation:  %s (%s)\n", generation, availability)

	if len(status.AvailableModels) > 0 {
		cmd.Printf("  Models:      %s\n", strings.Join(status.AvailableModels, ", "))
	}
	return nil
}
