package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/normaq/internal/core/domain"
)

var (
	queryLimit int
	queryJSON  bool
)

var queryCmd = &cobra.Command{
	Use:   "query [question]",
	Short: "Ask a question about the stored documents",
	Long: `Embeds the question, retrieves the most similar documents and asks the
generation model to answer using them as context.

When the generation model is unavailable the retrieved documents are still
shown and the answer is marked as degraded.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runQuery,
}

func init() {
	queryCmd.Flags().IntVarP(&queryLimit, "limit", "n", domain.DefaultResultLimit,
		fmt.Sprintf("number of documents to retrieve (%d-%d)", domain.MinResultLimit, domain.MaxResultLimit))
	queryCmd.Flags().BoolVar(&queryJSON, "json", false, "output the result as JSON")
	rootCmd.AddCommand(queryCmd)
}

func runQuery(cmd *cobra.Command, args []string) error {
	if retrievalPipeline == nil {
		return errors.New("retrieval pipeline not configured")
	}

	q := domain.Query{
		Question:    strings.Join(args, " "),
		ResultLimit: queryLimit,
	}

	result, err := retrievalPipeline.Query(commandContext(cmd), q)
	if err != nil {
		return fmt.Errorf("query failed: %w", err)
	}

	if queryJSON {
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal result: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	printQueryResult(cmd, result)
	return nil
}

func printQueryResult(cmd *cobra.Command, result *domain.RetrievalResult) {
	cmd.Println("Answer:")
	cmd.Println()
	cmd.Printf("  %s\n", strings.ReplaceAll(strings.TrimSpace(result.Answer), "\n", "\n  "))
	cmd.Println()

	if result.Degraded {
		cmd.Println("Note: the generation model did not answer; showing retrieved documents only.")
		cmd.Println()
	}

	if len(result.Documents) == 0 {
		cmd.Println("No documents matched.")
	} else {
		cmd.Println("Sources:")
		cmd.Println()
		for i := range result.Documents {
			doc := result.Documents[i]
			similarity := 0.0
			if doc.Similarity != nil {
				similarity = *doc.Similarity
			}
			cmd.Printf("  [%d] %s (%.2f)\n", i+1, doc.Title, similarity)
			cmd.Printf("      %s | %s\n", doc.ID, doc.Kind)
		}
		cmd.Println()
	}

	var footer []string
	if result.ModelName != nil {
		footer = append(footer, "model: "+*result.ModelName)
	}
	if result.ElapsedSeconds != nil {
		footer = append(footer, fmt.Sprintf("time: %.2fs", *result.ElapsedSeconds))
	}
	if len(footer) > 0 {
		cmd.Println(strings.Join(footer, ", "))
	}
}
