package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/normaq/internal/core/domain"
	"github.com/custodia-labs/normaq/internal/core/ports/driving"
)

const timeLayout = "2006-01-02 15:04:05"

var documentCmd = &cobra.Command{
	Use:     "document",
	Aliases: []string{"doc"},
	Short:   "Manage stored documents",
	Long:    `Add, list, view, update and delete documents, or bulk-load them from JSON or files.`,
}

var documentAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a document",
	Long: `Adds a document and indexes it by embedding its title and content.

Content is read from --content, from --file, or from stdin when --file is "-".`,
	Args: cobra.NoArgs,
	RunE: runDocumentAdd,
}

var documentListCmd = &cobra.Command{
	Use:   "list",
	Short: "List documents",
	Long: `Lists document previews in insertion order.

Set both --page and --size to paginate; with only one of them the full list is
shown. Values below 1 are treated as 1.`,
	Args:  cobra.NoArgs,
	RunE:  runDocumentList,
}

var documentGetCmd = &cobra.Command{
	Use:   "get [doc-id]",
	Short: "Show a document",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentGet,
}

var documentUpdateCmd = &cobra.Command{
	Use:   "update [doc-id]",
	Short: "Update a document",
	Long:  `Updates the given fields. Changing the title or content re-indexes the document.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentUpdate,
}

var documentDeleteCmd = &cobra.Command{
	Use:     "delete [doc-id]",
	Aliases: []string{"rm"},
	Short:   "Delete a document",
	Args:    cobra.ExactArgs(1),
	RunE:    runDocumentDelete,
}

var documentIngestCmd = &cobra.Command{
	Use:   "ingest [file...]",
	Short: "Add documents from files",
	Long: `Extracts the text of each file and stores it as a document.

Markdown, HTML, DOCX and plain text files are supported. The title comes from
the file (first heading, <title> or document properties) and falls back to
the file name. Long files are stored as several "part n of m" documents.
Files that fail are reported and the rest are still stored.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runDocumentIngest,
}

var documentImportCmd = &cobra.Command{
	Use:   "import [file]",
	Short: "Import documents from a JSON file",
	Long: `Imports a JSON array of documents:

  [{"title": "...", "content": "...", "kind": "policy"}, ...]

All documents are validated before any is embedded. Use "-" to read stdin.`,
	Args: cobra.ExactArgs(1),
	RunE: runDocumentImport,
}

// Flags shared by add and update.
var (
	docTitle   string
	docContent string
	docFile    string
	docKind    string
)

// Flags for list and get.
var (
	listPage int
	listSize int
	docJSON  bool
)

func init() {
	for _, c := range []*cobra.Command{documentAddCmd, documentUpdateCmd} {
		c.Flags().StringVarP(&docTitle, "title", "t", "", "document title")
		c.Flags().StringVarP(&docContent, "content", "c", "", "document content")
		c.Flags().StringVarP(&docFile, "file", "f", "", "read content from a file (- for stdin)")
		c.Flags().StringVarP(&docKind, "kind", "k", "", "document kind ("+kindList()+")")
	}

	documentIngestCmd.Flags().StringVarP(&docTitle, "title", "t", "", "document title (single file only)")
	documentIngestCmd.Flags().StringVarP(&docKind, "kind", "k", "", "document kind ("+kindList()+")")

	documentListCmd.Flags().IntVar(&listPage, "page", 0, "page number (1-based)")
	documentListCmd.Flags().IntVar(&listSize, "size", 0, "page size")
	documentListCmd.Flags().BoolVar(&docJSON, "json", false, "output as JSON")
	documentGetCmd.Flags().BoolVar(&docJSON, "json", false, "output as JSON")

	documentCmd.AddCommand(documentAddCmd)
	documentCmd.AddCommand(documentListCmd)
	documentCmd.AddCommand(documentGetCmd)
	documentCmd.AddCommand(documentUpdateCmd)
	documentCmd.AddCommand(documentDeleteCmd)
	documentCmd.AddCommand(documentImportCmd)
	documentCmd.AddCommand(documentIngestCmd)
	rootCmd.AddCommand(documentCmd)
}

func kindList() string {
	kinds := domain.AllKinds()
	names := make([]string, 0, len(kinds))
	for _, k := range kinds {
		names = append(names, k.String())
	}
	return strings.Join(names, ", ")
}

func runDocumentAdd(cmd *cobra.Command, _ []string) error {
	if documentCatalog == nil {
		return errors.New("document catalog not configured")
	}

	content, err := resolveContent(cmd, docContent, docFile)
	if err != nil {
		return err
	}

	req := driving.CreateDocumentRequest{
		Title:   docTitle,
		Content: content,
		Kind:    domain.Kind(docKind),
	}

	id, err := documentCatalog.Create(commandContext(cmd), req)
	if err != nil {
		return fmt.Errorf("failed to add document: %w", err)
	}

	cmd.Printf("Document added: %s\n", id)
	return nil
}

func runDocumentList(cmd *cobra.Command, _ []string) error {
	if documentCatalog == nil {
		return errors.New("document catalog not configured")
	}

	var page, size *int
	if cmd.Flags().Changed("page") {
		page = &listPage
	}
	if cmd.Flags().Changed("size") {
		size = &listSize
	}

	result, err := documentCatalog.List(commandContext(cmd), page, size)
	if err != nil {
		return fmt.Errorf("failed to list documents: %w", err)
	}

	if docJSON {
		return printJSON(cmd, result)
	}

	if len(result.Documents) == 0 {
		cmd.Println("No documents found.")
		return nil
	}

	for i := range result.Documents {
		d := result.Documents[i]
		cmd.Printf("  %s\n", d.ID)
		cmd.Printf("    Title: %s\n", d.Title)
		cmd.Printf("    Kind:  %s\n", d.Kind)
		cmd.Println()
	}

	if result.Page > 0 {
		cmd.Printf("Page %d (size %d), %d documents in total\n", result.Page, result.Size, result.Total)
	} else {
		cmd.Printf("Total: %d documents\n", result.Total)
	}
	return nil
}

func runDocumentGet(cmd *cobra.Command, args []string) error {
	if documentCatalog == nil {
		return errors.New("document catalog not configured")
	}

	doc, err := documentCatalog.Get(commandContext(cmd), args[0])
	if err != nil {
		return fmt.Errorf("failed to get document: %w", err)
	}

	if docJSON {
		return printJSON(cmd, doc)
	}

	cmd.Printf("Document: %s\n\n", doc.ID)
	cmd.Printf("  Title:    %s\n", doc.Title)
	cmd.Printf("  Kind:     %s\n", doc.Kind)
	cmd.Printf("  Created:  %s\n", doc.CreatedAt.Local().Format(timeLayout))
	cmd.Println()
	cmd.Println(doc.Content)
	return nil
}

func runDocumentUpdate(cmd *cobra.Command, args []string) error {
	if documentCatalog == nil {
		return errors.New("document catalog not configured")
	}

	var req driving.UpdateDocumentRequest
	if cmd.Flags().Changed("title") {
		req.Title = &docTitle
	}
	if cmd.Flags().Changed("content") || cmd.Flags().Changed("file") {
		content, err := resolveContent(cmd, docContent, docFile)
		if err != nil {
			return err
		}
		req.Content = &content
	}
	if cmd.Flags().Changed("kind") {
		kind := domain.Kind(docKind)
		req.Kind = &kind
	}
	if req.Title == nil && req.Content == nil && req.Kind == nil {
		return errors.New("nothing to update: set --title, --content, --file or --kind")
	}

	doc, err := documentCatalog.Update(commandContext(cmd), args[0], req)
	if err != nil {
		return fmt.Errorf("failed to update document: %w", err)
	}

	cmd.Printf("Document updated: %s (%s)\n", doc.ID, doc.Title)
	return nil
}

func runDocumentDelete(cmd *cobra.Command, args []string) error {
	if documentCatalog == nil {
		return errors.New("document catalog not configured")
	}

	if err := documentCatalog.Delete(commandContext(cmd), args[0]); err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}

	cmd.Printf("Document %s deleted.\n", args[0])
	return nil
}

func runDocumentImport(cmd *cobra.Command, args []string) error {
	if documentCatalog == nil {
		return errors.New("document catalog not configured")
	}

	data, err := readSource(cmd, args[0])
	if err != nil {
		return err
	}

	var reqs []driving.CreateDocumentRequest
	if err := json.Unmarshal(data, &reqs); err != nil {
		return fmt.Errorf("failed to parse %s: %w", args[0], err)
	}

	ids, err := documentCatalog.Import(commandContext(cmd), reqs)
	if err != nil {
		if len(ids) > 0 {
			cmd.Printf("Imported %d documents before the failure.\n", len(ids))
		}
		return fmt.Errorf("failed to import documents: %w", err)
	}

	cmd.Printf("Imported %d documents.\n", len(ids))
	for _, id := range ids {
		cmd.Printf("  %s\n", id)
	}
	return nil
}

func runDocumentIngest(cmd *cobra.Command, args []string) error {
	if documentIngestor == nil {
		return errors.New("document ingestor not configured")
	}
	if docTitle != "" && len(args) > 1 {
		return errors.New("--title can only be used with a single file")
	}

	var failed []error
	for _, path := range args {
		data, err := readSource(cmd, path)
		if err != nil {
			failed = append(failed, err)
			cmd.Printf("  FAILED %s: %v\n", path, err)
			continue
		}

		result, err := documentIngestor.Ingest(commandContext(cmd), driving.IngestFileRequest{
			Name:    path,
			Content: data,
			Title:   docTitle,
			Kind:    domain.Kind(docKind),
		})
		if err != nil {
			failed = append(failed, err)
			cmd.Printf("  FAILED %s: %v\n", path, err)
			continue
		}
		cmd.Printf("  %s -> %s (%s, %s)\n", path, strings.Join(result.IDs, ", "), result.Title, result.Format)
	}

	stored := len(args) - len(failed)
	cmd.Printf("Ingested %d of %d files.\n", stored, len(args))
	if len(failed) > 0 {
		return fmt.Errorf("failed to ingest %d files: %w", len(failed), errors.Join(failed...))
	}
	return nil
}

// resolveContent returns inline content, or reads it from file when set.
func resolveContent(cmd *cobra.Command, inline, file string) (string, error) {
	if file == "" {
		return inline, nil
	}
	if inline != "" {
		return "", errors.New("--content and --file are mutually exclusive")
	}
	data, err := readSource(cmd, file)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// readSource reads a file, or the command's stdin for "-".
func readSource(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return data, nil
}

func printJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	cmd.Println(string(data))
	return nil
}
