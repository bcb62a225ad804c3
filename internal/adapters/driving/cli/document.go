package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/corpus-cli/internal/core/domain"
)

var docCmd = &cobra.Command{
	Use:   "doc",
	Short: "Manage documents within stores",
	Long:  `Upload, import, list, inspect, and delete documents, and update their metadata.`,
}

var docUploadCmd = &cobra.Command{
	Use:   "upload [store] [file]",
	Short: "Upload a file into a store",
	Long: `Reads a local file and uploads it into a store. Indexing is asynchronous;
the printed operation can be polled with 'corpus op status' or awaited
here with --wait.

Metadata values are typed by shape: numbers become numeric entries and
comma-separated values become string lists.`,
	Args: cobra.ExactArgs(2),
	RunE: runDocUpload,
}

var docImportCmd = &cobra.Command{
	Use:   "import [store] [files/id]",
	Short: "Import an already-registered file service resource",
	Args:  cobra.ExactArgs(2),
	RunE:  runDocImport,
}

var docListCmd = &cobra.Command{
	Use:   "list [store]",
	Short: "List documents in a store",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocList,
}

var docGetCmd = &cobra.Command{
	Use:   "get [document]",
	Short: "Show document info",
	Long:  `Shows one document by its full resource name, "fileSearchStores/<id>/documents/<id>".`,
	Args:  cobra.ExactArgs(1),
	RunE:  runDocGet,
}

var docDeleteCmd = &cobra.Command{
	Use:   "delete [document]",
	Short: "Delete a document",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocDelete,
}

var docUpdateMetaCmd = &cobra.Command{
	Use:   "update-meta [document] [file]",
	Short: "Replace a document's custom metadata",
	Long: `Replaces a document's custom metadata. The backend has no in-place
update, so this deletes the document and re-uploads it from the given
file; the document name may change.

When the re-upload fails after the delete succeeded, the original bytes
are preserved in the local journal and 'corpus doc recover' replays the
re-upload.`,
	Args: cobra.ExactArgs(2),
	RunE: runDocUpdateMeta,
}

var docRecoverCmd = &cobra.Command{
	Use:   "recover [journal-id]",
	Short: "Replay a partially failed metadata update",
	Long: `Without an argument, lists journalled updates awaiting recovery.
With a journal entry ID, replays that entry's re-upload.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDocRecover,
}

// Flags shared across doc subcommands.
var (
	docDisplayName  string
	docMIMEType     string
	docMeta         []string
	docChunkTokens  int
	docChunkOverlap int
	docUploadWait   bool

	docListPageSize  int
	docListPageToken string
	docDeleteForce   bool
	docUpdateStore   string
)

func init() {
	for _, c := range []*cobra.Command{docUploadCmd, docImportCmd, docUpdateMetaCmd} {
		c.Flags().StringVar(&docDisplayName, "display-name", "", "display name (default: the file name)")
		c.Flags().StringArrayVar(&docMeta, "meta", nil, "custom metadata as key=value (repeatable)")
		c.Flags().IntVar(&docChunkTokens, "chunk-tokens", 0, "max tokens per chunk (0 = configured default)")
		c.Flags().IntVar(&docChunkOverlap, "chunk-overlap", 0, "overlapping tokens between chunks")
	}
	docUploadCmd.Flags().StringVar(&docMIMEType, "mime", "", "MIME type (default: guessed from the file name)")
	docUpdateMetaCmd.Flags().StringVar(&docMIMEType, "mime", "", "MIME type (default: inherited)")
	docUploadCmd.Flags().BoolVar(&docUploadWait, "wait", false, "wait for indexing to finish")

	docListCmd.Flags().IntVar(&docListPageSize, "page-size", 0, "fetch a single page of this size instead of everything")
	docListCmd.Flags().StringVar(&docListPageToken, "page-token", "", "resume listing from a previous page token")
	docDeleteCmd.Flags().BoolVar(&docDeleteForce, "force", false, "force deletion")
	docUpdateMetaCmd.Flags().StringVar(&docUpdateStore, "store", "", "owning store (default: derived from the document name)")

	docCmd.AddCommand(docUploadCmd)
	docCmd.AddCommand(docImportCmd)
	docCmd.AddCommand(docListCmd)
	docCmd.AddCommand(docGetCmd)
	docCmd.AddCommand(docDeleteCmd)
	docCmd.AddCommand(docUpdateMetaCmd)
	docCmd.AddCommand(docRecoverCmd)
	rootCmd.AddCommand(docCmd)
}

func runDocUpload(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errNoBackend
	}

	path := args[1]
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	metadata, err := parseMetadataFlags(docMeta)
	if err != nil {
		return err
	}

	displayName := docDisplayName
	if displayName == "" {
		displayName = filepath.Base(path)
	}

	result, err := documentService.Upload(cmd.Context(), domain.UploadRequest{
		StoreName:   qualifyStoreName(args[0]),
		Content:     content,
		DisplayName: displayName,
		MIMEType:    docMIMEType,
		Chunking: domain.ChunkingConfig{
			MaxTokensPerChunk: docChunkTokens,
			MaxOverlapTokens:  docChunkOverlap,
		},
		Metadata: metadata,
	})
	if err != nil {
		return fmt.Errorf("upload: %w", err)
	}

	cmd.Printf("Upload accepted: %s\n", displayName)
	if result.DocumentName != "" {
		cmd.Printf("  Document:  %s\n", result.DocumentName)
	}
	cmd.Printf("  Operation: %s\n", result.OperationName)

	if docUploadWait {
		return waitAndReport(cmd, result.OperationName)
	}
	cmd.Printf("Poll with: corpus op status %s\n", result.OperationName)
	return nil
}

func runDocImport(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errNoBackend
	}

	metadata, err := parseMetadataFlags(docMeta)
	if err != nil {
		return err
	}

	result, err := documentService.Import(cmd.Context(), domain.ImportRequest{
		StoreName:   qualifyStoreName(args[0]),
		FileName:    args[1],
		DisplayName: docDisplayName,
		Chunking: domain.ChunkingConfig{
			MaxTokensPerChunk: docChunkTokens,
			MaxOverlapTokens:  docChunkOverlap,
		},
		Metadata: metadata,
	})
	if err != nil {
		return fmt.Errorf("import: %w", err)
	}

	cmd.Printf("Import accepted: %s\n", args[1])
	if result.DocumentName != "" {
		cmd.Printf("  Document:  %s\n", result.DocumentName)
	}
	cmd.Printf("  Operation: %s\n", result.OperationName)
	return nil
}

func runDocList(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errNoBackend
	}

	storeName := qualifyStoreName(args[0])
	var (
		docs      []domain.Document
		nextToken string
		err       error
	)
	if docListPageSize > 0 || docListPageToken != "" {
		docs, nextToken, err = documentService.ListPage(cmd.Context(), storeName, docListPageSize, docListPageToken)
	} else {
		docs, err = documentService.List(cmd.Context(), storeName)
	}
	if err != nil {
		return fmt.Errorf("list documents: %w", err)
	}

	if len(docs) == 0 {
		cmd.Printf("No documents in %s.\n", storeName)
		return nil
	}

	cmd.Printf("Documents in %s:\n\n", storeName)
	for i := range docs {
		cmd.Printf("  %s\n", docs[i].Name)
		cmd.Printf("    %s  %s  %s\n", docs[i].DisplayName, docs[i].State, formatBytes(docs[i].SizeBytes))
	}
	cmd.Printf("\nTotal: %d documents\n", len(docs))
	if nextToken != "" {
		cmd.Printf("Next page: --page-token %s\n", nextToken)
	}
	return nil
}

func runDocGet(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errNoBackend
	}

	doc, err := documentService.Get(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("get document: %w", err)
	}

	cmd.Printf("Document: %s\n\n", doc.Name)
	cmd.Printf("  Display name: %s\n", doc.DisplayName)
	cmd.Printf("  State:        %s\n", doc.State)
	cmd.Printf("  MIME type:    %s\n", doc.MIMEType)
	cmd.Printf("  Size:         %s\n", formatBytes(doc.SizeBytes))
	if !doc.CreateTime.IsZero() {
		cmd.Printf("  Created:      %s\n", doc.CreateTime.Format("2006-01-02 15:04:05"))
	}
	if !doc.UpdateTime.IsZero() {
		cmd.Printf("  Updated:      %s\n", doc.UpdateTime.Format("2006-01-02 15:04:05"))
	}
	if len(doc.CustomMetadata) > 0 {
		cmd.Println("\n  Metadata:")
		for _, entry := range doc.CustomMetadata {
			cmd.Printf("    %s: %s\n", entry.Key, formatMetadataValue(entry))
		}
	}
	return nil
}

func runDocDelete(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errNoBackend
	}

	if err := documentService.Delete(cmd.Context(), args[0], docDeleteForce); err != nil {
		return fmt.Errorf("delete document: %w", err)
	}

	cmd.Printf("Deleted document: %s\n", args[0])
	return nil
}

func runDocUpdateMeta(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errNoBackend
	}

	path := args[1]
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	metadata, err := parseMetadataFlags(docMeta)
	if err != nil {
		return err
	}
	if len(metadata) == 0 {
		return fmt.Errorf("%w: update-meta requires at least one --meta entry", domain.ErrInvalidInput)
	}

	storeName := docUpdateStore
	if storeName != "" {
		storeName = qualifyStoreName(storeName)
	}

	result, err := documentService.UpdateMetadata(cmd.Context(), domain.UpdateMetadataRequest{
		DocumentName: args[0],
		StoreName:    storeName,
		Metadata:     metadata,
		Content:      content,
		DisplayName:  docDisplayName,
		MIMEType:     docMIMEType,
		Chunking: domain.ChunkingConfig{
			MaxTokensPerChunk: docChunkTokens,
			MaxOverlapTokens:  docChunkOverlap,
		},
	})
	if err != nil {
		return fmt.Errorf("update metadata: %w", err)
	}

	cmd.Printf("Metadata update accepted for %s\n", args[0])
	if result.NewDocumentName != "" {
		cmd.Printf("  New document: %s\n", result.NewDocumentName)
	}
	cmd.Printf("  Operation:    %s\n", result.OperationName)
	if result.JournalID != "" {
		cmd.Printf("  Journal:      %s\n", result.JournalID)
	}
	return nil
}

func runDocRecover(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errNoBackend
	}

	if len(args) == 0 {
		return listPendingRecoveries(cmd)
	}

	result, err := documentService.RecoverUpdate(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("recover update: %w", err)
	}

	cmd.Printf("Recovery accepted for journal entry %s\n", args[0])
	if result.NewDocumentName != "" {
		cmd.Printf("  New document: %s\n", result.NewDocumentName)
	}
	cmd.Printf("  Operation:    %s\n", result.OperationName)
	return nil
}

func listPendingRecoveries(cmd *cobra.Command) error {
	entries, err := documentService.PendingRecoveries(cmd.Context())
	if err != nil {
		return fmt.Errorf("list pending recoveries: %w", err)
	}

	if len(entries) == 0 {
		cmd.Println("No pending recoveries.")
		return nil
	}

	cmd.Println("Pending recoveries:")
	cmd.Println()
	for i := range entries {
		e := &entries[i]
		cmd.Printf("  %s\n", e.ID)
		cmd.Printf("    Document: %s\n", e.DocumentName)
		cmd.Printf("    Store:    %s\n", e.StoreName)
		cmd.Printf("    Status:   %s\n", e.Status)
		if e.LastError != "" {
			cmd.Printf("    Error:    %s\n", e.LastError)
		}
		cmd.Printf("    Created:  %s\n", e.CreatedAt.Format("2006-01-02 15:04:05"))
		cmd.Println()
	}
	cmd.Println("Replay one with: corpus doc recover <journal-id>")
	return nil
}

// waitAndReport polls an operation until it finishes and prints the outcome.
// A failed operation becomes a command error so the exit code reflects it.
func waitAndReport(cmd *cobra.Command, operationName string) error {
	if operationService == nil {
		return errNoBackend
	}

	cmd.Printf("Waiting for %s...\n", operationName)
	op, err := operationService.Wait(cmd.Context(), operationName, 2*time.Second)
	if err != nil {
		return fmt.Errorf("wait for %s: %w", operationName, err)
	}
	if op.Error != nil {
		return fmt.Errorf("operation %s failed: %s", op.Name, op.Error.Message)
	}

	cmd.Println("Indexing finished.")
	if name := op.DocumentName(); name != "" {
		cmd.Printf("  Document: %s\n", name)
	}
	return nil
}

// parseMetadataFlags converts repeated key=value pairs into metadata
// entries. A value that parses as a number becomes numeric; a value with
// commas becomes a string list; anything else stays a plain string.
func parseMetadataFlags(pairs []string) ([]domain.MetadataEntry, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	entries := make([]domain.MetadataEntry, 0, len(pairs))
	for _, pair := range pairs {
		key, value, found := strings.Cut(pair, "=")
		if !found || key == "" {
			return nil, fmt.Errorf("%w: metadata flag %q is not key=value", domain.ErrInvalidInput, pair)
		}
		entries = append(entries, typedMetadataEntry(key, value))
	}
	return entries, nil
}

func typedMetadataEntry(key, value string) domain.MetadataEntry {
	if n, err := strconv.ParseFloat(value, 64); err == nil {
		return domain.MetadataEntry{Key: key, NumericValue: &n}
	}
	if strings.Contains(value, ",") {
		parts := strings.Split(value, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		return domain.MetadataEntry{Key: key, StringListValue: parts}
	}
	return domain.MetadataEntry{Key: key, StringValue: &value}
}

func formatMetadataValue(entry domain.MetadataEntry) string {
	switch {
	case entry.StringValue != nil:
		return *entry.StringValue
	case entry.NumericValue != nil:
		return strconv.FormatFloat(*entry.NumericValue, 'g', -1, 64)
	case entry.StringListValue != nil:
		return strings.Join(entry.StringListValue, ", ")
	}
	return ""
}
