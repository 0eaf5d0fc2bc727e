package cli

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var ingestForce bool

var ingestCmd = &cobra.Command{
	Use:   "ingest [file]",
	Short: "Build the knowledge index from a document",
	Long: `Extracts text from a PDF or plain-text file, splits it into chunks,
embeds them and stores the result as the knowledge index interviews
draw their questions from.

Only one document is indexed at a time; ingesting replaces any
existing index.`,
	Args: cobra.ExactArgs(1),
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().BoolVarP(&ingestForce, "force", "f", false, "replace an existing index without asking")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	path := args[0]
	ctx := cmd.Context()

	settings, err := loadConfig()
	if err != nil {
		return err
	}

	store, err := openKnowledgeStore(settings)
	if err != nil {
		return err
	}

	if !ingestForce {
		count, err := store.ChunkCount(ctx)
		if err != nil {
			return fmt.Errorf("inspect existing index: %w", err)
		}
		if count > 0 {
			ok, err := confirmOverwrite(cmd, count)
			if err != nil {
				return err
			}
			if !ok {
				cmd.Println("Aborted.")
				return nil
			}
		}
	}

	svc, err := buildIngestService(settings)
	if err != nil {
		return err
	}

	cmd.Printf("Ingesting %s...\n", path)
	stats, err := svc.Ingest(ctx, path)
	if err != nil {
		return fmt.Errorf("ingest failed: %w", err)
	}

	cmd.Println()
	cmd.Println("Index built:")
	cmd.Printf("  Document:   %s\n", stats.DocumentID)
	cmd.Printf("  Pages:      %d\n", stats.Pages)
	cmd.Printf("  Chunks:     %d\n", stats.Chunks)
	cmd.Printf("  Embeddings: %s (%d dimensions)\n", stats.EmbeddingModel, stats.Dimensions)
	cmd.Println()
	cmd.Println("Run 'viva interview' to start an interview.")
	return nil
}

func confirmOverwrite(cmd *cobra.Command, count int) (bool, error) {
	cmd.Printf("An index with %d chunks already exists and will be replaced.\n", count)
	cmd.Print("Continue? [y/N]: ")

	reader := bufio.NewReader(cmd.InOrStdin())
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		// Non-interactive stdin counts as a no
		return false, nil
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes", nil
}
