package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/viva-cli/internal/core/domain"
	"github.com/custodia-labs/viva-cli/internal/core/ports/driven"
	"github.com/custodia-labs/viva-cli/internal/core/ports/driving"
)

// setupTestServices points the package handles at mocks and an isolated
// config directory. The returned cleanup restores everything.
func setupTestServices(t *testing.T) func() {
	t.Helper()

	oldConfigDir := configDir
	oldConfigStore := configStore
	oldKnowledgeStore := knowledgeStore
	oldPromptStore := promptStore
	oldIngest := ingestService
	oldInterview := interviewService

	configDir = t.TempDir()
	configStore = nil
	knowledgeStore = &stubKnowledgeStore{}

	return func() {
		configDir = oldConfigDir
		configStore = oldConfigStore
		knowledgeStore = oldKnowledgeStore
		promptStore = oldPromptStore
		ingestService = oldIngest
		interviewService = oldInterview
		ingestForce = false
		interviewPlain = false
	}
}

type stubKnowledgeStore struct {
	chunkCount int
}

func (s *stubKnowledgeStore) SaveDocument(_ context.Context, _ *domain.Document) error { return nil }
func (s *stubKnowledgeStore) SaveChunks(_ context.Context, _ []domain.Chunk) error     { return nil }
func (s *stubKnowledgeStore) Document(_ context.Context) (*domain.Document, error) {
	return nil, domain.ErrNotFound
}
func (s *stubKnowledgeStore) Chunks(_ context.Context) ([]domain.Chunk, error) { return nil, nil }
func (s *stubKnowledgeStore) ChunkCount(_ context.Context) (int, error)        { return s.chunkCount, nil }
func (s *stubKnowledgeStore) GetMeta(_ context.Context, _ string) (string, error) {
	return "", domain.ErrNotFound
}
func (s *stubKnowledgeStore) SetMeta(_ context.Context, _, _ string) error { return nil }
func (s *stubKnowledgeStore) Reset(_ context.Context) error                { return nil }
func (s *stubKnowledgeStore) Close() error                                 { return nil }

type stubIngestService struct {
	stats *driving.IngestStats
	err   error
	paths []string
}

func (s *stubIngestService) Ingest(_ context.Context, path string) (*driving.IngestStats, error) {
	s.paths = append(s.paths, path)
	if s.err != nil {
		return nil, s.err
	}
	return s.stats, nil
}

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()
	return buf.String(), err
}

func TestIngestCmd_Use(t *testing.T) {
	assert.Equal(t, "ingest [file]", ingestCmd.Use)
}

func TestIngestCmd_RequiresExactlyOneArg(t *testing.T) {
	_, err := execute(t, "", "ingest")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg(s)")
}

func TestIngestCmd_HasForceFlag(t *testing.T) {
	flag := ingestCmd.Flags().Lookup("force")
	require.NotNil(t, flag)
	assert.Equal(t, "f", flag.Shorthand)
	assert.Equal(t, "false", flag.DefValue)
}

func TestIngestCmd_Executes(t *testing.T) {
	cleanup := setupTestServices(t)
	defer cleanup()
	stub := &stubIngestService{stats: &driving.IngestStats{
		DocumentID:     "doc-1",
		Pages:          12,
		Chunks:         40,
		EmbeddingModel: "nomic-embed-text",
		Dimensions:     768,
	}}
	ingestService = stub

	out, err := execute(t, "", "ingest", "notes.pdf")

	require.NoError(t, err)
	assert.Equal(t, []string{"notes.pdf"}, stub.paths)
	assert.Contains(t, out, "Chunks:     40")
	assert.Contains(t, out, "nomic-embed-text")
	assert.Contains(t, out, "viva interview")
}

func TestIngestCmd_ConfirmsOverwrite(t *testing.T) {
	cleanup := setupTestServices(t)
	defer cleanup()
	knowledgeStore = &stubKnowledgeStore{chunkCount: 40}
	stub := &stubIngestService{stats: &driving.IngestStats{DocumentID: "doc-2"}}
	ingestService = stub

	out, err := execute(t, "n\n", "ingest", "notes.pdf")

	require.NoError(t, err)
	assert.Contains(t, out, "already exists")
	assert.Contains(t, out, "Aborted.")
	assert.Empty(t, stub.paths, "a declined confirmation must not ingest")
}

func TestIngestCmd_OverwriteAccepted(t *testing.T) {
	cleanup := setupTestServices(t)
	defer cleanup()
	knowledgeStore = &stubKnowledgeStore{chunkCount: 40}
	stub := &stubIngestService{stats: &driving.IngestStats{DocumentID: "doc-2"}}
	ingestService = stub

	_, err := execute(t, "y\n", "ingest", "notes.pdf")

	require.NoError(t, err)
	assert.Equal(t, []string{"notes.pdf"}, stub.paths)
}

func TestIngestCmd_ForceSkipsConfirmation(t *testing.T) {
	cleanup := setupTestServices(t)
	defer cleanup()
	knowledgeStore = &stubKnowledgeStore{chunkCount: 40}
	stub := &stubIngestService{stats: &driving.IngestStats{DocumentID: "doc-2"}}
	ingestService = stub

	out, err := execute(t, "", "ingest", "--force", "notes.pdf")

	require.NoError(t, err)
	assert.NotContains(t, out, "already exists")
	assert.Equal(t, []string{"notes.pdf"}, stub.paths)
}

func TestIngestCmd_EmptyDocument(t *testing.T) {
	cleanup := setupTestServices(t)
	defer cleanup()
	ingestService = &stubIngestService{err: domain.ErrEmptyDocument}

	_, err := execute(t, "", "ingest", "blank.pdf")

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrEmptyDocument)
}

// Interface conformance for the stub.
var _ driven.KnowledgeStore = (*stubKnowledgeStore)(nil)
