package file

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/viva-cli/internal/core/ports/driven"
)

func TestNewPromptStore_WithCustomDir(t *testing.T) {
	dir := t.TempDir()

	store, err := NewPromptStore(dir)

	require.NoError(t, err)
	assert.Equal(t, dir, store.Dir())
}

func TestPromptStore_Load_CreatesDefaultFiles(t *testing.T) {
	dir := t.TempDir()
	store, err := NewPromptStore(dir)
	require.NoError(t, err)

	// Load triggers lazy init
	_, err = store.Load(driven.PromptQuestion)
	require.NoError(t, err)

	for _, name := range []string{driven.PromptQuestion, driven.PromptRelevance, driven.PromptEvaluation} {
		_, statErr := os.Stat(filepath.Join(dir, name+".txt"))
		assert.NoError(t, statErr, "expected default file for %q", name)
	}

	_, statErr := os.Stat(filepath.Join(dir, "README.md"))
	assert.NoError(t, statErr)
}

func TestPromptStore_Load_ReturnsDefaults(t *testing.T) {
	store, err := NewPromptStore(t.TempDir())
	require.NoError(t, err)

	question, err := store.Load(driven.PromptQuestion)
	require.NoError(t, err)
	assert.Contains(t, question, "interview question")
	assert.Equal(t, 2, strings.Count(question, "%s"))

	relevance, err := store.Load(driven.PromptRelevance)
	require.NoError(t, err)
	assert.Contains(t, relevance, driven.RelevanceSentinel)
	assert.Equal(t, 2, strings.Count(relevance, "%s"))

	evaluation, err := store.Load(driven.PromptEvaluation)
	require.NoError(t, err)
	assert.Contains(t, evaluation, "Interview Transcript")
	assert.Equal(t, 1, strings.Count(evaluation, "%s"))
}

func TestPromptStore_Load_UnknownPrompt(t *testing.T) {
	store, err := NewPromptStore(t.TempDir())
	require.NoError(t, err)

	_, err = store.Load("mystery")
	assert.Error(t, err)
}

func TestPromptStore_Load_UserOverride(t *testing.T) {
	dir := t.TempDir()
	store, err := NewPromptStore(dir)
	require.NoError(t, err)

	// Trigger init so the directory exists
	_, err = store.Load(driven.PromptQuestion)
	require.NoError(t, err)

	custom := "Ask about %s using %s."
	path := filepath.Join(dir, driven.PromptQuestion+".txt")
	require.NoError(t, os.WriteFile(path, []byte(custom), 0600))

	// Cached value still served until Reload
	store.Reload()

	got, err := store.Load(driven.PromptQuestion)
	require.NoError(t, err)
	assert.Equal(t, custom, got)
}

func TestPromptStore_Watch_InvalidatesCache(t *testing.T) {
	dir := t.TempDir()
	store, err := NewPromptStore(dir)
	require.NoError(t, err)

	_, err = store.Load(driven.PromptQuestion)
	require.NoError(t, err)

	require.NoError(t, store.Watch())
	defer store.Close()

	custom := "Ask about %s using %s, rewritten."
	path := filepath.Join(dir, driven.PromptQuestion+".txt")
	require.NoError(t, os.WriteFile(path, []byte(custom), 0600))

	// The watcher delivers events asynchronously
	require.Eventually(t, func() bool {
		got, loadErr := store.Load(driven.PromptQuestion)
		return loadErr == nil && got == custom
	}, 3*time.Second, 50*time.Millisecond)
}
