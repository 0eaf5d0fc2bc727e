package file

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/viva-cli/internal/core/ports/driven"
)

// Ensure PromptStore implements the interface.
var _ driven.PromptStore = (*PromptStore)(nil)

// PromptStore loads LLM prompts from user-editable files on disk.
// Prompts are loaded from a configurable directory with fallback to embedded defaults.
//
// The store uses lazy initialisation - files are only created when first accessed,
// not in the constructor. This makes testing easier and avoids unexpected I/O.
type PromptStore struct {
	mu        sync.RWMutex
	promptDir string
	cache     map[string]string
	initOnce  sync.Once
	initErr   error
	watcher   *fsnotify.Watcher
}

// defaultPrompts contains embedded default prompts.
// These are used when user files don't exist and as the initial content for new files.
//
//nolint:lll // Prompt content is intentionally long and should not be wrapped.
var defaultPrompts = map[string]string{
	driven.PromptQuestion: `You are an expert technical interviewer using the ingested document as your knowledge base.
Your persona is professional, encouraging, and focused. Your goal is to assess the candidate's technical knowledge.

**Context from the knowledge base:**
%s

**Instructions:**
1. Based on the context above, generate a single, insightful interview question about the topic: '%s'.
2. The question should be practical and test real-world understanding, not just rote memorization.
3. Do not greet the user or add conversational fluff. Only return the interview question itself.
4. **Keep the question concise and to the point (ideally under 50 words).**

**Interview Question:**`,

	driven.PromptRelevance: `You are an AI assistant helping to evaluate if a candidate's answer is relevant to a technical interview question.

**Question:** %s
**Candidate's Answer:** %s

**Instructions:**
1. Determine if the answer is relevant to the question asked
2. Consider if the answer demonstrates knowledge of the technical subject under discussion
3. Look for technical terms, concepts, or explanations that relate to the question

**Response Format:**
- If relevant: "RELEVANT"
- If not relevant: "NOT_RELEVANT: [brief explanation of why it's not relevant]"

**Examples of NOT_RELEVANT responses:**
- Personal stories unrelated to the technical question
- General conversation or greetings
- Completely different topics (cooking, sports, etc.)
- Nonsensical text or gibberish
- Questions back to the interviewer instead of answers

**Examples of RELEVANT responses:**
- Technical explanations of concepts
- Code examples or algorithms
- Mathematical or statistical explanations
- Industry experience related to the question
- Even partial or incorrect technical answers are considered relevant

**Your assessment:**`,

	driven.PromptEvaluation: `You are an expert technical hiring manager providing final, comprehensive feedback on a mock interview.
Your tone should be professional, constructive, and encouraging.

**Interview Transcript:**
%s

**Instructions:**
Based on the entire conversation, provide a single, detailed evaluation in a professional format. If the candidate asked clarifying questions, acknowledge this positively as a sign of engagement. If they challenged a premise, evaluate their reasoning. The goal is to provide feedback on their technical communication and problem-solving skills as demonstrated in the transcript.
Your feedback must include the following sections:
1.  **Overall Summary:** A brief, two-sentence summary of the candidate's performance and grasp of the topics.
2.  **Key Strengths:** List 2-3 specific strengths the candidate demonstrated, referencing their answers (e.g., "Showed strong foundational knowledge when explaining...").
3.  **Areas for Improvement:** List 2-3 specific, actionable areas where the candidate could improve (e.g., "Could provide more detail on the practical trade-offs of...").
4.  **Overall Score:** Provide a score out of 10 (e.g., 7.5/10).
5.  **Final Recommendation:** A concluding, encouraging sentence for the candidate.`,
}

// NewPromptStore creates a new file-based prompt store.
// If promptDir is empty, defaults to ~/.viva/prompts/.
//
// The constructor does not perform any I/O - directory creation and
// file writes happen lazily on first Load() call.
func NewPromptStore(promptDir string) (*PromptStore, error) {
	if promptDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home directory: %w", err)
		}
		promptDir = filepath.Join(home, ".viva", "prompts")
	}

	return &PromptStore{
		promptDir: promptDir,
		cache:     make(map[string]string),
	}, nil
}

// Load returns the prompt template for the given name.
// On first call, initialises the prompt directory and creates default files.
// Returns cached value if available, otherwise loads from file.
// Falls back to embedded default if file doesn't exist.
func (s *PromptStore) Load(name string) (string, error) {
	// Ensure directory and defaults exist (lazy init)
	s.initOnce.Do(s.initialise)
	if s.initErr != nil {
		// Fall back to embedded defaults if init failed
		if prompt, ok := defaultPrompts[name]; ok {
			return prompt, nil
		}
		return "", fmt.Errorf("prompt store init failed: %w", s.initErr)
	}

	// Check cache first (read lock)
	s.mu.RLock()
	if prompt, ok := s.cache[name]; ok {
		s.mu.RUnlock()
		return prompt, nil
	}
	s.mu.RUnlock()

	// Load from file (no lock held during I/O)
	prompt, err := s.loadFromFile(name)
	if err != nil {
		// Fall back to embedded default
		if defaultPrompt, ok := defaultPrompts[name]; ok {
			return defaultPrompt, nil
		}
		return "", fmt.Errorf("load prompt %q: %w", name, err)
	}

	// Cache the result (write lock)
	// Use double-check pattern to avoid overwriting concurrent loads
	s.mu.Lock()
	if _, ok := s.cache[name]; !ok {
		s.cache[name] = prompt
	} else {
		// Another goroutine loaded it first, use their value
		prompt = s.cache[name]
	}
	s.mu.Unlock()

	return prompt, nil
}

// Reload clears the prompt cache, forcing fresh loads from disk.
func (s *PromptStore) Reload() {
	s.mu.Lock()
	s.cache = make(map[string]string)
	s.mu.Unlock()
}

// Watch starts watching the prompt directory for edits and invalidates the
// cache when a prompt file changes. Edits take effect on the next Load()
// without restarting the interview. Call Close to stop watching.
func (s *PromptStore) Watch() error {
	s.initOnce.Do(s.initialise)
	if s.initErr != nil {
		return fmt.Errorf("prompt store init failed: %w", s.initErr)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create prompt watcher: %w", err)
	}
	if err := watcher.Add(s.promptDir); err != nil {
		watcher.Close()
		return fmt.Errorf("watch prompt directory: %w", err)
	}

	s.mu.Lock()
	s.watcher = watcher
	s.mu.Unlock()

	go func() {
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if event.Op.Has(fsnotify.Write) || event.Op.Has(fsnotify.Create) {
					if strings.HasSuffix(event.Name, ".txt") {
						s.Reload()
					}
				}
			case _, ok := <-watcher.Errors:
				if !ok {
					return
				}
				// Watch errors are non-fatal; cached prompts remain valid.
			}
		}
	}()

	return nil
}

// Close stops the directory watcher if one is running.
func (s *PromptStore) Close() error {
	s.mu.Lock()
	watcher := s.watcher
	s.watcher = nil
	s.mu.Unlock()

	if watcher != nil {
		return watcher.Close()
	}
	return nil
}

// Dir returns the prompt directory path.
func (s *PromptStore) Dir() string {
	return s.promptDir
}

// initialise creates the prompt directory and default files.
// Called once via sync.Once on first Load().
func (s *PromptStore) initialise() {
	// Create directory
	if err := os.MkdirAll(s.promptDir, 0700); err != nil {
		s.initErr = fmt.Errorf("create prompt directory: %w", err)
		return
	}

	// Create default prompt files (only if they don't exist)
	for name, content := range defaultPrompts {
		path := filepath.Join(s.promptDir, name+".txt")
		if _, err := os.Stat(path); os.IsNotExist(err) {
			if err := os.WriteFile(path, []byte(content), 0600); err != nil {
				s.initErr = fmt.Errorf("create default prompt %q: %w", name, err)
				return
			}
		}
	}

	// Create README
	if err := s.createReadme(); err != nil {
		s.initErr = err
	}
}

// loadFromFile reads a prompt from disk.
func (s *PromptStore) loadFromFile(name string) (string, error) {
	path := filepath.Join(s.promptDir, name+".txt")
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

// createReadme writes a README file explaining the prompts directory.
func (s *PromptStore) createReadme() error {
	path := filepath.Join(s.promptDir, "README.md")
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		return nil // Already exists or stat error (ignore)
	}

	content := `# Viva Prompts

This directory contains customisable prompts used by Viva's interview engine.

## Files

- ` + "`question.txt`" + ` - Generates one interview question from retrieved context
- ` + "`relevance.txt`" + ` - Classifies whether an answer addresses the question
- ` + "`evaluation.txt`" + ` - Produces the final feedback from the transcript

## Customisation

Edit any file to customise interviewer behaviour. Changes take effect on the
next question without restarting.

## Format Placeholders

Prompts use Go fmt placeholders:
- ` + "`question.txt`" + ` - %s (retrieved context), then %s (topic)
- ` + "`relevance.txt`" + ` - %s (question), then %s (answer)
- ` + "`evaluation.txt`" + ` - %s (interview transcript)

Ensure customised prompts maintain placeholders in the correct positions.
The relevance prompt must keep the RELEVANT / NOT_RELEVANT response format.
`
	return os.WriteFile(path, []byte(content), 0600)
}
