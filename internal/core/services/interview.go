package services

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/custodia-labs/viva-cli/internal/core/domain"
	"github.com/custodia-labs/viva-cli/internal/core/ports/driven"
	"github.com/custodia-labs/viva-cli/internal/core/ports/driving"
	"github.com/custodia-labs/viva-cli/internal/logger"
)

// Ensure InterviewService implements the interface.
var _ driving.InterviewService = (*InterviewService)(nil)

// DefaultTopK is the number of chunks retrieved per question when the
// configuration does not override it.
const DefaultTopK = 3

// topicStoplist rejects conversational filler and clearly off-domain topics.
// Matching is whole-word: "chihuahua" is fine even though it contains "hi".
var topicStoplist = map[string]struct{}{
	"hi": {}, "hello": {}, "hey": {}, "thanks": {}, "bye": {},
	"weather": {}, "food": {}, "sports": {}, "music": {}, "movie": {}, "politics": {},
}

// skipPhrases mark an answer as a deliberate skip when any of them occurs
// as a substring of the normalised answer.
var skipPhrases = []string{"i dont know", "no idea", "skip", "pass", "idk", "not sure"}

var (
	wordRe  = regexp.MustCompile(`[a-z]+`)
	punctRe = regexp.MustCompile(`[^\w\s]`)
)

// Canned guidance returned by local validation, and follow-up prompts per
// answer classification.
const (
	msgTopicTooShort = "Please provide a more specific topic from the reference material (e.g., a concept, technique, or term it covers)."

	msgAnswerTooShort = "Please provide a more detailed answer. If you don't know, you can say 'I don't know' and we'll move on."

	msgAnswerJunk = "It looks like your response might not be a proper answer. Please try to provide a relevant response to the question, or say 'I don't know' if you're unsure."

	msgFollowUpSkipped = "That's perfectly fine. Let's move on. What's the next topic you'd like to cover?"

	msgFollowUpAccepted = "Okay, thank you for your answer. What is the next topic you would like to discuss?"
)

// InterviewService drives the multi-turn interview state machine. Local
// heuristics (topic stoplist, junk answers, skip phrases) run before any
// generation call so rejected input never incurs model latency.
type InterviewService struct {
	sessions  driven.SessionStore
	retriever Retriever
	llm       driven.LLMService
	prompts   driven.PromptStore
	topK      int
}

// NewInterviewService creates a new interview service.
func NewInterviewService(
	sessions driven.SessionStore,
	retriever Retriever,
	llm driven.LLMService,
	prompts driven.PromptStore,
	topK int,
) *InterviewService {
	if topK <= 0 {
		topK = DefaultTopK
	}
	return &InterviewService{
		sessions:  sessions,
		retriever: retriever,
		llm:       llm,
		prompts:   prompts,
		topK:      topK,
	}
}

// Start begins (or restarts) the interview for the given session id and
// returns the opening message.
func (s *InterviewService) Start(ctx context.Context, sessionID string) (string, error) {
	if sessionID == "" {
		return "", domain.ErrInvalidInput
	}

	now := time.Now()
	session := &domain.Session{
		ID:        sessionID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.sessions.Put(ctx, session); err != nil {
		return "", fmt.Errorf("store session: %w", err)
	}

	logger.Info("Interview session %s started", sessionID)
	return fmt.Sprintf(
		"Hello! Let's begin. The interview will consist of %d questions. Please enter your first topic below.",
		domain.MaxTurns,
	), nil
}

// AskQuestion validates the topic and, when acceptable, generates a grounded
// interview question. Rejections consume no turn and trigger no generation.
func (s *InterviewService) AskQuestion(ctx context.Context, sessionID, topic string) (*driving.QuestionResult, error) {
	if _, err := s.sessions.Get(ctx, sessionID); err != nil {
		return nil, fmt.Errorf("load session %s: %w", sessionID, err)
	}

	normalized := strings.Join(strings.Fields(strings.ToLower(topic)), " ")

	if utf8.RuneCountInString(normalized) < 3 {
		logger.Debug("Topic %q rejected: too short", topic)
		return &driving.QuestionResult{Rejected: true, Message: msgTopicTooShort}, nil
	}

	for _, word := range wordRe.FindAllString(normalized, -1) {
		if _, bad := topicStoplist[word]; bad {
			logger.Debug("Topic %q rejected: stoplist word %q", topic, word)
			return &driving.QuestionResult{
				Rejected: true,
				Message: fmt.Sprintf(
					"'%s' doesn't seem to be a topic covered by the reference material. Please enter a relevant technical topic.",
					topic,
				),
			}, nil
		}
	}

	retrieved, err := s.retriever.Retrieve(ctx, topic, s.topK)
	if err != nil {
		return nil, fmt.Errorf("retrieve context: %w", err)
	}

	contextParts := make([]string, len(retrieved))
	for i := range retrieved {
		contextParts[i] = retrieved[i].Chunk.Content
	}
	contextText := strings.Join(contextParts, "\n\n")

	template, err := s.prompts.Load(driven.PromptQuestion)
	if err != nil {
		return nil, fmt.Errorf("load question prompt: %w", err)
	}

	question, err := s.llm.Generate(ctx, fmt.Sprintf(template, contextText, topic), driven.GenerateOptions{
		MaxTokens:   256,
		Temperature: 0.7,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: generate question: %w", domain.ErrGeneration, err)
	}

	return &driving.QuestionResult{Question: strings.TrimSpace(question)}, nil
}

// SubmitAnswer screens and classifies the answer, appends the completed turn,
// and either returns a follow-up prompt or, at the turn limit, the final
// evaluation.
func (s *InterviewService) SubmitAnswer(ctx context.Context, sessionID, question, answer string) (*driving.AnswerResult, error) {
	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("load session %s: %w", sessionID, err)
	}

	trimmed := strings.TrimSpace(answer)

	// Junk screening runs before any classification or generation call.
	// A rejection consumes no turn. Lengths count runes, not bytes, so
	// multi-byte scripts are screened the same as ASCII.
	runes := utf8.RuneCountInString(trimmed)
	if runes < 3 {
		return &driving.AnswerResult{Rejected: true, Message: msgAnswerTooShort,
			TurnsCompleted: len(session.History)}, nil
	}
	if runes > 5 && distinctRunes(trimmed) < 3 {
		return &driving.AnswerResult{Rejected: true, Message: msgAnswerJunk,
			TurnsCompleted: len(session.History)}, nil
	}

	kind, feedback := s.classify(ctx, question, answer, trimmed)

	switch kind {
	case domain.AnswerSkipped:
		session.History = append(session.History, domain.Turn{Question: question, Answer: domain.SkippedPlaceholder})
	case domain.AnswerOffTopic:
		session.History = append(session.History, domain.Turn{Question: question, Answer: domain.OffTopicAnswer(answer)})
	default:
		session.History = append(session.History, domain.Turn{Question: question, Answer: answer})
	}
	session.UpdatedAt = time.Now()
	logger.Debug("Turn %d recorded as %s", len(session.History), kind)

	if session.Complete() {
		return s.finishInterview(ctx, session, kind)
	}

	if err := s.sessions.Put(ctx, session); err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}

	return &driving.AnswerResult{
		Kind:           kind,
		Message:        followUpMessage(kind, feedback),
		TurnsCompleted: len(session.History),
	}, nil
}

// classify determines how the answer is recorded. Relevance is only checked
// for substantial answers that are not skips, and the check fails open.
func (s *InterviewService) classify(ctx context.Context, question, answer, trimmed string) (domain.AnswerKind, string) {
	normalized := punctRe.ReplaceAllString(strings.ToLower(trimmed), "")
	for _, phrase := range skipPhrases {
		if strings.Contains(normalized, phrase) {
			return domain.AnswerSkipped, ""
		}
	}

	if utf8.RuneCountInString(trimmed) <= 10 {
		// Short answers are not relevance-checked
		return domain.AnswerAccepted, ""
	}

	template, err := s.prompts.Load(driven.PromptRelevance)
	if err != nil {
		logger.Warn("Relevance prompt unavailable: %v (accepting answer)", err)
		return domain.AnswerAccepted, ""
	}

	result, err := s.llm.Generate(ctx, fmt.Sprintf(template, question, answer), driven.GenerateOptions{
		MaxTokens:   150,
		Temperature: 0.1,
	})
	if err != nil {
		// Never block a user on a downstream generation failure
		logger.Warn("Relevance check failed: %v (accepting answer)", err)
		return domain.AnswerAccepted, ""
	}

	verdict := strings.TrimSpace(result)
	if !strings.HasPrefix(verdict, driven.RelevanceSentinel) {
		return domain.AnswerAccepted, ""
	}

	reason := strings.TrimPrefix(verdict, driven.RelevanceSentinel)
	reason = strings.TrimSpace(strings.TrimPrefix(reason, ":"))
	return domain.AnswerOffTopic, reason
}

// finishInterview generates the final evaluation once the turn limit is hit.
// History is cleared before the evaluation call so a generation failure
// cannot leave a stuck full session behind.
func (s *InterviewService) finishInterview(ctx context.Context, session *domain.Session, kind domain.AnswerKind) (*driving.AnswerResult, error) {
	transcript := session.Transcript()

	session.History = nil
	session.UpdatedAt = time.Now()
	if err := s.sessions.Put(ctx, session); err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}

	template, err := s.prompts.Load(driven.PromptEvaluation)
	if err != nil {
		return nil, fmt.Errorf("%w: load evaluation prompt: %w", domain.ErrGeneration, err)
	}

	feedback, err := s.llm.Generate(ctx, fmt.Sprintf(template, transcript), driven.GenerateOptions{
		MaxTokens:   1024,
		Temperature: 0.5,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: generate final feedback: %w", domain.ErrGeneration, err)
	}

	logger.Info("Interview session %s complete", session.ID)
	return &driving.AnswerResult{
		Kind:           kind,
		Feedback:       strings.TrimSpace(feedback),
		InterviewOver:  true,
		TurnsCompleted: domain.MaxTurns,
	}, nil
}

// followUpMessage picks the canned prompt inviting the next topic.
func followUpMessage(kind domain.AnswerKind, feedback string) string {
	switch kind {
	case domain.AnswerSkipped:
		return msgFollowUpSkipped
	case domain.AnswerOffTopic:
		msg := "I notice your response doesn't seem to relate to the question."
		if feedback != "" {
			msg += " " + feedback
		}
		return msg + " Please try to answer the technical question, or if you're unsure, you can say 'I don't know' and we'll move to the next topic."
	default:
		return msgFollowUpAccepted
	}
}

// distinctRunes counts unique characters, whitespace included.
func distinctRunes(s string) int {
	seen := make(map[rune]struct{}, len(s))
	for _, r := range s {
		seen[r] = struct{}{}
	}
	return len(seen)
}
