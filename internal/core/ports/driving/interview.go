package driving

import (
	"context"

	"github.com/custodia-labs/viva-cli/internal/core/domain"
)

// QuestionResult is the outcome of a topic submission.
type QuestionResult struct {
	// Question is the generated interview question. Empty when Rejected.
	Question string

	// Rejected is true when the topic failed local validation. No turn is
	// consumed and no generation call was made.
	Rejected bool

	// Message carries actionable guidance when Rejected.
	Message string
}

// AnswerResult is the outcome of an answer submission.
type AnswerResult struct {
	// Rejected is true when the answer failed local validation (too short
	// or keyboard mashing). No state changed and no turn was consumed.
	Rejected bool

	// Kind classifies the answer once it was accepted into history.
	Kind domain.AnswerKind

	// Message is the follow-up prompt inviting the next topic, or a retry
	// request when Rejected.
	Message string

	// Feedback is the final narrative evaluation. Set only when
	// InterviewOver is true.
	Feedback string

	// InterviewOver reports that the turn limit was reached and the
	// session history has been cleared.
	InterviewOver bool

	// TurnsCompleted is the number of stored turns after this submission.
	TurnsCompleted int
}

// InterviewService drives the multi-turn interview session state machine.
type InterviewService interface {
	// Start begins (or restarts) the interview for the given session id,
	// clearing any existing history, and returns the opening message.
	Start(ctx context.Context, sessionID string) (string, error)

	// AskQuestion validates the topic and, when acceptable, generates a
	// grounded interview question. The question is not yet recorded in
	// history; history stores completed pairs only.
	AskQuestion(ctx context.Context, sessionID, topic string) (*QuestionResult, error)

	// SubmitAnswer screens and classifies the answer, appends the
	// completed turn, and either returns a follow-up prompt or, at the
	// turn limit, the final evaluation.
	SubmitAnswer(ctx context.Context, sessionID, question, answer string) (*AnswerResult, error)
}
