package domain

import (
	"fmt"
	"strings"
	"time"
)

// MaxTurns is the number of completed question/answer pairs that end an
// interview. The threshold is a hard constant, not per-session policy.
const MaxTurns = 10

// SkippedPlaceholder is stored in the transcript in place of an answer the
// candidate skipped. The literal answer text is deliberately redacted so the
// final evaluation does not quote it.
const SkippedPlaceholder = "(User indicated they did not know the answer.)"

// AnswerKind classifies a submitted answer. Every accepted submission
// resolves to exactly one kind before it is appended to history.
type AnswerKind int

const (
	// AnswerAccepted means the answer is stored verbatim.
	AnswerAccepted AnswerKind = iota

	// AnswerSkipped means the candidate declined to answer.
	AnswerSkipped

	// AnswerOffTopic means the relevance check flagged the answer.
	AnswerOffTopic
)

// String returns a human-readable name for the answer kind.
func (k AnswerKind) String() string {
	switch k {
	case AnswerSkipped:
		return "skipped"
	case AnswerOffTopic:
		return "off-topic"
	default:
		return "accepted"
	}
}

// OffTopicAnswer wraps an off-topic answer with a marker so the evaluation
// prompt can still quote the original text.
func OffTopicAnswer(answer string) string {
	return fmt.Sprintf("(User provided an off-topic response: %s)", answer)
}

// Turn is one completed question/answer exchange.
type Turn struct {
	Question string
	Answer   string
}

// Session holds the state of one interview. A session is owned by exactly
// one caller at a time; sessions never share mutable state.
type Session struct {
	// ID is the opaque session key.
	ID string

	// History is the ordered sequence of completed turns. A question is
	// only recorded once its answer has arrived.
	History []Turn

	// CreatedAt is when the interview started.
	CreatedAt time.Time

	// UpdatedAt is when the session last changed.
	UpdatedAt time.Time
}

// Complete reports whether the interview has reached its turn limit.
func (s *Session) Complete() bool {
	return len(s.History) >= MaxTurns
}

// Transcript renders the history as numbered question/answer pairs for the
// final evaluation prompt. Turn numbers are 1-based.
func (s *Session) Transcript() string {
	var b strings.Builder
	for i, turn := range s.History {
		fmt.Fprintf(&b, "Question %d: %s\nAnswer %d: %s\n\n", i+1, turn.Question, i+1, turn.Answer)
	}
	return b.String()
}
