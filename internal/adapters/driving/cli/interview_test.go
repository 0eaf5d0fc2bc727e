package cli

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/viva-cli/internal/core/domain"
	"github.com/custodia-labs/viva-cli/internal/core/ports/driving"
)

// stubInterviewService runs a scripted two-turn interview: the first
// accepted answer continues, the second ends with an evaluation.
type stubInterviewService struct {
	started bool
	asked   int
	answers int
}

func (s *stubInterviewService) Start(_ context.Context, _ string) (string, error) {
	s.started = true
	return "Hello! Let's begin.", nil
}

func (s *stubInterviewService) AskQuestion(_ context.Context, _, topic string) (*driving.QuestionResult, error) {
	if topic == "hi" {
		return &driving.QuestionResult{Rejected: true, Message: "Pick a covered topic."}, nil
	}
	s.asked++
	return &driving.QuestionResult{Question: fmt.Sprintf("Question about %s?", topic)}, nil
}

func (s *stubInterviewService) SubmitAnswer(_ context.Context, _, _, answer string) (*driving.AnswerResult, error) {
	if answer == "ab" {
		return &driving.AnswerResult{Rejected: true, Message: "Please provide a more detailed answer."}, nil
	}
	s.answers++
	if s.answers == 2 {
		return &driving.AnswerResult{
			Kind:           domain.AnswerAccepted,
			Feedback:       "Good effort overall.",
			InterviewOver:  true,
			TurnsCompleted: domain.MaxTurns,
		}, nil
	}
	return &driving.AnswerResult{
		Kind:           domain.AnswerAccepted,
		Message:        "What is the next topic?",
		TurnsCompleted: s.answers,
	}, nil
}

func TestInterviewCmd_Use(t *testing.T) {
	assert.Equal(t, "interview", interviewCmd.Use)
}

func TestInterviewCmd_HasPlainFlag(t *testing.T) {
	flag := interviewCmd.Flags().Lookup("plain")
	require.NotNil(t, flag)
	assert.Equal(t, "false", flag.DefValue)
}

func TestInterviewCmd_PlainRunsFullSession(t *testing.T) {
	cleanup := setupTestServices(t)
	defer cleanup()
	stub := &stubInterviewService{}
	interviewService = stub

	stdin := "concurrency\nGoroutines are lightweight threads.\nchannels\nChannels synchronise goroutines.\n"
	out, err := execute(t, stdin, "interview", "--plain")

	require.NoError(t, err)
	assert.True(t, stub.started)
	assert.Equal(t, 2, stub.asked)
	assert.Contains(t, out, "Hello! Let's begin.")
	assert.Contains(t, out, "Question about concurrency?")
	assert.Contains(t, out, "[1/10] What is the next topic?")
	assert.Contains(t, out, "Good effort overall.")
}

func TestInterviewCmd_PlainRepromptsOnRejection(t *testing.T) {
	cleanup := setupTestServices(t)
	defer cleanup()
	stub := &stubInterviewService{}
	interviewService = stub

	// Rejected topic, then rejected answer, then EOF after the follow-up.
	stdin := "hi\nconcurrency\nab\nGoroutines are lightweight threads.\n"
	out, err := execute(t, stdin, "interview", "--plain")

	require.NoError(t, err)
	assert.Contains(t, out, "Pick a covered topic.")
	assert.Contains(t, out, "Please provide a more detailed answer.")
	assert.Equal(t, 1, stub.asked, "the rejected topic consumed no question")
	assert.Equal(t, 1, stub.answers, "the rejected answer consumed no turn")
}

func TestInterviewCmd_PlainStopsOnEOF(t *testing.T) {
	cleanup := setupTestServices(t)
	defer cleanup()
	stub := &stubInterviewService{}
	interviewService = stub

	out, err := execute(t, "", "interview", "--plain")

	require.NoError(t, err)
	assert.True(t, stub.started)
	assert.Contains(t, out, "Hello! Let's begin.")
	assert.Zero(t, stub.asked)
}
