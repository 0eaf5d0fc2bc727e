package domain

import (
	"strings"
	"testing"
)

func TestSession_Complete(t *testing.T) {
	s := &Session{ID: "s1"}
	if s.Complete() {
		t.Error("empty session should not be complete")
	}

	for i := 0; i < MaxTurns; i++ {
		s.History = append(s.History, Turn{Question: "q", Answer: "a"})
	}
	if !s.Complete() {
		t.Errorf("session with %d turns should be complete", MaxTurns)
	}
}

func TestSession_Transcript(t *testing.T) {
	s := &Session{
		History: []Turn{
			{Question: "What is overfitting?", Answer: "Memorising noise."},
			{Question: "What is a kernel?", Answer: SkippedPlaceholder},
		},
	}

	got := s.Transcript()

	if !strings.Contains(got, "Question 1: What is overfitting?") {
		t.Errorf("transcript missing first question:\n%s", got)
	}
	if !strings.Contains(got, "Answer 2: "+SkippedPlaceholder) {
		t.Errorf("transcript missing skipped placeholder:\n%s", got)
	}
	// Turn numbering is 1-based.
	if strings.Contains(got, "Question 0") {
		t.Errorf("transcript uses 0-based numbering:\n%s", got)
	}
}

func TestSession_Transcript_Empty(t *testing.T) {
	s := &Session{}
	if s.Transcript() != "" {
		t.Error("empty history should render an empty transcript")
	}
}

func TestOffTopicAnswer(t *testing.T) {
	got := OffTopicAnswer("I like trains")
	if !strings.Contains(got, "I like trains") {
		t.Errorf("off-topic wrapper should preserve the original answer, got %q", got)
	}
	if !strings.HasPrefix(got, "(User provided an off-topic response:") {
		t.Errorf("unexpected off-topic marker: %q", got)
	}
}

func TestAnswerKind_String(t *testing.T) {
	cases := map[AnswerKind]string{
		AnswerAccepted: "accepted",
		AnswerSkipped:  "skipped",
		AnswerOffTopic: "off-topic",
	}
	for kind, want := range cases {
		if kind.String() != want {
			t.Errorf("AnswerKind(%d).String() = %q, want %q", kind, kind.String(), want)
		}
	}
}
