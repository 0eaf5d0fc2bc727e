package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"runtime/debug"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/viva-cli/internal/adapters/driving/tui"
	"github.com/custodia-labs/viva-cli/internal/core/domain"
)

var interviewPlain bool

var interviewCmd = &cobra.Command{
	Use:   "interview",
	Short: "Start an interview over the ingested document",
	Long: `Starts an interactive interview session.

You choose each topic; viva retrieves the relevant passages from the
ingested document and asks a question about them. After ten answered
questions you receive a written evaluation.

Say 'I don't know' to skip a question you cannot answer.`,
	RunE: runInterview,
}

func init() {
	interviewCmd.Flags().BoolVar(&interviewPlain, "plain", false, "line-oriented mode without the TUI")
	rootCmd.AddCommand(interviewCmd)
}

func runInterview(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	settings, err := loadConfig()
	if err != nil {
		return err
	}

	svc, err := buildInterviewService(ctx, settings)
	if err != nil {
		return err
	}

	sessionID := uuid.NewString()

	if interviewPlain {
		return runPlainInterview(ctx, cmd, sessionID)
	}

	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
		}
	}()

	model := tui.NewModel(svc, sessionID)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}

// runPlainInterview drives the session over plain stdin/stdout for
// terminals where the TUI is unsuitable (dumb terminals, transcripts).
func runPlainInterview(ctx context.Context, cmd *cobra.Command, sessionID string) error {
	greeting, err := interviewService.Start(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("start interview: %w", err)
	}
	cmd.Println(greeting)

	reader := bufio.NewReader(cmd.InOrStdin())

	for {
		question, done, err := plainAskLoop(ctx, cmd, reader, sessionID)
		if err != nil {
			return err
		}
		if done {
			return nil
		}

		over, err := plainAnswerLoop(ctx, cmd, reader, sessionID, question)
		if err != nil {
			return err
		}
		if over {
			return nil
		}
	}
}

// plainAskLoop reads topics until one is accepted and returns the
// generated question. done is true on EOF.
func plainAskLoop(ctx context.Context, cmd *cobra.Command, reader *bufio.Reader, sessionID string) (string, bool, error) {
	for {
		cmd.Print("\nTopic> ")
		topic, ok := readPlainLine(reader)
		if !ok {
			return "", true, nil
		}

		result, err := interviewService.AskQuestion(ctx, sessionID, topic)
		if err != nil {
			return "", false, fmt.Errorf("ask question: %w", err)
		}
		if result.Rejected {
			cmd.Println(result.Message)
			continue
		}

		cmd.Printf("\n%s\n", result.Question)
		return result.Question, false, nil
	}
}

// plainAnswerLoop reads answers until one is accepted into history.
// over is true when the interview ended, on the final evaluation or EOF.
func plainAnswerLoop(ctx context.Context, cmd *cobra.Command, reader *bufio.Reader, sessionID, question string) (bool, error) {
	for {
		cmd.Print("\nAnswer> ")
		answer, ok := readPlainLine(reader)
		if !ok {
			return true, nil
		}

		result, err := interviewService.SubmitAnswer(ctx, sessionID, question, answer)
		if err != nil {
			return false, fmt.Errorf("submit answer: %w", err)
		}
		if result.Rejected {
			cmd.Println(result.Message)
			continue
		}

		if result.InterviewOver {
			cmd.Println("\nThe interview is complete. Here is your evaluation:")
			cmd.Println()
			cmd.Println(result.Feedback)
			return true, nil
		}

		cmd.Printf("\n[%d/%d] %s\n", result.TurnsCompleted, domain.MaxTurns, result.Message)
		return false, nil
	}
}

func readPlainLine(reader *bufio.Reader) (string, bool) {
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return "", false
	}
	return strings.TrimSpace(line), true
}
