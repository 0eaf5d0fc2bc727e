package driven

// PromptStore provides access to LLM prompt templates.
// Implementations may load prompts from files, embed them in the binary,
// or fetch them from a remote configuration service.
type PromptStore interface {
	// Load returns the prompt template for the given name.
	Load(name string) (string, error)

	// Reload clears any cached prompts, forcing fresh loads on next access.
	// This is useful when prompts may have been edited on disk.
	Reload()
}

// Well-known prompt names used throughout the application.
// These constants define the contract between prompt consumers and providers.
const (
	// PromptQuestion generates one interview question from a topic and
	// retrieved context. The template expects %s (context) and %s (topic)
	// placeholders, in that order.
	PromptQuestion = "question"

	// PromptRelevance classifies whether an answer addresses the question.
	// The template expects %s (question) and %s (answer) placeholders and
	// instructs the model to reply "RELEVANT" or "NOT_RELEVANT: <reason>".
	PromptRelevance = "relevance"

	// PromptEvaluation produces the final narrative feedback from a full
	// interview transcript. The template expects a %s (transcript)
	// placeholder.
	PromptEvaluation = "evaluation"
)

// RelevanceSentinel prefixes a relevance response that flags an answer as
// off topic; the remainder of the line is human-readable feedback.
const RelevanceSentinel = "NOT_RELEVANT"
