package agent

// Interaction is the thin user-interaction capability the orchestrator and
// cmd/aidebug entrypoint need outside of a tool dispatch — displaying a
// titled block such as the final status, and asking yes/no or for free text
// when the orchestrator itself (not a tool) needs a decision. The tool layer's own confirmation
// needs go through tools.UI instead; *ui.Terminal satisfies both.
type Interaction interface {
	AskYesNo(prompt string) bool
	AskInput(prompt string) (string, error)
	DisplayBlock(title, body string)
}
