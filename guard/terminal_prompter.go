package guard

import (
	"os"

	"github.com/charmbracelet/huh"
)

// TerminalPrompter provides interactive terminal confirmation for binding
// changes.
type TerminalPrompter struct{}

// NewTerminalPrompter creates a new TerminalPrompter.
func NewTerminalPrompter() *TerminalPrompter {
	return &TerminalPrompter{}
}

// IsInteractive checks if we're running in an interactive terminal.
func (p *TerminalPrompter) IsInteractive() bool {
	fileInfo, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (fileInfo.Mode() & os.ModeCharDevice) != 0
}

// Confirm asks the user to approve the change.
func (p *TerminalPrompter) Confirm(change Change) (bool, error) {
	var approved bool

	err := huh.NewConfirm().
		Title("Change Default Handler").
		Description(change.Description()).
		Affirmative("Yes, change it").
		Negative("No, keep current").
		Value(&approved).
		Run()
	if err != nil {
		return false, err
	}

	return approved, nil
}
