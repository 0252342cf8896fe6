package interactive

import (
	"errors"
	"fmt"

	"github.com/fatih/color"
	"github.com/manifoldco/promptui"
	"github.com/trebuchet-org/pumpdeploy/internal/domain/config"
)

// Prompter asks the user yes/no questions on the terminal
type Prompter struct {
	nonInteractive bool
	run            func(prompt *promptui.Prompt) (string, error)
}

// NewPrompter creates a new prompter
func NewPrompter(cfg *config.RuntimeConfig) *Prompter {
	return &Prompter{
		nonInteractive: cfg.NonInteractive,
		run: func(prompt *promptui.Prompt) (string, error) {
			return prompt.Run()
		},
	}
}

// Confirm asks label as a yes/no question. Non-interactive sessions always proceed.
func (p *Prompter) Confirm(label string) (bool, error) {
	if p.nonInteractive {
		return true, nil
	}

	prompt := &promptui.Prompt{
		Label:     color.New(color.FgYellow).Sprint(label),
		IsConfirm: true,
	}

	_, err := p.run(prompt)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, promptui.ErrAbort):
		return false, nil
	case errors.Is(err, promptui.ErrInterrupt):
		return false, fmt.Errorf("cancelled")
	default:
		return false, fmt.Errorf("prompt failed: %w", err)
	}
}
