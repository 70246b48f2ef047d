package template

import (
	"github.com/AlecAivazis/survey/v2"

	"duckgs/internal/domain"
)

var _ domain.Prompter = (*SurveyPrompter)(nil)

// SurveyPrompter asks the operator for placeholder values on the terminal.
type SurveyPrompter struct{}

// Ask prompts for a value for the named placeholder and blocks until the
// operator answers.
func (SurveyPrompter) Ask(name string) (string, error) {
	var value string
	prompt := &survey.Input{Message: "Please provide a value for " + name + ":"}
	if err := survey.AskOne(prompt, &value); err != nil {
		return "", err
	}
	return value, nil
}
