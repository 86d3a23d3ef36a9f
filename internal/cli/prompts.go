package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/AlecAivazis/survey/v2"
)

// PromptForImagePath prompts the user for the hazard photo to assess
func PromptForImagePath() (string, error) {
	var path string
	prompt := &survey.Input{
		Message: "Percorso della foto da valutare:",
		Help:    "Path to a JPEG, PNG, GIF or WebP image of the hazard",
	}

	err := survey.AskOne(prompt, &path, survey.WithValidator(func(val interface{}) error {
		str := strings.TrimSpace(val.(string))
		if str == "" {
			return fmt.Errorf("image path cannot be empty")
		}
		if _, err := os.Stat(str); err != nil {
			return fmt.Errorf("cannot read %s", str)
		}
		return nil
	}))
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(path), nil
}

// PromptForLocation prompts for where the photo was taken. Empty is
// allowed; the report simply omits the location line.
func PromptForLocation() (string, error) {
	var location string
	prompt := &survey.Input{
		Message: "Localizzazione della segnalazione (opzionale):",
		Help:    "Address or description, e.g. 'Via Toledo 45' (leave empty to skip)",
	}

	if err := survey.AskOne(prompt, &location); err != nil {
		return "", err
	}
	return strings.TrimSpace(location), nil
}
