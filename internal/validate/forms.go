package validate

import (
	"strings"

	"github.com/harrison/submittal/internal/config"
	"github.com/harrison/submittal/internal/models"
)

// CheckForms verifies that each configured INDOT form appears in at least one
// candidate file name. The comparison is deliberately fuzzy: both the form
// title and every file name are reduced with Normalize, and containment of
// the form token is enough. Exact form-number formatting in filenames is not
// required. Disabled when the policy flag is off or the stage defines no
// forms.
func CheckForms(names []string, stage config.Stage, cfg *config.Config) []models.ValidationMessage {
	if !cfg.Checks.Forms.Enabled || len(stage.Forms) == 0 {
		return nil
	}

	normalized := make([]string, len(names))
	for i, name := range names {
		normalized[i] = Normalize(name)
	}

	var messages []models.ValidationMessage
	for _, form := range stage.Forms {
		token := Normalize(form)
		if token == "" {
			continue
		}
		found := false
		for _, name := range normalized {
			if strings.Contains(name, token) {
				found = true
				break
			}
		}
		if !found {
			messages = append(messages, models.Errorf("Missing required form: %s", form))
		}
	}
	return messages
}
