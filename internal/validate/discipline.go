package validate

import (
	"strings"

	"github.com/harrison/submittal/internal/config"
	"github.com/harrison/submittal/internal/models"
)

// CheckDisciplines validates each parsed file's discipline code against the
// stage whitelist and flags files whose resolved stage differs from the stage
// under validation. Disabled (returns nil) when the policy flag is off or the
// stage defines no discipline codes.
func CheckDisciplines(parsed []*models.ParsedFilename, stageKey string, stage config.Stage, cfg *config.Config) []models.ValidationMessage {
	if !cfg.Checks.DisciplineCodes.Enabled || len(stage.DisciplineCodes) == 0 {
		return nil
	}

	allowed := make(map[string]bool, len(stage.DisciplineCodes))
	for _, code := range stage.DisciplineCodes {
		allowed[strings.ToUpper(code)] = true
	}

	var messages []models.ValidationMessage
	for _, p := range parsed {
		if p.StageKey != "" && p.StageKey != stageKey {
			messages = append(messages, models.Errorf(
				"File '%s' belongs to stage '%s' but is being validated against stage '%s'",
				p.SourcePath, p.StageKey, stageKey))
		}
		if p.Discipline != "" && !allowed[strings.ToUpper(p.Discipline)] {
			messages = append(messages, models.Errorf(
				"Discipline '%s' in '%s' is not permitted for stage '%s'",
				p.Discipline, p.SourcePath, stageKey))
		}
	}
	return messages
}
