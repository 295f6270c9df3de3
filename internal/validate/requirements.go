package validate

import (
	"path"
	"strings"

	"github.com/harrison/submittal/internal/config"
	"github.com/harrison/submittal/internal/models"
)

// FindArtifacts matches candidate file names against each requirement's glob
// pattern set. A requirement pattern may contain several '|'-separated glob
// alternatives; matching is case-insensitive against the base name. Returns
// the matching names per requirement key, preserving candidate order.
// Multiple files may satisfy the same requirement; no uniqueness is enforced.
func FindArtifacts(names []string, reqs []config.Requirement) map[string][]string {
	matches := make(map[string][]string, len(reqs))
	for _, req := range reqs {
		matches[req.Key] = nil
	}
	for _, name := range names {
		upper := strings.ToUpper(name)
		for _, req := range reqs {
			if matchesAny(upper, req.Pattern) {
				matches[req.Key] = append(matches[req.Key], name)
			}
		}
	}
	return matches
}

// matchesAny reports whether the uppercased name matches at least one of the
// '|'-separated glob alternatives.
func matchesAny(upperName, pattern string) bool {
	for _, alt := range strings.Split(pattern, "|") {
		alt = strings.ToUpper(strings.TrimSpace(alt))
		if alt == "" {
			continue
		}
		if ok, err := path.Match(alt, upperName); err == nil && ok {
			return true
		}
	}
	return false
}

// CheckRequired emits one MissingRequiredArtifact error per required key with
// zero matching files, in requirement declaration order. Optional
// requirements never produce messages.
func CheckRequired(names []string, required []config.Requirement) []models.ValidationMessage {
	matches := FindArtifacts(names, required)
	var messages []models.ValidationMessage
	for _, req := range required {
		if len(matches[req.Key]) == 0 {
			messages = append(messages, models.Errorf("Missing required artifact: %s", req.Key))
		}
	}
	return messages
}
