package validate

import (
	"fmt"
	"sort"

	"github.com/harrison/submittal/internal/config"
	"github.com/harrison/submittal/internal/models"
)

// sheetRange is one file's numeric sheet span within a discipline.
type sheetRange struct {
	start int
	end   int
}

// CheckSheetNumbering validates sheet ranges per discipline: overlapping
// ranges always, lowest starting number and contiguity only when configured.
// Files without a discipline or without numeric sheet fields are skipped;
// the parser already reported those.
func CheckSheetNumbering(parsed []*models.ParsedFilename, numbering config.SheetNumbering) []models.ValidationMessage {
	if !numbering.Enabled {
		return nil
	}

	byDiscipline := make(map[string][]sheetRange)
	for _, p := range parsed {
		if p.Discipline == "" || p.SheetStart == nil {
			continue
		}
		r := sheetRange{start: *p.SheetStart, end: *p.SheetStart}
		if p.SheetEnd != nil {
			r.end = *p.SheetEnd
		}
		byDiscipline[p.Discipline] = append(byDiscipline[p.Discipline], r)
	}

	// Disciplines are visited in sorted order so repeated runs over the same
	// input produce identical message sequences.
	disciplines := make([]string, 0, len(byDiscipline))
	for discipline := range byDiscipline {
		disciplines = append(disciplines, discipline)
	}
	sort.Strings(disciplines)

	var messages []models.ValidationMessage
	for _, discipline := range disciplines {
		ranges := byDiscipline[discipline]
		sort.Slice(ranges, func(i, j int) bool {
			if ranges[i].start != ranges[j].start {
				return ranges[i].start < ranges[j].start
			}
			return ranges[i].end < ranges[j].end
		})

		messages = append(messages, checkOverlaps(discipline, ranges, numbering)...)
		if numbering.StartingNumber > 0 {
			messages = append(messages, checkStartingNumber(discipline, ranges, numbering)...)
		}
		if numbering.RequireContiguous {
			messages = append(messages, checkContiguity(discipline, ranges, numbering)...)
		}
	}
	return messages
}

// checkOverlaps compares adjacent sorted ranges and warns when one begins at
// or before the previous one's end. Only adjacent pairs are compared, so an
// overlap between entries two apart can go unreported when a third range
// nests fully inside the first; this matches the long-standing duplicate
// detection behavior.
func checkOverlaps(discipline string, ranges []sheetRange, numbering config.SheetNumbering) []models.ValidationMessage {
	var messages []models.ValidationMessage
	for i := 1; i < len(ranges); i++ {
		prev, cur := ranges[i-1], ranges[i]
		if cur.start <= prev.end {
			messages = append(messages, models.Warnf(
				"Discipline %s has overlapping sheets %s and %s",
				discipline, formatRange(prev, numbering.Width), formatRange(cur, numbering.Width)))
		}
	}
	return messages
}

// checkStartingNumber warns when a discipline's lowest sheet number differs
// from the configured starting number.
func checkStartingNumber(discipline string, ranges []sheetRange, numbering config.SheetNumbering) []models.ValidationMessage {
	if len(ranges) == 0 {
		return nil
	}
	lowest := ranges[0].start
	if lowest == numbering.StartingNumber {
		return nil
	}
	return []models.ValidationMessage{models.Warnf(
		"Discipline %s numbering starts at %s, expected %s",
		discipline, formatSheet(lowest, numbering.Width), formatSheet(numbering.StartingNumber, numbering.Width))}
}

// checkContiguity walks the sorted ranges with an expected cursor and reports
// each gap once. After a gap the cursor resets to the offending range's start
// so a single gap does not cascade into repeated errors.
func checkContiguity(discipline string, ranges []sheetRange, numbering config.SheetNumbering) []models.ValidationMessage {
	var messages []models.ValidationMessage
	expected := 0
	for i, r := range ranges {
		if i == 0 {
			expected = r.start
		}
		if r.start != expected {
			messages = append(messages, models.Errorf(
				"Discipline %s has a sheet numbering gap: expected %s, found %s",
				discipline, formatSheet(expected, numbering.Width), formatSheet(r.start, numbering.Width)))
			expected = r.start
		}
		expected = r.end + 1
	}
	return messages
}

func formatRange(r sheetRange, width int) string {
	if r.start == r.end {
		return formatSheet(r.start, width)
	}
	return formatSheet(r.start, width) + "-" + formatSheet(r.end, width)
}

func formatSheet(n, width int) string {
	if width <= 0 {
		return fmt.Sprintf("%d", n)
	}
	return fmt.Sprintf("%0*d", width, n)
}
