// Package validate implements the validation engine: filename parsing over a
// candidate file set, cross-field rule checks, and aggregation of findings
// into a severity-classified result.
package validate

import (
	"sort"
	"strings"
	"sync"

	"github.com/harrison/submittal/internal/config"
	"github.com/harrison/submittal/internal/models"
	"github.com/harrison/submittal/internal/parser"
)

// Candidate is one enumerated file handed to the engine. The caller supplies
// size and mtime so the engine itself never touches the file system beyond
// what the Inspector provides.
type Candidate struct {
	// Path locates the file for the Inspector.
	Path string
	// RelPath is the path relative to the validation root, used in the
	// manifest.
	RelPath string
	// Name is the base name matched against the naming convention.
	Name string
	SizeBytes int64
	// Modified is the source mtime in RFC 3339 UTC, recorded verbatim.
	Modified string
}

// Inspection is what the PDF collaborator reports for one file.
type Inspection struct {
	Pages int
	// Text is a bounded excerpt used for keyword scanning; empty when the
	// scan is disabled.
	Text string
	Err  error
}

// Inspector supplies page counts and text excerpts for PDF files. Implemented
// by pdfinfo; tests substitute fakes.
type Inspector interface {
	Inspect(path string, maxPages int, withText bool) Inspection
}

// Options control a validation run.
type Options struct {
	// Strict escalates every warning to an error after aggregation.
	Strict bool
	// Workers bounds concurrent PDF inspection; <= 0 means 4.
	Workers int
}

const defaultWorkers = 4

// Run executes one validation pass over the candidate files: parse every
// filename, resolve stages, inspect PDFs, run the batch validators, and
// aggregate everything into a single result. The pipeline always completes;
// findings become messages, never errors.
//
// Candidates must already be in canonical (lexicographic) order; message
// ordering and numbering checks depend on it.
func Run(candidates []Candidate, cfg *config.Config, targetStage string, insp Inspector, opts Options) *models.ValidationResult {
	result := &models.ValidationResult{}

	targetKey, stageCfg, stageOK := cfg.ResolveStage(targetStage)

	scan := effectiveScan(cfg, stageCfg, stageOK)

	// Parse every filename in scan order. Structural failures keep their
	// messages but produce no record.
	type parsedCandidate struct {
		cand   Candidate
		parsed *models.ParsedFilename
		issues []parser.Issue
	}
	parsedAll := make([]parsedCandidate, 0, len(candidates))
	for _, cand := range candidates {
		parsed, issues := parser.ParseFilename(cand.Path, cand.Name, cfg)
		if parsed != nil {
			if key, _, ok := cfg.ResolveStage(parsed.StageRaw); ok {
				parsed.StageKey = key
			}
		}
		parsedAll = append(parsedAll, parsedCandidate{cand: cand, parsed: parsed, issues: issues})
	}

	// Inspect PDFs in parallel. Results land in an index-preserving slice so
	// the later sequential pass emits messages in canonical file order.
	targets := make([]inspectTarget, len(parsedAll))
	for i, pc := range parsedAll {
		targets[i] = inspectTarget{
			path:  pc.cand.Path,
			isPDF: pc.parsed != nil && pc.parsed.Ext == "pdf",
		}
	}
	inspections := inspectAll(targets, insp, scan, opts)

	var parsedRecords []*models.ParsedFilename
	missingKeywords := keywordSet(scan.KeywordsRequired)

	for i, pc := range parsedAll {
		result.Append(parser.Messages(pc.issues)...)
		if pc.parsed == nil {
			continue
		}

		if pc.parsed.StageRaw != "" && pc.parsed.StageKey == "" {
			result.Append(models.Warnf("Stage '%s' in '%s' is not defined in configuration",
				pc.parsed.StageRaw, pc.cand.Name))
		}

		parsedRecords = append(parsedRecords, pc.parsed)

		pages := 0
		if pc.parsed.Ext == "pdf" {
			ins := inspections[i]
			if ins.Err != nil {
				result.Append(models.Warnf("Failed to read pages for %s: %v", pc.cand.Name, ins.Err))
			} else {
				pages = ins.Pages
			}

			if scan.Enabled && ins.Err == nil {
				text := strings.ToLower(ins.Text)
				for keyword := range missingKeywords {
					if strings.Contains(text, strings.ToLower(keyword)) {
						delete(missingKeywords, keyword)
					}
				}
				if hits := forbiddenHits(text, scan.KeywordsForbidden); len(hits) > 0 {
					result.Append(models.Errorf("Forbidden keywords present in %s: %s",
						pc.cand.Name, strings.Join(hits, ", ")))
				}
			}
		}

		result.Manifest = append(result.Manifest, models.ManifestEntry{
			RelativePath:      pc.cand.RelPath,
			SizeBytes:         pc.cand.SizeBytes,
			Pages:             pages,
			ChecksumAlgorithm: cfg.Packaging.ChecksumAlgo,
			Designation:       pc.parsed.Designation,
			Stage:             pc.parsed.Stage,
			Discipline:        pc.parsed.Discipline,
			SheetType:         pc.parsed.SheetType,
			SheetStart:        pc.parsed.SheetStart,
			SheetEnd:          pc.parsed.SheetEnd,
			Ext:               pc.parsed.Ext,
			SourceModified:    pc.cand.Modified,
		})
	}

	if scan.Enabled && len(missingKeywords) > 0 {
		keywords := make([]string, 0, len(missingKeywords))
		for keyword := range missingKeywords {
			keywords = append(keywords, keyword)
		}
		sort.Strings(keywords)
		text := "Missing required keywords across submission: " + strings.Join(keywords, ", ")
		if scan.RequireAllKeywords {
			result.Append(models.ValidationMessage{Severity: models.SeverityError, Text: text})
		} else {
			result.Append(models.ValidationMessage{Severity: models.SeverityWarning, Text: text})
		}
	}

	if !stageOK {
		result.Append(models.Errorf("Stage '%s' not defined in config", targetStage))
		return result
	}

	names := make([]string, len(candidates))
	for i, cand := range candidates {
		names[i] = cand.Name
	}

	result.Append(CheckRequired(names, stageCfg.Required)...)
	result.Append(CheckDisciplines(parsedRecords, targetKey, stageCfg, cfg)...)
	result.Append(CheckForms(names, stageCfg, cfg)...)
	result.Append(CheckSheetNumbering(parsedRecords, cfg.Checks.SheetNumbering)...)

	limits := cfg.Checks.SheetLimits
	totalPages := result.TotalPages()
	if limits.MinTotalSheets > 0 && totalPages < limits.MinTotalSheets {
		result.Append(models.Warnf("Total sheets %d below minimum %d", totalPages, limits.MinTotalSheets))
	}
	if limits.MaxTotalSheets > 0 && totalPages > limits.MaxTotalSheets {
		result.Append(models.Errorf("Total sheets %d exceeds maximum %d", totalPages, limits.MaxTotalSheets))
	}

	if opts.Strict {
		result.Escalate()
	}

	return result
}

// inspectJob marks which files need inspection at all.
type inspectJob struct {
	index int
	path  string
}

// inspectAll runs PDF inspection through a bounded worker pool and returns
// results indexed by candidate position. Non-PDF entries keep a zero value.
func inspectAll(files []inspectTarget, insp Inspector, scan config.PDFTextScan, opts Options) []Inspection {
	results := make([]Inspection, len(files))
	if insp == nil {
		return results
	}

	var jobs []inspectJob
	for i, f := range files {
		if f.isPDF {
			jobs = append(jobs, inspectJob{index: i, path: f.path})
		}
	}
	if len(jobs) == 0 {
		return results
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = defaultWorkers
	}
	if workers > len(jobs) {
		workers = len(jobs)
	}

	jobCh := make(chan inspectJob)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobCh {
				results[job.index] = insp.Inspect(job.path, scan.Pages, scan.Enabled)
			}
		}()
	}
	for _, job := range jobs {
		jobCh <- job
	}
	close(jobCh)
	wg.Wait()

	return results
}

type inspectTarget struct {
	path  string
	isPDF bool
}

// effectiveScan merges global scan keywords with the target stage's keyword
// lists when scanning is enabled.
func effectiveScan(cfg *config.Config, stage config.Stage, stageOK bool) config.PDFTextScan {
	scan := cfg.Checks.PDFTextScan
	if !scan.Enabled {
		return scan
	}
	if stageOK {
		scan.KeywordsRequired = append(append([]string{}, scan.KeywordsRequired...), stage.KeywordsRequired...)
		scan.KeywordsForbidden = append(append([]string{}, scan.KeywordsForbidden...), stage.KeywordsForbidden...)
	}
	return scan
}

func keywordSet(keywords []string) map[string]bool {
	set := make(map[string]bool, len(keywords))
	for _, keyword := range keywords {
		set[keyword] = true
	}
	return set
}

// forbiddenHits returns the forbidden keywords present in the lowercased
// text, sorted for stable output.
func forbiddenHits(lowerText string, forbidden []string) []string {
	var hits []string
	seen := make(map[string]bool)
	for _, keyword := range forbidden {
		if seen[keyword] {
			continue
		}
		seen[keyword] = true
		if strings.Contains(lowerText, strings.ToLower(keyword)) {
			hits = append(hits, keyword)
		}
	}
	sort.Strings(hits)
	return hits
}
