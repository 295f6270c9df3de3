// Package config loads and validates the submittal project configuration:
// filename conventions, per-stage artifact checklists, check toggles, and
// packaging layout.
package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// FilenameFields are the named capture groups the primary convention regex
// must declare. Exception regexes may declare any subset.
var FilenameFields = []string{"des", "stage", "discipline", "sheet_type", "sheet_range", "ext"}

// Project holds project-level metadata used for labeling outputs.
type Project struct {
	Designation string `yaml:"designation"`
	Route       string `yaml:"route"`
	ProjectName string `yaml:"project_name"`
	Consultant  string `yaml:"consultant"`
	Contact     string `yaml:"contact"`
	Stage       string `yaml:"stage"`
}

// ExceptionPattern is a secondary regex tried when the primary regex does not
// match a filename.
type ExceptionPattern struct {
	Name  string `yaml:"name"`
	Regex string `yaml:"regex"`

	compiled *regexp.Regexp
}

// Compiled returns the compiled exception regex. Valid only after Validate.
func (e *ExceptionPattern) Compiled() *regexp.Regexp {
	return e.compiled
}

// Conventions describes the filename grammar.
type Conventions struct {
	// FilenamePattern is the human-readable template used to document the
	// convention, e.g. "{des}_{stage}_{discipline}_{sheet_type}_{sheet_range}.{ext}".
	FilenamePattern      string             `yaml:"filename_pattern"`
	Regex                string             `yaml:"regex"`
	StageCaseInsensitive bool               `yaml:"stage_case_insensitive"`
	AllowSpaces          bool               `yaml:"allow_spaces"`
	AllowedExtensions    []string           `yaml:"allowed_extensions"`
	Exceptions           []ExceptionPattern `yaml:"exceptions"`

	compiled *regexp.Regexp
}

// Compiled returns the compiled primary regex. Valid only after Validate.
func (c *Conventions) Compiled() *regexp.Regexp {
	return c.compiled
}

// ExtensionAllowed reports whether the lowercased extension is permitted.
func (c *Conventions) ExtensionAllowed(ext string) bool {
	ext = strings.ToLower(ext)
	for _, allowed := range c.AllowedExtensions {
		if allowed == ext {
			return true
		}
	}
	return false
}

// Requirement is a required or optional artifact within a stage. Pattern may
// contain multiple glob alternatives separated by '|', matched
// case-insensitively against file base names.
type Requirement struct {
	Key         string `yaml:"key"`
	Pattern     string `yaml:"pattern"`
	Description string `yaml:"description,omitempty"`
}

// Stage defines the artifact checklist for one submission stage.
type Stage struct {
	// Preset names an IDM stage preset whose defaults are merged in when
	// InheritDefaults is true (the default).
	Preset          string `yaml:"preset,omitempty"`
	InheritDefaults *bool  `yaml:"inherit_defaults,omitempty"`

	Required          []Requirement `yaml:"required"`
	Optional          []Requirement `yaml:"optional"`
	DisciplineCodes   []string      `yaml:"discipline_codes"`
	Forms             []string      `yaml:"forms"`
	KeywordsRequired  []string      `yaml:"keywords_required"`
	KeywordsOptional  []string      `yaml:"keywords_optional"`
	KeywordsForbidden []string      `yaml:"keywords_forbidden"`
}

func (s *Stage) inheritsDefaults() bool {
	return s.InheritDefaults == nil || *s.InheritDefaults
}

// PDFTextScan configures keyword scanning of PDF text excerpts.
type PDFTextScan struct {
	Enabled            bool     `yaml:"enabled"`
	KeywordsRequired   []string `yaml:"keywords_required"`
	KeywordsForbidden  []string `yaml:"keywords_forbidden"`
	Pages              int      `yaml:"pages"`
	RequireAllKeywords bool     `yaml:"require_all_keywords"`
}

// SheetLimits bounds the total page count of a submission. Zero disables a
// bound.
type SheetLimits struct {
	MinTotalSheets int `yaml:"min_total_sheets"`
	MaxTotalSheets int `yaml:"max_total_sheets"`
}

// DisciplineCheck toggles the discipline-code whitelist validator.
type DisciplineCheck struct {
	Enabled bool `yaml:"enabled"`
}

// FormsCheck toggles the INDOT forms presence validator.
type FormsCheck struct {
	Enabled bool `yaml:"enabled"`
}

// SheetNumbering configures sheet-range validation.
type SheetNumbering struct {
	Enabled bool `yaml:"enabled"`
	// Width is the exact digit width each sheet token must have; 0 disables
	// the width check.
	Width             int  `yaml:"width"`
	RequireContiguous bool `yaml:"require_contiguous"`
	// StartingNumber, when > 0, is the expected lowest sheet number per
	// discipline.
	StartingNumber int `yaml:"starting_number"`
}

// Checks groups all validation toggles.
type Checks struct {
	PDFTextScan     PDFTextScan     `yaml:"pdf_text_scan"`
	SheetLimits     SheetLimits     `yaml:"sheet_limits"`
	DisciplineCodes DisciplineCheck `yaml:"discipline_codes"`
	Forms           FormsCheck      `yaml:"forms"`
	SheetNumbering  SheetNumbering  `yaml:"sheet_numbering"`
}

// PackageFolder defines one folder in the packaged ZIP and the rules that
// route files into it.
type PackageFolder struct {
	Name             string   `yaml:"name"`
	Description      string   `yaml:"description,omitempty"`
	Patterns         []string `yaml:"patterns"`
	Extensions       []string `yaml:"extensions"`
	IncludeGenerated bool     `yaml:"include_generated"`
}

// Packaging configures archive creation.
type Packaging struct {
	IncludeChecksums bool            `yaml:"include_checksums"`
	ChecksumAlgo     string          `yaml:"checksum_algo"`
	ZipNameFormat    string          `yaml:"zip_name_format"`
	RootFolderFormat string          `yaml:"root_folder_format"`
	DefaultFolder    string          `yaml:"default_folder"`
	Folders          []PackageFolder `yaml:"folders"`
}

// Config is the top-level configuration document.
type Config struct {
	Project     Project          `yaml:"project"`
	Conventions Conventions      `yaml:"conventions"`
	Stages      map[string]Stage `yaml:"stages"`
	Checks      Checks           `yaml:"checks"`
	Packaging   Packaging        `yaml:"packaging"`
}

// DefaultChecks returns the check toggles enabled by default.
func DefaultChecks() Checks {
	return Checks{
		PDFTextScan:     PDFTextScan{Enabled: false, Pages: 3, RequireAllKeywords: true},
		DisciplineCodes: DisciplineCheck{Enabled: true},
		Forms:           FormsCheck{Enabled: true},
		SheetNumbering:  SheetNumbering{Enabled: true, Width: 4},
	}
}

// DefaultPackaging returns the standard INDOT package layout.
func DefaultPackaging() Packaging {
	return Packaging{
		IncludeChecksums: true,
		ChecksumAlgo:     "sha256",
		ZipNameFormat:    "{des}_{stage}_IDM.zip",
		RootFolderFormat: "{des}_{stage}_IDM",
		DefaultFolder:    "2_Plan_Set",
		Folders: []PackageFolder{
			{
				Name:             "0_Admin",
				Description:      "Administrative outputs including the manifest, transmittal, and validation report.",
				Patterns:         []string{"*manifest*", "*checksum*", "*transmittal*", "*report*"},
				IncludeGenerated: true,
			},
			{
				Name:        "1_Cover_Letter",
				Description: "Signed cover letter and formal correspondence transmitted to INDOT reviewers.",
				Patterns:    []string{"*cover*letter*", "*transmittal*.pdf"},
			},
			{
				Name:        "2_Plan_Set",
				Description: "Plan set PDFs organized per the IDM checklist.",
				Extensions:  []string{"pdf"},
			},
			{
				Name:        "3_Supporting_Docs",
				Description: "Supporting design documentation such as calculations or memos.",
				Extensions:  []string{"doc", "docx", "xls", "xlsx"},
			},
			{
				Name:        "4_PCFS",
				Description: "Project Certification Forms (PCFs) and related approvals.",
				Patterns:    []string{"*pcf*"},
			},
		},
	}
}

// Load reads and validates configuration from a YAML file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse parses and validates configuration from YAML bytes.
func Parse(data []byte) (*Config, error) {
	cfg := &Config{
		Checks:    DefaultChecks(),
		Packaging: DefaultPackaging(),
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if len(cfg.Conventions.AllowedExtensions) == 0 {
		cfg.Conventions.AllowedExtensions = []string{"pdf", "docx"}
	}
	for i, ext := range cfg.Conventions.AllowedExtensions {
		cfg.Conventions.AllowedExtensions[i] = strings.ToLower(strings.TrimPrefix(ext, "."))
	}

	// Merge IDM preset defaults into each stage before validation so the
	// unique-key check sees the final requirement lists.
	for key, stage := range cfg.Stages {
		merged, err := applyPreset(stage)
		if err != nil {
			return nil, fmt.Errorf("stage %q: %w", key, err)
		}
		cfg.Stages[key] = merged
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks structural invariants and compiles the convention regexes.
func (c *Config) Validate() error {
	if len(c.Stages) == 0 {
		return fmt.Errorf("at least one stage must be configured")
	}

	if c.Conventions.Regex == "" {
		return fmt.Errorf("conventions.regex is required")
	}
	compiled, err := regexp.Compile(c.Conventions.Regex)
	if err != nil {
		return fmt.Errorf("invalid conventions.regex: %w", err)
	}
	// The primary regex must declare every filename field as a named group.
	// Checking here keeps parse-time extraction total: a match always yields
	// all six fields.
	declared := make(map[string]bool)
	for _, name := range compiled.SubexpNames() {
		if name != "" {
			declared[name] = true
		}
	}
	for _, field := range FilenameFields {
		if !declared[field] {
			return fmt.Errorf("conventions.regex missing named group %q", field)
		}
	}
	c.Conventions.compiled = compiled

	for i := range c.Conventions.Exceptions {
		exc := &c.Conventions.Exceptions[i]
		if exc.Name == "" {
			return fmt.Errorf("conventions.exceptions[%d]: name is required", i)
		}
		exc.compiled, err = regexp.Compile(exc.Regex)
		if err != nil {
			return fmt.Errorf("invalid exception regex %q: %w", exc.Name, err)
		}
	}

	for key, stage := range c.Stages {
		seen := make(map[string]bool)
		for _, req := range append(append([]Requirement{}, stage.Required...), stage.Optional...) {
			if req.Key == "" {
				return fmt.Errorf("stage %q: each requirement must define a key", key)
			}
			if req.Pattern == "" {
				return fmt.Errorf("stage %q: requirement %q must define a pattern", key, req.Key)
			}
			if seen[req.Key] {
				return fmt.Errorf("stage %q: duplicate requirement key %q", key, req.Key)
			}
			seen[req.Key] = true
		}
	}

	if c.Checks.SheetNumbering.Width < 0 {
		return fmt.Errorf("checks.sheet_numbering.width must be >= 0, got %d", c.Checks.SheetNumbering.Width)
	}
	if c.Checks.PDFTextScan.Pages < 0 {
		return fmt.Errorf("checks.pdf_text_scan.pages must be >= 0, got %d", c.Checks.PDFTextScan.Pages)
	}

	switch c.Packaging.ChecksumAlgo {
	case "":
		c.Packaging.ChecksumAlgo = "sha256"
	case "sha256", "sha1", "md5":
	default:
		return fmt.Errorf("unsupported checksum_algo %q", c.Packaging.ChecksumAlgo)
	}

	return nil
}

// ResolveStage maps a raw stage token to its configured key and definition.
// Matching is exact first; when the convention is case-insensitive a
// case-insensitive pass follows. Returns ok=false when the token resolves to
// no configured stage. The resolver never errors; callers decide whether an
// unresolved stage is a finding.
func (c *Config) ResolveStage(token string) (string, Stage, bool) {
	if token == "" {
		return "", Stage{}, false
	}
	if stage, found := c.Stages[token]; found {
		return token, stage, true
	}
	if c.Conventions.StageCaseInsensitive {
		for key, stage := range c.Stages {
			if strings.EqualFold(key, token) {
				return key, stage, true
			}
		}
	}
	return "", Stage{}, false
}

// Save writes the configuration to disk as YAML.
func Save(cfg *Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Example returns a starter configuration suitable for init-config.
func Example() *Config {
	return &Config{
		Project: Project{
			Designation: "0000000",
			Route:       "SR 00",
			ProjectName: "Example Project",
			Consultant:  "Consultant",
			Contact:     "Jane Doe <jane@example.com>",
			Stage:       "Stage1",
		},
		Conventions: Conventions{
			FilenamePattern:      "{des}_{stage}_{discipline}_{sheet_type}_{sheet_range}.{ext}",
			Regex:                `^(?P<des>\d{7})_(?P<stage>Stage[123]|Final)_(?P<discipline>[A-Z]+)_(?P<sheet_type>[A-Za-z0-9]+)_(?P<sheet_range>\d+(?:-\d+)?)\.(?P<ext>pdf|docx)$`,
			StageCaseInsensitive: true,
			AllowSpaces:          false,
			AllowedExtensions:    []string{"pdf", "docx"},
		},
		Stages: map[string]Stage{
			"Stage1": {
				Required: []Requirement{
					{Key: "title_sheet", Pattern: "*TITLE*.pdf"},
					{Key: "index_sheet", Pattern: "*INDEX*.pdf"},
				},
			},
		},
		Checks:    DefaultChecks(),
		Packaging: DefaultPackaging(),
	}
}
