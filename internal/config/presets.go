package config

import "fmt"

// presetDefaults holds curated Indiana Design Manual defaults for one stage.
type presetDefaults struct {
	Name              string
	Description       string
	Required          []Requirement
	Optional          []Requirement
	DisciplineCodes   []string
	Forms             []string
	KeywordsRequired  []string
	KeywordsOptional  []string
	KeywordsForbidden []string
}

// presetOrder fixes preset iteration order for listings.
var presetOrder = []string{"Stage1", "Stage2", "Stage3", "Final"}

var stagePresets = map[string]presetDefaults{
	"Stage1": {
		Name: "Stage 1 - Preliminary Field Check",
		Description: "Early plan development package used for the preliminary field check " +
			"review. The emphasis is on corridor definition, typical sections, and " +
			"preliminary quantities so reviewers can identify major scope issues.",
		Required: []Requirement{
			{Key: "title_sheet", Pattern: "*TITLE*.pdf", Description: "Title sheet with designation, route, project limits, and PE seal block."},
			{Key: "index_sheet", Pattern: "*INDEX*.pdf", Description: "Plan index identifying drawing sequence and sheet totals."},
			{Key: "typical_sections", Pattern: "*TYP*.pdf", Description: "Typical section sheets covering each roadway segment."},
			{Key: "plan_and_profile", Pattern: "*PLAN*PROFILE*.pdf", Description: "Combined plan and profile depicting horizontal and vertical control."},
			{Key: "preliminary_quantities", Pattern: "*QTY*.pdf", Description: "Summary of preliminary quantities with pay item numbers."},
		},
		Optional: []Requirement{
			{Key: "structure_concepts", Pattern: "*STRUCT*.pdf", Description: "Structure layout sheets or bridge concept report attachments."},
			{Key: "traffic_memorandum", Pattern: "*TRAFFIC*.pdf", Description: "Supporting traffic engineering memorandum or capacity worksheets."},
		},
		DisciplineCodes: []string{"GN", "TS", "PL", "RD", "TMP", "BR"},
		Forms: []string{
			"Form IC-701 Preliminary Field Check Transmittal",
			"Form IC-730 Stage 1 Quantities Checklist",
		},
		KeywordsRequired: []string{"STAGE 1", "PRELIMINARY", "FIELD CHECK"},
		KeywordsOptional: []string{"PFC", "CONCEPT"},
	},
	"Stage2": {
		Name: "Stage 2 - Design Development",
		Description: "Approximately 60 percent design deliverable used for design " +
			"development and coordination with specialty groups. Cross sections, " +
			"traffic control, drainage, and quantity refinements are expected.",
		Required: []Requirement{
			{Key: "title_sheet", Pattern: "*TITLE*.pdf", Description: "Title sheet updated with design development revision block."},
			{Key: "index_sheet", Pattern: "*INDEX*.pdf", Description: "Updated plan index reflecting added sheet series."},
			{Key: "plan_and_profile", Pattern: "*PLAN*PROFILE*.pdf", Description: "Plan and profile sheets with design speeds, superelevation, and references."},
			{Key: "cross_sections", Pattern: "*XS*.pdf", Description: "Cross section sheets covering the entire project limits."},
			{Key: "traffic_control", Pattern: "*MOT*.pdf", Description: "Maintenance of traffic / traffic control plan set."},
			{Key: "drainage_design", Pattern: "*DRAIN*.pdf", Description: "Drainage layout, structure sizing summaries, and hydraulics computations."},
			{Key: "quantity_summary", Pattern: "*QTY*.pdf", Description: "Updated quantity summary and cost estimate."},
		},
		Optional: []Requirement{
			{Key: "lighting_signing", Pattern: "*SIGN*.pdf|*LIGHT*.pdf", Description: "Signing and lighting layouts if applicable."},
			{Key: "environmental_commitments", Pattern: "*ENV*.pdf", Description: "Environmental commitments status report."},
		},
		DisciplineCodes: []string{"GN", "TS", "RD", "XS", "TMP", "DR", "SG", "LT"},
		Forms: []string{
			"Form IC-702 Stage 2 Transmittal",
			"Form IC-733 Stage 2 Design Development Checklist",
		},
		KeywordsRequired: []string{"STAGE 2", "DESIGN DEVELOPMENT"},
		KeywordsOptional: []string{"60%", "DESIGN REVIEW"},
	},
	"Stage3": {
		Name: "Stage 3 - Final Check Plans",
		Description: "Ninety percent design package used for the final check review. All " +
			"plan components, quantities, and special provisions should be close to " +
			"final form with QA/QC completed.",
		Required: []Requirement{
			{Key: "title_sheet", Pattern: "*TITLE*.pdf", Description: "Title sheet with final check signature and revision history."},
			{Key: "index_sheet", Pattern: "*INDEX*.pdf", Description: "Complete plan index cross-referencing sheet numbering."},
			{Key: "plan_and_profile", Pattern: "*PLAN*PROFILE*.pdf", Description: "Plan and profile sheets incorporating final horizontal and vertical control."},
			{Key: "cross_sections", Pattern: "*XS*.pdf", Description: "Cross sections annotated with earthwork quantities and slope limits."},
			{Key: "traffic_control", Pattern: "*MOT*.pdf", Description: "Maintenance of traffic / traffic control plans including detours."},
			{Key: "signing_and_marking", Pattern: "*SIGN*.pdf|*MARKING*.pdf", Description: "Signing and pavement marking sheets."},
			{Key: "special_provisions", Pattern: "*SP*.pdf", Description: "Draft special provisions and unique project requirements."},
			{Key: "final_quantities", Pattern: "*QTY*.pdf", Description: "Final quantity book and cost estimate."},
		},
		Optional: []Requirement{
			{Key: "utility_coordination", Pattern: "*UTILITY*.pdf", Description: "Utility coordination status, agreements, and conflict matrix."},
			{Key: "right_of_way", Pattern: "*ROW*.pdf", Description: "Right-of-way plans or parcel status summary."},
		},
		DisciplineCodes: []string{"GN", "RD", "XS", "TMP", "SG", "MK", "UT", "RW"},
		Forms: []string{
			"Form IC-703 Stage 3 Transmittal",
			"Form IC-735 Final Check QA Checklist",
		},
		KeywordsRequired: []string{"STAGE 3", "FINAL CHECK"},
		KeywordsOptional: []string{"90%", "QC REVIEW"},
	},
	"Final": {
		Name: "Final Tracings / RFC",
		Description: "Release for construction deliverable. Includes sealed plans, final " +
			"quantities, specifications, and supporting forms needed for contract letting.",
		Required: []Requirement{
			{Key: "title_sheet", Pattern: "*TITLE*.pdf", Description: "Sealed title sheet with signatures and INDOT approval block."},
			{Key: "index_sheet", Pattern: "*INDEX*.pdf", Description: "Index of final tracing sheets with revision references."},
			{Key: "plan_set", Pattern: "*.pdf", Description: "Complete sealed plan set including all discipline sheet series."},
			{Key: "as_readied_specifications", Pattern: "*SPEC*.pdf", Description: "Approved special provisions and unique project specifications."},
			{Key: "final_quantities", Pattern: "*QTY*.pdf", Description: "Engineer's estimate and final quantities recap."},
			{Key: "affidavit_of_approval", Pattern: "*AFFIDAVIT*.pdf", Description: "Affidavit of final plan approval and professional engineer certification."},
		},
		Optional: []Requirement{
			{Key: "contract_documents", Pattern: "*CONTRACT*.pdf", Description: "Contract book excerpts for letting coordination."},
			{Key: "as_built_supplements", Pattern: "*ASBUILT*.pdf", Description: "Known as-built constraints or supplemental survey data."},
		},
		DisciplineCodes: []string{"GN", "RD", "XS", "TMP", "SG", "MK", "DR", "UT", "RW", "EL"},
		Forms: []string{
			"Form IC-704 Final Tracings Transmittal",
			"Form IC-736 RFC Certification",
			"Form IC-762 Design Approval Checklist",
		},
		KeywordsRequired: []string{"FINAL", "RFC", "RELEASE FOR CONSTRUCTION"},
		KeywordsOptional: []string{"SEALED", "ISSUED FOR CONSTRUCTION"},
	},
}

// AvailablePresets returns the supported IDM stage preset names in their
// documented order.
func AvailablePresets() []string {
	out := make([]string, len(presetOrder))
	copy(out, presetOrder)
	return out
}

// applyPreset merges preset defaults into a user-supplied stage. The merge is
// deterministic: requirement lists are merged by key with defaults first and
// user entries winning per key, string lists are unioned preserving first-seen
// order. A stage without a preset (or with inherit_defaults: false) is
// returned unchanged.
func applyPreset(stage Stage) (Stage, error) {
	if stage.Preset == "" || !stage.inheritsDefaults() {
		return stage, nil
	}

	defaults, ok := stagePresets[stage.Preset]
	if !ok {
		return stage, fmt.Errorf("unknown IDM stage preset %q", stage.Preset)
	}

	stage.Required = mergeRequirements(defaults.Required, stage.Required)
	stage.Optional = mergeRequirements(defaults.Optional, stage.Optional)
	stage.DisciplineCodes = mergeUnique(defaults.DisciplineCodes, stage.DisciplineCodes)
	stage.Forms = mergeUnique(defaults.Forms, stage.Forms)
	stage.KeywordsRequired = mergeUnique(defaults.KeywordsRequired, stage.KeywordsRequired)
	stage.KeywordsOptional = mergeUnique(defaults.KeywordsOptional, stage.KeywordsOptional)
	stage.KeywordsForbidden = mergeUnique(defaults.KeywordsForbidden, stage.KeywordsForbidden)
	return stage, nil
}

// mergeRequirements combines defaults and overrides keyed by requirement key.
// Order is defaults first in their declared order, then overrides that
// introduce new keys in their declared order. An override replaces the default
// with the same key in place.
func mergeRequirements(defaults, overrides []Requirement) []Requirement {
	index := make(map[string]int, len(defaults))
	merged := make([]Requirement, 0, len(defaults)+len(overrides))
	for _, req := range defaults {
		index[req.Key] = len(merged)
		merged = append(merged, req)
	}
	for _, req := range overrides {
		if pos, exists := index[req.Key]; exists {
			merged[pos] = req
			continue
		}
		index[req.Key] = len(merged)
		merged = append(merged, req)
	}
	return merged
}

// mergeUnique unions two string lists preserving first-seen order.
func mergeUnique(defaults, overrides []string) []string {
	seen := make(map[string]bool, len(defaults)+len(overrides))
	merged := make([]string, 0, len(defaults)+len(overrides))
	for _, item := range append(append([]string{}, defaults...), overrides...) {
		if seen[item] {
			continue
		}
		seen[item] = true
		merged = append(merged, item)
	}
	return merged
}
