package models

// SectionName identifies a narrative section of the script manifest
type SectionName string

const (
	SectionHook        SectionName = "HOOK"
	SectionProblem     SectionName = "PROBLEM"
	SectionSolution    SectionName = "SOLUTION"
	SectionSocialProof SectionName = "SOCIAL_PROOF"
	SectionCTA         SectionName = "CTA"
)

// DefaultSectionOrder returns the fixed five-section template
func DefaultSectionOrder() []SectionName {
	return []SectionName{SectionHook, SectionProblem, SectionSolution, SectionSocialProof, SectionCTA}
}

// ScriptSection is one planned section of the ad script
type ScriptSection struct {
	Name            SectionName `json:"name"`
	Narration       string      `json:"narration"`
	VisualDirection string      `json:"visual_direction"`
	DurationSeconds float64     `json:"duration_seconds"`
}

// ScriptManifest is the ordered scene/section plan derived from a brief
type ScriptManifest struct {
	Sections    []ScriptSection `json:"sections"`
	VisualStyle string          `json:"visual_style"`
	FullScript  string          `json:"full_script"`
}

// Section returns the section with the given name, or nil
func (m *ScriptManifest) Section(name SectionName) *ScriptSection {
	for i := range m.Sections {
		if m.Sections[i].Name == name {
			return &m.Sections[i]
		}
	}
	return nil
}
