package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/reelforge/reelforge/internal/models"
)

// TemplateScripting is the built-in scripting capability. It derives the
// fixed five-section manifest (HOOK, PROBLEM, SOLUTION, SOCIAL_PROOF, CTA)
// from the brief using narration templates.
type TemplateScripting struct{}

// NewTemplateScripting creates the template-based scripting capability
func NewTemplateScripting() *TemplateScripting {
	return &TemplateScripting{}
}

// GenerateScript builds the section manifest from the brief
func (ts *TemplateScripting) GenerateScript(ctx context.Context, brief models.Brief) (*models.ScriptManifest, error) {
	if brief.ProductName == "" {
		return nil, fmt.Errorf("brief has no product name")
	}
	if brief.DurationSeconds <= 0 {
		return nil, fmt.Errorf("brief has invalid duration %d", brief.DurationSeconds)
	}

	order := models.DefaultSectionOrder()
	perSection := float64(brief.DurationSeconds) / float64(len(order))

	benefit := "real results"
	if len(brief.Benefits) > 0 {
		benefit = brief.Benefits[0]
	}

	sections := make([]models.ScriptSection, 0, len(order))
	for _, name := range order {
		section := models.ScriptSection{
			Name:            name,
			DurationSeconds: perSection,
		}
		switch name {
		case models.SectionHook:
			section.Narration = fmt.Sprintf("What if %s could change your day?", brief.ProductName)
			section.VisualDirection = fmt.Sprintf("Cinematic sweeping opening shot introducing %s, dramatic lighting, %s mood", brief.ProductName, brief.Style)
		case models.SectionProblem:
			section.Narration = fmt.Sprintf("Every day, %s struggle with the same problem.", audienceOrDefault(brief))
			section.VisualDirection = "Everyday b-roll footage of the problem situation, muted ambient tones"
		case models.SectionSolution:
			section.Narration = fmt.Sprintf("%s delivers %s.", brief.ProductName, benefit)
			section.VisualDirection = fmt.Sprintf("Product close-up reveal of %s, clean background, slow rotating packshot", brief.ProductName)
		case models.SectionSocialProof:
			section.Narration = fmt.Sprintf("Thousands of people already trust %s.", brief.ProductName)
			section.VisualDirection = "A smiling person speaking to camera, natural light, testimonial framing"
		case models.SectionCTA:
			cta := brief.CallToAction
			if cta == "" {
				cta = fmt.Sprintf("Try %s today", brief.ProductName)
			}
			section.Narration = cta
			section.VisualDirection = fmt.Sprintf("Bold cinematic closing with logo placement and call to action text, %s style", brief.Style)
		}
		sections = append(sections, section)
	}

	narrations := make([]string, 0, len(sections))
	for _, s := range sections {
		narrations = append(narrations, s.Narration)
	}

	return &models.ScriptManifest{
		Sections:    sections,
		VisualStyle: string(brief.Style),
		FullScript:  strings.Join(narrations, " "),
	}, nil
}

func audienceOrDefault(brief models.Brief) string {
	if brief.TargetAudience != "" {
		return brief.TargetAudience
	}
	return "people"
}
