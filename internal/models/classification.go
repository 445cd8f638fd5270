package models

// ContentClassification is the closed taxonomy produced by scene classifiers
type ContentClassification string

const (
	ClassificationCinematic     ContentClassification = "cinematic"
	ClassificationHumanSubjects ContentClassification = "human_subjects"
	ClassificationProductReveal ContentClassification = "product_reveal"
	ClassificationBRoll         ContentClassification = "broll"
	ClassificationMixed         ContentClassification = "mixed"
)

// ValidClassification reports whether c is a member of the closed taxonomy
func ValidClassification(c ContentClassification) bool {
	switch c {
	case ClassificationCinematic, ClassificationHumanSubjects,
		ClassificationProductReveal, ClassificationBRoll, ClassificationMixed:
		return true
	}
	return false
}

// SceneClassification is the shared output contract of both classifier
// strategies. Every field is validated against the closed enumerations.
type SceneClassification struct {
	SceneID             string                `json:"scene_id"`
	SceneIndex          int                   `json:"scene_index"`
	RecommendedProvider string                `json:"recommended_provider"`
	FallbackProvider    string                `json:"fallback_provider"`
	Confidence          int                   `json:"confidence"`
	Reasoning           string                `json:"reasoning"`
	Classification      ContentClassification `json:"content_classification"`
}
