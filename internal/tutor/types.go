package tutor

// AnalyzePath is the endpoint path of the analysis service
const AnalyzePath = "/api/v1/tutor/analyze"

// Multipart field names
const (
	FieldImage    = "image"
	FieldLanguage = "language"
)

// TutorialResult is the success payload of the analysis service
type TutorialResult struct {
	Tutorial            string   `json:"tutorial" yaml:"tutorial"`
	ComponentsDetected  []string `json:"components_detected" yaml:"components_detected"`
	EstimatedDifficulty string   `json:"estimated_difficulty" yaml:"estimated_difficulty"`
	EstimatedTime       string   `json:"estimated_time" yaml:"estimated_time"`
}

// Normalize replaces absent collections with empty ones and returns r
func (r *TutorialResult) Normalize() *TutorialResult {
	if r == nil {
		return nil
	}
	if r.ComponentsDetected == nil {
		r.ComponentsDetected = []string{}
	}
	return r
}

// ComponentCount returns the number of detected components
func (r *TutorialResult) ComponentCount() int {
	if r == nil {
		return 0
	}
	return len(r.ComponentsDetected)
}
