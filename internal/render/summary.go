package render

import (
	"strconv"

	"github.com/yildizm/designtutor/internal/locale"
	"github.com/yildizm/designtutor/internal/tutor"
)

// MaxListedComponents bounds the components list shown with a result
const MaxListedComponents = 8

// Summary holds the display values derived from a TutorialResult
type Summary struct {
	Time       string
	Difficulty string

	// ComponentCount counts every detected component, listed or not
	ComponentCount int

	// Detected reads like "5 detected" in the active locale
	Detected string

	// Components is at most MaxListedComponents entries, in result order
	Components []string

	// Hidden is the number of components left out of Components
	Hidden int
}

// Summarize computes the stats and the truncated components list
func Summarize(result *tutor.TutorialResult, tr locale.Translator) Summary {
	if result == nil {
		result = &tutor.TutorialResult{}
	}

	count := len(result.ComponentsDetected)
	listed := count
	if listed > MaxListedComponents {
		listed = MaxListedComponents
	}

	components := make([]string, listed)
	copy(components, result.ComponentsDetected[:listed])

	return Summary{
		Time:           result.EstimatedTime,
		Difficulty:     result.EstimatedDifficulty,
		ComponentCount: count,
		Detected:       strconv.Itoa(count) + " " + tr.T("tutorial.detected"),
		Components:     components,
		Hidden:         count - listed,
	}
}
