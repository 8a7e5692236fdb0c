package formatter

import "encoding/json"

// jsonFormatter formats output as JSON
type jsonFormatter struct{}

// NewJSON creates a new JSON formatter
func NewJSON() Formatter {
	return &jsonFormatter{}
}

// JSONOutput is the document written by the JSON formatter. The result
// fields keep the service's names.
type JSONOutput struct {
	File                string         `json:"file,omitempty"`
	Language            string         `json:"language"`
	Tutorial            string         `json:"tutorial"`
	ComponentsDetected  []string       `json:"components_detected"`
	EstimatedDifficulty string         `json:"estimated_difficulty"`
	EstimatedTime       string         `json:"estimated_time"`
	Summary             *SummaryOutput `json:"summary"`
	CodeBlocks          []*CodeOutput  `json:"code_blocks"`
	Preview             *PreviewOutput `json:"preview,omitempty"`
}

// SummaryOutput represents the summary section
type SummaryOutput struct {
	ComponentCount int      `json:"component_count"`
	Detected       string   `json:"detected"`
	Listed         []string `json:"listed_components"`
	Hidden         int      `json:"hidden_components"`
}

// CodeOutput describes one fenced code block
type CodeOutput struct {
	Index int    `json:"index"`
	Label string `json:"label"`
	Info  string `json:"info,omitempty"`
	Code  string `json:"code"`
}

// PreviewOutput describes the local preview without its data URI
type PreviewOutput struct {
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
	Width       int    `json:"width,omitempty"`
	Height      int    `json:"height,omitempty"`
}

func (f *jsonFormatter) Format(report *Report) ([]byte, error) {
	output := &JSONOutput{
		File:                report.File,
		Language:            report.Language,
		Tutorial:            report.Result.Tutorial,
		ComponentsDetected:  report.Result.ComponentsDetected,
		EstimatedDifficulty: report.Result.EstimatedDifficulty,
		EstimatedTime:       report.Result.EstimatedTime,
		Summary: &SummaryOutput{
			ComponentCount: report.Summary.ComponentCount,
			Detected:       report.Summary.Detected,
			Listed:         report.Summary.Components,
			Hidden:         report.Summary.Hidden,
		},
		CodeBlocks: make([]*CodeOutput, 0, len(report.Document.Blocks)),
	}

	for _, block := range report.Document.Blocks {
		output.CodeBlocks = append(output.CodeBlocks, &CodeOutput{
			Index: block.Index + 1,
			Label: block.Label(),
			Info:  block.Info,
			Code:  block.Code,
		})
	}

	if img := report.Preview; img != nil {
		output.Preview = &PreviewOutput{
			ContentType: img.ContentType,
			Size:        img.Size,
			Width:       img.Width,
			Height:      img.Height,
		}
	}

	return json.MarshalIndent(output, "", "  ")
}
