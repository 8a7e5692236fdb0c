package tutor

import "testing"

func TestParseErrorDetail_Variants(t *testing.T) {
	tests := []struct {
		name string
		body string
		want ErrorDetail
	}{
		{"string", `{"detail": "Server error"}`, StringDetail("Server error")},
		{"empty string", `{"detail": ""}`, StringDetail("")},
		{"object", `{"detail": {"error": "bad", "message": "worse"}}`, ObjectDetail{Error: "bad", Msg: "worse"}},
		{"object non-string fields", `{"detail": {"error": 1, "message": null}}`, ObjectDetail{}},
		{"null detail", `{"detail": null}`, NoDetail{}},
		{"array detail", `{"detail": ["a"]}`, NoDetail{}},
		{"no detail", `{}`, NoDetail{}},
		{"top-level array", `[1, 2]`, NoDetail{}},
		{"not json", `Internal Server Error`, NoDetail{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseErrorDetail([]byte(tt.body))
			if got != tt.want {
				t.Errorf("ParseErrorDetail() = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestErrorDetail_Message(t *testing.T) {
	tests := []struct {
		name   string
		detail ErrorDetail
		want   string
	}{
		{"string verbatim", StringDetail("  spaced  "), "  spaced  "},
		{"error wins", ObjectDetail{Error: "e", Msg: "m"}, "e"},
		{"message second", ObjectDetail{Msg: "m"}, "m"},
		{"empty object", ObjectDetail{}, FallbackMessage},
		{"none", NoDetail{}, FallbackMessage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.detail.Message(); got != tt.want {
				t.Errorf("Message() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseErrorMessage_NeverObjectText(t *testing.T) {
	got := ParseErrorMessage([]byte(`{"detail": {"error": "Invalid image format", "code": "INVALID_FORMAT"}}`))
	if got != "Invalid image format" {
		t.Errorf("ParseErrorMessage() = %q", got)
	}
}
