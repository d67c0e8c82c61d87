package tasklist

import (
	"errors"
	"strings"
	"testing"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		wantErrs int
		wantLoc  string
	}{
		{name: "empty array", content: `[]`},
		{name: "valid tasks", content: `[{"text": "A", "done": true}, {"text": "B"}]`},
		{name: "done of any type", content: `[{"text": "A", "done": null}]`},
		{name: "syntax error", content: `[{"text": }]`, wantErrs: 1},
		{name: "not an array", content: `"tasks"`, wantErrs: 1},
		{name: "element not an object", content: `["A"]`, wantErrs: 1, wantLoc: "[0]"},
		{name: "missing text", content: `[{"text": "A"}, {"done": false}]`, wantErrs: 1, wantLoc: "[1]"},
		{name: "empty text", content: `[{"text": ""}]`, wantErrs: 1, wantLoc: "[0].text"},
		{name: "blank text", content: `[{"text": "A"}, {"text": " "}]`, wantErrs: 1, wantLoc: "[1].text"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := Validate("tasks.json", []byte(tt.content))
			if len(errs) != tt.wantErrs {
				t.Fatalf("errors: got %d (%v), want %d", len(errs), errs, tt.wantErrs)
			}
			for _, err := range errs {
				var pe *ParseError
				if !errors.As(err, &pe) {
					t.Errorf("expected *ParseError, got %T", err)
					continue
				}
				if tt.wantLoc != "" && pe.Location != tt.wantLoc {
					t.Errorf("Location: got %q, want %q", pe.Location, tt.wantLoc)
				}
				if !strings.Contains(pe.Error(), "tasks.json") {
					t.Errorf("error %q does not name the file", pe.Error())
				}
			}
		})
	}
}

func TestSchemaSource(t *testing.T) {
	if !strings.Contains(SchemaSource(), `"required": ["text"]`) {
		t.Error("schema source does not require text")
	}
	if _, err := taskSchema(); err != nil {
		t.Fatalf("embedded schema does not compile: %v", err)
	}
}
