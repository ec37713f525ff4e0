package api

import (
	"encoding/json"
	"testing"
)

func TestRoadmapStepNormalizesKeyVariants(t *testing.T) {
	// Two generations of the backend LLM key the same fields differently.
	raw := `{"steps":[
		{"Goal":"Learn SQL","Time":"2 weeks","Skills":"PostgreSQL, indexing","Resource":"pgexercises"},
		{"Goal Name":"Build APIs","Estimated Time":"1 month","Skills to Learn":"REST, gRPC","One Free Resource":"official docs"}
	]}`

	var roadmap Roadmap
	if err := json.Unmarshal([]byte(raw), &roadmap); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(roadmap.Steps) != 2 {
		t.Fatalf("steps = %d", len(roadmap.Steps))
	}

	first := roadmap.Steps[0]
	if first.Goal != "Learn SQL" || first.Duration != "2 weeks" || first.Resource != "pgexercises" {
		t.Fatalf("first = %+v", first)
	}
	if len(first.Skills) != 2 || first.Skills[0] != "PostgreSQL" || first.Skills[1] != "indexing" {
		t.Fatalf("first skills = %v", first.Skills)
	}

	second := roadmap.Steps[1]
	if second.Goal != "Build APIs" || second.Duration != "1 month" || second.Resource != "official docs" {
		t.Fatalf("second = %+v", second)
	}
	if len(second.Skills) != 2 || second.Skills[0] != "REST" {
		t.Fatalf("second skills = %v", second.Skills)
	}
}

func TestResumeAnalyzing(t *testing.T) {
	if !(Resume{PredictedRole: StatusAnalyzing}).Analyzing() {
		t.Fatal("sentinel should report analyzing")
	}
	if (Resume{PredictedRole: "Backend Engineer"}).Analyzing() {
		t.Fatal("terminal role should not report analyzing")
	}
	if (Resume{}).Analyzing() {
		t.Fatal("empty role should not report analyzing")
	}
}

func TestDecodeErrorShapes(t *testing.T) {
	cases := []struct {
		name     string
		body     string
		wantMsg  string
		wantCode string
	}{
		{"standard envelope", `{"error":{"code":"VALIDATION_ERROR","message":"title required"}}`, "title required", "VALIDATION_ERROR"},
		{"fastapi detail string", `{"detail":"Resume not found"}`, "Resume not found", ""},
		{"malformed body", `<html>boom</html>`, "", ""},
		{"empty body", ``, "", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := responseWithBody(tc.body)
			apiErr := decodeError(resp)
			if apiErr.Message != tc.wantMsg {
				t.Fatalf("message = %q, want %q", apiErr.Message, tc.wantMsg)
			}
			if apiErr.Code != tc.wantCode {
				t.Fatalf("code = %q, want %q", apiErr.Code, tc.wantCode)
			}
		})
	}
}
