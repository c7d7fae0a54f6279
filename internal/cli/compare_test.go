package cli

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/perisailabs/perisai/internal/model"
)

func TestParseWeights_ValidInput(t *testing.T) {
	weights, err := parseWeights("0.4,0.2,0.2,0.1,0.1")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if weights.Coverage != 0.4 {
		t.Errorf("Expected coverage weight 0.4, got %g", weights.Coverage)
	}
	if weights.Service != 0.2 {
		t.Errorf("Expected service weight 0.2, got %g", weights.Service)
	}
	if weights.Takaful != 0.1 {
		t.Errorf("Expected takaful weight 0.1, got %g", weights.Takaful)
	}

	if err := weights.Validate(); err != nil {
		t.Errorf("Expected parsed weights to validate, got %v", err)
	}
}

func TestParseWeights_EmptySelectsDefaults(t *testing.T) {
	weights, err := parseWeights("")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if weights != nil {
		t.Errorf("Expected nil weights for empty flag, got %+v", weights)
	}
}

func TestParseWeights_TolerantOfSpaces(t *testing.T) {
	weights, err := parseWeights("0.30, 0.25, 0.25, 0.10, 0.10")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if weights.Pricing != 0.25 {
		t.Errorf("Expected pricing weight 0.25, got %g", weights.Pricing)
	}
}

func TestParseWeights_RejectsBadInput(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"too few values", "0.5,0.5"},
		{"too many values", "0.2,0.2,0.2,0.2,0.1,0.1"},
		{"not a number", "0.3,abc,0.2,0.1,0.1"},
		{"empty component", "0.3,,0.3,0.2,0.2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := parseWeights(tt.input); err == nil {
				t.Errorf("Expected error for %q, got nil", tt.input)
			}
		})
	}
}

func TestInsurerNames_Dedupes(t *testing.T) {
	policies := []model.Policy{
		{Insurer: "Etiqa"},
		{Insurer: "Zurich"},
		{Insurer: "Etiqa"},
	}

	names := insurerNames(policies)
	if len(names) != 2 {
		t.Fatalf("Expected 2 unique insurers, got %d", len(names))
	}
	if names[0] != "Etiqa" || names[1] != "Zurich" {
		t.Errorf("Expected [Etiqa Zurich], got %v", names)
	}
}

func TestLoadRecords_FallsBackToSeed(t *testing.T) {
	records, err := loadRecords("", model.DefaultConfig())
	if err != nil {
		t.Fatalf("Expected seed catalog to load, got %v", err)
	}
	if len(records) == 0 {
		t.Error("Expected the seed catalog to contain records")
	}
}

func TestRenderResult_ListsRankedAndExcluded(t *testing.T) {
	result := &model.ComparisonResult{
		ComparisonID: "cmp-123",
		GeneratedAt:  time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC),
		RankedPolicies: []model.ScoredPolicy{
			{
				Policy:          model.Policy{Insurer: "Etiqa", ProductName: "Private Car"},
				AdjustedPremium: 2200,
				TotalScore:      82.5,
				Rationale:       []string{"competitive premium for this profile"},
			},
		},
		ExcludedPolicies: []model.ExcludedPolicy{
			{
				Policy:  model.Policy{Insurer: "Zurich", ProductName: "Z-Driver"},
				Reasons: []string{"customer age 22 below minimum age 25"},
			},
		},
		PolicyCount:   2,
		EligibleCount: 1,
	}

	var buf bytes.Buffer
	renderResult(&buf, result)
	out := buf.String()

	if !strings.Contains(out, "Etiqa Private Car") {
		t.Error("Expected the ranked policy name in the output")
	}
	if !strings.Contains(out, "82.5") {
		t.Error("Expected the total score in the output")
	}
	if !strings.Contains(out, "competitive premium for this profile") {
		t.Error("Expected the rationale in the output")
	}
	if !strings.Contains(out, "Zurich Z-Driver: customer age 22 below minimum age 25") {
		t.Error("Expected the excluded policy with its reason in the output")
	}
	if !strings.Contains(out, "1 of 2 policies") {
		t.Error("Expected the eligible count summary in the output")
	}
}

func TestRenderResult_EmptyBatch(t *testing.T) {
	var buf bytes.Buffer
	renderResult(&buf, &model.ComparisonResult{ComparisonID: "cmp-empty"})

	if !strings.Contains(buf.String(), "No eligible policies") {
		t.Error("Expected the empty-result notice in the output")
	}
}
