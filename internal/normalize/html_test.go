package normalize

import (
	"testing"

	"github.com/perisailabs/perisai/internal/model"
)

const policyTable = `
<div class="results">
  <table class="policy-table">
    <tr>
      <th>Insurer</th><th>Product</th><th>Cover Type</th>
      <th>Premium</th><th>NCD</th><th>Windscreen Cover</th>
    </tr>
    <tr>
      <td>Allianz General</td><td><b>MotorSafe</b></td><td>Comprehensive</td>
      <td>RM 2,500.00</td><td>25%</td><td>Yes</td>
    </tr>
    <tr>
      <td>Etiqa Takaful</td><td>Private Car</td><td>Third Party</td>
      <td>RM 980.00</td><td>30%</td><td>No</td>
    </tr>
  </table>
</div>`

func TestParseHTMLTable_PolicyRows(t *testing.T) {
	records, err := ParseHTMLTable(policyTable)
	if err != nil {
		t.Fatalf("Expected table to parse, got %v", err)
	}

	if len(records) != 2 {
		t.Fatalf("Expected 2 records, got %d", len(records))
	}

	if records[0].Source != "scrape" {
		t.Errorf("Expected source scrape, got %q", records[0].Source)
	}
	if records[0].Fields["Insurer"] != "Allianz General" {
		t.Errorf("Expected Insurer cell, got %v", records[0].Fields["Insurer"])
	}
	// Nested markup flattens to visible text
	if records[0].Fields["Product"] != "MotorSafe" {
		t.Errorf("Expected Product MotorSafe, got %v", records[0].Fields["Product"])
	}
}

func TestParseHTMLTable_FeedsNormalizer(t *testing.T) {
	records, err := ParseHTMLTable(policyTable)
	if err != nil {
		t.Fatalf("Expected table to parse, got %v", err)
	}

	n := New()
	policies, failed := n.NormalizeAll(records)

	if len(failed) != 0 {
		t.Fatalf("Expected no failures, got %v", failed)
	}
	if len(policies) != 2 {
		t.Fatalf("Expected 2 policies, got %d", len(policies))
	}

	first := policies[0]
	if first.Insurer != "Allianz General" {
		t.Errorf("Expected insurer Allianz General, got %q", first.Insurer)
	}
	if first.Pricing.BasePremium != 2500 {
		t.Errorf("Expected premium 2500, got %g", first.Pricing.BasePremium)
	}
	if first.CoverageType != model.CoverageComprehensive {
		t.Errorf("Expected comprehensive, got %q", first.CoverageType)
	}
	// Leftover table columns become coverage flags
	if !model.FlagSet(first.CoverageDetails["windscreen_cover"]) {
		t.Errorf("Expected windscreen cover flag set, got %v", first.CoverageDetails)
	}

	second := policies[1]
	if !second.IsTakaful {
		t.Error("Expected takaful inferred from Etiqa Takaful name")
	}
	if second.CoverageType != model.CoverageThirdParty {
		t.Errorf("Expected third_party, got %q", second.CoverageType)
	}
}

func TestParseHTMLTable_NoTable(t *testing.T) {
	if _, err := ParseHTMLTable("<p>No policies here</p>"); err == nil {
		t.Error("Expected error for fragment without a table, got nil")
	}
}

func TestParseHTMLTable_HeaderOnly(t *testing.T) {
	fragment := `<table><tr><th>Insurer</th><th>Premium</th></tr></table>`
	if _, err := ParseHTMLTable(fragment); err == nil {
		t.Error("Expected error for table without data rows, got nil")
	}
}
