package model

import "testing"

func TestCoverageType_Valid(t *testing.T) {
	valid := []CoverageType{CoverageComprehensive, CoverageThirdParty, CoverageThirdPartyFireTheft}
	for _, ct := range valid {
		if !ct.Valid() {
			t.Errorf("Expected %q to be valid", ct)
		}
	}

	invalid := []CoverageType{"", "full", "comprehensive_plus"}
	for _, ct := range invalid {
		if ct.Valid() {
			t.Errorf("Expected %q to be invalid", ct)
		}
	}
}

func TestFlagSet_Booleans(t *testing.T) {
	if !FlagSet(true) {
		t.Error("Expected true to count as set")
	}
	if FlagSet(false) {
		t.Error("Expected false to count as unset")
	}
}

func TestFlagSet_Numbers(t *testing.T) {
	if !FlagSet(float64(500)) {
		t.Error("Expected non-zero float to count as set")
	}
	if FlagSet(float64(0)) {
		t.Error("Expected zero float to count as unset")
	}
	if !FlagSet(1) {
		t.Error("Expected non-zero int to count as set")
	}
}

func TestFlagSet_Strings(t *testing.T) {
	set := []string{"yes", "Yes", " true ", "included", "covered"}
	for _, s := range set {
		if !FlagSet(s) {
			t.Errorf("Expected %q to count as set", s)
		}
	}

	unset := []string{"", "no", "false", "excluded", "optional add-on"}
	for _, s := range unset {
		if FlagSet(s) {
			t.Errorf("Expected %q to count as unset", s)
		}
	}
}

func TestFlagSet_UnknownType(t *testing.T) {
	if FlagSet(nil) {
		t.Error("Expected nil to count as unset")
	}
	if FlagSet([]string{"yes"}) {
		t.Error("Expected slice value to count as unset")
	}
}

func TestCustomerProfile_NCD(t *testing.T) {
	ncd := 55.0
	c := &CustomerProfile{NCDPercentage: &ncd}

	if got := c.NCD(25); got != 55.0 {
		t.Errorf("Expected customer NCD 55, got %g", got)
	}

	empty := &CustomerProfile{}
	if got := empty.NCD(25); got != 25.0 {
		t.Errorf("Expected fallback NCD 25, got %g", got)
	}

	var nilProfile *CustomerProfile
	if got := nilProfile.NCD(10); got != 10.0 {
		t.Errorf("Expected fallback NCD 10 for nil profile, got %g", got)
	}
}

func TestConfig_Validate_Defaults(t *testing.T) {
	cfg := DefaultConfig()

	if err := cfg.Validate(); err != nil {
		t.Errorf("Expected default config to validate, got %v", err)
	}
}

func TestConfig_Validate_BadMultiplierBand(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Risk.MaxMultiplier = 0.5 // below the floor of 0.7

	if err := cfg.Validate(); err == nil {
		t.Error("Expected error for inverted multiplier band, got nil")
	}
}
