package model

import "testing"

func TestDomain_Valid(t *testing.T) {
	valid := []Domain{DomainInsurance, DomainProject, DomainNone}
	for _, d := range valid {
		if !d.Valid() {
			t.Errorf("Expected %s to be valid", d)
		}
	}

	invalid := []Domain{"", "general", "INSURANCE"}
	for _, d := range invalid {
		if d.Valid() {
			t.Errorf("Expected %s to be invalid", d)
		}
	}
}
