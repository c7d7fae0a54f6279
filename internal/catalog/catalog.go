package catalog

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/perisailabs/perisai/internal/model"
	"github.com/perisailabs/perisai/internal/normalize"
)

//go:embed seed.yaml
var seedData []byte

// Seed returns the bundled catalog of representative Malaysian motor
// policies, as raw records for the normalizer.
func Seed() ([]normalize.RawRecord, error) {
	records, err := parseRecords(seedData, "seed")
	if err != nil {
		return nil, fmt.Errorf("seed catalog: %w", err)
	}
	return records, nil
}

// LoadPolicies reads raw policy records from a file. JSON and YAML
// files carry either a bare list of records or a mapping with a
// "policies" list; HTML files carry a policy comparison table. The
// format follows the extension.
func LoadPolicies(path string) ([]normalize.RawRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return parseRecords(data, path)
	case ".html", ".htm":
		return normalize.ParseHTMLTable(string(data))
	default:
		return nil, fmt.Errorf("unsupported catalog format %q", filepath.Ext(path))
	}
}

// LoadCustomer reads a customer profile from a YAML or JSON file.
func LoadCustomer(path string) (*model.CustomerProfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read customer profile: %w", err)
	}

	var customer model.CustomerProfile
	if err := yaml.Unmarshal(data, &customer); err != nil {
		return nil, fmt.Errorf("parse customer profile: %w", err)
	}

	return &customer, nil
}

// parseRecords decodes a YAML or JSON document into raw records. Each
// record keeps its fields untouched; schema checks belong to the
// normalizer.
func parseRecords(data []byte, source string) ([]normalize.RawRecord, error) {
	var doc interface{}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}

	list, err := recordList(doc)
	if err != nil {
		return nil, err
	}

	records := make([]normalize.RawRecord, 0, len(list))
	for i, item := range list {
		fields, ok := item.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("catalog entry %d is %T, not a mapping", i, item)
		}
		records = append(records, normalize.RawRecord{Source: source, Fields: fields})
	}

	return records, nil
}

// recordList accepts both document shapes: a bare list, or a mapping
// wrapping the list under "policies".
func recordList(doc interface{}) ([]interface{}, error) {
	switch t := doc.(type) {
	case []interface{}:
		return t, nil
	case map[string]interface{}:
		if wrapped, ok := t["policies"].([]interface{}); ok {
			return wrapped, nil
		}
		return nil, fmt.Errorf("catalog mapping has no policies list")
	default:
		return nil, fmt.Errorf("catalog document is %T, not a list or mapping", doc)
	}
}
