// Package yaml loads casewatch settings and case tables from YAML files.
package yaml

import (
	"bytes"
	"errors"
	"io"
	"os"
	"time"

	"github.com/fwojciec/casewatch"
	"gopkg.in/yaml.v3"
)

// Config is the settings file schema. Unset fields are left to the caller's
// defaults.
//
//	output: ./data
//	db: ./casewatch.db
//	settle: 3s
//	rate: 1
//	times: ["10:30", "17:30"]
//	cases:
//	  080-CR-0096: https://supremecourt.gov.np/...&caseno=278473
type Config struct {
	Output string              `yaml:"output"`
	DB     *string             `yaml:"db"`
	Settle *time.Duration      `yaml:"settle"`
	Rate   *float64            `yaml:"rate"`
	Times  []string            `yaml:"times"`
	Cases  casewatch.CaseTable `yaml:"-"`
}

type fileConfig struct {
	Output string         `yaml:"output"`
	DB     *string        `yaml:"db"`
	Settle *time.Duration `yaml:"settle"`
	Rate   *float64       `yaml:"rate"`
	Times  []string       `yaml:"times"`
	Cases  caseMap        `yaml:"cases"`
}

// Parse decodes a settings document. Unknown keys are rejected and the case
// table keeps the order of the file.
func Parse(data []byte) (*Config, error) {
	var fc fileConfig
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&fc); err != nil && !errors.Is(err, io.EOF) {
		return nil, casewatch.Errorf(casewatch.EINVALID, "invalid config: %v", err)
	}

	cases, err := casewatch.NewCaseTable(fc.Cases...)
	if err != nil {
		return nil, err
	}
	if fc.Rate != nil && *fc.Rate < 0 {
		return nil, casewatch.Errorf(casewatch.EINVALID, "rate must not be negative")
	}
	if fc.Settle != nil && *fc.Settle < 0 {
		return nil, casewatch.Errorf(casewatch.EINVALID, "settle must not be negative")
	}

	return &Config{
		Output: fc.Output,
		DB:     fc.DB,
		Settle: fc.Settle,
		Rate:   fc.Rate,
		Times:  fc.Times,
		Cases:  cases,
	}, nil
}

// LoadFile reads and parses the settings file at path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// caseMap decodes a mapping of case ID to URL, preserving key order.
type caseMap []casewatch.Case

func (m *caseMap) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return casewatch.Errorf(casewatch.EINVALID, "line %d: cases must be a mapping of case number to URL", node.Line)
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, value := node.Content[i], node.Content[i+1]
		if value.Kind != yaml.ScalarNode {
			return casewatch.Errorf(casewatch.EINVALID, "line %d: URL of case %q must be a string", value.Line, key.Value)
		}
		*m = append(*m, casewatch.Case{ID: key.Value, URL: value.Value})
	}
	return nil
}
