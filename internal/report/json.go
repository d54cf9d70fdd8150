package report

import (
	"bytes"
	"encoding/json"
	"io"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"

	"github.com/mouse-blink/goistanbul/internal/coverage"
)

// JSONReporter writes the coverage map itself as coverage-final.json.
type JSONReporter struct{}

// Name implements Reporter.
func (r *JSONReporter) Name() string { return "json" }

// File implements Reporter.
func (r *JSONReporter) File() string { return "coverage-final.json" }

// Write implements Reporter.
func (r *JSONReporter) Write(w io.Writer, cm *coverage.CoverageMap) error {
	data, err := json.Marshal(cm)
	if err != nil {
		return errors.Wrap(err, "encoding coverage map")
	}

	_, err = w.Write(append(data, '\n'))

	return err
}

// JSONSummaryReporter writes {"total": summary, "<path>": summary, ...}.
type JSONSummaryReporter struct{}

// Name implements Reporter.
func (r *JSONSummaryReporter) Name() string { return "json-summary" }

// File implements Reporter.
func (r *JSONSummaryReporter) File() string { return "coverage-summary.json" }

// Write implements Reporter.
func (r *JSONSummaryReporter) Write(w io.Writer, cm *coverage.CoverageMap) error {
	var buf bytes.Buffer

	buf.WriteByte('{')

	err := eachSummary(cm, func(first bool, key string, s coverage.CoverageSummary) error {
		if !first {
			buf.WriteByte(',')
		}

		k, err := json.Marshal(key)
		if err != nil {
			return err
		}

		v, err := json.Marshal(s)
		if err != nil {
			return err
		}

		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)

		return nil
	})
	if err != nil {
		return errors.Wrap(err, "encoding JSON summary")
	}

	buf.WriteString("}\n")

	_, err = w.Write(buf.Bytes())

	return err
}

// YAMLSummaryReporter writes the json-summary content as YAML.
type YAMLSummaryReporter struct{}

// Name implements Reporter.
func (r *YAMLSummaryReporter) Name() string { return "yaml-summary" }

// File implements Reporter.
func (r *YAMLSummaryReporter) File() string { return "coverage-summary.yaml" }

// Write implements Reporter.
func (r *YAMLSummaryReporter) Write(w io.Writer, cm *coverage.CoverageMap) error {
	root := &yaml.Node{Kind: yaml.MappingNode}

	err := eachSummary(cm, func(_ bool, key string, s coverage.CoverageSummary) error {
		var value yaml.Node
		if err := value.Encode(s); err != nil {
			return err
		}

		root.Content = append(root.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key}, &value)

		return nil
	})
	if err != nil {
		return errors.Wrap(err, "encoding YAML summary")
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)

	if err := enc.Encode(root); err != nil {
		return errors.Wrap(err, "encoding YAML summary")
	}

	return enc.Close()
}

// eachSummary visits the total first and then every file in map order.
func eachSummary(cm *coverage.CoverageMap, fn func(first bool, key string, s coverage.CoverageSummary) error) error {
	if err := fn(true, "total", cm.CoverageSummary()); err != nil {
		return err
	}

	for _, path := range cm.Files() {
		fc, _ := cm.CoverageForFile(path)
		if err := fn(false, path, fc.ToSummary()); err != nil {
			return err
		}
	}

	return nil
}
