package casewatch

import (
	"bytes"
	"encoding/json"
	"io"
)

// Section names one of the five parts of a case record. The value is the
// record key used in output documents.
type Section string

// Section constants in record order.
const (
	SectionSummary         Section = "summary"
	SectionLinkedCases     Section = "linked_cases"
	SectionHearingSchedule Section = "hearing_schedule"
	SectionStatusHistory   Section = "status_history"
	SectionHearingDetails  Section = "hearing_details"
)

// Sections lists every section in the order it appears in a record.
var Sections = []Section{
	SectionSummary,
	SectionLinkedCases,
	SectionHearingSchedule,
	SectionStatusHistory,
	SectionHearingDetails,
}

// Empty returns the value a section takes when the page has no data for it.
// The summary is a mapping; every other section is a sequence.
func (s Section) Empty() Node {
	if s == SectionSummary {
		return Object{}
	}
	return List{}
}

// SectionResult is the outcome of extracting one section from a page.
// When Err is set, Value holds the section's empty value.
type SectionResult struct {
	Section Section
	Value   Node
	Err     error
}

// AssembleRecord builds a case record from section results. Every section
// key is present, in record order, even when its result is missing or failed.
func AssembleRecord(results []SectionResult) Object {
	bySection := make(map[Section]SectionResult, len(results))
	for _, r := range results {
		bySection[r.Section] = r
	}

	record := make(Object, 0, len(Sections))
	for _, s := range Sections {
		value := s.Empty()
		if r, ok := bySection[s]; ok && r.Err == nil && r.Value != nil {
			value = r.Value
		}
		record = append(record, Field{Key: string(s), Value: value})
	}
	return record
}

// Document is the persisted form of one case: {"<id>": <record>}.
type Document struct {
	CaseID string
	Record Node
}

// MarshalJSON encodes the document as a single-key object.
func (d *Document) MarshalJSON() ([]byte, error) {
	return Object{{Key: d.CaseID, Value: d.Record}}.MarshalJSON()
}

// EncodeDocument writes the document as 4-space indented JSON followed by a
// newline. Non-ASCII characters are written literally.
func EncodeDocument(w io.Writer, d *Document) error {
	b, err := d.MarshalJSON()
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, b, "", "    "); err != nil {
		return err
	}
	buf.WriteByte('\n')
	_, err = w.Write(buf.Bytes())
	return err
}
