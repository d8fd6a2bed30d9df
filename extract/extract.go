// Package extract maps the tables of a case details page into the five
// sections of a case record.
package extract

import (
	"fmt"
	"strings"

	"github.com/fwojciec/casewatch"
)

// Page anchors.
const (
	// SummaryPath selects the data rows of the case summary table: the first
	// 15 rows of each tbody, except row 12 which separates two groups of
	// fields.
	SummaryPath = "/html/body/div[3]/div/table/tbody/tr[position() <= 15 and position() != 12]"

	// BorderedClass marks the linked cases table (first) and the status
	// history table (second).
	BorderedClass = "table-bordered"

	// HearingScheduleMarker labels the header row of the hearing dates.
	HearingScheduleMarker = "तारेख मिती"

	// HearingDetailsMarker labels the header row of the hearing details.
	HearingDetailsMarker = "सुनवाइ मिती"
)

// Entry labels of the sequence sections, in cell order.
var (
	LinkedCaseLabels      = []string{"दर्ता नँ .", "दर्ता मिती", "मुद्दा", "वादीहरु", "प्रतिवादीहरु", "हालको स्थिती"}
	HearingScheduleLabels = []string{"तारेख मिती", "विवरण", "तारेखको किसिम"}
	StatusHistoryLabels   = []string{"मिती", "विवरण", "स्थिती"}
	HearingDetailsLabels  = []string{"सुनवाइ मिती", "न्यायाधीशहरू", "मुद्दाको स्थिती", "आ देश /फैसलाको किसिम"}
)

// Func extracts one section from a page.
type Func func(page casewatch.Page) (casewatch.Node, error)

// Extractors lists the extractor of every section in record order.
var Extractors = []struct {
	Section casewatch.Section
	Func    Func
}{
	{casewatch.SectionSummary, Summary},
	{casewatch.SectionLinkedCases, LinkedCases},
	{casewatch.SectionHearingSchedule, HearingSchedule},
	{casewatch.SectionStatusHistory, StatusHistory},
	{casewatch.SectionHearingDetails, HearingDetails},
}

// Record runs every extractor against page and assembles the case record.
// A failed section takes its empty value; the other sections are unaffected.
// The record is not normalized.
func Record(page casewatch.Page) (casewatch.Object, []casewatch.SectionResult) {
	results := make([]casewatch.SectionResult, 0, len(Extractors))
	for _, e := range Extractors {
		results = append(results, Run(e.Section, page, e.Func))
	}
	return casewatch.AssembleRecord(results), results
}

// Run calls fn and converts its error or panic into a failed result.
func Run(section casewatch.Section, page casewatch.Page, fn Func) (result casewatch.SectionResult) {
	result.Section = section
	defer func() {
		if r := recover(); r != nil {
			result.Value = section.Empty()
			result.Err = casewatch.Errorf(casewatch.EINTERNAL, "%s extractor panicked: %v", section, r)
		}
	}()

	value, err := fn(page)
	if err != nil {
		result.Value = section.Empty()
		result.Err = fmt.Errorf("extracting %s: %w", section, err)
		return result
	}
	if value == nil {
		value = section.Empty()
	}
	result.Value = value
	return result
}

// Summary extracts the label/value pairs of the summary table.
func Summary(page casewatch.Page) (casewatch.Node, error) {
	rows, err := page.QueryPath(SummaryPath)
	if err != nil {
		return nil, err
	}

	summary := casewatch.Object{}
	for _, row := range rows {
		if len(row) < 2 {
			continue
		}
		key := strings.TrimSpace(strings.ReplaceAll(strings.TrimSpace(row[0]), ":", ""))
		summary = summary.Set(key, cell(row[1]))
	}
	return summary, nil
}

// LinkedCases extracts the rows of the first bordered table.
func LinkedCases(page casewatch.Page) (casewatch.Node, error) {
	rows, err := page.QueryNthOfClass(BorderedClass, 1)
	if err != nil {
		return nil, err
	}
	return entries(skipHeader(rows), LinkedCaseLabels), nil
}

// HearingSchedule extracts the rows following the hearing schedule marker.
func HearingSchedule(page casewatch.Page) (casewatch.Node, error) {
	rows, err := page.QueryMarker(HearingScheduleMarker)
	if err != nil {
		return nil, err
	}
	return entries(rows, HearingScheduleLabels), nil
}

// StatusHistory extracts the rows of the second bordered table.
func StatusHistory(page casewatch.Page) (casewatch.Node, error) {
	rows, err := page.QueryNthOfClass(BorderedClass, 2)
	if err != nil {
		return nil, err
	}
	return entries(skipHeader(rows), StatusHistoryLabels), nil
}

// HearingDetails extracts the rows following the hearing details marker.
// The judge panel cell lists one judge per line.
func HearingDetails(page casewatch.Page) (casewatch.Node, error) {
	rows, err := page.QueryMarker(HearingDetailsMarker)
	if err != nil {
		return nil, err
	}

	list := casewatch.List{}
	for _, row := range rows {
		if len(row) < len(HearingDetailsLabels) {
			continue
		}
		row = append(casewatch.Row(nil), row...)
		row[1] = judges(row[1])
		list = append(list, entry(row, HearingDetailsLabels))
	}
	return list, nil
}

// entries maps every row with enough cells to a labelled entry.
func entries(rows []casewatch.Row, labels []string) casewatch.List {
	list := casewatch.List{}
	for _, row := range rows {
		if len(row) < len(labels) {
			continue
		}
		list = append(list, entry(row, labels))
	}
	return list
}

func entry(row casewatch.Row, labels []string) casewatch.Object {
	obj := make(casewatch.Object, 0, len(labels))
	for i, label := range labels {
		obj = append(obj, casewatch.Field{Key: label, Value: cell(row[i])})
	}
	return obj
}

func skipHeader(rows []casewatch.Row) []casewatch.Row {
	if len(rows) == 0 {
		return nil
	}
	return rows[1:]
}

// judges trims every name of a multi-line judge panel.
func judges(s string) string {
	names := strings.Split(strings.TrimSpace(s), "\n")
	for i, name := range names {
		names[i] = strings.TrimSpace(name)
	}
	return strings.Join(names, "\n")
}

// cell returns the trimmed cell text, or Null when nothing is left.
func cell(s string) casewatch.Node {
	return casewatch.TextValue(strings.TrimSpace(s))
}
