package extract_test

import (
	"errors"
	"testing"

	"github.com/fwojciec/casewatch"
	"github.com/fwojciec/casewatch/extract"
	"github.com/fwojciec/casewatch/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// emptyPage returns a page on which every query finds nothing.
func emptyPage() *mock.Page {
	return &mock.Page{
		QueryPathFn:       func(string) ([]casewatch.Row, error) { return nil, nil },
		QueryMarkerFn:     func(string) ([]casewatch.Row, error) { return nil, nil },
		QueryNthOfClassFn: func(string, int) ([]casewatch.Row, error) { return nil, nil },
	}
}

func TestSummary(t *testing.T) {
	t.Parallel()

	t.Run("maps label cells to value cells", func(t *testing.T) {
		t.Parallel()

		page := emptyPage()
		page.QueryPathFn = func(path string) ([]casewatch.Row, error) {
			assert.Equal(t, extract.SummaryPath, path)
			return []casewatch.Row{
				{"दर्ता नं :", " 080-CR-0001 "},
				{" दर्ता मिती: ", ""},
			}, nil
		}

		got, err := extract.Summary(page)

		require.NoError(t, err)
		assert.Equal(t, casewatch.Object{
			{Key: "दर्ता नं", Value: casewatch.Text("080-CR-0001")},
			{Key: "दर्ता मिती", Value: casewatch.Null{}},
		}, got)
	})

	t.Run("skips rows with fewer than two cells", func(t *testing.T) {
		t.Parallel()

		page := emptyPage()
		page.QueryPathFn = func(string) ([]casewatch.Row, error) {
			return []casewatch.Row{{"only"}, {"k", "v"}}, nil
		}

		got, err := extract.Summary(page)

		require.NoError(t, err)
		assert.Equal(t, casewatch.Object{{Key: "k", Value: casewatch.Text("v")}}, got)
	})

	t.Run("later duplicate label wins", func(t *testing.T) {
		t.Parallel()

		page := emptyPage()
		page.QueryPathFn = func(string) ([]casewatch.Row, error) {
			return []casewatch.Row{{"k:", "1"}, {"x", "2"}, {"k", "3"}}, nil
		}

		got, err := extract.Summary(page)

		require.NoError(t, err)
		assert.Equal(t, casewatch.Object{
			{Key: "k", Value: casewatch.Text("3")},
			{Key: "x", Value: casewatch.Text("2")},
		}, got)
	})
}

func TestLinkedCases(t *testing.T) {
	t.Parallel()

	page := emptyPage()
	page.QueryNthOfClassFn = func(class string, n int) ([]casewatch.Row, error) {
		assert.Equal(t, extract.BorderedClass, class)
		assert.Equal(t, 1, n)
		return []casewatch.Row{
			{"header", "", "", "", "", ""},
			{"A", "2080", "चोरी", "वादी", "प्रतिवादी", "चालु"},
			{"short"},
			{"B", "", "", "", "", ""},
		}, nil
	}

	got, err := extract.LinkedCases(page)

	require.NoError(t, err)
	list := got.(casewatch.List)
	require.Len(t, list, 2)
	assert.Equal(t, extract.LinkedCaseLabels, list[0].(casewatch.Object).Keys())
	v, _ := list[0].(casewatch.Object).Get("दर्ता नँ .")
	assert.Equal(t, casewatch.Text("A"), v)
	v, _ = list[1].(casewatch.Object).Get("मुद्दा")
	assert.Equal(t, casewatch.Null{}, v)
}

func TestHearingSchedule(t *testing.T) {
	t.Parallel()

	page := emptyPage()
	page.QueryMarkerFn = func(label string) ([]casewatch.Row, error) {
		assert.Equal(t, extract.HearingScheduleMarker, label)
		return []casewatch.Row{
			{"A", "a", "1"},
			{"B", "b", "2"},
			{"C", "c", "3"},
		}, nil
	}

	got, err := extract.HearingSchedule(page)

	require.NoError(t, err)
	list := got.(casewatch.List)
	require.Len(t, list, 3)
	for i, want := range []string{"A", "B", "C"} {
		v, _ := list[i].(casewatch.Object).Get("तारेख मिती")
		assert.Equal(t, casewatch.Text(want), v)
	}
}

func TestStatusHistory(t *testing.T) {
	t.Parallel()

	page := emptyPage()
	page.QueryNthOfClassFn = func(class string, n int) ([]casewatch.Row, error) {
		assert.Equal(t, 2, n)
		return []casewatch.Row{
			{"मिती", "विवरण", "स्थिती"},
			{"2080-01-01", "दर्ता", "चालु"},
		}, nil
	}

	got, err := extract.StatusHistory(page)

	require.NoError(t, err)
	assert.Equal(t, casewatch.List{
		casewatch.Object{
			{Key: "मिती", Value: casewatch.Text("2080-01-01")},
			{Key: "विवरण", Value: casewatch.Text("दर्ता")},
			{Key: "स्थिती", Value: casewatch.Text("चालु")},
		},
	}, got)
}

func TestHearingDetails(t *testing.T) {
	t.Parallel()

	page := emptyPage()
	page.QueryMarkerFn = func(label string) ([]casewatch.Row, error) {
		assert.Equal(t, extract.HearingDetailsMarker, label)
		return []casewatch.Row{
			{"2080-01-01", " न्या. क \n  न्या. ख ", "चालु", "आदेश"},
			{},
		}, nil
	}

	got, err := extract.HearingDetails(page)

	require.NoError(t, err)
	list := got.(casewatch.List)
	require.Len(t, list, 1)
	v, _ := list[0].(casewatch.Object).Get("न्यायाधीशहरू")
	assert.Equal(t, casewatch.Text("न्या. क\nन्या. ख"), v)
}

func TestRecord(t *testing.T) {
	t.Parallel()

	t.Run("empty page yields empty sections", func(t *testing.T) {
		t.Parallel()

		record, results := extract.Record(emptyPage())

		assert.Equal(t, casewatch.Object{
			{Key: "summary", Value: casewatch.Object{}},
			{Key: "linked_cases", Value: casewatch.List{}},
			{Key: "hearing_schedule", Value: casewatch.List{}},
			{Key: "status_history", Value: casewatch.List{}},
			{Key: "hearing_details", Value: casewatch.List{}},
		}, record)
		require.Len(t, results, 5)
		for _, r := range results {
			assert.NoError(t, r.Err)
		}
	})

	t.Run("failing section does not affect others", func(t *testing.T) {
		t.Parallel()

		page := emptyPage()
		page.QueryNthOfClassFn = func(class string, n int) ([]casewatch.Row, error) {
			if n == 2 {
				return nil, errors.New("stale element")
			}
			return []casewatch.Row{{"h"}, {"A", "", "", "", "", ""}}, nil
		}
		page.QueryMarkerFn = func(label string) ([]casewatch.Row, error) {
			if label == extract.HearingDetailsMarker {
				panic("boom")
			}
			return []casewatch.Row{{"A", "a", "1"}}, nil
		}

		record, results := extract.Record(page)

		v, _ := record.Get("status_history")
		assert.Equal(t, casewatch.List{}, v)
		v, _ = record.Get("hearing_details")
		assert.Equal(t, casewatch.List{}, v)
		v, _ = record.Get("linked_cases")
		assert.Len(t, v, 1)
		v, _ = record.Get("hearing_schedule")
		assert.Len(t, v, 1)

		assert.ErrorContains(t, results[3].Err, "extracting status_history")
		assert.Equal(t, casewatch.EINTERNAL, casewatch.ErrorCode(results[4].Err))
	})

	t.Run("malformed linked cases table leaves other sections populated", func(t *testing.T) {
		t.Parallel()

		page := &mock.Page{
			QueryPathFn: func(string) ([]casewatch.Row, error) {
				return []casewatch.Row{{"दर्ता मिती", ""}}, nil
			},
			QueryMarkerFn: func(label string) ([]casewatch.Row, error) {
				return []casewatch.Row{{"a", "b", "c", "d"}}, nil
			},
			QueryNthOfClassFn: func(class string, n int) ([]casewatch.Row, error) {
				if n == 1 {
					return nil, errors.New("malformed table")
				}
				return []casewatch.Row{{"h"}, {"a", "b", "c"}}, nil
			},
		}

		record, results := extract.Record(page)

		v, _ := record.Get("linked_cases")
		assert.Equal(t, casewatch.List{}, v)
		require.Error(t, results[1].Err)
		for _, key := range []string{"hearing_schedule", "status_history", "hearing_details"} {
			v, _ := record.Get(key)
			assert.Len(t, v, 1, key)
		}
		v, _ = record.Get("summary")
		assert.Equal(t, casewatch.Object{{Key: "दर्ता मिती", Value: casewatch.Null{}}}, v)
	})
}
