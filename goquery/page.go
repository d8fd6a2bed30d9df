// Package goquery implements casewatch.Page over parsed HTML using goquery
// and cascadia selectors.
package goquery

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"github.com/fwojciec/casewatch"
	"golang.org/x/net/html"
)

// Ensure Page implements casewatch.Page at compile time.
var _ casewatch.Page = (*Page)(nil)

// Page is a parsed HTML document answering structural row queries.
// Page is read-only and safe for concurrent use.
type Page struct {
	doc *goquery.Document
}

// NewPage parses html into a Page.
func NewPage(html string) (*Page, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, casewatch.Errorf(casewatch.EINVALID, "failed to parse HTML: %v", err)
	}
	return &Page{doc: doc}, nil
}

// QueryPath returns the rows at an absolute positional path.
func (p *Page) QueryPath(path string) ([]casewatch.Row, error) {
	sel, err := PathSelector(path)
	if err != nil {
		return nil, err
	}
	matcher, err := cascadia.Compile(sel)
	if err != nil {
		return nil, casewatch.Errorf(casewatch.EINVALID, "invalid path %q: %v", path, err)
	}
	return rows(p.doc.FindMatcher(matcher)), nil
}

// QueryMarker returns the rows following every marker row labelled label.
func (p *Page) QueryMarker(label string) ([]casewatch.Row, error) {
	if label == "" {
		return nil, casewatch.Errorf(casewatch.EINVALID, "marker label required")
	}

	seen := make(map[*html.Node]bool)
	var out []casewatch.Row
	p.doc.Find("tbody > tr").Each(func(_ int, tr *goquery.Selection) {
		if !isMarker(tr, label) {
			return
		}
		tr.NextAllFiltered("tr").Each(func(_ int, next *goquery.Selection) {
			node := next.Get(0)
			if seen[node] {
				return
			}
			seen[node] = true
			out = append(out, rowCells(next))
		})
	})
	return out, nil
}

// QueryNthOfClass returns the data rows of the n-th table carrying class.
func (p *Page) QueryNthOfClass(class string, n int) ([]casewatch.Row, error) {
	if class == "" {
		return nil, casewatch.Errorf(casewatch.EINVALID, "table class required")
	}
	if n < 1 {
		return nil, casewatch.Errorf(casewatch.EINVALID, "table index must be at least 1, got %d", n)
	}

	tables := p.doc.Find("table").FilterFunction(func(_ int, s *goquery.Selection) bool {
		attr, ok := s.Attr("class")
		return ok && strings.Contains(attr, class)
	})
	if tables.Length() < n {
		return nil, nil
	}

	trs := tables.Eq(n - 1).ChildrenFiltered("tbody").ChildrenFiltered("tr").
		FilterFunction(func(_ int, tr *goquery.Selection) bool {
			return tr.ChildrenFiltered("td").Length() > 0
		})
	return rows(trs), nil
}

var (
	stepRe      = regexp.MustCompile(`^([a-zA-Z][a-zA-Z0-9]*)(?:\[(.+)\])?$`)
	indexRe     = regexp.MustCompile(`^[1-9][0-9]*$`)
	conditionRe = regexp.MustCompile(`^position\(\)\s*(<=|>=|!=|<|>|=)\s*([0-9]+)$`)
)

// PathSelector translates an absolute positional path such as
// "/html/body/div[3]/table" into the equivalent CSS selector
// "html > body > div:nth-of-type(3) > table".
//
// A step may carry an index ([3]) or position() comparisons joined by "and",
// e.g. tr[position() <= 15 and position() != 12]. Positions count siblings
// of the same element under each parent, as in XPath.
func PathSelector(path string) (string, error) {
	if !strings.HasPrefix(path, "/") || strings.HasPrefix(path, "//") {
		return "", casewatch.Errorf(casewatch.EINVALID, "path %q must be absolute", path)
	}

	steps := strings.Split(strings.TrimPrefix(path, "/"), "/")
	parts := make([]string, 0, len(steps))
	for _, step := range steps {
		m := stepRe.FindStringSubmatch(strings.TrimSpace(step))
		if m == nil {
			return "", casewatch.Errorf(casewatch.EINVALID, "invalid path step %q in %q", step, path)
		}
		part := strings.ToLower(m[1])
		if m[2] != "" {
			filter, err := positionFilter(m[2])
			if err != nil {
				return "", casewatch.Errorf(casewatch.EINVALID, "invalid predicate in step %q of %q: %s", step, path, casewatch.ErrorMessage(err))
			}
			part += filter
		}
		parts = append(parts, part)
	}
	return strings.Join(parts, " > "), nil
}

// positionFilter converts a step predicate into nth-of-type pseudo-classes.
func positionFilter(predicate string) (string, error) {
	predicate = strings.TrimSpace(predicate)
	if indexRe.MatchString(predicate) {
		return ":nth-of-type(" + predicate + ")", nil
	}

	var b strings.Builder
	for _, cond := range strings.Split(predicate, " and ") {
		m := conditionRe.FindStringSubmatch(strings.TrimSpace(cond))
		if m == nil {
			return "", casewatch.Errorf(casewatch.EINVALID, "unsupported condition %q", cond)
		}
		n, _ := strconv.Atoi(m[2])
		switch m[1] {
		case "=":
			if n < 1 {
				return "", casewatch.Errorf(casewatch.EINVALID, "position %d matches nothing", n)
			}
			fmt.Fprintf(&b, ":nth-of-type(%d)", n)
		case "!=":
			fmt.Fprintf(&b, ":not(:nth-of-type(%d))", n)
		case "<=", "<":
			if m[1] == "<" {
				n--
			}
			if n < 1 {
				return "", casewatch.Errorf(casewatch.EINVALID, "condition %q matches nothing", cond)
			}
			fmt.Fprintf(&b, ":nth-of-type(-n+%d)", n)
		case ">=", ">":
			if m[1] == ">" {
				n++
			}
			fmt.Fprintf(&b, ":nth-of-type(n+%d)", max(n, 1))
		}
	}
	return b.String(), nil
}

// isMarker reports whether the row's first cell has a text node equal to label.
func isMarker(tr *goquery.Selection, label string) bool {
	td := tr.ChildrenFiltered("td").First()
	if td.Length() == 0 {
		return false
	}
	for c := td.Get(0).FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode && c.Data == label {
			return true
		}
	}
	return false
}

func rows(trs *goquery.Selection) []casewatch.Row {
	out := make([]casewatch.Row, 0, trs.Length())
	trs.Each(func(_ int, tr *goquery.Selection) {
		out = append(out, rowCells(tr))
	})
	return out
}

func rowCells(tr *goquery.Selection) casewatch.Row {
	tds := tr.ChildrenFiltered("td")
	row := make(casewatch.Row, 0, tds.Length())
	for _, n := range tds.Nodes {
		row = append(row, VisibleText(n))
	}
	return row
}
