package casewatch

// Case is a tracked court case and the portal URL of its details page.
type Case struct {
	ID  string `json:"id" yaml:"id"`
	URL string `json:"url" yaml:"url"`
}

// Validate returns an error if the case contains invalid fields.
func (c *Case) Validate() error {
	if c.ID == "" {
		return Errorf(EINVALID, "case ID required")
	}
	if c.URL == "" {
		return Errorf(EINVALID, "case %q URL required", c.ID)
	}
	return nil
}

// CaseTable maps case identifiers to lookup URLs. The slice order is the
// order in which a full batch visits cases.
type CaseTable []Case

// NewCaseTable returns a table built from cases, rejecting invalid entries
// and duplicate identifiers.
func NewCaseTable(cases ...Case) (CaseTable, error) {
	seen := make(map[string]bool, len(cases))
	table := make(CaseTable, 0, len(cases))
	for _, c := range cases {
		if err := c.Validate(); err != nil {
			return nil, err
		}
		if seen[c.ID] {
			return nil, Errorf(EINVALID, "duplicate case %q", c.ID)
		}
		seen[c.ID] = true
		table = append(table, c)
	}
	return table, nil
}

// Lookup returns the URL registered for id.
// Returns ENOTFOUND if the table has no such case.
func (t CaseTable) Lookup(id string) (string, error) {
	for _, c := range t {
		if c.ID == id {
			return c.URL, nil
		}
	}
	return "", Errorf(ENOTFOUND, "case number %s not found", id)
}

// IDs returns every case identifier in table order.
func (t CaseTable) IDs() []string {
	ids := make([]string, len(t))
	for i, c := range t {
		ids[i] = c.ID
	}
	return ids
}
