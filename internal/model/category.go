package model

import "fmt"

// Flow is one named stage of a category's pipeline (e.g. To Do, Doing,
// Done). Flows have no lifecycle of their own; they live and die with their
// category, and their position in Category.Flows is authoritative for
// ordering regardless of the Order number.
type Flow struct {
	ID    string
	Name  string
	Order int
}

// Category groups tasks and defines the pipeline they move through.
type Category struct {
	Meta
	Name        string
	Description string
	Color       string
	Flows       []Flow
}

// TerminalFlowID returns the id of the last flow in the pipeline, or ""
// when the category has no flows. A task reaching this flow is complete.
func (c Category) TerminalFlowID() string {
	if len(c.Flows) == 0 {
		return ""
	}
	return c.Flows[len(c.Flows)-1].ID
}

// ValidateFlows rejects duplicate flow ids within the category.
func (c Category) ValidateFlows() error {
	seen := make(map[string]struct{}, len(c.Flows))
	for _, f := range c.Flows {
		if _, dup := seen[f.ID]; dup {
			return fmt.Errorf("duplicate flow id %q in category %q", f.ID, c.Name)
		}
		seen[f.ID] = struct{}{}
	}
	return nil
}
