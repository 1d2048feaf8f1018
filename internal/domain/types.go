// Package domain defines core types, interfaces, and errors for the canvas
// query engine.
package domain

// ResultSet is an ordered sequence of rows, as cached for a canvas node.
// The column set of the relation it describes is defined by the keys of the
// first row; later rows are read against that column list.
type ResultSet []Row

// Columns returns the column list of the result set, taken from the first
// row. Nil for an empty set.
func (rs ResultSet) Columns() []string {
	if len(rs) == 0 {
		return nil
	}
	return rs[0].Columns()
}

// Lookup resolves a node label to its most recently recorded result set.
// It is supplied by the node-state keeper (the canvas layer); the engine
// never holds node state itself.
type Lookup interface {
	Resolve(label string) (ResultSet, bool)
}

// MapLookup adapts a plain label→results map to the Lookup capability.
// This is what the HTTP layer builds from the request body.
type MapLookup map[string]ResultSet

func (m MapLookup) Resolve(label string) (ResultSet, bool) {
	rs, ok := m[label]
	return rs, ok
}

// QueryResult holds the structured output of an executed query.
type QueryResult struct {
	Columns  []string
	Rows     []Row
	RowCount int
}
