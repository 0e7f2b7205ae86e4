package printer

import (
	"fmt"
	"io"
	"sync"
)

// Columns writes one numbered "protocol / info" row per top-level
// dissection, like a capture tool's packet list. It satisfies
// dissect.ColumnReporter and is safe for concurrent use.
type Columns struct {
	mu  sync.Mutex
	w   io.Writer
	row int
	err error
}

// NewColumns returns a column reporter writing to w.
func NewColumns(w io.Writer) *Columns {
	return &Columns{w: w}
}

// Report writes one row. Write errors are kept and returned by Err.
func (c *Columns) Report(protocol, summary string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return
	}
	c.row++
	_, c.err = fmt.Fprintf(c.w, "%-6d %-8s %s\n", c.row, protocol, summary)
}

// Rows returns how many rows were reported.
func (c *Columns) Rows() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.row
}

// Err returns the first write error, if any.
func (c *Columns) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}
