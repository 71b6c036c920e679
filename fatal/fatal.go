// Package fatal implements the core's abort path (spec.md §7 "Error
// handling design"): the core never silently degrades, so configuration
// and topology errors terminate the process after a diagnostic message.
// Grounded on the teacher's panic+debug.PrintStack idiom
// (dummy/dummy.go's NonExist methods).
package fatal

import (
	"fmt"
	"runtime/debug"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/sarchlab/amrmesh/boxlevel"
	"github.com/sarchlab/amrmesh/connector"
)

// Abort prints a diagnostic naming the offending object and parameter,
// dumps a stack trace, and panics. Used for configuration errors: missing
// input, invalid ratio, version mismatch, unknown role, mixed face/side
// fluxes, a stencil wider than scratch (spec.md §7).
func Abort(object, reason string) {
	debug.PrintStack()
	panic(fmt.Sprintf("FATAL[%s]: %s", object, reason))
}

// AbortWithConnectorDump aborts a topology error (source level does not
// nest, unfilled boxes remain but no coarser level exists) with the full
// connector dump spec.md §7 requires to aid diagnosis.
func AbortWithConnectorDump(object, reason string, c *connector.Connector) {
	dump := DumpConnector(c)
	debug.PrintStack()
	panic(fmt.Sprintf("FATAL[%s]: %s\n%s", object, reason, dump))
}

// DumpConnector renders every edge of c as a table: base box id, head box
// id, and the overlap region in the base's index space.
func DumpConnector(c *connector.Connector) string {
	t := table.NewWriter()
	t.AppendHeader(table.Row{"Base", "Head", "Overlap"})

	if c != nil {
		for _, e := range c.AllEdges() {
			t.AppendRow(table.Row{boxIdString(e.Base), boxIdString(e.Head), e.Overlap.String()})
		}
	}

	return t.Render()
}

func boxIdString(id boxlevel.BoxId) string {
	return fmt.Sprintf("owner=%d local=%d shift=%v", id.Owner, id.Local, id.Shift)
}
