package output

import (
	"bufio"
	"fmt"
	"io"

	"github.com/vsinha/factorycalc/pkg/application/dto"
)

// RenderDiagram writes result as a Graphviz digraph. Nodes are labeled with
// the whole number of factories; each distinct `child -> parent` line is
// written once, in first-seen order. Names are not escaped.
func RenderDiagram(w io.Writer, result *dto.DemandResult) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintln(bw, "digraph {")
	for _, name := range result.Order {
		fmt.Fprintf(bw, "  %s [label=\"%s %d\"]\n", name, name, result.WholeFactories(name))
	}

	seen := make(map[string]bool)
	for _, entry := range result.Edges {
		for _, req := range entry.Item.Requirements {
			line := fmt.Sprintf("  %s -> %s", req.Item.Name, entry.Item.Name)
			if seen[line] {
				continue
			}
			seen[line] = true
			fmt.Fprintln(bw, line)
		}
	}
	fmt.Fprintln(bw, "}")

	return bw.Flush()
}
