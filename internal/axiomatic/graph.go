package axiomatic

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// WriteDot emits one execution as a graphviz digraph: nodes are the
// enabled actions labeled by kind, order, address and value; edges are
// the witness relations, one color per relation.
func WriteDot(dir string, n int, exec *Execution) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrapf(err, "mkdir %s", dir)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "digraph execution_%d {\n", n)
	fmt.Fprintf(&b, "  rankdir=TB;\n")
	fmt.Fprintf(&b, "  node [shape=box fontname=\"monospace\"];\n")
	for _, a := range exec.Actions {
		shape := ""
		if a.Initial {
			shape = " style=dashed"
		}
		fmt.Fprintf(&b, "  a%d [label=\"%s\"%s];\n", a.Aid, a, shape)
	}
	writeEdges(&b, exec.Sb, "sb", "black")
	writeEdges(&b, exec.Asw, "asw", "blue")
	writeEdges(&b, exec.Rf, "rf", "red")
	writeEdges(&b, exec.Mo, "mo", "darkgreen")
	writeEdges(&b, exec.Sw, "sw", "orange")
	fmt.Fprintf(&b, "}\n")

	path := filepath.Join(dir, fmt.Sprintf("exec_%d.dot", n))
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return errors.Wrapf(err, "write %s", path)
	}
	return nil
}

func writeEdges(b *strings.Builder, edges []AidPair, label, color string) {
	for _, edge := range edges {
		fmt.Fprintf(b, "  a%d -> a%d [label=\"%s\" color=%s fontcolor=%s];\n",
			edge.From, edge.To, label, color, color)
	}
}
