package packagetree

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/docker/go-units"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Line is one displayed node.
type Line struct {
	Depth int
	Node  *Node
}

// Flatten lists the nodes below root in display order: depth first, and within each
// folder, folders before files, then by name. The root is not listed.
func Flatten(root *Node) []Line {
	c := collate.New(language.Und)
	lines := []Line{}
	flatten(c, root, 0, &lines)
	return lines
}

func flatten(c *collate.Collator, n *Node, depth int, lines *[]Line) {
	children := slices.Clone(n.Children)
	slices.SortStableFunc(children, func(a, b *Node) int {
		if a.Kind != b.Kind {
			if a.Kind == KindFolder {
				return -1
			}
			return 1
		}
		return c.CompareString(a.Name, b.Name)
	})

	for _, child := range children {
		*lines = append(*lines, Line{Depth: depth, Node: child})
		flatten(c, child, depth+1, lines)
	}
}

// Render writes the tree as indented text, folders with a trailing "/".
func Render(w io.Writer, root *Node) error {
	for _, line := range Flatten(root) {
		indent := strings.Repeat("  ", line.Depth)
		var err error
		if line.Node.Kind == KindFolder {
			_, err = fmt.Fprintf(w, "%s%s/\n", indent, line.Node.Name)
		} else {
			_, err = fmt.Fprintf(w, "%s%s (%s)\n", indent, line.Node.Name, units.HumanSize(float64(line.Node.Size)))
		}
		if err != nil {
			return err
		}
	}
	return nil
}
