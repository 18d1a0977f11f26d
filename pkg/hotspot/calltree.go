package hotspot

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/danpilch/gfxprof/pkg/cpuprofile"
	"github.com/danpilch/gfxprof/pkg/output"
)

const (
	callTreeRoots    = 30
	callTreeChildren = 5
	callTreeMaxDepth = 8
	minTreeNodePct   = 0.1
)

// TreeNode is one rendered row of the call tree.
type TreeNode struct {
	Name     string
	Depth    int
	SelfUs   int64
	TotalUs  int64
	SelfPct  float64
	TotalPct float64
	Children []*TreeNode
}

type treeBuilder struct {
	a       *cpuprofile.Analysis
	denom   int64
	printed map[string]bool
}

// BuildCallTree expands the top functions by total time into a tree of their
// heaviest callees.
//
// A function is expanded at most once across the whole tree: once it has
// been visited, any later occurrence as a root or callee is dropped. This
// keeps shared callees and recursion from repeating subtrees.
func BuildCallTree(a *cpuprofile.Analysis, denom int64) []*TreeNode {
	b := &treeBuilder{a: a, denom: denom, printed: make(map[string]bool)}

	roots := cpuprofile.Ranked(a.TotalTime, cpuprofile.IdleName, cpuprofile.ProgramName, cpuprofile.RootName)
	if len(roots) > callTreeRoots {
		roots = roots[:callTreeRoots]
	}

	var tree []*TreeNode
	for _, name := range roots {
		if b.printed[name] {
			continue
		}
		if n := b.node(name, 0); n != nil {
			tree = append(tree, n)
		}
	}
	return tree
}

func (b *treeBuilder) node(name string, depth int) *TreeNode {
	if b.printed[name] || depth > callTreeMaxDepth {
		return nil
	}
	b.printed[name] = true

	n := &TreeNode{
		Name:     name,
		Depth:    depth,
		SelfUs:   b.a.SelfTime[name],
		TotalUs:  b.a.TotalTime[name],
		SelfPct:  output.Percent(b.a.SelfTime[name], b.denom),
		TotalPct: output.Percent(b.a.TotalTime[name], b.denom),
	}
	if n.TotalPct < minTreeNodePct && depth > 0 {
		return nil
	}

	children := make([]string, 0, len(b.a.CallTree[name]))
	for child := range b.a.CallTree[name] {
		children = append(children, child)
	}
	sort.Slice(children, func(i, j int) bool {
		ti, tj := b.a.TotalTime[children[i]], b.a.TotalTime[children[j]]
		if ti != tj {
			return ti > tj
		}
		return children[i] < children[j]
	})
	if len(children) > callTreeChildren {
		children = children[:callTreeChildren]
	}

	for _, child := range children {
		if output.Percent(b.a.TotalTime[child], b.denom) < minTreeNodePct {
			continue
		}
		if c := b.node(child, depth+1); c != nil {
			n.Children = append(n.Children, c)
		}
	}
	return n
}

// RenderCallTree writes the cumulative call tree section.
func RenderCallTree(w io.Writer, tree []*TreeNode) {
	output.Banner(w, "CALL TREE (Cumulative Time - shows where time is spent INCLUDING children)", reportWidth)
	fmt.Fprintf(w, "%8s %8s %6s %6s  %s\n", "Self", "Total", "Self%", "Total%", "Function")
	fmt.Fprintf(w, "%s %s %s %s  %s\n",
		strings.Repeat("─", 8), strings.Repeat("─", 8), strings.Repeat("─", 6),
		strings.Repeat("─", 6), strings.Repeat("─", 70))

	for _, n := range tree {
		renderTreeNode(w, n)
	}
}

func renderTreeNode(w io.Writer, n *TreeNode) {
	prefix := strings.Repeat("  ", n.Depth)
	if n.Depth > 0 {
		prefix += "└─ "
	}
	name := output.Truncate(output.DisplayName(n.Name), 70-len([]rune(prefix)))

	fmt.Fprintf(w, "%8s %8s %5.1f%% %5.1f%%  %s%s\n",
		output.FormatMicros(n.SelfUs), output.FormatMicros(n.TotalUs),
		n.SelfPct, n.TotalPct, prefix, name)

	for _, c := range n.Children {
		renderTreeNode(w, c)
	}
}
