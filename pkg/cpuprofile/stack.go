package cpuprofile

// Frame is one entry of a reconstructed call stack.
type Frame struct {
	ID   int64
	Name string
}

// Stack returns the call stack of node id ordered leaf to root.
//
// The walk stops at the root, at a node missing from the table, or at a node
// already visited, so a cyclic parent chain is truncated rather than looping.
// An id of zero yields an empty stack.
func (p *Profile) Stack(id int64) []Frame {
	var stack []Frame
	visited := make(map[int64]struct{})
	for cur := id; cur != 0; {
		if _, seen := visited[cur]; seen {
			break
		}
		visited[cur] = struct{}{}

		node, ok := p.Nodes[cur]
		if !ok {
			break
		}
		stack = append(stack, Frame{ID: cur, Name: node.FunctionName})
		cur = node.Parent
	}
	return stack
}
