package rope

import "strings"

// Tree shape limits.
const (
	// MaxChildren is the maximum children per internal node.
	MaxChildren = 8

	// MaxChunksPerLeaf is the maximum chunks in a leaf node.
	MaxChunksPerLeaf = 4
)

// node is a node of the rope tree. Leaves (height 0) hold chunks, internal
// nodes hold children of height-1. Nodes are never mutated after creation.
type node struct {
	height   int
	sum      Summary
	children []*node
	chunks   []chunk
}

func newLeaf(chunks []chunk) *node {
	n := &node{chunks: chunks}
	for _, c := range chunks {
		n.sum = n.sum.Add(c.sum)
	}
	return n
}

func newBranch(children []*node) *node {
	n := &node{height: children[0].height + 1, children: children}
	for _, c := range children {
		n.sum = n.sum.Add(c.sum)
	}
	return n
}

func (n *node) isLeaf() bool {
	return n.height == 0
}

// build creates a tree holding s, or nil for the empty string.
func build(s string) *node {
	chunks := splitText(s)
	if len(chunks) == 0 {
		return nil
	}
	return fromChunks(chunks)
}

// fromChunks packs chunks into leaves and stacks branches until one root
// remains.
func fromChunks(chunks []chunk) *node {
	leaves := make([]*node, 0, len(chunks)/MaxChunksPerLeaf+1)
	for i := 0; i < len(chunks); i += MaxChunksPerLeaf {
		end := min(i+MaxChunksPerLeaf, len(chunks))
		leaves = append(leaves, newLeaf(chunks[i:end:end]))
	}
	return pack(leaves)
}

// pack groups nodes of equal height under new branches until a single root
// remains.
func pack(nodes []*node) *node {
	for len(nodes) > 1 {
		parents := make([]*node, 0, len(nodes)/MaxChildren+1)
		for i := 0; i < len(nodes); i += MaxChildren {
			end := min(i+MaxChildren, len(nodes))
			parents = append(parents, newBranch(nodes[i:end:end]))
		}
		nodes = parents
	}
	return nodes[0]
}

// join concatenates two trees. Either side may be nil.
func join(left, right *node) *node {
	if left == nil || left.sum.Bytes == 0 {
		return right
	}
	if right == nil || right.sum.Bytes == 0 {
		return left
	}
	nodes := concat(left, right)
	if len(nodes) == 1 {
		return nodes[0]
	}
	return newBranch(nodes)
}

// concat joins two non-empty trees, attaching the shorter one along the
// facing spine of the taller one. It returns one or two nodes whose height
// is the larger of the two input heights.
func concat(left, right *node) []*node {
	switch {
	case left.height > right.height:
		last := len(left.children) - 1
		children := make([]*node, 0, len(left.children)+1)
		children = append(children, left.children[:last]...)
		children = append(children, concat(left.children[last], right)...)
		return branches(children)
	case left.height < right.height:
		children := make([]*node, 0, len(right.children)+1)
		children = append(children, concat(left, right.children[0])...)
		children = append(children, right.children[1:]...)
		return branches(children)
	case left.isLeaf():
		chunks := mergeChunks(left.chunks, right.chunks)
		if len(chunks) <= MaxChunksPerLeaf {
			return []*node{newLeaf(chunks)}
		}
		mid := len(chunks) / 2
		return []*node{newLeaf(chunks[:mid:mid]), newLeaf(chunks[mid:])}
	default:
		children := make([]*node, 0, len(left.children)+len(right.children))
		children = append(children, left.children...)
		children = append(children, right.children...)
		return branches(children)
	}
}

// branches wraps children in one branch, or two when they overflow.
func branches(children []*node) []*node {
	if len(children) <= MaxChildren {
		return []*node{newBranch(children)}
	}
	mid := len(children) / 2
	return []*node{newBranch(children[:mid:mid]), newBranch(children[mid:])}
}

// split cuts the tree at a byte offset that lies on a char boundary.
// Either result may be nil.
func split(n *node, at int) (*node, *node) {
	if n == nil || at <= 0 {
		return nil, n
	}
	if at >= n.sum.Bytes {
		return n, nil
	}

	if n.isLeaf() {
		var left, right []chunk
		off := 0
		for _, c := range n.chunks {
			switch {
			case off+c.sum.Bytes <= at:
				left = append(left, c)
			case off >= at:
				right = append(right, c)
			default:
				k := at - off
				left = append(left, newChunk(c.text[:k]))
				right = append(right, newChunk(c.text[k:]))
			}
			off += c.sum.Bytes
		}
		return leafOrNil(left), leafOrNil(right)
	}

	var left, right *node
	off := 0
	for _, c := range n.children {
		switch {
		case off+c.sum.Bytes <= at:
			left = join(left, c)
		case off >= at:
			right = join(right, c)
		default:
			l, r := split(c, at-off)
			left = join(left, l)
			right = join(right, r)
		}
		off += c.sum.Bytes
	}
	return left, right
}

func leafOrNil(chunks []chunk) *node {
	if len(chunks) == 0 {
		return nil
	}
	return newLeaf(chunks)
}

// descend walks from n to the chunk for which pick first reports true, and
// returns it together with the summary of all text before it. When no chunk
// matches, the last chunk is returned. n must be non-empty.
func (n *node) descend(pick func(before, s Summary) bool) (chunk, Summary) {
	var before Summary
	for !n.isLeaf() {
		last := len(n.children) - 1
		for i, c := range n.children {
			if i == last || pick(before, c.sum) {
				n = c
				break
			}
			before = before.Add(c.sum)
		}
	}
	last := len(n.chunks) - 1
	for i, c := range n.chunks {
		if i == last || pick(before, c.sum) {
			return c, before
		}
		before = before.Add(c.sum)
	}
	return chunk{}, before
}

// appendBytes writes the bytes in [start, end) of the subtree to sb.
func (n *node) appendBytes(sb *strings.Builder, start, end int) {
	if start >= end {
		return
	}
	if n.isLeaf() {
		off := 0
		for _, c := range n.chunks {
			cEnd := off + c.sum.Bytes
			if cEnd > start && off < end {
				sb.WriteString(c.text[max(start-off, 0):min(end-off, c.sum.Bytes)])
			}
			off = cEnd
			if off >= end {
				return
			}
		}
		return
	}
	off := 0
	for _, c := range n.children {
		cEnd := off + c.sum.Bytes
		if cEnd > start && off < end {
			c.appendBytes(sb, max(start-off, 0), min(end-off, c.sum.Bytes))
		}
		off = cEnd
		if off >= end {
			return
		}
	}
}

// eachChunk calls fn for every chunk in order until fn returns false.
func (n *node) eachChunk(fn func(string) bool) bool {
	if n.isLeaf() {
		for _, c := range n.chunks {
			if !fn(c.text) {
				return false
			}
		}
		return true
	}
	for _, c := range n.children {
		if !c.eachChunk(fn) {
			return false
		}
	}
	return true
}
