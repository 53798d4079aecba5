package corpus

import (
	"math"
	"sort"
)

// Order selects a traversal order.
type Order int

const (
	PreOrder Order = iota
	PostOrder
)

// Node is a position in an annotation tree.
type Node struct {
	ann      *Annotation
	parent   *Node
	children []*Node
}

// Annotation returns the annotation held by the node.
func (n *Node) Annotation() *Annotation { return n.ann }

// Parent returns the parent node, nil for the root.
func (n *Node) Parent() *Node { return n.parent }

// Children returns a copy of the ordered children.
func (n *Node) Children() []*Node {
	out := make([]*Node, len(n.children))
	copy(out, n.children)
	return out
}

type span struct{ start, end int }

// Tree organizes the annotations of one sentence by containment. The root
// covers the whole sentence and is not an annotation of its own; siblings
// never contain each other but may intersect.
type Tree struct {
	sentence *Sentence
	root     *Node
	index    map[span]*Node
}

func newTree(s *Sentence) *Tree {
	t := &Tree{sentence: s}
	t.Clean()
	return t
}

// Root returns the root node.
func (t *Tree) Root() *Node { return t.root }

// Size is the number of nodes, root included.
func (t *Tree) Size() int { return len(t.index) + 1 }

// Clean drops every annotation, leaving a single root over the sentence.
func (t *Tree) Clean() {
	n := 0
	if t.sentence != nil {
		n = len(t.sentence.Tokens)
	}
	t.root = &Node{ann: &Annotation{Start: 0, End: n - 1, Score: 1, sentence: t.sentence}}
	t.index = make(map[span]*Node)
}

func (t *Tree) validate(a *Annotation) error {
	if a == nil {
		return &InvalidSpanError{Start: -1, End: -1, Reason: "nil annotation"}
	}
	if !sameSentence(a.sentence, t.sentence) {
		return &InvalidSpanError{Start: a.Start, End: a.End, Reason: "annotation belongs to another sentence"}
	}
	if a.Start < 0 || a.End >= len(t.sentence.Tokens) {
		return &InvalidSpanError{Start: a.Start, End: a.End, Reason: "token index out of range"}
	}
	if a.Start > a.End {
		return &InvalidSpanError{Start: a.Start, End: a.End, Reason: "start after end"}
	}
	if math.IsNaN(a.Score) || a.Score < 0 || a.Score > 1 {
		return &InvalidSpanError{Start: a.Start, End: a.End, Reason: "score outside [0,1]"}
	}
	return nil
}

// Insert places a under the deepest node that contains it and moves any
// children of that node covered by a underneath a. Inserting a span that is
// already present, including the root span, is a no-op.
func (t *Tree) Insert(a *Annotation) error {
	if err := t.validate(a); err != nil {
		return err
	}
	key := span{a.Start, a.End}
	if _, ok := t.index[key]; ok || t.isRootSpan(key) {
		return nil
	}
	if !t.root.ann.Contains(a) {
		return &InvalidSpanError{Start: a.Start, End: a.End, Reason: "outside tree root"}
	}

	node := &Node{ann: a}
	t.attach(t.root, node)
	t.index[key] = node
	t.retag()
	return nil
}

// Find returns the node holding an annotation structurally equal to a.
func (t *Tree) Find(a *Annotation) *Node {
	if a == nil || !sameSentence(a.sentence, t.sentence) {
		return nil
	}
	key := span{a.Start, a.End}
	if t.isRootSpan(key) {
		return t.root
	}
	return t.index[key]
}

// Remove detaches a and re-attaches its children below its parent, each
// under the deepest remaining node that contains it.
// Removing the root or an absent annotation is a no-op.
func (t *Tree) Remove(a *Annotation) {
	n := t.Find(a)
	if n == nil || n == t.root {
		return
	}
	p := n.parent
	p.children = without(p.children, n)
	orphans := n.children
	n.children = nil
	n.parent = nil
	for _, c := range orphans {
		c.parent = nil
		t.attach(p, c)
	}
	delete(t.index, span{n.ann.Start, n.ann.End})
	t.retag()
}

// attach hangs node below the deepest descendant of from that contains it
// and moves the children of that descendant covered by node underneath it.
func (t *Tree) attach(from, node *Node) {
	parent := from
	for {
		var next *Node
		for _, c := range parent.children {
			if c.ann.Contains(node.ann) {
				next = c
				break
			}
		}
		if next == nil {
			break
		}
		parent = next
	}

	node.parent = parent
	kept := parent.children[:0]
	for _, c := range parent.children {
		if node.ann.Contains(c.ann) {
			c.parent = node
			node.children = append(node.children, c)
		} else {
			kept = append(kept, c)
		}
	}
	parent.children = append(kept, node)
	sortNodes(parent.children)
	sortNodes(node.children)
}

// RemoveWithChildren detaches a together with its whole subtree.
func (t *Tree) RemoveWithChildren(a *Annotation) {
	n := t.Find(a)
	if n == nil || n == t.root {
		return
	}
	n.parent.children = without(n.parent.children, n)
	n.parent = nil
	walk(n, 0, PreOrder, func(d *Node, _ int) bool {
		delete(t.index, span{d.ann.Start, d.ann.End})
		return true
	})
	t.retag()
}

// SetRoot narrows the tree to the subtree of the node holding a.
// The node becomes the root; everything outside it is discarded.
func (t *Tree) SetRoot(a *Annotation) {
	n := t.Find(a)
	if n == nil || n == t.root {
		return
	}
	n.parent.children = without(n.parent.children, n)
	n.parent = nil
	t.root = n
	t.index = make(map[span]*Node)
	for _, c := range n.children {
		walk(c, 1, PreOrder, func(d *Node, _ int) bool {
			t.index[span{d.ann.Start, d.ann.End}] = d
			return true
		})
	}
	t.retag()
}

// Walk visits nodes in the given order with their depth (root = 0).
// Returning false from fn stops the walk.
func (t *Tree) Walk(order Order, includeRoot bool, fn func(n *Node, depth int) bool) {
	if includeRoot {
		walk(t.root, 0, order, fn)
		return
	}
	for _, c := range t.root.children {
		if !walk(c, 1, order, fn) {
			return
		}
	}
}

// Traverse lists the annotations in the given order. Children are visited by
// ascending start, then ascending end.
func (t *Tree) Traverse(order Order, includeRoot bool) []*Annotation {
	var out []*Annotation
	t.Walk(order, includeRoot, func(n *Node, _ int) bool {
		out = append(out, n.ann)
		return true
	})
	return out
}

// DepthAnnotation pairs an annotation with its tree depth.
type DepthAnnotation struct {
	Annotation *Annotation
	Depth      int
}

// TraverseWithDepth lists the annotations with their depth.
func (t *Tree) TraverseWithDepth(order Order, includeRoot bool) []DepthAnnotation {
	var out []DepthAnnotation
	t.Walk(order, includeRoot, func(n *Node, depth int) bool {
		out = append(out, DepthAnnotation{Annotation: n.ann, Depth: depth})
		return true
	})
	return out
}

func (t *Tree) isRootSpan(k span) bool {
	return k.start == t.root.ann.Start && k.end == t.root.ann.End
}

// retag recomputes the classification of every annotation: INTERSECTION when
// it overlaps any other annotation of the tree without containment, NESTED
// when it sits below another annotation, LEAF otherwise.
func (t *Tree) retag() {
	var nodes []*Node
	t.Walk(PreOrder, false, func(n *Node, depth int) bool {
		n.ann.tag = TagLeaf
		if depth > 1 {
			n.ann.tag = TagNested
		}
		nodes = append(nodes, n)
		return true
	})
	for i, n := range nodes {
		for _, o := range nodes[i+1:] {
			if n.ann.Intersects(o.ann) {
				n.ann.tag = TagIntersection
				o.ann.tag = TagIntersection
			}
		}
	}
}

func walk(n *Node, depth int, order Order, fn func(*Node, int) bool) bool {
	if order == PreOrder && !fn(n, depth) {
		return false
	}
	for _, c := range n.children {
		if !walk(c, depth+1, order, fn) {
			return false
		}
	}
	if order == PostOrder && !fn(n, depth) {
		return false
	}
	return true
}

func sortNodes(nodes []*Node) {
	sort.SliceStable(nodes, func(i, j int) bool {
		a, b := nodes[i].ann, nodes[j].ann
		if a.Start != b.Start {
			return a.Start < b.Start
		}
		return a.End < b.End
	})
}

func without(nodes []*Node, n *Node) []*Node {
	out := nodes[:0]
	for _, c := range nodes {
		if c != n {
			out = append(out, c)
		}
	}
	return out
}
