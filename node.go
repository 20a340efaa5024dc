package modular

import "github.com/rs/xid"

type (
	// Generator produces one frame per call from its internal state.
	// Oscillators and sample players are generators.
	Generator interface {
		Generate() Frame
	}

	// Modifier transforms one frame per call. Filters, delays and
	// envelopes are modifiers.
	Modifier interface {
		Modify(Frame) Frame
	}

	// Interaction combines the per-tick results of a node's generator
	// and modifier: g is the generated frame, m the modified input.
	Interaction func(g, m Frame) Frame

	// Node is a single vertex of a patch. It holds up to one generator,
	// up to one modifier and the interaction merging their results.
	// Every tick the node writes its output to its own cell, to the
	// input cell of every target node and to every registered external
	// cell.
	Node struct {
		uid      string
		gen      Generator
		mod      Modifier
		interact Interaction
		input    Frame
		output   Frame
		targets  []*Node
		cells    []*Frame
	}

	// NodeOption configures a node under construction.
	NodeOption func(*Node)
)

// WithGenerator sets the node's generator.
func WithGenerator(g Generator) NodeOption {
	return func(n *Node) { n.gen = g }
}

// WithModifier sets the node's modifier.
func WithModifier(m Modifier) NodeOption {
	return func(n *Node) { n.mod = m }
}

// WithInteraction overrides the default interaction.
func WithInteraction(fn Interaction) NodeOption {
	return func(n *Node) { n.interact = fn }
}

// NewNode returns a node holding the provided units. Unless overridden,
// the interaction passes the generated frame through when only a
// generator is present, the modified input when only a modifier is, and
// their per-channel product when both are.
func NewNode(opts ...NodeOption) *Node {
	n := &Node{uid: newUID()}
	for _, opt := range opts {
		opt(n)
	}
	if n.interact == nil {
		switch {
		case n.gen != nil && n.mod != nil:
			n.interact = func(g, m Frame) Frame { return g.Mul(m) }
		case n.gen != nil:
			n.interact = func(g, _ Frame) Frame { return g }
		default:
			n.interact = func(_, m Frame) Frame { return m }
		}
	}
	return n
}

func newUID() string {
	return xid.New().String()
}

// ID returns the node's unique identifier.
func (n *Node) ID() string {
	return n.uid
}

// Generator returns the generator held by the node, nil when absent.
func (n *Node) Generator() Generator {
	return n.gen
}

// Modifier returns the modifier held by the node, nil when absent.
func (n *Node) Modifier() Modifier {
	return n.mod
}

// AddTarget registers a downstream node. The edge is non-owning: the
// target's lifetime and its evaluation after this node stay the
// caller's concern. When several nodes target the same input cell, the
// last writer of the tick wins.
func (n *Node) AddTarget(t *Node) {
	n.targets = append(n.targets, t)
}

// AddOutput registers an external cell receiving a copy of the node's
// output every tick.
func (n *Node) AddOutput(cell *Frame) {
	n.cells = append(n.cells, cell)
}

// SetInput writes the node's input cell directly. Nodes without an
// upstream writer are fed this way.
func (n *Node) SetInput(f Frame) {
	n.input = f
}

// Output returns the node's output cell as of the last tick.
func (n *Node) Output() Frame {
	return n.output
}

// tick computes one frame and distributes it.
func (n *Node) tick() {
	var g Frame
	if n.gen != nil {
		g = n.gen.Generate()
	}
	m := n.input
	if n.mod != nil {
		m = n.mod.Modify(n.input)
	}
	out := n.interact(g, m)
	n.output = out
	for _, t := range n.targets {
		t.input = out
	}
	for _, cell := range n.cells {
		*cell = out
	}
}
