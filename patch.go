package modular

import (
	"sort"
	"sync"
)

type (
	// MixFunc combines the flagged output cells of a single tick into
	// the patch output.
	MixFunc func([]Frame) Frame

	// layer is a group of nodes sharing an evaluation index. Nodes keep
	// their insertion order.
	layer struct {
		index int
		nodes []*Node
	}

	// Patch is a graph of nodes evaluated one frame per tick. Nodes
	// live in integer-indexed layers; a tick evaluates layers in
	// ascending index order. Placing producers in lower layers than
	// their consumers is the caller's declaration: the patch does not
	// inspect edges, a consumer evaluated too early just reads last
	// tick's cells.
	Patch struct {
		rate    SampleRate
		mix     MixFunc
		layers  []layer
		flagged []*Node
		index   map[string]*Node
		outs    []Frame

		mu      sync.Mutex
		pending []func()
	}

	// PatchOption configures a patch under construction.
	PatchOption func(*Patch)
)

// Sum is the default mix policy: flagged outputs added per channel.
func Sum(frames []Frame) Frame {
	var out Frame
	for _, f := range frames {
		out = out.Add(f)
	}
	return out
}

// Mean averages the flagged outputs.
func Mean(frames []Frame) Frame {
	if len(frames) == 0 {
		return Frame{}
	}
	return Sum(frames).Scale(1 / float64(len(frames)))
}

// WithMix overrides the mix policy.
func WithMix(mix MixFunc) PatchOption {
	return func(p *Patch) { p.mix = mix }
}

// NewPatch returns an empty patch ticking at the provided rate.
func NewPatch(rate SampleRate, opts ...PatchOption) *Patch {
	p := &Patch{
		rate:  rate,
		mix:   Sum,
		index: make(map[string]*Node),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Rate returns the patch sample rate.
func (p *Patch) Rate() SampleRate {
	return p.rate
}

// AddNode puts the node into the layer with the provided index,
// creating the layer when needed. Nodes flagged as output contribute
// their cells to the mix of every tick. Re-adding a node relocates it.
func (p *Patch) AddNode(n *Node, index int, output bool) {
	p.RemoveNode(n)
	i := sort.Search(len(p.layers), func(i int) bool { return p.layers[i].index >= index })
	if i == len(p.layers) || p.layers[i].index != index {
		p.layers = append(p.layers, layer{})
		copy(p.layers[i+1:], p.layers[i:])
		p.layers[i] = layer{index: index}
	}
	p.layers[i].nodes = append(p.layers[i].nodes, n)
	if output {
		p.flagged = append(p.flagged, n)
	}
	p.index[n.uid] = n
}

// RemoveNode detaches the node from the patch. Edges registered on the
// node itself are left alone.
func (p *Patch) RemoveNode(n *Node) {
	for i := range p.layers {
		for j, other := range p.layers[i].nodes {
			if other == n {
				p.layers[i].nodes = append(p.layers[i].nodes[:j], p.layers[i].nodes[j+1:]...)
				break
			}
		}
	}
	for i := len(p.layers) - 1; i >= 0; i-- {
		if len(p.layers[i].nodes) == 0 {
			p.layers = append(p.layers[:i], p.layers[i+1:]...)
		}
	}
	for i, other := range p.flagged {
		if other == n {
			p.flagged = append(p.flagged[:i], p.flagged[i+1:]...)
			break
		}
	}
	delete(p.index, n.uid)
}

// Node returns the patch node with the provided id, nil when absent.
func (p *Patch) Node(id string) *Node {
	return p.index[id]
}

// Defer queues fn to run right before the next tick. It is the only
// patch entry point safe to use from another goroutine: drivers tick
// the patch on their own clock, so reconfiguration from outside must
// land between ticks.
func (p *Patch) Defer(fn func()) {
	p.mu.Lock()
	p.pending = append(p.pending, fn)
	p.mu.Unlock()
}

// Tick evaluates one frame: queued mutations first, then every layer in
// ascending order, then the mix of the flagged output cells.
func (p *Patch) Tick() Frame {
	p.mu.Lock()
	pending := p.pending
	p.pending = nil
	p.mu.Unlock()
	for _, fn := range pending {
		fn()
	}
	for i := range p.layers {
		for _, n := range p.layers[i].nodes {
			n.tick()
		}
	}
	p.outs = p.outs[:0]
	for _, n := range p.flagged {
		p.outs = append(p.outs, n.output)
	}
	return p.mix(p.outs)
}

// Fill renders len(buf) consecutive ticks into buf. It is the block
// entry point for drivers and offline rendering.
func (p *Patch) Fill(buf []Frame) {
	for i := range buf {
		buf[i] = p.Tick()
	}
}
