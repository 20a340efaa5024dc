// Package mock provides scripted units for testing nodes and patches.
package mock

import "pipelined.dev/modular"

type (
	// Counter counts unit activity.
	Counter struct {
		Calls int
	}

	// Generator mocks a modular.Generator. It emits scripted frames one
	// by one and keeps emitting Value once the script is exhausted.
	Generator struct {
		Counter
		Frames []modular.Frame
		Value  modular.Frame
	}

	// Modifier mocks a modular.Modifier. It records every frame it is
	// fed and applies Fn when provided, identity otherwise.
	Modifier struct {
		Counter
		Got []modular.Frame
		Fn  func(modular.Frame) modular.Frame
	}
)

// Generate returns the next scripted frame, Value after the script.
func (g *Generator) Generate() modular.Frame {
	i := g.Calls
	g.Calls++
	if i < len(g.Frames) {
		return g.Frames[i]
	}
	return g.Value
}

// Modify records the input and returns Fn of it.
func (m *Modifier) Modify(f modular.Frame) modular.Frame {
	m.Calls++
	m.Got = append(m.Got, f)
	if m.Fn != nil {
		return m.Fn(f)
	}
	return f
}
