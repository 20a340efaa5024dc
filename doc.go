/*
Package modular implements a software-synthesizer engine: a directed
graph of sound generators and sample modifiers evaluated one stereo
frame per tick.

Concept

The engine is built from two kinds of units:

    Generator - produces frames from internal state (oscillators, sample players);
    Modifier - transforms frames it is fed (filters, delays, envelopes);

Units are combined by nodes. A node holds up to one generator, up to one
modifier and an interaction function that merges their per-tick results.
Nodes are arranged into a patch: integer-indexed layers evaluated in
ascending order, one frame per tick. Whoever owns the audio clock - a
sound card callback, an offline render loop - pulls the patch:

    p := modular.NewPatch(modular.DefaultSampleRate)
    osc, _ := generator.NewTriangle(p.Rate(), 440)
    p.AddNode(modular.NewNode(modular.WithGenerator(osc)), 0, true)
    frame := p.Tick()

Evaluation is synchronous and single-threaded. The patch does not order
the graph for the caller: placing producers in lower layers than their
consumers is the caller's declaration, not something the patch checks.

Parameters

Every concrete unit embeds a method table: a per-instance registry of
named setters and getters. Holders of a type-erased handle adjust
parameters by name between ticks:

    err := osc.Call("SetFrequency", 880.0)

Unknown names and mismatched arguments come back as errors, never as
silence.

Reconfiguration

Adding, removing and rewiring nodes is legal between ticks. Callers on
another goroutine (a control surface, a UI) queue their changes with
Patch.Defer; the patch applies them right before the next tick.
*/
package modular
