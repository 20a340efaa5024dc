package modular_test

import (
	"fmt"

	"pipelined.dev/modular"
	"pipelined.dev/modular/generator"
	"pipelined.dev/modular/modifier"
)

// Wire a sine oscillator through a gain stage and render the first
// few frames. A sample rate of 8 keeps the numbers readable.
func Example() {
	patch := modular.NewPatch(8)

	sine, err := generator.NewSine(patch.Rate(), 1)
	if err != nil {
		panic(err)
	}
	src := modular.NewNode(modular.WithGenerator(sine))
	amp := modular.NewNode(modular.WithModifier(modifier.NewGain(0.5)))
	src.AddTarget(amp)

	patch.AddNode(src, 0, false)
	patch.AddNode(amp, 1, true)

	for i := 0; i < 3; i++ {
		fmt.Printf("%.3f\n", patch.Tick().Left)
	}
	// Output:
	// 0.000
	// 0.354
	// 0.500
}

// Components expose their parameters by name, so callers can drive
// them without knowing the concrete type.
func ExampleTable() {
	gain := modifier.NewGain(1)
	if err := gain.Call("SetGain", 0.25); err != nil {
		panic(err)
	}

	var value float64
	if err := gain.Call("GetGain", &value); err != nil {
		panic(err)
	}
	fmt.Println(value)
	// Output: 0.25
}

// Deferred functions run between frames, so parameter changes never
// land in the middle of a tick.
func ExamplePatch_Defer() {
	patch := modular.NewPatch(modular.DefaultSampleRate)
	gain := modifier.NewGain(1)
	patch.AddNode(modular.NewNode(modular.WithModifier(gain)), 0, true)

	patch.Defer(func() {
		if err := gain.Call("SetGain", 0.25); err != nil {
			panic(err)
		}
	})

	unit := modular.Frame{Left: 1, Right: 1}
	fmt.Printf("before %.2f\n", gain.Modify(unit).Left)
	patch.Tick()
	fmt.Printf("after %.2f\n", gain.Modify(unit).Left)
	// Output:
	// before 1.00
	// after 0.25
}
