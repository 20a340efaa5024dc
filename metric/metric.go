// Package metric publishes engine counters through expvar. Counters
// are grouped by component type: every playback driver or renderer of
// the same type shares one set.
package metric

import (
	"expvar"
	"fmt"
	"reflect"
	"sync"
	"sync/atomic"
	"time"

	"pipelined.dev/modular"
	"pipelined.dev/modular/signal"
)

const componentsLabel = "modular.components"

const (
	// TickCounter measures the number of delivered frame blocks.
	TickCounter = "Ticks"
	// FrameCounter measures the number of rendered frames.
	FrameCounter = "Frames"
	// LatencyCounter measures the time between deliveries.
	LatencyCounter = "Latency"
	// DurationCounter accumulates the rendered signal duration.
	DurationCounter = "Duration"
	// ComponentCounter counts the meters opened for the type.
	ComponentCounter = "Components"
)

var (
	components = metrics{
		m: make(map[string]metric),
	}

	counters = []string{
		TickCounter,
		FrameCounter,
		LatencyCounter,
		DurationCounter,
		ComponentCounter,
	}
)

// Get returns metric values for the provided component's type.
func Get(component interface{}) map[string]string {
	return getCounters(getType(component))
}

// GetAll returns counters for all measured component types.
func GetAll() map[string]map[string]string {
	m := make(map[string]map[string]string)
	components.Lock()
	defer components.Unlock()
	for component := range components.m {
		m[component] = getCounters(component)
	}
	return m
}

func getCounters(componentType string) map[string]string {
	m := make(map[string]string)
	for _, counter := range counters {
		v := expvar.Get(key(componentType, counter))
		if v != nil {
			m[counter] = v.String()
		}
	}
	return m
}

// MeasureFunc captures counters when a block of frames was delivered.
type MeasureFunc func(frames int64)

// Meter opens a new meter for the component and returns the capture
// closure to call after every delivered block.
func Meter(component interface{}, rate modular.SampleRate) MeasureFunc {
	t := getType(component)
	m := components.get(t)
	m.components.Add(1)
	calledAt := time.Now()
	var (
		blockSize     int64
		blockDuration time.Duration
	)
	return func(frames int64) {
		m.latency.set(time.Since(calledAt))
		m.ticks.Add(1)
		m.frames.Add(frames)
		// recalculate block duration only when the size has changed
		if blockSize != frames {
			blockSize = frames
			blockDuration = signal.DurationOf(rate, frames)
		}
		m.duration.add(blockDuration)
		calledAt = time.Now()
	}
}

type metrics struct {
	sync.Mutex
	m map[string]metric
}

func (m *metrics) get(componentType string) metric {
	m.Lock()
	defer m.Unlock()
	if metric, ok := m.m[componentType]; ok {
		return metric
	}
	metric := newMetric(componentType)
	m.m[componentType] = metric
	return metric
}

type metric struct {
	key        string
	components *expvar.Int
	ticks      *expvar.Int
	frames     *expvar.Int
	latency    *duration
	duration   *duration
}

func newMetric(componentType string) metric {
	m := metric{
		key:        componentType,
		components: expvar.NewInt(key(componentType, ComponentCounter)),
		ticks:      expvar.NewInt(key(componentType, TickCounter)),
		frames:     expvar.NewInt(key(componentType, FrameCounter)),
		latency:    &duration{},
		duration:   &duration{},
	}
	expvar.Publish(key(componentType, LatencyCounter), m.latency)
	expvar.Publish(key(componentType, DurationCounter), m.duration)
	return m
}

func key(componentType, counter string) string {
	return fmt.Sprintf("%s.%s.%s", componentsLabel, componentType, counter)
}

func getType(component interface{}) string {
	rv := reflect.ValueOf(component)
	for rv.Kind() == reflect.Ptr || rv.Kind() == reflect.Interface {
		rv = rv.Elem()
	}
	return rv.Type().String()
}

// duration formats time.Duration metric values for expvar.
type duration struct {
	d int64
}

func (v *duration) String() string {
	return fmt.Sprintf("%v", time.Duration(atomic.LoadInt64(&v.d)))
}

func (v *duration) add(delta time.Duration) {
	atomic.AddInt64(&v.d, int64(delta))
}

func (v *duration) set(value time.Duration) {
	atomic.StoreInt64(&v.d, int64(value))
}
