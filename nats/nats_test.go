package nats

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"

	"pipelined.dev/modular"
	"pipelined.dev/modular/log"
	"pipelined.dev/modular/mock"
	"pipelined.dev/modular/modifier"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fakeConn struct {
	subject string
	handler nats.MsgHandler
	closed  bool
}

func (f *fakeConn) Subscribe(subject string, cb nats.MsgHandler) (*nats.Subscription, error) {
	f.subject = subject
	f.handler = cb
	return nil, nil
}

func (f *fakeConn) Close() { f.closed = true }

type failingConn struct{ fakeConn }

func (f *failingConn) Subscribe(string, nats.MsgHandler) (*nats.Subscription, error) {
	return nil, errors.New("no server")
}

func newGainPatch(t *testing.T) (*modular.Patch, *modular.Node, *modifier.Gain) {
	t.Helper()
	patch := modular.NewPatch(48000)
	gain := modifier.NewGain(1)
	node := modular.NewNode(modular.WithModifier(gain))
	patch.AddNode(node, 0, true)
	return patch, node, gain
}

func gainValue(t *testing.T, gain *modifier.Gain) float64 {
	t.Helper()
	var v float64
	assert.NoError(t, gain.Call("GetGain", &v))
	return v
}

func TestControlApply(t *testing.T) {
	patch, node, gain := newGainPatch(t)
	c := NewControl(&fakeConn{}, patch, WithLogger(log.Discard()))

	err := c.apply(Message{
		Node:   node.ID(),
		Unit:   "modifier",
		Method: "SetGain",
		Args:   []interface{}{0.5},
	})
	assert.NoError(t, err)
	assert.Equal(t, 0.5, gainValue(t, gain))
}

func TestControlApplyErrors(t *testing.T) {
	patch, node, _ := newGainPatch(t)
	// A generator without a method table is addressable but not
	// callable.
	bare := modular.NewNode(modular.WithGenerator(&mock.Generator{}))
	patch.AddNode(bare, 0, false)
	c := NewControl(&fakeConn{}, patch, WithLogger(log.Discard()))

	tests := []struct {
		name string
		msg  Message
		want error
	}{
		{
			name: "unknown node",
			msg:  Message{Node: "nope", Unit: "modifier", Method: "SetGain", Args: []interface{}{1.0}},
			want: ErrUnknownNode,
		},
		{
			name: "unknown unit",
			msg:  Message{Node: node.ID(), Unit: "filter", Method: "SetGain"},
			want: ErrUnknownUnit,
		},
		{
			name: "absent unit",
			msg:  Message{Node: node.ID(), Unit: "generator", Method: "SetFrequency", Args: []interface{}{440.0}},
			want: ErrNotCallable,
		},
		{
			name: "unit without table",
			msg:  Message{Node: bare.ID(), Unit: "generator", Method: "SetFrequency", Args: []interface{}{440.0}},
			want: ErrNotCallable,
		},
		{
			name: "unknown method",
			msg:  Message{Node: node.ID(), Unit: "modifier", Method: "SetWidth", Args: []interface{}{1.0}},
			want: modular.ErrUnknownMethod,
		},
		{
			name: "bad args",
			msg:  Message{Node: node.ID(), Unit: "modifier", Method: "SetGain", Args: []interface{}{"loud"}},
			want: modular.ErrMethodArgs,
		},
	}
	for _, test := range tests {
		err := c.apply(test.msg)
		assert.ErrorIs(t, err, test.want, test.name)
	}
}

func TestControlDefersUntilTick(t *testing.T) {
	patch, node, gain := newGainPatch(t)
	fake := &fakeConn{}
	c := NewControl(fake, patch, WithLogger(log.Discard()))
	assert.NoError(t, c.Start())

	data, err := json.Marshal(Message{
		Node:   node.ID(),
		Unit:   "modifier",
		Method: "SetGain",
		Args:   []interface{}{0.25},
	})
	assert.NoError(t, err)
	fake.handler(&nats.Msg{Subject: DefaultSubject, Data: data})

	// The call waits for the next tick.
	assert.Equal(t, 1.0, gainValue(t, gain))
	patch.Tick()
	assert.Equal(t, 0.25, gainValue(t, gain))
}

func TestControlIntArgs(t *testing.T) {
	patch, node, gain := newGainPatch(t)
	c := NewControl(&fakeConn{}, patch, WithLogger(log.Discard()))

	// JSON numbers arrive as float64 regardless of how they were
	// written.
	var m Message
	raw := `{"node":"` + node.ID() + `","unit":"modifier","method":"SetGain","args":[2]}`
	assert.NoError(t, json.Unmarshal([]byte(raw), &m))
	assert.NoError(t, c.apply(m))
	assert.Equal(t, 2.0, gainValue(t, gain))
}

func TestControlBadMessage(t *testing.T) {
	patch, _, gain := newGainPatch(t)
	c := NewControl(&fakeConn{}, patch, WithLogger(log.Discard()))

	c.handle(&nats.Msg{Subject: DefaultSubject, Data: []byte("{not json")})
	patch.Tick()
	assert.Equal(t, 1.0, gainValue(t, gain))
}

func TestControlStartClose(t *testing.T) {
	patch, _, _ := newGainPatch(t)
	fake := &fakeConn{}
	c := NewControl(fake, patch, WithSubject("engine.ctl"), WithLogger(log.Discard()))

	assert.NoError(t, c.Start())
	assert.Equal(t, "engine.ctl", fake.subject)
	assert.NotNil(t, fake.handler)

	assert.NoError(t, c.Close())
	assert.True(t, fake.closed)
}

func TestControlSubscribeFails(t *testing.T) {
	patch, _, _ := newGainPatch(t)
	c := NewControl(&failingConn{}, patch, WithLogger(log.Discard()))
	assert.Error(t, c.Start())
}
