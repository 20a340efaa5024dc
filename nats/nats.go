/*
Package nats exposes a patch to remote control over NATS. Messages are
JSON calls addressed to a unit of a node:

	{"node": "<id>", "unit": "modifier", "method": "SetGain", "args": [0.5]}

Calls are not applied on arrival: the control defers them onto the
patch, so they land between ticks no matter which goroutine the
driver runs on. When a message carries a reply subject, the outcome of
the call is reported back.
*/
package nats

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"pipelined.dev/modular"
	"pipelined.dev/modular/log"
)

const (
	// DefaultSubject is the control subject used unless overridden.
	DefaultSubject = "modular.control"

	connectTimeout = 5 * time.Second
)

// Control errors.
var (
	// ErrUnknownNode is returned when the patch holds no node with the
	// addressed id.
	ErrUnknownNode = errors.New("unknown node")

	// ErrUnknownUnit is returned for units other than generator or
	// modifier.
	ErrUnknownUnit = errors.New("unknown unit")

	// ErrNotCallable is returned when the addressed unit is absent or
	// has no method table.
	ErrNotCallable = errors.New("unit is not callable")
)

type (
	// Message is a control call addressed to a unit of a patch node.
	Message struct {
		Node   string        `json:"node"`
		Unit   string        `json:"unit"`
		Method string        `json:"method"`
		Args   []interface{} `json:"args"`
	}

	// Reply reports the outcome of an applied call.
	Reply struct {
		OK    bool   `json:"ok"`
		Error string `json:"error,omitempty"`
	}

	// Conn is the subset of the NATS connection the control needs.
	Conn interface {
		Subscribe(subject string, cb nats.MsgHandler) (*nats.Subscription, error)
		Close()
	}

	// Control applies control messages to a patch.
	Control struct {
		patch   *modular.Patch
		conn    Conn
		sub     *nats.Subscription
		subject string
		logger  log.Logger
	}

	// ControlOption configures a control.
	ControlOption func(*Control)
)

// conn adapts *nats.Conn to the Conn interface.
type conn struct {
	nc *nats.Conn
}

func (c conn) Subscribe(subject string, cb nats.MsgHandler) (*nats.Subscription, error) {
	return c.nc.Subscribe(subject, cb)
}

func (c conn) Close() {
	c.nc.Close()
}

// WithSubject overrides the control subject.
func WithSubject(subject string) ControlOption {
	return func(c *Control) { c.subject = subject }
}

// WithLogger overrides the control logger.
func WithLogger(logger log.Logger) ControlOption {
	return func(c *Control) { c.logger = logger }
}

// NewControl returns a control over an existing connection. Start must
// be called to subscribe.
func NewControl(cn Conn, patch *modular.Patch, opts ...ControlOption) *Control {
	c := &Control{
		patch:   patch,
		conn:    cn,
		subject: DefaultSubject,
		logger:  log.GetLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Connect dials the NATS server at url and starts a control for the
// patch. The client reconnects on its own; connection state changes
// are logged.
func Connect(url string, patch *modular.Patch, opts ...ControlOption) (*Control, error) {
	c := NewControl(nil, patch, opts...)
	nc, err := nats.Connect(url,
		nats.Name("modular control"),
		nats.Timeout(connectTimeout),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			c.logger.Warn("control: disconnected: ", err)
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			c.logger.Info("control: reconnected to ", nc.ConnectedUrl())
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}
	c.conn = conn{nc: nc}
	if err := c.Start(); err != nil {
		nc.Close()
		return nil, err
	}
	return c, nil
}

// Start subscribes to the control subject.
func (c *Control) Start() error {
	sub, err := c.conn.Subscribe(c.subject, c.handle)
	if err != nil {
		return fmt.Errorf("subscribe %q: %w", c.subject, err)
	}
	c.sub = sub
	c.logger.Info("control: listening on ", c.subject)
	return nil
}

// Close drops the subscription and the connection.
func (c *Control) Close() error {
	if c.sub != nil {
		if err := c.sub.Unsubscribe(); err != nil {
			return err
		}
	}
	c.conn.Close()
	return nil
}

// handle parses one message and defers its call onto the patch.
func (c *Control) handle(msg *nats.Msg) {
	var m Message
	if err := json.Unmarshal(msg.Data, &m); err != nil {
		c.logger.Warn("control: bad message: ", err)
		c.respond(msg, err)
		return
	}
	c.patch.Defer(func() {
		err := c.apply(m)
		if err != nil {
			c.logger.Warn("control: ", err)
		}
		c.respond(msg, err)
	})
}

// apply routes the call to the addressed unit.
func (c *Control) apply(m Message) error {
	node := c.patch.Node(m.Node)
	if node == nil {
		return fmt.Errorf("%w: %q", ErrUnknownNode, m.Node)
	}
	var unit interface{}
	switch m.Unit {
	case "generator":
		unit = node.Generator()
	case "modifier":
		unit = node.Modifier()
	default:
		return fmt.Errorf("%w: %q", ErrUnknownUnit, m.Unit)
	}
	caller, ok := unit.(modular.Caller)
	if !ok {
		return fmt.Errorf("%w: %s of %q", ErrNotCallable, m.Unit, m.Node)
	}
	return caller.Call(m.Method, m.Args...)
}

// respond reports the call outcome when a reply was requested.
func (c *Control) respond(msg *nats.Msg, callErr error) {
	if msg.Reply == "" {
		return
	}
	reply := Reply{OK: callErr == nil}
	if callErr != nil {
		reply.Error = callErr.Error()
	}
	data, err := json.Marshal(reply)
	if err != nil {
		return
	}
	if err := msg.Respond(data); err != nil {
		c.logger.Warn("control: reply: ", err)
	}
}
