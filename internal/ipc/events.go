package ipc

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

type eventHandler func(payload []byte) error

// on registers h for key, which is either "<event>" or "<event>::<change>".
func (c *Conn) on(key string, h eventHandler) {
	c.handlers[key] = append(c.handlers[key], h)
}

// OnWindow registers fn for window events with the given change
// ("new", "floating", "move", ...). An empty change matches all.
func (c *Conn) OnWindow(change string, fn func(*WindowEvent)) {
	c.on(eventKey("window", change), func(payload []byte) error {
		var ev WindowEvent
		if err := json.Unmarshal(payload, &ev); err != nil {
			return err
		}
		ev.Container.link(nil)
		fn(&ev)
		return nil
	})
}

// OnBinding registers fn for binding events.
func (c *Conn) OnBinding(fn func(*BindingEvent)) {
	c.on("binding", func(payload []byte) error {
		var ev BindingEvent
		if err := json.Unmarshal(payload, &ev); err != nil {
			return err
		}
		fn(&ev)
		return nil
	})
}

// OnShutdown registers fn for shutdown events with the given change
// ("exit", "restart"). An empty change matches all.
func (c *Conn) OnShutdown(change string, fn func(*ShutdownEvent)) {
	c.on(eventKey("shutdown", change), func(payload []byte) error {
		var ev ShutdownEvent
		if err := json.Unmarshal(payload, &ev); err != nil {
			return err
		}
		fn(&ev)
		return nil
	})
}

func eventKey(event, change string) string {
	if change == "" {
		return event
	}
	return event + "::" + change
}

// subscriptions returns the sorted event names handlers were registered for.
func (c *Conn) subscriptions() []string {
	seen := map[string]bool{}
	var names []string
	for key := range c.handlers {
		name, _, _ := strings.Cut(key, "::")
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// Main subscribes to every event with a registered handler and dispatches
// events on the calling goroutine, one at a time. It returns nil after a
// shutdown event or when ctx is cancelled.
func (c *Conn) Main(ctx context.Context) error {
	sub, err := c.dial()
	if err != nil {
		return err
	}
	c.subMu.Lock()
	c.sub = sub
	c.subMu.Unlock()
	defer c.closeSub()

	payload, err := json.Marshal(c.subscriptions())
	if err != nil {
		return fmt.Errorf("failed to marshal subscription: %w", err)
	}
	if err := writeMessage(sub, MessageSubscribe, payload); err != nil {
		return fmt.Errorf("failed to subscribe: %w", err)
	}
	t, reply, err := readMessage(sub)
	if err != nil {
		return fmt.Errorf("failed to read subscribe reply: %w", err)
	}
	var ack subscribeReply
	if t != uint32(MessageSubscribe) || json.Unmarshal(reply, &ack) != nil || !ack.Success {
		return fmt.Errorf("subscription rejected: %s", reply)
	}

	stop := context.AfterFunc(ctx, c.closeSub)
	defer stop()

	for {
		t, payload, err := readMessage(sub)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("event stream: %w", err)
		}
		if t&eventMask == 0 {
			continue
		}
		name := eventNames[t&^eventMask]
		if err := c.dispatch(name, payload); err != nil {
			return err
		}
		if name == "shutdown" {
			return nil
		}
	}
}

func (c *Conn) dispatch(name string, payload []byte) error {
	var head struct {
		Change string `json:"change"`
	}
	if err := json.Unmarshal(payload, &head); err != nil {
		return fmt.Errorf("failed to parse %s event: %w", name, err)
	}
	keys := []string{name}
	if head.Change != "" {
		keys = append(keys, name+"::"+head.Change)
	}
	for _, key := range keys {
		for _, h := range c.handlers[key] {
			if err := h(payload); err != nil {
				return fmt.Errorf("failed to decode %s event: %w", key, err)
			}
		}
	}
	return nil
}

func (c *Conn) closeSub() {
	c.subMu.Lock()
	defer c.subMu.Unlock()
	if c.sub != nil {
		// Errors here mean the compositor already tore the socket down.
		c.sub.Close()
		c.sub = nil
	}
}
