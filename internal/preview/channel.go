package preview

import (
	"encoding/json"
	"sync"

	"github.com/conneroisu/uistudio/internal/errors"
)

// Channel names the source a preview message arrived on.
type Channel string

const (
	// ChannelAction carries UI actions raised by the renderer element.
	ChannelAction Channel = "action"
	// ChannelMessage carries generic window messages posted by frames.
	ChannelMessage Channel = "message"
)

// Message is one inbound event from the preview surface.
type Message struct {
	Channel Channel     `json:"channel"`
	Data    interface{} `json:"data"`
}

// Handler receives messages from a MessageChannel.
type Handler func(Message)

// MessageChannel is the injected source of preview messages. Subscribe
// registers h and returns the function that removes it.
type MessageChannel interface {
	Subscribe(h Handler) (unsubscribe func())
}

// DecodeMessage reads a client frame of the form {"channel": ..., "data": ...}.
// A missing channel is treated as the generic message channel.
func DecodeMessage(data []byte) (Message, error) {
	var m Message
	if err := json.Unmarshal(data, &m); err != nil {
		return Message{}, errors.Wrap(err, errors.ErrorTypeParse, errors.ErrCodeSyntax, "invalid preview message")
	}
	switch m.Channel {
	case ChannelAction, ChannelMessage:
	case "":
		m.Channel = ChannelMessage
	default:
		return Message{}, errors.NewValidationError(errors.ErrCodeInvalidField,
			"unknown preview channel "+string(m.Channel)).WithField("channel")
	}
	return m, nil
}

// LocalChannel is an in-process MessageChannel. Publish delivers to every
// handler subscribed at the time of the call, in subscription order.
type LocalChannel struct {
	mu    sync.RWMutex
	next  uint64
	order []uint64
	subs  map[uint64]Handler
}

// NewLocalChannel returns an empty channel.
func NewLocalChannel() *LocalChannel {
	return &LocalChannel{subs: make(map[uint64]Handler)}
}

// Subscribe implements MessageChannel.
func (c *LocalChannel) Subscribe(h Handler) func() {
	c.mu.Lock()
	id := c.next
	c.next++
	c.subs[id] = h
	c.order = append(c.order, id)
	c.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			c.mu.Lock()
			defer c.mu.Unlock()
			delete(c.subs, id)
			for i, v := range c.order {
				if v == id {
					c.order = append(c.order[:i], c.order[i+1:]...)
					break
				}
			}
		})
	}
}

// Publish delivers m to the current subscribers. Handlers run on the
// caller's goroutine outside the channel lock.
func (c *LocalChannel) Publish(m Message) {
	c.mu.RLock()
	handlers := make([]Handler, 0, len(c.order))
	for _, id := range c.order {
		handlers = append(handlers, c.subs[id])
	}
	c.mu.RUnlock()

	for _, h := range handlers {
		h(m)
	}
}

// Subscribers returns the number of registered handlers.
func (c *LocalChannel) Subscribers() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.subs)
}
