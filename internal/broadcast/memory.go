package broadcast

import (
	"context"
	"errors"
	"strings"
	"sync"
)

const (
	DefaultBufferSize       = 50
	DefaultSubscriberBuffer = 16
)

// Hub is the in-process transport: per-channel subscriber fan-out with a
// bounded replay buffer for late subscribers. It is the default transport
// and the one tests run against.
type Hub struct {
	mu               sync.RWMutex
	streams          map[string]*stream
	bufferSize       int
	subscriberBuffer int
}

type stream struct {
	mu     sync.Mutex
	buffer []Message
	subs   map[uint64]chan Message
	nextID uint64
}

type Subscription struct {
	hub     *Hub
	channel string
	id      uint64
	ch      chan Message
	once    sync.Once
}

func NewHub() *Hub {
	return &Hub{
		streams:          make(map[string]*stream),
		bufferSize:       DefaultBufferSize,
		subscriberBuffer: DefaultSubscriberBuffer,
	}
}

// Publish delivers msg to every subscriber of the channel. Slow
// subscribers are skipped rather than blocking the publisher.
func (h *Hub) Publish(_ context.Context, channel string, msg Message) error {
	if h == nil {
		return errors.New("hub_unavailable")
	}
	name := strings.TrimSpace(channel)
	if name == "" {
		return errors.New("invalid_channel")
	}

	stream := h.ensureStream(name)
	stream.mu.Lock()
	stream.buffer = append(stream.buffer, msg)
	if len(stream.buffer) > h.bufferSize {
		stream.buffer = stream.buffer[len(stream.buffer)-h.bufferSize:]
	}
	subs := make([]chan Message, 0, len(stream.subs))
	for _, ch := range stream.subs {
		subs = append(subs, ch)
	}
	stream.mu.Unlock()

	for _, ch := range subs {
		select {
		case ch <- msg:
		default:
		}
	}
	return nil
}

// Subscribe attaches to a channel and returns the replay buffer of recent
// messages alongside the live subscription.
func (h *Hub) Subscribe(channel string) (*Subscription, []Message, error) {
	if h == nil {
		return nil, nil, errors.New("hub_unavailable")
	}
	name := strings.TrimSpace(channel)
	if name == "" {
		return nil, nil, errors.New("invalid_channel")
	}

	stream := h.ensureStream(name)
	stream.mu.Lock()
	if stream.subs == nil {
		stream.subs = make(map[uint64]chan Message)
	}
	id := stream.nextID
	stream.nextID++
	ch := make(chan Message, h.subscriberBuffer)
	stream.subs[id] = ch
	buffer := append([]Message(nil), stream.buffer...)
	stream.mu.Unlock()

	return &Subscription{
		hub:     h,
		channel: name,
		id:      id,
		ch:      ch,
	}, buffer, nil
}

func (h *Hub) ensureStream(channel string) *stream {
	h.mu.RLock()
	current := h.streams[channel]
	h.mu.RUnlock()
	if current != nil {
		return current
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	current = h.streams[channel]
	if current == nil {
		current = &stream{subs: make(map[uint64]chan Message)}
		h.streams[channel] = current
	}
	return current
}

func (h *Hub) unsubscribe(channel string, id uint64) {
	h.mu.RLock()
	stream := h.streams[channel]
	h.mu.RUnlock()
	if stream == nil {
		return
	}

	stream.mu.Lock()
	delete(stream.subs, id)
	remaining := len(stream.subs)
	stream.mu.Unlock()
	if remaining != 0 {
		return
	}

	h.mu.Lock()
	current := h.streams[channel]
	if current == stream {
		stream.mu.Lock()
		if len(stream.subs) == 0 {
			delete(h.streams, channel)
		}
		stream.mu.Unlock()
	}
	h.mu.Unlock()
}

func (s *Subscription) Events() <-chan Message {
	if s == nil {
		return nil
	}
	return s.ch
}

func (s *Subscription) Close() {
	if s == nil || s.hub == nil {
		return
	}
	s.once.Do(func() {
		s.hub.unsubscribe(s.channel, s.id)
	})
}
