// Package display shows the dimmer state on a 16x2 HD44780 LCD behind an
// I2C backpack.
//
// Writers never touch the LCD directly. They queue messages on a channel
// that a single Handler drains:
//
//	msgs := make(chan display.Message, 4)
//	go display.NewHandler(dev, msgs, logger).Run()
//	display.Send(msgs, "MQTT Connect", "Authenticating")
//
// Send drops the message when the queue is full.
package display

import (
	"log/slog"
)

const (
	Columns = 16
	Rows    = 2
)

// Message is one full screen.
type Message struct {
	Line1 []byte
	Line2 []byte
}

// Screen is the subset of the hd44780i2c device the handler drives.
type Screen interface {
	ClearDisplay()
	SetCursor(x, y uint8)
	Print(data []byte)
}

// Handler owns the screen and renders queued messages in order.
type Handler struct {
	screen   Screen
	messages <-chan Message
	logger   *slog.Logger
	shown    uint32
}

func NewHandler(screen Screen, messages <-chan Message, logger *slog.Logger) *Handler {
	return &Handler{
		screen:   screen,
		messages: messages,
		logger:   logger,
	}
}

// Run displays messages until the channel is closed. Call it from its own
// goroutine.
func (h *Handler) Run() {
	for msg := range h.messages {
		h.Display(msg)
	}
	if h.logger != nil {
		h.logger.Debug("display:closed", slog.Uint64("shown", uint64(h.shown)))
	}
}

// Display clears the screen and prints both lines, truncated to Columns.
func (h *Handler) Display(msg Message) {
	h.screen.ClearDisplay()
	h.screen.SetCursor(0, 0)
	h.screen.Print(clip(msg.Line1))
	h.screen.SetCursor(0, 1)
	h.screen.Print(clip(msg.Line2))
	h.shown++
}

// Shown is the number of messages displayed.
func (h *Handler) Shown() uint32 { return h.shown }

// Send queues a two-line message without blocking. It reports whether the
// message was queued.
func Send(ch chan<- Message, line1, line2 string) bool {
	return Offer(ch, Message{Line1: []byte(line1), Line2: []byte(line2)})
}

// Offer queues msg without blocking.
func Offer(ch chan<- Message, msg Message) bool {
	if ch == nil {
		return false
	}
	select {
	case ch <- msg:
		return true
	default:
		return false
	}
}

func clip(b []byte) []byte {
	if len(b) > Columns {
		return b[:Columns]
	}
	return b
}
