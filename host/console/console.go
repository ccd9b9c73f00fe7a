// Package console reads the log the firmware prints on its mini UART.
package console

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"blinky/host/serial"

	"github.com/sirupsen/logrus"
)

// Line is one line of firmware output, split into its "[TAG]" prefix and text
type Line struct {
	Tag  string
	Text string
}

// ParseLine splits a line such as "[BLINK] cycle 3" into tag and text.
// Lines without a bracketed prefix have an empty tag.
func ParseLine(s string) Line {
	if strings.HasPrefix(s, "[") {
		if end := strings.IndexByte(s, ']'); end > 0 {
			return Line{Tag: s[1:end], Text: strings.TrimSpace(s[end+1:])}
		}
	}
	return Line{Text: s}
}

// Console is a connection to the firmware's serial console
type Console struct {
	port serial.Port
	log  *logrus.Entry

	closeOnce sync.Once
}

// New wraps an open port
func New(port serial.Port, log *logrus.Entry) *Console {
	return &Console{port: port, log: log}
}

// Connect opens the serial device and returns a console on it
func Connect(cfg *serial.Config, log *logrus.Entry) (*Console, error) {
	port, err := serial.Open(cfg)
	if err != nil {
		return nil, err
	}
	if err := port.Flush(); err != nil {
		port.Close()
		return nil, fmt.Errorf("failed to flush %s: %w", cfg.Device, err)
	}
	return New(port, log), nil
}

// Close closes the underlying port
func (c *Console) Close() error {
	var err error
	c.closeOnce.Do(func() {
		err = c.port.Close()
	})
	return err
}

// Tail calls fn for every line received until ctx is done or the port fails.
// Returns nil when ctx ends the tail.
func (c *Console) Tail(ctx context.Context, fn func(Line)) error {
	stop := context.AfterFunc(ctx, func() {
		c.Close()
	})
	defer stop()

	err := ReadLines(ctx, c.port, func(s string) {
		fn(ParseLine(s))
	})
	if ctx.Err() != nil {
		return nil
	}
	return err
}

// Log tails the console and writes each line through the logger
func (c *Console) Log(ctx context.Context) error {
	return c.Tail(ctx, func(l Line) {
		entry := c.log
		if l.Tag != "" {
			entry = entry.WithField("tag", l.Tag)
		}
		entry.Info(l.Text)
	})
}

// ReadLines splits r into lines, dropping the "\r" the firmware sends before
// each "\n". io.EOF is treated as an idle line (read timeout) until ctx is done.
func ReadLines(ctx context.Context, r io.Reader, fn func(string)) error {
	var pending []byte
	buf := make([]byte, 256)

	for ctx.Err() == nil {
		n, err := r.Read(buf)
		for _, b := range buf[:n] {
			switch b {
			case '\r':
			case '\n':
				fn(string(pending))
				pending = pending[:0]
			default:
				pending = append(pending, b)
			}
		}

		if errors.Is(err, io.EOF) {
			continue
		}
		if err != nil {
			return err
		}
	}
	return ctx.Err()
}
