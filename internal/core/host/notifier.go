package host

import (
	"encoding/json"
	"fmt"
	"io"
	"sync"
)

// Notifier is told about every selection change.
type Notifier interface {
	SelectionChanged(id string) error
}

// Exporter receives serialized export messages.
type Exporter interface {
	Export(payload []byte) error
}

// Nop stands in when no host is attached.
type Nop struct{}

func (Nop) SelectionChanged(string) error { return nil }
func (Nop) Export([]byte) error           { return nil }

// Stream writes messages to w as JSON lines. Export payloads are written
// verbatim on their own line.
type Stream struct {
	mu sync.Mutex
	w  io.Writer
}

func NewStream(w io.Writer) *Stream {
	return &Stream{w: w}
}

func (s *Stream) SelectionChanged(id string) error {
	data, err := json.Marshal(Message{Task: TaskSelectionChanged, FactID: id})
	if err != nil {
		return err
	}
	return s.writeLine(data)
}

func (s *Stream) Export(payload []byte) error {
	return s.writeLine(payload)
}

func (s *Stream) writeLine(data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	line := make([]byte, 0, len(data)+1)
	line = append(line, data...)
	line = append(line, '\n')
	if _, err := s.w.Write(line); err != nil {
		return fmt.Errorf("write host message: %w", err)
	}
	return nil
}

// Buffer keeps export payloads in memory until they are drained. Selection
// notifications are dropped.
type Buffer struct {
	mu       sync.Mutex
	payloads [][]byte
}

func (b *Buffer) SelectionChanged(string) error { return nil }

func (b *Buffer) Export(payload []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.payloads = append(b.payloads, append([]byte(nil), payload...))
	return nil
}

// Drain returns and forgets every buffered payload.
func (b *Buffer) Drain() [][]byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := b.payloads
	b.payloads = nil
	return out
}
