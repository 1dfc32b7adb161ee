// Package host implements the messages exchanged with the process embedding
// the inspector and the transports that carry them.
package host

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/colonyops/ixv/internal/core/report"
)

var (
	// ErrMalformed is returned for payloads that are not a JSON object with
	// a task.
	ErrMalformed = errors.New("malformed host message")
	// ErrUnknownTask is returned for well-formed messages naming a task the
	// inspector does not handle.
	ErrUnknownTask = errors.New("unknown host task")
)

// Task names.
const (
	// TaskShowFact asks the inspector to select and reveal a fact.
	TaskShowFact = "SHOW_FACT"
	// TaskSelectionChanged is sent to the host after every selection.
	TaskSelectionChanged = "SELECTION_CHANGED"
)

// Message is an inbound or outbound task message.
type Message struct {
	Task   string `json:"task"`
	FactID string `json:"factId,omitempty"`
}

// ParseMessage decodes an inbound message. Only TaskShowFact is accepted.
func ParseMessage(raw []byte) (Message, error) {
	var msg Message
	if err := json.Unmarshal(raw, &msg); err != nil {
		return Message{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	switch msg.Task {
	case "":
		return Message{}, fmt.Errorf("%w: missing task", ErrMalformed)
	case TaskShowFact:
		if msg.FactID == "" {
			return Message{}, fmt.Errorf("%w: %s without factId", ErrMalformed, TaskShowFact)
		}
		return msg, nil
	default:
		return msg, fmt.Errorf("%w: %q", ErrUnknownTask, msg.Task)
	}
}

// ExportRecord is a single fact of an export message.
type ExportRecord struct {
	ID        string `json:"i"`
	Desc      string `json:"d"`
	Value     string `json:"v"`
	ContextID string `json:"c"`
	EntityID  string `json:"e"`
	PeriodID  string `json:"p"`
}

// RecordFor maps a fact to its export record. The value is the raw stored
// value and the description is always empty.
func RecordFor(f *report.Fact) ExportRecord {
	return ExportRecord{
		ID:        f.ID,
		Value:     f.Value,
		ContextID: f.Context.ContextID,
		EntityID:  f.Context.EntityID,
		PeriodID:  f.Context.PeriodID,
	}
}

// EncodeExport serializes facts, in order, as an export message.
func EncodeExport(facts []*report.Fact) ([]byte, error) {
	records := make([]ExportRecord, 0, len(facts))
	for _, f := range facts {
		records = append(records, RecordFor(f))
	}
	return json.Marshal(records)
}
