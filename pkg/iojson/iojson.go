// iojson are utilities for reading and writing JSON IO from a
// command line interface perspective
package iojson

import (
	"encoding/json"
	"fmt"
	"io"
)

// Error is the standard error format type that is returned when errors
// happen.
type Error struct {
	Message string         `json:"message"`
	Data    map[string]any `json:"data,omitempty"`
}

// MarshalError renders msg and data as an indented Error document. If the
// data cannot be marshaled the marshal failure is reported in its place.
func MarshalError(msg string, data map[string]any) string {
	bits, err := json.MarshalIndent(Error{Message: msg, Data: data}, "", "  ")
	if err != nil {
		bits, _ = json.Marshal(Error{
			Message: msg,
			Data:    map[string]any{"json_error": err.Error()},
		})
	}
	return string(bits)
}

// WriteWith writes obj as indented JSON to w. Marshal failures are reported
// to ew as an Error document.
func WriteWith(w io.Writer, ew io.Writer, obj any) error {
	bits, err := json.MarshalIndent(obj, "", "  ")
	if err != nil {
		_, werr := fmt.Fprintln(ew, MarshalError("error marshaling in iojson.WriteWith", map[string]any{"json_error": err.Error()}))
		if werr != nil {
			return werr
		}
		return err
	}

	_, err = fmt.Fprintln(w, string(bits))
	return err
}

// WriteLines writes every element of items as one compact JSON line.
func WriteLines[T any](w io.Writer, items []T) error {
	enc := json.NewEncoder(w)
	for _, item := range items {
		if err := enc.Encode(item); err != nil {
			return err
		}
	}
	return nil
}
