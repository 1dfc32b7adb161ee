package host

import "bytes"

// splitMessages cuts buf into trimmed, non-empty lines. The bytes after the
// last newline are an incomplete message and are returned as rest.
func splitMessages(buf []byte) (msgs [][]byte, rest []byte) {
	for {
		i := bytes.IndexByte(buf, '\n')
		if i < 0 {
			return msgs, buf
		}
		if line := bytes.TrimSpace(buf[:i]); len(line) > 0 {
			msgs = append(msgs, append([]byte(nil), line...))
		}
		buf = buf[i+1:]
	}
}
