package protocol

import "strings"

// Encode renders m as one newline-terminated wire line.
func (m Message) Encode() []byte {
	parts := make([]string, 0, len(m.Args)+1)
	parts = append(parts, string(m.Command))
	parts = append(parts, m.Args...)
	return []byte(strings.Join(parts, ":") + "\n")
}
