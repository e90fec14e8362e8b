package protocol

import (
	"fmt"
	"strings"
)

// ParseLine decodes one delimiter-stripped wire line into a Message.
func ParseLine(line []byte) (Message, error) {
	fields := strings.Split(string(line), ":")
	if fields[0] == "" {
		return Message{}, fmt.Errorf("%w: %q", ErrMalformedLine, string(line))
	}
	return Message{Command: Command(fields[0]), Args: fields[1:]}, nil
}
