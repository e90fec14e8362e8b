package protocol

import "strings"

// Command is the first colon-separated field of a wire line.
type Command string

const (
	CmdVersion              Command = "VERSION"
	CmdRegisterPath         Command = "REGISTER_PATH"
	CmdRetrieveFolderStatus Command = "RETRIEVE_FOLDER_STATUS"
	CmdStatus               Command = "STATUS"
)

// Message is one decoded wire line: a command and its raw argument fields.
type Message struct {
	Command Command
	Args    []string
}

// VersionInfo extracts the client version and protocol version fields
// from a VERSION reply.
func (m Message) VersionInfo() (client, proto string, err error) {
	if len(m.Args) < 2 {
		return "", "", ErrMissingFields
	}
	return m.Args[0], m.Args[1], nil
}

// RegisteredPath extracts the folder path from a REGISTER_PATH
// notification. Colons inside the path are preserved.
func (m Message) RegisteredPath() (string, error) {
	if len(m.Args) < 1 {
		return "", ErrMissingFields
	}
	return strings.Join(m.Args, ":"), nil
}

// FolderStatus extracts the status name and folder path from a STATUS
// line. The path is everything after the status name, rejoined so that
// drive-letter paths survive the colon split.
func (m Message) FolderStatus() (status, folder string, err error) {
	if len(m.Args) < 2 {
		return "", "", ErrMissingFields
	}
	return m.Args[0], strings.Join(m.Args[1:], ":"), nil
}
