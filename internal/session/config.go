package session

import "time"

// DefaultSocketTemplate is the convention-based endpoint location; the
// single %s slot takes the username.
const DefaultSocketTemplate = "/tmp/runtime-%s/ownCloud/socket"

const defaultTimeout = 10 * time.Second

// Config bounds the transport operations of one probe session. The
// timeout applies per operation (connect, each read, each write), not
// as a total session deadline.
type Config struct {
	SocketTemplate string
	Timeout        time.Duration
}

func (c Config) WithDefaults() Config {
	if c.SocketTemplate == "" {
		c.SocketTemplate = DefaultSocketTemplate
	}
	if c.Timeout <= 0 {
		c.Timeout = defaultTimeout
	}
	return c
}
