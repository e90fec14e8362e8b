package protocol

import "errors"

var (
	ErrConnection    = errors.New("protocol: connection failed")
	ErrMalformedLine = errors.New("protocol: malformed line")
	ErrMissingFields = errors.New("protocol: missing fields")
	ErrBadVersion    = errors.New("protocol: unparsable version")
)
