// Package protocol owns the wire contract with the ownCloud desktop client.
//
// Ownership boundary:
// - command names and line field layout
// - line parse/encode primitives
// - sentinel errors for transport and malformed input
package protocol
