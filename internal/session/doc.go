// Package session drives one probe conversation with one user's
// ownCloud desktop client, from unix-socket dial to terminal outcome.
package session
