// Package session owns dealer<->player session policy shared by both sides.
//
// Ownership boundary:
// - per-call transport timeouts
// - discovery interval and offer wait
// - retry backoff for the seeking side
package session
