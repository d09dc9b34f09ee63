// Package transport wraps datagram and stream sockets for the game.
//
// Ownership boundary:
// - socket lifecycle (open, reuse options, close)
// - per-call deadlines on every read and write
// - classification of read failures: ErrTimeout, ErrClosed, ErrShortRead
//
// It knows nothing about message layouts.
package transport
