// Package protocol owns the blackjack wire contract and parsing primitives.
//
// Ownership boundary:
// - fixed 5-byte header (magic cookie + message type)
// - fixed-layout encode/decode per message kind
// - fixed-width text fields
// - semantic validation of decoded values (rounds, card ranges)
//
// Every multi-byte integer is big-endian. No message carries a length prefix;
// each kind has a statically known size once its header is read.
package protocol
