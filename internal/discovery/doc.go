// Package discovery finds dealers over UDP broadcast.
//
// Offering side: Idle -> Broadcasting, then one Offer per interval until the
// owner cancels the context. It never stops on its own.
//
// Seeking side: Idle -> Listening -> Connected. The first well-formed Offer
// wins; malformed datagrams are ignored and listening continues. With no
// offer before the timeout, Seek returns ErrNoOffer.
package discovery
