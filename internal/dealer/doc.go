// Package dealer owns the offering side: one Session state machine per
// accepted connection and the Server that accepts them and advertises
// itself over discovery.
//
// Session lifecycle:
//
//	AwaitRequest -> Negotiating -> Dealing -> AwaitDecision -> Resolving -> (Dealing | Finished)
//
// Any malformed message, timeout or close moves the session to Aborted.
// Sessions share no state; one aborting never touches another.
package dealer
