// Package player drives the seeking side of a session: it sends the
// request, reads each deal, asks a Strategy for hit or stand and reads the
// dealer's resolution.
package player
