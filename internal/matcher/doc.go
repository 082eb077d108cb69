// Package matcher implements the weighted fuzzy scoring used to match an
// incoming notification title against a library catalog's shows and
// episodes. Both entry points are pure functions of their inputs: no
// network calls, no mutable package state.
package matcher
