// Package domain implements the rules of the Kingdoms of Fate session engine.
//
// Every operation is a pure transition function: it computes a fully-formed
// new state from the current state and explicit inputs (action, dice roll,
// target index) and never mutates its arguments. Randomness is supplied by
// the caller through a Rand source so combat rounds and dice checks are
// deterministic under test and independent across sessions in production.
package domain
