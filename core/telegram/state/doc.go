// Package state keeps per-user conversation sessions in memory.
//
// Each user owns a slot with its own mutex, so work on one user's session
// never waits on another's. The store lock only guards the slot map and is
// never held while a slot lock is being acquired.
package state
