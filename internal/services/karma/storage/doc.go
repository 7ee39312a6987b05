// Package storage defines persistence contracts for player morality.
//
// Two records are kept per player:
//   - a snapshot of the current PlayerMorality, encoded by the codec package
//   - an append-only journal of the inputs that produced it, used to replay
//     and verify snapshots
//
// Backends live in the memory, sqlite and postgres subpackages. Common errors:
//   - ErrNotFound: no snapshot exists for the player
//   - ErrJournalConflict: an appended record does not extend the journal
package storage
