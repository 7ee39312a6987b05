// Package morality implements the alignment and karma rules.
//
// The package is a pure state-transition model keyed by nothing but the
// PlayerMorality value it is handed: Engine.Record appends one KarmaEvent and
// recomputes every derived field (axes, corruption, alignment with
// hysteresis, reputation, counters). Every other exported function is a read
// over the resulting state: quest gates, dialogue choice filtering, NPC
// reaction scoring, titles and summaries.
//
// Nothing here performs I/O or reads the clock. Callers own persistence and
// must serialize Record calls for the same player.
package morality
