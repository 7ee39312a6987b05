// Package app is the public surface of the karma engine.
//
// Service keys every call by player id. Writes for one player are serialized
// so each RecordAction sees the state the previous one committed; calls for
// different players never wait on each other. Reads of a player with no
// snapshot answer from the default state and persist nothing.
package app
