// Package errors provides structured, coded error handling.
package errors

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Player errors
	CodePlayerIDRequired Code = "PLAYER_ID_REQUIRED"

	// Action errors
	CodeUnknownAction Code = "UNKNOWN_ACTION"

	// Registry errors
	CodeRegistryInvalid Code = "REGISTRY_INVALID"

	// Storage errors
	CodeNotFound                Code = "NOT_FOUND"
	CodeSnapshotCorrupt         Code = "SNAPSHOT_CORRUPT"
	CodeJournalConflict         Code = "JOURNAL_CONFLICT"
	CodeStoreBackendUnsupported Code = "STORE_BACKEND_UNSUPPORTED"
)

// Kind groups codes by how callers should react to them.
type Kind string

const (
	// KindInvalidArgument marks caller input that can never succeed as sent.
	KindInvalidArgument Kind = "invalid_argument"
	// KindNotFound marks a missing record.
	KindNotFound Kind = "not_found"
	// KindInternal marks storage or data failures.
	KindInternal Kind = "internal"
)

// Kind maps a code to its kind.
func (c Code) Kind() Kind {
	switch c {
	case CodePlayerIDRequired,
		CodeUnknownAction,
		CodeRegistryInvalid,
		CodeStoreBackendUnsupported:
		return KindInvalidArgument
	case CodeNotFound:
		return KindNotFound
	default:
		return KindInternal
	}
}
