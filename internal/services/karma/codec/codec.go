// Package codec converts player morality snapshots to and from bytes.
//
// Snapshots use deterministic CBOR: equal states always produce equal
// bytes, which is what journal verification compares.
package codec

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"

	apperrors "github.com/louisbranch/karma.space/internal/platform/errors"
	"github.com/louisbranch/karma.space/internal/services/karma/domain/morality"
)

// SnapshotVersion is written into every snapshot envelope.
const SnapshotVersion = 1

type envelope struct {
	Version  int                     `cbor:"v"`
	Morality morality.PlayerMorality `cbor:"m"`
}

var (
	encMode = mustEncMode()
	decMode = mustDecMode()
)

func mustEncMode() cbor.EncMode {
	opts := cbor.CoreDetEncOptions()
	opts.Time = cbor.TimeRFC3339Nano
	mode, err := opts.EncMode()
	if err != nil {
		panic(fmt.Sprintf("codec: build encoder: %v", err))
	}
	return mode
}

func mustDecMode() cbor.DecMode {
	mode, err := cbor.DecOptions{
		DupMapKey:         cbor.DupMapKeyEnforcedAPF,
		ExtraReturnErrors: cbor.ExtraDecErrorUnknownField,
	}.DecMode()
	if err != nil {
		panic(fmt.Sprintf("codec: build decoder: %v", err))
	}
	return mode
}

// Serialize encodes m as a versioned snapshot.
func Serialize(m morality.PlayerMorality) ([]byte, error) {
	data, err := encMode.Marshal(envelope{Version: SnapshotVersion, Morality: m})
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return data, nil
}

// Deserialize decodes a snapshot written by Serialize. Malformed bytes and
// unknown versions fail with CodeSnapshotCorrupt.
func Deserialize(data []byte) (morality.PlayerMorality, error) {
	if len(data) == 0 {
		return morality.PlayerMorality{}, apperrors.New(apperrors.CodeSnapshotCorrupt, "snapshot is empty")
	}
	var env envelope
	if err := decMode.Unmarshal(data, &env); err != nil {
		return morality.PlayerMorality{}, apperrors.Wrap(apperrors.CodeSnapshotCorrupt, "decode snapshot", err)
	}
	if env.Version != SnapshotVersion {
		return morality.PlayerMorality{}, apperrors.WithMetadata(
			apperrors.CodeSnapshotCorrupt,
			fmt.Sprintf("unsupported snapshot version %d", env.Version),
			map[string]string{"player_id": env.Morality.PlayerID},
		)
	}
	return env.Morality, nil
}
