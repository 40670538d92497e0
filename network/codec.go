package network

import (
	"github.com/pkg/errors"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/lixenwraith/broadside/engine"
)

// Encode serializes a snapshot for the wire
func Encode(snap *engine.Snapshot) ([]byte, error) {
	data, err := msgpack.Marshal(snap)
	if err != nil {
		return nil, errors.Wrap(err, "encode snapshot")
	}
	return data, nil
}

// Decode parses a snapshot received from the feed
func Decode(data []byte) (*engine.Snapshot, error) {
	var snap engine.Snapshot
	if err := msgpack.Unmarshal(data, &snap); err != nil {
		return nil, errors.Wrap(err, "decode snapshot")
	}
	return &snap, nil
}
