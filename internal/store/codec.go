// Package store provides SnapshotStore backends. All backends persist the
// snapshot as a single serialized document, passed through the configured
// encryptor on its way to and from durable storage.
package store

import (
	"bytes"
	"encoding/json"
	"fmt"

	"vibestream/internal/model"
	"vibestream/internal/vibe"
)

// encodeSnapshot serializes a snapshot and encrypts the result.
func encodeSnapshot(snap *model.Snapshot, enc vibe.Encryptor) ([]byte, error) {
	plain, err := json.Marshal(snap)
	if err != nil {
		return nil, fmt.Errorf("marshaling snapshot: %w", err)
	}

	var out bytes.Buffer
	if err := enc.Encrypt(bytes.NewReader(plain), &out); err != nil {
		return nil, fmt.Errorf("encrypting snapshot: %w", err)
	}
	return out.Bytes(), nil
}

// decodeSnapshot decrypts and deserializes a stored snapshot document.
func decodeSnapshot(data []byte, enc vibe.Encryptor) (*model.Snapshot, error) {
	var plain bytes.Buffer
	if err := enc.Decrypt(bytes.NewReader(data), &plain); err != nil {
		return nil, fmt.Errorf("decrypting snapshot: %w", err)
	}

	var snap model.Snapshot
	if err := json.Unmarshal(plain.Bytes(), &snap); err != nil {
		return nil, fmt.Errorf("unmarshaling snapshot: %w", err)
	}
	return &snap, nil
}
