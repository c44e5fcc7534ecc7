// Copyright 2026 The gnutls-go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gnutls

import (
	"golang.org/x/crypto/cryptobyte"

	gnutlserrors "github.com/pmgdeb/gnutls/errors"
)

// Packed session blob format: a 4-byte entry count, then per entry a
// 4-byte internal identifier, a 4-byte payload length, and the payload
// bytes the extension's pack handler wrote, in ascending internal
// identifier order.

// Pack serializes the active private data of every negotiated,
// pack-capable extension into a flat blob for session persistence.
// Extensions without active data or without a pack handler are skipped;
// the leading count reflects only the entries actually packed.
func (s *Session) Pack() ([]byte, error) {
	var entries cryptobyte.Builder
	packed := 0

	for id := ExtensionID(1); id <= maxExtensionID; id++ {
		if !s.negotiated(id) {
			continue
		}
		ext := s.extPtr(id, ParseAny)
		if ext == nil || ext.Handlers.Pack == nil {
			continue
		}
		priv, ok := s.sessionData(id)
		if !ok {
			continue
		}

		var body cryptobyte.Builder
		if err := ext.Handlers.Pack(priv, &body); err != nil {
			return nil, err
		}
		bodyBytes, err := body.Bytes()
		if err != nil {
			return nil, ErrParsing
		}

		entries.AddUint32(uint32(id))
		entries.AddUint32(uint32(len(bodyBytes)))
		entries.AddBytes(bodyBytes)
		packed++
	}

	entryBytes, err := entries.Bytes()
	if err != nil {
		return nil, ErrParsing
	}

	var b cryptobyte.Builder
	b.AddUint32(uint32(packed))
	b.AddBytes(entryBytes)
	return b.Bytes()
}

// Unpack restores a blob produced by Pack into the resumed half of this
// session's private-data slots, deinitializing any resumed value an
// identifier already holds. Each entry's unpack handler must consume
// exactly the byte count the entry declares; any mismatch, an unknown
// identifier, or a missing unpack handler fails with ErrParsing, after
// which resumption must be abandoned and a full handshake forced.
func (s *Session) Unpack(blob []byte) error {
	str := cryptobyte.String(blob)

	var count uint32
	if !str.ReadUint32(&count) {
		return ErrParsing
	}

	for i := uint32(0); i < count; i++ {
		var rawID, size uint32
		if !str.ReadUint32(&rawID) || !str.ReadUint32(&size) {
			return ErrParsing
		}

		id := ExtensionID(rawID)
		ext := s.extPtr(id, ParseAny)
		if ext == nil || ext.Handlers.Unpack == nil {
			gnutlserrors.LogWarning("cannot unpack data for extension id ", rawID)
			return ErrParsing
		}

		before := len(str)
		priv, err := ext.Handlers.Unpack(&str)
		if err != nil {
			return err
		}

		// Verify the handler consumed exactly the declared length, or
		// the stream is corrupt for every following entry.
		if uint32(before-len(str)) != size {
			gnutlserrors.LogWarning("extension ", ext.Name, " unpacked a different length than it declared")
			return ErrParsing
		}

		s.setResumedData(id, priv)
	}

	return nil
}
