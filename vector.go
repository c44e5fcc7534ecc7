// Copyright 2026 The gnutls-go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gnutls

import (
	"golang.org/x/crypto/cryptobyte"
)

// Wire format of a hello extension vector: a 2-byte big-endian total
// length (present only when the vector is non-empty), then zero or more
// records of 2-byte wire identifier, 2-byte payload length, payload.

// parseExtensionVector walks the records of an extension vector in wire
// order, invoking fn for each. The payload slice passed to fn aliases
// data and must not be retained. A zero-length input parses to success
// with no callbacks.
func parseExtensionVector(data []byte, fn func(wireID uint16, body []byte) error) error {
	if len(data) == 0 {
		return nil
	}

	str := cryptobyte.String(data)
	var exts cryptobyte.String
	if !str.ReadUint16LengthPrefixed(&exts) || !str.Empty() {
		return ErrMalformed
	}

	for !exts.Empty() {
		var wireID uint16
		var body cryptobyte.String
		if !exts.ReadUint16(&wireID) || !exts.ReadUint16LengthPrefixed(&body) {
			return ErrMalformed
		}
		if err := fn(wireID, body); err != nil {
			return err
		}
	}
	return nil
}

// appendExtensionRecord appends one (id, length, payload) record to a
// builder of vector records.
func appendExtensionRecord(b *cryptobyte.Builder, wireID uint16, body []byte) {
	b.AddUint16(wireID)
	b.AddUint16LengthPrefixed(func(b *cryptobyte.Builder) {
		b.AddBytes(body)
	})
}

// sealExtensionVector prefixes assembled records with the 2-byte total
// length. An empty record set yields nil: the enclosing message omits
// the extensions length field entirely when nothing was written.
func sealExtensionVector(records []byte) ([]byte, error) {
	if len(records) == 0 {
		return nil, nil
	}
	var b cryptobyte.Builder
	b.AddUint16LengthPrefixed(func(b *cryptobyte.Builder) {
		b.AddBytes(records)
	})
	out, err := b.Bytes()
	if err != nil {
		return nil, ErrMalformed
	}
	return out, nil
}
