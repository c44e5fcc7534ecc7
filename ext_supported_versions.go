// Copyright 2026 The gnutls-go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gnutls

import (
	"golang.org/x/crypto/cryptobyte"
)

// supported_versions (RFC 8446, Section 4.2.1). On a server the private
// data is the []uint16 version list the client offered; on a client it
// is the uint16 the server selected. A client may store a []uint16 with
// SetData before generating to control the offer; the default offer is
// TLS 1.3 then TLS 1.2.
//
// Version negotiation shapes the rest of the handshake, so this
// extension is protected: session-scope registrations cannot override
// it.

var extModSupportedVersions = &Descriptor{
	Name:      "supported_versions",
	WireID:    wireSupportedVersions,
	ParseType: ParseTLS13,
	Validity:  MsgClientHello | MsgTLS13ServerHello | MsgHelloRetryRequest,
	Handlers: Handlers{
		Recv: recvSupportedVersions,
		Send: sendSupportedVersions,
	},
	id:        extensionSupportedVersions,
	protected: true,
}

func recvSupportedVersions(s *Session, data []byte) error {
	str := cryptobyte.String(data)

	if s.role == RoleServer {
		var list cryptobyte.String
		if !str.ReadUint8LengthPrefixed(&list) || !str.Empty() || list.Empty() {
			return ErrMalformed
		}
		var versions []uint16
		for !list.Empty() {
			var v uint16
			if !list.ReadUint16(&v) {
				return ErrMalformed
			}
			versions = append(versions, v)
		}
		s.setSessionData(extensionSupportedVersions, versions)
		return nil
	}

	// Server hello and hello retry request carry the single selected
	// version.
	var selected uint16
	if !str.ReadUint16(&selected) || !str.Empty() {
		return ErrMalformed
	}
	s.setSessionData(extensionSupportedVersions, selected)
	return nil
}

func sendSupportedVersions(s *Session, b *cryptobyte.Builder) (SendStatus, error) {
	priv, _ := s.sessionData(extensionSupportedVersions)

	if s.role == RoleClient {
		versions, ok := priv.([]uint16)
		if !ok || len(versions) == 0 {
			versions = []uint16{VersionTLS13, VersionTLS12}
		}
		b.AddUint8LengthPrefixed(func(b *cryptobyte.Builder) {
			for _, v := range versions {
				b.AddUint16(v)
			}
		})
		return SendWrote, nil
	}

	// The server echoes a single selected version: one picked by the
	// caller, or TLS 1.3 when the peer offered it.
	if selected, ok := priv.(uint16); ok {
		b.AddUint16(selected)
		return SendWrote, nil
	}
	if offered, ok := priv.([]uint16); ok {
		for _, v := range offered {
			if v == VersionTLS13 {
				b.AddUint16(v)
				return SendWrote, nil
			}
		}
	}
	return SendOmit, nil
}
