// Copyright 2026 The gnutls-go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gnutls

import (
	"golang.org/x/crypto/cryptobyte"
)

// application_layer_protocol_negotiation (RFC 7301). The private data is
// a []string protocol list while offering and a string once a protocol
// has been selected: a client stores its offer with SetData, the server
// stores the client's list on receive, and the server's response
// replaces the client's stored offer with the selected protocol.

var extModALPN = &Descriptor{
	Name:      "application_layer_protocol_negotiation",
	WireID:    wireALPN,
	ParseType: ParseGeneric,
	Validity:  MsgClientHello | MsgTLS12ServerHello | MsgEncryptedExtensions,
	Handlers: Handlers{
		Recv: recvALPN,
		Send: sendALPN,
	},
	id: extensionALPN,
}

func parseALPNList(data []byte) ([]string, error) {
	str := cryptobyte.String(data)
	var list cryptobyte.String
	if !str.ReadUint16LengthPrefixed(&list) || !str.Empty() || list.Empty() {
		return nil, ErrMalformed
	}
	var protocols []string
	for !list.Empty() {
		var proto cryptobyte.String
		if !list.ReadUint8LengthPrefixed(&proto) || proto.Empty() {
			return nil, ErrMalformed
		}
		protocols = append(protocols, string(proto))
	}
	return protocols, nil
}

func recvALPN(s *Session, data []byte) error {
	protocols, err := parseALPNList(data)
	if err != nil {
		return err
	}

	if s.role == RoleServer {
		s.setSessionData(extensionALPN, protocols)
		return nil
	}

	// The server must select exactly one of the offered protocols.
	if len(protocols) != 1 {
		return ErrIllegalParameter
	}
	selected := protocols[0]
	if offer, ok := s.sessionData(extensionALPN); ok {
		if offered, ok := offer.([]string); ok && !containsProtocol(offered, selected) {
			return ErrIllegalParameter
		}
	}
	s.setSessionData(extensionALPN, selected)
	return nil
}

func containsProtocol(protocols []string, p string) bool {
	for _, candidate := range protocols {
		if candidate == p {
			return true
		}
	}
	return false
}

func sendALPN(s *Session, b *cryptobyte.Builder) (SendStatus, error) {
	priv, ok := s.sessionData(extensionALPN)
	if !ok {
		return SendOmit, nil
	}

	var protocols []string
	switch v := priv.(type) {
	case []string:
		if s.role == RoleServer && len(v) > 0 {
			// No explicit selection was stored; answer with the
			// client's first preference.
			protocols = v[:1]
		} else {
			protocols = v
		}
	case string:
		protocols = []string{v}
	default:
		return SendOmit, nil
	}
	if len(protocols) == 0 {
		return SendOmit, nil
	}

	b.AddUint16LengthPrefixed(func(b *cryptobyte.Builder) {
		for _, proto := range protocols {
			b.AddUint8LengthPrefixed(func(b *cryptobyte.Builder) {
				b.AddBytes([]byte(proto))
			})
		}
	})
	return SendWrote, nil
}
