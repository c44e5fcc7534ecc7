// Copyright 2026 The gnutls-go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gnutls

import (
	"golang.org/x/crypto/cryptobyte"
)

// early_data (RFC 8446, Section 4.2.10). Empty in the ClientHello and
// EncryptedExtensions, where presence alone signals 0-RTT; in a
// NewSessionTicket it carries the uint32 max_early_data_size. The
// private data is true for bare presence or the uint32 limit. A client
// opts in by storing any value with SetData before generating.

var extModEarlyData = &Descriptor{
	Name:      "early_data",
	WireID:    wireEarlyData,
	ParseType: ParseTLS13,
	Validity:  MsgClientHello | MsgEncryptedExtensions | MsgNewSessionTicket,
	Handlers: Handlers{
		Recv: recvEarlyData,
		Send: sendEarlyData,
	},
	id: extensionEarlyData,
}

func recvEarlyData(s *Session, data []byte) error {
	if len(data) == 0 {
		s.setSessionData(extensionEarlyData, true)
		return nil
	}

	// Only the NewSessionTicket form carries data.
	if s.role != RoleClient {
		return ErrMalformed
	}
	str := cryptobyte.String(data)
	var maxEarlyData uint32
	if !str.ReadUint32(&maxEarlyData) || !str.Empty() {
		return ErrMalformed
	}
	s.setSessionData(extensionEarlyData, maxEarlyData)
	return nil
}

func sendEarlyData(s *Session, b *cryptobyte.Builder) (SendStatus, error) {
	priv, ok := s.sessionData(extensionEarlyData)
	if !ok {
		return SendOmit, nil
	}
	if maxEarlyData, ok := priv.(uint32); ok && s.role == RoleServer {
		b.AddUint32(maxEarlyData)
		return SendWrote, nil
	}
	return SendPresent, nil
}
