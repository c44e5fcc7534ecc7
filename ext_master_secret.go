// Copyright 2026 The gnutls-go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gnutls

import (
	"golang.org/x/crypto/cryptobyte"
)

// extended_master_secret (RFC 7627). The extension carries no data;
// presence is the whole signal, so the send handler is the canonical
// user of SendPresent. The private data is the bool true once the peer
// has sent (or acknowledged) the extension.

var extModExtendedMasterSecret = &Descriptor{
	Name:      "extended_master_secret",
	WireID:    wireExtendedMasterSecret,
	ParseType: ParseGeneric,
	Validity:  MsgClientHello | MsgTLS12ServerHello,
	Handlers: Handlers{
		Recv: recvExtendedMasterSecret,
		Send: sendExtendedMasterSecret,
	},
	id: extensionExtendedMasterSecret,
}

func recvExtendedMasterSecret(s *Session, data []byte) error {
	if len(data) != 0 {
		return ErrMalformed
	}
	s.setSessionData(extensionExtendedMasterSecret, true)
	return nil
}

func sendExtendedMasterSecret(s *Session, b *cryptobyte.Builder) (SendStatus, error) {
	return SendPresent, nil
}
