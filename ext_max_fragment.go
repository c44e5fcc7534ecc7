// Copyright 2026 The gnutls-go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gnutls

import (
	"golang.org/x/crypto/cryptobyte"
)

// max_fragment_length (RFC 6066, Section 4). The private data is the
// negotiated length code, a uint8 in 1..4.

var extModMaxFragmentLength = &Descriptor{
	Name:      "max_fragment_length",
	WireID:    wireMaxFragmentLength,
	ParseType: ParseGeneric,
	Validity:  MsgClientHello | MsgTLS12ServerHello | MsgEncryptedExtensions,
	Handlers: Handlers{
		Recv:   recvMaxFragmentLength,
		Send:   sendMaxFragmentLength,
		Pack:   packMaxFragmentLength,
		Unpack: unpackMaxFragmentLength,
	},
	id: extensionMaxFragmentLength,
}

func recvMaxFragmentLength(s *Session, data []byte) error {
	if len(data) != 1 {
		return ErrMalformed
	}
	code := data[0]
	if code < 1 || code > 4 {
		return ErrIllegalParameter
	}
	s.setSessionData(extensionMaxFragmentLength, code)
	return nil
}

func sendMaxFragmentLength(s *Session, b *cryptobyte.Builder) (SendStatus, error) {
	priv, ok := s.sessionData(extensionMaxFragmentLength)
	if !ok {
		return SendOmit, nil
	}
	code, ok := priv.(uint8)
	if !ok {
		return SendOmit, nil
	}
	b.AddUint8(code)
	return SendWrote, nil
}

func packMaxFragmentLength(priv interface{}, b *cryptobyte.Builder) error {
	code, ok := priv.(uint8)
	if !ok {
		return ErrParsing
	}
	b.AddUint8(code)
	return nil
}

func unpackMaxFragmentLength(data *cryptobyte.String) (interface{}, error) {
	var code uint8
	if !data.ReadUint8(&code) {
		return nil, ErrParsing
	}
	if code < 1 || code > 4 {
		return nil, ErrParsing
	}
	return code, nil
}
