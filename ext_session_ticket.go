// Copyright 2026 The gnutls-go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gnutls

import (
	"golang.org/x/crypto/cryptobyte"
)

// session_ticket (RFC 5077). The private data is the ticket as a []byte:
// on a client the ticket to offer (possibly empty, requesting a fresh
// one), on a server the ticket the client presented. Tickets wrap key
// material, so the deinit handler zeroizes them.

var extModSessionTicket = &Descriptor{
	Name:      "session_ticket",
	WireID:    wireSessionTicket,
	ParseType: ParseGeneric,
	Validity:  MsgClientHello | MsgTLS12ServerHello,
	Handlers: Handlers{
		Recv:   recvSessionTicket,
		Send:   sendSessionTicket,
		Deinit: deinitSessionTicket,
		Pack:   packSessionTicket,
		Unpack: unpackSessionTicket,
	},
	id: extensionSessionTicket,
}

func recvSessionTicket(s *Session, data []byte) error {
	if s.role == RoleClient {
		// The server acknowledges with an empty extension; the ticket
		// itself arrives in a NewSessionTicket message.
		if len(data) != 0 {
			return ErrMalformed
		}
		return nil
	}

	ticket := make([]byte, len(data))
	copy(ticket, data)
	s.setSessionData(extensionSessionTicket, ticket)
	return nil
}

func sendSessionTicket(s *Session, b *cryptobyte.Builder) (SendStatus, error) {
	if s.role == RoleServer {
		// Acknowledge that a ticket will be issued.
		return SendPresent, nil
	}

	priv, ok := s.sessionData(extensionSessionTicket)
	if !ok {
		return SendOmit, nil
	}
	ticket, ok := priv.([]byte)
	if !ok {
		return SendOmit, nil
	}
	if len(ticket) == 0 {
		return SendPresent, nil
	}
	b.AddBytes(ticket)
	return SendWrote, nil
}

func deinitSessionTicket(priv interface{}) {
	if ticket, ok := priv.([]byte); ok {
		for i := range ticket {
			ticket[i] = 0
		}
	}
}

func packSessionTicket(priv interface{}, b *cryptobyte.Builder) error {
	ticket, ok := priv.([]byte)
	if !ok {
		return ErrParsing
	}
	b.AddUint24LengthPrefixed(func(b *cryptobyte.Builder) {
		b.AddBytes(ticket)
	})
	return nil
}

func unpackSessionTicket(data *cryptobyte.String) (interface{}, error) {
	var ticket cryptobyte.String
	if !data.ReadUint24LengthPrefixed(&ticket) {
		return nil, ErrParsing
	}
	out := make([]byte, len(ticket))
	copy(out, ticket)
	return out, nil
}
