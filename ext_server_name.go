// Copyright 2026 The gnutls-go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gnutls

import (
	"net"
	"strings"

	"golang.org/x/crypto/cryptobyte"
	"golang.org/x/net/idna"
)

// server_name (RFC 6066, Section 3). The private data is the host name
// as a string: on a client the name to offer (set with SetData), on a
// server the name the client requested. The name survives resumption
// through pack/unpack.

var extModServerName = &Descriptor{
	Name:      "server_name",
	WireID:    wireServerName,
	ParseType: ParseGeneric,
	Validity:  MsgClientHello | MsgTLS12ServerHello | MsgEncryptedExtensions,
	Handlers: Handlers{
		Recv:   recvServerName,
		Send:   sendServerName,
		Pack:   packServerName,
		Unpack: unpackServerName,
	},
	id: extensionServerName,
}

// validateSNIHostname rejects names with characters RFC 6066 does not
// permit: the encoding must be ASCII, without control characters.
func validateSNIHostname(hostname string) error {
	if len(hostname) == 0 {
		return ErrIllegalParameter
	}
	for i := 0; i < len(hostname); i++ {
		if c := hostname[i]; c < 0x20 || c >= 0x7F {
			return ErrIllegalParameter
		}
	}
	return nil
}

// hostnameForSNI prepares a name for the wire. Literal IP addresses,
// absolute FQDNs, and empty strings are not permitted as SNI values; the
// result is "" for names that must not be sent.
func hostnameForSNI(name string) string {
	host := strings.TrimSuffix(name, ".")
	host = strings.TrimPrefix(strings.TrimSuffix(host, "]"), "[")
	if net.ParseIP(host) != nil {
		return ""
	}
	ascii, err := idna.Lookup.ToASCII(strings.TrimSuffix(name, "."))
	if err != nil {
		return ""
	}
	return ascii
}

func recvServerName(s *Session, data []byte) error {
	if s.role == RoleClient {
		// The server acknowledges with an empty extension.
		if len(data) != 0 {
			return ErrMalformed
		}
		return nil
	}

	str := cryptobyte.String(data)
	var nameList cryptobyte.String
	if !str.ReadUint16LengthPrefixed(&nameList) || !str.Empty() || nameList.Empty() {
		return ErrMalformed
	}

	var serverName string
	for !nameList.Empty() {
		var nameType uint8
		var nameBytes cryptobyte.String
		if !nameList.ReadUint8(&nameType) ||
			!nameList.ReadUint16LengthPrefixed(&nameBytes) ||
			nameBytes.Empty() {
			return ErrMalformed
		}
		if nameType != 0 {
			continue
		}
		// Multiple names of the same name_type are prohibited.
		if serverName != "" {
			return ErrIllegalParameter
		}
		serverName = string(nameBytes)
		if strings.HasSuffix(serverName, ".") {
			return ErrIllegalParameter
		}
		if err := validateSNIHostname(serverName); err != nil {
			return err
		}
	}
	if serverName == "" {
		return nil
	}

	s.setSessionData(extensionServerName, serverName)
	return nil
}

func sendServerName(s *Session, b *cryptobyte.Builder) (SendStatus, error) {
	priv, ok := s.sessionData(extensionServerName)
	if !ok {
		return SendOmit, nil
	}
	name, ok := priv.(string)
	if !ok {
		return SendOmit, nil
	}

	if s.role == RoleServer {
		// Acknowledge the name the client sent.
		return SendPresent, nil
	}

	host := hostnameForSNI(name)
	if host == "" {
		return SendOmit, nil
	}
	b.AddUint16LengthPrefixed(func(b *cryptobyte.Builder) {
		b.AddUint8(0) // name_type host_name
		b.AddUint16LengthPrefixed(func(b *cryptobyte.Builder) {
			b.AddBytes([]byte(host))
		})
	})
	return SendWrote, nil
}

func packServerName(priv interface{}, b *cryptobyte.Builder) error {
	name, ok := priv.(string)
	if !ok {
		return ErrParsing
	}
	b.AddUint24LengthPrefixed(func(b *cryptobyte.Builder) {
		b.AddBytes([]byte(name))
	})
	return nil
}

func unpackServerName(data *cryptobyte.String) (interface{}, error) {
	var name cryptobyte.String
	if !data.ReadUint24LengthPrefixed(&name) {
		return nil, ErrParsing
	}
	if err := validateSNIHostname(string(name)); err != nil {
		return nil, ErrParsing
	}
	return string(name), nil
}
