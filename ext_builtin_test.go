// Copyright 2026 The gnutls-go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gnutls

import (
	"bytes"
	"errors"
	"reflect"
	"testing"

	"golang.org/x/crypto/cryptobyte"
)

func TestMaxFragmentLengthRecv(t *testing.T) {
	for code := uint8(1); code <= 4; code++ {
		s := NewSession(RoleServer)
		if err := recvMaxFragmentLength(s, []byte{code}); err != nil {
			t.Errorf("recvMaxFragmentLength(%d) error = %v", code, err)
		}
		if got, ok := s.Data(wireMaxFragmentLength); !ok || got != code {
			t.Errorf("stored code = %v, %v, want %d, true", got, ok, code)
		}
		s.Close()
	}

	s := NewSession(RoleServer)
	defer s.Close()
	if err := recvMaxFragmentLength(s, []byte{0}); !errors.Is(err, ErrIllegalParameter) {
		t.Errorf("code 0 error = %v, want ErrIllegalParameter", err)
	}
	if err := recvMaxFragmentLength(s, []byte{5}); !errors.Is(err, ErrIllegalParameter) {
		t.Errorf("code 5 error = %v, want ErrIllegalParameter", err)
	}
	if err := recvMaxFragmentLength(s, []byte{1, 2}); !errors.Is(err, ErrMalformed) {
		t.Errorf("two-byte body error = %v, want ErrMalformed", err)
	}
	if err := recvMaxFragmentLength(s, nil); !errors.Is(err, ErrMalformed) {
		t.Errorf("empty body error = %v, want ErrMalformed", err)
	}
}

func TestMaxFragmentLengthSend(t *testing.T) {
	s := NewSession(RoleClient)
	defer s.Close()

	var b cryptobyte.Builder
	if status, err := sendMaxFragmentLength(s, &b); err != nil || status != SendOmit {
		t.Errorf("send without data = %v, %v, want SendOmit, nil", status, err)
	}

	s.SetData(wireMaxFragmentLength, uint8(3))
	var b2 cryptobyte.Builder
	status, err := sendMaxFragmentLength(s, &b2)
	if err != nil || status != SendWrote {
		t.Fatalf("send = %v, %v, want SendWrote, nil", status, err)
	}
	if body, _ := b2.Bytes(); !bytes.Equal(body, []byte{3}) {
		t.Errorf("body = % x, want 03", body)
	}
}

func TestMaxFragmentLengthUnpackRange(t *testing.T) {
	str := cryptobyte.String([]byte{5})
	if _, err := unpackMaxFragmentLength(&str); !errors.Is(err, ErrParsing) {
		t.Errorf("unpack out-of-range code error = %v, want ErrParsing", err)
	}
}

func TestExtendedMasterSecretRecv(t *testing.T) {
	s := NewSession(RoleServer)
	defer s.Close()

	if err := recvExtendedMasterSecret(s, nil); err != nil {
		t.Fatalf("recvExtendedMasterSecret error = %v", err)
	}
	if got, ok := s.Data(wireExtendedMasterSecret); !ok || got != true {
		t.Errorf("stored flag = %v, %v, want true, true", got, ok)
	}

	if err := recvExtendedMasterSecret(s, []byte{0}); !errors.Is(err, ErrMalformed) {
		t.Errorf("non-empty body error = %v, want ErrMalformed", err)
	}
}

func TestSupportedVersionsServerRecv(t *testing.T) {
	s := NewSession(RoleServer)
	defer s.Close()

	body := []byte{0x04, 0x03, 0x04, 0x03, 0x03}
	if err := recvSupportedVersions(s, body); err != nil {
		t.Fatalf("recvSupportedVersions error = %v", err)
	}
	got, ok := s.Data(wireSupportedVersions)
	want := []uint16{VersionTLS13, VersionTLS12}
	if !ok || !reflect.DeepEqual(got, want) {
		t.Errorf("stored versions = %v, %v, want %v, true", got, ok, want)
	}

	for _, body := range [][]byte{
		{},                       // no list
		{0x00},                   // empty list
		{0x03, 0x03, 0x04, 0x03}, // odd list length
		{0x02, 0x03, 0x04, 0xff}, // trailing byte
	} {
		if err := recvSupportedVersions(s, body); !errors.Is(err, ErrMalformed) {
			t.Errorf("recvSupportedVersions(% x) error = %v, want ErrMalformed", body, err)
		}
	}
}

func TestSupportedVersionsClientRecv(t *testing.T) {
	s := NewSession(RoleClient)
	defer s.Close()

	if err := recvSupportedVersions(s, []byte{0x03, 0x04}); err != nil {
		t.Fatalf("recvSupportedVersions error = %v", err)
	}
	if got, ok := s.Data(wireSupportedVersions); !ok || got != uint16(VersionTLS13) {
		t.Errorf("selected version = %v, %v, want %#x, true", got, ok, VersionTLS13)
	}

	if err := recvSupportedVersions(s, []byte{0x03, 0x04, 0x00}); !errors.Is(err, ErrMalformed) {
		t.Errorf("oversized body error = %v, want ErrMalformed", err)
	}
}

func TestSupportedVersionsSend(t *testing.T) {
	client := NewSession(RoleClient)
	defer client.Close()

	var b cryptobyte.Builder
	status, err := sendSupportedVersions(client, &b)
	if err != nil || status != SendWrote {
		t.Fatalf("client send = %v, %v, want SendWrote, nil", status, err)
	}
	if body, _ := b.Bytes(); !bytes.Equal(body, []byte{0x04, 0x03, 0x04, 0x03, 0x03}) {
		t.Errorf("default offer = % x, want the TLS 1.3 + 1.2 list", body)
	}

	server := NewSession(RoleServer)
	defer server.Close()

	// No offer stored: nothing to select.
	var b2 cryptobyte.Builder
	if status, err := sendSupportedVersions(server, &b2); err != nil || status != SendOmit {
		t.Errorf("server send without offer = %v, %v, want SendOmit, nil", status, err)
	}

	// The peer offered TLS 1.3: select it.
	server.SetData(wireSupportedVersions, []uint16{VersionTLS13, VersionTLS12})
	var b3 cryptobyte.Builder
	if status, err := sendSupportedVersions(server, &b3); err != nil || status != SendWrote {
		t.Fatalf("server send = %v, %v, want SendWrote, nil", status, err)
	}
	if body, _ := b3.Bytes(); !bytes.Equal(body, []byte{0x03, 0x04}) {
		t.Errorf("selected version = % x, want 0304", body)
	}

	// A TLS 1.2-only offer selects nothing here.
	server.SetData(wireSupportedVersions, []uint16{VersionTLS12})
	var b4 cryptobyte.Builder
	if status, err := sendSupportedVersions(server, &b4); err != nil || status != SendOmit {
		t.Errorf("server send with 1.2-only offer = %v, %v, want SendOmit, nil", status, err)
	}
}

func TestSessionTicketRecv(t *testing.T) {
	server := NewSession(RoleServer)
	defer server.Close()

	ticket := []byte{0xde, 0xad, 0xbe, 0xef}
	if err := recvSessionTicket(server, ticket); err != nil {
		t.Fatalf("recvSessionTicket error = %v", err)
	}
	got, ok := server.Data(wireSessionTicket)
	if !ok || !bytes.Equal(got.([]byte), ticket) {
		t.Errorf("stored ticket = %v, %v, want % x, true", got, ok, ticket)
	}
	// The stored ticket is a copy, not an alias.
	ticket[0] = 0x00
	if got, _ := server.Data(wireSessionTicket); got.([]byte)[0] != 0xde {
		t.Error("stored ticket aliases the receive buffer")
	}

	client := NewSession(RoleClient)
	defer client.Close()
	if err := recvSessionTicket(client, nil); err != nil {
		t.Errorf("client ack error = %v", err)
	}
	if err := recvSessionTicket(client, []byte{1}); !errors.Is(err, ErrMalformed) {
		t.Errorf("client non-empty ack error = %v, want ErrMalformed", err)
	}
}

func TestSessionTicketSend(t *testing.T) {
	client := NewSession(RoleClient)
	defer client.Close()

	var b cryptobyte.Builder
	if status, err := sendSessionTicket(client, &b); err != nil || status != SendOmit {
		t.Errorf("send without ticket = %v, %v, want SendOmit, nil", status, err)
	}

	// An empty ticket requests a fresh one: present but empty.
	client.SetData(wireSessionTicket, []byte{})
	var b2 cryptobyte.Builder
	if status, err := sendSessionTicket(client, &b2); err != nil || status != SendPresent {
		t.Errorf("send empty ticket = %v, %v, want SendPresent, nil", status, err)
	}

	client.SetData(wireSessionTicket, []byte{1, 2, 3})
	var b3 cryptobyte.Builder
	status, err := sendSessionTicket(client, &b3)
	if err != nil || status != SendWrote {
		t.Fatalf("send ticket = %v, %v, want SendWrote, nil", status, err)
	}
	if body, _ := b3.Bytes(); !bytes.Equal(body, []byte{1, 2, 3}) {
		t.Errorf("body = % x, want 01 02 03", body)
	}

	server := NewSession(RoleServer)
	defer server.Close()
	var b4 cryptobyte.Builder
	if status, err := sendSessionTicket(server, &b4); err != nil || status != SendPresent {
		t.Errorf("server ack = %v, %v, want SendPresent, nil", status, err)
	}
}

func TestSessionTicketZeroizedOnDeinit(t *testing.T) {
	s := NewSession(RoleServer)

	ticket := []byte{0xde, 0xad, 0xbe, 0xef}
	if err := recvSessionTicket(s, ticket); err != nil {
		t.Fatalf("recvSessionTicket error = %v", err)
	}
	stored, _ := s.Data(wireSessionTicket)
	storedTicket := stored.([]byte)

	s.Close()

	for i, b := range storedTicket {
		if b != 0 {
			t.Fatalf("ticket byte %d = %#x after Close, want 0", i, b)
		}
	}
}

func TestALPNServerRecv(t *testing.T) {
	s := NewSession(RoleServer)
	defer s.Close()

	var b cryptobyte.Builder
	b.AddUint16LengthPrefixed(func(b *cryptobyte.Builder) {
		for _, proto := range []string{"h2", "http/1.1"} {
			b.AddUint8LengthPrefixed(func(b *cryptobyte.Builder) {
				b.AddBytes([]byte(proto))
			})
		}
	})
	body, err := b.Bytes()
	if err != nil {
		t.Fatalf("building body: %v", err)
	}

	if err := recvALPN(s, body); err != nil {
		t.Fatalf("recvALPN error = %v", err)
	}
	got, ok := s.Data(wireALPN)
	want := []string{"h2", "http/1.1"}
	if !ok || !reflect.DeepEqual(got, want) {
		t.Errorf("stored protocols = %v, %v, want %v, true", got, ok, want)
	}

	for _, body := range [][]byte{
		{},                             // no list
		{0x00, 0x00},                   // empty list
		{0x00, 0x03, 0x02, 'h', '2', 0xff}, // trailing byte
		{0x00, 0x01, 0x00},             // empty protocol name
	} {
		if err := recvALPN(s, body); !errors.Is(err, ErrMalformed) {
			t.Errorf("recvALPN(% x) error = %v, want ErrMalformed", body, err)
		}
	}
}

func TestALPNClientRecvSelection(t *testing.T) {
	selection := func(protos ...string) []byte {
		var b cryptobyte.Builder
		b.AddUint16LengthPrefixed(func(b *cryptobyte.Builder) {
			for _, proto := range protos {
				b.AddUint8LengthPrefixed(func(b *cryptobyte.Builder) {
					b.AddBytes([]byte(proto))
				})
			}
		})
		out, err := b.Bytes()
		if err != nil {
			t.Fatalf("building selection: %v", err)
		}
		return out
	}

	s := NewSession(RoleClient)
	defer s.Close()
	s.SetData(wireALPN, []string{"h2", "http/1.1"})

	// Selecting a protocol outside the offer is rejected.
	if err := recvALPN(s, selection("spdy/3")); !errors.Is(err, ErrIllegalParameter) {
		t.Errorf("out-of-offer selection error = %v, want ErrIllegalParameter", err)
	}
	// More than one selection is rejected.
	if err := recvALPN(s, selection("h2", "http/1.1")); !errors.Is(err, ErrIllegalParameter) {
		t.Errorf("double selection error = %v, want ErrIllegalParameter", err)
	}

	if err := recvALPN(s, selection("h2")); err != nil {
		t.Fatalf("recvALPN error = %v", err)
	}
	if got, ok := s.Data(wireALPN); !ok || got != "h2" {
		t.Errorf("selected protocol = %v, %v, want h2, true", got, ok)
	}
}

func TestALPNSend(t *testing.T) {
	client := NewSession(RoleClient)
	defer client.Close()

	var b cryptobyte.Builder
	if status, err := sendALPN(client, &b); err != nil || status != SendOmit {
		t.Errorf("send without offer = %v, %v, want SendOmit, nil", status, err)
	}

	client.SetData(wireALPN, []string{"h2", "http/1.1"})
	var b2 cryptobyte.Builder
	status, err := sendALPN(client, &b2)
	if err != nil || status != SendWrote {
		t.Fatalf("client send = %v, %v, want SendWrote, nil", status, err)
	}
	body, _ := b2.Bytes()
	want := []byte{0x00, 0x0c, 0x02, 'h', '2', 0x08, 'h', 't', 't', 'p', '/', '1', '.', '1'}
	if !bytes.Equal(body, want) {
		t.Errorf("offer body = % x, want % x", body, want)
	}

	// A server with only the client's list answers the first preference.
	server := NewSession(RoleServer)
	defer server.Close()
	server.SetData(wireALPN, []string{"h2", "http/1.1"})
	var b3 cryptobyte.Builder
	if status, err := sendALPN(server, &b3); err != nil || status != SendWrote {
		t.Fatalf("server send = %v, %v, want SendWrote, nil", status, err)
	}
	body, _ = b3.Bytes()
	want = []byte{0x00, 0x03, 0x02, 'h', '2'}
	if !bytes.Equal(body, want) {
		t.Errorf("selection body = % x, want % x", body, want)
	}

	// An explicit selection overrides the first-preference default.
	server.SetData(wireALPN, "http/1.1")
	var b4 cryptobyte.Builder
	if _, err := sendALPN(server, &b4); err != nil {
		t.Fatalf("server send error = %v", err)
	}
	body, _ = b4.Bytes()
	want = []byte{0x00, 0x09, 0x08, 'h', 't', 't', 'p', '/', '1', '.', '1'}
	if !bytes.Equal(body, want) {
		t.Errorf("explicit selection body = % x, want % x", body, want)
	}
}

func TestEarlyDataRecv(t *testing.T) {
	server := NewSession(RoleServer)
	defer server.Close()

	if err := recvEarlyData(server, nil); err != nil {
		t.Fatalf("recvEarlyData(empty) error = %v", err)
	}
	if got, ok := server.Data(wireEarlyData); !ok || got != true {
		t.Errorf("stored flag = %v, %v, want true, true", got, ok)
	}
	// Only a client sees the NewSessionTicket form.
	if err := recvEarlyData(server, []byte{0, 0, 0x10, 0}); !errors.Is(err, ErrMalformed) {
		t.Errorf("server four-byte body error = %v, want ErrMalformed", err)
	}

	client := NewSession(RoleClient)
	defer client.Close()
	if err := recvEarlyData(client, []byte{0, 0, 0x10, 0}); err != nil {
		t.Fatalf("recvEarlyData(max size) error = %v", err)
	}
	if got, ok := client.Data(wireEarlyData); !ok || got != uint32(0x1000) {
		t.Errorf("stored max size = %v, %v, want 0x1000, true", got, ok)
	}
	if err := recvEarlyData(client, []byte{0, 0}); !errors.Is(err, ErrMalformed) {
		t.Errorf("short body error = %v, want ErrMalformed", err)
	}
}

func TestEarlyDataSend(t *testing.T) {
	client := NewSession(RoleClient)
	defer client.Close()

	var b cryptobyte.Builder
	if status, err := sendEarlyData(client, &b); err != nil || status != SendOmit {
		t.Errorf("send without opt-in = %v, %v, want SendOmit, nil", status, err)
	}

	client.SetData(wireEarlyData, true)
	var b2 cryptobyte.Builder
	if status, err := sendEarlyData(client, &b2); err != nil || status != SendPresent {
		t.Errorf("client opt-in = %v, %v, want SendPresent, nil", status, err)
	}

	server := NewSession(RoleServer)
	defer server.Close()
	server.SetData(wireEarlyData, uint32(0x1000))
	var b3 cryptobyte.Builder
	status, err := sendEarlyData(server, &b3)
	if err != nil || status != SendWrote {
		t.Fatalf("server ticket form = %v, %v, want SendWrote, nil", status, err)
	}
	if body, _ := b3.Bytes(); !bytes.Equal(body, []byte{0, 0, 0x10, 0}) {
		t.Errorf("body = % x, want 00 00 10 00", body)
	}
}

func TestPaddingSize(t *testing.T) {
	cases := []struct {
		unpaddedLen int
		padding     int
		willPad     bool
	}{
		{0, 0, false},
		{0xff, 0, false},
		{0x100, 0xfc, true},
		{0x1fb, 1, true},
		{0x1fc, 1, true},
		{0x1ff, 1, true},
		{0x200, 0, false},
		{0x1000, 0, false},
	}
	for _, tc := range cases {
		padding, willPad := paddingSize(tc.unpaddedLen)
		if padding != tc.padding || willPad != tc.willPad {
			t.Errorf("paddingSize(%#x) = %d, %v, want %d, %v",
				tc.unpaddedLen, padding, willPad, tc.padding, tc.willPad)
		}
	}
}

func TestPaddingSend(t *testing.T) {
	s := NewSession(RoleClient)
	defer s.Close()

	// Hello already large enough: no padding.
	s.HelloLen = 0x200
	s.genLen = 0
	var b cryptobyte.Builder
	if status, err := sendPadding(s, &b); err != nil || status != SendOmit {
		t.Errorf("large hello = %v, %v, want SendOmit, nil", status, err)
	}

	// Hello inside the problem window: pad to the 512-byte bucket.
	s.HelloLen = 0x120
	s.genLen = 0x20
	var b2 cryptobyte.Builder
	status, err := sendPadding(s, &b2)
	if err != nil || status != SendWrote {
		t.Fatalf("padded hello = %v, %v, want SendWrote, nil", status, err)
	}
	body, _ := b2.Bytes()
	unpadded := s.HelloLen + 2 + s.genLen
	if got, want := len(body), 0x200-unpadded-4; got != want {
		t.Errorf("padding payload = %d bytes, want %d", got, want)
	}
	for i, c := range body {
		if c != 0 {
			t.Fatalf("padding byte %d = %#x, want 0", i, c)
		}
	}
}
