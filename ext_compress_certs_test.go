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

	"github.com/pmgdeb/gnutls/dicttls"
)

func TestCompressCertificateRoundTrip(t *testing.T) {
	msg := bytes.Repeat([]byte("certificate entry bytes "), 64)

	for _, alg := range []uint16{
		dicttls.CertCompAlgBrotli,
		dicttls.CertCompAlgZstd,
		dicttls.CertCompAlgZlib,
	} {
		name := dicttls.DictCertificateCompressionAlgorithmValueIndexed[alg]

		compressed, err := CompressCertificate(alg, msg)
		if err != nil {
			t.Errorf("%s: CompressCertificate error = %v", name, err)
			continue
		}
		if len(compressed) >= len(msg) {
			t.Errorf("%s: compressed %d bytes to %d, no gain on repetitive input",
				name, len(msg), len(compressed))
		}

		out, err := DecompressCertificate(alg, compressed, uint32(len(msg)))
		if err != nil {
			t.Errorf("%s: DecompressCertificate error = %v", name, err)
			continue
		}
		if !bytes.Equal(out, msg) {
			t.Errorf("%s: decompressed output differs from input", name)
		}
	}
}

func TestDecompressCertificateLengthMismatch(t *testing.T) {
	msg := bytes.Repeat([]byte("x"), 1000)
	compressed, err := CompressCertificate(dicttls.CertCompAlgZlib, msg)
	if err != nil {
		t.Fatalf("CompressCertificate error = %v", err)
	}

	// Declared length shorter than the real output.
	if _, err := DecompressCertificate(dicttls.CertCompAlgZlib, compressed, 999); err == nil {
		t.Error("short declared length did not fail")
	}
	// Declared length longer than the real output.
	if _, err := DecompressCertificate(dicttls.CertCompAlgZlib, compressed, 1001); err == nil {
		t.Error("long declared length did not fail")
	}
	// Zero and above the uint24 cap are rejected before decompressing.
	if _, err := DecompressCertificate(dicttls.CertCompAlgZlib, compressed, 0); err == nil {
		t.Error("zero declared length did not fail")
	}
	if _, err := DecompressCertificate(dicttls.CertCompAlgZlib, compressed, 1<<24+1); err == nil {
		t.Error("declared length above the uint24 cap did not fail")
	}
}

func TestCompressCertificateUnknownAlgorithm(t *testing.T) {
	if _, err := CompressCertificate(0xcafe, []byte("msg")); err == nil {
		t.Error("CompressCertificate(unknown) did not fail")
	}
	if _, err := DecompressCertificate(0xcafe, []byte("msg"), 3); err == nil {
		t.Error("DecompressCertificate(unknown) did not fail")
	}
}

func TestCompressCertificateRecv(t *testing.T) {
	s := NewSession(RoleServer)
	defer s.Close()

	// algorithms: brotli, zstd.
	body := []byte{0x04, 0x00, 0x02, 0x00, 0x03}
	if err := recvCompressCertificate(s, body); err != nil {
		t.Fatalf("recvCompressCertificate error = %v", err)
	}
	got, ok := s.Data(wireCompressCertificate)
	want := []uint16{dicttls.CertCompAlgBrotli, dicttls.CertCompAlgZstd}
	if !ok || !reflect.DeepEqual(got, want) {
		t.Errorf("stored algorithms = %v, %v, want %v, true", got, ok, want)
	}

	// Unknown algorithms are kept; whether to use one is the caller's
	// decision.
	if err := recvCompressCertificate(s, []byte{0x02, 0xca, 0xfe}); err != nil {
		t.Errorf("recvCompressCertificate(unknown alg) error = %v", err)
	}

	for _, body := range [][]byte{
		{},                 // no list
		{0x00},             // empty list
		{0x03, 0x00, 0x02}, // odd length
		{0x02, 0x00, 0x02, 0xff}, // trailing byte
	} {
		if err := recvCompressCertificate(s, body); !errors.Is(err, ErrMalformed) {
			t.Errorf("recvCompressCertificate(% x) error = %v, want ErrMalformed", body, err)
		}
	}
}

func TestCompressCertificateSend(t *testing.T) {
	s := NewSession(RoleClient)
	defer s.Close()

	var b cryptobyte.Builder
	status, err := sendCompressCertificate(s, &b)
	if err != nil || status != SendWrote {
		t.Fatalf("sendCompressCertificate = %v, %v, want SendWrote, nil", status, err)
	}
	body, err := b.Bytes()
	if err != nil {
		t.Fatalf("builder error = %v", err)
	}
	// Default advertisement: brotli, zstd, zlib.
	want := []byte{0x06, 0x00, 0x02, 0x00, 0x03, 0x00, 0x01}
	if !bytes.Equal(body, want) {
		t.Errorf("default body = % x, want % x", body, want)
	}

	// A configured list replaces the default.
	s.SetData(wireCompressCertificate, []uint16{dicttls.CertCompAlgZlib})
	var b2 cryptobyte.Builder
	if _, err := sendCompressCertificate(s, &b2); err != nil {
		t.Fatalf("sendCompressCertificate error = %v", err)
	}
	body, _ = b2.Bytes()
	want = []byte{0x02, 0x00, 0x01}
	if !bytes.Equal(body, want) {
		t.Errorf("configured body = % x, want % x", body, want)
	}
}
