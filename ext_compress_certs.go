// Copyright 2026 The gnutls-go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gnutls

import (
	"bytes"
	"compress/zlib"
	"io"

	"github.com/andybalholm/brotli"
	"github.com/klauspost/compress/zstd"
	"golang.org/x/crypto/cryptobyte"

	"github.com/pmgdeb/gnutls/dicttls"
	gnutlserrors "github.com/pmgdeb/gnutls/errors"
)

// compress_certificate (RFC 8879). The private data is the []uint16
// algorithm list the peer advertised. A sender advertises the caller's
// list (SetData), defaulting to every algorithm this package can codec:
// brotli, zstd, zlib. The compression itself happens on the
// CompressedCertificate message and is exposed through
// CompressCertificate/DecompressCertificate.

var extModCompressCertificate = &Descriptor{
	Name:      "compress_certificate",
	WireID:    wireCompressCertificate,
	ParseType: ParseGeneric,
	Validity:  MsgClientHello | MsgCertificateRequest,
	Handlers: Handlers{
		Recv: recvCompressCertificate,
		Send: sendCompressCertificate,
	},
	id: extensionCompressCertificate,
}

var defaultCertCompressionAlgs = []uint16{
	dicttls.CertCompAlgBrotli,
	dicttls.CertCompAlgZstd,
	dicttls.CertCompAlgZlib,
}

func recvCompressCertificate(s *Session, data []byte) error {
	str := cryptobyte.String(data)
	var list cryptobyte.String
	if !str.ReadUint8LengthPrefixed(&list) || !str.Empty() || list.Empty() {
		return ErrMalformed
	}
	var algs []uint16
	for !list.Empty() {
		var alg uint16
		if !list.ReadUint16(&alg) {
			return ErrMalformed
		}
		if _, known := dicttls.DictCertificateCompressionAlgorithmValueIndexed[alg]; !known {
			gnutlserrors.LogDebug("peer advertised unknown certificate compression algorithm ", alg)
		}
		algs = append(algs, alg)
	}
	s.setSessionData(extensionCompressCertificate, algs)
	return nil
}

func sendCompressCertificate(s *Session, b *cryptobyte.Builder) (SendStatus, error) {
	algs := defaultCertCompressionAlgs
	if priv, ok := s.sessionData(extensionCompressCertificate); ok {
		if configured, ok := priv.([]uint16); ok && len(configured) > 0 {
			algs = configured
		}
	}
	b.AddUint8LengthPrefixed(func(b *cryptobyte.Builder) {
		for _, alg := range algs {
			b.AddUint16(alg)
		}
	})
	return SendWrote, nil
}

// CompressCertificate compresses a Certificate message body with the
// given algorithm for use in a CompressedCertificate message.
func CompressCertificate(alg uint16, msg []byte) ([]byte, error) {
	switch alg {
	case dicttls.CertCompAlgBrotli:
		var buf bytes.Buffer
		w := brotli.NewWriterLevel(&buf, brotli.BestCompression)
		if _, err := w.Write(msg); err != nil {
			return nil, err
		}
		if err := w.Close(); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil

	case dicttls.CertCompAlgZstd:
		enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedBestCompression))
		if err != nil {
			return nil, err
		}
		defer enc.Close()
		return enc.EncodeAll(msg, nil), nil

	case dicttls.CertCompAlgZlib:
		var buf bytes.Buffer
		w := zlib.NewWriter(&buf)
		if _, err := w.Write(msg); err != nil {
			return nil, err
		}
		if err := w.Close(); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}
	return nil, gnutlserrors.New("gnutls: unsupported certificate compression algorithm ", alg).AtError()
}

// DecompressCertificate reverses CompressCertificate.
// uncompressedLength is the length the peer declared; the output must
// match it exactly.
func DecompressCertificate(alg uint16, compressed []byte, uncompressedLength uint32) ([]byte, error) {
	// uncompressed_length is a uint24 on the wire, which caps a
	// decompression bomb at 16MB.
	const maxUncompressedLength = 1 << 24
	if uncompressedLength == 0 || uncompressedLength > maxUncompressedLength {
		return nil, gnutlserrors.New("gnutls: implausible uncompressed certificate length ", uncompressedLength).AtError()
	}

	var r io.Reader
	in := bytes.NewReader(compressed)
	switch alg {
	case dicttls.CertCompAlgBrotli:
		r = brotli.NewReader(in)

	case dicttls.CertCompAlgZstd:
		dec, err := zstd.NewReader(in)
		if err != nil {
			return nil, err
		}
		defer dec.Close()
		r = dec

	case dicttls.CertCompAlgZlib:
		rc, err := zlib.NewReader(in)
		if err != nil {
			return nil, err
		}
		defer rc.Close()
		r = rc

	default:
		return nil, gnutlserrors.New("gnutls: unsupported certificate compression algorithm ", alg).AtError()
	}

	out := make([]byte, uncompressedLength)
	if _, err := io.ReadFull(r, out); err != nil {
		return nil, gnutlserrors.New("gnutls: certificate decompression failed").Base(err).AtError()
	}
	// One more readable byte means the peer lied about the length.
	var extra [1]byte
	if n, _ := r.Read(extra[:]); n != 0 {
		return nil, gnutlserrors.New("gnutls: certificate decompression produced excess data").AtError()
	}
	return out, nil
}
