// Copyright 2026 The gnutls-go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gnutls

import (
	"golang.org/x/crypto/cryptobyte"

	gnutlserrors "github.com/pmgdeb/gnutls/errors"
)

// ParseExtensions dispatches every record of a received extension vector
// to its receive handler. msg is the handshake message the vector arrived
// in and parseType restricts the pass to one category (ParseAny for all).
//
// Records with an unregistered wire identifier are skipped; a handler
// error aborts the whole pass and is returned unchanged.
func (s *Session) ParseExtensions(msg MsgFlags, parseType ParseType, data []byte) error {
	return parseExtensionVector(data, func(wireID uint16, body []byte) error {
		return s.parseExtension(msg, parseType, wireID, body)
	})
}

func (s *Session) parseExtension(msg MsgFlags, parseType ParseType, wireID uint16, body []byte) error {
	id := s.wireToID(wireID)
	if id == 0 {
		// Unregistered extension, skip for forward compatibility.
		gnutlserrors.LogDebug("skipping unknown extension ", ExtensionName(wireID), "/", wireID)
		return nil
	}

	// A client only accepts extensions it offered.
	if s.role == RoleClient && !s.negotiated(id) {
		gnutlserrors.LogDebug("received unexpected extension ", ExtensionName(wireID), "/", wireID)
		return ErrUnexpectedExtension
	}

	ext := s.extPtr(id, parseType)
	if ext == nil || ext.Handlers.Recv == nil {
		gnutlserrors.LogDebug("ignoring extension ", ExtensionName(wireID), "/", wireID)
		return nil
	}

	if ext.Validity&msg == 0 {
		gnutlserrors.LogDebug("received illegal extension ", ext.Name, "/", wireID,
			" for ", msgValidityString(msg))
		return ErrIllegalExtension
	}

	if s.role == RoleServer {
		// Remember what the peer offered, so generation only answers
		// what was advertised.
		s.markNegotiated(id)
	}

	gnutlserrors.LogDebug("parsing extension ", ext.Name, "/", wireID, " (", len(body), " bytes)")

	return ext.Handlers.Recv(s, body)
}

// GenerateExtensions builds the extension vector for one handshake
// message by running the send handler of every eligible extension,
// session-scope registrations first, then the process-wide table with
// the padding workaround entry structurally last. The returned vector
// carries its 2-byte length prefix, or is nil when no extension produced
// output.
func (s *Session) GenerateExtensions(msg MsgFlags, parseType ParseType) ([]byte, error) {
	var records cryptobyte.Builder
	s.genLen = 0

	for _, ext := range s.exts {
		if err := s.generateExtension(&records, ext, msg, parseType); err != nil {
			return nil, err
		}
	}

	var iterErr error
	processExts.forEach(func(ext *Descriptor) bool {
		iterErr = s.generateExtension(&records, ext, msg, parseType)
		return iterErr == nil
	})
	if iterErr != nil {
		return nil, iterErr
	}

	recordBytes, err := records.Bytes()
	if err != nil {
		return nil, ErrMalformed
	}
	return sealExtensionVector(recordBytes)
}

func (s *Session) generateExtension(records *cryptobyte.Builder, ext *Descriptor, msg MsgFlags, parseType ParseType) error {
	if ext.Handlers.Send == nil {
		return nil
	}
	if parseType != ParseAny && ext.ParseType != parseType {
		return nil
	}
	if ext.Validity&msg == 0 {
		gnutlserrors.LogDebug("not sending extension ", ext.Name, "/", ext.WireID,
			" for ", msgValidityString(msg))
		return nil
	}

	// A server sends only what the peer advertised; a client suppresses
	// identifiers already written in this pass, which keeps overridden
	// extensions from being emitted twice.
	if s.role == RoleServer && !s.negotiated(ext.id) {
		return nil
	}
	if s.role == RoleClient && s.negotiated(ext.id) {
		return nil
	}

	var body cryptobyte.Builder
	status, err := ext.Handlers.Send(s, &body)
	if err != nil {
		return err
	}
	if status == SendOmit {
		return nil
	}
	bodyBytes, err := body.Bytes()
	if err != nil {
		return ErrMalformed
	}
	if len(bodyBytes) == 0 && status != SendPresent {
		return nil
	}

	appendExtensionRecord(records, ext.WireID, bodyBytes)
	s.genLen += 4 + len(bodyBytes)

	if s.role == RoleClient {
		s.markNegotiated(ext.id)
	}

	gnutlserrors.LogDebug("sending extension ", ext.Name, "/", ext.WireID,
		" (", len(bodyBytes), " bytes)")
	return nil
}
