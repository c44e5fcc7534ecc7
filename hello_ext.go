// Copyright 2026 The gnutls-go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package gnutls implements the TLS hello extension framework: an
// extensible registry of extension handlers, the dispatch engine that
// parses and generates hello extension vectors, per-session private data
// storage, and packing of that data for session resumption.
//
// Hello extensions are records appended to TLS handshake messages
// (ClientHello, ServerHello, EncryptedExtensions, CertificateRequest,
// NewSessionTicket, HelloRetryRequest) that allow for extra
// functionality. The framework knows nothing about what any individual
// extension does; extensions plug in through the handler capabilities on
// their Descriptor.
package gnutls

import (
	"golang.org/x/crypto/cryptobyte"

	gnutlserrors "github.com/pmgdeb/gnutls/errors"
)

var (
	// ErrIllegalExtension is returned when an extension appears in a
	// handshake message its validity mask forbids.
	ErrIllegalExtension = gnutlserrors.New("gnutls: received illegal extension").AtError()

	// ErrUnexpectedExtension is returned when a peer responds with an
	// extension that was never offered.
	ErrUnexpectedExtension = gnutlserrors.New("gnutls: received unexpected extension").AtError()

	// ErrParsing is returned for a malformed resumption blob, including
	// an unpack handler consuming a different number of bytes than the
	// entry declared. Resumption must be abandoned in favor of a full
	// handshake.
	ErrParsing = gnutlserrors.New("gnutls: error parsing resumed session data").AtError()

	// ErrMalformed is returned for a syntactically invalid extension
	// vector.
	ErrMalformed = gnutlserrors.New("gnutls: malformed extension vector").AtError()

	// ErrIllegalParameter is returned by built-in receive handlers for
	// well-formed records carrying values outside their legal range.
	ErrIllegalParameter = gnutlserrors.New("gnutls: illegal extension parameter").AtError()

	// ErrAlreadyRegistered is returned when a registration collides with
	// an extension already registered in the same scope.
	ErrAlreadyRegistered = gnutlserrors.New("gnutls: extension already registered").AtError()

	// ErrCapacityExceeded is returned when the process-wide extension
	// table or the internal identifier space is exhausted.
	ErrCapacityExceeded = gnutlserrors.New("gnutls: extension table full").AtError()
)

// ExtensionID is the compact, process-local identifier of a registered
// extension. It is assigned at registration time, bounded by
// maxExtensionID, and is distinct from the IANA extension type
// transmitted on the wire. Zero means "no extension".
type ExtensionID uint32

// Internal identifiers of the built-in extensions. Registration assigns
// dynamically registered extensions identifiers after these.
const (
	extensionMaxFragmentLength ExtensionID = iota + 1
	extensionExtendedMasterSecret
	extensionSupportedVersions
	extensionServerName
	extensionSessionTicket
	extensionALPN
	extensionCompressCertificate
	extensionEarlyData
	extensionPadding
)

const (
	// maxExtensionID bounds the internal identifier space; identifiers
	// index the negotiated-extension bitmap.
	maxExtensionID = 63

	// maxExtTypes is the capacity of the process-wide extension table
	// and of a session's private-data slot array.
	maxExtTypes = 64
)

// Role of this side of the connection.
type Role int

const (
	RoleClient Role = iota
	RoleServer
)

// ParseType is the phase/category an extension is parsed in. Parse and
// generate passes can be restricted to one category.
type ParseType int

const (
	// ParseAny matches every category.
	ParseAny ParseType = iota
	// ParseGeneric covers ordinary hello extensions.
	ParseGeneric
	// ParseTLS13 covers TLS 1.3 negotiation extensions, handled in a
	// dedicated early pass.
	ParseTLS13
	// ParsePreSharedKey covers pre-shared-key extensions, handled last.
	ParsePreSharedKey
)

// MsgFlags is a bitset over handshake message types. A Descriptor's
// Validity holds the messages the extension may appear in.
type MsgFlags uint32

const (
	MsgClientHello MsgFlags = 1 << iota
	MsgTLS12ServerHello
	MsgTLS13ServerHello
	MsgEncryptedExtensions
	MsgCertificateRequest
	MsgNewSessionTicket
	MsgHelloRetryRequest

	// FlagOverrideBuiltin allows a session-scope registration to shadow
	// a non-protected built-in with the same wire identifier.
	FlagOverrideBuiltin MsgFlags = 1 << 16
)

const validityMask = MsgClientHello | MsgTLS12ServerHello | MsgTLS13ServerHello |
	MsgEncryptedExtensions | MsgCertificateRequest | MsgNewSessionTicket |
	MsgHelloRetryRequest

// defaultValidity applies to registrations that carry no validity flags.
const defaultValidity = MsgClientHello | MsgTLS12ServerHello | MsgEncryptedExtensions

func msgValidityString(msg MsgFlags) string {
	switch msg {
	case MsgClientHello:
		return "client hello"
	case MsgTLS12ServerHello:
		return "TLS 1.2 server hello"
	case MsgTLS13ServerHello:
		return "TLS 1.3 server hello"
	case MsgEncryptedExtensions:
		return "encrypted extensions"
	case MsgCertificateRequest:
		return "certificate request"
	case MsgNewSessionTicket:
		return "new session ticket"
	case MsgHelloRetryRequest:
		return "hello retry request"
	default:
		return "(unknown)"
	}
}

// SendStatus is the result of a send handler, separate from its error.
type SendStatus int

const (
	// SendOmit leaves the extension out of the generated vector.
	SendOmit SendStatus = iota
	// SendWrote emits the extension with the bytes appended to the
	// handler's builder.
	SendWrote
	// SendPresent emits the extension with a zero-length payload; used
	// by extensions that must be present but carry no data.
	SendPresent
)

// RecvFunc processes the payload of one received extension record. The
// payload slice is only valid for the duration of the call. A returned
// error aborts parsing of the whole vector.
type RecvFunc func(s *Session, data []byte) error

// SendFunc appends an extension payload to b and reports whether the
// extension should be emitted.
type SendFunc func(s *Session, b *cryptobyte.Builder) (SendStatus, error)

// DeinitFunc releases an extension's private data. It is required for
// any extension that stores private data needing cleanup; without it the
// prior value is dropped without side effects.
type DeinitFunc func(priv interface{})

// PackFunc serializes an extension's private data for session
// resumption.
type PackFunc func(priv interface{}, b *cryptobyte.Builder) error

// UnpackFunc deserializes private data produced by the matching
// PackFunc. It must consume exactly the bytes its pack counterpart
// wrote; the resumption engine verifies the count.
type UnpackFunc func(data *cryptobyte.String) (interface{}, error)

// Handlers bundles an extension's capabilities. Every field is optional;
// an extension implementing Pack must implement Unpack, and one that
// ever stores private data requiring cleanup must implement Deinit.
type Handlers struct {
	Recv   RecvFunc
	Send   SendFunc
	Deinit DeinitFunc
	Pack   PackFunc
	Unpack UnpackFunc
}

// Descriptor describes one registered extension: its identity, where it
// may appear, and its handler capabilities.
type Descriptor struct {
	// Name is the human-readable extension name, used in logs.
	Name string

	// WireID is the IANA extension type transmitted on the wire.
	WireID uint16

	// ParseType is the category the extension is dispatched in.
	ParseType ParseType

	// Validity is the set of handshake messages the extension may
	// appear in.
	Validity MsgFlags

	// Handlers are the extension's capabilities.
	Handlers Handlers

	// id is the process-local identifier, assigned at registration.
	id ExtensionID

	// protected built-ins cannot be shadowed by session-scope
	// registrations even with FlagOverrideBuiltin.
	protected bool

	// owned marks descriptors registered at runtime; Shutdown removes
	// them from the process table. Built-ins are never removed.
	owned bool
}

// ID returns the process-local identifier assigned to the extension.
func (d *Descriptor) ID() ExtensionID {
	return d.id
}
