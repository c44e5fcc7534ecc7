// Copyright 2026 The gnutls-go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gnutls

import (
	"github.com/pmgdeb/gnutls/dicttls"
)

// extRegistry is the process-wide extension table: the built-ins in their
// fixed seeding order plus any runtime registrations, and a dedicated
// tail entry that is always iterated last. Generation order follows
// iteration order, and the ClientHello padding workaround only works if
// it is the final extension written, so the tail is structural rather
// than an accident of array position.
type extRegistry struct {
	entries []*Descriptor
	tail    *Descriptor
}

// processExts is seeded in builtin.go. Mutation (Register, Shutdown) is
// not safe for concurrent use; it is expected to happen during
// single-threaded process initialization and shutdown.
var processExts = &extRegistry{}

func (r *extRegistry) forEach(fn func(d *Descriptor) bool) {
	for _, d := range r.entries {
		if !fn(d) {
			return
		}
	}
	if r.tail != nil {
		fn(r.tail)
	}
}

func (r *extRegistry) byWire(wireID uint16) *Descriptor {
	var found *Descriptor
	r.forEach(func(d *Descriptor) bool {
		if d.WireID == wireID {
			found = d
			return false
		}
		return true
	})
	return found
}

func (r *extRegistry) byID(id ExtensionID) *Descriptor {
	var found *Descriptor
	r.forEach(func(d *Descriptor) bool {
		if d.id == id {
			found = d
			return false
		}
		return true
	})
	return found
}

// nextID returns the smallest unused internal identifier above every
// identifier in the process table.
func (r *extRegistry) nextID() ExtensionID {
	var max ExtensionID
	r.forEach(func(d *Descriptor) bool {
		if d.id > max {
			max = d.id
		}
		return true
	})
	return max + 1
}

func (r *extRegistry) size() int {
	n := len(r.entries)
	if r.tail != nil {
		n++
	}
	return n
}

// Register adds an extension to the process-wide table. The extension
// remains registered until Shutdown. Registrations made here are valid
// for the client hello and the TLS 1.2 server hello (or encrypted
// extensions for TLS 1.3).
//
// Register fails with ErrAlreadyRegistered if the wire identifier
// collides with any process-wide extension, and with ErrCapacityExceeded
// if the table or the internal identifier space is full.
//
// This function is not safe for concurrent use; call it during process
// initialization.
func Register(name string, wireID uint16, parseType ParseType, h Handlers) error {
	if processExts.byWire(wireID) != nil {
		return ErrAlreadyRegistered
	}

	id := processExts.nextID()
	if id > maxExtensionID || processExts.size() >= maxExtTypes {
		return ErrCapacityExceeded
	}

	processExts.entries = append(processExts.entries, &Descriptor{
		Name:      name,
		WireID:    wireID,
		ParseType: parseType,
		Validity:  defaultValidity,
		Handlers:  h,
		id:        id,
		owned:     true,
	})
	return nil
}

// Shutdown removes every extension added with Register from the
// process-wide table. Built-ins stay. Like Register, it must not run
// concurrently with handshakes.
func Shutdown() {
	kept := processExts.entries[:0]
	for _, d := range processExts.entries {
		if !d.owned {
			kept = append(kept, d)
		}
	}
	for i := len(kept); i < len(processExts.entries); i++ {
		processExts.entries[i] = nil
	}
	processExts.entries = kept
}

// ExtensionName converts a TLS extension type to a printable name. It
// consults the process-wide table first and falls back to the IANA
// registry; unassigned types yield "".
func ExtensionName(wireID uint16) string {
	if d := processExts.byWire(wireID); d != nil {
		return d.Name
	}
	return dicttls.ExtensionName(wireID)
}

// Register adds a session-scope extension, valid only for this session.
// Session-scope extensions shadow process-wide ones with the same wire
// identifier during lookup and are generated ahead of them.
//
// A collision with a process-wide extension fails with
// ErrAlreadyRegistered unless flags carries FlagOverrideBuiltin and the
// built-in is not protected. An override takes over the built-in's
// internal identifier, so the built-in is fully shadowed: lookup, the
// negotiated bitmap, and private-data slots all resolve to the override.
// A collision with another session-scope extension always fails.
//
// flags may carry validity bits from MsgFlags; with none set the
// registration is valid for the client hello and the TLS 1.2 server
// hello (or encrypted extensions for TLS 1.3).
func (s *Session) Register(name string, wireID uint16, parseType ParseType, h Handlers, flags MsgFlags) error {
	var overrideID ExtensionID
	if d := processExts.byWire(wireID); d != nil {
		if flags&FlagOverrideBuiltin == 0 || d.protected {
			return ErrAlreadyRegistered
		}
		overrideID = d.id
	}

	id := processExts.nextID()
	for _, d := range s.exts {
		if d.WireID == wireID {
			return ErrAlreadyRegistered
		}
		if d.id >= id {
			id = d.id + 1
		}
	}
	if overrideID != 0 {
		id = overrideID
	}

	if id > maxExtensionID {
		return ErrCapacityExceeded
	}

	validity := flags & validityMask
	if validity == 0 {
		validity = defaultValidity
	}

	s.exts = append(s.exts, &Descriptor{
		Name:      name,
		WireID:    wireID,
		ParseType: parseType,
		Validity:  validity,
		Handlers:  h,
		id:        id,
		owned:     true,
	})
	return nil
}

// extPtr resolves an internal identifier to its descriptor, session
// table first, constrained by parseType unless ParseAny.
func (s *Session) extPtr(id ExtensionID, parseType ParseType) *Descriptor {
	var e *Descriptor
	for _, d := range s.exts {
		if d.id == id {
			e = d
			break
		}
	}
	if e == nil {
		e = processExts.byID(id)
	}
	if e == nil {
		return nil
	}
	if parseType != ParseAny && e.ParseType != parseType {
		return nil
	}
	return e
}

// wireToID translates a wire identifier to the internal identifier it is
// registered under, session table first. Zero means unregistered.
func (s *Session) wireToID(wireID uint16) ExtensionID {
	for _, d := range s.exts {
		if d.WireID == wireID {
			return d.id
		}
	}
	if d := processExts.byWire(wireID); d != nil {
		return d.id
	}
	return 0
}
