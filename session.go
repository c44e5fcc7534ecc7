// Copyright 2026 The gnutls-go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gnutls

// Session holds the per-connection state of the extension framework: the
// session-scope registry, the negotiated-extension bitmap, and the
// private-data slots of every extension in use. A Session is owned by
// the goroutine driving its handshake and needs no locking.
type Session struct {
	role Role

	// exts holds session-scope registrations, consulted before the
	// process-wide table.
	exts []*Descriptor

	// used is the negotiated-extension bitmap, indexed by internal
	// identifier. On a server it records what the client hello offered;
	// on a client it records what this side sent, so responses can be
	// checked against it.
	used uint64

	// data holds extension private data, first-fit indexed (an
	// identifier is matched by linear scan; a free slot has neither
	// half occupied).
	data [maxExtTypes]extDataSlot

	// HelloLen is the length of the handshake message built so far,
	// before the extension vector. The padding workaround extension
	// reads it, together with the running vector length, to size its
	// payload. Callers that generate a ClientHello should set it.
	HelloLen int

	// genLen is the number of vector bytes written so far by the
	// current GenerateExtensions pass.
	genLen int
}

// extDataSlot stores one extension's private data. The active half
// belongs to the running handshake; the resumed half carries data
// restored from a packed session. The halves are occupied and
// deinitialized independently.
type extDataSlot struct {
	id          ExtensionID
	priv        interface{}
	resumedPriv interface{}
	set         bool
	resumedSet  bool
}

// NewSession returns an extension framework session for one side of a
// connection.
func NewSession(role Role) *Session {
	return &Session{role: role}
}

// Role returns which side of the connection this session drives.
func (s *Session) Role() Role {
	return s.role
}

func (s *Session) markNegotiated(id ExtensionID) {
	s.used |= 1 << id
}

func (s *Session) negotiated(id ExtensionID) bool {
	return s.used&(1<<id) != 0
}

// slotFor returns the index of the slot holding id, or the first slot
// with neither half occupied, or -1.
func (s *Session) slotFor(id ExtensionID) int {
	free := -1
	for i := range s.data {
		if s.data[i].id == id && (s.data[i].set || s.data[i].resumedSet) {
			return i
		}
		if free < 0 && !s.data[i].set && !s.data[i].resumedSet {
			free = i
		}
	}
	return free
}

func (s *Session) deinitSlot(idx int) {
	d := &s.data[idx]
	if !d.set {
		return
	}
	if ext := s.extPtr(d.id, ParseAny); ext != nil && ext.Handlers.Deinit != nil && d.priv != nil {
		ext.Handlers.Deinit(d.priv)
	}
	d.priv = nil
	d.set = false
}

func (s *Session) deinitResumedSlot(idx int) {
	d := &s.data[idx]
	if !d.resumedSet {
		return
	}
	if ext := s.extPtr(d.id, ParseAny); ext != nil && ext.Handlers.Deinit != nil && d.resumedPriv != nil {
		ext.Handlers.Deinit(d.resumedPriv)
	}
	d.resumedPriv = nil
	d.resumedSet = false
}

// setSessionData stores priv as the active private data for id, first
// deinitializing any active value the identifier's slot already holds.
func (s *Session) setSessionData(id ExtensionID, priv interface{}) {
	idx := s.slotFor(id)
	if idx < 0 {
		return
	}
	s.deinitSlot(idx)
	s.data[idx].id = id
	s.data[idx].priv = priv
	s.data[idx].set = true
}

func (s *Session) sessionData(id ExtensionID) (interface{}, bool) {
	for i := range s.data {
		if s.data[i].set && s.data[i].id == id {
			return s.data[i].priv, true
		}
	}
	return nil, false
}

func (s *Session) unsetSessionData(id ExtensionID) {
	for i := range s.data {
		if s.data[i].set && s.data[i].id == id {
			s.deinitSlot(i)
			return
		}
	}
}

// setResumedData stores priv as the resumed private data for id,
// deinitializing any resumed value already held.
func (s *Session) setResumedData(id ExtensionID, priv interface{}) {
	idx := s.slotFor(id)
	if idx < 0 {
		return
	}
	s.deinitResumedSlot(idx)
	s.data[idx].id = id
	s.data[idx].resumedPriv = priv
	s.data[idx].resumedSet = true
}

func (s *Session) resumedData(id ExtensionID) (interface{}, bool) {
	for i := range s.data {
		if s.data[i].resumedSet && s.data[i].id == id {
			return s.data[i].resumedPriv, true
		}
	}
	return nil, false
}

func (s *Session) unsetResumedData(id ExtensionID) {
	for i := range s.data {
		if s.data[i].resumedSet && s.data[i].id == id {
			s.deinitResumedSlot(i)
			return
		}
	}
}

// SetData stores private data for the extension registered under the
// given wire identifier. Extension handlers use it to keep state across
// handler invocations; callers use it to hand data to send handlers.
// Any active value already stored is deinitialized first. Unregistered
// wire identifiers are ignored.
func (s *Session) SetData(wireID uint16, priv interface{}) {
	id := s.wireToID(wireID)
	if id == 0 {
		return
	}
	s.setSessionData(id, priv)
}

// Data retrieves private data previously stored with SetData or by a
// receive handler.
func (s *Session) Data(wireID uint16) (interface{}, bool) {
	id := s.wireToID(wireID)
	if id == 0 {
		return nil, false
	}
	return s.sessionData(id)
}

// UnsetData deinitializes and clears the active private data stored for
// the given wire identifier.
func (s *Session) UnsetData(wireID uint16) {
	id := s.wireToID(wireID)
	if id == 0 {
		return
	}
	s.unsetSessionData(id)
}

// ResumedData retrieves private data restored by Unpack from a packed
// session. Extension logic decides whether to promote it into the new
// handshake.
func (s *Session) ResumedData(wireID uint16) (interface{}, bool) {
	id := s.wireToID(wireID)
	if id == 0 {
		return nil, false
	}
	return s.resumedData(id)
}

// Close deinitializes both halves of every occupied private-data slot,
// in slot order. It must run when the connection ends, including after
// an aborted handshake.
func (s *Session) Close() {
	for i := range s.data {
		if !s.data[i].set && !s.data[i].resumedSet {
			continue
		}
		s.deinitSlot(i)
		s.deinitResumedSlot(i)
	}
	s.exts = nil
}
