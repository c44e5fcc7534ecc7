// Copyright 2026 The gnutls-go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gnutls

import (
	"golang.org/x/crypto/cryptobyte"
)

// padding (RFC 7685), the workaround for middleboxes that hang on
// ClientHello messages between 256 and 511 bytes: short hellos in that
// window are padded into the 512-byte bucket, BoringSSL style. Padding
// must be the very last extension written or the computed size is wrong,
// which is why this descriptor lives in the registry's tail slot and is
// protected from session-scope override.

var extModPadding = &Descriptor{
	Name:      "padding",
	WireID:    wirePadding,
	ParseType: ParseGeneric,
	Validity:  MsgClientHello,
	Handlers: Handlers{
		Send: sendPadding,
	},
	id:        extensionPadding,
	protected: true,
}

// paddingSize reports how many zero bytes of padding payload a hello of
// unpaddedLen needs, and whether the extension should be sent at all.
//
// https://github.com/google/boringssl/blob/7d7554b6/ssl/t1_lib.c#L2803
func paddingSize(unpaddedLen int) (int, bool) {
	if unpaddedLen <= 0xff || unpaddedLen >= 0x200 {
		return 0, false
	}
	padding := 0x200 - unpaddedLen
	// The extension header is 4 bytes; it counts toward the target.
	if padding >= 4+1 {
		padding -= 4
	} else {
		padding = 1
	}
	return padding, true
}

func sendPadding(s *Session, b *cryptobyte.Builder) (SendStatus, error) {
	// HelloLen is the message before the extension vector; add the
	// vector's 2-byte length prefix and what the pass has written.
	unpadded := s.HelloLen + 2 + s.genLen
	padding, willPad := paddingSize(unpadded)
	if !willPad {
		return SendOmit, nil
	}
	if padding == 0 {
		return SendPresent, nil
	}
	b.AddBytes(make([]byte, padding))
	return SendWrote, nil
}
