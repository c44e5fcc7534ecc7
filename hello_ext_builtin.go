// Copyright 2026 The gnutls-go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gnutls

// Wire identifiers of the built-in extensions (IANA TLS ExtensionType
// values).
const (
	wireServerName          uint16 = 0
	wireMaxFragmentLength   uint16 = 1
	wireALPN                uint16 = 16
	wirePadding             uint16 = 21
	wireExtendedMasterSecret uint16 = 23
	wireCompressCertificate uint16 = 27
	wireSessionTicket       uint16 = 35
	wireEarlyData           uint16 = 42
	wireSupportedVersions   uint16 = 43
)

// TLS protocol versions carried by the supported_versions extension.
const (
	VersionTLS12 uint16 = 0x0303
	VersionTLS13 uint16 = 0x0304
)

// The built-in extensions, seeded in a fixed order. Generation iterates
// this order, and the padding workaround entry is the registry tail so
// that it is always the last extension considered, regardless of later
// registrations.
func init() {
	processExts.entries = []*Descriptor{
		extModMaxFragmentLength,
		extModExtendedMasterSecret,
		extModSupportedVersions,
		extModServerName,
		extModSessionTicket,
		extModALPN,
		extModCompressCertificate,
		extModEarlyData,
	}
	processExts.tail = extModPadding
}
