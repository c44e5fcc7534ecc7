// Copyright 2026 The gnutls-go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// extdump decodes a hello extension vector and prints one line per
// extension record with its IANA name.
//
// Usage:
//
//	extdump 000a000500030268320015...
//	cat vector.hex | extdump
//
// The input is the hex-encoded vector as it appears on the wire,
// starting with the 2-byte total length.
package main

import (
	"bufio"
	"encoding/hex"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"golang.org/x/crypto/cryptobyte"

	"github.com/pmgdeb/gnutls"
)

func main() {
	flag.Parse()

	input := strings.Join(flag.Args(), "")
	if input == "" {
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			input += strings.TrimSpace(scanner.Text())
		}
		if err := scanner.Err(); err != nil {
			log.Fatalf("reading stdin: %v", err)
		}
	}
	input = strings.ReplaceAll(input, " ", "")

	data, err := hex.DecodeString(input)
	if err != nil {
		log.Fatalf("decoding hex: %v", err)
	}
	if err := dump(data); err != nil {
		log.Fatalf("decoding vector: %v", err)
	}
}

func dump(data []byte) error {
	if len(data) == 0 {
		fmt.Println("empty vector")
		return nil
	}

	str := cryptobyte.String(data)
	var exts cryptobyte.String
	if !str.ReadUint16LengthPrefixed(&exts) || !str.Empty() {
		return fmt.Errorf("bad vector framing")
	}

	for !exts.Empty() {
		var wireID uint16
		var body cryptobyte.String
		if !exts.ReadUint16(&wireID) || !exts.ReadUint16LengthPrefixed(&body) {
			return fmt.Errorf("truncated record")
		}
		name := gnutls.ExtensionName(wireID)
		if name == "" {
			name = "unassigned"
		}
		fmt.Printf("%5d  %-45s %4d bytes  %x\n", wireID, name, len(body), []byte(body))
	}
	return nil
}
