// Copyright 2021 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"strings"

	dnfile "github.com/malwarefrank/dnfile"
)

func dumpCLRHeader(pe *dnfile.File) {
	hdr := pe.CLR.CLRHeader
	mh := pe.CLR.MetadataHeader

	fmt.Print("\n------[ CLR Header ]------\n\n")
	fmt.Printf("Size:                   0x%x\n", hdr.Cb)
	fmt.Printf("Runtime version:        %d.%d\n",
		hdr.MajorRuntimeVersion, hdr.MinorRuntimeVersion)
	fmt.Printf("MetaData:               RVA 0x%x, size 0x%x\n",
		hdr.MetaData.VirtualAddress, hdr.MetaData.Size)
	fmt.Printf("Flags:                  0x%x (%s)\n", uint32(hdr.Flags),
		strings.Join(hdr.Flags.String(), " | "))
	fmt.Printf("EntryPoint (token/RVA): 0x%x\n", hdr.EntryPointRVAorToken)
	fmt.Printf("Resources:              RVA 0x%x, size 0x%x\n",
		hdr.Resources.VirtualAddress, hdr.Resources.Size)
	fmt.Printf("StrongNameSignature:    RVA 0x%x, size 0x%x\n",
		hdr.StrongNameSignature.VirtualAddress, hdr.StrongNameSignature.Size)

	fmt.Print("\n------[ Metadata Root ]------\n\n")
	fmt.Printf("Signature:   0x%x\n", mh.Signature)
	fmt.Printf("Version:     %d.%d (%s)\n", mh.MajorVersion, mh.MinorVersion, mh.Version)
	fmt.Printf("Streams:     %d\n", mh.Streams)
}

func dumpStreams(pe *dnfile.File) {
	fmt.Print("\n------[ Metadata Streams ]------\n\n")
	for _, sh := range pe.CLR.MetadataStreamHeaders {
		fmt.Printf("%-12s offset 0x%-8x size 0x%x\n", sh.Name, sh.Offset, sh.Size)
	}
}

func dumpTables(pe *dnfile.File) {
	if pe.CLR.Tables == nil {
		fmt.Println("no metadata tables stream")
		return
	}

	fmt.Print("\n------[ Metadata Tables ]------\n\n")
	hdr := pe.CLR.Tables.Header
	fmt.Printf("Schema version: %d.%d\n", hdr.MajorVersion, hdr.MinorVersion)
	fmt.Printf("MaskValid:      0x%x\n", hdr.MaskValid)
	fmt.Printf("MaskSorted:     0x%x\n\n", hdr.MaskSorted)

	for _, t := range pe.CLR.Tables.Tables() {
		fmt.Printf("%-24s number %-3d rows %-6d row size %-3d sorted %v\n",
			t.Name, t.Number, t.NumRows, t.RowSize, t.IsSorted)
	}
}

func dumpUserStrings(pe *dnfile.File) {
	us := pe.CLR.UserStrings
	if us == nil {
		fmt.Println("no #US stream")
		return
	}

	fmt.Print("\n------[ User Strings ]------\n\n")
	// Walk the heap; index 0 is reserved.
	offset := uint32(1)
	for offset < uint32(len(us.Data)) {
		item, err := us.Get(offset)
		if err != nil {
			break
		}
		if item.RawSize() == 0 {
			break
		}
		if item.Size.Value > 0 {
			if item.Decoded {
				fmt.Printf("0x%-8x %q\n", offset, item.Value)
			} else {
				fmt.Printf("0x%-8x %x (undecodable)\n", offset, item.ValueBytes())
			}
		}
		offset += item.RawSize()
	}
}

func dumpResources(pe *dnfile.File) {
	fmt.Print("\n------[ Manifest Resources ]------\n\n")
	for _, res := range pe.CLR.Resources() {
		visibility := "private"
		if res.Public {
			visibility = "public"
		}
		fmt.Printf("%-40s %-8s offset 0x%-8x size %d\n",
			res.Name, visibility, res.Offset, len(res.Data))
	}
}
