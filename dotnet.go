// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package dnfile

import (
	"fmt"
)

// References
// https://www.ntcore.com/files/dotnetformat.htm
// ECMA-335 6th edition, June 2012

// CLRMetadataSignature is the magic signature of the metadata root,
// 0x424A5342, read as characters: BSJB.
const CLRMetadataSignature = 0x424A5342

// COMImageFlagsType represents a COM+ header entry point flag type.
type COMImageFlagsType uint32

// COM+ Header entry point flags.
const (
	// The image file contains IL code only, with no embedded native
	// unmanaged code except the start-up stub (which simply executes an
	// indirect jump to the CLR entry point).
	COMImageFlagsILOnly = 0x00000001

	// The image file can be loaded only into a 32-bit process.
	COMImageFlags32BitRequired = 0x00000002

	// This flag is obsolete and should not be set. Setting it renders
	// the module un-loadable.
	COMImageFlagILLibrary = 0x00000004

	// The image file is protected with a strong name signature.
	COMImageFlagsStrongNameSigned = 0x00000008

	// The executable's entry point is an unmanaged method. The
	// EntryPointToken/EntryPointRVA field of the CLR header contains the
	// RVA of this native method.
	COMImageFlagsNativeEntrypoint = 0x00000010

	// The CLR loader and the JIT compiler are required to track debug
	// information about the methods. This flag is not used.
	COMImageFlagsTrackDebugData = 0x00010000

	// The image file can be loaded into any process, but preferably into
	// a 32-bit process. Can be set only together with
	// COMImageFlags32BitRequired.
	COMImageFlags32BitPreferred = 0x00020000
)

// V-table constants.
const (
	// V-table slots are 32-bits in size.
	CORVTable32Bit = 0x01

	// V-table slots are 64-bits in size.
	CORVTable64Bit = 0x02

	// The thunk created by the common language runtime must provide data
	// marshaling between managed and unmanaged code.
	CORVTableFromUnmanaged = 0x04

	// Like CORVTableFromUnmanaged, with the current appdomain selected to
	// dispatch the call.
	CORVTableFromUnmanagedRetainAppDomain = 0x08

	// Call most derived method.
	CORVTableCallMostDerived = 0x10
)

// ImageDataDirectory represents the directory format.
type ImageDataDirectory struct {

	// The relative virtual address of the table.
	VirtualAddress uint32 `json:"virtual_address"`

	// The size of the table, in bytes.
	Size uint32 `json:"size"`
}

// ImageCOR20Header represents the CLR 2.0 header structure.
type ImageCOR20Header struct {

	// Size of the header in bytes.
	Cb uint32 `json:"cb"`

	// Major number of the minimum version of the runtime required to run
	// the program.
	MajorRuntimeVersion uint16 `json:"major_runtime_version"`

	// Minor number of the version of the runtime required to run the
	// program.
	MinorRuntimeVersion uint16 `json:"minor_runtime_version"`

	// RVA and size of the metadata.
	MetaData ImageDataDirectory `json:"meta_data"`

	// Bitwise flags indicating attributes of this executable.
	Flags COMImageFlagsType `json:"flags"`

	// Metadata identifier (token) of the entry point for the image file;
	// can be 0 for DLL images. If COMImageFlagsNativeEntrypoint is set,
	// this field instead carries the RVA of an embedded native entry
	// point method.
	EntryPointRVAorToken uint32 `json:"entry_point_rva_or_token"`

	// This is the blob of managed resources. The metadata has a table
	// that maps names to offsets into this blob, so logically the blob
	// is a set of resources.
	Resources ImageDataDirectory `json:"resources"`

	// RVA and size of the hash data for this PE file, used by the loader
	// for binding and versioning.
	StrongNameSignature ImageDataDirectory `json:"strong_name_signature"`

	// RVA and size of the Code Manager table. In the existing releases of
	// the runtime, this field is reserved and must be set to 0.
	CodeManagerTable ImageDataDirectory `json:"code_manager_table"`

	// RVA and size in bytes of an array of virtual table (v-table) fixups.
	VTableFixups ImageDataDirectory `json:"vtable_fixups"`

	// RVA and size of an array of addresses of jump thunks. In v2.0+ of
	// CLR this entry is obsolete and must be set to 0.
	ExportAddressTableJumps ImageDataDirectory `json:"export_address_table_jumps"`

	// Reserved for precompiled images; set to 0.
	ManagedNativeHeader ImageDataDirectory `json:"managed_native_header"`
}

// ImageCORVTableFixup defines the v-table fixups that contain the
// initializing information necessary for the runtime to create the thunks.
// Each entry describes a contiguous array of v-table slots.
type ImageCORVTableFixup struct {
	RVA   uint32 `json:"rva"`   // Offset of v-table array in image.
	Count uint16 `json:"count"` // How many entries at location.
	Type  uint16 `json:"type"`  // COR_VTABLE_xxx type of entries.
}

// MetadataHeader consists of a storage signature and a storage header.
type MetadataHeader struct {

	// "Magic" signature for physical metadata, currently 0x424A5342, or,
	// read as characters, BSJB.
	Signature uint32 `json:"signature"`

	// Major version.
	MajorVersion uint16 `json:"major_version"`

	// Minor version.
	MinorVersion uint16 `json:"minor_version"`

	// Reserved; set to 0.
	ExtraData uint32 `json:"extra_data"`

	// Length of the version string, including any padding up to the next
	// 4-byte boundary.
	VersionString uint32 `json:"version_string"`

	// Version string.
	Version string `json:"version"`

	// Reserved; set to 0.
	Flags uint8 `json:"flags"`

	// Number of streams.
	Streams uint16 `json:"streams"`
}

// MetadataStreamHeader represents a Metadata Stream Header Structure.
type MetadataStreamHeader struct {
	// Offset in the file for this stream, relative to the metadata root.
	Offset uint32 `json:"offset"`

	// Size of the stream in bytes.
	Size uint32 `json:"size"`

	// Name of the stream; a zero-terminated ASCII string no longer than
	// 31 characters (plus zero terminator), padded to a 4-byte boundary.
	Name string `json:"name"`
}

// MetadataTableStreamHeader represents the Metadata Table Stream Header
// Structure.
type MetadataTableStreamHeader struct {
	// Reserved; set to 0.
	Reserved uint32 `json:"reserved"`

	// Major version of the table schema.
	MajorVersion uint8 `json:"major_version"`

	// Minor version of the table schema.
	MinorVersion uint8 `json:"minor_version"`

	// Binary flags indicating the offset sizes to be used within the
	// heaps, plus the delta-only, extra-data, and has-delete markers.
	Heaps uint8 `json:"heaps"`

	// Bit width of the maximal record index to all tables of the
	// metadata.
	RID uint8 `json:"rid"`

	// Bit vector of present tables, each bit representing one table
	// (1 if present).
	MaskValid uint64 `json:"mask_valid"`

	// Bit vector of sorted tables, each bit representing a respective
	// table (1 if sorted).
	MaskSorted uint64 `json:"mask_sorted"`
}

// CLRData embeds the Common Language Runtime header structure, the
// metadata root, every stream, and the decoded metadata tables.
type CLRData struct {
	CLRHeader             ImageCOR20Header           `json:"clr_header"`
	MetadataHeader        MetadataHeader             `json:"metadata_header"`
	MetadataStreamHeaders []MetadataStreamHeader     `json:"metadata_stream_headers"`
	MetadataStreams       map[string]*MetadataStream `json:"-"`
	Tables                *MetadataTables            `json:"metadata_tables"`

	// Heap shortcuts. When one image carries several streams with the
	// same name, these point at the last instance, matching the dotnet
	// runtime.
	Strings     *StringsHeap    `json:"-"`
	UserStrings *UserStringHeap `json:"-"`
	GUIDs       *GuidHeap       `json:"-"`
	Blobs       *BlobHeap       `json:"-"`

	resources       []ClrResource
	resourcesParsed bool
	pe              *File
}

// The 15th directory entry of the PE header contains the RVA and size of
// the runtime header in the image file.
//
// The .NET loader ignores the optional header's NumberOfRvaAndSizes, so
// the COM descriptor entry is read at its fixed slot even when the
// declared directory count does not cover it.
func (pe *File) ParseCLRHeaderDirectory() error {
	dir := pe.DataDirectoryEntry(ImageDirectoryEntryCLR)
	if dir.VirtualAddress == 0 || dir.Size == 0 {
		return nil
	}
	return pe.parseCLRHeaderDirectory(dir.VirtualAddress, dir.Size)
}

func (pe *File) parseCLRHeaderDirectory(rva, size uint32) error {

	clrHeader := ImageCOR20Header{}
	offset := pe.GetOffsetFromRva(rva)
	err := pe.structUnpack(&clrHeader, offset, size)
	if err != nil {
		return err
	}

	pe.CLR.CLRHeader = clrHeader
	pe.CLR.pe = pe
	if clrHeader.MetaData.VirtualAddress == 0 || clrHeader.MetaData.Size == 0 {
		return nil
	}

	// If we get a CLR header, we assume that this is enough to say we
	// have CLR data to show even if parsing other structures fails later.
	pe.HasCLR = true

	metadataRVA := clrHeader.MetaData.VirtualAddress
	offset = pe.GetOffsetFromRva(metadataRVA)
	mh, err := pe.parseMetadataHeader(offset)
	pe.CLR.MetadataHeader = mh
	if err != nil {
		return err
	}

	pe.CLR.MetadataStreams = make(map[string]*MetadataStream)
	offset += 16 + mh.VersionString + 4

	// Immediately following the MetadataHeader is a series of Stream
	// Headers. A "stream" is to the metadata what a "section" is to the
	// assembly.
	for i := uint16(0); i < mh.Streams; i++ {
		sh := MetadataStreamHeader{}
		if sh.Offset, err = pe.ReadUint32(offset); err != nil {
			return err
		}
		if sh.Size, err = pe.ReadUint32(offset + 4); err != nil {
			return err
		}

		// Name requires a special treatment: NUL-terminated, padded up to
		// the next 4-byte boundary (including the terminator).
		offset += 8
		for j := uint32(0); j <= 32; j++ {
			var c uint8
			if c, err = pe.ReadUint8(offset); err != nil {
				return err
			}

			offset++
			if c == 0 && (j+1)%4 == 0 {
				break
			}
			if c != 0 {
				sh.Name += string(c)
			}
		}

		stream := &MetadataStream{
			Header:     sh,
			RVA:        metadataRVA + sh.Offset,
			FileOffset: pe.GetOffsetFromRva(metadataRVA + sh.Offset),
		}
		start := stream.FileOffset
		end := start + sh.Size
		if start <= pe.size {
			if end > pe.size || end < start {
				end = pe.size
				pe.addWarning(fmt.Sprintf(
					"stream %s is truncated by the end of the file", sh.Name))
			}
			stream.Data = pe.data[start:end]
		}

		// Save the stream into the map. If a stream with this name
		// already exists, the last one wins, matching the runtime.
		if _, dup := pe.CLR.MetadataStreams[sh.Name]; dup {
			pe.addWarning(fmt.Sprintf("duplicate .NET stream name '%s'", sh.Name))
		}
		pe.CLR.MetadataStreams[sh.Name] = stream
		pe.CLR.MetadataStreamHeaders = append(pe.CLR.MetadataStreamHeaders, sh)

		switch sh.Name {
		case "#~", "#-":
			// handled below, after all heaps are known.
		case "#Strings":
			pe.CLR.Strings = &StringsHeap{MetadataStream: *stream}
		case "#US":
			pe.CLR.UserStrings = &UserStringHeap{MetadataStream: *stream}
		case "#GUID":
			pe.CLR.GUIDs = &GuidHeap{MetadataStream: *stream}
		case "#Blob":
			pe.CLR.Blobs = &BlobHeap{MetadataStream: *stream}
		default:
			pe.logger.Debugf("unknown .NET stream name '%s' preserved as a generic stream", sh.Name)
		}
	}

	// The streams #~ and #- are mutually exclusive; the metadata structure
	// of the module is either optimized or un-optimized, never both. Decode
	// the last tables stream present.
	var tablesStream *MetadataStream
	for _, sh := range pe.CLR.MetadataStreamHeaders {
		if sh.Name == "#~" || sh.Name == "#-" {
			tablesStream = pe.CLR.MetadataStreams[sh.Name]
		}
	}
	if tablesStream == nil {
		return nil
	}

	tables, err := parseMetadataTables(tablesStream.Data, tablesStream.RVA,
		tablesStream.FileOffset, pe.CLR.Strings, pe.CLR.UserStrings,
		pe.CLR.GUIDs, pe.CLR.Blobs, pe.opts.LazyLoadTables, pe.addWarning)
	if err != nil {
		pe.addWarning(fmt.Sprintf("unable to parse .NET metadata tables: %v", err))
		return err
	}
	pe.CLR.Tables = tables

	return nil
}

// parseMetadataHeader reads the metadata root at the given file offset.
func (pe *File) parseMetadataHeader(offset uint32) (MetadataHeader, error) {
	var err error
	mh := MetadataHeader{}

	if mh.Signature, err = pe.ReadUint32(offset); err != nil {
		return mh, err
	}
	if mh.Signature != CLRMetadataSignature {
		return mh, fmt.Errorf("%w: invalid metadata signature 0x%x",
			ErrInvalidFormat, mh.Signature)
	}
	if mh.MajorVersion, err = pe.ReadUint16(offset + 4); err != nil {
		return mh, err
	}
	if mh.MinorVersion, err = pe.ReadUint16(offset + 6); err != nil {
		return mh, err
	}
	if mh.ExtraData, err = pe.ReadUint32(offset + 8); err != nil {
		return mh, err
	}
	if mh.VersionString, err = pe.ReadUint32(offset + 12); err != nil {
		return mh, err
	}
	mh.Version, err = pe.getStringAtOffset(offset+16, mh.VersionString)
	if err != nil {
		return mh, err
	}

	offset += 16 + mh.VersionString
	if mh.Flags, err = pe.ReadUint8(offset); err != nil {
		return mh, err
	}

	if mh.Streams, err = pe.ReadUint16(offset + 2); err != nil {
		return mh, err
	}

	return mh, err
}

// String returns a string interpretation of a COMImageFlags type.
func (flags COMImageFlagsType) String() []string {
	COMImageFlags := map[COMImageFlagsType]string{
		COMImageFlagsILOnly:           "IL Only",
		COMImageFlags32BitRequired:    "32-Bit Required",
		COMImageFlagILLibrary:         "IL Library",
		COMImageFlagsStrongNameSigned: "Strong Name Signed",
		COMImageFlagsNativeEntrypoint: "Native Entrypoint",
		COMImageFlagsTrackDebugData:   "Track Debug Data",
		COMImageFlags32BitPreferred:   "32-Bit Preferred",
	}

	var values []string
	for k, v := range COMImageFlags {
		if (k & flags) == k {
			values = append(values, v)
		}
	}

	return values
}
