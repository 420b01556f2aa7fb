// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package dnfile

import (
	"encoding/binary"
)

// Image executable signatures.
const (
	// The DOS MZ executable format is the executable file format used
	// for .EXE files in DOS.
	ImageDOSSignature   = 0x5A4D // MZ
	ImageDOSZMSignature = 0x4D5A // ZM

	// The Portable Executable (PE) format is a file format for executables,
	// object code, DLLs and others used in 32-bit and 64-bit versions of
	// Windows operating systems.
	ImageNTSignature = 0x00004550 // PE00
)

// Optional Header magic.
const (
	ImageNtOptionalHeader32Magic = 0x10b
	ImageNtOptionalHeader64Magic = 0x20b
)

// ImageDirectoryEntry represents an entry inside the data directories.
type ImageDirectoryEntry int

// DataDirectory entries of an OptionalHeader.
const (
	ImageDirectoryEntryExport       ImageDirectoryEntry = iota // Export Table
	ImageDirectoryEntryImport                                  // Import Table
	ImageDirectoryEntryResource                                // Resource Table
	ImageDirectoryEntryException                               // Exception Table
	ImageDirectoryEntryCertificate                             // Certificate Directory
	ImageDirectoryEntryBaseReloc                               // Base Relocation Table
	ImageDirectoryEntryDebug                                   // Debug
	ImageDirectoryEntryArchitecture                            // Architecture Specific Data
	ImageDirectoryEntryGlobalPtr                               // The RVA of the value to be stored in the global pointer register.
	ImageDirectoryEntryTLS                                     // The thread local storage (TLS) table
	ImageDirectoryEntryLoadConfig                              // The load configuration table
	ImageDirectoryEntryBoundImport                             // The bound import table
	ImageDirectoryEntryIAT                                     // Import Address Table
	ImageDirectoryEntryDelayImport                             // Delay Import Descriptor
	ImageDirectoryEntryCLR                                     // CLR Runtime Header (COM descriptor)
	ImageDirectoryEntryReserved                                // Must be zero
	ImageNumberOfDirectoryEntries                              // Tables count.
)

// ImageNtHeader represents the PE header and is the general term for a
// structure named IMAGE_NT_HEADERS.
type ImageNtHeader struct {
	// Signature is a DWORD containing the value 50h, 45h, 00h, 00h.
	Signature uint32 `json:"signature"`

	// IMAGE_NT_HEADERS provides a standard COFF header. It is located
	// immediately after the PE signature.
	FileHeader ImageFileHeader `json:"file_header"`

	// OptionalHeader is of type ImageOptionalHeader32 or ImageOptionalHeader64.
	OptionalHeader interface{} `json:"optional_header"`
}

// ImageFileHeader contains info about the physical layout and properties of
// the file.
type ImageFileHeader struct {
	// The number that identifies the type of target machine.
	Machine uint16 `json:"machine"`

	// The number of sections. This indicates the size of the section table,
	// which immediately follows the headers.
	NumberOfSections uint16 `json:"number_of_sections"`

	// The low 32 bits of the number of seconds since 1970-01-01 indicating
	// when the file was created.
	TimeDateStamp uint32 `json:"time_date_stamp"`

	// The file offset of the COFF symbol table, or zero if none is present.
	PointerToSymbolTable uint32 `json:"pointer_to_symbol_table"`

	// The number of entries in the symbol table.
	NumberOfSymbols uint32 `json:"number_of_symbols"`

	// The size of the optional header, which is required for executable
	// files but not for object files.
	SizeOfOptionalHeader uint16 `json:"size_of_optional_header"`

	// The flags that indicate the attributes of the file.
	Characteristics uint16 `json:"characteristics"`
}

// ImageOptionalHeader32 represents the PE32 format structure of the optional
// header. PE32 contains the additional BaseOfData field, which is absent in
// PE32+.
type ImageOptionalHeader32 struct {
	Magic                       uint16 `json:"magic"`
	MajorLinkerVersion          uint8  `json:"major_linker_version"`
	MinorLinkerVersion          uint8  `json:"minor_linker_version"`
	SizeOfCode                  uint32 `json:"size_of_code"`
	SizeOfInitializedData       uint32 `json:"size_of_initialized_data"`
	SizeOfUninitializedData     uint32 `json:"size_of_uninitialized_data"`
	AddressOfEntryPoint         uint32 `json:"address_of_entrypoint"`
	BaseOfCode                  uint32 `json:"base_of_code"`
	BaseOfData                  uint32 `json:"base_of_data"`
	ImageBase                   uint32 `json:"image_base"`
	SectionAlignment            uint32 `json:"section_alignment"`
	FileAlignment               uint32 `json:"file_alignment"`
	MajorOperatingSystemVersion uint16 `json:"major_os_version"`
	MinorOperatingSystemVersion uint16 `json:"minor_os_version"`
	MajorImageVersion           uint16 `json:"major_image_version"`
	MinorImageVersion           uint16 `json:"minor_image_version"`
	MajorSubsystemVersion       uint16 `json:"major_subsystem_version"`
	MinorSubsystemVersion       uint16 `json:"minor_subsystem_version"`
	Win32VersionValue           uint32 `json:"win32_version_value"`
	SizeOfImage                 uint32 `json:"size_of_image"`
	SizeOfHeaders               uint32 `json:"size_of_headers"`
	CheckSum                    uint32 `json:"checksum"`
	Subsystem                   uint16 `json:"subsystem"`
	DllCharacteristics          uint16 `json:"dll_characteristics"`
	SizeOfStackReserve          uint32 `json:"size_of_stack_reserve"`
	SizeOfStackCommit           uint32 `json:"size_of_stack_commit"`
	SizeOfHeapReserve           uint32 `json:"size_of_heap_reserve"`
	SizeOfHeapCommit            uint32 `json:"size_of_heap_commit"`
	LoaderFlags                 uint32 `json:"loader_flags"`

	// Number of entries in the DataDirectory array; at least 16. Although it
	// is theoretically possible to emit more than 16 data directories, all
	// existing managed compilers emit exactly 16 data directories, with the
	// 16th (last) data directory never used (reserved).
	NumberOfRvaAndSizes uint32 `json:"number_of_rva_and_sizes"`

	// An array of 16 IMAGE_DATA_DIRECTORY structures.
	DataDirectory [16]DataDirectory `json:"data_directories"`
}

// ImageOptionalHeader64 represents the PE32+ format structure of the
// optional header.
type ImageOptionalHeader64 struct {
	Magic                       uint16 `json:"magic"`
	MajorLinkerVersion          uint8  `json:"major_linker_version"`
	MinorLinkerVersion          uint8  `json:"minor_linker_version"`
	SizeOfCode                  uint32 `json:"size_of_code"`
	SizeOfInitializedData       uint32 `json:"size_of_initialized_data"`
	SizeOfUninitializedData     uint32 `json:"size_of_uninitialized_data"`
	AddressOfEntryPoint         uint32 `json:"address_of_entrypoint"`
	BaseOfCode                  uint32 `json:"base_of_code"`
	ImageBase                   uint64 `json:"image_base"`
	SectionAlignment            uint32 `json:"section_alignment"`
	FileAlignment               uint32 `json:"file_alignment"`
	MajorOperatingSystemVersion uint16 `json:"major_os_version"`
	MinorOperatingSystemVersion uint16 `json:"minor_os_version"`
	MajorImageVersion           uint16 `json:"major_image_version"`
	MinorImageVersion           uint16 `json:"minor_image_version"`
	MajorSubsystemVersion       uint16 `json:"major_subsystem_version"`
	MinorSubsystemVersion       uint16 `json:"minor_subsystem_version"`
	Win32VersionValue           uint32 `json:"win32_version_value"`
	SizeOfImage                 uint32 `json:"size_of_image"`
	SizeOfHeaders               uint32 `json:"size_of_headers"`
	CheckSum                    uint32 `json:"checksum"`
	Subsystem                   uint16 `json:"subsystem"`
	DllCharacteristics          uint16 `json:"dll_characteristics"`
	SizeOfStackReserve          uint64 `json:"size_of_stack_reserve"`
	SizeOfStackCommit           uint64 `json:"size_of_stack_commit"`
	SizeOfHeapReserve           uint64 `json:"size_of_heap_reserve"`
	SizeOfHeapCommit            uint64 `json:"size_of_heap_commit"`
	LoaderFlags                 uint32 `json:"loader_flags"`
	NumberOfRvaAndSizes         uint32 `json:"number_of_rva_and_sizes"`
	DataDirectory               [16]DataDirectory `json:"data_directories"`
}

// DataDirectory represents an array of 16 IMAGE_DATA_DIRECTORY structures,
// 8 bytes apiece, each relating to an important data structure in the PE
// file. Each entry contains the RVA and size of the structure the directory
// entry describes.
type DataDirectory struct {
	VirtualAddress uint32 // The RVA of the data structure.
	Size           uint32 // The size in bytes of the data structure referred to.
}

// ParseNTHeader parse the PE NT header structure referred as
// IMAGE_NT_HEADERS. Its offset is given by the e_lfanew field in the
// IMAGE_DOS_HEADER at the beginning of the file.
func (pe *File) ParseNTHeader() (err error) {
	ntHeaderOffset := pe.DOSHeader.AddressOfNewEXEHeader
	signature, err := pe.ReadUint32(ntHeaderOffset)
	if err != nil {
		return ErrImageNtSignatureNotFound
	}

	// This is the smallest requirement for a valid PE.
	if signature != ImageNTSignature {
		return ErrImageNtSignatureNotFound
	}
	pe.NtHeader.Signature = signature

	// The file header structure contains some basic information about the
	// file; most importantly, a field describing the size of the optional
	// data that follows it.
	fileHeaderSize := uint32(binary.Size(pe.NtHeader.FileHeader))
	fileHeaderOffset := ntHeaderOffset + 4
	err = pe.structUnpack(&pe.NtHeader.FileHeader, fileHeaderOffset, fileHeaderSize)
	if err != nil {
		return err
	}

	// The optional header could be either for a PE or PE+ file. Although
	// this header is referred to as the optional header, it is optional only
	// in the sense that object files usually don't contain it. For PE files,
	// this header is mandatory.
	oh32 := ImageOptionalHeader32{}
	oh64 := ImageOptionalHeader64{}

	optHeaderOffset := ntHeaderOffset + (fileHeaderSize + 4)
	magic, err := pe.ReadUint16(optHeaderOffset)
	if err != nil {
		return err
	}

	// Probes for PE32/PE32+ optional header magic.
	if magic != ImageNtOptionalHeader32Magic &&
		magic != ImageNtOptionalHeader64Magic {
		return ErrImageNtOptionalHeaderMagicNotFound
	}

	switch magic {
	case ImageNtOptionalHeader64Magic:
		size := uint32(binary.Size(oh64))
		err = pe.structUnpack(&oh64, optHeaderOffset, size)
		if err != nil {
			return err
		}
		pe.Is64 = true
		pe.NtHeader.OptionalHeader = oh64
	case ImageNtOptionalHeader32Magic:
		size := uint32(binary.Size(oh32))
		err = pe.structUnpack(&oh32, optHeaderOffset, size)
		if err != nil {
			return err
		}
		pe.Is32 = true
		pe.NtHeader.OptionalHeader = oh32
	}

	pe.HasNTHdr = true
	return nil
}

// DataDirectoryEntry returns the data directory entry at the given index,
// regardless of the declared NumberOfRvaAndSizes. The CLR loader ignores
// NumberOfRvaAndSizes when locating the COM descriptor, so callers that
// honor it must check it themselves.
func (pe *File) DataDirectoryEntry(index ImageDirectoryEntry) DataDirectory {
	if index < 0 || index >= ImageNumberOfDirectoryEntries {
		return DataDirectory{}
	}
	if pe.Is64 {
		return pe.NtHeader.OptionalHeader.(ImageOptionalHeader64).DataDirectory[index]
	}
	return pe.NtHeader.OptionalHeader.(ImageOptionalHeader32).DataDirectory[index]
}
