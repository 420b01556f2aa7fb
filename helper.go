// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package dnfile

import (
	"bytes"
	"encoding/binary"
	"errors"
	"strings"

	"golang.org/x/text/encoding/unicode"
)

const (
	// TinyPESize On Windows XP (x32) the smallest PE executable is 97 bytes.
	TinyPESize = 97

	// FileAlignmentHardcodedValue represents the value which PointerToRawData
	// should be at least equal or bigger to, or it will be rounded to zero.
	// According to http://corkami.blogspot.com/2010/01/parce-que-la-planche-aura-brule.html
	// if PointerToRawData is less that 0x200 it's rounded to zero.
	FileAlignmentHardcodedValue = 0x200

	// MaxStringLength is the default cap, in bytes, when scanning the
	// #Strings heap for a NUL terminator.
	MaxStringLength = 0x100000
)

// Errors
var (

	// ErrInvalidPESize is returned when the file size is less that the
	// smallest PE file size possible.
	ErrInvalidPESize = errors.New("not a PE file, smaller than tiny PE")

	// ErrDOSMagicNotFound is returned when file is potentially a ZM executable.
	ErrDOSMagicNotFound = errors.New("DOS Header magic not found")

	// ErrInvalidElfanewValue is returned when e_lfanew is larger than file size.
	ErrInvalidElfanewValue = errors.New("invalid e_lfanew value. Probably not a PE file")

	// ErrImageNtSignatureNotFound is returned when PE magic signature is not found.
	ErrImageNtSignatureNotFound = errors.New(
		"not a valid PE signature. Magic not found")

	// ErrImageNtOptionalHeaderMagicNotFound is returned when optional header
	// magic is different from PE32/PE32+.
	ErrImageNtOptionalHeaderMagicNotFound = errors.New(
		"not a valid PE signature. Optional Header magic not found")

	// ErrOutsideBoundary is reported when attempting to read an address beyond
	// file image limits.
	ErrOutsideBoundary = errors.New("reading data outside boundary")

	// ErrInvalidFormat is reported when the CLR metadata framing is broken
	// beyond recovery: wrong signature, truncated header, or an impossible
	// length prefix.
	ErrInvalidFormat = errors.New("invalid .NET metadata format")

	// ErrInvalidCompressedInt is reported when the leading byte of a
	// compressed integer carries a reserved bit pattern.
	ErrInvalidCompressedInt = errors.New("invalid compressed integer")

	// ErrIndexOutOfRange is reported when a heap offset or GUID slot lies
	// beyond the end of its stream.
	ErrIndexOutOfRange = errors.New("index out of range")

	// ErrStringTooLong is reported when a #Strings heap entry is longer
	// than the caller's cap.
	ErrStringTooLong = errors.New("string exceeds maximum length")
)

// Max returns the larger of x or y.
func Max(x, y uint32) uint32 {
	if x < y {
		return y
	}
	return x
}

// Min returns the min number in a slice.
func Min(values []uint32) uint32 {
	min := values[0]
	for _, v := range values {
		if v < min {
			min = v
		}
	}
	return min
}

// getSectionByRva returns the section containing the given address.
func (pe *File) getSectionByRva(rva uint32) *Section {
	for _, section := range pe.Sections {
		if section.Contains(rva, pe) {
			return &section
		}
	}
	return nil
}

// GetOffsetFromRva returns the file offset corresponding to this RVA.
func (pe *File) GetOffsetFromRva(rva uint32) uint32 {

	// Given a RVA, this method will find the section where the
	// data lies and return the offset within the file.
	section := pe.getSectionByRva(rva)
	if section == nil {
		if rva < uint32(len(pe.data)) {
			return rva
		}
		return ^uint32(0)
	}
	sectionAlignment := pe.adjustSectionAlignment(section.Header.VirtualAddress)
	fileAlignment := pe.adjustFileAlignment(section.Header.PointerToRawData)
	return rva - sectionAlignment + fileAlignment
}

// GetData returns the data given an RVA regardless of the section where it
// lies on.
func (pe *File) GetData(rva, length uint32) ([]byte, error) {

	// Given a RVA and the size of the chunk to retrieve, this method
	// will find the section where the data lies and return the data.
	section := pe.getSectionByRva(rva)

	var end uint32
	if length > 0 {
		end = rva + length
	}

	if section == nil {
		if rva < uint32(len(pe.Header)) {
			if end > uint32(len(pe.Header)) || end == 0 {
				end = uint32(len(pe.Header))
			}
			return pe.Header[rva:end], nil
		}

		// There are cases of PE files without sections that rely on the
		// loader mapping the first page into memory and assume the data
		// will be there.
		if rva < uint32(len(pe.data)) {
			if end > pe.size || end == 0 {
				end = pe.size
			}
			return pe.data[rva:end], nil
		}

		return nil, ErrOutsideBoundary
	}
	return section.Data(rva, length, pe), nil
}

// getStringAtOffset returns a string given an offset and size, with NUL
// padding removed.
func (pe *File) getStringAtOffset(offset, size uint32) (string, error) {
	if offset+size > pe.size {
		return "", ErrOutsideBoundary
	}

	str := string(pe.data[offset : offset+size])
	return strings.Replace(str, "\x00", "", -1), nil
}

// ReadUint64 read a uint64 from a buffer.
func (pe *File) ReadUint64(offset uint32) (uint64, error) {
	if offset+8 > pe.size {
		return 0, ErrOutsideBoundary
	}

	return binary.LittleEndian.Uint64(pe.data[offset:]), nil
}

// ReadUint32 read a uint32 from a buffer.
func (pe *File) ReadUint32(offset uint32) (uint32, error) {
	if offset+4 > pe.size {
		return 0, ErrOutsideBoundary
	}

	return binary.LittleEndian.Uint32(pe.data[offset:]), nil
}

// ReadUint16 read a uint16 from a buffer.
func (pe *File) ReadUint16(offset uint32) (uint16, error) {
	if offset+2 > pe.size {
		return 0, ErrOutsideBoundary
	}

	return binary.LittleEndian.Uint16(pe.data[offset:]), nil
}

// ReadUint8 read a uint8 from a buffer.
func (pe *File) ReadUint8(offset uint32) (uint8, error) {
	if offset+1 > pe.size {
		return 0, ErrOutsideBoundary
	}

	b := pe.data[offset : offset+1][0]
	return uint8(b), nil
}

func (pe *File) structUnpack(iface interface{}, offset, size uint32) (err error) {
	// Boundary check
	totalSize := offset + size

	// Integer overflow
	if (totalSize > offset) != (size > 0) {
		return ErrOutsideBoundary
	}

	if offset >= pe.size || totalSize > pe.size {
		return ErrOutsideBoundary
	}

	buf := bytes.NewReader(pe.data[offset : offset+size])
	err = binary.Read(buf, binary.LittleEndian, iface)
	if err != nil {
		return err
	}
	return nil
}

// ReadBytesAtOffset returns a byte array from offset.
func (pe *File) ReadBytesAtOffset(offset, size uint32) ([]byte, error) {
	// Boundary check
	totalSize := offset + size

	// Integer overflow
	if (totalSize > offset) != (size > 0) {
		return nil, ErrOutsideBoundary
	}

	if offset >= pe.size || totalSize > pe.size {
		return nil, ErrOutsideBoundary
	}

	return pe.data[offset : offset+size], nil
}

// GetStringAtRVA returns the NUL-terminated byte string starting at the
// given address, reading at most maxLen bytes.
func (pe *File) GetStringAtRVA(rva, maxLen uint32) []byte {
	data, err := pe.GetData(rva, maxLen)
	if err != nil {
		return nil
	}
	if end := bytes.IndexByte(data, 0); end >= 0 {
		data = data[:end]
	}
	return data
}

// DecodeUTF16String decodes a UTF-16LE byte slice into a string.
func DecodeUTF16String(b []byte) (string, error) {
	decoder := unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewDecoder()
	s, err := decoder.Bytes(b)
	if err != nil {
		return "", err
	}
	return string(s), nil
}

// The alignment factor (in bytes) that is used to align the raw data of
// sections in the image file. The value should be a power of 2 between 512
// and 64 K, inclusive.
func (pe *File) adjustFileAlignment(va uint32) uint32 {

	fileAlignment := pe.fileAlignment()
	if fileAlignment < FileAlignmentHardcodedValue {
		return va
	}

	// round it down to a multiple of 0x200.
	// According to https://github.com/corkami/docs/blob/master/PE/PE.md
	// if PointerToRawData is less that 0x200 it's rounded to zero.
	return (va / 0x200) * 0x200
}

// The alignment (in bytes) of sections when they are loaded into memory.
// It must be greater than or equal to FileAlignment. The default is the
// page size for the architecture.
func (pe *File) adjustSectionAlignment(va uint32) uint32 {
	fileAlignment := pe.fileAlignment()
	sectionAlignment := pe.sectionAlignment()

	if sectionAlignment < 0x1000 { // page size
		sectionAlignment = fileAlignment
	}

	if sectionAlignment != 0 && va%sectionAlignment != 0 {
		return sectionAlignment * (va / sectionAlignment)
	}
	return va
}

func (pe *File) fileAlignment() uint32 {
	if pe.Is64 {
		return pe.NtHeader.OptionalHeader.(ImageOptionalHeader64).FileAlignment
	}
	return pe.NtHeader.OptionalHeader.(ImageOptionalHeader32).FileAlignment
}

func (pe *File) sectionAlignment() uint32 {
	if pe.Is64 {
		return pe.NtHeader.OptionalHeader.(ImageOptionalHeader64).SectionAlignment
	}
	return pe.NtHeader.OptionalHeader.(ImageOptionalHeader32).SectionAlignment
}

// alignUp rounds offset up to the next multiple of base.
func alignUp(offset, base uint32) uint32 {
	if base == 0 {
		return offset
	}
	if r := offset % base; r != 0 {
		return offset + base - r
	}
	return offset
}

// IsBitSet returns true when a bit on a particular position is set.
func IsBitSet(n uint64, pos int) bool {
	val := n & (1 << pos)
	return (val > 0)
}
