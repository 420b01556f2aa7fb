// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package dnfile

import (
	"bytes"
	"fmt"
	"unicode/utf8"
)

// MetadataStream is the raw view of one stream inside the metadata root.
// Heap streams wrap it with typed item access; streams with an unrecognized
// name are preserved verbatim in this form.
type MetadataStream struct {
	// The stream directory entry.
	Header MetadataStreamHeader `json:"header"`

	// Image RVA of the stream data.
	RVA uint32 `json:"rva"`

	// File offset of the stream data.
	FileOffset uint32 `json:"file_offset"`

	// The stream bytes.
	Data []byte `json:"-"`
}

// HeapItem is an item retrieved from one of the heap streams. It carries
// the raw underlying bytes, including any length prefix or footer, and the
// RVA it was read from.
type HeapItem struct {
	Data []byte `json:"-"`
	RVA  uint32 `json:"rva"`
}

// RawSize returns the number of bytes the item occupies in the stream,
// including any header, value, and footer.
func (hi HeapItem) RawSize() uint32 {
	return uint32(len(hi.Data))
}

// StringItem is a NUL-terminated #Strings heap entry. Value always carries
// the raw bytes as a string; Decoded reports whether they form valid UTF-8.
// The item's raw bytes, and so RawSize, exclude the NUL terminator.
type StringItem struct {
	HeapItem
	Value   string `json:"value"`
	Decoded bool   `json:"decoded"`
}

// BlobItem is a length-prefixed #Blob heap entry. Size is the parsed
// compressed-integer length prefix; Value holds the bytes that follow it.
// The raw size reported by RawSize includes the prefix.
type BlobItem struct {
	HeapItem
	Size  CompressedInt `json:"size"`
	Value []byte        `json:"-"`
}

// UserString is a #US heap entry. It is framed like a blob, but when the
// declared length is odd the final byte is a handling flag (0x00 normal,
// 0x01 contains characters requiring beyond-8-bit handling) and not part of
// the string. Value is the decoded UTF-16LE string when decoding succeeds.
type UserString struct {
	BlobItem
	Flag    byte   `json:"flag"`
	HasFlag bool   `json:"has_flag"`
	Value   string `json:"value"`
	Decoded bool   `json:"decoded"`
}

// ValueBytes returns the string payload without the trailing flag byte.
func (us *UserString) ValueBytes() []byte {
	if us.HasFlag {
		return us.BlobItem.Value[:len(us.BlobItem.Value)-1]
	}
	return us.BlobItem.Value
}

// GuidItem is a single 16-byte entry of the #GUID heap.
type GuidItem struct {
	HeapItem
}

// String formats the GUID the way the runtime displays it: the first three
// groups are little-endian u32/u16/u16, the last two are the raw 2- and
// 6-byte tails.
func (g *GuidItem) String() string {
	d := g.Data
	if len(d) < 16 {
		return ""
	}
	p1 := uint32(d[0]) | uint32(d[1])<<8 | uint32(d[2])<<16 | uint32(d[3])<<24
	p2 := uint16(d[4]) | uint16(d[5])<<8
	p3 := uint16(d[6]) | uint16(d[7])<<8
	return fmt.Sprintf("%08x-%04x-%04x-%x-%x", p1, p2, p3, d[8:10], d[10:16])
}

// StringsHeap exposes the #Strings stream: NUL-terminated UTF-8 strings
// addressed by byte offset.
type StringsHeap struct {
	MetadataStream
}

// Get reads the string starting at the given offset, up to the next NUL or
// the end of the stream. It returns ErrIndexOutOfRange when the offset lies
// beyond the stream and ErrStringTooLong when the string is longer than
// maxLen bytes.
func (h *StringsHeap) Get(offset, maxLen uint32) (*StringItem, error) {
	if offset >= uint32(len(h.Data)) {
		return nil, ErrIndexOutOfRange
	}

	end := bytes.IndexByte(h.Data[offset:], 0)
	if end < 0 {
		end = len(h.Data) - int(offset)
	}
	if uint32(end) > maxLen {
		return nil, ErrStringTooLong
	}

	raw := h.Data[offset : offset+uint32(end)]
	item := &StringItem{
		HeapItem: HeapItem{Data: raw, RVA: h.RVA + offset},
		Value:    string(raw),
		Decoded:  utf8.Valid(raw),
	}
	return item, nil
}

// GetString reads the string at the given offset with the default cap.
func (h *StringsHeap) GetString(offset uint32) (string, error) {
	item, err := h.Get(offset, MaxStringLength)
	if err != nil {
		return "", err
	}
	return item.Value, nil
}

// readBlobItem reads one length-prefixed item at offset.
func readBlobItem(data []byte, offset, rva uint32) (*BlobItem, error) {
	if offset >= uint32(len(data)) {
		return nil, ErrIndexOutOfRange
	}

	length, n, err := ReadCompressedUint(data[offset:])
	if err != nil {
		return nil, err
	}

	// The length prefix is the only untrusted length source: clamp the
	// value range to the stream bound.
	start := offset + uint32(n)
	end := start + length
	if end > uint32(len(data)) || end < start {
		end = uint32(len(data))
	}

	item := &BlobItem{
		HeapItem: HeapItem{Data: data[offset:end], RVA: rva + offset},
		Size: CompressedInt{
			Value:   length,
			RawSize: n,
			RVA:     rva + offset,
		},
		Value: data[start:end],
	}
	return item, nil
}

// BlobHeap exposes the #Blob stream: compressed-integer length-prefixed
// byte sequences addressed by byte offset.
type BlobHeap struct {
	MetadataStream
}

// Get reads the blob item starting at the given offset.
func (h *BlobHeap) Get(offset uint32) (*BlobItem, error) {
	return readBlobItem(h.Data, offset, h.RVA)
}

// GetBytes returns the blob value bytes at the given offset.
func (h *BlobHeap) GetBytes(offset uint32) ([]byte, error) {
	item, err := h.Get(offset)
	if err != nil {
		return nil, err
	}
	return item.Value, nil
}

// GetWithSize returns the blob value bytes plus the raw size including the
// length prefix.
func (h *BlobHeap) GetWithSize(offset uint32) ([]byte, uint32, error) {
	item, err := h.Get(offset)
	if err != nil {
		return nil, 0, err
	}
	return item.Value, item.RawSize(), nil
}

// UserStringHeap exposes the #US stream. Index 0 is reserved and
// conventionally empty.
type UserStringHeap struct {
	MetadataStream
}

// Get reads the user string starting at the given offset.
func (h *UserStringHeap) Get(offset uint32) (*UserString, error) {
	blob, err := readBlobItem(h.Data, offset, h.RVA)
	if err != nil {
		return nil, err
	}

	us := &UserString{BlobItem: *blob}
	buf := blob.Value
	if blob.Size.Value%2 == 1 && len(buf) > 0 {
		// The trailing flag holds 1 iff any UTF-16 unit has a bit set in
		// its top byte or a low byte in the control ranges; it is not part
		// of the string (ECMA-335 II.24.2.4).
		us.Flag = buf[len(buf)-1]
		us.HasFlag = true
		buf = buf[:len(buf)-1]
	}

	if s, err := DecodeUTF16String(buf); err == nil && len(buf)%2 == 0 {
		us.Value = s
		us.Decoded = true
	}
	return us, nil
}

// GetBytes returns the string payload bytes at the given offset, without
// the trailing flag byte.
func (h *UserStringHeap) GetBytes(offset uint32) ([]byte, error) {
	item, err := h.Get(offset)
	if err != nil {
		return nil, err
	}
	return item.ValueBytes(), nil
}

// GuidHeap exposes the #GUID stream: a packed array of 16-byte GUIDs
// addressed by 1-based slot.
type GuidHeap struct {
	MetadataStream
}

// guidSize is the number of bytes in a GUID.
const guidSize = 16

// Count returns the number of complete GUIDs in the heap.
func (h *GuidHeap) Count() int {
	return len(h.Data) / guidSize
}

// Get returns the GUID with the given 1-based index. Index 0 means "no
// GUID" and yields a nil item without error.
func (h *GuidHeap) Get(index uint32) (*GuidItem, error) {
	if index == 0 {
		return nil, nil
	}
	if int(index) > h.Count() {
		return nil, ErrIndexOutOfRange
	}

	offset := (index - 1) * guidSize
	return &GuidItem{
		HeapItem: HeapItem{
			Data: h.Data[offset : offset+guidSize],
			RVA:  h.RVA + offset,
		},
	}, nil
}

// GetString returns the display form of the GUID with the given 1-based
// index.
func (h *GuidHeap) GetString(index uint32) (string, error) {
	item, err := h.Get(index)
	if err != nil || item == nil {
		return "", err
	}
	return item.String(), nil
}
