// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package dnfile

import (
	"bytes"
	"testing"
)

func TestStringsHeapGet(t *testing.T) {
	heap := &StringsHeap{MetadataStream{
		RVA:  0x100,
		Data: []byte("\x00Main\x00.ctor\x00"),
	}}

	item, err := heap.Get(1, MaxStringLength)
	if err != nil {
		t.Fatalf("Get(1) failed: %v", err)
	}
	if item.Value != "Main" || !item.Decoded {
		t.Errorf("Get(1) = %q (decoded %v)", item.Value, item.Decoded)
	}
	if item.RVA != 0x101 {
		t.Errorf("Get(1) RVA = 0x%x, want 0x101", item.RVA)
	}

	s, err := heap.GetString(6)
	if err != nil || s != ".ctor" {
		t.Errorf("GetString(6) = %q, %v", s, err)
	}

	// Offset 0 is the leading empty string.
	if s, err = heap.GetString(0); err != nil || s != "" {
		t.Errorf("GetString(0) = %q, %v", s, err)
	}

	if _, err = heap.Get(100, MaxStringLength); err != ErrIndexOutOfRange {
		t.Errorf("Get(100) error = %v, want ErrIndexOutOfRange", err)
	}
}

func TestStringsHeapCap(t *testing.T) {
	heap := &StringsHeap{MetadataStream{
		Data: []byte("\x00abcdefghij\x00"),
	}}

	// A NUL beyond the caller's cap yields no string and ErrStringTooLong.
	if _, err := heap.Get(1, 4); err != ErrStringTooLong {
		t.Errorf("Get with small cap error = %v, want ErrStringTooLong", err)
	}

	// An unterminated heap tail reads to the end of the stream.
	heap = &StringsHeap{MetadataStream{Data: []byte("\x00tail")}}
	item, err := heap.Get(1, MaxStringLength)
	if err != nil || item.Value != "tail" {
		t.Errorf("unterminated tail = %q, %v", item.Value, err)
	}
}

func TestStringsHeapInvalidEncoding(t *testing.T) {
	heap := &StringsHeap{MetadataStream{
		Data: []byte{0x00, 0xFF, 0xFE, 0x41, 0x00},
	}}

	item, err := heap.Get(1, MaxStringLength)
	if err != nil {
		t.Fatalf("Get(1) failed: %v", err)
	}
	if item.Decoded {
		t.Error("invalid UTF-8 reported as decoded")
	}
	// The raw bytes stay available even when decoding fails.
	if !bytes.Equal(item.HeapItem.Data, []byte{0xFF, 0xFE, 0x41}) {
		t.Errorf("raw bytes = % x", item.HeapItem.Data)
	}
}

func TestBlobHeapGet(t *testing.T) {
	heap := &BlobHeap{MetadataStream{
		RVA:  0x200,
		Data: []byte{0x00, 0x03, 0xAA, 0xBB, 0xCC, 0x02, 0x11, 0x22},
	}}

	// Index 0: the empty blob.
	item, err := heap.Get(0)
	if err != nil {
		t.Fatalf("Get(0) failed: %v", err)
	}
	if item.Size.Value != 0 || len(item.Value) != 0 || item.RawSize() != 1 {
		t.Errorf("Get(0) = size %d len %d raw %d",
			item.Size.Value, len(item.Value), item.RawSize())
	}

	item, err = heap.Get(1)
	if err != nil {
		t.Fatalf("Get(1) failed: %v", err)
	}
	if !bytes.Equal(item.Value, []byte{0xAA, 0xBB, 0xCC}) {
		t.Errorf("Get(1) value = % x", item.Value)
	}
	// The reported raw size includes the length prefix.
	if item.RawSize() != 4 {
		t.Errorf("Get(1) raw size = %d, want 4", item.RawSize())
	}
	if item.RVA != 0x201 {
		t.Errorf("Get(1) RVA = 0x%x, want 0x201", item.RVA)
	}

	value, raw, err := heap.GetWithSize(5)
	if err != nil || !bytes.Equal(value, []byte{0x11, 0x22}) || raw != 3 {
		t.Errorf("GetWithSize(5) = % x, %d, %v", value, raw, err)
	}

	if _, err = heap.Get(50); err != ErrIndexOutOfRange {
		t.Errorf("Get(50) error = %v, want ErrIndexOutOfRange", err)
	}
}

func TestBlobHeapTwoBytePrefix(t *testing.T) {
	payload := bytes.Repeat([]byte{0x41}, 0x90)
	data := append([]byte{0x00, 0x80, 0x90}, payload...)
	heap := &BlobHeap{MetadataStream{Data: data}}

	item, err := heap.Get(1)
	if err != nil {
		t.Fatalf("Get(1) failed: %v", err)
	}
	if item.Size.Value != 0x90 || item.Size.RawSize != 2 {
		t.Errorf("prefix = (%d, %d), want (0x90, 2)",
			item.Size.Value, item.Size.RawSize)
	}
	if !bytes.Equal(item.Value, payload) {
		t.Error("payload mismatch")
	}
}

func TestBlobHeapTruncated(t *testing.T) {
	// Length prefix promises more bytes than the stream holds; the value
	// is clamped to the stream bound.
	heap := &BlobHeap{MetadataStream{Data: []byte{0x7F, 0x01, 0x02}}}
	item, err := heap.Get(0)
	if err != nil {
		t.Fatalf("Get(0) failed: %v", err)
	}
	if !bytes.Equal(item.Value, []byte{0x01, 0x02}) {
		t.Errorf("clamped value = % x", item.Value)
	}
}

func TestBlobHeapInvalidPrefix(t *testing.T) {
	heap := &BlobHeap{MetadataStream{Data: []byte{0xFF, 0x00}}}
	if _, err := heap.Get(0); err == nil {
		t.Error("invalid length prefix expected an error")
	}
}

func utf16le(s string) []byte {
	var out []byte
	for _, r := range s {
		out = append(out, byte(r), byte(uint16(r)>>8))
	}
	return out
}

func TestUserStringHeapGet(t *testing.T) {
	body := utf16le("Hello World!")
	data := append([]byte{0x00, byte(len(body) + 1)}, body...)
	data = append(data, 0x00) // trailing flag
	heap := &UserStringHeap{MetadataStream{RVA: 0x300, Data: data}}

	item, err := heap.Get(1)
	if err != nil {
		t.Fatalf("Get(1) failed: %v", err)
	}
	if !item.HasFlag || item.Flag != 0x00 {
		t.Errorf("flag = (%v, 0x%x)", item.HasFlag, item.Flag)
	}
	if !item.Decoded || item.Value != "Hello World!" {
		t.Errorf("value = %q (decoded %v)", item.Value, item.Decoded)
	}
	if !bytes.Equal(item.ValueBytes(), body) {
		t.Errorf("value bytes = % x", item.ValueBytes())
	}
}

func TestUserStringOddLengthFlag(t *testing.T) {
	// A #US entry of declared length 11: ten payload bytes plus the
	// trailing flag byte 0x01.
	payload := []byte{0xD8, 0x00, 0x41, 0x00, 0x42, 0x00, 0x43, 0x00, 0x44, 0x00}
	data := append([]byte{0x00, 11}, payload...)
	data = append(data, 0x01)
	heap := &UserStringHeap{MetadataStream{Data: data}}

	item, err := heap.Get(1)
	if err != nil {
		t.Fatalf("Get(1) failed: %v", err)
	}
	if !item.HasFlag || item.Flag != 0x01 {
		t.Errorf("flag = (%v, 0x%x), want (true, 0x01)", item.HasFlag, item.Flag)
	}
	if got, err := heap.GetBytes(1); err != nil || !bytes.Equal(got, payload) {
		t.Errorf("GetBytes(1) = % x, %v", got, err)
	}
	// Whether decoding succeeded or not, the raw bytes stay intact.
	if !bytes.Equal(item.ValueBytes(), payload) {
		t.Errorf("value bytes = % x", item.ValueBytes())
	}
}

func TestGuidHeap(t *testing.T) {
	guid := []byte{
		0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08,
		0x09, 0x0A, 0x0B, 0x0C, 0x0D, 0x0E, 0x0F, 0x10,
	}
	heap := &GuidHeap{MetadataStream{RVA: 0x400, Data: guid}}

	if heap.Count() != 1 {
		t.Fatalf("Count() = %d, want 1", heap.Count())
	}

	// Index 0 means "no GUID".
	item, err := heap.Get(0)
	if err != nil || item != nil {
		t.Errorf("Get(0) = %v, %v", item, err)
	}

	item, err = heap.Get(1)
	if err != nil {
		t.Fatalf("Get(1) failed: %v", err)
	}
	want := "04030201-0605-0807-090a-0b0c0d0e0f10"
	if item.String() != want {
		t.Errorf("String() = %q, want %q", item.String(), want)
	}

	if _, err = heap.Get(2); err != ErrIndexOutOfRange {
		t.Errorf("Get(2) error = %v, want ErrIndexOutOfRange", err)
	}
}
