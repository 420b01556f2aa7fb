// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package dnfile

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"sync"
)

// HeapOffsetSizes bit flags of the tables-stream header.
const (
	// 4-byte #Strings heap offsets.
	HeapOffsetSizeStrings = 0x01
	// 4-byte #GUID heap offsets.
	HeapOffsetSizeGUID = 0x02
	// 4-byte #Blob heap offsets.
	HeapOffsetSizeBlob = 0x04
	// The stream contains only changes made during an edit-and-continue
	// session.
	HeapOffsetDeltaOnly = 0x20
	// An extra data dword follows the row counts.
	HeapOffsetExtraData = 0x40
	// The metadata might contain items marked as deleted.
	HeapOffsetHasDelete = 0x80
)

// Row is one decoded metadata table row. The concrete type is one of the
// *Row structs; decoding fills the raw struct from the wire and resolving
// turns raw indexes into references.
type Row interface {
	decodeRow(r *rowReader)
	resolveRow(md *MetadataTables, next Row)
}

// TableLoadState tracks how far a table's rows have been materialized.
type TableLoadState int

// Load states. A table moves unloaded -> lazy-loaded on row decode and
// lazy-loaded -> loaded once cross-table references are resolved. The
// transition is one-shot and has no observable effect besides deferred
// cost.
const (
	TableUnloaded TableLoadState = iota
	TableLazyLoaded
	TableLoaded
)

// MDTable is one metadata table: a homogeneous sequence of rows of a
// single schema.
type MDTable struct {
	// The table number, 0..63.
	Number int `json:"number"`

	// The canonical table name.
	Name string `json:"name"`

	// The declared row count. The number of rows actually decoded can be
	// smaller when the table body is truncated.
	NumRows uint32 `json:"num_rows"`

	// The size of one row in bytes. Row sizes depend on the sizes of
	// other tables and heaps, so they are computed, not declared.
	RowSize uint32 `json:"row_size"`

	// Whether the MaskSorted bit for this table is set. Recorded but
	// never enforced.
	IsSorted bool `json:"is_sorted"`

	// Image RVA of the first row.
	RVA uint32 `json:"rva"`

	// File offset of the first row.
	FileOffset uint32 `json:"file_offset"`

	// The raw row bytes, RowSize * NumRows (or fewer when truncated).
	Data []byte `json:"-"`

	rows  []Row
	state TableLoadState
	md    *MetadataTables
}

// State returns the table's current load state.
func (t *MDTable) State() TableLoadState {
	return t.state
}

// Rows returns all decoded rows, triggering a full load when the tables
// were opened lazily.
func (t *MDTable) Rows() []Row {
	t.md.ensureLoaded()
	return t.rows
}

// Row returns the row at the given 0-based position, or nil when out of
// range. Prefer RowWithIndex when holding a row index from the wire.
func (t *MDTable) Row(i int) Row {
	t.md.ensureLoaded()
	if i < 0 || i >= len(t.rows) {
		return nil
	}
	return t.rows[i]
}

// RowWithIndex returns the row with the given 1-based row index, the form
// encoded within a .NET file. Index 0 yields nil.
func (t *MDTable) RowWithIndex(i uint32) Row {
	return t.Row(int(i) - 1)
}

// Len returns the number of rows actually decoded, as opposed to NumRows,
// which is the declared row count.
func (t *MDTable) Len() int {
	t.md.ensureLoaded()
	return len(t.rows)
}

// MetadataTables holds the decoded tables stream (#~ or #-).
type MetadataTables struct {
	// The 24-byte tables-stream header.
	Header MetadataTableStreamHeader `json:"header"`

	// Row count per table slot. Absent tables have implicit count 0.
	RowCounts [MaxTableCount]uint32 `json:"row_counts"`

	// The extra data dword following the row counts, present iff the
	// HeapOffsetExtraData bit is set.
	ExtraData    uint32 `json:"extra_data"`
	HasExtraData bool   `json:"has_extra_data"`

	// Heap offset widths derived from Header.Heaps, in bytes (2 or 4).
	StringsOffsetSize uint32 `json:"strings_offset_size"`
	GUIDOffsetSize    uint32 `json:"guid_offset_size"`
	BlobOffsetSize    uint32 `json:"blob_offset_size"`

	// Present tables by number; nil for absent or skipped slots.
	ByNumber [MaxTableCount]*MDTable `json:"-"`

	tablesList []*MDTable

	strings     *StringsHeap
	userStrings *UserStringHeap
	guids       *GuidHeap
	blobs       *BlobHeap

	codedSizes [codedIndexCount]uint32

	lazy     bool
	loadOnce sync.Once

	warn func(string)
}

// parseMetadataTables decodes the tables stream. The stream bytes, its
// image RVA and file offset, and the (last-wins) heap shortcuts come from
// the metadata root. Non-fatal defects go through warn; only broken
// framing is a hard error.
func parseMetadataTables(data []byte, rva, fileOffset uint32,
	strings *StringsHeap, userStrings *UserStringHeap,
	guids *GuidHeap, blobs *BlobHeap,
	lazy bool, warn func(string)) (*MetadataTables, error) {

	if warn == nil {
		warn = func(string) {}
	}

	md := &MetadataTables{
		strings:     strings,
		userStrings: userStrings,
		guids:       guids,
		blobs:       blobs,
		lazy:        lazy,
		warn:        warn,
	}

	hdrSize := uint32(binary.Size(md.Header))
	if uint32(len(data)) < hdrSize {
		return nil, fmt.Errorf("%w: tables stream smaller than its header",
			ErrInvalidFormat)
	}
	if _, err := binaryUnpack(&md.Header, data); err != nil {
		return nil, err
	}

	// Heap offset widths.
	md.StringsOffsetSize = heapOffsetSize(md.Header.Heaps, HeapOffsetSizeStrings)
	md.GUIDOffsetSize = heapOffsetSize(md.Header.Heaps, HeapOffsetSizeGUID)
	md.BlobOffsetSize = heapOffsetSize(md.Header.Heaps, HeapOffsetSizeBlob)

	// The header is followed by a row-count dword for each bit set in
	// MaskValid, in ascending bit order.
	cursor := hdrSize
	for i := 0; i < MaxTableCount; i++ {
		if !IsBitSet(md.Header.MaskValid, i) {
			continue
		}
		if cursor+4 > uint32(len(data)) {
			return nil, fmt.Errorf("%w: truncated table row counts",
				ErrInvalidFormat)
		}
		md.RowCounts[i] = binary.LittleEndian.Uint32(data[cursor:])
		cursor += 4
	}

	// Consume the extra data dword if announced.
	if md.Header.Heaps&HeapOffsetExtraData != 0 {
		md.HasExtraData = true
		if cursor+4 <= uint32(len(data)) {
			md.ExtraData = binary.LittleEndian.Uint32(data[cursor:])
		}
		cursor += 4
	}

	md.precomputeCodedSizes()

	// Allocate every present table and compute its row size. The first
	// row's size parameterizes the layout of every subsequent row, so it
	// is computed eagerly even in lazy mode.
	for i := 0; i < MaxTableCount; i++ {
		if !IsBitSet(md.Header.MaskValid, i) {
			continue
		}

		t := &MDTable{
			Number:   i,
			Name:     MetadataTableIndexToString(i),
			NumRows:  md.RowCounts[i],
			IsSorted: IsBitSet(md.Header.MaskSorted, i),
			md:       md,
		}

		rowSize, err := md.rowSize(i)
		if err != nil {
			warn(fmt.Sprintf("invalid metadata table %d (%s): %v", i, t.Name, err))
			continue
		}
		t.RowSize = rowSize

		md.ByNumber[i] = t
		md.tablesList = append(md.tablesList, t)
	}

	// Slice the raw row bytes off the stream, ascending table order. A
	// short table body is a warning, not a fatal error.
	for _, t := range md.tablesList {
		want := t.RowSize * t.NumRows
		t.RVA = rva + cursor
		t.FileOffset = fileOffset + cursor
		if cursor > uint32(len(data)) {
			t.Data = nil
		} else if cursor+want > uint32(len(data)) || cursor+want < cursor {
			t.Data = data[cursor:]
			warn(fmt.Sprintf("table %s: not enough data to parse %d rows",
				t.Name, t.NumRows))
		} else {
			t.Data = data[cursor : cursor+want]
		}
		cursor += want
	}

	if !lazy {
		md.ensureLoaded()
	}
	return md, nil
}

func heapOffsetSize(heaps uint8, mask uint8) uint32 {
	if heaps&mask != 0 {
		return 4
	}
	return 2
}

// precomputeCodedSizes caches the on-disk width of each coded-index kind
// for the current row counts.
func (md *MetadataTables) precomputeCodedSizes() {
	for kind := CodedIndexType(0); kind < codedIndexCount; kind++ {
		md.codedSizes[kind] = codedIndexSize(kind, &md.RowCounts)
	}
}

// rowSize computes the size of one row of the given table by running its
// decoder over a sizing reader.
func (md *MetadataTables) rowSize(table int) (uint32, error) {
	row := newRow(table)
	if row == nil {
		return 0, fmt.Errorf("no row schema for table %d", table)
	}
	r := &rowReader{md: md, sizing: true}
	row.decodeRow(r)
	if r.off == 0 {
		return 0, fmt.Errorf("zero-width row for table %d", table)
	}
	return uint32(r.off), nil
}

// ensureLoaded decodes and resolves every table exactly once. Eager
// parsing calls it immediately; lazy parsing defers it until first row
// access.
func (md *MetadataTables) ensureLoaded() {
	md.loadOnce.Do(func() {
		md.decodeAllRows()
		md.resolveAllRows()
	})
}

// decodeAllRows is the first pass: fixed-width structural decode of every
// row of every present table, ascending table number, ascending row index.
func (md *MetadataTables) decodeAllRows() {
	for _, t := range md.tablesList {
		rows := make([]Row, 0, t.NumRows)
		for i := uint32(0); i < t.NumRows; i++ {
			off := i * t.RowSize
			if off+t.RowSize > uint32(len(t.Data)) {
				md.warn(fmt.Sprintf("table %s: not enough data to parse row %d",
					t.Name, i))
				break
			}
			row := newRow(t.Number)
			r := &rowReader{data: t.Data[off : off+t.RowSize], md: md}
			row.decodeRow(r)
			rows = append(rows, row)
		}
		t.rows = rows
		t.state = TableLazyLoaded
	}
}

// resolveAllRows is the second pass: index, coded-index and run-list
// resolution. It iterates in the same order as the first pass so a
// run-list's next row is already materialized.
func (md *MetadataTables) resolveAllRows() {
	for _, t := range md.tablesList {
		for i, row := range t.rows {
			var next Row
			if i+1 < len(t.rows) {
				next = t.rows[i+1]
			}
			row.resolveRow(md, next)
		}
		t.state = TableLoaded
	}
}

// TableByNumber returns the table with the given number, or nil when the
// table is absent.
func (md *MetadataTables) TableByNumber(n int) *MDTable {
	if n < 0 || n >= MaxTableCount {
		return nil
	}
	return md.ByNumber[n]
}

// TableByName returns the table with the given canonical name, or nil.
func (md *MetadataTables) TableByName(name string) *MDTable {
	n, ok := MetadataTableNameToIndex(name)
	if !ok {
		return nil
	}
	return md.TableByNumber(n)
}

// Tables returns the present tables in ascending table-number order.
func (md *MetadataTables) Tables() []*MDTable {
	return md.tablesList
}

// rowReader decodes the fixed-width fields of one row. In sizing mode it
// only accumulates field widths without touching data.
type rowReader struct {
	data      []byte
	off       int
	md        *MetadataTables
	sizing    bool
	truncated bool
}

func (r *rowReader) read(n uint32) uint32 {
	if r.sizing {
		r.off += int(n)
		return 0
	}
	if r.off+int(n) > len(r.data) {
		r.truncated = true
		r.off = len(r.data)
		return 0
	}
	var v uint32
	switch n {
	case 1:
		v = uint32(r.data[r.off])
	case 2:
		v = uint32(binary.LittleEndian.Uint16(r.data[r.off:]))
	case 4:
		v = binary.LittleEndian.Uint32(r.data[r.off:])
	}
	r.off += int(n)
	return v
}

func (r *rowReader) u8() uint8   { return uint8(r.read(1)) }
func (r *rowReader) u16() uint16 { return uint16(r.read(2)) }
func (r *rowReader) u32() uint32 { return r.read(4) }

func (r *rowReader) stringIndex() uint32 { return r.read(r.md.StringsOffsetSize) }
func (r *rowReader) guidIndex() uint32   { return r.read(r.md.GUIDOffsetSize) }
func (r *rowReader) blobIndex() uint32   { return r.read(r.md.BlobOffsetSize) }

func (r *rowReader) index(table int) uint32 {
	return r.read(simpleIndexSize(table, &r.md.RowCounts))
}

func (r *rowReader) coded(kind CodedIndexType) uint32 {
	return r.read(r.md.codedSizes[kind])
}

// str resolves a #Strings heap offset during the second pass. Undecodable
// bytes still come back as a raw-byte string, with a warning.
func (md *MetadataTables) str(offset uint32) string {
	if md.strings == nil {
		md.warn("failed to fetch string: no strings heap")
		return ""
	}
	item, err := md.strings.Get(offset, MaxStringLength)
	if err != nil {
		md.warn(fmt.Sprintf("failed to fetch string at offset 0x%x: %v",
			offset, err))
		return ""
	}
	if !item.Decoded {
		md.warn(fmt.Sprintf("string at offset 0x%x: invalid encoding", offset))
	}
	return item.Value
}

// guid resolves a 1-based #GUID heap index during the second pass.
func (md *MetadataTables) guid(index uint32) *GuidItem {
	if index == 0 {
		return nil
	}
	if md.guids == nil {
		md.warn("failed to fetch guid: no guid heap")
		return nil
	}
	item, err := md.guids.Get(index)
	if err != nil {
		md.warn(fmt.Sprintf("failed to fetch guid %d: %v", index, err))
		return nil
	}
	return item
}

// blob resolves a #Blob heap offset during the second pass.
func (md *MetadataTables) blob(offset uint32) []byte {
	if md.blobs == nil {
		md.warn("failed to fetch blob: no blob heap")
		return nil
	}
	item, err := md.blobs.Get(offset)
	if err != nil {
		md.warn(fmt.Sprintf("failed to fetch blob at offset 0x%x: %v",
			offset, err))
		return nil
	}
	return item.Value
}

// index resolves a simple table index. A zero or out-of-range row index
// resolves to "none"; the raw value stays on the row's raw struct.
func (md *MetadataTables) index(table int, raw uint32) MDTableIndex {
	ref := MDTableIndex{Table: table}
	if raw == 0 {
		return ref
	}
	t := md.TableByNumber(table)
	if t == nil || raw > t.NumRows {
		return ref
	}
	ref.RowIndex = raw
	return ref
}

// coded resolves a coded-index value. Reserved tags and out-of-range row
// indexes resolve to "none" while preserving the raw value.
func (md *MetadataTables) coded(kind CodedIndexType, raw uint32) CodedIndex {
	ci := decodeCodedIndex(kind, raw)
	if ci.Table == tableNone || ci.RowIndex == 0 {
		return ci
	}
	t := md.TableByNumber(ci.Table)
	if t == nil || ci.RowIndex > t.NumRows {
		ci.Table = tableNone
	}
	return ci
}

// runList materializes the contiguous run of child rows belonging to a
// parent row. The parent stores only the 1-based start; the run ends
// where the next parent row's run begins, or at the end of the child
// table when this is the last parent (or the next start is invalid).
func (md *MetadataTables) runList(child int, start, nextStart uint32, hasNext bool) []MDTableIndex {
	t := md.TableByNumber(child)
	if t == nil || t.NumRows == 0 {
		// the target table is not present, so the run is by definition
		// empty.
		return nil
	}

	first := int64(start)
	if first < 1 {
		return nil
	}

	last := int64(t.NumRows)
	if hasNext && nextStart >= 1 {
		// Row indexes are inclusive, so the run ends one row before the
		// next parent's start, clamped to the child table's end.
		if next := int64(nextStart) - 1; next < last {
			last = next
		}
	}

	if first > last {
		return nil
	}

	run := make([]MDTableIndex, 0, last-first+1)
	for i := first; i <= last; i++ {
		run = append(run, MDTableIndex{Table: child, RowIndex: uint32(i)})
	}
	return run
}

// binaryUnpack reads a little-endian structure from the head of data and
// returns the number of bytes consumed.
func binaryUnpack(iface interface{}, data []byte) (uint32, error) {
	size := uint32(binary.Size(iface))
	if uint32(len(data)) < size {
		return 0, ErrOutsideBoundary
	}
	buf := bytes.NewReader(data[:size])
	if err := binary.Read(buf, binary.LittleEndian, iface); err != nil {
		return 0, err
	}
	return size, nil
}
