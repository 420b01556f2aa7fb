// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package dnfile

import (
	"bytes"
	"encoding/binary"
	"reflect"
	"strings"
	"testing"
)

// tablesStreamBuilder assembles a synthetic #~ stream.
type tablesStreamBuilder struct {
	heaps      uint8
	maskValid  uint64
	maskSorted uint64
	rowCounts  map[int]uint32
	rows       bytes.Buffer
	extraData  *uint32
}

func newTablesStreamBuilder() *tablesStreamBuilder {
	return &tablesStreamBuilder{rowCounts: make(map[int]uint32)}
}

func (b *tablesStreamBuilder) addTable(number int, numRows uint32) {
	b.maskValid |= 1 << number
	b.rowCounts[number] = numRows
}

func (b *tablesStreamBuilder) u16(v uint16) {
	binary.Write(&b.rows, binary.LittleEndian, v)
}

func (b *tablesStreamBuilder) u32(v uint32) {
	binary.Write(&b.rows, binary.LittleEndian, v)
}

func (b *tablesStreamBuilder) bytes() []byte {
	var buf bytes.Buffer
	binary.Write(&buf, binary.LittleEndian, uint32(0)) // Reserved
	buf.WriteByte(2)                                   // MajorVersion
	buf.WriteByte(0)                                   // MinorVersion
	buf.WriteByte(b.heaps)                             // HeapOffsetSizes
	buf.WriteByte(1)                                   // RID
	binary.Write(&buf, binary.LittleEndian, b.maskValid)
	binary.Write(&buf, binary.LittleEndian, b.maskSorted)
	for i := 0; i < MaxTableCount; i++ {
		if b.maskValid&(1<<i) != 0 {
			binary.Write(&buf, binary.LittleEndian, b.rowCounts[i])
		}
	}
	if b.extraData != nil {
		binary.Write(&buf, binary.LittleEndian, *b.extraData)
	}
	buf.Write(b.rows.Bytes())
	return buf.Bytes()
}

// testStringsHeap builds a #Strings heap and returns it with an offset
// lookup.
func testStringsHeap(names ...string) (*StringsHeap, map[string]uint32) {
	var buf bytes.Buffer
	buf.WriteByte(0)
	offsets := map[string]uint32{"": 0}
	for _, name := range names {
		offsets[name] = uint32(buf.Len())
		buf.WriteString(name)
		buf.WriteByte(0)
	}
	return &StringsHeap{MetadataStream{Data: buf.Bytes()}}, offsets
}

// buildRunListStream builds a TypeDef table of two rows over a Field table
// of four rows, with FieldList starts (1, 3).
func buildRunListStream(strs map[string]uint32) []byte {
	b := newTablesStreamBuilder()
	b.addTable(TypeDef, 2)
	b.addTable(Field, 4)

	// TypeDef rows: Flags, TypeName, TypeNamespace, Extends, FieldList,
	// MethodList.
	b.u32(0)
	b.u16(uint16(strs["First"]))
	b.u16(0)
	b.u16(0)
	b.u16(1) // FieldList start
	b.u16(1)

	b.u32(0)
	b.u16(uint16(strs["Second"]))
	b.u16(0)
	b.u16(0)
	b.u16(3) // FieldList start
	b.u16(1)

	// Field rows: Flags, Name, Signature.
	for _, name := range []string{"f1", "f2", "f3", "f4"} {
		b.u16(0)
		b.u16(uint16(strs[name]))
		b.u16(0)
	}
	return b.bytes()
}

func TestRunListTailOwnership(t *testing.T) {
	strsHeap, strs := testStringsHeap("First", "Second", "f1", "f2", "f3", "f4")
	blobHeap := &BlobHeap{MetadataStream{Data: []byte{0x00}}}

	md, err := parseMetadataTables(buildRunListStream(strs), 0, 0,
		strsHeap, nil, nil, blobHeap, false, nil)
	if err != nil {
		t.Fatalf("parseMetadataTables failed: %v", err)
	}

	typeDefs := md.TableByNumber(TypeDef)
	if typeDefs == nil || typeDefs.Len() != 2 {
		t.Fatal("TypeDef table missing or wrong length")
	}

	// Row 0 owns fields 1..2, row 1 owns fields 3..4.
	first := typeDefs.Row(0).(*TypeDefRow)
	second := typeDefs.Row(1).(*TypeDefRow)

	wantFirst := []MDTableIndex{
		{Table: Field, RowIndex: 1},
		{Table: Field, RowIndex: 2},
	}
	wantSecond := []MDTableIndex{
		{Table: Field, RowIndex: 3},
		{Table: Field, RowIndex: 4},
	}
	if !reflect.DeepEqual(first.FieldList, wantFirst) {
		t.Errorf("first run = %+v, want %+v", first.FieldList, wantFirst)
	}
	if !reflect.DeepEqual(second.FieldList, wantSecond) {
		t.Errorf("second run = %+v, want %+v", second.FieldList, wantSecond)
	}

	// The adjacent runs partition the child table.
	total := len(first.FieldList) + len(second.FieldList)
	if total != int(md.TableByNumber(Field).NumRows) {
		t.Errorf("runs cover %d of %d field rows", total,
			md.TableByNumber(Field).NumRows)
	}

	// The MethodDef table is absent, so every MethodList run is empty.
	if len(first.MethodList) != 0 || len(second.MethodList) != 0 {
		t.Error("MethodList runs over an absent table must be empty")
	}

	// Field rows resolved their names through the heap.
	f1 := md.TableByNumber(Field).RowWithIndex(first.FieldList[0].RowIndex).(*FieldRow)
	if f1.Name != "f1" {
		t.Errorf("field 1 name = %q, want f1", f1.Name)
	}
}

func TestRunListEmptyMiddle(t *testing.T) {
	// Both parents start at 3: the first run is empty, the second owns
	// the tail.
	strsHeap, strs := testStringsHeap("First", "Second", "f1", "f2", "f3", "f4")
	b := newTablesStreamBuilder()
	b.addTable(TypeDef, 2)
	b.addTable(Field, 4)
	for _, start := range []uint16{3, 3} {
		b.u32(0)
		b.u16(uint16(strs["First"]))
		b.u16(0)
		b.u16(0)
		b.u16(start)
		b.u16(1)
	}
	for _, name := range []string{"f1", "f2", "f3", "f4"} {
		b.u16(0)
		b.u16(uint16(strs[name]))
		b.u16(0)
	}

	md, err := parseMetadataTables(b.bytes(), 0, 0, strsHeap, nil, nil, nil,
		false, nil)
	if err != nil {
		t.Fatalf("parseMetadataTables failed: %v", err)
	}

	rows := md.TableByNumber(TypeDef)
	first := rows.Row(0).(*TypeDefRow)
	second := rows.Row(1).(*TypeDefRow)
	if len(first.FieldList) != 0 {
		t.Errorf("first run = %+v, want empty", first.FieldList)
	}
	if len(second.FieldList) != 2 || second.FieldList[0].RowIndex != 3 {
		t.Errorf("second run = %+v", second.FieldList)
	}
}

func TestTruncatedTableBody(t *testing.T) {
	strsHeap, strs := testStringsHeap("First", "Second", "f1", "f2", "f3", "f4")
	full := buildRunListStream(strs)

	// Chop one Field row off the end: as many rows as fit are produced
	// and the shortfall is a warning, not an error.
	var warnings []string
	md, err := parseMetadataTables(full[:len(full)-6], 0, 0, strsHeap, nil,
		nil, nil, false, func(msg string) { warnings = append(warnings, msg) })
	if err != nil {
		t.Fatalf("parseMetadataTables failed: %v", err)
	}

	fields := md.TableByNumber(Field)
	if fields.Len() != 3 {
		t.Errorf("decoded %d field rows, want 3", fields.Len())
	}
	if fields.NumRows != 4 {
		t.Errorf("declared rows = %d, want 4", fields.NumRows)
	}

	found := false
	for _, w := range warnings {
		if strings.Contains(w, "not enough data") {
			found = true
		}
	}
	if !found {
		t.Errorf("missing truncation warning, got %v", warnings)
	}
}

func TestExtraDataDword(t *testing.T) {
	strsHeap, strs := testStringsHeap("First", "Second", "f1", "f2", "f3", "f4")

	b := newTablesStreamBuilder()
	b.heaps = HeapOffsetExtraData
	extra := uint32(0xDEADBEEF)
	b.extraData = &extra
	b.addTable(Field, 1)
	b.u16(0)
	b.u16(uint16(strs["f1"]))
	b.u16(0)

	md, err := parseMetadataTables(b.bytes(), 0, 0, strsHeap, nil, nil, nil,
		false, nil)
	if err != nil {
		t.Fatalf("parseMetadataTables failed: %v", err)
	}
	if !md.HasExtraData || md.ExtraData != 0xDEADBEEF {
		t.Errorf("extra data = (%v, 0x%x)", md.HasExtraData, md.ExtraData)
	}

	// The row cursor accounts for the extra dword.
	row := md.TableByNumber(Field).Row(0).(*FieldRow)
	if row.Name != "f1" {
		t.Errorf("field name = %q, want f1", row.Name)
	}
}

func TestTablesStreamTooSmall(t *testing.T) {
	if _, err := parseMetadataTables([]byte{0x01, 0x02}, 0, 0, nil, nil, nil,
		nil, false, nil); err == nil {
		t.Error("short tables stream expected an error")
	}
}

func TestUnknownTableSkipped(t *testing.T) {
	// A MaskValid bit without a row schema skips that table but keeps the
	// warning and the rest of the parse.
	strsHeap, strs := testStringsHeap("f1")
	b := newTablesStreamBuilder()
	b.addTable(Field, 1)
	b.addTable(60, 1) // no schema for slot 60
	b.u16(0)
	b.u16(uint16(strs["f1"]))
	b.u16(0)

	var warnings []string
	md, err := parseMetadataTables(b.bytes(), 0, 0, strsHeap, nil, nil, nil,
		false, func(msg string) { warnings = append(warnings, msg) })
	if err != nil {
		t.Fatalf("parseMetadataTables failed: %v", err)
	}
	if md.TableByNumber(60) != nil {
		t.Error("slot 60 should have been skipped")
	}
	if md.TableByNumber(Field) == nil {
		t.Error("Field table lost")
	}
	if len(warnings) == 0 {
		t.Error("missing skip warning")
	}
}

func TestSortBitRecorded(t *testing.T) {
	strsHeap, strs := testStringsHeap("f1")
	b := newTablesStreamBuilder()
	b.addTable(Field, 1)
	b.maskSorted = 1 << Field
	b.u16(0)
	b.u16(uint16(strs["f1"]))
	b.u16(0)

	md, err := parseMetadataTables(b.bytes(), 0, 0, strsHeap, nil, nil, nil,
		false, nil)
	if err != nil {
		t.Fatalf("parseMetadataTables failed: %v", err)
	}
	if !md.TableByNumber(Field).IsSorted {
		t.Error("sort bit not recorded")
	}
}

func TestLazyLoadMatchesEager(t *testing.T) {
	strsHeap, strs := testStringsHeap("First", "Second", "f1", "f2", "f3", "f4")
	data := buildRunListStream(strs)

	eager, err := parseMetadataTables(data, 0, 0, strsHeap, nil, nil, nil,
		false, nil)
	if err != nil {
		t.Fatalf("eager parse failed: %v", err)
	}
	lazy, err := parseMetadataTables(data, 0, 0, strsHeap, nil, nil, nil,
		true, nil)
	if err != nil {
		t.Fatalf("lazy parse failed: %v", err)
	}

	// Before first access the lazy tables hold no rows; sizes are still
	// known because they parameterize the stream layout.
	lazyTable := lazy.TableByNumber(TypeDef)
	if lazyTable.State() != TableUnloaded {
		t.Errorf("lazy state = %v, want unloaded", lazyTable.State())
	}
	if lazyTable.RowSize != eager.TableByNumber(TypeDef).RowSize {
		t.Error("lazy row size differs")
	}

	// First row access triggers the one-shot load; observable results
	// match the eager parse.
	eagerRow := eager.TableByNumber(TypeDef).Row(1).(*TypeDefRow)
	lazyRow := lazyTable.Row(1).(*TypeDefRow)
	if !reflect.DeepEqual(eagerRow, lazyRow) {
		t.Errorf("lazy row = %+v, eager row = %+v", lazyRow, eagerRow)
	}
	if lazyTable.State() != TableLoaded {
		t.Errorf("state after access = %v, want loaded", lazyTable.State())
	}
}

func TestRowSourceBytes(t *testing.T) {
	strsHeap, strs := testStringsHeap("First", "Second", "f1", "f2", "f3", "f4")
	md, err := parseMetadataTables(buildRunListStream(strs), 0x1000, 0,
		strsHeap, nil, nil, nil, false, nil)
	if err != nil {
		t.Fatalf("parseMetadataTables failed: %v", err)
	}

	// Every table's data holds exactly RowSize*NumRows bytes, and every
	// 1-based row index resolves to a row.
	for _, table := range md.Tables() {
		if want := table.RowSize * table.NumRows; uint32(len(table.Data)) != want {
			t.Errorf("table %s data length = %d, want %d",
				table.Name, len(table.Data), want)
		}
		for i := uint32(1); i <= uint32(table.Len()); i++ {
			if table.RowWithIndex(i) == nil {
				t.Errorf("table %s row %d missing", table.Name, i)
			}
		}
	}

	// Tables are laid out back to back in ascending number order.
	typeDefs := md.TableByNumber(TypeDef)
	fields := md.TableByNumber(Field)
	if fields.RVA != typeDefs.RVA+typeDefs.RowSize*typeDefs.NumRows {
		t.Errorf("field table RVA = 0x%x", fields.RVA)
	}
}
