// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package dnfile

// Metadata tables constants. The table number doubles as the bit position
// inside MaskValid/MaskSorted.
const (
	// The current module descriptor.
	Module = 0
	// Class reference descriptors.
	TypeRef = 1
	// Class or interface definition descriptors.
	TypeDef = 2
	// A class-to-fields lookup table, which does not exist in optimized
	// metadata (#~ stream).
	FieldPtr = 3
	// Field definition descriptors.
	Field = 4
	// A class-to-methods lookup table, which does not exist in
	// optimized metadata (#~ stream).
	MethodPtr = 5
	// Method definition descriptors.
	MethodDef = 6
	// A method-to-parameters lookup table, which does not exist in optimized
	// metadata (#~ stream).
	ParamPtr = 7
	// Parameter definition descriptors.
	Param = 8
	// Interface implementation descriptors.
	InterfaceImpl = 9
	// Member (field or method) reference descriptors.
	MemberRef = 10
	// Constant value descriptors that map the default values stored in the
	// #Blob stream to respective fields, parameters, and properties.
	Constant = 11
	// Custom attribute descriptors.
	CustomAttribute = 12
	// Field or parameter marshaling descriptors for managed/unmanaged
	// inter-operations.
	FieldMarshal = 13
	// Security descriptors.
	DeclSecurity = 14
	// Class layout descriptors that hold information about how the loader
	// should lay out respective classes.
	ClassLayout = 15
	// Field layout descriptors that specify the offset or ordinal of
	// individual fields.
	FieldLayout = 16
	// Stand-alone signature descriptors, used for local variables of
	// methods and parameters of the call indirect (calli) IL instruction.
	StandAloneSig = 17
	// A class-to-events mapping table.
	EventMap = 18
	// An event map-to-events lookup table, which does not exist in
	// optimized metadata (#~ stream).
	EventPtr = 19
	// Event descriptors.
	Event = 20
	// A class-to-properties mapping table.
	PropertyMap = 21
	// A property map-to-properties lookup table, which does not exist in
	// optimized metadata (#~ stream).
	PropertyPtr = 22
	// Property descriptors.
	Property = 23
	// Method semantics descriptors that hold information about which method
	// is associated with a specific property or event and in what capacity.
	MethodSemantics = 24
	// Method implementation descriptors.
	MethodImpl = 25
	// Module reference descriptors.
	ModuleRef = 26
	// Type specification descriptors.
	TypeSpec = 27
	// Implementation map descriptors used for the platform invocation
	// (P/Invoke) type of managed/unmanaged code inter-operation.
	ImplMap = 28
	// Field-to-data mapping descriptors.
	FieldRVA = 29
	// Edit-and-continue log descriptors that hold information about what
	// changes have been made to specific metadata items during in-memory
	// editing. This table does not exist in optimized metadata (#~ stream).
	ENCLog = 30
	// Edit-and-continue mapping descriptors. This table does not exist in
	// optimized metadata (#~ stream).
	ENCMap = 31
	// The current assembly descriptor, which should appear only in the
	// prime module metadata.
	Assembly = 32
	// This table is unused.
	AssemblyProcessor = 33
	// This table is unused.
	AssemblyOS = 34
	// Assembly reference descriptors.
	AssemblyRef = 35
	// This table is unused.
	AssemblyRefProcessor = 36
	// This table is unused.
	AssemblyRefOS = 37
	// File descriptors that contain information about other files in the
	// current assembly.
	FileMD = 38
	// Exported type descriptors that contain information about public
	// classes exported by the current assembly, which are declared in other
	// modules of the assembly.
	ExportedType = 39
	// Managed resource descriptors.
	ManifestResource = 40
	// Nested class descriptors that provide mapping of nested classes to
	// their respective enclosing classes.
	NestedClass = 41
	// Type parameter descriptors for generic (parameterized) classes and
	// methods.
	GenericParam = 42
	// Generic method instantiation descriptors.
	MethodSpec = 43
	// Descriptors of constraints specified for type parameters of generic
	// classes and methods.
	GenericParamConstraint = 44

	// UnusedTable is a placeholder slot referenced by reserved coded-index
	// tags.
	UnusedTable = 62
	// MaxTable is the last table slot.
	MaxTable = 63

	// MaxTableCount is the number of table slots in the row-count vector.
	MaxTableCount = 64

	// tableNone marks a reserved coded-index candidate slot.
	tableNone = -1
)

var metadataTableNames = map[int]string{
	Module:                 "Module",
	TypeRef:                "TypeRef",
	TypeDef:                "TypeDef",
	FieldPtr:               "FieldPtr",
	Field:                  "Field",
	MethodPtr:              "MethodPtr",
	MethodDef:              "MethodDef",
	ParamPtr:               "ParamPtr",
	Param:                  "Param",
	InterfaceImpl:          "InterfaceImpl",
	MemberRef:              "MemberRef",
	Constant:               "Constant",
	CustomAttribute:        "CustomAttribute",
	FieldMarshal:           "FieldMarshal",
	DeclSecurity:           "DeclSecurity",
	ClassLayout:            "ClassLayout",
	FieldLayout:            "FieldLayout",
	StandAloneSig:          "StandAloneSig",
	EventMap:               "EventMap",
	EventPtr:               "EventPtr",
	Event:                  "Event",
	PropertyMap:            "PropertyMap",
	PropertyPtr:            "PropertyPtr",
	Property:               "Property",
	MethodSemantics:        "MethodSemantics",
	MethodImpl:             "MethodImpl",
	ModuleRef:              "ModuleRef",
	TypeSpec:               "TypeSpec",
	ImplMap:                "ImplMap",
	FieldRVA:               "FieldRva",
	ENCLog:                 "EncLog",
	ENCMap:                 "EncMap",
	Assembly:               "Assembly",
	AssemblyProcessor:      "AssemblyProcessor",
	AssemblyOS:             "AssemblyOS",
	AssemblyRef:            "AssemblyRef",
	AssemblyRefProcessor:   "AssemblyRefProcessor",
	AssemblyRefOS:          "AssemblyRefOS",
	FileMD:                 "File",
	ExportedType:           "ExportedType",
	ManifestResource:       "ManifestResource",
	NestedClass:            "NestedClass",
	GenericParam:           "GenericParam",
	MethodSpec:             "MethodSpec",
	GenericParamConstraint: "GenericParamConstraint",
	UnusedTable:            "Unused",
	MaxTable:               "MaxTable",
}

var metadataTableNumbers = func() map[string]int {
	m := make(map[string]int, len(metadataTableNames))
	for num, name := range metadataTableNames {
		m[name] = num
	}
	return m
}()

// MetadataTableIndexToString returns the canonical name of the metadata
// table with the given number, or the empty string for unknown slots.
func MetadataTableIndexToString(k int) string {
	return metadataTableNames[k]
}

// MetadataTableNameToIndex returns the number of the metadata table with
// the given canonical name. The second result reports whether the name is
// known.
func MetadataTableNameToIndex(name string) (int, bool) {
	num, ok := metadataTableNumbers[name]
	return num, ok
}

// CodedIndexType identifies one of the 13 coded-index kinds. Each kind is a
// tagged reference into a small candidate set of tables; the low tag bits
// select the table, the high bits carry the 1-based row index.
type CodedIndexType uint8

// Coded index kinds, ECMA-335 II.24.2.6.
const (
	CodedTypeDefOrRef CodedIndexType = iota
	CodedHasConstant
	CodedHasCustomAttribute
	CodedHasFieldMarshall
	CodedHasDeclSecurity
	CodedMemberRefParent
	CodedHasSemantics
	CodedMethodDefOrRef
	CodedMemberForwarded
	CodedImplementation
	CodedCustomAttributeType
	CodedResolutionScope
	CodedTypeOrMethodDef

	codedIndexCount
)

// codedIndexDesc describes one coded-index kind: the number of tag bits and
// the candidate tables in tag order. Reserved slots are tableNone.
type codedIndexDesc struct {
	tagBits uint8
	tables  []int
}

var codedIndexes = [codedIndexCount]codedIndexDesc{
	CodedTypeDefOrRef: {2, []int{TypeDef, TypeRef, TypeSpec}},
	CodedHasConstant:  {2, []int{Field, Param, Property}},
	CodedHasCustomAttribute: {5, []int{
		MethodDef, Field, TypeRef, TypeDef, Param, InterfaceImpl,
		MemberRef, Module, DeclSecurity, Property, Event, StandAloneSig,
		ModuleRef, TypeSpec, Assembly, AssemblyRef, FileMD, ExportedType,
		ManifestResource, GenericParam, GenericParamConstraint}},
	CodedHasFieldMarshall: {1, []int{Field, Param}},
	CodedHasDeclSecurity:  {2, []int{TypeDef, MethodDef, Assembly}},
	CodedMemberRefParent:  {3, []int{TypeDef, TypeRef, ModuleRef, MethodDef, TypeSpec}},
	CodedHasSemantics:     {1, []int{Event, Property}},
	CodedMethodDefOrRef:   {1, []int{MethodDef, MemberRef}},
	CodedMemberForwarded:  {1, []int{Field, MethodDef}},
	CodedImplementation:   {2, []int{FileMD, AssemblyRef, ExportedType}},
	CodedCustomAttributeType: {3, []int{
		tableNone, tableNone, MethodDef, MemberRef, tableNone}},
	CodedResolutionScope: {2, []int{Module, ModuleRef, AssemblyRef, TypeRef}},
	CodedTypeOrMethodDef: {1, []int{TypeDef, MethodDef}},
}

// String returns the kind name.
func (c CodedIndexType) String() string {
	names := [codedIndexCount]string{
		"TypeDefOrRef", "HasConstant", "HasCustomAttribute",
		"HasFieldMarshall", "HasDeclSecurity", "MemberRefParent",
		"HasSemantics", "MethodDefOrRef", "MemberForwarded",
		"Implementation", "CustomAttributeType", "ResolutionScope",
		"TypeOrMethodDef",
	}
	if int(c) < len(names) {
		return names[c]
	}
	return ""
}

// MDTableIndex is a reference to one row of one table. RowIndex is 1-based;
// zero means "no reference".
type MDTableIndex struct {
	Table    int    `json:"table"`
	RowIndex uint32 `json:"row_index"`
}

// IsNil reports whether the reference points at nothing.
func (i MDTableIndex) IsNil() bool {
	return i.RowIndex == 0
}

// CodedIndex is a decoded coded-index reference. Table is tableNone (-1)
// when the tag selects a reserved slot; a zero row index keeps the tag's
// table and is reported by IsNil. Raw always preserves the on-disk value.
type CodedIndex struct {
	Tag      uint8  `json:"tag"`
	Table    int    `json:"table"`
	RowIndex uint32 `json:"row_index"`
	Raw      uint32 `json:"raw"`
}

// IsNil reports whether the reference points at nothing.
func (c CodedIndex) IsNil() bool {
	return c.Table == tableNone || c.RowIndex == 0
}

// decodeCodedIndex splits a raw coded-index value into its tag and row
// index parts for the given kind.
func decodeCodedIndex(kind CodedIndexType, raw uint32) CodedIndex {
	desc := codedIndexes[kind]
	tag := uint8(raw & (1<<desc.tagBits - 1))
	ci := CodedIndex{
		Tag:      tag,
		Table:    tableNone,
		RowIndex: raw >> desc.tagBits,
		Raw:      raw,
	}
	if int(tag) < len(desc.tables) {
		ci.Table = desc.tables[tag]
	}
	return ci
}

// codedIndexSize returns the on-disk width, in bytes, of a coded index of
// the given kind: 2 when the largest candidate row count is at most
// 2^(16-tagBits), 4 otherwise. Missing tables count as zero rows.
func codedIndexSize(kind CodedIndexType, rowCounts *[MaxTableCount]uint32) uint32 {
	desc := codedIndexes[kind]
	var maxRows uint32
	for _, tbl := range desc.tables {
		if tbl == tableNone {
			continue
		}
		if rowCounts[tbl] > maxRows {
			maxRows = rowCounts[tbl]
		}
	}
	if maxRows <= 1<<(16-desc.tagBits) {
		return 2
	}
	return 4
}

// simpleIndexSize returns the on-disk width, in bytes, of a plain index
// into the given table: 2 when the row count is at most 2^16, 4 otherwise.
func simpleIndexSize(table int, rowCounts *[MaxTableCount]uint32) uint32 {
	if rowCounts[table] <= 1<<16 {
		return 2
	}
	return 4
}
