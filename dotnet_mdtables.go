// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package dnfile

// the struct definitions and comments are from the ECMA-335 spec 6th edition
// https://www.ecma-international.org/wp-content/uploads/ECMA-335_6th_edition_june_2012.pdf
//
// Every row kind comes in two shapes: a raw struct holding the on-disk
// column values exactly as read (heap offsets, packed coded indexes), and
// the row itself whose reference-like fields are resolved during the second
// decoding pass. Raw values are always preserved so callers can inspect
// dangling references.

// ModuleRowRaw holds the on-disk columns of a Module row.
type ModuleRowRaw struct {
	Generation uint16
	Name       uint32
	Mvid       uint32
	EncID      uint32
	EncBaseID  uint32
}

// ModuleRow 0x00. The Module table contains a single record that provides
// the identification of the current module.
type ModuleRow struct {
	Raw ModuleRowRaw `json:"-"`

	// A 2-byte value, reserved, shall be zero.
	Generation uint16 `json:"generation"`
	// The module name, which is the same as the name of the executable
	// file with its extension but without a path.
	Name string `json:"name"`
	// A globally unique identifier, assigned to the module as it is
	// generated.
	Mvid *GuidItem `json:"mvid"`
	// Used only at run time, in edit-and-continue mode.
	EncID *GuidItem `json:"enc_id"`
	// Used only at run time, in edit-and-continue mode.
	EncBaseID *GuidItem `json:"enc_base_id"`
}

func (row *ModuleRow) decodeRow(r *rowReader) {
	row.Raw.Generation = r.u16()
	row.Raw.Name = r.stringIndex()
	row.Raw.Mvid = r.guidIndex()
	row.Raw.EncID = r.guidIndex()
	row.Raw.EncBaseID = r.guidIndex()
}

func (row *ModuleRow) resolveRow(md *MetadataTables, next Row) {
	row.Generation = row.Raw.Generation
	row.Name = md.str(row.Raw.Name)
	row.Mvid = md.guid(row.Raw.Mvid)
	row.EncID = md.guid(row.Raw.EncID)
	row.EncBaseID = md.guid(row.Raw.EncBaseID)
}

// TypeRefRowRaw holds the on-disk columns of a TypeRef row.
type TypeRefRowRaw struct {
	ResolutionScope uint32
	TypeName        uint32
	TypeNamespace   uint32
}

// TypeRefRow 0x01.
type TypeRefRow struct {
	Raw TypeRefRowRaw `json:"-"`

	// A ResolutionScope (§II.24.2.6) coded index into Module, ModuleRef,
	// AssemblyRef or TypeRef.
	ResolutionScope CodedIndex `json:"resolution_scope"`
	TypeName        string     `json:"type_name"`
	TypeNamespace   string     `json:"type_namespace"`
}

func (row *TypeRefRow) decodeRow(r *rowReader) {
	row.Raw.ResolutionScope = r.coded(CodedResolutionScope)
	row.Raw.TypeName = r.stringIndex()
	row.Raw.TypeNamespace = r.stringIndex()
}

func (row *TypeRefRow) resolveRow(md *MetadataTables, next Row) {
	row.ResolutionScope = md.coded(CodedResolutionScope, row.Raw.ResolutionScope)
	row.TypeName = md.str(row.Raw.TypeName)
	row.TypeNamespace = md.str(row.Raw.TypeNamespace)
}

// TypeDefRowRaw holds the on-disk columns of a TypeDef row.
type TypeDefRowRaw struct {
	Flags         uint32
	TypeName      uint32
	TypeNamespace uint32
	Extends       uint32
	FieldList     uint32
	MethodList    uint32
}

// TypeDefRow 0x02.
type TypeDefRow struct {
	Raw TypeDefRowRaw `json:"-"`

	Flags         TypeAttributes `json:"flags"`
	TypeName      string         `json:"type_name"`
	TypeNamespace string         `json:"type_namespace"`
	// A TypeDefOrRef (§II.24.2.6) coded index into TypeDef, TypeRef, or
	// TypeSpec.
	Extends CodedIndex `json:"extends"`
	// The contiguous run of Fields owned by this type. The wire format
	// stores only the first index; the run ends where the next TypeDef
	// row's run begins.
	FieldList []MDTableIndex `json:"field_list"`
	// The contiguous run of Methods owned by this type.
	MethodList []MDTableIndex `json:"method_list"`
}

func (row *TypeDefRow) decodeRow(r *rowReader) {
	row.Raw.Flags = r.u32()
	row.Raw.TypeName = r.stringIndex()
	row.Raw.TypeNamespace = r.stringIndex()
	row.Raw.Extends = r.coded(CodedTypeDefOrRef)
	row.Raw.FieldList = r.index(Field)
	row.Raw.MethodList = r.index(MethodDef)
}

func (row *TypeDefRow) resolveRow(md *MetadataTables, next Row) {
	row.Flags = TypeAttributes(row.Raw.Flags)
	row.TypeName = md.str(row.Raw.TypeName)
	row.TypeNamespace = md.str(row.Raw.TypeNamespace)
	row.Extends = md.coded(CodedTypeDefOrRef, row.Raw.Extends)
	nextRaw, hasNext := nextTypeDef(next)
	row.FieldList = md.runList(Field, row.Raw.FieldList, nextRaw.FieldList, hasNext)
	row.MethodList = md.runList(MethodDef, row.Raw.MethodList, nextRaw.MethodList, hasNext)
}

func nextTypeDef(next Row) (TypeDefRowRaw, bool) {
	if n, ok := next.(*TypeDefRow); ok {
		return n.Raw, true
	}
	return TypeDefRowRaw{}, false
}

// FieldPtrRowRaw holds the on-disk columns of a FieldPtr row.
type FieldPtrRowRaw struct {
	Field uint32
}

// FieldPtrRow 0x03. Only present in un-optimized (#-) metadata.
type FieldPtrRow struct {
	Raw   FieldPtrRowRaw `json:"-"`
	Field MDTableIndex   `json:"field"`
}

func (row *FieldPtrRow) decodeRow(r *rowReader) {
	row.Raw.Field = r.index(Field)
}

func (row *FieldPtrRow) resolveRow(md *MetadataTables, next Row) {
	row.Field = md.index(Field, row.Raw.Field)
}

// FieldRowRaw holds the on-disk columns of a Field row.
type FieldRowRaw struct {
	Flags     uint16
	Name      uint32
	Signature uint32
}

// FieldRow 0x04.
type FieldRow struct {
	Raw FieldRowRaw `json:"-"`

	Flags     FieldAttributes `json:"flags"`
	Name      string          `json:"name"`
	Signature []byte          `json:"-"`
}

func (row *FieldRow) decodeRow(r *rowReader) {
	row.Raw.Flags = r.u16()
	row.Raw.Name = r.stringIndex()
	row.Raw.Signature = r.blobIndex()
}

func (row *FieldRow) resolveRow(md *MetadataTables, next Row) {
	row.Flags = FieldAttributes(row.Raw.Flags)
	row.Name = md.str(row.Raw.Name)
	row.Signature = md.blob(row.Raw.Signature)
}

// MethodPtrRowRaw holds the on-disk columns of a MethodPtr row.
type MethodPtrRowRaw struct {
	Method uint32
}

// MethodPtrRow 0x05. Only present in un-optimized (#-) metadata.
type MethodPtrRow struct {
	Raw    MethodPtrRowRaw `json:"-"`
	Method MDTableIndex    `json:"method"`
}

func (row *MethodPtrRow) decodeRow(r *rowReader) {
	row.Raw.Method = r.index(MethodDef)
}

func (row *MethodPtrRow) resolveRow(md *MetadataTables, next Row) {
	row.Method = md.index(MethodDef, row.Raw.Method)
}

// MethodDefRowRaw holds the on-disk columns of a MethodDef row.
type MethodDefRowRaw struct {
	RVA       uint32
	ImplFlags uint16
	Flags     uint16
	Name      uint32
	Signature uint32
	ParamList uint32
}

// MethodDefRow 0x06.
type MethodDefRow struct {
	Raw MethodDefRowRaw `json:"-"`

	RVA       uint32               `json:"rva"`
	ImplFlags MethodImplAttributes `json:"impl_flags"`
	Flags     MethodAttributes     `json:"flags"`
	Name      string               `json:"name"`
	Signature []byte               `json:"-"`
	// The contiguous run of Params owned by this method.
	ParamList []MDTableIndex `json:"param_list"`
}

func (row *MethodDefRow) decodeRow(r *rowReader) {
	row.Raw.RVA = r.u32()
	row.Raw.ImplFlags = r.u16()
	row.Raw.Flags = r.u16()
	row.Raw.Name = r.stringIndex()
	row.Raw.Signature = r.blobIndex()
	row.Raw.ParamList = r.index(Param)
}

func (row *MethodDefRow) resolveRow(md *MetadataTables, next Row) {
	row.RVA = row.Raw.RVA
	row.ImplFlags = MethodImplAttributes(row.Raw.ImplFlags)
	row.Flags = MethodAttributes(row.Raw.Flags)
	row.Name = md.str(row.Raw.Name)
	row.Signature = md.blob(row.Raw.Signature)
	var nextStart uint32
	hasNext := false
	if n, ok := next.(*MethodDefRow); ok {
		nextStart = n.Raw.ParamList
		hasNext = true
	}
	row.ParamList = md.runList(Param, row.Raw.ParamList, nextStart, hasNext)
}

// ParamPtrRowRaw holds the on-disk columns of a ParamPtr row.
type ParamPtrRowRaw struct {
	Param uint32
}

// ParamPtrRow 0x07. Only present in un-optimized (#-) metadata.
type ParamPtrRow struct {
	Raw   ParamPtrRowRaw `json:"-"`
	Param MDTableIndex   `json:"param"`
}

func (row *ParamPtrRow) decodeRow(r *rowReader) {
	row.Raw.Param = r.index(Param)
}

func (row *ParamPtrRow) resolveRow(md *MetadataTables, next Row) {
	row.Param = md.index(Param, row.Raw.Param)
}

// ParamRowRaw holds the on-disk columns of a Param row.
type ParamRowRaw struct {
	Flags    uint16
	Sequence uint16
	Name     uint32
}

// ParamRow 0x08.
type ParamRow struct {
	Raw ParamRowRaw `json:"-"`

	Flags    ParamAttributes `json:"flags"`
	Sequence uint16          `json:"sequence"`
	Name     string          `json:"name"`
}

func (row *ParamRow) decodeRow(r *rowReader) {
	row.Raw.Flags = r.u16()
	row.Raw.Sequence = r.u16()
	row.Raw.Name = r.stringIndex()
}

func (row *ParamRow) resolveRow(md *MetadataTables, next Row) {
	row.Flags = ParamAttributes(row.Raw.Flags)
	row.Sequence = row.Raw.Sequence
	row.Name = md.str(row.Raw.Name)
}

// InterfaceImplRowRaw holds the on-disk columns of an InterfaceImpl row.
type InterfaceImplRowRaw struct {
	Class     uint32
	Interface uint32
}

// InterfaceImplRow 0x09.
type InterfaceImplRow struct {
	Raw InterfaceImplRowRaw `json:"-"`

	Class MDTableIndex `json:"class"`
	// A TypeDefOrRef coded index naming the implemented interface.
	Interface CodedIndex `json:"interface"`
}

func (row *InterfaceImplRow) decodeRow(r *rowReader) {
	row.Raw.Class = r.index(TypeDef)
	row.Raw.Interface = r.coded(CodedTypeDefOrRef)
}

func (row *InterfaceImplRow) resolveRow(md *MetadataTables, next Row) {
	row.Class = md.index(TypeDef, row.Raw.Class)
	row.Interface = md.coded(CodedTypeDefOrRef, row.Raw.Interface)
}

// MemberRefRowRaw holds the on-disk columns of a MemberRef row.
type MemberRefRowRaw struct {
	Class     uint32
	Name      uint32
	Signature uint32
}

// MemberRefRow 0x0a.
type MemberRefRow struct {
	Raw MemberRefRowRaw `json:"-"`

	// A MemberRefParent (§II.24.2.6) coded index.
	Class     CodedIndex `json:"class"`
	Name      string     `json:"name"`
	Signature []byte     `json:"-"`
}

func (row *MemberRefRow) decodeRow(r *rowReader) {
	row.Raw.Class = r.coded(CodedMemberRefParent)
	row.Raw.Name = r.stringIndex()
	row.Raw.Signature = r.blobIndex()
}

func (row *MemberRefRow) resolveRow(md *MetadataTables, next Row) {
	row.Class = md.coded(CodedMemberRefParent, row.Raw.Class)
	row.Name = md.str(row.Raw.Name)
	row.Signature = md.blob(row.Raw.Signature)
}

// ConstantRowRaw holds the on-disk columns of a Constant row.
type ConstantRowRaw struct {
	Type    uint8
	Padding uint8
	Parent  uint32
	Value   uint32
}

// ConstantRow 0x0b.
type ConstantRow struct {
	Raw ConstantRowRaw `json:"-"`

	// A 1-byte ELEMENT_TYPE constant, followed by a 1-byte padding zero.
	Type    ElementType `json:"type"`
	Padding uint8       `json:"padding"`
	// A HasConstant (§II.24.2.6) coded index into Param, Field or Property.
	Parent CodedIndex `json:"parent"`
	Value  []byte     `json:"-"`
}

func (row *ConstantRow) decodeRow(r *rowReader) {
	row.Raw.Type = r.u8()
	row.Raw.Padding = r.u8()
	row.Raw.Parent = r.coded(CodedHasConstant)
	row.Raw.Value = r.blobIndex()
}

func (row *ConstantRow) resolveRow(md *MetadataTables, next Row) {
	row.Type = ElementType(row.Raw.Type)
	row.Padding = row.Raw.Padding
	row.Parent = md.coded(CodedHasConstant, row.Raw.Parent)
	row.Value = md.blob(row.Raw.Value)
}

// CustomAttributeRowRaw holds the on-disk columns of a CustomAttribute row.
type CustomAttributeRowRaw struct {
	Parent uint32
	Type   uint32
	Value  uint32
}

// CustomAttributeRow 0x0c.
type CustomAttributeRow struct {
	Raw CustomAttributeRowRaw `json:"-"`

	// A HasCustomAttribute (§II.24.2.6) coded index.
	Parent CodedIndex `json:"parent"`
	// A CustomAttributeType (§II.24.2.6) coded index into MethodDef or
	// MemberRef.
	Type  CodedIndex `json:"type"`
	Value []byte     `json:"-"`
}

func (row *CustomAttributeRow) decodeRow(r *rowReader) {
	row.Raw.Parent = r.coded(CodedHasCustomAttribute)
	row.Raw.Type = r.coded(CodedCustomAttributeType)
	row.Raw.Value = r.blobIndex()
}

func (row *CustomAttributeRow) resolveRow(md *MetadataTables, next Row) {
	row.Parent = md.coded(CodedHasCustomAttribute, row.Raw.Parent)
	row.Type = md.coded(CodedCustomAttributeType, row.Raw.Type)
	row.Value = md.blob(row.Raw.Value)
}

// FieldMarshalRowRaw holds the on-disk columns of a FieldMarshal row.
type FieldMarshalRowRaw struct {
	Parent     uint32
	NativeType uint32
}

// FieldMarshalRow 0x0d.
type FieldMarshalRow struct {
	Raw FieldMarshalRowRaw `json:"-"`

	// A HasFieldMarshall (§II.24.2.6) coded index into Field or Param.
	Parent     CodedIndex `json:"parent"`
	NativeType []byte     `json:"-"`
}

func (row *FieldMarshalRow) decodeRow(r *rowReader) {
	row.Raw.Parent = r.coded(CodedHasFieldMarshall)
	row.Raw.NativeType = r.blobIndex()
}

func (row *FieldMarshalRow) resolveRow(md *MetadataTables, next Row) {
	row.Parent = md.coded(CodedHasFieldMarshall, row.Raw.Parent)
	row.NativeType = md.blob(row.Raw.NativeType)
}

// DeclSecurityRowRaw holds the on-disk columns of a DeclSecurity row.
type DeclSecurityRowRaw struct {
	Action        uint16
	Parent        uint32
	PermissionSet uint32
}

// DeclSecurityRow 0x0e.
type DeclSecurityRow struct {
	Raw DeclSecurityRowRaw `json:"-"`

	Action uint16 `json:"action"`
	// A HasDeclSecurity (§II.24.2.6) coded index into TypeDef, MethodDef
	// or Assembly.
	Parent        CodedIndex `json:"parent"`
	PermissionSet []byte     `json:"-"`
}

func (row *DeclSecurityRow) decodeRow(r *rowReader) {
	row.Raw.Action = r.u16()
	row.Raw.Parent = r.coded(CodedHasDeclSecurity)
	row.Raw.PermissionSet = r.blobIndex()
}

func (row *DeclSecurityRow) resolveRow(md *MetadataTables, next Row) {
	row.Action = row.Raw.Action
	row.Parent = md.coded(CodedHasDeclSecurity, row.Raw.Parent)
	row.PermissionSet = md.blob(row.Raw.PermissionSet)
}

// ClassLayoutRowRaw holds the on-disk columns of a ClassLayout row.
type ClassLayoutRowRaw struct {
	PackingSize uint16
	ClassSize   uint32
	Parent      uint32
}

// ClassLayoutRow 0x0f.
type ClassLayoutRow struct {
	Raw ClassLayoutRowRaw `json:"-"`

	PackingSize uint16       `json:"packing_size"`
	ClassSize   uint32       `json:"class_size"`
	Parent      MDTableIndex `json:"parent"`
}

func (row *ClassLayoutRow) decodeRow(r *rowReader) {
	row.Raw.PackingSize = r.u16()
	row.Raw.ClassSize = r.u32()
	row.Raw.Parent = r.index(TypeDef)
}

func (row *ClassLayoutRow) resolveRow(md *MetadataTables, next Row) {
	row.PackingSize = row.Raw.PackingSize
	row.ClassSize = row.Raw.ClassSize
	row.Parent = md.index(TypeDef, row.Raw.Parent)
}

// FieldLayoutRowRaw holds the on-disk columns of a FieldLayout row.
type FieldLayoutRowRaw struct {
	Offset uint32
	Field  uint32
}

// FieldLayoutRow 0x10.
type FieldLayoutRow struct {
	Raw FieldLayoutRowRaw `json:"-"`

	Offset uint32       `json:"offset"`
	Field  MDTableIndex `json:"field"`
}

func (row *FieldLayoutRow) decodeRow(r *rowReader) {
	row.Raw.Offset = r.u32()
	row.Raw.Field = r.index(Field)
}

func (row *FieldLayoutRow) resolveRow(md *MetadataTables, next Row) {
	row.Offset = row.Raw.Offset
	row.Field = md.index(Field, row.Raw.Field)
}

// StandAloneSigRowRaw holds the on-disk columns of a StandAloneSig row.
type StandAloneSigRowRaw struct {
	Signature uint32
}

// StandAloneSigRow 0x11.
type StandAloneSigRow struct {
	Raw       StandAloneSigRowRaw `json:"-"`
	Signature []byte              `json:"-"`
}

func (row *StandAloneSigRow) decodeRow(r *rowReader) {
	row.Raw.Signature = r.blobIndex()
}

func (row *StandAloneSigRow) resolveRow(md *MetadataTables, next Row) {
	row.Signature = md.blob(row.Raw.Signature)
}

// EventMapRowRaw holds the on-disk columns of an EventMap row.
type EventMapRowRaw struct {
	Parent    uint32
	EventList uint32
}

// EventMapRow 0x12.
type EventMapRow struct {
	Raw EventMapRowRaw `json:"-"`

	Parent MDTableIndex `json:"parent"`
	// The contiguous run of Events owned by the parent type.
	EventList []MDTableIndex `json:"event_list"`
}

func (row *EventMapRow) decodeRow(r *rowReader) {
	row.Raw.Parent = r.index(TypeDef)
	row.Raw.EventList = r.index(Event)
}

func (row *EventMapRow) resolveRow(md *MetadataTables, next Row) {
	row.Parent = md.index(TypeDef, row.Raw.Parent)
	var nextStart uint32
	hasNext := false
	if n, ok := next.(*EventMapRow); ok {
		nextStart = n.Raw.EventList
		hasNext = true
	}
	row.EventList = md.runList(Event, row.Raw.EventList, nextStart, hasNext)
}

// EventPtrRowRaw holds the on-disk columns of an EventPtr row.
type EventPtrRowRaw struct {
	Event uint32
}

// EventPtrRow 0x13. Only present in un-optimized (#-) metadata.
type EventPtrRow struct {
	Raw   EventPtrRowRaw `json:"-"`
	Event MDTableIndex   `json:"event"`
}

func (row *EventPtrRow) decodeRow(r *rowReader) {
	row.Raw.Event = r.index(Event)
}

func (row *EventPtrRow) resolveRow(md *MetadataTables, next Row) {
	row.Event = md.index(Event, row.Raw.Event)
}

// EventRowRaw holds the on-disk columns of an Event row.
type EventRowRaw struct {
	EventFlags uint16
	Name       uint32
	EventType  uint32
}

// EventRow 0x14.
type EventRow struct {
	Raw EventRowRaw `json:"-"`

	EventFlags EventAttributes `json:"event_flags"`
	Name       string          `json:"name"`
	// A TypeDefOrRef (§II.24.2.6) coded index naming the event type.
	EventType CodedIndex `json:"event_type"`
}

func (row *EventRow) decodeRow(r *rowReader) {
	row.Raw.EventFlags = r.u16()
	row.Raw.Name = r.stringIndex()
	row.Raw.EventType = r.coded(CodedTypeDefOrRef)
}

func (row *EventRow) resolveRow(md *MetadataTables, next Row) {
	row.EventFlags = EventAttributes(row.Raw.EventFlags)
	row.Name = md.str(row.Raw.Name)
	row.EventType = md.coded(CodedTypeDefOrRef, row.Raw.EventType)
}

// PropertyMapRowRaw holds the on-disk columns of a PropertyMap row.
type PropertyMapRowRaw struct {
	Parent       uint32
	PropertyList uint32
}

// PropertyMapRow 0x15.
type PropertyMapRow struct {
	Raw PropertyMapRowRaw `json:"-"`

	Parent MDTableIndex `json:"parent"`
	// The contiguous run of Properties owned by the parent type.
	PropertyList []MDTableIndex `json:"property_list"`
}

func (row *PropertyMapRow) decodeRow(r *rowReader) {
	row.Raw.Parent = r.index(TypeDef)
	row.Raw.PropertyList = r.index(Property)
}

func (row *PropertyMapRow) resolveRow(md *MetadataTables, next Row) {
	row.Parent = md.index(TypeDef, row.Raw.Parent)
	var nextStart uint32
	hasNext := false
	if n, ok := next.(*PropertyMapRow); ok {
		nextStart = n.Raw.PropertyList
		hasNext = true
	}
	row.PropertyList = md.runList(Property, row.Raw.PropertyList, nextStart, hasNext)
}

// PropertyPtrRowRaw holds the on-disk columns of a PropertyPtr row.
type PropertyPtrRowRaw struct {
	Property uint32
}

// PropertyPtrRow 0x16. Only present in un-optimized (#-) metadata.
type PropertyPtrRow struct {
	Raw      PropertyPtrRowRaw `json:"-"`
	Property MDTableIndex      `json:"property"`
}

func (row *PropertyPtrRow) decodeRow(r *rowReader) {
	row.Raw.Property = r.index(Property)
}

func (row *PropertyPtrRow) resolveRow(md *MetadataTables, next Row) {
	row.Property = md.index(Property, row.Raw.Property)
}

// PropertyRowRaw holds the on-disk columns of a Property row.
type PropertyRowRaw struct {
	Flags uint16
	Name  uint32
	Type  uint32
}

// PropertyRow 0x17.
type PropertyRow struct {
	Raw PropertyRowRaw `json:"-"`

	Flags PropertyAttributes `json:"flags"`
	Name  string             `json:"name"`
	// The property signature blob.
	Type []byte `json:"-"`
}

func (row *PropertyRow) decodeRow(r *rowReader) {
	row.Raw.Flags = r.u16()
	row.Raw.Name = r.stringIndex()
	row.Raw.Type = r.blobIndex()
}

func (row *PropertyRow) resolveRow(md *MetadataTables, next Row) {
	row.Flags = PropertyAttributes(row.Raw.Flags)
	row.Name = md.str(row.Raw.Name)
	row.Type = md.blob(row.Raw.Type)
}

// MethodSemanticsRowRaw holds the on-disk columns of a MethodSemantics row.
type MethodSemanticsRowRaw struct {
	Semantics   uint16
	Method      uint32
	Association uint32
}

// MethodSemanticsRow 0x18.
type MethodSemanticsRow struct {
	Raw MethodSemanticsRowRaw `json:"-"`

	Semantics MethodSemanticsAttributes `json:"semantics"`
	Method    MDTableIndex              `json:"method"`
	// A HasSemantics (§II.24.2.6) coded index into Event or Property.
	Association CodedIndex `json:"association"`
}

func (row *MethodSemanticsRow) decodeRow(r *rowReader) {
	row.Raw.Semantics = r.u16()
	row.Raw.Method = r.index(MethodDef)
	row.Raw.Association = r.coded(CodedHasSemantics)
}

func (row *MethodSemanticsRow) resolveRow(md *MetadataTables, next Row) {
	row.Semantics = MethodSemanticsAttributes(row.Raw.Semantics)
	row.Method = md.index(MethodDef, row.Raw.Method)
	row.Association = md.coded(CodedHasSemantics, row.Raw.Association)
}

// MethodImplRowRaw holds the on-disk columns of a MethodImpl row.
type MethodImplRowRaw struct {
	Class             uint32
	MethodBody        uint32
	MethodDeclaration uint32
}

// MethodImplRow 0x19.
type MethodImplRow struct {
	Raw MethodImplRowRaw `json:"-"`

	Class MDTableIndex `json:"class"`
	// A MethodDefOrRef (§II.24.2.6) coded index.
	MethodBody CodedIndex `json:"method_body"`
	// A MethodDefOrRef (§II.24.2.6) coded index.
	MethodDeclaration CodedIndex `json:"method_declaration"`
}

func (row *MethodImplRow) decodeRow(r *rowReader) {
	row.Raw.Class = r.index(TypeDef)
	row.Raw.MethodBody = r.coded(CodedMethodDefOrRef)
	row.Raw.MethodDeclaration = r.coded(CodedMethodDefOrRef)
}

func (row *MethodImplRow) resolveRow(md *MetadataTables, next Row) {
	row.Class = md.index(TypeDef, row.Raw.Class)
	row.MethodBody = md.coded(CodedMethodDefOrRef, row.Raw.MethodBody)
	row.MethodDeclaration = md.coded(CodedMethodDefOrRef, row.Raw.MethodDeclaration)
}

// ModuleRefRowRaw holds the on-disk columns of a ModuleRef row.
type ModuleRefRowRaw struct {
	Name uint32
}

// ModuleRefRow 0x1a.
type ModuleRefRow struct {
	Raw  ModuleRefRowRaw `json:"-"`
	Name string          `json:"name"`
}

func (row *ModuleRefRow) decodeRow(r *rowReader) {
	row.Raw.Name = r.stringIndex()
}

func (row *ModuleRefRow) resolveRow(md *MetadataTables, next Row) {
	row.Name = md.str(row.Raw.Name)
}

// TypeSpecRowRaw holds the on-disk columns of a TypeSpec row.
type TypeSpecRowRaw struct {
	Signature uint32
}

// TypeSpecRow 0x1b.
type TypeSpecRow struct {
	Raw       TypeSpecRowRaw `json:"-"`
	Signature []byte         `json:"-"`
}

func (row *TypeSpecRow) decodeRow(r *rowReader) {
	row.Raw.Signature = r.blobIndex()
}

func (row *TypeSpecRow) resolveRow(md *MetadataTables, next Row) {
	row.Signature = md.blob(row.Raw.Signature)
}

// ImplMapRowRaw holds the on-disk columns of an ImplMap row.
type ImplMapRowRaw struct {
	MappingFlags    uint16
	MemberForwarded uint32
	ImportName      uint32
	ImportScope     uint32
}

// ImplMapRow 0x1c.
type ImplMapRow struct {
	Raw ImplMapRowRaw `json:"-"`

	MappingFlags PInvokeAttributes `json:"mapping_flags"`
	// A MemberForwarded (§II.24.2.6) coded index into Field or MethodDef.
	MemberForwarded CodedIndex   `json:"member_forwarded"`
	ImportName      string       `json:"import_name"`
	ImportScope     MDTableIndex `json:"import_scope"`
}

func (row *ImplMapRow) decodeRow(r *rowReader) {
	row.Raw.MappingFlags = r.u16()
	row.Raw.MemberForwarded = r.coded(CodedMemberForwarded)
	row.Raw.ImportName = r.stringIndex()
	row.Raw.ImportScope = r.index(ModuleRef)
}

func (row *ImplMapRow) resolveRow(md *MetadataTables, next Row) {
	row.MappingFlags = PInvokeAttributes(row.Raw.MappingFlags)
	row.MemberForwarded = md.coded(CodedMemberForwarded, row.Raw.MemberForwarded)
	row.ImportName = md.str(row.Raw.ImportName)
	row.ImportScope = md.index(ModuleRef, row.Raw.ImportScope)
}

// FieldRvaRowRaw holds the on-disk columns of a FieldRva row.
type FieldRvaRowRaw struct {
	RVA   uint32
	Field uint32
}

// FieldRvaRow 0x1d. A FieldRva row whose Field index does not resolve is
// kept with a nil Field reference and its raw value intact.
type FieldRvaRow struct {
	Raw FieldRvaRowRaw `json:"-"`

	RVA   uint32       `json:"rva"`
	Field MDTableIndex `json:"field"`
}

func (row *FieldRvaRow) decodeRow(r *rowReader) {
	row.Raw.RVA = r.u32()
	row.Raw.Field = r.index(Field)
}

func (row *FieldRvaRow) resolveRow(md *MetadataTables, next Row) {
	row.RVA = row.Raw.RVA
	row.Field = md.index(Field, row.Raw.Field)
}

// EncLogRowRaw holds the on-disk columns of an EncLog row.
type EncLogRowRaw struct {
	Token    uint32
	FuncCode uint32
}

// EncLogRow 0x1e. Decoded without edit-and-continue interpretation; a
// consumer needing ENC semantics must interpret the tokens itself.
type EncLogRow struct {
	Raw EncLogRowRaw `json:"-"`

	Token    uint32 `json:"token"`
	FuncCode uint32 `json:"func_code"`
}

func (row *EncLogRow) decodeRow(r *rowReader) {
	row.Raw.Token = r.u32()
	row.Raw.FuncCode = r.u32()
}

func (row *EncLogRow) resolveRow(md *MetadataTables, next Row) {
	row.Token = row.Raw.Token
	row.FuncCode = row.Raw.FuncCode
}

// EncMapRowRaw holds the on-disk columns of an EncMap row.
type EncMapRowRaw struct {
	Token uint32
}

// EncMapRow 0x1f.
type EncMapRow struct {
	Raw   EncMapRowRaw `json:"-"`
	Token uint32       `json:"token"`
}

func (row *EncMapRow) decodeRow(r *rowReader) {
	row.Raw.Token = r.u32()
}

func (row *EncMapRow) resolveRow(md *MetadataTables, next Row) {
	row.Token = row.Raw.Token
}

// AssemblyRowRaw holds the on-disk columns of an Assembly row.
type AssemblyRowRaw struct {
	HashAlgID      uint32
	MajorVersion   uint16
	MinorVersion   uint16
	BuildNumber    uint16
	RevisionNumber uint16
	Flags          uint32
	PublicKey      uint32
	Name           uint32
	Culture        uint32
}

// AssemblyRow 0x20.
type AssemblyRow struct {
	Raw AssemblyRowRaw `json:"-"`

	HashAlgID      AssemblyHashAlgorithm `json:"hash_alg_id"`
	MajorVersion   uint16                `json:"major_version"`
	MinorVersion   uint16                `json:"minor_version"`
	BuildNumber    uint16                `json:"build_number"`
	RevisionNumber uint16                `json:"revision_number"`
	Flags          AssemblyFlags         `json:"flags"`
	PublicKey      []byte                `json:"-"`
	Name           string                `json:"name"`
	Culture        string                `json:"culture"`
}

func (row *AssemblyRow) decodeRow(r *rowReader) {
	row.Raw.HashAlgID = r.u32()
	row.Raw.MajorVersion = r.u16()
	row.Raw.MinorVersion = r.u16()
	row.Raw.BuildNumber = r.u16()
	row.Raw.RevisionNumber = r.u16()
	row.Raw.Flags = r.u32()
	row.Raw.PublicKey = r.blobIndex()
	row.Raw.Name = r.stringIndex()
	row.Raw.Culture = r.stringIndex()
}

func (row *AssemblyRow) resolveRow(md *MetadataTables, next Row) {
	row.HashAlgID = AssemblyHashAlgorithm(row.Raw.HashAlgID)
	row.MajorVersion = row.Raw.MajorVersion
	row.MinorVersion = row.Raw.MinorVersion
	row.BuildNumber = row.Raw.BuildNumber
	row.RevisionNumber = row.Raw.RevisionNumber
	row.Flags = AssemblyFlags(row.Raw.Flags)
	row.PublicKey = md.blob(row.Raw.PublicKey)
	row.Name = md.str(row.Raw.Name)
	row.Culture = md.str(row.Raw.Culture)
}

// AssemblyProcessorRowRaw holds the on-disk columns of an
// AssemblyProcessor row.
type AssemblyProcessorRowRaw struct {
	Processor uint32
}

// AssemblyProcessorRow 0x21. This table is unused.
type AssemblyProcessorRow struct {
	Raw       AssemblyProcessorRowRaw `json:"-"`
	Processor uint32                  `json:"processor"`
}

func (row *AssemblyProcessorRow) decodeRow(r *rowReader) {
	row.Raw.Processor = r.u32()
}

func (row *AssemblyProcessorRow) resolveRow(md *MetadataTables, next Row) {
	row.Processor = row.Raw.Processor
}

// AssemblyOSRowRaw holds the on-disk columns of an AssemblyOS row.
type AssemblyOSRowRaw struct {
	OSPlatformID   uint32
	OSMajorVersion uint32
	OSMinorVersion uint32
}

// AssemblyOSRow 0x22. This table is unused.
type AssemblyOSRow struct {
	Raw AssemblyOSRowRaw `json:"-"`

	OSPlatformID   uint32 `json:"os_platform_id"`
	OSMajorVersion uint32 `json:"os_major_version"`
	OSMinorVersion uint32 `json:"os_minor_version"`
}

func (row *AssemblyOSRow) decodeRow(r *rowReader) {
	row.Raw.OSPlatformID = r.u32()
	row.Raw.OSMajorVersion = r.u32()
	row.Raw.OSMinorVersion = r.u32()
}

func (row *AssemblyOSRow) resolveRow(md *MetadataTables, next Row) {
	row.OSPlatformID = row.Raw.OSPlatformID
	row.OSMajorVersion = row.Raw.OSMajorVersion
	row.OSMinorVersion = row.Raw.OSMinorVersion
}

// AssemblyRefRowRaw holds the on-disk columns of an AssemblyRef row.
type AssemblyRefRowRaw struct {
	MajorVersion     uint16
	MinorVersion     uint16
	BuildNumber      uint16
	RevisionNumber   uint16
	Flags            uint32
	PublicKeyOrToken uint32
	Name             uint32
	Culture          uint32
	HashValue        uint32
}

// AssemblyRefRow 0x23.
type AssemblyRefRow struct {
	Raw AssemblyRefRowRaw `json:"-"`

	MajorVersion     uint16        `json:"major_version"`
	MinorVersion     uint16        `json:"minor_version"`
	BuildNumber      uint16        `json:"build_number"`
	RevisionNumber   uint16        `json:"revision_number"`
	Flags            AssemblyFlags `json:"flags"`
	PublicKeyOrToken []byte        `json:"-"`
	Name             string        `json:"name"`
	Culture          string        `json:"culture"`
	HashValue        []byte        `json:"-"`
}

func (row *AssemblyRefRow) decodeRow(r *rowReader) {
	row.Raw.MajorVersion = r.u16()
	row.Raw.MinorVersion = r.u16()
	row.Raw.BuildNumber = r.u16()
	row.Raw.RevisionNumber = r.u16()
	row.Raw.Flags = r.u32()
	row.Raw.PublicKeyOrToken = r.blobIndex()
	row.Raw.Name = r.stringIndex()
	row.Raw.Culture = r.stringIndex()
	row.Raw.HashValue = r.blobIndex()
}

func (row *AssemblyRefRow) resolveRow(md *MetadataTables, next Row) {
	row.MajorVersion = row.Raw.MajorVersion
	row.MinorVersion = row.Raw.MinorVersion
	row.BuildNumber = row.Raw.BuildNumber
	row.RevisionNumber = row.Raw.RevisionNumber
	row.Flags = AssemblyFlags(row.Raw.Flags)
	row.PublicKeyOrToken = md.blob(row.Raw.PublicKeyOrToken)
	row.Name = md.str(row.Raw.Name)
	row.Culture = md.str(row.Raw.Culture)
	row.HashValue = md.blob(row.Raw.HashValue)
}

// AssemblyRefProcessorRowRaw holds the on-disk columns of an
// AssemblyRefProcessor row.
type AssemblyRefProcessorRowRaw struct {
	Processor   uint32
	AssemblyRef uint32
}

// AssemblyRefProcessorRow 0x24. This table is unused.
type AssemblyRefProcessorRow struct {
	Raw AssemblyRefProcessorRowRaw `json:"-"`

	Processor   uint32       `json:"processor"`
	AssemblyRef MDTableIndex `json:"assembly_ref"`
}

func (row *AssemblyRefProcessorRow) decodeRow(r *rowReader) {
	row.Raw.Processor = r.u32()
	row.Raw.AssemblyRef = r.index(AssemblyRef)
}

func (row *AssemblyRefProcessorRow) resolveRow(md *MetadataTables, next Row) {
	row.Processor = row.Raw.Processor
	row.AssemblyRef = md.index(AssemblyRef, row.Raw.AssemblyRef)
}

// AssemblyRefOSRowRaw holds the on-disk columns of an AssemblyRefOS row.
type AssemblyRefOSRowRaw struct {
	OSPlatformID   uint32
	OSMajorVersion uint32
	OSMinorVersion uint32
	AssemblyRef    uint32
}

// AssemblyRefOSRow 0x25. This table is unused.
type AssemblyRefOSRow struct {
	Raw AssemblyRefOSRowRaw `json:"-"`

	OSPlatformID   uint32       `json:"os_platform_id"`
	OSMajorVersion uint32       `json:"os_major_version"`
	OSMinorVersion uint32       `json:"os_minor_version"`
	AssemblyRef    MDTableIndex `json:"assembly_ref"`
}

func (row *AssemblyRefOSRow) decodeRow(r *rowReader) {
	row.Raw.OSPlatformID = r.u32()
	row.Raw.OSMajorVersion = r.u32()
	row.Raw.OSMinorVersion = r.u32()
	row.Raw.AssemblyRef = r.index(AssemblyRef)
}

func (row *AssemblyRefOSRow) resolveRow(md *MetadataTables, next Row) {
	row.OSPlatformID = row.Raw.OSPlatformID
	row.OSMajorVersion = row.Raw.OSMajorVersion
	row.OSMinorVersion = row.Raw.OSMinorVersion
	row.AssemblyRef = md.index(AssemblyRef, row.Raw.AssemblyRef)
}

// FileRowRaw holds the on-disk columns of a File row.
type FileRowRaw struct {
	Flags     uint32
	Name      uint32
	HashValue uint32
}

// FileRow 0x26.
type FileRow struct {
	Raw FileRowRaw `json:"-"`

	Flags     FileAttributes `json:"flags"`
	Name      string         `json:"name"`
	HashValue []byte         `json:"-"`
}

func (row *FileRow) decodeRow(r *rowReader) {
	row.Raw.Flags = r.u32()
	row.Raw.Name = r.stringIndex()
	row.Raw.HashValue = r.blobIndex()
}

func (row *FileRow) resolveRow(md *MetadataTables, next Row) {
	row.Flags = FileAttributes(row.Raw.Flags)
	row.Name = md.str(row.Raw.Name)
	row.HashValue = md.blob(row.Raw.HashValue)
}

// ExportedTypeRowRaw holds the on-disk columns of an ExportedType row.
type ExportedTypeRowRaw struct {
	Flags          uint32
	TypeDefID      uint32
	TypeName       uint32
	TypeNamespace  uint32
	Implementation uint32
}

// ExportedTypeRow 0x27.
type ExportedTypeRow struct {
	Raw ExportedTypeRowRaw `json:"-"`

	Flags TypeAttributes `json:"flags"`
	// A 4-byte index into a TypeDef table of another module in this
	// assembly, used only as a hint.
	TypeDefID     uint32 `json:"type_def_id"`
	TypeName      string `json:"type_name"`
	TypeNamespace string `json:"type_namespace"`
	// An Implementation (§II.24.2.6) coded index.
	Implementation CodedIndex `json:"implementation"`
}

func (row *ExportedTypeRow) decodeRow(r *rowReader) {
	row.Raw.Flags = r.u32()
	row.Raw.TypeDefID = r.u32()
	row.Raw.TypeName = r.stringIndex()
	row.Raw.TypeNamespace = r.stringIndex()
	row.Raw.Implementation = r.coded(CodedImplementation)
}

func (row *ExportedTypeRow) resolveRow(md *MetadataTables, next Row) {
	row.Flags = TypeAttributes(row.Raw.Flags)
	row.TypeDefID = row.Raw.TypeDefID
	row.TypeName = md.str(row.Raw.TypeName)
	row.TypeNamespace = md.str(row.Raw.TypeNamespace)
	row.Implementation = md.coded(CodedImplementation, row.Raw.Implementation)
}

// ManifestResourceRowRaw holds the on-disk columns of a ManifestResource
// row.
type ManifestResourceRowRaw struct {
	Offset         uint32
	Flags          uint32
	Name           uint32
	Implementation uint32
}

// ManifestResourceRow 0x28.
type ManifestResourceRow struct {
	Raw ManifestResourceRowRaw `json:"-"`

	// Byte offset of the resource within the resources blob located by
	// the CLR header's ResourcesRva.
	Offset uint32                     `json:"offset"`
	Flags  ManifestResourceAttributes `json:"flags"`
	Name   string                     `json:"name"`
	// An Implementation (§II.24.2.6) coded index into File or AssemblyRef,
	// or nil for a resource embedded in this file.
	Implementation CodedIndex `json:"implementation"`
}

func (row *ManifestResourceRow) decodeRow(r *rowReader) {
	row.Raw.Offset = r.u32()
	row.Raw.Flags = r.u32()
	row.Raw.Name = r.stringIndex()
	row.Raw.Implementation = r.coded(CodedImplementation)
}

func (row *ManifestResourceRow) resolveRow(md *MetadataTables, next Row) {
	row.Offset = row.Raw.Offset
	row.Flags = ManifestResourceAttributes(row.Raw.Flags)
	row.Name = md.str(row.Raw.Name)
	row.Implementation = md.coded(CodedImplementation, row.Raw.Implementation)
}

// NestedClassRowRaw holds the on-disk columns of a NestedClass row.
type NestedClassRowRaw struct {
	NestedClass    uint32
	EnclosingClass uint32
}

// NestedClassRow 0x29.
type NestedClassRow struct {
	Raw NestedClassRowRaw `json:"-"`

	NestedClass    MDTableIndex `json:"nested_class"`
	EnclosingClass MDTableIndex `json:"enclosing_class"`
}

func (row *NestedClassRow) decodeRow(r *rowReader) {
	row.Raw.NestedClass = r.index(TypeDef)
	row.Raw.EnclosingClass = r.index(TypeDef)
}

func (row *NestedClassRow) resolveRow(md *MetadataTables, next Row) {
	row.NestedClass = md.index(TypeDef, row.Raw.NestedClass)
	row.EnclosingClass = md.index(TypeDef, row.Raw.EnclosingClass)
}

// GenericParamRowRaw holds the on-disk columns of a GenericParam row.
type GenericParamRowRaw struct {
	Number uint16
	Flags  uint16
	Owner  uint32
	Name   uint32
}

// GenericParamRow 0x2a.
type GenericParamRow struct {
	Raw GenericParamRowRaw `json:"-"`

	// The 2-byte index of the generic parameter, numbered left-to-right,
	// from zero.
	Number uint16                 `json:"number"`
	Flags  GenericParamAttributes `json:"flags"`
	// A TypeOrMethodDef (§II.24.2.6) coded index naming the owner.
	Owner CodedIndex `json:"owner"`
	Name  string     `json:"name"`
}

func (row *GenericParamRow) decodeRow(r *rowReader) {
	row.Raw.Number = r.u16()
	row.Raw.Flags = r.u16()
	row.Raw.Owner = r.coded(CodedTypeOrMethodDef)
	row.Raw.Name = r.stringIndex()
}

func (row *GenericParamRow) resolveRow(md *MetadataTables, next Row) {
	row.Number = row.Raw.Number
	row.Flags = GenericParamAttributes(row.Raw.Flags)
	row.Owner = md.coded(CodedTypeOrMethodDef, row.Raw.Owner)
	row.Name = md.str(row.Raw.Name)
}

// MethodSpecRowRaw holds the on-disk columns of a MethodSpec row.
type MethodSpecRowRaw struct {
	Method        uint32
	Instantiation uint32
}

// MethodSpecRow 0x2b.
type MethodSpecRow struct {
	Raw MethodSpecRowRaw `json:"-"`

	// A MethodDefOrRef (§II.24.2.6) coded index naming the generic method
	// this row is an instantiation of.
	Method        CodedIndex `json:"method"`
	Instantiation []byte     `json:"-"`
}

func (row *MethodSpecRow) decodeRow(r *rowReader) {
	row.Raw.Method = r.coded(CodedMethodDefOrRef)
	row.Raw.Instantiation = r.blobIndex()
}

func (row *MethodSpecRow) resolveRow(md *MetadataTables, next Row) {
	row.Method = md.coded(CodedMethodDefOrRef, row.Raw.Method)
	row.Instantiation = md.blob(row.Raw.Instantiation)
}

// GenericParamConstraintRowRaw holds the on-disk columns of a
// GenericParamConstraint row.
type GenericParamConstraintRowRaw struct {
	Owner      uint32
	Constraint uint32
}

// GenericParamConstraintRow 0x2c.
type GenericParamConstraintRow struct {
	Raw GenericParamConstraintRowRaw `json:"-"`

	Owner MDTableIndex `json:"owner"`
	// A TypeDefOrRef (§II.24.2.6) coded index naming the class or
	// interface this generic parameter is constrained to.
	Constraint CodedIndex `json:"constraint"`
}

func (row *GenericParamConstraintRow) decodeRow(r *rowReader) {
	row.Raw.Owner = r.index(GenericParam)
	row.Raw.Constraint = r.coded(CodedTypeDefOrRef)
}

func (row *GenericParamConstraintRow) resolveRow(md *MetadataTables, next Row) {
	row.Owner = md.index(GenericParam, row.Raw.Owner)
	row.Constraint = md.coded(CodedTypeDefOrRef, row.Raw.Constraint)
}

// newRow returns an empty row of the kind stored in the given table, or
// nil when the table number has no row schema.
func newRow(table int) Row {
	switch table {
	case Module:
		return &ModuleRow{}
	case TypeRef:
		return &TypeRefRow{}
	case TypeDef:
		return &TypeDefRow{}
	case FieldPtr:
		return &FieldPtrRow{}
	case Field:
		return &FieldRow{}
	case MethodPtr:
		return &MethodPtrRow{}
	case MethodDef:
		return &MethodDefRow{}
	case ParamPtr:
		return &ParamPtrRow{}
	case Param:
		return &ParamRow{}
	case InterfaceImpl:
		return &InterfaceImplRow{}
	case MemberRef:
		return &MemberRefRow{}
	case Constant:
		return &ConstantRow{}
	case CustomAttribute:
		return &CustomAttributeRow{}
	case FieldMarshal:
		return &FieldMarshalRow{}
	case DeclSecurity:
		return &DeclSecurityRow{}
	case ClassLayout:
		return &ClassLayoutRow{}
	case FieldLayout:
		return &FieldLayoutRow{}
	case StandAloneSig:
		return &StandAloneSigRow{}
	case EventMap:
		return &EventMapRow{}
	case EventPtr:
		return &EventPtrRow{}
	case Event:
		return &EventRow{}
	case PropertyMap:
		return &PropertyMapRow{}
	case PropertyPtr:
		return &PropertyPtrRow{}
	case Property:
		return &PropertyRow{}
	case MethodSemantics:
		return &MethodSemanticsRow{}
	case MethodImpl:
		return &MethodImplRow{}
	case ModuleRef:
		return &ModuleRefRow{}
	case TypeSpec:
		return &TypeSpecRow{}
	case ImplMap:
		return &ImplMapRow{}
	case FieldRVA:
		return &FieldRvaRow{}
	case ENCLog:
		return &EncLogRow{}
	case ENCMap:
		return &EncMapRow{}
	case Assembly:
		return &AssemblyRow{}
	case AssemblyProcessor:
		return &AssemblyProcessorRow{}
	case AssemblyOS:
		return &AssemblyOSRow{}
	case AssemblyRef:
		return &AssemblyRefRow{}
	case AssemblyRefProcessor:
		return &AssemblyRefProcessorRow{}
	case AssemblyRefOS:
		return &AssemblyRefOSRow{}
	case FileMD:
		return &FileRow{}
	case ExportedType:
		return &ExportedTypeRow{}
	case ManifestResource:
		return &ManifestResourceRow{}
	case NestedClass:
		return &NestedClassRow{}
	case GenericParam:
		return &GenericParamRow{}
	case MethodSpec:
		return &MethodSpecRow{}
	case GenericParamConstraint:
		return &GenericParamConstraintRow{}
	}
	return nil
}
