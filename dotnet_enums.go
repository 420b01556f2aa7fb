// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package dnfile

// Flag and enum vocabularies for metadata table columns, from winsdk
// corhdr.h and ECMA-335 II.23.1.

// TypeAttributes is the 4-byte bitmask of a TypeDef row (§II.23.1.15).
type TypeAttributes uint32

// Type attribute masks and values.
const (
	TypeAttrVisibilityMask    TypeAttributes = 0x00000007
	TypeAttrNotPublic         TypeAttributes = 0x00000000
	TypeAttrPublic            TypeAttributes = 0x00000001
	TypeAttrNestedPublic      TypeAttributes = 0x00000002
	TypeAttrNestedPrivate     TypeAttributes = 0x00000003
	TypeAttrNestedFamily      TypeAttributes = 0x00000004
	TypeAttrNestedAssembly    TypeAttributes = 0x00000005
	TypeAttrNestedFamANDAssem TypeAttributes = 0x00000006
	TypeAttrNestedFamORAssem  TypeAttributes = 0x00000007

	TypeAttrLayoutMask       TypeAttributes = 0x00000018
	TypeAttrAutoLayout       TypeAttributes = 0x00000000
	TypeAttrSequentialLayout TypeAttributes = 0x00000008
	TypeAttrExplicitLayout   TypeAttributes = 0x00000010

	TypeAttrClassSemanticsMask TypeAttributes = 0x00000020
	TypeAttrClass              TypeAttributes = 0x00000000
	TypeAttrInterface          TypeAttributes = 0x00000020

	TypeAttrAbstract     TypeAttributes = 0x00000080
	TypeAttrSealed       TypeAttributes = 0x00000100
	TypeAttrSpecialName  TypeAttributes = 0x00000400
	TypeAttrImport       TypeAttributes = 0x00001000
	TypeAttrSerializable TypeAttributes = 0x00002000

	TypeAttrStringFormatMask TypeAttributes = 0x00030000
	TypeAttrAnsiClass        TypeAttributes = 0x00000000
	TypeAttrUnicodeClass     TypeAttributes = 0x00010000
	TypeAttrAutoClass        TypeAttributes = 0x00020000
	TypeAttrCustomFormat     TypeAttributes = 0x00030000

	TypeAttrBeforeFieldInit TypeAttributes = 0x00100000
	TypeAttrRTSpecialName   TypeAttributes = 0x00000800
	TypeAttrHasSecurity     TypeAttributes = 0x00040000
	TypeAttrIsTypeForwarder TypeAttributes = 0x00200000
)

// IsInterface reports whether the type is an interface.
func (f TypeAttributes) IsInterface() bool {
	return f&TypeAttrClassSemanticsMask == TypeAttrInterface
}

// FieldAttributes is the 2-byte bitmask of a Field row (§II.23.1.5).
type FieldAttributes uint16

// Field attribute masks and values.
const (
	FieldAttrFieldAccessMask FieldAttributes = 0x0007
	FieldAttrPrivateScope    FieldAttributes = 0x0000
	FieldAttrPrivate         FieldAttributes = 0x0001
	FieldAttrFamANDAssem     FieldAttributes = 0x0002
	FieldAttrAssembly        FieldAttributes = 0x0003
	FieldAttrFamily          FieldAttributes = 0x0004
	FieldAttrFamORAssem      FieldAttributes = 0x0005
	FieldAttrPublic          FieldAttributes = 0x0006

	FieldAttrStatic          FieldAttributes = 0x0010
	FieldAttrInitOnly        FieldAttributes = 0x0020
	FieldAttrLiteral         FieldAttributes = 0x0040
	FieldAttrNotSerialized   FieldAttributes = 0x0080
	FieldAttrHasFieldRVA     FieldAttributes = 0x0100
	FieldAttrSpecialName     FieldAttributes = 0x0200
	FieldAttrRTSpecialName   FieldAttributes = 0x0400
	FieldAttrHasFieldMarshal FieldAttributes = 0x1000
	FieldAttrPinvokeImpl     FieldAttributes = 0x2000
	FieldAttrHasDefault      FieldAttributes = 0x8000
)

// MethodAttributes is the 2-byte bitmask of a MethodDef row (§II.23.1.10).
type MethodAttributes uint16

// Method attribute masks and values.
const (
	MethodAttrMemberAccessMask MethodAttributes = 0x0007
	MethodAttrPrivateScope     MethodAttributes = 0x0000
	MethodAttrPrivate          MethodAttributes = 0x0001
	MethodAttrFamANDAssem      MethodAttributes = 0x0002
	MethodAttrAssembly         MethodAttributes = 0x0003
	MethodAttrFamily           MethodAttributes = 0x0004
	MethodAttrFamORAssem       MethodAttributes = 0x0005
	MethodAttrPublic           MethodAttributes = 0x0006

	MethodAttrUnmanagedExport MethodAttributes = 0x0008
	MethodAttrStatic          MethodAttributes = 0x0010
	MethodAttrFinal           MethodAttributes = 0x0020
	MethodAttrVirtual         MethodAttributes = 0x0040
	MethodAttrHideBySig       MethodAttributes = 0x0080

	MethodAttrVtableLayoutMask MethodAttributes = 0x0100
	MethodAttrReuseSlot        MethodAttributes = 0x0000
	MethodAttrNewSlot          MethodAttributes = 0x0100

	MethodAttrCheckAccessOnOverride MethodAttributes = 0x0200
	MethodAttrAbstract              MethodAttributes = 0x0400
	MethodAttrSpecialName           MethodAttributes = 0x0800
	MethodAttrRTSpecialName         MethodAttributes = 0x1000
	MethodAttrPinvokeImpl           MethodAttributes = 0x2000
	MethodAttrHasSecurity           MethodAttributes = 0x4000
	MethodAttrRequireSecObject      MethodAttributes = 0x8000
)

// MethodImplAttributes is the 2-byte bitmask of a MethodDef row's
// implementation flags (§II.23.1.10).
type MethodImplAttributes uint16

// Method implementation attribute masks and values.
const (
	MethodImplCodeTypeMask MethodImplAttributes = 0x0003
	MethodImplIL           MethodImplAttributes = 0x0000
	MethodImplNative       MethodImplAttributes = 0x0001
	MethodImplOPTIL        MethodImplAttributes = 0x0002
	MethodImplRuntime      MethodImplAttributes = 0x0003

	MethodImplManagedMask MethodImplAttributes = 0x0004
	MethodImplUnmanaged   MethodImplAttributes = 0x0004
	MethodImplManaged     MethodImplAttributes = 0x0000

	MethodImplNoInlining     MethodImplAttributes = 0x0008
	MethodImplForwardRef     MethodImplAttributes = 0x0010
	MethodImplSynchronized   MethodImplAttributes = 0x0020
	MethodImplNoOptimization MethodImplAttributes = 0x0040
	MethodImplPreserveSig    MethodImplAttributes = 0x0080
	MethodImplInternalCall   MethodImplAttributes = 0x1000
)

// ParamAttributes is the 2-byte bitmask of a Param row (§II.23.1.13).
type ParamAttributes uint16

// Param attribute values.
const (
	ParamAttrIn              ParamAttributes = 0x0001
	ParamAttrOut             ParamAttributes = 0x0002
	ParamAttrOptional        ParamAttributes = 0x0010
	ParamAttrHasDefault      ParamAttributes = 0x1000
	ParamAttrHasFieldMarshal ParamAttributes = 0x2000
)

// EventAttributes is the 2-byte bitmask of an Event row (§II.23.1.4).
type EventAttributes uint16

// Event attribute values.
const (
	EventAttrSpecialName   EventAttributes = 0x0200
	EventAttrRTSpecialName EventAttributes = 0x0400
)

// PropertyAttributes is the 2-byte bitmask of a Property row (§II.23.1.14).
type PropertyAttributes uint16

// Property attribute values.
const (
	PropertyAttrSpecialName   PropertyAttributes = 0x0200
	PropertyAttrRTSpecialName PropertyAttributes = 0x0400
	PropertyAttrHasDefault    PropertyAttributes = 0x1000
)

// MethodSemanticsAttributes is the 2-byte bitmask of a MethodSemantics row
// (§II.23.1.12).
type MethodSemanticsAttributes uint16

// Method semantics attribute values.
const (
	MethodSemanticsSetter   MethodSemanticsAttributes = 0x0001
	MethodSemanticsGetter   MethodSemanticsAttributes = 0x0002
	MethodSemanticsOther    MethodSemanticsAttributes = 0x0004
	MethodSemanticsAddOn    MethodSemanticsAttributes = 0x0008
	MethodSemanticsRemoveOn MethodSemanticsAttributes = 0x0010
	MethodSemanticsFire     MethodSemanticsAttributes = 0x0020
)

// PInvokeAttributes is the 2-byte bitmask of an ImplMap row (§II.23.1.8).
type PInvokeAttributes uint16

// P/Invoke mapping attribute masks and values.
const (
	PInvokeNoMangle PInvokeAttributes = 0x0001

	PInvokeCharSetMask    PInvokeAttributes = 0x0006
	PInvokeCharSetNotSpec PInvokeAttributes = 0x0000
	PInvokeCharSetAnsi    PInvokeAttributes = 0x0002
	PInvokeCharSetUnicode PInvokeAttributes = 0x0004
	PInvokeCharSetAuto    PInvokeAttributes = 0x0006

	PInvokeSupportsLastError PInvokeAttributes = 0x0040

	PInvokeCallConvMask     PInvokeAttributes = 0x0700
	PInvokeCallConvWinapi   PInvokeAttributes = 0x0100
	PInvokeCallConvCdecl    PInvokeAttributes = 0x0200
	PInvokeCallConvStdcall  PInvokeAttributes = 0x0300
	PInvokeCallConvThiscall PInvokeAttributes = 0x0400
	PInvokeCallConvFastcall PInvokeAttributes = 0x0500
)

// AssemblyHashAlgorithm identifies the hash algorithm of an Assembly row
// (§II.23.1.1).
type AssemblyHashAlgorithm uint32

// Assembly hash algorithms.
const (
	HashAlgNone   AssemblyHashAlgorithm = 0x0000
	HashAlgMD5    AssemblyHashAlgorithm = 0x8003
	HashAlgSHA1   AssemblyHashAlgorithm = 0x8004
	HashAlgSHA256 AssemblyHashAlgorithm = 0x800C
	HashAlgSHA384 AssemblyHashAlgorithm = 0x800D
	HashAlgSHA512 AssemblyHashAlgorithm = 0x800E
)

// String returns the algorithm name.
func (a AssemblyHashAlgorithm) String() string {
	switch a {
	case HashAlgNone:
		return "None"
	case HashAlgMD5:
		return "MD5"
	case HashAlgSHA1:
		return "SHA1"
	case HashAlgSHA256:
		return "SHA256"
	case HashAlgSHA384:
		return "SHA384"
	case HashAlgSHA512:
		return "SHA512"
	}
	return ""
}

// AssemblyFlags is the 4-byte bitmask of an Assembly or AssemblyRef row
// (§II.23.1.2).
type AssemblyFlags uint32

// Assembly flag values.
const (
	AssemblyFlagPublicKey                  AssemblyFlags = 0x0001
	AssemblyFlagRetargetable               AssemblyFlags = 0x0100
	AssemblyFlagDisableJITcompileOptimizer AssemblyFlags = 0x4000
	AssemblyFlagEnableJITcompileTracking   AssemblyFlags = 0x8000
)

// FileAttributes is the 4-byte bitmask of a File row (§II.23.1.6).
type FileAttributes uint32

// File attribute values.
const (
	FileAttrContainsMetaData   FileAttributes = 0x0000
	FileAttrContainsNoMetaData FileAttributes = 0x0001
)

// ManifestResourceAttributes is the 4-byte bitmask of a ManifestResource
// row (§II.23.1.9).
type ManifestResourceAttributes uint32

// Manifest resource visibility.
const (
	ManifestResourceVisibilityMask ManifestResourceAttributes = 0x0007
	ManifestResourcePublic         ManifestResourceAttributes = 0x0001
	ManifestResourcePrivate        ManifestResourceAttributes = 0x0002
)

// IsPublic reports whether the resource is exported from the assembly.
func (f ManifestResourceAttributes) IsPublic() bool {
	return f&ManifestResourceVisibilityMask == ManifestResourcePublic
}

// IsPrivate reports whether the resource is private to the assembly.
func (f ManifestResourceAttributes) IsPrivate() bool {
	return f&ManifestResourceVisibilityMask == ManifestResourcePrivate
}

// GenericParamAttributes is the 2-byte bitmask of a GenericParam row
// (§II.23.1.7).
type GenericParamAttributes uint16

// Generic parameter attribute masks and values.
const (
	GenericParamVarianceMask  GenericParamAttributes = 0x0003
	GenericParamNonVariant    GenericParamAttributes = 0x0000
	GenericParamCovariant     GenericParamAttributes = 0x0001
	GenericParamContravariant GenericParamAttributes = 0x0002

	GenericParamReferenceTypeConstraint        GenericParamAttributes = 0x0004
	GenericParamNotNullableValueTypeConstraint GenericParamAttributes = 0x0008
	GenericParamDefaultConstructorConstraint   GenericParamAttributes = 0x0010
)

// ElementType is the 1-byte constant kind of a Constant row, from the
// ELEMENT_TYPE_* vocabulary (§II.23.1.16).
type ElementType uint8

// Element types used by Constant rows.
const (
	ElementTypeEnd         ElementType = 0x00
	ElementTypeVoid        ElementType = 0x01
	ElementTypeBoolean     ElementType = 0x02
	ElementTypeChar        ElementType = 0x03
	ElementTypeI1          ElementType = 0x04
	ElementTypeU1          ElementType = 0x05
	ElementTypeI2          ElementType = 0x06
	ElementTypeU2          ElementType = 0x07
	ElementTypeI4          ElementType = 0x08
	ElementTypeU4          ElementType = 0x09
	ElementTypeI8          ElementType = 0x0A
	ElementTypeU8          ElementType = 0x0B
	ElementTypeR4          ElementType = 0x0C
	ElementTypeR8          ElementType = 0x0D
	ElementTypeString      ElementType = 0x0E
	ElementTypePtr         ElementType = 0x0F
	ElementTypeByRef       ElementType = 0x10
	ElementTypeValueType   ElementType = 0x11
	ElementTypeClass       ElementType = 0x12
	ElementTypeVar         ElementType = 0x13
	ElementTypeArray       ElementType = 0x14
	ElementTypeGenericInst ElementType = 0x15
	ElementTypeTypedByRef  ElementType = 0x16
	ElementTypeI           ElementType = 0x18
	ElementTypeU           ElementType = 0x19
	ElementTypeFnPtr       ElementType = 0x1B
	ElementTypeObject      ElementType = 0x1C
	ElementTypeSZArray     ElementType = 0x1D
	ElementTypeMVar        ElementType = 0x1E
)

// String returns the ELEMENT_TYPE name for the constant kinds that appear
// in the Constant table.
func (e ElementType) String() string {
	names := map[ElementType]string{
		ElementTypeBoolean: "Boolean",
		ElementTypeChar:    "Char",
		ElementTypeI1:      "I1",
		ElementTypeU1:      "U1",
		ElementTypeI2:      "I2",
		ElementTypeU2:      "U2",
		ElementTypeI4:      "I4",
		ElementTypeU4:      "U4",
		ElementTypeI8:      "I8",
		ElementTypeU8:      "U8",
		ElementTypeR4:      "R4",
		ElementTypeR8:      "R8",
		ElementTypeString:  "String",
		ElementTypeClass:   "Class",
	}
	return names[e]
}
