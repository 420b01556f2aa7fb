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

// The tests in this file run against a synthesized managed PE equivalent
// to a compiled hello-world executable: DOS header, PE32 headers, one
// .text section holding the CLR header and a metadata root with the #~,
// #Strings, #US, #GUID and #Blob streams.

type fixtureOptions struct {
	numberOfRvaAndSizes uint32
	duplicateUS         bool
	unknownStream       bool
	withResource        bool
	lazy                bool
}

type stringsBuilder struct {
	buf     bytes.Buffer
	offsets map[string]uint32
}

func newStringsBuilder() *stringsBuilder {
	b := &stringsBuilder{offsets: map[string]uint32{"": 0}}
	b.buf.WriteByte(0)
	return b
}

func (b *stringsBuilder) add(s string) uint32 {
	if off, ok := b.offsets[s]; ok {
		return off
	}
	off := uint32(b.buf.Len())
	b.offsets[s] = off
	b.buf.WriteString(s)
	b.buf.WriteByte(0)
	return off
}

type blobBuilder struct {
	buf bytes.Buffer
}

func newBlobBuilder() *blobBuilder {
	b := &blobBuilder{}
	b.buf.WriteByte(0)
	return b
}

func (b *blobBuilder) add(data []byte) uint32 {
	off := uint32(b.buf.Len())
	prefix, _ := EncodeCompressedUint(uint32(len(data)))
	b.buf.Write(prefix)
	b.buf.Write(data)
	return off
}

func pad4(data []byte) []byte {
	for len(data)%4 != 0 {
		data = append(data, 0)
	}
	return data
}

func usEntry(s string, flag byte) []byte {
	body := utf16le(s)
	body = append(body, flag)
	prefix, _ := EncodeCompressedUint(uint32(len(body)))
	return append(prefix, body...)
}

// buildHelloWorldMetadata assembles the metadata root bytes.
func buildHelloWorldMetadata(opts fixtureOptions) []byte {
	strs := newStringsBuilder()
	blobs := newBlobBuilder()

	sigMain := blobs.add([]byte{0x00, 0x01, 0x01, 0x0E})
	sigCtor := blobs.add([]byte{0x20, 0x00, 0x01})
	caValue := blobs.add([]byte{0x01, 0x00, 0x00, 0x00})
	refToken := blobs.add([]byte{0xB7, 0x7A, 0x5C, 0x56, 0x19, 0x34, 0xE0, 0x89})

	tb := newTablesStreamBuilder()
	tb.addTable(Module, 1)
	tb.addTable(TypeRef, 2)
	tb.addTable(TypeDef, 2)
	tb.addTable(MethodDef, 2)
	tb.addTable(Param, 1)
	tb.addTable(MemberRef, 1)
	tb.addTable(CustomAttribute, 1)
	tb.addTable(Assembly, 1)
	tb.addTable(AssemblyRef, 1)
	if opts.withResource {
		tb.addTable(ManifestResource, 1)
	}

	// Module.
	tb.u16(0)
	tb.u16(uint16(strs.add("1-hello-world.exe")))
	tb.u16(1)
	tb.u16(0)
	tb.u16(0)

	// TypeRef: System.Object then System.STAThreadAttribute, both scoped
	// to AssemblyRef #1.
	tb.u16(1<<2 | 2)
	tb.u16(uint16(strs.add("Object")))
	tb.u16(uint16(strs.add("System")))

	tb.u16(1<<2 | 2)
	tb.u16(uint16(strs.add("STAThreadAttribute")))
	tb.u16(uint16(strs.add("System")))

	// TypeDef: the <Module> pseudo type, then HelloWorld extending
	// TypeRef #1.
	tb.u32(0)
	tb.u16(uint16(strs.add("<Module>")))
	tb.u16(0)
	tb.u16(0)
	tb.u16(1)
	tb.u16(1)

	tb.u32(uint32(TypeAttrPublic | TypeAttrBeforeFieldInit))
	tb.u16(uint16(strs.add("HelloWorld")))
	tb.u16(0)
	tb.u16(1<<2 | 1)
	tb.u16(1)
	tb.u16(1)

	// MethodDef: Main owning Param #1, then .ctor owning nothing.
	tb.u32(0x2090)
	tb.u16(0)
	tb.u16(uint16(MethodAttrPublic | MethodAttrStatic | MethodAttrHideBySig))
	tb.u16(uint16(strs.add("Main")))
	tb.u16(uint16(sigMain))
	tb.u16(1)

	tb.u32(0x20A8)
	tb.u16(0)
	tb.u16(uint16(MethodAttrPublic | MethodAttrHideBySig |
		MethodAttrSpecialName | MethodAttrRTSpecialName))
	tb.u16(uint16(strs.add(".ctor")))
	tb.u16(uint16(sigCtor))
	tb.u16(2)

	// Param: args.
	tb.u16(0)
	tb.u16(1)
	tb.u16(uint16(strs.add("args")))

	// MemberRef: the STAThreadAttribute constructor.
	tb.u16(2<<3 | 1)
	tb.u16(uint16(strs.add(".ctor")))
	tb.u16(uint16(sigCtor))

	// CustomAttribute on the Assembly, typed by MemberRef #1.
	tb.u16(1<<5 | 14)
	tb.u16(1<<3 | 3)
	tb.u16(uint16(caValue))

	// Assembly.
	tb.u32(uint32(HashAlgSHA1))
	tb.u16(1)
	tb.u16(0)
	tb.u16(0)
	tb.u16(0)
	tb.u32(0)
	tb.u16(0)
	tb.u16(uint16(strs.add("1-hello-world")))
	tb.u16(0)

	// AssemblyRef: mscorlib.
	tb.u16(4)
	tb.u16(0)
	tb.u16(0)
	tb.u16(0)
	tb.u32(0)
	tb.u16(uint16(refToken))
	tb.u16(uint16(strs.add("mscorlib")))
	tb.u16(0)
	tb.u16(0)

	if opts.withResource {
		// ManifestResource: an embedded resource at offset 0 of the
		// resources blob.
		tb.u32(0)
		tb.u32(uint32(ManifestResourcePublic))
		tb.u16(uint16(strs.add("app.resources")))
		tb.u16(0)
	}

	guidData := []byte{
		0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08,
		0x09, 0x0A, 0x0B, 0x0C, 0x0D, 0x0E, 0x0F, 0x10,
	}

	type streamEntry struct {
		name string
		data []byte
	}
	streamList := []streamEntry{
		{"#~", pad4(tb.bytes())},
		{"#Strings", pad4(strs.buf.Bytes())},
		{"#US", pad4(append([]byte{0x00}, usEntry("Hello World!", 0x00)...))},
		{"#GUID", guidData},
		{"#Blob", pad4(blobs.buf.Bytes())},
	}
	if opts.duplicateUS {
		streamList = append(streamList, streamEntry{
			"#US", pad4(append([]byte{0x00}, usEntry("BBBBBBBB", 0x00)...))})
	}
	if opts.unknownStream {
		streamList = append(streamList, streamEntry{"#ZZ", []byte{1, 2, 3, 4}})
	}

	// Metadata root: signature, versions, version string, flags, stream
	// count, then the stream directory and the stream bodies.
	version := []byte("v4.0.30319\x00\x00")
	headerSize := uint32(16 + len(version) + 4)
	dirSize := uint32(0)
	for _, s := range streamList {
		dirSize += 8 + alignUp(uint32(len(s.name))+1, 4)
	}

	var root bytes.Buffer
	binary.Write(&root, binary.LittleEndian, uint32(CLRMetadataSignature))
	binary.Write(&root, binary.LittleEndian, uint16(1))
	binary.Write(&root, binary.LittleEndian, uint16(1))
	binary.Write(&root, binary.LittleEndian, uint32(0))
	binary.Write(&root, binary.LittleEndian, uint32(len(version)))
	root.Write(version)
	binary.Write(&root, binary.LittleEndian, uint16(0)) // flags + padding
	binary.Write(&root, binary.LittleEndian, uint16(len(streamList)))

	offset := headerSize + dirSize
	for _, s := range streamList {
		binary.Write(&root, binary.LittleEndian, offset)
		binary.Write(&root, binary.LittleEndian, uint32(len(s.data)))
		name := append([]byte(s.name), 0)
		for len(name)%4 != 0 {
			name = append(name, 0)
		}
		root.Write(name)
		offset += uint32(len(s.data))
	}
	for _, s := range streamList {
		root.Write(s.data)
	}
	return root.Bytes()
}

// buildHelloWorldPE wraps the metadata into a complete PE32 image.
func buildHelloWorldPE(t *testing.T, opts fixtureOptions) []byte {
	t.Helper()

	if opts.numberOfRvaAndSizes == 0 {
		opts.numberOfRvaAndSizes = 16
	}

	metadata := buildHelloWorldMetadata(opts)
	mdSize := uint32(len(metadata))

	var clr bytes.Buffer
	binary.Write(&clr, binary.LittleEndian, uint32(72))
	binary.Write(&clr, binary.LittleEndian, uint16(2))
	binary.Write(&clr, binary.LittleEndian, uint16(5))
	binary.Write(&clr, binary.LittleEndian, uint32(0x2050)) // MetaData RVA
	binary.Write(&clr, binary.LittleEndian, mdSize)
	binary.Write(&clr, binary.LittleEndian, uint32(COMImageFlagsILOnly))
	binary.Write(&clr, binary.LittleEndian, uint32(0x06000001))
	if opts.withResource {
		binary.Write(&clr, binary.LittleEndian, uint32(0x2800)) // Resources RVA
		binary.Write(&clr, binary.LittleEndian, uint32(0x100))
	} else {
		binary.Write(&clr, binary.LittleEndian, uint64(0))
	}
	for i := 0; i < 10; i++ { // remaining directory pairs
		binary.Write(&clr, binary.LittleEndian, uint32(0))
	}

	img := make([]byte, 0x1000)

	// DOS header.
	binary.LittleEndian.PutUint16(img[0:], ImageDOSSignature)
	binary.LittleEndian.PutUint32(img[0x3C:], 0x80)

	// NT headers.
	binary.LittleEndian.PutUint32(img[0x80:], ImageNTSignature)
	fh := img[0x84:]
	binary.LittleEndian.PutUint16(fh[0:], 0x14C) // i386
	binary.LittleEndian.PutUint16(fh[2:], 1)     // one section
	binary.LittleEndian.PutUint16(fh[16:], 0xE0) // optional header size
	binary.LittleEndian.PutUint16(fh[18:], 0x0102)

	oh := img[0x98:]
	binary.LittleEndian.PutUint16(oh[0:], ImageNtOptionalHeader32Magic)
	binary.LittleEndian.PutUint32(oh[4:], 0xC00)      // SizeOfCode
	binary.LittleEndian.PutUint32(oh[16:], 0x2100)    // AddressOfEntryPoint
	binary.LittleEndian.PutUint32(oh[20:], 0x2000)    // BaseOfCode
	binary.LittleEndian.PutUint32(oh[28:], 0x400000)  // ImageBase
	binary.LittleEndian.PutUint32(oh[32:], 0x1000)    // SectionAlignment
	binary.LittleEndian.PutUint32(oh[36:], 0x200)     // FileAlignment
	binary.LittleEndian.PutUint16(oh[40:], 4)         // MajorOSVersion
	binary.LittleEndian.PutUint32(oh[56:], 0x3000)    // SizeOfImage
	binary.LittleEndian.PutUint32(oh[60:], 0x200)     // SizeOfHeaders
	binary.LittleEndian.PutUint16(oh[68:], 3)         // Subsystem: console
	binary.LittleEndian.PutUint32(oh[92:], opts.numberOfRvaAndSizes)
	// COM descriptor directory entry at its fixed slot.
	binary.LittleEndian.PutUint32(oh[96+14*8:], 0x2000)
	binary.LittleEndian.PutUint32(oh[96+14*8+4:], 72)

	// Section header.
	sh := img[0x178:]
	copy(sh, ".text\x00\x00\x00")
	binary.LittleEndian.PutUint32(sh[8:], 0xE00)  // VirtualSize
	binary.LittleEndian.PutUint32(sh[12:], 0x2000) // VirtualAddress
	binary.LittleEndian.PutUint32(sh[16:], 0xE00) // SizeOfRawData
	binary.LittleEndian.PutUint32(sh[20:], 0x200) // PointerToRawData
	binary.LittleEndian.PutUint32(sh[36:], 0x60000020)

	// Section body: CLR header at RVA 0x2000, metadata root at 0x2050.
	copy(img[0x200:], clr.Bytes())
	copy(img[0x250:], metadata)

	if opts.withResource {
		// Resources blob at RVA 0x2800: a dword length followed by the
		// payload.
		binary.LittleEndian.PutUint32(img[0xA00:], 4)
		copy(img[0xA04:], []byte{0xCA, 0xFE, 0xBA, 0xBE})
	}

	return img
}

func TestManifestResources(t *testing.T) {
	pe := parseHelloWorld(t, fixtureOptions{withResource: true})

	resources := pe.CLR.Resources()
	if len(resources) != 1 {
		t.Fatalf("resources = %+v", resources)
	}
	res := resources[0]
	if res.Name != "app.resources" || !res.Public {
		t.Errorf("resource = %+v", res)
	}
	if res.RVA != 0x2800 {
		t.Errorf("resource RVA = 0x%x", res.RVA)
	}
	if !bytes.Equal(res.Data, []byte{0xCA, 0xFE, 0xBA, 0xBE}) {
		t.Errorf("resource data = % x", res.Data)
	}

	// The list is built once.
	if len(pe.CLR.Resources()) != 1 {
		t.Error("second Resources() call differs")
	}
}

func parseHelloWorld(t *testing.T, opts fixtureOptions) *File {
	t.Helper()

	pe, err := NewBytes(buildHelloWorldPE(t, opts), &Options{
		LazyLoadTables: opts.lazy,
	})
	if err != nil {
		t.Fatalf("NewBytes failed: %v", err)
	}
	if err := pe.Parse(); err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if !pe.HasCLR {
		t.Fatal("CLR directory not found")
	}
	return pe
}

func TestHelloWorldHeaders(t *testing.T) {
	pe := parseHelloWorld(t, fixtureOptions{})

	hdr := pe.CLR.CLRHeader
	if hdr.Cb != 72 || hdr.MajorRuntimeVersion != 2 || hdr.MinorRuntimeVersion != 5 {
		t.Errorf("CLR header = %+v", hdr)
	}
	if hdr.MetaData.VirtualAddress != 0x2050 {
		t.Errorf("metadata RVA = 0x%x", hdr.MetaData.VirtualAddress)
	}
	if hdr.Flags&COMImageFlagsILOnly == 0 {
		t.Error("ILOnly flag lost")
	}

	mh := pe.CLR.MetadataHeader
	if mh.Signature != 0x424A5342 {
		t.Errorf("metadata signature = 0x%x", mh.Signature)
	}
	if mh.Version != "v4.0.30319" {
		t.Errorf("version = %q", mh.Version)
	}
	if mh.Streams != 5 {
		t.Errorf("stream count = %d", mh.Streams)
	}

	for _, name := range []string{"#~", "#Strings", "#US", "#GUID", "#Blob"} {
		if _, ok := pe.CLR.MetadataStreams[name]; !ok {
			t.Errorf("stream %s missing", name)
		}
	}
}

func TestHelloWorldTables(t *testing.T) {
	pe := parseHelloWorld(t, fixtureOptions{})
	md := pe.CLR.Tables
	if md == nil {
		t.Fatal("no metadata tables")
	}

	for _, num := range []int{Module, TypeRef, TypeDef, MethodDef, Param,
		MemberRef, CustomAttribute, Assembly, AssemblyRef} {
		if md.TableByNumber(num) == nil {
			t.Errorf("table %s missing", MetadataTableIndexToString(num))
		}
	}

	mod := md.TableByName("Module").Row(0).(*ModuleRow)
	if mod.Name != "1-hello-world.exe" {
		t.Errorf("module name = %q", mod.Name)
	}
	if mod.Mvid == nil {
		t.Error("module Mvid not resolved")
	}

	td := md.TableByNumber(TypeDef).Row(1).(*TypeDefRow)
	if td.TypeName != "HelloWorld" {
		t.Errorf("TypeDef[1].TypeName = %q", td.TypeName)
	}

	// Extends resolves through TypeRef to System.Object in mscorlib.
	if td.Extends.Table != TypeRef {
		t.Fatalf("Extends table = %d", td.Extends.Table)
	}
	tr := md.TableByNumber(TypeRef).RowWithIndex(td.Extends.RowIndex).(*TypeRefRow)
	if tr.TypeName != "Object" || tr.TypeNamespace != "System" {
		t.Errorf("Extends target = %s.%s", tr.TypeNamespace, tr.TypeName)
	}
	if tr.ResolutionScope.Table != AssemblyRef {
		t.Fatalf("ResolutionScope table = %d", tr.ResolutionScope.Table)
	}
	ar := md.TableByNumber(AssemblyRef).
		RowWithIndex(tr.ResolutionScope.RowIndex).(*AssemblyRefRow)
	if ar.Name != "mscorlib" {
		t.Errorf("AssemblyRef name = %q", ar.Name)
	}

	methods := md.TableByNumber(MethodDef)
	main := methods.Row(0).(*MethodDefRow)
	ctor := methods.Row(1).(*MethodDefRow)
	if main.Name != "Main" || ctor.Name != ".ctor" {
		t.Errorf("method names = %q, %q", main.Name, ctor.Name)
	}

	// Main owns exactly one param, args; the run implied by the next
	// row's start leaves .ctor with none.
	if len(main.ParamList) != 1 {
		t.Fatalf("Main.ParamList = %+v", main.ParamList)
	}
	arg := md.TableByNumber(Param).
		RowWithIndex(main.ParamList[0].RowIndex).(*ParamRow)
	if arg.Name != "args" {
		t.Errorf("param name = %q", arg.Name)
	}
	if len(ctor.ParamList) != 0 {
		t.Errorf(".ctor.ParamList = %+v", ctor.ParamList)
	}

	// The HelloWorld type owns both methods.
	if len(td.MethodList) != 2 || td.MethodList[0].RowIndex != 1 {
		t.Errorf("HelloWorld.MethodList = %+v", td.MethodList)
	}

	// The custom attribute hangs off the assembly and is typed by the
	// MemberRef constructor.
	ca := md.TableByNumber(CustomAttribute).Row(0).(*CustomAttributeRow)
	if ca.Parent.Table != Assembly || ca.Parent.RowIndex != 1 {
		t.Errorf("attribute parent = %+v", ca.Parent)
	}
	if ca.Type.Table != MemberRef || ca.Type.RowIndex != 1 {
		t.Errorf("attribute type = %+v", ca.Type)
	}

	asm := md.TableByNumber(Assembly).Row(0).(*AssemblyRow)
	if asm.HashAlgID != HashAlgSHA1 || asm.Name != "1-hello-world" {
		t.Errorf("assembly = %+v", asm)
	}
}

func TestHelloWorldUserStrings(t *testing.T) {
	pe := parseHelloWorld(t, fixtureOptions{})

	item, err := pe.CLR.UserStrings.Get(1)
	if err != nil {
		t.Fatalf("user string Get(1) failed: %v", err)
	}
	if item.Value != "Hello World!" || !item.HasFlag || item.Flag != 0 {
		t.Errorf("user string = %q (flag %v 0x%x)",
			item.Value, item.HasFlag, item.Flag)
	}
}

func TestDuplicateStreamName(t *testing.T) {
	pe := parseHelloWorld(t, fixtureOptions{duplicateUS: true})

	// The facade shortcut points at the last #US stream.
	item, err := pe.CLR.UserStrings.Get(1)
	if err != nil {
		t.Fatalf("user string Get(1) failed: %v", err)
	}
	if item.Value != "BBBBBBBB" {
		t.Errorf("user string = %q, want BBBBBBBB", item.Value)
	}

	found := false
	for _, w := range pe.Warnings {
		if strings.Contains(w, "duplicate .NET stream name '#US'") {
			found = true
		}
	}
	if !found {
		t.Errorf("missing duplicate-stream warning, got %v", pe.Warnings)
	}
}

func TestUnknownStreamPreserved(t *testing.T) {
	pe := parseHelloWorld(t, fixtureOptions{unknownStream: true})

	s, ok := pe.CLR.MetadataStreams["#ZZ"]
	if !ok {
		t.Fatal("#ZZ stream missing from the streams map")
	}
	if !bytes.Equal(s.Data, []byte{1, 2, 3, 4}) {
		t.Errorf("#ZZ data = % x", s.Data)
	}
}

func TestIgnoreInvalidNumberOfRvaAndSizes(t *testing.T) {
	// Even when NumberOfRvaAndSizes is too small to cover the COM
	// descriptor entry, the CLR header is found at its fixed slot.
	pe := parseHelloWorld(t, fixtureOptions{numberOfRvaAndSizes: 2})

	mod := pe.CLR.Tables.TableByNumber(Module).Row(0).(*ModuleRow)
	if mod.Name != "1-hello-world.exe" {
		t.Errorf("module name = %q", mod.Name)
	}
}

func TestLazyFileLoadMatchesEager(t *testing.T) {
	eager := parseHelloWorld(t, fixtureOptions{})
	lazy := parseHelloWorld(t, fixtureOptions{lazy: true})

	if lazy.CLR.Tables.TableByNumber(TypeDef).State() != TableUnloaded {
		t.Error("lazy tables loaded before first access")
	}

	eagerRow := eager.CLR.Tables.TableByNumber(TypeDef).Row(1).(*TypeDefRow)
	lazyRow := lazy.CLR.Tables.TableByNumber(TypeDef).Row(1).(*TypeDefRow)
	if !reflect.DeepEqual(eagerRow, lazyRow) {
		t.Errorf("lazy row differs:\n%+v\n%+v", lazyRow, eagerRow)
	}
}

func TestFastModeSkipsCLR(t *testing.T) {
	pe, err := NewBytes(buildHelloWorldPE(t, fixtureOptions{}), &Options{Fast: true})
	if err != nil {
		t.Fatalf("NewBytes failed: %v", err)
	}
	if err := pe.Parse(); err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if pe.HasCLR {
		t.Error("fast mode parsed the CLR directory")
	}
}

func TestInvalidMetadataSignature(t *testing.T) {
	img := buildHelloWorldPE(t, fixtureOptions{})
	// Corrupt the BSJB signature.
	binary.LittleEndian.PutUint32(img[0x250:], 0x12345678)

	pe, err := NewBytes(img, &Options{})
	if err != nil {
		t.Fatalf("NewBytes failed: %v", err)
	}
	if err := pe.Parse(); err == nil {
		t.Fatal("corrupt signature expected an error")
	}
	// Best effort: the CLR header itself decoded before the failure.
	if pe.CLR.CLRHeader.Cb != 72 {
		t.Error("CLR header not captured before the failure")
	}
}

func TestGetStringAtRVA(t *testing.T) {
	pe := parseHelloWorld(t, fixtureOptions{})

	// The metadata version string is NUL-terminated within the image.
	got := pe.GetStringAtRVA(0x2050+16, 32)
	if string(got) != "v4.0.30319" {
		t.Errorf("GetStringAtRVA = %q", got)
	}
}

func TestGuidResolution(t *testing.T) {
	pe := parseHelloWorld(t, fixtureOptions{})

	mod := pe.CLR.Tables.TableByNumber(Module).Row(0).(*ModuleRow)
	want := "04030201-0605-0807-090a-0b0c0d0e0f10"
	if mod.Mvid == nil || mod.Mvid.String() != want {
		t.Errorf("Mvid = %v, want %s", mod.Mvid, want)
	}
	// EncId index 0 is "no guid".
	if mod.EncID != nil {
		t.Errorf("EncID = %v, want nil", mod.EncID)
	}
}
