// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package dnfile

import (
	"encoding/binary"
	"fmt"
)

// ClrResource is one managed resource named by a ManifestResource row.
// Only resources embedded in this file (null Implementation) carry data;
// the payload is exposed raw, a dword length followed by that many bytes
// at ResourcesRva + Offset. Deserialization of ResourceSet payloads is a
// concern of layers above.
type ClrResource struct {
	// The resource name from the #Strings heap.
	Name string `json:"name"`

	// Visibility from the row flags.
	Public  bool `json:"public"`
	Private bool `json:"private"`

	// Image RVA of the resource payload, zero when the resource lives in
	// another file or assembly.
	RVA uint32 `json:"rva"`

	// Byte offset of the resource within the resources blob.
	Offset uint32 `json:"offset"`

	// The Implementation coded index from the row; nil for embedded
	// resources.
	Implementation CodedIndex `json:"implementation"`

	// The raw payload of an embedded resource.
	Data []byte `json:"-"`
}

// Resources returns descriptors for every ManifestResource row, reading
// embedded payloads from the blob located by the CLR header's resources
// directory. The list is built once on first call; in lazy mode this
// triggers the metadata tables load.
func (clr *CLRData) Resources() []ClrResource {
	if clr.resourcesParsed {
		return clr.resources
	}
	clr.resourcesParsed = true

	if clr.Tables == nil || clr.pe == nil {
		return nil
	}
	table := clr.Tables.TableByNumber(ManifestResource)
	if table == nil {
		return nil
	}

	base := clr.CLRHeader.Resources.VirtualAddress
	limit := clr.CLRHeader.Resources.Size

	for _, row := range table.Rows() {
		mr, ok := row.(*ManifestResourceRow)
		if !ok {
			continue
		}

		res := ClrResource{
			Name:           mr.Name,
			Public:         mr.Flags.IsPublic(),
			Private:        mr.Flags.IsPrivate(),
			Offset:         mr.Offset,
			Implementation: mr.Implementation,
		}

		// Only a null Implementation means the payload is embedded in
		// this file.
		if mr.Implementation.IsNil() && base != 0 && mr.Offset < limit {
			res.RVA = base + mr.Offset
			if data, err := clr.pe.GetData(res.RVA, 4); err == nil && len(data) >= 4 {
				size := binary.LittleEndian.Uint32(data)
				payload, err := clr.pe.GetData(res.RVA+4, size)
				if err != nil || uint32(len(payload)) < size {
					clr.pe.addWarning(fmt.Sprintf(
						"resource %s payload truncated", mr.Name))
				}
				res.Data = payload
			}
		}

		clr.resources = append(clr.resources, res)
	}
	return clr.resources
}
