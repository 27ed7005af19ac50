// Copyright (c) 2024 The axvmconfig Authors
//
// SPDX-License-Identifier: Apache-2.0
//

package vmconfig

import (
	"github.com/pkg/errors"
)

// MemMappingType selects how a guest memory region is backed.
type MemMappingType uint8

const (
	// MapAlloc regions are allocated by the VM monitor.
	MapAlloc MemMappingType = 0

	// MapIdentical regions map one to one onto the host physical memory
	// region with the same address.
	MapIdentical MemMappingType = 1
)

// MemMappingTypeFromCode converts a wire-level mapping type code to a
// MemMappingType. Unknown codes resolve to MapAlloc with a warning.
func MemMappingTypeFromCode(code uint64) MemMappingType {
	switch code {
	case 0:
		return MapAlloc
	case 1:
		return MapIdentical
	default:
		vmconfigLog.WithField("map_type", code).Warn("unknown memory mapping type code, defaulting to alloc")
		return MapAlloc
	}
}

// Code returns the wire-level numeric code of the mapping type.
func (t MemMappingType) Code() uint64 {
	return uint64(t)
}

// String converts a mapping type to a string.
func (t MemMappingType) String() string {
	switch t {
	case MapAlloc:
		return "alloc"
	case MapIdentical:
		return "identical"
	default:
		return ""
	}
}

// MemoryRegion describes one guest physical memory region. Regions are kept
// in the order they appear in the document; the schema does not check them
// for overlap.
type MemoryRegion struct {
	// GPA is the start address of the region in guest physical address space.
	GPA uint64 `toml:"gpa"`

	// Size of the region in bytes.
	Size uint64 `toml:"size"`

	// Flags is an opaque mapping-flags bitmask handed to the address space
	// layer untouched.
	Flags uint64 `toml:"flags"`

	// MapType selects how the region is backed.
	MapType MemMappingType `toml:"map_type"`
}

// UnmarshalTOML accepts either the compact tuple form
// [gpa, size, flags, map_type] or a keyed table.
func (m *MemoryRegion) UnmarshalTOML(v interface{}) error {
	switch val := v.(type) {
	case []interface{}:
		if len(val) != 4 {
			return errors.Errorf("memory region: expected [gpa, size, flags, map_type], got %d elements", len(val))
		}

		gpa, err := tomlUint64(val[0], "memory region gpa")
		if err != nil {
			return err
		}

		size, err := tomlUint64(val[1], "memory region size")
		if err != nil {
			return err
		}

		flags, err := tomlUint64(val[2], "memory region flags")
		if err != nil {
			return err
		}

		mapType, err := tomlUint64(val[3], "memory region map_type")
		if err != nil {
			return err
		}

		*m = MemoryRegion{
			GPA:     gpa,
			Size:    size,
			Flags:   flags,
			MapType: MemMappingTypeFromCode(mapType),
		}

		return nil
	case map[string]interface{}:
		return m.fromTable(val)
	default:
		return errors.Errorf("memory region: unsupported TOML value %T", v)
	}
}

func (m *MemoryRegion) fromTable(tbl map[string]interface{}) error {
	for key, raw := range tbl {
		var err error

		switch key {
		case "gpa":
			m.GPA, err = tomlUint64(raw, "memory region gpa")
		case "size":
			m.Size, err = tomlUint64(raw, "memory region size")
		case "flags":
			m.Flags, err = tomlUint64(raw, "memory region flags")
		case "map_type":
			var code uint64
			code, err = tomlUint64(raw, "memory region map_type")
			if err == nil {
				m.MapType = MemMappingTypeFromCode(code)
			}
		default:
			vmconfigLog.WithField("key", key).Warn("ignoring unknown memory region key")
		}

		if err != nil {
			return err
		}
	}

	return nil
}
