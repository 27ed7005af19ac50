// Copyright (c) 2024 The axvmconfig Authors
//
// SPDX-License-Identifier: Apache-2.0
//

package vmconfig

import (
	"github.com/pkg/errors"
)

// EmulatedDeviceType identifies the device model an emulated device uses.
//
// The code space is allocated in bands:
//   - 0x00 - 0x1F: special devices, and abstract device types that do not
//     name a concrete interface. The objects created from these depend on the
//     target architecture and the hypervisor implementation.
//   - 0x20 - 0x7F: concrete emulated devices, with 0x20 - 0x2F reserved for
//     interrupt controller variants.
//   - 0xE0 - 0xEF: virtio devices.
//
// The remaining bands are reserved for future use.
type EmulatedDeviceType uint8

const (
	// EmuDeviceDummy is a placeholder device type.
	EmuDeviceDummy EmulatedDeviceType = 0x0

	// EmuDeviceInterruptController is the platform interrupt controller,
	// e.g. a vGICv2 on aarch64 or a vLAPIC on x86.
	EmuDeviceInterruptController EmulatedDeviceType = 0x1

	// EmuDeviceConsole is a serial console device.
	EmuDeviceConsole EmulatedDeviceType = 0x2

	// EmuDeviceIVCChannel provides an inter-VM communication channel. The
	// memory region backing it must be marked reserved in the guest's device
	// tree or ACPI tables.
	EmuDeviceIVCChannel EmulatedDeviceType = 0xA

	// EmuDeviceGPPTRedistributor is the ARM GIC partial passthrough
	// redistributor.
	EmuDeviceGPPTRedistributor EmulatedDeviceType = 0x20

	// EmuDeviceGPPTDistributor is the ARM GIC partial passthrough
	// distributor.
	EmuDeviceGPPTDistributor EmulatedDeviceType = 0x21

	// EmuDeviceGPPTITS is the ARM GIC partial passthrough interrupt
	// translation service.
	EmuDeviceGPPTITS EmulatedDeviceType = 0x22

	// EmuDeviceVirtioBlk is a virtio block device.
	EmuDeviceVirtioBlk EmulatedDeviceType = 0xE1

	// EmuDeviceVirtioNet is a virtio net device.
	EmuDeviceVirtioNet EmulatedDeviceType = 0xE2

	// EmuDeviceVirtioConsole is a virtio console device.
	EmuDeviceVirtioConsole EmulatedDeviceType = 0xE3
)

// EmulatedDeviceTypeFromCode converts a wire-level device type code to an
// EmulatedDeviceType. Unknown codes resolve to EmuDeviceDummy with a warning,
// so that configurations carrying device types from a newer schema revision
// still load.
func EmulatedDeviceTypeFromCode(code uint64) EmulatedDeviceType {
	switch code {
	case 0x0:
		return EmuDeviceDummy
	case 0x1:
		return EmuDeviceInterruptController
	case 0x2:
		return EmuDeviceConsole
	case 0xA:
		return EmuDeviceIVCChannel
	case 0x20:
		return EmuDeviceGPPTRedistributor
	case 0x21:
		return EmuDeviceGPPTDistributor
	case 0x22:
		return EmuDeviceGPPTITS
	case 0xE1:
		return EmuDeviceVirtioBlk
	case 0xE2:
		return EmuDeviceVirtioNet
	case 0xE3:
		return EmuDeviceVirtioConsole
	default:
		vmconfigLog.WithField("emu_type", code).Warn("unknown emulated device type code, defaulting to dummy")
		return EmuDeviceDummy
	}
}

// Code returns the wire-level numeric code of the device type.
func (t EmulatedDeviceType) Code() uint64 {
	return uint64(t)
}

// Removable reports whether devices of this type may be hot-unplugged.
func (t EmulatedDeviceType) Removable() bool {
	switch t {
	case EmuDeviceInterruptController,
		EmuDeviceGPPTRedistributor,
		EmuDeviceVirtioBlk,
		EmuDeviceVirtioNet,
		EmuDeviceVirtioConsole:
		return true
	}

	return false
}

// String returns the human readable label of the device type.
func (t EmulatedDeviceType) String() string {
	switch t {
	case EmuDeviceDummy:
		return "meta device"
	case EmuDeviceInterruptController:
		return "interrupt controller"
	case EmuDeviceConsole:
		return "console"
	case EmuDeviceIVCChannel:
		return "ivc channel"
	case EmuDeviceGPPTRedistributor:
		return "gic partial passthrough redistributor"
	case EmuDeviceGPPTDistributor:
		return "gic partial passthrough distributor"
	case EmuDeviceGPPTITS:
		return "gic partial passthrough its"
	case EmuDeviceVirtioBlk:
		return "virtio block"
	case EmuDeviceVirtioNet:
		return "virtio net"
	case EmuDeviceVirtioConsole:
		return "virtio console"
	default:
		return ""
	}
}

// EmulatedDeviceConfig describes one emulated device exposed to the guest.
type EmulatedDeviceConfig struct {
	// Name of the device.
	Name string `toml:"name"`

	// BaseGPA is the base guest physical address of the device.
	BaseGPA uint64 `toml:"base_gpa"`

	// Length is the size of the device's address range.
	Length uint64 `toml:"length"`

	// IRQID is the interrupt request id of the device.
	IRQID uint64 `toml:"irq_id"`

	// EmuType selects the device model.
	EmuType EmulatedDeviceType `toml:"emu_type"`

	// CfgList carries additional settings whose meaning is defined by the
	// device model selected through EmuType.
	CfgList []uint64 `toml:"cfg_list"`
}

// UnmarshalTOML accepts either the compact tuple form
// [name, base_gpa, length, irq_id, emu_type, cfg_list] or a keyed table.
func (d *EmulatedDeviceConfig) UnmarshalTOML(v interface{}) error {
	switch val := v.(type) {
	case []interface{}:
		if len(val) != 6 {
			return errors.Errorf("emulated device: expected [name, base_gpa, length, irq_id, emu_type, cfg_list], got %d elements", len(val))
		}

		name, err := tomlString(val[0], "emulated device name")
		if err != nil {
			return err
		}

		baseGPA, err := tomlUint64(val[1], "emulated device base_gpa")
		if err != nil {
			return err
		}

		length, err := tomlUint64(val[2], "emulated device length")
		if err != nil {
			return err
		}

		irqID, err := tomlUint64(val[3], "emulated device irq_id")
		if err != nil {
			return err
		}

		emuType, err := tomlUint64(val[4], "emulated device emu_type")
		if err != nil {
			return err
		}

		cfgList, err := tomlUint64Slice(val[5], "emulated device cfg_list")
		if err != nil {
			return err
		}

		*d = EmulatedDeviceConfig{
			Name:    name,
			BaseGPA: baseGPA,
			Length:  length,
			IRQID:   irqID,
			EmuType: EmulatedDeviceTypeFromCode(emuType),
			CfgList: cfgList,
		}

		return nil
	case map[string]interface{}:
		return d.fromTable(val)
	default:
		return errors.Errorf("emulated device: unsupported TOML value %T", v)
	}
}

func (d *EmulatedDeviceConfig) fromTable(tbl map[string]interface{}) error {
	for key, raw := range tbl {
		var err error

		switch key {
		case "name":
			d.Name, err = tomlString(raw, "emulated device name")
		case "base_gpa":
			d.BaseGPA, err = tomlUint64(raw, "emulated device base_gpa")
		case "length":
			d.Length, err = tomlUint64(raw, "emulated device length")
		case "irq_id":
			d.IRQID, err = tomlUint64(raw, "emulated device irq_id")
		case "emu_type":
			var code uint64
			code, err = tomlUint64(raw, "emulated device emu_type")
			if err == nil {
				d.EmuType = EmulatedDeviceTypeFromCode(code)
			}
		case "cfg_list":
			d.CfgList, err = tomlUint64Slice(raw, "emulated device cfg_list")
		default:
			vmconfigLog.WithField("key", key).Warn("ignoring unknown emulated device key")
		}

		if err != nil {
			return err
		}
	}

	return nil
}

// PassthroughDeviceConfig describes one physical device passed through to
// the guest. Passthrough devices are identified purely by their address
// ranges; there is no device type field.
type PassthroughDeviceConfig struct {
	// Name of the device.
	Name string `toml:"name"`

	// BaseGPA is the base guest physical address of the device.
	BaseGPA uint64 `toml:"base_gpa"`

	// BaseHPA is the base host physical address of the device.
	BaseHPA uint64 `toml:"base_hpa"`

	// Length is the size of the device's address range.
	Length uint64 `toml:"length"`

	// IRQID is the interrupt request id of the device.
	IRQID uint64 `toml:"irq_id"`
}

// UnmarshalTOML accepts either the compact tuple form
// [name, base_gpa, base_hpa, length, irq_id] or a keyed table.
func (d *PassthroughDeviceConfig) UnmarshalTOML(v interface{}) error {
	switch val := v.(type) {
	case []interface{}:
		if len(val) != 5 {
			return errors.Errorf("passthrough device: expected [name, base_gpa, base_hpa, length, irq_id], got %d elements", len(val))
		}

		name, err := tomlString(val[0], "passthrough device name")
		if err != nil {
			return err
		}

		baseGPA, err := tomlUint64(val[1], "passthrough device base_gpa")
		if err != nil {
			return err
		}

		baseHPA, err := tomlUint64(val[2], "passthrough device base_hpa")
		if err != nil {
			return err
		}

		length, err := tomlUint64(val[3], "passthrough device length")
		if err != nil {
			return err
		}

		irqID, err := tomlUint64(val[4], "passthrough device irq_id")
		if err != nil {
			return err
		}

		*d = PassthroughDeviceConfig{
			Name:    name,
			BaseGPA: baseGPA,
			BaseHPA: baseHPA,
			Length:  length,
			IRQID:   irqID,
		}

		return nil
	case map[string]interface{}:
		return d.fromTable(val)
	default:
		return errors.Errorf("passthrough device: unsupported TOML value %T", v)
	}
}

func (d *PassthroughDeviceConfig) fromTable(tbl map[string]interface{}) error {
	for key, raw := range tbl {
		var err error

		switch key {
		case "name":
			d.Name, err = tomlString(raw, "passthrough device name")
		case "base_gpa":
			d.BaseGPA, err = tomlUint64(raw, "passthrough device base_gpa")
		case "base_hpa":
			d.BaseHPA, err = tomlUint64(raw, "passthrough device base_hpa")
		case "length":
			d.Length, err = tomlUint64(raw, "passthrough device length")
		case "irq_id":
			d.IRQID, err = tomlUint64(raw, "passthrough device irq_id")
		default:
			vmconfigLog.WithField("key", key).Warn("ignoring unknown passthrough device key")
		}

		if err != nil {
			return err
		}
	}

	return nil
}
