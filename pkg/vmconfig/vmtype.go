// Copyright (c) 2024 The axvmconfig Authors
//
// SPDX-License-Identifier: Apache-2.0
//

package vmconfig

// VMType describes the kind of guest a VM runs.
type VMType uint32

const (
	// VMTypeHostVM is a VM booted from the host Linux ("type 1.5"), the way
	// Jailhouse does it.
	VMTypeHostVM VMType = 0

	// VMTypeRTOS is a simple guest OS with most of its resources passed
	// through.
	VMTypeRTOS VMType = 1

	// VMTypeLinux is a full-featured guest with complicated device emulation
	// requirements.
	VMTypeLinux VMType = 2
)

// VMTypeFromCode converts a wire-level VM type code to a VMType. Codes
// outside the known set resolve to VMTypeRTOS with a warning, so that
// configurations written against a newer schema revision still load.
func VMTypeFromCode(code uint64) VMType {
	switch code {
	case 0:
		return VMTypeHostVM
	case 1:
		return VMTypeRTOS
	case 2:
		return VMTypeLinux
	default:
		vmconfigLog.WithField("vm_type", code).Warn("unknown VM type code, defaulting to RTOS")
		return VMTypeRTOS
	}
}

// Code returns the wire-level numeric code of the VM type.
func (t VMType) Code() uint64 {
	return uint64(t)
}

// String converts a VM type to a string.
func (t VMType) String() string {
	switch t {
	case VMTypeHostVM:
		return "host_vm"
	case VMTypeRTOS:
		return "rtos"
	case VMTypeLinux:
		return "linux"
	default:
		return ""
	}
}
