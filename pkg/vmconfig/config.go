// Copyright (c) 2024 The axvmconfig Authors
//
// SPDX-License-Identifier: Apache-2.0
//

// Package vmconfig defines the declarative configuration schema for a guest
// VM, and the logic that parses and validates a TOML document into it. The
// package only produces the validated description; creating the VM, mapping
// its memory and instantiating its devices is the job of the downstream VM
// creation path.
package vmconfig

import (
	"github.com/BurntSushi/toml"
)

// VMBaseConfig identifies a VM and describes its CPU resources.
type VMBaseConfig struct {
	// ID of the VM.
	ID uint32 `toml:"id"`

	// Name of the VM.
	Name string `toml:"name"`

	// VMType is kept as the raw wire code rather than a VMType value so that
	// codes from newer schema revisions reach downstream consumers
	// unmodified. Use VMTypeFromCode to interpret it.
	VMType uint32 `toml:"vm_type"`

	// CPUNum is the number of virtual CPUs.
	CPUNum uint32 `toml:"cpu_num"`

	// PhysCPUIDs lists the physical CPU hardware ids the vCPUs map to. Some
	// ARM platforms publish these in the device tree (read from MPIDR_EL1,
	// probably for clustering). If nil, each vCPU's physical id is its vCPU
	// id.
	PhysCPUIDs []uint64 `toml:"phys_cpu_ids,omitempty"`

	// PhysCPUSets[i] is the mask of physical CPUs vCPU i may be scheduled
	// on; [0x0101, 0x0010] pins vCPU0 to pCPU0/pCPU2 and vCPU1 to pCPU1. If
	// nil, vCPUs run on whatever physical CPUs are available. The number of
	// masks is expected to match CPUNum, but this layer does not enforce it;
	// the VM creation path does.
	PhysCPUSets []uint64 `toml:"phys_cpu_sets,omitempty"`
}

// VMKernelConfig describes the guest kernel and boot images.
type VMKernelConfig struct {
	// EntryPoint of the kernel image.
	EntryPoint uint64 `toml:"entry_point"`

	// KernelPath is the file path of the kernel image.
	KernelPath string `toml:"kernel_path"`

	// KernelLoadAddr is the load address of the kernel image.
	KernelLoadAddr uint64 `toml:"kernel_load_addr"`

	// BIOSPath is the file path of the BIOS image, nil if not used.
	BIOSPath *string `toml:"bios_path,omitempty"`

	// BIOSLoadAddr is the load address of the BIOS image, nil if not used.
	BIOSLoadAddr *uint64 `toml:"bios_load_addr,omitempty"`

	// DTBPath is the file path of the device tree blob, nil if not used.
	DTBPath *string `toml:"dtb_path,omitempty"`

	// DTBLoadAddr is the load address of the device tree blob, nil if not
	// used.
	DTBLoadAddr *uint64 `toml:"dtb_load_addr,omitempty"`

	// RamdiskPath is the file path of the ramdisk image, nil if not used.
	RamdiskPath *string `toml:"ramdisk_path,omitempty"`

	// RamdiskLoadAddr is the load address of the ramdisk image, nil if not
	// used.
	RamdiskLoadAddr *uint64 `toml:"ramdisk_load_addr,omitempty"`

	// ImageLocation tells where the kernel image lives: "fs" for a file in
	// the guest rootfs, "memory" for an image already loaded by the host.
	ImageLocation *string `toml:"image_location,omitempty"`

	// Cmdline is the guest kernel command line, nil if not used.
	Cmdline *string `toml:"cmdline,omitempty"`

	// DiskPath is the path of the disk image, nil if not used.
	DiskPath *string `toml:"disk_path,omitempty"`

	// MemoryRegions lists the guest physical memory regions.
	MemoryRegions []MemoryRegion `toml:"memory_regions,omitempty"`
}

// VMDevicesConfig describes the devices assigned to the guest.
type VMDevicesConfig struct {
	// EmuDevices lists the emulated devices.
	EmuDevices []EmulatedDeviceConfig `toml:"emu_devices,omitempty"`

	// PassthroughDevices lists the passthrough devices.
	PassthroughDevices []PassthroughDeviceConfig `toml:"passthrough_devices,omitempty"`

	// InterruptMode selects how the VM handles interrupts and interrupt
	// controllers.
	InterruptMode InterruptMode `toml:"interrupt_mode"`
}

// VMConfig is the root VM description deserialized from a TOML document.
// It is handed to the hypervisor's VM creation path and never mutated
// afterwards; consumers needing a variant construct a new one.
type VMConfig struct {
	// Base configuration of the VM.
	Base VMBaseConfig `toml:"base"`

	// Kernel configuration of the VM.
	Kernel VMKernelConfig `toml:"kernel"`

	// Devices configuration of the VM.
	Devices VMDevicesConfig `toml:"devices"`
}

// TOML serializes the configuration to its canonical TOML document form.
func (c VMConfig) TOML() (string, error) {
	data, err := toml.Marshal(c)
	if err != nil {
		return "", err
	}

	return string(data), nil
}
