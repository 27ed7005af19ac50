// Copyright (c) 2024 The axvmconfig Authors
//
// SPDX-License-Identifier: Apache-2.0
//

package vmconfig

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

const exampleConfig = `
[base]
id = 12
name = "test_vm"
vm_type = 1
cpu_num = 2
phys_cpu_sets = [3, 4]
phys_cpu_ids = [0x500, 0x501]

[kernel]
entry_point = 0xdeadbeef
image_location = "memory"
kernel_path = "amazing-os.bin"
kernel_load_addr = 0xdeadbeef
dtb_path = "impressive-board.dtb"
dtb_load_addr = 0xa0000000

memory_regions = [
    [0x80000000, 0x80000000, 0x7, 1],
]

[devices]
passthrough_devices = [
    ["dev0", 0x0, 0x0, 0x08000000, 0x1],
    ["dev1", 0x09000000, 0x09000000, 0x0a000000, 0x2],
]

emu_devices = [
    ["dev2", 0x08000000, 0x10000, 0, 0x21, []],
    ["dev3", 0x08080000, 0x10000, 0, 0x22, []],
]

interrupt_mode = "passthrough"
`

func TestParseVMConfig(t *testing.T) {
	assert := assert.New(t)

	config, err := ParseVMConfig(exampleConfig)
	assert.NoError(err)

	assert.Equal(uint32(12), config.Base.ID)
	assert.Equal("test_vm", config.Base.Name)
	assert.Equal(uint32(1), config.Base.VMType)
	assert.Equal(uint32(2), config.Base.CPUNum)
	assert.Equal([]uint64{0x500, 0x501}, config.Base.PhysCPUIDs)
	assert.Equal([]uint64{3, 4}, config.Base.PhysCPUSets)

	assert.Equal(uint64(0xdeadbeef), config.Kernel.EntryPoint)
	assert.Equal("amazing-os.bin", config.Kernel.KernelPath)
	assert.Equal(uint64(0xdeadbeef), config.Kernel.KernelLoadAddr)
	if assert.NotNil(config.Kernel.ImageLocation) {
		assert.Equal("memory", *config.Kernel.ImageLocation)
	}
	if assert.NotNil(config.Kernel.DTBPath) {
		assert.Equal("impressive-board.dtb", *config.Kernel.DTBPath)
	}
	if assert.NotNil(config.Kernel.DTBLoadAddr) {
		assert.Equal(uint64(0xa0000000), *config.Kernel.DTBLoadAddr)
	}
	assert.Nil(config.Kernel.BIOSPath)
	assert.Nil(config.Kernel.RamdiskPath)
	assert.Nil(config.Kernel.Cmdline)
	assert.Nil(config.Kernel.DiskPath)

	if assert.Len(config.Kernel.MemoryRegions, 1) {
		region := config.Kernel.MemoryRegions[0]
		assert.Equal(uint64(0x80000000), region.GPA)
		assert.Equal(uint64(0x80000000), region.Size)
		assert.Equal(uint64(0x7), region.Flags)
		assert.Equal(MapIdentical, region.MapType)
	}

	if assert.Len(config.Devices.PassthroughDevices, 2) {
		assert.Equal(PassthroughDeviceConfig{
			Name:    "dev0",
			BaseGPA: 0x0,
			BaseHPA: 0x0,
			Length:  0x08000000,
			IRQID:   1,
		}, config.Devices.PassthroughDevices[0])
		assert.Equal(PassthroughDeviceConfig{
			Name:    "dev1",
			BaseGPA: 0x09000000,
			BaseHPA: 0x09000000,
			Length:  0x0a000000,
			IRQID:   2,
		}, config.Devices.PassthroughDevices[1])
	}

	if assert.Len(config.Devices.EmuDevices, 2) {
		assert.Equal("dev2", config.Devices.EmuDevices[0].Name)
		assert.Equal(uint64(0x08000000), config.Devices.EmuDevices[0].BaseGPA)
		assert.Equal(uint64(0x10000), config.Devices.EmuDevices[0].Length)
		assert.Equal(uint64(0), config.Devices.EmuDevices[0].IRQID)
		assert.Equal(EmuDeviceGPPTDistributor, config.Devices.EmuDevices[0].EmuType)
		assert.Equal("dev3", config.Devices.EmuDevices[1].Name)
		assert.Equal(EmuDeviceGPPTITS, config.Devices.EmuDevices[1].EmuType)
	}

	assert.Equal(InterruptModePassthrough, config.Devices.InterruptMode)
}

// A document with only the mandatory fields must leave everything else at
// its structural default.
func TestParseVMConfigStructuralDefaults(t *testing.T) {
	assert := assert.New(t)

	const minimalConfig = `
[base]
id = 0
name = ""
vm_type = 0
cpu_num = 0

[kernel]
entry_point = 0
kernel_path = ""
kernel_load_addr = 0
`

	config, err := ParseVMConfig(minimalConfig)
	assert.NoError(err)

	assert.Equal(uint32(0), config.Base.ID)
	assert.Equal("", config.Base.Name)
	assert.Equal(uint32(0), config.Base.VMType)
	assert.Equal(uint32(0), config.Base.CPUNum)
	assert.Nil(config.Base.PhysCPUIDs)
	assert.Nil(config.Base.PhysCPUSets)

	assert.Nil(config.Kernel.BIOSPath)
	assert.Nil(config.Kernel.BIOSLoadAddr)
	assert.Nil(config.Kernel.DTBPath)
	assert.Nil(config.Kernel.DTBLoadAddr)
	assert.Nil(config.Kernel.RamdiskPath)
	assert.Nil(config.Kernel.RamdiskLoadAddr)
	assert.Nil(config.Kernel.ImageLocation)
	assert.Nil(config.Kernel.Cmdline)
	assert.Nil(config.Kernel.DiskPath)
	assert.Empty(config.Kernel.MemoryRegions)

	assert.Empty(config.Devices.EmuDevices)
	assert.Empty(config.Devices.PassthroughDevices)
	assert.Equal(InterruptModeNoIrq, config.Devices.InterruptMode)
}

func TestParseVMConfigMissingMandatoryField(t *testing.T) {
	assert := assert.New(t)

	data := []struct {
		name   string
		config string
	}{
		{
			"no base table",
			`
[kernel]
entry_point = 1
kernel_path = "k.bin"
kernel_load_addr = 1
`,
		},
		{
			"no kernel table",
			`
[base]
id = 1
name = "vm"
vm_type = 0
cpu_num = 1
`,
		},
		{
			"base misses name",
			`
[base]
id = 1
vm_type = 0
cpu_num = 1

[kernel]
entry_point = 1
kernel_path = "k.bin"
kernel_load_addr = 1
`,
		},
		{
			"kernel misses entry_point",
			`
[base]
id = 1
name = "vm"
vm_type = 0
cpu_num = 1

[kernel]
kernel_path = "k.bin"
kernel_load_addr = 1
`,
		},
		{
			"empty document",
			"",
		},
	}

	for i, d := range data {
		_, err := ParseVMConfig(d.config)
		assert.Errorf(err, "test %d (%s)", i, d.name)
		assert.ErrorIsf(err, ErrInvalidConfig, "test %d (%s)", i, d.name)
	}
}

func TestParseVMConfigMalformed(t *testing.T) {
	assert := assert.New(t)

	data := []struct {
		name   string
		config string
	}{
		{
			"unterminated table header",
			`
[base
id = 1
`,
		},
		{
			"string for mandatory integer field",
			`
[base]
id = "twelve"
name = "vm"
vm_type = 0
cpu_num = 1

[kernel]
entry_point = 1
kernel_path = "k.bin"
kernel_load_addr = 1
`,
		},
		{
			"unrecognized interrupt mode",
			`
[base]
id = 1
name = "vm"
vm_type = 0
cpu_num = 1

[kernel]
entry_point = 1
kernel_path = "k.bin"
kernel_load_addr = 1

[devices]
interrupt_mode = "polled"
`,
		},
		{
			"short memory region tuple",
			`
[base]
id = 1
name = "vm"
vm_type = 0
cpu_num = 1

[kernel]
entry_point = 1
kernel_path = "k.bin"
kernel_load_addr = 1
memory_regions = [[0x1000, 0x1000]]
`,
		},
		{
			"string where memory region tuple expects an integer",
			`
[base]
id = 1
name = "vm"
vm_type = 0
cpu_num = 1

[kernel]
entry_point = 1
kernel_path = "k.bin"
kernel_load_addr = 1
memory_regions = [["0x1000", 0x1000, 0, 0]]
`,
		},
	}

	for i, d := range data {
		_, err := ParseVMConfig(d.config)
		assert.Errorf(err, "test %d (%s)", i, d.name)
		assert.ErrorIsf(err, ErrInvalidConfig, "test %d (%s)", i, d.name)
	}
}

// Unknown keys do not fail the parse; they are reported and skipped.
func TestParseVMConfigIgnoresUnknownKeys(t *testing.T) {
	assert := assert.New(t)

	const config = `
[base]
id = 1
name = "vm"
vm_type = 0
cpu_num = 1
favourite_colour = "blue"

[kernel]
entry_point = 1
kernel_path = "k.bin"
kernel_load_addr = 1
`

	savedOut := vmconfigLog.Logger.Out
	defer func() {
		vmconfigLog.Logger.Out = savedOut
	}()

	logBuf := &bytes.Buffer{}
	vmconfigLog.Logger.Out = logBuf

	parsed, err := ParseVMConfig(config)
	assert.NoError(err)
	assert.Equal("vm", parsed.Base.Name)
	assert.Contains(logBuf.String(), "favourite_colour")
}

// Unknown numeric enum codes resolve to the default variant with a warning
// instead of failing the parse.
func TestParseVMConfigUnknownCodesWarn(t *testing.T) {
	assert := assert.New(t)

	const config = `
[base]
id = 1
name = "vm"
vm_type = 0
cpu_num = 1

[kernel]
entry_point = 1
kernel_path = "k.bin"
kernel_load_addr = 1
memory_regions = [[0x1000, 0x1000, 0x7, 9]]

[devices]
emu_devices = [["dev", 0x1000, 0x100, 0, 0x55, []]]
`

	savedOut := vmconfigLog.Logger.Out
	defer func() {
		vmconfigLog.Logger.Out = savedOut
	}()

	logBuf := &bytes.Buffer{}
	vmconfigLog.Logger.Out = logBuf

	parsed, err := ParseVMConfig(config)
	assert.NoError(err)
	assert.Equal(MapAlloc, parsed.Kernel.MemoryRegions[0].MapType)
	assert.Equal(EmuDeviceDummy, parsed.Devices.EmuDevices[0].EmuType)
	assert.Contains(logBuf.String(), "unknown memory mapping type code")
	assert.Contains(logBuf.String(), "unknown emulated device type code")
}

// The keyed-table encoding is accepted alongside the compact tuples.
func TestParseVMConfigTableEncodedSequences(t *testing.T) {
	assert := assert.New(t)

	const config = `
[base]
id = 1
name = "vm"
vm_type = 2
cpu_num = 1

[kernel]
entry_point = 0x80200000
kernel_path = "linux.bin"
kernel_load_addr = 0x80200000

[[kernel.memory_regions]]
gpa = 0x80000000
size = 0x40000000
flags = 0x7
map_type = 1

[[devices.emu_devices]]
name = "console"
base_gpa = 0x9000000
length = 0x1000
irq_id = 33
emu_type = 0x2
cfg_list = [1, 2]

[[devices.passthrough_devices]]
name = "uart"
base_gpa = 0x9001000
base_hpa = 0x9001000
length = 0x1000
irq_id = 34
`

	parsed, err := ParseVMConfig(config)
	assert.NoError(err)

	if assert.Len(parsed.Kernel.MemoryRegions, 1) {
		assert.Equal(MemoryRegion{
			GPA:     0x80000000,
			Size:    0x40000000,
			Flags:   0x7,
			MapType: MapIdentical,
		}, parsed.Kernel.MemoryRegions[0])
	}

	if assert.Len(parsed.Devices.EmuDevices, 1) {
		assert.Equal(EmulatedDeviceConfig{
			Name:    "console",
			BaseGPA: 0x9000000,
			Length:  0x1000,
			IRQID:   33,
			EmuType: EmuDeviceConsole,
			CfgList: []uint64{1, 2},
		}, parsed.Devices.EmuDevices[0])
	}

	if assert.Len(parsed.Devices.PassthroughDevices, 1) {
		assert.Equal(PassthroughDeviceConfig{
			Name:    "uart",
			BaseGPA: 0x9001000,
			BaseHPA: 0x9001000,
			Length:  0x1000,
			IRQID:   34,
		}, parsed.Devices.PassthroughDevices[0])
	}
}
