// Copyright (c) 2024 The axvmconfig Authors
//
// SPDX-License-Identifier: Apache-2.0
//

package vmconfig

// TemplateParams collects the caller-supplied scalars NewTemplateConfig
// places into the generated configuration. An empty Cmdline means the guest
// gets no kernel command line.
type TemplateParams struct {
	ID             uint32
	Name           string
	VMType         uint32
	CPUNum         uint32
	EntryPoint     uint64
	KernelPath     string
	KernelLoadAddr uint64
	ImageLocation  string
	Cmdline        string
}

// NewTemplateConfig builds a VMConfig from the given scalars, with every
// other field at its structural default: no memory regions, no devices and
// the no-irq interrupt mode. Physical CPU ids are assigned sequentially from
// zero and no affinity masks are set. The inputs are not validated; the
// caller is expected to run the result through the usual checking path
// before use.
func NewTemplateConfig(p TemplateParams) VMConfig {
	physCPUIDs := make([]uint64, p.CPUNum)
	for i := range physCPUIDs {
		physCPUIDs[i] = uint64(i)
	}

	imageLocation := p.ImageLocation

	kernel := VMKernelConfig{
		EntryPoint:     p.EntryPoint,
		KernelPath:     p.KernelPath,
		KernelLoadAddr: p.KernelLoadAddr,
		ImageLocation:  &imageLocation,
	}

	if p.Cmdline != "" {
		cmdline := p.Cmdline
		kernel.Cmdline = &cmdline
	}

	return VMConfig{
		Base: VMBaseConfig{
			ID:         p.ID,
			Name:       p.Name,
			VMType:     p.VMType,
			CPUNum:     p.CPUNum,
			PhysCPUIDs: physCPUIDs,
		},
		Kernel: kernel,
	}
}
