// Copyright (c) 2024 The axvmconfig Authors
//
// SPDX-License-Identifier: Apache-2.0
//

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/urfave/cli"

	"github.com/bullhh/axvmconfig/pkg/vmconfig"
)

// templateFileMode is the mode generated template files are created with.
const templateFileMode = os.FileMode(0644)

var generateCLICommand = cli.Command{
	Name:  "generate",
	Usage: "generate a template VM configuration file",
	Flags: []cli.Flag{
		cli.StringFlag{
			Name:  "arch, a",
			Usage: "guest architecture ('riscv64', 'aarch64' or 'x86_64')",
		},
		cli.Uint64Flag{
			Name:  "id, i",
			Usage: "VM id",
		},
		cli.StringFlag{
			Name:  "name, n",
			Value: "GuestVM",
			Usage: "VM name",
		},
		cli.Uint64Flag{
			Name:  "vm-type, t",
			Value: 1,
			Usage: "VM type code (0 for HostVM, 1 for RTOS, 2 for Linux)",
		},
		cli.Uint64Flag{
			Name:  "cpu-num, c",
			Value: 1,
			Usage: "number of virtual CPUs",
		},
		cli.StringFlag{
			Name:  "entry-point, e",
			Value: "1",
			Usage: "guest entry point (decimal, '0x' hex or '0b' binary)",
		},
		cli.StringFlag{
			Name:  "kernel-path, k",
			Usage: "path of the kernel image; with --image-location=fs it names a file inside the guest rootfs",
		},
		cli.StringFlag{
			Name:  "kernel-load-addr, l",
			Usage: "kernel image load address (decimal, '0x' hex or '0b' binary)",
		},
		cli.StringFlag{
			Name:  "image-location",
			Value: "fs",
			Usage: "kernel image location: 'fs' for a file inside the guest rootfs, 'memory' for a host file loaded into memory",
		},
		cli.StringFlag{
			Name:  "cmdline",
			Usage: "guest kernel command line",
		},
		cli.StringFlag{
			Name:  "output, O",
			Usage: "output path of the template file (default: template.toml in the current directory)",
		},
	},
	Action: generateTemplate,
}

func generateTemplate(c *cli.Context) error {
	arch := c.String("arch")
	if arch == "" {
		return fmt.Errorf("missing required option --arch")
	}

	kernelPath := c.String("kernel-path")
	if kernelPath == "" {
		return fmt.Errorf("missing required option --kernel-path")
	}

	loadAddrStr := c.String("kernel-load-addr")
	if loadAddrStr == "" {
		return fmt.Errorf("missing required option --kernel-load-addr")
	}

	entryPoint, err := parseNumber(c.String("entry-point"))
	if err != nil {
		return fmt.Errorf("invalid --entry-point value: %v", err)
	}

	kernelLoadAddr, err := parseNumber(loadAddrStr)
	if err != nil {
		return fmt.Errorf("invalid --kernel-load-addr value: %v", err)
	}

	// Memory-located images live on the host, so the path has to be made
	// absolute here. Rootfs-relative paths are kept as written.
	imageLocation := c.String("image-location")
	if imageLocation == "memory" {
		kernelPath, err = resolvePath(kernelPath)
		if err != nil {
			return err
		}
	}

	template := vmconfig.NewTemplateConfig(vmconfig.TemplateParams{
		ID:             uint32(c.Uint64("id")),
		Name:           c.String("name") + "-" + arch,
		VMType:         uint32(c.Uint64("vm-type")),
		CPUNum:         uint32(c.Uint64("cpu-num")),
		EntryPoint:     entryPoint,
		KernelPath:     kernelPath,
		KernelLoadAddr: kernelLoadAddr,
		ImageLocation:  imageLocation,
		Cmdline:        c.String("cmdline"),
	})

	document, err := template.TOML()
	if err != nil {
		return err
	}

	targetPath := c.String("output")
	if targetPath == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return err
		}
		targetPath = filepath.Join(cwd, "template.toml")
	}

	if err := os.WriteFile(targetPath, []byte(document), templateFileMode); err != nil {
		return fmt.Errorf("failed to write template file %q: %v", targetPath, err)
	}

	fmt.Fprintf(defaultOutputFile, "Template file '%s' has been generated.\n", targetPath)

	return nil
}
