// Copyright (c) 2024 The axvmconfig Authors
//
// SPDX-License-Identifier: Apache-2.0
//

package vmconfig

import (
	"fmt"
)

// InterruptMode specifies how the VM handles interrupts at the platform
// level.
type InterruptMode int

const (
	// InterruptModeNoIrq: the VM does not handle interrupts and the guest OS
	// must not rely on them.
	InterruptModeNoIrq InterruptMode = iota

	// InterruptModeEmulated: interrupts go through an emulated interrupt
	// controller.
	InterruptModeEmulated

	// InterruptModePassthrough: interrupts go through a passthrough
	// interrupt controller, including the GPPT variants.
	InterruptModePassthrough
)

// Set sets an interrupt mode based on the input string. Each mode is
// accepted under its canonical name or any of its aliases; matching is
// case-sensitive. Unlike the numeric code tables, an unrecognized spelling
// is an error.
func (m *InterruptMode) Set(value string) error {
	switch value {
	case "no_irq", "no", "none":
		*m = InterruptModeNoIrq
		return nil
	case "emu", "emulated":
		*m = InterruptModeEmulated
		return nil
	case "passthrough", "pt":
		*m = InterruptModePassthrough
		return nil
	default:
		return fmt.Errorf("unknown interrupt mode %q", value)
	}
}

// String converts an interrupt mode to its canonical spelling.
func (m InterruptMode) String() string {
	switch m {
	case InterruptModeNoIrq:
		return "no_irq"
	case InterruptModeEmulated:
		return "emu"
	case InterruptModePassthrough:
		return "passthrough"
	default:
		return ""
	}
}

// UnmarshalText implements encoding.TextUnmarshaler so the TOML decoder
// resolves the textual field through Set.
func (m *InterruptMode) UnmarshalText(text []byte) error {
	return m.Set(string(text))
}

// MarshalText implements encoding.TextMarshaler; the serialized form is the
// canonical spelling.
func (m InterruptMode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}
