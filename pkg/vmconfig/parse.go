// Copyright (c) 2024 The axvmconfig Authors
//
// SPDX-License-Identifier: Apache-2.0
//

package vmconfig

import (
	"errors"
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
)

// ErrInvalidConfig is wrapped by every error ParseVMConfig returns: the
// schema has a single failure kind, a document that cannot be deserialized.
var ErrInvalidConfig = errors.New("invalid VM configuration")

// requiredFields lists the document keys that have no structural default.
// Everything else may be absent.
var requiredFields = [][]string{
	{"base"},
	{"base", "id"},
	{"base", "name"},
	{"base", "vm_type"},
	{"base", "cpu_num"},
	{"kernel"},
	{"kernel", "entry_point"},
	{"kernel", "kernel_path"},
	{"kernel", "kernel_load_addr"},
}

// ParseVMConfig deserializes a TOML document into a VMConfig.
//
// Optional fields absent from the document keep their structural defaults;
// absent mandatory fields, syntax errors, type mismatches and unrecognized
// interrupt mode strings all fail with an error wrapping ErrInvalidConfig.
// Unknown numeric enum codes never fail the parse: they resolve to the
// enum's default variant with a warning, so documents written against a
// newer schema revision still load.
func ParseVMConfig(configData string) (VMConfig, error) {
	var config VMConfig

	md, err := toml.Decode(configData, &config)
	if err != nil {
		vmconfigLog.WithError(err).Warn("VM config TOML parse error")
		return VMConfig{}, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	for _, key := range requiredFields {
		if !md.IsDefined(key...) {
			field := strings.Join(key, ".")
			vmconfigLog.WithField("field", field).Warn("VM config misses mandatory field")
			return VMConfig{}, fmt.Errorf("%w: missing mandatory field %q", ErrInvalidConfig, field)
		}
	}

	if undecoded := md.Undecoded(); len(undecoded) != 0 {
		vmconfigLog.WithField("keys", fmt.Sprintf("%q", undecoded)).Warn("ignoring unknown configuration keys")
	}

	return config, nil
}
