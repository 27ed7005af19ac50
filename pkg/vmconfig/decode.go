// Copyright (c) 2024 The axvmconfig Authors
//
// SPDX-License-Identifier: Apache-2.0
//

package vmconfig

import (
	"github.com/pkg/errors"
)

// Helpers for decoding the compact array-of-tuples encoding used by the
// memory region and device sequences. The TOML decoder hands every element
// over as an untyped value: integers arrive as int64, strings as string and
// nested arrays as []interface{}.

func tomlUint64(v interface{}, what string) (uint64, error) {
	i, ok := v.(int64)
	if !ok {
		return 0, errors.Errorf("%s: expected integer, got %T", what, v)
	}

	if i < 0 {
		return 0, errors.Errorf("%s: negative value %d", what, i)
	}

	return uint64(i), nil
}

func tomlString(v interface{}, what string) (string, error) {
	s, ok := v.(string)
	if !ok {
		return "", errors.Errorf("%s: expected string, got %T", what, v)
	}

	return s, nil
}

func tomlUint64Slice(v interface{}, what string) ([]uint64, error) {
	raw, ok := v.([]interface{})
	if !ok {
		return nil, errors.Errorf("%s: expected array, got %T", what, v)
	}

	values := make([]uint64, len(raw))
	for i, elem := range raw {
		u, err := tomlUint64(elem, what)
		if err != nil {
			return nil, err
		}
		values[i] = u
	}

	return values, nil
}
