// Copyright (c) 2024 The axvmconfig Authors
//
// SPDX-License-Identifier: Apache-2.0
//

package vmconfig

import (
	"github.com/sirupsen/logrus"
)

// vmconfigLog is the logger used to record all schema diagnostics, most
// notably the unknown-code fallbacks and parse failures.
var vmconfigLog = logrus.WithField("source", "vmconfig")

// SetLogger sets up the logger for the vmconfig package. Callers (and tests)
// inject their own entry here so diagnostics end up on their logging pipeline
// instead of the process-wide default.
func SetLogger(logger *logrus.Entry) {
	fields := vmconfigLog.Data

	vmconfigLog = logger.WithFields(fields)
}
