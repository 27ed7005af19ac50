// Copyright (c) 2024 The axvmconfig Authors
//
// SPDX-License-Identifier: Apache-2.0
//

package main

import (
	"fmt"
	"os"
)

// exitFunc terminates the process; the tests replace it to capture the exit
// status instead of dying.
var exitFunc = os.Exit

// exit ends the process with the given status.
func exit(status int) {
	exitFunc(status)
}

// handlePanic turns an internal panic into a logged fatal error rather than
// a bare crash.
func handlePanic() {
	r := recover()

	if r != nil {
		msg := fmt.Sprintf("%s", r)
		axvmLog.WithField("panic", msg).Error("fatal error")

		fmt.Fprintln(defaultErrorFile, msg)
		exit(1)
	}
}
