// Copyright (c) 2024 The axvmconfig Authors
//
// SPDX-License-Identifier: Apache-2.0
//

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli"

	"github.com/bullhh/axvmconfig/pkg/vmconfig"
)

// name holds the name of this program.
const name = "axvmconfig"

const project = "ArceOS-Hypervisor"

// version is the tool version. It is overridden at build time.
var version = "0.1.0"

// commit is the git commit the tool is compiled from. It is overridden at
// build time.
var commit = ""

const unknown = "<<unknown>>"

var usage = fmt.Sprintf(`%s is a simple VM configuration tool for %s.

It checks VM configuration files for validity and generates configuration
templates the hypervisor can consume.`, name, project)

// axvmLog is the logger used to record all messages.
var axvmLog *logrus.Entry

// defaultOutputFile is the default output file to write the gathered
// information to.
var defaultOutputFile = os.Stdout

// defaultErrorFile is the default output file to write error
// messages to.
var defaultErrorFile = os.Stderr

// toolFlags is the list of supported global command-line flags.
var toolFlags = []cli.Flag{
	cli.StringFlag{
		Name:  "log-format",
		Value: "text",
		Usage: "set the format used by logs ('text' (default), or 'json')",
	},
	cli.BoolFlag{
		Name:  "debug",
		Usage: "enable debug output",
	},
}

// toolCommands is the list of supported command-line (sub-) commands.
var toolCommands = []cli.Command{
	checkCLICommand,
	generateCLICommand,
}

func init() {
	axvmLog = logrus.WithFields(logrus.Fields{
		"name":   name,
		"source": "tool",
		"pid":    os.Getpid(),
	})

	axvmLog.Logger.SetOutput(defaultErrorFile)
}

// beforeSubcommands is the function to perform preliminary checks
// before command-line parsing occurs.
func beforeSubcommands(c *cli.Context) error {
	switch c.GlobalString("log-format") {
	case "text":
		// retain logrus's default.
	case "json":
		axvmLog.Logger.Formatter = new(logrus.JSONFormatter)
	default:
		return fmt.Errorf("unknown log-format %q", c.GlobalString("log-format"))
	}

	if c.GlobalBool("debug") {
		axvmLog.Logger.Level = logrus.DebugLevel
	}

	// Add the name of the sub-command to each log entry for easier
	// debugging.
	cmdName := c.Args().First()
	if c.App.Command(cmdName) != nil {
		axvmLog = axvmLog.WithField("command", cmdName)
	}

	// Route the schema package's diagnostics through the tool logger.
	vmconfig.SetLogger(axvmLog)

	return nil
}

// makeVersionString returns a multi-line string describing the tool version.
func makeVersionString() string {
	v := make([]string, 0, 2)

	versionStr := version
	if versionStr == "" {
		versionStr = unknown
	}

	v = append(v, name+" : "+versionStr)

	commitStr := commit
	if commitStr == "" {
		commitStr = unknown
	}

	v = append(v, "   commit: "+commitStr)

	return strings.Join(v, "\n")
}

// createToolApp creates an application to process the command-line arguments
// and invoke the requested command.
func createToolApp(args []string) error {
	app := cli.NewApp()

	app.Name = name
	app.Writer = defaultOutputFile
	app.Usage = usage
	app.Version = makeVersionString()
	app.Flags = toolFlags
	app.Commands = toolCommands
	app.Before = beforeSubcommands
	app.EnableBashCompletion = true

	return app.Run(args)
}

// fatal prints the error's details then exits the program.
func fatal(err error) {
	axvmLog.Error(err)
	fmt.Fprintln(defaultErrorFile, err)
	exit(1)
}

func main() {
	defer handlePanic()

	if err := createToolApp(os.Args); err != nil {
		fatal(err)
	}
}
