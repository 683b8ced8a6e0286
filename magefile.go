//go:build mage
// +build mage

package main

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/magefile/mage/mg"
)

// Default target to run when none is specified
// If not set, running mage will list available targets
var Default = Build

func Build() error {
	mg.Deps(BuildAnalyzer)
	mg.Deps(BuildNoiseScan)
	fmt.Println("Compilation finished")
	return nil
}

// cgo environment needed by the HDF5 bindings
func cgoEnv() []string {
	return append(os.Environ(),
		"CGO_ENABLED=1",
		fmt.Sprintf("CGO_LDFLAGS=%s", os.Getenv("CGO_LDFLAGS")),
		fmt.Sprintf("CGO_CFLAGS=%s", os.Getenv("CGO_CFLAGS")))
}

func goCommand(args ...string) error {
	cmd := exec.Command("go", args...)
	cmd.Env = cgoEnv()
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

func BuildAnalyzer() error {
	fmt.Println("Building analyzer executable...")
	return goCommand("build", "-o", "./bin/analyzer", "./analyzer")
}

func BuildNoiseScan() error {
	fmt.Println("Building noiseScan executable...")
	return goCommand("build", "-o", "./bin/noiseScan", "./noiseScan")
}

// Test runs the unit tests of the analysis package, which need no HDF5.
func Test() error {
	fmt.Println("Running tests...")
	return goCommand("test", "./pkg/")
}

// TestAll also runs the tests of the HDF5 store and the commands.
func TestAll() error {
	fmt.Println("Running all tests...")
	return goCommand("test", "./...")
}
