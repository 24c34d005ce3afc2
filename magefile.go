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
	mg.Deps(BuildReconstructor)
	fmt.Println("Compilation finished")
	return nil
}

// The writer links against libhdf5, flags are taken from the environment
func cgoEnv() []string {
	return append(os.Environ(),
		"CGO_ENABLED=1",
		fmt.Sprintf("CGO_LDFLAGS=%s", os.Getenv("CGO_LDFLAGS")),
		fmt.Sprintf("CGO_CFLAGS=%s", os.Getenv("CGO_CFLAGS")))
}

func BuildReconstructor() error {
	fmt.Println("Building reconstructor executable...")
	cmd := exec.Command("go", "build", "-o", "./bin/reconstructor", "./reconstructor")
	cmd.Env = cgoEnv()
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

// Test runs the unit tests that do not need libhdf5.
func Test() error {
	cmd := exec.Command("go", "test", "./pkg")
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

func TestHDF5() error {
	cmd := exec.Command("go", "test", "-tags", "hdf5", "./pkg/writer", "./reconstructor")
	cmd.Env = cgoEnv()
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}
