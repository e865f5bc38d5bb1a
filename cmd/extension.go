package cmd

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strconv"
)

// Environment variables passed to extensions.
const (
	EnvConfig  = "MOM_CONFIG"
	EnvVerbose = "MOM_VERBOSE"
)

// ExtensionPrefix is the prefix of external subcommand binaries.
const ExtensionPrefix = "mom-"

// RunExtension attempts to find and execute an external mom-<subcommand> binary.
// It returns (true, exitCode) if an extension was found and executed,
// and (false, 0) if no extension was found.
func RunExtension(subcommand string, args []string) (bool, int) {
	lp, err := exec.LookPath(ExtensionPrefix + subcommand)
	if err != nil {
		return false, 0
	}

	cmd := exec.Command(lp, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Env = extensionEnv(os.Environ())

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return true, exitErr.ExitCode()
		}
		fmt.Fprintf(os.Stderr, "Error executing external command %q: %v\n", lp, err)
		return true, 1
	}
	return true, 0
}

// extensionEnv returns env with the global flags appended.
func extensionEnv(env []string) []string {
	return append(env,
		EnvConfig+"="+*configFile,
		EnvVerbose+"="+strconv.FormatBool(*Verbose),
	)
}
