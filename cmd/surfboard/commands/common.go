package commands

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/lushwind/surfboard/internal/display"
	"github.com/lushwind/surfboard/internal/installer"
	"github.com/lushwind/surfboard/internal/lock"
	"github.com/lushwind/surfboard/internal/sysintegration"
)

// jsonTool is the JSON query utility the install procedure guarantees on
// the host, so operators can inspect release metadata and the journal by
// hand. It is installed via the system package manager when missing.
const jsonTool = "jq"

// confirmAction prompts the user for confirmation unless skipConfirm is true.
// Returns true if the user confirms, false otherwise.
func confirmAction(prompt string, skipConfirm bool) (bool, error) {
	if skipConfirm {
		return true, nil
	}

	fmt.Printf("%s\nAre you sure? [y/N]: ", prompt)

	reader := bufio.NewReader(os.Stdin)
	response, err := reader.ReadString('\n')
	if err != nil {
		return false, fmt.Errorf("read response: %w", err)
	}

	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes", nil
}

// requireElevated stops commands that mutate the system when the process
// lacks root, printing remediation guidance.
func requireElevated() error {
	if sysintegration.Elevated() {
		return nil
	}

	fmt.Print(display.NotElevatedError())

	return errors.New("root privileges required")
}

// acquireRunLock takes the advisory single-run lock. It fails fast instead
// of queueing: overlapping runs would race on the same install tree.
func acquireRunLock() (*lock.FileLock, error) {
	fl := lock.New(cfg.Paths.LockPath())

	held, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire run lock: %w", err)
	}
	if !held {
		return nil, errors.New("another surfboard run is in progress")
	}

	return fl, nil
}

// buildInstaller wires an installer from the loaded config and a probed
// system integration, honoring the global quiet flag.
func buildInstaller(sys sysintegration.Integration, opts installer.Options) *installer.Installer {
	inst := installer.New(cfg.Paths, sys, cfg.MetadataURL, opts)
	if quiet {
		inst.SetOutput(io.Discard)
	}

	return inst
}

// RunWithSpinner runs the given function with a spinner in non-verbose mode.
// In verbose mode, it prints the start message and runs the function directly.
func RunWithSpinner(verbose bool, startMsg, spinnerMsg, successMsg string, fn func() error) error {
	if verbose {
		fmt.Println(display.InfoMsg("%s", startMsg))
		err := fn()
		if err == nil {
			fmt.Println(display.SuccessMsg("%s", successMsg))
		}
		return err
	}

	spinner := display.NewSpinner(spinnerMsg)
	spinner.Start()
	err := fn()
	if err != nil {
		spinner.StopWithError("Operation failed")
	} else {
		spinner.StopWithSuccess(successMsg)
	}
	return err
}
