//go:build windows

package runner

import "os/exec"

// configureProcessGroup relies on the default cancellation, which kills the
// direct child only.
func configureProcessGroup(cmd *exec.Cmd) {}
