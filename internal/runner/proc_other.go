//go:build !unix

package runner

import (
	"os/exec"
	"time"
)

// setProcessGroup falls back to plain context cancellation where process
// groups are unavailable. Direct children are still killed on timeout;
// grandchildren may survive.
func setProcessGroup(cmd *exec.Cmd) {
	cmd.WaitDelay = 2 * time.Second
}
