//go:build !windows

package adapters

import "os/exec"

// hideWindow is a no-op outside Windows; nothing spawns a console there
func hideWindow(cmd *exec.Cmd) {}
