//go:build linux || darwin

package sfmm

import "golang.org/x/sys/unix"

func sendAbortSignal(pid int) error {
	return unix.Kill(pid, unix.SIGABRT)
}
