//go:build !linux && !darwin

package sfmm

import "github.com/pkg/errors"

func sendAbortSignal(pid int) error {
	return errors.New("sfmm: no abort signal available on this platform")
}
