//go:build !linux && !darwin

package copier

import "errors"

func mkfifo(string) error {
	return errors.New("fifos are not supported on this platform")
}
