//go:build linux || darwin

package copier

import "syscall"

func mkfifo(path string) error {
	return syscall.Mkfifo(path, 0o600)
}
