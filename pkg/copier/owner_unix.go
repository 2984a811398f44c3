//go:build unix

package copier

import (
	"os"
	"syscall"
)

// SysOwner reads the owning uid from the platform stat structure.
func SysOwner(_ string, info os.FileInfo) (int, bool) {
	st, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return 0, false
	}
	return int(st.Uid), true
}

func fileIdentFromSys(info os.FileInfo) (fileIdent, bool) {
	st, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return fileIdent{}, false
	}
	// Dev is int32 on darwin.
	return fileIdent{dev: uint64(st.Dev), inode: uint64(st.Ino)}, true
}
