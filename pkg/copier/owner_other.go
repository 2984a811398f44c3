//go:build !unix

package copier

import "os"

// SysOwner always fails: ownership is only known on unix systems, so no entry
// is eligible elsewhere.
func SysOwner(_ string, _ os.FileInfo) (int, bool) {
	return 0, false
}

func fileIdentFromSys(_ os.FileInfo) (fileIdent, bool) {
	return fileIdent{}, false
}
