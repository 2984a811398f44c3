package a

import "os"

func modes(f *os.File) {
	_ = os.WriteFile("x", nil, 0o600) // want `use a file permission constant like 'fileutil.ReadWriteUserPermission' instead of hardcoded '0o600'`
	_ = os.WriteFile("x", nil, 0600)  // want `fileutil.ReadWriteUserPermission`
	_ = os.Chmod("x", 0o755)          // want `fileutil.ReadWriteExecuteUserReadExecuteOthers`
	_ = f.Chmod(0o644)                // want `fileutil.ReadWriteUserReadOthers`
	_ = os.MkdirAll("d", 0o770)       // want `fileutil.ReadWriteExecuteUserGroup`

	_, _ = os.OpenFile("x", os.O_CREATE, 0o660) // want `fileutil.ReadWriteUserGroup`

	_ = os.Mkdir("d", 0o700) // want `fileutil.ReadWriteExecuteUserPermission`

	_ = os.Chmod("x", 0o705)
	_ = os.Mkdir("d", os.ModePerm)
	mode := os.FileMode(0o600)
	_ = os.Chmod("x", mode)
}
