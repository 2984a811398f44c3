// Package fileutil provides file-related utility functions and constants.
package fileutil

// Standard file permission constants
const (
	// ReadWriteUserPermission represents read/write permissions for the file owner only (0600 in octal)
	ReadWriteUserPermission = 0o600
	// ReadWriteExecuteUserPermission represents rwx for the owner only (0700 in octal)
	ReadWriteExecuteUserPermission = 0o700
	// ReadWriteUserReadOthers represents read/write for owner, read for others (0644 in octal)
	ReadWriteUserReadOthers = 0o644
	// ReadWriteExecuteUserReadExecuteOthers represents rwx for owner, r-x for group and others (0755 in octal)
	ReadWriteExecuteUserReadExecuteOthers = 0o755
	// ReadWriteExecuteUserGroup represents rwx for owner and group, nothing for others (0770 in octal)
	ReadWriteExecuteUserGroup = 0o770
	// ReadWriteUserGroup represents read/write for owner and group, nothing for others (0660 in octal)
	ReadWriteUserGroup = 0o660
)
