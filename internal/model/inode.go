package model

import (
	"fmt"
	"os"
	"syscall"
)

// Inode is an opaque, stable identifier for a filesystem object across
// renames within a single device. It is used only as a map key; never
// compared for order.
//
// Like the original suprenam (macOS/Linux only, see the OS table in
// default_editor.py), this is a POSIX inode number — Windows NTFS file IDs
// are not supported.
type Inode uint64

// InodeOf extracts the inode number from a FileInfo obtained via a POSIX
// stat call. It returns false if the platform's FileInfo.Sys() does not
// expose a *syscall.Stat_t (e.g. when running against a non-POSIX
// filesystem shim in tests).
func InodeOf(fi os.FileInfo) (Inode, bool) {
	stat, ok := fi.Sys().(*syscall.Stat_t)
	if !ok {
		return 0, false
	}
	return Inode(stat.Ino), true
}

// String renders the inode as a decimal string, the form used in journal
// records.
func (i Inode) String() string {
	return fmt.Sprintf("%d", uint64(i))
}
