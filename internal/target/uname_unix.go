//go:build darwin || linux

package target

import "golang.org/x/sys/unix"

// kernelRelease reports uname -r, or "" if it cannot be read.
func kernelRelease() string {
	var uts unix.Utsname
	if err := unix.Uname(&uts); err != nil {
		return ""
	}
	return unix.ByteSliceToString(uts.Release[:])
}
