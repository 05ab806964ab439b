//go:build !darwin && !linux

package target

func kernelRelease() string {
	return ""
}
