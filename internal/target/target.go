// Package target describes the machine a TVM build is configured for.
package target

import (
	"fmt"
	"runtime"
)

// Define is a platform-mandated CMake cache entry.
type Define struct {
	Key   string
	Value string
}

// Descriptor holds all target specific information needed to run CMake.
type Descriptor struct {
	Host    string   // CMake system name of the build machine, e.g. "Darwin"
	Triple  string   // target triple, e.g. "arm64-apple-darwin20.3.0"
	Defines []Define // extra platform defines, in emission order
}

// Platform carries the raw machine facts a Descriptor is derived from.
type Platform struct {
	OS      string // runtime.GOOS spelling
	Arch    string // runtime.GOARCH spelling
	Release string // kernel release, as reported by uname -r
}

// UnsupportedPlatformError is returned for operating systems no build
// configuration is known for.
type UnsupportedPlatformError struct {
	OS string
}

func (e *UnsupportedPlatformError) Error() string {
	return fmt.Sprintf("platform %s unsupported, please check the issue tracker", e.OS)
}

// Local returns the Platform of the running machine.
func Local() Platform {
	return Platform{
		OS:      runtime.GOOS,
		Arch:    runtime.GOARCH,
		Release: kernelRelease(),
	}
}

// Resolve returns the Descriptor for the running machine.
func Resolve() (Descriptor, error) {
	return ResolveFor(Local())
}

// ResolveFor maps p to a Descriptor.
func ResolveFor(p Platform) (Descriptor, error) {
	switch p.OS {
	case "darwin":
		arch := darwinArch(p.Arch)
		return Descriptor{
			Host:   "Darwin",
			Triple: arch + "-apple-darwin" + p.Release,
			Defines: []Define{
				{Key: "CMAKE_OSX_ARCHITECTURES", Value: arch},
			},
		}, nil
	case "linux":
		return Descriptor{
			Host:   "Linux",
			Triple: linuxArch(p.Arch) + "-unknown-linux-gnu",
		}, nil
	}
	return Descriptor{}, &UnsupportedPlatformError{OS: p.OS}
}

func darwinArch(goarch string) string {
	switch goarch {
	case "amd64":
		return "x86_64"
	case "arm64":
		return "arm64"
	}
	return goarch
}

func linuxArch(goarch string) string {
	switch goarch {
	case "amd64":
		return "x86_64"
	case "arm64":
		return "aarch64"
	case "386":
		return "i686"
	case "ppc64le":
		return "powerpc64le"
	}
	// riscv64, s390x and friends are spelled the same.
	return goarch
}
