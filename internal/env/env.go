package env

import (
	"os"
	"path/filepath"
)

// RootEnv names the environment variable that overrides the installation root.
const RootEnv = "TVM_BUILD_ROOT"

// InstallRoot returns the directory under which revisions are installed.
// It honors $TVM_BUILD_ROOT and otherwise falls back to ~/.tvm_build.
// The directory is not created here.
func InstallRoot() (string, error) {
	if root := os.Getenv(RootEnv); root != "" {
		return filepath.Abs(root)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".tvm_build"), nil
}
