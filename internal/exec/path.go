package exec

import (
	"os"
	"os/exec"
	"path/filepath"
)

// vendorBinPaths are where GPU tools and ping live when they are not on PATH,
// as happens under WSL, minimal containers and ROCm installs.
var vendorBinPaths = []string{
	"/usr/lib/wsl/lib",
	"/usr/local/nvidia/bin",
	"/opt/rocm/bin",
	"/usr/sbin",
	"/sbin",
	"/usr/bin",
	"/bin",
}

// LookPath finds cmd on PATH, then in vendorBinPaths.
func LookPath(cmd string) (string, bool) {
	return lookPath(cmd, vendorBinPaths)
}

func lookPath(cmd string, extra []string) (string, bool) {
	if p, err := exec.LookPath(cmd); err == nil {
		return p, true
	}
	for _, dir := range extra {
		p := filepath.Join(dir, cmd)
		if isExecutable(p) {
			return p, true
		}
	}
	return "", false
}

func isExecutable(path string) bool {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return false
	}
	return info.Mode()&0o111 != 0
}
