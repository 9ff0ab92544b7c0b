package installer

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/bvm-cli/bvm/src/internal/apperr"
	"github.com/bvm-cli/bvm/src/internal/constants"
	"github.com/bvm-cli/bvm/src/internal/version"
)

// Platform is an OS and CPU architecture pair in GOOS/GOARCH terms
type Platform struct {
	OS   string
	Arch string
}

// HostPlatform returns the platform bvm is running on
func HostPlatform() Platform {
	return Platform{OS: runtime.GOOS, Arch: runtime.GOARCH}
}

func (p Platform) String() string {
	return p.OS + "/" + p.Arch
}

// releaseOS maps GOOS to the OS names used in release asset names
var releaseOS = map[string]string{
	constants.OSDarwin:  "darwin",
	constants.OSLinux:   "linux",
	constants.OSWindows: "windows",
}

// releaseArch maps GOARCH to the architecture names used in release asset names
var releaseArch = map[string]string{
	constants.ArchAMD64: "x64",
	constants.ArchARM64: "aarch64",
}

// AssetName returns the release archive name for p, e.g. bun-linux-x64.zip.
// Unsupported combinations are Fatal.
func (p Platform) AssetName() (string, error) {
	osName, ok := releaseOS[p.OS]
	if !ok {
		return "", apperr.Fatal("locating", fmt.Errorf("unsupported operating system: %s", p.OS))
	}
	arch, ok := releaseArch[p.Arch]
	if !ok {
		return "", apperr.Fatal("locating", fmt.Errorf("unsupported architecture: %s", p.Arch))
	}
	return fmt.Sprintf("bun-%s-%s.zip", osName, arch), nil
}

// DownloadURL returns where the release archive for v on p is published
func DownloadURL(baseURL, v string, p Platform) (string, error) {
	asset, err := p.AssetName()
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s/%s%s/%s", strings.TrimRight(baseURL, "/"), version.TagPrefix, version.Normalize(v), asset), nil
}
