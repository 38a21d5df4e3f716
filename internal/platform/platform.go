package platform

import (
	"fmt"
	"runtime"
)

// Platform describes the host this run is provisioning: the operating system
// and CPU architecture, normalized to the spellings used by Neovim release
// assets. It is resolved once at startup and read by every later stage, so
// it is treated as immutable after Resolve returns.
type Platform struct {
	OS   string // "linux" or "darwin"
	Arch string // "x86_64" or "arm64"
}

// Release is the pinned Neovim release every bootstrap run installs.
const Release = "v0.10.4"

// assets maps a supported (OS, Arch) pair to the release asset name.
// Exactly the four supported combinations appear here; anything else is an
// unsupported platform and a terminal error.
var assets = map[Platform]string{
	{OS: "linux", Arch: "x86_64"}:  "nvim-linux-x86_64.tar.gz",
	{OS: "linux", Arch: "arm64"}:   "nvim-linux-arm64.tar.gz",
	{OS: "darwin", Arch: "x86_64"}: "nvim-macos-x86_64.tar.gz",
	{OS: "darwin", Arch: "arm64"}:  "nvim-macos-arm64.tar.gz",
}

// Resolve maps raw OS and architecture strings to a Platform. It accepts the
// spellings reported by both uname and the Go runtime (aarch64/arm64,
// x86_64/amd64) and fails with an error naming the pair for anything outside
// linux/darwin × x86_64/arm64. It has no side effects.
func Resolve(osName, arch string) (Platform, error) {
	p := Platform{OS: osName}

	switch arch {
	case "x86_64", "amd64":
		p.Arch = "x86_64"
	case "arm64", "aarch64":
		p.Arch = "arm64"
	}

	if _, ok := assets[p]; !ok {
		return Platform{}, fmt.Errorf("unsupported platform: os=%s arch=%s", osName, arch)
	}
	return p, nil
}

// Current resolves the platform the process is actually running on.
func Current() (Platform, error) {
	return Resolve(runtime.GOOS, runtime.GOARCH)
}

// AssetName returns the release archive filename for this platform.
func (p Platform) AssetName() string {
	return assets[p]
}

// DownloadURL returns the full URL of the Neovim release archive for this
// platform. Every supported platform yields a unique, non-empty URL.
func (p Platform) DownloadURL() string {
	return fmt.Sprintf("https://github.com/neovim/neovim/releases/download/%s/%s", Release, p.AssetName())
}

// FontDir returns the per-user font installation directory for this OS,
// relative to the given home directory.
func (p Platform) FontDir(home string) string {
	if p.OS == "darwin" {
		return home + "/Library/Fonts"
	}
	return home + "/.local/share/fonts"
}

func (p Platform) String() string {
	return p.OS + "/" + p.Arch
}
