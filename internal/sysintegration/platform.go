package sysintegration

import (
	"context"
	"fmt"
	"runtime"
	"strings"

	"github.com/shirou/gopsutil/v4/host"
)

// Linux distribution families, for status reporting.
const (
	FamilyDebian  = "debian"
	FamilyRHEL    = "rhel"
	FamilyArch    = "arch"
	FamilyUnknown = "unknown"
)

// familyMap normalizes gopsutil family strings to a canonical family name.
var familyMap = map[string]string{
	"debian":  FamilyDebian,
	"ubuntu":  FamilyDebian,
	"rhel":    FamilyRHEL,
	"centos":  FamilyRHEL,
	"rocky":   FamilyRHEL,
	"fedora":  FamilyRHEL,
	"arch":    FamilyArch,
	"manjaro": FamilyArch,
}

// Platform describes the host for status reporting.
type Platform struct {
	OS      string // "linux"
	Arch    string // GOARCH
	Distro  string // distro ID (e.g. "ubuntu"), empty when detection fails
	Family  string // canonical family (debian, rhel, arch, unknown)
	Version string // distro version (e.g. "24.04")
}

// DetectPlatform reports OS, architecture and Linux distribution details.
// Distribution detection failures are not fatal; the distro fields simply
// stay empty.
func DetectPlatform(ctx context.Context) (Platform, error) {
	p := Platform{
		OS:   runtime.GOOS,
		Arch: runtime.GOARCH,
	}

	if runtime.GOOS != "linux" {
		return p, nil
	}

	distro, family, version, err := host.PlatformInformationWithContext(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return Platform{}, fmt.Errorf("platform detection cancelled: %w", ctx.Err())
		}
		// OS and arch are still usable without distro details
		return p, nil
	}

	distro = strings.ToLower(strings.TrimSpace(distro))
	if distro != "" {
		p.Distro = distro
		p.Family = mapFamily(family)
		p.Version = strings.TrimSpace(version)
	}

	return p, nil
}

// mapFamily maps a gopsutil family string to a canonical family name.
func mapFamily(family string) string {
	if canonical, ok := familyMap[strings.ToLower(strings.TrimSpace(family))]; ok {
		return canonical
	}

	return FamilyUnknown
}

// String renders the platform as a single status line.
func (p Platform) String() string {
	base := p.OS + "/" + p.Arch
	switch {
	case p.Distro == "":
		return base
	case p.Version == "":
		return fmt.Sprintf("%s (%s)", base, p.Distro)
	default:
		return fmt.Sprintf("%s (%s %s)", base, p.Distro, p.Version)
	}
}
