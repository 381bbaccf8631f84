// pkg/version/version.go - build information for the menu binaries.

package version

import (
	"fmt"
	"io"
	"runtime/debug"
	"strings"
)

// Set with -ldflags "-X github.com/sdporres/wdssupermenu/pkg/version.version=1.2.0".
var (
	version   = "dev"
	revision  = "unknown"
	buildDate = "unknown"
	appName   = "wdsmenu"
)

// fallbackVersion is compared against releases when no version was stamped.
const fallbackVersion = "0.0.0"

// Info is a structure with version build information about the current application.
type Info struct {
	Version   string `json:"version"`
	Revision  string `json:"revision"`
	GoVersion string `json:"go_version"`
	BuildDate string `json:"build_date"`
}

// Version returns the build information of the running binary.
func Version() Info {
	info := Info{
		Version:   version,
		Revision:  revision,
		BuildDate: buildDate,
		GoVersion: "unknown",
	}
	if bi, ok := debug.ReadBuildInfo(); ok {
		info.GoVersion = bi.GoVersion
		if info.Revision == "unknown" {
			for _, s := range bi.Settings {
				if s.Key == "vcs.revision" {
					info.Revision = s.Value
				}
			}
		}
	}
	return info
}

// Current returns the version to compare against published releases.
func Current() string {
	v := strings.TrimSpace(version)
	if v == "" || v == "dev" || v == "unknown" {
		return fallbackVersion
	}
	return v
}

// Print writes the application name and version.
func Print(w io.Writer) {
	fmt.Fprintf(w, "%s %s\n", appName, Version().Version)
}

// PrintFull writes the application name and detailed version information.
func PrintFull(w io.Writer) {
	v := Version()
	fmt.Fprintf(w, "%s %s\n", appName, v.Version)
	fmt.Fprintf(w, "  revision: \t%s\n", v.Revision)
	fmt.Fprintf(w, "  build date: \t%s\n", v.BuildDate)
	fmt.Fprintf(w, "  go version: \t%s\n", v.GoVersion)
}
