//go:build !windows

package discovery

// ExecutableVersion needs the Windows version resource API; elsewhere no
// version is reported.
func ExecutableVersion(exePath string) (string, error) {
	return "", nil
}
