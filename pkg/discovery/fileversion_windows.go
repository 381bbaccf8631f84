//go:build windows

package discovery

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/windows"
)

// ExecutableVersion reads the fixed file version resource of an executable.
func ExecutableVersion(exePath string) (string, error) {
	var zero windows.Handle
	size, err := windows.GetFileVersionInfoSize(exePath, &zero)
	if err != nil {
		return "", fmt.Errorf("GetFileVersionInfoSize failed for %s: %w", exePath, err)
	}
	if size == 0 {
		return "", fmt.Errorf("no version resource in %s", exePath)
	}

	info := make([]byte, size)
	if err := windows.GetFileVersionInfo(exePath, 0, size, unsafe.Pointer(&info[0])); err != nil {
		return "", fmt.Errorf("GetFileVersionInfo failed for %s: %w", exePath, err)
	}

	var fixed *windows.VS_FIXEDFILEINFO
	var fixedLen uint32
	if err := windows.VerQueryValue(unsafe.Pointer(&info[0]), `\`, unsafe.Pointer(&fixed), &fixedLen); err != nil {
		return "", fmt.Errorf("VerQueryValue failed for %s: %w", exePath, err)
	}
	if fixed == nil || fixedLen == 0 {
		return "", fmt.Errorf("empty version resource in %s", exePath)
	}

	major := fixed.FileVersionMS >> 16
	minor := fixed.FileVersionMS & 0xffff
	build := fixed.FileVersionLS >> 16
	return fmt.Sprintf("%d.%02d.%d", major, minor, build), nil
}
