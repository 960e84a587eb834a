package util

import (
	"path"
	"strings"
)

// NormalizeKey turns a system or rom name into a table key.
func NormalizeKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// RomName returns the file name of a rom path. Both slash styles are
// accepted since hook arguments sometimes come from Windows front ends.
func RomName(romPath string) string {
	romPath = strings.TrimSpace(romPath)
	if romPath == "" {
		return ""
	}
	name := path.Base(strings.ReplaceAll(romPath, `\`, "/"))
	if name == "." || name == "/" {
		return ""
	}
	return name
}

// RomKey is NormalizeKey applied to the file name of romPath.
func RomKey(romPath string) string {
	return NormalizeKey(RomName(romPath))
}
