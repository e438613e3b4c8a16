package table

import (
	"os"
	"path/filepath"
)

// Locate resolves a data file name. Absolute paths are returned unchanged.
// Relative names are looked up next to the running executable first, then
// in the working directory. When neither exists the executable-relative
// path is returned so the eventual open error names the expected location.
func Locate(name string) string {
	if filepath.IsAbs(name) {
		return name
	}

	var candidates []string
	if exe, err := os.Executable(); err == nil {
		if resolved, err := filepath.EvalSymlinks(exe); err == nil {
			exe = resolved
		}
		candidates = append(candidates, filepath.Join(filepath.Dir(exe), name))
	}
	if wd, err := os.Getwd(); err == nil {
		candidates = append(candidates, filepath.Join(wd, name))
	}

	return firstExisting(candidates, name)
}

func firstExisting(candidates []string, fallback string) string {
	for _, c := range candidates {
		if info, err := os.Stat(c); err == nil && !info.IsDir() {
			return c
		}
	}
	if len(candidates) > 0 {
		return candidates[0]
	}
	return fallback
}
