// SPDX-License-Identifier: MPL-2.0

package hashlog

import (
	"fmt"
	"os"
	"path/filepath"
)

// Find locates a .hashlog starting at start. A regular file is returned as
// is; for a directory the search checks dir/.hashlog and then every parent
// directory up to the filesystem root.
func Find(start string) (string, error) {
	abs, err := filepath.Abs(start)
	if err != nil {
		return "", err
	}

	info, err := os.Stat(abs)
	if err != nil {
		return "", err
	}
	if info.Mode().IsRegular() {
		return abs, nil
	}

	for dir := abs; ; {
		candidate := filepath.Join(dir, FileName)
		if fi, statErr := os.Stat(candidate); statErr == nil && fi.Mode().IsRegular() {
			return candidate, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", fmt.Errorf("%w in %s or any parent directory", ErrNotFound, abs)
}
