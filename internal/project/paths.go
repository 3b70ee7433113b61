package project

import "path/filepath"

// resolveDir derives the project directory for SetParameters: the containing
// directory when path names an existing regular file, otherwise path itself.
func (s *State) resolveDir(path string) string {
	info, err := s.fs.Stat(path)
	if err == nil && info.Mode().IsRegular() {
		return filepath.Dir(absPath(path))
	}
	return path
}

// absPath makes path absolute, leaving it unchanged if the working directory
// cannot be determined.
func absPath(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return abs
}
