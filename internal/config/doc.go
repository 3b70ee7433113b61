// Package config manages user-level settings stored at ~/.wtproj/config.yaml:
// the log level and encoding, and the last project file that was loaded so
// commands can default to it.
package config
