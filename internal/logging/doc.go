// Package logging provides the structured logger used to report project
// load and save outcomes. It wraps zap with a small configuration surface
// (level and encoding) and a process default that collaborators without an
// injected logger fall back to.
package logging
