// Package fetch resolves dependency coordinates into classpath strings via
// an external coursier-compatible resolver.
package fetch
