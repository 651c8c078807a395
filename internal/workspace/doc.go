// Package workspace lays out and scaffolds the .kiln directory tree under an
// explicit workspace root.
package workspace
