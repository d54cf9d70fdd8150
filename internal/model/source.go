// Package model defines the value types shared by the coverage core, the
// instrumentor and the adapters.
package model

// Path represents a file system path.
type Path string

// File is a file on disk together with its content fingerprint.
type File struct {
	Path Path
	Hash string
}

// Source is a Go file selected for instrumentation.
type Source struct {
	Origin  *File
	Package string
	// Main is true for files of package main; the instrumentor can inject a
	// coverage flush into their main function.
	Main bool
}

// InstrumentedFile summarizes the outcome of instrumenting one Source.
type InstrumentedFile struct {
	Source     Source
	Output     Path
	Statements int
	Functions  int
	Branches   int
	// Ignored is set when the whole file carried an ignore-file hint.
	Ignored bool
	Diff    string
}
