// Package fs abstracts the filesystem operations used by the file storage
// backend so tests can inject I/O failures.
//
//   - [LocalFS]: production implementation on top of package os
//   - [FaultyFS]: wrapper that fails writes, seeks or closes on demand
//
// Production code uses fs.Default:
//
//	f, err := fs.Default.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o644)
//
// Tests wrap it to exercise error paths:
//
//	ffs := fs.NewFaultyFS(nil)
//	ffs.AddRule("data_index", fs.Fault{FailAfterBytes: 16})
package fs
