// Package mmap maps record files into memory for zero-copy sequential scans.
//
// Large line-oriented corpora (one post or document per line) are read once,
// front to back. Mapping the file and advising the kernel of sequential access
// avoids copying every byte through a read buffer before it is shingled.
//
//	m, err := mmap.Open("posts.txt")
//	if err != nil { ... }
//	defer m.Close()
//
//	_ = m.Advise(mmap.AccessSequential)
//	r := m.Reader() // io.Reader over the mapped bytes
//
// Unix platforms use mmap(2)/madvise(2) via golang.org/x/sys/unix; Windows uses
// CreateFileMapping/MapViewOfFile and treats Advise as a no-op.
//
// Bytes returned by a Mapping are valid only until Close.
package mmap
