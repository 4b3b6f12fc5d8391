// Package combine merges the contents of several text files in a
// caller-controlled order. The list supports the reorder operations a file
// picker UI needs: append with a text-only filter, move by one position,
// remove, and drag-to-position.
package combine

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"
)

// Separator is inserted between consecutive files in the combined output.
const Separator = "\n\n-----\n\n"

// ErrCombineFailed is the only error Combine reports for a failed read:
// partial output is discarded, not surfaced.
var ErrCombineFailed = errors.New("failed to combine files")

// File is one entry in the list: a display name and a way to open its
// contents. Open is invoked once per Combine call.
type File struct {
	Name string
	Open func() (io.ReadCloser, error)
}

// List is an ordered collection of text files.
type List struct {
	files []File
}

// NewList builds an empty list.
func NewList() *List {
	return &List{}
}

// Add appends files in the given order, skipping anything that is not a text
// file. The skipped names are returned so the caller can warn about them.
func (l *List) Add(files ...File) (skipped []string) {
	for _, f := range files {
		if !IsTextFile(f.Name) {
			skipped = append(skipped, f.Name)
			continue
		}
		l.files = append(l.files, f)
	}
	return skipped
}

// Len returns the number of files in the list.
func (l *List) Len() int {
	return len(l.files)
}

// Names returns the file names in list order.
func (l *List) Names() []string {
	names := make([]string, len(l.files))
	for i, f := range l.files {
		names[i] = f.Name
	}
	return names
}

// MoveUp swaps the element at i with its predecessor.
func (l *List) MoveUp(i int) bool {
	if i <= 0 || i >= len(l.files) {
		return false
	}
	l.files[i-1], l.files[i] = l.files[i], l.files[i-1]
	return true
}

// MoveDown swaps the element at i with its successor.
func (l *List) MoveDown(i int) bool {
	if i < 0 || i >= len(l.files)-1 {
		return false
	}
	l.files[i], l.files[i+1] = l.files[i+1], l.files[i]
	return true
}

// Remove deletes the element at i.
func (l *List) Remove(i int) bool {
	if i < 0 || i >= len(l.files) {
		return false
	}
	l.files = append(l.files[:i], l.files[i+1:]...)
	return true
}

// MoveTo implements drag semantics: the element at from is removed from its
// slot and reinserted at to, shifting the elements in between.
func (l *List) MoveTo(from, to int) bool {
	if from < 0 || from >= len(l.files) || to < 0 || to >= len(l.files) {
		return false
	}
	if from == to {
		return true
	}
	moved := l.files[from]
	rest := append(l.files[:from:from], l.files[from+1:]...)
	l.files = append(rest[:to:to], append([]File{moved}, rest[to:]...)...)
	return true
}

// Combine reads every file in list order and joins their contents with
// Separator. Reads are sequential on purpose: the user-specified order is the
// whole point. Any read failure aborts the combination and discards what was
// read so far.
func (l *List) Combine(ctx context.Context) (string, error) {
	var sb strings.Builder
	for i, f := range l.files {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		content, err := readAll(f)
		if err != nil {
			return "", ErrCombineFailed
		}
		if i > 0 {
			sb.WriteString(Separator)
		}
		sb.WriteString(content)
	}
	return sb.String(), nil
}

func readAll(f File) (string, error) {
	if f.Open == nil {
		return "", errors.New("file has no opener")
	}
	rc, err := f.Open()
	if err != nil {
		return "", err
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// IsTextFile reports whether a file name looks like a text file.
func IsTextFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".txt", ".text", ".md", ".log":
		return true
	default:
		return false
	}
}
