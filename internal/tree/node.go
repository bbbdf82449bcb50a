// Package tree builds an in-memory view of the files selected from a project root.
package tree

import (
	"path/filepath"
	"strings"
)

const (
	// rootRelativePath is how the root directory renders relative to itself.
	rootRelativePath = "."
	// slashSeparator joins segments for display independent of the host.
	slashSeparator = "/"
)

// FileNode is a single included file.
type FileNode struct {
	AbsolutePath string
	Segments     []string
}

// Name returns the last path segment of the file.
func (node *FileNode) Name() string {
	if len(node.Segments) == 0 {
		return filepath.Base(node.AbsolutePath)
	}
	return node.Segments[len(node.Segments)-1]
}

// RelativePath renders the path relative to the root with the host separator.
func (node *FileNode) RelativePath() string {
	return joinSegments(node.Segments, string(filepath.Separator))
}

// SlashPath renders the path relative to the root with forward slashes.
func (node *FileNode) SlashPath() string {
	return joinSegments(node.Segments, slashSeparator)
}

// DirectoryNode is a directory under the root together with its selected children.
// Files and Directories keep filesystem enumeration order.
type DirectoryNode struct {
	AbsolutePath string
	Segments     []string
	Files        []*FileNode
	Directories  []*DirectoryNode
}

// RelativePath renders the path relative to the root with the host separator.
// The root itself renders as ".".
func (node *DirectoryNode) RelativePath() string {
	return joinSegments(node.Segments, string(filepath.Separator))
}

// SlashPath renders the path relative to the root with forward slashes.
func (node *DirectoryNode) SlashPath() string {
	return joinSegments(node.Segments, slashSeparator)
}

// CountFiles returns the number of files in the subtree rooted at node.
func CountFiles(node *DirectoryNode) int {
	if node == nil {
		return 0
	}
	total := len(node.Files)
	for _, childDirectory := range node.Directories {
		total += CountFiles(childDirectory)
	}
	return total
}

func joinSegments(segments []string, separator string) string {
	if len(segments) == 0 {
		return rootRelativePath
	}
	return strings.Join(segments, separator)
}

func appendSegment(segments []string, name string) []string {
	childSegments := make([]string, 0, len(segments)+1)
	childSegments = append(childSegments, segments...)
	return append(childSegments, name)
}
