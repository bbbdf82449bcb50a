package output

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/temirov/codemerge/internal/tree"
)

const (
	treeBranchConnector = "├── "
	treeLastConnector   = "└── "
	treeBranchPadding   = "│   "
	treeLastPadding     = "    "

	directoryLineFormat = "%s%s/\n"
	fileLineFormat      = "%s%s\n"
)

// WriteTree renders the selected files of root as an indented tree, files before
// subdirectories, followed by a one-line summary.
func WriteTree(writer io.Writer, root *tree.DirectoryNode) error {
	if root == nil {
		return nil
	}
	if _, err := fmt.Fprintf(writer, directoryLineFormat, "", filepath.Base(root.AbsolutePath)); err != nil {
		return err
	}
	if err := renderDirectoryChildren(writer, root, ""); err != nil {
		return err
	}
	_, err := fmt.Fprintln(writer, summaryLine(tree.CountFiles(root)))
	return err
}

func renderDirectoryChildren(writer io.Writer, directory *tree.DirectoryNode, prefix string) error {
	childCount := len(directory.Files) + len(directory.Directories)
	index := 0
	for _, file := range directory.Files {
		index++
		linePrefix, _ := treeNodeLinePrefix(prefix, index == childCount)
		if _, err := fmt.Fprintf(writer, fileLineFormat, linePrefix, file.Name()); err != nil {
			return err
		}
	}
	for _, subdirectory := range directory.Directories {
		index++
		linePrefix, childPrefix := treeNodeLinePrefix(prefix, index == childCount)
		name := ""
		if len(subdirectory.Segments) > 0 {
			name = subdirectory.Segments[len(subdirectory.Segments)-1]
		}
		if _, err := fmt.Fprintf(writer, directoryLineFormat, linePrefix, name); err != nil {
			return err
		}
		if err := renderDirectoryChildren(writer, subdirectory, childPrefix); err != nil {
			return err
		}
	}
	return nil
}

func treeNodeLinePrefix(prefix string, isLast bool) (string, string) {
	if isLast {
		return prefix + treeLastConnector, prefix + treeLastPadding
	}
	return prefix + treeBranchConnector, prefix + treeBranchPadding
}

func summaryLine(fileCount int) string {
	label := "files"
	if fileCount == 1 {
		label = "file"
	}
	return fmt.Sprintf("Summary: %d %s", fileCount, label)
}
