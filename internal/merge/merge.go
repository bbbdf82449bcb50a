// Package merge writes the framed, single-document snapshot of a node tree.
package merge

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/temirov/codemerge/internal/minify"
	"github.com/temirov/codemerge/internal/tree"
	"github.com/temirov/codemerge/internal/utils"
)

const (
	// DividerLine frames the header and closes every file section.
	DividerLine = "================================================================================"
	// FileMarkerPrefix starts the line announcing a file.
	FileMarkerPrefix = "FILE: "

	projectLineFormat   = "PROJECT: %s\n"
	generatedLineFormat = "GENERATED: %s\n"
	readErrorFormat     = "[Error reading file: %s]\n"
	writeErrorFormat    = "writing %s: %w"
)

// ErrNilTree is returned when Merge receives no tree.
var ErrNilTree = errors.New("merge requires a directory tree")

// Header describes the document preamble.
type Header struct {
	ProjectName string
	GeneratedAt time.Time
}

// Summary reports what a merge produced.
type Summary struct {
	Files        int
	ReadFailures int
	InputBytes   int64
	OutputBytes  int64
}

// Merger reads every file of a tree, minifies it and writes framed sections.
type Merger struct {
	fileSystem afero.Fs
	minifier   *minify.Minifier
	logger     *zap.Logger
}

// NewMerger constructs a Merger. A nil minifier writes file content unchanged.
func NewMerger(fileSystem afero.Fs, minifier *minify.Minifier, logger *zap.Logger) *Merger {
	if fileSystem == nil {
		fileSystem = afero.NewOsFs()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Merger{fileSystem: fileSystem, minifier: minifier, logger: logger}
}

// Merge writes the header followed by every file of root in pre-order, files of
// a directory before its subdirectories. A file that cannot be read is framed
// with an inline error marker; write failures abort the merge.
func (merger *Merger) Merge(writer io.Writer, root *tree.DirectoryNode, header Header) (Summary, error) {
	var summary Summary
	if root == nil {
		return summary, ErrNilTree
	}
	countingDestination := &countingWriter{destination: writer}
	bufferedWriter := bufio.NewWriter(countingDestination)

	if headerError := writeHeader(bufferedWriter, header); headerError != nil {
		return summary, fmt.Errorf(writeErrorFormat, "header", headerError)
	}
	if walkError := merger.writeDirectory(bufferedWriter, root, &summary); walkError != nil {
		return summary, walkError
	}
	if flushError := bufferedWriter.Flush(); flushError != nil {
		return summary, fmt.Errorf(writeErrorFormat, "output", flushError)
	}
	summary.OutputBytes = countingDestination.written
	return summary, nil
}

func writeHeader(writer *bufio.Writer, header Header) error {
	var builder strings.Builder
	builder.WriteString(DividerLine + "\n")
	builder.WriteString(fmt.Sprintf(projectLineFormat, header.ProjectName))
	builder.WriteString(fmt.Sprintf(generatedLineFormat, utils.FormatHeaderTimestamp(header.GeneratedAt)))
	builder.WriteString(DividerLine + "\n")
	builder.WriteString("\n")
	_, writeError := writer.WriteString(builder.String())
	return writeError
}

func (merger *Merger) writeDirectory(writer *bufio.Writer, directory *tree.DirectoryNode, summary *Summary) error {
	for _, fileNode := range directory.Files {
		if fileError := merger.writeFile(writer, fileNode, summary); fileError != nil {
			return fileError
		}
	}
	for _, childDirectory := range directory.Directories {
		if directoryError := merger.writeDirectory(writer, childDirectory, summary); directoryError != nil {
			return directoryError
		}
	}
	return nil
}

func (merger *Merger) writeFile(writer *bufio.Writer, fileNode *tree.FileNode, summary *Summary) error {
	relativePath := fileNode.RelativePath()
	var section strings.Builder
	section.WriteString(FileMarkerPrefix + relativePath + "\n")

	contentBytes, readError := afero.ReadFile(merger.fileSystem, fileNode.AbsolutePath)
	if readError != nil {
		merger.logger.Warn("Failed to read file", zap.String("path", fileNode.AbsolutePath), zap.Error(readError))
		section.WriteString(fmt.Sprintf(readErrorFormat, readError.Error()))
		summary.ReadFailures++
	} else {
		summary.InputBytes += int64(len(contentBytes))
		content := string(contentBytes)
		if merger.minifier != nil {
			content = merger.minifier.Minify(content, minify.ExtensionOf(fileNode.Name()))
		}
		section.WriteString(content)
		if content != "" && !strings.HasSuffix(content, "\n") {
			section.WriteString("\n")
		}
	}
	section.WriteString(DividerLine + "\n\n")

	if _, writeError := writer.WriteString(section.String()); writeError != nil {
		return fmt.Errorf(writeErrorFormat, relativePath, writeError)
	}
	summary.Files++
	merger.logger.Debug("Merged file", zap.String("path", relativePath))
	return nil
}

// countingWriter tracks the bytes that reached the destination.
type countingWriter struct {
	destination io.Writer
	written     int64
}

func (writer *countingWriter) Write(data []byte) (int, error) {
	writtenCount, writeError := writer.destination.Write(data)
	writer.written += int64(writtenCount)
	return writtenCount, writeError
}
