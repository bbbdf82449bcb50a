// Package output names, creates and previews merged documents.
package output

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/temirov/codemerge/internal/utils"
)

const (
	documentExtension     = ".txt"
	fallbackProjectName   = "project"
	fileNameFormat        = "%s_%s%s"
	errorCreateDirectory  = "creating output directory %s: %w"
	errorCreateDocument   = "creating output file %s: %w"
	errorFlushDocument    = "flushing output file %s: %w"
	errorCloseDocument    = "closing output file %s: %w"
	errorResolveDirectory = "resolving output directory %s: %w"
	directoryPermissions  = 0o755
)

var projectNameReplacer = strings.NewReplacer("/", "_", "\\", "_", " ", "_", ":", "_")

// PathOptions selects where a merged document is written.
type PathOptions struct {
	// OutputPath, when set, is used as is.
	OutputPath string
	// OutputDirectory receives a generated file name. Relative directories are
	// resolved against WorkingDirectory.
	OutputDirectory  string
	WorkingDirectory string
}

// BuildFileName returns "<project>_<yyyyMMdd_HHmmss>.txt".
func BuildFileName(projectName string, timestamp time.Time) string {
	sanitizedName := projectNameReplacer.Replace(strings.TrimSpace(projectName))
	if sanitizedName == "" || sanitizedName == "." {
		sanitizedName = fallbackProjectName
	}
	return fmt.Sprintf(fileNameFormat, sanitizedName, utils.FormatFileNameTimestamp(timestamp), documentExtension)
}

// ResolvePath returns the absolute path of the document for projectName generated at now.
func ResolvePath(options PathOptions, projectName string, now time.Time) (string, error) {
	if strings.TrimSpace(options.OutputPath) != "" {
		return filepath.Abs(options.OutputPath)
	}
	outputDirectory := options.OutputDirectory
	if outputDirectory == "" {
		outputDirectory = "."
	}
	if !filepath.IsAbs(outputDirectory) {
		workingDirectory := options.WorkingDirectory
		if workingDirectory == "" {
			currentDirectory, err := os.Getwd()
			if err != nil {
				return "", fmt.Errorf(errorResolveDirectory, outputDirectory, err)
			}
			workingDirectory = currentDirectory
		}
		outputDirectory = filepath.Join(workingDirectory, outputDirectory)
	}
	return filepath.Join(outputDirectory, BuildFileName(projectName, now)), nil
}

// Document is a buffered output file.
type Document struct {
	path   string
	file   *os.File
	writer *bufio.Writer
	closed bool
}

// Create makes the parent directories of path and opens a truncated document there.
func Create(path string) (*Document, error) {
	parentDirectory := filepath.Dir(path)
	if err := os.MkdirAll(parentDirectory, directoryPermissions); err != nil {
		return nil, fmt.Errorf(errorCreateDirectory, parentDirectory, err)
	}
	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf(errorCreateDocument, path, err)
	}
	return &Document{path: path, file: file, writer: bufio.NewWriter(file)}, nil
}

// Path returns the file path the document writes to.
func (document *Document) Path() string {
	return document.path
}

func (document *Document) Write(data []byte) (int, error) {
	return document.writer.Write(data)
}

// Close flushes buffered data and closes the file. Subsequent calls are no-ops.
func (document *Document) Close() error {
	if document.closed {
		return nil
	}
	document.closed = true
	var flushErr error
	if err := document.writer.Flush(); err != nil {
		flushErr = fmt.Errorf(errorFlushDocument, document.path, err)
	}
	var closeErr error
	if err := document.file.Close(); err != nil {
		closeErr = fmt.Errorf(errorCloseDocument, document.path, err)
	}
	return errors.Join(flushErr, closeErr)
}
