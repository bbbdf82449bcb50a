package tree

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/temirov/codemerge/internal/filter"
)

const (
	// errorAbsolutePathFormat is used when the absolute root path cannot be determined.
	errorAbsolutePathFormat = "getting absolute path for %s: %w"
	// errorStatRootFormat is used when the root cannot be inspected.
	errorStatRootFormat = "inspecting root %s: %w"
	// errorRootNotDirectoryFormat is used when the root is a file.
	errorRootNotDirectoryFormat = "root %s is not a directory"
	// errorReadDirectoryFormat is used when a directory cannot be enumerated.
	errorReadDirectoryFormat = "reading directory %s: %w"
)

// ErrNilPolicy is returned when a Builder has no filter policy.
var ErrNilPolicy = errors.New("tree builder requires a filter policy")

// Builder walks a filesystem and produces a filtered node tree.
type Builder struct {
	fileSystem    afero.Fs
	policy        *filter.Policy
	logger        *zap.Logger
	excludedPaths map[string]struct{}
}

// NewBuilder constructs a Builder reading through fileSystem.
// A nil fileSystem selects the operating system; a nil logger discards output.
func NewBuilder(fileSystem afero.Fs, policy *filter.Policy, logger *zap.Logger) *Builder {
	if fileSystem == nil {
		fileSystem = afero.NewOsFs()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Builder{fileSystem: fileSystem, policy: policy, logger: logger, excludedPaths: map[string]struct{}{}}
}

// ExcludePaths skips the given files and directories regardless of the policy.
// Relative paths are resolved against the working directory.
func (builder *Builder) ExcludePaths(paths ...string) *Builder {
	for _, path := range paths {
		if path == "" {
			continue
		}
		absolutePath, absolutePathError := filepath.Abs(path)
		if absolutePathError != nil {
			continue
		}
		builder.excludedPaths[absolutePath] = struct{}{}
	}
	return builder
}

func (builder *Builder) isExcludedPath(absolutePath string) bool {
	_, excluded := builder.excludedPaths[absolutePath]
	return excluded
}

// BuildTree returns the filtered tree rooted at rootPath. Excluded directories are
// never opened. Any filesystem error aborts the whole build.
func (builder *Builder) BuildTree(rootPath string) (*DirectoryNode, error) {
	if builder.policy == nil {
		return nil, ErrNilPolicy
	}
	absoluteRootPath, absolutePathError := filepath.Abs(rootPath)
	if absolutePathError != nil {
		return nil, fmt.Errorf(errorAbsolutePathFormat, rootPath, absolutePathError)
	}
	rootInfo, statError := builder.fileSystem.Stat(absoluteRootPath)
	if statError != nil {
		return nil, fmt.Errorf(errorStatRootFormat, absoluteRootPath, statError)
	}
	if !rootInfo.IsDir() {
		return nil, fmt.Errorf(errorRootNotDirectoryFormat, absoluteRootPath)
	}
	return builder.buildDirectory(absoluteRootPath, nil)
}

// buildDirectory constructs the node for one directory, files first, then subdirectories.
func (builder *Builder) buildDirectory(absolutePath string, segments []string) (*DirectoryNode, error) {
	directoryNode := &DirectoryNode{
		AbsolutePath: absolutePath,
		Segments:     segments,
	}

	entries, readDirectoryError := builder.readDirectory(absolutePath)
	if readDirectoryError != nil {
		return nil, fmt.Errorf(errorReadDirectoryFormat, absolutePath, readDirectoryError)
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		filePath := filepath.Join(absolutePath, entry.Name())
		if builder.policy.ShouldExcludeFile(entry.Name()) || builder.isExcludedPath(filePath) {
			continue
		}
		directoryNode.Files = append(directoryNode.Files, &FileNode{
			AbsolutePath: filePath,
			Segments:     appendSegment(segments, entry.Name()),
		})
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		childPath := filepath.Join(absolutePath, entry.Name())
		if builder.policy.ShouldExcludeDirectory(entry.Name()) || builder.isExcludedPath(childPath) {
			builder.logger.Debug("Pruned directory", zap.String("path", childPath))
			continue
		}
		childNode, buildError := builder.buildDirectory(childPath, appendSegment(segments, entry.Name()))
		if buildError != nil {
			return nil, buildError
		}
		directoryNode.Directories = append(directoryNode.Directories, childNode)
	}

	return directoryNode, nil
}

// readDirectory lists a directory in the order the filesystem returns entries.
// afero.ReadDir is avoided because it sorts by name.
func (builder *Builder) readDirectory(absolutePath string) (entries []os.FileInfo, err error) {
	directory, openError := builder.fileSystem.Open(absolutePath)
	if openError != nil {
		return nil, openError
	}
	defer func() {
		if closeError := directory.Close(); closeError != nil && err == nil {
			err = closeError
		}
	}()
	return directory.Readdir(-1)
}
