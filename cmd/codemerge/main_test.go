package main

import (
	"bytes"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

const integrationBinaryBaseName = "codemerge_integration_binary"

func buildBinary(testingHandle *testing.T) string {
	testingHandle.Helper()
	binaryName := integrationBinaryBaseName
	if runtime.GOOS == "windows" {
		binaryName += ".exe"
	}
	binaryPath := filepath.Join(testingHandle.TempDir(), binaryName)

	// #nosec G204
	buildCommand := exec.Command("go", "build", "-o", binaryPath, ".")
	combinedOutput, buildError := buildCommand.CombinedOutput()
	if buildError != nil {
		testingHandle.Fatalf("build failed: %v\n%s", buildError, string(combinedOutput))
	}
	return binaryPath
}

// #nosec G204
func runBinary(testingHandle *testing.T, binaryPath string, arguments []string, workingDirectory string, homeDirectory string) (string, string, error) {
	testingHandle.Helper()
	command := exec.Command(binaryPath, arguments...)
	command.Dir = workingDirectory
	command.Env = append(os.Environ(), "HOME="+homeDirectory, "USERPROFILE="+homeDirectory)
	var stdoutBuffer, stderrBuffer bytes.Buffer
	command.Stdout = &stdoutBuffer
	command.Stderr = &stderrBuffer
	runError := command.Run()
	return stdoutBuffer.String(), stderrBuffer.String(), runError
}

func writeFixture(testingHandle *testing.T, path string, content string) {
	testingHandle.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		testingHandle.Fatalf("mkdir %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		testingHandle.Fatalf("write %s: %v", path, err)
	}
}

func TestBinaryMergesProject(testingHandle *testing.T) {
	if testing.Short() {
		testingHandle.Skip("skip binary integration in short mode")
	}
	binaryPath := buildBinary(testingHandle)
	workingDirectory := testingHandle.TempDir()
	homeDirectory := testingHandle.TempDir()
	projectDirectory := filepath.Join(workingDirectory, "Shop")
	writeFixture(testingHandle, filepath.Join(projectDirectory, "Program.cs"), "/* entry */\nclass Program\n{\n    static void Main() { }\n}\n")
	writeFixture(testingHandle, filepath.Join(projectDirectory, "Shop.Tests", "ProgramTests.cs"), "class ProgramTests {}\n")
	writeFixture(testingHandle, filepath.Join(projectDirectory, "wwwroot", "index.html"), "<!-- page -->\n<html></html>\n")
	outputPath := filepath.Join(workingDirectory, "shop.txt")

	stdout, stderr, runError := runBinary(testingHandle, binaryPath, []string{projectDirectory, "--output", outputPath}, workingDirectory, homeDirectory)
	if runError != nil {
		testingHandle.Fatalf("command failed: %v\nstderr:\n%s", runError, stderr)
	}
	if strings.TrimSpace(stdout) != outputPath {
		testingHandle.Fatalf("expected output path on stdout, got %q", stdout)
	}
	content, readError := os.ReadFile(outputPath)
	if readError != nil {
		testingHandle.Fatalf("read output: %v", readError)
	}
	document := string(content)
	for _, fragment := range []string{"PROJECT: Shop\n", "FILE: Program.cs\n", "FILE: " + filepath.Join("wwwroot", "index.html") + "\n", "<html></html>\n"} {
		if !strings.Contains(document, fragment) {
			testingHandle.Fatalf("expected %q in document:\n%s", fragment, document)
		}
	}
	for _, fragment := range []string{"entry", "page", "ProgramTests"} {
		if strings.Contains(document, fragment) {
			testingHandle.Fatalf("did not expect %q in document:\n%s", fragment, document)
		}
	}
	if !strings.Contains(stderr, "merged project") {
		testingHandle.Fatalf("expected summary log on stderr, got %q", stderr)
	}
}

func TestBinaryFailsForMissingPath(testingHandle *testing.T) {
	if testing.Short() {
		testingHandle.Skip("skip binary integration in short mode")
	}
	binaryPath := buildBinary(testingHandle)
	workingDirectory := testingHandle.TempDir()
	_, stderr, runError := runBinary(testingHandle, binaryPath, []string{"missing-project"}, workingDirectory, testingHandle.TempDir())
	var exitError *exec.ExitError
	if !errors.As(runError, &exitError) || exitError.ExitCode() == 0 {
		testingHandle.Fatalf("expected non-zero exit, got %v", runError)
	}
	if !strings.Contains(stderr, "path 'missing-project' does not exist") {
		testingHandle.Fatalf("expected missing path message, got %q", stderr)
	}
}
