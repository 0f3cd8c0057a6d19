package utils

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime/debug"
	"strings"
)

const (
	unknownVersion     = "unknown"
	developmentVersion = "(devel)"
	gitExecutableName  = "git"
	versionTemplate    = "%s version: %s\n"
)

// Version is injected at link time with -ldflags "-X github.com/temirov/fzwalk/internal/utils.Version=v1.2.3".
var Version = ""

// GetApplicationVersion reports the linked version, the module version recorded in the
// build info, or the nearest git tag of the working tree, in that order.
func GetApplicationVersion() string {
	if Version != "" {
		return Version
	}

	buildInfo, buildInfoAvailable := debug.ReadBuildInfo()
	if buildInfoAvailable && buildInfo.Main.Version != "" && buildInfo.Main.Version != developmentVersion {
		return buildInfo.Main.Version
	}

	gitDirectoryPath, gitDirectoryError := findGitDirectory(".")
	if gitDirectoryError != nil {
		return unknownVersion
	}
	for _, describeArguments := range [][]string{
		{"describe", "--tags", "--exact-match"},
		{"describe", "--tags", "--long", "--dirty"},
	} {
		// #nosec G204
		describeCommand := exec.Command(gitExecutableName, describeArguments...)
		describeCommand.Dir = gitDirectoryPath
		describeOutput, describeError := describeCommand.Output()
		if describeError == nil && len(describeOutput) > 0 {
			return strings.TrimSpace(string(describeOutput))
		}
	}
	return unknownVersion
}

// FormatVersion renders the line printed by --version.
func FormatVersion() string {
	return fmt.Sprintf(versionTemplate, ApplicationName, GetApplicationVersion())
}

// findGitDirectory searches upward from startDirectory for a directory containing .git.
func findGitDirectory(startDirectory string) (string, error) {
	absoluteStartDirectory, errorAbsolute := filepath.Abs(startDirectory)
	if errorAbsolute != nil {
		return "", fmt.Errorf("failed to get absolute path for %s: %w", startDirectory, errorAbsolute)
	}

	currentDirectory := absoluteStartDirectory
	for {
		fileInformation, errorStat := os.Stat(filepath.Join(currentDirectory, GitDirectoryName))
		if errorStat == nil && fileInformation.IsDir() {
			return currentDirectory, nil
		}
		parentDirectory := filepath.Dir(currentDirectory)
		if parentDirectory == currentDirectory {
			break
		}
		currentDirectory = parentDirectory
	}

	return "", fmt.Errorf(".git directory not found in or above %s", absoluteStartDirectory)
}
