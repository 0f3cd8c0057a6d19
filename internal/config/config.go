// Package config resolves command line input, configuration files and the process
// environment into the immutable Configuration consumed by the walker.
package config

import (
	"bufio"
	"bytes"
	"fmt"
	"strings"

	"github.com/spf13/afero"
)

const commentPrefix = "#"

// LoadExclusionFile reads excluded names from a file, one name per line.
// Blank lines and lines starting with # are skipped.
func LoadExclusionFile(fileSystem afero.Fs, exclusionFilePath string) ([]string, error) {
	fileContent, readError := afero.ReadFile(fileSystem, exclusionFilePath)
	if readError != nil {
		return nil, fmt.Errorf(errorExclusionFileFormat, exclusionFilePath, readError)
	}

	var excludedNames []string
	scanner := bufio.NewScanner(bytes.NewReader(fileContent))
	for scanner.Scan() {
		trimmedLine := strings.TrimSpace(scanner.Text())
		if trimmedLine == "" || strings.HasPrefix(trimmedLine, commentPrefix) {
			continue
		}
		excludedNames = append(excludedNames, trimmedLine)
	}
	if scanError := scanner.Err(); scanError != nil {
		return nil, fmt.Errorf(errorExclusionFileFormat, exclusionFilePath, scanError)
	}
	return excludedNames, nil
}
