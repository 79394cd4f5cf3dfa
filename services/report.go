package services

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"melodex/types"
)

const (
	// ReportFilename is used when the output path is a directory
	ReportFilename = "music_metadata.json"
	// ErrorsFilename is written alongside the report when a scan records errors
	ErrorsFilename = "music_metadata_errors.json"
)

// ReportWriter persists scan results as JSON documents
type ReportWriter interface {
	// Save writes the artist report and the error report, applying the
	// omission rules: no report without artists, no error file without
	// errors. It returns the paths actually written (empty if skipped).
	Save(result *types.ScanResult, outputPath string) (reportPath, errorsPath string, err error)
}

type reportWriter struct{}

// NewReportWriter creates a new report writer
func NewReportWriter() ReportWriter {
	return &reportWriter{}
}

// ResolveReportPath maps the user-supplied output path to the report
// file: a path carrying a file extension is treated as the literal target
// file, anything else as a directory to place music_metadata.json in.
func ResolveReportPath(outputPath string) string {
	if filepath.Ext(outputPath) != "" {
		return outputPath
	}
	return filepath.Join(outputPath, ReportFilename)
}

func (w *reportWriter) Save(result *types.ScanResult, outputPath string) (string, string, error) {
	reportPath := ResolveReportPath(outputPath)

	var errorsPath string
	if len(result.Errors) > 0 {
		errorsPath = filepath.Join(filepath.Dir(reportPath), ErrorsFilename)
		data, err := json.MarshalIndent(result.Errors, "", "  ")
		if err != nil {
			return "", "", fmt.Errorf("could not encode error report: %w", err)
		}
		if err := os.WriteFile(errorsPath, data, 0644); err != nil {
			return "", "", fmt.Errorf("could not write error report: %w", err)
		}
	}

	if len(result.Artists) == 0 {
		return "", errorsPath, nil
	}

	data, err := json.MarshalIndent(result.Artists, "", "  ")
	if err != nil {
		return "", errorsPath, fmt.Errorf("could not encode report: %w", err)
	}
	data = compactGenreArrays(data)

	if err := os.WriteFile(reportPath, data, 0644); err != nil {
		return "", errorsPath, fmt.Errorf("could not write report: %w", err)
	}

	return reportPath, errorsPath, nil
}

// The array body is matched as a sequence of quoted strings so that a
// "]" inside a genre name does not end the match early.
var (
	genreArrayPattern = regexp.MustCompile(`"genres": \[(?:\s*"(?:[^"\\]|\\.)*",?)*\s*\]`)
	arrayIndentation  = regexp.MustCompile(`\n\s*`)
)

// compactGenreArrays renders each genres array on a single line while the
// rest of the document stays pretty-printed. Purely cosmetic.
func compactGenreArrays(data []byte) []byte {
	return genreArrayPattern.ReplaceAllFunc(data, func(match []byte) []byte {
		return arrayIndentation.ReplaceAll(match, nil)
	})
}
