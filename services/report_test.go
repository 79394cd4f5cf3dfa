package services

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"melodex/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestResolveReportPath tests output path resolution
func TestResolveReportPath(t *testing.T) {
	tests := []struct {
		name       string
		outputPath string
		expected   string
	}{
		{
			name:       "current directory",
			outputPath: ".",
			expected:   filepath.Join(".", ReportFilename),
		},
		{
			name:       "plain directory",
			outputPath: "/tmp/reports",
			expected:   filepath.Join("/tmp/reports", ReportFilename),
		},
		{
			name:       "explicit json file",
			outputPath: "/tmp/out.json",
			expected:   "/tmp/out.json",
		},
		{
			name:       "relative file with extension",
			outputPath: "scan.json",
			expected:   "scan.json",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ResolveReportPath(tt.outputPath))
		})
	}
}

func sampleResult() *types.ScanResult {
	return &types.ScanResult{
		Artists: []types.Artist{
			{
				Name: "ArtistA",
				Albums: []types.Album{
					{
						Title:  "Album1",
						Genres: []string{"Pop", "Hip Hop"},
						Tracks: []types.Track{{Title: "Song1"}, {Title: "Song2"}},
					},
				},
			},
		},
		Errors: []types.ProcessingError{
			{File: "/music/ArtistA/Album1/b.flac", Error: "could not parse audio metadata"},
		},
	}
}

// TestSaveWritesReportAndErrors checks both files land next to each other
// and round-trip cleanly
func TestSaveWritesReportAndErrors(t *testing.T) {
	outDir := t.TempDir()

	reportPath, errorsPath, err := NewReportWriter().Save(sampleResult(), outDir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(outDir, ReportFilename), reportPath)
	assert.Equal(t, filepath.Join(outDir, ErrorsFilename), errorsPath)

	data, err := os.ReadFile(reportPath)
	require.NoError(t, err)

	var artists []types.Artist
	require.NoError(t, json.Unmarshal(data, &artists))
	assert.Equal(t, sampleResult().Artists, artists)

	errData, err := os.ReadFile(errorsPath)
	require.NoError(t, err)
	var procErrs []types.ProcessingError
	require.NoError(t, json.Unmarshal(errData, &procErrs))
	assert.Equal(t, sampleResult().Errors, procErrs)
}

// TestSaveCompactsGenreArrays checks the cosmetic single-line rendering
// of genre arrays inside an otherwise pretty-printed document
func TestSaveCompactsGenreArrays(t *testing.T) {
	outDir := t.TempDir()

	reportPath, _, err := NewReportWriter().Save(sampleResult(), outDir)
	require.NoError(t, err)

	data, err := os.ReadFile(reportPath)
	require.NoError(t, err)

	content := string(data)
	assert.Contains(t, content, `"genres": ["Pop","Hip Hop"]`)
	// The rest stays pretty-printed
	assert.True(t, strings.Contains(content, "\n"), "report should be indented")
	assert.Contains(t, content, "  \"artistName\": \"ArtistA\"")
}

// TestSaveCompactsGenresContainingBrackets checks that a "]" inside a
// genre name does not cut the compaction short
func TestSaveCompactsGenresContainingBrackets(t *testing.T) {
	outDir := t.TempDir()
	result := &types.ScanResult{
		Artists: []types.Artist{
			{
				Name: "ArtistA",
				Albums: []types.Album{
					{
						Title:  "Album1",
						Genres: []string{"Rock [Live]", "Jazz"},
						Tracks: []types.Track{{Title: "Song1"}},
					},
				},
			},
		},
	}

	reportPath, _, err := NewReportWriter().Save(result, outDir)
	require.NoError(t, err)

	data, err := os.ReadFile(reportPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"genres": ["Rock [Live]","Jazz"]`)
}

// TestSaveLiteralFileTarget checks that an output path with an extension
// is used verbatim, with the errors file placed alongside
func TestSaveLiteralFileTarget(t *testing.T) {
	outDir := t.TempDir()
	target := filepath.Join(outDir, "custom_scan.json")

	reportPath, errorsPath, err := NewReportWriter().Save(sampleResult(), target)
	require.NoError(t, err)
	assert.Equal(t, target, reportPath)
	assert.Equal(t, filepath.Join(outDir, ErrorsFilename), errorsPath)

	_, err = os.Stat(target)
	assert.NoError(t, err)
}

// TestSaveNoArtists checks that no report is written for an empty scan
// while errors are still persisted
func TestSaveNoArtists(t *testing.T) {
	outDir := t.TempDir()
	result := &types.ScanResult{
		Errors: []types.ProcessingError{{File: "/music/x.mp3", Error: "boom"}},
	}

	reportPath, errorsPath, err := NewReportWriter().Save(result, outDir)
	require.NoError(t, err)
	assert.Empty(t, reportPath)
	assert.Equal(t, filepath.Join(outDir, ErrorsFilename), errorsPath)

	_, err = os.Stat(filepath.Join(outDir, ReportFilename))
	assert.True(t, os.IsNotExist(err))
}

// TestSaveNoErrors checks that the errors file is omitted on a clean scan
func TestSaveNoErrors(t *testing.T) {
	outDir := t.TempDir()
	result := &types.ScanResult{Artists: sampleResult().Artists}

	reportPath, errorsPath, err := NewReportWriter().Save(result, outDir)
	require.NoError(t, err)
	assert.NotEmpty(t, reportPath)
	assert.Empty(t, errorsPath)

	_, err = os.Stat(filepath.Join(outDir, ErrorsFilename))
	assert.True(t, os.IsNotExist(err))
}

// TestCompactGenreArraysEmpty checks an album with no genres renders as
// an empty array without breaking the pass
func TestCompactGenreArraysEmpty(t *testing.T) {
	outDir := t.TempDir()
	result := &types.ScanResult{
		Artists: []types.Artist{
			{
				Name: "Artist",
				Albums: []types.Album{
					{Title: "Album", Genres: []string{}, Tracks: []types.Track{{Title: "T"}}},
				},
			},
		},
	}

	reportPath, _, err := NewReportWriter().Save(result, outDir)
	require.NoError(t, err)

	data, err := os.ReadFile(reportPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"genres": []`)
}
