package main

import (
	"bytes"
	"fmt"
	"log"
	"os"
	"testing"

	"melodex/services"
	"melodex/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	log.SetOutput(&buf)
	t.Cleanup(func() { log.SetOutput(os.Stderr) })
	return &buf
}

// TestSaveAndReportPointsToErrorFile checks the summary names the error
// report even when the sample covers every error
func TestSaveAndReportPointsToErrorFile(t *testing.T) {
	buf := captureLog(t)
	outDir := t.TempDir()

	result := &types.ScanResult{
		Artists: []types.Artist{
			{
				Name: "ArtistA",
				Albums: []types.Album{
					{Title: "Album1", Genres: []string{"Pop"}, Tracks: []types.Track{{Title: "Song1"}}},
				},
			},
		},
		Errors: []types.ProcessingError{
			{File: "/music/ArtistA/Album1/b.flac", Error: "could not parse audio metadata"},
		},
	}

	saveAndReport(result, outDir)

	output := buf.String()
	assert.Contains(t, output, "Errors encountered: 1")
	assert.Contains(t, output, services.ErrorsFilename)

	_, err := os.Stat(services.ResolveReportPath(outDir))
	require.NoError(t, err)
}

// TestSaveAndReportTruncatesErrorSample checks only the first five errors
// are echoed, with a count of the remainder
func TestSaveAndReportTruncatesErrorSample(t *testing.T) {
	buf := captureLog(t)
	outDir := t.TempDir()

	result := &types.ScanResult{}
	for i := 0; i < 8; i++ {
		result.Errors = append(result.Errors, types.ProcessingError{
			File:  fmt.Sprintf("/music/%02d.mp3", i),
			Error: "decode failure",
		})
	}

	saveAndReport(result, outDir)

	output := buf.String()
	assert.Contains(t, output, "/music/04.mp3")
	assert.NotContains(t, output, "/music/05.mp3")
	assert.Contains(t, output, "... 3 more")
	assert.Contains(t, output, services.ErrorsFilename)
}
