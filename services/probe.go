package services

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"melodex/types"

	"github.com/dhowden/tag"
)

// MetadataProbe extracts embedded metadata from a single audio file
type MetadataProbe interface {
	Probe(filePath string) (*types.TrackMetadata, error)
}

// tagProbe implements MetadataProbe using the dhowden/tag library
// (supports FLAC, MP3, M4A, OGG, etc.)
type tagProbe struct{}

// NewMetadataProbe creates the production metadata probe
func NewMetadataProbe() MetadataProbe {
	return &tagProbe{}
}

// Probe reads the embedded tags of the audio file at filePath. Every
// failure mode, including panics thrown by the parser on malformed
// containers, comes back as an ordinary error so one bad file can never
// take down a scan.
func (p *tagProbe) Probe(filePath string) (meta *types.TrackMetadata, err error) {
	defer func() {
		if r := recover(); r != nil {
			meta = nil
			err = fmt.Errorf("metadata parser panic: %v", r)
		}
	}()

	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("could not open audio file: %w", err)
	}
	defer file.Close()

	tags, err := tag.ReadFrom(file)
	if err != nil {
		return nil, fmt.Errorf("could not parse audio metadata: %w", err)
	}

	return &types.TrackMetadata{
		Title:  strings.TrimSpace(tags.Title()),
		Genres: SplitGenres(tags.Genre()),
	}, nil
}

// SplitGenres expands a raw genre tag into a list. Tags frequently pack
// several genres into one field separated by ";", "/" or ",".
func SplitGenres(raw string) []string {
	var genres []string
	for _, part := range strings.FieldsFunc(raw, func(r rune) bool {
		return r == ';' || r == '/' || r == ','
	}) {
		if genre := strings.TrimSpace(part); genre != "" {
			genres = append(genres, genre)
		}
	}
	return genres
}

// TitleOrFilename falls back to the file's base name (without extension)
// when the embedded title is empty
func TitleOrFilename(title, filePath string) string {
	if title != "" {
		return title
	}
	base := filepath.Base(filePath)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
