package services

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"melodex/types"

	"github.com/stretchr/testify/require"
)

// createCorruptFLACFile returns bytes that look like a FLAC header but
// cannot be parsed as metadata
func createCorruptFLACFile() []byte {
	return []byte("fLaC\x00this is not a valid stream")
}

// id3v2Frame builds a single ID3v2.3 text frame
func id3v2Frame(id, text string) []byte {
	payload := append([]byte{0x00}, []byte(text)...) // ISO-8859-1 encoding
	frame := []byte(id)
	size := len(payload)
	frame = append(frame, byte(size>>24), byte(size>>16), byte(size>>8), byte(size))
	frame = append(frame, 0x00, 0x00)
	return append(frame, payload...)
}

// createMP3WithTags builds a minimal MP3 file carrying an ID3v2.3 tag
// with the given title and genre. Empty values omit the frame.
func createMP3WithTags(title, genre string) []byte {
	var frames []byte
	if title != "" {
		frames = append(frames, id3v2Frame("TIT2", title)...)
	}
	if genre != "" {
		frames = append(frames, id3v2Frame("TCON", genre)...)
	}

	size := len(frames)
	header := []byte{
		'I', 'D', '3', 0x03, 0x00, 0x00,
		byte(size>>21) & 0x7f, byte(size>>14) & 0x7f, byte(size>>7) & 0x7f, byte(size) & 0x7f,
	}
	return append(header, frames...)
}

// writeTestFile creates path (and parent directories) under root
func writeTestFile(t *testing.T, root, path string, content []byte) string {
	t.Helper()
	fullPath := filepath.Join(root, path)
	require.NoError(t, os.MkdirAll(filepath.Dir(fullPath), 0755))
	require.NoError(t, os.WriteFile(fullPath, content, 0644))
	return fullPath
}

// stubProbe is a MetadataProbe for tests. It tracks concurrency and the
// order of probed files, and delegates results to fn (keyed however fn
// likes, typically by base name).
type stubProbe struct {
	fn func(filePath string) (*types.TrackMetadata, error)

	mu        sync.Mutex
	active    int
	maxActive int
	calls     []string
}

func (p *stubProbe) Probe(filePath string) (*types.TrackMetadata, error) {
	p.mu.Lock()
	p.active++
	if p.active > p.maxActive {
		p.maxActive = p.active
	}
	p.calls = append(p.calls, filePath)
	p.mu.Unlock()

	defer func() {
		p.mu.Lock()
		p.active--
		p.mu.Unlock()
	}()

	return p.fn(filePath)
}

func (p *stubProbe) callCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.calls)
}

// titleFromFilename is a stub behavior returning the base name as title
// with no genres
func titleFromFilename(filePath string) (*types.TrackMetadata, error) {
	return &types.TrackMetadata{Title: TitleOrFilename("", filePath)}, nil
}
