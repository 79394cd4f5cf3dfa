package services

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"melodex/types"

	"golang.org/x/sync/errgroup"
)

// batchSize bounds how many files are probed concurrently within one
// album, which in turn bounds open file handles and memory.
const batchSize = 10

// supportedExtensions are the audio formats included in a scan
var supportedExtensions = map[string]bool{
	".m4a":  true,
	".aac":  true,
	".mp4":  true,
	".mp3":  true,
	".flac": true,
	".ogg":  true,
}

// LibraryScanner walks an Artist/Album/track directory tree, probes each
// audio file for metadata, and merges the results bottom-up. Failures are
// accumulated as ProcessingErrors alongside the data; they never abort
// the scan.
type LibraryScanner interface {
	ScanDirectory(rootPath string, artistLimit int) ([]types.Artist, []types.ProcessingError)
	ProcessAlbum(albumPath, albumName string) (*types.Album, []types.ProcessingError)
}

// ProgressFunc is invoked after each artist directory has been processed
type ProgressFunc func(artistName string, done, total, errorCount int)

type libraryScanner struct {
	probe      MetadataProbe
	onProgress ProgressFunc
}

// NewLibraryScanner creates a scanner backed by the given probe.
// onProgress may be nil.
func NewLibraryScanner(probe MetadataProbe, onProgress ProgressFunc) LibraryScanner {
	return &libraryScanner{
		probe:      probe,
		onProgress: onProgress,
	}
}

// ScanDirectory lists the artist directories under rootPath and processes
// them sequentially; concurrency is bounded at the file-batch level inside
// ProcessAlbum so the whole tree never fans out unbounded. If artistLimit
// is positive, only the first artistLimit artist directories (in listing
// order) are considered. Artists with no non-empty albums are dropped.
func (s *libraryScanner) ScanDirectory(rootPath string, artistLimit int) ([]types.Artist, []types.ProcessingError) {
	var artists []types.Artist
	var procErrs []types.ProcessingError

	entries, err := os.ReadDir(rootPath)
	if err != nil {
		procErrs = append(procErrs, types.ProcessingError{
			File:  rootPath,
			Error: fmt.Sprintf("could not list music directory: %v", err),
		})
		return artists, procErrs
	}

	var artistDirs []os.DirEntry
	for _, entry := range entries {
		if entry.IsDir() {
			artistDirs = append(artistDirs, entry)
		}
	}
	if artistLimit > 0 && len(artistDirs) > artistLimit {
		artistDirs = artistDirs[:artistLimit]
	}

	for i, dir := range artistDirs {
		artistPath := filepath.Join(rootPath, dir.Name())
		artist := types.Artist{Name: dir.Name()}

		albumEntries, err := os.ReadDir(artistPath)
		if err != nil {
			// Only this subtree is lost; siblings continue
			procErrs = append(procErrs, types.ProcessingError{
				File:  artistPath,
				Error: fmt.Sprintf("could not list artist directory: %v", err),
			})
			s.progress(dir.Name(), i+1, len(artistDirs), len(procErrs))
			continue
		}

		for _, albumEntry := range albumEntries {
			if !albumEntry.IsDir() {
				continue
			}

			albumPath := filepath.Join(artistPath, albumEntry.Name())
			album, albumErrs := s.ProcessAlbum(albumPath, albumEntry.Name())
			procErrs = append(procErrs, albumErrs...)
			if album != nil {
				artist.Albums = append(artist.Albums, *album)
			}
		}

		if len(artist.Albums) > 0 {
			artists = append(artists, artist)
		}
		s.progress(dir.Name(), i+1, len(artistDirs), len(procErrs))
	}

	return artists, procErrs
}

// probeResult holds the outcome of probing one file, kept in submission
// order so merged output stays deterministic.
type probeResult struct {
	meta *types.TrackMetadata
	err  error
}

// ProcessAlbum lists albumPath, filters to supported audio files, and
// probes them in fixed-size batches. All files within a batch are probed
// concurrently; the next batch starts only after the whole batch has
// finished. Results merge into the album in file-listing order. Returns
// nil when no tracks were produced (no supported files, or every probe
// failed) together with whatever errors accumulated.
func (s *libraryScanner) ProcessAlbum(albumPath, albumName string) (*types.Album, []types.ProcessingError) {
	var procErrs []types.ProcessingError

	entries, err := os.ReadDir(albumPath)
	if err != nil {
		procErrs = append(procErrs, types.ProcessingError{
			File:  albumPath,
			Error: fmt.Sprintf("could not list album directory: %v", err),
		})
		return nil, procErrs
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if supportedExtensions[strings.ToLower(filepath.Ext(entry.Name()))] {
			files = append(files, filepath.Join(albumPath, entry.Name()))
		}
	}
	if len(files) == 0 {
		// Not a failure, just nothing to do here
		return nil, procErrs
	}

	album := &types.Album{Title: albumName, Genres: []string{}}
	seenGenres := make(map[string]bool)

	for start := 0; start < len(files); start += batchSize {
		end := start + batchSize
		if end > len(files) {
			end = len(files)
		}
		batch := files[start:end]

		results := make([]probeResult, len(batch))
		var g errgroup.Group
		for i, filePath := range batch {
			i, filePath := i, filePath
			g.Go(func() error {
				meta, err := s.safeProbe(filePath)
				results[i] = probeResult{meta: meta, err: err}
				return nil
			})
		}
		// Workers record their outcome in results and never return an
		// error themselves
		_ = g.Wait()

		// Merge with exclusive access now that the whole batch is done
		for i, res := range results {
			filePath := batch[i]
			if res.err != nil {
				procErrs = append(procErrs, types.ProcessingError{
					File:  filePath,
					Error: res.err.Error(),
				})
				continue
			}

			for _, genre := range res.meta.Genres {
				if !seenGenres[genre] {
					seenGenres[genre] = true
					album.Genres = append(album.Genres, genre)
				}
			}
			album.Tracks = append(album.Tracks, types.Track{
				Title: TitleOrFilename(res.meta.Title, filePath),
			})
		}
	}

	if len(album.Tracks) == 0 {
		return nil, procErrs
	}
	return album, procErrs
}

// safeProbe isolates a single probe invocation so that a panic inside a
// probe implementation surfaces as an ordinary error instead of killing
// the batch.
func (s *libraryScanner) safeProbe(filePath string) (meta *types.TrackMetadata, err error) {
	defer func() {
		if r := recover(); r != nil {
			meta = nil
			err = fmt.Errorf("probe panic: %v", r)
		}
	}()
	return s.probe.Probe(filePath)
}

func (s *libraryScanner) progress(artistName string, done, total, errorCount int) {
	if s.onProgress != nil {
		s.onProgress(artistName, done, total, errorCount)
	}
}

// DirExists reports whether path exists and is a directory
func DirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
