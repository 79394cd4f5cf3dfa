package types

// Track represents one successfully probed audio file
type Track struct {
	Title string `json:"title"`
}

// Album aggregates the tracks found in one album directory
type Album struct {
	Title  string   `json:"albumTitle"`
	Genres []string `json:"genres"`
	Tracks []Track  `json:"tracks"`
}

// Artist aggregates the non-empty albums of one artist directory
type Artist struct {
	Name   string  `json:"artistName"`
	Albums []Album `json:"albums"`
}

// ProcessingError records a single failed file or directory operation.
// Exactly one entry is produced per failure; failures never abort the scan.
type ProcessingError struct {
	File  string `json:"file"`
	Error string `json:"error"`
}

// ScanResult is the aggregate outcome of one library scan
type ScanResult struct {
	Artists []Artist          `json:"artists"`
	Errors  []ProcessingError `json:"errors"`
}

// TrackMetadata holds what a metadata probe extracts from one audio file
type TrackMetadata struct {
	Title  string
	Genres []string
}
