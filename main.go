package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"melodex/cmd"
	"melodex/config"
	"melodex/services"
	"melodex/types"

	"github.com/schollz/progressbar/v3"
)

const version = "1.0.0"

func main() {
	asciiArt := `
 __  __      _           _
|  \/  | ___| | ___   __| | _____  __
| |\/| |/ _ \ |/ _ \ / _` + "`" + ` |/ _ \ \/ /
| |  | |  __/ | (_) | (_| |  __/>  <
|_|  |_|\___|_|\___/ \__,_|\___/_/\_\
`

	var (
		musicDir    string
		output      string
		limit       int
		showVersion bool
		server      bool
		port        int
	)

	flag.StringVar(&musicDir, "music-dir", "", "Music library root to scan (or MUSIC_DIR env)")
	flag.StringVar(&musicDir, "m", "", "Shorthand for -music-dir")
	flag.StringVar(&output, "output", "", "Report output directory or file")
	flag.StringVar(&output, "o", "", "Shorthand for -output")
	flag.IntVar(&limit, "limit", 0, "Maximum number of artist directories to scan (0 = unlimited)")
	flag.IntVar(&limit, "l", 0, "Shorthand for -limit")
	flag.BoolVar(&showVersion, "version", false, "Print version and exit")
	flag.BoolVar(&showVersion, "v", false, "Shorthand for -version")
	flag.BoolVar(&server, "server", false, "Start in web server mode")
	flag.IntVar(&port, "port", 8080, "Port for web server mode")
	flag.Parse()

	if showVersion {
		fmt.Printf("melodex %s\n", version)
		return
	}

	// Server mode takes precedence
	if server {
		cmd.StartWebServer(port)
		return
	}

	if musicDir == "" {
		musicDir = config.GetMusicDir()
	}
	if output == "" {
		output = config.GetOutputLocation()
	}

	if !services.DirExists(musicDir) {
		log.Fatalf("You must provide a valid music directory (got %q)", musicDir)
	}

	fmt.Print(asciiArt)
	log.Printf("Scanning music library: %s", musicDir)

	result := runScan(musicDir, limit)
	saveAndReport(result, output)
}

// runScan walks the library with a per-artist progress bar
func runScan(musicDir string, limit int) *types.ScanResult {
	var bar *progressbar.ProgressBar
	scanner := services.NewLibraryScanner(services.NewMetadataProbe(), func(artistName string, done, total, errorCount int) {
		if bar == nil {
			bar = progressbar.NewOptions(total,
				progressbar.OptionSetDescription("Scanning artists"),
				progressbar.OptionSetWriter(os.Stderr),
				progressbar.OptionShowCount(),
				progressbar.OptionClearOnFinish(),
			)
		}
		bar.Add(1)
	})

	artists, procErrs := scanner.ScanDirectory(musicDir, limit)
	if bar != nil {
		bar.Finish()
	}

	return &types.ScanResult{Artists: artists, Errors: procErrs}
}

// saveAndReport writes the reports and prints the final summary
func saveAndReport(result *types.ScanResult, output string) {
	reportPath, errorsPath, err := services.NewReportWriter().Save(result, output)
	if err != nil {
		log.Fatalf("Failed to save report: %v", err)
	}

	log.Printf("Artists written: %d", len(result.Artists))
	log.Printf("Errors encountered: %d", len(result.Errors))

	if reportPath != "" {
		log.Printf("Report: %s", reportPath)
	} else {
		log.Printf("No artists found, report not written")
	}

	if len(result.Errors) > 0 {
		sample := result.Errors
		if len(sample) > 5 {
			sample = sample[:5]
		}
		for _, procErr := range sample {
			log.Printf("  %s: %s", procErr.File, procErr.Error)
		}
		if len(result.Errors) > len(sample) {
			log.Printf("  ... %d more", len(result.Errors)-len(sample))
		}
		log.Printf("Error report: %s", errorsPath)
	}
}
