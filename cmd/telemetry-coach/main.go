// telemetry-coach — coaching telemetry analysis core.
//
// Decodes a vendor binary capture, segments the reference lap into corners,
// compares it against a representative contrast lap, and emits a single
// structured CoachingPayload per input file.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/apexline/telemetry-coach/internal/analyser"
	"github.com/apexline/telemetry-coach/internal/errs"
	"github.com/apexline/telemetry-coach/internal/logx"
	"github.com/apexline/telemetry-coach/internal/trackstore"
)

func findCaptureFiles(dir, ext string) ([]string, error) {
	var files []string
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && strings.EqualFold(filepath.Ext(path), ext) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}

func exitCodeFor(err error) int {
	if err == nil {
		return 0
	}
	var e *errs.Error
	if errors.As(err, &e) {
		switch e.Kind {
		case errs.MalformedCapture, errs.UnsupportedChannelType, errs.MissingChannel:
			return 2
		case errs.NoUsableLap:
			return 3
		case errs.TrackStoreUnavailable:
			return 4
		}
	}
	return 1
}

func processFile(ctx context.Context, a *analyser.Analyser, path, outputDir string) (*analyser.CoachingPayload, error) {
	payload, err := a.Analyse(ctx, path)
	if err != nil {
		return nil, err
	}

	if outputDir != "" {
		if err := os.MkdirAll(outputDir, 0o755); err != nil {
			return nil, err
		}
		stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		out, err := os.Create(filepath.Join(outputDir, stem+".coaching.json"))
		if err != nil {
			return nil, err
		}
		defer out.Close()
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(payload); err != nil {
			return nil, err
		}
	}

	return payload, nil
}

func run() int {
	fs := flag.NewFlagSet("telemetry-coach", flag.ContinueOnError)
	allIn := fs.String("all-in", "", "Recursively analyse every capture file in DIR")
	ext := fs.String("ext", ".cap", "File extension to match with --all-in")
	outputDir := fs.String("output-dir", "", "Directory for CoachingPayload JSON (default: stdout only)")
	trackStorePath := fs.String("track-store", "", "Path to the SQLite track store (default: in-memory, corners left unnamed)")
	landmarksPath := fs.String("landmarks", "", "Path to a landmarks dataset JSON file, used to seed unnamed tracks")
	preset := fs.String("preset", "", "Override the track_type-derived corner preset (road, street, oval)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: telemetry-coach [options] <capture-file>\n\n")
		fmt.Fprintf(os.Stderr, "Analyse a telemetry capture and print a coaching payload.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExample: telemetry-coach --track-store tracks.db session.cap\n")
	}

	if err := fs.Parse(os.Args[1:]); err != nil {
		return 1
	}

	log := logx.New(nil)

	dsn := *trackStorePath
	if dsn == "" {
		dsn = ":memory:"
	}
	store, err := trackstore.Open(dsn)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening track store: %v\n", err)
		return exitCodeFor(err)
	}
	defer store.Close()

	var landmarks trackstore.LandmarksDataset
	if *landmarksPath != "" {
		landmarks, err = trackstore.LoadLandmarksJSON(*landmarksPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading landmarks dataset: %v\n", err)
			return 1
		}
	}

	a := analyser.New(store, log, analyser.Config{Preset: *preset, Landmarks: landmarks})
	ctx := context.Background()

	if *allIn != "" {
		files, err := findCaptureFiles(*allIn, *ext)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error scanning directory: %v\n", err)
			return 1
		}
		if len(files) == 0 {
			fmt.Fprintf(os.Stderr, "No %s files found in %s\n", *ext, *allIn)
			return 1
		}
		worstCode := 0
		for _, f := range files {
			if _, err := processFile(ctx, a, f, *outputDir); err != nil {
				fmt.Fprintf(os.Stderr, "Error processing %s: %v\n", f, err)
				if code := exitCodeFor(err); code > worstCode {
					worstCode = code
				}
			}
		}
		return worstCode
	}

	if fs.NArg() < 1 {
		fs.Usage()
		return 1
	}

	inputPath := fs.Arg(0)
	if _, err := os.Stat(inputPath); os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "Error: File not found: %s\n", inputPath)
		return 1
	}

	payload, err := processFile(ctx, a, inputPath, *outputDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return exitCodeFor(err)
	}

	if *outputDir == "" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		enc.Encode(payload)
	}

	return 0
}

func main() {
	os.Exit(run())
}
