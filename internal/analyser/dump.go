package analyser

import (
	"encoding/csv"
	"fmt"
	"os"
	"sort"

	"github.com/apexline/telemetry-coach/internal/lap"
)

// DumpNormalisedLap writes a NormalisedLap's channels to a CSV at outputPath,
// one row per metre of the distance grid, adapted from the teacher's
// ExportCSV (sam-dumont-rkd-telemetry-extractor/go/rkd/export.go): fixed
// column header, one os.Create/csv.Writer per call, no buffering of the
// whole file in memory.
func DumpNormalisedLap(l *lap.NormalisedLap, outputPath string) error {
	f, err := os.Create(outputPath)
	if err != nil {
		return err
	}
	defer f.Close()

	names := make([]string, 0, len(l.Channels))
	for name := range l.Channels {
		names = append(names, name)
	}
	sort.Strings(names)

	w := csv.NewWriter(f)
	defer w.Flush()

	header := append([]string{"distance_m"}, names...)
	if err := w.Write(header); err != nil {
		return err
	}

	row := make([]string, len(header))
	for i, d := range l.IndexM {
		row[0] = fmt.Sprintf("%d", d)
		for j, name := range names {
			row[j+1] = fmt.Sprintf("%.6f", l.Channels[name][i])
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}
