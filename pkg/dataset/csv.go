package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
)

// Columns carried by herd-monitoring exports that never contribute to the
// model: animal identifiers, timestamps and breed descriptors.
var irrelevantColumns = []string{"cow", "TIME", "date", "calvdate", "breed"}

// parityMapping converts the textual parity descriptor into a pregnancy count.
var parityMapping = map[string]float64{
	"primiparous": 1,
	"multiparous": 2,
	"nulliparous": 0,
	"1":           1,
	"2":           2,
	"0":           0,
}

// LoadCSV reads a raw herd-monitoring CSV into a Dataset. Identifier and
// timestamp columns are dropped, the parity descriptor is normalized to a
// numeric count, and any remaining unparseable cell becomes NaN.
func LoadCSV(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset: %w", err)
	}
	defer f.Close()
	return ReadCSV(f)
}

// ReadCSV parses CSV content from a reader. The first record is the header.
func ReadCSV(r io.Reader) (*Dataset, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	raw := make([][]string, 0, 256)
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read record: %w", err)
		}
		raw = append(raw, record)
	}

	ds := New(len(raw))
	for j, name := range header {
		name = strings.TrimSpace(name)
		if isIrrelevant(name) {
			continue
		}

		values := make([]float64, len(raw))
		if name == "parity" {
			parseParity(raw, j, values)
		} else {
			for i, record := range raw {
				values[i] = parseCell(record, j)
			}
		}
		if err := ds.AddColumn(name, values); err != nil {
			return nil, err
		}
	}
	return ds, nil
}

func isIrrelevant(name string) bool {
	for _, c := range irrelevantColumns {
		if name == c {
			return true
		}
	}
	return false
}

func parseCell(record []string, j int) float64 {
	if j >= len(record) {
		return math.NaN()
	}
	cell := strings.TrimSpace(record[j])
	if cell == "" {
		return math.NaN()
	}
	v, err := strconv.ParseFloat(cell, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

// parseParity maps textual parity descriptors to numeric counts. Values that
// match neither the descriptor table nor a plain number are filled with the
// mode of the mapped values.
func parseParity(raw [][]string, j int, values []float64) {
	counts := make(map[float64]int)
	unmapped := make([]int, 0)

	for i, record := range raw {
		if j >= len(record) {
			values[i] = math.NaN()
			unmapped = append(unmapped, i)
			continue
		}
		cell := strings.ToLower(strings.TrimSpace(record[j]))
		if mapped, ok := parityMapping[cell]; ok {
			values[i] = mapped
			counts[mapped]++
			continue
		}
		if v, err := strconv.ParseFloat(cell, 64); err == nil {
			values[i] = v
			counts[v]++
			continue
		}
		values[i] = math.NaN()
		unmapped = append(unmapped, i)
	}

	if len(unmapped) == 0 {
		return
	}
	mode := 1.0
	best := 0
	for v, n := range counts {
		if n > best {
			best = n
			mode = v
		}
	}
	for _, i := range unmapped {
		values[i] = mode
	}
}
