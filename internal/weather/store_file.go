package weather

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/klauspost/compress/zstd"

	"seaplan/internal/types"
)

// Snapshot is the fully loaded content of a weather store: the route node
// records and every weather sample row. Both backends produce this shape;
// the grid and route are built from it.
type Snapshot struct {
	Nodes   []types.SpatialNode
	Records []Record
}

// snapshotFile is the on-disk JSON schema inside the zstd frame. Hours are
// raw numbers so the integer-hour contract can be enforced at this boundary;
// weather fields are pointers so coastal nulls survive the trip.
type snapshotFile struct {
	Nodes   []nodeRow   `json:"nodes"`
	Samples []sampleRow `json:"samples"`
}

type nodeRow struct {
	NodeID       int     `json:"node_id"`
	Name         string  `json:"name,omitempty"`
	Lat          float64 `json:"lat"`
	Lon          float64 `json:"lon"`
	CumulativeNm float64 `json:"cumulative_nm"`
	IsOriginal   bool    `json:"is_original"`
}

type sampleRow struct {
	NodeID        int      `json:"node_id"`
	SampleHour    float64  `json:"sample_hour"`
	ForecastHour  *float64 `json:"forecast_hour,omitempty"`
	WindKmh       *float64 `json:"wind_kmh"`
	WindDirDeg    *float64 `json:"wind_dir_deg"`
	WaveHeightM   *float64 `json:"wave_height_m"`
	CurrentKmh    *float64 `json:"current_kmh"`
	CurrentDirDeg *float64 `json:"current_dir_deg"`
}

// LoadSnapshot reads a zstd-compressed JSON weather snapshot from path.
// Fractional or negative hour keys fail with InvalidTimeKey; undecodable
// content fails with StoreCorrupt.
func LoadSnapshot(path string, logger *slog.Logger) (*Snapshot, error) {
	if logger == nil {
		logger = slog.Default()
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, types.NewAppError(types.ErrCodeStoreUnavailable,
			fmt.Sprintf("opening weather snapshot %s", path), err)
	}
	defer f.Close()

	dec, err := zstd.NewReader(f, zstd.WithDecoderConcurrency(1))
	if err != nil {
		return nil, types.NewAppError(types.ErrCodeStoreCorrupt,
			fmt.Sprintf("initializing zstd decoder for %s", path), err)
	}
	defer dec.Close()

	raw, err := io.ReadAll(dec)
	if err != nil {
		return nil, types.NewAppError(types.ErrCodeStoreCorrupt,
			fmt.Sprintf("decompressing weather snapshot %s", path), err)
	}

	var file snapshotFile
	if err := json.Unmarshal(raw, &file); err != nil {
		return nil, types.NewAppError(types.ErrCodeStoreCorrupt,
			fmt.Sprintf("parsing weather snapshot %s", path), err)
	}

	snap, err := snapshotFromRows(file)
	if err != nil {
		return nil, err
	}
	logger.Info("weather snapshot loaded",
		"path", path,
		"nodes", len(snap.Nodes),
		"samples", len(snap.Records))
	return snap, nil
}

func snapshotFromRows(file snapshotFile) (*Snapshot, error) {
	nodes := make([]types.SpatialNode, 0, len(file.Nodes))
	for _, row := range file.Nodes {
		nodes = append(nodes, types.SpatialNode{
			Index:        row.NodeID,
			Name:         row.Name,
			Lat:          row.Lat,
			Lon:          row.Lon,
			CumulativeNm: row.CumulativeNm,
			IsOriginal:   row.IsOriginal,
		})
	}

	records := make([]Record, 0, len(file.Samples))
	for _, row := range file.Samples {
		hour, err := HourFromFloat(row.SampleHour)
		if err != nil {
			return nil, err
		}
		rec := Record{
			NodeID:        row.NodeID,
			SampleHour:    hour,
			WindKmh:       row.WindKmh,
			WindDirDeg:    row.WindDirDeg,
			WaveHeightM:   row.WaveHeightM,
			CurrentKmh:    row.CurrentKmh,
			CurrentDirDeg: row.CurrentDirDeg,
		}
		if row.ForecastHour != nil {
			issue, err := HourFromFloat(*row.ForecastHour)
			if err != nil {
				return nil, err
			}
			rec.ForecastHour = &issue
		}
		records = append(records, rec)
	}
	return &Snapshot{Nodes: nodes, Records: records}, nil
}
