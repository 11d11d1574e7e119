package weather

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"seaplan/internal/types"
)

// DBTX is the minimal interface shared by *pgxpool.Pool and pgx.Tx, so the
// repository works inside or outside a transaction.
type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// StoreRepository reads the weather store's two tables: route_nodes (the
// ordered node sequence with cumulative distances) and weather_samples (six
// numeric weather fields keyed by node_id, sample_hour and a nullable
// forecast_hour that is NULL for ground-truth rows).
type StoreRepository struct {
	db DBTX
}

// NewStoreRepository creates a StoreRepository backed by the given database
// connection (pool or transaction).
func NewStoreRepository(db DBTX) *StoreRepository {
	return &StoreRepository{db: db}
}

const nodeColumns = `node_id, name, lat, lon, cumulative_nm, is_original`

const sampleColumns = `node_id, sample_hour, forecast_hour,
	wind_kmh, wind_dir_deg, wave_height_m, current_kmh, current_dir_deg`

// Load reads the full store into a Snapshot, enforcing the integer-hour
// contract on every time key as it crosses the boundary.
func (r *StoreRepository) Load(ctx context.Context) (*Snapshot, error) {
	nodes, err := r.loadNodes(ctx)
	if err != nil {
		return nil, err
	}
	records, err := r.loadSamples(ctx)
	if err != nil {
		return nil, err
	}
	return &Snapshot{Nodes: nodes, Records: records}, nil
}

func (r *StoreRepository) loadNodes(ctx context.Context) ([]types.SpatialNode, error) {
	query := fmt.Sprintf(`SELECT %s FROM route_nodes ORDER BY node_id`, nodeColumns)
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, types.NewAppError(types.ErrCodeStoreUnavailable, "querying route_nodes", err)
	}
	defer rows.Close()

	var nodes []types.SpatialNode
	for rows.Next() {
		var n types.SpatialNode
		var name *string
		if err := rows.Scan(&n.Index, &name, &n.Lat, &n.Lon, &n.CumulativeNm, &n.IsOriginal); err != nil {
			return nil, types.NewAppError(types.ErrCodeStoreCorrupt, "scanning route_nodes row", err)
		}
		if name != nil {
			n.Name = *name
		}
		nodes = append(nodes, n)
	}
	if err := rows.Err(); err != nil {
		return nil, types.NewAppError(types.ErrCodeStoreUnavailable, "reading route_nodes rows", err)
	}
	return nodes, nil
}

func (r *StoreRepository) loadSamples(ctx context.Context) ([]Record, error) {
	query := fmt.Sprintf(`SELECT %s FROM weather_samples ORDER BY node_id, sample_hour`, sampleColumns)
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, types.NewAppError(types.ErrCodeStoreUnavailable, "querying weather_samples", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var rawSample float64
		var rawForecast *float64
		rec := Record{}
		if err := rows.Scan(&rec.NodeID, &rawSample, &rawForecast,
			&rec.WindKmh, &rec.WindDirDeg, &rec.WaveHeightM,
			&rec.CurrentKmh, &rec.CurrentDirDeg); err != nil {
			return nil, types.NewAppError(types.ErrCodeStoreCorrupt, "scanning weather_samples row", err)
		}

		hour, err := HourFromFloat(rawSample)
		if err != nil {
			return nil, err
		}
		rec.SampleHour = hour
		if rawForecast != nil {
			issue, err := HourFromFloat(*rawForecast)
			if err != nil {
				return nil, err
			}
			rec.ForecastHour = &issue
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, types.NewAppError(types.ErrCodeStoreUnavailable, "reading weather_samples rows", err)
	}
	return records, nil
}
