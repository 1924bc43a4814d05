package prices

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/de-tools/price-atlas/pkg/models/store"
	"github.com/rs/zerolog"
)

// Store reads price observations from a CSV or Parquet file, either on the
// local filesystem or in S3. The file is read on every call.
type Store interface {
	GetObservations(ctx context.Context) ([]store.PriceRecord, error)
	ListReferenceDates(ctx context.Context) ([]time.Time, error)
	GetStats(ctx context.Context) (*store.PriceStats, error)
}

type fileStore struct {
	uri    string
	format Format
	opener Opener
}

// NewStore binds a store to uri. An empty format is detected from the
// extension and a nil opener reads local files.
func NewStore(uri string, format Format, opener Opener) (Store, error) {
	if uri == "" {
		return nil, fmt.Errorf("file uri is required")
	}

	if format == "" {
		detected, err := DetectFormat(uri)
		if err != nil {
			return nil, err
		}
		format = detected
	} else if _, err := ParseFormat(string(format)); err != nil {
		return nil, err
	}

	if opener == nil {
		if IsS3URI(uri) {
			return nil, fmt.Errorf("an s3 opener is required for %s", uri)
		}
		opener = localOpener{}
	}

	return &fileStore{
		uri:    uri,
		format: format,
		opener: opener,
	}, nil
}

func (f *fileStore) GetObservations(ctx context.Context) ([]store.PriceRecord, error) {
	logger := zerolog.Ctx(ctx)

	rc, err := f.opener.Open(ctx, f.uri)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", f.uri, err)
	}
	defer func() {
		if err := rc.Close(); err != nil {
			logger.Warn().Err(err).Str("uri", f.uri).Msg("failed to close price file")
		}
	}()

	records, err := Decode(rc, f.format)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", f.uri, err)
	}

	logger.Debug().
		Str("uri", f.uri).
		Str("format", string(f.format)).
		Int("records", len(records)).
		Msg("loaded price file")
	return records, nil
}

func (f *fileStore) ListReferenceDates(ctx context.Context) ([]time.Time, error) {
	records, err := f.GetObservations(ctx)
	if err != nil {
		return nil, err
	}

	seen := make(map[time.Time]struct{})
	dates := make([]time.Time, 0)
	for _, r := range records {
		if _, ok := seen[r.ReferenceDate]; ok {
			continue
		}
		seen[r.ReferenceDate] = struct{}{}
		dates = append(dates, r.ReferenceDate)
	}
	sort.Slice(dates, func(i, j int) bool {
		return dates[i].After(dates[j])
	})
	return dates, nil
}

func (f *fileStore) GetStats(ctx context.Context) (*store.PriceStats, error) {
	records, err := f.GetObservations(ctx)
	if err != nil {
		return nil, err
	}

	stats := &store.PriceStats{RecordsCount: int64(len(records))}
	seen := make(map[time.Time]struct{})
	for _, r := range records {
		d := r.ReferenceDate
		if _, ok := seen[d]; !ok {
			seen[d] = struct{}{}
			stats.DatesCount++
		}
		if stats.FirstDate == nil || d.Before(*stats.FirstDate) {
			stats.FirstDate = &d
		}
		if stats.LastDate == nil || d.After(*stats.LastDate) {
			stats.LastDate = &d
		}
	}
	return stats, nil
}
