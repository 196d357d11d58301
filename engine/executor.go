package engine

import (
	"github.com/spektr-org/shelfscope/schema"
)

// ============================================================================
// EXECUTOR — Dispatcher for the three chart aggregations
// ============================================================================
// Entry point: Execute(kind, dataset, opts...)
//
// Pipeline:
//   1. Resolve the role columns the chart needs (cached per dataset)
//   2. Run the aggregator for the chart kind
//   3. Attach title + summary text
//   4. Return Result
//
// Execute is pure over (rows, options): no I/O, no retained state beyond the
// dataset's own resolution cache, identical output for identical input.
// ============================================================================

// Execute runs the aggregation for kind over ds and returns a render-ready
// Result. Missing columns or empty data yield an empty Result, never an error.
func Execute(kind ChartKind, ds *Dataset, opts ...Option) *Result {
	cfg := applyOptions(opts)
	log := cfg.Logger.With().Str("chart", string(kind)).Logger()

	result := &Result{
		Kind:    kind,
		Title:   titleFor(kind),
		Rows:    ds.Len(),
		Columns: map[string]string{},
	}

	if ds.Len() == 0 {
		log.Debug().Msg("no rows to aggregate")
		result.Summary = BuildSummary(result)
		return result
	}

	log.Debug().Int("rows", ds.Len()).Msg("processing records")

	switch kind {
	case ChartGenres:
		key, ok := ds.Resolve(schema.Genre)
		if !ok {
			log.Debug().Msg("genre column not found")
			result.Genres = []CountRecord{}
			break
		}
		result.Columns[schema.Genre.Name] = key
		result.Genres = GenreCounts(ds, key, cfg.TopN, opts...)

	case ChartHeatmap:
		yearKey, okY := ds.Resolve(schema.Year)
		ratingKey, okR := ds.Resolve(schema.Rating)
		if okY {
			result.Columns[schema.Year.Name] = yearKey
		}
		if okR {
			result.Columns[schema.Rating.Name] = ratingKey
		}
		if !okY || !okR {
			log.Debug().Bool("year", okY).Bool("rating", okR).Msg("heatmap columns not found")
			yearKey, ratingKey = "", ""
		}
		result.Heatmap = RatingDecadeGrid(ds, yearKey, ratingKey, opts...)
		log.Debug().Int("binned", result.Heatmap.Total).Int("dropped", result.Heatmap.Dropped).Msg("records binned")

	case ChartParallel:
		sel := SelectDimensions(ds, opts...)
		if sel.TitleKey != "" {
			result.Columns[schema.Title.Name] = sel.TitleKey
		}
		result.Projection = BuildProjection(ds, sel, opts...)
		log.Debug().
			Strs("dimensions", schema.Keys(sel.Selected)).
			Int("lines", len(result.Projection.Records)).
			Int("dropped", result.Projection.Dropped).
			Msg("projection prepared")

	default:
		log.Warn().Msg("unknown chart kind")
	}

	result.Summary = BuildSummary(result)
	return result
}

func titleFor(kind ChartKind) string {
	switch kind {
	case ChartGenres:
		return "Top Genres"
	case ChartHeatmap:
		return "Ratings by Publication Decade"
	case ChartParallel:
		return "Book Attributes"
	}
	return string(kind)
}
