// internal/workers/valuation/aggregate-portfolio-value/queries/portfolio.go
package queries

import (
	"context"
	"database/sql"
	"time"

	"assessment-workers/internal/models"
	"assessment-workers/internal/scoring"
	"assessment-workers/internal/valuation"
)

// PortfolioEntries loads the per-use-case figures the aggregation consumes.
// An empty phase filter selects every non-retired use case.
func PortfolioEntries(ctx context.Context, db *sql.DB, phase string) ([]valuation.PortfolioEntry, error) {
	query := `
		SELECT id, phase, quadrant, investment_gbp, cumulative_value_gbp,
		       break_even_date, estimated_value_min, estimated_value_max
		FROM use_cases
		WHERE phase <> $1`
	args := []interface{}{models.PhaseRetired}
	if phase != "" {
		query += ` AND phase = $2`
		args = append(args, phase)
	}

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []valuation.PortfolioEntry
	for rows.Next() {
		var (
			id, entryPhase string
			quadrant       sql.NullString
			investment     sql.NullFloat64
			cumulative     sql.NullFloat64
			breakEven      sql.NullTime
			estMin, estMax sql.NullFloat64
		)
		if err := rows.Scan(&id, &entryPhase, &quadrant, &investment, &cumulative,
			&breakEven, &estMin, &estMax); err != nil {
			return nil, err
		}

		entry := valuation.PortfolioEntry{
			UseCaseID: id,
			Phase:     entryPhase,
		}
		if quadrant.Valid {
			entry.Quadrant = scoring.Quadrant(quadrant.String)
		}
		if investment.Valid {
			v := investment.Float64
			entry.Investment = &v
		}
		if cumulative.Valid {
			v := cumulative.Float64
			entry.CumulativeValue = &v
		}
		if breakEven.Valid {
			t := breakEven.Time.UTC().Truncate(24 * time.Hour)
			entry.BreakEvenDate = &t
		}
		if estMin.Valid && estMax.Valid {
			entry.EstimatedValue = &valuation.Range{Min: estMin.Float64, Max: estMax.Float64}
		}

		entries = append(entries, entry)
	}

	return entries, rows.Err()
}
