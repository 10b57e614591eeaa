package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/athtracker/athtracker-backend/internal/apperrors"
	"github.com/athtracker/athtracker-backend/internal/model"
	"github.com/shopspring/decimal"
)

// AssetRepository provides data access methods for the asset table.
// It stores the current catalog only; rows are replaced on every save.
type AssetRepository struct {
	db *sql.DB
	tx *sql.Tx
}

// NewAssetRepository creates a new AssetRepository with the provided database connection.
func NewAssetRepository(db *sql.DB) *AssetRepository {
	return &AssetRepository{db: db}
}

func (r *AssetRepository) WithTx(tx *sql.Tx) *AssetRepository {
	return &AssetRepository{
		db: r.db,
		tx: tx,
	}
}

func (r *AssetRepository) getQuerier() interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
} {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

// Load retrieves the catalog in its stored order.
// Returns an empty slice if the table has no rows.
func (r *AssetRepository) Load(ctx context.Context) ([]model.Asset, error) {
	query := `
		SELECT name, api_source, label, friendly_name, category, sector, link, start_date,
		       current_price, current_price_date, ath, ath_date, cheap, percent_below, extra
		FROM asset
		ORDER BY position ASC
	`

	rows, err := r.getQuerier().QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrFailedToLoadCatalog, err)
	}
	defer rows.Close()

	assets := []model.Asset{}
	for rows.Next() {
		var (
			a                          model.Asset
			source                     string
			currentPrice, ath, percent decimal.Decimal
			currentDate, athDate       sql.NullString
			extra                      sql.NullString
		)
		if err := rows.Scan(
			&a.Symbol, &source, &a.Label, &a.FriendlyName, &a.Category, &a.Sector, &a.Link, &a.StartDate,
			&currentPrice, &currentDate, &ath, &athDate, &a.Cheap, &percent, &extra,
		); err != nil {
			return nil, fmt.Errorf("%w: %v", apperrors.ErrFailedToLoadCatalog, err)
		}

		a.Source = model.SourceKind(source)
		a.CurrentPrice = currentPrice
		a.ATH = ath
		a.PercentBelow = percent
		if a.CurrentPriceDate, err = parseNullTime(currentDate); err != nil {
			return nil, fmt.Errorf("%w: asset %s: %v", apperrors.ErrFailedToLoadCatalog, a.Symbol, err)
		}
		if a.ATHDate, err = parseNullTime(athDate); err != nil {
			return nil, fmt.Errorf("%w: asset %s: %v", apperrors.ErrFailedToLoadCatalog, a.Symbol, err)
		}
		if a.Extra, err = parseExtra(extra); err != nil {
			return nil, fmt.Errorf("%w: asset %s: %v", apperrors.ErrFailedToLoadCatalog, a.Symbol, err)
		}
		assets = append(assets, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrFailedToLoadCatalog, err)
	}
	return assets, nil
}

// Save replaces the whole catalog in one transaction. A failure rolls back
// and leaves the previous rows in place.
func (r *AssetRepository) Save(ctx context.Context, assets []model.Asset) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrFailedToSaveCatalog, err)
	}
	defer func() { _ = tx.Rollback() }()

	repo := r.WithTx(tx)
	if _, err := repo.getQuerier().ExecContext(ctx, `DELETE FROM asset`); err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrFailedToSaveCatalog, err)
	}

	query := `
		INSERT INTO asset (
			position, name, api_source, label, friendly_name, category, sector, link, start_date,
			current_price, current_price_date, ath, ath_date, cheap, percent_below, extra
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	for i, a := range assets {
		extra, err := nullExtra(a.Extra)
		if err != nil {
			return fmt.Errorf("%w: asset %s: %v", apperrors.ErrFailedToSaveCatalog, a.Symbol, err)
		}
		_, err = repo.getQuerier().ExecContext(ctx, query,
			i, a.Symbol, string(a.Source), a.Label, a.FriendlyName, a.Category, a.Sector, a.Link, a.StartDate,
			a.CurrentPrice.String(), nullTime(a.CurrentPriceDate), a.ATH.String(), nullTime(a.ATHDate),
			a.Cheap, a.PercentBelow.String(), extra,
		)
		if err != nil {
			return fmt.Errorf("%w: asset %s: %v", apperrors.ErrFailedToSaveCatalog, a.Symbol, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrFailedToSaveCatalog, err)
	}
	return nil
}
