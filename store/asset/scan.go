package asset

import (
	"database/sql"
	"fmt"
	"math/big"

	"github.com/pandodao/launchpad/core"
)

type scanner interface {
	Scan(dest ...interface{}) error
}

var scanColumns = []string{
	"id",
	"creator",
	"name",
	"symbol",
	"description",
	"logo_url",
	"curve_supply",
	"funding_reserve",
	"launched",
	"created_at",
	"launched_at",
}

func scanAsset(scanner scanner, asset *core.Asset) error {
	var (
		supply     string
		reserve    string
		launchedAt sql.NullTime
	)

	if err := scanner.Scan(
		&asset.ID,
		&asset.Creator,
		&asset.Name,
		&asset.Symbol,
		&asset.Description,
		&asset.LogoURL,
		&supply,
		&reserve,
		&asset.Launched,
		&asset.CreatedAt,
		&launchedAt,
	); err != nil {
		return err
	}

	var err error
	if asset.CurveSupply, err = parseNumeric(supply); err != nil {
		return err
	}

	if asset.FundingReserve, err = parseNumeric(reserve); err != nil {
		return err
	}

	asset.LaunchedAt = launchedAt.Time
	return nil
}

func parseNumeric(s string) (*big.Int, error) {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, fmt.Errorf("asset: malformed numeric %q", s)
	}

	return v, nil
}
