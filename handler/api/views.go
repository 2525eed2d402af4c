package api

import (
	"errors"
	"math/big"
	"time"

	"github.com/pandodao/launchpad/core"
	"github.com/shopspring/decimal"
)

// Amounts cross the wire as decimal strings in display scale; internally
// everything is kept in smallest units (1e18 per whole token or coin).
const displayScale = 18

type createAssetRequest struct {
	TraceID     string `json:"trace_id"`
	Name        string `json:"name"`
	Symbol      string `json:"symbol"`
	Description string `json:"description"`
	LogoURL     string `json:"logo_url"`
	Payment     string `json:"payment"`
}

type tradeRequest struct {
	Quantity string `json:"quantity"`
	Payment  string `json:"payment"`
}

type withdrawRequest struct {
	To string `json:"to"`
}

type assetView struct {
	ID             string    `json:"id"`
	Creator        string    `json:"creator"`
	Name           string    `json:"name"`
	Symbol         string    `json:"symbol"`
	Description    string    `json:"description,omitempty"`
	LogoURL        string    `json:"logo_url,omitempty"`
	CurveSupply    string    `json:"curve_supply"`
	FundingReserve string    `json:"funding_reserve"`
	Launched       bool      `json:"launched"`
	CreatedAt      time.Time `json:"created_at"`
	LaunchedAt     time.Time `json:"launched_at,omitempty"`
}

func viewAsset(asset *core.Asset) assetView {
	return assetView{
		ID:             asset.ID,
		Creator:        asset.Creator,
		Name:           asset.Name,
		Symbol:         asset.Symbol,
		Description:    asset.Description,
		LogoURL:        asset.LogoURL,
		CurveSupply:    tokens(asset.CurveSupply),
		FundingReserve: currency(asset.FundingReserve),
		Launched:       asset.Launched,
		CreatedAt:      asset.CreatedAt,
		LaunchedAt:     asset.LaunchedAt,
	}
}

type tradeView struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	AssetID   string    `json:"asset_id"`
	Actor     string    `json:"actor"`
	Quantity  string    `json:"quantity"`
	Amount    string    `json:"amount"`
	Fee       string    `json:"fee"`
	CreatedAt time.Time `json:"created_at"`
}

func viewTrade(event *core.Event) tradeView {
	return tradeView{
		ID:        event.ID,
		Type:      event.Type.String(),
		AssetID:   event.AssetID,
		Actor:     event.Actor,
		Quantity:  tokens(event.Quantity),
		Amount:    currency(event.Amount),
		Fee:       currency(event.Fee),
		CreatedAt: event.CreatedAt,
	}
}

type buyResultView struct {
	Quantity string `json:"quantity"`
	Cost     string `json:"cost"`
	Fee      string `json:"fee"`
	Refund   string `json:"refund"`
	Launched bool   `json:"launched"`
}

func viewBuyResult(result *core.BuyResult) buyResultView {
	return buyResultView{
		Quantity: tokens(result.Quantity),
		Cost:     currency(result.Cost),
		Fee:      currency(result.Fee),
		Refund:   currency(result.Refund),
		Launched: result.Launched,
	}
}

type sellResultView struct {
	Quantity string `json:"quantity"`
	Refund   string `json:"refund"`
	Fee      string `json:"fee"`
	Payout   string `json:"payout"`
}

func viewSellResult(result *core.SellResult) sellResultView {
	return sellResultView{
		Quantity: tokens(result.Quantity),
		Refund:   currency(result.Refund),
		Fee:      currency(result.Fee),
		Payout:   currency(result.Payout),
	}
}

func currency(v *big.Int) string {
	if v == nil {
		return "0"
	}

	return decimal.NewFromBigInt(v, -displayScale).String()
}

func tokens(v *big.Int) string {
	return currency(v)
}

// parseAmount converts a display-scale decimal string to smallest units,
// truncating precision beyond the supported scale.
func parseAmount(s string) (*big.Int, error) {
	if s == "" {
		return big.NewInt(0), nil
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil, err
	}

	if d.IsNegative() {
		return nil, errors.New("negative amount")
	}

	return d.Shift(displayScale).BigInt(), nil
}

func parseQuantity(s string) (*big.Int, error) {
	return parseAmount(s)
}
