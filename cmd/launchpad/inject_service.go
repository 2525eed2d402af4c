package main

import (
	"github.com/google/wire"
	"github.com/pandodao/launchpad/core"
	"github.com/pandodao/launchpad/service/event"
	"github.com/pandodao/launchpad/service/exchange"
	"github.com/pandodao/launchpad/service/launch"
	"github.com/pandodao/launchpad/service/pool"
	"github.com/spf13/viper"
)

var serviceSet = wire.NewSet(
	provideBus,
	provideExchangeConfig,
	provideLaunchConfig,
	pool.New,
	wire.Bind(new(core.LiquidityProvider), new(*pool.Provider)),
	launch.New,
	exchange.New,
)

func provideBus(v *viper.Viper) core.EventBus {
	v.SetDefault("bus.size", 1024)

	return event.New(v.GetInt("bus.size"))
}

func provideExchangeConfig(v *viper.Viper) exchange.Config {
	v.SetDefault("curve.fee_bps", 100)

	return exchange.Config{
		InitialPrice:     v.GetString("curve.initial_price"),
		Slope:            v.GetString("curve.slope"),
		FeeBps:           v.GetInt64("curve.fee_bps"),
		CreationFee:      v.GetString("curve.creation_fee"),
		FundingGoal:      v.GetString("curve.funding_goal"),
		CurveSupplyCap:   v.GetInt64("curve.supply_cap"),
		LiquidityReserve: v.GetInt64("curve.liquidity_reserve"),
		Operator:         v.GetString("operator.id"),
	}
}

func provideLaunchConfig(v *viper.Viper) launch.Config {
	return launch.Config{
		ListingFee:       v.GetString("launch.listing_fee"),
		LiquidityReserve: v.GetInt64("curve.liquidity_reserve"),
	}
}
