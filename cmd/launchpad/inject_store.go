package main

import (
	"github.com/google/wire"
	_ "github.com/lib/pq"
	"github.com/pandodao/launchpad/store/asset"
	"github.com/pandodao/launchpad/store/balance"
	"github.com/pandodao/launchpad/store/db"
	"github.com/pandodao/launchpad/store/trade"
	"github.com/pandodao/launchpad/store/treasury"
	"github.com/spf13/viper"
	"github.com/tsenart/nap"
)

var storeSet = wire.NewSet(
	provideDB,
	asset.New,
	balance.New,
	treasury.New,
	trade.New,
)

func provideDB(v *viper.Viper) (*nap.DB, func(), error) {
	v.SetDefault("db.driver", "postgres")

	driver := v.GetString("db.driver")
	dsn := v.GetString("db.dsn")

	for _, replica := range v.GetStringSlice("db.replicas") {
		dsn += ";" + replica
	}

	conn, err := nap.Open(driver, dsn)
	if err != nil {
		return nil, nil, err
	}

	if err := db.Migrate(conn.Master()); err != nil {
		return nil, nil, err
	}

	return conn, func() { _ = conn.Close() }, nil
}
