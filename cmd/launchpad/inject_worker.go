package main

import (
	"time"

	"github.com/google/wire"
	"github.com/pandodao/launchpad/worker/journal"
	"github.com/spf13/viper"
)

var workerSet = wire.NewSet(
	provideJournalConfig,
	journal.New,
)

func provideJournalConfig(v *viper.Viper) journal.Config {
	v.SetDefault("journal.batch_size", 100)
	v.SetDefault("journal.flush_interval", time.Second)

	return journal.Config{
		BatchSize:     v.GetInt("journal.batch_size"),
		FlushInterval: v.GetDuration("journal.flush_interval"),
	}
}
