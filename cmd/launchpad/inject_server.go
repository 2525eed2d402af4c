package main

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/wire"
	"github.com/pandodao/launchpad/handler/api"
	"github.com/pandodao/launchpad/handler/hc"
	"github.com/rs/cors"
	"github.com/spf13/viper"
)

var serverSet = wire.NewSet(
	provideApiConfig,
	api.New,
	provideServer,
)

func provideApiConfig(v *viper.Viper) api.Config {
	return api.Config{
		Operator:    v.GetString("operator.id"),
		OperatorKey: v.GetString("operator.key"),
	}
}

func provideServer(apiHandler *api.Server) *http.Server {
	m := chi.NewMux()
	m.Use(middleware.RealIP)
	m.Use(middleware.Logger)
	m.Use(middleware.Recoverer)
	m.Use(cors.AllowAll().Handler)

	m.Mount("/api", apiHandler.Handler())
	m.Mount("/hc", hc.Handler(version))

	return &http.Server{
		Addr:    fmt.Sprintf(":%d", opt.port),
		Handler: m,
	}
}
