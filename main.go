package main

import (
	"errors"
	"net/http"
	"time"

	"github.com/ncc-robotics/workshop-survey/app"
	"github.com/ncc-robotics/workshop-survey/backend"
	"github.com/ncc-robotics/workshop-survey/config"
	"github.com/ncc-robotics/workshop-survey/httpx"
	"github.com/ncc-robotics/workshop-survey/localstore"
	"github.com/ncc-robotics/workshop-survey/log"
	"github.com/ncc-robotics/workshop-survey/routes"
	"github.com/ncc-robotics/workshop-survey/store"
)

func main() {
	cfg, err := config.ParseFlags()
	if err != nil {
		log.Fatal("main.config:", err)
	}
	if cfg.Debug {
		log.SetLevel(log.DebugLevel)
	}

	local, err := localstore.Open(cfg.LocalDBPath)
	if err != nil {
		log.Fatal("main.localstore.open:", err)
	}
	defer local.Close()

	remote := newRemote(cfg)
	submissions := store.New(remote, local)

	bearerServer := httpx.NewBearerServer(cfg)

	app := app.App{
		Store:        submissions,
		BearerServer: bearerServer,
		Config:       cfg,
	}

	handler := routes.Wire(app)

	err = runServer(cfg, handler)
	if !errors.Is(err, http.ErrServerClosed) {
		log.Fatal("main.server:", err)
	}
}

func newRemote(cfg config.Config) backend.Remote {
	switch cfg.Backend {
	case "appwrite":
		return backend.NewAppwrite(backend.AppwriteConfig{
			Endpoint:     cfg.AppwriteEndpoint,
			ProjectID:    cfg.AppwriteProjectID,
			APIKey:       cfg.AppwriteAPIKey,
			DatabaseID:   cfg.AppwriteDatabaseID,
			CollectionID: cfg.AppwriteCollectionID,
		}, cfg.RemoteTimeout)
	case "supabase":
		return backend.NewSupabase(backend.SupabaseConfig{
			URL:     cfg.SupabaseURL,
			AnonKey: cfg.SupabaseAnonKey,
			Table:   cfg.SupabaseTable,
		}, cfg.RemoteTimeout)
	}
	// an unknown backend name behaves like an unconfigured remote:
	// submissions still work through the local fallback
	log.Warnf("main: unknown SURVEY_BACKEND %q, remote disabled", cfg.Backend)
	return nil
}

func runServer(cfg config.Config, handler http.Handler) error {
	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      handler,
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	log.Info("Listening on " + cfg.Url())
	return srv.ListenAndServe()
}
