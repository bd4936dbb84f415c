package app

import (
	"github.com/go-chi/oauth"

	"github.com/ncc-robotics/workshop-survey/config"
	"github.com/ncc-robotics/workshop-survey/store"
)

type App struct {
	Store *store.Store
	*oauth.BearerServer
	config.Config
}
