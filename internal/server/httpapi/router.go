// Package httpapi exposes the backend over HTTP/JSON: account endpoints,
// per-collection document CRUD and equality queries.
package httpapi

import (
	"time"

	"github.com/gin-gonic/gin"

	"shelftrack/internal/logging"
	"shelftrack/internal/server/store"
)

// API bundles the dependencies shared by all handlers.
type API struct {
	store         store.Store
	logger        logging.Logger
	secretKey     []byte
	tokenValidity time.Duration
	bcryptCost    int
}

func NewAPI(s store.Store, logger logging.Logger, secretKey []byte, tokenValidity time.Duration, bcryptCost int) *API {
	return &API{
		store:         s,
		logger:        logger,
		secretKey:     secretKey,
		tokenValidity: tokenValidity,
		bcryptCost:    bcryptCost,
	}
}

// NewRouter wires all routes onto a gin engine.
func (a *API) NewRouter() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	api := r.Group("/api")
	{
		api.POST("/register", a.Register)
		api.POST("/login", a.Login)

		authed := api.Group("")
		authed.Use(a.RequireAuth())
		{
			authed.POST("/logout", a.Logout)
			authed.GET("/me", a.Me)

			col := authed.Group("/collections/:col")
			col.GET("/docs/:id", a.GetDoc)
			col.POST("/docs", a.AddDoc)
			col.PUT("/docs/:id", a.SetDoc)
			col.PATCH("/docs/:id", a.UpdateDoc)
			col.DELETE("/docs/:id", a.DeleteDoc)
			col.POST("/query", a.QueryDocs)
		}
	}

	return r
}
