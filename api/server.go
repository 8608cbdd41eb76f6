// Package api serves read-only evaluation results over HTTP: persisted
// run states and the leaderboard.
package api

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/stellarlinkco/invisiblebench/internal/config"
	"github.com/stellarlinkco/invisiblebench/internal/leaderboard"
	"github.com/stellarlinkco/invisiblebench/internal/runstate"
)

type Server struct {
	router  *gin.Engine
	runs    *runstate.Store
	lbStore *leaderboard.Store
	config  *config.Config
}

func NewServer(cfg *config.Config, runs *runstate.Store, lbStore *leaderboard.Store) (*Server, error) {
	r := gin.New()
	s := &Server{
		router:  r,
		runs:    runs,
		lbStore: lbStore,
		config:  cfg,
	}
	s.registerMiddleware()
	if err := s.registerRoutes(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Server) Run(addr string) error {
	if s == nil || s.router == nil {
		return errors.New("api: nil server")
	}
	addr = strings.TrimSpace(addr)
	if addr == "" {
		addr = ":8080"
	}
	return s.router.Run(addr)
}
