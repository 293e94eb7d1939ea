// Package web wires the parsing engine behind an HTTP API.
package web

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog"

	"github.com/phonebook-parser/internal/busword"
	"github.com/phonebook-parser/internal/classify"
	"github.com/phonebook-parser/internal/learn"
	"github.com/phonebook-parser/internal/parser"
	"github.com/phonebook-parser/internal/store"
	"github.com/phonebook-parser/internal/web/handlers"
	"github.com/phonebook-parser/internal/web/middleware"
)

// Server represents the web server
type Server struct {
	config     *Config
	db         *sql.DB
	engine     *parser.Engine
	classifier classify.Classifier
	learner    *learn.Learner
	streets    *store.StreetStore
	httpServer *http.Server
	router     *mux.Router
	log        zerolog.Logger
}

// NewServer creates a new web server instance
func NewServer(config *Config, log zerolog.Logger) (*Server, error) {
	db, err := sql.Open("postgres", config.Database.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(config.Database.MaxConnections)
	db.SetMaxIdleConns(config.Database.MaxConnections / 2)
	db.SetConnMaxLifetime(time.Hour)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	words := store.NewWordStore(db, log)
	streets := store.NewStreetStore(db, log)
	communities := store.NewCommunityStore(db, log)

	analyzer := busword.NewAnalyzer(words, log)

	classifier, err := classify.New(classify.Config{
		Strategy:  config.Parser.Strategy,
		Threshold: config.Parser.Threshold,
	}, words, words, analyzer, log)
	if err != nil {
		return nil, fmt.Errorf("failed to build classifier: %w", err)
	}

	learner := learn.New(learn.Config{
		Sink:        words,
		Communities: communities,
		Streets:     streets,
		Logger:      log,
	})

	engine := parser.NewEngine(parser.Config{
		Streets:      streets,
		Communities:  communities,
		Words:        words,
		Analyzer:     analyzer,
		Classifier:   classifier,
		Learner:      learner,
		BatchWorkers: config.Parser.BatchWorkers,
		Debug:        config.Parser.Debug,
		Logger:       log,
	})

	server := &Server{
		config:     config,
		db:         db,
		engine:     engine,
		classifier: classifier,
		learner:    learner,
		streets:    streets,
		log:        log,
	}

	server.setupRoutes()

	server.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", config.Server.Host, config.Server.Port),
		Handler:      server.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return server, nil
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() {
	s.router = mux.NewRouter()

	parseHandler := &handlers.ParseHandler{
		Engine: s.engine,
		Defaults: handlers.Defaults{
			Province: s.config.Parser.DefaultProvince,
			AreaCode: s.config.Parser.DefaultAreaCode,
			Learn:    s.config.Parser.LearningEnabled,
		},
		Log: s.log,
	}
	classifyHandler := &handlers.ClassifyHandler{Classifier: s.classifier, Log: s.log}
	learnHandler := &handlers.LearnHandler{Learner: s.learner, Log: s.log}
	searchHandler := &handlers.SearchHandler{Streets: s.streets, Log: s.log}
	healthHandler := &handlers.HealthHandler{DB: s.db}

	api := s.router.PathPrefix("/api").Subrouter()

	api.HandleFunc("/parse", parseHandler.ParseListing).Methods("POST")
	api.HandleFunc("/parse/batch", parseHandler.ParseBatch).Methods("POST")
	api.HandleFunc("/classify", classifyHandler.ClassifyName).Methods("POST")
	api.HandleFunc("/learn", learnHandler.LearnFromResult).Methods("POST")
	api.HandleFunc("/streets/search", searchHandler.SearchStreets).Methods("GET")
	api.HandleFunc("/health", healthHandler.Health).Methods("GET")

	s.router.Use(middleware.CORS())
	s.router.Use(middleware.RequestLogging(s.log))
}

// Start starts the web server and blocks until shutdown
func (s *Server) Start() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		s.log.Info().Str("addr", s.httpServer.Addr).Msg("starting server")
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.log.Error().Err(err).Msg("server error")
		}
	}()

	<-stop
	s.log.Info().Msg("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		s.log.Error().Err(err).Msg("server shutdown error")
	}

	if err := s.db.Close(); err != nil {
		s.log.Error().Err(err).Msg("database close error")
	}

	s.log.Info().Msg("server stopped")
	return nil
}
