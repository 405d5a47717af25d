package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/httprate"

	config "github.com/avvvet/arcade-services/configs"
	"github.com/avvvet/arcade-services/internal/comm"
	mongodb "github.com/avvvet/arcade-services/internal/db"
	"github.com/avvvet/arcade-services/internal/matchsvc/broker"
	matchcfg "github.com/avvvet/arcade-services/internal/matchsvc/config"
	"github.com/avvvet/arcade-services/internal/matchsvc/db"
	"github.com/avvvet/arcade-services/internal/matchsvc/handlers"
	"github.com/avvvet/arcade-services/internal/matchsvc/history"
	"github.com/avvvet/arcade-services/internal/matchsvc/service"
	"github.com/avvvet/arcade-services/internal/matchsvc/store"
	"github.com/avvvet/arcade-services/internal/matchsvc/store/memory"
	nats "github.com/avvvet/arcade-services/internal/nats"
	log "github.com/sirupsen/logrus"
)

const SERVICE_NAME = "match"

var instanceId string

func init() {
	id, err := config.CreateUniqueInstance(SERVICE_NAME)
	if err != nil {
		log.Fatal(err)
	}
	instanceId = id
	config.LoadEnv(SERVICE_NAME)
	config.Logging(SERVICE_NAME + "_service_" + instanceId)
}

func main() {
	cfg, err := matchcfg.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	var txManager store.TxManager
	switch cfg.StoreBackend {
	case matchcfg.BackendMemory:
		txManager = memory.New()
		log.Warn("using in-memory store, data is lost on restart")
	default:
		// pg connection
		dbpool, err := db.Connect(cfg.DBUrl)
		if err != nil {
			log.Fatalf("Failed to connect to DB: %v", err)
		}
		defer db.ClosePool()
		log.Printf("pg connection established successfully")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		err = db.Migrate(ctx, dbpool)
		cancel()
		if err != nil {
			log.Fatalf("Failed to migrate DB: %v", err)
		}
		txManager = store.NewPgTxManager(dbpool)
	}

	// Connect to NATS
	n, err := nats.Connect(SERVICE_NAME + "_service_" + instanceId)
	if err != nil {
		log.Fatalf("Error: unable to connect to NATS server %v", err)
	}
	defer n.Conn.Close()
	log.Printf("NATS connection established successfully %s", n.Url)

	b := broker.NewBroker(n.Conn)
	opts := []service.Option{service.WithNotifier(b)}

	// match history archive is optional
	var historyReader handlers.HistoryReader
	if cfg.MongoURI != "" {
		mdb, err := mongodb.ConnectToDB(cfg.MongoURI)
		if err != nil {
			log.Fatalf("Failed to connect to MongoDB: %v", err)
		}
		defer mdb.Client().Disconnect(context.Background())

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		historyStore, err := history.NewStore(ctx, mdb, cfg.HistoryTTL)
		cancel()
		if err != nil {
			log.Fatalf("Failed to prepare match history: %v", err)
		}
		opts = append(opts, service.WithHistory(historyStore))
		historyReader = historyStore
		log.Printf("match history archive enabled, ttl %s", cfg.HistoryTTL)
	}

	currentMatchService := service.NewCurrentMatchService(txManager, opts...)
	b.SetService(currentMatchService)

	sub, err := b.QueueSubscribe(comm.MatchServiceTopic, SERVICE_NAME+"-service")
	if err != nil {
		log.Fatalf("Error: unable to subscribe to queue %v", err)
	}

	// Setup router
	r := chi.NewRouter()
	c := config.CORS()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(config.CustomLoggerMiddleware())
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(c.Handler)

	// to protect the service api from any over requests
	r.Use(httprate.LimitByIP(cfg.RateLimit, 1*time.Minute))

	// Init handlers and routes
	h := handlers.NewHandler(currentMatchService, historyReader, cfg.Port)
	h.InitAuth(cfg.JWTSecret, os.Getenv("DEBUG_TOKEN") == "true")
	h.SetRoutes(r)

	// Create server with timeout settings
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("ListenAndServe(): %v", err)
		}
	}()
	log.Infof("%s service running at port %s", SERVICE_NAME, server.Addr)

	// Wait for interrupt signal to gracefully shutdown the server
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	sub.Unsubscribe()

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Errorf("%s service shutdown Failed:%+v", SERVICE_NAME, err)
	}
	log.Infof("%s service gracefully stopped", SERVICE_NAME)
}
