package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/hachrisjordan/newroutebuilder-sub001/business/availability"
	"github.com/hachrisjordan/newroutebuilder-sub001/business/route"
	"github.com/hachrisjordan/newroutebuilder-sub001/business/search"
	"github.com/hachrisjordan/newroutebuilder-sub001/cache"
	"github.com/hachrisjordan/newroutebuilder-sub001/config"
	"github.com/hachrisjordan/newroutebuilder-sub001/db"
	"github.com/hachrisjordan/newroutebuilder-sub001/web"
)

const (
	responseCacheTTL = 30 * time.Minute
	queryCacheTTL    = 15 * time.Minute
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("invalid configuration")
	}

	database, err := db.NewDatabase(cfg.DatabasePath)
	if err != nil {
		log.WithError(err).Fatal("failed to open reference database")
	}
	defer database.Close()

	repo := db.NewReferenceRepo(database)

	clientOpts := []availability.ClientOption{
		availability.WithRateLimiter(rate.NewLimiter(rate.Limit(cfg.ProviderRPS), 1)),
	}

	var responses *cache.Store
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr: cfg.RedisAddr,
			DB:   cfg.RedisDB,
		})

		if err = rdb.Ping(ctx).Err(); err != nil {
			log.WithError(err).Fatal("failed to connect to redis")
		}

		responses = cache.NewStore(rdb, "result:", responseCacheTTL)
		queries := cache.NewStore(rdb, "availability:", queryCacheTTL)
		clientOpts = append(clientOpts, availability.WithQueryCache(cache.NewAvailabilityCache(queries, log)))
	}

	client := availability.NewClient(cfg.ProviderBaseUrl, cfg.ProviderApiKey, clientOpts...)
	engine := search.NewEngine(route.NewFinder(repo), client, repo, responses, log)

	e := echo.New()
	e.HideBanner = true
	e.Use(
		web.RequestIdMiddleware(),
		web.ErrorLogAndMaskMiddleware(log),
		web.NoCacheOnErrorMiddleware(),
	)

	{
		group := e.Group("/api")

		searchHandler := web.NewSearchHandler(engine)
		group.POST("/itineraries/search", searchHandler.Search)
		group.POST("/itineraries/project", searchHandler.Project)
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := e.Shutdown(shutdownCtx); err != nil {
			log.WithError(err).Error("shutdown failed")
		}
	}()

	log.WithField("port", cfg.Port).Info("starting server")
	if err = e.Start(fmt.Sprintf(":%d", cfg.Port)); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.WithError(err).Fatal("server failed")
	}
}
