package main

import (
	"context"
	"errors"
	"flag"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/2beens/blogfront/internal/devapi"
	"github.com/2beens/blogfront/internal/logging"
	"github.com/2beens/blogfront/internal/middleware"

	log "github.com/sirupsen/logrus"
)

func main() {
	host := flag.String("host", "localhost", "host to listen on")
	port := flag.Int("port", 5045, "port to listen on")
	seed := flag.Int64("seed", 42, "fake data seed")
	empty := flag.Bool("empty", false, "start without seeded data")
	logLevel := flag.String("loglevel", "debug", "log level")
	flag.Parse()

	logging.Setup(logging.LoggerSetupParams{
		LogToStdout: true,
		LogLevel:    *logLevel,
		Environment: "development",
	})

	repo := devapi.NewMemoryRepo()
	if !*empty {
		seedParams := devapi.DefaultSeedParams()
		seedParams.Seed = *seed
		if err := devapi.Seed(repo, seedParams); err != nil {
			log.Fatalf("seed dev api: %s", err)
		}
	}

	router := devapi.NewRouter(repo)
	router.Use(middleware.PanicRecovery(nil))
	router.Use(middleware.LogRequest())
	router.Use(middleware.DrainAndCloseRequest())

	addr := net.JoinHostPort(*host, strconv.Itoa(*port))
	httpServer := &http.Server{
		Handler:      router,
		Addr:         addr,
		WriteTimeout: 15 * time.Second,
		ReadTimeout:  15 * time.Second,
	}

	go func() {
		log.Infof(" > dev api listening on: [%s]", addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("dev api, listen and serve: %s", err)
		}
	}()

	chOsInterrupt := make(chan os.Signal, 1)
	signal.Notify(chOsInterrupt, os.Interrupt, syscall.SIGTERM)
	receivedSig := <-chOsInterrupt
	log.Warnf("signal [%s] received, shutting down ...", receivedSig)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		log.Errorf("dev api shutdown: %s", err)
	}
}
