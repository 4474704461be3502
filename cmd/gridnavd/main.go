// Command gridnavd serves a simulation over HTTP. Strategies start on
// POST /start/:strategy and every tick is streamed on /stream.
package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"

	"github.com/elektrokombinacija/gridnav/internal/config"
	"github.com/elektrokombinacija/gridnav/internal/server"
	"github.com/elektrokombinacija/gridnav/internal/sim"
)

func main() {
	_ = godotenv.Load()

	configPath := flag.String("config", "gridnav.json", "Path to JSON config")
	autoStart := flag.Bool("autostart", false, "Start every strategy immediately")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalln(err)
	}
	if err := cfg.ApplyEnv(); err != nil {
		log.Fatalln(err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalln(err)
	}
	cfg.SetupLogging()

	l, err := cfg.Layout()
	if err != nil {
		log.Fatalln(err)
	}

	simCfg := sim.DefaultConfig()
	simCfg.Layout = l
	simCfg.Strategies = cfg.Strategies
	simCfg.AutoStart = *autoStart

	s, err := sim.NewSimulator(simCfg)
	if err != nil {
		log.Fatalln(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	interval := cfg.TickInterval()
	if interval <= 0 {
		interval = sim.DefaultConfig().TickInterval
	}
	go tickLoop(ctx, s, interval)

	srv := &http.Server{Addr: cfg.Addr, Handler: server.New(s, l)}
	go func() {
		<-ctx.Done()
		_ = srv.Shutdown(context.Background())
	}()

	log.Infof("gridnavd run %s listening on %s", s.RunID(), cfg.Addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalln(err)
	}
}

// tickLoop keeps ticking for the life of the server. Unlike Simulator.Run
// it does not return once the started strategies finish, since a client
// may start another one later.
func tickLoop(ctx context.Context, s *sim.Simulator, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !s.Done() {
				s.Tick()
			}
		}
	}
}
