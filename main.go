package main

import (
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"tasim/api"
)

var (
	backtestMode bool
	scanMode     bool
	serveMode    bool
	configPath   string
	dataPath     string
	dataGBK      bool
	outPath      string
	apiPort      int
)

func main() {
	flag.BoolVar(&backtestMode, "backtest", false, "run a backtest and exit")
	flag.BoolVar(&scanMode, "scan", false, "evaluate the latest bar's signal for every strategy and exit")
	flag.BoolVar(&serveMode, "serve", false, "start the HTTP API server")
	flag.StringVar(&configPath, "config", "backtest.yaml", "backtest config path (YAML)")
	flag.StringVar(&dataPath, "data", "", "bar series CSV path (overrides config data.csv)")
	flag.BoolVar(&dataGBK, "gbk", false, "decode the CSV as GBK (TDX/broker exports)")
	flag.StringVar(&outPath, "out", "", "output JSON path (default stdout)")
	flag.IntVar(&apiPort, "port", 8080, "HTTP API port (with -serve)")
	flag.Parse()

	switch {
	case backtestMode:
		if err := runBacktest(); err != nil {
			log.Fatalf("[BACKTEST] %v", err)
		}
	case scanMode:
		if err := runScan(); err != nil {
			log.Fatalf("[SCAN] %v", err)
		}
	case serveMode:
		serve()
	default:
		flag.Usage()
		os.Exit(2)
	}
}

func serve() {
	srv := api.NewServer(apiPort)
	go func() {
		if err := srv.Start(); err != nil {
			log.Fatalf("[API] %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("[API] shutting down")
	if err := srv.Shutdown(); err != nil {
		log.Printf("[API] shutdown: %v", err)
	}
}
