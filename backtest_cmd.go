package main

import (
	"fmt"
	"io"
	"os"

	"tasim/backtest"
	"tasim/fetcher"
)

func runBacktest() error {
	cfg, err := backtest.LoadRunConfig(configPath)
	if err != nil {
		return err
	}
	if dataPath != "" {
		cfg.DataPath = dataPath
	}
	if dataGBK {
		cfg.DataGBK = true
	}
	if cfg.DataPath == "" {
		return fmt.Errorf("no bar data: pass -data or set data.csv in %s", configPath)
	}

	bars, err := loadBars(cfg.DataPath, cfg.DataGBK)
	if err != nil {
		return err
	}

	res, err := backtest.Run(bars, cfg)
	if err != nil {
		return err
	}
	return writeOut(outPath, func(w io.Writer) error {
		return backtest.WriteResultJSON(w, res)
	})
}

func runScan() error {
	path, gbk := dataPath, dataGBK
	if path == "" {
		// config is optional for scans; only its data section is used
		if cfg, err := backtest.LoadRunConfig(configPath); err == nil {
			path = cfg.DataPath
			gbk = gbk || cfg.DataGBK
		}
	}
	if path == "" {
		return fmt.Errorf("no bar data: pass -data or set data.csv in %s", configPath)
	}

	bars, err := loadBars(path, gbk)
	if err != nil {
		return err
	}

	var strategies []backtest.Strategy
	for _, typ := range backtest.StrategyTypes() {
		st, err := backtest.NewStrategy(typ, nil)
		if err != nil {
			return err
		}
		strategies = append(strategies, st)
	}

	results := backtest.Scan(bars, strategies)
	return writeOut(outPath, func(w io.Writer) error {
		return backtest.WriteScanJSON(w, results)
	})
}

func loadBars(path string, gbk bool) ([]backtest.Bar, error) {
	kl, err := fetcher.LoadCSV(path, fetcher.CSVOptions{GBK: gbk})
	if err != nil {
		return nil, err
	}
	if len(kl) == 0 {
		return nil, fmt.Errorf("no bars in %s", path)
	}
	return fetcher.Bars(kl), nil
}

func writeOut(path string, write func(io.Writer) error) error {
	if path == "" {
		return write(os.Stdout)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	defer f.Close()
	return write(f)
}
