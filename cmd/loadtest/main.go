package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/baharkarakas/point-ledger/internal/config"
	"github.com/baharkarakas/point-ledger/internal/logger"
	"github.com/baharkarakas/point-ledger/internal/models"
	"github.com/baharkarakas/point-ledger/internal/worker"
)

// loadtest fires n concurrent mutations for one user and checks that the
// final balance and history length account for every successful request.
func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.New("dev").Error("config", "err", err)
		os.Exit(1)
	}
	log := logger.New(cfg.Env)

	base := flag.String("url", "http://localhost:8080", "Ledger base URL")
	user := flag.Int64("user", 1, "User id")
	n := flag.Int("n", 1000, "Number of requests")
	amount := flag.Int64("amount", 10, "Amount per request")
	op := flag.String("op", "charge", "Operation: charge or use")
	workers := flag.Int("c", cfg.Workers, "Concurrent workers (default from WORKERS)")
	flag.Parse()

	if *op != "charge" && *op != "use" {
		log.Error("invalid op", "op", *op)
		os.Exit(2)
	}

	client := &http.Client{
		Timeout: 30 * time.Second,
		Transport: &http.Transport{
			MaxIdleConns:        *workers,
			MaxIdleConnsPerHost: *workers,
		},
	}
	pointURL := fmt.Sprintf("%s/point/%d", strings.TrimRight(*base, "/"), *user)

	before, err := fetch[models.UserBalance](client, pointURL)
	if err != nil {
		log.Error("read balance", "err", err)
		os.Exit(1)
	}
	hist, err := fetch[[]models.TransactionRecord](client, pointURL+"/histories")
	if err != nil {
		log.Error("read history", "err", err)
		os.Exit(1)
	}

	var ok, rejected, failed atomic.Int64
	pool := worker.NewPool(*workers, *n)
	start := time.Now()
	for i := 0; i < *n; i++ {
		pool.Submit(func() {
			req, err := http.NewRequest(http.MethodPatch, pointURL+"/"+*op, strings.NewReader(strconv.FormatInt(*amount, 10)))
			if err != nil {
				failed.Add(1)
				return
			}
			req.Header.Set("Content-Type", "application/json")
			resp, err := client.Do(req)
			if err != nil {
				failed.Add(1)
				return
			}
			_ = resp.Body.Close()
			switch {
			case resp.StatusCode == http.StatusOK:
				ok.Add(1)
			case resp.StatusCode < 500:
				rejected.Add(1)
			default:
				failed.Add(1)
			}
		})
	}
	pool.Stop()
	elapsed := time.Since(start)

	after, err := fetch[models.UserBalance](client, pointURL)
	if err != nil {
		log.Error("read balance", "err", err)
		os.Exit(1)
	}
	histAfter, err := fetch[[]models.TransactionRecord](client, pointURL+"/histories")
	if err != nil {
		log.Error("read history", "err", err)
		os.Exit(1)
	}

	sign := int64(1)
	if *op == "use" {
		sign = -1
	}
	wantBalance := before.Point + sign*ok.Load()*(*amount)
	wantHistory := len(hist) + int(ok.Load())

	log.Info("load test finished",
		"requests", *n,
		"ok", ok.Load(),
		"rejected", rejected.Load(),
		"failed", failed.Load(),
		"elapsed", elapsed,
		"rps", float64(*n)/elapsed.Seconds(),
		"balance", after.Point,
		"history", len(histAfter),
	)
	if after.Point != wantBalance || len(histAfter) != wantHistory {
		log.Error("ledger mismatch", "want_balance", wantBalance, "want_history", wantHistory)
		os.Exit(1)
	}
}

func fetch[T any](c *http.Client, url string) (T, error) {
	var v T
	resp, err := c.Get(url)
	if err != nil {
		return v, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return v, fmt.Errorf("GET %s: status %d", url, resp.StatusCode)
	}
	err = json.NewDecoder(resp.Body).Decode(&v)
	return v, err
}
