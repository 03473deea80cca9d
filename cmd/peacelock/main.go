package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync/atomic"
	"text/tabwriter"
	"time"

	"github.com/go-kit/kit/log"
	"github.com/go-kit/kit/log/level"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
	"gopkg.in/alecthomas/kingpin.v2"

	"github.com/llxisdsh/peacelock"
	"github.com/llxisdsh/peacelock/internal/opt"
)

func main() {
	var (
		cli              = kingpin.New(filepath.Base(os.Args[0]), "CLI tool for peacelock")
		debug            = cli.Flag("debug", "enable debug logging").Bool()
		infoCmd          = cli.Command("info", "print how the locks were compiled")
		stressCmd        = cli.Command("stress", "hammer sharded cells from concurrent workers")
		stressShards     = stressCmd.Flag("shards", "number of shards").Default("8").Int()
		stressWorkers    = stressCmd.Flag("workers", "number of workers").Default("8").Int()
		stressIterations = stressCmd.Flag("iterations", "lock attempts per worker").Default("100000").Int()
		stressOverlap    = stressCmd.Flag("overlap", "let workers share shards").Bool()
		scenarioCmd      = cli.Command("scenario", "write-lock one cell from two goroutines")
		scenarioHold     = scenarioCmd.Flag("hold", "how long the first writer holds the lock").Default("1s").Duration()
		scenarioDelay    = scenarioCmd.Flag("delay", "how long the second writer waits before locking").Default("900ms").Duration()
	)

	cmd := kingpin.MustParse(cli.Parse(os.Args[1:]))

	allowed := level.AllowInfo()
	if *debug {
		allowed = level.AllowDebug()
	}
	logger := level.NewFilter(log.NewLogfmtLogger(log.NewSyncWriter(os.Stderr)), allowed)
	logger = log.With(logger, "ts", log.DefaultTimestampUTC)

	switch cmd {
	case infoCmd.FullCommand():
		printInfo(os.Stdout)
	case stressCmd.FullCommand():
		res, err := runStress(context.Background(), logger, stressConfig{
			shards:     *stressShards,
			workers:    *stressWorkers,
			iterations: *stressIterations,
			overlap:    *stressOverlap,
		})
		if err != nil {
			exitWithError(err)
		}
		level.Info(logger).Log("msg", "stress finished",
			"acquired", res.acquired,
			"violations", res.violations,
			"duration", res.duration,
		)
	case scenarioCmd.FullCommand():
		res, err := runScenario(logger, *scenarioHold, *scenarioDelay)
		if err != nil {
			exitWithError(err)
		}
		if res.caught != nil {
			level.Warn(logger).Log("msg", "overlapping write lock detected", "who", res.who, "err", res.caught)
			return
		}
		level.Info(logger).Log("msg", "second writer acquired the lock", "observed", res.observed)
	}
}

func printInfo(w io.Writer) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	defer tw.Flush()
	fmt.Fprintf(tw, "checked:\t%v\n", peacelock.Checked)
	fmt.Fprintf(tw, "cache line size:\t%d\n", opt.CacheLineSize_)
	fmt.Fprintf(tw, "shard padding:\t%v\n", opt.Padded_)
}

type stressConfig struct {
	shards     int
	workers    int
	iterations int
	overlap    bool
}

type stressResult struct {
	acquired   int64
	violations int64
	duration   time.Duration
}

// runStress lets every worker hammer the shards with TryLock. Without
// overlap each worker owns one shard, so a failed TryLock means the
// partitioning was broken.
func runStress(ctx context.Context, logger log.Logger, cfg stressConfig) (stressResult, error) {
	var res stressResult
	if cfg.shards <= 0 || cfg.workers <= 0 || cfg.iterations < 0 {
		return res, errors.Errorf("invalid stress config: shards=%d workers=%d iterations=%d",
			cfg.shards, cfg.workers, cfg.iterations)
	}
	if !cfg.overlap && cfg.workers > cfg.shards {
		return res, errors.Errorf("%d workers cannot own %d shards without overlap", cfg.workers, cfg.shards)
	}

	shards := peacelock.NewShards[int64](cfg.shards)
	var acquired, violations atomic.Int64
	start := time.Now()

	g, ctx := errgroup.WithContext(ctx)
	for w := range cfg.workers {
		g.Go(func() error {
			for i := range cfg.iterations {
				if i%1024 == 0 && ctx.Err() != nil {
					return errors.Wrapf(ctx.Err(), "worker %d", w)
				}
				idx := w
				if cfg.overlap {
					idx = (w + i) % cfg.shards
				}
				guard, ok := shards.Shard(idx).TryLock()
				if !ok {
					violations.Add(1)
					continue
				}
				*guard.Get()++
				guard.Unlock()
				acquired.Add(1)
			}
			level.Debug(logger).Log("msg", "worker done", "worker", w)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return res, errors.Wrap(err, "stress workers")
	}
	res.duration = time.Since(start)
	res.acquired = acquired.Load()
	res.violations = violations.Load()

	var total int64
	shards.Range(func(i int, v *int64) bool {
		level.Debug(logger).Log("msg", "shard", "index", i, "count", *v)
		total += *v
		return true
	})
	// Unchecked overlapping workers race on the counters for real.
	if total != res.acquired && (peacelock.Checked || !cfg.overlap) {
		return res, errors.Errorf("shards counted %d acquisitions, workers counted %d", total, res.acquired)
	}
	if !cfg.overlap && res.violations > 0 {
		return res, errors.Errorf("%d overlapping acquisitions on disjoint shards", res.violations)
	}
	return res, nil
}

type scenarioResult struct {
	observed int
	who      string
	caught   *peacelock.ContentionError
}

// runScenario write-locks a cell holding 1 from writer A, which keeps it for
// hold, and from writer B, which locks after delay. B succeeds if A is done
// by then; otherwise checking catches the overlap.
func runScenario(logger log.Logger, hold, delay time.Duration) (scenarioResult, error) {
	var res scenarioResult
	rw := peacelock.NewRWLock(1)
	var caught atomic.Pointer[scenarioResult]

	var g errgroup.Group
	g.Go(func() error {
		return writeLocked(rw, func(v *int) {
			level.Debug(logger).Log("msg", "A acquired", "value", *v)
			time.Sleep(hold)
		}, func(ce *peacelock.ContentionError) {
			caught.CompareAndSwap(nil, &scenarioResult{who: "A", caught: ce})
		})
	})
	g.Go(func() error {
		time.Sleep(delay)
		return writeLocked(rw, func(v *int) {
			level.Debug(logger).Log("msg", "B acquired", "value", *v)
			res.observed = *v
		}, func(ce *peacelock.ContentionError) {
			caught.CompareAndSwap(nil, &scenarioResult{who: "B", caught: ce})
		})
	})
	if err := g.Wait(); err != nil {
		return res, errors.Wrap(err, "scenario")
	}
	if c := caught.Load(); c != nil {
		return *c, nil
	}
	if res.observed != 1 {
		return res, errors.Errorf("B observed %d, want 1", res.observed)
	}
	return res, nil
}

// writeLocked runs fn under rw.Lock. A contention panic is handed to
// onContention; any other panic becomes an error.
func writeLocked(rw *peacelock.RWLock[int], fn func(v *int), onContention func(*peacelock.ContentionError)) (err error) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		if ce, ok := r.(*peacelock.ContentionError); ok {
			onContention(ce)
			return
		}
		err = errors.Errorf("write lock: %v", r)
	}()
	rw.With(fn)
	return nil
}

func exitWithError(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}
