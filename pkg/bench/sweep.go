package bench

import (
	"context"
	"runtime"
	"time"

	"github.com/perclft/qbench/pkg/qasmfile"
	"github.com/perclft/qbench/pkg/supermarq"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Job is one benchmark file to produce.
type Job struct {
	Benchmark string
	NumQubits int
	Level     string // alg or indep
	Compiler  string // indep only
}

// Result reports one job. Err is set when the job failed; the sweep itself
// carries on.
type Result struct {
	Job      Job
	Path     string
	Features supermarq.Features
	Duration time.Duration
	Err      error
}

type SweepOptions struct {
	Dir    string
	Jobs   int // concurrent jobs, GOMAXPROCS when <= 0
	Writer *qasmfile.Writer
}

// Jobs expands benchmark names and qubit counts into jobs at one level.
// Counts a benchmark does not accept are skipped.
func Jobs(names []string, counts []int, level, compiler string) ([]Job, error) {
	var jobs []Job
	for _, name := range names {
		b, err := Lookup(name)
		if err != nil {
			return nil, err
		}
		for _, n := range counts {
			if b.Check(n) != nil {
				continue
			}
			jobs = append(jobs, Job{Benchmark: name, NumQubits: n, Level: level, Compiler: compiler})
		}
	}
	return jobs, nil
}

// Sweep runs jobs with bounded parallelism. Results keep the order of jobs.
// The returned error is only set when ctx was cancelled.
func Sweep(ctx context.Context, jobs []Job, opts SweepOptions) ([]Result, error) {
	if opts.Writer == nil {
		opts.Writer = qasmfile.NewWriter()
	}
	limit := opts.Jobs
	if limit <= 0 {
		limit = runtime.GOMAXPROCS(0)
	}

	// every job writes its own slot
	results := make([]Result, len(jobs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, min(limit, len(jobs))))
	for i, job := range jobs {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				results[i] = Result{Job: job, Err: gctx.Err()}
				return gctx.Err()
			default:
			}
			results[i] = runJob(job, opts)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, errors.Wrap(err, "sweep cancelled")
	}

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
		}
	}
	log.WithFields(log.Fields{
		"jobs":   len(jobs),
		"failed": failed,
	}).Info("sweep finished")
	return results, nil
}

func runJob(job Job, opts SweepOptions) Result {
	start := time.Now()
	path, f, err := generateFile(job, opts)
	res := Result{Job: job, Path: path, Features: f, Err: err, Duration: time.Since(start)}

	entry := log.WithFields(log.Fields{
		"benchmark": job.Benchmark,
		"qubits":    job.NumQubits,
		"level":     job.Level,
	})
	if err != nil {
		entry.WithError(err).Warn("benchmark failed")
	} else {
		entry.WithField("file", path).Debug("benchmark written")
	}
	return res
}

func generateFile(job Job, opts SweepOptions) (string, supermarq.Features, error) {
	if job.Level != LevelAlg && job.Level != LevelIndep {
		return "", supermarq.Features{}, errors.Wrapf(ErrUnknownLevel,
			"%s needs an external compiler, use export", job.Level)
	}
	name, err := Filename(FileSpec{
		Benchmark: job.Benchmark,
		NumQubits: job.NumQubits,
		Level:     job.Level,
		Compiler:  job.Compiler,
	})
	if err != nil {
		return "", supermarq.Features{}, err
	}

	c, err := Generate(job.Benchmark, job.NumQubits)
	if err != nil {
		return "", supermarq.Features{}, err
	}
	f, err := supermarq.Calculate(c)
	if err != nil {
		return "", supermarq.Features{}, err
	}
	body, err := c.ToQASM()
	if err != nil {
		return "", supermarq.Features{}, err
	}
	path, err := opts.Writer.Write(body, qasmfile.Options{Filename: name, Dir: opts.Dir})
	if err != nil {
		return "", supermarq.Features{}, err
	}
	return path, f, nil
}
