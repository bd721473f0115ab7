package stats

import (
	"fmt"
	"sync"

	"github.com/strophic/responsion/core/errors"
)

// maxWorkers caps the goroutines a batch spreads across when the caller does
// not pick a worker count.
const maxWorkers = 32

// TestAll tests every sample in parallel and returns the results in sample
// order. A non-positive workers count falls back to maxWorkers. Samples
// whose counts cannot describe a binomial draw come back inapplicable rather
// than aborting the batch.
func (t *Tester) TestAll(samples []Sample, alt Alternative, workers int) ([]Result, error) {
	if !alt.IsValid() {
		return nil, errors.NewValidation("alternative", fmt.Sprintf("unknown alternative %q", alt))
	}
	if len(samples) == 0 {
		return nil, nil
	}

	return parallelMap(samples, workers, func(s Sample) Result {
		r, err := t.Test(s.Successes, s.Trials, alt)
		if err != nil {
			return Result{Successes: s.Successes, Trials: s.Trials, P: 1, Applicable: false}
		}
		return r
	}), nil
}

// parallelMap runs fn over every input on a bounded pool of goroutines and
// collects the outputs in input order.
func parallelMap[In, Out any](inputs []In, workers int, fn func(In) Out) []Out {
	if workers <= 0 {
		workers = maxWorkers
	}
	workers = min(workers, len(inputs))

	type job struct {
		idx int
		in  In
	}
	jobs := make(chan job, len(inputs))
	outs := make([]Out, len(inputs))

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				outs[j.idx] = fn(j.in)
			}
		}()
	}
	for i, in := range inputs {
		jobs <- job{idx: i, in: in}
	}
	close(jobs)
	wg.Wait()

	return outs
}
