// Copyright 2025 gorse Project Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package parallel

import (
	"runtime"
	"sync"

	"github.com/juju/errors"
	"go.uber.org/atomic"
	"go.uber.org/zap"

	"github.com/gorse-io/basket/base/log"
)

const chanSize = 1024

// NumJobs returns the default number of parallel jobs.
func NumJobs() int {
	return runtime.NumCPU()
}

// Parallel schedules and runs jobs in parallel. nJobs is the number of jobs.
// nWorkers is the number of executors. worker is the executed function which
// is passed a worker id and a job id.
func Parallel(nJobs, nWorkers int, worker func(workerId, jobId int) error) error {
	if nWorkers == 1 {
		for i := 0; i < nJobs; i++ {
			if err := worker(0, i); err != nil {
				return errors.Trace(err)
			}
		}
	} else {
		c := make(chan int, chanSize)
		// producer
		go func() {
			for i := 0; i < nJobs; i++ {
				c <- i
			}
			close(c)
		}()
		// consumer
		var wg sync.WaitGroup
		wg.Add(nWorkers)
		errs := make([]error, nJobs)
		for j := 0; j < nWorkers; j++ {
			// start workers
			go func(workerId int) {
				defer CheckPanic()
				defer wg.Done()
				for {
					// read job
					jobId, ok := <-c
					if !ok {
						return
					}
					// run job
					if err := worker(workerId, jobId); err != nil {
						errs[jobId] = err
						return
					}
				}
			}(j)
		}
		wg.Wait()
		// check errors
		for _, err := range errs {
			if err != nil {
				return errors.Trace(err)
			}
		}
	}
	return nil
}

// ForSum runs a for loop in parallel and sums the returned values.
func ForSum(begin, end, nWorkers int, worker func(i int) float64) float64 {
	sum := atomic.NewFloat64(0)
	_ = Parallel(end-begin, nWorkers, func(_, jobId int) error {
		sum.Add(worker(begin + jobId))
		return nil
	})
	return sum.Load()
}

// CheckPanic catches panic.
func CheckPanic() {
	if r := recover(); r != nil {
		log.Logger().Error("panic recovered", zap.Any("panic", r))
	}
}
