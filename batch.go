package imgdec

import (
	"github.com/dwclock/imgdec/internal/parallel"
)

// Job is one body/blend pair for DecodeBatch. Paths take precedence over
// bytes when set.
type Job struct {
	Name      string
	Body      []byte
	Blend     []byte
	BodyPath  string
	BlendPath string
	Format    Format
	Options   *Options
}

// BatchResult is the outcome of one Job. Buffer is a copy owned by the
// caller; it is nil when Err is set.
type BatchResult struct {
	Name   string
	Buffer *PixelBuffer
	Err    error
}

// DecodeBatch decodes jobs on up to workers goroutines (GOMAXPROCS when
// workers <= 0) and returns results in job order.
//
// Each worker owns its own Service, so buffers are recycled within a worker
// and never shared across goroutines.
func DecodeBatch(jobs []Job, workers int, opts ...ServiceOption) []BatchResult {
	results := make([]BatchResult, len(jobs))
	if len(jobs) == 0 {
		return results
	}

	pool := parallel.NewWorkerPool(min(workers, len(jobs)))
	defer pool.Close()

	services := make([]*Service, pool.Workers())
	for i := range services {
		services[i] = NewService(opts...)
	}

	tasks := make([]parallel.Task, len(jobs))
	for i, job := range jobs {
		tasks[i] = func(worker int) {
			results[i] = services[worker].decodeJob(job)
		}
	}
	pool.ExecuteAll(tasks)

	for _, svc := range services {
		svc.Reset()
	}
	return results
}

func (s *Service) decodeJob(job Job) BatchResult {
	var (
		buf *PixelBuffer
		err error
	)
	if job.BodyPath != "" {
		buf, err = s.DecodeFromPaths(job.BodyPath, job.BlendPath, job.Format, job.Options)
	} else {
		buf, err = s.DecodeFromBytes(job.Body, job.Blend, job.Format, job.Options)
	}
	if err != nil {
		return BatchResult{Name: job.Name, Err: err}
	}
	return BatchResult{Name: job.Name, Buffer: buf.Clone()}
}
