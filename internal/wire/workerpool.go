package wire

import (
	"github.com/rs/zerolog"
	tomb "gopkg.in/tomb.v2"
)

const taskChanSize = 100

type workerFunction = func(t *tomb.Tomb, task any) error

// workerPool runs a fixed number of goroutines, each pulling tasks off a
// shared channel and handing them to work. Supervised by the same tomb
// the server itself runs under, so killing the server stops every worker.
type workerPool struct {
	n      int
	tasks  chan any
	work   workerFunction
	logger zerolog.Logger
}

func newWorkerPool(size int, logger zerolog.Logger) workerPool {
	return workerPool{
		tasks:  make(chan any, taskChanSize),
		n:      size,
		logger: logger,
	}
}

// setup blocks, keeping exactly pool.n workers alive until t starts dying.
func (pool *workerPool) setup(t *tomb.Tomb, work workerFunction) {
	pool.work = work
	pool.logger.Info().Int("workers", pool.n).Msg("starting worker pool")

	active := 0
	for {
		select {
		case <-t.Dying():
			return
		default:
			if active < pool.n {
				t.Go(func() error {
					err := pool.worker(t)
					active--
					return err
				})
				active++
			}
		}
	}
}

func (pool *workerPool) worker(t *tomb.Tomb) error {
	select {
	case <-t.Dying():
		return nil
	case task := <-pool.tasks:
		if err := pool.work(t, task); err != nil {
			pool.logger.Error().Err(err).Msg("worker exiting")
			return err
		}
	}
	return nil
}

func (pool *workerPool) addTask(task any) {
	pool.tasks <- task
}
