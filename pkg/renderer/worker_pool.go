package renderer

import (
	"context"
	"fmt"
	"runtime"
	"sync"
)

// TileTask represents a tile rendering task for the worker pool
type TileTask struct {
	Ctx           context.Context // Cancels the tile between pixels
	Tile          *Tile
	PassNumber    int
	TargetSamples int
	TaskID        int            // Index of the tile, used to match results
	PixelStats    [][]PixelStats // Shared pixel stats array to write to
}

// TileResult contains the result from rendering a tile
type TileResult struct {
	TaskID int
	Stats  RenderStats
	Error  error
}

// WorkerPool manages parallel tile rendering
type WorkerPool struct {
	taskQueue   chan TileTask
	resultQueue chan TileResult
	workers     []*Worker
	numWorkers  int
	wg          sync.WaitGroup
	startOnce   sync.Once
	stopOnce    sync.Once
}

// Worker handles individual tile rendering tasks
type Worker struct {
	ID           int
	tileRenderer *TileRenderer
	taskQueue    chan TileTask
	resultQueue  chan TileResult
}

// NewWorkerPool creates a worker pool able to queue maxTasks tiles at once.
// numWorkers <= 0 uses one worker per CPU.
func NewWorkerPool(tileRenderer *TileRenderer, maxTasks, numWorkers int) *WorkerPool {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}

	wp := &WorkerPool{
		taskQueue:   make(chan TileTask, maxTasks),
		resultQueue: make(chan TileResult, maxTasks),
		numWorkers:  numWorkers,
	}

	// The tile renderer holds only read-only state, so workers share it
	for i := 0; i < numWorkers; i++ {
		wp.workers = append(wp.workers, &Worker{
			ID:           i,
			tileRenderer: tileRenderer,
			taskQueue:    wp.taskQueue,
			resultQueue:  wp.resultQueue,
		})
	}

	return wp
}

// Start begins all workers. Calling it again has no effect.
func (wp *WorkerPool) Start() {
	wp.startOnce.Do(func() {
		for _, worker := range wp.workers {
			wp.wg.Add(1)
			go worker.run(&wp.wg)
		}
	})
}

// Stop waits for queued tasks to finish and shuts down all workers
func (wp *WorkerPool) Stop() {
	wp.stopOnce.Do(func() {
		close(wp.taskQueue)
		wp.wg.Wait()
		close(wp.resultQueue)
	})
}

// SubmitTask submits a tile task to the worker pool
func (wp *WorkerPool) SubmitTask(task TileTask) {
	wp.taskQueue <- task
}

// GetResult retrieves a completed tile result
func (wp *WorkerPool) GetResult() (TileResult, bool) {
	result, ok := <-wp.resultQueue
	return result, ok
}

// GetNumWorkers returns the number of workers in the pool
func (wp *WorkerPool) GetNumWorkers() int {
	return wp.numWorkers
}

// run is the main worker loop
func (w *Worker) run(wg *sync.WaitGroup) {
	defer wg.Done()

	for task := range w.taskQueue {
		w.resultQueue <- w.renderTask(task)
	}
}

// renderTask renders one tile, reporting a panic as an error instead of crashing the pool
func (w *Worker) renderTask(task TileTask) (result TileResult) {
	result.TaskID = task.TaskID
	defer func() {
		if r := recover(); r != nil {
			result.Error = fmt.Errorf("worker %d: tile %d: %v", w.ID, task.Tile.ID, r)
		}
	}()

	// Tiles never overlap, so writes to the shared array do not race.
	// Each tile owns its sampler and is rendered by one worker per pass.
	ctx := task.Ctx
	if ctx == nil {
		ctx = context.Background()
	}
	result.Stats, result.Error = w.tileRenderer.RenderTileBounds(ctx, task.Tile.Bounds, task.PixelStats, task.Tile.Sampler, task.TargetSamples)
	return result
}
