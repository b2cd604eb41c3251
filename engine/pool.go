package engine

import (
	"runtime"
	"sync"

	"golang.org/x/sys/unix"

	"github.com/mhib/lazybeak/backend"
)

// pool is the persistent Lazy SMP worker pool spec.md C7 describes: one
// goroutine per configured Threads worker, parked on a condition variable
// between searches rather than spawned fresh on every UCI "go" (the
// teacher's original per-search goroutine-spawn pattern). Main bumps gen
// and broadcasts to wake every worker; each worker runs its own
// iterativeDeepening to completion (MAX_HEIGHT or a stop-timeout panic)
// and parks again.
type pool struct {
	engine *Engine

	mu      sync.Mutex
	cond    *sync.Cond
	gen     uint64
	exiting bool
	size    int

	job poolJob
}

type poolJob struct {
	rootMoves []backend.EvaledMove
	resultCh  chan result
	wg        *sync.WaitGroup
}

func newPool(e *Engine) *pool {
	p := &pool{engine: e}
	p.cond = sync.NewCond(&p.mu)
	return p
}

// reset stops any running workers and starts n fresh ones, matching the
// current e.threads slice. Called from every NewGame.
func (p *pool) reset(n int) {
	p.stop()
	p.mu.Lock()
	p.exiting = false
	p.gen = 0
	p.size = n
	p.mu.Unlock()
	for i := 0; i < n; i++ {
		go p.workerLoop(i)
	}
}

// stop sets the exit flag and wakes every parked worker so it returns
// from workerLoop; it does not wait for them to exit since a worker
// mid-search only parks after iterativeDeepening returns (spec.md C7
// "on destruction main sets an exit flag, wakes it, joins" — join is
// implicit here since the next reset's workers don't touch old state).
func (p *pool) stop() {
	p.mu.Lock()
	p.exiting = true
	p.cond.Broadcast()
	p.mu.Unlock()
}

func (p *pool) workerLoop(idx int) {
	lowerWorkerPriority()
	p.mu.Lock()
	seen := p.gen
	for {
		for p.gen == seen && !p.exiting {
			p.cond.Wait()
		}
		if p.exiting {
			p.mu.Unlock()
			return
		}
		seen = p.gen
		job := p.job
		p.mu.Unlock()

		func() {
			defer recoverFromTimeout()
			p.engine.threads[idx].iterativeDeepening(cloneEvaledMoves(job.rootMoves), job.resultCh, idx)
		}()
		job.wg.Done()

		p.mu.Lock()
	}
}

// launch wakes every parked worker onto a fresh root-move search (spec.md
// C7 steps 1-2: bump generation, notify). The returned WaitGroup completes
// once every worker's iterativeDeepening has returned (step 5).
func (p *pool) launch(rootMoves []backend.EvaledMove) (chan result, *sync.WaitGroup) {
	resultCh := make(chan result, p.size)
	wg := &sync.WaitGroup{}
	wg.Add(p.size)

	p.mu.Lock()
	p.job = poolJob{rootMoves: rootMoves, resultCh: resultCh, wg: wg}
	p.gen++
	p.cond.Broadcast()
	p.mu.Unlock()

	return resultCh, wg
}

// lowerWorkerPriority pins this goroutine to its OS thread and asks the
// kernel for a lower scheduling priority on that thread alone, the way a
// long-lived worker pool registers itself with the OS scheduler (spec.md
// §3 "Thread placement"). On Linux a thread id is a valid "who" for
// PRIO_PROCESS, so this never touches the main thread's priority.
// Best-effort: failures (non-Linux, sandboxed, unprivileged) are ignored
// since this never gates anything on the search hot path.
func lowerWorkerPriority() {
	runtime.LockOSThread()
	_ = unix.Setpriority(unix.PRIO_PROCESS, unix.Gettid(), 10)
}
