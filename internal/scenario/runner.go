package scenario

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"sync"
	"time"

	"github.com/yihonglyu/treefs/internal/logger"
	"github.com/yihonglyu/treefs/internal/ratelimiter"
	"github.com/yihonglyu/treefs/pkg/bridge"
	"github.com/yihonglyu/treefs/pkg/metrics"
	"github.com/yihonglyu/treefs/pkg/vfs"
	"github.com/yihonglyu/treefs/pkg/vfs/mem"
	"github.com/yihonglyu/treefs/pkg/vfs/proxy"
)

// RunnerOptions configures a Runner.
type RunnerOptions struct {
	// Workers is the number of goroutines executing operations.
	// Operations keep file order only when Workers is 1; concurrent
	// scenarios must be written order-independent.
	Workers int

	// Limiter throttles the aggregate operation rate. Nil means
	// unlimited.
	Limiter *ratelimiter.RateLimiter

	// Metrics records per-operation outcomes. Nil selects the
	// registry-backed implementation (a no-op when metrics are
	// disabled).
	Metrics metrics.TreeMetrics

	// Bridge, when non-nil, routes every created file's data through
	// the bridge worker instead of touching the provider directly.
	Bridge *bridge.Bridge
}

// Runner executes scenario operations against a tree.
type Runner struct {
	root    *vfs.Directory
	res     vfs.Resolver
	workers int
	limiter *ratelimiter.RateLimiter
	metrics metrics.TreeMetrics
	bridge  *bridge.Bridge
}

// NewRunner creates a runner rooted at root.
func NewRunner(root *vfs.Directory, opts RunnerOptions) *Runner {
	r := &Runner{
		root:    root,
		res:     vfs.Resolver{Root: root},
		workers: opts.Workers,
		limiter: opts.Limiter,
		metrics: opts.Metrics,
		bridge:  opts.Bridge,
	}
	if r.workers < 1 {
		r.workers = 1
	}
	if r.limiter == nil {
		r.limiter = ratelimiter.New(0, 0)
	}
	if r.metrics == nil {
		r.metrics = metrics.NewTreeMetrics()
	}
	return r
}

// Run executes ops and returns an error summarizing any failures.
// Single-worker runs preserve file order; with more workers the
// operations are distributed and may interleave.
func (r *Runner) Run(ctx context.Context, ops []Op) error {
	var (
		mu       sync.Mutex
		failed   int
		firstErr error
	)

	runOne := func(op Op) {
		if err := r.limiter.Wait(ctx); err != nil {
			mu.Lock()
			failed++
			if firstErr == nil {
				firstErr = err
			}
			mu.Unlock()
			return
		}

		start := time.Now()
		err := op.apply(r)
		r.metrics.RecordOperation(op.Name(), time.Since(start), err)

		if err != nil {
			logger.Warn("scenario: %s failed: %v", op.Name(), err)
			mu.Lock()
			failed++
			if firstErr == nil {
				firstErr = err
			}
			mu.Unlock()
		}
	}

	if r.workers == 1 {
		for _, op := range ops {
			if ctx.Err() != nil {
				break
			}
			runOne(op)
		}
	} else {
		queue := make(chan Op)
		var wg sync.WaitGroup
		for i := 0; i < r.workers; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for op := range queue {
					runOne(op)
				}
			}()
		}
	feed:
		for _, op := range ops {
			select {
			case queue <- op:
			case <-ctx.Done():
				break feed
			}
		}
		close(queue)
		wg.Wait()
	}

	r.metrics.SetNodeCount(countNodes(r.root))

	if failed > 0 {
		return fmt.Errorf("%d of %d operations failed: %w", failed, len(ops), firstErr)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return nil
}

// newProvider builds the data backing for a created file.
func (r *Runner) newProvider(contents []byte) vfs.DataProvider {
	var p vfs.DataProvider = mem.NewFile(contents)
	if r.bridge != nil {
		p = proxy.New(p, r.bridge)
	}
	return p
}

func (op *MkdirOp) apply(r *Runner) error {
	parts := vfs.SplitPath(op.Path)
	pp, err := r.res.GetParsedPath(parts, nil)
	if err != nil {
		return err
	}
	defer pp.Parent.Unlock()

	if pp.Child != nil {
		return vfs.NewAlreadyExists(op.Path)
	}

	mode := fs.FileMode(op.Mode)
	if mode == 0 {
		mode = 0o755
	}
	pp.Parent.SetEntry(parts[len(parts)-1], vfs.NewDirectory(mode, vfs.NullBackend))
	return nil
}

func (op *CreateOp) apply(r *Runner) error {
	parts := vfs.SplitPath(op.Path)
	pp, err := r.res.GetParsedPath(parts, nil)
	if err != nil {
		return err
	}
	defer pp.Parent.Unlock()

	if pp.Child != nil {
		return vfs.NewAlreadyExists(op.Path)
	}

	mode := fs.FileMode(op.Mode)
	if mode == 0 {
		mode = 0o644
	}
	node := vfs.NewDataFile(mode, vfs.NullBackend, r.newProvider([]byte(op.Contents)))
	pp.Parent.SetEntry(parts[len(parts)-1], node)
	return nil
}

func (op *WriteOp) apply(r *Runner) error {
	df, err := r.lookupDataFile(op.Path)
	if err != nil {
		return err
	}

	h := df.Locked()
	defer h.Unlock()
	if _, err := h.Write([]byte(op.Data), op.Offset); err != nil {
		return fmt.Errorf("write %q: %w", op.Path, err)
	}
	h.SetMtime(time.Now())
	return nil
}

func (op *ReadOp) apply(r *Runner) error {
	df, err := r.lookupDataFile(op.Path)
	if err != nil {
		return err
	}

	h := df.Locked()
	buf := make([]byte, op.Length)
	n, err := h.Read(buf, op.Offset)
	if err != nil && err != io.EOF {
		h.Unlock()
		return fmt.Errorf("read %q: %w", op.Path, err)
	}
	h.SetAtime(time.Now())
	h.Unlock()

	got := buf[:n]
	if op.Expect != "" && string(got) != op.Expect {
		return fmt.Errorf("read %q: got %q, want %q", op.Path, got, op.Expect)
	}
	logger.Debug("scenario: read %d bytes from %s", n, op.Path)
	return nil
}

func (op *ListOp) apply(r *Runner) error {
	dir, err := r.res.GetDir(vfs.SplitPath(op.Path), nil)
	if err != nil {
		return err
	}

	h := dir.Locked()
	entries := h.Entries()
	h.Unlock()

	for _, e := range entries {
		logger.Debug("scenario: %s/%s (%s)", op.Path, e.Name, e.File.Kind())
	}
	return nil
}

func (op *MoveOp) apply(r *Runner) error {
	fromParts := vfs.SplitPath(op.From)
	if len(fromParts) == 0 || fromParts[len(fromParts)-1] == "/" {
		return vfs.NewInvalidArgument(op.From)
	}
	toParts := vfs.SplitPath(op.To)
	if len(toParts) == 0 || toParts[len(toParts)-1] == "/" {
		return vfs.NewInvalidArgument(op.To)
	}

	src, err := r.res.GetParsedPath(fromParts, nil)
	if err != nil {
		return err
	}
	srcDir := vfs.MustDirectory(src.Parent.File())
	srcChild := src.Child
	src.Parent.Unlock()
	if srcChild == nil {
		return vfs.NewNoSuchEntry(op.From)
	}

	// Resolving the destination with the moved node forbidden rejects
	// a move of a directory beneath itself.
	dstDir, err := r.res.GetDir(toParts[:len(toParts)-1], srcChild)
	if err != nil {
		return err
	}

	return vfs.Move(srcDir, fromParts[len(fromParts)-1], dstDir, toParts[len(toParts)-1])
}

func (op *RemoveOp) apply(r *Runner) error {
	parts := vfs.SplitPath(op.Path)
	pp, err := r.res.GetParsedPath(parts, nil)
	if err != nil {
		return err
	}
	defer pp.Parent.Unlock()

	if pp.Child == nil {
		return vfs.NewNoSuchEntry(op.Path)
	}
	if pp.Child == vfs.File(r.root) {
		return vfs.NewInvalidArgument(op.Path)
	}

	if d := vfs.AsDirectory(pp.Child); d != nil {
		dh := d.Locked()
		n := dh.NumEntries()
		dh.Unlock()
		if n > 0 {
			return vfs.NewInvalidArgument(op.Path)
		}
	}

	pp.Parent.UnlinkEntry(parts[len(parts)-1])
	return nil
}

func (op *SymlinkOp) apply(r *Runner) error {
	parts := vfs.SplitPath(op.Path)
	pp, err := r.res.GetParsedPath(parts, nil)
	if err != nil {
		return err
	}
	defer pp.Parent.Unlock()

	if pp.Child != nil {
		return vfs.NewAlreadyExists(op.Path)
	}

	pp.Parent.SetEntry(parts[len(parts)-1], vfs.NewSymlink(0o777, vfs.NullBackend, op.Target))
	return nil
}

func (op *StatOp) apply(r *Runner) error {
	parts := vfs.SplitPath(op.Path)
	pp, err := r.res.GetParsedPath(parts, nil)
	if err != nil {
		return err
	}
	defer pp.Parent.Unlock()

	if pp.Child == nil {
		return vfs.NewNoSuchEntry(op.Path)
	}

	// Probe first so contended stats show up in the lock metrics;
	// fall back to the blocking acquisition.
	h, ok := vfs.TryLockFile(pp.Child)
	r.metrics.RecordLockProbe(ok)
	if !ok {
		h = vfs.LockFile(pp.Child)
	}
	size := h.Size()
	mode := h.Mode()
	h.Unlock()

	logger.Debug("scenario: stat %s: kind=%s ino=%d size=%d mode=%v",
		op.Path, pp.Child.Kind(), pp.Child.Ino(), size, mode)
	return nil
}

// lookupDataFile resolves path to a data file node, releasing the
// parent lock before returning.
func (r *Runner) lookupDataFile(path string) (*vfs.DataFile, error) {
	pp, err := r.res.GetParsedPath(vfs.SplitPath(path), nil)
	if err != nil {
		return nil, err
	}
	defer pp.Parent.Unlock()

	if pp.Child == nil {
		return nil, vfs.NewNoSuchEntry(path)
	}
	if vfs.IsDirectory(pp.Child) {
		return nil, vfs.NewIsADirectory(path)
	}
	df := vfs.AsDataFile(pp.Child)
	if df == nil {
		return nil, vfs.NewInvalidArgument(path)
	}
	return df, nil
}

// countNodes walks the tree and counts reachable nodes, including
// root itself.
func countNodes(root *vfs.Directory) int {
	count := 1

	h := root.Locked()
	entries := h.Entries()
	h.Unlock()

	for _, e := range entries {
		if sub := vfs.AsDirectory(e.File); sub != nil {
			count += countNodes(sub)
		} else {
			count++
		}
	}
	return count
}
