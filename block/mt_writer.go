package block

import (
	"container/heap"
	"context"
	"sync"

	"github.com/arloliu/qstore/format"
	"github.com/arloliu/qstore/internal/hash"
	"github.com/arloliu/qstore/internal/pool"
	"github.com/arloliu/qstore/stream"
)

// mtWriteJob carries one block through the compress pipeline. raw is
// returned to the block pool as soon as the worker is done with it;
// zbuf is handed to the assembler and returned to the zblock pool once
// written.
type mtWriteJob struct {
	order    uint64
	raw      []byte
	rawLen   int
	zbuf     []byte
	zLen     int
	shuffled bool
	failed   bool
}

type mtWriteJobHeap []*mtWriteJob

func (h mtWriteJobHeap) Len() int            { return len(h) }
func (h mtWriteJobHeap) Less(i, j int) bool  { return h[i].order < h[j].order }
func (h mtWriteJobHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *mtWriteJobHeap) Push(x any)         { *h = append(*h, x.(*mtWriteJob)) }
func (h *mtWriteJobHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]

	return x
}

// MTWriter is the pipelined multi-worker counterpart to Writer: a pool of
// goroutines compresses blocks concurrently while a single serial
// assembler goroutine reorders the results back into stream order before
// writing and hashing them, replacing the original's
// tbb::flow::function_node -> sequencer_node -> serial writer_node graph
// (multithreaded_block_module.h's BlockCompressWriterMT) with channels and
// a container/heap sequencer.
type MTWriter struct {
	w     stream.Writer
	c     Compressor
	level int
	hp    *hash.Hasher

	blockPool  *pool.BlockPool
	zblockPool *pool.BlockPool

	current   []byte
	n         int
	nextOrder uint64

	ctx    context.Context
	cancel context.CancelFunc
	workCh chan *mtWriteJob
	doneCh chan *mtWriteJob
	workWg sync.WaitGroup
	asmWg  sync.WaitGroup

	mu  sync.Mutex
	err error
}

// NewMTWriter creates an MTWriter framing blocks onto w using c at the
// given zstd level, spreading compression across nThreads goroutines.
// nThreads < 1 is normalized to 1 (spec.md §11's n_threads<1 rule).
func NewMTWriter(w stream.Writer, c Compressor, level, nThreads int) *MTWriter {
	if nThreads < 1 {
		nThreads = 1
	}

	ctx, cancel := context.WithCancel(context.Background())
	mw := &MTWriter{
		w:          w,
		c:          c,
		level:      level,
		hp:         hash.New(),
		blockPool:  pool.NewBlockPool(format.MaxBlockSize),
		zblockPool: pool.NewBlockPool(format.MaxZBlockSize),
		ctx:        ctx,
		cancel:     cancel,
		workCh:     make(chan *mtWriteJob, nThreads*2),
		doneCh:     make(chan *mtWriteJob, nThreads*2),
	}
	mw.current = mw.blockPool.Get()

	mw.workWg.Add(nThreads)
	for i := 0; i < nThreads; i++ {
		go mw.runWorker()
	}
	mw.asmWg.Add(1)
	go mw.runAssembler()

	return mw
}

func (w *MTWriter) runWorker() {
	defer w.workWg.Done()

	for {
		select {
		case job, ok := <-w.workCh:
			if !ok {
				return
			}
			shufbuf := w.blockPool.Get()
			n, shuffled := w.c.CompressAdaptive(job.zbuf, shufbuf[:job.rawLen], job.raw[:job.rawLen], w.level)
			w.blockPool.Put(job.raw)
			w.blockPool.Put(shufbuf)
			if n == 0 {
				job.failed = true
			} else {
				job.zLen = n
				job.shuffled = shuffled
			}
			select {
			case w.doneCh <- job:
			case <-w.ctx.Done():
				return
			}
		case <-w.ctx.Done():
			return
		}
	}
}

func (w *MTWriter) runAssembler() {
	defer w.asmWg.Done()

	h := &mtWriteJobHeap{}
	heap.Init(h)
	expected := uint64(0)

	for {
		select {
		case job, ok := <-w.doneCh:
			if !ok {
				return
			}
			heap.Push(h, job)
			for h.Len() > 0 && (*h)[0].order == expected {
				next := heap.Pop(h).(*mtWriteJob)
				expected++

				if next.failed {
					w.setErr(ErrCompressionFailed)
					w.cancel()

					return
				}

				sizeWord := format.EncodeSizeWord(next.zLen, next.shuffled)
				stream.WriteInteger[uint32](w.w, sizeWord)
				w.hp.UpdateUint32(sizeWord)
				w.w.Write(next.zbuf[:next.zLen])
				w.hp.Update(next.zbuf[:next.zLen])
				w.zblockPool.Put(next.zbuf)
			}
		case <-w.ctx.Done():
			return
		}
	}
}

func (w *MTWriter) setErr(err error) {
	w.mu.Lock()
	if w.err == nil {
		w.err = err
	}
	w.mu.Unlock()
}

func (w *MTWriter) errOrNil() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.err
}

func (w *MTWriter) submit(raw []byte, n int) error {
	if err := w.errOrNil(); err != nil {
		return err
	}

	job := &mtWriteJob{
		order:  w.nextOrder,
		raw:    raw,
		rawLen: n,
		zbuf:   w.zblockPool.Get(),
	}
	w.nextOrder++

	select {
	case w.workCh <- job:
		return nil
	case <-w.ctx.Done():
		return w.errOrNil()
	}
}

func (w *MTWriter) flushCurrent() error {
	if w.n == 0 {
		return nil
	}

	buf, n := w.current, w.n
	w.current = w.blockPool.Get()
	w.n = 0

	return w.submit(buf, n)
}

// Write appends p to the block stream, dispatching full blocks to the
// compressor pool as they accumulate. Large writes spanning a whole block
// are copied into a freshly pooled buffer and submitted directly, mirroring
// push_data's fast path.
func (w *MTWriter) Write(p []byte) (int, error) {
	total := len(p)
	consumed := 0

	for consumed < total {
		if w.n >= format.MaxBlockSize {
			if err := w.flushCurrent(); err != nil {
				return consumed, err
			}
		}

		if w.n == 0 && total-consumed >= format.MaxBlockSize {
			buf := w.blockPool.Get()
			copy(buf, p[consumed:consumed+format.MaxBlockSize])
			if err := w.submit(buf, format.MaxBlockSize); err != nil {
				return consumed, err
			}
			consumed += format.MaxBlockSize

			continue
		}

		room := format.MaxBlockSize - w.n
		add := total - consumed
		if add > room {
			add = room
		}
		copy(w.current[w.n:], p[consumed:consumed+add])
		w.n += add
		consumed += add
	}

	return total, nil
}

// WriteValue appends a small, fixed-size value, flushing first if it would
// otherwise straddle a block boundary. Same MIN_BLOCKSIZE reserve as the
// single-worker Writer.
func (w *MTWriter) WriteValue(p []byte) error {
	if w.n > format.MinBlockSize {
		if err := w.flushCurrent(); err != nil {
			return err
		}
	}
	copy(w.current[w.n:], p)
	w.n += len(p)

	return nil
}

// Flush dispatches any buffered bytes for compression. It does not wait for
// them to be written; call Finish to drain the pipeline.
func (w *MTWriter) Flush() error {
	return w.flushCurrent()
}

// Finish flushes remaining buffered bytes, drains the compression pipeline,
// and returns the rolling content hash over everything written. It must be
// called exactly once.
func (w *MTWriter) Finish() (uint64, error) {
	flushErr := w.flushCurrent()

	close(w.workCh)
	w.workWg.Wait()
	close(w.doneCh)
	w.asmWg.Wait()
	w.cancel()

	if flushErr != nil {
		return 0, flushErr
	}
	if err := w.errOrNil(); err != nil {
		return 0, err
	}

	return w.hp.Digest(), nil
}

// Cleanup cancels the compression pipeline and waits for every worker and
// assembler goroutine to exit, without writing anything further. It must
// be called from the error path whenever Finish is never reached - a
// serialization error upstream of the last Write/WriteValue call, for
// instance - since nothing else ever signals ctx.Done in that case and
// the workers/assembler would otherwise block forever on workCh/doneCh
// (spec.md §4.7). Cleanup is idempotent: cancel is safe to call more than
// once, and both wait groups are already at zero on a second call, so
// calling Cleanup after Finish (or twice) just returns immediately.
func (w *MTWriter) Cleanup() {
	w.cancel()
	w.workWg.Wait()
	w.asmWg.Wait()
}
