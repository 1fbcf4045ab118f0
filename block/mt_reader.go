package block

import (
	"container/heap"
	"context"
	"io"
	"sync"

	"github.com/arloliu/qstore/format"
	"github.com/arloliu/qstore/internal/hash"
	"github.com/arloliu/qstore/internal/pool"
	"github.com/arloliu/qstore/stream"
)

// mtReadJob carries one block through the decompress pipeline, in the
// reverse direction of mtWriteJob: zbuf arrives already read off the
// stream (and already hashed, since reading must stay sequential), buf
// is the worker's decompressed output.
type mtReadJob struct {
	order    uint64
	zbuf     []byte
	zLen     int
	shuffled bool
	buf      []byte
	decLen   int
	failed   bool
}

type mtReadJobHeap []*mtReadJob

func (h mtReadJobHeap) Len() int           { return len(h) }
func (h mtReadJobHeap) Less(i, j int) bool { return h[i].order < h[j].order }
func (h mtReadJobHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *mtReadJobHeap) Push(x any)        { *h = append(*h, x.(*mtReadJob)) }
func (h *mtReadJobHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]

	return x
}

// MTReader is the pipelined multi-worker counterpart to Reader. A single
// goroutine reads size words and compressed payloads off the stream in
// order (streams can't be read concurrently) - optionally accumulating the
// trailer hash as it goes, the MT equivalent of spec.md §4.8's
// hash-validated mode - while a pool of goroutines decompresses blocks
// concurrently and a sequencer goroutine reorders them back into stream
// order for Read to consume. Ported in spirit from
// multithreaded_block_module.h's BlockCompressReaderMT.
type MTReader struct {
	r  stream.Reader
	c  Compressor
	hp *hash.Hasher

	blockPool  *pool.BlockPool
	zblockPool *pool.BlockPool

	ctx         context.Context
	cancel      context.CancelFunc
	workCh      chan *mtReadJob
	doneCh      chan *mtReadJob
	completedCh chan *mtReadJob
	workWg      sync.WaitGroup
	readerWg    sync.WaitGroup
	asmWg       sync.WaitGroup

	mu  sync.Mutex
	err error

	current *mtReadJob
	off     int
}

// NewMTReader creates an MTReader decompressing blocks from r with c across
// nThreads goroutines. If hp is non-nil, it accumulates a digest of every
// size word and compressed payload read, for hash-validated streaming reads.
// nThreads < 1 is normalized to 1.
func NewMTReader(r stream.Reader, c Compressor, hp *hash.Hasher, nThreads int) *MTReader {
	if nThreads < 1 {
		nThreads = 1
	}

	ctx, cancel := context.WithCancel(context.Background())
	mr := &MTReader{
		r:           r,
		c:           c,
		hp:          hp,
		blockPool:   pool.NewBlockPool(format.MaxBlockSize),
		zblockPool:  pool.NewBlockPool(format.MaxZBlockSize),
		ctx:         ctx,
		cancel:      cancel,
		workCh:      make(chan *mtReadJob, nThreads*2),
		doneCh:      make(chan *mtReadJob, nThreads*2),
		completedCh: make(chan *mtReadJob, nThreads*2),
	}

	mr.readerWg.Add(1)
	go mr.readerLoop()

	mr.workWg.Add(nThreads)
	for i := 0; i < nThreads; i++ {
		go mr.runWorker()
	}
	go func() {
		mr.workWg.Wait()
		close(mr.doneCh)
	}()

	mr.asmWg.Add(1)
	go mr.runAssembler()

	return mr
}

func (r *MTReader) setErr(err error) {
	r.mu.Lock()
	if r.err == nil {
		r.err = err
	}
	r.mu.Unlock()
}

func (r *MTReader) errOrNil() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.err
}

func (r *MTReader) readerLoop() {
	defer r.readerWg.Done()
	defer close(r.workCh)

	var order uint64

	for {
		var szBuf [4]byte

		got := r.r.Read(szBuf[:])
		if got == 0 {
			return
		}
		if got != len(szBuf) {
			r.setErr(format.ErrTruncatedInput)
			r.cancel()

			return
		}

		sizeWord := stream.HostEngine.Uint32(szBuf[:])
		if r.hp != nil {
			r.hp.UpdateUint32(sizeWord)
		}

		length, shuffled := format.DecodeSizeWord(sizeWord)

		zbuf := r.zblockPool.Get()
		if length > len(zbuf) {
			r.zblockPool.Put(zbuf)
			r.setErr(format.ErrCorruptBlock)
			r.cancel()

			return
		}

		got = r.r.Read(zbuf[:length])
		if got != length {
			r.setErr(format.ErrTruncatedInput)
			r.cancel()

			return
		}
		if r.hp != nil {
			r.hp.Update(zbuf[:length])
		}

		job := &mtReadJob{order: order, zbuf: zbuf, zLen: length, shuffled: shuffled}
		order++

		select {
		case r.workCh <- job:
		case <-r.ctx.Done():
			return
		}
	}
}

func (r *MTReader) runWorker() {
	defer r.workWg.Done()

	for {
		select {
		case job, ok := <-r.workCh:
			if !ok {
				return
			}

			buf := r.blockPool.Get()
			shufbuf := r.blockPool.Get()
			n := r.c.DecompressAdaptive(buf, shufbuf, job.zbuf[:job.zLen], job.shuffled)
			r.zblockPool.Put(job.zbuf)
			r.blockPool.Put(shufbuf)

			if n == 0 {
				job.failed = true
				r.blockPool.Put(buf)
			} else {
				job.buf = buf
				job.decLen = n
			}

			select {
			case r.doneCh <- job:
			case <-r.ctx.Done():
				return
			}
		case <-r.ctx.Done():
			return
		}
	}
}

func (r *MTReader) runAssembler() {
	defer r.asmWg.Done()
	defer close(r.completedCh)

	h := &mtReadJobHeap{}
	heap.Init(h)
	expected := uint64(0)

	for job := range r.doneCh {
		heap.Push(h, job)
		for h.Len() > 0 && (*h)[0].order == expected {
			next := heap.Pop(h).(*mtReadJob)
			expected++

			if next.failed {
				r.setErr(format.ErrCorruptBlock)
				r.cancel()

				return
			}

			select {
			case r.completedCh <- next:
			case <-r.ctx.Done():
				return
			}
		}
	}
}

// Read fills p with decompressed bytes in original stream order, pulling
// further blocks from the pipeline as needed. Returns io.EOF once the
// underlying stream has no further blocks.
func (r *MTReader) Read(p []byte) (int, error) {
	total := len(p)
	copied := 0

	for copied < total {
		if r.current == nil || r.off >= r.current.decLen {
			if r.current != nil {
				r.blockPool.Put(r.current.buf)
				r.current = nil
			}

			job, ok := <-r.completedCh
			if !ok {
				if err := r.errOrNil(); err != nil {
					return copied, err
				}
				if copied > 0 {
					return copied, nil
				}

				return copied, io.EOF
			}
			r.current = job
			r.off = 0
		}

		c := copy(p[copied:], r.current.buf[r.off:r.current.decLen])
		r.off += c
		copied += c
	}

	return copied, nil
}

// Digest returns the rolling content hash accumulated so far. Only
// meaningful when the MTReader was constructed with a non-nil hasher.
func (r *MTReader) Digest() uint64 {
	if r.hp == nil {
		return 0
	}

	return r.hp.Digest()
}

// Cleanup cancels the decompress pipeline and waits for the reader,
// worker, and assembler goroutines to exit. It must be called whenever a
// caller stops draining Read before the underlying stream is exhausted -
// a structural decode error partway through a value, for instance - since
// otherwise readerLoop keeps pulling blocks from the stream and every
// stage downstream of it blocks forever once its outbound channel fills
// (spec.md §4.7). Cleanup is idempotent for the same reason MTWriter's
// is: cancel tolerates repeated calls, and every wait group is already at
// zero once all three goroutine kinds have exited.
func (r *MTReader) Cleanup() {
	r.cancel()
	r.readerWg.Wait()
	r.workWg.Wait()
	r.asmWg.Wait()
}
