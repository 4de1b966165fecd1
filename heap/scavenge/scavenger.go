package scavenge

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/joshuapare/gcmodel/heap"
	"github.com/joshuapare/gcmodel/heap/alloc"
	"github.com/joshuapare/gcmodel/heap/objmodel"
	"github.com/joshuapare/gcmodel/internal/format"
	"github.com/joshuapare/gcmodel/internal/logger"
)

// CacheLineSize is the destination boundary for objects whose class carries
// a hot-field hint when Options.AlignHotFields is set.
const CacheLineSize = 64

// Options configures a Scavenger.
type Options struct {
	// Workers is the number of goroutines copying objects. Zero means
	// GOMAXPROCS.
	Workers int

	// AlignHotFields places objects of classes with a hot-field hint on a
	// cache-line boundary in to-space.
	AlignHotFields bool

	// Logger receives per-object debug records and a summary. Nil means the
	// package logger.
	Logger *slog.Logger
}

// DefaultOptions returns the options used when none are given.
func DefaultOptions() Options {
	return Options{Workers: runtime.GOMAXPROCS(0)}
}

// Result summarizes one Evacuate call.
type Result struct {
	Copied        int    // objects copied by this call
	Skipped       int    // objects already claimed or forwarded
	BytesCopied   uint64 // sum of CopySize
	BytesReserved uint64 // sum of ReserveSize, excluding cache-line padding
	HashSlots     int    // objects that gained an identity hash slot
}

// Scavenger copies objects from one region to another.
type Scavenger struct {
	model *objmodel.ObjectModel
	from  *heap.Region
	to    *alloc.BumpAllocator
	opts  Options
	log   *slog.Logger

	// claims holds every from-space object a worker has taken ownership of.
	claims sync.Map
}

// New returns a scavenger copying out of from into to. The to-space never
// grows during a scavenge: workers hold slices into it while they copy.
func New(model *objmodel.ObjectModel, from, to *heap.Region, opts Options) *Scavenger {
	if opts.Workers <= 0 {
		opts.Workers = runtime.GOMAXPROCS(0)
	}
	l := opts.Logger
	if l == nil {
		l = logger.L
	}
	return &Scavenger{
		model: model,
		from:  from,
		to:    alloc.NewBump(to, model, alloc.WithoutGrowth(), alloc.WithLogger(l)),
		opts:  opts,
		log:   l,
	}
}

// ToSpace returns the allocator placing copies in to-space.
func (s *Scavenger) ToSpace() *alloc.BumpAllocator { return s.to }

// Evacuate copies every object in refs to to-space. Objects listed twice, or
// already forwarded by an earlier call, are copied once. The first error
// stops the remaining workers; objects copied before it stay forwarded.
func (s *Scavenger) Evacuate(ctx context.Context, refs []heap.ObjectRef) (Result, error) {
	var (
		copied, skipped, hashSlots atomic.Int64
		bytesCopied, bytesReserved atomic.Uint64
	)

	work := make(chan heap.ObjectRef)
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer close(work)
		for _, ref := range refs {
			select {
			case work <- ref:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		return nil
	})
	for w := 0; w < s.opts.Workers; w++ {
		g.Go(func() error {
			for ref := range work {
				if err := ctx.Err(); err != nil {
					return err
				}
				d, ok, err := s.copyObject(ref)
				if err != nil {
					return err
				}
				if !ok {
					skipped.Add(1)
					continue
				}
				copied.Add(1)
				bytesCopied.Add(uint64(d.CopySize))
				bytesReserved.Add(uint64(d.ReserveSize))
				if d.HashSlotAppended {
					hashSlots.Add(1)
				}
			}
			return nil
		})
	}
	err := g.Wait()

	res := Result{
		Copied:        int(copied.Load()),
		Skipped:       int(skipped.Load()),
		BytesCopied:   bytesCopied.Load(),
		BytesReserved: bytesReserved.Load(),
		HashSlots:     int(hashSlots.Load()),
	}
	s.log.Info("evacuated objects",
		slog.Int("copied", res.Copied),
		slog.Int("skipped", res.Skipped),
		slog.Uint64("bytesCopied", res.BytesCopied),
		slog.Uint64("bytesReserved", res.BytesReserved),
		slog.Int("hashSlots", res.HashSlots))
	return res, err
}

// copyObject relocates one object. It reports false when another worker or
// an earlier call already owns the object.
func (s *Scavenger) copyObject(ref heap.ObjectRef) (objmodel.CopyDetails, bool, error) {
	if _, taken := s.claims.LoadOrStore(ref, struct{}{}); taken {
		return objmodel.CopyDetails{}, false, nil
	}

	fh, err := objmodel.NewForwardedHeader(s.from, ref)
	if err != nil {
		if isForwarded(err) {
			return objmodel.CopyDetails{}, false, nil
		}
		return objmodel.CopyDetails{}, false, fmt.Errorf("scavenge: object 0x%x: %w", ref, err)
	}

	d := s.model.CalculateObjectDetailsForCopy(&fh)

	var dest heap.ObjectRef
	if s.opts.AlignHotFields && d.HotFieldAlignment != 0 {
		dest, err = s.to.ReserveAligned(d.ReserveSize, CacheLineSize)
	} else {
		dest, err = s.to.Reserve(d.ReserveSize)
	}
	if err != nil {
		return objmodel.CopyDetails{}, false, fmt.Errorf("scavenge: object 0x%x: %w", ref, err)
	}

	src, err := s.from.Slice(ref, d.CopySize)
	if err != nil {
		return objmodel.CopyDetails{}, false, fmt.Errorf("scavenge: object 0x%x: %w", ref, err)
	}
	dst, err := s.to.Region().Slice(dest, d.ReserveSize)
	if err != nil {
		return objmodel.CopyDetails{}, false, fmt.Errorf("scavenge: destination 0x%x: %w", dest, err)
	}
	copy(dst, src)

	if err := s.model.FinishCopy(&fh, d, s.to.Region(), dest); err != nil {
		return objmodel.CopyDetails{}, false, fmt.Errorf("scavenge: object 0x%x: %w", ref, err)
	}
	if err := fh.Forward(dest); err != nil {
		return objmodel.CopyDetails{}, false, fmt.Errorf("scavenge: object 0x%x: %w", ref, err)
	}

	s.log.Debug("copied object",
		slog.Uint64("from", ref),
		slog.Uint64("to", dest),
		slog.Bool("indexable", d.Indexable),
		slog.Uint64("copy", uint64(d.CopySize)),
		slog.Uint64("reserve", uint64(d.ReserveSize)),
		slog.String("flags", fh.PreservedFlags().String()))
	return d, true, nil
}

// Resolve returns the to-space address of an evacuated from-space object.
func (s *Scavenger) Resolve(ref heap.ObjectRef) (heap.ObjectRef, error) {
	b, err := s.from.Header(ref)
	if err != nil {
		return format.NilRef, err
	}
	dest, err := format.ForwardingAddress(format.ReadU64(b, format.ClassSlotOffset))
	if err != nil {
		return format.NilRef, fmt.Errorf("%w: 0x%x", ErrNotForwarded, ref)
	}
	return dest, nil
}

func isForwarded(err error) bool {
	return errors.Is(err, objmodel.ErrAlreadyForwarded)
}
