// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package pipeline

import (
	"context"
	"runtime"
	"sync"

	"github.com/bureau-foundation/genomeencode/lib/artifact"
)

// Input is one named sequence in a batch.
type Input struct {
	Name     string
	Sequence []byte
}

// Compressed is the outcome of compressing one [Input]. Exactly one of
// Artifact and Err is set.
type Compressed struct {
	Name     string
	Artifact *artifact.Artifact
	Err      error
}

// Encoded is one named artifact in a batch.
type Encoded struct {
	Name     string
	Artifact *artifact.Artifact
}

// Decompressed is the outcome of decompressing one [Encoded]. Exactly
// one of Sequence and Err is set.
type Decompressed struct {
	Name     string
	Sequence []byte
	Err      error
}

// CompressBatch compresses inputs on up to workers goroutines
// (runtime.NumCPU() when workers <= 0). Results are in input order.
// Each artifact's Name is set from its input. Per-item failures are
// reported in each result. When ctx is cancelled,
// items not yet started fail with ctx.Err() and CompressBatch returns
// ctx.Err() once in-flight items finish.
func (c *Compressor) CompressBatch(ctx context.Context, inputs []Input, workers int) ([]Compressed, error) {
	results := runBatch(ctx, inputs, workers,
		func(input Input) Compressed {
			compressed, err := c.Compress(input.Sequence)
			if err != nil {
				return Compressed{Name: input.Name, Err: err}
			}
			compressed.Name = input.Name
			return Compressed{Name: input.Name, Artifact: compressed}
		},
		func(input Input, err error) Compressed {
			return Compressed{Name: input.Name, Err: err}
		},
	)
	return results, ctx.Err()
}

// DecompressBatch decompresses encoded on up to workers goroutines,
// with the same ordering and cancellation behaviour as
// [Compressor.CompressBatch].
func (c *Compressor) DecompressBatch(ctx context.Context, encoded []Encoded, workers int) ([]Decompressed, error) {
	results := runBatch(ctx, encoded, workers,
		func(item Encoded) Decompressed {
			output, err := c.Decompress(item.Artifact)
			return Decompressed{Name: item.Name, Sequence: output, Err: err}
		},
		func(item Encoded, err error) Decompressed {
			return Decompressed{Name: item.Name, Err: err}
		},
	)
	return results, ctx.Err()
}

// runBatch applies work to each item on a bounded pool. Items are
// dispatched in order; once ctx is done, undispatched items get
// skipped(item, ctx.Err()) instead.
func runBatch[In, Out any](ctx context.Context, items []In, workers int, work func(In) Out, skipped func(In, error) Out) []Out {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	workers = min(workers, len(items))

	results := make([]Out, len(items))
	indices := make(chan int)
	var active sync.WaitGroup
	for i := 0; i < workers; i++ {
		active.Add(1)
		go func() {
			defer active.Done()
			for index := range indices {
				results[index] = work(items[index])
			}
		}()
	}

	next := 0
dispatch:
	for ; next < len(items); next++ {
		select {
		case <-ctx.Done():
			break dispatch
		default:
		}
		select {
		case indices <- next:
		case <-ctx.Done():
			break dispatch
		}
	}
	close(indices)
	active.Wait()

	for ; next < len(items); next++ {
		results[next] = skipped(items[next], ctx.Err())
	}
	return results
}
