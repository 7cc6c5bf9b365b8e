// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package importer

import (
	"context"
)

// FetchFunc returns up to limit items starting at offset, in a stable order.
type FetchFunc[T any] func(ctx context.Context, limit, offset int) ([]T, error)

// PageIterator walks a collection in pages of batchSize.
// It stops when a page comes back short or when total items have been read.
type PageIterator[T any] struct {
	fetch     FetchFunc[T]
	batchSize int
	offset    int
	remaining int
	done      bool
}

// NewPageIterator creates a new page iterator starting at offset.
// total bounds the number of items read; total <= 0 means unbounded.
func NewPageIterator[T any](fetch FetchFunc[T], batchSize, offset, total int) *PageIterator[T] {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	remaining := -1
	if total > 0 {
		remaining = max(total-offset, 0)
	}
	return &PageIterator[T]{
		fetch:     fetch,
		batchSize: batchSize,
		offset:    offset,
		remaining: remaining,
		done:      remaining == 0,
	}
}

// Offset returns the offset of the next page.
func (it *PageIterator[T]) Offset() int {
	return it.offset
}

// Next fetches the next page. It returns an empty page once the iterator is exhausted.
func (it *PageIterator[T]) Next(ctx context.Context) ([]T, error) {
	if it.done {
		return nil, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	limit := it.batchSize
	if it.remaining >= 0 && it.remaining < limit {
		limit = it.remaining
	}

	page, err := it.fetch(ctx, limit, it.offset)
	if err != nil {
		return nil, err
	}

	it.offset += len(page)
	if it.remaining >= 0 {
		it.remaining -= len(page)
	}
	if len(page) < limit || it.remaining == 0 {
		it.done = true
	}
	return page, nil
}

// SliceFetcher pages over an in-memory slice.
func SliceFetcher[T any](items []T) FetchFunc[T] {
	return func(_ context.Context, limit, offset int) ([]T, error) {
		if offset >= len(items) {
			return nil, nil
		}
		end := min(offset+limit, len(items))
		return items[offset:end], nil
	}
}
