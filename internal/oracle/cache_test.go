// Copyright 2025 Binaek Sarkar
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package oracle

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSimplifyCache_GetMiss(t *testing.T) {
	c := newSimplifyCache(4)
	_, ok := c.get("x + 1")
	require.False(t, ok)
}

func TestSimplifyCache_PutThenGet(t *testing.T) {
	c := newSimplifyCache(4)
	c.put("x + x", "2*x")
	v, ok := c.get("x + x")
	require.True(t, ok)
	require.Equal(t, "2*x", v)
}

func TestSimplifyCache_PutOverwritesExistingKey(t *testing.T) {
	c := newSimplifyCache(4)
	c.put("x + x", "2*x")
	c.put("x + x", "x*2")
	v, ok := c.get("x + x")
	require.True(t, ok)
	require.Equal(t, "x*2", v)
	require.Equal(t, 1, c.len())
}

// TestSimplifyCache_EvictsLeastRecentlyUsed mirrors how Oracle.Simplify
// exercises the cache in practice: a bounded set of distinct expression
// texts seen during one evaluator run, oldest-untouched evicted first.
func TestSimplifyCache_EvictsLeastRecentlyUsed(t *testing.T) {
	c := newSimplifyCache(2)
	c.put("a + 1", "1 + a")
	c.put("b + 1", "1 + b")

	// Touch "a + 1" so "b + 1" becomes the least recently used entry.
	_, _ = c.get("a + 1")

	c.put("c + 1", "1 + c")

	_, ok := c.get("b + 1")
	require.False(t, ok, "least recently used entry should have been evicted")

	_, ok = c.get("a + 1")
	require.True(t, ok)
	_, ok = c.get("c + 1")
	require.True(t, ok)
	require.Equal(t, 2, c.len())
}

func TestSimplifyCache_LenReflectsSize(t *testing.T) {
	c := newSimplifyCache(8)
	require.Equal(t, 0, c.len())
	c.put("1 + 1", "2")
	c.put("2 + 2", "4")
	require.Equal(t, 2, c.len())
}

// TestSimplifyCache_ConcurrentAccessIsSafe guards the sync.Mutex wrapping:
// nothing in spec §5 prevents a caller from sharing one Oracle's Simplify
// cache across goroutines even though the Oracle itself is meant to stay
// single-owner, so the cache must not race under -race regardless.
func TestSimplifyCache_ConcurrentAccessIsSafe(t *testing.T) {
	c := newSimplifyCache(16)
	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			c.put("x + 1", "1 + x")
			c.get("x + 1")
		}(i)
	}
	wg.Wait()
}

func TestOracle_SimplifyWithZeroCacheSizeSkipsCache(t *testing.T) {
	o := New(NewNativeCAS(), 0)
	require.Nil(t, o.cache)
	v, err := o.Simplify("x + x")
	require.NoError(t, err)
	require.NotEmpty(t, v)
}
