// Copyright (C) 2020 Markus L. Noga
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.


// Execution context and chunked parallel loops for batch coordinate math.
package par

import (
	"fmt"
	"io"
	"runtime"
	"sync"
	"github.com/klauspost/cpuid"
	"github.com/pbnjay/memory"
	nl "github.com/mlnoga/georef/internal"
)

// Batches below this many elements run inline on the calling goroutine
const DefaultChunkMin = 1<<14

// An execution context for batch operations
type Context struct {
	Log              io.Writer
	MemoryMB         int          // memory.TotalMemory()/1024/1024
	WorkMemoryMB     int          // MemoryMB/10, bounds scratch space held by concurrent chunks
	MaxThreads       int
	ChunkMin         int          // batches below this size run inline
}

// Creates a context sized for this machine. A nil log reports to the package log
func NewContext(log io.Writer) *Context {
	memoryMB:=int(memory.TotalMemory()/1024/1024)
	return &Context{
		Log          : log,
		MemoryMB     : memoryMB,
		WorkMemoryMB : memoryMB/10,
		MaxThreads   : defaultThreads(),
		ChunkMin     : DefaultChunkMin,
	}
}

// Polynomial kernels are FPU bound, and SMT siblings share one FPU
func defaultThreads() int {
	threads:=runtime.GOMAXPROCS(0)
	if phys:=cpuid.CPU.PhysicalCores; phys>0 && phys<threads {
		threads=phys
	}
	if threads<1 { threads=1 }
	return threads
}

var defaultContext     *Context
var defaultContextOnce sync.Once

// Returns the shared default context, which logs to the package singleton log
func Default() *Context {
	defaultContextOnce.Do(func() {
		defaultContext=NewContext(nil)
	})
	return defaultContext
}

// A half-open index range [Lo, Hi)
type Chunk struct {
	Lo int
	Hi int
}

func (c Chunk) String() string {
	return fmt.Sprintf("[%d,%d)", c.Lo, c.Hi)
}

// Splits n elements into contiguous chunks. Each element needs bytesPerElem of scratch memory
// while its chunk is in flight
func (c *Context) Chunks(n int, bytesPerElem int) (chunks []Chunk) {
	if n<=0 { return nil }
	threads:=c.MaxThreads
	if threads<1 { threads=1 }
	if n<c.ChunkMin || threads==1 {
		return []Chunk{{0, n}}
	}

	numChunks:=threads*4
	size:=(n+numChunks-1)/numChunks
	if size<c.ChunkMin/4 { size=c.ChunkMin/4 }
	if bytesPerElem>0 && c.WorkMemoryMB>0 {
		maxSize:=c.WorkMemoryMB*1024*1024/bytesPerElem/threads
		if maxSize>0 && size>maxSize { size=maxSize }
	}
	if size<1 { size=1 }

	chunks=make([]Chunk, 0, (n+size-1)/size)
	for lo:=0; lo<n; lo+=size {
		hi:=lo+size
		if hi>n { hi=n }
		chunks=append(chunks, Chunk{lo, hi})
	}
	return chunks
}

// Runs fn over all chunks of n elements with the given concurrency limit. fn must only touch
// elements of its own chunk. Returns the first error encountered, if any
func (c *Context) Run(name string, n int, bytesPerElem int, fn func(ch Chunk) error) (err error) {
	chunks:=c.Chunks(n, bytesPerElem)
	if len(chunks)==0 { return nil }
	if len(chunks)==1 { return fn(chunks[0]) }

	threads:=c.MaxThreads
	if threads>len(chunks) { threads=len(chunks) }
	c.logf("%s: %d elements in %d chunks of up to %d on %d threads\n",
	       name, n, len(chunks), chunks[0].Hi-chunks[0].Lo, threads)

	limiter:=make(chan bool, threads)
	errs   :=make(chan error, len(chunks))
	for _, ch := range(chunks) {
		limiter <- true
		go func(theCh Chunk) {
			defer func() { <-limiter }()
			errs <- fn(theCh)
		}(ch)
	}
	for i:=0; i<cap(limiter); i++ {  // wait for goroutines to finish
		limiter <- true
	}
	for i:=0; i<len(chunks); i++ {  // collect errors
		if e:=<-errs; e!=nil && err==nil {
			err=e
		}
	}
	return err
}

func (c *Context) logf(format string, args ...interface{}) {
	if c.Log==nil {
		nl.LogPrintf(format, args...)
		return
	}
	fmt.Fprintf(c.Log, format, args...)
}
