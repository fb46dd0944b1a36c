package sampling

import (
	"context"
	"log"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"
)

// LoaderQueueCapacity bounds the background loader's request channel;
// requests beyond this are dropped (the caller may retry on the next
// beat, matching the engine's no-block steady state).
const LoaderQueueCapacity = 64

// maxInflightDecodes bounds how many decode goroutines may run
// concurrently, so a burst of "play" events referencing many unloaded
// samples cannot saturate every CPU core at once.
const maxInflightDecodes = 4

// LoadRequest asks the background loader to decode a sample file and
// publish it into a registry.
type LoadRequest struct {
	ID       uuid.UUID
	Name     string
	Path     string
	TargetSr float32
	Head     bool
}

// Loader dispatches sample decoding from a dedicated goroutine onto up
// to maxInflightDecodes decode goroutines, decoupling it from the audio
// and control threads. Requests are deduplicated while
// in flight so two events referencing the same not-yet-loaded sample
// only trigger one decode.
type Loader struct {
	registry *SampleRegistry
	requests chan LoadRequest
	done     chan struct{}
	sem      *semaphore.Weighted
}

// NewLoader starts the background loader goroutine targeting registry.
func NewLoader(registry *SampleRegistry) *Loader {
	l := &Loader{
		registry: registry,
		requests: make(chan LoadRequest, LoaderQueueCapacity),
		done:     make(chan struct{}),
		sem:      semaphore.NewWeighted(maxInflightDecodes),
	}
	go l.run()
	return l
}

// Request enqueues a decode request. Returns false without blocking if
// the queue is full.
func (l *Loader) Request(name, path string, targetSr float32) bool {
	select {
	case l.requests <- LoadRequest{ID: uuid.New(), Name: name, Path: path, TargetSr: targetSr}:
		return true
	default:
		log.Printf("sample loader queue full, dropping request for %q", name)
		return false
	}
}

// RequestHead enqueues a head-preload decode request.
func (l *Loader) RequestHead(name, path string, targetSr float32) bool {
	select {
	case l.requests <- LoadRequest{ID: uuid.New(), Name: name, Path: path, TargetSr: targetSr, Head: true}:
		return true
	default:
		log.Printf("sample loader queue full, dropping head request for %q", name)
		return false
	}
}

// Close stops accepting new requests and waits for in-flight decodes to
// finish. The loader goroutine exits once the channel drains.
func (l *Loader) Close() {
	close(l.requests)
	<-l.done
}

func (l *Loader) run() {
	defer close(l.done)
	ctx := context.Background()

	var mu sync.Mutex
	pending := make(map[string]bool)

	var wg sync.WaitGroup
	for req := range l.requests {
		mu.Lock()
		busy := l.registry.Contains(req.Name) || pending[req.Name]
		if !busy {
			pending[req.Name] = true
		}
		mu.Unlock()
		if busy {
			continue
		}

		if err := l.sem.Acquire(ctx, 1); err != nil {
			mu.Lock()
			delete(pending, req.Name)
			mu.Unlock()
			continue
		}
		wg.Add(1)
		go func(req LoadRequest) {
			defer wg.Done()
			defer l.sem.Release(1)
			defer func() {
				mu.Lock()
				delete(pending, req.Name)
				mu.Unlock()
			}()

			var data *SampleData
			var err error
			if req.Head {
				data, err = DecodeSampleHead(req.Path, req.TargetSr)
			} else {
				data, err = DecodeSampleFile(req.Path, req.TargetSr)
			}
			if err != nil {
				log.Printf("sample loader: failed to decode %q: %v", req.Name, err)
				return
			}
			l.registry.Insert(req.Name, data)
		}(req)
	}
	wg.Wait()
}
