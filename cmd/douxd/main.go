// Command douxd hosts a running Doux synthesis engine: a line-oriented
// REPL over stdin plus an optional TCP control listener for realtime
// playback, or a one-shot file render when given -render.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"net"
	"os"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	intaudio "github.com/sova-org/doux/internal/audio"
	"github.com/sova-org/doux/internal/config"
	"github.com/sova-org/doux/internal/engine"
)

func main() {
	fs := flag.NewFlagSet("douxd", flag.ExitOnError)
	buildConfig := config.RegisterFlags(fs)
	renderPath := fs.String("render", "", "render to this WAV file instead of opening a live audio device")
	renderSeconds := fs.Float64("render-seconds", 10, "duration to render, in seconds (with -render)")
	listenAddr := fs.String("listen", "", "also accept commands on this TCP address (e.g. :7670), one per connection line")
	fs.Parse(os.Args[1:])

	cfg := buildConfig()
	eng := engine.NewWithChannels(float32(cfg.SampleRate), cfg.Channels, cfg.MaxVoices)
	eng.SampleIndex = config.ScanSamplePaths(cfg.SamplePaths)

	if *renderPath != "" {
		if err := renderToFile(eng, cfg, *renderPath, *renderSeconds); err != nil {
			log.Fatal(err)
		}
		return
	}

	if err := runLive(eng, cfg, os.Stdin, *listenAddr); err != nil {
		log.Fatal(err)
	}
}

func renderToFile(eng *engine.Engine, cfg config.Config, path string, seconds float64) error {
	wav := intaudio.RenderToWAV(eng, cfg.SampleRate, cfg.Channels, 0, seconds)
	return os.WriteFile(path, wav, 0o644)
}

// lockedEngine serializes control-line evaluation against the audio
// callback's ProcessBlock, the two points at which the engine's voice
// pool and schedule are touched from different goroutines. Contention
// is bounded to the duration of one Evaluate call.
type lockedEngine struct {
	mu  sync.Mutex
	eng *engine.Engine
}

func (l *lockedEngine) ProcessBlock(output, liveInput []float32) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.eng.ProcessBlock(output, liveInput)
}

func (l *lockedEngine) Evaluate(line string) (int, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.eng.Evaluate(line)
}

// runLive opens a live playback stream driven by the engine, reads
// slash commands from in until EOF, and — when listenAddr is set —
// also accepts command lines from TCP connections, all concurrently.
// An error from any of them tears down the rest via the shared context.
func runLive(eng *engine.Engine, cfg config.Config, in io.Reader, listenAddr string) error {
	locked := &lockedEngine{eng: eng}
	source := intaudio.NewEngineSource(locked, nil)
	player, err := intaudio.NewPlayer(cfg.SampleRate, source)
	if err != nil {
		return fmt.Errorf("opening audio device: %w", err)
	}
	player.Play()

	group, ctx := errgroup.WithContext(context.Background())
	group.Go(func() error {
		return readCommands(ctx, locked, in)
	})
	if listenAddr != "" {
		ln, err := net.Listen("tcp", listenAddr)
		if err != nil {
			return fmt.Errorf("listening on %s: %w", listenAddr, err)
		}
		group.Go(func() error {
			<-ctx.Done()
			return ln.Close()
		})
		group.Go(func() error {
			return acceptLoop(ctx, group, locked, ln)
		})
	}
	return group.Wait()
}

// acceptLoop accepts control connections until ln is closed, handing
// each one to its own goroutine in group so a slow or silent client
// never blocks other controls.
func acceptLoop(ctx context.Context, group *errgroup.Group, eng *lockedEngine, ln net.Listener) error {
	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
		group.Go(func() error {
			defer conn.Close()
			if err := readCommands(ctx, eng, conn); err != nil && ctx.Err() == nil {
				log.Printf("douxd: control connection from %s: %v", conn.RemoteAddr(), err)
			}
			return nil
		})
	}
}

// readCommands evaluates one slash command per line from r until EOF or
// ctx is cancelled. Blank lines and lines starting with # are ignored.
func readCommands(ctx context.Context, eng *lockedEngine, r io.Reader) error {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if _, ok := eng.Evaluate(line); !ok {
			log.Printf("douxd: command dropped: %s", line)
		}
	}
	return scanner.Err()
}
