package audio

// EngineProcessor is the subset of internal/engine.Engine that the audio
// host needs: render one block of interleaved samples. Defined locally
// so this package doesn't import internal/engine and create a cycle
// with anything engine-adjacent that might one day depend on audio.
type EngineProcessor interface {
	ProcessBlock(output []float32, liveInput []float32)
}

// EngineSource adapts an Engine to the SampleSource interface StreamReader
// expects, so the same ebiten-backed Player that the teacher used for MML
// playback can drive a running synthesis engine instead.
type EngineSource struct {
	engine    EngineProcessor
	liveInput []float32
	finished  bool
}

// NewEngineSource wraps engine for realtime playback. liveInput, if
// non-nil, is forwarded to the engine's live-input voices each block;
// pass nil when no external input is connected.
func NewEngineSource(engine EngineProcessor, liveInput []float32) *EngineSource {
	return &EngineSource{engine: engine, liveInput: liveInput}
}

// Process renders len(dst) interleaved samples from the engine.
func (s *EngineSource) Process(dst []float32) {
	s.engine.ProcessBlock(dst, s.liveInput)
}

// Finished reports whether Stop has been called: a live engine session
// has no natural end of its own, unlike a file-render pass.
func (s *EngineSource) Finished() bool {
	return s.finished
}

// Stop marks the source finished so the next Read returns io.EOF,
// letting a host cleanly tear down playback.
func (s *EngineSource) Stop() {
	s.finished = true
}
