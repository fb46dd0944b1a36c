package sampling

// RegistrySample is the playback handle a voice embeds: a shared,
// immutable SampleData payload plus a private cursor. Safe to copy —
// copying shares the underlying data but each copy tracks its own
// position.
type RegistrySample struct {
	Name   string
	Data   *SampleData
	cursor Cursor
}

// NewRegistrySample creates a playback handle over data for the region
// [begin,end].
func NewRegistrySample(name string, data *SampleData, begin, end float32) *RegistrySample {
	return &RegistrySample{Name: name, Data: data, cursor: NewCursor(data.FrameCount, begin, end)}
}

// IsHead reports whether this is a partial (head-preload) decode.
func (r *RegistrySample) IsHead() bool {
	return r.Data.FrameCount < r.Data.TotalFrames
}

// Upgrade swaps in a more fully-decoded SampleData, rescaling the
// cursor's position if the frame count changed.
func (r *RegistrySample) Upgrade(newData *SampleData) {
	oldFc := r.Data.FrameCount
	newFc := newData.FrameCount
	r.Data = newData
	if newFc != oldFc {
		r.cursor.UpgradeFrameCount(oldFc, newFc)
	}
}

// UpdateRange narrows or widens the playback region.
func (r *RegistrySample) UpdateRange(begin, end float32, hasBegin, hasEnd bool) {
	r.cursor.UpdateRange(r.Data.FrameCount, begin, end, hasBegin, hasEnd)
}

// Read returns the interpolated sample value at the current position.
func (r *RegistrySample) Read(channel int) float32 {
	return r.Data.ReadInterpolated(r.cursor.FramePosition(), channel)
}

// Advance moves the cursor forward (or backward, for negative speed) by
// speed frames per sample.
func (r *RegistrySample) Advance(speed float32) {
	r.cursor.Advance(speed)
}

// IsDone reports whether playback has exhausted the region.
func (r *RegistrySample) IsDone() bool {
	return r.cursor.IsDone()
}

// Clone returns an independent copy sharing the same immutable payload.
func (r *RegistrySample) Clone() *RegistrySample {
	cp := *r
	return &cp
}
