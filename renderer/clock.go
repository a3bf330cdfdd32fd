package renderer

import (
	"sync"
	"time"

	"github.com/richinsley/pulseborder/params"
)

// Clock maps wall time since start to the animation time fed to the kernel.
type Clock struct {
	// Frame is the time at start, in seconds.
	Frame float32
	// Speed scales elapsed time. Zero pins the clock at Frame.
	Speed float32
}

// NewClock returns the clock described by u.
func NewClock(u params.Uniforms) Clock {
	return Clock{Frame: u.Frame, Speed: u.Speed}
}

// Time returns the animation time after elapsed.
func (c Clock) Time(elapsed time.Duration) float32 {
	if c.Speed == 0 {
		return c.Frame
	}
	return c.Frame + float32(elapsed.Seconds())*c.Speed
}

// RedrawPolicy decides when a host must render. An animated border redraws
// every frame; a still one redraws once per parameter change.
//
// RedrawPolicy is safe for concurrent use.
type RedrawPolicy struct {
	mu         sync.Mutex
	continuous bool
	dirty      bool
}

// NewRedrawPolicy returns a policy for the given speed with the first frame
// pending.
func NewRedrawPolicy(speed float32) *RedrawPolicy {
	return &RedrawPolicy{continuous: speed != 0, dirty: true}
}

// Update records new parameters and schedules a redraw.
func (p *RedrawPolicy) Update(u params.Uniforms) {
	p.mu.Lock()
	p.continuous = !u.Static()
	p.dirty = true
	p.mu.Unlock()
}

// MarkDirty schedules a redraw, for example after a resize.
func (p *RedrawPolicy) MarkDirty() {
	p.mu.Lock()
	p.dirty = true
	p.mu.Unlock()
}

// Continuous reports whether every frame is redrawn.
func (p *RedrawPolicy) Continuous() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.continuous
}

// NeedsRedraw reports whether the host should render now and consumes a
// pending change.
func (p *RedrawPolicy) NeedsRedraw() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.continuous {
		p.dirty = false
		return true
	}
	d := p.dirty
	p.dirty = false
	return d
}
