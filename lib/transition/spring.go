// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package transition

import (
	"math"
	"time"

	"github.com/charmbracelet/harmonica"

	"github.com/bureau-foundation/panelforge/lib/clock"
)

const (
	// DefaultPeriod is the oscillation period used when a fade does not
	// declare one.
	DefaultPeriod = 500 * time.Millisecond

	// DefaultDampingRatio is slightly underdamped: the fade overshoots
	// its target by a few percent before settling.
	DefaultDampingRatio = 0.75

	// FrameRate is the fixed simulation rate in frames per second.
	FrameRate = 60

	// maxCatchUpFrames bounds the work done by a single Value call after
	// a long pause. Beyond this the spring snaps to its target.
	maxCatchUpFrames = 10 * FrameRate

	settleEpsilon = 1e-3
)

// Spring is a damped harmonic oscillator chasing a derived target.
type Spring struct {
	clock  clock.Clock
	spring harmonica.Spring
	frame  time.Duration
	target func() float64

	position float64
	velocity float64
	last     time.Time
	resting  bool
}

// NewSpring creates a spring that starts at rest on target(). The
// period sets the undamped oscillation period (angular frequency
// 2π/period); dampingRatio below 1 overshoots, 1 is critically damped,
// above 1 is sluggish. Non-positive arguments fall back to
// [DefaultPeriod] and [DefaultDampingRatio].
func NewSpring(source clock.Clock, period time.Duration, dampingRatio float64, target func() float64) *Spring {
	if period <= 0 {
		period = DefaultPeriod
	}
	if dampingRatio <= 0 {
		dampingRatio = DefaultDampingRatio
	}
	angularFrequency := 2 * math.Pi / period.Seconds()
	initial := target()
	return &Spring{
		clock:    source,
		spring:   harmonica.NewSpring(harmonica.FPS(FrameRate), angularFrequency, dampingRatio),
		frame:    time.Second / FrameRate,
		target:   target,
		position: initial,
		last:     source.Now(),
		resting:  true,
	}
}

// Value advances the simulation to the current time and returns the
// position.
func (spring *Spring) Value() float64 {
	spring.advance()
	return spring.position
}

// Target returns the current target without advancing.
func (spring *Spring) Target() float64 {
	return spring.target()
}

// Settled reports whether the spring is at rest on its target as of
// the current time. Callers driving a frame loop stop ticking once
// every spring is settled.
func (spring *Spring) Settled() bool {
	spring.advance()
	return spring.position == spring.target() && spring.velocity == 0
}

func (spring *Spring) advance() {
	now := spring.clock.Now()
	target := spring.target()
	if spring.position == target && spring.velocity == 0 {
		spring.last = now
		spring.resting = true
		return
	}
	if spring.resting {
		// First observation of a new target: motion starts now, not at
		// the last time anyone looked at an idle spring.
		spring.resting = false
		spring.last = now
		return
	}

	frames := int(now.Sub(spring.last) / spring.frame)
	if frames <= 0 {
		return
	}
	spring.last = spring.last.Add(time.Duration(frames) * spring.frame)

	if frames > maxCatchUpFrames {
		spring.position, spring.velocity = target, 0
		spring.resting = true
		return
	}
	for range frames {
		spring.position, spring.velocity = spring.spring.Update(spring.position, spring.velocity, target)
	}
	if math.Abs(spring.position-target) < settleEpsilon && math.Abs(spring.velocity) < settleEpsilon {
		spring.position, spring.velocity = target, 0
		spring.resting = true
	}
}
