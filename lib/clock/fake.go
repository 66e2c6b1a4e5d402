// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package clock

import (
	"sync"
	"time"
)

// FakeClock is a Clock that only moves when told to. Safe for
// concurrent use.
type FakeClock struct {
	mutex sync.Mutex
	now   time.Time
}

// Fake returns a FakeClock stopped at start.
func Fake(start time.Time) *FakeClock {
	return &FakeClock{now: start}
}

// Now returns the clock's current time.
func (fake *FakeClock) Now() time.Time {
	fake.mutex.Lock()
	defer fake.mutex.Unlock()
	return fake.now
}

// Advance moves the clock forward by step. Non-positive steps do
// nothing.
func (fake *FakeClock) Advance(step time.Duration) {
	if step <= 0 {
		return
	}
	fake.mutex.Lock()
	defer fake.mutex.Unlock()
	fake.now = fake.now.Add(step)
}

// AdvanceFrames moves the clock forward by frames intervals of a
// display running at frameRate frames per second.
func (fake *FakeClock) AdvanceFrames(frames, frameRate int) {
	if frameRate <= 0 {
		return
	}
	fake.Advance(time.Duration(frames) * time.Second / time.Duration(frameRate))
}
