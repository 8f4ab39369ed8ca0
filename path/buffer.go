package path

import "fmt"

// Capacity is the fixed number of segments a SegmentBuffer can hold.
const Capacity = 16

// SegmentBuffer is a bounded stack of the remaining path. The top of the
// stack is the segment currently tracked: segments are consumed last-in
// first-out, so a planner must push the far end of the route first and the
// segment to drive now last.
//
// A SegmentBuffer is owned by the control loop that ticks the follower and
// must not be mutated concurrently.
type SegmentBuffer struct {
	segments [Capacity]Segment
	length   int
}

// FullError reports a batch insert that ran out of space. Index is the
// position within the batch of the first segment that did not fit; segments
// before it were inserted and remain valid. The condition is non-fatal: the
// caller may retry once segments complete.
type FullError struct {
	Index int
}

func (e *FullError) Error() string {
	return fmt.Sprintf("segment buffer full, rejected segment %d of batch", e.Index)
}

// AddSegments pushes segments onto the stack in the order given. On success
// it returns the number of free slots remaining. When a segment does not
// fit, it stops and returns a *FullError carrying that segment's index;
// segments already pushed are not rolled back.
func (b *SegmentBuffer) AddSegments(segments ...Segment) (int, error) {
	for i, seg := range segments {
		if b.length == Capacity {
			return 0, &FullError{Index: i}
		}
		b.segments[b.length] = seg
		b.length++
	}
	return Capacity - b.length, nil
}

// Active returns the segment on top of the stack without removing it.
func (b *SegmentBuffer) Active() (Segment, bool) {
	if b.length == 0 {
		return Segment{}, false
	}
	return b.segments[b.length-1], true
}

// PopActive removes and returns the segment on top of the stack.
func (b *SegmentBuffer) PopActive() (Segment, bool) {
	if b.length == 0 {
		return Segment{}, false
	}
	b.length--
	return b.segments[b.length], true
}

// Len returns the number of buffered segments.
func (b *SegmentBuffer) Len() int {
	return b.length
}

// Clear drops all buffered segments. Replacing a path mid-mission is a
// Clear followed by AddSegments; the new path takes effect on the next
// tick.
func (b *SegmentBuffer) Clear() {
	b.length = 0
}

// Segments returns a copy of the buffered segments in insertion order.
func (b *SegmentBuffer) Segments() []Segment {
	out := make([]Segment, b.length)
	copy(out, b.segments[:b.length])
	return out
}
