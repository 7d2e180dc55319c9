package storage

import "errors"

// ErrNoEvictableFrame is returned by Evict when the evictable set is empty.
var ErrNoEvictableFrame = errors.New("lru_k: no evictable frame")

// LRUKReplacer chooses a frame to evict using the K-th-most-recent access
// timestamp as the eviction key ("backward K-distance"). A frame with fewer
// than K recorded accesses has infinite backward K-distance and is always
// preferred over a frame that has K; ties among infinite-distance frames are
// broken by oldest earliest access (plain LRU), ties among finite-distance
// frames are broken by oldest K-th access.
type LRUKReplacer struct {
	k int

	// history holds up to k monotonic access timestamps per frame, oldest
	// at index 0. timestamps are a logical clock, not wall time, so the
	// replacer's behavior does not depend on scheduling.
	history map[FrameID][]int64

	evictable map[FrameID]bool

	clock int64
}

// NewLRUKReplacer builds a replacer tracking up to numFrames frames with a
// K-distance window of k.
func NewLRUKReplacer(numFrames, k int) *LRUKReplacer {
	if k < 1 {
		k = 1
	}
	return &LRUKReplacer{
		k:         k,
		history:   make(map[FrameID][]int64, numFrames),
		evictable: make(map[FrameID]bool, numFrames),
	}
}

// RecordAccess appends the current logical timestamp to frame's history,
// dropping the oldest entry once the history exceeds k entries.
func (r *LRUKReplacer) RecordAccess(frame FrameID) {
	r.clock++
	h := r.history[frame]
	h = append(h, r.clock)
	if len(h) > r.k {
		h = h[len(h)-r.k:]
	}
	r.history[frame] = h
}

// SetEvictable adds or removes frame from the evictable set.
func (r *LRUKReplacer) SetEvictable(frame FrameID, evictable bool) {
	if evictable {
		r.evictable[frame] = true
	} else {
		delete(r.evictable, frame)
	}
}

// Remove drops frame from both the evictable set and its access history.
// The buffer pool calls it when a page is deleted; Evict drops the victim's
// history itself.
func (r *LRUKReplacer) Remove(frame FrameID) {
	delete(r.evictable, frame)
	delete(r.history, frame)
}

// Size returns the number of frames currently evictable.
func (r *LRUKReplacer) Size() int {
	return len(r.evictable)
}

// Evict selects and removes the frame with the largest backward K-distance
// among evictable frames (infinite distance beats any finite one; ties
// broken by oldest earliest access).
func (r *LRUKReplacer) Evict() (FrameID, error) {
	var (
		victim    FrameID
		found     bool
		victimInf bool
		victimKey int64 // for infinite: earliest access; for finite: K-th-most-recent access
	)

	for frame := range r.evictable {
		h := r.history[frame]
		inf := len(h) < r.k

		var key int64
		if inf {
			if len(h) == 0 {
				key = -1 << 62 // never accessed: oldest possible
			} else {
				key = h[0] // earliest recorded access
			}
		} else {
			key = h[0] // K-th-most-recent == oldest entry in a window of exactly k
		}

		switch {
		case !found:
			victim, found, victimInf, victimKey = frame, true, inf, key
		case inf && !victimInf:
			victim, victimInf, victimKey = frame, true, key
		case inf == victimInf && key < victimKey:
			victim, victimKey = frame, key
		case inf == victimInf && key == victimKey && frame < victim:
			// deterministic tiebreak when keys coincide
			victim = frame
		}
	}

	if !found {
		return 0, ErrNoEvictableFrame
	}

	delete(r.evictable, victim)
	delete(r.history, victim)
	return victim, nil
}
