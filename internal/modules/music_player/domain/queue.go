package domain

// Queue is a strict FIFO of tracks waiting to be played.
// Tracks are discarded once they leave the queue.
type Queue struct {
	tracks []*Track
}

// NewQueue creates a new empty Queue.
func NewQueue() Queue {
	return Queue{
		tracks: make([]*Track, 0),
	}
}

// IsEmpty returns true if the queue has no tracks.
func (q *Queue) IsEmpty() bool {
	return q.Len() == 0
}

// Len returns the number of queued tracks.
func (q *Queue) Len() int {
	return len(q.tracks)
}

// Push appends track(s) to the tail of the queue.
func (q *Queue) Push(tracks ...*Track) {
	q.tracks = append(q.tracks, tracks...)
}

// Pop removes and returns the head of the queue, or nil if the queue is empty.
func (q *Queue) Pop() *Track {
	if q.IsEmpty() {
		return nil
	}

	head := q.tracks[0]
	q.tracks[0] = nil
	q.tracks = q.tracks[1:]
	return head
}

// Peek returns the head of the queue without removing it, or nil if empty.
func (q *Queue) Peek() *Track {
	if q.IsEmpty() {
		return nil
	}
	return q.tracks[0]
}

// List returns copies of all queued tracks in play order.
func (q *Queue) List() []*Track {
	result := make([]*Track, len(q.tracks))
	for i, t := range q.tracks {
		result[i] = t.Clone()
	}
	return result
}

// Clear removes all tracks and returns how many were removed.
func (q *Queue) Clear() int {
	n := q.Len()
	q.tracks = make([]*Track, 0)
	return n
}
