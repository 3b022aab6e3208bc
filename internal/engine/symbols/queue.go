package symbols

// Queue is the FIFO work list of files to scan. It remembers every path ever
// enqueued so a file is scanned at most once, and separately records the
// paths that were added through import discovery.
type Queue struct {
	pending     []string
	next        int
	seen        map[string]bool
	importPaths []string
}

// NewQueue seeds the queue with the files named on the command line.
func NewQueue(seed []string) *Queue {
	q := &Queue{seen: make(map[string]bool, len(seed))}
	for _, path := range seed {
		if q.seen[path] {
			continue
		}
		q.seen[path] = true
		q.pending = append(q.pending, path)
	}
	return q
}

// Pop returns the next path and its position in discovery order.
func (q *Queue) Pop() (path string, index int, ok bool) {
	if q.next >= len(q.pending) {
		return "", 0, false
	}
	path = q.pending[q.next]
	index = q.next
	q.next++
	return path, index, true
}

// Contains reports whether path was ever enqueued.
func (q *Queue) Contains(path string) bool {
	return q.seen[path]
}

// PushImport appends an import-discovered path. It returns false when the
// path is already known.
func (q *Queue) PushImport(path string) bool {
	if q.seen[path] {
		return false
	}
	q.seen[path] = true
	q.pending = append(q.pending, path)
	q.importPaths = append(q.importPaths, path)
	return true
}

// Len returns the number of paths ever enqueued.
func (q *Queue) Len() int {
	return len(q.pending)
}

// Files returns every enqueued path in discovery order.
func (q *Queue) Files() []string {
	out := make([]string, len(q.pending))
	copy(out, q.pending)
	return out
}

// ImportPaths returns the import-discovered paths in discovery order.
func (q *Queue) ImportPaths() []string {
	out := make([]string, len(q.importPaths))
	copy(out, q.importPaths)
	return out
}
