package engine

// partitionIter lazily enumerates every assignment of n orders across k
// vehicles: a base-k odometer over order indices, one vector per next()
// call, k^n vectors in total. Nothing is materialized beyond the current
// vector, which is reused between calls — callers must copy it if they
// keep it.
type partitionIter struct {
	assign []int // assign[i] = vehicle index serving order i
	k      int
	first  bool
	done   bool
}

func newPartitionIter(n, k int) *partitionIter {
	return &partitionIter{assign: make([]int, n), k: k, first: true}
}

func (it *partitionIter) next() ([]int, bool) {
	if it.done || it.k <= 0 {
		return nil, false
	}
	if it.first {
		it.first = false
		return it.assign, true
	}
	for i := range it.assign {
		it.assign[i]++
		if it.assign[i] < it.k {
			return it.assign, true
		}
		it.assign[i] = 0
	}
	it.done = true
	return nil, false
}
