package unpacker

import "sort"

// TimeSort restores the ascending-timestamp invariant on every module
// queue. Queues arrive nearly sorted (hits are timestamp-ordered within a
// module except across buffer boundaries), so a stable resort per spill is
// cheap. Ties keep arrival order.
func (u *Unpacker) TimeSort() {
	for _, queue := range u.eventList {
		sort.SliceStable(queue, func(i, j int) bool {
			return queue[i].Timestamp < queue[j].Timestamp
		})
	}
}

// newestTimestamp returns the latest timestamp present in any queue.
// Valid only after TimeSort; the second value is false when every queue
// is empty.
func (u *Unpacker) newestTimestamp() (uint64, bool) {
	var newest uint64
	found := false
	for _, queue := range u.eventList {
		if len(queue) == 0 {
			continue
		}
		if back := queue[len(queue)-1].Timestamp; !found || back > newest {
			newest = back
			found = true
		}
	}
	return newest, found
}
