package unpacker

import "fmt"

// earliestModule returns the module whose queue front carries the minimum
// timestamp, or -1 if every queue is empty. Modules are scanned in
// ascending order, so equal timestamps resolve to the lower module id;
// within one module the queue front is already the earliest hit, with
// equal timestamps left in arrival order by the stable sort.
func (u *Unpacker) earliestModule() int {
	best := -1
	for module, queue := range u.eventList {
		if len(queue) == 0 {
			continue
		}
		if best < 0 || queue[0].Timestamp < u.eventList[best][0].Timestamp {
			best = module
		}
	}
	return best
}

func (u *Unpacker) popFront(module int) *XiaHit {
	queue := u.eventList[module]
	hit := queue[0]
	u.eventList[module] = queue[1:]
	return hit
}

// BuildRawEvent extracts the next coincidence group from the queue fronts
// into the raw event: the earliest pending hit seeds the window, then
// fronts are consumed while they fall within eventWidth ticks of the
// seed. Greedy and non-overlapping; a hit joins exactly one group. A
// single-hit group is legitimate. Returns false when every queue is
// empty.
func (u *Unpacker) BuildRawEvent() bool {
	seedModule := u.earliestModule()
	if seedModule < 0 {
		return false
	}

	seed := u.popFront(seedModule)
	u.rawEvent = append(u.rawEvent, seed)
	windowEnd := seed.Timestamp + uint64(u.eventWidth)

	for {
		module := u.earliestModule()
		if module < 0 || u.eventList[module][0].Timestamp > windowEnd {
			break
		}
		u.rawEvent = append(u.rawEvent, u.popFront(module))
	}

	if u.debugMode {
		logDebug(fmt.Sprintf("built raw event: seed ts %d, %d hits",
			seed.Timestamp, len(u.rawEvent)))
	}
	return true
}

// processRawEvent hands the built group to the processor, retires every
// hit through RawStats and clears the group. The processor must not keep
// references past the call.
func (u *Unpacker) processRawEvent() {
	if len(u.rawEvent) == 0 {
		return
	}
	event := &RawEvent{Hits: u.rawEvent}
	u.processor.ProcessRawEvent(event)
	for _, hit := range u.rawEvent {
		u.processor.RawStats(hit)
		u.retired++
	}
	u.clearRawEvent()
}

func (u *Unpacker) clearRawEvent() {
	u.rawEvent = nil
}

// drainClosed processes every group whose window is provably closed: the
// window end lies strictly below the newest queued timestamp, so no later
// spill can add a hit to it. The open tail stays queued as cross-spill
// residue.
func (u *Unpacker) drainClosed() {
	for {
		module := u.earliestModule()
		if module < 0 {
			return
		}
		newest, _ := u.newestTimestamp()
		seedTs := u.eventList[module][0].Timestamp
		if seedTs+uint64(u.eventWidth) >= newest {
			return
		}
		u.BuildRawEvent()
		u.processRawEvent()
	}
}

// Flush builds and processes every remaining group regardless of whether
// its window could still grow. Call at end of data, before Close.
func (u *Unpacker) Flush() {
	for u.BuildRawEvent() {
		u.processRawEvent()
	}
}
