package unpacker

import "fmt"

// AddHit routes one decoded hit into its module queue. Hits with an
// out-of-range module or channel id are dropped and tallied in the
// matching overflow bucket; the return value reports admission.
func (u *Unpacker) AddHit(hit *XiaHit) bool {
	if hit.Module > MaxModule {
		u.counts.IncrementModuleOverflow(hit.Channel)
		if u.debugMode {
			logDebug(fmt.Sprintf("dropping hit with module %d out of range", hit.Module))
		}
		return false
	}
	if hit.Channel > MaxChannel {
		u.counts.IncrementChannelOverflow(hit.Module)
		if u.debugMode {
			logDebug(fmt.Sprintf("dropping hit with channel %d out of range (module %d)",
				hit.Channel, hit.Module))
		}
		return false
	}

	for int(hit.Module) >= len(u.eventList) {
		u.eventList = append(u.eventList, nil)
	}
	u.eventList[hit.Module] = append(u.eventList[hit.Module], hit)
	u.counts.Increment(hit.Module, hit.Channel)
	u.admitted++
	return true
}

// GetMaxModule returns the number of module queues observed so far.
func (u *Unpacker) GetMaxModule() int {
	return len(u.eventList)
}

// Residual returns the number of admitted hits still waiting in the
// module queues.
func (u *Unpacker) Residual() int {
	residual := 0
	for _, queue := range u.eventList {
		residual += len(queue)
	}
	return residual
}

// ClearEventList drops every queued hit. Shutdown only: clearing
// mid-stream would discard cross-spill residue.
func (u *Unpacker) ClearEventList() {
	u.eventList = nil
}
