package idealmem

import (
	"github.com/sarchlab/rvcosim/mem/cache/writeback"
)

// memMiddleware counts down the requests in flight and completes them.
type memMiddleware struct {
	*Comp
}

func (m *memMiddleware) Tick() bool {
	m.State.Accepted = 0

	if len(m.State.Inflight) == 0 {
		return false
	}

	m.countdown()
	m.complete()

	return true
}

func (m *memMiddleware) countdown() {
	for i := range m.State.Inflight {
		if m.State.Inflight[i].Remaining > 0 {
			m.State.Inflight[i].Remaining--
		}
	}
}

func (m *memMiddleware) complete() {
	kept := m.State.Inflight[:0]

	for _, t := range m.State.Inflight {
		if t.Remaining > 0 {
			kept = append(kept, t)
			continue
		}

		m.State.Done = append(m.State.Done, m.serve(t.Req))
	}

	m.State.Inflight = kept
}

func (m *memMiddleware) serve(req writeback.LineRequest) writeback.Completion {
	done := writeback.Completion{ReqID: req.ID, IsWrite: req.IsWrite}

	if m.faulty(req) {
		m.State.Stats.Faults++
		done.Fault = true

		return done
	}

	if req.IsWrite {
		m.State.Stats.Writes++

		if err := m.Storage.Write(req.Addr, req.Data); err != nil {
			m.State.Stats.Faults++
			done.Fault = true
		}

		return done
	}

	m.State.Stats.Reads++

	data, err := m.Storage.Read(req.Addr, uint64(m.Spec.LineSize))
	if err != nil {
		m.State.Stats.Faults++
		done.Fault = true

		return done
	}

	done.Data = data

	return done
}
