package keepalive

// histogram is the duration-by-concurrency accumulator (component C). It
// tracks, for every possible concurrent count k, how many milliseconds have
// elapsed since the last reset during which the count was exactly k. Two
// parallel series are kept: one for the registered cursor, one for the
// active cursor.
type histogram struct {
	regDur        []int64
	actDur        []int64
	lastAccrualMs int64
}

func newHistogram(now int64) *histogram {
	return &histogram{
		regDur:        []int64{0},
		actDur:        []int64{0},
		lastAccrualMs: now,
	}
}

// grow extends s on demand so that index k is valid, zero-filling new slots.
func grow(s []int64, k int) []int64 {
	for len(s) <= k {
		s = append(s, 0)
	}
	return s
}

// accrue folds the elapsed time since the last accrual into the bucket for
// the current cursor values, then advances lastAccrualMs. It must be called
// with the pre-event cursor values, before any increment/decrement, so that
// reg_dur[k]/act_dur[k] reflect the window during which the count *was* k.
func (h *histogram) accrue(now int64, nRegistered, nActive int) {
	delta := now - h.lastAccrualMs
	if delta < 0 {
		delta = 0
	}
	h.regDur = grow(h.regDur, nRegistered)
	h.actDur = grow(h.actDur, nActive)
	h.regDur[nRegistered] += delta
	h.actDur[nActive] += delta
	h.lastAccrualMs = now
}

// snapshot returns zero-padded copies of both series, equal in length to
// the longer of the two live series.
func (h *histogram) snapshot() (reg, act []int64) {
	n := len(h.regDur)
	if len(h.actDur) > n {
		n = len(h.actDur)
	}
	reg = make([]int64, n)
	act = make([]int64, n)
	copy(reg, h.regDur)
	copy(act, h.actDur)
	return reg, act
}

// reset zeroes both series and rebases the accrual clock, retaining the
// slice lengths (and therefore the cursors' high-water marks).
func (h *histogram) reset(now int64) {
	for i := range h.regDur {
		h.regDur[i] = 0
	}
	for i := range h.actDur {
		h.actDur[i] = 0
	}
	h.lastAccrualMs = now
}
