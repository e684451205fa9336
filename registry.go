package keepalive

// slotKey identifies a registration within the registry: a network and the
// slot the offload controller assigned it within that network's namespace.
type slotKey struct {
	network Network
	slot    int
}

// registration is a live keepalive's accounting record.
type registration struct {
	carrierID        int32
	transportBitmask uint64
	intervalMs       int64
	startedAtMs      int64
	lastTransitionMs int64
	paused           bool
}

// carrierKey derives this registration's row in the carrier lifetime table.
// It is derived from the fields snapshotted at Start — never from a live
// capability source.
func (r *registration) carrierKey() carrierKey {
	return carrierKey{
		carrierID:        r.carrierID,
		transportBitmask: r.transportBitmask,
		intervalMs:       r.intervalMs,
	}
}

// registry is the identity table for live registrations (component B). It
// enforces the slot-reuse rule: a key may only be inserted while no live
// record occupies it, but once removed (Stop), the same key may be reused
// to start an independent lifespan.
type registry struct {
	live map[slotKey]*registration
}

func newRegistry() *registry {
	return &registry{live: make(map[slotKey]*registration)}
}

// insert creates a fresh registration for key, failing if one is already
// live.
func (r *registry) insert(key slotKey, reg *registration) error {
	if _, ok := r.live[key]; ok {
		return ErrSlotInUse
	}
	r.live[key] = reg
	return nil
}

func (r *registry) lookup(key slotKey) (*registration, error) {
	reg, ok := r.live[key]
	if !ok {
		return nil, ErrUnknownRegistration
	}
	return reg, nil
}

func (r *registry) remove(key slotKey) (*registration, error) {
	reg, err := r.lookup(key)
	if err != nil {
		return nil, err
	}
	delete(r.live, key)
	return reg, nil
}

// len reports the number of live registrations, i.e. n_registered.
func (r *registry) len() int {
	return len(r.live)
}

// countActive reports the number of live, unpaused registrations, i.e.
// n_active.
func (r *registry) countActive() int {
	n := 0
	for _, reg := range r.live {
		if !reg.paused {
			n++
		}
	}
	return n
}
