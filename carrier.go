package keepalive

// carrierKey bins per-keepalive lifetime accumulation by the operating
// carrier, the transports it was reachable over, and its keepalive interval.
type carrierKey struct {
	carrierID        int32
	transportBitmask uint64
	intervalMs       int64
}

// carrierTotals is the additive pair of lifetime sums kept per carrierKey.
type carrierTotals struct {
	registeredMs int64
	activeMs     int64
}

// carrierTable is the per-carrier lifetime aggregation table. Rows are
// created lazily on first contribution and are only removed by reset, which
// clears them all.
type carrierTable struct {
	rows map[carrierKey]*carrierTotals
}

func newCarrierTable() *carrierTable {
	return &carrierTable{rows: make(map[carrierKey]*carrierTotals)}
}

func (c *carrierTable) row(key carrierKey) *carrierTotals {
	row, ok := c.rows[key]
	if !ok {
		row = &carrierTotals{}
		c.rows[key] = row
	}
	return row
}

// addRegistered creates key's row if absent, even when deltaMs is zero: a
// live registration that has contributed nothing yet still needs to appear
// in the report.
func (c *carrierTable) addRegistered(key carrierKey, deltaMs int64) {
	c.row(key).registeredMs += deltaMs
}

func (c *carrierTable) addActive(key carrierKey, deltaMs int64) {
	c.row(key).activeMs += deltaMs
}

// carrierRow is a snapshotted entry from snapshot().
type carrierRow struct {
	key    carrierKey
	totals carrierTotals
}

// snapshot returns every row that has ever contributed since the last
// reset, in map iteration order. Callers must not depend on row order.
func (c *carrierTable) snapshot() []carrierRow {
	rows := make([]carrierRow, 0, len(c.rows))
	for key, totals := range c.rows {
		rows = append(rows, carrierRow{key: key, totals: *totals})
	}
	return rows
}

// reset clears all rows.
func (c *carrierTable) reset() {
	c.rows = make(map[carrierKey]*carrierTotals)
}

// clone returns an independent copy of the table, used by build() to fold
// in live registrations' open tails without perturbing the real
// accumulators.
func (c *carrierTable) clone() *carrierTable {
	cp := newCarrierTable()
	for key, totals := range c.rows {
		t := *totals
		cp.rows[key] = &t
	}
	return cp
}
