package keepalive

// DurationForNumOfKeepalive is one row of the duration-by-concurrency
// histogram: the time spent with exactly NumOfKeepalive keepalives
// registered/active. Field names mirror the reference proto message
// (com.android.metrics.DurationForNumOfKeepalive) so a caller-side adapter
// can marshal a DailyReport into that wire shape without renaming
// anything.
type DurationForNumOfKeepalive struct {
	NumOfKeepalive                   int
	KeepaliveRegisteredDurationsMsec int64
	KeepaliveActiveDurationsMsec     int64
}

// KeepaliveLifetimeForCarrier is one row of the per-carrier lifetime table.
type KeepaliveLifetimeForCarrier struct {
	CarrierID          int32
	TransportTypes     uint64
	IntervalsMsec      int64
	LifetimeMsec       int64
	ActiveLifetimeMsec int64
}

// DailyReport is the tracker's output schema. The four reserved fields are
// always left unset/empty; callers must not synthesize values for them.
type DailyReport struct {
	DurationPerNumOfKeepalive   []DurationForNumOfKeepalive
	KeepaliveLifetimePerCarrier []KeepaliveLifetimeForCarrier

	// KeepaliveRequests, AutomaticKeepaliveRequests, and DistinctUserCount
	// are reserved fields the core never sets. They are modeled as pointers
	// so "absent" is observable, matching the reference proto's optional
	// (has*) semantics.
	KeepaliveRequests          *int64
	AutomaticKeepaliveRequests *int64
	DistinctUserCount          *int64

	// UidList is reserved and always empty.
	UidList []int32
}
