package selflearning

// InRecordInfo remembers whether a downstream's Interest was discovery or
// non-discovery when it arrived.
type InRecordInfo struct {
	IsNonDiscovery bool
}

// OutRecordInfo remembers whether we forwarded a discovery or
// non-discovery Interest upstream.
type OutRecordInfo struct {
	IsNonDiscovery bool
}
