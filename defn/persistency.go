package defn

// Persistency represents the persistency of a face.
type Persistency int

const (
	// PersistencyPersistent faces are kept even if the underlying link drops.
	PersistencyPersistent Persistency = iota
	// PersistencyOnDemand faces are destroyed when idle or the link drops;
	// this is the persistency used for faces created via §4.11.
	PersistencyOnDemand
	// PersistencyPermanent faces are kept and redialed on failure.
	PersistencyPermanent
)

func (p Persistency) String() string {
	switch p {
	case PersistencyOnDemand:
		return "OnDemand"
	case PersistencyPermanent:
		return "Permanent"
	default:
		return "Persistent"
	}
}
