package trackstore

// Track is one row of the tracks table (spec.md §6 "Persisted state").
type Track struct {
	TrackID      string
	Name         string
	Config       string
	LengthMeters float64
	TrackType    string
	Character    string
	Notes        string
}

// Corner is one row of the corners table, ordered within a track by
// DistanceStartMeters when listed.
type Corner struct {
	CornerID            int64
	TrackID             string
	CornerNumber        int
	Name                string
	DistanceStartMeters float64
	DistanceEndMeters   float64
	CornerType          string
	Notes               string
}
