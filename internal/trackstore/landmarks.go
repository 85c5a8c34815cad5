package trackstore

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// LandmarkEntry is one corner entry in the external landmarks dataset
// (spec.md §6 "Landmarks dataset").
type LandmarkEntry struct {
	Name           string  `json:"name"`
	DistanceStartM float64 `json:"distance_start_m"`
	DistanceEndM   float64 `json:"distance_end_m"`
	Type           string  `json:"type,omitempty"`
}

// LandmarksDataset maps a dataset track key (native-sim or alternate-sim)
// to its ordered corner list.
type LandmarksDataset map[string][]LandmarkEntry

// LoadLandmarksJSON reads a landmarks dataset snapshot from path (spec.md
// §6 "The core consumes a snapshot; refresh is an operator action").
func LoadLandmarksJSON(path string) (LandmarksDataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read landmarks dataset: %w", err)
	}
	var dataset LandmarksDataset
	if err := json.Unmarshal(data, &dataset); err != nil {
		return nil, fmt.Errorf("decode landmarks dataset: %w", err)
	}
	return dataset, nil
}

// directTrackMap maps dataset keys straight to native track identifiers.
// Includes both the dataset's own native-sim keys and the xsim_-prefixed
// canonical keys that crossSimMap resolves into (spec.md §4.5's "second
// pass" over the cross-sim map lands here).
var directTrackMap = map[string]string{
	"bathurst":          "219",
	"spa":               "523",
	"nurburgring_gp":    "146",
	"silverstone":       "219",
	"monza":             "157",
	"suzuka":            "304",
	"laguna_seca":       "63",
	"sebring":           "243",
	"road_america":      "216",
	"watkins_glen":      "268",
	"brands_hatch_gp":   "401",
	"mount_panorama":    "219",
	"daytona_rc":        "103",
	"indianapolis_rc":   "195",
	"imola":             "411",
	"zandvoort":         "289",
	"hockenheim":        "139",
	"oulton_park":       "262",
	"donington":         "118",
	"barcelona":         "105",
	"paul_ricard":       "183",
	"xsim_spa":          "523",
	"xsim_suzuka":       "304",
	"xsim_brands_gp":    "401",
	"xsim_bathurst":     "219",
	"xsim_nurburgring":  "146",
}

// crossSimMap translates alternate-simulator keys (Project Cars, Assetto
// Corsa, rFactor 1) into the xsim_-prefixed canonical key resolved by
// directTrackMap.
var crossSimMap = map[string]string{
	"pcars_spa_francorchamps":  "xsim_spa",
	"pcars_suzuka_circuit":     "xsim_suzuka",
	"pcars_brands_hatch_gp":    "xsim_brands_gp",
	"ac_spa":                   "xsim_spa",
	"ac_suzuka":                "xsim_suzuka",
	"ac_ks_brands_hatch":       "xsim_brands_gp",
	"ac_mount_panorama":        "xsim_bathurst",
	"rf1_spa_francorchamps_71": "xsim_spa",
	"rf1_nordschleife":         "xsim_nurburgring",
}

// resolveTrackID finds the native track identifier for a dataset key:
// direct matches win; a cross-sim match is only consulted when no direct
// mapping exists (spec.md §9 open question, recorded in DESIGN.md).
func resolveTrackID(datasetKey string) (string, bool) {
	if id, ok := directTrackMap[datasetKey]; ok {
		return id, true
	}
	if xsimKey, ok := crossSimMap[datasetKey]; ok {
		if id, ok2 := directTrackMap[xsimKey]; ok2 {
			return id, true
		}
	}
	return "", false
}

// nameOverrides supplies proper display names the generic snake_case ->
// Title Case rule can't reconstruct.
var nameOverrides = map[string]string{
	"eau_rouge":            "Eau Rouge",
	"raidillon":            "Raidillon",
	"tertre_rouge":         "Tertre Rouge",
	"craner_curves":        "Craner Curves",
	"130r":                 "130R",
	"paddock_hill_bend":    "Paddock Hill Bend",
	"mcphillamy_park":      "McPhillamy Park",
	"the_chase":            "The Chase",
	"druids":               "Druids",
	"graham_hill_bend":     "Graham Hill Bend",
	"clearways":            "Clearways",
	"stowe":                "Stowe",
	"copse":                "Copse",
	"maggotts":             "Maggotts",
	"becketts":             "Becketts",
	"chapel":               "Chapel",
	"the_bus_stop":         "The Bus Stop",
	"parabolica":           "Parabolica",
	"lesmo":                "Lesmo",
	"ascari":               "Ascari",
	"130r_east":            "130R East",
	"casio_triangle":       "Casio Triangle",
	"spoon_curve":          "Spoon Curve",
	"degner":               "Degner",
	"130_r":                "130R",
	"the_karussell":        "The Karussell",
	"fox_hole":             "Fox Hole",
	"flugplatz":            "Flugplatz",
	"schwedenkreuz":        "Schwedenkreuz",
	"adenauer_forst":       "Adenauer Forst",
	"bridge":               "Bridge",
	"luffield":             "Luffield",
	"woodcote":             "Woodcote",
	"skid_pad":             "Skid Pad",
	"rivazza":              "Rivazza",
	"tamburello":           "Tamburello",
	"variante_alta":        "Variante Alta",
	"piratella":            "Piratella",
	"acque_minerali":       "Acque Minerali",
	"turn_1":               "Turn 1",
	"reiterzbogen":         "Reiterzbogen",
}

// DisplayName normalises a stored/dataset corner name: snake_case becomes
// spaced Title Case, unless nameOverrides supplies a proper name.
func DisplayName(raw string) string {
	key := strings.ToLower(strings.TrimSpace(raw))
	if override, ok := nameOverrides[key]; ok {
		return override
	}
	parts := strings.Split(key, "_")
	for i, p := range parts {
		if p == "" {
			continue
		}
		parts[i] = strings.ToUpper(p[:1]) + p[1:]
	}
	return strings.Join(parts, " ")
}
