package models

import "time"

// Reading is one aggregated sampling result: the median temperature of the
// samples collected in a session plus the sticky status flags seen. It is
// immutable once produced; Temperature is nil when no temperature frame was
// observed before the session ended.
type Reading struct {
	Timestamp   time.Time `json:"timestamp"`
	Temperature *float64  `json:"temperature"`

	Heating   bool `json:"heating"`
	AuxHi     bool `json:"aux_hi"`
	JetsLo    bool `json:"jets_lo"`
	JetsHi    bool `json:"jets_hi"`
	Filtering bool `json:"filtering"`
	SetMode   bool `json:"set_mode"`
	Overheat  bool `json:"overheat"`
	LightOn   bool `json:"light_on"`
	Jets2Hi   bool `json:"jets2_hi"`
	Jets2Lo   bool `json:"jets2_lo"`
	AuxLo     bool `json:"aux_lo"`
	AM        bool `json:"am"`
}
