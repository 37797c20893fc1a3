package dsp

// Status byte A bit assignments. Bit 6 shows up set on real controllers but
// its meaning is not known; it is intentionally unmapped.
const (
	bitHeating   = 1 << 0
	bitAuxHi     = 1 << 1
	bitJetsLo    = 1 << 2
	bitJetsHi    = 1 << 3
	bitFiltering = 1 << 4
	bitSetMode   = 1 << 5
	amBit        = 1 << 7
)

// Status byte B bit assignments. Bits 0–3 are unmapped, same caveat as
// status A bit 6.
const (
	bitLightOn = 1 << 4
	bitJets2Hi = 1 << 5
	bitJets2Lo = 1 << 6
	bitAuxLo   = 1 << 7
)

// SpaState is the running snapshot accumulated over one collection session.
// Flags are sticky: a frame that carries no status bytes (Blank, mode-word
// Unknown) leaves them untouched, so a flag seen once stays set until a
// later status byte clears it.
type SpaState struct {
	CurrentTemp *int

	Heating   bool
	AuxHi     bool
	JetsLo    bool
	JetsHi    bool
	Filtering bool
	SetMode   bool
	// Overheat has no known status bit or display pattern yet; it exists so
	// the reading schema is stable once one is identified.
	Overheat bool
	AM       bool
	LightOn  bool
	Jets2Hi  bool
	Jets2Lo  bool
	AuxLo    bool

	// LastStatusA remembers the most recent status byte A so the AM flag can
	// be resolved at finalize time even if the last frame carried no status.
	LastStatusA *byte
}

// Merge folds one decoded frame into the state and returns the updated copy.
// The receiver is taken by value; callers own the returned state exclusively.
func (s SpaState) Merge(f SemanticFrame) SpaState {
	switch v := f.(type) {
	case Temperature:
		t := v.Value
		s.CurrentTemp = &t
		s.applyStatus(v.StatusA, v.StatusB)
	case TimeOfDay:
		s.applyStatus(v.StatusA, v.StatusB)
	case Eco:
		s.applyStatus(v.StatusA, v.StatusB)
	case Unknown:
		if v.HasStatus {
			s.applyStatus(v.StatusA, v.StatusB)
		}
	case Blank:
		// no status bytes, nothing to merge
	}
	return s
}

// FinalAM resolves the AM indicator from the most recent status byte A.
// Unlike the sticky AM flag this stays answerable even when the last frames
// of a session carried no status bytes.
func (s SpaState) FinalAM() bool {
	return s.LastStatusA != nil && *s.LastStatusA&amBit != 0
}

func (s *SpaState) applyStatus(a, b byte) {
	s.Heating = a&bitHeating != 0
	s.AuxHi = a&bitAuxHi != 0
	s.JetsLo = a&bitJetsLo != 0
	s.JetsHi = a&bitJetsHi != 0
	s.Filtering = a&bitFiltering != 0
	s.SetMode = a&bitSetMode != 0
	s.AM = a&amBit != 0

	s.LightOn = b&bitLightOn != 0
	s.Jets2Hi = b&bitJets2Hi != 0
	s.Jets2Lo = b&bitJets2Lo != 0
	s.AuxLo = b&bitAuxLo != 0

	sa := a
	s.LastStatusA = &sa
}
