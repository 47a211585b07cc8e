package pitch

import (
	"fmt"
	"math"
)

// referenceNoteNumber is the MIDI number of A4, the note tuned to the
// reference frequency.
const referenceNoteNumber = 69

// noteNames is the chromatic scale starting at C, matching MIDI pitch-class
// ordering.
var noteNames = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// Note identifies the equal-tempered note closest to an observed frequency.
type Note struct {
	Name      string  `json:"name"`      // pitch class, e.g. "A" or "F#"
	Octave    int     `json:"octave"`    // standard numbering, A4 = 440 Hz at default tuning
	Midi      int     `json:"midi"`      // MIDI note number, A4 = 69
	Frequency float64 `json:"frequency"` // exact equal-tempered frequency in Hz
	Cents     float64 `json:"cents"`     // signed deviation of the observed frequency
}

// String renders the note in scientific pitch notation, e.g. "A4" or "F#3".
func (n Note) String() string {
	return fmt.Sprintf("%s%d", n.Name, n.Octave)
}

// Mapper converts observed frequencies to equal-tempered notes relative to a
// reference tuning of A4.
type Mapper struct {
	reference float64
}

// NewMapper returns a mapper with A4 tuned to referenceFrequency Hz
// (conventionally 440).
func NewMapper(referenceFrequency float64) Mapper {
	return Mapper{reference: referenceFrequency}
}

// Map quantizes freq to the nearest equal-tempered note and computes the
// deviation in cents. Rounding to the nearest semitone bounds |cents| to 50,
// except exactly at rounding midpoints where floating-point ties may land on
// either neighbor; that edge is accepted, not corrected.
//
// Map panics when freq is not positive: that is a bug in the caller, not a
// runtime condition to degrade through.
func (m Mapper) Map(freq float64) Note {
	if freq <= 0 {
		panic(fmt.Sprintf("pitch: Map called with non-positive frequency %g", freq))
	}

	distance := 12 * math.Log2(freq/m.reference)
	noteNumber := int(math.Round(referenceNoteNumber + distance))

	// Raw modulo is negative below MIDI 0; pull it back into [0, 11] so the
	// pitch-class lookup and the floored octave division stay valid.
	pitchClass := noteNumber % 12
	if pitchClass < 0 {
		pitchClass += 12
	}
	octave := (noteNumber-pitchClass)/12 - 1

	exact := m.reference * math.Pow(2, float64(noteNumber-referenceNoteNumber)/12)
	cents := 1200 * math.Log2(freq/exact)

	return Note{
		Name:      noteNames[pitchClass],
		Octave:    octave,
		Midi:      noteNumber,
		Frequency: exact,
		Cents:     cents,
	}
}
