package audio

import "sort"

// Note is one weighted entry of a tone palette.
type Note struct {
	Frequency float64
	Weight    int
}

// EbMajorNotes is the welcome palette: three octaves of Eb major with the
// tonic weighted toward the bass.
var EbMajorNotes = []Note{
	{77.78, 4},   // Eb2
	{87.31, 1},   // F2
	{98.00, 1},   // G2
	{103.83, 1},  // Ab2
	{116.54, 1},  // Bb2
	{130.81, 1},  // C3
	{146.83, 1},  // D3
	{155.56, 3},  // Eb3
	{174.61, 1},  // F3
	{196.00, 1},  // G3
	{207.65, 1},  // Ab3
	{233.08, 1},  // Bb3
	{261.63, 1},  // C4
	{293.66, 1},  // D4
	{311.13, 1},  // Eb4
	{349.23, 1},  // F4
	{392.00, 1},  // G4
	{415.30, 1},  // Ab4
	{466.16, 1},  // Bb4
	{523.25, 1},  // C5
	{587.33, 1},  // D5
	{622.25, 2},  // Eb5
	{698.46, 1},  // F5
	{783.99, 1},  // G5
	{830.61, 1},  // Ab5
	{932.33, 1},  // Bb5
	{1046.50, 1}, // C6
	{1174.66, 1}, // D6
	{1244.51, 1}, // Eb6
}

// NoteMap resolves note names used by patterns and chords.
var NoteMap = map[string]float64{
	"Eb2": 77.78,
	"F2":  87.31,
	"G2":  98.00,
	"Ab2": 103.83,
	"Bb2": 116.54,
	"C3":  130.81,
	"D3":  146.83,
	"Eb3": 155.56,
	"F3":  174.61,
	"G3":  196.00,
	"Ab3": 207.65,
	"Bb3": 233.08,
	"C4":  261.63,
	"D4":  293.66,
	"Eb4": 311.13,
	"F4":  349.23,
	"G4":  392.00,
	"Ab4": 415.30,
	"Bb4": 466.16,
	"C5":  523.25,
	"D5":  587.33,
	"Eb5": 622.25,
	"F5":  698.46,
	"G5":  783.99,
	"Ab5": 830.61,
	"Bb5": 932.33,
	"C6":  1046.50,
	"Db6": 1108.73,
	"D6":  1174.66,
	"Eb6": 1244.51,
	"Ab6": 1661.22,
}

// Frequency returns the frequency of a named note.
func Frequency(name string) (float64, bool) {
	f, ok := NoteMap[name]
	return f, ok
}

// ChakraScale holds the root frequency for each portfolio menu depth.
var ChakraScale = []float64{396, 417, 528, 639, 741, 852, 963}

// Interval ratios for portfolio feedback: a major third for items that open
// something, a minor seventh for leaves.
const (
	RatioActionable = 5.0 / 4.0
	RatioLeaf       = 16.0 / 9.0
)

// DepthRoot returns the chakra root for a menu depth. Depths outside the
// scale fall back to depth 0 and report false.
func DepthRoot(depth int) (float64, bool) {
	if depth < 0 || depth >= len(ChakraScale) {
		return ChakraScale[0], false
	}
	return ChakraScale[depth], true
}

// ChordPreset is a named feedback chord.
type ChordPreset struct {
	Name  string
	Notes []string
}

// Tab chords played when switching to the profile and portfolio tabs.
var (
	ChordTabProfile   = ChordPreset{Name: "profile", Notes: []string{"Eb5", "F5", "G5", "Ab5", "Bb5"}}
	ChordTabPortfolio = ChordPreset{Name: "portfolio", Notes: []string{"F5", "C6", "Db6", "Ab6"}}
)

// ChordPresets indexes the tab chords by name.
var ChordPresets = map[string]ChordPreset{
	ChordTabProfile.Name:   ChordTabProfile,
	ChordTabPortfolio.Name: ChordTabPortfolio,
}

// ChordNames returns the names accepted by PlayChord, sorted.
func ChordNames() []string {
	names := make([]string, 0, len(ChordPresets)+1)
	for name := range ChordPresets {
		names = append(names, name)
	}
	names = append(names, ChordWelcome)
	sort.Strings(names)
	return names
}
