package scales

// Culture names a group of scales in the catalog.
type Culture string

const (
	Multicultural Culture = "multicultural"
	Western       Culture = "western"
	Indian        Culture = "indian"
	MiddleEastern Culture = "middleEastern"
	EastAsian     Culture = "eastAsian"
	Exotic        Culture = "exotic"
)

// Scale describes one mode: its intervals from the root and where it sits on
// the mood (-1 dark .. +1 bright) and tension (0 stable .. 1 unstable) plane.
type Scale struct {
	ID          string
	Name        string
	Intervals   []int
	Mood        float64
	Tension     float64
	Culture     Culture
	Description string
}

var western = []Scale{
	{ID: "ionian", Name: "Ionian (Major)", Intervals: []int{0, 2, 4, 5, 7, 9, 11}, Mood: 0.7, Tension: 0.2, Culture: Western, Description: "Bright and joyful"},
	{ID: "dorian", Name: "Dorian", Intervals: []int{0, 2, 3, 5, 7, 9, 10}, Mood: 0.3, Tension: 0.3, Culture: Western, Description: "Balanced, contemplative minor with a bright sixth"},
	{ID: "phrygian", Name: "Phrygian", Intervals: []int{0, 1, 3, 5, 7, 8, 10}, Mood: -0.5, Tension: 0.6, Culture: Western, Description: "Dark and mysterious"},
	{ID: "lydian", Name: "Lydian", Intervals: []int{0, 2, 4, 6, 7, 9, 11}, Mood: 0.9, Tension: 0.4, Culture: Western, Description: "Dreamy, ethereal"},
	{ID: "mixolydian", Name: "Mixolydian", Intervals: []int{0, 2, 4, 5, 7, 9, 10}, Mood: 0.6, Tension: 0.3, Culture: Western, Description: "Folk-like, grounded brightness"},
	{ID: "aeolian", Name: "Aeolian (Natural Minor)", Intervals: []int{0, 2, 3, 5, 7, 8, 10}, Mood: -0.4, Tension: 0.4, Culture: Western, Description: "Melancholic, introspective"},
	{ID: "locrian", Name: "Locrian", Intervals: []int{0, 1, 3, 5, 6, 8, 10}, Mood: -0.7, Tension: 0.9, Culture: Western, Description: "Unstable and dark"},
	{ID: "harmonicMinor", Name: "Harmonic Minor", Intervals: []int{0, 2, 3, 5, 7, 8, 11}, Mood: -0.3, Tension: 0.7, Culture: Western, Description: "Dramatic minor"},
}

var indian = []Scale{
	{ID: "bhairav", Name: "Bhairav", Intervals: []int{0, 1, 4, 5, 7, 8, 11}, Mood: -0.2, Tension: 0.6, Culture: Indian, Description: "Devotional morning raga"},
	{ID: "yaman", Name: "Yaman (Kalyan)", Intervals: []int{0, 2, 4, 6, 7, 9, 11}, Mood: 0.7, Tension: 0.3, Culture: Indian, Description: "Romantic evening raga"},
	{ID: "bilawal", Name: "Bilawal", Intervals: []int{0, 2, 4, 5, 7, 9, 11}, Mood: 0.8, Tension: 0.2, Culture: Indian, Description: "Joyful morning raga"},
	{ID: "kafi", Name: "Kafi", Intervals: []int{0, 2, 3, 5, 7, 9, 10}, Mood: 0.2, Tension: 0.3, Culture: Indian, Description: "Gentle, compassionate"},
	{ID: "bhairavi", Name: "Bhairavi", Intervals: []int{0, 1, 3, 5, 7, 8, 10}, Mood: -0.4, Tension: 0.5, Culture: Indian, Description: "Late night longing"},
}

// Maqamat are approximated in 12-TET; quarter tones round to the nearest semitone.
var middleEastern = []Scale{
	{ID: "rast", Name: "Maqam Rast", Intervals: []int{0, 2, 4, 5, 7, 9, 10}, Mood: 0.5, Tension: 0.3, Culture: MiddleEastern, Description: "Celebratory, bright"},
	{ID: "bayati", Name: "Maqam Bayati", Intervals: []int{0, 1, 3, 5, 7, 8, 10}, Mood: 0.0, Tension: 0.4, Culture: MiddleEastern, Description: "Introspective"},
	{ID: "hijaz", Name: "Maqam Hijaz", Intervals: []int{0, 1, 4, 5, 7, 8, 11}, Mood: -0.1, Tension: 0.7, Culture: MiddleEastern, Description: "Spiritual, dramatic"},
	{ID: "saba", Name: "Maqam Saba", Intervals: []int{0, 1, 3, 4, 6, 8, 10}, Mood: -0.6, Tension: 0.7, Culture: MiddleEastern, Description: "Deep sadness, longing"},
}

var eastAsian = []Scale{
	{ID: "majorPentatonic", Name: "Major Pentatonic", Intervals: []int{0, 2, 4, 7, 9}, Mood: 0.7, Tension: 0.1, Culture: EastAsian, Description: "Simple, pure"},
	{ID: "minorPentatonic", Name: "Minor Pentatonic", Intervals: []int{0, 3, 5, 7, 10}, Mood: -0.2, Tension: 0.2, Culture: EastAsian, Description: "Folk, grounded"},
	{ID: "inScale", Name: "In Scale (Japanese)", Intervals: []int{0, 1, 5, 7, 8}, Mood: -0.3, Tension: 0.4, Culture: EastAsian, Description: "Wistful, transient beauty"},
	{ID: "yoScale", Name: "Yo Scale (Japanese)", Intervals: []int{0, 2, 5, 7, 9}, Mood: 0.5, Tension: 0.2, Culture: EastAsian, Description: "Bright, ceremonial"},
	{ID: "hirajoshi", Name: "Hirajoshi", Intervals: []int{0, 2, 3, 7, 8}, Mood: -0.1, Tension: 0.3, Culture: EastAsian, Description: "Contemplative folk"},
}

var exotic = []Scale{
	{ID: "wholeTone", Name: "Whole Tone", Intervals: []int{0, 2, 4, 6, 8, 10}, Mood: 0.3, Tension: 0.8, Culture: Exotic, Description: "Floating, ambiguous"},
	{ID: "augmented", Name: "Augmented", Intervals: []int{0, 3, 4, 7, 8, 11}, Mood: 0.1, Tension: 0.7, Culture: Exotic, Description: "Symmetrical, mysterious"},
	{ID: "diminished", Name: "Diminished (Octatonic)", Intervals: []int{0, 2, 3, 5, 6, 8, 9, 11}, Mood: -0.4, Tension: 0.8, Culture: Exotic, Description: "Dark, complex"},
	{ID: "chromatic", Name: "Chromatic", Intervals: []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11}, Mood: 0.0, Tension: 1.0, Culture: Exotic, Description: "Every note, maximum tension"},
}

// multiculturalExotic limits how many exotic scales join the mixed pool.
const multiculturalExotic = 2

var byCulture = map[Culture][]Scale{
	Western:       western,
	Indian:        indian,
	MiddleEastern: middleEastern,
	EastAsian:     eastAsian,
	Exotic:        exotic,
}

// categoryOrder is the search order used when a lookup spans every culture.
var categoryOrder = []Culture{Western, Indian, MiddleEastern, EastAsian, Exotic}

// All returns every scale in catalog order.
func All() []Scale {
	var out []Scale
	for _, c := range categoryOrder {
		out = append(out, byCulture[c]...)
	}
	return out
}

// Cultures lists the culture names accepted by Pool and Select.
func Cultures() []Culture {
	return append([]Culture{Multicultural}, categoryOrder...)
}
