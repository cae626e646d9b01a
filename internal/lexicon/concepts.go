package lexicon

import (
	"strings"

	"github.com/cbegin/textscape-go/internal/scales"
)

// Opt is an optional parameter value inside a Fragment.
type Opt struct {
	Value float64
	Set   bool
}

func some(v float64) Opt { return Opt{Value: v, Set: true} }

// Or returns the value when set, otherwise def.
func (o Opt) Or(def float64) float64 {
	if o.Set {
		return o.Value
	}
	return def
}

// Fragment is the partial set of musical hints a word contributes.
type Fragment struct {
	Mood         Opt
	Tension      Opt
	Tempo        Opt
	Density      Opt
	FilterCutoff Opt
	Brightness   Opt
	LowPass      Opt
	HighPass     Opt
	ReverbMix    Opt
	ReverbSize   string
	Register     string
	Instrument   string
}

// Category names a concept table.
type Category int

const (
	Temporal Category = iota
	Spatial
	Textural
	Color
	Nature
	Abstract
)

var categoryNames = [...]string{"temporal", "spatial", "textural", "color", "nature", "abstract"}

func (c Category) String() string {
	if c < 0 || int(c) >= len(categoryNames) {
		return "unknown"
	}
	return categoryNames[c]
}

// Categories lists every concept table in lookup order.
var Categories = []Category{Temporal, Spatial, Textural, Color, Nature, Abstract}

var conceptTables = map[Category]map[string]Fragment{
	Temporal: {
		"rush":     {Tempo: some(1.5), Tension: some(0.7)},
		"hurry":    {Tempo: some(1.4), Tension: some(0.6)},
		"slow":     {Tempo: some(0.5), Tension: some(0.2)},
		"gradual":  {Tempo: some(0.6), Tension: some(0.2)},
		"sudden":   {Tempo: some(1.3), Tension: some(0.8)},
		"eternal":  {Tempo: some(0.3), Density: some(0.9)},
		"fleeting": {Tempo: some(1.1), Density: some(0.2)},
		"pause":    {Tempo: some(0.3), Density: some(0.1)},
		"wait":     {Tempo: some(0.4), Tension: some(0.4)},
	},
	Spatial: {
		"vast":     {Density: some(0.2), ReverbSize: "cathedral", Register: "low"},
		"enormous": {Density: some(0.3), ReverbSize: "hall", Register: "low"},
		"tiny":     {Density: some(0.8), ReverbSize: "small", Register: "high"},
		"intimate": {Density: some(0.5), ReverbSize: "room", Register: "mid"},
		"distant":  {Density: some(0.2), ReverbSize: "cathedral", HighPass: some(0.3)},
		"close":    {Density: some(0.7), ReverbSize: "small", LowPass: some(0.6)},
		"deep":     {Density: some(0.4), ReverbSize: "hall", Register: "low"},
		"high":     {Density: some(0.3), Register: "high", Brightness: some(0.8)},
		"wide":     {Density: some(0.3), ReverbSize: "hall"},
		"narrow":   {Density: some(0.7), ReverbSize: "small"},
		"crowded":  {Density: some(0.9), Tension: some(0.6), ReverbSize: "small"},
		"empty":    {Density: some(0.1), Tension: some(0.2), ReverbSize: "cathedral"},
		"hollow":   {Density: some(0.2), Register: "mid"},
	},
	Textural: {
		"smooth":      {FilterCutoff: some(0.7)},
		"rough":       {FilterCutoff: some(0.3)},
		"soft":        {FilterCutoff: some(0.8)},
		"hard":        {FilterCutoff: some(0.4)},
		"sharp":       {FilterCutoff: some(0.2), Brightness: some(0.9)},
		"dull":        {FilterCutoff: some(0.5), Brightness: some(0.3)},
		"warm":        {FilterCutoff: some(0.6), LowPass: some(0.6)},
		"cold":        {FilterCutoff: some(0.8), HighPass: some(0.4)},
		"crystalline": {FilterCutoff: some(0.9), Instrument: "bells"},
		"muddy":       {FilterCutoff: some(0.3), Register: "low"},
		"transparent": {Density: some(0.3), FilterCutoff: some(0.8), ReverbMix: some(0.7)},
		"thick":       {Density: some(0.8), FilterCutoff: some(0.4)},
		"thin":        {Density: some(0.2), FilterCutoff: some(0.7)},
	},
	Color: {
		"red":     {Mood: some(0.2), Tension: some(0.7), Register: "mid-low"},
		"orange":  {Mood: some(0.6), Tension: some(0.4), Register: "mid"},
		"yellow":  {Mood: some(0.8), Tension: some(0.3), Brightness: some(1.0), Register: "high"},
		"green":   {Mood: some(0.4), Tension: some(0.2), Register: "mid"},
		"blue":    {Mood: some(-0.2), Tension: some(0.3), Register: "mid"},
		"indigo":  {Mood: some(-0.3), Tension: some(0.5), Register: "mid-low"},
		"violet":  {Mood: some(0.3), Tension: some(0.6), Register: "high"},
		"purple":  {Mood: some(0.1), Tension: some(0.5), Register: "mid"},
		"white":   {Mood: some(0.9), Tension: some(0.1), Brightness: some(1.0), Density: some(0.2)},
		"black":   {Mood: some(-0.8), Tension: some(0.7), Density: some(0.1)},
		"gray":    {Mood: some(0.0), Tension: some(0.3), Density: some(0.4)},
		"gold":    {Mood: some(0.7), Tension: some(0.3), Instrument: "bells"},
		"silver":  {Mood: some(0.5), Tension: some(0.4), Brightness: some(0.8), Instrument: "bells"},
		"crimson": {Mood: some(-0.1), Tension: some(0.8), Register: "low"},
		"azure":   {Mood: some(0.4), Tension: some(0.2), Register: "high"},
		"emerald": {Mood: some(0.5), Tension: some(0.2), Register: "mid"},
	},
	Nature: {
		"ocean":    {Instrument: "drone", Register: "low", Density: some(0.4)},
		"sea":      {Instrument: "pad", Register: "low", Density: some(0.4)},
		"wave":     {Instrument: "swell"},
		"water":    {Instrument: "texture"},
		"river":    {Instrument: "pulse"},
		"rain":     {Instrument: "texture", Density: some(0.6)},
		"storm":    {Instrument: "atmosphere", Tension: some(0.9)},
		"wind":     {Instrument: "atmosphere"},
		"forest":   {Instrument: "pad", Density: some(0.6)},
		"tree":     {Instrument: "drone", Register: "mid-low"},
		"mountain": {Instrument: "drone", Register: "low"},
		"sky":      {Instrument: "atmosphere", Register: "high"},
		"cloud":    {Instrument: "pad", Density: some(0.3)},
		"sun":      {Instrument: "bells", Brightness: some(1.0), Register: "high"},
		"moon":     {Instrument: "pad"},
		"star":     {Instrument: "texture", Density: some(0.2)},
		"fire":     {Instrument: "texture"},
		"earth":    {Instrument: "drone", Register: "low"},
		"stone":    {Instrument: "pad", Register: "low"},
		"flower":   {Instrument: "melody", Register: "high"},
		"bird":     {Instrument: "melody", Register: "high"},
		"night":    {Instrument: "atmosphere", Mood: some(-0.3), Density: some(0.2)},
		"dawn":     {Instrument: "pad", Mood: some(0.5), Brightness: some(0.7)},
		"dusk":     {Instrument: "atmosphere", Mood: some(-0.1)},
	},
	Abstract: {
		"infinity":  {Tempo: some(0.3), Density: some(0.7)},
		"void":      {Density: some(0.05), Tension: some(0.6)},
		"chaos":     {Tension: some(0.95), Density: some(0.9)},
		"order":     {Tension: some(0.2)},
		"time":      {},
		"space":     {ReverbSize: "cathedral", Density: some(0.2)},
		"memory":    {Mood: some(-0.2)},
		"dream":     {Mood: some(0.3), Tension: some(0.4)},
		"truth":     {},
		"mystery":   {Tension: some(0.6)},
		"shadow":    {Mood: some(-0.6), Brightness: some(0.1), Register: "low"},
		"light":     {Mood: some(0.8), Brightness: some(1.0), Register: "high"},
		"silence":   {Density: some(0.0)},
		"sound":     {Density: some(0.6)},
		"beginning": {},
		"end":       {},
	},
}

// Concept looks a lowercase word up in one concept table.
func Concept(c Category, word string) (Fragment, bool) {
	f, ok := conceptTables[c][word]
	return f, ok
}

// Emotion is an emotion keyword with its base parameters and, per culture,
// the scale it evokes.
type Emotion struct {
	Name        string
	Mood        float64
	Tension     float64
	Tempo       float64
	Density     float64
	Scales      map[scales.Culture]string
	Forms       []string // surface forms for culture-specific concepts
	Description string
}

// Cultural reports whether the emotion is a culture-specific concept.
func (e Emotion) Cultural() bool { return len(e.Forms) > 0 }

// ScaleFor returns the scale hint for culture, falling back to western.
func (e Emotion) ScaleFor(culture scales.Culture) (string, bool) {
	if id, ok := e.Scales[culture]; ok {
		return id, true
	}
	id, ok := e.Scales[scales.Western]
	return id, ok
}

// Emotions in detection order.
var Emotions = []Emotion{
	{Name: "joy", Mood: 0.8, Tension: 0.2, Tempo: 1.2, Density: 0.6,
		Scales: map[scales.Culture]string{scales.Western: "lydian", scales.Indian: "bilawal", scales.EastAsian: "yoScale", scales.MiddleEastern: "rast"}},
	{Name: "sadness", Mood: -0.6, Tension: 0.4, Tempo: 0.6, Density: 0.3,
		Scales: map[scales.Culture]string{scales.Western: "aeolian", scales.Indian: "bhairavi", scales.EastAsian: "inScale", scales.MiddleEastern: "saba"}},
	{Name: "anger", Mood: -0.4, Tension: 0.9, Tempo: 1.4, Density: 0.8,
		Scales: map[scales.Culture]string{scales.Western: "phrygian", scales.Indian: "bhairav", scales.EastAsian: "inScale", scales.MiddleEastern: "hijaz"}},
	{Name: "peace", Mood: 0.4, Tension: 0.1, Tempo: 0.5, Density: 0.3,
		Scales: map[scales.Culture]string{scales.Western: "dorian", scales.Indian: "yaman", scales.EastAsian: "yoScale", scales.MiddleEastern: "rast"}},
	{Name: "fear", Mood: -0.7, Tension: 0.9, Tempo: 0.4, Density: 0.2,
		Scales: map[scales.Culture]string{scales.Western: "locrian", scales.Indian: "bhairavi", scales.EastAsian: "inScale", scales.MiddleEastern: "saba"}},
	{Name: "love", Mood: 0.7, Tension: 0.3, Tempo: 0.8, Density: 0.5,
		Scales: map[scales.Culture]string{scales.Western: "lydian", scales.Indian: "yaman", scales.EastAsian: "majorPentatonic", scales.MiddleEastern: "rast"}},
	{Name: "wonder", Mood: 0.6, Tension: 0.5, Tempo: 0.7, Density: 0.4,
		Scales: map[scales.Culture]string{scales.Western: "lydian", scales.Indian: "yaman", scales.EastAsian: "yoScale", scales.MiddleEastern: "rast"}},
	{Name: "contemplation", Mood: 0.1, Tension: 0.3, Tempo: 0.5, Density: 0.4,
		Scales: map[scales.Culture]string{scales.Western: "dorian", scales.Indian: "kafi", scales.EastAsian: "hirajoshi", scales.MiddleEastern: "bayati"}},
	{Name: "saudade", Mood: -0.3, Tension: 0.5, Tempo: 0.6, Density: 0.4,
		Scales: map[scales.Culture]string{scales.Western: "dorian"}, Forms: []string{"saudade"},
		Description: "Portuguese longing and nostalgia"},
	{Name: "monoNoAware", Mood: -0.2, Tension: 0.3, Tempo: 0.4, Density: 0.2,
		Scales: map[scales.Culture]string{scales.EastAsian: "inScale"}, Forms: []string{"mono no aware"},
		Description: "Japanese wistfulness at transient beauty"},
	{Name: "duende", Mood: 0.3, Tension: 0.8, Tempo: 0.9, Density: 0.7,
		Scales: map[scales.Culture]string{scales.MiddleEastern: "hijaz"}, Forms: []string{"duende"},
		Description: "Spanish soul and passion"},
	{Name: "hiraeth", Mood: -0.4, Tension: 0.4, Tempo: 0.5, Density: 0.3,
		Scales: map[scales.Culture]string{scales.Western: "aeolian"}, Forms: []string{"hiraeth"},
		Description: "Welsh longing for home"},
	{Name: "wabisabi", Mood: 0.2, Tension: 0.2, Tempo: 0.5, Density: 0.3,
		Scales: map[scales.Culture]string{scales.EastAsian: "hirajoshi"}, Forms: []string{"wabisabi", "wabi-sabi", "wabi sabi"},
		Description: "Japanese beauty in imperfection"},
	{Name: "sisu", Mood: 0.1, Tension: 0.6, Tempo: 0.7, Density: 0.5,
		Scales: map[scales.Culture]string{scales.Western: "dorian"}, Forms: []string{"sisu"},
		Description: "Finnish stoic determination"},
}

var emotionIndex = func() map[string]int {
	m := make(map[string]int, len(Emotions))
	for i, e := range Emotions {
		m[strings.ToLower(e.Name)] = i
	}
	return m
}()

// EmotionFor returns the emotion whose keyword is word.
func EmotionFor(word string) (Emotion, bool) {
	i, ok := emotionIndex[word]
	if !ok {
		return Emotion{}, false
	}
	return Emotions[i], true
}
