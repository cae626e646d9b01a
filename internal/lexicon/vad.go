package lexicon

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	apperr "github.com/cbegin/textscape-go/internal/errors"
)

// VAD is a word's valence (-1 negative .. +1 positive), arousal (0 calm ..
// 1 excited) and dominance (0 submissive .. 1 in control).
type VAD struct {
	Valence   float64 `yaml:"valence" json:"valence"`
	Arousal   float64 `yaml:"arousal" json:"arousal"`
	Dominance float64 `yaml:"dominance" json:"dominance"`
}

// Neutral is used for words with no entry.
var Neutral = VAD{Valence: 0, Arousal: 0.5, Dominance: 0.5}

// VADTable resolves lowercase words to VAD triples.
type VADTable interface {
	Lookup(word string) (VAD, bool)
}

// MapTable is an in-memory VADTable.
type MapTable map[string]VAD

func (m MapTable) Lookup(word string) (VAD, bool) {
	v, ok := m[word]
	return v, ok
}

// Len reports the number of entries.
func (m MapTable) Len() int { return len(m) }

type chain []VADTable

func (c chain) Lookup(word string) (VAD, bool) {
	for _, t := range c {
		if t == nil {
			continue
		}
		if v, ok := t.Lookup(word); ok {
			return v, true
		}
	}
	return VAD{}, false
}

// Chain consults tables in order and returns the first hit.
func Chain(tables ...VADTable) VADTable {
	return chain(tables)
}

// LoadVADTable reads a word -> {valence, arousal, dominance} mapping from a
// YAML or JSON file. Keys are lowercased; values are clamped into range.
func LoadVADTable(path string) (MapTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, apperr.Wrap("lexicon", err)
	}
	return ParseVADTable(raw)
}

// ParseVADTable decodes a YAML or JSON document (JSON is valid YAML).
func ParseVADTable(raw []byte) (MapTable, error) {
	var doc map[string]VAD
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, apperr.Wrap("lexicon", fmt.Errorf("decode VAD table: %w", err))
	}
	out := make(MapTable, len(doc))
	for word, v := range doc {
		w := strings.ToLower(strings.TrimSpace(word))
		if w == "" {
			continue
		}
		out[w] = VAD{
			Valence:   clamp(v.Valence, -1, 1),
			Arousal:   clamp(v.Arousal, 0, 1),
			Dominance: clamp(v.Dominance, 0, 1),
		}
	}
	return out, nil
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Builtin returns the bundled table. It covers the emotion keywords and the
// fixed sentiment vocabulary so the pipeline has affect data with no
// external file.
func Builtin() MapTable {
	return builtin
}

var builtin = MapTable{
	// emotion keywords
	"joy":           {0.88, 0.72, 0.67},
	"sadness":       {-0.79, 0.29, 0.21},
	"anger":         {-0.68, 0.86, 0.62},
	"peace":         {0.78, 0.14, 0.55},
	"fear":          {-0.87, 0.84, 0.17},
	"love":          {0.9, 0.62, 0.6},
	"wonder":        {0.62, 0.58, 0.5},
	"contemplation": {0.16, 0.24, 0.56},
	"saudade":       {-0.35, 0.38, 0.32},
	"hiraeth":       {-0.42, 0.35, 0.3},
	"duende":        {0.3, 0.8, 0.64},
	"sisu":          {0.25, 0.6, 0.8},
	"wabisabi":      {0.3, 0.2, 0.5},

	// positive vocabulary
	"happy":      {0.92, 0.66, 0.7},
	"wonderful":  {0.85, 0.6, 0.62},
	"amazing":    {0.84, 0.74, 0.6},
	"beautiful":  {0.86, 0.48, 0.58},
	"great":      {0.74, 0.55, 0.7},
	"excellent":  {0.86, 0.56, 0.74},
	"fantastic":  {0.82, 0.7, 0.66},
	"brilliant":  {0.8, 0.62, 0.72},
	"delightful": {0.84, 0.5, 0.6},
	"pleasant":   {0.72, 0.3, 0.56},
	"cheerful":   {0.84, 0.62, 0.6},
	"bright":     {0.6, 0.52, 0.6},
	"warm":       {0.6, 0.32, 0.54},
	"light":      {0.5, 0.36, 0.5},
	"hope":       {0.76, 0.48, 0.52},
	"calm":       {0.62, 0.06, 0.6},
	"serene":     {0.7, 0.1, 0.58},
	"gentle":     {0.64, 0.14, 0.42},
	"sweet":      {0.72, 0.38, 0.48},
	"kind":       {0.76, 0.3, 0.56},
	"good":       {0.74, 0.4, 0.64},
	"heaven":     {0.84, 0.36, 0.6},
	"paradise":   {0.88, 0.52, 0.62},
	"bliss":      {0.9, 0.44, 0.6},
	"ecstasy":    {0.86, 0.94, 0.64},
	"triumph":    {0.82, 0.8, 0.9},
	"victory":    {0.84, 0.78, 0.92},
	"success":    {0.82, 0.62, 0.88},
	"laugh":      {0.82, 0.7, 0.6},
	"smile":      {0.84, 0.46, 0.62},
	"celebrate":  {0.86, 0.82, 0.7},
	"rejoice":    {0.86, 0.76, 0.66},
	"thrive":     {0.78, 0.62, 0.8},
	"bloom":      {0.7, 0.44, 0.54},
	"flourish":   {0.76, 0.54, 0.7},

	// negative vocabulary
	"sad":       {-0.8, 0.28, 0.2},
	"unhappy":   {-0.78, 0.38, 0.22},
	"miserable": {-0.88, 0.46, 0.16},
	"depressed": {-0.86, 0.24, 0.14},
	"gloomy":    {-0.72, 0.22, 0.24},
	"dark":      {-0.52, 0.4, 0.4},
	"cold":      {-0.36, 0.34, 0.44},
	"bitter":    {-0.66, 0.5, 0.4},
	"hate":      {-0.9, 0.86, 0.56},
	"rage":      {-0.82, 0.96, 0.7},
	"fury":      {-0.8, 0.94, 0.7},
	"terrible":  {-0.86, 0.7, 0.26},
	"awful":     {-0.84, 0.62, 0.26},
	"horrible":  {-0.88, 0.74, 0.24},
	"bad":       {-0.74, 0.5, 0.34},
	"pain":      {-0.84, 0.72, 0.2},
	"hurt":      {-0.78, 0.64, 0.22},
	"suffer":    {-0.86, 0.66, 0.14},
	"agony":     {-0.92, 0.88, 0.16},
	"despair":   {-0.9, 0.56, 0.1},
	"sorrow":    {-0.84, 0.3, 0.18},
	"grief":     {-0.88, 0.42, 0.14},
	"mourning":  {-0.82, 0.32, 0.18},
	"death":     {-0.9, 0.6, 0.2},
	"loss":      {-0.78, 0.42, 0.18},
	"empty":     {-0.52, 0.18, 0.28},
	"void":      {-0.5, 0.3, 0.3},
	"hollow":    {-0.46, 0.24, 0.3},
	"broken":    {-0.72, 0.5, 0.16},
	"shattered": {-0.8, 0.74, 0.14},
	"destroyed": {-0.86, 0.76, 0.16},
	"cry":       {-0.66, 0.64, 0.2},
	"weep":      {-0.7, 0.5, 0.18},
	"scream":    {-0.62, 0.92, 0.4},
	"die":       {-0.9, 0.64, 0.14},
	"fade":      {-0.3, 0.16, 0.3},
	"wither":    {-0.58, 0.2, 0.2},
	"decay":     {-0.62, 0.3, 0.22},

	// arousal vocabulary
	"exciting":     {0.74, 0.92, 0.66},
	"thrilling":    {0.7, 0.94, 0.62},
	"intense":      {0.04, 0.88, 0.6},
	"passionate":   {0.6, 0.9, 0.66},
	"fierce":       {-0.2, 0.9, 0.78},
	"violent":      {-0.8, 0.94, 0.62},
	"wild":         {0.2, 0.9, 0.56},
	"energetic":    {0.62, 0.92, 0.7},
	"explosive":    {-0.1, 0.96, 0.62},
	"powerful":     {0.5, 0.84, 0.92},
	"overwhelming": {-0.2, 0.86, 0.3},
	"surge":        {0.1, 0.86, 0.6},
	"peaceful":     {0.74, 0.08, 0.6},
	"quiet":        {0.3, 0.1, 0.46},
	"still":        {0.2, 0.1, 0.48},
	"tranquil":     {0.72, 0.06, 0.58},
	"soft":         {0.5, 0.14, 0.38},
	"slow":         {-0.06, 0.14, 0.36},
	"steady":       {0.42, 0.22, 0.62},
	"restful":      {0.7, 0.08, 0.54},
	"drowsy":       {0.04, 0.12, 0.3},
	"sleepy":       {0.1, 0.08, 0.3},
	"mellow":       {0.56, 0.14, 0.48},
	"lull":         {0.3, 0.1, 0.44},
}
