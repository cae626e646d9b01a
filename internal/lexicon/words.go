package lexicon

// WordSet is a fixed vocabulary.
type WordSet map[string]struct{}

func newSet(words ...string) WordSet {
	s := make(WordSet, len(words))
	for _, w := range words {
		s[w] = struct{}{}
	}
	return s
}

func (s WordSet) Has(word string) bool {
	_, ok := s[word]
	return ok
}

// FunctionWords is the closed list of grammatical words that carry little
// affect and are down-weighted when computing the tonal center.
var FunctionWords = newSet(
	"the", "a", "an", "and", "or", "but", "in", "on", "at", "to", "for", "of",
	"with", "by", "from", "as", "is", "was", "are", "were", "be", "been",
	"being", "have", "has", "had", "do", "does", "did", "will", "would",
	"should", "could", "may", "might", "must", "can", "this", "that", "these",
	"those", "i", "you", "he", "she", "it", "we", "they",
)

var PositiveWords = newSet(
	"happy", "joy", "love", "wonderful", "amazing", "beautiful", "great", "excellent",
	"fantastic", "brilliant", "delightful", "pleasant", "cheerful", "bright", "warm",
	"light", "hope", "peace", "calm", "serene", "gentle", "sweet", "kind", "good",
	"heaven", "paradise", "bliss", "ecstasy", "triumph", "victory", "success",
	"laugh", "smile", "celebrate", "rejoice", "thrive", "bloom", "flourish",
)

var NegativeWords = newSet(
	"sad", "unhappy", "miserable", "depressed", "gloomy", "dark", "cold", "bitter",
	"hate", "fear", "anger", "rage", "fury", "terrible", "awful", "horrible", "bad",
	"pain", "hurt", "suffer", "agony", "despair", "sorrow", "grief", "mourning",
	"death", "loss", "empty", "void", "hollow", "broken", "shattered", "destroyed",
	"cry", "weep", "scream", "die", "fade", "wither", "decay",
)

var Intensifiers = newSet(
	"very", "extremely", "incredibly", "absolutely", "completely", "totally",
	"utterly", "deeply", "profoundly", "intensely", "overwhelmingly",
)

var Negations = newSet(
	"not", "no", "never", "neither", "nor", "none", "nobody", "nothing",
	"nowhere", "hardly", "scarcely", "barely",
)

var HighArousalWords = newSet(
	"exciting", "thrilling", "intense", "passionate", "fierce", "violent", "wild",
	"energetic", "dynamic", "explosive", "powerful", "overwhelming", "rush", "surge",
)

var LowArousalWords = newSet(
	"calm", "peaceful", "quiet", "still", "serene", "tranquil", "gentle", "soft",
	"slow", "steady", "restful", "drowsy", "sleepy", "mellow", "lull",
)

// CommonWords holds the hundred most frequent English words.
var CommonWords = newSet(
	"the", "be", "to", "of", "and", "a", "in", "that", "have", "i",
	"it", "for", "not", "on", "with", "he", "as", "you", "do", "at",
	"this", "but", "his", "by", "from", "they", "we", "say", "her", "she",
	"or", "an", "will", "my", "one", "all", "would", "there", "their", "what",
	"so", "up", "out", "if", "about", "who", "get", "which", "go", "me",
	"when", "make", "can", "like", "time", "no", "just", "him", "know", "take",
	"people", "into", "year", "your", "good", "some", "could", "them", "see", "other",
	"than", "then", "now", "look", "only", "come", "its", "over", "think", "also",
	"back", "after", "use", "two", "how", "our", "work", "first", "well", "way",
	"even", "new", "want", "because", "any", "these", "give", "day", "most", "us",
)

var CommonVerbs = newSet(
	"is", "are", "was", "were", "be", "been", "being", "have", "has", "had",
	"do", "does", "did", "will", "would", "could", "should", "may", "might", "can",
	"go", "get", "make", "take", "come", "see", "know", "think", "say", "tell",
)

var AbstractWords = newSet(
	"concept", "idea", "theory", "philosophy", "thought", "belief", "notion",
	"principle", "essence", "nature", "meaning", "purpose", "truth", "reality",
	"existence", "being", "consciousness", "mind", "soul", "spirit", "time",
	"space", "infinity", "eternity", "void", "chaos", "order", "freedom",
	"justice", "beauty", "knowledge", "wisdom", "understanding", "awareness",
)

var ConcreteWords = newSet(
	"see", "hear", "touch", "taste", "smell", "feel", "look", "sound",
	"hand", "eye", "ear", "mouth", "nose", "body", "face", "voice",
)

var Subordinators = newSet(
	"because", "although", "while", "since", "unless", "whereas",
)
