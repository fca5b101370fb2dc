package classify

import "github.com/denisok6893-rgb/vibereel/internal/domain"

// Genre codes of the provider's fixed genre table.
const (
	GenreAction      = 28
	GenreAdventure   = 12
	GenreAnimation   = 16
	GenreComedy      = 35
	GenreCrime       = 80
	GenreDocumentary = 99
	GenreDrama       = 18
	GenreFamily      = 10751
	GenreFantasy     = 14
	GenreHistory     = 36
	GenreHorror      = 27
	GenreMusic       = 10402
	GenreMystery     = 9648
	GenreRomance     = 10749
	GenreSciFi       = 878
	GenreTVMovie     = 10770
	GenreThriller    = 53
	GenreWar         = 10752
	GenreWestern     = 37
)

var genreNames = map[int]string{
	GenreAction:      "Action",
	GenreAdventure:   "Adventure",
	GenreAnimation:   "Animation",
	GenreComedy:      "Comedy",
	GenreCrime:       "Crime",
	GenreDocumentary: "Documentary",
	GenreDrama:       "Drama",
	GenreFamily:      "Family",
	GenreFantasy:     "Fantasy",
	GenreHistory:     "History",
	GenreHorror:      "Horror",
	GenreMusic:       "Music",
	GenreMystery:     "Mystery",
	GenreRomance:     "Romance",
	GenreSciFi:       "Science Fiction",
	GenreTVMovie:     "TV Movie",
	GenreThriller:    "Thriller",
	GenreWar:         "War",
	GenreWestern:     "Western",
}

// defaultGenreAttention applies to unlisted genre codes.
const defaultGenreAttention = 0.5

var genreAttentionWeights = map[int]float64{
	GenreDocumentary: 0.9,
	GenreHistory:     0.85,
	GenreWar:         0.8,
	GenreMystery:     0.75,
	GenreThriller:    0.7,
	GenreCrime:       0.7,
	GenreDrama:       0.65,
	GenreSciFi:       0.6,
	GenreFantasy:     0.55,

	GenreAdventure: 0.5,
	GenreAction:    0.45,
	GenreRomance:   0.4,

	GenreComedy:    0.35,
	GenreFamily:    0.3,
	GenreAnimation: 0.25,
	GenreMusic:     0.2,
}

var genreVibeWeights = map[int]map[domain.Vibe]float64{
	GenreHorror:   {domain.Dark: 0.9},
	GenreThriller: {domain.Dark: 0.7},
	GenreCrime:    {domain.Dark: 0.6},
	GenreWar:      {domain.Melancholic: 0.7, domain.Dark: 0.3},

	GenreComedy:    {domain.FeelGood: 0.8},
	GenreRomance:   {domain.FeelGood: 0.7},
	GenreFamily:    {domain.FeelGood: 0.6},
	GenreAnimation: {domain.FeelGood: 0.6},

	GenreSciFi:   {domain.MindBending: 0.6},
	GenreMystery: {domain.MindBending: 0.5},
	GenreFantasy: {domain.Uplifting: 0.4, domain.FeelGood: 0.3},

	GenreDrama:     {domain.Melancholic: 0.4, domain.Uplifting: 0.3},
	GenreAdventure: {domain.Uplifting: 0.5},
	GenreAction:    {domain.Uplifting: 0.4},
}

// Attention keyword buckets.
const (
	bucketDeepDive   = "deep-dive"
	bucketImmersive  = "immersive"
	bucketCasual     = "casual"
	bucketBackground = "background"
)

var attentionKeywords = map[string]keywordSet{
	bucketDeepDive: newKeywordSet(
		"mind-bending mystery", "non-linear timeline", "multiple universes", "complex narrative",
		"philosophical exploration", "twist ending", "multiple timelines", "temporal loops",
		"ambiguous endings", "intricate plot", "puzzle-like storytelling", "dense", "layered",
		"documentary", "historical", "biography", "based on true events",
	),
	bucketImmersive: newKeywordSet(
		"intense drama", "gripping story", "character-driven", "emotional stakes",
		"detailed world-building", "engaging", "captivating", "suspenseful", "compelling",
		"rich storytelling", "psychological", "thriller", "mystery", "crime investigation",
	),
	bucketCasual: newKeywordSet(
		"fun adventure", "lighthearted journey", "classic tale", "straightforward",
		"entertaining", "accessible", "mainstream", "familiar", "easy to follow",
		"action-packed", "adventure", "comedy", "romance",
	),
	bucketBackground: newKeywordSet(
		"slice-of-life", "episodic", "light and enjoyable", "pleasant", "comfortable",
		"relaxing", "uncomplicated", "simple", "basic", "mindless fun",
	),
}

var vibeKeywords = map[domain.Vibe]keywordSet{
	domain.Dark: newKeywordSet(
		"murder", "serial killer", "haunted", "dystopian", "violent", "tense", "gritty",
		"revenge", "tragic demise", "chilling", "intense psychological", "gruesome",
		"terrifying", "demonic", "sinister", "macabre", "brutal", "corruption", "betrayal",
		"nightmare", "evil", "disturbing", "noir", "apocalyptic", "terror", "fear",
		"crime", "criminal", "gang", "mafia", "drug", "violence", "death", "kill",
	),
	domain.MindBending: newKeywordSet(
		"mind-bending", "twist", "puzzle", "surreal", "time travel", "alternate reality",
		"memory loss", "hallucinatory", "philosophical", "nothing is what it seems",
		"questions reality", "simulation", "consciousness", "identity", "perception",
		"parallel universe", "non-linear", "complex narrative", "metaphysical",
		"existential", "dream", "dimension", "quantum", "matrix", "inception",
		"multiverse", "reality bending", "psychological thriller",
	),
	domain.Uplifting: newKeywordSet(
		"inspiring", "uplifting", "heartwarming journey", "triumph", "overcomes",
		"finds hope", "against all odds", "redemption", "touching story", "resilience",
		"learns the true value", "saves their community", "perseverance",
		"achievement", "victory", "success", "growth", "healing", "solace", "hero",
		"courage", "brave", "determination", "overcome obstacles",
	),
	domain.FeelGood: newKeywordSet(
		"heartwarming", "hilarious", "feel-good", "quirky comedy", "lighthearted fun",
		"charming", "adventure for the whole family", "delightful", "sweet", "romantic",
		"find love", "family comes together", "wholesome", "comfort", "cozy", "warm",
		"festive", "celebration", "pleasant", "enjoyable", "friendship", "humorous",
		"funny", "comedy", "entertaining", "light", "magical", "whimsical",
	),
	domain.Melancholic: newKeywordSet(
		"tragic", "heartbreaking", "bittersweet", "poignant", "moving drama", "loss",
		"grief", "sacrifice", "emotional journey", "comes at a great cost", "must say goodbye",
		"learns to cope with loss", "love story doomed by fate", "family coping with tragedy",
		"nostalgic", "longing", "separation", "farewell", "memory", "regret", "solitude",
		"contemplative", "introspective", "touching", "tearjerker", "suffering", "sorrow",
	),
}

// Override forces one or both classification fields for a known title.
type Override struct {
	AttentionLevel domain.AttentionLevel `json:"attention_level,omitempty"`
	Vibe           domain.Vibe           `json:"vibe,omitempty"`
}

// builtinOverrides is keyed by normalized title.
var builtinOverrides = map[string]Override{
	"lilo & stitch":            {AttentionLevel: domain.CasualWatch, Vibe: domain.FeelGood},
	"how to train your dragon": {AttentionLevel: domain.CasualWatch, Vibe: domain.FeelGood},
	"beauty and the beast":     {AttentionLevel: domain.CasualWatch, Vibe: domain.FeelGood},
	"the lion king":            {AttentionLevel: domain.Immersive, Vibe: domain.FeelGood},
	"forrest gump":             {Vibe: domain.FeelGood},
	"parasite":                 {AttentionLevel: domain.Immersive, Vibe: domain.Dark},
	"oppenheimer":              {AttentionLevel: domain.Immersive, Vibe: domain.FeelGood},
	"moonlight":                {AttentionLevel: domain.Immersive, Vibe: domain.FeelGood},
}

// GenreName returns the English name of a provider genre code.
func GenreName(id int) (string, bool) {
	n, ok := genreNames[id]
	return n, ok
}

// GenreNames returns a copy of the full genre table.
func GenreNames() map[int]string {
	out := make(map[int]string, len(genreNames))
	for k, v := range genreNames {
		out[k] = v
	}
	return out
}
