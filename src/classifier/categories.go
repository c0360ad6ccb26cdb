package classifier

// Categories is the static taxonomy rendered into every classification
// prompt. Feature lists are descriptive hints for the model, not rules
// evaluated by this code.
var Categories = []Category{
	{
		Name:               "progressive",
		LanguageMarkers:    []string{"systemic", "equity", "marginalized", "lived experience"},
		CoreBeliefs:        []string{"structural reform of institutions", "expansive social safety net", "climate action as priority"},
		CulturalSignifiers: []string{"pronouns in bio", "mutual aid threads", "academic citations"},
		Hashtags:           []string{"#MedicareForAll", "#ClimateJustice", "#BLM"},
	},
	{
		Name:               "conservative",
		LanguageMarkers:    []string{"tradition", "law and order", "family values", "common sense"},
		CoreBeliefs:        []string{"limited federal government", "strong national defense", "free-market solutions"},
		CulturalSignifiers: []string{"flag emoji", "scripture references", "small-business pride"},
		Hashtags:           []string{"#MAGA", "#2A", "#BackTheBlue"},
	},
	{
		Name:               "libertarian",
		LanguageMarkers:    []string{"coercion", "voluntary", "statist", "end the fed"},
		CoreBeliefs:        []string{"minimal state", "individual sovereignty", "sound money"},
		CulturalSignifiers: []string{"Austrian economics references", "crypto maximalism", "homesteading"},
		Hashtags:           []string{"#TaxationIsTheft", "#Bitcoin", "#EndTheFed"},
	},
	{
		Name:               "socialist",
		LanguageMarkers:    []string{"means of production", "class struggle", "solidarity", "late capitalism"},
		CoreBeliefs:        []string{"worker ownership", "decommodified housing and healthcare", "union power"},
		CulturalSignifiers: []string{"rose emoji", "theory reading groups", "strike support"},
		Hashtags:           []string{"#GeneralStrike", "#EatTheRich", "#DSA"},
	},
	{
		Name:               "nationalist",
		LanguageMarkers:    []string{"sovereignty", "globalist", "heritage", "borders"},
		CoreBeliefs:        []string{"national identity first", "protectionist trade", "immigration restriction"},
		CulturalSignifiers: []string{"historical iconography", "anti-EU/anti-UN framing"},
		Hashtags:           []string{"#AmericaFirst", "#Sovereignty"},
	},
	{
		Name:               "centrist",
		LanguageMarkers:    []string{"both sides", "nuance", "pragmatic", "evidence-based"},
		CoreBeliefs:        []string{"incremental reform", "institutional trust", "compromise as virtue"},
		CulturalSignifiers: []string{"polling screenshots", "wonk threads", "civility discourse"},
		Hashtags:           []string{"#Bipartisan", "#VoteBlueAndRed"},
	},
	{
		Name:               "populist",
		LanguageMarkers:    []string{"elites", "rigged", "the people", "establishment"},
		CoreBeliefs:        []string{"anti-elite redistribution of power", "distrust of media and institutions"},
		CulturalSignifiers: []string{"outsider framing", "conspiracy-adjacent sourcing"},
		Hashtags:           []string{"#DrainTheSwamp", "#WakeUp"},
	},
	{
		Name:               "apolitical",
		LanguageMarkers:    []string{"no politics", "touch grass", "just vibes"},
		CoreBeliefs:        []string{"politics avoided or treated as entertainment"},
		CulturalSignifiers: []string{"hobby content", "memes without ideological edge"},
		Hashtags:           []string{},
	},
}

// CategoryNames returns the taxonomy names in declaration order.
func CategoryNames() []string {
	names := make([]string, len(Categories))
	for i, c := range Categories {
		names[i] = c.Name
	}
	return names
}
