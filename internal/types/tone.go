package types

// ToneStyleSheet is a named style profile
type ToneStyleSheet struct {
	ID             string         `json:"id" yaml:"id" validate:"required"`
	Name           string         `json:"name" yaml:"name" validate:"required"`
	Sliders        ToneSliders    `json:"sliders" yaml:"sliders"`
	SentenceRules  SentenceRules  `json:"sentence_rules" yaml:"sentence_rules"`
	ParagraphRules ParagraphRules `json:"paragraph_rules" yaml:"paragraph_rules"`
	Rhythm         Rhythm         `json:"rhythm" yaml:"rhythm"`
	MicroStyle     MicroStyle     `json:"micro_style" yaml:"micro_style"`
	Stance         Stance         `json:"stance" yaml:"stance"`
	Lexicon        Lexicon        `json:"lexicon" yaml:"lexicon"`
}

// ToneSliders are continuous style dimensions in [0,1]
type ToneSliders struct {
	Formality float64 `json:"formality" yaml:"formality" validate:"gte=0,lte=1"`
	Authority float64 `json:"authority" yaml:"authority" validate:"gte=0,lte=1"`
}

// SentenceRules bound sentence length and complexity
type SentenceRules struct {
	AvgWords   int `json:"avg_words" yaml:"avg_words" validate:"gte=1"`
	MaxWords   int `json:"max_words" yaml:"max_words" validate:"gte=1"`
	MaxClauses int `json:"max_clauses" yaml:"max_clauses" validate:"gte=1"`
}

// ParagraphRules bound paragraph shape
type ParagraphRules struct {
	MaxSentences   int    `json:"max_sentences" yaml:"max_sentences" validate:"gte=1"`
	PreferLists    string `json:"prefer_lists" yaml:"prefer_lists"`
	PreferHeadings string `json:"prefer_headings" yaml:"prefer_headings"`
}

// Rhythm holds punctuation frequencies per 100 sentences
type Rhythm struct {
	QuestionsPer100    int `json:"questions_per_100" yaml:"questions_per_100" validate:"gte=0"`
	ExclamationsPer100 int `json:"exclamations_per_100" yaml:"exclamations_per_100" validate:"gte=0"`
}

// MicroStyle holds small-scale usage preferences
type MicroStyle struct {
	Contractions string `json:"contractions" yaml:"contractions"`
	Emojis       string `json:"emojis" yaml:"emojis"`
	Numbers      string `json:"numbers" yaml:"numbers"`
	PassiveVoice string `json:"passive_voice" yaml:"passive_voice"`
}

// Stance holds epistemic posture
type Stance struct {
	Hedging             string `json:"hedging" yaml:"hedging"`
	EvidenceRequirement string `json:"evidence_requirement" yaml:"evidence_requirement"`
	Claims              string `json:"claims" yaml:"claims"`
}

// Lexicon holds preferred and banned vocabulary
type Lexicon struct {
	PreferredVerbs   []string `json:"preferred_verbs" yaml:"preferred_verbs"`
	PreferredPhrases []string `json:"preferred_phrases" yaml:"preferred_phrases"`
	BannedWords      []string `json:"banned_words" yaml:"banned_words"`
	BannedPhrases    []string `json:"banned_phrases" yaml:"banned_phrases"`
}

// MixedStyleSpec is the merged constraint set produced by mixing tone sheets
type MixedStyleSpec struct {
	Sliders          ToneSliders      `json:"sliders"`
	Constraints      StyleConstraints `json:"constraints"`
	Structure        StylePreferences `json:"structure"`
	BannedLexicon    []string         `json:"banned_lexicon"`
	PreferredLexicon []string         `json:"preferred_lexicon"`
	Instructions     []string         `json:"instructions"`
}

// StyleConstraints holds the resolved numeric and enum constraints
type StyleConstraints struct {
	MinAvgWordsPerSentence int      `json:"min_avg_words_per_sentence"`
	MaxWordsPerSentence    int      `json:"max_words_per_sentence"`
	MaxClausesPerSentence  int      `json:"max_clauses_per_sentence"`
	MaxSentencesPara       int      `json:"max_sentences_para"`
	QuestionsPer100        int      `json:"questions_per_100"`
	ExclamationsPer100     int      `json:"exclamations_per_100"`
	PunctuationBans        []string `json:"punctuation_bans"`
	AllowContractions      string   `json:"allow_contractions"`
	AllowEmojis            string   `json:"allow_emojis"`
	AllowNumbers           string   `json:"allow_numbers"`
	AllowPassive           string   `json:"allow_passive"`
	Hedging                string   `json:"hedging"`
	Evidence               string   `json:"evidence"`
	Claims                 string   `json:"claims"`
}

// StylePreferences holds resolved structural preferences
type StylePreferences struct {
	Lists          string `json:"lists"`
	Headings       string `json:"headings"`
	PreferLists    bool   `json:"prefer_lists"`
	PreferHeadings bool   `json:"prefer_headings"`
}
