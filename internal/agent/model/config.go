package model

// ================ Config ================
type AnswerModelConfig struct {
	APIKey      string  `envconfig:"GEMINI_API_KEY" required:"true"`
	Model       string  `envconfig:"GEMINI_MODEL" default:"gemini-2.5-flash"`
	MaxTokens   int     `envconfig:"ANSWER_MAX_TOKENS" default:"2000"`
	Temperature float32 `envconfig:"ANSWER_TEMPERATURE" default:"0.4"`
}

type PeopleConfig struct {
	DefaultLocale      string  `envconfig:"DEFAULT_LOCALE" default:"tr-TR"`
	PhoneCountryCode   string  `envconfig:"PHONE_COUNTRY_CODE" default:"90"`
	PhoneTrunkPrefix   string  `envconfig:"PHONE_TRUNK_PREFIX" default:"0"`
	NameMatchThreshold float64 `envconfig:"NAME_MATCH_THRESHOLD" default:"0.85"`
}

type ConversationConfig struct {
	TTL      string `envconfig:"CONVERSATION_TTL" default:"15m"`
	MaxTurns int    `envconfig:"CONVERSATION_MAX_TURNS" default:"5"`
}
