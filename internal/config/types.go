package config

// AppConfig holds runtime startup configuration loaded from YAML.
type AppConfig struct {
	Port           int           `yaml:"port"`
	Env            string        `yaml:"env"` // "development" | "production"
	DSN            string        `yaml:"dsn"` // MySQL DSN
	RedisURL       string        `yaml:"redis_url"`
	JWTSecret      string        `yaml:"jwt_secret"`
	AllowedOrigins []string      `yaml:"allowed_origins"`
	AI             AIConfig      `yaml:"ai"`
	Search         SearchOptions `yaml:"search"`
	S3             S3Options     `yaml:"s3"`
	OCR            OCROptions    `yaml:"ocr"`
}

// AIConfig selects the language-model providers used for extraction and
// translation.
type AIConfig struct {
	Providers        []AIProvider       `yaml:"providers"`
	ExtractionModel  *AIModelAssignment `yaml:"extraction_model,omitempty"`
	TranslationModel *AIModelAssignment `yaml:"translation_model,omitempty"`
}

type AIModelAssignment struct {
	ProviderID string `yaml:"provider_id"`
	Model      string `yaml:"model"`
}

type AIProvider struct {
	ID           string `yaml:"id"`
	Name         string `yaml:"name"`
	Type         string `yaml:"type"` // OpenAI | OpenAI-Compatible | Anthropic
	APIKey       string `yaml:"api_key"`
	Endpoint     string `yaml:"endpoint,omitempty"`
	DefaultModel string `yaml:"default_model"`
	Enabled      bool   `yaml:"enabled"`
}

// SearchOptions configures the Google Custom Search image index.
type SearchOptions struct {
	APIKey         string `yaml:"api_key"`
	EngineID       string `yaml:"engine_id"`
	Endpoint       string `yaml:"endpoint"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
	CacheTTLHours  int    `yaml:"cache_ttl_hours"`
}

// S3Options configures object storage for archived menu photos.
type S3Options struct {
	Enable          bool   `yaml:"enable"`
	Endpoint        string `yaml:"endpoint"`
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
	Bucket          string `yaml:"bucket"`
	Region          string `yaml:"region"`
	CustomDomain    string `yaml:"custom_domain"`
	PathStyleAccess bool   `yaml:"path_style_access"`
}

// OCROptions configures the local Tesseract recognizer.
type OCROptions struct {
	Languages string `yaml:"languages"` // e.g. "eng" or "eng+deu"
	Workers   int    `yaml:"workers"`   // concurrent recognition slots
}
