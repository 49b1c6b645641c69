package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config 應用配置
type Config struct {
	App         AppConfig         `mapstructure:"app"`
	Server      ServerConfig      `mapstructure:"server"`
	Supabase    SupabaseConfig    `mapstructure:"supabase"`
	OpenRouter  OpenRouterConfig  `mapstructure:"openrouter"`
	Matching    MatchingConfig    `mapstructure:"matching"`
	Session     SessionConfig     `mapstructure:"session"`
	Intent      IntentConfig      `mapstructure:"intent"`
	Recognition RecognitionConfig `mapstructure:"recognition"`
	Cache       CacheConfig       `mapstructure:"cache"`
	RateLimit   RateLimitConfig   `mapstructure:"rate_limit"`
	Image       ImageConfig       `mapstructure:"image"`
	LogLevel    string            `mapstructure:"log_level"`
}

// AppConfig 應用程式設定
type AppConfig struct {
	Env      string `mapstructure:"env"`
	Debug    bool   `mapstructure:"debug"`
	LogLevel string `mapstructure:"log_level"`
	Version  string `mapstructure:"version"`
	Name     string `mapstructure:"name"`
}

// ServerConfig 服務器配置
type ServerConfig struct {
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
}

// SupabaseConfig 遠端資料庫配置
type SupabaseConfig struct {
	URL     string        `mapstructure:"url"`
	Key     string        `mapstructure:"key"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// OpenRouterConfig OpenRouter 配置
type OpenRouterConfig struct {
	APIKey      string        `mapstructure:"api_key"`
	Model       string        `mapstructure:"model"`        // 對話用模型（廚師）
	VisionModel string        `mapstructure:"vision_model"` // 視覺用模型（收據辨識）
	MaxTokens   int           `mapstructure:"max_tokens"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

// MatchingConfig 名稱比對設定。
// 閾值與時間窗沿用掃描引擎的調校結果：一般 0.80，
// 近期重掃 0.55，烹飪扣除固定 0.70。
type MatchingConfig struct {
	HighThreshold    float64       `mapstructure:"high_threshold"`
	LowThreshold     float64       `mapstructure:"low_threshold"`
	ConsumeThreshold float64       `mapstructure:"consume_threshold"`
	RecencyWindow    time.Duration `mapstructure:"recency_window"`
}

// SessionConfig 食譜對話 Session 設定
type SessionConfig struct {
	MaxRevisions  int           `mapstructure:"max_revisions"`
	TTL           time.Duration `mapstructure:"ttl"`
	RedisEnabled  bool          `mapstructure:"redis_enabled"`
	RedisAddr     string        `mapstructure:"redis_addr"`
	RedisPassword string        `mapstructure:"redis_password"`
}

// IntentConfig 意圖分類關鍵詞。做成設定資料而不是寫死在程式裡，
// 方便測試與在地化（不同語言換一組關鍵詞即可）。
type IntentConfig struct {
	CancelExact    []string `mapstructure:"cancel_exact"`
	CancelPhrases  []string `mapstructure:"cancel_phrases"`
	AffirmKeywords []string `mapstructure:"affirm_keywords"`
	ChangeKeywords []string `mapstructure:"change_keywords"`
}

// RecognitionConfig 收據辨識重試設定
type RecognitionConfig struct {
	MaxRetries     int           `mapstructure:"max_retries"`
	InitialBackoff time.Duration `mapstructure:"initial_backoff"`
}

// CacheConfig 緩存配置
type CacheConfig struct {
	Enabled         bool          `mapstructure:"enabled"`
	MaxSize         int           `mapstructure:"max_size"`
	TTL             time.Duration `mapstructure:"ttl"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
}

// RateLimitConfig 速率限制配置
type RateLimitConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Requests int           `mapstructure:"requests"`
	Window   time.Duration `mapstructure:"window"`
}

// ImageConfig 圖片配置
type ImageConfig struct {
	MaxSizeBytes int64 `mapstructure:"max_size_bytes"`
}

// LoadConfig 載入設定
func LoadConfig() (*Config, error) {
	// 加載 .env 文件（不存在時不視為錯誤，由環境變數提供）
	_ = godotenv.Load()

	// 設定預設值
	setDefaults()

	// 設定環境變數前綴
	viper.SetEnvPrefix("APP")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// 綁定環境變量
	viper.BindEnv("supabase.url", "SUPABASE_URL")
	viper.BindEnv("supabase.key", "SUPABASE_KEY")
	viper.BindEnv("openrouter.api_key", "OPENROUTER_API_KEY")
	viper.BindEnv("openrouter.model", "OPENROUTER_MODEL")
	viper.BindEnv("openrouter.vision_model", "OPENROUTER_VISION_MODEL")
	viper.BindEnv("openrouter.max_tokens", "MODEL_MAX_TOKENS")
	viper.BindEnv("session.redis_enabled", "SESSION_REDIS_ENABLED")
	viper.BindEnv("session.redis_addr", "SESSION_REDIS_ADDR")
	viper.BindEnv("session.redis_password", "SESSION_REDIS_PASSWORD")
	viper.BindEnv("cache.enabled", "CACHE_ENABLED")
	viper.BindEnv("rate_limit.enabled", "RATE_LIMIT_ENABLED")
	viper.BindEnv("rate_limit.requests", "RATE_LIMIT_REQUESTS")
	viper.BindEnv("rate_limit.window", "RATE_LIMIT_WINDOW")
	viper.BindEnv("log_level", "LOG_LEVEL")

	// 設定設定檔名稱和路徑
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")

	// 讀取設定檔
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// 添加調試日誌（logger 尚未初始化，改用 fmt.Println）
	fmt.Println("Loading configuration",
		"supabase_url:", viper.GetString("supabase.url"),
		"openrouter_api_key:", maskAPIKey(viper.GetString("openrouter.api_key")),
		"openrouter_model:", viper.GetString("openrouter.model"))

	// 解析設定
	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// 驗證必要設定
	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}

// maskAPIKey 遮罩 API Key，只顯示前後各 4 個字符
func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}

// setDefaults 設定預設值
func setDefaults() {
	// 應用程式設定
	viper.SetDefault("app.env", "development")
	viper.SetDefault("app.debug", true)
	viper.SetDefault("app.log_level", "info")
	viper.SetDefault("app.version", "1.0.0")
	viper.SetDefault("app.name", "smart-fridge")

	// 伺服器設定
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.read_timeout", "30s")
	viper.SetDefault("server.write_timeout", "30s")
	viper.SetDefault("server.idle_timeout", "120s")

	// 遠端資料庫設定
	viper.SetDefault("supabase.timeout", "15s")

	// OpenRouter 設定
	viper.SetDefault("openrouter.model", "google/gemini-2.5-flash")
	viper.SetDefault("openrouter.vision_model", "google/gemini-2.5-flash")
	viper.SetDefault("openrouter.max_tokens", 2048)
	viper.SetDefault("openrouter.timeout", "60s")

	// 名稱比對設定
	viper.SetDefault("matching.high_threshold", 0.80)
	viper.SetDefault("matching.low_threshold", 0.55)
	viper.SetDefault("matching.consume_threshold", 0.70)
	viper.SetDefault("matching.recency_window", "15m")

	// Session 設定
	viper.SetDefault("session.max_revisions", 5)
	viper.SetDefault("session.ttl", "2h")
	viper.SetDefault("session.redis_enabled", false)
	viper.SetDefault("session.redis_addr", "localhost:6379")

	// 意圖分類關鍵詞（希伯來語 + 英語預設值）
	viper.SetDefault("intent.cancel_exact", []string{
		"לא", "no", "n", "0", "ביי", "bye",
	})
	viper.SetDefault("intent.cancel_phrases", []string{
		"לא צריך", "לא תודה", "לא, תודה", "תודה רבה",
		"ביי", "bye", "cancel", "exit", "quit",
	})
	viper.SetDefault("intent.affirm_keywords", []string{
		"כן", "יאללה", "סבבה", "אני מכין", "מעולה", "מצוין",
		"אחלה", "בסדר", "הולך", "קדימה", "נעשה", "יאה", "טוב",
		"תודה", "ok", "sure", "yes", "y",
	})
	viper.SetDefault("intent.change_keywords", []string{
		"לא", "אבל", "לשנות", "בלי", "שנה", "פחות",
		"יותר", "במקום", "אחרת", "רק",
	})

	// 收據辨識重試設定
	viper.SetDefault("recognition.max_retries", 3)
	viper.SetDefault("recognition.initial_backoff", "1s")

	// 快取設定
	viper.SetDefault("cache.enabled", true)
	viper.SetDefault("cache.max_size", 1000)
	viper.SetDefault("cache.ttl", "24h")
	viper.SetDefault("cache.cleanup_interval", "10m")

	// 限流設定
	viper.SetDefault("rate_limit.enabled", true)
	viper.SetDefault("rate_limit.requests", 100)
	viper.SetDefault("rate_limit.window", "1m")

	// 圖片設定
	viper.SetDefault("image.max_size_bytes", 10*1024*1024) // 10MB
}

// validateConfig 驗證設定
func validateConfig(config *Config) error {
	// 驗證伺服器設定
	if config.Server.Port == 0 {
		return fmt.Errorf("server port is required")
	}

	// 驗證比對閾值
	if config.Matching.HighThreshold <= 0 || config.Matching.HighThreshold > 1 {
		return fmt.Errorf("invalid matching high threshold")
	}
	if config.Matching.LowThreshold <= 0 || config.Matching.LowThreshold > config.Matching.HighThreshold {
		return fmt.Errorf("invalid matching low threshold")
	}
	if config.Matching.ConsumeThreshold <= 0 || config.Matching.ConsumeThreshold > 1 {
		return fmt.Errorf("invalid matching consume threshold")
	}
	if config.Matching.RecencyWindow <= 0 {
		return fmt.Errorf("invalid matching recency window")
	}

	// 驗證 Session 設定
	if config.Session.MaxRevisions <= 0 {
		return fmt.Errorf("invalid session max revisions")
	}
	if config.Session.RedisEnabled && config.Session.RedisAddr == "" {
		return fmt.Errorf("session redis addr is required when redis is enabled")
	}

	// 驗證快取設定
	if config.Cache.Enabled {
		if config.Cache.MaxSize <= 0 {
			return fmt.Errorf("invalid cache max size")
		}
		if config.Cache.TTL <= 0 {
			return fmt.Errorf("invalid cache ttl")
		}
		if config.Cache.CleanupInterval <= 0 {
			return fmt.Errorf("invalid cache cleanup interval")
		}
	}

	// 驗證辨識重試設定
	if config.Recognition.MaxRetries <= 0 {
		return fmt.Errorf("invalid recognition max retries")
	}
	if config.Recognition.InitialBackoff <= 0 {
		return fmt.Errorf("invalid recognition initial backoff")
	}

	return nil
}
