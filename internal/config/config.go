package config

import (
	"os"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server ServerConfig
	Logger LoggerConfig
	Gemini GeminiConfig
	Groq   GroqConfig
	Quiz   QuizConfig
}

type ServerConfig struct {
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type LoggerConfig struct {
	Level string
	Env   string
}

// GeminiConfig configures the question-generation provider.
type GeminiConfig struct {
	APIKey      string
	Model       string
	Temperature float64
}

// GroqConfig configures the report provider. BaseURL points at Groq's
// OpenAI-compatible endpoint.
type GroqConfig struct {
	APIKey  string
	BaseURL string
	Model   string
}

// QuizConfig bounds the generation loop.
type QuizConfig struct {
	// AttemptsPerQuestion multiplies the requested question count to form
	// the overall attempt budget.
	AttemptsPerQuestion int
	// MaxQuestions caps num_questions in a single request.
	MaxQuestions int
}

// timeoutValue reads a timeout that may be written either as a bare number
// of seconds (20) or as a duration string with a unit ("20s").
func timeoutValue(key string) time.Duration {
	if n := viper.GetInt(key); n > 0 {
		return time.Duration(n) * time.Second
	}
	return viper.GetDuration(key)
}

func LoadConfig() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	viper.SetDefault("server.port", 8000)
	viper.SetDefault("server.read_timeout", 20)
	viper.SetDefault("server.write_timeout", 20)
	viper.SetDefault("logger.level", "info")
	viper.SetDefault("logger.env", "development")
	viper.SetDefault("gemini.model", "gemini-1.5-flash")
	viper.SetDefault("gemini.temperature", 0.7)
	viper.SetDefault("groq.base_url", "https://api.groq.com/openai/v1")
	viper.SetDefault("groq.model", "mixtral-8x7b-32768")
	viper.SetDefault("quiz.attempts_per_question", 3)
	viper.SetDefault("quiz.max_questions", 20)

	viper.AutomaticEnv()

	// A config file is optional; env vars and defaults are enough to run.
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	config := &Config{
		Server: ServerConfig{
			Port:         viper.GetInt("server.port"),
			ReadTimeout:  timeoutValue("server.read_timeout"),
			WriteTimeout: timeoutValue("server.write_timeout"),
		},
		Logger: LoggerConfig{
			Level: viper.GetString("logger.level"),
			Env:   viper.GetString("logger.env"),
		},
		Gemini: GeminiConfig{
			APIKey:      viper.GetString("gemini.api_key"),
			Model:       viper.GetString("gemini.model"),
			Temperature: viper.GetFloat64("gemini.temperature"),
		},
		Groq: GroqConfig{
			APIKey:  viper.GetString("groq.api_key"),
			BaseURL: viper.GetString("groq.base_url"),
			Model:   viper.GetString("groq.model"),
		},
		Quiz: QuizConfig{
			AttemptsPerQuestion: viper.GetInt("quiz.attempts_per_question"),
			MaxQuestions:        viper.GetInt("quiz.max_questions"),
		},
	}

	// Override with environment variables if set
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		config.Gemini.APIKey = key
	}
	if key := os.Getenv("GROQ_API_KEY"); key != "" {
		config.Groq.APIKey = key
	}
	if env := os.Getenv("ENV"); env != "" {
		config.Logger.Env = env
	}

	return config, nil
}
