package configs

import (
	"os"
	"strconv"
)

type Config struct {
	Port           string
	GinMode        string
	AllowedOrigins string
	WordsFile      string
	SentencesFile  string
	BoardRows      int
	BoardCols      int
}

// Load reads the process environment. Call after godotenv has had a chance
// to populate it.
func Load() Config {
	return Config{
		Port:           getenv("PORT", "12345"),
		GinMode:        getenv("GIN_MODE", "debug"),
		AllowedOrigins: os.Getenv("ALLOWED_ORIGINS"),
		WordsFile:      getenv("WORDS_FILE", "./words.txt"),
		SentencesFile:  getenv("SENTENCES_FILE", "./sentences.txt"),
		BoardRows:      getenvInt("BOARD_ROWS", 8),
		BoardCols:      getenvInt("BOARD_COLS", 12),
	}
}

func getenv(key, fallback string) string {
	if v, exists := os.LookupEnv(key); exists && v != "" {
		return v
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	v, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}
