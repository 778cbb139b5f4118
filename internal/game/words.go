package game

import (
	"bufio"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/NaEunMin/NetworkProgrammingProject/internal/shared/logger"
)

// Tokens longer than this collide too often with overlapping inputs and are
// dropped when filling boards and pools.
const maxTokenLen = 8

var fallbackWords = []string{
	"감자", "사과", "포도", "수박", "코코",
	"호랑이", "곰돌", "여우", "늑대", "토끼",
}

var fallbackSentences = []string{
	"바람이 불어오는 곳 그곳으로 가네",
	"넓은 벌판을 달리는 기차는 힘차다",
	"저 바다 끝에는 무엇이 있을까",
	"겨울이 지나면 따뜻한 봄이 온다",
	"높은 산 위에서 소리치면 메아리가 돌아온다",
}

func loadLines(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var lines []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			lines = append(lines, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}

// LoadWordsOrFallback reads one word per line, filtered to playable tokens.
// A missing or empty file falls back to the built-in list.
func LoadWordsOrFallback(path string) []string {
	lines, err := loadLines(path)
	if err != nil {
		logger.Warningf("could not read %s, using built-in words: %v", path, err)
		return fallbackWords
	}
	words := filterTokens(lines)
	if len(words) == 0 {
		logger.Warningf("no usable words in %s, using built-in words", path)
		return fallbackWords
	}
	logger.Infof("loaded %d words from %s", len(words), path)
	return words
}

// LoadSentencesOrFallback reads one bonus sentence per line.
func LoadSentencesOrFallback(path string) []string {
	lines, err := loadLines(path)
	if err != nil || len(lines) == 0 {
		logger.Warningf("could not read %s, using built-in sentences", path)
		return fallbackSentences
	}
	logger.Infof("loaded %d sentences from %s", len(lines), path)
	return lines
}

func filterTokens(words []string) []string {
	var out []string
	for _, w := range words {
		w = strings.TrimSpace(w)
		if w == "" || utf8.RuneCountInString(w) > maxTokenLen {
			continue
		}
		out = append(out, w)
	}
	return out
}
