package generator

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"unicode"

	"github.com/rs/zerolog/log"
)

// ReadItems reads the input file and returns one trimmed item per
// non-blank line, preserving input order. A failure to open or read the
// file is reported to the caller, which may continue with zero items.
// When titleCase is set each item's first letter is capitalized.
func ReadItems(path string, titleCase bool) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open input file: %w", err)
	}
	defer file.Close()

	var items []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			log.Debug().Msg("skipped empty line")
			continue
		}
		if titleCase {
			line = capitalize(line)
		}
		log.Debug().Str("item", line).Msg("read word/phrase")
		items = append(items, line)
	}
	if err := scanner.Err(); err != nil {
		return items, fmt.Errorf("read input file: %w", err)
	}
	return items, nil
}

func capitalize(s string) string {
	runes := []rune(s)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
