package generator

import (
	"strings"

	"github.com/rbhz/ankigen/app/db"
	"github.com/rbhz/ankigen/app/deck"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

const (
	translationMaxTokens = 10
	exampleMaxTokens     = 50
	combinedMaxTokens    = 60
)

// ModelClient is the surface of the model API the pipeline consumes
type ModelClient interface {
	Complete(prompt string, maxTokens int) (string, error)
	ChatComplete(system, user string, maxTokens int, temperature float64) (string, error)
}

// Config holds the per-run settings shared by the strategies
type Config struct {
	SourceLanguage string
	TargetLanguage string
	Proficiency    string
}

// Strategy produces one card per item. Per-item failures degrade to
// sentinel text; only transport and auth errors are returned.
type Strategy interface {
	Generate(item string) (deck.Card, error)
	// TitleCaseItems reports whether input items get their first letter capitalized
	TitleCaseItems() bool
	// Name identifies the strategy in cache keys
	Name() string
}

// SplitStrategy makes two completion calls per item: one for the word
// translation and one for an example sentence with the translation in
// parentheses
type SplitStrategy struct {
	client ModelClient
	cfg    Config
	retry  retrier
}

// NewSplitStrategy creates SplitStrategy with the default retry policy
func NewSplitStrategy(client ModelClient, cfg Config) SplitStrategy {
	return SplitStrategy{client: client, cfg: cfg, retry: newRetrier()}
}

func (s SplitStrategy) Name() string { return "split" }

func (s SplitStrategy) TitleCaseItems() bool { return false }

func (s SplitStrategy) Generate(item string) (deck.Card, error) {
	translation, err := s.retry.do(func() (string, error) {
		return s.client.Complete(
			translationPrompt(item, s.cfg.SourceLanguage, s.cfg.TargetLanguage),
			translationMaxTokens,
		)
	}, nil)
	if err != nil {
		if !errors.Is(err, errBudgetExhausted) {
			return deck.Card{}, errors.Wrapf(err, "translate %q", item)
		}
		log.Warn().Str("item", item).Msg("skipping translation")
		translation = sentinelTranslation
	}

	example, err := s.retry.do(func() (string, error) {
		return s.client.Complete(
			examplePrompt(item, s.cfg.SourceLanguage, s.cfg.TargetLanguage),
			exampleMaxTokens,
		)
	}, ValidSingle)
	if err != nil {
		if !errors.Is(err, errBudgetExhausted) {
			return deck.Card{}, errors.Wrapf(err, "example sentence for %q", item)
		}
		log.Warn().Str("item", item).Msg("skipping example sentence")
		example = sentinelExample
	}

	targetExample, ok := ExtractGroup(example)
	if !ok {
		targetExample = sentinelNoTranslation
	}
	return deck.Card{
		SourceWord:    item,
		TargetWord:    translation,
		SourceExample: SourcePart(example),
		TargetExample: targetExample,
	}, nil
}

// CombinedStrategy makes a single chat call per item requesting
// sentence, translated sentence and translated word in one line
type CombinedStrategy struct {
	client ModelClient
	cfg    Config
	retry  retrier
}

// NewCombinedStrategy creates CombinedStrategy with the default retry policy
func NewCombinedStrategy(client ModelClient, cfg Config) CombinedStrategy {
	return CombinedStrategy{client: client, cfg: cfg, retry: newRetrier()}
}

func (s CombinedStrategy) Name() string { return "combined" }

func (s CombinedStrategy) TitleCaseItems() bool { return true }

func (s CombinedStrategy) Generate(item string) (deck.Card, error) {
	response, err := s.retry.do(func() (string, error) {
		return s.client.ChatComplete(
			combinedSystemPrompt,
			combinedPrompt(item, s.cfg.SourceLanguage, s.cfg.TargetLanguage, s.cfg.Proficiency),
			combinedMaxTokens,
			0.0,
		)
	}, ValidDual)
	if err != nil {
		if !errors.Is(err, errBudgetExhausted) {
			return deck.Card{}, errors.Wrapf(err, "generate card for %q", item)
		}
		log.Warn().Str("item", item).Msg("skipping item")
		return deck.Card{
			SourceWord:    item,
			TargetWord:    sentinelTranslation,
			SourceExample: sentinelExample,
			TargetExample: sentinelExample,
		}, nil
	}

	sourceSentence, targetSentence, targetWord := ParseDual(response)
	if targetWord != sentinelParse {
		targetWord = NormalizeArticle(targetWord, s.cfg.TargetLanguage)
	}
	return deck.Card{
		SourceWord:    item,
		TargetWord:    targetWord,
		SourceExample: sourceSentence,
		TargetExample: targetSentence,
	}, nil
}

// Generator runs the pipeline sequentially: items are processed one at
// a time in input order, each retry sleep blocking the whole run
type Generator struct {
	strategy Strategy
	storage  db.Storage // optional card cache, may be nil
	cfg      Config
}

// New creates a Generator; storage may be nil to disable caching
func New(strategy Strategy, storage db.Storage, cfg Config) Generator {
	return Generator{strategy: strategy, storage: storage, cfg: cfg}
}

// Run produces one card per item. Per-item failures are absorbed as
// sentinel text; transport and auth errors abort the run.
func (g Generator) Run(items []string) ([]deck.Card, error) {
	cards := make([]deck.Card, 0, len(items))
	for _, item := range items {
		log.Debug().Str("item", item).Msg("processing item")
		if g.storage != nil {
			card, err := g.storage.Get(g.cacheKey(item))
			if err == nil {
				log.Debug().Str("item", item).Msg("card cache hit")
				cards = append(cards, card)
				continue
			}
			if !errors.Is(err, db.ErrNotFound) {
				log.Error().Err(err).Str("item", item).Msg("failed to read card cache")
			}
		}
		card, err := g.strategy.Generate(item)
		if err != nil {
			return cards, err
		}
		if g.storage != nil && cacheable(card) {
			if err := g.storage.Save(g.cacheKey(item), card); err != nil {
				log.Error().Err(err).Str("item", item).Msg("failed to save card to cache")
			}
		}
		cards = append(cards, card)
	}
	return cards, nil
}

func (g Generator) cacheKey(item string) string {
	return strings.Join(
		[]string{g.strategy.Name(), g.cfg.SourceLanguage, g.cfg.TargetLanguage, g.cfg.Proficiency, item},
		":",
	)
}

// cacheable reports whether the card is free of sentinel values
func cacheable(card deck.Card) bool {
	for _, field := range card.Fields() {
		switch field {
		case sentinelParse, sentinelNoTranslation, sentinelTranslation, sentinelExample:
			return false
		}
	}
	return true
}
