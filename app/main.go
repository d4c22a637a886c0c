package main

import (
	"context"
	"os"

	"github.com/rbhz/ankigen/app/clients/openai"
	"github.com/rbhz/ankigen/app/db"
	"github.com/rbhz/ankigen/app/deck"
	"github.com/rbhz/ankigen/app/generator"

	"github.com/jessevdk/go-flags"
	"github.com/rs/zerolog"
	log "github.com/rs/zerolog/log"
	bolt "go.etcd.io/bbolt"
)

const (
	configFile        = "config.ini"
	placeholderAPIKey = "openai_api_key"
)

type OpenAIOpts struct {
	APIKey string `long:"api_key" env:"OPENAI_API_KEY" default:"openai_api_key" description:"OpenAI API key"`
	Model  string `long:"model" env:"OPENAI_MODEL" default:"gpt-3.5-turbo-instruct" description:"Model identifier"`
}

type SettingsOpts struct {
	SourceLanguage string `long:"source_language" env:"SOURCE_LANGUAGE" default:"Spanish" description:"Source language"`
	TargetLanguage string `long:"target_language" env:"TARGET_LANGUAGE" default:"English" description:"Target language"`
	Proficiency    string `long:"proficiency" env:"PROFICIENCY" default:"beginner" description:"Learner proficiency level (combined mode)"`
	Mode           string `long:"mode" env:"MODE" default:"split" choice:"split" choice:"combined" description:"Generation mode"`
}

type Opts struct {
	OpenAI   OpenAIOpts   `group:"openai"`
	Settings SettingsOpts `group:"settings"`
	Cache    string       `long:"cache" env:"CACHE" description:"Path to BoltDB card cache"`
	RedisURL string       `long:"redis" env:"REDIS_URL" description:"Redis card cache URL"`
	Verbose  bool         `short:"v" long:"verbose" description:"Increase output verbosity"`
	Args     struct {
		InputFile  string `positional-arg-name:"input_file" description:"Path to the input text file"`
		DeckName   string `positional-arg-name:"deck_name" description:"Name of the deck to generate"`
		OutputFile string `positional-arg-name:"output_file" description:"Path to the output .apkg file"`
	} `positional-args:"yes" required:"yes"`
}

func main() {
	var opts Opts
	parser := flags.NewParser(&opts, flags.Default)
	ini := flags.NewIniParser(parser)
	if err := ini.ParseFile(configFile); err != nil && !os.IsNotExist(err) {
		log.Fatal().Err(err).Str("path", configFile).Msg("failed to read config file")
	}
	if _, err := parser.Parse(); err != nil {
		return
	}

	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if opts.Verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	if opts.OpenAI.APIKey == placeholderAPIKey {
		log.Error().Msg("default API key found, please provide a valid OpenAI API key")
		os.Exit(1)
	}

	storage, closeStorage := getStorage(opts)
	defer closeStorage()

	cfg := generator.Config{
		SourceLanguage: opts.Settings.SourceLanguage,
		TargetLanguage: opts.Settings.TargetLanguage,
		Proficiency:    opts.Settings.Proficiency,
	}
	client := openai.NewClient(context.Background(), opts.OpenAI.APIKey, opts.OpenAI.Model)
	var strategy generator.Strategy
	switch opts.Settings.Mode {
	case "combined":
		strategy = generator.NewCombinedStrategy(client, cfg)
	default:
		strategy = generator.NewSplitStrategy(client, cfg)
	}

	items, err := generator.ReadItems(opts.Args.InputFile, strategy.TitleCaseItems())
	if err != nil {
		// not fatal: an empty deck is still written
		log.Error().Err(err).Str("path", opts.Args.InputFile).Msg("failed to read input file")
	}

	cards, err := generator.New(strategy, storage, cfg).Run(items)
	if err != nil {
		log.Fatal().Err(err).Msg("card generation failed")
	}

	d := deck.NewDeck(opts.Args.DeckName, cfg.SourceLanguage, cfg.TargetLanguage)
	for _, card := range cards {
		d.Add(card)
	}
	if err := d.WriteAPKG(opts.Args.OutputFile); err != nil {
		log.Fatal().Err(err).Str("path", opts.Args.OutputFile).Msg("failed to write deck")
	}
	log.Info().
		Str("deck", opts.Args.DeckName).
		Int("cards", len(cards)).
		Str("path", opts.Args.OutputFile).
		Msg("deck successfully created")
}

func getStorage(opts Opts) (db.Storage, func()) {
	switch {
	case opts.RedisURL != "":
		redisStorage, err := db.NewRedisStorage(opts.RedisURL)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to create redis client")
		}
		return redisStorage, func() {}
	case opts.Cache != "":
		boltDB, err := bolt.Open(opts.Cache, 0600, nil)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to open boltDB cache")
		}
		boltStorage, err := db.NewBoltStorage(boltDB)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to create bolt storage")
		}
		return boltStorage, func() {
			if err := boltDB.Close(); err != nil {
				log.Error().Err(err).Msg("failed to close boltDB cache")
			}
		}
	default:
		return nil, func() {}
	}
}
