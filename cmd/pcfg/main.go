package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"

	"github.com/google/uuid"
	"github.com/ling0322/pcfg"
	"github.com/ling0322/pcfg/batch"
	"github.com/ling0322/pcfg/config"
	"github.com/ling0322/pcfg/oov"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
)

// commonFlags are accepted by every command, after the command name
func commonFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "YAML configuration `FILE`",
		},
		&cli.StringFlag{
			Name:  "model",
			Usage: "model `FILE` written by train and read by parse",
		},
		&cli.BoolFlag{
			Name:  "debug",
			Usage: "log grammar conversion steps and CYK charts",
		},
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "pcfg",
		Usage: "learn a PCFG from a bracketed treebank and parse sentences with it",
		Commands: []*cli.Command{
			{
				Name:      "train",
				Usage:     "learn the grammar and the lexicon from treebank lines",
				ArgsUsage: "[treebank files...]",
				Flags: append(commonFlags(),
					&cli.BoolFlag{
						Name:  "skip-malformed",
						Usage: "skip lines that can not be reduced instead of failing",
					},
				),
				Action: train,
			},
			{
				Name:      "parse",
				Usage:     "parse one space separated sentence per line",
				ArgsUsage: "[sentence files...]",
				Flags: append(commonFlags(),
					&cli.StringFlag{
						Name:     "out",
						Aliases:  []string{"o"},
						Usage:    "output `FILE`, one tree per input line",
						Required: true,
					},
					&cli.IntFlag{
						Name:    "workers",
						Aliases: []string{"j"},
						Usage:   "number of parallel workers, 0 for one per CPU",
					},
					&cli.StringFlag{
						Name:  "embeddings",
						Usage: "word vectors `FILE` in word2vec text format",
					},
				),
				Action: parse,
			},
		},
	}
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// loadConfig reads the configuration file then applies the flags set on the
// command line
func loadConfig(c *cli.Context) (*config.Config, error) {
	conf := config.Default()
	if path := c.String("config"); path != "" {
		var err error
		if conf, err = config.Load(path); err != nil {
			return nil, err
		}
	}
	if c.IsSet("model") {
		conf.Model = c.String("model")
	}
	if c.IsSet("debug") {
		conf.Debug = c.Bool("debug")
	}
	if c.IsSet("skip-malformed") {
		conf.SkipMalformed = c.Bool("skip-malformed")
	}
	if c.IsSet("workers") {
		conf.Workers = c.Int("workers")
	}
	if c.IsSet("embeddings") {
		conf.Embeddings = c.String("embeddings")
	}
	return conf, nil
}

// readLines reads every line of files, or of stdin when files is empty
func readLines(files []string) ([]string, error) {
	if len(files) == 0 {
		return scanLines(os.Stdin)
	}
	lines := []string{}
	for _, path := range files {
		f, err := os.Open(path)
		if err != nil {
			return nil, errors.Wrap(err, "readLines")
		}
		fileLines, err := scanLines(f)
		f.Close()
		if err != nil {
			return nil, errors.Wrapf(err, "readLines: %s", path)
		}
		lines = append(lines, fileLines...)
	}
	return lines, nil
}

func scanLines(r io.Reader) ([]string, error) {
	lines := []string{}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 1<<20), 1<<24)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	return lines, scanner.Err()
}

func newLogger() *log.Logger {
	return log.New(os.Stderr, fmt.Sprintf("[%s] ", uuid.New().String()[:8]), log.LstdFlags)
}

func train(c *cli.Context) error {
	conf, err := loadConfig(c)
	if err != nil {
		return err
	}
	logger := newLogger()

	lines, err := readLines(c.Args().Slice())
	if err != nil {
		return err
	}

	opts := conf.TrainOptions()
	opts.Logger = logger
	model, err := pcfg.Train(lines, opts)
	if err != nil {
		return err
	}

	f, err := os.Create(conf.Model)
	if err != nil {
		return errors.Wrap(err, "train")
	}
	defer f.Close()
	if err := model.Save(f); err != nil {
		return err
	}
	logger.Printf("model saved to %s", conf.Model)
	return nil
}

func loadModel(path string) (*pcfg.Model, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "loadModel")
	}
	defer f.Close()
	return pcfg.LoadModel(bufio.NewReader(f))
}

func loadEmbeddings(path string) (oov.Embeddings, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "loadEmbeddings")
	}
	defer f.Close()
	store, err := oov.LoadEmbeddings(bufio.NewReader(f))
	if err != nil {
		return nil, err
	}
	return store, nil
}

func parse(c *cli.Context) error {
	conf, err := loadConfig(c)
	if err != nil {
		return err
	}
	logger := newLogger()

	model, err := loadModel(conf.Model)
	if err != nil {
		return err
	}

	var embeddings oov.Embeddings
	if conf.Embeddings != "" {
		if embeddings, err = loadEmbeddings(conf.Embeddings); err != nil {
			return err
		}
	}
	resolver, err := oov.New(model.Lexicon, embeddings, conf.OOVOptions())
	if err != nil {
		return err
	}

	parserOpts := conf.ParserOptions()
	parserOpts.Logger = logger
	parser, err := pcfg.NewParser(model, resolver, parserOpts)
	if err != nil {
		return err
	}

	lines, err := readLines(c.Args().Slice())
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	results, runErr := batch.Run(ctx, lines, parser.ParseLine, batch.Options{
		Workers: conf.Workers,
		Logger:  logger,
	})

	f, err := os.Create(c.String("out"))
	if err != nil {
		return errors.Wrap(err, "parse")
	}
	defer f.Close()
	if err := batch.WriteResults(f, results); err != nil {
		return err
	}

	logger.Printf("%d sentences, %d failed", len(results), batch.Failures(results))
	stats := resolver.Stats()
	for source := oov.FromLexicon; source <= oov.FromUniform; source++ {
		if stats[source] > 0 {
			logger.Printf("tokens resolved by %s: %d", source, stats[source])
		}
	}
	if runErr != nil {
		return runErr
	}

	fmt.Fprintln(os.Stderr, "Finished")
	return nil
}
