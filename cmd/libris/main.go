package main

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/librisbooks/libris/pkg/config"
	"github.com/librisbooks/libris/pkg/epub"
	"github.com/librisbooks/libris/pkg/epubfix"
	"github.com/librisbooks/libris/pkg/identifiers"
	"github.com/librisbooks/libris/pkg/keywords"
	"github.com/librisbooks/libris/pkg/scanner"
	"github.com/librisbooks/libris/pkg/version"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
	"github.com/urfave/cli/v2"
)

func main() {
	log := logger.New()

	app := &cli.App{
		Name:        "libris",
		Usage:       "index folders of EPUB archives into a queryable catalog",
		Description: "CLI for the libris ingestion pipeline",
		Version:     version.Version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "path to a YAML config file",
			},
		},
		Commands: []*cli.Command{
			{
				Name:      "scan",
				Usage:     "scan a folder and print the resulting catalog",
				ArgsUsage: "[root]",
				Action:    runScan,
			},
			{
				Name:      "classify",
				Usage:     "classify a raw identifier string",
				ArgsUsage: "<identifier>",
				Action:    runClassify,
			},
			{
				Name:      "tag",
				Usage:     "tag free text against the keyword dictionary",
				ArgsUsage: "<text>",
				Action:    runTag,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Err(err).Fatal("app run error")
	}
}

func loadConfig(c *cli.Context) (*config.Config, error) {
	return config.New(c.String("config"))
}

func newTagger(cfg *config.Config) (*keywords.Tagger, error) {
	if cfg.DictionaryPath != "" {
		return keywords.NewFromFile(cfg.DictionaryPath)
	}
	return keywords.Default()
}

func runScan(c *cli.Context) error {
	log := logger.New()
	log.Info("starting libris scan", logger.Data{"version": version.Version})

	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	if c.Args().First() != "" {
		cfg.LibraryPath = c.Args().First()
	}
	if cfg.LibraryPath == "" {
		return errors.New("no library path given; pass it as an argument or set library_path")
	}

	tagger, err := newTagger(cfg)
	if err != nil {
		return err
	}

	stats := epubfix.NewStats()
	loader := scanner.NewLoader(epub.NewExtractor(cfg.MaxTextBytes), epubfix.NewRepairer(stats), tagger)
	scn := scanner.New(loader, scanner.Options{
		Workers:  cfg.Workers,
		FailFast: cfg.FailFast,
	})

	ctx := log.WithContext(context.Background())
	cat, failures, err := scn.BuildCatalog(ctx, cfg.LibraryPath)
	if err != nil {
		return err
	}

	books := cat.AllBooks()
	sort.Slice(books, func(i, j int) bool { return books[i].Title < books[j].Title })

	for _, book := range books {
		authorNames := make([]string, 0, len(book.Authors))
		for _, a := range book.Authors {
			authorNames = append(authorNames, a.Name)
		}
		fmt.Printf("%s\n  id:       %s\n  authors:  %s\n  keywords: %s\n  formats:  %s\n",
			book.Title,
			book.ID,
			strings.Join(authorNames, "; "),
			strings.Join(book.Keywords, ", "),
			strings.Join(book.Formats, ", "))
	}

	fmt.Printf("\n%d books, %d authors, %d repairs attempted (%d failed), %d failures\n",
		cat.BookCount(), cat.AuthorCount(), stats.Attempted(), stats.Failed(), len(failures))

	for _, failure := range failures {
		fmt.Printf("  failed: %s: %v\n", failure.Path, failure.Err)
	}
	return nil
}

func runClassify(c *cli.Context) error {
	id := identifiers.Classify(c.Args().First())
	fmt.Printf("scheme: %s\nvalue:  %s\n", id.Scheme, id.Value)
	return nil
}

func runTag(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	tagger, err := newTagger(cfg)
	if err != nil {
		return err
	}

	tags := tagger.Tag(strings.Join(c.Args().Slice(), " "))
	for _, tag := range tags {
		fmt.Println(tag)
	}
	return nil
}
