// Debug helper that dumps the metadata the extractor sees for one archive.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/librisbooks/libris/pkg/epub"
	"github.com/robinjoseph08/golib/logger"
)

func main() {
	log := logger.New()

	if len(os.Args) != 2 {
		log.Fatal("usage: parse-epub <path>")
	}

	extractor := epub.NewExtractor(0)
	md, err := extractor.Extract(context.Background(), os.Args[1])
	if err != nil {
		log.Err(err).Fatal("extract error")
	}

	fmt.Println(md)
}
