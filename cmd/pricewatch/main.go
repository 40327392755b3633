// pricewatch is the one-shot CLI: run a catalog walk now, scrape a single
// URL, import a spreadsheet, export the CSV or validate a product code.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/strummet/pricewatch/internal/catalog"
	"github.com/strummet/pricewatch/internal/config"
	"github.com/strummet/pricewatch/internal/export"
	"github.com/strummet/pricewatch/internal/fetch"
	"github.com/strummet/pricewatch/internal/importer"
	"github.com/strummet/pricewatch/internal/walker"
)

func main() {
	configFile := flag.String("config", "", "Path to configuration file (YAML)")
	catalogPath := flag.String("catalog", "", "Override catalog file location")
	runWalk := flag.Bool("walk", false, "Run a full catalog update now")
	scrapeURL := flag.String("url", "", "Scrape a single competitor URL and print the result")
	importFile := flag.String("import", "", "Import products from an .xlsx spreadsheet")
	mappingsJSON := flag.String("mappings", "", "JSON column mappings for -import")
	doExport := flag.Bool("export", false, "Write the price CSV to the export directory")
	push := flag.Bool("push", false, "Also push the export to the remote backup")
	validateCode := flag.String("validate-code", "", "Check a product code for uniqueness")
	flag.Parse()

	_ = godotenv.Load()

	cfg := config.CreateDefault()
	if *configFile != "" {
		var err error
		cfg, err = config.Load(*configFile)
		if err != nil {
			log.Fatalf("Error loading configuration: %v", err)
		}
	}
	cfg.ApplyEnv()
	if *catalogPath != "" {
		cfg.Catalog.Path = *catalogPath
	}

	store := catalog.NewStore(cfg.Catalog.Path)
	ctx := context.Background()

	switch {
	case *scrapeURL != "":
		res, err := walker.ScrapeURL(ctx, fetch.New(cfg), *scrapeURL, cfg.Catalog.Location())
		if err != nil {
			log.Fatalf("Scraping failed: %v", err)
		}
		printJSON(res)

	case *importFile != "":
		var mappings []importer.Mapping
		if *mappingsJSON != "" {
			if err := json.Unmarshal([]byte(*mappingsJSON), &mappings); err != nil {
				log.Fatalf("Invalid mappings format: %v", err)
			}
		}
		imp := importer.New(cfg.Import.ArchiveDir)
		products, count, err := imp.ImportFile(*importFile, mappings)
		if err != nil {
			log.Fatalf("Import failed: %v", err)
		}
		if err := store.Save(products); err != nil {
			log.Fatalf("Saving catalog failed: %v", err)
		}
		fmt.Printf("Imported %d products into %s\n", count, cfg.Catalog.Path)
		if *runWalk {
			walkOnce(ctx, store, cfg, *push)
		}

	case *runWalk:
		walkOnce(ctx, store, cfg, *push)

	case *doExport:
		products, err := store.Load()
		if err != nil {
			log.Fatalf("Loading catalog failed: %v", err)
		}
		sink := exportSink(cfg, *push)
		if err := sink.Push(ctx, products); err != nil {
			log.Fatalf("Export failed: %v", err)
		}

	case *validateCode != "":
		if err := store.ValidateCode(*validateCode); err != nil {
			fmt.Println("invalid:", err)
			os.Exit(1)
		}
		fmt.Println("valid")

	default:
		flag.Usage()
		os.Exit(2)
	}
}

func walkOnce(ctx context.Context, store *catalog.Store, cfg *config.AppConfig, push bool) {
	w := walker.New(store, fetch.New(cfg), cfg)
	w.Export = exportSink(cfg, push).Push
	summary, err := w.Run(ctx)
	if err != nil {
		log.Fatalf("Walk failed: %v", err)
	}
	fmt.Printf("Done! Processed %d URLs (updated %d, unchanged %d, failed %d)\n",
		summary.Processed, summary.Updated, summary.Unchanged, summary.Failed)
}

func exportSink(cfg *config.AppConfig, push bool) *export.Sink {
	var dropbox *export.DropboxClient
	if push && cfg.Dropbox.Enabled() {
		dropbox = export.NewDropboxClient(cfg.Dropbox)
	}
	return export.NewSink(cfg.Export.Dir, cfg.Dropbox.Folder, dropbox)
}

func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		log.Fatal(err)
	}
}
