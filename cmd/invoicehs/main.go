package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"invoicehs/internal/config"
	"invoicehs/internal/logging"
	"invoicehs/internal/pipeline"
	"invoicehs/internal/server"
	"invoicehs/internal/source"
)

func main() {
	cfg, err := config.Load()
	must(err)

	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	logger := logging.New(cfg, os.Stderr)
	extractor := source.NewExtractor(cfg)

	cmd := os.Args[1]
	switch cmd {
	case "convert":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		invoice := fs.String("invoice", "", "invoice file (pdf|png|jpg|tif|eml|txt)")
		catalogPath := fs.String("catalog", "", "HS code table (xlsx|csv)")
		output := fs.String("output", "", "output xlsx path")
		preview := fs.Bool("preview", false, "print the extracted text preview")
		_ = fs.Parse(os.Args[2:])
		if *invoice == "" || *catalogPath == "" {
			must(fmt.Errorf("--invoice and --catalog are required"))
		}
		if strings.TrimSpace(*output) == "" {
			*output = filepath.Join(cfg.OutputDir, "invoice_with_hs_codes.xlsx")
		}

		doc, err := readDocument(*invoice)
		must(err)
		catalogBytes, err := os.ReadFile(*catalogPath)
		must(err)

		svc := pipeline.NewConversionService(cfg, extractor, logger)
		res, err := svc.Convert(context.Background(), doc, pipeline.CatalogFile{Name: filepath.Base(*catalogPath), Content: catalogBytes})
		must(err)
		if *preview {
			fmt.Println(res.Preview)
			fmt.Println("---")
		}
		must(pipeline.ExportRecordsToXLSX(res.Records, *output))
		fmt.Printf("convert done items=%d matched=%d notFound=%d output=%s\n", res.Counts.Items, res.Counts.Matched, res.Counts.Unmatched, *output)
	case "extract":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		invoice := fs.String("invoice", "", "invoice file (pdf|png|jpg|tif|eml|txt)")
		_ = fs.Parse(os.Args[2:])
		if *invoice == "" {
			must(fmt.Errorf("--invoice is required"))
		}

		doc, err := readDocument(*invoice)
		must(err)
		text, err := extractor.ExtractText(context.Background(), doc)
		must(err)
		included := 0
		for _, d := range pipeline.ClassifyText(text) {
			if d.Included() {
				included++
				fmt.Printf("%-7s %s\n", d.Action, d.Line)
				continue
			}
			fmt.Printf("%-7s %s (%s)\n", d.Action, d.Line, d.Reason)
		}
		fmt.Printf("extract done items=%d\n", included)
	case "serve":
		conv := pipeline.NewConversionService(cfg, extractor, logger)
		svc := server.NewService(cfg, conv, logger)
		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer cancel()
		must(svc.Run(ctx))
	default:
		usage()
		os.Exit(1)
	}
}

func readDocument(path string) (source.Document, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return source.Document{}, err
	}
	return source.Document{Name: filepath.Base(path), Content: content}, nil
}

func usage() {
	fmt.Println("usage: invoicehs <command>")
	fmt.Println("commands:")
	fmt.Println("  convert --invoice=./invoice.pdf --catalog=./hs_codes.xlsx [--output=./out/invoice_with_hs_codes.xlsx] [--preview]")
	fmt.Println("  extract --invoice=./invoice.pdf")
	fmt.Println("  serve")
}

func must(err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}
