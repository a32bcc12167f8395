package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/axisni/chartdash/app/common"
	"github.com/axisni/chartdash/app/config"
	"github.com/axisni/chartdash/app/docstore"
	"github.com/axisni/chartdash/app/schools"
	"github.com/axisni/chartdash/app/server"
	"github.com/axisni/chartdash/app/tabular"
	"github.com/axisni/chartdash/app/uploads"
	"github.com/spf13/pflag"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]

	switch command {
	case "server":
		runServer()
	case "merge":
		runMerge()
	case "schools":
		runSchools()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "Usage: chartdash <command> [options]")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "Commands:")
	fmt.Fprintln(os.Stderr, "  server        Start the dashboard server")
	fmt.Fprintln(os.Stderr, "  merge         Prefix and merge CSV files row by row into JSON")
	fmt.Fprintln(os.Stderr, "  schools       Filter and sort a schools CSV")
}

func runServer() {
	flags := pflag.NewFlagSet("server", pflag.ExitOnError)
	var dataDir string
	var serverConf config.ServerRuntimeConfig
	flags.StringVarP(&serverConf.Addr, "address", "a", "localhost", "Server address to bind")
	flags.IntVarP(&serverConf.Port, "port", "p", 8090, "Server port to bind")
	flags.StringVarP(&dataDir, "data-dir", "d", "", "data directory with config.json, .env and the chart database")
	flags.StringVar(&serverConf.CertDir, "cert-dir", "", "directory with fullchain.pem and privkey.pem, or the ACME cache")
	flags.BoolVar(&serverConf.AcmeEnabled, "acme", false, "obtain certificates with ACME for the configured hostnames")
	flags.IntVar(&serverConf.RateLimit, "rate-limit", 0, "requests per second per client, 0 disables")
	flags.IntVar(&serverConf.GzipLevel, "gzip-level", 0, "gzip compression level, 0 disables")
	flags.BoolVar(&serverConf.BehindLoadBalancer, "behind-lb", false, "identify clients by X-Forwarded-For")

	flags.Parse(os.Args[2:])

	if dataDir == "" {
		slog.Error("--data-dir not provided, stopping")
		os.Exit(1)
	}
	conf, err := config.Load(dataDir)
	if err != nil {
		slog.Error("error while loading config", "err", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := uploads.NewClient(conf.UploadAPIURL, conf.UploadTimeout())
	store, closeStore, err := docstore.NewChartStore(ctx, conf.ChartStore, client)
	if err != nil {
		slog.Error("error while initializing chart store", "err", err)
		os.Exit(1)
	}
	defer closeStore()

	catalog := schools.NewCatalog(schools.Source{
		Path:            conf.Schools.Path,
		URL:             conf.Schools.URL,
		RefreshSchedule: conf.Schools.RefreshSchedule,
		Watch:           conf.Schools.Watch,
	})
	if conf.Schools.Path != "" || conf.Schools.URL != "" {
		if err := catalog.Load(ctx); err != nil {
			slog.Warn("schools not loaded, map starts empty", "err", err)
		}
		if conf.Schools.Watch || conf.Schools.RefreshSchedule != "" {
			if err := catalog.Watch(ctx); err != nil {
				slog.Error("error while watching school source", "err", err)
			}
			defer catalog.Stop()
		}
	}

	controller := server.NewDashController(conf, catalog, store, client)
	go server.StartServer(controller, conf, serverConf)
	<-ctx.Done()
	slog.Info("shutting down")
}

func runMerge() {
	flags := pflag.NewFlagSet("merge", pflag.ExitOnError)
	var output string
	flags.StringVarP(&output, "output", "o", "", "output JSON file (default stdout)")
	flags.Parse(os.Args[2:])

	files := flags.Args()
	if len(files) == 0 {
		fmt.Fprintln(os.Stderr, "Error: at least one CSV file is required")
		os.Exit(1)
	}

	datasets := make([]tabular.Dataset, 0, len(files))
	for _, name := range files {
		ds, err := readCSVFile(name)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		datasets = append(datasets, ds)
	}
	merged := tabular.NormalizeAndMerge(datasets...)

	if err := writeJSON(output, merged); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runSchools() {
	flags := pflag.NewFlagSet("schools", pflag.ExitOnError)
	var csvPath, sortKey, city, name, output string
	var desc, rerank bool
	flags.StringVar(&csvPath, "csv", "", "schools CSV file (required)")
	flags.StringVar(&sortKey, "sort", "", "sort key: rank, name, city, type, pupils, grade5, attainment8")
	flags.BoolVar(&desc, "desc", false, "sort descending")
	flags.BoolVar(&rerank, "rerank", false, "replace rank with position after sorting")
	flags.StringVar(&city, "city", "", "only schools in this town")
	flags.StringVar(&name, "name", "", "only schools whose name contains this")
	flags.StringVarP(&output, "output", "o", "", "output JSON file (default stdout)")
	flags.Parse(os.Args[2:])

	if csvPath == "" {
		fmt.Fprintln(os.Stderr, "Error: --csv is required")
		os.Exit(1)
	}
	f, err := os.Open(csvPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()
	records, err := schools.ParseCSV(f)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	q := schools.Query{
		Filter: schools.Filter{City: city, Name: name},
		Sort:   schools.ParseSortKey(sortKey),
		Order:  common.OrderAsc,
		Rerank: rerank,
	}
	if desc {
		q.Order = common.OrderDesc
	}
	if sortKey != "" && q.Sort == schools.SortNone {
		fmt.Fprintf(os.Stderr, "Error: unknown sort key %q\n", sortKey)
		os.Exit(1)
	}

	if err := writeJSON(output, schools.Apply(records, q)); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func readCSVFile(name string) (tabular.Dataset, error) {
	f, err := os.Open(name)
	if err != nil {
		return tabular.Dataset{}, err
	}
	defer f.Close()
	ds, err := tabular.ReadCSV(f)
	if err != nil {
		return tabular.Dataset{}, fmt.Errorf("%s: %w", name, err)
	}
	return ds, nil
}

func writeJSON(output string, v any) error {
	out := os.Stdout
	if output != "" {
		f, err := os.Create(output)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
