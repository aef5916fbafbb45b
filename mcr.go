// Copyright 2016 Patrick Brosi
// Authors: info@patrickbrosi.de
//
// Use of this source code is governed by a GPL v2
// license that can be found in the LICENSE file

package main

import (
	"fmt"
	"os"
	"path"

	"github.com/gocarina/gocsv"
	"github.com/mogottsch/mcr/mcr"
	"github.com/mogottsch/mcr/mlc"
	"github.com/mogottsch/mcr/timetable"
	"github.com/patrickbr/gtfsparser"
	"github.com/patrickbr/gtfswriter"
	"github.com/sirupsen/logrus"
	flag "github.com/spf13/pflag"
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "mcr - multi-criteria multi-modal reachability\n\nUsage:\n\n  %s timetable [<options>] <input GTFS>\n  %s run [<options>]\n  %s batch [<options>]\n\nAllowed options:\n\n", os.Args[0], os.Args[0], os.Args[0])
		flag.PrintDefaults()
	}

	timetableOut := flag.StringP("timetable-output", "o", "timetable.bin", "timetable structures output file")
	writeFeed := flag.StringP("write-feed", "", "", "also write the canonicalised GTFS feed to this directory or zip file")
	dropErroneousEntities := flag.BoolP("drop-errs", "D", false, "drop erroneous entries from the input feed")

	timetablePath := flag.StringP("timetable", "t", "", "timetable structures file (from the timetable command)")
	nodesPath := flag.StringP("nodes", "n", "", "street-graph nodes (GeoJSON)")
	edgesPath := flag.StringP("edges", "e", "", "street-graph edges (GeoJSON)")
	stopsPath := flag.StringP("stops", "s", "", "stops with nearest-node attachments (GeoJSON)")
	vehicleNodesPath := flag.StringP("vehicle-nodes", "", "", "cycling/driving network nodes (GeoJSON, default: walking nodes)")
	vehicleEdgesPath := flag.StringP("vehicle-edges", "", "", "cycling/driving network edges (GeoJSON, default: walking edges)")
	configName := flag.StringP("config", "c", mcr.ConfigWalking, fmt.Sprintf("step configuration, one of %v", mcr.AllConfigs))
	bicycleRule := flag.StringP("bicycle-rule", "", mlc.RuleNextBikeNoTariff, "fare rule of the bicycle stage")
	origin := flag.Int64P("origin", "g", 0, "origin OSM node id")
	startTime := flag.StringP("start-time", "T", "08:00:00", "start time (HH:MM:SS, hours >= 24 allowed)")
	maxRounds := flag.IntP("max-transfers", "k", 2, "maximum number of rounds / additional boardings")
	numCategories := flag.IntP("poi-categories", "", 0, "number of POI categories counted in the label values")
	outputPath := flag.StringP("output", "O", "bags.csv", "result output file")
	format := flag.StringP("format", "f", "tabular", "output format, 'tabular' or 'structured'")
	disablePaths := flag.BoolP("disable-paths", "", false, "do not record reconstructible paths")
	enableLimit := flag.BoolP("enable-limit", "", false, "prune labels that improve no per-component minimum")

	locationsPath := flag.StringP("locations", "l", "", "batch location mappings (CSV with h3_cell, osm_node_id)")
	outputDir := flag.StringP("output-dir", "", "batch-out", "batch output directory")
	maxWorkers := flag.IntP("max-workers", "p", 0, "maximum concurrent batch runs (0: number of CPUs - 1)")
	minFreeGiB := flag.Float64P("min-free-memory", "", 0, "minimum free memory in GiB before starting another run")

	verbose := flag.BoolP("verbose", "v", false, "verbose logging")
	help := flag.BoolP("help", "?", false, "this message")

	flag.Parse()

	if *help || flag.NArg() == 0 {
		flag.Usage()
		if *help {
			return
		}
		os.Exit(1)
	}

	log := logrus.New()
	if *verbose {
		log.SetLevel(logrus.DebugLevel)
	}

	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintln(os.Stderr, "Error:", r)
			os.Exit(1)
		}
	}()

	switch flag.Arg(0) {
	case "timetable":
		runTimetable(flag.Args()[1:], *timetableOut, *writeFeed, *dropErroneousEntities)
	case "run":
		runMCR(log, *nodesPath, *edgesPath, *stopsPath, *vehicleNodesPath, *vehicleEdgesPath,
			*timetablePath, *configName, *bicycleRule, *origin, *startTime, *maxRounds,
			*numCategories, *outputPath, *format, *disablePaths, *enableLimit)
	case "batch":
		runBatch(log, *nodesPath, *edgesPath, *stopsPath, *vehicleNodesPath, *vehicleEdgesPath,
			*timetablePath, *configName, *bicycleRule, *startTime, *maxRounds, *numCategories,
			*locationsPath, *outputDir, *maxWorkers, *minFreeGiB, *enableLimit)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command '%s', see --help\n", flag.Arg(0))
		os.Exit(1)
	}
}

func runTimetable(gtfsPaths []string, outputPath, writeFeed string, dropErrs bool) {
	if len(gtfsPaths) == 0 {
		fmt.Fprintln(os.Stderr, "No GTFS location specified, see --help")
		os.Exit(1)
	}

	feed := gtfsparser.NewFeed()
	opts := gtfsparser.ParseOptions{DropErroneous: dropErrs}
	feed.SetParseOpts(opts)

	for _, gtfsPath := range gtfsPaths {
		fmt.Fprintf(os.Stdout, "Parsing GTFS feed in '%s' ...", gtfsPath)
		if e := feed.Parse(gtfsPath); e != nil {
			fmt.Fprintf(os.Stderr, "\nError while parsing GTFS feed:\n")
			fmt.Fprintln(os.Stderr, e.Error())
			os.Exit(1)
		}
		fmt.Fprintf(os.Stdout, " done.\n")
	}

	timetable.RouteCanonicalizer{}.Run(feed)

	fmt.Fprintf(os.Stdout, "Building timetable structures...")
	trips, stopTimes := timetable.FromFeed(feed)
	tt, err := timetable.Build(trips, stopTimes)
	if err == nil {
		err = tt.Validate()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "\nError while building timetable structures:\n")
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
	fmt.Fprintf(os.Stdout, " done. (%d routes, %d trips, %d stops)\n",
		len(tt.RouteIdSet), len(tt.TripIdSet), len(tt.StopIdSet))

	fmt.Fprintf(os.Stdout, "Outputting timetable structures to '%s'...", outputPath)
	if err := timetable.Save(tt, outputPath); err != nil {
		fmt.Fprintf(os.Stderr, "\nError while writing timetable structures:\n")
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
	fmt.Fprintf(os.Stdout, " done.\n")

	if writeFeed != "" {
		if _, err := os.Stat(writeFeed); os.IsNotExist(err) {
			if path.Ext(writeFeed) == ".zip" {
				os.Create(writeFeed)
			} else {
				os.Mkdir(writeFeed, os.ModePerm)
			}
		}

		fmt.Fprintf(os.Stdout, "Outputting canonicalised GTFS feed to '%s'...", writeFeed)
		w := gtfswriter.Writer{ZipCompressionLevel: 9, Sorted: true}
		if e := w.Write(feed, writeFeed); e != nil {
			fmt.Fprintf(os.Stderr, "\nError while writing GTFS feed:\n")
			fmt.Fprintln(os.Stderr, e.Error())
			os.Exit(1)
		}
		fmt.Fprintf(os.Stdout, " done.\n")
	}
}

func loadRunData(log *logrus.Logger, nodesPath, edgesPath, stopsPath, vehicleNodesPath, vehicleEdgesPath, timetablePath, configName string) (*mcr.OSMData, *mcr.Network, *timetable.Timetable) {
	if nodesPath == "" || edgesPath == "" {
		fmt.Fprintln(os.Stderr, "Both --nodes and --edges are required, see --help")
		os.Exit(1)
	}

	nodes, err := mcr.LoadNodes(nodesPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err.Error())
		os.Exit(1)
	}
	edges, err := mcr.LoadEdges(edgesPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err.Error())
		os.Exit(1)
	}

	data := &mcr.OSMData{Nodes: nodes, Edges: edges}
	if stopsPath != "" {
		data.Stops, err = mcr.LoadStops(stopsPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err.Error())
			os.Exit(1)
		}
	}

	var vehicle *mcr.Network
	if vehicleNodesPath != "" && vehicleEdgesPath != "" {
		vehicleNodes, err := mcr.LoadNodes(vehicleNodesPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err.Error())
			os.Exit(1)
		}
		vehicleEdges, err := mcr.LoadEdges(vehicleEdgesPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err.Error())
			os.Exit(1)
		}
		vehicle = &mcr.Network{Nodes: vehicleNodes, Edges: vehicleEdges}
	}

	var tt *timetable.Timetable
	if timetablePath != "" {
		tt, err = timetable.Load(timetablePath)
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err.Error())
			os.Exit(1)
		}
	}

	log.WithFields(logrus.Fields{
		"nodes": len(data.Nodes), "edges": len(data.Edges),
		"stops": len(data.Stops), "config": configName,
	}).Info("data loaded")

	return data, vehicle, tt
}

func runMCR(log *logrus.Logger, nodesPath, edgesPath, stopsPath, vehicleNodesPath, vehicleEdgesPath,
	timetablePath, configName, bicycleRule string, origin int64, startTime string,
	maxRounds, numCategories int, outputPath, format string, disablePaths, enableLimit bool) {

	data, vehicle, tt := loadRunData(log, nodesPath, edgesPath, stopsPath, vehicleNodesPath, vehicleEdgesPath, timetablePath, configName)

	opts := mcr.Options{Log: log, EnableLimit: enableLimit, NumCategories: numCategories}
	if !disablePaths {
		opts.PathManager = mcr.NewPathManager()
	}

	config, err := mcr.NewStepConfig(configName, data, vehicle, tt, bicycleRule, opts)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err.Error())
		os.Exit(1)
	}

	runner := mcr.New(config.InitialSteps, config.RepeatingSteps, opts.PathManager, numCategories, log)

	fmt.Fprintf(os.Stdout, "Running MCR from node %d at %s...", origin, startTime)
	result, err := runner.Run(origin, startTime, maxRounds)
	if err != nil {
		fmt.Fprintf(os.Stderr, "\nError while running MCR:\n")
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
	fmt.Fprintf(os.Stdout, " done.\n")

	outputFormat := mcr.FormatTabular
	if format == "structured" {
		outputFormat = mcr.FormatStructured
	}

	fmt.Fprintf(os.Stdout, "Outputting bags to '%s'...", outputPath)
	if err := mcr.Write(result, outputFormat, outputPath); err != nil {
		fmt.Fprintf(os.Stderr, "\nError while writing bags:\n")
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
	fmt.Fprintf(os.Stdout, " done.\n")
}

func runBatch(log *logrus.Logger, nodesPath, edgesPath, stopsPath, vehicleNodesPath, vehicleEdgesPath,
	timetablePath, configName, bicycleRule, startTime string, maxRounds, numCategories int,
	locationsPath, outputDir string, maxWorkers int, minFreeGiB float64, enableLimit bool) {

	if locationsPath == "" {
		fmt.Fprintln(os.Stderr, "--locations is required for batch runs, see --help")
		os.Exit(1)
	}

	f, err := os.Open(locationsPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err.Error())
		os.Exit(1)
	}
	var mappings []mcr.LocationMapping
	err = gocsv.Unmarshal(f, &mappings)
	f.Close()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err.Error())
		os.Exit(1)
	}

	data, vehicle, tt := loadRunData(log, nodesPath, edgesPath, stopsPath, vehicleNodesPath, vehicleEdgesPath, timetablePath, configName)

	if _, err := os.Stat(outputDir); os.IsNotExist(err) {
		os.Mkdir(outputDir, os.ModePerm)
	}

	// graphs are shared read-only; each run builds its own orchestrator
	// and runs path-free, as only the per-cell trade-offs matter here
	opts := mcr.Options{Log: log, EnableLimit: enableLimit, NumCategories: numCategories}
	config, err := mcr.NewStepConfig(configName, data, vehicle, tt, bicycleRule, opts)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err.Error())
		os.Exit(1)
	}

	batch := &mcr.Batch{
		NewRun: func() (*mcr.MCR, error) {
			return mcr.New(config.InitialSteps, config.RepeatingSteps, nil, numCategories, log), nil
		},
		MaxWorkers:         maxWorkers,
		MinFreeMemoryBytes: uint64(minFreeGiB * 1024 * 1024 * 1024),
		Log:                log,
	}

	fmt.Fprintf(os.Stdout, "Running %d MCR runs...", len(mappings))
	failures := batch.Run(mappings, startTime, maxRounds, outputDir)
	fmt.Fprintf(os.Stdout, " done. (%d failed)\n", len(failures))

	for _, failure := range failures {
		log.WithField("cell", failure.H3Cell).WithError(failure.Err).Error("batch run failed")
	}

	if len(failures) > 0 {
		os.Exit(1)
	}
}
