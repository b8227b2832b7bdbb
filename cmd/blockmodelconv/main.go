package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/binzume/blockmodelconv/config"
	"github.com/binzume/blockmodelconv/exporter"
	"github.com/binzume/blockmodelconv/logger"
	"go.uber.org/zap"
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [options] input.(mqo|mqoz|gltf|glb)\n", os.Args[0])
		flag.PrintDefaults()
	}
	confFile := flag.String("config", "", "config file (default: ./"+config.DefaultFile+" if present)")
	object := flag.String("object", "", "object to export (default: first visible object)")
	dump := flag.Bool("dump", false, "print the mesh snapshot before exporting")
	logLevel := flag.String("log-level", "", "debug, info, warn or error")
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}
	if err := run(flag.Arg(0), *confFile, *object, *logLevel, *dump); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(input, confFile, object, logLevel string, dump bool) error {
	cfg, err := config.Load(confFile)
	if err != nil {
		return err
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	logger.Init(cfg.Log.Level, cfg.Log.File)
	defer logger.Sync()

	logger.Log.Debug("loading", zap.String("input", input), zap.String("object", object))
	m, err := loadMesh(input, object, cfg)
	if err != nil {
		return err
	}
	if dump {
		spewConfig.Fdump(os.Stdout, m)
	}

	result, err := exporter.New(cfg).Export(m)
	if err != nil {
		return err
	}
	fmt.Println(result.Path)
	return nil
}
