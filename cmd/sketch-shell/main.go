package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/ironsheep/sketch-classifier/internal/classify"
	"github.com/ironsheep/sketch-classifier/internal/config"
	"github.com/ironsheep/sketch-classifier/internal/log"
	"github.com/ironsheep/sketch-classifier/internal/session"
	"github.com/ironsheep/sketch-classifier/internal/shell"
)

func main() {
	jsonOutput := flag.Bool("json", false, "print results as JSON")
	configPath := flag.String("config", "", "configuration file (overrides "+config.EnvConfigFile+")")
	flag.Parse()

	log.InitFromEnv()

	if *configPath != "" {
		os.Setenv(config.EnvConfigFile, *configPath)
	}
	cfg, err := config.FromEnv()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	sess, loaded := session.NewFromConfig(context.Background(), cfg, classify.NewDefaultLoader())
	defer sess.Close()

	if err := <-loaded; err != nil {
		log.Warning.Printf("failed to load %s model: %v", cfg.Mode, err)
	}

	if err := shell.RunShell(sess, *jsonOutput, flag.Args()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		sess.Close()
		os.Exit(1)
	}
}
