package main

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/golang/glog"
	"golang.org/x/sync/errgroup"

	"units"
	unitsmsgpack "units/msgpack"
)

var errNoSource = errors.New("no conversion table: use --table or --db")

// loadTableFile reads msgpack tables (.msgpack, .mpk) written by export, and
// text or YAML tables otherwise.
func loadTableFile(path string) ([]units.Rule, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".msgpack", ".mpk":
		return unitsmsgpack.LoadTableFile(path)
	default:
		return units.LoadTableFile(path)
	}
}

// readTables parses files concurrently and returns their rules concatenated
// in the order the files were given.
func readTables(files []string) ([]units.Rule, error) {
	parsed := make([][]units.Rule, len(files))
	var g errgroup.Group
	for i, f := range files {
		i, f := i, f
		g.Go(func() error {
			rules, err := loadTableFile(f)
			if err != nil {
				return err
			}
			parsed[i] = rules
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var all []units.Rule
	for _, rules := range parsed {
		all = append(all, rules...)
	}
	return all, nil
}

// loadRules returns the table selected by cfg and a description of its source.
func loadRules(cfg *Config) ([]units.Rule, string, error) {
	if len(cfg.Tables) > 0 {
		rules, err := readTables(cfg.Tables)
		return rules, fmt.Sprintf("%v", cfg.Tables), err
	}
	if cfg.DBPath == "" {
		return nil, "", errNoSource
	}

	store, err := units.OpenStore(cfg.DBPath)
	if err != nil {
		return nil, "", err
	}
	defer store.Close()

	if cfg.Revision != "" {
		rules, err := store.Table(cfg.Revision)
		return rules, cfg.Revision, err
	}
	rev, rules, err := store.LatestTable()
	return rules, rev.ID, err
}

func loadGraph(cfg *Config) (*units.ConversionGraph, error) {
	rules, source, err := loadRules(cfg)
	if err != nil {
		return nil, err
	}
	g := units.NewConversionGraph()
	g.Load(rules)
	glog.V(1).Infof("conversion graph from %s: %d rules, %d units", source, len(rules), g.Len())
	return g, nil
}
