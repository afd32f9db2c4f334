package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"

	"units"
	unitsmsgpack "units/msgpack"
)

func newRootCommand(cfg *Config) *cobra.Command {
	env := newEnv()
	root := &cobra.Command{
		Use:           "units",
		Short:         "Arithmetic on quantities with units",
		Long:          "Evaluate and convert quantities such as 2[km] using a table of unit conversions.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(c *cobra.Command, args []string) {
			cfg.ApplyEnv(env, c.Flags())
		},
	}
	cfg.AddFlags(root.PersistentFlags())

	root.AddCommand(
		newEvalCommand(cfg),
		newConvertCommand(cfg),
		newPathCommand(cfg),
		newUnitsCommand(cfg),
		newDumpCommand(cfg),
		newImportCommand(cfg),
		newExportCommand(cfg),
		newRevisionsCommand(cfg),
	)
	return root
}

func newEvalCommand(cfg *Config) *cobra.Command {
	return &cobra.Command{
		Use:     "eval LHS OP RHS",
		Short:   "Evaluate LHS OP RHS where OP is one of + - == != < <= > >=",
		Example: "  units eval 2[km] + 500[m]",
		Args:    cobra.ExactArgs(3),
		RunE: func(c *cobra.Command, args []string) error {
			g, err := loadGraph(cfg)
			if err != nil {
				return err
			}
			out, err := evaluate(g, args[0], args[1], args[2])
			if err != nil {
				return err
			}
			fmt.Fprintln(c.OutOrStdout(), out)
			return nil
		},
	}
}

func newConvertCommand(cfg *Config) *cobra.Command {
	return &cobra.Command{
		Use:   "convert QUANTITY UNIT",
		Short: "Express a quantity in another unit",
		Args:  cobra.ExactArgs(2),
		RunE: func(c *cobra.Command, args []string) error {
			g, err := loadGraph(cfg)
			if err != nil {
				return err
			}
			q, err := units.Parse(g, args[0])
			if err != nil {
				return err
			}
			r, err := q.In(args[1])
			if err != nil {
				return err
			}
			fmt.Fprintln(c.OutOrStdout(), r)
			return nil
		},
	}
}

func newPathCommand(cfg *Config) *cobra.Command {
	return &cobra.Command{
		Use:   "path FROM TO",
		Short: "Show the conversion chain between two units",
		Args:  cobra.ExactArgs(2),
		RunE: func(c *cobra.Command, args []string) error {
			g, err := loadGraph(cfg)
			if err != nil {
				return err
			}
			for _, u := range args {
				if !g.Exists(u) {
					return fmt.Errorf("%w: %q", units.ErrInvalidUnit, u)
				}
			}
			p, ok := g.FindPath(args[0], args[1])
			if !ok {
				return fmt.Errorf("%w: %s and %s", units.ErrIncompatibleUnits, args[0], args[1])
			}
			fmt.Fprintf(c.OutOrStdout(), "%s (x%g)\n", p, p.Factor)
			return nil
		},
	}
}

func newUnitsCommand(cfg *Config) *cobra.Command {
	return &cobra.Command{
		Use:   "units",
		Short: "List registered units",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, args []string) error {
			g, err := loadGraph(cfg)
			if err != nil {
				return err
			}
			for _, u := range g.Units() {
				fmt.Fprintln(c.OutOrStdout(), u)
			}
			return nil
		},
	}
}

func newDumpCommand(cfg *Config) *cobra.Command {
	return &cobra.Command{
		Use:   "dump",
		Short: "Dump the conversion graph adjacency lists",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, args []string) error {
			g, err := loadGraph(cfg)
			if err != nil {
				return err
			}
			adj := make(map[string][]units.Conversion, g.Len())
			for _, u := range g.Units() {
				adj[u] = g.Conversions(u)
			}
			dumper := spew.ConfigState{Indent: "  ", SortKeys: true, DisablePointerAddresses: true}
			dumper.Fdump(c.OutOrStdout(), adj)
			return nil
		},
	}
}

func newImportCommand(cfg *Config) *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE...",
		Short: "Store table files as a new revision in --db",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			if cfg.DBPath == "" {
				return fmt.Errorf("import needs --db")
			}
			rules, err := readTables(args)
			if err != nil {
				return err
			}
			store, err := units.OpenStore(cfg.DBPath)
			if err != nil {
				return err
			}
			defer store.Close()

			rev, err := store.SaveTable(strings.Join(args, ","), rules)
			if err != nil {
				return err
			}
			fmt.Fprintf(c.OutOrStdout(), "%s %d conversions\n", rev.ID, rev.Rules)
			return nil
		},
	}
}

func newExportCommand(cfg *Config) *cobra.Command {
	return &cobra.Command{
		Use:   "export FILE",
		Short: "Write the selected table as msgpack; readable again with --table FILE.msgpack",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			rules, source, err := loadRules(cfg)
			if err != nil {
				return err
			}
			data, err := unitsmsgpack.MarshalTable(source, rules)
			if err != nil {
				return err
			}
			return os.WriteFile(args[0], data, 0644)
		},
	}
}

func newRevisionsCommand(cfg *Config) *cobra.Command {
	return &cobra.Command{
		Use:   "revisions",
		Short: "List table revisions stored in --db",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, args []string) error {
			if cfg.DBPath == "" {
				return fmt.Errorf("revisions needs --db")
			}
			store, err := units.OpenStore(cfg.DBPath)
			if err != nil {
				return err
			}
			defer store.Close()

			revs, err := store.Revisions()
			if err != nil {
				return err
			}
			for _, r := range revs {
				fmt.Fprintf(c.OutOrStdout(), "%s\t%s\t%d\t%s\n", r.ID, r.CreatedAt.Format("2006-01-02 15:04:05"), r.Rules, r.Source)
			}
			return nil
		},
	}
}
