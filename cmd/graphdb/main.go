// Command graphdb is a diagnostic CLI over one graphdb namespace: run a
// single Cypher statement, compute a shortest path or variable-length
// expansion, or print namespace stats. It opens the engine, does one thing,
// and exits — distinct from the spec's excluded "demo binaries" (CRUD/
// import/export/algorithm tours), grounded on the teacher's
// cmd/nornicdb/main.go cobra layout.
package main

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/graphdb/graphdb/internal/algorithms"
	"github.com/graphdb/graphdb/internal/config"
	"github.com/graphdb/graphdb/internal/cypher/exec"
	"github.com/graphdb/graphdb/internal/cypher/parser"
	"github.com/graphdb/graphdb/internal/cypher/value"
	"github.com/graphdb/graphdb/internal/ids"
	"github.com/graphdb/graphdb/internal/storage"
)

var configFile string

func main() {
	rootCmd := &cobra.Command{
		Use:   "graphdb",
		Short: "graphdb - an embedded property-graph database with a Cypher subset",
	}
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "graphdb.yaml", "path to a YAML config file layered over environment variables")

	rootCmd.AddCommand(newOpenCmd(), newQueryCmd(), newShortestPathCmd(), newVLECmd(), newStatsCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadWithFile(configFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func openEngine(cfg *config.Config) (*storage.Engine, error) {
	if cfg.InMemory {
		return storage.OpenMemory(cfg.Namespace)
	}
	return storage.OpenBadger(cfg.Namespace, storage.BadgerOptions{
		DataDir:    cfg.DataDir,
		SyncWrites: cfg.SyncWrites,
		Logger:     log.New(os.Stderr, "graphdb: ", log.LstdFlags),
	})
}

func newOpenCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "open",
		Short: "Open the namespace and report success",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			e, err := openEngine(cfg)
			if err != nil {
				return fmt.Errorf("opening engine: %w", err)
			}
			defer e.Close()
			fmt.Printf("opened namespace %q (data_dir=%s in_memory=%v)\n", cfg.Namespace, cfg.DataDir, cfg.InMemory)
			return nil
		},
	}
}

func newQueryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "query <cypher>",
		Short: "Run a single Cypher statement and print its result rows",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			e, err := openEngine(cfg)
			if err != nil {
				return fmt.Errorf("opening engine: %w", err)
			}
			defer e.Close()

			q, err := parser.Parse(args[0])
			if err != nil {
				return fmt.Errorf("parsing query: %w", err)
			}
			result, err := exec.Execute(e, q)
			if err != nil {
				return fmt.Errorf("executing query: %w", err)
			}
			printRows(result)
			return nil
		},
	}
}

func printRows(result *exec.Result) {
	if len(result.Rows) == 0 {
		fmt.Println("(no rows)")
		return
	}
	header := result.Rows[0].Columns
	fmt.Println(strings.Join(header, " | "))
	for _, row := range result.Rows {
		cells := make([]string, len(row.Values))
		for i, v := range row.Values {
			cells[i] = value.Printable(v)
		}
		fmt.Println(strings.Join(cells, " | "))
	}
}

func newShortestPathCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "shortest-path <start-id> <end-id>",
		Short: "Compute the uniform-weight shortest path between two vertex ids",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			e, err := openEngine(cfg)
			if err != nil {
				return fmt.Errorf("opening engine: %w", err)
			}
			defer e.Close()

			start, err := parseIdentifier(args[0])
			if err != nil {
				return err
			}
			end, err := parseIdentifier(args[1])
			if err != nil {
				return err
			}

			res, err := algorithms.ShortestPath(e, start, end)
			if err != nil {
				return err
			}
			fmt.Printf("cost=%d\n", res.Cost)
			for _, v := range res.Path.Vertices {
				fmt.Printf("  %s (%s)\n", v.ID, v.Label)
			}
			return nil
		},
	}
	return cmd
}

func newVLECmd() *cobra.Command {
	var minLen, maxLen, maxPaths int
	var allowCycles bool

	cmd := &cobra.Command{
		Use:   "vle <start-id>",
		Short: "Enumerate variable-length paths from a start vertex",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			e, err := openEngine(cfg)
			if err != nil {
				return fmt.Errorf("opening engine: %w", err)
			}
			defer e.Close()

			start, err := parseIdentifier(args[0])
			if err != nil {
				return err
			}
			if maxLen == 0 {
				maxLen = cfg.VLEMaxLengthDefault
			}

			paths, err := algorithms.VariableLengthExpand(e, start, algorithms.VLEOptions{
				MinLength:   minLen,
				MaxLength:   maxLen,
				AllowCycles: allowCycles,
				MaxPaths:    maxPaths,
			})
			if err != nil {
				return err
			}
			for _, p := range paths {
				vertexIDs := p.VertexIDs()
				strs := make([]string, len(vertexIDs))
				for i, id := range vertexIDs {
					strs[i] = id.String()
				}
				fmt.Println(strings.Join(strs, " -> "))
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&minLen, "min", 1, "minimum path length")
	cmd.Flags().IntVar(&maxLen, "max", 0, "maximum path length (0 = use GRAPHDB_VLE_MAX_LENGTH_DEFAULT)")
	cmd.Flags().BoolVar(&allowCycles, "allow-cycles", false, "allow revisiting a vertex within one path")
	cmd.Flags().IntVar(&maxPaths, "max-paths", 0, "cap the number of returned paths (0 = unlimited)")
	return cmd
}

func newStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print vertex/edge counts and disk usage for the namespace",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			e, err := openEngine(cfg)
			if err != nil {
				return fmt.Errorf("opening engine: %w", err)
			}
			defer e.Close()

			s, err := e.Stats()
			if err != nil {
				return fmt.Errorf("computing stats: %w", err)
			}
			fmt.Println(s.String())
			for _, l := range s.Labels {
				fmt.Printf("  %s: %d vertices, %d edges\n", l.Label, l.VertexCount, l.EdgeCount)
			}
			return nil
		},
	}
}

func parseIdentifier(s string) (ids.Identifier, error) {
	raw, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid vertex id %q: %w", s, err)
	}
	return ids.FromRaw(raw), nil
}
