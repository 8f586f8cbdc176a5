// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/paulmach/orb"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/ogc-records/internal/catalog"
	"github.com/pdiddy/ogc-records/internal/record"
	"github.com/pdiddy/ogc-records/pkg/types"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Manage the local record catalog (index, get, list, export)",
	Long: `Catalog manages a local SQLite database of generated records. Use
subcommands to index record files, fetch one record, list records by
bounding box or text, or export summaries.`,
}

// --- index subcommand ---

var catalogIndexCmd = &cobra.Command{
	Use:   "index <record.json>...",
	Short: "Store record JSON files in the catalog",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := catalog.NewStore(catalogConfig())
		if err != nil {
			return err
		}
		defer store.Close()

		summary, err := store.IndexFiles(cmd.Context(), args, os.Stdout)
		if err != nil {
			return err
		}
		if summary.Failed > 0 {
			return fmt.Errorf("%d file(s) failed indexing", summary.Failed)
		}
		return nil
	},
}

// --- get subcommand ---

var catalogGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Print one stored record",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := catalog.NewStore(catalogConfig())
		if err != nil {
			return err
		}
		defer store.Close()

		rec, err := store.Get(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		data, err := record.Marshal(rec)
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	},
}

// --- list subcommand ---

var catalogListCmd = &cobra.Command{
	Use:   "list [query]",
	Short: "List stored records, optionally filtered by bbox or text",
	RunE:  runCatalogList,
}

func runCatalogList(cmd *cobra.Command, args []string) error {
	opts, err := listOptsFromFlags(cmd, args)
	if err != nil {
		return err
	}

	store, err := catalog.NewStore(catalogConfig())
	if err != nil {
		return err
	}
	defer store.Close()

	sums, err := store.List(cmd.Context(), opts)
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(sums)
	}

	if len(sums) == 0 {
		fmt.Println("No records found.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-24s  %-40s  %s\n", "ID", "Title", "BBox")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 100))
	for _, s := range sums {
		fmt.Fprintf(os.Stdout, "%-24s  %-40s  %v\n", truncate(s.ID, 24), truncate(s.Title, 40), s.BBox)
	}
	fmt.Fprintf(os.Stdout, "\n%d records\n", len(sums))
	return nil
}

// --- export subcommand ---

var catalogExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export catalog summaries to stdout as YAML or JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")

		opts, err := listOptsFromFlags(cmd, args)
		if err != nil {
			return err
		}

		store, err := catalog.NewStore(catalogConfig())
		if err != nil {
			return err
		}
		defer store.Close()

		switch format {
		case "yaml", "":
			return store.ExportYAML(cmd.Context(), os.Stdout, opts)
		case "json":
			return store.ExportJSON(cmd.Context(), os.Stdout, opts)
		default:
			return fmt.Errorf("unsupported format %q: use yaml or json", format)
		}
	},
}

// --- shared helpers ---

// truncate shortens s to at most n runes, ending in "..." when cut.
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n-3]) + "..."
}

func catalogConfig() types.CatalogConfig {
	dir := viper.GetString("catalog.dir")
	if dir == "" {
		dir = "catalog"
	}
	return types.CatalogConfig{
		Dir:        dir,
		MaxResults: viper.GetInt("catalog.max_results"),
	}
}

func listOptsFromFlags(cmd *cobra.Command, args []string) (catalog.ListOptions, error) {
	queryText, _ := cmd.Flags().GetString("query")
	if queryText == "" && len(args) > 0 {
		queryText = strings.Join(args, " ")
	}
	limit, _ := cmd.Flags().GetInt("limit")

	opts := catalog.ListOptions{Query: queryText, Limit: limit}

	bboxText, _ := cmd.Flags().GetString("bbox")
	if bboxText != "" {
		b, err := parseBBox(bboxText)
		if err != nil {
			return opts, err
		}
		opts.BBox = &b
	}
	return opts, nil
}

// parseBBox reads "minx,miny,maxx,maxy".
func parseBBox(s string) (orb.Bound, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return orb.Bound{}, fmt.Errorf("bbox %q: want minx,miny,maxx,maxy", s)
	}
	var v [4]float64
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return orb.Bound{}, fmt.Errorf("bbox %q: %w", s, err)
		}
		v[i] = f
	}
	return orb.Bound{Min: orb.Point{v[0], v[1]}, Max: orb.Point{v[2], v[3]}}, nil
}

func init() {
	catalogCmd.PersistentFlags().Int("max-results", 50, "default maximum number of listed records")
	viper.BindPFlag("catalog.max_results", catalogCmd.PersistentFlags().Lookup("max-results"))

	for _, c := range []*cobra.Command{catalogListCmd, catalogExportCmd} {
		c.Flags().String("query", "", "case-insensitive text filter on title and description")
		c.Flags().String("bbox", "", "bounding box filter: minx,miny,maxx,maxy")
		c.Flags().Int("limit", 0, "maximum records (0 = default for list, all for export)")
	}
	catalogListCmd.Flags().Bool("json", false, "output results as JSON")
	catalogExportCmd.Flags().String("format", "yaml", "export format: yaml or json")

	catalogCmd.AddCommand(catalogIndexCmd)
	catalogCmd.AddCommand(catalogGetCmd)
	catalogCmd.AddCommand(catalogListCmd)
	catalogCmd.AddCommand(catalogExportCmd)

	rootCmd.AddCommand(catalogCmd)
}
