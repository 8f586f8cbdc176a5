// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path/filepath"

	"github.com/google/renameio/v2"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/ogc-records/internal/catalog"
	"github.com/pdiddy/ogc-records/internal/httputil"
	"github.com/pdiddy/ogc-records/internal/mcf"
	"github.com/pdiddy/ogc-records/internal/record"
	"github.com/pdiddy/ogc-records/pkg/types"
)

const defaultJobs = 4

var buildCmd = &cobra.Command{
	Use:   "build <mcf.yml|url>...",
	Short: "Build OGC records from MCF documents",
	Long: `Build reads each MCF document (a local file or an http(s) URL), checks
the fields a record needs, and writes the record as 4-space indented JSON.

Without --output-dir records are printed to stdout in argument order. With
--output-dir each record is written atomically to <dir>/<id>.json. --index
also stores every record in the catalog.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runBuild,
}

// buildResult is the outcome for one input, reported in argument order.
type buildResult struct {
	source string
	rec    *types.Record
	data   []byte
	err    error
}

func runBuild(cmd *cobra.Command, args []string) error {
	cfg := buildConfig()
	ctx := cmd.Context()

	var store *catalog.Store
	if cfg.Index {
		s, err := catalog.NewStore(catalogConfig())
		if err != nil {
			return err
		}
		defer s.Close()
		store = s
	}
	if cfg.OutputDir != "" {
		if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
	}

	builder := record.NewBuilder()
	client := &http.Client{Timeout: cfg.Timeout}

	results := make([]buildResult, len(args))
	var g errgroup.Group
	g.SetLimit(cfg.Jobs)
	for i, src := range args {
		g.Go(func() error {
			results[i] = buildOne(ctx, builder, client, cfg.HTTPConfig, src)
			return nil
		})
	}
	g.Wait()

	failed := 0
	for _, r := range results {
		if r.err == nil {
			r.err = emit(ctx, r, cfg, store)
		}
		if r.err != nil {
			log.Error().Err(r.err).Str("source", r.source).Msg("build failed")
			failed++
			continue
		}
		log.Info().Str("source", r.source).Str("id", r.rec.ID).Msg("record built")
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d MCF document(s) failed", failed, len(args))
	}
	return nil
}

func buildOne(ctx context.Context, builder *record.Builder, client *http.Client, httpCfg types.HTTPConfig, src string) buildResult {
	res := buildResult{source: src}

	m, err := loadSource(ctx, client, httpCfg, src)
	if err != nil {
		res.err = err
		return res
	}
	res.rec, res.err = builder.Build(m)
	if res.err != nil {
		return res
	}
	res.data, res.err = record.Marshal(res.rec)
	return res
}

// loadSource reads an MCF from a file or, for http(s) sources, over HTTP.
// A base: reference in a remote document resolves against the working
// directory.
func loadSource(ctx context.Context, client *http.Client, httpCfg types.HTTPConfig, src string) (*types.MCF, error) {
	if !httputil.IsURL(src) {
		return mcf.Load(src)
	}
	data, err := httputil.Fetch(ctx, client, src, httpCfg)
	if err != nil {
		return nil, err
	}
	return mcf.Parse(data, "")
}

func emit(ctx context.Context, r buildResult, cfg types.BuildConfig, store *catalog.Store) error {
	if cfg.OutputDir == "" {
		if _, err := fmt.Fprintf(os.Stdout, "%s\n", r.data); err != nil {
			return err
		}
	} else {
		path := filepath.Join(cfg.OutputDir, url.PathEscape(r.rec.ID)+".json")
		if err := renameio.WriteFile(path, append(r.data, '\n'), 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
		log.Debug().Str("path", path).Msg("record written")
	}

	if store != nil {
		if err := store.Put(ctx, r.rec); err != nil {
			return err
		}
	}
	return nil
}

func buildConfig() types.BuildConfig {
	cfg := types.BuildConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:    viper.GetDuration("build.timeout"),
			UserAgent:  viper.GetString("build.user_agent"),
			MaxRetries: viper.GetInt("build.max_retries"),
		},
		OutputDir: viper.GetString("build.output_dir"),
		Jobs:      viper.GetInt("build.jobs"),
		Index:     viper.GetBool("build.index"),
	}
	if cfg.Jobs <= 0 {
		cfg.Jobs = defaultJobs
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = "ogc-records/" + version
	}
	return cfg
}

func init() {
	f := buildCmd.Flags()
	f.String("output-dir", "", "write <id>.json files here instead of stdout")
	f.Bool("index", false, "also store built records in the catalog")
	f.Int("jobs", defaultJobs, "number of documents built concurrently")
	f.Duration("timeout", 0, "HTTP timeout for remote MCF documents (0 = none)")
	f.Int("max-retries", 5, "retries for HTTP 429 and 5xx responses")
	f.String("user-agent", "", "User-Agent header for remote MCF documents")

	viper.BindPFlag("build.output_dir", f.Lookup("output-dir"))
	viper.BindPFlag("build.index", f.Lookup("index"))
	viper.BindPFlag("build.jobs", f.Lookup("jobs"))
	viper.BindPFlag("build.timeout", f.Lookup("timeout"))
	viper.BindPFlag("build.max_retries", f.Lookup("max-retries"))
	viper.BindPFlag("build.user_agent", f.Lookup("user-agent"))

	rootCmd.AddCommand(buildCmd)
}
