// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/pdiddy/ogc-records/pkg/types"
)

// IndexSummary holds counts from an indexing run.
type IndexSummary struct {
	Indexed int
	Failed  int
}

// Total returns the number of files processed.
func (s IndexSummary) Total() int {
	return s.Indexed + s.Failed
}

// IndexFiles reads record JSON documents from paths and stores each one.
// Per-file progress goes to w; a failing file is counted and skipped.
func (s *Store) IndexFiles(ctx context.Context, paths []string, w io.Writer) (IndexSummary, error) {
	var summary IndexSummary

	for _, path := range paths {
		select {
		case <-ctx.Done():
			return summary, ctx.Err()
		default:
		}

		name := filepath.Base(path)
		rec, err := readRecord(path)
		if err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", name, err)
			summary.Failed++
			continue
		}
		if err := s.Put(ctx, rec); err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", name, err)
			summary.Failed++
			continue
		}
		fmt.Fprintf(w, "indexed %s (%s)\n", name, rec.ID)
		summary.Indexed++
	}

	fmt.Fprintf(w, "\nindexed: %d, failed: %d\n", summary.Indexed, summary.Failed)
	return summary, nil
}

func readRecord(path string) (*types.Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var rec types.Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("parse error: %w", err)
	}
	if rec.ID == "" {
		return nil, fmt.Errorf("record has no id")
	}
	return &rec, nil
}
