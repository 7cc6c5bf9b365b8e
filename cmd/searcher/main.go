// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/poiesic/cinevec"
	"github.com/poiesic/cinevec/core"
	"github.com/poiesic/cinevec/search"
)

var (
	dbPath     = flag.String("db", "./catalog_db", "path to BadgerDB database directory")
	typeFilter = flag.String("type", "", "only recommend this category")
	genre      = flag.String("genre", "", "only recommend titles listed under this genre")
	limit      = flag.Int("limit", 5, "number of recommendations")
)

func init() {
	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	slog.SetDefault(slog.New(handler))
	flag.Parse()
}

// traceMonitor logs each ranking stage.
type traceMonitor struct{}

func (traceMonitor) Start(query string, filter search.Filter) {
	slog.Info("ranking", "query", query, "type", filter.Type, "genre", filter.Genre)
}

func (traceMonitor) AfterEmbedding(vector []float32) {
	slog.Info("query embedded", "dimension", len(vector))
}

func (traceMonitor) AfterScan(scanned, matched, skipped int) {
	slog.Info("scan complete", "scanned", scanned, "matched", matched, "skipped", skipped)
}

func (traceMonitor) Finish(results []*core.RankedResult) {
	slog.Info("ranking complete", "results", len(results))
}

func main() {
	db, err := cinevec.NewDatabase(*dbPath)
	if err != nil {
		panic(err)
	}
	defer db.Close()
	recommender, err := db.NewRecommender()
	if err != nil {
		panic(err)
	}

	query := "sci-fi thriller"
	if flag.NArg() > 0 {
		query = strings.Join(flag.Args(), " ")
	}

	ctx := context.Background()
	filter := search.Filter{Type: *typeFilter, Genre: *genre}
	results, err := recommender.RecommendText(ctx, query, filter, *limit, traceMonitor{})
	if err != nil {
		panic(err)
	}

	fmt.Printf("Found %d hits\n", len(results))
	for i, hit := range results {
		fmt.Printf("%d: '%s' [%s] (%s)[%0.2f]\n", i, hit.Title, hit.Type, hit.ShowID, hit.Similarity)
	}
}
