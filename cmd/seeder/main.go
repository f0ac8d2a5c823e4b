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


// Seeder generates a synthetic catalog document for local testing. The
// output mimics a COS-style listing feed so it can be fed straight into
// "vitrine ingest" through a run manifest's files entry.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
)

var (
	count = flag.Int("count", 50, "number of products to generate")
	out   = flag.String("out", "catalog.json", "output file path")
	seed  = flag.Int64("seed", 0, "random seed (0 = fixed default)")
)

func init() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)
	flag.Parse()
}

var departments = []struct {
	uri        string
	categories []string
}{
	{"women/knitwear", []string{"Women", "Knitwear"}},
	{"women/coats-jackets", []string{"Women", "Coats & Jackets"}},
	{"women/dresses", []string{"Women", "Dresses"}},
	{"men/knitwear", []string{"Men", "Knitwear"}},
	{"men/trousers", []string{"Men", "Trousers"}},
	{"men/shirts", []string{"Men", "Shirts"}},
}

var fabrics = []string{"cashmere", "wool", "cotton", "linen", "silk"}

var garments = []string{
	"Jumper", "Cardigan", "Coat", "Jacket", "Dress",
	"Shirt", "Trousers", "Scarf", "Vest", "Sweater",
}

var adjectives = []string{
	"Relaxed-Fit", "Oversized", "Ribbed", "Boxy", "Longline",
	"Double-Faced", "Brushed", "Textured", "Slim-Fit", "Belted",
}

func main() {
	rng := rand.New(rand.NewSource(*seed))

	items := make([]map[string]any, 0, *count)
	for i := 0; i < *count; i++ {
		items = append(items, generateItem(rng, 1000+i))
	}

	doc := map[string]any{"items": items}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		slog.Error("failed to marshal catalog", "error", err)
		os.Exit(1)
	}

	if err := os.WriteFile(*out, data, 0o644); err != nil {
		slog.Error("failed to write catalog", "path", *out, "error", err)
		os.Exit(1)
	}

	slog.Info("catalog generated", "path", *out, "products", len(items))
}

func generateItem(rng *rand.Rand, id int) map[string]any {
	dept := departments[rng.Intn(len(departments))]
	fabric := fabrics[rng.Intn(len(fabrics))]
	garment := garments[rng.Intn(len(garments))]
	adjective := adjectives[rng.Intn(len(adjectives))]

	name := fmt.Sprintf("%s %s %s", adjective, title(fabric), garment)
	slug := fmt.Sprintf("%s-%s-%d", fabric, lower(garment), id)
	euros := 29 + rng.Intn(300)
	cents := rng.Intn(4) * 25

	imageURL := fmt.Sprintf("https://images.example.com/products/%d-front.jpg", id)

	return map[string]any{
		"id":           id,
		"uri":          slug,
		"name":         name,
		"price":        fmt.Sprintf("€%d,%02d", euros, cents),
		"categoryUri":  dept.uri,
		"categories":   dept.categories,
		"primaryImage": map[string]any{"src": imageURL},
		"images": []map[string]any{
			{"src": imageURL},
			{"src": fmt.Sprintf("https://images.example.com/products/%d-back.jpg", id)},
		},
		"sku":                       fmt.Sprintf("SKU%06d", id),
		"isNew":                     rng.Intn(5) == 0,
		"isOnSale":                  rng.Intn(8) == 0,
		"variantsCount":             1 + rng.Intn(5),
		"sustainabilityComposition": fmt.Sprintf("100%% %s", fabric),
	}
}

func title(s string) string {
	if s == "" {
		return s
	}
	return string(s[0]-'a'+'A') + s[1:]
}

func lower(s string) string {
	if s == "" {
		return s
	}
	return string(s[0]-'A'+'a') + s[1:]
}
