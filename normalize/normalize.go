package normalize

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/poiesic/vitrine/core"
	"github.com/poiesic/vitrine/vision"
)

// menTokens are category-label tokens that flip the gender heuristic.
// Matching is token-based, not substring-based, so "Women's" never matches.
var menTokens = map[string]bool{
	"men":      true,
	"mens":     true,
	"menswear": true,
}

// fabricKeywords are the known fabric tags detected in category labels,
// in the order they are emitted. One tag per keyword, however many labels
// mention it.
var fabricKeywords = []string{"cashmere", "wool", "cotton"}

// metadataFields are raw listing fields carried through opaquely for
// downstream use. The values are never validated or interpreted.
var metadataFields = map[string]string{
	"centraProductId":           "centra_product_id",
	"sku":                       "sku",
	"product_sku":               "product_sku",
	"variantsCount":             "variants_count",
	"isNew":                     "is_new",
	"isOnSale":                  "is_on_sale",
	"categories":                "categories",
	"sustainabilityComposition": "sustainability_composition",
}

// Outcome classifies the result of normalizing one raw listing.
type Outcome int

const (
	// OutcomeNormalized means a canonical product was produced.
	OutcomeNormalized Outcome = iota + 1
	// OutcomeSkipped means a required field was absent; the record is
	// dropped as a data condition, not counted as a failure.
	OutcomeSkipped
	// OutcomeInvalid means the entry was malformed in an unexpected way;
	// only this record is aborted, never the batch.
	OutcomeInvalid
)

// String renders the outcome for logs.
func (o Outcome) String() string {
	switch o {
	case OutcomeNormalized:
		return "normalized"
	case OutcomeSkipped:
		return "skipped"
	case OutcomeInvalid:
		return "invalid"
	default:
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
}

// Result is the outcome of normalizing one raw listing.
// Product is set only for OutcomeNormalized; Reason explains a skip;
// Err carries the malformation for OutcomeInvalid.
type Result struct {
	Outcome Outcome
	Product *core.Product
	Reason  string
	Err     error
}

// Normalizer converts raw catalog listings into canonical products.
// The embedder is injected at construction time so it can be substituted
// with a stub in tests; a nil embedder skips the embedding step entirely.
type Normalizer struct {
	embedder   vision.ImageEmbedder
	source     string
	baseURL    string
	brand      string
	currency   string
	country    string
	titleCaser cases.Caser
	logger     *slog.Logger
}

// Option configures a Normalizer.
type Option func(*Normalizer)

// WithSource sets the source identifier used in natural keys and display IDs.
// Default is "cos".
func WithSource(source string) Option {
	return func(n *Normalizer) {
		n.source = source
	}
}

// WithBaseURL sets the base path joined with each listing's relative URI.
// Default is the COS EU storefront.
func WithBaseURL(baseURL string) Option {
	return func(n *Normalizer) {
		n.baseURL = baseURL
	}
}

// WithBrand sets the brand recorded on every product.
func WithBrand(brand string) Option {
	return func(n *Normalizer) {
		n.brand = brand
	}
}

// WithCurrency sets the ISO currency code recorded on every product.
func WithCurrency(currency string) Option {
	return func(n *Normalizer) {
		n.currency = currency
	}
}

// WithCountry sets the country marker recorded on every product.
func WithCountry(country string) Option {
	return func(n *Normalizer) {
		n.country = country
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(n *Normalizer) {
		if logger == nil {
			logger = slog.Default()
		}
		n.logger = logger
	}
}

// NewNormalizer creates a normalizer for one catalog source.
// A nil embedder is allowed and disables embedding attachment.
func NewNormalizer(embedder vision.ImageEmbedder, opts ...Option) *Normalizer {
	n := &Normalizer{
		embedder:   embedder,
		source:     "cos",
		baseURL:    "https://www.cos.com/en-eu/",
		brand:      "COS",
		currency:   "EUR",
		country:    "EU",
		titleCaser: cases.Title(language.English),
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(n)
	}
	n.logger = n.logger.With("component", "normalizer", "source", n.source)
	return n
}

// Normalize converts one raw listing into a canonical product.
// Rules apply in a fixed order and each is a potential termination point;
// see the Result type for the three outcome kinds.
func (n *Normalizer) Normalize(ctx context.Context, raw RawListing) Result {
	externalID, err := raw.stringOrNumber("id")
	if err != nil {
		return n.invalid(raw, err)
	}
	if externalID == "" {
		return n.skipped(raw, ErrMissingExternalID)
	}

	uri, err := raw.str("uri")
	if err != nil {
		return n.invalid(raw, err)
	}
	productURL := ""
	if uri != "" {
		productURL = joinURL(n.baseURL, uri)
	}

	imageURL, err := n.resolveImageURL(raw)
	if err != nil {
		return n.invalid(raw, err)
	}
	if imageURL == "" {
		return n.skipped(raw, ErrMissingImage)
	}

	name, err := raw.str("name")
	if err != nil {
		return n.invalid(raw, err)
	}
	title := strings.TrimSpace(name)
	if title == "" {
		return n.skipped(raw, ErrMissingTitle)
	}

	categories, err := raw.stringList("categories")
	if err != nil {
		return n.invalid(raw, err)
	}

	priceText, err := raw.str("price")
	if err != nil {
		return n.invalid(raw, err)
	}
	price, ok := ParsePrice(priceText)
	if !ok && priceText != "" {
		// Data-quality condition, not an error: the record is kept at 0.0.
		n.logger.Warn("unparseable price, defaulting to 0.0",
			"id", externalID, "price", priceText)
	}

	categoryURI, err := raw.str("categoryUri")
	if err != nil {
		return n.invalid(raw, err)
	}

	metadata, err := n.buildMetadata(raw)
	if err != nil {
		return n.invalid(raw, err)
	}

	product := &core.Product{
		Key: core.Key{
			Source:     n.source,
			ProductURL: productURL,
		},
		Id:       fmt.Sprintf("%s_%s", n.source, externalID),
		Title:    title,
		ImageURL: imageURL,
		Gender:   detectGender(categories),
		Price:    price,
		Currency: n.currency,
		Brand:    n.brand,
		Category: n.deriveCategory(categoryURI),
		Tags:     detectTags(categories),
		Metadata: metadata,
		Country:  n.country,
	}

	if err := core.ValidateProduct(product); err != nil {
		return n.invalid(raw, err)
	}

	n.attachEmbedding(ctx, product)

	return Result{Outcome: OutcomeNormalized, Product: product}
}

// resolveImageURL prefers the designated primary image and falls back to
// the first entry of the images list.
func (n *Normalizer) resolveImageURL(raw RawListing) (string, error) {
	primary, err := raw.object("primaryImage")
	if err != nil {
		return "", err
	}
	if primary != nil {
		src, err := primary.str("src")
		if err != nil {
			return "", err
		}
		if src != "" {
			return src, nil
		}
	}

	images, err := raw.objectList("images")
	if err != nil {
		return "", err
	}
	if len(images) > 0 {
		return images[0].str("src")
	}
	return "", nil
}

// deriveCategory turns the category URI's last path segment into a display
// label: separators become spaces and the words are title-cased.
func (n *Normalizer) deriveCategory(categoryURI string) string {
	if !strings.Contains(categoryURI, "/") {
		return ""
	}
	segments := strings.Split(categoryURI, "/")
	last := segments[len(segments)-1]
	if last == "" {
		return ""
	}
	return n.titleCaser.String(strings.ReplaceAll(last, "-", " "))
}

// buildMetadata serializes the pass-through fields plus every image URL
// into an opaque JSON blob.
func (n *Normalizer) buildMetadata(raw RawListing) (string, error) {
	meta := make(map[string]any, len(metadataFields)+1)
	for rawKey, metaKey := range metadataFields {
		if v, ok := raw[rawKey]; ok {
			meta[metaKey] = v
		}
	}
	// Flags default to false rather than absent
	if _, ok := meta["is_new"]; !ok {
		meta["is_new"] = false
	}
	if _, ok := meta["is_on_sale"]; !ok {
		meta["is_on_sale"] = false
	}

	images, err := raw.objectList("images")
	if err != nil {
		return "", err
	}
	all := make([]string, 0, len(images))
	for _, img := range images {
		src, err := img.str("src")
		if err != nil {
			return "", err
		}
		if src != "" {
			all = append(all, src)
		}
	}
	meta["all_images"] = all

	blob, err := json.Marshal(meta)
	if err != nil {
		return "", fmt.Errorf("serialize metadata: %w", err)
	}
	return string(blob), nil
}

// attachEmbedding invokes the embedding provider and degrades on failure:
// the product is kept, the vector stays absent.
func (n *Normalizer) attachEmbedding(ctx context.Context, product *core.Product) {
	if n.embedder == nil {
		return
	}

	n.logger.Info("generating embedding", "id", product.Id, "title", product.Title)

	vector, err := n.embedder.EmbedImage(ctx, product.ImageURL)
	if err != nil {
		n.logger.Warn("embedding generation failed, continuing without vector",
			"id", product.Id, "err", err)
		return
	}
	if len(vector) != n.embedder.Dim() {
		// Never attach a partially populated vector.
		n.logger.Warn("embedding dimension mismatch, discarding vector",
			"id", product.Id, "expected", n.embedder.Dim(), "received", len(vector))
		return
	}
	// Stores score with a plain dot product, so only unit vectors go in.
	product.Embedding = vision.NormalizeVector(vector)
}

func (n *Normalizer) skipped(raw RawListing, reason error) Result {
	n.logger.Info("skipping listing", "id", rawID(raw), "reason", reason)
	return Result{Outcome: OutcomeSkipped, Reason: reason.Error()}
}

func (n *Normalizer) invalid(raw RawListing, err error) Result {
	n.logger.Error("failed to normalize listing", "id", rawID(raw), "err", err)
	return Result{Outcome: OutcomeInvalid, Err: err}
}

// rawID extracts a best-effort identifier for log lines only.
func rawID(raw RawListing) string {
	if id, err := raw.stringOrNumber("id"); err == nil && id != "" {
		return id
	}
	return "unknown"
}

// detectGender scans category labels for a men's token.
// Ambiguous or empty category lists default to WOMAN; this is a heuristic,
// not authoritative.
func detectGender(categories []string) core.Gender {
	for _, label := range categories {
		for _, token := range tokenize(label) {
			if menTokens[token] {
				return core.GenderMan
			}
		}
	}
	return core.GenderWoman
}

// detectTags scans category labels for known fabric keywords.
// An empty result is nil, matching "field absent" semantics in the store.
func detectTags(categories []string) []string {
	var tags []string
	for _, keyword := range fabricKeywords {
		for _, label := range categories {
			if strings.Contains(strings.ToLower(label), keyword) {
				tags = append(tags, keyword)
				break
			}
		}
	}
	return tags
}

// tokenize lowercases a label and splits it on non-letter boundaries.
func tokenize(label string) []string {
	return strings.FieldsFunc(strings.ToLower(label), func(r rune) bool {
		return r < 'a' || r > 'z'
	})
}

// joinURL joins the fixed base path with a listing's relative URI.
func joinURL(base, uri string) string {
	return strings.TrimSuffix(base, "/") + "/" + strings.TrimPrefix(uri, "/")
}
