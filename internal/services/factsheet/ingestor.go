package factsheet

import (
	"context"
	"regexp"
	"strings"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/clientfolio/internal/interfaces"
	"github.com/ternarybob/clientfolio/internal/models"
)

// Labeled numeric fields searched for in fact-sheet text. Each label is
// followed by whitespace and a numeric token.
var (
	sixMonthPattern  = regexp.MustCompile(`(?i)\b6\s+Months?\s+(-?\d+(?:[.,]\d+)?)`)
	oneYearPattern   = regexp.MustCompile(`(?i)\b1\s+Year\s+(-?\d+(?:[.,]\d+)?)`)
	threeYearPattern = regexp.MustCompile(`(?i)\b3\s+Years\s+Annualised\s+(-?\d+(?:[.,]\d+)?)`)
)

var nameAliases = []string{"Legal Name", "Name"}
var tenforeAliases = []string{"ExportFile_TenforeId", "TenforeId", "Tenfore Id"}

// tenforePrefixLen mirrors the spreadsheet ingestor's provider prefix.
const tenforePrefixLen = 5

// Ingestor implements interfaces.FactSheetIngestor
type Ingestor struct {
	matcher   interfaces.Matcher
	ratings   interfaces.RatingsStore
	fetcher   interfaces.PDFFetcher
	extractor interfaces.PDFExtractor
	logger    arbor.ILogger
}

// Compile-time assertion
var _ interfaces.FactSheetIngestor = (*Ingestor)(nil)

// NewIngestor creates a new fact-sheet ingestor
func NewIngestor(matcher interfaces.Matcher, ratings interfaces.RatingsStore, fetcher interfaces.PDFFetcher, extractor interfaces.PDFExtractor, logger arbor.ILogger) *Ingestor {
	return &Ingestor{
		matcher:   matcher,
		ratings:   ratings,
		fetcher:   fetcher,
		extractor: extractor,
		logger:    logger,
	}
}

// Ingest processes rows and their links sequentially: one fetch, extract
// and merge at a time. Rows resolve against the ratings map's known keys,
// not against portfolio entries. A failed fetch or parse for one link is
// logged and the batch continues; later links for the same instrument may
// overwrite earlier ones within the batch.
func (i *Ingestor) Ingest(ctx context.Context, rows []models.Row, entries []models.PortfolioEntry) (interfaces.IngestResult, error) {
	result := interfaces.IngestResult{Rows: len(rows)}

	for _, row := range rows {
		links := extractLinks(row)
		if len(links) == 0 {
			result.Skipped++
			continue
		}

		name := row.Get(nameAliases...)
		isin := isinFromTenforeID(row.Get(tenforeAliases...))

		key := i.matcher.MatchKey(name, isin, i.ratings.Keys())
		if key == "" {
			result.Skipped++
			continue
		}
		keyName, keyIsin := models.SplitRatingKey(key)

		merged := false
		for _, link := range links {
			partial, err := i.parseLink(ctx, link)
			if err != nil {
				i.logger.Warn().Err(err).Str("link", link).Str("key", key).Msg("Failed to process fact-sheet link")
				result.Failed++
				continue
			}
			i.ratings.Merge(ctx, key, keyName, keyIsin, partial)
			merged = true
		}
		if merged {
			result.Matched++
		}
	}

	if err := i.ratings.Flush(ctx); err != nil {
		i.logger.Warn().Err(err).Msg("Failed to persist ratings after fact-sheet batch, keeping local map")
	}

	i.logger.Info().
		Int("rows", result.Rows).
		Int("matched", result.Matched).
		Int("skipped", result.Skipped).
		Int("failed", result.Failed).
		Msg("Fact-sheet ingestion complete")

	return result, nil
}

// parseLink fetches one fact sheet and regex-parses its labeled fields.
func (i *Ingestor) parseLink(ctx context.Context, link string) (models.PartialRating, error) {
	content, err := i.fetcher.Fetch(ctx, link)
	if err != nil {
		return models.PartialRating{}, err
	}

	text, err := i.extractor.ExtractText(ctx, content)
	if err != nil {
		return models.PartialRating{}, err
	}

	return ParseRatings(text), nil
}

// ParseRatings searches fact-sheet text for the three labeled period
// returns. A label that is absent yields an empty field, which the merge
// treats as not found.
func ParseRatings(text string) models.PartialRating {
	return models.PartialRating{
		Rating6Months: firstGroup(sixMonthPattern, text),
		Rating1Year:   firstGroup(oneYearPattern, text),
		Rating3Years:  firstGroup(threeYearPattern, text),
	}
}

func firstGroup(re *regexp.Regexp, text string) string {
	m := re.FindStringSubmatch(text)
	if len(m) < 2 {
		return ""
	}
	return m[1]
}

// extractLinks pulls hyperlink URLs out of a row: a "Link"/"Links" column
// holds one or more comma-separated URLs; when absent, the other columns
// are scanned for the first value containing "http".
func extractLinks(row models.Row) []string {
	raw := row.Get("Link", "Links")
	if raw != "" {
		var links []string
		for _, part := range strings.Split(raw, ",") {
			if part = strings.TrimSpace(part); part != "" {
				links = append(links, part)
			}
		}
		return links
	}

	for _, value := range row.Values() {
		if strings.Contains(value, "http") {
			return []string{strings.TrimSpace(value)}
		}
	}
	return nil
}

// isinFromTenforeID strips the fixed provider prefix from a Tenfore
// identifier.
func isinFromTenforeID(id string) string {
	if len(id) <= tenforePrefixLen {
		return ""
	}
	return id[tenforePrefixLen:]
}
