package rag

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
)

// nothingFound is the explicit empty-result answer. Recall queries always
// produce a sentence, never a blank string.
const nothingFound = "I couldn't find anything matching that in your history."

// SmartRecall wraps RetrieveContext and renders a short multi-section
// summary (top items per source) for direct display, as opposed to the
// raw context block meant for model consumption.
func (e *Engine) SmartRecall(ctx context.Context, queryText string) (string, error) {
	result, err := e.RetrieveContext(ctx, queryText)
	if err != nil {
		return "", err
	}
	if result.IsEmpty() {
		return nothingFound, nil
	}

	now := time.Now()
	var b strings.Builder
	b.WriteString("Here's what I found:\n")

	if len(result.Memories) > 0 {
		b.WriteString("\nRemembered facts:\n")
		for _, r := range topN(result.Memories, 3) {
			fmt.Fprintf(&b, "- %s: %s\n", r.Item.Key, truncateText(r.Item.Value, 120))
		}
	}
	if len(result.Activity) > 0 {
		b.WriteString("\nScreen activity:\n")
		for _, r := range topN(result.Activity, 3) {
			b.WriteString(formatActivityLine(r.Item, now) + "\n")
		}
	}
	if len(result.Clipboard) > 0 {
		b.WriteString("\nClipboard:\n")
		for _, r := range topN(result.Clipboard, 3) {
			fmt.Fprintf(&b, "- [%s] %s\n", relativeTime(r.Item.CreatedAt, now), truncateText(r.Item.Content, 120))
		}
	}
	if len(result.Searches) > 0 {
		b.WriteString("\nSearches:\n")
		for _, r := range topN(result.Searches, 3) {
			fmt.Fprintf(&b, "- [%s] %q\n", relativeTime(r.Item.CreatedAt, now), r.Item.Query)
		}
	}

	return strings.TrimSpace(b.String()), nil
}

func topN[T Item](ranked []Ranked[T], n int) []Ranked[T] {
	if len(ranked) > n {
		return ranked[:n]
	}
	return ranked
}

// recallCategory is the routed intent of a recall query.
type recallCategory int

const (
	categoryGeneral recallCategory = iota
	categoryClipboard
	categorySearch
	categoryAppUsage
	categoryActivity
)

var (
	clipboardPattern = regexp.MustCompile(`(?i)\bclip\s?board\b|\bcopied\b|\bcopy\b|\bpaste[d]?\b`)
	searchPattern    = regexp.MustCompile(`(?i)\bsearch(es|ed)?\b|\blooked up\b|\bgoogled\b`)
	appUsagePattern  = regexp.MustCompile(`(?i)\bapps?\b.*\b(use[d]?|open(ed)?)\b|\b(use[d]?|open(ed)?)\b.*\bapps?\b|\bapp usage\b`)
	activityPattern  = regexp.MustCompile(`(?i)\bdoing\b|\bactivity\b|\bscreen\b|\breading\b|\blooking at\b`)
)

func classifyRecallQuery(queryText string) recallCategory {
	switch {
	case clipboardPattern.MatchString(queryText):
		return categoryClipboard
	case searchPattern.MatchString(queryText):
		return categorySearch
	case appUsagePattern.MatchString(queryText):
		return categoryAppUsage
	case activityPattern.MatchString(queryText):
		return categoryActivity
	}
	return categoryGeneral
}

// timeWindow is a half-open [Start, End) interval; a zero End means "now".
type timeWindow struct {
	Start time.Time
	End   time.Time
	Label string
}

func (w timeWindow) contains(t time.Time) bool {
	if t.Before(w.Start) {
		return false
	}
	return w.End.IsZero() || t.Before(w.End)
}

var (
	lastHoursPattern = regexp.MustCompile(`(?i)\blast\s+(\d+)\s+hours?\b`)
	lastDaysPattern  = regexp.MustCompile(`(?i)\blast\s+(\d+)\s+days?\b`)
)

// parseTimeWindow extracts a time window from phrases like "yesterday",
// "today", "this week", "last hour", "last N hours", "last N days".
// Queries without a recognizable phrase get a default 24-hour window.
func parseTimeWindow(queryText string, now time.Time) timeWindow {
	lower := strings.ToLower(queryText)
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	switch {
	case strings.Contains(lower, "yesterday"):
		return timeWindow{Start: midnight.AddDate(0, 0, -1), End: midnight, Label: "yesterday"}
	case strings.Contains(lower, "today"):
		return timeWindow{Start: midnight, Label: "today"}
	case strings.Contains(lower, "this week"):
		// Week starts Monday.
		offset := (int(now.Weekday()) + 6) % 7
		return timeWindow{Start: midnight.AddDate(0, 0, -offset), Label: "this week"}
	}

	if m := lastHoursPattern.FindStringSubmatch(lower); m != nil {
		n, _ := strconv.Atoi(m[1])
		return timeWindow{Start: now.Add(-time.Duration(n) * time.Hour), Label: fmt.Sprintf("the last %d hours", n)}
	}
	if m := lastDaysPattern.FindStringSubmatch(lower); m != nil {
		n, _ := strconv.Atoi(m[1])
		return timeWindow{Start: now.AddDate(0, 0, -n), Label: fmt.Sprintf("the last %d days", n)}
	}
	if strings.Contains(lower, "last hour") {
		return timeWindow{Start: now.Add(-time.Hour), Label: "the last hour"}
	}

	return timeWindow{Start: now.Add(-24 * time.Hour), Label: "the last 24 hours"}
}

// maxRecallAnswerItems caps how many matched items a recall answer lists.
const maxRecallAnswerItems = 10

// AnswerRecallQuery routes a natural-language recall question to the
// matching source's time-windowed fetch and renders a templated answer.
// Queries matching no category fall back to the full retrieval pipeline
// via SmartRecall.
func (e *Engine) AnswerRecallQuery(ctx context.Context, queryText string) (string, error) {
	now := time.Now()
	window := parseTimeWindow(queryText, now)

	switch classifyRecallQuery(queryText) {
	case categoryClipboard:
		return e.answerClipboard(ctx, window, now)
	case categorySearch:
		return e.answerSearches(ctx, window, now)
	case categoryAppUsage:
		return e.answerAppUsage(ctx, window)
	case categoryActivity:
		return e.answerActivity(ctx, window, now)
	}
	return e.SmartRecall(ctx, queryText)
}

func (e *Engine) answerClipboard(ctx context.Context, w timeWindow, now time.Time) (string, error) {
	items := since(ctx, e.stores.Clipboard, w, e)
	if len(items) == 0 {
		return nothingFound, nil
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Clipboard items from %s:\n", w.Label)
	for _, it := range items {
		fmt.Fprintf(&b, "- [%s] %s\n", relativeTime(it.CreatedAt, now), truncateText(it.Content, 120))
	}
	return strings.TrimSpace(b.String()), nil
}

func (e *Engine) answerSearches(ctx context.Context, w timeWindow, now time.Time) (string, error) {
	items := since(ctx, e.stores.Search, w, e)
	if len(items) == 0 {
		return nothingFound, nil
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Searches from %s:\n", w.Label)
	for _, it := range items {
		line := fmt.Sprintf("- [%s] %q", relativeTime(it.CreatedAt, now), it.Query)
		if it.SourceApp != "" {
			line += " in " + it.SourceApp
		}
		b.WriteString(line + "\n")
	}
	return strings.TrimSpace(b.String()), nil
}

func (e *Engine) answerActivity(ctx context.Context, w timeWindow, now time.Time) (string, error) {
	items := since(ctx, e.stores.Activity, w, e)
	if len(items) == 0 {
		return nothingFound, nil
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Screen activity from %s:\n", w.Label)
	for _, it := range items {
		b.WriteString(formatActivityLine(it, now) + "\n")
	}
	return strings.TrimSpace(b.String()), nil
}

// answerAppUsage aggregates activity entries into per-app counts instead
// of listing raw snapshots.
func (e *Engine) answerAppUsage(ctx context.Context, w timeWindow) (string, error) {
	if e.stores.Activity == nil {
		return nothingFound, nil
	}
	items, err := e.stores.Activity.Since(ctx, w.Start)
	if err != nil {
		e.logger.Warn("activity fetch failed", "error", err)
		return nothingFound, nil
	}

	counts := make(map[string]int)
	for _, it := range items {
		if !w.contains(it.CreatedAt) || it.AppName == "" {
			continue
		}
		counts[it.AppName]++
	}
	if len(counts) == 0 {
		return nothingFound, nil
	}

	type appCount struct {
		name  string
		count int
	}
	apps := make([]appCount, 0, len(counts))
	for name, n := range counts {
		apps = append(apps, appCount{name, n})
	}
	sort.SliceStable(apps, func(i, j int) bool { return apps[i].count > apps[j].count })
	if len(apps) > maxRecallAnswerItems {
		apps = apps[:maxRecallAnswerItems]
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Apps you used %s:\n", w.Label)
	for _, a := range apps {
		fmt.Fprintf(&b, "- %s (%d screens)\n", a.name, a.count)
	}
	return strings.TrimSpace(b.String()), nil
}

// since fetches a store's items inside the window, newest first, capped
// at maxRecallAnswerItems. Store failures surface as an empty result.
func since[T Item](ctx context.Context, store Store[T], w timeWindow, e *Engine) []T {
	if store == nil {
		return nil
	}
	items, err := store.Since(ctx, w.Start)
	if err != nil {
		e.logger.Warn("time-windowed fetch failed", "error", err)
		return nil
	}
	kept := items[:0]
	for _, it := range items {
		if w.contains(it.Time()) {
			kept = append(kept, it)
		}
	}
	if len(kept) > maxRecallAnswerItems {
		kept = kept[:maxRecallAnswerItems]
	}
	return kept
}
