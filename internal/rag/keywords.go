package rag

import "strings"

// ExtractKeywords normalizes a query into a deduplicated, ordered list of
// content keywords: lowercase, non-alphanumeric runs become separators,
// tokens of length <= 2 and stop words are dropped, first occurrence wins.
//
// The function is pure; identical input always yields identical output.
func ExtractKeywords(query string) []string {
	normalized := normalizeText(query)

	var keywords []string
	seen := make(map[string]struct{})
	for _, tok := range strings.Fields(normalized) {
		if len(tok) <= 2 {
			continue
		}
		if _, stop := stopWords[tok]; stop {
			continue
		}
		if _, dup := seen[tok]; dup {
			continue
		}
		seen[tok] = struct{}{}
		keywords = append(keywords, tok)
	}
	return keywords
}

// normalizeText lowercases s and replaces every non-alphanumeric rune
// with a space.
func normalizeText(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		} else {
			b.WriteByte(' ')
		}
	}
	return b.String()
}

// tokenize returns the normalized tokens of s with length > 2, the form
// the lexical scorer counts term frequency over.
func tokenize(s string) []string {
	fields := strings.Fields(normalizeText(s))
	tokens := fields[:0]
	for _, f := range fields {
		if len(f) > 2 {
			tokens = append(tokens, f)
		}
	}
	return tokens
}

// stopWords are common articles, pronouns, prepositions, and auxiliary
// verbs that carry no retrieval signal.
var stopWords = map[string]struct{}{}

func init() {
	for _, w := range []string{
		"the", "and", "for", "are", "but", "not", "you", "all", "any",
		"can", "had", "her", "was", "one", "our", "out", "day", "get",
		"has", "him", "his", "how", "man", "new", "now", "old", "see",
		"two", "way", "who", "its", "did", "yes", "she", "may", "say",
		"each", "which", "their", "will", "about", "would", "there",
		"could", "other", "after", "first", "never", "these", "think",
		"where", "being", "every", "great", "might", "shall", "still",
		"those", "while", "should", "because", "through", "between",
		"under", "again", "before", "also", "does", "been", "have",
		"this", "that", "with", "they", "from", "what", "were", "when",
		"your", "said", "into", "them", "then", "than", "some", "very",
		"just", "over", "such", "only", "most", "more", "much", "here",
		"both", "down", "even", "like", "make", "made", "many", "must",
		"well", "went", "want", "give", "take", "know", "come", "came",
		"upon", "onto", "off", "own", "too", "why", "let", "got", "him",
		"her", "hers", "ours", "mine", "yours", "theirs", "myself",
		"yourself", "himself", "herself", "itself", "ourselves",
		"themselves", "whom", "whose", "anybody", "anyone", "anything",
		"everybody", "everyone", "everything", "nobody", "nothing",
		"somebody", "someone", "something", "is", "am", "be", "do",
		"doing", "done", "having", "shouldnt", "wouldnt", "couldnt",
		"cant", "dont", "doesnt", "didnt", "isnt", "arent", "wasnt",
		"werent", "its", "thats", "whats", "whos", "wheres", "whens",
		"hows", "ive", "youve", "weve", "theyve", "ill", "youll",
		"well", "theyll", "ive", "youre", "theyre", "was",
	} {
		if len(w) > 2 {
			stopWords[w] = struct{}{}
		}
	}
}
