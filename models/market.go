package models

// MarketFeedItem is a single headline in the supplementary news feed.
// URL may be the "#" placeholder when no citation was available.
type MarketFeedItem struct {
	Headline  string `json:"headline"`
	Source    string `json:"source"`
	URL       string `json:"url"`
	Timestamp string `json:"timestamp"`
}
