package models

// FeedItem is one card of the discovery feed. The feed is read-only for the
// client; items are only ever replaced by a refresh.
type FeedItem struct {
	ItemID    string   `json:"itemId"`
	Type      string   `json:"type"`
	Author    string   `json:"author,omitempty"`
	ImageURL  string   `json:"imageUrl,omitempty"`
	Caption   string   `json:"caption,omitempty"`
	PlaceIDs  []string `json:"placeIds,omitempty"`
	SortToken string   `json:"sort,omitempty"`
	Created   int64    `json:"createdMillis,omitempty"`
	Updated   int64    `json:"updatedMillis,omitempty"`
}

func (f FeedItem) Key() string          { return f.ItemID }
func (f FeedItem) UpdatedMillis() int64 { return f.Updated }
func (f FeedItem) Sort() string         { return f.SortToken }
