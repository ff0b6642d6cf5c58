package domain

// Listable is the polymorphic interface for items shown in paginated lists.
// Article, Summary and Bookmark implement it directly.
type Listable interface {
	// GetID returns the identifier, unique within its collection
	GetID() int64

	// GetTitle returns the display title
	GetTitle() string

	// GetDescription returns the secondary text (description or highlights)
	GetDescription() string

	// GetTag returns the category/source tag shown next to the title
	GetTag() string

	// GetTimestamp returns the time used for the relative date column
	GetTimestamp() Timestamp

	// BookmarkKey returns the bookmark target for this item
	BookmarkKey() BookmarkKey
}
