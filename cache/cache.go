// Records results fetched from the API, partitioned by category
package cache

// Category is a cache partition key
type Category string

const (
	Gifs         Category = "gifs"
	Jpgs         Category = "jpgs"
	HTTPs        Category = "https"
	RandomImages Category = "random_images"
)

// Store interface for recording fetched results
type Store interface {
	// appends entry to the list of category, creating the list if absent
	Record(category Category, entry Entry)
	// returns the entries of category in insertion order.
	// returns nil, false when nothing was recorded yet
	Get(category Category) ([]Entry, bool)
	// returns every category with its entries
	All() map[Category][]Entry
}
