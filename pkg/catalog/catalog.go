package catalog

import (
	"strings"

	"github.com/librisbooks/libris/pkg/identifiers"
)

// Catalog is the deduplicated result of one folder scan. It is built once and
// read-only afterwards; a rescan produces an entirely new Catalog.
type Catalog struct {
	books   map[identifiers.ID]Book
	authors map[AuthorID]Author
}

// New builds a Catalog from a book map. The author map is derived by
// flat-mapping every book's author set; author IDs are unique per instance by
// construction, so no collisions occur.
func New(books map[identifiers.ID]Book) *Catalog {
	authors := make(map[AuthorID]Author)
	for _, book := range books {
		for _, author := range book.Authors {
			authors[author.ID] = author
		}
	}
	return &Catalog{books: books, authors: authors}
}

// AllBooks returns every book in the catalog. Order is not guaranteed.
func (c *Catalog) AllBooks() []Book {
	books := make([]Book, 0, len(c.books))
	for _, b := range c.books {
		books = append(books, b)
	}
	return books
}

// AllAuthors returns every author in the catalog. Order is not guaranteed.
func (c *Catalog) AllAuthors() []Author {
	authors := make([]Author, 0, len(c.authors))
	for _, a := range c.authors {
		authors = append(authors, a)
	}
	return authors
}

// BookByID returns the book with the exact identifier, if present.
func (c *Catalog) BookByID(id identifiers.ID) (Book, bool) {
	b, ok := c.books[id]
	return b, ok
}

// AuthorByID returns the author with the exact identifier, if present.
func (c *Catalog) AuthorByID(id AuthorID) (Author, bool) {
	a, ok := c.authors[id]
	return a, ok
}

// BooksByTitle returns books whose title contains the query substring,
// case-insensitively.
func (c *Catalog) BooksByTitle(query string) []Book {
	query = strings.ToLower(query)
	books := make([]Book, 0)
	for _, b := range c.books {
		if strings.Contains(strings.ToLower(b.Title), query) {
			books = append(books, b)
		}
	}
	return books
}

// AuthorsByName returns authors whose name contains the query substring,
// case-insensitively.
func (c *Catalog) AuthorsByName(query string) []Author {
	query = strings.ToLower(query)
	authors := make([]Author, 0)
	for _, a := range c.authors {
		if strings.Contains(strings.ToLower(a.Name), query) {
			authors = append(authors, a)
		}
	}
	return authors
}

// BooksByAuthor returns books whose author set contains the given author ID.
func (c *Catalog) BooksByAuthor(id AuthorID) []Book {
	books := make([]Book, 0)
	for _, b := range c.books {
		if b.HasAuthor(id) {
			books = append(books, b)
		}
	}
	return books
}

// BookCount returns the number of books in the catalog.
func (c *Catalog) BookCount() int {
	return len(c.books)
}

// AuthorCount returns the number of authors in the catalog.
func (c *Catalog) AuthorCount() int {
	return len(c.authors)
}
