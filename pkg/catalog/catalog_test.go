package catalog

import (
	"testing"

	"github.com/librisbooks/libris/pkg/identifiers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBook(t *testing.T) {
	t.Run("blank title is rejected", func(t *testing.T) {
		_, err := NewBook(identifiers.NewRandom(), "")
		assert.Error(t, err)
	})

	t.Run("starts with empty sets", func(t *testing.T) {
		b, err := NewBook(identifiers.NewRandom(), "Clean Architecture")
		require.NoError(t, err)
		assert.Empty(t, b.Authors)
		assert.Empty(t, b.Keywords)
		assert.Empty(t, b.Formats)
	})
}

func TestBookAddMethods(t *testing.T) {
	id := identifiers.NewRandom()
	book, err := NewBook(id, "Domain-Driven Design")
	require.NoError(t, err)

	t.Run("add format is copy on write", func(t *testing.T) {
		updated, err := book.AddFormat("application/epub+zip")
		require.NoError(t, err)
		assert.Empty(t, book.Formats)
		assert.Equal(t, []string{"application/epub+zip"}, updated.Formats)
	})

	t.Run("duplicate format is an error", func(t *testing.T) {
		updated, err := book.AddFormat("application/epub+zip")
		require.NoError(t, err)
		_, err = updated.AddFormat("application/epub+zip")
		assert.Error(t, err)
	})

	t.Run("duplicate keyword is an error", func(t *testing.T) {
		updated, err := book.AddKeyword("architecture")
		require.NoError(t, err)
		_, err = updated.AddKeyword("architecture")
		assert.Error(t, err)
	})

	t.Run("duplicate author id is an error", func(t *testing.T) {
		author, err := NewAuthor("Doe, Jane")
		require.NoError(t, err)
		updated, err := book.AddAuthor(author)
		require.NoError(t, err)
		_, err = updated.AddAuthor(author)
		assert.Error(t, err)
	})

	t.Run("with id remaps the identifier", func(t *testing.T) {
		other := identifiers.NewRandom()
		assert.Equal(t, other, book.WithID(other).ID)
		assert.Equal(t, id, book.ID)
	})
}

func TestNewAuthor(t *testing.T) {
	t.Run("blank name is rejected", func(t *testing.T) {
		_, err := NewAuthor("")
		assert.Error(t, err)
	})

	t.Run("two authors with the same name are distinct", func(t *testing.T) {
		a, err := NewAuthor("Doe, Jane")
		require.NoError(t, err)
		b, err := NewAuthor("Doe, Jane")
		require.NoError(t, err)
		assert.NotEqual(t, a.ID, b.ID)
		assert.Empty(t, a.Sites)
	})
}

func buildTestCatalog(t *testing.T) (*Catalog, Book, Author) {
	t.Helper()

	author, err := NewAuthor("Martin, Robert")
	require.NoError(t, err)

	first, err := NewBook(identifiers.NewRandom(), "Clean Architecture")
	require.NoError(t, err)
	first, err = first.AddAuthor(author)
	require.NoError(t, err)

	second, err := NewBook(identifiers.NewRandom(), "The Pragmatic Programmer")
	require.NoError(t, err)

	books := map[identifiers.ID]Book{
		first.ID:  first,
		second.ID: second,
	}
	return New(books), first, author
}

func TestCatalogLookups(t *testing.T) {
	c, book, author := buildTestCatalog(t)

	t.Run("counts", func(t *testing.T) {
		assert.Equal(t, 2, c.BookCount())
		assert.Equal(t, 1, c.AuthorCount())
		assert.Len(t, c.AllBooks(), 2)
		assert.Len(t, c.AllAuthors(), 1)
	})

	t.Run("book by id", func(t *testing.T) {
		found, ok := c.BookByID(book.ID)
		require.True(t, ok)
		assert.Equal(t, "Clean Architecture", found.Title)

		_, ok = c.BookByID(identifiers.NewRandom())
		assert.False(t, ok)
	})

	t.Run("author by id", func(t *testing.T) {
		found, ok := c.AuthorByID(author.ID)
		require.True(t, ok)
		assert.Equal(t, "Martin, Robert", found.Name)
	})

	t.Run("title search is case insensitive", func(t *testing.T) {
		assert.Len(t, c.BooksByTitle("ARCHITECTURE"), 1)
		assert.Len(t, c.BooksByTitle("pragmatic"), 1)
		assert.Empty(t, c.BooksByTitle("refactoring"))
	})

	t.Run("author search is case insensitive", func(t *testing.T) {
		assert.Len(t, c.AuthorsByName("martin"), 1)
		assert.Empty(t, c.AuthorsByName("fowler"))
	})

	t.Run("books by author", func(t *testing.T) {
		books := c.BooksByAuthor(author.ID)
		require.Len(t, books, 1)
		assert.Equal(t, book.ID, books[0].ID)
	})
}
