//go:build unit

package book_test

import (
	"testing"

	"library-lending/internal/domain/book"
	"library-lending/tests/common/builder"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBook(t *testing.T) {
	t.Run("all copies start available", func(t *testing.T) {
		b, err := book.NewBook("978-0-13-468599-1", "The Go Programming Language", "Donovan & Kernighan", "Programming", 2015, 3)
		require.NoError(t, err)

		assert.Equal(t, 3, b.TotalCopies())
		assert.Equal(t, 3, b.AvailableCopies())
		assert.Equal(t, book.StatusActive, b.Status())
	})

	t.Run("rejects empty isbn", func(t *testing.T) {
		_, err := book.NewBook("", "Title", "Author", "", 2020, 1)
		require.ErrorIs(t, err, book.ErrInvalidISBN)
	})

	t.Run("rejects negative copies", func(t *testing.T) {
		_, err := book.NewBook("isbn", "Title", "Author", "", 2020, -1)
		require.ErrorIs(t, err, book.ErrInvalidCopyCount)
	})
}

func TestBookAvailability(t *testing.T) {
	cases := []struct {
		name      string
		available int
		status    book.Status
		want      bool
	}{
		{"copies on shelf and active", 1, book.StatusActive, true},
		{"no copies", 0, book.StatusActive, false},
		{"inactive", 1, book.StatusInactive, false},
		{"damaged", 1, book.StatusDamaged, false},
		{"lost", 1, book.StatusLost, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			b := builder.NewBookBuilder().WithCopies(2, c.available).WithStatus(c.status).BuildDomain()
			assert.Equal(t, c.want, b.IsAvailable())
		})
	}
}

func TestBorrowAndReturnCopy(t *testing.T) {
	t.Run("round trip restores the count", func(t *testing.T) {
		b := builder.NewBookBuilder().WithCopies(3, 2).BuildDomain()

		require.NoError(t, b.BorrowCopy())
		assert.Equal(t, 1, b.AvailableCopies())

		b.ReturnCopy()
		assert.Equal(t, 2, b.AvailableCopies())
	})

	t.Run("borrow fails with no copies", func(t *testing.T) {
		b := builder.NewBookBuilder().WithCopies(1, 0).BuildDomain()

		require.ErrorIs(t, b.BorrowCopy(), book.ErrNoCopiesAvailable)
		assert.Equal(t, 0, b.AvailableCopies())
	})

	t.Run("return is clamped at total", func(t *testing.T) {
		b := builder.NewBookBuilder().WithCopies(2, 2).BuildDomain()

		b.ReturnCopy()

		assert.Equal(t, 2, b.AvailableCopies())
	})

	t.Run("count stays within bounds under any sequence", func(t *testing.T) {
		b := builder.NewBookBuilder().WithCopies(2, 1).BuildDomain()

		ops := []func(){
			func() { _ = b.BorrowCopy() },
			func() { b.ReturnCopy() },
			func() { b.ReturnCopy() },
			func() { b.ReturnCopy() },
			func() { _ = b.BorrowCopy() },
			func() { _ = b.BorrowCopy() },
			func() { _ = b.BorrowCopy() },
		}
		for _, op := range ops {
			op()
			assert.GreaterOrEqual(t, b.AvailableCopies(), 0)
			assert.LessOrEqual(t, b.AvailableCopies(), b.TotalCopies())
		}
	})
}

func TestSetCopies(t *testing.T) {
	t.Run("resizes the inventory", func(t *testing.T) {
		b := builder.NewBookBuilder().BuildDomain()

		require.NoError(t, b.SetCopies(5, 4))

		assert.Equal(t, 5, b.TotalCopies())
		assert.Equal(t, 4, b.AvailableCopies())
	})

	t.Run("rejects available above total", func(t *testing.T) {
		b := builder.NewBookBuilder().BuildDomain()

		require.ErrorIs(t, b.SetCopies(2, 3), book.ErrCopiesExceedTotal)
	})

	t.Run("rejects negative counts", func(t *testing.T) {
		b := builder.NewBookBuilder().BuildDomain()

		require.ErrorIs(t, b.SetCopies(-1, 0), book.ErrInvalidCopyCount)
	})
}
