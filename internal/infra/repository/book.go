package repository

import (
	"context"
	"log/slog"
	"time"

	"library-lending/internal/domain/book"
	"library-lending/internal/infra/db"
	"library-lending/internal/usecase/shared"

	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"
	"github.com/google/uuid"
)

const bookTable = "books"

var bookColumns = []interface{}{
	"id", "isbn", "title", "author", "category", "publication_year",
	"publisher", "description", "shelf_location",
	"total_copies", "available_copies", "status", "created_at", "updated_at",
}

type BookRepository struct {
	db     db.DBTX
	logger *slog.Logger
}

func NewBookRepository(dbtx db.DBTX) shared.BookRepository {
	return &BookRepository{db: dbtx, logger: slog.Default()}
}

func (r *BookRepository) FindByID(ctx context.Context, id uuid.UUID) (*book.Book, error) {
	ds := pg().From(bookTable).Select(bookColumns...).Where(goqu.C("id").Eq(id))
	return r.findOne(ctx, ds)
}

func (r *BookRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*book.Book, error) {
	ds := pg().From(bookTable).Select(bookColumns...).Where(goqu.C("id").Eq(id)).ForUpdate(exp.Wait)
	return r.findOne(ctx, ds)
}

func (r *BookRepository) ExistsByISBN(ctx context.Context, isbn string) (bool, error) {
	sql, args, err := pg().From(bookTable).Select(goqu.COUNT("*")).Where(goqu.C("isbn").Eq(isbn)).Prepared(true).ToSQL()
	if err != nil {
		return false, errBuildQuery
	}
	var count int
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&count); err != nil {
		return false, classify(r.logger, "failed to check isbn existence", err)
	}
	return count > 0, nil
}

func (r *BookRepository) Create(ctx context.Context, b *book.Book) error {
	sql, args, err := pg().Insert(bookTable).Rows(goqu.Record{
		"id":               b.ID(),
		"isbn":             b.ISBN(),
		"title":            b.Title(),
		"author":           b.Author(),
		"category":         b.Category(),
		"publication_year": b.PublicationYear(),
		"publisher":        b.Publisher(),
		"description":      b.Description(),
		"shelf_location":   b.ShelfLocation(),
		"total_copies":     b.TotalCopies(),
		"available_copies": b.AvailableCopies(),
		"status":           b.Status().String(),
	}).Prepared(true).ToSQL()
	if err != nil {
		return errBuildQuery
	}
	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		return classify(r.logger, "failed to create book", err)
	}
	return nil
}

func (r *BookRepository) Update(ctx context.Context, b *book.Book) error {
	sql, args, err := pg().Update(bookTable).Set(goqu.Record{
		"title":            b.Title(),
		"author":           b.Author(),
		"category":         b.Category(),
		"publication_year": b.PublicationYear(),
		"publisher":        b.Publisher(),
		"description":      b.Description(),
		"shelf_location":   b.ShelfLocation(),
		"total_copies":     b.TotalCopies(),
		"available_copies": b.AvailableCopies(),
		"status":           b.Status().String(),
		"updated_at":       goqu.L("now()"),
	}).Where(goqu.C("id").Eq(b.ID())).Prepared(true).ToSQL()
	if err != nil {
		return errBuildQuery
	}
	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		return classify(r.logger, "failed to update book", err)
	}
	return nil
}

func (r *BookRepository) Delete(ctx context.Context, id uuid.UUID) error {
	sql, args, err := pg().Delete(bookTable).Where(goqu.C("id").Eq(id)).Prepared(true).ToSQL()
	if err != nil {
		return errBuildQuery
	}
	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		return classify(r.logger, "failed to delete book", err)
	}
	return nil
}

func (r *BookRepository) findOne(ctx context.Context, ds *goqu.SelectDataset) (*book.Book, error) {
	sql, args, err := ds.Prepared(true).ToSQL()
	if err != nil {
		return nil, errBuildQuery
	}
	b, err := scanBook(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		return nil, classify(r.logger, "failed to find book", err)
	}
	return b, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanBook(row rowScanner) (*book.Book, error) {
	var id uuid.UUID
	var isbn, title, author, category string
	var publicationYear int
	var publisher, description, shelfLoc string
	var totalCopies, availableCopies int
	var status string
	var createdAt, updatedAt time.Time
	if err := row.Scan(
		&id, &isbn, &title, &author, &category, &publicationYear,
		&publisher, &description, &shelfLoc,
		&totalCopies, &availableCopies, &status, &createdAt, &updatedAt,
	); err != nil {
		return nil, err
	}
	return book.ReconstructBook(
		id, isbn, title, author, category, publicationYear,
		publisher, description, shelfLoc,
		totalCopies, availableCopies, book.Status(status), createdAt, updatedAt,
	), nil
}
