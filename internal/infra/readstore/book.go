// Package readstore holds the read-side stores backing the queries
// interfaces. They run against the pool outside any transaction; listings
// are allowed to trail in-flight writes.
package readstore

import (
	"context"
	"log/slog"

	"library-lending/internal/infra/db"
	"library-lending/internal/usecase/queries"

	"github.com/doug-martin/goqu/v9"
	"github.com/google/uuid"
)

var bookViewColumns = []interface{}{
	"id", "isbn", "title", "author", "category", "publication_year",
	"publisher", "description", "shelf_location",
	"total_copies", "available_copies", "status", "created_at", "updated_at",
}

type BookReadStore struct {
	db     db.DBTX
	logger *slog.Logger
}

func NewBookReadStore(dbtx db.DBTX) queries.BookQueries {
	return &BookReadStore{db: dbtx, logger: slog.Default()}
}

func (r *BookReadStore) GetByID(ctx context.Context, id uuid.UUID) (*queries.BookView, error) {
	return r.findOne(ctx, goqu.C("id").Eq(id))
}

func (r *BookReadStore) GetByISBN(ctx context.Context, isbn string) (*queries.BookView, error) {
	return r.findOne(ctx, goqu.C("isbn").Eq(isbn))
}

func (r *BookReadStore) List(ctx context.Context) ([]*queries.BookView, error) {
	return r.findMany(ctx, r.base())
}

func (r *BookReadStore) Search(ctx context.Context, term string) ([]*queries.BookView, error) {
	pattern := "%" + term + "%"
	return r.findMany(ctx, r.base().Where(goqu.Or(
		goqu.C("title").ILike(pattern),
		goqu.C("author").ILike(pattern),
		goqu.C("isbn").ILike(pattern),
	)))
}

func (r *BookReadStore) ListAvailable(ctx context.Context) ([]*queries.BookView, error) {
	return r.findMany(ctx, r.base().Where(
		goqu.C("available_copies").Gt(0),
		goqu.C("status").Eq("active"),
	))
}

func (r *BookReadStore) ListByCategory(ctx context.Context, category string) ([]*queries.BookView, error) {
	return r.findMany(ctx, r.base().Where(goqu.C("category").Eq(category)))
}

func (r *BookReadStore) Categories(ctx context.Context) ([]string, error) {
	return r.distinct(ctx, "category")
}

func (r *BookReadStore) Authors(ctx context.Context) ([]string, error) {
	return r.distinct(ctx, "author")
}

func (r *BookReadStore) ListLowAvailability(ctx context.Context, threshold int) ([]*queries.BookView, error) {
	return r.findMany(ctx, r.base().Where(
		goqu.C("available_copies").Lte(threshold),
		goqu.C("status").Eq("active"),
	))
}

func (r *BookReadStore) base() *goqu.SelectDataset {
	return pg().From(bookTable).Select(bookViewColumns...).Order(goqu.I("title").Asc())
}

func (r *BookReadStore) findOne(ctx context.Context, where goqu.Expression) (*queries.BookView, error) {
	sql, args, err := pg().From(bookTable).Select(bookViewColumns...).Where(where).Prepared(true).ToSQL()
	if err != nil {
		return nil, errBuildQuery
	}
	v, err := scanBookView(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		return nil, classify(r.logger, "failed to find book", err)
	}
	return v, nil
}

func (r *BookReadStore) findMany(ctx context.Context, ds *goqu.SelectDataset) ([]*queries.BookView, error) {
	sql, args, err := ds.Prepared(true).ToSQL()
	if err != nil {
		return nil, errBuildQuery
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, classify(r.logger, "failed to list books", err)
	}
	defer rows.Close()

	var views []*queries.BookView
	for rows.Next() {
		v, err := scanBookView(rows)
		if err != nil {
			return nil, classify(r.logger, "failed to scan book row", err)
		}
		views = append(views, v)
	}
	if err := rows.Err(); err != nil {
		return nil, classify(r.logger, "failed to iterate book rows", err)
	}
	return views, nil
}

func (r *BookReadStore) distinct(ctx context.Context, column string) ([]string, error) {
	sql, args, err := pg().From(bookTable).
		SelectDistinct(goqu.C(column)).
		Where(goqu.C(column).Neq("")).
		Order(goqu.I(column).Asc()).
		Prepared(true).ToSQL()
	if err != nil {
		return nil, errBuildQuery
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, classify(r.logger, "failed to list distinct values", err)
	}
	defer rows.Close()

	var values []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, classify(r.logger, "failed to scan value", err)
		}
		values = append(values, v)
	}
	if err := rows.Err(); err != nil {
		return nil, classify(r.logger, "failed to iterate values", err)
	}
	return values, nil
}

func scanBookView(row rowScanner) (*queries.BookView, error) {
	var v queries.BookView
	if err := row.Scan(
		&v.ID, &v.ISBN, &v.Title, &v.Author, &v.Category, &v.PublicationYear,
		&v.Publisher, &v.Description, &v.ShelfLocation,
		&v.TotalCopies, &v.AvailableCopies, &v.Status, &v.CreatedAt, &v.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &v, nil
}
