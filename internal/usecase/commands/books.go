package commands

import (
	"context"

	"library-lending/internal/domain/book"
	"library-lending/internal/pkg/errs"
	"library-lending/internal/usecase/shared"

	"github.com/google/uuid"
)

type CreateBookInput struct {
	ISBN            string
	Title           string
	Author          string
	Category        string
	PublicationYear int
	Publisher       string
	Description     string
	ShelfLocation   string
	TotalCopies     int
}

type UpdateBookInput struct {
	Title           string
	Author          string
	Category        string
	PublicationYear int
	Publisher       string
	Description     string
	ShelfLocation   string
}

// BookCommands are the administrative catalog operations. They are gated to
// the admin role at the handler layer.
type BookCommands interface {
	Create(ctx context.Context, in CreateBookInput) (uuid.UUID, error)
	Update(ctx context.Context, bookID uuid.UUID, in UpdateBookInput) error
	Delete(ctx context.Context, bookID uuid.UUID) error
	// SetCopies resizes the inventory for a title. The book row is locked so
	// the resize cannot interleave with borrow/return traffic.
	SetCopies(ctx context.Context, bookID uuid.UUID, total, available int) error
	SetStatus(ctx context.Context, bookID uuid.UUID, status book.Status) error
}

type bookUseCaseImpl struct {
	uow shared.UnitOfWork
}

func NewBookUseCase(uow shared.UnitOfWork) BookCommands {
	return &bookUseCaseImpl{uow: uow}
}

func (u *bookUseCaseImpl) Create(ctx context.Context, in CreateBookInput) (uuid.UUID, error) {
	var bookID uuid.UUID
	err := u.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		taken, err := tx.Books().ExistsByISBN(ctx, in.ISBN)
		if err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		if taken {
			return ErrDuplicateISBN
		}

		b, err := book.NewBook(in.ISBN, in.Title, in.Author, in.Category, in.PublicationYear, in.TotalCopies)
		if err != nil {
			return err
		}
		if err := b.UpdateDetails(in.Title, in.Author, in.Category, in.PublicationYear, in.Publisher, in.Description, in.ShelfLocation); err != nil {
			return err
		}
		if err := tx.Books().Create(ctx, b); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		bookID = b.ID()
		return nil
	})
	if err != nil {
		return uuid.Nil, err
	}
	return bookID, nil
}

func (u *bookUseCaseImpl) Update(ctx context.Context, bookID uuid.UUID, in UpdateBookInput) error {
	return u.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		b, err := tx.Books().FindByID(ctx, bookID)
		if err != nil {
			return orNotFound(err, ErrBookNotFound)
		}
		if err := b.UpdateDetails(in.Title, in.Author, in.Category, in.PublicationYear, in.Publisher, in.Description, in.ShelfLocation); err != nil {
			return err
		}
		if err := tx.Books().Update(ctx, b); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		return nil
	})
}

func (u *bookUseCaseImpl) Delete(ctx context.Context, bookID uuid.UUID) error {
	return u.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if _, err := tx.Books().FindByID(ctx, bookID); err != nil {
			return orNotFound(err, ErrBookNotFound)
		}
		if err := tx.Books().Delete(ctx, bookID); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		return nil
	})
}

func (u *bookUseCaseImpl) SetCopies(ctx context.Context, bookID uuid.UUID, total, available int) error {
	return u.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		b, err := tx.Books().FindByIDForUpdate(ctx, bookID)
		if err != nil {
			return orNotFound(err, ErrBookNotFound)
		}
		if err := b.SetCopies(total, available); err != nil {
			return err
		}
		if err := tx.Books().Update(ctx, b); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		return nil
	})
}

func (u *bookUseCaseImpl) SetStatus(ctx context.Context, bookID uuid.UUID, status book.Status) error {
	return u.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		b, err := tx.Books().FindByIDForUpdate(ctx, bookID)
		if err != nil {
			return orNotFound(err, ErrBookNotFound)
		}
		if err := b.SetStatus(status); err != nil {
			return err
		}
		if err := tx.Books().Update(ctx, b); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		return nil
	})
}
