package components

import (
	"library-lending/internal/infra/db"
	"library-lending/internal/infra/readstore"
	"library-lending/internal/infra/uow"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
)

var PersistenceModule = fx.Module("persistence",
	fx.Provide(
		NewDBTX,
		// Write side: repositories are created per transaction inside the
		// unit of work, so only the UoW itself is wired here.
		uow.NewPostgresUoW,
		// Read side: view queries run outside transactions on the pool.
		readstore.NewBookReadStore,
		readstore.NewLoanReadStore,
		readstore.NewReservationReadStore,
		readstore.NewUserReadStore,
	),
)

func NewDBTX(pool *pgxpool.Pool) db.DBTX {
	return pool
}
