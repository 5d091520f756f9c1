package postgres

import (
	"context"

	"github.com/livingrent/storefront-service/internal/repositories"
	"gorm.io/gorm"
)

type repository struct {
	db        *gorm.DB
	product   repositories.ProductRepository
	draft     repositories.DraftRepository
	rental    repositories.RentalRepository
	wishlist  repositories.WishlistRepository
	importJob repositories.ImportJobRepository
}

// NewRepository wires all PostgreSQL-backed sub-repositories together
func NewRepository(db *gorm.DB) repositories.Repository {
	return &repository{
		db:        db,
		product:   NewProductPostgreSQL(db),
		draft:     NewDraftPostgreSQL(db),
		rental:    NewRentalPostgreSQL(db),
		wishlist:  NewWishlistPostgreSQL(db),
		importJob: NewImportJobPostgreSQL(db),
	}
}

func (r *repository) Product() repositories.ProductRepository     { return r.product }
func (r *repository) Draft() repositories.DraftRepository         { return r.draft }
func (r *repository) Rental() repositories.RentalRepository       { return r.rental }
func (r *repository) Wishlist() repositories.WishlistRepository   { return r.wishlist }
func (r *repository) ImportJob() repositories.ImportJobRepository { return r.importJob }

func (r *repository) WithTransaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}

// dbOrTx picks the transaction handle when one is supplied.
func dbOrTx(db *gorm.DB, tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return db
}
