package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"pictu/api/internal/models"
)

var ErrCollectionNotFound = errors.New("collection not found")

type CollectionRepository struct {
	pool *pgxpool.Pool
}

func NewCollectionRepository(pool *pgxpool.Pool) *CollectionRepository {
	return &CollectionRepository{pool: pool}
}

func (r *CollectionRepository) Create(ctx context.Context, collection models.Collection) error {
	const query = `
		INSERT INTO collections (
			id, user_id, title, description, is_private, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, NOW(), NOW()
		)
	`

	_, err := r.pool.Exec(ctx, query,
		collection.ID,
		collection.UserID,
		collection.Title,
		collection.Description,
		collection.IsPrivate,
	)
	return err
}

func (r *CollectionRepository) GetByID(ctx context.Context, id string) (models.Collection, error) {
	const query = `
		SELECT id, user_id, title, description, is_private, created_at, updated_at
		FROM collections WHERE id = $1
	`

	collection, err := r.scanOne(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		return models.Collection{}, err
	}

	imageIDs, err := r.ListImageIDs(ctx, id)
	if err != nil {
		return models.Collection{}, err
	}
	collection.ImageIDs = imageIDs

	return collection, nil
}

// ListVisible returns public collections plus every collection the caller
// owns. Membership is not loaded for listings.
func (r *CollectionRepository) ListVisible(ctx context.Context, callerID string) ([]models.Collection, error) {
	const query = `
		SELECT id, user_id, title, description, is_private, created_at, updated_at
		FROM collections
		WHERE is_private = FALSE OR user_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.pool.Query(ctx, query, callerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var collections []models.Collection
	for rows.Next() {
		var collection models.Collection
		if err := rows.Scan(
			&collection.ID,
			&collection.UserID,
			&collection.Title,
			&collection.Description,
			&collection.IsPrivate,
			&collection.CreatedAt,
			&collection.UpdatedAt,
		); err != nil {
			return nil, err
		}
		collections = append(collections, collection)
	}
	return collections, rows.Err()
}

func (r *CollectionRepository) Update(ctx context.Context, id string, title, description *string, isPrivate *bool) error {
	const query = `
		UPDATE collections
		SET title = COALESCE($2, title),
		    description = COALESCE($3, description),
		    is_private = COALESCE($4, is_private),
		    updated_at = NOW()
		WHERE id = $1
	`
	cmd, err := r.pool.Exec(ctx, query, id, title, description, isPrivate)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrCollectionNotFound
	}
	return nil
}

func (r *CollectionRepository) Delete(ctx context.Context, id string) error {
	// Membership rows go with the collection; member images stay.
	const query = `DELETE FROM collections WHERE id = $1`
	cmd, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrCollectionNotFound
	}
	return nil
}

func (r *CollectionRepository) AddImages(ctx context.Context, collectionID string, imageIDs []string) error {
	if len(imageIDs) == 0 {
		return nil
	}

	const query = `
		INSERT INTO collection_images (collection_id, image_id, added_at)
		SELECT $1, unnest($2::text[]), NOW()
		ON CONFLICT (collection_id, image_id) DO NOTHING
	`
	_, err := r.pool.Exec(ctx, query, collectionID, imageIDs)
	return err
}

func (r *CollectionRepository) RemoveImages(ctx context.Context, collectionID string, imageIDs []string) error {
	if len(imageIDs) == 0 {
		return nil
	}

	const query = `
		DELETE FROM collection_images
		WHERE collection_id = $1 AND image_id = ANY($2)
	`
	_, err := r.pool.Exec(ctx, query, collectionID, imageIDs)
	return err
}

func (r *CollectionRepository) ListImageIDs(ctx context.Context, collectionID string) ([]string, error) {
	const query = `
		SELECT image_id FROM collection_images
		WHERE collection_id = $1
		ORDER BY added_at, image_id
	`

	rows, err := r.pool.Query(ctx, query, collectionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *CollectionRepository) scanOne(row pgx.Row) (models.Collection, error) {
	var collection models.Collection
	if err := row.Scan(
		&collection.ID,
		&collection.UserID,
		&collection.Title,
		&collection.Description,
		&collection.IsPrivate,
		&collection.CreatedAt,
		&collection.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Collection{}, ErrCollectionNotFound
		}
		return models.Collection{}, err
	}
	return collection, nil
}
