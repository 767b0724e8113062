package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"pictu/api/internal/models"
)

var ErrImageNotFound = errors.New("image not found")

const imageColumns = `
	id, user_id, title, description, bucket, object_key, url, mime_type,
	size_bytes, is_approved, is_private, deleted_at, created_at, updated_at
`

type ImageRepository struct {
	pool *pgxpool.Pool
}

func NewImageRepository(pool *pgxpool.Pool) *ImageRepository {
	return &ImageRepository{pool: pool}
}

func (r *ImageRepository) Create(ctx context.Context, image models.Image) error {
	const query = `
		INSERT INTO images (
			id, user_id, title, description, bucket, object_key, url, mime_type,
			size_bytes, is_approved, is_private, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8,
			$9, $10, $11, NOW(), NOW()
		)
	`

	_, err := r.pool.Exec(ctx, query,
		image.ID,
		image.UserID,
		image.Title,
		image.Description,
		image.Bucket,
		image.ObjectKey,
		image.URL,
		image.MimeType,
		image.SizeBytes,
		image.IsApproved,
		image.IsPrivate,
	)
	return err
}

func (r *ImageRepository) GetByID(ctx context.Context, id string) (models.Image, error) {
	const query = `
		SELECT ` + imageColumns + `
		FROM images WHERE id = $1 AND deleted_at IS NULL
	`
	return scanImage(r.pool.QueryRow(ctx, query, id))
}

// ListPublic returns approved, non-deleted images that are public, plus the
// caller's own private ones. Admin callers see every approved image.
func (r *ImageRepository) ListPublic(ctx context.Context, callerID string, callerIsAdmin bool) ([]models.Image, error) {
	const query = `
		SELECT ` + imageColumns + `
		FROM images
		WHERE is_approved = TRUE
		  AND deleted_at IS NULL
		  AND (is_private = FALSE OR user_id = $1 OR $2)
		ORDER BY created_at DESC
	`

	rows, err := r.pool.Query(ctx, query, callerID, callerIsAdmin)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanImages(rows)
}

// ListPending returns images awaiting moderation, oldest first.
func (r *ImageRepository) ListPending(ctx context.Context, limit, offset int) ([]models.Image, error) {
	const query = `
		SELECT ` + imageColumns + `
		FROM images
		WHERE is_approved = FALSE AND deleted_at IS NULL
		ORDER BY created_at
		LIMIT $1 OFFSET $2
	`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanImages(rows)
}

func (r *ImageRepository) ListByIDs(ctx context.Context, ids []string) ([]models.Image, error) {
	const query = `
		SELECT ` + imageColumns + `
		FROM images
		WHERE id = ANY($1) AND deleted_at IS NULL
	`

	rows, err := r.pool.Query(ctx, query, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanImages(rows)
}

func (r *ImageRepository) CountByUser(ctx context.Context, userID string) (int, error) {
	const query = `
		SELECT COUNT(*) FROM images WHERE user_id = $1 AND deleted_at IS NULL
	`
	var count int
	if err := r.pool.QueryRow(ctx, query, userID).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *ImageRepository) Update(ctx context.Context, id string, title, description *string, isPrivate *bool) error {
	const query = `
		UPDATE images
		SET title = COALESCE($2, title),
		    description = COALESCE($3, description),
		    is_private = COALESCE($4, is_private),
		    updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
	`
	cmd, err := r.pool.Exec(ctx, query, id, title, description, isPrivate)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrImageNotFound
	}
	return nil
}

func (r *ImageRepository) SetApproved(ctx context.Context, id string, approved bool) error {
	const query = `
		UPDATE images SET is_approved = $2, updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
	`
	cmd, err := r.pool.Exec(ctx, query, id, approved)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrImageNotFound
	}
	return nil
}

// MarkDeleted tombstones the row before the object delete so that a crash
// between the two systems leaves a recoverable marker instead of silence.
func (r *ImageRepository) MarkDeleted(ctx context.Context, id string) error {
	const query = `
		UPDATE images SET deleted_at = NOW(), updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
	`
	cmd, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrImageNotFound
	}
	return nil
}

// DeleteRow hard-deletes the image and any collection membership rows
// still referencing it.
func (r *ImageRepository) DeleteRow(ctx context.Context, id string) error {
	const query = `
		WITH detached AS (
			DELETE FROM collection_images WHERE image_id = $1
		)
		DELETE FROM images WHERE id = $1
	`
	_, err := r.pool.Exec(ctx, query, id)
	return err
}

// ListDeletedBefore returns tombstoned rows older than cutoff whose cleanup
// never completed.
func (r *ImageRepository) ListDeletedBefore(ctx context.Context, cutoff time.Time) ([]models.Image, error) {
	const query = `
		SELECT ` + imageColumns + `
		FROM images
		WHERE deleted_at IS NOT NULL AND deleted_at < $1
		ORDER BY deleted_at
	`

	rows, err := r.pool.Query(ctx, query, cutoff)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanImages(rows)
}

func scanImage(row pgx.Row) (models.Image, error) {
	var image models.Image
	if err := row.Scan(
		&image.ID,
		&image.UserID,
		&image.Title,
		&image.Description,
		&image.Bucket,
		&image.ObjectKey,
		&image.URL,
		&image.MimeType,
		&image.SizeBytes,
		&image.IsApproved,
		&image.IsPrivate,
		&image.DeletedAt,
		&image.CreatedAt,
		&image.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Image{}, ErrImageNotFound
		}
		return models.Image{}, err
	}
	return image, nil
}

func scanImages(rows pgx.Rows) ([]models.Image, error) {
	var images []models.Image
	for rows.Next() {
		var image models.Image
		if err := rows.Scan(
			&image.ID,
			&image.UserID,
			&image.Title,
			&image.Description,
			&image.Bucket,
			&image.ObjectKey,
			&image.URL,
			&image.MimeType,
			&image.SizeBytes,
			&image.IsApproved,
			&image.IsPrivate,
			&image.DeletedAt,
			&image.CreatedAt,
			&image.UpdatedAt,
		); err != nil {
			return nil, err
		}
		images = append(images, image)
	}
	return images, rows.Err()
}
