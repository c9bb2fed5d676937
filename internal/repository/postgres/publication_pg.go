// internal/repository/postgres/publication_pg.go
package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"taskmarket/internal/domain"
	"taskmarket/internal/repository"
	"taskmarket/internal/util"

	"github.com/jmoiron/sqlx"
)

const publicationColumns = `id, title, description, blue_cost, author_username, accepted_by_username, status, created_at`

// PublicationRepository implements repository.PublicationRepository for PostgreSQL.
type PublicationRepository struct {
	// Methods receive a DBExecutor directly, so no connection is held here.
}

// NewPublicationRepository creates a new PublicationRepository.
func NewPublicationRepository(db *sqlx.DB) repository.PublicationRepository {
	return &PublicationRepository{}
}

// CreatePublication inserts a new publication using the provided DBExecutor.
func (r *PublicationRepository) CreatePublication(ctx context.Context, q repository.DBExecutor, pub *domain.Publication) error {
	query := `INSERT INTO publications (title, description, blue_cost, author_username, status, created_at)
              VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`
	err := q.QueryRowContext(ctx, query,
		pub.Title,
		pub.Description,
		pub.BlueCost,
		pub.AuthorUsername,
		pub.Status,
		pub.CreatedAt,
	).Scan(&pub.ID)
	if err != nil {
		return fmt.Errorf("failed to create publication: %w", err)
	}
	return nil
}

// GetPublicationByID retrieves a publication by its ID using the provided DBExecutor.
func (r *PublicationRepository) GetPublicationByID(ctx context.Context, q repository.DBExecutor, id int64) (*domain.Publication, error) {
	var pub domain.Publication
	query := `SELECT ` + publicationColumns + ` FROM publications WHERE id = $1`
	err := q.GetContext(ctx, &pub, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, util.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get publication by ID %d: %w", id, err)
	}
	return &pub, nil
}

// GetPublicationByIDForUpdate retrieves a publication row with FOR UPDATE.
// Concurrent lifecycle transitions on the same row block here until the
// first transaction commits, so the loser re-reads the committed status and
// fails its precondition check.
func (r *PublicationRepository) GetPublicationByIDForUpdate(ctx context.Context, q repository.DBExecutor, id int64) (*domain.Publication, error) {
	var pub domain.Publication
	query := `SELECT ` + publicationColumns + ` FROM publications WHERE id = $1 FOR UPDATE`
	err := q.GetContext(ctx, &pub, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, util.ErrNotFound
		}
		return nil, fmt.Errorf("failed to lock publication %d: %w", id, err)
	}
	return &pub, nil
}

// UpdatePublicationStatus sets the publication status, and the accepting user
// when acceptedBy is non-nil.
func (r *PublicationRepository) UpdatePublicationStatus(ctx context.Context, q repository.DBExecutor, id int64, status domain.Status, acceptedBy *string) error {
	var (
		result sql.Result
		err    error
	)
	if acceptedBy != nil {
		query := `UPDATE publications SET status = $1, accepted_by_username = $2 WHERE id = $3`
		result, err = q.ExecContext(ctx, query, status, *acceptedBy, id)
	} else {
		query := `UPDATE publications SET status = $1 WHERE id = $2`
		result, err = q.ExecContext(ctx, query, status, id)
	}
	if err != nil {
		return fmt.Errorf("failed to update status of publication %d: %w", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected after updating publication %d: %w", id, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("no rows affected when updating publication %d: %w", id, util.ErrNotFound)
	}
	return nil
}

// ListAllPublications returns every publication, newest first.
func (r *PublicationRepository) ListAllPublications(ctx context.Context, q repository.DBExecutor) ([]domain.Publication, error) {
	pubs := []domain.Publication{}
	query := `SELECT ` + publicationColumns + ` FROM publications ORDER BY created_at DESC`
	if err := q.SelectContext(ctx, &pubs, query); err != nil {
		return nil, fmt.Errorf("failed to list publications: %w", err)
	}
	return pubs, nil
}

// ListActivePublications returns every open publication plus the in-flight
// publications the viewer is author or acceptor of. Confirmed-paid
// publications never appear here; they surface only through history.
func (r *PublicationRepository) ListActivePublications(ctx context.Context, q repository.DBExecutor, viewer string) ([]domain.Publication, error) {
	pubs := []domain.Publication{}
	query := `
		SELECT ` + publicationColumns + ` FROM publications
		WHERE
			status = 'open'
			OR (
				status IN ('pending_approval', 'approved', 'completed')
				AND (author_username = $1 OR accepted_by_username = $1)
			)
		ORDER BY created_at DESC`
	if err := q.SelectContext(ctx, &pubs, query, viewer); err != nil {
		return nil, fmt.Errorf("failed to list active publications for '%s': %w", viewer, err)
	}
	return pubs, nil
}

// ListAuthoredPublications returns publications authored by the user, any status.
func (r *PublicationRepository) ListAuthoredPublications(ctx context.Context, q repository.DBExecutor, author string) ([]domain.Publication, error) {
	pubs := []domain.Publication{}
	query := `SELECT ` + publicationColumns + ` FROM publications WHERE author_username = $1 ORDER BY created_at DESC`
	if err := q.SelectContext(ctx, &pubs, query, author); err != nil {
		return nil, fmt.Errorf("failed to list publications authored by '%s': %w", author, err)
	}
	return pubs, nil
}

// ListCompletedAsAcceptor returns publications the user completed through to
// confirmed_paid as acceptor.
func (r *PublicationRepository) ListCompletedAsAcceptor(ctx context.Context, q repository.DBExecutor, acceptor string) ([]domain.Publication, error) {
	pubs := []domain.Publication{}
	query := `SELECT ` + publicationColumns + ` FROM publications WHERE accepted_by_username = $1 AND status = 'confirmed_paid' ORDER BY created_at DESC`
	if err := q.SelectContext(ctx, &pubs, query, acceptor); err != nil {
		return nil, fmt.Errorf("failed to list publications completed by '%s': %w", acceptor, err)
	}
	return pubs, nil
}
