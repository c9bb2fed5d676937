// internal/repository/publication_repo.go
package repository

import (
	"context"

	"taskmarket/internal/domain"
)

// PublicationRepository defines the interface for publication data operations.
type PublicationRepository interface {
	// CreatePublication adds a new publication using the provided DBExecutor.
	CreatePublication(ctx context.Context, q DBExecutor, pub *domain.Publication) error
	// GetPublicationByID retrieves a publication by its ID.
	GetPublicationByID(ctx context.Context, q DBExecutor, id int64) (*domain.Publication, error)
	// GetPublicationByIDForUpdate retrieves a publication row locked for the
	// duration of the surrounding transaction, so concurrent lifecycle
	// transitions on the same publication serialize. Must be called with a
	// transactional executor.
	GetPublicationByIDForUpdate(ctx context.Context, q DBExecutor, id int64) (*domain.Publication, error)
	// UpdatePublicationStatus sets the publication status. A non-nil
	// acceptedBy also records the accepting user (the accept transition).
	UpdatePublicationStatus(ctx context.Context, q DBExecutor, id int64, status domain.Status, acceptedBy *string) error
	// ListAllPublications returns every publication, newest first.
	ListAllPublications(ctx context.Context, q DBExecutor) ([]domain.Publication, error)
	// ListActivePublications returns what the viewer may see on the main
	// panel: every open publication, plus in-flight publications the viewer
	// is party to. Terminal publications are excluded.
	ListActivePublications(ctx context.Context, q DBExecutor, viewer string) ([]domain.Publication, error)
	// ListAuthoredPublications returns publications authored by the user,
	// any status, newest first.
	ListAuthoredPublications(ctx context.Context, q DBExecutor, author string) ([]domain.Publication, error)
	// ListCompletedAsAcceptor returns publications the user carried through
	// to confirmed_paid as acceptor, newest first.
	ListCompletedAsAcceptor(ctx context.Context, q DBExecutor, acceptor string) ([]domain.Publication, error)
}
