package service

import (
	"context"
	"fmt"

	"github.com/MKhiriev/munch-sync/internal/logger"
	"github.com/MKhiriev/munch-sync/internal/store"
	"github.com/MKhiriev/munch-sync/models"
)

// ReconcileResult reports whether the local scope was rewritten.
type ReconcileResult struct {
	Changed        bool
	LocalChecksum  int64
	RemoteChecksum int64
}

// Reconciler replaces the local rows of a scope with a fetched set when the
// two differ.
//
// The sets are compared by the sum of their UpdatedAt values only. Changes
// that leave the sum unchanged are not detected until a later fetch moves it.
type Reconciler struct {
	repo store.LocalEntityRepository

	logger *logger.Logger
}

func NewReconciler(repo store.LocalEntityRepository, logger *logger.Logger) *Reconciler {
	return &Reconciler{repo: repo, logger: logger}
}

// Reconcile writes fetched to the store, in order, unless its checksum equals
// the stored one. Nothing is written once ctx is cancelled.
func (r *Reconciler) Reconcile(ctx context.Context, scope models.Scope, fetched []models.Entity) (ReconcileResult, error) {
	local, err := r.repo.Checksum(ctx, scope)
	if err != nil {
		return ReconcileResult{}, fmt.Errorf("error reading local checksum of %s: %w", scope, err)
	}

	result := ReconcileResult{
		LocalChecksum:  local,
		RemoteChecksum: models.Checksum(fetched),
	}
	if result.LocalChecksum == result.RemoteChecksum {
		r.logger.Debug().
			Str("func", "Reconciler.Reconcile").
			Stringer("scope", scope).
			Int64("checksum", local).
			Msg("checksums equal, skipping write")
		return result, nil
	}

	if err = ctx.Err(); err != nil {
		return result, err
	}

	if err = r.repo.WriteAll(ctx, scope, fetched); err != nil {
		return result, fmt.Errorf("error replacing local rows of %s: %w", scope, err)
	}
	result.Changed = true

	r.logger.Debug().
		Str("func", "Reconciler.Reconcile").
		Stringer("scope", scope).
		Int64("local_checksum", result.LocalChecksum).
		Int64("remote_checksum", result.RemoteChecksum).
		Int("rows", len(fetched)).
		Msg("local rows replaced")

	return result, nil
}
