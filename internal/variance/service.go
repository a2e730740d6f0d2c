package variance

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/parksops/ar-api/internal/permissions"
	"github.com/parksops/ar-api/internal/shared"
)

// Store is the document store contract the service depends on. Query returns
// the raw page and the store-native continuation key; UpdateConditional
// applies one conditional update and reports a failed precondition as
// shared.ErrNotFound.
type Store interface {
	Query(ctx context.Context, input *dynamodb.QueryInput) ([]Record, map[string]types.AttributeValue, error)
	UpdateConditional(ctx context.Context, input *dynamodb.UpdateItemInput) error
}

// Service coordinates reads and updates of variance records. Each invocation
// issues at most one store query or one conditional update; there is no
// retry, no transaction composition, and no cross-request state.
type Service struct {
	store  Store
	table  string
	logger *slog.Logger
}

// NewService builds the service.
func NewService(store Store, table string, logger *slog.Logger) *Service {
	return &Service{store: store, table: table, logger: logger}
}

// List reads variance records the caller is entitled to view, with an opaque
// continuation cursor for the next page. Validation and the authentication
// check run before any store access.
func (s *Service) List(ctx context.Context, perm permissions.Permission, in ListInput) ([]Record, string, error) {
	if !perm.IsAuthenticated {
		return nil, "", fmt.Errorf("variance: list requires authentication: %w", shared.ErrUnauthenticated)
	}
	query, err := BuildListQuery(s.table, in)
	if err != nil {
		return nil, "", err
	}
	records, lastKey, err := s.store.Query(ctx, query)
	if err != nil {
		return nil, "", err
	}
	cursor, err := EncodeCursor(lastKey)
	if err != nil {
		return nil, "", err
	}
	visible := FilterByRoles(records, perm)
	s.logger.Debug("variance list",
		slog.String("orcs", in.ORCS),
		slog.String("date", in.Date),
		slog.Int("fetched", len(records)),
		slog.Int("visible", len(visible)))
	return visible, cursor, nil
}

// Update validates, authorizes, and applies one conditional partial update.
// The update is conditioned on the target key already existing; a failed
// precondition surfaces as shared.ErrNotFound, never as a silent insert.
func (s *Service) Update(ctx context.Context, perm permissions.Permission, in UpdateInput) error {
	if err := in.Validate(); err != nil {
		return err
	}
	if err := AuthorizeUpdate(perm, in); err != nil {
		return err
	}
	update, err := BuildUpdateItem(s.table, in)
	if err != nil {
		return err
	}
	if err := s.store.UpdateConditional(ctx, update); err != nil {
		return err
	}
	s.logger.Info("variance updated",
		slog.String("orcs", in.ORCS),
		slog.String("subAreaId", in.SubAreaID),
		slog.String("activity", in.Activity),
		slog.String("date", in.Date))
	return nil
}
