package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kubev2v/docctl/internal/models"
	srvErrors "github.com/kubev2v/docctl/pkg/errors"
	"github.com/kubev2v/docctl/pkg/where"
)

// DefaultBatchSize matches the Firestore limit of writes per batch.
const DefaultBatchSize = 500

// Backend is a document database the commands run against.
type Backend interface {
	Get(ctx context.Context, path models.Path) (*models.Document, error)
	Create(ctx context.Context, path models.Path, data map[string]any) error
	Set(ctx context.Context, path models.Path, data map[string]any, merge bool) error
	Update(ctx context.Context, path models.Path, data map[string]any) error
	Delete(ctx context.Context, path models.Path) error
	Query(ctx context.Context, collection models.Path, expr *where.Expression, opts models.QueryOptions) ([]models.Document, error)
	BatchWrite(ctx context.Context, ops []models.WriteOp) error
}

// QueryParams carry the raw --where, --order-by and --limit values of a command.
type QueryParams struct {
	Where   []string
	OrderBy []string
	Limit   int
}

type DocumentService struct {
	backend   Backend
	batchSize int
	logger    *zap.SugaredLogger
}

type DocumentServiceOption func(*DocumentService)

func WithBatchSize(n int) DocumentServiceOption {
	return func(s *DocumentService) {
		if n > 0 {
			s.batchSize = n
		}
	}
}

func NewDocumentService(backend Backend, opts ...DocumentServiceOption) *DocumentService {
	s := &DocumentService{
		backend:   backend,
		batchSize: DefaultBatchSize,
		logger:    zap.S().Named("document_service"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Fetch returns the document at a document path, or the documents of a
// collection path that match params.
func (s *DocumentService) Fetch(ctx context.Context, rawPath string, params QueryParams) ([]models.Document, error) {
	path, err := models.ParsePath(rawPath)
	if err != nil {
		return nil, err
	}

	if path.IsDocument() {
		if params.Where != nil {
			return nil, srvErrors.NewInvalidArgumentError("--where needs a collection path, %s is a document", path)
		}
		doc, err := s.backend.Get(ctx, path)
		if err != nil {
			return nil, err
		}
		return []models.Document{*doc}, nil
	}

	expr, err := CompileWhere(params.Where)
	if err != nil {
		return nil, err
	}

	orderBy, err := ParseOrderBy(params.OrderBy)
	if err != nil {
		return nil, err
	}
	if params.Limit < 0 {
		return nil, srvErrors.NewInvalidArgumentError("limit must not be negative, got %d", params.Limit)
	}

	s.logger.Debugw("fetching documents", "collection", path.String(), "where", expr, "order_by", orderBy, "limit", params.Limit)
	return s.backend.Query(ctx, path, expr, models.QueryOptions{Limit: params.Limit, OrderBy: orderBy})
}

// Add creates a document in collection. An empty id is replaced by a random UUID.
func (s *DocumentService) Add(ctx context.Context, rawCollection, id string, data map[string]any) (models.Path, error) {
	collection, err := models.ParseCollectionPath(rawCollection)
	if err != nil {
		return models.Path{}, err
	}

	if id == "" {
		id = uuid.NewString()
	}
	if strings.Contains(id, "/") {
		return models.Path{}, srvErrors.NewInvalidArgumentError("document id %q must not contain /", id)
	}

	path := collection.Child(id)
	if err := s.backend.Create(ctx, path, data); err != nil {
		return models.Path{}, err
	}

	s.logger.Infow("document created", "path", path.String())
	return path, nil
}

func (s *DocumentService) Set(ctx context.Context, rawPath string, data map[string]any, merge bool) error {
	path, err := models.ParseDocumentPath(rawPath)
	if err != nil {
		return err
	}
	return s.backend.Set(ctx, path, data, merge)
}

func (s *DocumentService) Update(ctx context.Context, rawPath string, data map[string]any) error {
	path, err := models.ParseDocumentPath(rawPath)
	if err != nil {
		return err
	}
	if len(data) == 0 {
		return srvErrors.NewInvalidArgumentError("nothing to update in %s", path)
	}
	return s.backend.Update(ctx, path, data)
}

// Delete removes a single document.
func (s *DocumentService) Delete(ctx context.Context, rawPath string) error {
	path, err := models.ParseDocumentPath(rawPath)
	if err != nil {
		return err
	}
	return s.backend.Delete(ctx, path)
}

// DeleteWhere removes the documents of a collection that match whereValues,
// or all of them when all is set. It returns the number of deleted documents.
func (s *DocumentService) DeleteWhere(ctx context.Context, rawCollection string, whereValues []string, all bool) (int, error) {
	collection, err := models.ParseCollectionPath(rawCollection)
	if err != nil {
		return 0, err
	}

	if whereValues == nil && !all {
		return 0, srvErrors.NewInvalidArgumentError("deleting from collection %s needs --where or --all", collection)
	}
	if whereValues != nil && all {
		return 0, srvErrors.NewInvalidArgumentError("--where and --all are mutually exclusive")
	}

	expr, err := CompileWhere(whereValues)
	if err != nil {
		return 0, err
	}

	docs, err := s.backend.Query(ctx, collection, expr, models.QueryOptions{})
	if err != nil {
		return 0, err
	}

	ops := make([]models.WriteOp, 0, len(docs))
	for _, d := range docs {
		ops = append(ops, models.WriteOp{Kind: models.DeleteOp, Path: collection.Child(d.ID)})
	}

	if err := s.write(ctx, ops); err != nil {
		return 0, err
	}
	return len(ops), nil
}

// Import writes every entry of r into collection. r holds the get --json
// format: a list of single-key objects mapping the document id to its data.
func (s *DocumentService) Import(ctx context.Context, rawCollection string, r io.Reader, merge bool) (int, error) {
	collection, err := models.ParseCollectionPath(rawCollection)
	if err != nil {
		return 0, err
	}

	entries, err := ParseExport(r)
	if err != nil {
		return 0, err
	}

	ops := make([]models.WriteOp, 0, len(entries))
	for _, e := range entries {
		if e.ID == "" || strings.Contains(e.ID, "/") {
			return 0, srvErrors.NewInvalidArgumentError("invalid document id %q", e.ID)
		}
		ops = append(ops, models.WriteOp{Kind: models.SetOp, Path: collection.Child(e.ID), Data: e.Data, Merge: merge})
	}

	if err := s.write(ctx, ops); err != nil {
		return 0, err
	}
	return len(ops), nil
}

func (s *DocumentService) write(ctx context.Context, ops []models.WriteOp) error {
	for start := 0; start < len(ops); start += s.batchSize {
		end := min(start+s.batchSize, len(ops))

		s.logger.Debugw("writing batch", "from", start, "to", end, "total", len(ops))
		if err := s.backend.BatchWrite(ctx, ops[start:end]); err != nil {
			return fmt.Errorf("batch %d-%d: %w", start, end, err)
		}
	}
	return nil
}

// ExportEntry is one element of the export format.
type ExportEntry struct {
	ID   string
	Data map[string]any
}

// ParseExport reads [{"<id>": {...}}, ...].
func ParseExport(r io.Reader) ([]ExportEntry, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var raw []map[string]any
	if err := dec.Decode(&raw); err != nil {
		return nil, srvErrors.NewInvalidArgumentError("invalid import file: %v", err)
	}

	entries := make([]ExportEntry, 0, len(raw))
	for i, item := range raw {
		if len(item) != 1 {
			return nil, srvErrors.NewInvalidArgumentError("import entry %d must have exactly one key, got %d", i, len(item))
		}
		for id, v := range item {
			data, ok := models.NormalizeNumbers(v).(map[string]any)
			if !ok {
				return nil, srvErrors.NewInvalidArgumentError("import entry %d (%s) is not an object", i, id)
			}
			entries = append(entries, ExportEntry{ID: id, Data: data})
		}
	}
	return entries, nil
}

// ToExport renders documents in the format read by ParseExport.
func ToExport(docs []models.Document) []map[string]map[string]any {
	out := make([]map[string]map[string]any, 0, len(docs))
	for _, d := range docs {
		out = append(out, map[string]map[string]any{d.ID: d.Data})
	}
	return out
}

// ParseData decodes the --data or --file value of a write command.
func ParseData(r io.Reader) (map[string]any, error) {
	data, err := models.DecodeObject(r)
	if err != nil {
		return nil, srvErrors.NewInvalidArgumentError("invalid document data: %v", err)
	}
	return data, nil
}

// CompileWhere compiles the --where values. nil means the flag was not given.
func CompileWhere(values []string) (*where.Expression, error) {
	if values == nil {
		return nil, nil
	}
	return where.CompileArgs(values)
}

// ParseOrderBy reads "field", "field:asc" or "field:desc".
func ParseOrderBy(values []string) ([]models.OrderField, error) {
	out := make([]models.OrderField, 0, len(values))
	for _, v := range values {
		field, dir, _ := strings.Cut(v, ":")
		if field == "" {
			return nil, srvErrors.NewInvalidArgumentError("invalid --order-by %q: empty field", v)
		}

		switch strings.ToLower(dir) {
		case "", "asc":
			out = append(out, models.OrderField{Field: field})
		case "desc":
			out = append(out, models.OrderField{Field: field, Desc: true})
		default:
			return nil, srvErrors.NewInvalidArgumentError("invalid --order-by %q: direction must be asc or desc", v)
		}
	}
	return out, nil
}
