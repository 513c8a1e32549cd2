package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"dario.cat/mergo"
	sq "github.com/Masterminds/squirrel"

	"github.com/kubev2v/docctl/internal/models"
	srvErrors "github.com/kubev2v/docctl/pkg/errors"
	"github.com/kubev2v/docctl/pkg/where"
)

// Column name constants for the documents table
const (
	documentsTable      = "documents"
	documentsColPath    = "path"
	documentsColParent  = "collection"
	documentsColID      = "id"
	documentsColData    = "data"
	documentsColUpdated = "update_time"
)

// DocumentStore keeps documents as JSON rows keyed by their full path.
type DocumentStore struct {
	db QueryInterceptor
}

func NewDocumentStore(db QueryInterceptor) *DocumentStore {
	return &DocumentStore{db: db}
}

// Get returns the document at path.
func (s *DocumentStore) Get(ctx context.Context, path models.Path) (*models.Document, error) {
	return s.get(ctx, s.db, path)
}

// Create inserts a new document. It fails if the path is taken.
func (s *DocumentStore) Create(ctx context.Context, path models.Path, data map[string]any) error {
	return s.db.WithTx(ctx, func(q QueryInterceptor) error {
		exists, err := s.exists(ctx, q, path)
		if err != nil {
			return err
		}
		if exists {
			return srvErrors.NewDocumentAlreadyExistsError(path.String())
		}
		return s.upsert(ctx, q, path, data)
	})
}

// Set writes the document, replacing it or, with merge, deep merging data
// into the stored fields.
func (s *DocumentStore) Set(ctx context.Context, path models.Path, data map[string]any, merge bool) error {
	return s.db.WithTx(ctx, func(q QueryInterceptor) error {
		return s.set(ctx, q, path, data, merge)
	})
}

// Update replaces the given top-level fields of an existing document.
func (s *DocumentStore) Update(ctx context.Context, path models.Path, data map[string]any) error {
	return s.db.WithTx(ctx, func(q QueryInterceptor) error {
		doc, err := s.get(ctx, q, path)
		if err != nil {
			return err
		}
		for k, v := range data {
			doc.Data[k] = v
		}
		return s.upsert(ctx, q, path, doc.Data)
	})
}

// Delete removes the document. Deleting a missing document is not an error.
func (s *DocumentStore) Delete(ctx context.Context, path models.Path) error {
	return s.delete(ctx, s.db, path)
}

// BatchWrite applies ops in one transaction.
func (s *DocumentStore) BatchWrite(ctx context.Context, ops []models.WriteOp) error {
	return s.db.WithTx(ctx, func(q QueryInterceptor) error {
		for _, op := range ops {
			var err error
			switch op.Kind {
			case models.SetOp:
				err = s.set(ctx, q, op.Path, op.Data, op.Merge)
			case models.DeleteOp:
				err = s.delete(ctx, q, op.Path)
			default:
				err = fmt.Errorf("unknown write op %d", op.Kind)
			}
			if err != nil {
				return fmt.Errorf("writing %s: %w", op.Path, err)
			}
		}
		return nil
	})
}

// Query returns the documents of collection matching expr. A nil expr
// matches every document.
func (s *DocumentStore) Query(ctx context.Context, collection models.Path, expr *where.Expression, opts models.QueryOptions) ([]models.Document, error) {
	filters, err := Filters(expr)
	if err != nil {
		return nil, err
	}
	return s.Find(ctx, collection, opts, filters...)
}

// Find returns the documents of collection matching every filter.
func (s *DocumentStore) Find(ctx context.Context, collection models.Path, opts models.QueryOptions, filters ...sq.Sqlizer) ([]models.Document, error) {
	builder := sq.Select(documentsColID, documentsColPath, documentsColData+"::VARCHAR").
		From(documentsTable).
		Where(sq.Eq{documentsColParent: collection.String()})

	for _, f := range filters {
		builder = builder.Where(f)
	}

	for _, o := range opts.OrderBy {
		builder = builder.Where(present(fieldRef(o.Field))).OrderBy(orderBy(o)...)
	}
	builder = builder.OrderBy(documentsColID)

	if opts.Limit > 0 {
		builder = builder.Limit(uint64(opts.Limit))
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("building query for %s: %w", collection, err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying %s: %w", collection, err)
	}
	defer rows.Close()

	docs := []models.Document{}
	for rows.Next() {
		var doc models.Document
		var raw string
		if err := rows.Scan(&doc.ID, &doc.Path, &raw); err != nil {
			return nil, fmt.Errorf("scanning document: %w", err)
		}
		if doc.Data, err = decodeData(raw); err != nil {
			return nil, fmt.Errorf("decoding %s: %w", doc.Path, err)
		}
		docs = append(docs, doc)
	}

	return docs, rows.Err()
}

func (s *DocumentStore) get(ctx context.Context, q QueryInterceptor, path models.Path) (*models.Document, error) {
	query, args, err := sq.Select(documentsColData + "::VARCHAR").
		From(documentsTable).
		Where(sq.Eq{documentsColPath: path.String()}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building query for document %s: %w", path, err)
	}

	var raw string
	err = q.QueryRowContext(ctx, query, args...).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, srvErrors.NewDocumentNotFoundError(path.String())
	}
	if err != nil {
		return nil, fmt.Errorf("reading document %s: %w", path, err)
	}

	data, err := decodeData(raw)
	if err != nil {
		return nil, fmt.Errorf("decoding document %s: %w", path, err)
	}

	return &models.Document{ID: path.ID(), Path: path.String(), Data: data}, nil
}

func (s *DocumentStore) exists(ctx context.Context, q QueryInterceptor, path models.Path) (bool, error) {
	query, args, err := sq.Select("COUNT(*)").
		From(documentsTable).
		Where(sq.Eq{documentsColPath: path.String()}).
		ToSql()
	if err != nil {
		return false, err
	}

	var count int
	if err := q.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *DocumentStore) set(ctx context.Context, q QueryInterceptor, path models.Path, data map[string]any, merge bool) error {
	if !merge {
		return s.upsert(ctx, q, path, data)
	}

	current, err := s.get(ctx, q, path)
	if srvErrors.IsResourceNotFoundError(err) {
		return s.upsert(ctx, q, path, data)
	}
	if err != nil {
		return err
	}

	merged := current.Data
	if err := mergo.Merge(&merged, data, mergo.WithOverride); err != nil {
		return fmt.Errorf("merging document %s: %w", path, err)
	}
	return s.upsert(ctx, q, path, merged)
}

func (s *DocumentStore) upsert(ctx context.Context, q QueryInterceptor, path models.Path, data map[string]any) error {
	if data == nil {
		data = map[string]any{}
	}
	encoded, err := json.Marshal(data)
	if err != nil {
		return srvErrors.NewInvalidArgumentError("document %s is not JSON serializable: %v", path, err)
	}

	query, args, err := sq.Insert(documentsTable).
		Columns(documentsColPath, documentsColParent, documentsColID, documentsColData).
		Values(path.String(), path.Parent().String(), path.ID(), sq.Expr("CAST(? AS JSON)", string(encoded))).
		Suffix("ON CONFLICT (" + documentsColPath + ") DO UPDATE SET " +
			documentsColData + " = EXCLUDED." + documentsColData + ", " +
			documentsColUpdated + " = now()").
		ToSql()
	if err != nil {
		return fmt.Errorf("building upsert for document %s: %w", path, err)
	}

	if _, err := q.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("writing document %s: %w", path, err)
	}
	return nil
}

func (s *DocumentStore) delete(ctx context.Context, q QueryInterceptor, path models.Path) error {
	query, args, err := sq.Delete(documentsTable).
		Where(sq.Eq{documentsColPath: path.String()}).
		ToSql()
	if err != nil {
		return err
	}

	if _, err := q.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("deleting document %s: %w", path, err)
	}
	return nil
}

func decodeData(raw string) (map[string]any, error) {
	return models.DecodeObject(strings.NewReader(raw))
}
