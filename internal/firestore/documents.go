package firestore

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/genproto/googleapis/type/latlng"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/kubev2v/docctl/internal/models"
	srvErrors "github.com/kubev2v/docctl/pkg/errors"
	"github.com/kubev2v/docctl/pkg/where"
)

// Get returns the document at path.
func (c *Client) Get(ctx context.Context, path models.Path) (*models.Document, error) {
	snap, err := c.client.Doc(path.String()).Get(ctx)
	if err != nil {
		return nil, mapError(path, err)
	}
	return toDocument(path.String(), snap), nil
}

// Create fails with ResourceAlreadyExistsError when the document exists.
func (c *Client) Create(ctx context.Context, path models.Path, data map[string]any) error {
	if _, err := c.client.Doc(path.String()).Create(ctx, data); err != nil {
		return mapError(path, err)
	}
	return nil
}

func (c *Client) Set(ctx context.Context, path models.Path, data map[string]any, merge bool) error {
	var opts []firestore.SetOption
	if merge {
		opts = append(opts, firestore.MergeAll)
	}

	if _, err := c.client.Doc(path.String()).Set(ctx, data, opts...); err != nil {
		return mapError(path, err)
	}
	return nil
}

// Update replaces the given top-level fields of an existing document.
func (c *Client) Update(ctx context.Context, path models.Path, data map[string]any) error {
	if len(data) == 0 {
		return srvErrors.NewInvalidArgumentError("update of %s has no fields", path)
	}

	if _, err := c.client.Doc(path.String()).Update(ctx, updates(data)); err != nil {
		return mapError(path, err)
	}
	return nil
}

func (c *Client) Delete(ctx context.Context, path models.Path) error {
	if _, err := c.client.Doc(path.String()).Delete(ctx); err != nil {
		return mapError(path, err)
	}
	return nil
}

// Query runs expr against collection. A nil expr returns every document.
func (c *Client) Query(ctx context.Context, collection models.Path, expr *where.Expression, opts models.QueryOptions) ([]models.Document, error) {
	q, err := ApplyWhere(c.client.Collection(collection.String()).Query, expr)
	if err != nil {
		return nil, err
	}

	for _, o := range opts.OrderBy {
		dir := firestore.Asc
		if o.Desc {
			dir = firestore.Desc
		}
		q = q.OrderBy(o.Field, dir)
	}
	if opts.Limit > 0 {
		q = q.Limit(opts.Limit)
	}

	if expr != nil {
		c.logger.Debugw("query", "collection", collection.String(), "filter", where.ToFilter(expr))
	}

	snaps, err := q.Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("querying %s: %w", collection, err)
	}

	docs := make([]models.Document, 0, len(snaps))
	for _, snap := range snaps {
		docs = append(docs, *toDocument(collection.Child(snap.Ref.ID).String(), snap))
	}
	return docs, nil
}

// BatchWrite sends ops through a BulkWriter and waits for every result.
func (c *Client) BatchWrite(ctx context.Context, ops []models.WriteOp) error {
	bw := c.client.BulkWriter(ctx)

	jobs := make([]*firestore.BulkWriterJob, 0, len(ops))
	var errs []error
	for _, op := range ops {
		ref := c.client.Doc(op.Path.String())

		var job *firestore.BulkWriterJob
		var err error
		switch op.Kind {
		case models.SetOp:
			if op.Merge {
				job, err = bw.Set(ref, op.Data, firestore.MergeAll)
			} else {
				job, err = bw.Set(ref, op.Data)
			}
		case models.DeleteOp:
			job, err = bw.Delete(ref)
		default:
			err = fmt.Errorf("unknown write op %d", op.Kind)
		}
		if err != nil {
			errs = append(errs, fmt.Errorf("writing %s: %w", op.Path, err))
			continue
		}
		jobs = append(jobs, job)
	}

	bw.End()

	for i, job := range jobs {
		if _, err := job.Results(); err != nil {
			errs = append(errs, fmt.Errorf("job %d: %w", i, err))
		}
	}

	return errors.Join(errs...)
}

func updates(data map[string]any) []firestore.Update {
	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]firestore.Update, 0, len(keys))
	for _, k := range keys {
		out = append(out, firestore.Update{FieldPath: firestore.FieldPath{k}, Value: data[k]})
	}
	return out
}

func mapError(path models.Path, err error) error {
	switch status.Code(err) {
	case codes.NotFound:
		return srvErrors.NewDocumentNotFoundError(path.String())
	case codes.AlreadyExists:
		return srvErrors.NewDocumentAlreadyExistsError(path.String())
	}
	return fmt.Errorf("document %s: %w", path, err)
}

func toDocument(path string, snap *firestore.DocumentSnapshot) *models.Document {
	data, _ := normalize(snap.Data()).(map[string]any)
	if data == nil {
		data = map[string]any{}
	}
	return &models.Document{ID: snap.Ref.ID, Path: path, Data: data}
}

// normalize converts Firestore specific values into plain JSON friendly ones.
func normalize(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[k] = normalize(e)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = normalize(e)
		}
		return out
	case time.Time:
		return t.UTC().Format(time.RFC3339Nano)
	case *latlng.LatLng:
		return map[string]any{"latitude": t.GetLatitude(), "longitude": t.GetLongitude()}
	case *firestore.DocumentRef:
		return refPath(t)
	default:
		return v
	}
}

// refPath trims "projects/p/databases/d/documents/" from a reference.
func refPath(ref *firestore.DocumentRef) string {
	if _, rel, ok := strings.Cut(ref.Path, "/documents/"); ok {
		return rel
	}
	return ref.Path
}
