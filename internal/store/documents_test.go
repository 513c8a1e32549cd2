package store_test

import (
	"context"
	"database/sql"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/kubev2v/docctl/internal/models"
	"github.com/kubev2v/docctl/internal/store"
	"github.com/kubev2v/docctl/internal/store/migrations"
	srvErrors "github.com/kubev2v/docctl/pkg/errors"
)

func mustPath(raw string) models.Path {
	p, err := models.ParsePath(raw)
	Expect(err).NotTo(HaveOccurred())
	return p
}

var _ = Describe("DocumentStore", func() {
	var (
		ctx context.Context
		s   *store.Store
		db  *sql.DB
	)

	BeforeEach(func() {
		ctx = context.Background()

		var err error
		db, err = store.NewDB(":memory:")
		Expect(err).NotTo(HaveOccurred())

		err = migrations.Run(ctx, db)
		Expect(err).NotTo(HaveOccurred())

		s = store.NewStore(db)
	})

	AfterEach(func() {
		if db != nil {
			db.Close()
		}
	})

	Context("Get", func() {
		It("should return DocumentNotFoundError when the document does not exist", func() {
			_, err := s.Documents().Get(ctx, mustPath("users/nobody"))
			Expect(err).To(HaveOccurred())
			Expect(srvErrors.IsResourceNotFoundError(err)).To(BeTrue())
			Expect(err.Error()).To(Equal("document users/nobody not found"))
		})

		It("should decode integral numbers as int64", func() {
			err := s.Documents().Set(ctx, mustPath("users/dan"), map[string]any{
				"name":  "Dan",
				"age":   24,
				"score": 9.5,
				"tags":  []any{"a", 1},
			}, false)
			Expect(err).NotTo(HaveOccurred())

			doc, err := s.Documents().Get(ctx, mustPath("users/dan"))
			Expect(err).NotTo(HaveOccurred())
			Expect(doc.ID).To(Equal("dan"))
			Expect(doc.Path).To(Equal("users/dan"))
			Expect(doc.Data).To(Equal(map[string]any{
				"name":  "Dan",
				"age":   int64(24),
				"score": 9.5,
				"tags":  []any{"a", int64(1)},
			}))
		})
	})

	Context("Create", func() {
		It("should create a new document", func() {
			err := s.Documents().Create(ctx, mustPath("users/mary"), map[string]any{"name": "Mary"})
			Expect(err).NotTo(HaveOccurred())

			doc, err := s.Documents().Get(ctx, mustPath("users/mary"))
			Expect(err).NotTo(HaveOccurred())
			Expect(doc.Data).To(HaveKeyWithValue("name", "Mary"))
		})

		It("should fail when the document already exists", func() {
			Expect(s.Documents().Create(ctx, mustPath("users/mary"), map[string]any{"name": "Mary"})).To(Succeed())

			err := s.Documents().Create(ctx, mustPath("users/mary"), map[string]any{"name": "Other"})
			Expect(err).To(HaveOccurred())
			Expect(srvErrors.IsResourceAlreadyExistsError(err)).To(BeTrue())

			doc, err := s.Documents().Get(ctx, mustPath("users/mary"))
			Expect(err).NotTo(HaveOccurred())
			Expect(doc.Data).To(HaveKeyWithValue("name", "Mary"))
		})
	})

	Context("Set", func() {
		It("should replace the whole document without merge", func() {
			path := mustPath("users/dan")
			Expect(s.Documents().Set(ctx, path, map[string]any{"name": "Dan", "age": 24}, false)).To(Succeed())
			Expect(s.Documents().Set(ctx, path, map[string]any{"hair": "brown"}, false)).To(Succeed())

			doc, err := s.Documents().Get(ctx, path)
			Expect(err).NotTo(HaveOccurred())
			Expect(doc.Data).To(Equal(map[string]any{"hair": "brown"}))
		})

		It("should overwrite an existing row and refresh its update time", func() {
			path := mustPath("users/dan")
			Expect(s.Documents().Set(ctx, path, map[string]any{"name": "Dan"}, false)).To(Succeed())
			Expect(s.Documents().Set(ctx, path, map[string]any{"name": "Daniel"}, false)).To(Succeed())

			var (
				count   int
				ordered bool
			)
			err := db.QueryRowContext(ctx, "SELECT count(*), bool_and(update_time >= create_time) FROM documents WHERE path = ?", path.String()).Scan(&count, &ordered)
			Expect(err).NotTo(HaveOccurred())
			Expect(count).To(Equal(1))
			Expect(ordered).To(BeTrue())

			doc, err := s.Documents().Get(ctx, path)
			Expect(err).NotTo(HaveOccurred())
			Expect(doc.Data).To(Equal(map[string]any{"name": "Daniel"}))
		})

		It("should deep merge nested maps with merge", func() {
			path := mustPath("users/dan")
			Expect(s.Documents().Set(ctx, path, map[string]any{
				"name":    "Dan",
				"address": map[string]any{"city": "Brno", "zip": "60200"},
			}, false)).To(Succeed())

			Expect(s.Documents().Set(ctx, path, map[string]any{
				"age":     25,
				"address": map[string]any{"city": "Prague"},
			}, true)).To(Succeed())

			doc, err := s.Documents().Get(ctx, path)
			Expect(err).NotTo(HaveOccurred())
			Expect(doc.Data).To(Equal(map[string]any{
				"name":    "Dan",
				"age":     int64(25),
				"address": map[string]any{"city": "Prague", "zip": "60200"},
			}))
		})

		It("should create the document when merging into a missing one", func() {
			path := mustPath("users/dave")
			Expect(s.Documents().Set(ctx, path, map[string]any{"name": "Dave"}, true)).To(Succeed())

			doc, err := s.Documents().Get(ctx, path)
			Expect(err).NotTo(HaveOccurred())
			Expect(doc.Data).To(Equal(map[string]any{"name": "Dave"}))
		})
	})

	Context("Update", func() {
		It("should replace top-level fields only", func() {
			path := mustPath("users/dan")
			Expect(s.Documents().Set(ctx, path, map[string]any{
				"name":    "Dan",
				"address": map[string]any{"city": "Brno", "zip": "60200"},
			}, false)).To(Succeed())

			Expect(s.Documents().Update(ctx, path, map[string]any{
				"address": map[string]any{"city": "Prague"},
			})).To(Succeed())

			doc, err := s.Documents().Get(ctx, path)
			Expect(err).NotTo(HaveOccurred())
			Expect(doc.Data).To(Equal(map[string]any{
				"name":    "Dan",
				"address": map[string]any{"city": "Prague"},
			}))
		})

		It("should fail for a missing document", func() {
			err := s.Documents().Update(ctx, mustPath("users/nobody"), map[string]any{"a": 1})
			Expect(srvErrors.IsResourceNotFoundError(err)).To(BeTrue())
		})
	})

	Context("Delete", func() {
		It("should delete the document", func() {
			path := mustPath("users/dan")
			Expect(s.Documents().Set(ctx, path, map[string]any{"name": "Dan"}, false)).To(Succeed())
			Expect(s.Documents().Delete(ctx, path)).To(Succeed())

			_, err := s.Documents().Get(ctx, path)
			Expect(srvErrors.IsResourceNotFoundError(err)).To(BeTrue())
		})

		It("should not fail for a missing document", func() {
			Expect(s.Documents().Delete(ctx, mustPath("users/nobody"))).To(Succeed())
		})
	})

	Context("BatchWrite", func() {
		It("should apply all operations", func() {
			Expect(s.Documents().Set(ctx, mustPath("users/old"), map[string]any{"name": "Old"}, false)).To(Succeed())

			err := s.Documents().BatchWrite(ctx, []models.WriteOp{
				{Kind: models.SetOp, Path: mustPath("users/a"), Data: map[string]any{"n": 1}},
				{Kind: models.SetOp, Path: mustPath("users/b"), Data: map[string]any{"n": 2}},
				{Kind: models.DeleteOp, Path: mustPath("users/old")},
			})
			Expect(err).NotTo(HaveOccurred())

			docs, err := s.Documents().Query(ctx, mustPath("users"), nil, models.QueryOptions{})
			Expect(err).NotTo(HaveOccurred())
			Expect(docs).To(HaveLen(2))
			Expect(docs[0].ID).To(Equal("a"))
			Expect(docs[1].ID).To(Equal("b"))
		})

		It("should roll back every operation when one fails", func() {
			err := s.Documents().BatchWrite(ctx, []models.WriteOp{
				{Kind: models.SetOp, Path: mustPath("users/a"), Data: map[string]any{"n": 1}},
				{Kind: models.SetOp, Path: mustPath("users/b"), Data: map[string]any{"bad": make(chan int)}},
			})
			Expect(err).To(HaveOccurred())
			Expect(srvErrors.IsInvalidArgumentError(err)).To(BeTrue())

			_, err = s.Documents().Get(ctx, mustPath("users/a"))
			Expect(srvErrors.IsResourceNotFoundError(err)).To(BeTrue())
		})
	})

	Context("Query", func() {
		BeforeEach(func() {
			Expect(s.Documents().BatchWrite(ctx, []models.WriteOp{
				{Kind: models.SetOp, Path: mustPath("users/c"), Data: map[string]any{"rank": 10}},
				{Kind: models.SetOp, Path: mustPath("users/a"), Data: map[string]any{"rank": 2}},
				{Kind: models.SetOp, Path: mustPath("users/b"), Data: map[string]any{"rank": 100}},
				{Kind: models.SetOp, Path: mustPath("users/d"), Data: map[string]any{"other": true}},
				{Kind: models.SetOp, Path: mustPath("users/a/posts/p1"), Data: map[string]any{"rank": 1}},
			})).To(Succeed())
		})

		ids := func(docs []models.Document) []string {
			out := make([]string, 0, len(docs))
			for _, d := range docs {
				out = append(out, d.ID)
			}
			return out
		}

		It("should return only direct children ordered by id", func() {
			docs, err := s.Documents().Query(ctx, mustPath("users"), nil, models.QueryOptions{})
			Expect(err).NotTo(HaveOccurred())
			Expect(ids(docs)).To(Equal([]string{"a", "b", "c", "d"}))
		})

		It("should query sub-collections", func() {
			docs, err := s.Documents().Query(ctx, mustPath("users/a/posts"), nil, models.QueryOptions{})
			Expect(err).NotTo(HaveOccurred())
			Expect(ids(docs)).To(Equal([]string{"p1"}))
			Expect(docs[0].Path).To(Equal("users/a/posts/p1"))
		})

		It("should order numerically and drop documents missing the field", func() {
			docs, err := s.Documents().Query(ctx, mustPath("users"), nil, models.QueryOptions{
				OrderBy: []models.OrderField{{Field: "rank", Desc: true}},
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(ids(docs)).To(Equal([]string{"b", "c", "a"}))
		})

		It("should apply the limit", func() {
			docs, err := s.Documents().Query(ctx, mustPath("users"), nil, models.QueryOptions{
				Limit:   2,
				OrderBy: []models.OrderField{{Field: "rank"}},
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(ids(docs)).To(Equal([]string{"a", "c"}))
		})
	})
})
