package where_test

import (
	"encoding/json"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/kubev2v/docctl/pkg/where"
)

var _ = Describe("Filter", func() {
	It("should convert a single clause into a field filter", func() {
		expr, err := where.CompileArgs([]string{"age == 30"})
		Expect(err).ToNot(HaveOccurred())

		f := where.ToFilter(expr)
		Expect(f).To(Equal(where.Filter{Type: where.FieldFilterType, Field: "age", Op: "==", Value: int64(30)}))
	})

	It("should flatten chains of the same connective", func() {
		expr, err := where.CompileArgs([]string{"a == 1 or b == 2 or c == 3"})
		Expect(err).ToNot(HaveOccurred())

		f := where.ToFilter(expr)
		Expect(f.Type).To(Equal(where.OrFilterType))
		Expect(f.Children).To(HaveLen(3))
		Expect(f.Children[2].Field).To(Equal("c"))
	})

	It("should keep nested connectives as children", func() {
		expr, err := where.CompileArgs([]string{"name == Dan and age != 24 or name == Dave"})
		Expect(err).ToNot(HaveOccurred())

		data, err := json.Marshal(where.ToFilter(expr))
		Expect(err).ToNot(HaveOccurred())
		Expect(string(data)).To(MatchJSON(`{
			"type": "or",
			"children": [
				{"type": "and", "children": [
					{"type": "field", "field": "name", "op": "==", "value": "Dan"},
					{"type": "field", "field": "age", "op": "!=", "value": 24}
				]},
				{"type": "field", "field": "name", "op": "==", "value": "Dave"}
			]
		}`))
	})

	Context("Clauses", func() {
		It("should list clauses of an AND-only tree in order", func() {
			expr, err := where.CompileArgs([]string{"a == 1 and b == 2 and c == 3"})
			Expect(err).ToNot(HaveOccurred())

			clauses, ok := expr.Clauses()
			Expect(ok).To(BeTrue())
			Expect(clauses).To(HaveLen(3))
			Expect(clauses[0].Field).To(Equal("a"))
			Expect(clauses[2].Field).To(Equal("c"))
		})

		It("should refuse a tree with an OR anywhere", func() {
			expr, err := where.CompileArgs([]string{"a == 1 and b == 2 or c == 3"})
			Expect(err).ToNot(HaveOccurred())

			_, ok := expr.Clauses()
			Expect(ok).To(BeFalse())
			Expect(expr.HasOr()).To(BeTrue())
		})
	})
})
