package where_test

import (
	"errors"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/kubev2v/docctl/pkg/where"
)

func compileWords(words []string, opts ...where.CompileOption) (*where.Expression, error) {
	tokens, err := where.Tokenize(words)
	if err != nil {
		return nil, err
	}
	return where.Compile(tokens, opts...)
}

var _ = Describe("Compiler", func() {
	Context("Single clauses", func() {
		It("should compile every supported scalar comparator into a leaf", func() {
			for _, op := range []string{"==", "!=", ">", ">=", "<", "<=", "array-contains"} {
				expr, err := compileWords([]string{"f", op, "v"})
				Expect(err).ToNot(HaveOccurred(), op)
				Expect(expr.Kind).To(Equal(where.ClauseExpression))
				Expect(expr.Clause.Field).To(Equal("f"))
				Expect(expr.Clause.Op.String()).To(Equal(op))
				Expect(expr.Clause.Value.Equal(where.StringValue("v"))).To(BeTrue())
			}
		})

		It("should compile every multi-value comparator with a list", func() {
			for _, op := range []string{"in", "not-in", "array-contains-any"} {
				expr, err := compileWords([]string{"f", op, `["a","b"]`})
				Expect(err).ToNot(HaveOccurred(), op)
				Expect(expr.Kind).To(Equal(where.ClauseExpression))
				Expect(expr.Clause.Value.Equal(where.ListValue(where.StringValue("a"), where.StringValue("b")))).To(BeTrue())
			}
		})

		It("should coerce a numeric value", func() {
			expr, err := compileWords([]string{"age", "==", "30"})
			Expect(err).ToNot(HaveOccurred())
			Expect(expr.Clause.Value.Equal(where.IntValue(30))).To(BeTrue())
			Expect(expr.Clause.Value.Native()).To(Equal(int64(30)))
		})

		It("should keep a quoted number as a string", func() {
			expr, err := compileWords([]string{"id", "==", `"30"`})
			Expect(err).ToNot(HaveOccurred())
			Expect(expr.Clause.Value.Native()).To(Equal("30"))
		})

		It("should coerce a list literal", func() {
			expr, err := compileWords([]string{"in_list", "in", `["a","b"]`})
			Expect(err).ToNot(HaveOccurred())
			Expect(expr.Clause.Value.Native()).To(Equal([]any{"a", "b"}))
		})
	})

	Context("Valid expressions", func() {
		type testCase struct {
			input  string
			output string
		}

		tests := []testCase{
			// ===== SINGLE CLAUSE =====
			{input: "name == Dave", output: `(name == "Dave")`},
			{input: "age >= 21", output: `(age >= 21)`},
			{input: "ratio < 0.5", output: `(ratio < 0.5)`},
			{input: `tags array-contains-any ["a","b"]`, output: `(tags array-contains-any ["a","b"])`},

			// ===== OR =====
			{input: "name == Dave or name == Mary", output: `((name == "Dave") or (name == "Mary"))`},
			{input: "name == Dave OR name == Mary", output: `((name == "Dave") or (name == "Mary"))`},
			{input: "a == 1 or b == 2 or c == 3", output: `((a == 1) or ((b == 2) or (c == 3)))`},

			// ===== AND =====
			{input: "a == 1 and b == 2", output: `((a == 1) and (b == 2))`},
			{input: "a == 1 And b == 2", output: `((a == 1) and (b == 2))`},
			{input: "a == 1 and b == 2 and c == 3", output: `((a == 1) and ((b == 2) and (c == 3)))`},

			// ===== MIXED (OR splits first) =====
			{input: "a == 1 or b == 2 and c == 3", output: `((a == 1) or ((b == 2) and (c == 3)))`},
			{input: "a == 1 and b == 2 or c == 3", output: `(((a == 1) and (b == 2)) or (c == 3))`},
			{
				input:  "name == Dan and age != 24 or name == Dave and age != 24",
				output: `(((name == "Dan") and (age != 24)) or ((name == "Dave") and (age != 24)))`,
			},
			{
				input:  "a == 1 or b == 2 and c == 3 or d == 4",
				output: `((a == 1) or (((b == 2) and (c == 3)) or (d == 4)))`,
			},
		}

		for _, test := range tests {
			test := test
			It("should compile: "+test.input, func() {
				expr, err := where.CompileArgs([]string{test.input})
				Expect(err).ToNot(HaveOccurred())
				Expect(expr.String()).To(Equal(test.output))
			})
		}

		It("should build a right-leaning tree for an OR chain", func() {
			expr, err := where.CompileArgs([]string{"a == 1 or b == 2 or c == 3"})
			Expect(err).ToNot(HaveOccurred())
			Expect(expr.Connective).To(Equal(where.Or))
			Expect(expr.Left.Kind).To(Equal(where.ClauseExpression))
			Expect(expr.Right.Kind).To(Equal(where.BinaryExpression))
			Expect(expr.Right.Connective).To(Equal(where.Or))
		})

		It("should join repeated --where values in order", func() {
			expr, err := where.CompileArgs([]string{"name == Dave", "or", "name == Mary"})
			Expect(err).ToNot(HaveOccurred())
			Expect(expr.String()).To(Equal(`((name == "Dave") or (name == "Mary"))`))
		})

		It("should compile the same tokens into equal trees", func() {
			tokens, err := where.Tokenize(strings.Fields("name == Dan and age != 24 or name == Dave"))
			Expect(err).ToNot(HaveOccurred())

			first, err := where.Compile(tokens)
			Expect(err).ToNot(HaveOccurred())
			second, err := where.Compile(tokens)
			Expect(err).ToNot(HaveOccurred())

			Expect(first.Equal(second)).To(BeTrue())
			Expect(first).ToNot(BeIdenticalTo(second))
		})
	})

	Context("Single clause left operand", func() {
		It("should accept a single clause before the first OR", func() {
			expr, err := where.CompileArgs([]string{"a == 1 or b == 2 and c == 3"}, where.WithSingleClauseLeftOperand())
			Expect(err).ToNot(HaveOccurred())
			Expect(expr.String()).To(Equal(`((a == 1) or ((b == 2) and (c == 3)))`))
		})

		It("should reject an AND chain before the first OR", func() {
			_, err := where.CompileArgs([]string{"a == 1 and b == 2 or c == 3"}, where.WithSingleClauseLeftOperand())
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring(`invalid where clause: ["a" "==" 1 "and" "b" "==" 2]`))
		})

		It("should still accept AND chains without OR", func() {
			expr, err := where.CompileArgs([]string{"a == 1 and b == 2"}, where.WithSingleClauseLeftOperand())
			Expect(err).ToNot(HaveOccurred())
			Expect(expr.String()).To(Equal(`((a == 1) and (b == 2))`))
		})
	})

	Context("Invalid expressions", func() {
		type testCase struct {
			input string
			err   string
		}

		tests := []testCase{
			{input: "only_one_field", err: `invalid where clause: ["only_one_field"]`},
			{input: "name ==", err: `invalid where clause: ["name" "=="]`},
			{input: "name == Dave Mary", err: "invalid where clause"},
			{input: "name = Dave", err: `invalid where clause: ["name" "=" "Dave"]`},
			{input: "name like Dave", err: "invalid where clause"},
			{input: "name IN Dave", err: "invalid where clause"},
			{input: "30 == x", err: "invalid where clause: [30"},
			{input: "name == Dave or", err: "invalid where clause: []"},
			{input: "or name == Dave", err: "invalid where clause: []"},
			{input: "name == Dave and", err: "invalid where clause: []"},
			{input: "name == Dave or or name == Mary", err: "invalid where clause: []"},
			{input: "name == Dave and or name == Mary", err: "invalid where clause"},
			{input: `tags in ["a"`, err: "unclosed list"},
			{input: `tags in "a"`, err: "not a JSON array"},
			{input: `tags in []`, err: "in requires a non-empty list"},
		}

		for _, test := range tests {
			test := test
			It("should reject: "+test.input, func() {
				expr, err := where.CompileArgs([]string{test.input})
				Expect(err).To(HaveOccurred())
				Expect(expr).To(BeNil())
				Expect(err.Error()).To(ContainSubstring(test.err))
			})
		}

		It("should require at least one token", func() {
			_, err := where.Compile(nil)
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("must contain where clause if the --where flag is used"))
		})

		It("should report the offending partition position", func() {
			_, err := where.CompileArgs([]string{"a == 1 or b =="})
			var pe where.ParseError
			Expect(errors.As(err, &pe)).To(BeTrue())
			Expect(pe.Position).To(Equal(4))
		})
	})
})
