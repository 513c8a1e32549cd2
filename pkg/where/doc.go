// Package where compiles the --where token sequence into a filter expression.
//
// Grammar
//
//	expression : clause
//	           | clause-chain ( "or" expression )
//	           | clause ( "and" expression ) ;
//
//	clause-chain : clause ( "and" clause )* ;
//
//	clause     : FIELD COMPARATOR value ;
//
//	COMPARATOR : "==" | "!=" | ">" | ">=" | "<" | "<="
//	           | "in" | "not-in" | "array-contains" | "array-contains-any" ;
//
//	value      : NUMBER | STRING | LIST ;
//
// Connectives are matched case-insensitively. Comparators are case-sensitive.
//
// The compiler does not use a textbook precedence parser. It scans the flat
// token list for the first "or", splits there, and recurses into the right
// side; when there is no "or" it does the same with the first "and". Chains
// therefore build right-leaning trees:
//
//	a == 1 or b == 2 or c == 3  =>  (a == 1) or ((b == 2) or (c == 3))
//
// With WithSingleClauseLeftOperand the left side of an "or" must be a
// single clause, which rejects inputs such as "a == 1 and b == 2 or c == 3".
//
// Value coercion
//
// Values are coerced per token (see Coerce):
//
//	30          number 30
//	"30"        string "30" (double quotes force a numeric-looking string)
//	Dave        string "Dave"
//	["a","b"]   list, only after in, not-in and array-contains-any
//
// The compiled Expression is backend agnostic. Emitters walk it with Visit
// and, when the tree contains no "or", may use Clauses to apply one filter
// per clause instead of a composite filter.
package where
