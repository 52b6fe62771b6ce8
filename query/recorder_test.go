package query_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/nrfta/crudgrid-go/query"
)

var _ = Describe("Recorder", func() {
	var sut *query.Recorder

	BeforeEach(func() {
		sut = query.NewRecorder(query.KindSQL)
	})

	It("reports its kind", func() {
		Expect(sut.Kind()).To(Equal(query.KindSQL))
		Expect(query.NewRecorder(query.KindRemote).Kind()).To(Equal(query.KindRemote))
	})

	Describe("ordering", func() {
		It("replaces ordering on OrderBy", func() {
			sut.AddOrderBy("a", query.ASC)
			sut.OrderBy("b", query.DESC)

			Expect(sut.Orders()).To(Equal([]query.Order{{Expr: "b", Direction: query.DESC}}))
		})

		It("appends ordering on AddOrderBy", func() {
			sut.OrderBy("last_name", query.ASC)
			sut.AddOrderBy("first_name", query.DESC)

			Expect(query.OrderClause(sut.Orders())).To(Equal("last_name ASC, first_name DESC"))
		})
	})

	Describe("predicates", func() {
		It("records every predicate form with named parameters", func() {
			sut.Eq("u.id", "id", 5)
			sut.In("u.role", "role", []any{"a", "b"})
			sut.Like("u.name", "name", "%x%")
			sut.IsNull("u.deleted_at")
			sut.IsNotNull("u.email")
			sut.Compare("u.age", query.OpGte, "age", 18)
			sut.Where("(u.a = :p OR u.a IS NULL)", map[string]any{"p": true})

			Expect(sut.Clauses()).To(Equal([]string{
				"u.id = :id",
				"u.role IN (:role)",
				"u.name LIKE :name",
				"u.deleted_at IS NULL",
				"u.email IS NOT NULL",
				"u.age >= :age",
				"(u.a = :p OR u.a IS NULL)",
			}))
			Expect(sut.Params()).To(HaveLen(5))
			role, ok := sut.Param("role")
			Expect(ok).To(BeTrue())
			Expect(role).To(Equal([]any{"a", "b"}))
		})

		It("renders a readable debug string", func() {
			sut.Eq("u.id", "id", 5)
			sut.OrderBy("u.id", query.ASC)

			Expect(sut.String()).To(Equal("WHERE u.id = :id ORDER BY u.id ASC [id=5]"))
		})
	})
})

var _ = Describe("ParamName", func() {
	It("keeps plain identifiers", func() {
		Expect(query.ParamName("firstName", "")).To(Equal("firstName"))
	})

	It("appends the suffix after a double underscore", func() {
		Expect(query.ParamName("createdAt", "from")).To(Equal("createdAt__from"))
	})

	It("escapes property paths and underscores", func() {
		Expect(query.ParamName("author.name", "")).To(Equal("author_2ename"))
		Expect(query.ParamName("first_name", "")).To(Equal("first_5fname"))
	})

	DescribeTable("keeps distinct bindings apart",
		func(property, suffix, otherProperty, otherSuffix string) {
			Expect(query.ParamName(property, suffix)).ToNot(Equal(query.ParamName(otherProperty, otherSuffix)))
		},
		Entry("camel and snake case", "firstName", "", "first_name", ""),
		Entry("suffix and longer property", "createdAt", "from", "createdAtFrom", ""),
		Entry("boolean false suffix", "active", "false", "activeFalse", ""),
		Entry("escaped underscore and suffix", "a_", "x", "a", "_x"),
		Entry("path and underscore", "a.b", "", "a_b", ""),
	)

	It("produces names Positional can bind", func() {
		name := query.ParamName("author.created_at", "from")
		clause, args, err := query.Positional("x >= :"+name, map[string]any{name: 1})

		Expect(err).ToNot(HaveOccurred())
		Expect(clause).To(Equal("x >= ?"))
		Expect(args).To(Equal([]any{1}))
	})
})

var _ = Describe("ParseDirection", func() {
	It("is case-insensitive", func() {
		dir, ok := query.ParseDirection("desc")
		Expect(ok).To(BeTrue())
		Expect(dir).To(Equal(query.DESC))
	})

	It("rejects anything else", func() {
		_, ok := query.ParseDirection("sideways")
		Expect(ok).To(BeFalse())
	})
})

var _ = Describe("ParseOperator", func() {
	It("accepts the five comparators", func() {
		for _, s := range []string{"=", ">", ">=", "<", "<="} {
			_, ok := query.ParseOperator(s)
			Expect(ok).To(BeTrue(), s)
		}
	})

	It("rejects unknown comparators", func() {
		_, ok := query.ParseOperator("<>")
		Expect(ok).To(BeFalse())
	})
})
