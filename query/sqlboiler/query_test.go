package sqlboiler_test

import (
	"github.com/aarondl/sqlboiler/v4/queries/qm"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/nrfta/crudgrid-go/query"
	"github.com/nrfta/crudgrid-go/query/sqlboiler"
)

var _ = Describe("Query", func() {
	var sut *sqlboiler.Query

	BeforeEach(func() {
		sut = sqlboiler.New()
	})

	It("is a SQL builder", func() {
		Expect(sut.Kind()).To(Equal(query.KindSQL))
	})

	It("returns no mods for an untouched query", func() {
		mods, err := sut.QueryMods()

		Expect(err).ToNot(HaveOccurred())
		Expect(mods).To(BeEmpty())
	})

	It("emits one where mod per predicate and a single order by", func() {
		sut.Like("first_name", "first_name", "%jo%")
		sut.IsNull("deleted_at")
		sut.OrderBy("last_name", query.DESC)
		sut.AddOrderBy("first_name", query.ASC)

		mods, err := sut.QueryMods()

		Expect(err).ToNot(HaveOccurred())
		Expect(mods).To(HaveLen(3))
		Expect(modTypeName(mods[2])).To(Equal("qm.orderByQueryMod"))
	})

	It("keeps base mods first", func() {
		sut = sqlboiler.New(qm.InnerJoin("roles r ON r.id = users.role_id"))
		sut.Eq("r.name", "role", "admin")

		mods, err := sut.WhereMods()

		Expect(err).ToNot(HaveOccurred())
		Expect(mods).To(HaveLen(2))
		Expect(modTypeName(mods[0])).To(Equal("qm.innerJoinQueryMod"))
	})

	It("renders positional SQL with expanded lists", func() {
		sut.In("role", "role", []any{"a", "b"})
		sut.Compare("age", query.OpGte, "age", 18)
		sut.OrderBy("last_name", query.ASC)

		mods, err := sut.QueryMods()
		Expect(err).ToNot(HaveOccurred())

		sql, args := buildSQL(mods)
		Expect(sql).To(ContainSubstring("role IN ($1,$2)"))
		Expect(sql).To(ContainSubstring("age >= $3"))
		Expect(sql).To(ContainSubstring("ORDER BY last_name ASC"))
		Expect(args).To(Equal([]any{"a", "b", 18}))
	})

	It("binds raw expressions with repeated parameters", func() {
		sut.Where("(active = :active OR active IS NULL)", map[string]any{"active": false})

		mods, err := sut.WhereMods()
		Expect(err).ToNot(HaveOccurred())

		sql, args := buildSQL(mods)
		Expect(sql).To(ContainSubstring("active = $1 OR active IS NULL"))
		Expect(args).To(Equal([]any{false}))
	})
})
