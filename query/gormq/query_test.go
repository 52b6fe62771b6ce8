package gormq_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"

	"github.com/nrfta/crudgrid-go/pagination"
	"github.com/nrfta/crudgrid-go/query"
	"github.com/nrfta/crudgrid-go/query/gormq"
)

var _ = Describe("Query", func() {
	var (
		db  *gorm.DB
		sut *gormq.Query
	)

	BeforeEach(func() {
		db = dryRunDB()
		sut = gormq.New()
	})

	It("is a SQL builder", func() {
		Expect(sut.Kind()).To(Equal(query.KindSQL))
	})

	It("renders predicates and ordering on the chain", func() {
		sut.Like("first_name", "first_name", "%jo%")
		sut.In("age", "age", []any{30, 40})
		sut.OrderBy("last_name", query.DESC)
		sut.AddOrderBy("first_name", query.ASC)

		sql := db.ToSQL(func(tx *gorm.DB) *gorm.DB {
			return sut.Apply(tx.Model(&user{})).Find(&[]user{})
		})

		Expect(sql).To(ContainSubstring(`FROM "users"`))
		Expect(sql).To(ContainSubstring("first_name LIKE '%jo%'"))
		Expect(sql).To(ContainSubstring("age IN (30,40)"))
		Expect(sql).To(ContainSubstring("ORDER BY last_name DESC,first_name ASC"))
	})

	It("runs scopes before recorded predicates", func() {
		sut = gormq.New(func(tx *gorm.DB) *gorm.DB {
			return tx.Where("deleted_at IS NULL")
		})
		sut.Eq("age", "age", 30)

		sql := db.ToSQL(func(tx *gorm.DB) *gorm.DB {
			return sut.ApplyWhere(tx.Model(&user{})).Find(&[]user{})
		})

		Expect(sql).To(ContainSubstring("deleted_at IS NULL AND age = 30"))
	})
})

var _ = Describe("Fetcher", func() {
	It("fetches through the dry-run chain without error", func() {
		q := gormq.New()
		q.Eq("age", "age", 30)
		sut := gormq.NewFetcher[user](dryRunDB().Model(&user{}))

		items, err := sut.Fetch(context.Background(), pagination.FetchParams{Limit: 10, Offset: 10, Query: q})

		Expect(err).ToNot(HaveOccurred())
		Expect(items).To(BeEmpty())
	})

	It("rejects foreign builders", func() {
		sut := gormq.NewFetcher[user](dryRunDB().Model(&user{}))

		_, err := sut.Count(context.Background(), pagination.FetchParams{Query: query.NewRecorder(query.KindSQL)})

		Expect(err).To(MatchError(ContainSubstring("*gormq.Query")))
	})
})
