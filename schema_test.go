package crudgrid_test

import (
	"github.com/friendsofgo/errors"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/nrfta/crudgrid-go"
	"github.com/nrfta/crudgrid-go/query"
)

var _ = Describe("NewColumn", func() {
	It("fills defaults from the alias", func() {
		sut, err := crudgrid.NewColumn(crudgrid.ColumnConfig{ID: "firstName", Alias: "u.first_name"})

		Expect(err).ToNot(HaveOccurred())
		Expect(sut.Label).To(Equal("firstName"))
		Expect(sut.Sortable).To(BeTrue())
		Expect(sut.DisplayedByDefault).To(BeTrue())
		Expect(sut.SortAlias).To(Equal([]string{"u.first_name"}))
		Expect(sut.SearchAlias).To(Equal("u.first_name"))
	})

	It("keeps multi-expression sort aliases", func() {
		sut, err := crudgrid.NewColumn(crudgrid.ColumnConfig{
			ID:        "name",
			Alias:     "u.last_name",
			SortAlias: []string{"u.last_name", "u.first_name"},
		})

		Expect(err).ToNot(HaveOccurred())
		Expect(sut.SortAlias).To(Equal([]string{"u.last_name", "u.first_name"}))
		Expect(sut.SearchAlias).To(Equal("u.last_name"))
	})

	It("requires an alias", func() {
		_, err := crudgrid.NewColumn(crudgrid.ColumnConfig{ID: "firstName"})

		var cfgErr *crudgrid.ConfigError
		Expect(errors.As(err, &cfgErr)).To(BeTrue())
	})
})

var _ = Describe("NewSchema", func() {
	It("computes defaults", func() {
		sut := mustSchema(crudgrid.Config{
			Name:    "users",
			Columns: []crudgrid.ColumnConfig{{ID: "firstName", Alias: "u.first_name"}},
		})

		Expect(sut.SessionKey()).To(Equal("crudgrid_users"))
		Expect(sut.PageSizes()).To(Equal([]int{10, 25, 50, 100}))
		Expect(sut.DefaultPageSize()).To(Equal(50))
		Expect(sut.DefaultSort()).To(Equal("firstName"))
		Expect(sut.DefaultSortDirection()).To(Equal(query.ASC))
		Expect(sut.DisplayFormName()).To(Equal("users_display"))
	})

	It("defaults the page size to the first choice without 50", func() {
		cfg := usersConfig()
		cfg.PageSizes = []int{20, 40}
		cfg.DefaultPageSize = 0

		Expect(mustSchema(cfg).DefaultPageSize()).To(Equal(20))
	})

	It("defaults the sort to the personalized sort when one is configured", func() {
		cfg := usersConfig()
		cfg.DefaultSort = ""
		cfg.PersonalizedSort = []crudgrid.SortCriterion{{Expr: "u.last_name"}, {Expr: "u.id", Direction: "desc"}}

		sut := mustSchema(cfg)
		Expect(sut.DefaultSort()).To(Equal(crudgrid.PersonalizedSort))
		Expect(sut.HasPersonalizedSort()).To(BeTrue())
	})

	DescribeTable("rejects invalid configurations",
		func(mutate func(*crudgrid.Config), field string) {
			cfg := usersConfig()
			mutate(&cfg)

			_, err := crudgrid.NewSchema(cfg)

			var cfgErr *crudgrid.ConfigError
			Expect(errors.As(err, &cfgErr)).To(BeTrue())
			Expect(cfgErr.Field).To(Equal(field))
		},
		Entry("missing name", func(c *crudgrid.Config) { c.Name = "" }, "name"),
		Entry("no columns", func(c *crudgrid.Config) { c.Columns = nil }, "columns"),
		Entry("duplicate column", func(c *crudgrid.Config) {
			c.Columns = append(c.Columns, crudgrid.ColumnConfig{ID: "firstName", Alias: "x"})
		}, "columns"),
		Entry("virtual column clashing with a column", func(c *crudgrid.Config) {
			c.VirtualColumns = []crudgrid.ColumnConfig{{ID: "username", Alias: "x"}}
		}, "virtualColumns"),
		Entry("nothing displayed", func(c *crudgrid.Config) {
			c.Columns = []crudgrid.ColumnConfig{{ID: "a", Alias: "a", DisplayedByDefault: crudgrid.Bool(false)}}
		}, "columns"),
		Entry("non-positive page size", func(c *crudgrid.Config) { c.PageSizes = []int{0, 10} }, "pageSizes"),
		Entry("default page size not a choice", func(c *crudgrid.Config) { c.DefaultPageSize = 25 }, "defaultPageSize"),
		Entry("bad direction", func(c *crudgrid.Config) { c.DefaultSortDirection = "up" }, "defaultSortDirection"),
		Entry("unsortable default sort", func(c *crudgrid.Config) { c.DefaultSort = "username" }, "defaultSort"),
		Entry("personalized sort without expression", func(c *crudgrid.Config) {
			c.PersonalizedSort = []crudgrid.SortCriterion{{Direction: "ASC"}}
		}, "personalizedSort"),
	)

	It("resolves virtual columns for search bindings", func() {
		cfg := usersConfig()
		cfg.VirtualColumns = []crudgrid.ColumnConfig{{ID: "fullName", Alias: "concat(u.first_name, u.last_name)"}}
		sut := mustSchema(cfg)

		info, ok := sut.ResolveColumn("fullName")
		Expect(ok).To(BeTrue())
		Expect(info.SearchAlias).To(Equal("concat(u.first_name, u.last_name)"))
		Expect(sut.VirtualColumns()).To(HaveLen(1))
		Expect(sut.DisplayedByDefault()).To(Equal([]string{"firstName"}))
	})
})
