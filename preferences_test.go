package crudgrid_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/nrfta/crudgrid-go"
	"github.com/nrfta/crudgrid-go/query"
)

var _ = Describe("Preferences", func() {
	var sut *crudgrid.Schema

	BeforeEach(func() {
		sut = mustSchema(usersConfig())
	})

	It("merges a stored record into the defaults", func() {
		got := sut.ApplyPreferences(sut.DefaultState(), crudgrid.Preferences{
			PageSize:         100,
			DisplayedColumns: []string{"lastName", "firstName"},
			Sort:             "lastName",
			SortDirection:    query.DESC,
		})

		Expect(got.PageSize).To(Equal(100))
		Expect(got.DisplayedColumns).To(Equal([]string{"lastName", "firstName"}))
		Expect(got.Sort).To(Equal("lastName"))
		Expect(got.SortDirection).To(Equal(query.DESC))
	})

	It("validates every stored setting", func() {
		got := sut.ApplyPreferences(sut.DefaultState(), crudgrid.Preferences{
			PageSize: 7,
			Sort:     "username",
		})

		Expect(sut.HasDefaultSettings(got)).To(BeTrue())
	})

	It("compares settings", func() {
		a := crudgrid.PreferencesOf(sut.DefaultState())
		b := crudgrid.PreferencesOf(sut.DefaultState())
		Expect(a.Equal(b)).To(BeTrue())

		b.DisplayedColumns = []string{"lastName"}
		Expect(a.Equal(b)).To(BeFalse())
	})
})

var _ = Describe("MemoryPreferences", func() {
	It("loads, saves and deletes per user and grid", func() {
		ctx := context.Background()
		sut := crudgrid.NewMemoryPreferences()

		p, err := sut.LoadPreferences(ctx, "u1", "users")
		Expect(err).ToNot(HaveOccurred())
		Expect(p).To(BeNil())

		Expect(sut.SavePreferences(ctx, "u1", "users", crudgrid.Preferences{PageSize: 10})).To(Succeed())

		p, err = sut.LoadPreferences(ctx, "u1", "users")
		Expect(err).ToNot(HaveOccurred())
		Expect(p.PageSize).To(Equal(10))

		p, err = sut.LoadPreferences(ctx, "u2", "users")
		Expect(err).ToNot(HaveOccurred())
		Expect(p).To(BeNil())

		Expect(sut.DeletePreferences(ctx, "u1", "users")).To(Succeed())
		p, err = sut.LoadPreferences(ctx, "u1", "users")
		Expect(err).ToNot(HaveOccurred())
		Expect(p).To(BeNil())
	})
})
