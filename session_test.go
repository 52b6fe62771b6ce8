package crudgrid_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/nrfta/crudgrid-go"
	"github.com/nrfta/crudgrid-go/query"
	"github.com/nrfta/crudgrid-go/search"
)

var _ = Describe("Session state", func() {
	var sut *crudgrid.Schema

	BeforeEach(func() {
		sut = mustSchema(usersConfig(), crudgrid.WithSearchPrototype(&userSearch{}))
	})

	It("restores an encoded state", func() {
		state := sut.DefaultState()
		state, _ = sut.ChangeSort(state, "lastName")
		state, _ = sut.ChangeSortDirection(state, "DESC")
		state, _ = sut.ChangePage(state, 3)
		state.SearchData = &userSearch{LastName: "Doe"}
		state.SearchSubmittedAndValid = true

		blob, err := sut.EncodeState(state)
		Expect(err).ToNot(HaveOccurred())

		got, ok := sut.DecodeState(blob)
		Expect(ok).To(BeTrue())
		Expect(got.Sort).To(Equal("lastName"))
		Expect(got.SortDirection).To(Equal(query.DESC))
		Expect(got.Page).To(Equal(3))
		Expect(got.SearchData).To(Equal(&userSearch{LastName: "Doe"}))
		Expect(got.SearchSubmittedAndValid).To(BeTrue())
	})

	It("migrates search data stored under another type", func() {
		other := mustSchema(usersConfig(), crudgrid.WithSearchPrototype(search.Values{}))
		state := other.DefaultState()
		state.SearchData = search.Values{"lastName": "Doe"}

		blob, err := other.EncodeState(state)
		Expect(err).ToNot(HaveOccurred())

		got, ok := sut.DecodeState(blob)
		Expect(ok).To(BeTrue())
		Expect(got.SearchData).To(Equal(&userSearch{}))
	})

	It("reconciles against the current configuration", func() {
		cfg := usersConfig()
		cfg.PageSizes = []int{10, 50, 100, 500}
		wide := mustSchema(cfg)
		state, _ := wide.ChangePageSize(wide.DefaultState(), 500)

		blob, err := wide.EncodeState(state)
		Expect(err).ToNot(HaveOccurred())

		got, ok := sut.DecodeState(blob)
		Expect(ok).To(BeTrue())
		Expect(got.PageSize).To(Equal(50))
	})

	It("rejects garbage", func() {
		_, ok := sut.DecodeState([]byte("not json"))
		Expect(ok).To(BeFalse())
	})
})

var _ = Describe("MemorySessions", func() {
	It("returns nil for a missing key and copies on save", func() {
		ctx := context.Background()
		sut := crudgrid.NewMemorySessions()

		blob, err := sut.Load(ctx, "k")
		Expect(err).ToNot(HaveOccurred())
		Expect(blob).To(BeNil())

		in := []byte("abc")
		Expect(sut.Save(ctx, "k", in)).To(Succeed())
		in[0] = 'x'

		blob, err = sut.Load(ctx, "k")
		Expect(err).ToNot(HaveOccurred())
		Expect(string(blob)).To(Equal("abc"))
	})
})
