package pagination_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/nrfta/crudgrid-go/pagination"
)

var _ = Describe("PageInfo", func() {
	It("computes counts lazily", func() {
		sut := pagination.NewPageInfo(10, 95, 3)

		total, err := sut.TotalCount()
		Expect(err).ToNot(HaveOccurred())
		Expect(*total).To(Equal(95))

		pages, _ := sut.PageCount()
		Expect(*pages).To(Equal(10))

		hasNext, _ := sut.HasNextPage()
		Expect(hasNext).To(BeTrue())

		hasPrev, _ := sut.HasPreviousPage()
		Expect(hasPrev).To(BeTrue())
	})

	It("has no next page on the last page", func() {
		sut := pagination.NewPageInfo(10, 100, 10)

		hasNext, _ := sut.HasNextPage()
		Expect(hasNext).To(BeFalse())
	})

	It("returns nil counts when uncounted", func() {
		sut := pagination.NewUncountedPageInfo(1, true)

		total, _ := sut.TotalCount()
		Expect(total).To(BeNil())

		hasPrev, _ := sut.HasPreviousPage()
		Expect(hasPrev).To(BeFalse())
	})

	It("returns an empty PageInfo", func() {
		sut := pagination.NewEmptyPageInfo()

		hasNext, _ := sut.HasNextPage()
		Expect(hasNext).To(BeFalse())
	})
})

var _ = Describe("LastPage", func() {
	It("is at least 1", func() {
		Expect(pagination.LastPage(10, 0)).To(Equal(1))
		Expect(pagination.LastPage(0, 10)).To(Equal(1))
	})

	It("rounds up", func() {
		Expect(pagination.LastPage(10, 11)).To(Equal(2))
		Expect(pagination.LastPage(10, 20)).To(Equal(2))
	})
})

var _ = Describe("Offset", func() {
	It("maps pages to row offsets", func() {
		Expect(pagination.Offset(1, 25)).To(Equal(0))
		Expect(pagination.Offset(3, 25)).To(Equal(50))
		Expect(pagination.Offset(0, 25)).To(Equal(0))
	})
})
