package filter_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/nrfta/crudgrid-go/filter"
	"github.com/nrfta/crudgrid-go/query"
)

var _ = Describe("Null and NotNull", func() {
	var q *query.Recorder

	BeforeEach(func() {
		q = query.NewRecorder(query.KindSQL)
	})

	It("adds IS NULL when checked", func() {
		filter.Null{}.Apply(q, target, true)

		Expect(q.Clauses()).To(Equal([]string{"u.enabled IS NULL"}))
	})

	It("adds IS NOT NULL when checked", func() {
		filter.NotNull{}.Apply(q, target, "1")

		Expect(q.Clauses()).To(Equal([]string{"u.enabled IS NOT NULL"}))
	})

	It("adds nothing when unchecked", func() {
		filter.Null{}.Apply(q, target, false)
		filter.NotNull{}.Apply(q, target, "")

		Expect(q.Clauses()).To(BeEmpty())
	})
})
