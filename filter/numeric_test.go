package filter_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/nrfta/crudgrid-go/filter"
	"github.com/nrfta/crudgrid-go/query"
)

var _ = Describe("Integer", func() {
	var (
		q *query.Recorder
		t = filter.Target{Property: "age", Alias: "u.age"}
	)

	BeforeEach(func() {
		q = query.NewRecorder(query.KindSQL)
	})

	It("requires a comparator", func() {
		Expect((&filter.Integer{}).Validate()).To(HaveOccurred())
		Expect((&filter.Integer{Comparator: "<>"}).Validate()).To(HaveOccurred())
		Expect((&filter.Integer{Comparator: query.OpGte}).Validate()).To(Succeed())
	})

	It("compares with the configured operator", func() {
		sut := &filter.Integer{Comparator: query.OpGte}
		sut.Apply(q, t, "18")

		Expect(q.Clauses()).To(Equal([]string{"u.age >= :age"}))
		Expect(q.Params()).To(HaveKeyWithValue("age", int64(18)))
	})

	It("skips non-numeric values", func() {
		sut := &filter.Integer{Comparator: query.OpEq}
		sut.Apply(q, t, "eighteen")
		sut.Apply(q, t, 1.5)
		sut.Apply(q, t, nil)

		Expect(q.Clauses()).To(BeEmpty())
	})

	It("reports invalid submissions", func() {
		sut := &filter.Integer{Comparator: query.OpEq}

		_, problems, err := sut.Normalize(context.Background(), []string{"x"})

		Expect(err).ToNot(HaveOccurred())
		Expect(problems).To(ConsistOf("This value is not valid."))
	})
})

var _ = Describe("Number", func() {
	It("compares decimals", func() {
		q := query.NewRecorder(query.KindSQL)
		sut := &filter.Number{Comparator: query.OpLt}

		sut.Apply(q, filter.Target{Property: "price", Alias: "p.price"}, "9.95")

		Expect(q.Clauses()).To(Equal([]string{"p.price < :price"}))
		Expect(q.Params()).To(HaveKeyWithValue("price", 9.95))
	})

	It("skips NaN", func() {
		q := query.NewRecorder(query.KindSQL)
		sut := &filter.Number{Comparator: query.OpLt}

		sut.Apply(q, filter.Target{Property: "price", Alias: "p.price"}, "NaN")

		Expect(q.Clauses()).To(BeEmpty())
	})
})
