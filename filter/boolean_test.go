package filter_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/nrfta/crudgrid-go/filter"
	"github.com/nrfta/crudgrid-go/query"
)

var _ = Describe("Boolean", func() {
	var q *query.Recorder

	BeforeEach(func() {
		q = query.NewRecorder(query.KindSQL)
	})

	It("matches the true value with an equality", func() {
		sut := &filter.Boolean{ValueTrue: "T"}

		sut.Apply(q, target, "T")

		Expect(q.Clauses()).To(Equal([]string{"u.enabled = :enabled"}))
		Expect(q.Params()).To(Equal(map[string]any{"enabled": "T"}))
	})

	It("matches NULL when the false value is nil", func() {
		sut := &filter.Boolean{ValueTrue: "T", ValueFalse: nil}

		sut.Apply(q, target, "F")

		Expect(q.Clauses()).To(Equal([]string{"u.enabled IS NULL"}))
		Expect(q.Params()).To(BeEmpty())
	})

	It("defaults to true/false with NULL counted as false", func() {
		sut := filter.NewBoolean()

		sut.Apply(q, target, "F")

		Expect(q.Clauses()).To(Equal([]string{"(u.enabled = :enabled OR u.enabled IS NULL)"}))
		Expect(q.Params()).To(Equal(map[string]any{"enabled": false}))
	})

	It("matches the false value exactly when NULL is not false", func() {
		sut := filter.NewBoolean()
		sut.NullIsFalse = false

		sut.Apply(q, target, "F")

		Expect(q.Clauses()).To(Equal([]string{"u.enabled = :enabled"}))
	})

	It("treats any non-NULL non-false value as true", func() {
		sut := filter.NewBoolean()
		sut.NotNullIsTrue = true

		sut.Apply(q, target, "T")

		Expect(q.Clauses()).To(Equal([]string{
			"(u.enabled = :enabled OR (u.enabled IS NOT NULL AND u.enabled <> :enabled__false))",
		}))
		Expect(q.Params()).To(Equal(map[string]any{"enabled": true, "enabled__false": false}))
	})

	It("uses IS NOT NULL when non-NULL is true and false is NULL", func() {
		sut := &filter.Boolean{NotNullIsTrue: true}

		sut.Apply(q, target, "T")

		Expect(q.Clauses()).To(Equal([]string{"u.enabled IS NOT NULL"}))
	})

	It("ignores anything but T and F", func() {
		sut := filter.NewBoolean()

		sut.Apply(q, target, "maybe")
		sut.Apply(q, target, []string{"T"})

		Expect(q.Clauses()).To(BeEmpty())
	})

	It("refuses remote builders for compound predicates", func() {
		Expect(filter.NewBoolean().Supports(query.KindRemote)).To(BeFalse())
		Expect(filter.NewBoolean().Supports(query.KindSQL)).To(BeTrue())
		Expect((&filter.Boolean{ValueTrue: 1, ValueFalse: 0}).Supports(query.KindRemote)).To(BeTrue())
	})

	It("renders a yes/no select", func() {
		field, err := filter.NewBoolean().Field(context.Background(), filter.Field{Value: "T"})

		Expect(err).ToNot(HaveOccurred())
		Expect(field.Widget).To(Equal("select"))
		Expect(field.Options).To(HaveLen(2))
		Expect(field.Selected).To(Equal([]filter.Option{{Value: "T", Label: "Yes"}}))
	})

	It("rejects identical true and false values", func() {
		Expect((&filter.Boolean{ValueTrue: 1, ValueFalse: 1}).Validate()).To(HaveOccurred())
	})
})
