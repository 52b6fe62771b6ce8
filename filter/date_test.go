package filter_test

import (
	"context"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/nrfta/crudgrid-go/filter"
	"github.com/nrfta/crudgrid-go/query"
)

var _ = Describe("Date", func() {
	var (
		q   *query.Recorder
		t   = filter.Target{Property: "createdAt", Alias: "u.created_at"}
		day = time.Date(2024, 3, 15, 14, 30, 0, 0, time.UTC)
	)

	BeforeEach(func() {
		q = query.NewRecorder(query.KindSQL)
	})

	It("requires a comparator", func() {
		Expect((&filter.Date{}).Validate()).To(HaveOccurred())
	})

	It("matches the whole day for =", func() {
		sut := &filter.Date{Comparator: query.OpEq, Location: time.UTC}

		sut.Apply(q, t, day)

		Expect(q.Clauses()).To(Equal([]string{
			"u.created_at >= :createdAt__from",
			"u.created_at <= :createdAt__to",
		}))
		Expect(q.Params()).To(Equal(map[string]any{
			"createdAt__from": time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
			"createdAt__to":   time.Date(2024, 3, 15, 23, 59, 59, 0, time.UTC),
		}))
	})

	DescribeTable("anchors date-only comparisons",
		func(op query.Operator, hour, minute, second int) {
			sut := &filter.Date{Comparator: op, Location: time.UTC}

			sut.Apply(q, t, day)

			Expect(q.Params()).To(Equal(map[string]any{
				"createdAt": time.Date(2024, 3, 15, hour, minute, second, 0, time.UTC),
			}))
		},
		Entry("<", query.OpLt, 0, 0, 0),
		Entry(">=", query.OpGte, 0, 0, 0),
		Entry("<=", query.OpLte, 23, 59, 59),
		Entry(">", query.OpGt, 23, 59, 59),
	)

	It("uses the exact timestamp twice with time of day", func() {
		sut := &filter.Date{Comparator: query.OpEq, WithTime: true, Location: time.UTC}

		sut.Apply(q, t, day)

		Expect(q.Params()).To(Equal(map[string]any{"createdAt__from": day, "createdAt__to": day}))
	})

	It("keeps the calendar date of a time value in date-only mode", func() {
		west := time.FixedZone("west", -5*60*60)
		sut := &filter.Date{Comparator: query.OpEq, Location: west}

		sut.Apply(q, t, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC))

		Expect(q.Params()).To(Equal(map[string]any{
			"createdAt__from": time.Date(2024, 3, 15, 0, 0, 0, 0, west),
			"createdAt__to":   time.Date(2024, 3, 15, 23, 59, 59, 0, west),
		}))
	})

	It("keeps a time value as given with time of day", func() {
		west := time.FixedZone("west", -5*60*60)
		sut := &filter.Date{Comparator: query.OpGte, WithTime: true, Location: west}

		sut.Apply(q, t, &day)

		Expect(q.Params()).To(Equal(map[string]any{"createdAt": day}))
	})

	It("parses string values", func() {
		sut := &filter.Date{Comparator: query.OpGte, Location: time.UTC}

		sut.Apply(q, t, "2024-03-15")

		Expect(q.Params()).To(HaveKeyWithValue("createdAt", time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)))
	})

	It("skips non-dates", func() {
		sut := &filter.Date{Comparator: query.OpGte, Location: time.UTC}

		sut.Apply(q, t, "yesterday")
		sut.Apply(q, t, 42)
		sut.Apply(q, t, nil)

		Expect(q.Clauses()).To(BeEmpty())
	})

	It("reports unparsable submissions", func() {
		sut := &filter.Date{Comparator: query.OpGte, Location: time.UTC}

		_, problems, err := sut.Normalize(context.Background(), []string{"15/03/2024"})

		Expect(err).ToNot(HaveOccurred())
		Expect(problems).To(HaveLen(1))
	})
})
