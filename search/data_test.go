package search_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/nrfta/crudgrid-go/search"
)

var _ = Describe("Data", func() {
	Describe("Values", func() {
		It("clones deeply", func() {
			original := search.Values{"role": []string{"a"}, "n": 1}
			clone := original.Clone().(search.Values)

			clone["role"].([]string)[0] = "b"
			clone["n"] = 2

			Expect(original["role"]).To(Equal([]string{"a"}))
			Expect(original["n"]).To(Equal(1))
		})
	})

	Describe("Encode and Decode", func() {
		It("round-trips struct data into a fresh clone", func() {
			age := int64(30)
			prototype := &userSearch{Enabled: "T"}
			tag, raw, err := search.Encode(&userSearch{LastName: "Doe", MinAge: &age, Roles: []string{"admin"}})
			Expect(err).ToNot(HaveOccurred())

			decoded, ok := search.Decode(prototype, tag, raw)

			Expect(ok).To(BeTrue())
			Expect(decoded).ToNot(BeIdenticalTo(prototype))
			Expect(decoded.(*userSearch).LastName).To(Equal("Doe"))
			Expect(*decoded.(*userSearch).MinAge).To(Equal(int64(30)))
			Expect(prototype.LastName).To(BeEmpty())
		})

		It("round-trips map data", func() {
			tag, raw, err := search.Encode(search.Values{"lastName": "Doe"})
			Expect(err).ToNot(HaveOccurred())

			decoded, ok := search.Decode(search.Values{"enabled": "T"}, tag, raw)

			Expect(ok).To(BeTrue())
			Expect(decoded).To(Equal(search.Values{"lastName": "Doe", "enabled": "T"}))
		})

		It("refuses data stored under another type", func() {
			tag, raw, _ := search.Encode(search.Values{"lastName": "Doe"})

			_, ok := search.Decode(&userSearch{}, tag, raw)

			Expect(ok).To(BeFalse())
		})
	})
})

var _ = Describe("Property", func() {
	It("reads struct fields by tag and by name", func() {
		data := &userSearch{LastName: "Doe", Enabled: "F"}

		v, ok := search.Property(data, "lastName")
		Expect(ok).To(BeTrue())
		Expect(v).To(Equal("Doe"))

		v, ok = search.Property(data, "enabled")
		Expect(ok).To(BeTrue())
		Expect(v).To(Equal("F"))

		_, ok = search.Property(data, "missing")
		Expect(ok).To(BeFalse())
	})

	It("dereferences pointer fields", func() {
		age := int64(5)

		v, _ := search.Property(&userSearch{MinAge: &age}, "age")
		Expect(v).To(Equal(int64(5)))

		v, ok := search.Property(&userSearch{}, "age")
		Expect(ok).To(BeTrue())
		Expect(v).To(BeNil())
	})

	It("writes with conversion", func() {
		data := &userSearch{}

		Expect(search.SetProperty(data, "age", int64(7))).To(Succeed())
		Expect(search.SetProperty(data, "role", []any{"a", "b"})).To(Succeed())
		Expect(search.SetProperty(data, "lastName", nil)).To(Succeed())

		Expect(*data.MinAge).To(Equal(int64(7)))
		Expect(data.Roles).To(Equal([]string{"a", "b"}))
	})

	It("refuses incompatible values", func() {
		Expect(search.SetProperty(&userSearch{}, "age", "seven")).ToNot(Succeed())
		Expect(search.SetProperty(&userSearch{}, "nope", 1)).ToNot(Succeed())
	})
})
