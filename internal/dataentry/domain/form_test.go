package domain_test

import (
	"abq-data-entry/internal/dataentry/domain"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Form", func() {
	It("should list the ABQ fields in canonical order", func() {
		form := domain.ABQForm()
		Expect(form.Names()).To(Equal([]string{
			"Date", "Time", "Technician", "Lab", "Plot", "Seed Sample",
			"Humidity", "Light", "Temperature", "Equipment Fault",
			"Plants", "Blossoms", "Fruit",
			"Min Height", "Max Height", "Med Height", "Notes",
		}))
		Expect(form.BooleanNames()).To(ConsistOf("Equipment Fault"))

		plot, ok := form.Field(domain.FieldPlot)
		Expect(ok).To(BeTrue())
		Expect(plot.Values).To(HaveLen(20))
		Expect(plot.Values[19]).To(Equal("20"))
	})

	It("should link the fault flag and the height bounds", func() {
		form := domain.ABQForm()
		Expect(form.Toggles).To(ConsistOf(domain.Toggle{
			Flag:    domain.FieldEquipmentFault,
			Targets: []string{domain.FieldHumidity, domain.FieldLight, domain.FieldTemperature},
		}))
		Expect(form.Links).To(HaveLen(2))
	})

	When("building an inconsistent form", func() {
		It("should reject duplicate fields", func() {
			_, err := domain.NewFormBuilder().
				WithField(domain.FieldDefinition{Name: "A", Type: domain.FieldTypeString}).
				WithField(domain.FieldDefinition{Name: "A", Type: domain.FieldTypeString}).
				Build()
			Expect(err).To(MatchError(domain.ErrDuplicateField))
		})

		It("should reject links to unknown fields", func() {
			_, err := domain.NewFormBuilder().
				WithField(domain.FieldDefinition{Name: "A", Type: domain.FieldTypeDecimal}).
				WithBoundLink("A", domain.LowerEdge, "B").
				Build()
			Expect(err).To(MatchError(domain.ErrFieldUnknown))
		})

		It("should reject a toggle on a non boolean field", func() {
			_, err := domain.NewFormBuilder().
				WithField(domain.FieldDefinition{Name: "A", Type: domain.FieldTypeString}).
				WithToggle("A").
				Build()
			Expect(err).To(MatchError(ContainSubstring("must be a boolean field")))
		})

		It("should reject unparsable numeric limits", func() {
			_, err := domain.NewFormBuilder().
				WithField(domain.FieldDefinition{Name: "A", Type: domain.FieldTypeInteger, Max: "lots"}).
				Build()
			Expect(err).To(MatchError(domain.ErrInvalidNumber))
		})
	})
})

var _ = Describe("Record", func() {
	It("should read flags from strings and booleans", func() {
		record := domain.Record{"a": "TRUE", "b": "Yes", "c": "1", "d": "no", "e": true}
		record.NormalizeFlags([]string{"a", "b", "c", "d", "e", "missing"})
		Expect(record).To(Equal(domain.Record{"a": true, "b": true, "c": true, "d": false, "e": true}))
	})

	It("should format values as text", func() {
		record := domain.Record{"flag": false, "count": 3, "height": 1.5, "name": "x"}
		Expect(record.Text("flag")).To(Equal("False"))
		Expect(record.Text("count")).To(Equal("3"))
		Expect(record.Text("height")).To(Equal("1.5"))
		Expect(record.Text("missing")).To(BeEmpty())
	})
})
