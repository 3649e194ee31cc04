package persistence_test

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"time"

	"abq-data-entry/internal/dataentry/domain"
	"abq-data-entry/internal/dataentry/persistence"
	"abq-data-entry/internal/dataentry/usecases"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func sampleRecord(technician string, fault any) domain.Record {
	return domain.Record{
		domain.FieldDate:           "2024-05-06",
		domain.FieldTime:           "8:00",
		domain.FieldTechnician:     technician,
		domain.FieldLab:            "A",
		domain.FieldPlot:           "3",
		domain.FieldSeedSample:     "AX478",
		domain.FieldHumidity:       "24.50",
		domain.FieldLight:          "50.25",
		domain.FieldTemperature:    "21",
		domain.FieldEquipmentFault: fault,
		domain.FieldPlants:         "10",
		domain.FieldBlossoms:       "20",
		domain.FieldFruit:          "5",
		domain.FieldMinHeight:      "2",
		domain.FieldMaxHeight:      "10",
		domain.FieldMedHeight:      "6",
		domain.FieldNotes:          "leaves curling, watch plot",
	}
}

func withFlag(record domain.Record, value bool) domain.Record {
	out := domain.Record{}
	for k, v := range record {
		out[k] = v
	}
	out[domain.FieldEquipmentFault] = value
	return out
}

var _ = Describe("CSVRecordRepository", func() {
	var (
		ctx        context.Context
		dir        string
		path       string
		form       domain.Form
		repository *persistence.CSVRecordRepository
	)

	BeforeEach(func() {
		ctx = context.Background()
		dir = GinkgoT().TempDir()
		path = filepath.Join(dir, "records.csv")
		form = domain.ABQForm()

		var err error
		repository, err = persistence.NewCSVRecordRepository(path, form)
		Expect(err).NotTo(HaveOccurred())
	})

	It("should name the daily sheet after the date", func() {
		Expect(persistence.DefaultRecordFileName(time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC))).
			To(Equal("abq_data_record_2024-07-01.csv"))
	})

	When("the file does not exist", func() {
		It("should read no records", func() {
			records, err := repository.FindAll(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(records).To(BeEmpty())
		})

		It("should write the header before the first record", func() {
			Expect(repository.Save(ctx, sampleRecord("J Simms", false), nil)).To(Succeed())

			data, err := os.ReadFile(path)
			Expect(err).NotTo(HaveOccurred())
			lines := strings.Split(strings.TrimSpace(string(data)), "\n")
			Expect(lines).To(HaveLen(2))
			Expect(lines[0]).To(Equal(strings.Join(form.Names(), ",")))
			Expect(lines[1]).To(ContainSubstring("False"))
			Expect(lines[1]).To(ContainSubstring(`"leaves curling, watch plot"`))
		})
	})

	DescribeTable("round trip normalizes flags",
		func(stored any, expected bool) {
			Expect(repository.Save(ctx, sampleRecord("J Simms", stored), nil)).To(Succeed())

			fresh, err := persistence.NewCSVRecordRepository(path, form)
			Expect(err).NotTo(HaveOccurred())
			records, err := fresh.FindAll(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(records).To(Equal([]domain.Record{withFlag(sampleRecord("J Simms", nil), expected)}))
		},
		Entry("TRUE", "TRUE", true),
		Entry("Yes", "Yes", true),
		Entry("1", "1", true),
		Entry("bool", true, true),
		Entry("no", "no", false),
		Entry("False", false, false),
	)

	When("records exist", func() {
		BeforeEach(func() {
			for _, technician := range []string{"A Aye", "B Bee", "C Sea", "D Dee"} {
				Expect(repository.Save(ctx, sampleRecord(technician, false), nil)).To(Succeed())
			}
		})

		It("should append in order", func() {
			records, err := repository.FindAll(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(records).To(HaveLen(4))
			Expect(records[3][domain.FieldTechnician]).To(Equal("D Dee"))
		})

		It("should replace only the given position", func() {
			position := 2
			Expect(repository.Save(ctx, sampleRecord("X Ray", true), &position)).To(Succeed())

			records, err := repository.FindAll(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(records).To(HaveLen(4))
			Expect(records[0][domain.FieldTechnician]).To(Equal("A Aye"))
			Expect(records[1][domain.FieldTechnician]).To(Equal("B Bee"))
			Expect(records[2]).To(Equal(withFlag(sampleRecord("X Ray", nil), true)))
			Expect(records[3][domain.FieldTechnician]).To(Equal("D Dee"))
		})

		It("should get one record by position", func() {
			record, err := repository.Get(ctx, 1)
			Expect(err).NotTo(HaveOccurred())
			Expect(record[domain.FieldTechnician]).To(Equal("B Bee"))
			Expect(record[domain.FieldEquipmentFault]).To(BeFalse())
		})

		It("should fail past the last record", func() {
			_, err := repository.Get(ctx, 4)
			Expect(err).To(MatchError(usecases.ErrRecordOutOfRange))

			position := 4
			err = repository.Save(ctx, sampleRecord("X Ray", true), &position)
			Expect(err).To(MatchError(usecases.ErrRecordOutOfRange))
		})
	})

	It("should refuse fields the form does not have", func() {
		record := sampleRecord("J Simms", false)
		record["Colour"] = "green"
		Expect(repository.Save(ctx, record, nil)).To(MatchError(usecases.ErrUnknownField))
	})

	It("should report a header missing canonical fields as corrupt", func() {
		names := form.Names()
		var header []string
		for _, name := range names {
			if name != domain.FieldPlot {
				header = append(header, name)
			}
		}
		Expect(os.WriteFile(path, []byte(strings.Join(header, ",")+"\n"), 0o644)).To(Succeed())

		_, err := repository.FindAll(ctx)
		Expect(err).To(MatchError(usecases.ErrCorruptStore))
		Expect(err).To(MatchError(ContainSubstring("Plot")))
	})

	It("should treat an empty file as corrupt", func() {
		Expect(os.WriteFile(path, nil, 0o644)).To(Succeed())
		_, err := repository.FindAll(ctx)
		Expect(err).To(MatchError(usecases.ErrCorruptStore))
	})

	It("should keep extra header columns", func() {
		header := append(form.Names(), "Reviewer")
		row := make([]string, len(header))
		row[len(row)-1] = "QA"
		content := strings.Join(header, ",") + "\n" + strings.Join(row, ",") + "\n"
		Expect(os.WriteFile(path, []byte(content), 0o644)).To(Succeed())

		records, err := repository.FindAll(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(records).To(HaveLen(1))
		Expect(records[0]).To(HaveKeyWithValue("Reviewer", "QA"))
		Expect(records[0]).To(HaveKeyWithValue(domain.FieldEquipmentFault, false))
	})

	When("the sheet has columns outside the form", func() {
		var header []string

		BeforeEach(func() {
			header = append([]string{"Reviewer"}, form.Names()...)
			fh, err := os.Create(path)
			Expect(err).NotTo(HaveOccurred())
			writer := csv.NewWriter(fh)
			Expect(writer.Write(header)).To(Succeed())
			for i, technician := range []string{"A Aye", "B Bee"} {
				record := sampleRecord(technician, false)
				row := []string{[]string{"QA", "RD"}[i]}
				for _, name := range form.Names() {
					row = append(row, record.Text(name))
				}
				Expect(writer.Write(row)).To(Succeed())
			}
			writer.Flush()
			Expect(writer.Error()).NotTo(HaveOccurred())
			Expect(fh.Close()).To(Succeed())
		})

		It("should edit a row and keep the extra column", func() {
			position := 1
			Expect(repository.Save(ctx, sampleRecord("X Ray", true), &position)).To(Succeed())

			records, err := repository.FindAll(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(records).To(HaveLen(2))
			Expect(records[0]).To(HaveKeyWithValue("Reviewer", "QA"))
			Expect(records[0]).To(HaveKeyWithValue(domain.FieldTechnician, "A Aye"))
			Expect(records[1]).To(HaveKeyWithValue("Reviewer", ""))
			Expect(records[1]).To(HaveKeyWithValue(domain.FieldTechnician, "X Ray"))
			Expect(records[1]).To(HaveKeyWithValue(domain.FieldEquipmentFault, true))

			data, err := os.ReadFile(path)
			Expect(err).NotTo(HaveOccurred())
			Expect(strings.SplitN(string(data), "\n", 2)[0]).To(Equal(strings.Join(header, ",")))
		})

		It("should append in the order of the file header", func() {
			Expect(repository.Save(ctx, sampleRecord("C Sea", false), nil)).To(Succeed())

			records, err := repository.FindAll(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(records).To(HaveLen(3))
			Expect(records[2]).To(HaveKeyWithValue("Reviewer", ""))
			Expect(records[2]).To(HaveKeyWithValue(domain.FieldTechnician, "C Sea"))
			Expect(records[2]).To(HaveKeyWithValue(domain.FieldDate, "2024-05-06"))
		})
	})

	It("should write the header when appending to an empty file", func() {
		Expect(os.WriteFile(path, nil, 0o644)).To(Succeed())
		Expect(repository.Save(ctx, sampleRecord("J Simms", false), nil)).To(Succeed())

		records, err := repository.FindAll(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(records).To(Equal([]domain.Record{withFlag(sampleRecord("J Simms", nil), false)}))
	})

	When("the location cannot be written", func() {
		It("should fail when the parent directory is missing", func() {
			_, err := persistence.NewCSVRecordRepository(filepath.Join(dir, "missing", "records.csv"), form)
			Expect(err).To(MatchError(usecases.ErrStoreNotWritable))
		})

		It("should fail when the path is a directory", func() {
			_, err := persistence.NewCSVRecordRepository(dir, form)
			Expect(err).To(MatchError(usecases.ErrStoreNotWritable))
		})

		It("should fail for a read-only file", func() {
			if os.Geteuid() == 0 {
				Skip("root can write read-only files")
			}
			Expect(os.WriteFile(path, nil, 0o444)).To(Succeed())
			_, err := persistence.NewCSVRecordRepository(path, form)
			Expect(err).To(MatchError(usecases.ErrStoreNotWritable))
		})
	})
})
