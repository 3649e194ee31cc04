package persistence_test

import (
	"context"

	"abq-data-entry/internal/dataentry/domain"
	"abq-data-entry/internal/dataentry/persistence"
	"abq-data-entry/internal/dataentry/usecases"
	"abq-data-entry/internal/infra/sql"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("SQLRecordRepository", func() {
	var (
		ctx        context.Context
		repository *persistence.SQLRecordRepository
	)

	BeforeEach(func() {
		ctx = context.Background()
		orm, err := sql.NewMemoryORM()
		Expect(err).NotTo(HaveOccurred())

		repository, err = persistence.NewSQLRecordRepository(orm, domain.ABQForm())
		Expect(err).NotTo(HaveOccurred())
	})

	It("should start empty", func() {
		records, err := repository.FindAll(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(records).To(BeEmpty())
	})

	It("should return records in insertion order with flags as booleans", func() {
		Expect(repository.Save(ctx, sampleRecord("A Aye", "yes"), nil)).To(Succeed())
		Expect(repository.Save(ctx, sampleRecord("B Bee", false), nil)).To(Succeed())

		records, err := repository.FindAll(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(records).To(Equal([]domain.Record{
			withFlag(sampleRecord("A Aye", nil), true),
			withFlag(sampleRecord("B Bee", nil), false),
		}))
	})

	When("records exist", func() {
		BeforeEach(func() {
			for _, technician := range []string{"A Aye", "B Bee", "C Sea"} {
				Expect(repository.Save(ctx, sampleRecord(technician, false), nil)).To(Succeed())
			}
		})

		It("should replace the record at a position", func() {
			position := 1
			Expect(repository.Save(ctx, sampleRecord("X Ray", true), &position)).To(Succeed())

			records, err := repository.FindAll(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(records).To(HaveLen(3))
			Expect(records[1]).To(Equal(withFlag(sampleRecord("X Ray", nil), true)))
			Expect(records[2][domain.FieldTechnician]).To(Equal("C Sea"))
		})

		It("should get by position", func() {
			record, err := repository.Get(ctx, 2)
			Expect(err).NotTo(HaveOccurred())
			Expect(record[domain.FieldTechnician]).To(Equal("C Sea"))
		})

		It("should fail outside the stored range", func() {
			_, err := repository.Get(ctx, 3)
			Expect(err).To(MatchError(usecases.ErrRecordOutOfRange))

			_, err = repository.Get(ctx, -1)
			Expect(err).To(MatchError(usecases.ErrRecordOutOfRange))

			position := 5
			err = repository.Save(ctx, sampleRecord("X Ray", false), &position)
			Expect(err).To(MatchError(usecases.ErrRecordOutOfRange))
		})
	})

	It("should refuse fields the form does not have", func() {
		record := sampleRecord("J Simms", false)
		record["Colour"] = "green"
		Expect(repository.Save(ctx, record, nil)).To(MatchError(usecases.ErrUnknownField))
	})
})
