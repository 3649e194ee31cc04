package usecases_test

import (
	"context"

	"abq-data-entry/internal/dataentry/domain"
	"abq-data-entry/internal/dataentry/usecases"
	mockusecases "abq-data-entry/test/unit/doubles/dataentry/usecases"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"
)

var _ = Describe("Session with stored settings", func() {
	var (
		ctrl       *gomock.Controller
		repository *mockusecases.MockRecordRepository
		settings   *mockusecases.MockSettingsRepository
	)

	BeforeEach(func() {
		ctrl = gomock.NewController(GinkgoT())
		repository = mockusecases.NewMockRecordRepository(ctrl)
		settings = mockusecases.NewMockSettingsRepository(ctrl)
	})

	AfterEach(func() {
		ctrl.Finish()
	})

	autofill := func(date, sheet bool) {
		settings.EXPECT().Bool(usecases.SettingAutofillDate).Return(date).AnyTimes()
		settings.EXPECT().Bool(usecases.SettingAutofillSheetData).Return(sheet).AnyTimes()
	}

	It("should leave the date blank when date autofill is off", func() {
		autofill(false, false)

		session := usecases.NewSession(domain.ABQForm(), repository, usecases.WithSettings(settings))
		Expect(value(session, domain.FieldDate)).To(BeEmpty())
	})

	It("should keep the form when the store refuses the record", func() {
		autofill(false, true)
		repository.EXPECT().
			Save(gomock.Any(), gomock.Any(), gomock.Nil()).
			Return(usecases.ErrStoreNotWritable)

		session := usecases.NewSession(domain.ABQForm(), repository, usecases.WithSettings(settings))
		fillValid(session)

		err := session.Save(context.Background())
		Expect(err).To(MatchError(usecases.ErrStoreNotWritable))
		Expect(session.RecordsSaved()).To(BeZero())
		Expect(value(session, domain.FieldTechnician)).To(Equal("J Simms"))
		Expect(value(session, domain.FieldPlot)).To(Equal("3"))
	})

	It("should move on to the next plot after appending", func() {
		autofill(true, true)
		repository.EXPECT().
			Save(gomock.Any(), gomock.Any(), gomock.Nil()).
			DoAndReturn(func(_ context.Context, record domain.Record, _ *int) error {
				Expect(record).To(HaveKeyWithValue(domain.FieldPlot, "3"))
				Expect(record).To(HaveKeyWithValue(domain.FieldEquipmentFault, false))
				return nil
			})

		session := usecases.NewSession(domain.ABQForm(), repository, usecases.WithSettings(settings))
		fillValid(session)

		Expect(session.Save(context.Background())).To(Succeed())
		Expect(session.RecordsSaved()).To(Equal(1))
		Expect(value(session, domain.FieldPlot)).To(Equal("4"))
		Expect(value(session, domain.FieldLab)).To(Equal("B"))
		Expect(value(session, domain.FieldSeedSample)).To(BeEmpty())
	})
})
