package steps

import (
	"context"
	"errors"

	"abq-data-entry/internal/dataentry/domain"
	"abq-data-entry/internal/dataentry/usecases"

	"github.com/cucumber/godog"
)

func (fc *FeatureContext) theSettingIs(key, state string) error {
	if err := fc.driver.Settings().Set(key, state == "on"); err != nil {
		return err
	}
	fc.driver.Restart()
	return nil
}

func (fc *FeatureContext) iFillInTheFormWith(table *godog.Table) error {
	for _, row := range table.Rows[1:] {
		if err := fc.driver.Enter(row.Cells[0].Value, row.Cells[1].Value); err != nil {
			return err
		}
	}
	return nil
}

func (fc *FeatureContext) iFillInAValidRecordForPlot(plot string) error {
	values := [][2]string{
		{domain.FieldDate, "2024-05-06"},
		{domain.FieldTime, "8:00"},
		{domain.FieldTechnician, "J Simms"},
		{domain.FieldLab, "A"},
		{domain.FieldPlot, plot},
		{domain.FieldSeedSample, "AX478"},
		{domain.FieldHumidity, "24.50"},
		{domain.FieldLight, "50.25"},
		{domain.FieldTemperature, "21"},
		{domain.FieldPlants, "10"},
		{domain.FieldBlossoms, "20"},
		{domain.FieldFruit, "5"},
		{domain.FieldMinHeight, "2"},
		{domain.FieldMaxHeight, "10"},
		{domain.FieldMedHeight, "6"},
	}
	for _, v := range values {
		if err := fc.driver.Enter(v[0], v[1]); err != nil {
			return err
		}
	}
	return nil
}

func (fc *FeatureContext) iEnterInto(value, name string) error {
	return fc.driver.Enter(name, value)
}

func (fc *FeatureContext) iTypeInto(text, name string) error {
	return fc.driver.Type(name, text)
}

func (fc *FeatureContext) iSaveTheForm() error {
	fc.saveErr = fc.driver.Save(context.Background())
	return nil
}

func (fc *FeatureContext) theFieldShouldShow(name, value string) error {
	state, err := fc.driver.Session().Field(name)
	fc.require.NoError(err)
	fc.require.Equal(value, state.Value)
	return nil
}

func (fc *FeatureContext) theFieldShouldBe(name, status string) error {
	state, err := fc.driver.Session().Field(name)
	fc.require.NoError(err)
	fc.require.Equal(status == "disabled", state.Disabled)
	return nil
}

func (fc *FeatureContext) theFieldShouldHaveTheError(name, message string) error {
	state, err := fc.driver.Session().Field(name)
	fc.require.NoError(err)
	fc.require.Equal(message, state.Error)
	return nil
}

func (fc *FeatureContext) theSaveShouldSucceed() error {
	fc.require.NoError(fc.saveErr)
	return nil
}

func (fc *FeatureContext) theSaveShouldFailFor(name string) error {
	fc.require.ErrorIs(fc.saveErr, usecases.ErrInvalidForm)

	var formErrs *usecases.FormErrors
	fc.require.True(errors.As(fc.saveErr, &formErrs))
	fc.require.Contains(formErrs.Fields, name)
	return nil
}

func (fc *FeatureContext) theSheetShouldContainRecords(count int) error {
	records, err := fc.driver.Records(context.Background())
	fc.require.NoError(err)
	fc.require.Len(records, count)
	return nil
}

func (fc *FeatureContext) recordShouldHaveSetTo(position int, name, value string) error {
	records, err := fc.driver.Records(context.Background())
	fc.require.NoError(err)
	fc.require.Greater(len(records), position)
	fc.require.Equal(value, records[position].Text(name))
	return nil
}

func (fc *FeatureContext) recordsShouldBeSavedThisSession(count int) error {
	fc.require.Equal(count, fc.driver.Session().RecordsSaved())
	return nil
}
