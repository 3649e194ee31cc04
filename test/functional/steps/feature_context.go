package steps

import (
	"context"
	"os"
	"time"

	"abq-data-entry/test/functional/driver"

	"github.com/cucumber/godog"
	"github.com/stretchr/testify/require"
)

type FeatureContext struct {
	driver  *driver.SessionDriver
	dir     string
	saveErr error
	require *require.Assertions
	t       godog.TestingT
}

func NewFeatureContext() *FeatureContext {
	return &FeatureContext{}
}

func (fc *FeatureContext) RegisterSteps(ctx *godog.ScenarioContext) {
	// Session steps
	ctx.Given(`^a new data entry session on (\d{4}-\d{2}-\d{2})$`, fc.aNewDataEntrySessionOn)
	ctx.Given(`^the setting "([^"]*)" is (on|off)$`, fc.theSettingIs)
	ctx.When(`^I fill in the form with:$`, fc.iFillInTheFormWith)
	ctx.When(`^I fill in a valid record for plot "([^"]*)"$`, fc.iFillInAValidRecordForPlot)
	ctx.When(`^I enter "([^"]*)" into "([^"]*)"$`, fc.iEnterInto)
	ctx.When(`^I type "([^"]*)" into "([^"]*)"$`, fc.iTypeInto)
	ctx.When(`^I save the form$`, fc.iSaveTheForm)

	// Field steps
	ctx.Then(`^the field "([^"]*)" should show "([^"]*)"$`, fc.theFieldShouldShow)
	ctx.Then(`^the field "([^"]*)" should be (disabled|enabled)$`, fc.theFieldShouldBe)
	ctx.Then(`^the field "([^"]*)" should have the error "([^"]*)"$`, fc.theFieldShouldHaveTheError)

	// Record steps
	ctx.Then(`^the save should succeed$`, fc.theSaveShouldSucceed)
	ctx.Then(`^the save should fail for "([^"]*)"$`, fc.theSaveShouldFailFor)
	ctx.Then(`^the sheet should contain (\d+) records?$`, fc.theSheetShouldContainRecords)
	ctx.Then(`^record (\d+) should have "([^"]*)" set to "([^"]*)"$`, fc.recordShouldHaveSetTo)
	ctx.Then(`^(\d+) records? should be saved this session$`, fc.recordsShouldBeSavedThisSession)

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		fc.t = godog.T(ctx)
		fc.require = require.New(fc.t)

		return ctx, fc.reset()
	})

	ctx.After(func(ctx context.Context, sc *godog.Scenario, err error) (context.Context, error) {
		if fc.dir != "" {
			_ = os.RemoveAll(fc.dir)
		}
		return ctx, err
	})
}

func (fc *FeatureContext) reset() error {
	dir, err := os.MkdirTemp("", "abq-functional-*")
	if err != nil {
		return err
	}
	fc.dir = dir
	fc.driver = nil
	fc.saveErr = nil
	return nil
}

func (fc *FeatureContext) aNewDataEntrySessionOn(date string) error {
	today, err := time.Parse("2006-01-02", date)
	if err != nil {
		return err
	}
	fc.driver, err = driver.NewSessionDriver(fc.dir, today)
	return err
}
