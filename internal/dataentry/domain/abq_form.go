package domain

import "strconv"

const (
	FieldDate           = "Date"
	FieldTime           = "Time"
	FieldTechnician     = "Technician"
	FieldLab            = "Lab"
	FieldPlot           = "Plot"
	FieldSeedSample     = "Seed Sample"
	FieldHumidity       = "Humidity"
	FieldLight          = "Light"
	FieldTemperature    = "Temperature"
	FieldEquipmentFault = "Equipment Fault"
	FieldPlants         = "Plants"
	FieldBlossoms       = "Blossoms"
	FieldFruit          = "Fruit"
	FieldMinHeight      = "Min Height"
	FieldMaxHeight      = "Max Height"
	FieldMedHeight      = "Med Height"
	FieldNotes          = "Notes"
)

// ABQForm is the AgriLabs plot measurement sheet.
func ABQForm() Form {
	plots := make([]string, 20)
	for i := range plots {
		plots[i] = strconv.Itoa(i + 1)
	}

	form, err := NewFormBuilder().
		WithField(FieldDefinition{Name: FieldDate, Type: FieldTypeISODate, IsRequired: true}).
		WithField(FieldDefinition{Name: FieldTime, Type: FieldTypeStringList, IsRequired: true, Values: []string{"8:00", "12:00", "16:00", "20:00"}}).
		WithField(FieldDefinition{Name: FieldTechnician, Type: FieldTypeString, IsRequired: true}).
		WithField(FieldDefinition{Name: FieldLab, Type: FieldTypeShortStringList, IsRequired: true, Values: []string{"A", "B", "C"}}).
		WithField(FieldDefinition{Name: FieldPlot, Type: FieldTypeStringList, IsRequired: true, Values: plots}).
		WithField(FieldDefinition{Name: FieldSeedSample, Type: FieldTypeString, IsRequired: true}).
		WithField(FieldDefinition{Name: FieldHumidity, Type: FieldTypeDecimal, IsRequired: true, Min: "0.5", Max: "52.0", Increment: "0.01"}).
		WithField(FieldDefinition{Name: FieldLight, Type: FieldTypeDecimal, IsRequired: true, Min: "0", Max: "100.0", Increment: "0.01"}).
		WithField(FieldDefinition{Name: FieldTemperature, Type: FieldTypeDecimal, IsRequired: true, Min: "4", Max: "40", Increment: "0.01"}).
		WithField(FieldDefinition{Name: FieldEquipmentFault, Type: FieldTypeBoolean}).
		WithField(FieldDefinition{Name: FieldPlants, Type: FieldTypeInteger, IsRequired: true, Min: "0", Max: "20"}).
		WithField(FieldDefinition{Name: FieldBlossoms, Type: FieldTypeInteger, IsRequired: true, Min: "0", Max: "1000"}).
		WithField(FieldDefinition{Name: FieldFruit, Type: FieldTypeInteger, IsRequired: true, Min: "0", Max: "1000"}).
		WithField(FieldDefinition{Name: FieldMinHeight, Type: FieldTypeDecimal, IsRequired: true, Min: "0", Max: "1000", Increment: "0.01"}).
		WithField(FieldDefinition{Name: FieldMaxHeight, Type: FieldTypeDecimal, IsRequired: true, Min: "0", Max: "1000", Increment: "0.01"}).
		WithField(FieldDefinition{Name: FieldMedHeight, Type: FieldTypeDecimal, IsRequired: true, Min: "0", Max: "1000", Increment: "0.01"}).
		WithField(FieldDefinition{Name: FieldNotes, Type: FieldTypeLongString}).
		WithToggle(FieldEquipmentFault, FieldHumidity, FieldLight, FieldTemperature).
		WithBoundLink(FieldMinHeight, LowerEdge, FieldMaxHeight, FieldMedHeight).
		WithBoundLink(FieldMaxHeight, UpperEdge, FieldMinHeight, FieldMedHeight).
		Build()
	if err != nil {
		panic(err)
	}
	return form
}
