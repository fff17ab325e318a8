package dish

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseType(t *testing.T) {
	for _, typ := range Types() {
		got, ok := ParseType(string(typ))
		assert.True(t, ok)
		assert.Equal(t, typ, got)
	}

	got, ok := ParseType("burger")
	assert.False(t, ok)
	assert.Equal(t, TypeNone, got)
}

func TestDefaultTable(t *testing.T) {
	d := DefaultTable()

	assert.Equal(t, NoAttributes{}, d.For(TypeNone))
	assert.Equal(t, PizzaAttributes{NoOfSlices: 0, Diameter: 0}, d.For(TypePizza))
	assert.Equal(t, SoupAttributes{SpicinessScale: 5}, d.For(TypeSoup))
	assert.Equal(t, SandwichAttributes{SlicesOfBread: 0}, d.For(TypeSandwich))
	assert.Equal(t, NoAttributes{}, d.For(Type("burger")))
}

func TestNewDefaults_IgnoresMismatchedVariants(t *testing.T) {
	d := NewDefaults(map[Type]Attributes{
		TypeSoup: PizzaAttributes{NoOfSlices: 8},
	})

	got := d.For(TypeSoup)
	assert.Equal(t, TypeSoup, got.Type())
	assert.Equal(t, SoupAttributes{}, got)
}

func TestAttributes_With(t *testing.T) {
	a, err := PizzaAttributes{}.With(FieldDiameter, 30.5)
	require.NoError(t, err)
	n, ok := a.Get(FieldDiameter)
	assert.True(t, ok)
	assert.Equal(t, Number(30.5), n)

	_, err = SoupAttributes{}.With(FieldDiameter, 1)
	var unknown *ErrUnknownField
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, FieldDiameter, unknown.Field)
	assert.Equal(t, TypeSoup, unknown.Type)

	_, err = NoAttributes{}.With(FieldSlicesOfBread, 1)
	assert.Error(t, err)
}

func TestValidate_DefaultRecord(t *testing.T) {
	v := Validate(DefaultRecord())

	assert.Equal(t, []string{FieldName, FieldPreparationTime, FieldType}, v.Fields())
	assert.False(t, v.AllValid())
	assert.ElementsMatch(t, []string{FieldName, FieldPreparationTime, FieldType}, v.Invalid())
}

func TestValidate_PizzaWithUnsetAttributes(t *testing.T) {
	r := Record{
		Name:            "Margherita",
		PreparationTime: "00:15:00",
		Type:            string(TypePizza),
		Attributes:      DefaultTable().For(TypePizza),
	}

	v := Validate(r)
	assert.Equal(t, []string{FieldName, FieldPreparationTime, FieldType, FieldNoOfSlices, FieldDiameter}, v.Fields())
	assert.False(t, v.AllValid())
	assert.Equal(t, []string{FieldNoOfSlices, FieldDiameter}, v.Invalid())
}

func TestValidate_UnknownTypeIsInvalid(t *testing.T) {
	r := DefaultRecord()
	r.Name = "Burger"
	r.PreparationTime = "00:10:00"
	r.Type = "burger"

	valid, ok := Validate(r).Get(FieldType)
	assert.True(t, ok)
	assert.False(t, valid)
}

func TestValidate_Idempotent(t *testing.T) {
	r := Record{
		Name:            "Tomato",
		PreparationTime: "00:20:00",
		Type:            string(TypeSoup),
		Attributes:      SoupAttributes{SpicinessScale: 5},
	}
	assert.Equal(t, Validate(r), Validate(r))
	assert.True(t, Validate(r).AllValid())
}

func TestPayload_MarshalKeepsOrder(t *testing.T) {
	r := Record{
		Name:            "Margherita",
		PreparationTime: "00:15:00",
		Type:            string(TypePizza),
		Attributes:      PizzaAttributes{NoOfSlices: 4, Diameter: 30.5},
	}

	data, err := json.Marshal(NewPayload(r))
	require.NoError(t, err)
	assert.Equal(t,
		`{"name":"Margherita","preparation_time":"00:15:00","type":"pizza","no_of_slices":4,"diameter":30.5}`,
		string(data))
}

func TestPayload_NaNEncodesAsNull(t *testing.T) {
	r := Record{
		Name:            "Club",
		PreparationTime: "00:05:00",
		Type:            string(TypeSandwich),
		Attributes:      SandwichAttributes{SlicesOfBread: NaN()},
	}

	data, err := json.Marshal(NewPayload(r))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"slices_of_bread":null`)
}
