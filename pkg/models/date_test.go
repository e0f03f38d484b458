package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate_Layouts(t *testing.T) {
	d, err := ParseDate("20230115")
	require.NoError(t, err)
	assert.Equal(t, NewDate(2023, time.January, 15), d)

	d, err = ParseDate(" 2023-01-15 ")
	require.NoError(t, err)
	assert.Equal(t, "2023-01-15", d.String())

	d, err = ParseDate("")
	require.NoError(t, err)
	assert.True(t, d.IsZero())

	_, err = ParseDate("15.01.2023")
	assert.Error(t, err)
}

func TestDate_JSON(t *testing.T) {
	type wrapper struct {
		A Date `json:"a"`
		B Date `json:"b"`
	}
	out, err := json.Marshal(wrapper{A: NewDate(2020, time.March, 1)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":"2020-03-01","b":null}`, string(out))

	var back wrapper
	require.NoError(t, json.Unmarshal(out, &back))
	assert.Equal(t, NewDate(2020, time.March, 1), back.A)
	assert.True(t, back.B.IsZero())
}

func TestDate_DaysSince(t *testing.T) {
	end := NewDate(2022, time.December, 31)
	sub := NewDate(2023, time.October, 27)
	assert.Equal(t, 300, sub.DaysSince(end))
}

func TestFiscalYear_CloneIsDeep(t *testing.T) {
	v := 1.5
	y := FiscalYear{
		Indicators: map[string]*Indicator{"x": {Value: 1, Level: RiskLow}},
		Trends:     map[string]*float64{"t": &v},
	}
	c := y.Clone()
	c.Indicators["x"].Value = 9
	*c.Trends["t"] = 9
	c.Indicators["y"] = nil

	assert.Equal(t, 1.0, y.Indicators["x"].Value)
	assert.Equal(t, 1.5, *y.Trends["t"])
	assert.NotContains(t, y.Indicators, "y")
}
