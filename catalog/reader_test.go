package catalog

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/poiesic/cinevec/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCSV = `show_id,type,title,director,cast,country,date_added,release_year,rating,duration,listed_in,description
s1,Movie,Dick Johnson Is Dead,Kirsten Johnson,,United States,"September 25, 2021",2020,PG-13,90 min,Documentaries,"As her father nears the end of his life, filmmaker Kirsten Johnson stages his death."
s2,TV Show,Blood & Water,,"Ama Qamata, Khosi Ngema",South Africa,"September 24, 2021",,TV-MA,2 Seasons,"International TV Shows, TV Dramas",After crossing paths at a party.
`

func TestReadAll(t *testing.T) {
	records, err := ReadAll(strings.NewReader(sampleCSV))
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "s1", records[0].ShowID)
	assert.Equal(t, "September 25, 2021", records[0].DateAdded)
	require.NotNil(t, records[0].ReleaseYear)
	assert.Equal(t, 2020, *records[0].ReleaseYear)
	assert.Contains(t, records[0].Description, "father nears the end")

	assert.Equal(t, "Ama Qamata, Khosi Ngema", records[1].Cast)
	assert.Equal(t, "International TV Shows, TV Dramas", records[1].ListedIn)
	assert.Nil(t, records[1].ReleaseYear)
}

func TestReadAll_ColumnOrderAndUnknownColumns(t *testing.T) {
	input := "title,extra,show_id,release_year\nArrival,ignored,s15,2016.0\n"

	records, err := ReadAll(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "s15", records[0].ShowID)
	assert.Equal(t, "Arrival", records[0].Title)
	assert.Equal(t, 2016, *records[0].ReleaseYear)
	assert.Empty(t, records[0].Director)
}

func TestReadAll_UnparseableYearIsNull(t *testing.T) {
	records, err := ReadAll(strings.NewReader("show_id,release_year\ns1,unknown\n"))
	require.NoError(t, err)
	assert.Nil(t, records[0].ReleaseYear)
}

func TestReader_Errors(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		contains string
	}{
		{"empty input", "", "empty input"},
		{"no key column", "title,type\nA,Movie\n", "show_id"},
		{"wrong field count", "show_id,title\ns1,A\ns2\n", "line 3"},
		{"missing key", "show_id,title\ns1,A\n,B\n", "line 3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadAll(strings.NewReader(tt.input))
			require.Error(t, err)
			assert.ErrorIs(t, err, core.ErrValidation)
			assert.Contains(t, err.Error(), tt.contains)
		})
	}
}

func TestReader_Streaming(t *testing.T) {
	reader, err := NewReader(strings.NewReader(sampleCSV))
	require.NoError(t, err)

	first, err := reader.Read()
	require.NoError(t, err)
	assert.Equal(t, "s1", first.ShowID)

	_, err = reader.Read()
	require.NoError(t, err)

	_, err = reader.Read()
	assert.True(t, errors.Is(err, io.EOF))
}

func TestSample(t *testing.T) {
	records := Sample()
	seen := make(map[string]bool)
	for _, r := range records {
		require.NoError(t, core.ValidateSourceRecord(r))
		assert.False(t, seen[r.ShowID], "duplicate %s", r.ShowID)
		seen[r.ShowID] = true
	}
	assert.GreaterOrEqual(t, len(records), 10)
}
