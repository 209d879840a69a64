package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDemographicService_LoadRecords(t *testing.T) {
	path := writeTempCSV(t, `District code,Literate,Female_Literate,SC,ST,Households,Population
1,700,300,100,50,200,1000
0002,500,200,10,5,100,800
`)

	records, err := NewDemographicService(path).LoadRecords()
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "0001", records[0].DistrictCode)
	assert.Equal(t, 700.0, records[0].LiterateCount)
	assert.Equal(t, 1000.0, records[0].Population)
	assert.Equal(t, "0002", records[1].DistrictCode, "pre-padded codes stay unchanged")
}

func TestDemographicService_NonNumericFails(t *testing.T) {
	path := writeTempCSV(t, `District code,Literate,Female_Literate,SC,ST,Households,Population
1,700,300,100,50,n/a,1000
`)

	_, err := NewDemographicService(path).LoadRecords()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"Households"`)
	assert.Contains(t, err.Error(), "row 2")
}

func TestDemographicService_DuplicateCodeKeepsFirst(t *testing.T) {
	path := writeTempCSV(t, `District code,Literate,Female_Literate,SC,ST,Households,Population
1,700,300,100,50,200,1000
01,999,999,999,999,999,9999
`)

	records, err := NewDemographicService(path).LoadRecords()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, 700.0, records[0].LiterateCount)
}
