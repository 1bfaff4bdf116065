package repositories

import (
	"encoding/json"
	"testing"

	"feedesk/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func TestDecodePayload_KeepsAmountsExact(t *testing.T) {
	payload := datatypes.JSON(`{"fees":{"E1":{"ষষ্ঠ":2200,"সপ্তম":"1,100","অষ্টম":9007199254740993,"নবম":450.5}}}`)

	var doc models.ExamSpecificFees
	require.NoError(t, decodePayload(payload, &doc))

	fees := doc.Fees["E1"]
	assert.Equal(t, json.Number("2200"), fees["ষষ্ঠ"])
	assert.Equal(t, "1,100", fees["সপ্তম"])
	assert.Equal(t, json.Number("9007199254740993"), fees["অষ্টম"])
	assert.Equal(t, json.Number("450.5"), fees["নবম"])
}

func TestDecodePayload_ClassWise(t *testing.T) {
	var doc models.ClassWiseFees
	require.NoError(t, decodePayload([]byte(`{"exam_fees":{"1":300,"2":null}}`), &doc))

	assert.Equal(t, json.Number("300"), doc.ExamFees["1"])
	assert.Nil(t, doc.ExamFees["2"])
}

func TestDecodePayload_Malformed(t *testing.T) {
	var doc models.ClassWiseFees
	assert.Error(t, decodePayload([]byte(`{"exam_fees":`), &doc))
}
