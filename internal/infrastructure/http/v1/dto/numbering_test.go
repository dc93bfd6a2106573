package dto

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"suratdesa/internal/core/id"
	"suratdesa/internal/domain/numbering"
)

func bindReserveRequest(t *testing.T, body string) (ReserveNumberRequest, error) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	var req ReserveNumberRequest
	err := c.ShouldBindJSON(&req)
	return req, err
}

func TestReserveNumberRequest_BindsDeskKeys(t *testing.T) {
	req, err := bindReserveRequest(t, `{"jenisSurat":"surat-keterangan-umum","nomorUrutManual":7}`)
	require.NoError(t, err)
	assert.Equal(t, "surat-keterangan-umum", req.LetterType)
	require.NotNil(t, req.ManualSeq)
	assert.Equal(t, int64(7), *req.ManualSeq)
}

func TestReserveNumberRequest_ManualValueOptional(t *testing.T) {
	req, err := bindReserveRequest(t, `{"jenisSurat":"N1"}`)
	require.NoError(t, err)
	assert.Equal(t, "N1", req.LetterType)
	assert.Nil(t, req.ManualSeq)
}

func TestReserveNumberRequest_LetterTypeRequired(t *testing.T) {
	_, err := bindReserveRequest(t, `{"nomorUrutManual":7}`)
	require.Error(t, err)
}

func TestReservationResponse_DeskKeys(t *testing.T) {
	res := &numbering.Reservation{
		ID:              id.New(),
		LetterType:      "surat-keterangan-umum",
		PeriodKey:       "2025",
		SequenceValue:   145,
		FormattedNumber: "145/01/II/2025",
		Status:          numbering.StatusPending,
		CreatedAt:       time.Date(2025, time.February, 3, 8, 0, 0, 0, time.UTC),
	}

	raw, err := json.Marshal(FromReservation(res))
	require.NoError(t, err)

	var body map[string]any
	require.NoError(t, json.Unmarshal(raw, &body))
	assert.Equal(t, "145/01/II/2025", body["nomorSurat"])
	assert.Equal(t, "2025", body["periode"])
	assert.Equal(t, "surat-keterangan-umum", body["jenisSurat"])
	assert.Contains(t, body, "id")
}
