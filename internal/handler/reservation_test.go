package handler

import (
    "testing"
    "time"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
)

func TestNormalizeWindow_StartEndPair(t *testing.T) {
    w, err := normalizeWindow(createReservationReq{
        StartDate: "2025-06-01T10:00:00Z",
        EndDate:   "2025-06-01T12:30:00Z",
    })
    require.NoError(t, err)
    assert.Equal(t, time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC), w.Start)
    assert.Equal(t, time.Date(2025, 6, 1, 12, 30, 0, 0, time.UTC), w.End)
}

func TestNormalizeWindow_BareDateGetsPointBooking(t *testing.T) {
    w, err := normalizeWindow(createReservationReq{Date: "2025-06-01"})
    require.NoError(t, err)
    assert.Equal(t, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), w.Start)
    assert.Equal(t, w.Start.Add(pointBookingLength), w.End)
}

func TestNormalizeWindow_RFC3339Date(t *testing.T) {
    w, err := normalizeWindow(createReservationReq{Date: "2025-06-01T09:00:00+02:00"})
    require.NoError(t, err)
    assert.Equal(t, time.Date(2025, 6, 1, 7, 0, 0, 0, time.UTC), w.Start, "input is normalized to UTC")
}

func TestNormalizeWindow_PairWinsOverBareDate(t *testing.T) {
    w, err := normalizeWindow(createReservationReq{
        Date:      "2025-07-15",
        StartDate: "2025-06-01T10:00:00Z",
        EndDate:   "2025-06-01T11:00:00Z",
    })
    require.NoError(t, err)
    assert.Equal(t, time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC), w.Start)
}

func TestNormalizeWindow_Invalid(t *testing.T) {
    cases := []struct {
        name string
        req  createReservationReq
    }{
        {"empty request", createReservationReq{}},
        {"garbage date", createReservationReq{Date: "next tuesday"}},
        {"pair missing end", createReservationReq{StartDate: "2025-06-01T10:00:00Z"}},
        {"pair with bad start", createReservationReq{StartDate: "01/06/2025", EndDate: "2025-06-01T11:00:00Z"}},
    }
    for _, tc := range cases {
        t.Run(tc.name, func(t *testing.T) {
            _, err := normalizeWindow(tc.req)
            assert.Error(t, err)
        })
    }
}
