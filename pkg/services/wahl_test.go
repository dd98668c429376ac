package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/wahlware/wahlhost/pkg/models"
)

func timePtr(t time.Time) *time.Time {
	return &t
}

func TestDeriveWahl_StartedElectionBecomesActive(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	w := models.Wahl{
		IsScheduled: true,
		StartDate:   timePtr(now.Add(-time.Hour)),
	}

	d := deriveWahl(w, now)

	assert.True(t, d.IsActive)
	assert.False(t, d.IsCompleted)
	assert.Equal(t, models.WahlStatusActive, d.Status)
}

func TestDeriveWahl_EndedElectionCompletes(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	w := models.Wahl{
		IsScheduled: true,
		IsActive:    true,
		StartDate:   timePtr(now.Add(-48 * time.Hour)),
		EndDate:     timePtr(now.Add(-time.Hour)),
	}

	d := deriveWahl(w, now)

	assert.False(t, d.IsActive)
	assert.True(t, d.IsCompleted)
	assert.Equal(t, models.WahlStatusCompleted, d.Status)
}

func TestDeriveWahl_ArchivedForcesFlags(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	w := models.Wahl{
		IsArchived:  true,
		IsActive:    true,
		IsScheduled: true,
		StartDate:   timePtr(now.Add(-time.Hour)),
	}

	d := deriveWahl(w, now)

	assert.False(t, d.IsActive)
	assert.False(t, d.IsScheduled)
	assert.True(t, d.IsCompleted)
	assert.Equal(t, models.WahlStatusArchived, d.Status)
}

func TestDeriveWahl_UnscheduledClearsDates(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	w := models.Wahl{
		IsScheduled: false,
		StartDate:   timePtr(now.Add(-time.Hour)),
		EndDate:     timePtr(now.Add(time.Hour)),
	}

	d := deriveWahl(w, now)

	assert.Nil(t, d.StartDate)
	assert.Nil(t, d.EndDate)
	assert.Equal(t, models.WahlStatusDraft, d.Status)
}

func TestDeriveWahl_NotArchivedClearsArchiveDate(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	w := models.Wahl{
		IsArchived:  false,
		ArchiveDate: timePtr(now.Add(-24 * time.Hour)),
	}

	d := deriveWahl(w, now)

	assert.Nil(t, d.ArchiveDate)
}

func TestStatusOf_Precedence(t *testing.T) {
	cases := []struct {
		name string
		w    models.Wahl
		want string
	}{
		{"archived wins over everything", models.Wahl{IsArchived: true, HasResults: true, IsCompleted: true, IsActive: true}, models.WahlStatusArchived},
		{"results over completed", models.Wahl{HasResults: true, IsCompleted: true}, models.WahlStatusResults},
		{"completed over active", models.Wahl{IsCompleted: true, IsActive: true}, models.WahlStatusCompleted},
		{"active over queued", models.Wahl{IsActive: true, IsScheduled: true}, models.WahlStatusActive},
		{"queued over draft", models.Wahl{IsScheduled: true}, models.WahlStatusQueued},
		{"draft fallback", models.Wahl{}, models.WahlStatusDraft},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, statusOf(tc.w))
		})
	}
}

func TestWahlChanges_NoDrift(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	w := models.Wahl{
		Status:      models.WahlStatusQueued,
		IsScheduled: true,
		StartDate:   timePtr(now.Add(time.Hour)),
	}

	d := deriveWahl(w, now)
	assert.Empty(t, wahlChanges(&w, &d))
}

func TestWahlChanges_DetectsDrift(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	w := models.Wahl{
		Status:      models.WahlStatusQueued,
		IsScheduled: true,
		StartDate:   timePtr(now.Add(-time.Hour)),
	}

	d := deriveWahl(w, now)
	changes := wahlChanges(&w, &d)

	assert.Equal(t, models.WahlStatusActive, changes["status"])
	assert.Equal(t, true, changes["is_active"])
	assert.NotContains(t, changes, "start_date")
}
