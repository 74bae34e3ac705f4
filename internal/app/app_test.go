package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/ficopilot/internal/models"
)

func TestNewApp_Defaults(t *testing.T) {
	a, err := NewApp("")
	require.NoError(t, err)
	defer a.Close()

	assert.Equal(t, 8080, a.Config.Server.Port)
	assert.NotNil(t, a.Sessions)
	assert.NotNil(t, a.ReportService)
	assert.NotNil(t, a.QueryService)
	assert.NotNil(t, a.Renderer)
}

func TestNewApp_EnvOverride(t *testing.T) {
	t.Setenv("FICOPILOT_PORT", "9191")

	a, err := NewApp("")
	require.NoError(t, err)
	defer a.Close()

	assert.Equal(t, 9191, a.Config.Server.Port)
}

func TestApp_ServicesAreWired(t *testing.T) {
	a, err := NewApp("")
	require.NoError(t, err)
	defer a.Close()

	session := a.Sessions.Create(&models.Workbook{
		Actuals: []models.LedgerRow{
			{Month: "2025-06", AccountCategory: "Revenue", Amount: 100000},
		},
	})

	got, ok := a.Sessions.Get(session.ID)
	require.True(t, ok)

	ans := a.QueryService.Answer(got.Workbook, "What was revenue in June 2025?")
	assert.Equal(t, "Revenue for 2025-06: $100,000", ans.Text)
}

func TestApp_JanitorStartStop(t *testing.T) {
	a, err := NewApp("")
	require.NoError(t, err)

	a.StartSessionJanitor()
	time.Sleep(10 * time.Millisecond)
	a.Close()
}
