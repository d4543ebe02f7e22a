package factory

import (
	"context"
	"time"

	"github.com/mcoot/fantasyhockey/internal/dependencies/mocks"
	"github.com/mcoot/fantasyhockey/internal/nhl"
	"github.com/mcoot/fantasyhockey/internal/nhl/nhltest"
	"github.com/mcoot/fantasyhockey/internal/storage/memory"
	"github.com/mcoot/fantasyhockey/internal/testutil"
)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock  *mocks.MockClock
	MockRandom *mocks.MockRandom

	// NHL serves schedules, boxscores and rosters to the real client
	NHL *nhltest.FakeServer
	// Injuries is the injury report, "First Last" to status
	Injuries StaticInjuries
}

// StaticInjuries is a fixed injury report
type StaticInjuries map[string]string

// InjuredPlayers returns a copy of the report
func (s StaticInjuries) InjuredPlayers(context.Context) (map[string]string, error) {
	out := make(map[string]string, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out, nil
}

// NewTestApp creates an App configured for testing with mocked dependencies.
// The clock starts on the morning of the 2025 season opener in New York.
// Call Close to stop the fake NHL server.
func NewTestApp() *TestApp {
	store := memory.New()
	mockClock := mocks.NewMockClock(time.Date(2025, 10, 7, 14, 0, 0, 0, time.UTC))
	mockRandom := mocks.NewMockRandom()
	fake := nhltest.NewFakeServer()
	injuries := StaticInjuries{}
	logger := testutil.NopLogger()

	cfg := DefaultConfig()
	cfg.Season.Location = testutil.MustLocation("America/New_York")
	cfg.Ingest.SweepDelay = 0
	cfg.Ingest.Teams = []string{"BOS", "TOR"}
	cfg.Gate.CacheTTL = 0

	nhlCfg := nhl.DefaultConfig()
	nhlCfg.BaseURL = fake.URL()
	provider := nhl.New(nhlCfg, logger)

	app := newWithDependencies(store, mockClock, mockRandom, provider, injuries, cfg, logger)

	return &TestApp{
		App:        app,
		MockClock:  mockClock,
		MockRandom: mockRandom,
		NHL:        fake,
		Injuries:   injuries,
	}
}

// Close stops the fake NHL server
func (t *TestApp) Close() {
	t.NHL.Close()
}
