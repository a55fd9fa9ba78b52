package fetcher

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"
	"strconv"
	"sync"
	"time"

	"heating_monitor/internal/models"
)

// Mock generator constants.
const (
	mockDefaultBase = 20.0
	mockJitter      = 1.0 // values stay within base ± mockJitter
	mockUnit        = "°C"
	mockName        = "Mock Variable"
	mockScaleFactor = 10 // raw values are reported ×10, like the controller
)

// mockBaseValues maps known controller addresses to plausible readings.
var mockBaseValues = map[string]float64{
	"112/10021/0/0/12161": 65.4, // boiler
	"112/10021/0/0/12001": 70.0, // boiler setpoint
	"112/10241/0/0/12197": 58.2, // buffer top
	"112/10241/0/0/12198": 45.1, // buffer middle
	"112/10241/0/0/12199": 32.8, // buffer bottom
	"120/10221/0/0/12115": 52.0, // hot water
	"120/10221/0/0/12101": 4.5,  // outdoor
	"120/10101/0/0/12241": 42.0, // flow
	"120/10101/0/0/12111": 21.5, // room
}

// MockBaseValue returns the value the mock jitters around for address.
func MockBaseValue(address string) float64 {
	if v, ok := mockBaseValues[address]; ok {
		return v
	}
	return mockDefaultBase
}

// MockFetcher generates readings without network access. It never fails.
type MockFetcher struct {
	mu  sync.Mutex
	rnd *rand.Rand
	now func() time.Time
}

// NewMockFetcher uses rnd for jitter; nil seeds from the runtime.
func NewMockFetcher(rnd *rand.Rand) *MockFetcher {
	if rnd == nil {
		rnd = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &MockFetcher{rnd: rnd, now: time.Now}
}

func (m *MockFetcher) Fetch(_ context.Context, address string, _ models.Config) (models.Reading, error) {
	m.mu.Lock()
	jitter := (m.rnd.Float64() - 0.5) * 2 * mockJitter
	m.mu.Unlock()

	value := math.Round((MockBaseValue(address)+jitter)*10) / 10

	return models.Reading{
		Address:        address,
		DisplayName:    mockName,
		RawValue:       strconv.FormatInt(int64(math.Round(value*mockScaleFactor)), 10),
		Unit:           mockUnit,
		FormattedValue: fmt.Sprintf("%.1f%s", value, mockUnit),
		CapturedAtMs:   m.now().UnixMilli(),
	}, nil
}
