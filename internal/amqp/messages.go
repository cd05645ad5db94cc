package amqp

import (
	"encoding/json"
	"fmt"
	"time"

	"expensetracker/internal/core"

	"github.com/google/uuid"
)

// DigestMessage carries the insights of one owner and period.
type DigestMessage struct {
	ID          string         `json:"id"`
	OwnerID     int64          `json:"owner_id"`
	PeriodStart string         `json:"period_start"`
	PeriodEnd   string         `json:"period_end"`
	Insights    []core.Insight `json:"insights"`
	GeneratedAt time.Time      `json:"generated_at"`
}

func NewDigestMessage(owner core.OwnerID, period core.Period, insights []core.Insight) *DigestMessage {
	if insights == nil {
		insights = []core.Insight{}
	}
	return &DigestMessage{
		ID:          uuid.NewString(),
		OwnerID:     int64(owner),
		PeriodStart: period.Start.String(),
		PeriodEnd:   period.End.String(),
		Insights:    insights,
		GeneratedAt: time.Now().UTC(),
	}
}

func (m *DigestMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// Period parses the message bounds.
func (m *DigestMessage) Period() (core.Period, error) {
	start, err := core.ParseDate(m.PeriodStart)
	if err != nil {
		return core.Period{}, err
	}
	end, err := core.ParseDate(m.PeriodEnd)
	if err != nil {
		return core.Period{}, err
	}
	return core.NewPeriod(start, end)
}

// DigestMessageFromJSON decodes and checks a digest.
func DigestMessageFromJSON(data []byte) (*DigestMessage, error) {
	var msg DigestMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if _, err := uuid.Parse(msg.ID); err != nil {
		return nil, fmt.Errorf("digest id: %w", err)
	}
	if msg.OwnerID <= 0 {
		return nil, fmt.Errorf("digest %s: %w", msg.ID, core.ErrInvalidOwner)
	}
	if _, err := msg.Period(); err != nil {
		return nil, fmt.Errorf("digest %s: %w", msg.ID, err)
	}
	return &msg, nil
}
