package history

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skufu/riskscope/internal/measure"
	"github.com/Skufu/riskscope/internal/risk"
)

func TestEncodeMessage(t *testing.T) {
	ts := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	e := Entry{
		ID:            "0190f1d2-0000-7000-8000-000000000001",
		ConditionID:   "heart",
		ConditionName: "Heart Disease",
		Score:         64,
		Tier:          risk.TierHigh,
		Measurements:  measure.Measurements{"chest_pain": measure.Text("typical")},
		Timestamp:     ts,
	}

	msg, err := encodeMessage(e)
	require.NoError(t, err)

	assert.Equal(t, "heart", string(msg.Key))
	assert.Equal(t, ts, msg.Time)
	require.Len(t, msg.Headers, 2)
	assert.Equal(t, "High", string(msg.Headers[1].Value))

	var decoded Entry
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, e.ID, decoded.ID)
	assert.Equal(t, 64, decoded.Score)
	assert.Equal(t, measure.Text("typical"), decoded.Measurements["chest_pain"])
}

func TestNewKafkaPublisher_DefaultTopic(t *testing.T) {
	p := NewKafkaPublisher([]string{"localhost:9092"}, "")
	assert.Equal(t, DefaultTopic, p.writer.Topic)
	assert.Equal(t, "kafka:"+DefaultTopic, p.Name())
	assert.Equal(t, kafkaMaxAttempts, p.writer.MaxAttempts)
	assert.Equal(t, kafkaWriteTimeout, p.writer.WriteTimeout)
	assert.NoError(t, p.Close())
}
