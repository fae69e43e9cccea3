package types

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v3"
)

func TestTagsUnmarshalJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want Tags
	}{
		{"null", `null`, nil},
		{"empty", `[]`, Tags{}},
		{"strings", `["Go", " SQL ", ""]`, Tags{"Go", "SQL"}},
		{"objects", `[{"skillName":"React"},{"hobbyName":"chess"},{"name":"tea"}]`, Tags{"React", "chess", "tea"}},
		{"mixed", `["Go",{"interestName":"jazz"},{"other":"x"}]`, Tags{"Go", "jazz"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got Tags
			require.NoError(t, json.Unmarshal([]byte(tt.in), &got))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTagsUnmarshalJSONRejectsScalar(t *testing.T) {
	var got Tags
	assert.Error(t, json.Unmarshal([]byte(`"Go"`), &got))
	assert.Error(t, json.Unmarshal([]byte(`[1]`), &got))
}

func TestCandidateFromWire(t *testing.T) {
	data := `{
		"id": "u7", "login": "alisa", "name": "Alisa", "surName": "Orlova",
		"age": 26, "city": "Kazan", "describeUser": "Frontend developer",
		"skills": [{"skillName": "Vue"}], "interests": ["travel"], "hobbies": null
	}`
	var c Candidate
	require.NoError(t, json.Unmarshal([]byte(data), &c))

	assert.Equal(t, "Alisa Orlova", c.FullName())
	assert.Equal(t, "Frontend developer", c.Bio)
	assert.Equal(t, []string{"Vue", "travel"}, c.AllTags())
}

func TestCandidateFullName(t *testing.T) {
	assert.Equal(t, "Ilya", Candidate{Login: "ilya_ml", Name: "Ilya"}.FullName())
	assert.Equal(t, "ilya_ml", Candidate{Login: "ilya_ml", Name: "  "}.FullName())
}

func TestParseStrategy(t *testing.T) {
	for in, want := range map[string]Strategy{"": StrategyPoll, "poll": StrategyPoll, " Single ": StrategySingle} {
		got, err := ParseStrategy(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseStrategy("stream")
	assert.ErrorContains(t, err, `"stream"`)
}

func TestConfigWithDefaults(t *testing.T) {
	c := Config{}.WithDefaults()
	assert.Equal(t, DefaultBaseURL, c.BaseURL)
	assert.Equal(t, DefaultDataDir, c.DataDir)
	assert.Equal(t, StrategyPoll, c.Search.Strategy)
	assert.Equal(t, DefaultMaxAttempts, c.Search.MaxAttempts)
	assert.Equal(t, DefaultPollInterval, c.Search.PollInterval)

	custom := Config{Search: SearchConfig{Strategy: StrategySingle, MaxAttempts: 2}}.WithDefaults()
	assert.Equal(t, StrategySingle, custom.Search.Strategy)
	assert.Equal(t, 2, custom.Search.MaxAttempts)
}

func TestHistoryEntryYAMLInlinesRun(t *testing.T) {
	start := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	e := HistoryEntry{
		SearchRun:  SearchRun{ID: "r1", Query: "go", Phase: "succeeded", StartedAt: start, FinishedAt: start.Add(time.Second)},
		Candidates: []Candidate{{ID: "u1", Login: "maria_code"}},
	}
	out, err := yaml.Marshal(e)
	require.NoError(t, err)

	var back map[string]any
	require.NoError(t, yaml.Unmarshal(out, &back))
	assert.Equal(t, "r1", back["id"])
	assert.Equal(t, "go", back["query"])
	assert.Len(t, back["candidates"], 1)
	assert.Equal(t, time.Second, e.Duration())
}
